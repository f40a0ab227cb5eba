package log_hook

import (
	"context"
	"strings"

	"github.com/openshift/syslog-client/src/identity"
	"github.com/openshift/syslog-client/src/priority"
	"github.com/openshift/syslog-client/src/syslog_client"
	"github.com/sirupsen/logrus"
)

// SyslogHook forwards logrus entries to a syslog collector. The client must not
// log through a logger carrying this hook.
type SyslogHook struct {
	client    syslog_client.SyslogClient
	overrides []identity.Override
}

func NewSyslogHook(client syslog_client.SyslogClient, overrides ...identity.Override) *SyslogHook {
	return &SyslogHook{client: client, overrides: overrides}
}

func (hook *SyslogHook) getSeverity(entry *logrus.Entry) priority.Severity {
	switch entry.Level {
	case logrus.TraceLevel, logrus.DebugLevel:
		return priority.Debug
	case logrus.InfoLevel:
		return priority.Informational
	case logrus.WarnLevel:
		return priority.Warning
	case logrus.ErrorLevel:
		return priority.Error
	case logrus.FatalLevel:
		return priority.Critical
	case logrus.PanicLevel:
		return priority.Emergency
	default:
		return priority.Informational
	}
}

func (hook *SyslogHook) Fire(entry *logrus.Entry) error {
	line, err := entry.String()
	if err != nil {
		return err
	}
	ctx := entry.Context
	if ctx == nil {
		ctx = context.Background()
	}
	overrides := make([]identity.Override, 0, len(hook.overrides)+1)
	overrides = append(overrides, hook.overrides...)
	overrides = append(overrides, identity.WithSeverity(hook.getSeverity(entry)))
	return hook.client.Log(ctx, strings.TrimRight(line, "\n"), overrides...)
}

func (hook *SyslogHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func SetSyslogLogging(logger *logrus.Logger, client syslog_client.SyslogClient, overrides ...identity.Override) {
	logger.AddHook(NewSyslogHook(client, overrides...))
}
