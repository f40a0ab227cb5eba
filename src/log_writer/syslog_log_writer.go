package log_writer

import (
	"bytes"
	"context"
	"strings"
	"sync"

	"github.com/openshift/syslog-client/src/identity"
	"github.com/openshift/syslog-client/src/syslog_client"
	"github.com/sirupsen/logrus"
)

// SyslogLogWriter sends every line written to it as one syslog frame.
type SyslogLogWriter struct {
	log       logrus.FieldLogger
	client    syslog_client.SyslogClient
	overrides []identity.Override

	mu          sync.Mutex
	lastLogLine []byte
}

func NewSyslogLogWriter(logger logrus.FieldLogger, client syslog_client.SyslogClient, overrides ...identity.Override) *SyslogLogWriter {
	return &SyslogLogWriter{
		log:         logger,
		client:      client,
		overrides:   overrides,
		lastLogLine: []byte{},
	}
}

// Write never fails, lines that could not be sent are logged and dropped.
func (l *SyslogLogWriter) Write(p []byte) (n int, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastLogLine = append(l.lastLogLine, p...)
	for {
		i := bytes.IndexAny(l.lastLogLine, "\r\n")
		if i < 0 {
			break
		}
		l.send(string(l.lastLogLine[:i]))
		l.lastLogLine = l.lastLogLine[i+1:]
	}
	return len(p), nil
}

// Flush sends what is left of an unterminated last line.
func (l *SyslogLogWriter) Flush() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.send(string(l.lastLogLine))
	l.lastLogLine = []byte{}
}

func (l *SyslogLogWriter) send(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	if err := l.client.Log(context.Background(), line, l.overrides...); err != nil {
		l.log.WithError(err).Errorf("failed to send line to syslog: %s", line)
	}
}
