package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/openshift/syslog-client/src/config"
	"github.com/openshift/syslog-client/src/events"
	"github.com/openshift/syslog-client/src/log_hook"
	"github.com/openshift/syslog-client/src/log_writer"
	"github.com/openshift/syslog-client/src/metrics"
	"github.com/openshift/syslog-client/src/ops/execute"
	"github.com/openshift/syslog-client/src/syslog_client"
	"github.com/openshift/syslog-client/src/utils"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

// Added this way to be able to test it
var exit = os.Exit

type cli struct {
	cfg      *config.Config
	log      *logrus.Logger
	client   syslog_client.SyslogClient
	executor execute.Execute
	stdin    io.Reader
}

func main() {
	cfg, err := config.ProcessArgs(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		exit(0)
	}
	if err != nil {
		log.Fatal(err.Error())
	}
	logger := utils.InitLogger(cfg.Verbose)
	id, err := cfg.Identity.Identity()
	if err != nil {
		logger.WithError(err).Fatal("Invalid identity")
	}
	logger.Debugf("Syslog client started. Configuration is:\n %+v", *cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	c := &cli{
		cfg:      cfg,
		log:      logger,
		client:   syslog_client.NewSyslogClient(cfg.Client, &id, &cfg.TCP, logger),
		executor: execute.NewExecutor(logger),
		stdin:    os.Stdin,
	}
	code := c.run(ctx)
	cancel()
	exit(code)
}

func (c *cli) run(ctx context.Context) int {
	subscription := c.client.Subscribe(c.logEvent)
	defer c.client.Unsubscribe(subscription)

	if c.cfg.MetricsFile != "" {
		registry := prometheus.NewRegistry()
		m, err := metrics.NewEventMetrics(registry)
		if err != nil {
			c.log.WithError(err).Error("Failed to set up metrics")
			return 1
		}
		metricsSubscription := c.client.Subscribe(m.Handle)
		defer c.client.Unsubscribe(metricsSubscription)
		defer c.writeMetrics(registry)
	}

	defer func() {
		if err := c.client.Disconnect(); err != nil {
			c.log.WithError(err).Warn("Failed to disconnect from the syslog collector")
		}
	}()

	if err := c.client.Connect(ctx); err != nil {
		c.log.WithError(err).Error("Failed to connect to the syslog collector")
		return 1
	}

	switch {
	case len(c.cfg.Command) > 0:
		return c.runCommand(ctx)
	case c.cfg.Message != "":
		if err := c.client.Log(ctx, c.cfg.Message); err != nil {
			c.log.WithError(err).Error("Failed to send message")
			return 1
		}
		return 0
	default:
		writer := log_writer.NewSyslogLogWriter(c.log, c.client)
		_, err := io.Copy(writer, c.stdin)
		writer.Flush()
		if err != nil {
			c.log.WithError(err).Error("Failed reading stdin")
			return 1
		}
		return 0
	}
}

// runCommand forwards the command output line by line and reports its failure
// to the collector as well.
func (c *cli) runCommand(ctx context.Context) int {
	writer := log_writer.NewSyslogLogWriter(c.log, c.client)
	_, err := c.executor.ExecCommandWithContext(ctx, writer, c.cfg.Command[0], c.cfg.Command[1:]...)
	writer.Flush()
	if err == nil {
		return 0
	}

	reporter := logrus.New()
	reporter.SetOutput(c.log.Out)
	reporter.SetFormatter(c.log.Formatter)
	log_hook.SetSyslogLogging(reporter, c.client)
	reporter.WithError(err).Errorf("Command %s failed", strings.Join(c.cfg.Command, " "))

	var execErr *execute.ExecCommandError
	if errors.As(err, &execErr) && execErr.WaitStatus > 0 {
		return execErr.WaitStatus
	}
	return 1
}

func (c *cli) logEvent(ev events.Event) {
	entry := c.log.WithField("event", ev.Type)
	if ev.Err != nil {
		entry = entry.WithError(ev.Err)
	}
	entry.Debug("Syslog session event")
}

func (c *cli) writeMetrics(registry *prometheus.Registry) {
	if err := prometheus.WriteToTextfile(c.cfg.MetricsFile, registry); err != nil {
		c.log.WithError(err).Warnf("Failed to write metrics to %s", c.cfg.MetricsFile)
	}
}
