package config

import (
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/openshift/syslog-client/src/identity"
	"github.com/openshift/syslog-client/src/priority"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/thoas/go-funk"
	"gopkg.in/yaml.v3"
)

const envPrefix = "syslog"

// IdentityConfig is the textual form of identity.Identity used by the file, env and flags.
type IdentityConfig struct {
	Facility       string `envconfig:"FACILITY" yaml:"facility"`
	Severity       string `envconfig:"SEVERITY" yaml:"severity"`
	AppName        string `envconfig:"APP_NAME" yaml:"appName"`
	SyslogHostname string `envconfig:"SYSLOG_HOSTNAME" yaml:"syslogHostname"`
	Pid            int    `envconfig:"PID" yaml:"pid"`
}

type Config struct {
	Client   ClientOptions  `envconfig:"CLIENT" yaml:"client"`
	Identity IdentityConfig `envconfig:"IDENTITY" yaml:"identity"`
	TCP      TCPOptions     `envconfig:"TCP" yaml:"tcp"`
	Verbose  bool           `envconfig:"VERBOSE" yaml:"verbose"`
	// Prometheus textfile the session counters are written to on exit
	MetricsFile string `envconfig:"METRICS_FILE" yaml:"metricsFile"`

	ConfigFile string   `envconfig:"CONFIG" yaml:"-"`
	Message    string   `ignored:"true" yaml:"-"`
	Command    []string `ignored:"true" yaml:"-"`
}

// Identity converts the configured names, unset facility and severity keep the USER/INFORMATIONAL defaults.
func (c IdentityConfig) Identity() (identity.Identity, error) {
	id := identity.DefaultIdentity()
	var err error
	if c.Facility != "" {
		if id.Facility, err = priority.ParseFacility(c.Facility); err != nil {
			return id, err
		}
	}
	if c.Severity != "" {
		if id.Severity, err = priority.ParseSeverity(c.Severity); err != nil {
			return id, err
		}
	}
	id.AppName = c.AppName
	id.SyslogHostname = c.SyslogHostname
	id.Pid = c.Pid
	return id, nil
}

// LoadFile reads a YAML configuration file over the values already in config.
func LoadFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read config file %s", path)
	}
	if err = yaml.Unmarshal(data, config); err != nil {
		return errors.Wrapf(err, "failed to parse config file %s", path)
	}
	return nil
}

// ProcessArgs layers the configuration: defaults, then the YAML file, then
// SYSLOG_* environment variables, then explicitly set flags.
func ProcessArgs(arguments []string) (*Config, error) {
	ret := &Config{}
	flags := pflag.NewFlagSet("syslog-client", pflag.ContinueOnError)
	configFile := flags.String("config", "", "YAML configuration file")
	hostname := flags.String("hostname", DefaultHostname, "Syslog collector host")
	port := flags.Int("port", DefaultPort, "Syslog collector port")
	transport := flags.String("transport", string(DefaultTransport), "Transport to the collector, tcp or udp")
	facility := flags.String("facility", "user", "Facility name or code")
	severity := flags.String("severity", "info", "Severity name or code")
	appName := flags.String("app-name", "", "APP-NAME of the frames, defaults to the process name")
	syslogHostname := flags.String("syslog-hostname", "", "HOSTNAME of the frames, defaults to the local hostname")
	pid := flags.Int("pid", 0, "PROCID of the frames, defaults to the process id")
	timeout := flags.Duration("timeout", DefaultTimeout, "Idle timeout of the tcp connection, negative disables it")
	reconnect := flags.Bool("reconnect", false, "Reconnect the tcp connection when it fails")
	reconnectInterval := flags.Duration("reconnect-interval", DefaultReconnectInterval, "Delay between reconnect attempts")
	maxReconnectAttempts := flags.Int("max-reconnect-attempts", 0, "Give up after this many reconnect attempts, 0 never gives up")
	maxPendingSends := flags.Int("max-pending-sends", 0, "Fail sends waiting for a connection beyond this number, 0 is unbounded")
	metricsFile := flags.String("metrics-file", "", "Write connection counters in the Prometheus text format to this file")
	verbose := flags.Bool("verbose", false, "Increase verbosity, set log level to debug")
	if err := flags.Parse(arguments); err != nil {
		return nil, err
	}

	ret.ConfigFile = *configFile
	if ret.ConfigFile == "" {
		ret.ConfigFile = os.Getenv("SYSLOG_CONFIG")
	}
	if ret.ConfigFile != "" {
		if err := LoadFile(ret.ConfigFile, ret); err != nil {
			return nil, err
		}
	}
	if err := envconfig.Process(envPrefix, ret); err != nil {
		return nil, errors.Wrap(err, "failed to process environment")
	}

	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	set("hostname", func() { ret.Client.Hostname = *hostname })
	set("port", func() { ret.Client.Port = *port })
	set("transport", func() { ret.Client.Transport = Transport(*transport) })
	set("facility", func() { ret.Identity.Facility = *facility })
	set("severity", func() { ret.Identity.Severity = *severity })
	set("app-name", func() { ret.Identity.AppName = *appName })
	set("syslog-hostname", func() { ret.Identity.SyslogHostname = *syslogHostname })
	set("pid", func() { ret.Identity.Pid = *pid })
	set("timeout", func() { ret.TCP.Timeout = *timeout })
	set("reconnect", func() { ret.TCP.Reconnect = *reconnect })
	set("reconnect-interval", func() { ret.TCP.ReconnectInterval = *reconnectInterval })
	set("max-reconnect-attempts", func() { ret.TCP.MaxReconnectAttempts = *maxReconnectAttempts })
	set("max-pending-sends", func() { ret.TCP.MaxPendingSends = *maxPendingSends })
	set("metrics-file", func() { ret.MetricsFile = *metricsFile })
	set("verbose", func() { ret.Verbose = *verbose })

	args := flags.Args()
	if dash := flags.ArgsLenAtDash(); dash >= 0 {
		ret.Command = args[dash:]
		args = args[:dash]
	}
	ret.Message = strings.Join(args, " ")

	ret.Client = ret.Client.WithDefaults()
	ret.TCP = MergeTCPOptions(&ret.TCP)
	if !funk.Contains([]Transport{TransportTCP, TransportUDP}, ret.Client.Transport) {
		return nil, errors.Errorf("unsupported transport %q", ret.Client.Transport)
	}
	return ret, nil
}
