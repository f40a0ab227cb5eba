package identity

import (
	"os"
	"path/filepath"

	"github.com/openshift/syslog-client/src/priority"
)

// Identity describes who is logging. Empty strings and a zero Pid are unset
// and get filled from the process Environment when a frame is built.
type Identity struct {
	Facility       priority.Facility
	Severity       priority.Severity
	AppName        string
	SyslogHostname string
	Pid            int
}

// Partial is a per call override, only non nil fields take effect.
type Partial struct {
	Facility       *priority.Facility
	Severity       *priority.Severity
	AppName        *string
	SyslogHostname *string
	Pid            *int
}

type Override func(*Partial)

func WithFacility(f priority.Facility) Override {
	return func(p *Partial) { p.Facility = &f }
}

func WithSeverity(s priority.Severity) Override {
	return func(p *Partial) { p.Severity = &s }
}

func WithAppName(name string) Override {
	return func(p *Partial) { p.AppName = &name }
}

func WithSyslogHostname(hostname string) Override {
	return func(p *Partial) { p.SyslogHostname = &hostname }
}

func WithPid(pid int) Override {
	return func(p *Partial) { p.Pid = &pid }
}

// Apply folds overrides into a Partial, later overrides win.
func Apply(overrides ...Override) Partial {
	var p Partial
	for _, o := range overrides {
		if o != nil {
			o(&p)
		}
	}
	return p
}

// DefaultIdentity is USER/INFORMATIONAL with the process fields left to the environment.
func DefaultIdentity() Identity {
	return Identity{
		Facility: priority.User,
		Severity: priority.Informational,
	}
}

//go:generate mockgen -source=identity.go -package=identity -destination=mock_environment.go
type Environment interface {
	Hostname() string
	Pid() int
	ProcessTitle() string
}

type processEnvironment struct{}

func NewProcessEnvironment() Environment {
	return processEnvironment{}
}

func (processEnvironment) Hostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return ""
	}
	return hostname
}

func (processEnvironment) Pid() int {
	return os.Getpid()
}

func (processEnvironment) ProcessTitle() string {
	if len(os.Args) == 0 {
		return ""
	}
	return filepath.Base(os.Args[0])
}

// Resolve layers an override over the constructed identity and falls back to
// the environment for whatever is still unset.
func Resolve(base Identity, partial Partial, env Environment) Identity {
	return Identity{
		Facility:       resolve(partial.Facility, base.Facility, nil),
		Severity:       resolve(partial.Severity, base.Severity, nil),
		AppName:        resolve(partial.AppName, base.AppName, env.ProcessTitle),
		SyslogHostname: resolve(partial.SyslogHostname, base.SyslogHostname, env.Hostname),
		Pid:            resolve(partial.Pid, base.Pid, env.Pid),
	}
}

func resolve[T comparable](override *T, explicit T, builtin func() T) T {
	if override != nil {
		return *override
	}
	var zero T
	if explicit != zero || builtin == nil {
		return explicit
	}
	return builtin()
}
