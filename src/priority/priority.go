package priority

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Facility codes, page 10 of RFC 5424.
type Facility int

const (
	Kernel   Facility = 0
	User     Facility = 1
	Mail     Facility = 2
	System   Facility = 3
	Daemon   Facility = 3
	Auth     Facility = 4
	Syslog   Facility = 5
	Lpr      Facility = 6
	News     Facility = 7
	Uucp     Facility = 8
	Cron     Facility = 9
	Authpriv Facility = 10
	Ftp      Facility = 11
	Ntp      Facility = 12
	Audit    Facility = 13
	Alert    Facility = 14
	Clock    Facility = 15
	Local0   Facility = 16
	Local1   Facility = 17
	Local2   Facility = 18
	Local3   Facility = 19
	Local4   Facility = 20
	Local5   Facility = 21
	Local6   Facility = 22
	Local7   Facility = 23
)

// Severity codes, page 11 of RFC 5424.
type Severity int

const (
	Emergency     Severity = 0
	AlertSeverity Severity = 1
	Critical      Severity = 2
	Error         Severity = 3
	Warning       Severity = 4
	Notice        Severity = 5
	Informational Severity = 6
	Debug         Severity = 7
)

var facilityNames = []string{
	"kern",     // 0
	"user",     // 1
	"mail",     // 2
	"daemon",   // 3
	"auth",     // 4
	"syslog",   // 5
	"lpr",      // 6
	"news",     // 7
	"uucp",     // 8
	"cron",     // 9
	"authpriv", // 10
	"ftp",      // 11
	"ntp",      // 12
	"audit",    // 13
	"alert",    // 14
	"clock",    // 15
	"local0",   // 16
	"local1",   // 17
	"local2",   // 18
	"local3",   // 19
	"local4",   // 20
	"local5",   // 21
	"local6",   // 22
	"local7",   // 23
}

var severityNames = []string{
	"emerg",  // 0
	"alert",  // 1
	"crit",   // 2
	"err",    // 3
	"warn",   // 4
	"notice", // 5
	"info",   // 6
	"debug",  // 7
}

// Long forms accepted by the parsers in addition to the short names above.
var facilityAliases = map[string]Facility{
	"kernel": Kernel,
	"system": System,
}

var severityAliases = map[string]Severity{
	"emergency":     Emergency,
	"critical":      Critical,
	"error":         Error,
	"warning":       Warning,
	"informational": Informational,
}

// Priority returns the PRI value embedded at the head of a frame. Out of range
// values are not rejected.
func Priority(facility Facility, severity Severity) int {
	return int(facility)*8 + int(severity)
}

func (f Facility) String() string {
	if f >= 0 && int(f) < len(facilityNames) {
		return facilityNames[f]
	}
	return strconv.Itoa(int(f))
}

func (s Severity) String() string {
	if s >= 0 && int(s) < len(severityNames) {
		return severityNames[s]
	}
	return strconv.Itoa(int(s))
}

// ParseFacility accepts a facility name (case insensitive) or its decimal code.
func ParseFacility(value string) (Facility, error) {
	name := strings.ToLower(strings.TrimSpace(value))
	if code, err := strconv.Atoi(name); err == nil {
		return Facility(code), nil
	}
	for i, n := range facilityNames {
		if n == name {
			return Facility(i), nil
		}
	}
	if f, ok := facilityAliases[name]; ok {
		return f, nil
	}
	return 0, errors.Errorf("unknown syslog facility %q", value)
}

// ParseSeverity accepts a severity name (case insensitive) or its decimal code.
func ParseSeverity(value string) (Severity, error) {
	name := strings.ToLower(strings.TrimSpace(value))
	if code, err := strconv.Atoi(name); err == nil {
		return Severity(code), nil
	}
	for i, n := range severityNames {
		if n == name {
			return Severity(i), nil
		}
	}
	if s, ok := severityAliases[name]; ok {
		return s, nil
	}
	return 0, errors.Errorf("unknown syslog severity %q", value)
}
