package formatter

import (
	"fmt"
	"strconv"
	"time"

	"github.com/openshift/syslog-client/src/identity"
	"github.com/openshift/syslog-client/src/priority"
)

const (
	// RFC 5424 protocol version written after PRI
	version    = 1
	nilValue   = "-"
	TimeFormat = "2006-01-02T15:04:05.000Z"
)

// Format builds a single RFC 5424 frame:
//
//	<PRI>1 TIMESTAMP HOSTNAME APP-NAME PROCID MSGID STRUCTURED-DATA MSG
//
// MSGID and STRUCTURED-DATA are always NILVALUE. The message is appended as is.
func Format(id identity.Identity, message string, timestamp time.Time) string {
	pid := nilValue
	if id.Pid != 0 {
		pid = strconv.Itoa(id.Pid)
	}
	return fmt.Sprintf("<%d>%d %s %s %s %s %s %s %s",
		priority.Priority(id.Facility, id.Severity),
		version,
		timestamp.UTC().Format(TimeFormat),
		orNil(id.SyslogHostname),
		orNil(id.AppName),
		pid,
		nilValue,
		nilValue,
		message)
}

func orNil(s string) string {
	if s == "" {
		return nilValue
	}
	return s
}
