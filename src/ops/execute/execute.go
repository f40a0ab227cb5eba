package execute

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -source=execute.go -package=execute -destination=mock_execute.go
type Execute interface {
	ExecCommand(liveLogger io.Writer, command string, args ...string) (string, error)
	ExecCommandWithContext(ctx context.Context, liveLogger io.Writer, command string, args ...string) (string, error)
}

type executor struct {
	cmdEnv []string
	log    logrus.FieldLogger
}

// NewExecutor runs commands with the current environment plus extraEnv, given as KEY=value.
func NewExecutor(logger logrus.FieldLogger, extraEnv ...string) Execute {
	return &executor{cmdEnv: append(os.Environ(), extraEnv...), log: logger}
}

func (e *executor) ExecCommand(liveLogger io.Writer, command string, args ...string) (string, error) {
	return e.ExecCommandWithContext(context.Background(), liveLogger, command, args...)
}

func (e *executor) ExecCommandWithContext(ctx context.Context, liveLogger io.Writer, command string, args ...string) (string, error) {

	var stdoutBuf bytes.Buffer
	cmd := exec.CommandContext(ctx, command, args...)
	if liveLogger != nil {
		cmd.Stdout = io.MultiWriter(liveLogger, &stdoutBuf)
		cmd.Stderr = io.MultiWriter(liveLogger, &stdoutBuf)
	} else {
		cmd.Stdout = &stdoutBuf
		cmd.Stderr = &stdoutBuf
	}
	cmd.Env = e.cmdEnv
	err := cmd.Run()
	output := strings.TrimSpace(stdoutBuf.String())
	if err != nil {

		// Get all lines from Error message
		errorIndex := strings.Index(output, "Error")
		// if Error not found return all output
		if errorIndex > -1 {
			output = output[errorIndex:]
		}

		execErr := &ExecCommandError{
			Command:    command,
			Args:       args,
			Env:        cmd.Env,
			ExitErr:    err,
			Output:     output,
			WaitStatus: -1,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
				execErr.WaitStatus = status.ExitStatus()
			}
		}
		if liveLogger != nil {
			//If the caller didn't provide liveLogger the log isn't interesting and might spam
			e.log.Info(execErr.DetailedError())
		}
		return output, execErr
	}
	e.log.Debug("Command executed:", " command", command, " arguments", args, "output", output)
	return output, err
}

// ExecCommandError carries the exit status, WaitStatus is -1 when the command never ran.
type ExecCommandError struct {
	Command    string
	Args       []string
	Env        []string
	ExitErr    error
	Output     string
	WaitStatus int
}

func (e *ExecCommandError) Error() string {
	lastOutput := e.Output
	if len(e.Output) > 200 {
		lastOutput = "... " + e.Output[len(e.Output)-200:]
	}
	return fmt.Sprintf("failed executing %s %v, Error %s, LastOutput \"%s\"", e.Command, e.Args, e.ExitErr, lastOutput)
}

func (e *ExecCommandError) DetailedError() string {
	return fmt.Sprintf("failed executing %s %v, error %s, waitStatus %d, Output \"%s\"", e.Command, e.Args, e.ExitErr, e.WaitStatus, e.Output)
}

func (e *ExecCommandError) Unwrap() error {
	return e.ExitErr
}
