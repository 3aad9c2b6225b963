package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// CmdResult holds the captured output of a finished process.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// CommandRunner runs external programs. A non-zero exit is reported through
// CmdResult.ExitCode with a nil error; the error is reserved for processes
// that could not be run at all (missing binary, canceled context).
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) (CmdResult, error)
}

// CommandError describes a process that ran and exited non-zero.
type CommandError struct {
	Command  string
	ExitCode int
	Output   string
}

func (e *CommandError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("%s exited with status %d", e.Command, e.ExitCode)
	}
	return fmt.Sprintf("%s exited with status %d: %s", e.Command, e.ExitCode, e.Output)
}

// Err converts a non-zero exit into a *CommandError.
func (r CmdResult) Err(name string, args ...string) error {
	if r.ExitCode == 0 {
		return nil
	}
	out := strings.TrimSpace(r.Stderr)
	if out == "" {
		out = strings.TrimSpace(r.Stdout)
	}
	return &CommandError{
		Command:  strings.TrimSpace(name + " " + strings.Join(args, " ")),
		ExitCode: r.ExitCode,
		Output:   out,
	}
}

// ExecRunner is the os/exec backed CommandRunner.
type ExecRunner struct{}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (CmdResult, error) {
	log.Debug().Str("dir", dir).Msgf("running: %s %s", name, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := CmdResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			log.Debug().Int("exit", result.ExitCode).Msgf("%s failed", name)
			return result, nil
		}
		return result, fmt.Errorf("failed to run %s: %w", name, err)
	}
	return result, nil
}

// run executes name and folds a non-zero exit into the returned error.
func run(ctx context.Context, r CommandRunner, dir, name string, args ...string) (CmdResult, error) {
	res, err := r.Run(ctx, dir, name, args...)
	if err != nil {
		return res, err
	}
	return res, res.Err(name, args...)
}
