package services

import (
	"context"
	"strings"
)

type call struct {
	dir  string
	name string
	args []string
}

func (c call) line() string {
	return strings.TrimSpace(c.name + " " + strings.Join(c.args, " "))
}

// fakeRunner records every invocation and answers through handler. With no
// handler every command succeeds with empty output.
type fakeRunner struct {
	calls   []call
	handler func(c call) (CmdResult, error)
}

func (f *fakeRunner) Run(ctx context.Context, dir, name string, args ...string) (CmdResult, error) {
	c := call{dir: dir, name: name, args: args}
	f.calls = append(f.calls, c)
	if f.handler != nil {
		return f.handler(c)
	}
	return CmdResult{}, nil
}

func (f *fakeRunner) lines() []string {
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.line()
	}
	return out
}
