// Package runnertest provides a recording fake of runner.Runner.
package runnertest

import (
	"context"
	"strings"
	"sync"

	"github.com/irods/mungefs/ci/pkg/runner"
)

// Recorder records every command it is asked to run. Commands whose argv
// contains a key of Fail exit with the mapped status.
type Recorder struct {
	mu       sync.Mutex
	Commands []runner.Command

	// Fail maps an argv substring to the exit status to report.
	Fail map[string]int
	// Output maps an argv substring to the output to report.
	Output map[string]string
	// OnRun is called for each command before the result is computed.
	OnRun func(cmd runner.Command)
}

// New returns an empty Recorder.
func New() *Recorder {
	return &Recorder{Fail: map[string]int{}, Output: map[string]string{}}
}

// Run implements runner.Runner.
func (r *Recorder) Run(_ context.Context, cmd runner.Command) (*runner.Result, error) {
	r.mu.Lock()
	r.Commands = append(r.Commands, cmd)
	onRun := r.OnRun
	r.mu.Unlock()

	if onRun != nil {
		onRun(cmd)
	}

	line := cmd.String()
	result := &runner.Result{}
	for needle, out := range r.Output {
		if strings.Contains(line, needle) {
			result.Output = out
		}
	}
	for needle, code := range r.Fail {
		if strings.Contains(line, needle) {
			result.ExitCode = code
		}
	}
	if cmd.Check && result.ExitCode != 0 {
		return result, &runner.SubprocessError{
			Argv:     cmd.Argv,
			Dir:      cmd.Dir,
			ExitCode: result.ExitCode,
			Output:   result.Output,
		}
	}
	return result, nil
}

// Lines returns the recorded commands as shell-like strings.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	lines := make([]string, 0, len(r.Commands))
	for _, c := range r.Commands {
		lines = append(lines, c.String())
	}
	return lines
}

// Find returns the first recorded command containing needle.
func (r *Recorder) Find(needle string) (runner.Command, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.Commands {
		if strings.Contains(c.String(), needle) {
			return c, true
		}
	}
	return runner.Command{}, false
}

// Index returns the position of the first command containing needle, or -1.
func (r *Recorder) Index(needle string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.Commands {
		if strings.Contains(c.String(), needle) {
			return i
		}
	}
	return -1
}
