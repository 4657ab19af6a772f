// Package runner executes external commands with an explicit environment
// overlay, captured output and optional return-code checking.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// ErrSubprocessFailed is matched by every SubprocessError.
var ErrSubprocessFailed = errors.New("subprocess failed")

// Command describes a single subprocess invocation.
type Command struct {
	Argv  []string
	Dir   string // working directory, empty for the current one
	Env   Env    // overlay on top of the process environment
	Stdin string
	Check bool // treat a non-zero exit status as an error
}

// String renders the argv the way it would be typed in a shell.
func (c Command) String() string {
	return strings.Join(c.Argv, " ")
}

// Result holds the captured output of a finished command.
type Result struct {
	Output   string // combined stdout and stderr
	ExitCode int
}

// Runner runs commands. Implementations block until the command exits.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// SubprocessError reports a checked command that exited non-zero or could
// not be started.
type SubprocessError struct {
	Argv     []string
	Dir      string
	ExitCode int
	Output   string
	Err      error
}

func (e *SubprocessError) Error() string {
	msg := fmt.Sprintf("command [%s] in %q exited with status %d", strings.Join(e.Argv, " "), e.Dir, e.ExitCode)
	if e.Err != nil && e.ExitCode < 0 {
		msg = fmt.Sprintf("command [%s] in %q failed: %v", strings.Join(e.Argv, " "), e.Dir, e.Err)
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\noutput:\n" + out
	}
	return msg
}

func (e *SubprocessError) Unwrap() error { return e.Err }

func (e *SubprocessError) Is(target error) bool { return target == ErrSubprocessFailed }

// Config configures an Exec runner.
type Config struct {
	// Stream copies child output to these writers while it is captured.
	Stream io.Writer
	Logger *zap.Logger
}

// Exec runs commands with os/exec.
type Exec struct {
	stream io.Writer
	logger *zap.Logger
}

// New creates an Exec runner.
func New(cfg *Config) *Exec {
	if cfg == nil {
		cfg = &Config{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exec{stream: cfg.Stream, logger: logger}
}

// Run executes cmd and waits for it. With cmd.Check set, a non-zero exit
// status is returned as a *SubprocessError carrying the captured output.
func (r *Exec) Run(ctx context.Context, cmd Command) (*Result, error) {
	if len(cmd.Argv) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	environ := cmd.Env.Merge(os.Environ())
	path, err := lookPath(cmd.Argv[0], cmd.Env)
	if err != nil {
		return nil, &SubprocessError{Argv: cmd.Argv, Dir: cmd.Dir, ExitCode: -1, Err: err}
	}

	//nolint:gosec // G204: argv comes from the build configuration
	c := exec.CommandContext(ctx, path, cmd.Argv[1:]...)
	c.Args[0] = cmd.Argv[0]
	c.Dir = cmd.Dir
	c.Env = environ
	if cmd.Stdin != "" {
		c.Stdin = strings.NewReader(cmd.Stdin)
	}

	var out bytes.Buffer
	var w io.Writer = &out
	if r.stream != nil {
		w = io.MultiWriter(&out, r.stream)
	}
	c.Stdout = w
	c.Stderr = w

	r.logger.Debug("running command",
		zap.Strings("argv", cmd.Argv),
		zap.String("dir", cmd.Dir),
		zap.Bool("check", cmd.Check))

	err = c.Run()
	result := &Result{Output: out.String()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result.ExitCode = 0
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		result.ExitCode = -1
		return result, &SubprocessError{Argv: cmd.Argv, Dir: cmd.Dir, ExitCode: -1, Output: result.Output, Err: err}
	}

	r.logger.Debug("command finished",
		zap.Strings("argv", cmd.Argv),
		zap.Int("exit_code", result.ExitCode))

	if cmd.Check && result.ExitCode != 0 {
		return result, &SubprocessError{
			Argv:     cmd.Argv,
			Dir:      cmd.Dir,
			ExitCode: result.ExitCode,
			Output:   result.Output,
			Err:      err,
		}
	}
	return result, nil
}

// lookPath resolves name against the overlay PATH when one is set, so a
// prepended toolchain directory wins over the system installation.
func lookPath(name string, env Env) (string, error) {
	if strings.ContainsRune(name, filepath.Separator) {
		return name, nil
	}
	dirs, ok := env["PATH"]
	if !ok {
		return exec.LookPath(name)
	}
	for _, dir := range filepath.SplitList(dirs) {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, name)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%q: %w", name, exec.ErrNotFound)
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode()&0o111 != 0
}

// DryRun logs commands instead of executing them and reports success.
type DryRun struct {
	logger *zap.Logger
}

// NewDryRun creates a DryRun runner.
func NewDryRun(logger *zap.Logger) *DryRun {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DryRun{logger: logger}
}

// Run implements Runner.
func (d *DryRun) Run(_ context.Context, cmd Command) (*Result, error) {
	d.logger.Info("dry run", zap.String("command", cmd.String()), zap.String("dir", cmd.Dir))
	return &Result{}, nil
}
