// pkg/core/errors.go
package core

import (
	"errors"
	"fmt"

	"github.com/irods/mungefs/ci/pkg/runner"
)

var (
	// ErrUsage indicates a missing or invalid command line argument
	ErrUsage = errors.New("usage error")

	// ErrUnsupportedDistribution indicates the host distribution has no
	// dispatch entry
	ErrUnsupportedDistribution = errors.New("unsupported distribution")

	// ErrNoArtifacts indicates an artifact glob matched no files
	ErrNoArtifacts = errors.New("no artifacts matched")

	// ErrSubprocessFailed indicates a checked subprocess exited non-zero
	ErrSubprocessFailed = runner.ErrSubprocessFailed
)

// UsageError reports a missing required argument.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string { return e.Message }

func (e *UsageError) Is(target error) bool { return target == ErrUsage }

// UnsupportedDistributionError names a distribution that no dispatch table
// knows about.
type UnsupportedDistributionError struct {
	Distribution string
}

func (e *UnsupportedDistributionError) Error() string {
	return fmt.Sprintf("not implemented for distribution [%s]", e.Distribution)
}

func (e *UnsupportedDistributionError) Is(target error) bool {
	return target == ErrUnsupportedDistribution
}

// Error wraps an error with additional context
type Error struct {
	Op      string // Operation that failed
	Package string // Package name if applicable
	Err     error  // Underlying error
}

func (e *Error) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Package, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
