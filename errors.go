package ci

import (
	"errors"

	"github.com/irods/mungefs/ci/pkg/core"
	"github.com/irods/mungefs/ci/pkg/runner"
)

// Re-export error types for convenience
type (
	Error                        = core.Error
	UsageError                   = core.UsageError
	UnsupportedDistributionError = core.UnsupportedDistributionError
	SubprocessError              = runner.SubprocessError
)

var (
	// ErrUsage indicates a missing required argument
	ErrUsage = core.ErrUsage

	// ErrUnsupportedDistribution indicates the host has no dispatch entry
	ErrUnsupportedDistribution = core.ErrUnsupportedDistribution

	// ErrNoArtifacts indicates an upstream artifact glob matched nothing
	ErrNoArtifacts = core.ErrNoArtifacts

	// ErrSubprocessFailed indicates a checked command exited non-zero
	ErrSubprocessFailed = core.ErrSubprocessFailed
)

// ExitCode maps an error returned by Run to a process exit status. A failed
// subprocess passes its own status through.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var subErr *runner.SubprocessError
	if errors.As(err, &subErr) && subErr.ExitCode > 0 {
		return subErr.ExitCode
	}
	return 1
}
