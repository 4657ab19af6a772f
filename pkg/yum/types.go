// pkg/yum/types.go
package yum

import (
	"go.uber.org/zap"

	"github.com/irods/mungefs/ci/pkg/fetch"
	"github.com/irods/mungefs/ci/pkg/runner"
)

// Config configures the yum package manager
type Config struct {
	Runner     runner.Runner
	Fetcher    fetch.Fetcher // downloads the .repo file
	Sudo       bool          // prefix privileged commands with sudo
	CoreDevURL string        // e.g. https://core-dev.irods.org
	Logger     *zap.Logger
}

// PackageManager drives yum and rpm for CentOS hosts
type PackageManager struct {
	config *Config
	logger *zap.Logger
}
