// pkg/zypper/types.go
package zypper

import (
	"go.uber.org/zap"

	"github.com/irods/mungefs/ci/pkg/fetch"
	"github.com/irods/mungefs/ci/pkg/runner"
)

// Config configures the zypper package manager
type Config struct {
	Runner     runner.Runner
	Fetcher    fetch.Fetcher // downloads the .repo file
	Sudo       bool          // prefix privileged commands with sudo
	CoreDevURL string        // e.g. https://core-dev.irods.org
	Logger     *zap.Logger
}

// PackageManager drives zypper and rpm for openSUSE hosts
type PackageManager struct {
	config *Config
	logger *zap.Logger
}
