// pkg/apt/types.go
package apt

import (
	"go.uber.org/zap"

	"github.com/irods/mungefs/ci/pkg/fetch"
	"github.com/irods/mungefs/ci/pkg/runner"
)

// Config configures the apt package manager
type Config struct {
	Runner       runner.Runner
	Fetcher      fetch.Fetcher // downloads the signing key
	Sudo         bool          // prefix privileged commands with sudo
	CoreDevURL   string        // e.g. https://core-dev.irods.org
	Codename     string        // release codename; asked from lsb_release if empty
	Architecture Architecture  // auto-detected if empty
	Logger       *zap.Logger
}

// PackageManager drives apt-get, gdebi and apt-key
type PackageManager struct {
	config  *Config
	logger  *zap.Logger
	updated bool // apt-get update already ran in this process
}
