// Package registry maps backend names to package manager constructors.
package registry

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/irods/mungefs/ci/pkg/apt"
	"github.com/irods/mungefs/ci/pkg/core"
	"github.com/irods/mungefs/ci/pkg/fetch"
	"github.com/irods/mungefs/ci/pkg/runner"
	"github.com/irods/mungefs/ci/pkg/yum"
	"github.com/irods/mungefs/ci/pkg/zypper"
)

// Backend names
const (
	Apt    = "apt"
	Yum    = "yum"
	Zypper = "zypper"
)

// Options holds what every backend constructor needs
type Options struct {
	Runner     runner.Runner
	Fetcher    fetch.Fetcher
	Sudo       bool
	CoreDevURL string
	Codename   string // apt only
	Logger     *zap.Logger
}

type constructor func(Options) core.PackageManager

var backends = map[string]constructor{
	Apt: func(o Options) core.PackageManager {
		return apt.NewPackageManager(&apt.Config{
			Runner:     o.Runner,
			Fetcher:    o.Fetcher,
			Sudo:       o.Sudo,
			CoreDevURL: o.CoreDevURL,
			Codename:   o.Codename,
			Logger:     o.Logger,
		})
	},
	Yum: func(o Options) core.PackageManager {
		return yum.NewPackageManager(&yum.Config{
			Runner:     o.Runner,
			Fetcher:    o.Fetcher,
			Sudo:       o.Sudo,
			CoreDevURL: o.CoreDevURL,
			Logger:     o.Logger,
		})
	},
	Zypper: func(o Options) core.PackageManager {
		return zypper.NewPackageManager(&zypper.Config{
			Runner:     o.Runner,
			Fetcher:    o.Fetcher,
			Sudo:       o.Sudo,
			CoreDevURL: o.CoreDevURL,
			Logger:     o.Logger,
		})
	},
}

// Get builds the named backend
func Get(name string, opts Options) (core.PackageManager, error) {
	ctor, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("registry: unknown backend '%s'", name)
	}
	return ctor(opts), nil
}

// Available lists the registered backend names, sorted
func Available() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
