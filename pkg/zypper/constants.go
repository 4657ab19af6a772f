// pkg/zypper/constants.go
package zypper

const (
	// SigningKeyPath is the core-dev signing key, relative to the core-dev URL
	SigningKeyPath = "irods-core-dev-signing-key.asc"

	// RepoFileName is the core-dev repository definition served by the core-dev URL
	RepoFileName = "renci-irods-core-dev.zypp.repo"

	// ReposDir is where zypper reads repository definitions
	ReposDir = "/etc/zypp/repos.d"
)
