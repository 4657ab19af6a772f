// pkg/yum/constants.go
package yum

const (
	// SigningKeyPath is the core-dev signing key, relative to the core-dev URL
	SigningKeyPath = "irods-core-dev-signing-key.asc"

	// RepoFileName is the core-dev repository definition served by the core-dev URL
	RepoFileName = "renci-irods-core-dev.yum.repo"

	// ReposDir is where yum reads repository definitions
	ReposDir = "/etc/yum.repos.d"
)
