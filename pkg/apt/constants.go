// pkg/apt/constants.go
package apt

const (
	// SigningKeyPath is the core-dev signing key, relative to the core-dev URL
	SigningKeyPath = "irods-core-dev-signing-key.asc"

	// SourcesListPath receives the core-dev apt source line
	SourcesListPath = "/etc/apt/sources.list.d/renci-irods-core-dev.list"

	// DefaultComponent is the repository component
	DefaultComponent = "main"

	// GdebiPackage installs local .deb files together with their dependencies
	GdebiPackage = "gdebi"
)
