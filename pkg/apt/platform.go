// pkg/apt/platform.go
package apt

import (
	"fmt"
	"runtime"
)

// Architecture is a Debian architecture name as used in "[arch=...]"
type Architecture string

// ArchAmd64 is the only architecture core-dev publishes packages for
const ArchAmd64 Architecture = "amd64"

var debianArch = map[string]Architecture{
	"amd64":   ArchAmd64,
	"386":     "i386",
	"arm64":   "arm64",
	"arm":     "armhf",
	"ppc64le": "ppc64el",
	"s390x":   "s390x",
}

// ArchitectureFor maps a GOARCH value to its Debian name
func ArchitectureFor(goarch string) (Architecture, error) {
	arch, ok := debianArch[goarch]
	if !ok {
		return "", fmt.Errorf("no Debian architecture for GOARCH %q", goarch)
	}
	return arch, nil
}

// DetectArchitecture returns the Debian architecture of the running binary
func DetectArchitecture() (Architecture, error) {
	return ArchitectureFor(runtime.GOARCH)
}
