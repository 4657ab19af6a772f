// pkg/platform/utils.go
package platform

import (
	"os"
	"os/exec"
)

// commandExists checks if a command is available in PATH
func commandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}

// NeedsSudo reports whether privileged commands must be prefixed with
// sudo: requested, not already root, and sudo is installed.
func NeedsSudo(useSudo bool) bool {
	return useSudo && os.Geteuid() != 0 && commandExists("sudo")
}
