//go:build !linux

package build

import "runtime"

func availableCPUs() (int, error) {
	return runtime.NumCPU(), nil
}
