//go:build linux

package build

import "golang.org/x/sys/unix"

// availableCPUs counts the CPUs in this process's scheduler affinity mask
func availableCPUs() (int, error) {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return 0, err
	}
	return set.Count(), nil
}
