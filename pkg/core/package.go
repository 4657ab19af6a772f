// pkg/core/package.go
package core

// PackageList is an ordered list of native package names. Order is
// installation order and duplicates are kept.
type PackageList []string

// Concat returns a new list holding l followed by other.
func (l PackageList) Concat(other PackageList) PackageList {
	out := make(PackageList, 0, len(l)+len(other))
	out = append(out, l...)
	return append(out, other...)
}
