// Package dpkg inspects built Debian package archives.
package dpkg

import "fmt"

// Control holds the fields of a .deb control file that identify a package
type Control struct {
	Package      string
	Version      string
	Architecture string
	Maintainer   string
	Depends      []string          // package names only
	Fields       map[string]string // every field, including Description
}

// String renders name_version_arch the way Debian file names do
func (c *Control) String() string {
	return fmt.Sprintf("%s_%s_%s", c.Package, c.Version, c.Architecture)
}
