// pkg/platform/detect.go
package platform

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Family identifies a distribution for package dispatch
type Family string

const (
	// FamilyUbuntu is the Debian-derived family
	FamilyUbuntu Family = "Ubuntu"
	// FamilyCentOS is CentOS 6 and older (no "Linux" in the release name)
	FamilyCentOS Family = "Centos"
	// FamilyCentOSLinux is CentOS 7 and newer
	FamilyCentOSLinux Family = "Centos linux"
	// FamilyOpenSUSE covers openSUSE and SLES
	FamilyOpenSUSE Family = "Opensuse"
)

// Families lists every recognized family
var Families = []Family{FamilyUbuntu, FamilyCentOS, FamilyCentOSLinux, FamilyOpenSUSE}

// Known reports whether f is one of the recognized families
func (f Family) Known() bool {
	for _, known := range Families {
		if f == known {
			return true
		}
	}
	return false
}

// PackageSuffix returns the native package file extension for f, or ""
// for an unrecognized family
func (f Family) PackageSuffix() string {
	switch f {
	case FamilyUbuntu:
		return "deb"
	case FamilyCentOS, FamilyCentOSLinux, FamilyOpenSUSE:
		return "rpm"
	default:
		return ""
	}
}

// Distribution represents the detected host distribution
type Distribution struct {
	Family          Family // dispatch key, possibly unrecognized
	ID              string // os-release ID (ubuntu, centos, opensuse-leap)
	Name            string // os-release NAME
	VersionID       string // os-release VERSION_ID (16.04, 7)
	VersionCodename string // os-release VERSION_CODENAME (xenial)
}

// Default locations read by Detect
var (
	OSReleasePaths    = []string{"/etc/os-release", "/usr/lib/os-release"}
	RedHatReleasePath = "/etc/redhat-release"
	SuSEReleasePath   = "/etc/SuSE-release"
)

// Detector returns the host distribution. Detect is the default.
type Detector func() (*Distribution, error)

// Detect detects the running distribution
// An os-release file that cannot be parsed falls through to the next
// candidate, then to the legacy release files.
func Detect() (*Distribution, error) {
	var parseErr error
	for _, path := range OSReleasePaths {
		d, err := readOSRelease(path)
		if err == nil {
			return d, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			parseErr = fmt.Errorf("%s: %w", path, err)
		}
	}

	for _, path := range []string{RedHatReleasePath, SuSEReleasePath} {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if d := parseReleaseLine(string(data)); d.Name != "" {
			return d, nil
		}
	}

	if parseErr != nil {
		return nil, fmt.Errorf("detecting distribution: %w", parseErr)
	}
	return nil, fmt.Errorf("detecting distribution: no os-release file found")
}

func readOSRelease(path string) (*Distribution, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseOSRelease(f)
}

// ParseOSRelease parses an os-release(5) file
func ParseOSRelease(r io.Reader) (*Distribution, error) {
	fields := map[string]string{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		fields[key] = unquote(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading os-release: %w", err)
	}
	if fields["ID"] == "" && fields["NAME"] == "" {
		return nil, fmt.Errorf("os-release has neither ID nor NAME")
	}

	d := &Distribution{
		ID:              strings.ToLower(fields["ID"]),
		Name:            fields["NAME"],
		VersionID:       fields["VERSION_ID"],
		VersionCodename: fields["VERSION_CODENAME"],
	}
	if d.VersionCodename == "" {
		d.VersionCodename = fields["UBUNTU_CODENAME"]
	}
	d.Family = classify(d.ID, d.Name)
	return d, nil
}

var releaseVersion = regexp.MustCompile(`(\d+(?:\.\d+)*)`)

// parseReleaseLine handles legacy single-line files such as
// "CentOS release 6.10 (Final)".
func parseReleaseLine(line string) *Distribution {
	line = strings.TrimSpace(strings.SplitN(line, "\n", 2)[0])
	name := line
	if i := strings.Index(strings.ToLower(line), " release "); i >= 0 {
		name = line[:i]
	}
	d := &Distribution{Name: name}
	if m := releaseVersion.FindString(line); m != "" {
		d.VersionID = m
	}
	d.ID = strings.ToLower(strings.Fields(name + " x")[0])
	d.Family = classify(d.ID, d.Name)
	return d
}

func classify(id, name string) Family {
	lowerName := strings.ToLower(name)
	switch {
	case id == "ubuntu":
		return FamilyUbuntu
	case id == "centos":
		if strings.Contains(lowerName, "linux") {
			return FamilyCentOSLinux
		}
		return FamilyCentOS
	case id == "sles", strings.HasPrefix(id, "opensuse"):
		return FamilyOpenSUSE
	}
	return Family(capitalize(strings.TrimSpace(name)))
}

// capitalize mirrors how distribution names are reported: first letter
// upper case, the rest lower case.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

func unquote(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		v = v[1 : len(v)-1]
	}
	return v
}

// MajorVersion returns the part of VersionID before the first dot
func (d *Distribution) MajorVersion() string {
	major, _, _ := strings.Cut(d.VersionID, ".")
	return major
}

// PackageSuffix returns the native package file extension
func (d *Distribution) PackageSuffix() string {
	return d.Family.PackageSuffix()
}

// OSDirectory is the per-platform directory name used for built packages,
// e.g. "Ubuntu_16" or "Centos linux_7"
func (d *Distribution) OSDirectory() string {
	return fmt.Sprintf("%s_%s", d.Family, d.MajorVersion())
}

// AppendOSSpecificDirectory joins base with OSDirectory
func (d *Distribution) AppendOSSpecificDirectory(base string) string {
	return filepath.Join(base, d.OSDirectory())
}

// String returns a string representation of the distribution
func (d *Distribution) String() string {
	return fmt.Sprintf("%s %s (family: %s)", d.Name, d.VersionID, d.Family)
}
