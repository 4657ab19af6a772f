package dpkg

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/blakesmith/ar"
	"github.com/ulikunitz/xz"
)

// ReadControl opens a .deb file and parses its control file
func ReadControl(debPath string) (*Control, error) {
	f, err := os.Open(debPath)
	if err != nil {
		return nil, fmt.Errorf("opening .deb file: %w", err)
	}
	defer f.Close()

	ctrl, err := readControl(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", debPath, err)
	}
	return ctrl, nil
}

// readControl walks the ar members of a .deb looking for control.tar.*
func readControl(r io.Reader) (*Control, error) {
	arReader := ar.NewReader(r)

	for {
		header, err := arReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading ar entry: %w", err)
		}

		name := strings.TrimSuffix(strings.TrimSpace(header.Name), "/")
		if strings.HasPrefix(name, ControlMemberPrefix) {
			return readControlTar(arReader, name)
		}
	}

	return nil, fmt.Errorf("no %s.* found in .deb package", ControlMemberPrefix)
}

// readControlTar decompresses the control tarball and parses ./control
func readControlTar(r io.Reader, name string) (*Control, error) {
	var tarReader *tar.Reader

	switch {
	case strings.HasSuffix(name, ".gz"):
		gzReader, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("creating gzip reader: %w", err)
		}
		defer gzReader.Close()
		tarReader = tar.NewReader(gzReader)
	case strings.HasSuffix(name, ".xz"):
		xzReader, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("creating xz reader: %w", err)
		}
		tarReader = tar.NewReader(xzReader)
	case strings.HasSuffix(name, ".zst"):
		return nil, fmt.Errorf("zstd compressed %s is not supported", name)
	default:
		tarReader = tar.NewReader(r)
	}

	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading tar entry: %w", err)
		}

		if header.Typeflag != tar.TypeReg {
			continue
		}
		if path.Clean(strings.TrimPrefix(header.Name, "./")) == ControlFileName {
			return ParseControl(io.LimitReader(tarReader, maxControlSize))
		}
	}

	return nil, fmt.Errorf("no %s file in %s", ControlFileName, name)
}
