// Package fileutil holds filesystem helpers shared by the build steps.
package fileutil

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// HasSuffix returns a predicate matching file names ending in "."+suffix
func HasSuffix(suffix string) func(string) bool {
	want := "." + strings.TrimPrefix(suffix, ".")
	return func(name string) bool {
		return strings.HasSuffix(name, want)
	}
}

// GatherFilesSatisfyingPredicate copies every regular file below src whose
// base name satisfies pred into dst, creating dst if needed. Files are
// flattened into dst; when several files share a base name the one closest
// to src is copied. It returns the destination paths in sorted order.
func GatherFilesSatisfyingPredicate(src, dst string, pred func(string) bool) ([]string, error) {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dst, err)
	}

	absDst, err := filepath.Abs(dst)
	if err != nil {
		return nil, err
	}

	// base name -> source path
	sources := make(map[string]string)
	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Skip the destination if it lives below src
			if abs, err := filepath.Abs(path); err == nil && abs == absDst && path != src {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !pred(d.Name()) {
			return nil
		}

		if prev, ok := sources[d.Name()]; ok && depth(prev) <= depth(path) {
			return nil
		}
		sources[d.Name()] = path
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("gathering files from %s: %w", src, err)
	}

	gathered := make([]string, 0, len(sources))
	for name, path := range sources {
		target := filepath.Join(dst, name)
		if err := CopyFile(path, target); err != nil {
			return nil, err
		}
		gathered = append(gathered, target)
	}

	sort.Strings(gathered)
	return gathered, nil
}

func depth(path string) int {
	return strings.Count(filepath.ToSlash(filepath.Clean(path)), "/")
}

// CopyFile copies src to dst, preserving the permission bits
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s: %w", src, err)
	}
	return out.Close()
}
