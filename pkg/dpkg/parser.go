package dpkg

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ParseControl parses a single Debian control stanza
func ParseControl(r io.Reader) (*Control, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxControlSize)

	ctrl := &Control{Fields: make(map[string]string)}
	var last string

	for scanner.Scan() {
		line := scanner.Text()

		// A blank line ends the stanza
		if strings.TrimSpace(line) == "" {
			if len(ctrl.Fields) > 0 {
				break
			}
			continue
		}

		// Continuation line
		if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
			if last != "" {
				ctrl.Fields[last] += "\n" + strings.TrimSpace(line)
			}
			continue
		}

		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed control line %q", line)
		}

		last = strings.TrimSpace(parts[0])
		ctrl.Fields[last] = strings.TrimSpace(parts[1])
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning control file: %w", err)
	}

	ctrl.Package = ctrl.Fields["Package"]
	ctrl.Version = ctrl.Fields["Version"]
	ctrl.Architecture = ctrl.Fields["Architecture"]
	ctrl.Maintainer = ctrl.Fields["Maintainer"]
	ctrl.Depends = parsePackageList(ctrl.Fields["Depends"])

	if ctrl.Package == "" {
		return nil, fmt.Errorf("control file has no Package field")
	}
	return ctrl, nil
}

// parsePackageList parses a comma-separated dependency list, dropping
// version constraints and alternatives
func parsePackageList(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if idx := strings.Index(part, "|"); idx != -1 {
			part = strings.TrimSpace(part[:idx])
		}
		if idx := strings.Index(part, "("); idx != -1 {
			part = strings.TrimSpace(part[:idx])
		}
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}
