package runner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Env is an environment overlay applied on top of the process environment
// for a single command. A nil Env is valid and empty.
type Env map[string]string

// Clone returns an independent copy of e.
func (e Env) Clone() Env {
	out := make(Env, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Get returns the overlay value for key, falling back to the process
// environment.
func (e Env) Get(key string) string {
	if v, ok := e[key]; ok {
		return v
	}
	return os.Getenv(key)
}

// PrependPath returns a copy of e whose PATH starts with dir.
func (e Env) PrependPath(dir string) Env {
	out := e.Clone()
	current := e.Get("PATH")
	if current == "" {
		out["PATH"] = dir
		return out
	}
	out["PATH"] = dir + string(filepath.ListSeparator) + current
	return out
}

// Merge overlays e onto base (KEY=VALUE pairs) and returns a sorted slice.
func (e Env) Merge(base []string) []string {
	envMap := make(map[string]string, len(base)+len(e))
	for _, kv := range base {
		if k, v, ok := strings.Cut(kv, "="); ok {
			envMap[k] = v
		}
	}
	for k, v := range e {
		envMap[k] = v
	}
	keys := make([]string, 0, len(envMap))
	for k := range envMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+envMap[k])
	}
	return out
}
