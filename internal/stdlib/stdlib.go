// Package stdlib bundles a small catalogue of tape programs that the
// runtime preloads as its prelude.
package stdlib

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed programs/*.b
var programs embed.FS

// Lookup returns the source of a bundled program.
func Lookup(name string) (string, bool) {
	data, err := programs.ReadFile(path.Join("programs", name+".b"))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Names returns the bundled program names in sorted order.
func Names() []string {
	entries, _ := fs.ReadDir(programs, "programs")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".b"))
	}
	sort.Strings(names)
	return names
}

// Programs returns every bundled program keyed by name.
func Programs() map[string]string {
	out := make(map[string]string)
	for _, name := range Names() {
		src, _ := Lookup(name)
		out[name] = src
	}
	return out
}
