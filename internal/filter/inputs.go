package filter

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Stdin is the input name that reads standard input.
const Stdin = "-"

func hasMeta(p string) bool { return strings.ContainsAny(p, "*?[{") }

// ExpandInputs turns command line arguments into file names. An argument is
// a path, Stdin, or a doublestar glob; a glob that matches nothing is an
// error. Names matching any exclude pattern are dropped, as are duplicates.
// First-seen order is kept; each glob's matches are sorted.
func ExpandInputs(patterns, exclude []string) ([]string, error) {
	for _, ex := range exclude {
		if !doublestar.ValidatePattern(filepath.ToSlash(ex)) {
			return nil, fmt.Errorf("invalid exclude pattern %q", ex)
		}
	}
	seen := map[string]bool{}
	var out []string
	add := func(name string) {
		if seen[name] {
			return
		}
		seen[name] = true
		out = append(out, name)
	}

	for _, p := range patterns {
		if p == Stdin {
			add(p)
			continue
		}
		if !hasMeta(p) {
			if !excluded(p, exclude) {
				add(filepath.Clean(p))
			}
			continue
		}
		matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", p, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", p)
		}
		sort.Strings(matches)
		for _, m := range matches {
			if !excluded(m, exclude) {
				add(m)
			}
		}
	}
	return out, nil
}

func excluded(name string, exclude []string) bool {
	slash := filepath.ToSlash(filepath.Clean(name))
	for _, ex := range exclude {
		if ok, _ := doublestar.Match(filepath.ToSlash(ex), slash); ok {
			return true
		}
	}
	return false
}
