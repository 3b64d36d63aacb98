// Package slotindex implements the Slot Index (C3): the mapping from a
// partial (abbreviated) slot path to its fully-qualified path, built
// once per tag space and consulted by the Value Builder and Compiler.
package slotindex

import (
	"strings"

	"github.com/ritamzico/decisiongraph/internal/tagspace"
)

const sep = "\x00"

func join(path []string) string {
	return strings.Join(path, sep)
}

func equalPath(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Index maps every unambiguous path (full or abbreviated) to its
// canonical full path, per §4.1's suffix-claiming algorithm.
type Index struct {
	root      *tagspace.CompoundType
	canonical map[string][]string
}

// Build enumerates every full slot path under root — the root itself
// (the empty path) plus every field reachable by descending the
// compound tree, in declaration order — then claims abbreviations per
// §4.1. Field iteration order must be declaration order (as
// tagspace.CompoundType.Fields already guarantees) for the claiming
// order, and therefore ambiguity detection, to be deterministic.
func Build(root *tagspace.CompoundType) *Index {
	var fullPaths [][]string

	var walk func(t tagspace.Type, prefix []string)
	walk = func(t tagspace.Type, prefix []string) {
		path := append([]string(nil), prefix...)
		fullPaths = append(fullPaths, path)

		ct, ok := t.(*tagspace.CompoundType)
		if !ok {
			return
		}
		for _, f := range ct.Fields() {
			walk(f.Type, append(append([]string(nil), prefix...), f.Name))
		}
	}
	walk(root, nil)

	fullSet := make(map[string]bool, len(fullPaths))
	canonical := make(map[string][]string, len(fullPaths))
	for _, p := range fullPaths {
		key := join(p)
		fullSet[key] = true
		canonical[key] = p
	}

	ambiguous := make(map[string]bool)

	for _, p := range fullPaths {
		claimSuffixes(p, fullSet, canonical, ambiguous)
	}

	for key := range ambiguous {
		delete(canonical, key)
	}

	return &Index{root: root, canonical: canonical}
}

// claimSuffixes walks the non-empty proper suffixes of p from longest
// to shortest, claiming each unclaimed one for p. The first suffix
// already claimed by a different full path is marked ambiguous and
// claiming stops for p (shorter suffixes of p are not attempted).
func claimSuffixes(p []string, fullSet map[string]bool, canonical map[string][]string, ambiguous map[string]bool) {
	for cut := 1; cut < len(p); cut++ {
		suffix := p[cut:]
		key := join(suffix)

		if fullSet[key] {
			continue
		}

		existing, claimed := canonical[key]
		if !claimed {
			canonical[key] = p
			continue
		}
		if equalPath(existing, p) {
			continue
		}

		ambiguous[key] = true
		return
	}
}

// Resolve looks up a path reference (full or abbreviated) and returns
// its canonical full path. Ambiguous or unknown references fail.
func (idx *Index) Resolve(ref []string) ([]string, error) {
	canonical, ok := idx.canonical[join(ref)]
	if !ok {
		return nil, notFound(strings.Join(ref, "."))
	}
	return canonical, nil
}

// Root returns the compound type this index was built over.
func (idx *Index) Root() *tagspace.CompoundType {
	return idx.root
}
