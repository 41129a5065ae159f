package naming

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// CollisionResolver hands out output paths for the inputs of one run. When
// two inputs flatten to the same output, the later one gets a
// "<stem> - dupN<ext>" variant. All methods are goroutine-safe.
type CollisionResolver struct {
	mu     sync.Mutex
	owners map[string]string // output path → input path that claimed it
	next   map[string]int    // requested path → next dup counter to try
}

// NewCollisionResolver creates an empty resolver.
func NewCollisionResolver() *CollisionResolver {
	return &CollisionResolver{
		owners: make(map[string]string),
		next:   make(map[string]int),
	}
}

// Resolve claims an output path for input. requested is returned unchanged
// when it is free or already owned by input; otherwise the first free dup
// variant is claimed and returned. The boolean reports whether the path was
// renamed.
func (cr *CollisionResolver) Resolve(input, requested string) (string, bool) {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if owner, ok := cr.owners[requested]; !ok || owner == input {
		cr.owners[requested] = input
		return requested, false
	}

	dir, base := filepath.Split(requested)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	n := max(cr.next[requested], 1)
	for {
		candidate := filepath.Join(dir, fmt.Sprintf("%s - dup%d%s", stem, n, ext))
		if owner, ok := cr.owners[candidate]; !ok || owner == input {
			cr.owners[candidate] = input
			cr.next[requested] = n + 1
			return candidate, true
		}
		n++
	}
}
