package planner

import (
	"path/filepath"
	"slices"
	"strings"
)

// ExtensionAllowed reports whether name carries one of the container
// suffixes (given without the leading dot). Matching is case-sensitive, so
// "movie.MKV" does not match "mkv". Names without a stem such as ".mkv" are
// hidden files, not containers, and never match.
func ExtensionAllowed(name string, suffixes []string) bool {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	if ext == "" || ext == base {
		return false
	}
	return slices.Contains(suffixes, strings.TrimPrefix(ext, "."))
}
