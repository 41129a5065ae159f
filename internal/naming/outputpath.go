package naming

import (
	"path/filepath"
	"strings"

	"github.com/backmassage/treeconv/internal/config"
)

// OutputPath builds the output file path for inputPath:
//
//	flat:   <OutputDir>/<stem><AppendToName><ext>
//	mirror: <OutputDir>/<dir relative to InputDir>/<stem><AppendToName><ext>
//
// The extension is kept as-is, so the container format never changes.
// Inputs outside InputDir fall back to the flat layout.
func OutputPath(cfg *config.Config, inputPath string) string {
	base := filepath.Base(inputPath)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext) + cfg.AppendToName + ext

	if !cfg.Mirror {
		return filepath.Join(cfg.OutputDir, name)
	}
	rel, err := filepath.Rel(cfg.InputDir, filepath.Dir(inputPath))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.Join(cfg.OutputDir, name)
	}
	return filepath.Join(cfg.OutputDir, rel, name)
}
