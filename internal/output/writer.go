// # internal/output/writer.go
package output

import (
	"path/filepath"
	"strings"

	"condense/internal/shared/util"
)

// SummaryPath maps a source path to its summary file path: the suffix is
// inserted before the extension (game.cpp -> game.summarized.cpp) and the
// file lands under outDir mirroring the source layout.
func SummaryPath(outDir, suffix, srcPath string) string {
	rel := util.NormalizePatternPath(srcPath)
	ext := filepath.Ext(rel)
	base := strings.TrimSuffix(rel, ext)
	name := base + suffix + ext
	if outDir == "" {
		return name
	}
	return filepath.Join(outDir, name)
}

// WriteSummary persists one summary next to (or under outDir mirroring)
// its source file. Returns the written path.
func WriteSummary(outDir, suffix, srcPath, text string) (string, error) {
	target := SummaryPath(outDir, suffix, srcPath)
	if err := util.WriteStringWithDirs(target, text, 0o644); err != nil {
		return "", err
	}
	return target, nil
}
