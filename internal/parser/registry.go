// # internal/parser/registry.go
package parser

import (
	"path/filepath"
	"strings"
)

type LanguageSpec struct {
	Name       string
	Extensions []string
	Filenames  []string
	Enabled    bool
}

type LanguageOverride struct {
	Enabled    *bool
	Extensions []string
}

// DefaultLanguageRegistry lists every grammar the loader can provide.
// C++, Go, Python, and Java are on by default; the rest opt in via config.
func DefaultLanguageRegistry() map[string]LanguageSpec {
	return map[string]LanguageSpec{
		"cpp": {
			Name:       "cpp",
			Extensions: []string{".cpp", ".cc", ".cxx", ".hpp", ".hh", ".h"},
			Enabled:    true,
		},
		"go": {
			Name:       "go",
			Extensions: []string{".go"},
			Enabled:    true,
		},
		"python": {
			Name:       "python",
			Extensions: []string{".py"},
			Enabled:    true,
		},
		"java": {
			Name:       "java",
			Extensions: []string{".java"},
			Enabled:    true,
		},
		"rust": {
			Name:       "rust",
			Extensions: []string{".rs"},
			Enabled:    false,
		},
		"javascript": {
			Name:       "javascript",
			Extensions: []string{".js", ".cjs", ".mjs"},
			Enabled:    false,
		},
		"typescript": {
			Name:       "typescript",
			Extensions: []string{".ts"},
			Enabled:    false,
		},
	}
}

// ApplyOverrides returns a copy of the registry with config overrides
// applied. Unknown language names are ignored.
func ApplyOverrides(registry map[string]LanguageSpec, overrides map[string]LanguageOverride) map[string]LanguageSpec {
	out := make(map[string]LanguageSpec, len(registry))
	for name, spec := range registry {
		if ov, ok := overrides[name]; ok {
			if ov.Enabled != nil {
				spec.Enabled = *ov.Enabled
			}
			if len(ov.Extensions) > 0 {
				spec.Extensions = append([]string(nil), ov.Extensions...)
			}
		}
		out[name] = spec
	}
	return out
}

// DetectLanguage maps a file path to an enabled language name, or "".
func DetectLanguage(registry map[string]LanguageSpec, path string) string {
	base := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(path))

	for name, spec := range registry {
		if !spec.Enabled {
			continue
		}
		for _, fn := range spec.Filenames {
			if fn == base {
				return name
			}
		}
		for _, e := range spec.Extensions {
			if e == ext {
				return name
			}
		}
	}
	return ""
}
