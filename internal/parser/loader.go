// # internal/parser/loader.go
package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

type GrammarLoader struct {
	languages map[string]*sitter.Language
}

// NewGrammarLoader instantiates the statically linked grammars for every
// enabled language in the registry.
func NewGrammarLoader(registry map[string]LanguageSpec) *GrammarLoader {
	gl := &GrammarLoader{
		languages: make(map[string]*sitter.Language),
	}

	for name, spec := range registry {
		if !spec.Enabled {
			continue
		}
		switch name {
		case "cpp":
			gl.languages[name] = sitter.NewLanguage(tree_sitter_cpp.Language())
		case "go":
			gl.languages[name] = sitter.NewLanguage(tree_sitter_go.Language())
		case "python":
			gl.languages[name] = sitter.NewLanguage(tree_sitter_python.Language())
		case "java":
			gl.languages[name] = sitter.NewLanguage(tree_sitter_java.Language())
		case "rust":
			gl.languages[name] = sitter.NewLanguage(tree_sitter_rust.Language())
		case "javascript":
			gl.languages[name] = sitter.NewLanguage(tree_sitter_javascript.Language())
		case "typescript":
			gl.languages[name] = sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
		}
	}

	return gl
}

// Language returns the grammar for a language name, or nil.
func (gl *GrammarLoader) Language(name string) *sitter.Language {
	return gl.languages[name]
}
