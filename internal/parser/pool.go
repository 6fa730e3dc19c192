// # internal/parser/pool.go
package parser

import (
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ParserPool recycles tree-sitter parser instances to avoid the per-file
// allocation overhead of sitter.NewParser() / parser.Close(). Each pool is
// tied to a single grammar; safe for concurrent use.
type ParserPool struct {
	lang *sitter.Language
	pool sync.Pool

	active   int
	activeMu sync.Mutex
}

func NewParserPool(lang *sitter.Language) *ParserPool {
	p := &ParserPool{lang: lang}
	p.pool = sync.Pool{
		New: func() any {
			sp := sitter.NewParser()
			sp.SetLanguage(lang)
			return sp
		},
	}
	return p
}

// Get retrieves a parser already configured for the pool's language.
func (p *ParserPool) Get() *sitter.Parser {
	sp := p.pool.Get().(*sitter.Parser)
	sp.SetLanguage(p.lang)

	p.activeMu.Lock()
	p.active++
	p.activeMu.Unlock()

	return sp
}

// Put returns a parser for reuse. The parser is reset so no references to
// previous parse trees are retained; callers must not use sp after Put.
func (p *ParserPool) Put(sp *sitter.Parser) {
	if sp == nil {
		return
	}

	p.activeMu.Lock()
	p.active--
	p.activeMu.Unlock()

	sp.Reset()
	p.pool.Put(sp)
}

// Stats returns the number of currently leased parsers.
func (p *ParserPool) Stats() int {
	p.activeMu.Lock()
	defer p.activeMu.Unlock()
	return p.active
}
