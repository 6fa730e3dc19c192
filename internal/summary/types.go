// # internal/summary/types.go
package summary

import (
	"bytes"
)

// Role is the semantic classification of a syntax node, independent of the
// grammar-specific kind name.
type Role int

const (
	RoleOther Role = iota
	RoleNamespace
	RoleClassLike
	RoleFunction
	RoleField
	RoleStatement
	RoleComment
	RoleDirective // includes, using directives, imports
)

func (r Role) String() string {
	switch r {
	case RoleNamespace:
		return "namespace"
	case RoleClassLike:
		return "class"
	case RoleFunction:
		return "function"
	case RoleField:
		return "field"
	case RoleStatement:
		return "statement"
	case RoleComment:
		return "comment"
	case RoleDirective:
		return "directive"
	default:
		return "other"
	}
}

type Visibility int

const (
	VisibilityNone Visibility = iota
	VisibilityPublic
	VisibilityPrivate
	VisibilityProtected
)

// SyntaxNode mirrors one named node of the concrete syntax tree. The parent
// exclusively owns its children; the tree is immutable once built.
type SyntaxNode struct {
	Kind         string
	Role         Role
	Name         string
	Visibility   Visibility
	Significance int

	StartByte uint
	EndByte   uint
	StartRow  uint
	EndRow    uint

	Children []*SyntaxNode
}

// Body returns the child node holding this declaration's body, or nil.
// Which kinds count as bodies is grammar-specific; the classifier records
// them per language.
func (n *SyntaxNode) Body(bodyKinds map[string]bool) *SyntaxNode {
	for _, c := range n.Children {
		if bodyKinds[c.Kind] {
			return c
		}
	}
	return nil
}

// Lines returns the number of source lines the node spans.
func (n *SyntaxNode) Lines() int {
	return int(n.EndRow-n.StartRow) + 1
}

// Tree is one parsed input file: the immutable node tree plus the source
// bytes the spans index into.
type Tree struct {
	Root     *SyntaxNode
	Source   []byte
	Language string
}

// Slice returns the source text of the node's span.
func (t *Tree) Slice(n *SyntaxNode) []byte {
	if n == nil || int(n.StartByte) > len(t.Source) || int(n.EndByte) > len(t.Source) {
		return nil
	}
	return t.Source[n.StartByte:n.EndByte]
}

// Unit selects how a Budget is counted.
type Unit int

const (
	UnitLines Unit = iota
	UnitTokens
)

func (u Unit) String() string {
	if u == UnitTokens {
		return "tokens"
	}
	return "lines"
}

// Budget is the maximum output size the summarizer may spend. Consumed
// top-down as nodes are kept.
type Budget struct {
	Limit int
	Unit  Unit
}

// Decision is the per-node pruning tag.
type Decision int

const (
	Keep Decision = iota
	Elide
	Drop
)

func (d Decision) String() string {
	switch d {
	case Elide:
		return "elide"
	case Drop:
		return "drop"
	default:
		return "keep"
	}
}

// Decisions holds the computed tag per node. Nodes elided as part of an
// exhaustion run lose their signature line and are collapsed with adjacent
// run members into a single marker; body-elided nodes keep their signature.
type Decisions struct {
	tags map[*SyntaxNode]Decision
	runs map[*SyntaxNode]bool
}

func newDecisions() *Decisions {
	return &Decisions{
		tags: make(map[*SyntaxNode]Decision),
		runs: make(map[*SyntaxNode]bool),
	}
}

// Tag returns the decision for a node. Untagged nodes default to Keep:
// they live inside a span that is emitted or skipped wholesale.
func (d *Decisions) Tag(n *SyntaxNode) Decision {
	return d.tags[n]
}

// RunElided reports whether an Elided node is part of an exhaustion run.
func (d *Decisions) RunElided(n *SyntaxNode) bool {
	return d.runs[n]
}

func (d *Decisions) decided(n *SyntaxNode) bool {
	_, ok := d.tags[n]
	return ok
}

func (d *Decisions) set(n *SyntaxNode, tag Decision) {
	d.tags[n] = tag
}

func (d *Decisions) setRun(n *SyntaxNode) {
	d.tags[n] = Elide
	d.runs[n] = true
}

// Counts returns how many nodes carry each tag.
func (d *Decisions) Counts() (kept, elided, dropped int) {
	for _, tag := range d.tags {
		switch tag {
		case Keep:
			kept++
		case Elide:
			elided++
		case Drop:
			dropped++
		}
	}
	return
}

// cost is the budget charge for keeping the node verbatim.
func (t *Tree) cost(n *SyntaxNode, unit Unit) int {
	if unit == UnitTokens {
		c := len(bytes.Fields(t.Slice(n)))
		if c < 1 {
			c = 1
		}
		return c
	}
	return n.Lines()
}

// signatureCost is the charge for a declaration reduced to its signature,
// measured up to (and including) the line the body opens on.
func (t *Tree) signatureCost(n *SyntaxNode, body *SyntaxNode, unit Unit) int {
	if body == nil {
		return t.cost(n, unit)
	}
	if unit == UnitTokens {
		c := len(bytes.Fields(t.Source[n.StartByte:body.StartByte])) + 1
		if c < 1 {
			c = 1
		}
		return c
	}
	return int(body.StartRow-n.StartRow) + 1
}
