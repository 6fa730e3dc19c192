// # internal/summary/normalize.go
package summary

import (
	"fmt"
	"strings"
)

// DecisionShape returns a canonical fingerprint of the decisions: role,
// name, and tag per semantic node in traversal order. Byte offsets,
// whitespace, and comment text never appear in the shape, so two inputs
// differing only in redundant semicolons, blank lines, or comment wording
// fingerprint identically. A shape difference between such variants means
// classification is leaking formatting-layer tokens.
func DecisionShape(t *Tree, d *Decisions) string {
	var b strings.Builder
	if t.Root != nil {
		shapeLevel(&b, profileFor(t.Language), d, t.Root.Children, 0)
	}
	return b.String()
}

func shapeLevel(b *strings.Builder, p *languageProfile, d *Decisions, nodes []*SyntaxNode, depth int) {
	for _, n := range nodes {
		if p.noiseKinds[n.Kind] {
			continue
		}

		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(n.Role.String())
		if n.Name != "" {
			fmt.Fprintf(b, "(%s)", n.Name)
		}
		b.WriteString(":")
		b.WriteString(d.Tag(n).String())
		if d.RunElided(n) {
			b.WriteString("*")
		}
		b.WriteString("\n")

		if n.Role == RoleClassLike || n.Role == RoleNamespace {
			if body := p.bodyOf(n); body != nil {
				shapeLevel(b, p, d, body.Children, depth+1)
			}
		}
	}
}

// SameShape reports whether two (tree, decisions) pairs prune identically
// over their semantic nodes.
func SameShape(a *Tree, da *Decisions, b *Tree, db *Decisions) bool {
	return DecisionShape(a, da) == DecisionShape(b, db)
}

// CountsDeep totals the decisions over every semantic node of the tree.
// An elided or dropped declaration claims everything beneath it, so the
// totals are comparable across budgets: raising the budget never raises
// the elided or dropped total.
func CountsDeep(t *Tree, d *Decisions) (kept, elided, dropped int) {
	if t.Root == nil {
		return
	}
	p := profileFor(t.Language)
	var level func(nodes []*SyntaxNode)
	level = func(nodes []*SyntaxNode) {
		for _, n := range nodes {
			if p.noiseKinds[n.Kind] {
				continue
			}
			switch d.Tag(n) {
			case Drop:
				dropped += semanticSize(p, n)
			case Elide:
				elided += semanticSize(p, n)
			default:
				if body := p.bodyOf(n); body != nil && (n.Role == RoleClassLike || n.Role == RoleNamespace) {
					kept++
					level(body.Children)
				} else {
					kept += semanticSize(p, n)
				}
			}
		}
	}
	level(t.Root.Children)
	return
}

// semanticSize counts the node plus every non-noise descendant.
func semanticSize(p *languageProfile, n *SyntaxNode) int {
	size := 1
	for _, c := range n.Children {
		if p.noiseKinds[c.Kind] {
			continue
		}
		size += semanticSize(p, c)
	}
	return size
}
