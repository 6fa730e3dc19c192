// # internal/summary/prune.go
package summary

import (
	errs "condense/internal/core/errors"
)

// markerCost is the budget charge for one rendered elision marker line.
const markerCost = 1

// reservePerSibling is the skeletal allowance held back for each later
// sibling when a container claims budget: enough for a signature line plus
// a marker, so earlier declarations are kept preferentially without
// silently starving the rest (first-seen priority).
const reservePerSibling = 2

// Prune computes a Keep/Elide/Drop tag per node for the given budget.
// Traversal is in declaration order; decisions are computed once per
// (tree, budget) pair and never mutate the tree.
func Prune(t *Tree, b Budget) (*Decisions, error) {
	if b.Limit <= 0 {
		return nil, errs.Newf(errs.CodeInvalidBudget, "budget must be positive, got %d %s", b.Limit, b.Unit)
	}

	d := newDecisions()
	if t.Root == nil {
		return d, nil
	}

	p := &pruner{t: t, d: d, profile: profileFor(t.Language), unit: b.Unit}
	p.pruneSiblings(p.semantic(t.Root.Children), b.Limit, true)
	return d, nil
}

type pruner struct {
	t       *Tree
	d       *Decisions
	profile *languageProfile
	unit    Unit
}

// semantic filters out noise tokens (stray semicolons and the like); they
// ride along with whatever span surrounds them and never carry a decision.
func (p *pruner) semantic(nodes []*SyntaxNode) []*SyntaxNode {
	out := make([]*SyntaxNode, 0, len(nodes))
	for _, n := range nodes {
		if p.profile.noiseKinds[n.Kind] {
			continue
		}
		out = append(out, n)
	}
	return out
}

// pruneSiblings allocates budget across one sibling list in source order
// and returns the amount spent. Overspend is possible: signatures are never
// truncated mid-line.
func (p *pruner) pruneSiblings(nodes []*SyntaxNode, budget int, topLevel bool) int {
	if len(nodes) == 0 {
		return 0
	}

	total := 0
	for _, n := range nodes {
		total += p.t.cost(n, p.unit)
	}

	// Low-value prologue (comments, includes, using directives) is dropped
	// first when the level is over budget.
	if topLevel && total > budget {
		for _, n := range nodes {
			if n.Significance == 0 {
				p.d.set(n, Drop)
			}
		}
	}

	spent := 0
	for i, n := range nodes {
		if p.d.decided(n) {
			continue
		}

		left := budget - spent
		if left <= 0 {
			// Exhausted: the rest is elided, not dropped, so the reader
			// knows it exists. One marker covers the whole run.
			if p.markRun(nodes[i:]) > 0 {
				spent += markerCost
			}
			break
		}

		remaining := p.undecidedFrom(nodes, i)
		share := left / remaining
		if share < 1 {
			share = 1
		}

		cost := p.t.cost(n, p.unit)
		body := p.profile.bodyOf(n)

		switch {
		case cost <= share:
			p.d.set(n, Keep)
			spent += cost

		case body == nil || len(p.semantic(body.Children)) == 0:
			// Leaves, forward declarations, and empty bodies are always
			// kept verbatim: their cost is already minimal.
			p.d.set(n, Keep)
			spent += cost

		case n.Role == RoleClassLike || n.Role == RoleNamespace:
			reserve := (remaining - 1) * reservePerSibling
			inner := left - reserve
			sig := p.t.signatureCost(n, body, p.unit)
			if inner < sig+markerCost {
				inner = min(left, sig+markerCost)
			}
			spent += p.pruneContainer(n, body, inner)

		case n.Role == RoleOther:
			// Unknown syntax is never elided: fail open, render verbatim.
			p.d.set(n, Keep)
			spent += cost

		default:
			// Function and statement bodies collapse to a marker while the
			// signature line(s) survive. A suite body opening mid-line still
			// renders its marker on a line of its own, which costs one more.
			p.d.set(n, Elide)
			spent += p.t.signatureCost(n, body, p.unit)
			if p.unit == UnitLines && p.t.Source[body.StartByte] != '{' && !startsLine(p.t.Source, body.StartByte) {
				spent += markerCost
			}
		}
	}
	return spent
}

// pruneContainer keeps a class/struct/namespace declaration line and splits
// the remaining allowance among its members. The declaration itself is
// never elided: the minimum rendition is its signature with a marker body.
func (p *pruner) pruneContainer(n, body *SyntaxNode, budget int) int {
	p.d.set(n, Keep)

	sig := p.t.signatureCost(n, body, p.unit)
	overhead := sig + markerCost // signature line(s) plus closing delimiter
	members := p.semantic(body.Children)

	inner := budget - overhead
	if inner <= 0 {
		if p.markRun(members) > 0 {
			return overhead + markerCost
		}
		return overhead
	}
	return overhead + p.pruneSiblings(members, inner, false)
}

// markRun tags every undecided node as run-elided and returns how many
// nodes joined the run.
func (p *pruner) markRun(nodes []*SyntaxNode) int {
	marked := 0
	for _, n := range nodes {
		if p.d.decided(n) {
			continue
		}
		p.d.setRun(n)
		marked++
	}
	return marked
}

func (p *pruner) undecidedFrom(nodes []*SyntaxNode, i int) int {
	count := 0
	for _, n := range nodes[i:] {
		if !p.d.decided(n) {
			count++
		}
	}
	if count < 1 {
		count = 1
	}
	return count
}
