// # internal/summary/summarize.go
package summary

import (
	"time"

	"condense/internal/shared/observability"
)

// Summarize classifies the tree, prunes it to the budget, and renders the
// shortened text. The tree is not mutated beyond role annotation; the same
// (tree, budget) pair always yields byte-identical output. The caller owns
// the tree and frees it after the string is returned.
func Summarize(t *Tree, b Budget) (string, error) {
	d, err := Decide(t, b)
	if err != nil {
		return "", err
	}

	start := time.Now()
	out, err := Render(t, d)
	if err != nil {
		return "", err
	}
	observability.SummarizeDuration.WithLabelValues(t.Language).Observe(time.Since(start).Seconds())

	kept, elided, dropped := d.Counts()
	observability.NodesKept.Add(float64(kept))
	observability.NodesElided.Add(float64(elided))
	observability.NodesDropped.Add(float64(dropped))

	return out, nil
}

// Decide runs classification and pruning without rendering. Exposed so the
// stability checks can compare decision shapes across input variants.
func Decide(t *Tree, b Budget) (*Decisions, error) {
	Classify(t)
	return Prune(t, b)
}
