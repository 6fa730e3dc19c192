package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"condense/internal/summary"
)

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	content, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatal(err)
	}
	return content
}

// Redundant semicolons are formatting noise: they must not change which
// declarations survive pruning.
func TestSemicolonNoiseDoesNotChangeDecisions(t *testing.T) {
	p := NewParser(DefaultLanguageRegistry())

	clean, err := p.ParseFile("adventure.cpp", loadFixture(t, "adventure.cpp"))
	if err != nil {
		t.Fatal(err)
	}
	noisy, err := p.ParseFile("adventure_semicolons.cpp", loadFixture(t, "adventure_semicolons.cpp"))
	if err != nil {
		t.Fatal(err)
	}

	for _, limit := range []int{5, 15, 30, 200} {
		b := summary.Budget{Limit: limit, Unit: summary.UnitLines}
		dClean, err := summary.Decide(clean, b)
		if err != nil {
			t.Fatal(err)
		}
		dNoisy, err := summary.Decide(noisy, b)
		if err != nil {
			t.Fatal(err)
		}
		if !summary.SameShape(clean, dClean, noisy, dNoisy) {
			t.Errorf("limit %d: decision shapes diverged\n--- clean ---\n%s--- noisy ---\n%s",
				limit, summary.DecisionShape(clean, dClean), summary.DecisionShape(noisy, dNoisy))
		}
	}
}

func TestAdventureSummaryKeepsClassSkeleton(t *testing.T) {
	p := NewParser(DefaultLanguageRegistry())

	tree, err := p.ParseFile("adventure.cpp", loadFixture(t, "adventure.cpp"))
	if err != nil {
		t.Fatal(err)
	}

	out, err := summary.Summarize(tree, summary.Budget{Limit: 20, Unit: summary.UnitLines})
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"class Item", "class Weapon", summary.Marker} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "#include") {
		t.Errorf("includes should be dropped at this budget:\n%s", out)
	}
}
