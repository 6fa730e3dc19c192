package parser

import (
	"strings"
	"testing"

	errs "condense/internal/core/errors"
	"condense/internal/summary"
)

func TestParseFileGo(t *testing.T) {
	p := NewParser(DefaultLanguageRegistry())

	src := []byte(`package demo

// Add returns the sum.
func Add(a, b int) int {
	return a + b
}
`)
	tree, err := p.ParseFile("demo.go", src)
	if err != nil {
		t.Fatal(err)
	}

	if tree.Language != "go" {
		t.Errorf("language = %q, want go", tree.Language)
	}
	if tree.Root == nil || len(tree.Root.Children) == 0 {
		t.Fatal("parsed tree has no children")
	}

	var fn *summary.SyntaxNode
	for _, n := range tree.Root.Children {
		if n.Kind == "function_declaration" {
			fn = n
		}
	}
	if fn == nil {
		t.Fatal("no function_declaration in tree")
	}
	if fn.Name != "Add" {
		t.Errorf("function name = %q, want Add", fn.Name)
	}
	if got := string(tree.Slice(fn)); !strings.HasPrefix(got, "func Add") {
		t.Errorf("function span starts with %q", got)
	}
}

func TestParseFileSyntaxError(t *testing.T) {
	p := NewParser(DefaultLanguageRegistry())

	_, err := p.ParseFile("bad.go", []byte("package demo\n\nfunc broken( {\n"))
	if !errs.IsCode(err, errs.CodeParseError) {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestParseFileUnsupported(t *testing.T) {
	p := NewParser(DefaultLanguageRegistry())

	_, err := p.ParseFile("notes.txt", []byte("hello"))
	if !errs.IsCode(err, errs.CodeNotSupported) {
		t.Errorf("expected not-supported error, got %v", err)
	}
}

func TestParseThenSummarizeStaysBalanced(t *testing.T) {
	p := NewParser(DefaultLanguageRegistry())

	src := []byte(`#include <cstdio>

class Counter {
    int n;
public:
    void bump() {
        n = n + 1;
        printf("%d", n);
    }
    int get() {
        return n;
    }
};

int main() {
    Counter c;
    c.bump();
    return 0;
}
`)
	tree, err := p.ParseFile("counter.cpp", src)
	if err != nil {
		t.Fatal(err)
	}

	for limit := 1; limit <= 20; limit++ {
		out, err := summary.Summarize(tree, summary.Budget{Limit: limit, Unit: summary.UnitLines})
		if err != nil {
			t.Fatalf("limit %d: %v", limit, err)
		}
		if limit < 15 && !strings.Contains(out, summary.Marker) {
			t.Errorf("limit %d: expected elision marker:\n%s", limit, out)
		}
	}
}

func TestParseThenSummarizeTemplateFunction(t *testing.T) {
	p := NewParser(DefaultLanguageRegistry())

	src := []byte(`template <typename T>
T add(T first, T second) {
    T total = first;
    total += second;
    return total;
}

int main() {
    int x = add(1, 2);
    return x;
}
`)
	tree, err := p.ParseFile("add.cpp", src)
	if err != nil {
		t.Fatal(err)
	}

	out, err := summary.Summarize(tree, summary.Budget{Limit: 5, Unit: summary.UnitLines})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "T add(T first, T second) {"+summary.Marker+"}") {
		t.Errorf("template function kept its body:\n%s", out)
	}
	if strings.Contains(out, "total += second;") {
		t.Errorf("template body leaked into output:\n%s", out)
	}
	if lines := strings.Count(out, "\n"); lines > 8 {
		t.Errorf("5-line budget produced %d lines:\n%s", lines, out)
	}
}

func TestParseThenSummarizeDigitSeparators(t *testing.T) {
	p := NewParser(DefaultLanguageRegistry())

	src := []byte(`int limits[] = {1'000, 2'000'000};

int main() {
    return limits[0];
}
`)
	tree, err := p.ParseFile("limits.cpp", src)
	if err != nil {
		t.Fatal(err)
	}

	for _, limit := range []int{2, 100} {
		if _, err := summary.Summarize(tree, summary.Budget{Limit: limit, Unit: summary.UnitLines}); err != nil {
			t.Fatalf("limit %d: %v", limit, err)
		}
	}
}

func TestParserPoolReuse(t *testing.T) {
	p := NewParser(DefaultLanguageRegistry())
	src := []byte("package demo\n\nvar X = 1\n")

	for i := 0; i < 5; i++ {
		if _, err := p.ParseFile("x.go", src); err != nil {
			t.Fatal(err)
		}
	}
	if got := p.pools["go"].Stats(); got != 0 {
		t.Errorf("active parsers after return = %d, want 0", got)
	}
}
