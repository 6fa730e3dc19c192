package summary

import (
	"strings"
	"testing"
)

// fixture builds hand-assembled trees over a source string. Node spans are
// located by substring, so fixture texts must be unique within the source.
type fixture struct {
	t   *testing.T
	src string
}

func (f fixture) tree(lang string, children ...*SyntaxNode) *Tree {
	root := &SyntaxNode{
		Kind:     "translation_unit",
		EndByte:  uint(len(f.src)),
		EndRow:   uint(strings.Count(f.src, "\n")),
		Children: children,
	}
	return &Tree{Root: root, Source: []byte(f.src), Language: lang}
}

func (f fixture) node(kind, text string, children ...*SyntaxNode) *SyntaxNode {
	start := strings.Index(f.src, text)
	if start < 0 {
		f.t.Fatalf("fixture text not found: %q", text)
	}
	end := start + len(text)
	return &SyntaxNode{
		Kind:      kind,
		StartByte: uint(start),
		EndByte:   uint(end),
		StartRow:  uint(strings.Count(f.src[:start], "\n")),
		EndRow:    uint(strings.Count(f.src[:end], "\n")),
		Children:  children,
	}
}

// nodeAfter locates text by its first occurrence after an anchor, for
// spans (stray semicolons) the text alone cannot pin down.
func (f fixture) nodeAfter(kind, anchor, text string) *SyntaxNode {
	a := strings.Index(f.src, anchor)
	if a < 0 {
		f.t.Fatalf("fixture anchor not found: %q", anchor)
	}
	rel := strings.Index(f.src[a+len(anchor):], text)
	if rel < 0 {
		f.t.Fatalf("fixture text not found after %q: %q", anchor, text)
	}
	start := a + len(anchor) + rel
	end := start + len(text)
	return &SyntaxNode{
		Kind:      kind,
		StartByte: uint(start),
		EndByte:   uint(end),
		StartRow:  uint(strings.Count(f.src[:start], "\n")),
		EndRow:    uint(strings.Count(f.src[:end], "\n")),
	}
}

func (f fixture) named(kind, name, text string, children ...*SyntaxNode) *SyntaxNode {
	n := f.node(kind, text, children...)
	n.Name = name
	return n
}

const cppGame = `#include <iostream>
#include <string>

// One item carried by the player.
struct Item {
    std::string name;
    int value;

    void describe() {
        report(name);
        report(value);
    }
};

int add(int first, int second) {
    return first + second;
}

int main() {
    Item sword;
    sword.describe();
    return 0;
}
`

// cppGameTree hand-assembles the tree a parse of cppGame produces.
func cppGameTree(t *testing.T) *Tree {
	f := fixture{t: t, src: cppGame}

	bodyText := "{\n    std::string name;\n    int value;\n\n    void describe() {\n        report(name);\n        report(value);\n    }\n}"
	structBody := f.node("field_declaration_list", bodyText,
		f.node("field_declaration", "std::string name;"),
		f.node("field_declaration", "int value;"),
		f.named("function_definition", "describe",
			"void describe() {\n        report(name);\n        report(value);\n    }",
			f.node("compound_statement", "{\n        report(name);\n        report(value);\n    }",
				f.node("expression_statement", "report(name);"),
				f.node("expression_statement", "report(value);"),
			),
		),
	)

	return f.tree("cpp",
		f.node("preproc_include", "#include <iostream>"),
		f.node("preproc_include", "#include <string>"),
		f.node("comment", "// One item carried by the player."),
		f.named("struct_specifier", "Item", "struct Item "+bodyText,
			f.node("type_identifier", "Item"),
			structBody,
		),
		f.named("function_definition", "add",
			"int add(int first, int second) {\n    return first + second;\n}",
			f.node("compound_statement", "{\n    return first + second;\n}",
				f.node("return_statement", "return first + second;"),
			),
		),
		f.named("function_definition", "main",
			"int main() {\n    Item sword;\n    sword.describe();\n    return 0;\n}",
			f.node("compound_statement", "{\n    Item sword;\n    sword.describe();\n    return 0;\n}",
				f.node("declaration", "Item sword;"),
				f.node("expression_statement", "sword.describe();"),
				f.node("return_statement", "return 0;"),
			),
		),
	)
}

func TestSummarizeGenerousBudgetKeepsEverything(t *testing.T) {
	tree := cppGameTree(t)
	out, err := Summarize(tree, Budget{Limit: 100, Unit: UnitLines})
	if err != nil {
		t.Fatal(err)
	}
	if out != cppGame {
		t.Errorf("expected verbatim output, got:\n%s", out)
	}
}

func TestSummarizeMidBudgetElidesFunctionBodies(t *testing.T) {
	tree := cppGameTree(t)
	out, err := Summarize(tree, Budget{Limit: 12, Unit: UnitLines})
	if err != nil {
		t.Fatal(err)
	}

	want := `struct Item {
    std::string name;
    int value;

    void describe() {
        report(name);
        report(value);
    }
};

int add(int first, int second) {…}

int main() {…}
`
	if out != want {
		t.Errorf("unexpected summary:\n--- got ---\n%s--- want ---\n%s", out, want)
	}
}

func TestSummarizeTightBudgetCollapsesMembers(t *testing.T) {
	tree := cppGameTree(t)
	out, err := Summarize(tree, Budget{Limit: 5, Unit: UnitLines})
	if err != nil {
		t.Fatal(err)
	}

	want := `struct Item {
    …
};

int add(int first, int second) {…}

int main() {…}
`
	if out != want {
		t.Errorf("unexpected summary:\n--- got ---\n%s--- want ---\n%s", out, want)
	}
}

func TestSummarizeMinimalBudgetLeavesSkeleton(t *testing.T) {
	tree := cppGameTree(t)
	out, err := Summarize(tree, Budget{Limit: 3, Unit: UnitLines})
	if err != nil {
		t.Fatal(err)
	}

	want := `struct Item {
    …
};

…
`
	if out != want {
		t.Errorf("unexpected summary:\n--- got ---\n%s--- want ---\n%s", out, want)
	}
}

const cppTemplates = `template <typename T>
T add(T first, T second) {
    T total = first;
    total += second;
    return total;
}

template <typename U>
struct Box {
    U content;

    U get() {
        return content;
    }
};

int main() {
    return 0;
}
`

func cppTemplatesTree(t *testing.T) *Tree {
	f := fixture{t: t, src: cppTemplates}

	addText := "T add(T first, T second) {\n    T total = first;\n    total += second;\n    return total;\n}"
	boxText := "struct Box {\n    U content;\n\n    U get() {\n        return content;\n    }\n}"

	return f.tree("cpp",
		f.node("template_declaration", "template <typename T>\n"+addText,
			f.node("template_parameter_list", "<typename T>"),
			f.named("function_definition", "add", addText,
				f.node("compound_statement", "{\n    T total = first;\n    total += second;\n    return total;\n}",
					f.node("declaration", "T total = first;"),
					f.node("expression_statement", "total += second;"),
					f.node("return_statement", "return total;"),
				),
			),
		),
		f.node("template_declaration", "template <typename U>\n"+boxText+";",
			f.node("template_parameter_list", "<typename U>"),
			f.named("struct_specifier", "Box", boxText,
				f.node("type_identifier", "Box"),
				f.node("field_declaration_list", "{\n    U content;\n\n    U get() {\n        return content;\n    }\n}",
					f.node("field_declaration", "U content;"),
					f.named("function_definition", "get", "U get() {\n        return content;\n    }",
						f.node("compound_statement", "{\n        return content;\n    }",
							f.node("return_statement", "return content;"),
						),
					),
				),
			),
		),
		f.named("function_definition", "main", "int main() {\n    return 0;\n}",
			f.node("compound_statement", "{\n    return 0;\n}",
				f.node("return_statement", "return 0;"),
			),
		),
	)
}

func TestSummarizeTemplateDeclarations(t *testing.T) {
	out, err := Summarize(cppTemplatesTree(t), Budget{Limit: 100, Unit: UnitLines})
	if err != nil {
		t.Fatal(err)
	}
	if out != cppTemplates {
		t.Errorf("expected verbatim output, got:\n%s", out)
	}

	// Under pressure a template function loses its body like any other
	// function, and a template class keeps its skeleton.
	out, err = Summarize(cppTemplatesTree(t), Budget{Limit: 5, Unit: UnitLines})
	if err != nil {
		t.Fatal(err)
	}

	want := `template <typename T>
T add(T first, T second) {…}

template <typename U>
struct Box {
    …
};

…
`
	if out != want {
		t.Errorf("unexpected summary:\n--- got ---\n%s--- want ---\n%s", out, want)
	}
}

const jsWidgets = `export function render(data) {
    const el = build(data);
    attach(el);
    return el;
}

export function clear() {
    detach();
}
`

func TestSummarizeExportedFunctions(t *testing.T) {
	f := fixture{t: t, src: jsWidgets}
	renderText := "function render(data) {\n    const el = build(data);\n    attach(el);\n    return el;\n}"
	clearText := "function clear() {\n    detach();\n}"
	tree := f.tree("javascript",
		f.node("export_statement", "export "+renderText,
			f.named("function_declaration", "render", renderText,
				f.node("statement_block", "{\n    const el = build(data);\n    attach(el);\n    return el;\n}",
					f.node("lexical_declaration", "const el = build(data);"),
					f.node("expression_statement", "attach(el);"),
					f.node("return_statement", "return el;"),
				),
			),
		),
		f.node("export_statement", "export "+clearText,
			f.named("function_declaration", "clear", clearText,
				f.node("statement_block", "{\n    detach();\n}",
					f.node("expression_statement", "detach();"),
				),
			),
		),
	)

	out, err := Summarize(tree, Budget{Limit: 3, Unit: UnitLines})
	if err != nil {
		t.Fatal(err)
	}

	want := `export function render(data) {…}

export function clear() {…}
`
	if out != want {
		t.Errorf("unexpected summary:\n--- got ---\n%s--- want ---\n%s", out, want)
	}
}

const pySample = `import os

def greet(name):
    print(name)
    print("hi")

def main():
    greet("world")
`

func pySampleTree(t *testing.T) *Tree {
	f := fixture{t: t, src: pySample}
	return f.tree("python",
		f.node("import_statement", "import os"),
		f.named("function_definition", "greet", "def greet(name):\n    print(name)\n    print(\"hi\")",
			f.node("block", "print(name)\n    print(\"hi\")",
				f.node("expression_statement", "print(name)"),
				f.node("expression_statement", "print(\"hi\")"),
			),
		),
		f.named("function_definition", "main", "def main():\n    greet(\"world\")",
			f.node("block", "greet(\"world\")",
				f.node("expression_statement", "greet(\"world\")"),
			),
		),
	)
}

func TestSummarizePythonIndentedBodies(t *testing.T) {
	tree := pySampleTree(t)
	out, err := Summarize(tree, Budget{Limit: 3, Unit: UnitLines})
	if err != nil {
		t.Fatal(err)
	}

	want := `def greet(name):
    …

def main():
    …
`
	if out != want {
		t.Errorf("unexpected summary:\n--- got ---\n%s--- want ---\n%s", out, want)
	}
}

const pyInline = `def configure(alpha,
              beta): setup()

def run():
    launch()
    finish()
`

// A suite body opening mid-line renders its marker on an extra line; the
// pruner must charge for it or later siblings overdraw the budget.
func TestSummarizePythonInlineSuiteChargesMarkerLine(t *testing.T) {
	f := fixture{t: t, src: pyInline}
	tree := f.tree("python",
		f.named("function_definition", "configure", "def configure(alpha,\n              beta): setup()",
			f.node("block", "setup()",
				f.node("expression_statement", "setup()"),
			),
		),
		f.named("function_definition", "run", "def run():\n    launch()\n    finish()",
			f.node("block", "launch()\n    finish()",
				f.node("expression_statement", "launch()"),
				f.node("expression_statement", "finish()"),
			),
		),
	)

	out, err := Summarize(tree, Budget{Limit: 3, Unit: UnitLines})
	if err != nil {
		t.Fatal(err)
	}

	want := `def configure(alpha,
              beta):
              …

…
`
	if out != want {
		t.Errorf("unexpected summary:\n--- got ---\n%s--- want ---\n%s", out, want)
	}
}

func TestSummarizeDeterministic(t *testing.T) {
	for _, limit := range []int{3, 5, 12, 100} {
		a, err := Summarize(cppGameTree(t), Budget{Limit: limit, Unit: UnitLines})
		if err != nil {
			t.Fatal(err)
		}
		b, err := Summarize(cppGameTree(t), Budget{Limit: limit, Unit: UnitLines})
		if err != nil {
			t.Fatal(err)
		}
		if a != b {
			t.Errorf("limit %d: repeated summarization diverged", limit)
		}
	}
}

func TestSummarizeOutputAlwaysBalanced(t *testing.T) {
	for limit := 1; limit <= 25; limit++ {
		out, err := Summarize(cppGameTree(t), Budget{Limit: limit, Unit: UnitLines})
		if err != nil {
			t.Fatalf("limit %d: %v", limit, err)
		}
		if err := checkBalance(out, "cpp"); err != nil {
			t.Errorf("limit %d: unbalanced output: %v\n%s", limit, err, out)
		}
	}
}
