// # internal/output/output_test.go
package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMarkdownGenerator(t *testing.T) {
	gen := NewMarkdownGenerator([]FileSummary{
		{Path: "src/b.py", Language: "python", Summary: "def main():\n    …"},
		{Path: "src/a.cpp", Language: "cpp", Summary: "class Item {\n\t…\n};\n"},
	})

	md := gen.Generate()

	if !strings.Contains(md, "## src/a.cpp") || !strings.Contains(md, "## src/b.py") {
		t.Errorf("missing file sections:\n%s", md)
	}
	if !strings.Contains(md, "```cpp\n") || !strings.Contains(md, "```python\n") {
		t.Errorf("missing fence labels:\n%s", md)
	}
	// Sorted by path for stable diffs.
	if strings.Index(md, "## src/a.cpp") > strings.Index(md, "## src/b.py") {
		t.Error("sections not sorted by path")
	}
	// Every fence is closed.
	if strings.Count(md, "```")%2 != 0 {
		t.Error("unbalanced code fences")
	}
}

func TestSummaryPath(t *testing.T) {
	cases := []struct {
		outDir, src, want string
	}{
		{"", "src/game.cpp", "src/game.summarized.cpp"},
		{"out", "src/game.cpp", filepath.Join("out", "src", "game.summarized.cpp")},
		{"out", "./main.go", filepath.Join("out", "main.summarized.go")},
	}
	for _, c := range cases {
		if got := SummaryPath(c.outDir, ".summarized", c.src); got != c.want {
			t.Errorf("SummaryPath(%q, %q) = %q, want %q", c.outDir, c.src, got, c.want)
		}
	}
}

func TestWriteSummary(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteSummary(dir, ".summarized", "pkg/item.cpp", "class Item { … };\n")
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "class Item { … };\n" {
		t.Errorf("unexpected content: %q", string(data))
	}
}
