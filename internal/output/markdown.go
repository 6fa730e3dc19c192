// # internal/output/markdown.go
package output

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// FileSummary is one summarized file ready for reporting.
type FileSummary struct {
	Path     string
	Language string
	Summary  string
}

type MarkdownGenerator struct {
	summaries []FileSummary
}

func NewMarkdownGenerator(summaries []FileSummary) *MarkdownGenerator {
	return &MarkdownGenerator{summaries: summaries}
}

// Generate renders all summaries as a single markdown report, one fenced
// code block per file, sorted by path for stable diffs.
func (m *MarkdownGenerator) Generate() string {
	var buf strings.Builder

	buf.WriteString("# Source Summaries\n\n")
	buf.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().UTC().Format(time.RFC3339)))
	buf.WriteString(fmt.Sprintf("Files: %d\n\n", len(m.summaries)))

	sorted := make([]FileSummary, len(m.summaries))
	copy(sorted, m.summaries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	for _, fs := range sorted {
		buf.WriteString(fmt.Sprintf("## %s\n\n", fs.Path))
		buf.WriteString("```")
		buf.WriteString(fenceLabel(fs.Language))
		buf.WriteString("\n")
		buf.WriteString(fs.Summary)
		if !strings.HasSuffix(fs.Summary, "\n") {
			buf.WriteString("\n")
		}
		buf.WriteString("```\n\n")
	}

	return buf.String()
}

func fenceLabel(language string) string {
	switch language {
	case "cpp":
		return "cpp"
	case "go":
		return "go"
	case "python":
		return "python"
	case "java":
		return "java"
	case "rust":
		return "rust"
	case "javascript":
		return "javascript"
	case "typescript":
		return "typescript"
	default:
		return ""
	}
}
