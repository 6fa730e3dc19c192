// # internal/summary/render.go
package summary

import (
	"strings"

	errs "condense/internal/core/errors"
)

// Marker is the elision placeholder emitted in place of omitted content.
const Marker = "…"

// Render serializes the tree back to text under the computed decisions.
// Kept spans are emitted verbatim with their original formatting; elided
// bodies collapse to a marker; dropped nodes vanish without a trace.
// Idempotent for identical (tree, decisions) input.
func Render(t *Tree, d *Decisions) (string, error) {
	var out strings.Builder
	r := &renderer{t: t, d: d, p: profileFor(t.Language), out: &out}

	if t.Root != nil {
		r.renderSpan(t.Root.Children, 0, uint(len(t.Source)))
	}

	text := out.String()
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if err := checkBalance(text, t.Language); err != nil {
		return "", err
	}
	return text, nil
}

type renderer struct {
	t   *Tree
	d   *Decisions
	p   *languageProfile
	out *strings.Builder
}

// renderSpan emits the members between cursor and end, honoring each
// member's decision. Text between tracked nodes (whitespace, anonymous
// tokens) is part of the enclosing gap and follows its neighbors' fate.
func (r *renderer) renderSpan(members []*SyntaxNode, cursor, end uint) {
	trimGap := false
	i := 0
	for i < len(members) {
		m := members[i]
		switch tag := r.d.Tag(m); {
		case tag == Drop:
			cursor = m.EndByte
			trimGap = true
			i++

		case tag == Elide && r.d.RunElided(m):
			// One marker line covers the whole run of consecutive
			// run-elided (and interleaved dropped) siblings.
			r.writeMarkerLine(cursor, m.StartByte, trimGap)
			for i < len(members) {
				t2 := r.d.Tag(members[i])
				if t2 == Drop || (t2 == Elide && r.d.RunElided(members[i])) {
					cursor = members[i].EndByte
					i++
					continue
				}
				break
			}
			trimGap = true

		case tag == Elide:
			r.writeGap(cursor, m.StartByte, trimGap)
			r.renderElided(m)
			cursor = m.EndByte
			trimGap = false
			i++

		default: // Keep
			r.writeGap(cursor, m.StartByte, trimGap)
			if (m.Role == RoleClassLike || m.Role == RoleNamespace) && r.p.bodyOf(m) != nil {
				r.renderContainer(m)
			} else {
				r.out.Write(r.t.Slice(m))
			}
			cursor = m.EndByte
			trimGap = false
			i++
		}
	}
	r.writeGap(cursor, end, trimGap)
}

// renderContainer emits a kept class/struct/namespace: its signature and
// delimiters verbatim, members per their decisions. A partially rendered
// scope always emits its closing delimiter.
func (r *renderer) renderContainer(m *SyntaxNode) {
	src := r.t.Source
	body := r.p.bodyOf(m)
	if body == nil {
		r.out.Write(r.t.Slice(m))
		return
	}

	if src[body.StartByte] == '{' && body.EndByte > body.StartByte && src[body.EndByte-1] == '}' {
		r.out.Write(src[m.StartByte : body.StartByte+1])
		r.renderSpan(body.Children, body.StartByte+1, body.EndByte-1)
		r.out.Write(src[body.EndByte-1 : m.EndByte])
		return
	}

	// Indentation-delimited body (Python suite): no closing token to honor.
	r.out.Write(src[m.StartByte:body.StartByte])
	r.renderSpan(body.Children, body.StartByte, body.EndByte)
	r.out.Write(src[body.EndByte:m.EndByte])
}

// renderElided emits a declaration's signature with its body collapsed to
// the marker, keeping the enclosing braces.
func (r *renderer) renderElided(m *SyntaxNode) {
	src := r.t.Source
	body := r.p.bodyOf(m)
	if body == nil {
		r.out.Write(r.t.Slice(m))
		return
	}

	if src[body.StartByte] == '{' && body.EndByte > body.StartByte && src[body.EndByte-1] == '}' {
		r.out.Write(src[m.StartByte : body.StartByte+1])
		r.out.WriteString(Marker)
		r.out.Write(src[body.EndByte-1 : m.EndByte])
		return
	}

	sig := strings.TrimRight(string(src[m.StartByte:body.StartByte]), " \t\n")
	r.out.WriteString(sig)
	r.out.WriteString("\n")
	r.out.WriteString(indentOf(src, body.StartByte))
	r.out.WriteString(Marker)
}

// writeGap emits the formatting between two tracked spans. When the
// preceding sibling was dropped or run-elided, only the final line's
// indentation survives so no stray tokens or blank lines leak through.
func (r *renderer) writeGap(from, to uint, trim bool) {
	if to <= from {
		return
	}
	gap := string(r.t.Source[from:to])
	if !trim {
		r.out.WriteString(gap)
		return
	}

	idx := strings.LastIndexByte(gap, '\n')
	if idx < 0 {
		r.out.WriteString(gap)
		return
	}
	if r.out.Len() > 0 {
		r.out.WriteString("\n")
	}
	r.out.WriteString(leadingWhitespace(gap[idx+1:]))
}

// writeMarkerLine starts an elision run: the marker lands on its own line
// at the indentation of the first elided member. The preceding gap is
// trimmed only when the previous sibling was dropped, so a kept neighbor
// keeps its trailing tokens (a struct's closing semicolon, say).
func (r *renderer) writeMarkerLine(from, to uint, trim bool) {
	gap := ""
	if to > from {
		gap = string(r.t.Source[from:to])
	}
	idx := strings.LastIndexByte(gap, '\n')
	if idx < 0 {
		r.out.WriteString(gap)
		r.out.WriteString(Marker)
		return
	}
	if trim {
		if r.out.Len() > 0 {
			r.out.WriteString("\n")
		}
	} else {
		r.out.WriteString(gap[:idx+1])
	}
	r.out.WriteString(leadingWhitespace(gap[idx+1:]))
	r.out.WriteString(Marker)
}

func leadingWhitespace(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' && s[i] != '\t' {
			return s[:i]
		}
	}
	return s
}

// startsLine reports whether only indentation precedes pos on its line.
func startsLine(src []byte, pos uint) bool {
	for i := int(pos) - 1; i >= 0 && src[i] != '\n'; i-- {
		if src[i] != ' ' && src[i] != '\t' {
			return false
		}
	}
	return true
}

func indentOf(src []byte, pos uint) string {
	start := int(pos)
	for start > 0 && src[start-1] != '\n' {
		start--
	}
	end := start
	for end < int(pos) && (src[end] == ' ' || src[end] == '\t') {
		end++
	}
	return string(src[start:end])
}

// checkBalance audits delimiter balance of the rendered output, skipping
// string literals and comments. A mismatch is a renderer bug, never a
// property of the input.
func checkBalance(text, language string) error {
	var curly, round, square int

	lineComment := "//"
	hashComment := false
	switch language {
	case "python":
		lineComment = "#"
		hashComment = true
	case "cpp", "go", "java", "rust", "javascript", "typescript":
	default:
		lineComment = ""
	}

	i := 0
	n := len(text)
	for i < n {
		c := text[i]

		// Line comments.
		if hashComment && c == '#' {
			for i < n && text[i] != '\n' {
				i++
			}
			continue
		}
		if lineComment == "//" && c == '/' && i+1 < n && text[i+1] == '/' {
			for i < n && text[i] != '\n' {
				i++
			}
			continue
		}

		// Block comments.
		if lineComment == "//" && c == '/' && i+1 < n && text[i+1] == '*' {
			i += 2
			for i+1 < n && !(text[i] == '*' && text[i+1] == '/') {
				i++
			}
			i += 2
			continue
		}

		// String literals. Rust single quotes mark lifetimes, not strings,
		// and a quote right after an identifier or digit is a separator
		// (1'000), not a literal opener.
		if c == '"' || c == '`' || (c == '\'' && language != "rust" && (i == 0 || !identByte(text[i-1]))) {
			quote := c
			i++
			for i < n && text[i] != quote && (text[i] != '\n' || quote == '`') {
				if text[i] == '\\' && i+1 < n {
					i++
				}
				i++
			}
			if i < n {
				i++
			}
			continue
		}

		switch c {
		case '{':
			curly++
		case '}':
			curly--
		case '(':
			round++
		case ')':
			round--
		case '[':
			square++
		case ']':
			square--
		}
		if curly < 0 || round < 0 || square < 0 {
			return errs.Newf(errs.CodeInvariant, "unbalanced output: closing delimiter without opener at byte %d", i)
		}
		i++
	}

	if curly != 0 || round != 0 || square != 0 {
		return errs.Newf(errs.CodeInvariant, "unbalanced output: curly=%d round=%d square=%d", curly, round, square)
	}
	return nil
}

func identByte(c byte) bool {
	return c == '_' ||
		('0' <= c && c <= '9') ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z')
}
