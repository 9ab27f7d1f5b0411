package format

import (
	"strings"

	"github.com/leapstack-labs/coltype/pkg/core"
)

// Unlimited expands every level.
const Unlimited = -1

// Expanded renders the full tree: each head on its own line, members
// indented one level, and the tail back at the head's indentation.
func Expanded(n *core.NestedType) string {
	return ExpandedToDepth(n, Unlimited)
}

// ExpandedToDepth renders the tree expanding at most depth levels.
// Deeper elements are shown collapsed ("b:array<...>,").
// depth 0 renders the collapsed root; a negative depth expands everything.
func ExpandedToDepth(n *core.NestedType, depth int) string {
	return Options{Depth: depth}.Render(n)
}

// Options controls expanded rendering.
type Options struct {
	// Depth is the number of levels to expand; negative means all
	Depth int
	// Indent is the number of spaces per level (default 2)
	Indent int
}

// Render renders n with the options.
func (o Options) Render(n *core.NestedType) string {
	p := newPrinter(o.Indent)
	if n == nil {
		return p.String()
	}
	p.formatNested(n, o.Depth)
	return p.String()
}

func (p *Printer) formatNested(n *core.NestedType, remaining int) {
	if remaining == 0 {
		p.line(collapsed(n))
		return
	}

	p.line(n.Head)
	p.indent()
	for _, child := range n.Children {
		switch c := child.(type) {
		case *core.NestedType:
			p.formatNested(c, remaining-1)
		case core.Leaf:
			p.line(string(c))
		}
	}
	p.dedent()
	if n.Tail != "" {
		p.line(n.Tail)
	}
}

// collapsed is the truncated label keeping the separator that follows the
// element in its parent.
func collapsed(n *core.NestedType) string {
	label := n.Truncated()
	if strings.HasSuffix(n.Tail, string(core.Separator)) {
		label += string(core.Separator)
	}
	return label
}

// Inline renders the tree on one line with a space after each separator.
func Inline(n *core.NestedType) string {
	var sb strings.Builder
	writeInline(&sb, n)
	return sb.String()
}

func writeInline(sb *strings.Builder, n *core.NestedType) {
	sb.WriteString(n.Head)
	for i, child := range n.Children {
		if i > 0 {
			sb.WriteByte(' ')
		}
		switch c := child.(type) {
		case *core.NestedType:
			writeInline(sb, c)
		case core.Leaf:
			sb.WriteString(string(c))
		}
	}
	sb.WriteString(n.Tail)
}

// Lines returns the expanded rendering split into lines.
func Lines(n *core.NestedType, depth int) []string {
	out := strings.TrimRight(ExpandedToDepth(n, depth), "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}
