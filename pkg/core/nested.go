package core

import (
	"encoding/json"
	"strings"
)

// Delimiter characters recognized in structural type descriptors.
const (
	Separator       = ','
	OpenDelimiters  = "(<["
	CloseDelimiters = ")>]"
)

// TruncationMarker replaces the children of a collapsed nested type.
const TruncationMarker = "..."

// ParsedType is a node of a parsed type descriptor.
// It is either a Leaf or a *NestedType.
type ParsedType interface {
	// Text reconstructs the source text covered by the node.
	Text() string
	parsedType()
}

// Leaf is a flat text fragment such as "amount:bigint,".
type Leaf string

// Text returns the fragment.
func (l Leaf) Text() string { return string(l) }

func (Leaf) parsedType() {}

// NestedType is a structural element of a type descriptor.
//
// Head runs from the start of the element through its opening delimiter
// (e.g. "struct<", "column:struct<", "c1 row("). Tail is the closing
// delimiter, followed by a separator when the element is not the last
// member of its parent (e.g. ">", "),").
type NestedType struct {
	Head     string
	Tail     string
	Children []ParsedType
}

// Text reconstructs the element without whitespace between members.
func (n *NestedType) Text() string {
	var sb strings.Builder
	sb.WriteString(n.Head)
	for _, c := range n.Children {
		sb.WriteString(c.Text())
	}
	sb.WriteString(n.Tail)
	return sb.String()
}

func (*NestedType) parsedType() {}

// Truncated returns the collapsed one-line label, e.g. "struct<...>".
// A trailing separator on the tail is dropped.
func (n *NestedType) Truncated() string {
	return n.Head + TruncationMarker + strings.TrimSuffix(n.Tail, string(Separator))
}

// Depth returns the number of nested levels, counting n itself.
func (n *NestedType) Depth() int {
	deepest := 0
	for _, c := range n.Children {
		if child, ok := c.(*NestedType); ok {
			if d := child.Depth(); d > deepest {
				deepest = d
			}
		}
	}
	return deepest + 1
}

// Closer returns the closing delimiter of the tail, or 0 when the element
// was never closed.
func (n *NestedType) Closer() byte {
	if n.Tail == "" {
		return 0
	}
	return n.Tail[0]
}

type nestedJSON struct {
	Head     string            `json:"head"`
	Tail     string            `json:"tail"`
	Children []json.RawMessage `json:"children"`
}

// MarshalJSON encodes the tree as {"head","tail","children"}; leaves encode
// as plain strings.
func (n *NestedType) MarshalJSON() ([]byte, error) {
	out := nestedJSON{Head: n.Head, Tail: n.Tail, Children: make([]json.RawMessage, 0, len(n.Children))}
	for _, c := range n.Children {
		b, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		out.Children = append(out.Children, b)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the format written by MarshalJSON.
func (n *NestedType) UnmarshalJSON(data []byte) error {
	var in nestedJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	n.Head, n.Tail = in.Head, in.Tail
	n.Children = make([]ParsedType, 0, len(in.Children))
	for _, raw := range in.Children {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			n.Children = append(n.Children, Leaf(s))
			continue
		}
		child := &NestedType{}
		if err := json.Unmarshal(raw, child); err != nil {
			return err
		}
		n.Children = append(n.Children, child)
	}
	return nil
}

// MatchingClose returns the closing delimiter for an opening one, or 0.
func MatchingClose(open byte) byte {
	if i := strings.IndexByte(OpenDelimiters, open); i >= 0 {
		return CloseDelimiters[i]
	}
	return 0
}

// IsOpenDelimiter reports whether c opens a nested element.
func IsOpenDelimiter(c byte) bool {
	return strings.IndexByte(OpenDelimiters, c) >= 0
}

// IsCloseDelimiter reports whether c closes a nested element.
func IsCloseDelimiter(c byte) bool {
	return strings.IndexByte(CloseDelimiters, c) >= 0
}
