package nested

import (
	"strings"

	"github.com/leapstack-labs/coltype/pkg/core"
	"github.com/leapstack-labs/coltype/pkg/dialect"
)

// scanner decomposes a pre-processed type descriptor in a single
// left-to-right pass, recursing once per nested element.
type scanner struct {
	text     string
	dialect  *dialect.Dialect
	strict   bool
	maxDepth int
}

// level is the result of scanning the members of one nesting level.
type level struct {
	next     int // position after the closing delimiter (or len(text))
	children []core.ParsedType
	closed   bool
}

func (s *scanner) fail(kind error, pos int) error {
	return &ParseError{Kind: kind, Pos: pos, Input: s.text}
}

// scan reads members from pos until the closing delimiter matching the
// opening delimiter at opener. opener is -1 for the top level, which runs
// to the end of input.
func (s *scanner) scan(pos, depth, opener int) (level, error) {
	var children []core.ParsedType
	segStart := pos
	i := pos

	for i < len(s.text) {
		c := s.text[i]

		if s.strict && opener < 0 && len(children) > 0 && c != ' ' {
			return level{}, s.fail(ErrTrailing, i)
		}

		switch {
		case c == core.Separator:
			children = appendLeaf(children, s.text[segStart:i+1])
			i++
			segStart = i

		case core.IsCloseDelimiter(c):
			if s.strict {
				if opener < 0 {
					return level{}, s.fail(ErrUnexpectedClose, i)
				}
				if c != core.MatchingClose(s.text[opener]) {
					return level{}, s.fail(ErrMismatched, i)
				}
			}
			children = appendLeaf(children, s.text[segStart:i])
			return level{next: i + 1, children: children, closed: true}, nil

		case core.IsOpenDelimiter(c):
			if s.dialect.IsPrecisionType(s.text[segStart:i]) {
				// timestamp(3): the qualifier stays in the pending leaf
				end := strings.IndexByte(s.text[i+1:], core.MatchingClose(c))
				if end < 0 {
					if s.strict {
						return level{}, s.fail(ErrUnclosed, i)
					}
					i = len(s.text)
					continue
				}
				i += end + 2
				continue
			}

			if depth+1 > s.maxDepth {
				return level{}, s.fail(ErrTooDeep, i)
			}

			inner, err := s.scan(i+1, depth+1, i)
			if err != nil {
				return level{}, err
			}

			node := &core.NestedType{
				Head:     strings.TrimSpace(s.text[segStart : i+1]),
				Children: inner.children,
			}
			next := inner.next
			if inner.closed {
				if next < len(s.text) && s.text[next] == core.Separator {
					node.Tail = s.text[next-1 : next+1]
					next++
				} else {
					node.Tail = s.text[next-1 : next]
				}
			}
			children = append(children, node)
			i = next
			segStart = next

		default:
			i++
		}
	}

	if opener >= 0 && s.strict {
		return level{}, s.fail(ErrUnclosed, opener)
	}
	children = appendLeaf(children, s.text[segStart:])
	return level{next: len(s.text), children: children}, nil
}

// appendLeaf flushes a pending fragment, dropping whitespace-only text.
func appendLeaf(children []core.ParsedType, fragment string) []core.ParsedType {
	if leaf := strings.TrimSpace(fragment); leaf != "" {
		return append(children, core.Leaf(leaf))
	}
	return children
}
