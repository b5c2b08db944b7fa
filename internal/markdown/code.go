package markdown

import (
	"sort"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Range is a half-open byte range [Start, End).
type Range struct {
	Start int
	End   int
}

// Contains reports whether pos lies inside r.
func (r Range) Contains(pos int) bool {
	return pos >= r.Start && pos < r.End
}

// CodeRanges returns the byte ranges of fenced and indented code blocks and of
// inline code spans in body, sorted by start offset.
func CodeRanges(body []byte) []Range {
	root := goldmark.New().Parser().Parse(text.NewReader(body))

	ranges := make([]Range, 0)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *gmast.FencedCodeBlock:
			r, ok := linesRange(node.Lines())
			if node.Info != nil {
				info := node.Info.Segment
				if !ok || info.Start < r.Start {
					r.Start = info.Start
				}
				if !ok {
					r.End = info.Stop
				}
				ok = true
			}
			if ok {
				ranges = append(ranges, r)
			}
			return gmast.WalkSkipChildren, nil
		case *gmast.CodeBlock:
			if r, ok := linesRange(node.Lines()); ok {
				ranges = append(ranges, r)
			}
			return gmast.WalkSkipChildren, nil
		case *gmast.CodeSpan:
			if r, ok := childTextRange(node); ok {
				ranges = append(ranges, r)
			}
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})

	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Start < ranges[j].Start })
	return ranges
}

func linesRange(lines *text.Segments) (Range, bool) {
	if lines == nil || lines.Len() == 0 {
		return Range{}, false
	}
	return Range{Start: lines.At(0).Start, End: lines.At(lines.Len() - 1).Stop}, true
}

func childTextRange(n gmast.Node) (Range, bool) {
	var r Range
	found := false
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		t, ok := c.(*gmast.Text)
		if !ok {
			continue
		}
		if !found || t.Segment.Start < r.Start {
			r.Start = t.Segment.Start
		}
		if !found || t.Segment.Stop > r.End {
			r.End = t.Segment.Stop
		}
		found = true
	}
	return r, found
}
