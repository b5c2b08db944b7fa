package markdown

import (
	"bytes"
	"strings"
)

// LinkKind classifies a scanned link construct.
type LinkKind string

const (
	LinkKindInline              LinkKind = "inline"
	LinkKindImage               LinkKind = "image"
	LinkKindWiki                LinkKind = "wiki"
	LinkKindReferenceDefinition LinkKind = "reference_definition"
)

// Link is a link construct found in a markdown body.
//
// Start and End delimit the whole construct (including a leading '!' for images
// and both bracket pairs for wiki references). For inline links, images and
// reference definitions DestStart and DestEnd delimit the destination only, so
// rewriting it leaves text and title untouched. For wiki references Destination
// holds the target page name and the destination offsets are zero.
type Link struct {
	Kind        LinkKind
	Start       int
	End         int
	Text        string
	Destination string
	DestStart   int
	DestEnd     int
}

// ScanLinks returns the links of body in source order. Text inside code blocks
// and code spans is never scanned.
func ScanLinks(body []byte) []Link {
	s := &linkScanner{src: body, code: CodeRanges(body)}
	return s.scan()
}

type linkScanner struct {
	src   []byte
	code  []Range
	next  int // index of the first code range that may still contain a position
	links []Link
}

func (s *linkScanner) scan() []Link {
	for i := 0; i < len(s.src); {
		if end, ok := s.codeEnd(i); ok {
			i = end
			continue
		}
		if s.src[i] != '[' || isEscaped(s.src, i) {
			i++
			continue
		}
		if l, ok := s.wikiRef(i); ok {
			s.links = append(s.links, l)
			i = l.End
			continue
		}
		if l, ok := s.referenceDefinition(i); ok {
			s.links = append(s.links, l)
			i = l.End
			continue
		}
		if l, ok := s.inline(i); ok {
			s.links = append(s.links, l)
			i = l.End
			continue
		}
		i++
	}
	return s.links
}

// codeEnd returns the end of the code range containing pos.
func (s *linkScanner) codeEnd(pos int) (int, bool) {
	for s.next < len(s.code) && s.code[s.next].End <= pos {
		s.next++
	}
	if s.next < len(s.code) && s.code[s.next].Contains(pos) {
		return s.code[s.next].End, true
	}
	return 0, false
}

// wikiRef parses [[Target]] or [[Text|Target]] starting at i.
func (s *linkScanner) wikiRef(i int) (Link, bool) {
	src := s.src
	if i+1 >= len(src) || src[i+1] != '[' {
		return Link{}, false
	}
	start := i + 2
	rel := bytes.Index(src[start:], []byte("]]"))
	if rel <= 0 {
		return Link{}, false
	}
	inner := string(src[start : start+rel])
	if strings.ContainsAny(inner, "[]\n") {
		return Link{}, false
	}

	label, target := inner, inner
	if before, after, ok := strings.Cut(inner, "|"); ok {
		label, target = before, after
	}
	label = strings.TrimSpace(label)
	target = strings.TrimSpace(target)
	if target == "" {
		return Link{}, false
	}
	if label == "" {
		label = target
	}
	return Link{
		Kind:        LinkKindWiki,
		Start:       i,
		End:         start + rel + 2,
		Text:        label,
		Destination: target,
	}, true
}

// referenceDefinition parses `[label]: destination` at the start of a line.
func (s *linkScanner) referenceDefinition(i int) (Link, bool) {
	src := s.src
	lineStart := i
	for lineStart > 0 && src[lineStart-1] != '\n' {
		lineStart--
	}
	if i-lineStart > 3 || strings.TrimLeft(string(src[lineStart:i]), " ") != "" {
		return Link{}, false
	}

	closeBracket := -1
	for j := i + 1; j < len(src) && src[j] != '\n'; j++ {
		if src[j] == ']' && !isEscaped(src, j) {
			closeBracket = j
			break
		}
	}
	if closeBracket <= i+1 || closeBracket+1 >= len(src) || src[closeBracket+1] != ':' {
		return Link{}, false
	}
	if src[i+1] == '^' {
		// Footnote definition.
		return Link{}, false
	}

	p := skipInlineSpace(src, closeBracket+2)
	destStart, destEnd, after, ok := parseDestination(src, p)
	if !ok || destEnd == destStart {
		return Link{}, false
	}

	lineEnd := after
	for lineEnd < len(src) && src[lineEnd] != '\n' {
		lineEnd++
	}
	return Link{
		Kind:        LinkKindReferenceDefinition,
		Start:       i,
		End:         lineEnd,
		Text:        string(src[i+1 : closeBracket]),
		Destination: string(src[destStart:destEnd]),
		DestStart:   destStart,
		DestEnd:     destEnd,
	}, true
}

// inline parses [text](destination "title") or its image form starting at i.
func (s *linkScanner) inline(i int) (Link, bool) {
	src := s.src
	closeBracket := findClosingBracket(src, i+1)
	if closeBracket == -1 || closeBracket+1 >= len(src) || src[closeBracket+1] != '(' {
		return Link{}, false
	}

	p := skipSpace(src, closeBracket+2)
	destStart, destEnd, p, ok := parseDestination(src, p)
	if !ok {
		return Link{}, false
	}
	p = skipSpace(src, p)
	if p < len(src) && (src[p] == '"' || src[p] == '\'' || src[p] == '(') {
		end, ok := skipTitle(src, p)
		if !ok {
			return Link{}, false
		}
		p = skipSpace(src, end)
	}
	if p >= len(src) || src[p] != ')' {
		return Link{}, false
	}

	l := Link{
		Kind:        LinkKindInline,
		Start:       i,
		End:         p + 1,
		Text:        string(src[i+1 : closeBracket]),
		Destination: string(src[destStart:destEnd]),
		DestStart:   destStart,
		DestEnd:     destEnd,
	}
	if i > 0 && src[i-1] == '!' && !isEscaped(src, i-1) {
		l.Kind = LinkKindImage
		l.Start = i - 1
	}
	return l, true
}

// findClosingBracket returns the ']' matching an already consumed '[', honoring
// nested brackets. Link text may wrap lines but never spans a blank line.
func findClosingBracket(src []byte, start int) int {
	depth := 0
	for i := start; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case '[':
			depth++
		case ']':
			if depth == 0 {
				return i
			}
			depth--
		case '\n':
			if i+1 < len(src) && src[i+1] == '\n' {
				return -1
			}
		}
	}
	return -1
}

// parseDestination reads a link destination at p: either <...> or a run without
// whitespace and with balanced parentheses. It returns the destination range and
// the position after it.
func parseDestination(src []byte, p int) (start, end, next int, ok bool) {
	if p < len(src) && src[p] == '<' {
		for j := p + 1; j < len(src); j++ {
			switch src[j] {
			case '>':
				return p + 1, j, j + 1, true
			case '\n', '<':
				return 0, 0, 0, false
			case '\\':
				j++
			}
		}
		return 0, 0, 0, false
	}

	depth := 0
	j := p
loop:
	for ; j < len(src); j++ {
		switch c := src[j]; {
		case c == '\\':
			j++
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			break loop
		case c == '(':
			depth++
		case c == ')':
			if depth == 0 {
				break loop
			}
			depth--
		}
	}
	if j > len(src) {
		j = len(src)
	}
	if depth != 0 {
		return 0, 0, 0, false
	}
	return p, j, j, true
}

func skipTitle(src []byte, p int) (int, bool) {
	closer := src[p]
	if closer == '(' {
		closer = ')'
	}
	for j := p + 1; j < len(src); j++ {
		if src[j] == '\\' {
			j++
			continue
		}
		if src[j] == closer {
			return j + 1, true
		}
	}
	return 0, false
}

// skipSpace skips spaces, tabs and at most one line ending.
func skipSpace(src []byte, p int) int {
	p = skipInlineSpace(src, p)
	if p < len(src) && src[p] == '\r' {
		p++
	}
	if p < len(src) && src[p] == '\n' {
		p = skipInlineSpace(src, p+1)
	}
	return p
}

func skipInlineSpace(src []byte, p int) int {
	for p < len(src) && (src[p] == ' ' || src[p] == '\t') {
		p++
	}
	return p
}

// isEscaped reports whether src[i] is preceded by an odd number of backslashes.
func isEscaped(src []byte, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && src[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}
