// Package links rewrites markdown link targets so they resolve under the
// documentation site's URL layout.
package links

import (
	"net/url"
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Pikatsuto/raspberry-builds/internal/markdown"
)

// Normalizer rewrites link targets of wiki-style markdown. It is safe for
// concurrent use.
type Normalizer struct {
	opts     Options
	meta     map[string]bool
	licenses map[string]bool
}

// New creates a Normalizer.
func New(opts Options) *Normalizer {
	opts.BasePath = strings.TrimRight(opts.BasePath, "/")
	opts.Upstream = strings.TrimRight(opts.Upstream, "/")
	n := &Normalizer{
		opts:     opts,
		meta:     make(map[string]bool, len(opts.MetaPaths)),
		licenses: make(map[string]bool, len(opts.LicenseFiles)),
	}
	for _, m := range opts.MetaPaths {
		n.meta[m] = true
	}
	for _, f := range opts.LicenseFiles {
		n.licenses[f] = true
	}
	return n
}

// Normalize rewrites every link of body. Each link is classified exactly once,
// so rewritten text is never matched again. Images, links inside code and
// unrecognized targets are left untouched. It returns the number of rewritten links.
func (n *Normalizer) Normalize(body string) (string, int, error) {
	src := []byte(body)
	found := markdown.ScanLinks(src)

	edits := make([]markdown.Edit, 0, len(found))
	for _, l := range found {
		switch l.Kind {
		case markdown.LinkKindWiki:
			edits = append(edits, markdown.Edit{
				Start:       l.Start,
				End:         l.End,
				Replacement: []byte("[" + l.Text + "](" + n.WikiTarget(l.Destination) + ")"),
			})
		case markdown.LinkKindInline, markdown.LinkKindReferenceDefinition:
			if target, ok := n.Rewrite(l.Destination); ok {
				edits = append(edits, markdown.Edit{Start: l.DestStart, End: l.DestEnd, Replacement: []byte(target)})
			}
		case markdown.LinkKindImage:
			// Image sources are site assets, never pages.
		}
	}
	if len(edits) == 0 {
		return body, 0, nil
	}

	out, err := markdown.ApplyEdits(src, edits)
	if err != nil {
		return "", 0, err
	}
	return string(out), len(edits), nil
}

// WikiTarget resolves the target of a [[...]] reference.
func (n *Normalizer) WikiTarget(target string) string {
	if isAbsoluteOrSpecial(target) {
		return target
	}
	name, frag := splitFragment(target)
	return n.PageLink(strings.TrimSuffix(name, ".md"), frag)
}

// Rewrite classifies a single link destination and returns its rewritten form.
// ok is false when the destination must stay unchanged.
func (n *Normalizer) Rewrite(dest string) (string, bool) {
	if isAbsoluteOrSpecial(dest) {
		return "", false
	}
	if target, ok := n.rewriteLicense(dest); ok {
		return target, true
	}
	if target, ok, matched := n.rewriteDeepRelative(dest); matched {
		return target, ok
	}
	return n.rewriteBarePage(dest)
}

// PageLink builds the site URL of a wiki page.
func (n *Normalizer) PageLink(name, fragment string) string {
	route := n.opts.GeneralRoute
	if IsImagePage(name) {
		route = n.opts.ImageRoute
	}
	link := n.opts.BasePath + "/" + route + "/" + Slug(name)
	if fragment != "" {
		link += "#" + fragment
	}
	return link
}

// Slug derives a URL slug from a page name: whitespace runs become '-' and the
// result is lower-cased.
func Slug(name string) string {
	// Casers keep state; one per call.
	return cases.Lower(language.Und).String(strings.Join(strings.Fields(name), "-"))
}

// IsImagePage reports whether a page name belongs to the image category.
func IsImagePage(name string) bool {
	return strings.HasPrefix(name, ImagePagePrefix)
}

func (n *Normalizer) rewriteLicense(dest string) (string, bool) {
	if n.opts.Upstream == "" {
		return "", false
	}
	p, frag := splitFragment(dest)
	file := path.Base(p)
	if !n.licenses[file] {
		return "", false
	}
	// Only plain relative references: ./LICENSE, LICENSE, ../LICENSE, ../../LICENSE ...
	rest := strings.TrimPrefix(p, "./")
	for strings.HasPrefix(rest, "../") {
		rest = rest[3:]
	}
	if rest != file {
		return "", false
	}
	return withFragment(n.opts.Upstream+"/blob/"+n.opts.Branch+"/"+file, frag), true
}

// rewriteDeepRelative handles targets that climb two or three directory levels.
// matched reports whether dest had that shape at all.
func (n *Normalizer) rewriteDeepRelative(dest string) (target string, ok bool, matched bool) {
	levels := 0
	rest := dest
	for strings.HasPrefix(rest, "../") && levels < 4 {
		rest = rest[3:]
		levels++
	}
	if rest == ".." && levels < 4 {
		rest = ""
		levels++
	}
	if levels < 2 || levels > 3 {
		return "", false, false
	}

	p, frag := splitFragment(rest)
	p = strings.TrimSuffix(p, "/")
	first, sub, _ := strings.Cut(p, "/")

	switch {
	case first == wikiSegment && sub == "":
		return n.opts.BasePath + "/", true, true
	case first == wikiSegment:
		if strings.Contains(sub, "/") {
			return "", false, true
		}
		return n.PageLink(decode(strings.TrimSuffix(sub, ".md")), frag), true, true
	case first == "releases" && sub == "":
		return withFragment(n.opts.BasePath+"/"+n.opts.ReleasesRoute, frag), true, true
	case first == "releases":
		if n.opts.Upstream == "" {
			return "", false, true
		}
		return withFragment(n.opts.Upstream+"/"+p, frag), true, true
	case n.meta[first]:
		if n.opts.Upstream == "" {
			return "", false, true
		}
		return withFragment(n.opts.Upstream+"/"+p, frag), true, true
	default:
		return "", false, true
	}
}

// rewriteBarePage handles a single page name, optionally prefixed with ./ and
// suffixed with .md and a fragment.
func (n *Normalizer) rewriteBarePage(dest string) (string, bool) {
	p, frag := splitFragment(strings.TrimPrefix(dest, "./"))
	if p == "" || strings.ContainsAny(p, "/?\\") {
		return "", false
	}
	if name, ok := strings.CutSuffix(p, ".md"); ok {
		p = name
	} else if hasFileExtension(p) {
		return "", false
	}
	if p == "" || p == "." || p == ".." {
		return "", false
	}
	return n.PageLink(decode(p), frag), true
}

// hasFileExtension reports whether p ends in an alphabetic extension such as
// .png or .sh. Page names may contain dots followed by digits (v1.2).
func hasFileExtension(p string) bool {
	ext := path.Ext(p)
	if len(ext) < 2 {
		return false
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

func isAbsoluteOrSpecial(dest string) bool {
	if dest == "" || strings.HasPrefix(dest, "#") || strings.HasPrefix(dest, "/") {
		return true
	}
	scheme, _, ok := strings.Cut(dest, ":")
	if !ok || scheme == "" || strings.ContainsAny(scheme, "/?#") {
		return false
	}
	for i, r := range scheme {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}

func splitFragment(dest string) (string, string) {
	p, frag, _ := strings.Cut(dest, "#")
	return p, frag
}

func withFragment(u, frag string) string {
	if frag == "" {
		return u
	}
	return u + "#" + frag
}

func decode(name string) string {
	if d, err := url.PathUnescape(name); err == nil {
		return d
	}
	return name
}
