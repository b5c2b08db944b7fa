package aggregate

import (
	"fmt"

	"github.com/Pikatsuto/raspberry-builds/internal/frontmatter"
	"github.com/Pikatsuto/raspberry-builds/internal/links"
)

// Document is a single output page flowing through the transform chain.
type Document struct {
	// Source is the absolute path of the primary source file or directory.
	Source string
	// Output is the absolute path the serialized page is written to.
	Output string

	// Title, Description and Category feed the generated header.
	Title       string
	Description string
	Category    string

	// Content is the markdown body, transformed in place.
	Content string

	// Fields is the header built by buildFrontMatter.
	Fields frontmatter.Fields

	// LinksRewritten counts destinations changed by normalizeLinks.
	LinksRewritten int

	// Raw is the serialized page, set by serialize.
	Raw []byte
}

// Transform mutates a document in place.
type Transform func(*Document) error

func stripFrontMatter(doc *Document) error {
	doc.Content = frontmatter.Strip(doc.Content)
	return nil
}

func normalizeLinks(n *links.Normalizer) Transform {
	return func(doc *Document) error {
		out, count, err := n.Normalize(doc.Content)
		if err != nil {
			return fmt.Errorf("normalize links: %w", err)
		}
		doc.Content = out
		doc.LinksRewritten = count
		return nil
	}
}

func buildFrontMatter(doc *Document) error {
	doc.Fields = frontmatter.Fields{
		Title:       doc.Title,
		Description: doc.Description,
		Category:    doc.Category,
	}
	return nil
}

func fingerprint(doc *Document) error {
	fp, err := frontmatter.Fingerprint(doc.Fields, doc.Content)
	if err != nil {
		return fmt.Errorf("fingerprint: %w", err)
	}
	doc.Fields.Fingerprint = fp
	return nil
}

func serialize(doc *Document) error {
	out, err := frontmatter.Render(doc.Fields, doc.Content)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}
	doc.Raw = []byte(out)
	return nil
}

// transformChain returns the ordered transforms applied to every document.
func transformChain(n *links.Normalizer, withFingerprint bool) []Transform {
	chain := []Transform{
		stripFrontMatter,
		normalizeLinks(n),
		buildFrontMatter,
	}
	if withFingerprint {
		chain = append(chain, fingerprint)
	}
	return append(chain, serialize)
}

func applyTransforms(doc *Document, chain []Transform) error {
	for _, t := range chain {
		if err := t(doc); err != nil {
			return err
		}
	}
	return nil
}
