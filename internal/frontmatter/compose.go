package frontmatter

import (
	"bytes"
	"strings"

	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"
)

// Fields is the fixed metadata record written at the top of every generated page.
type Fields struct {
	Title       string
	Description string
	// Category is omitted from the header when empty.
	Category string
	// Fingerprint is the mdfp content fingerprint; omitted when empty.
	Fingerprint string
}

// Serialize renders the fields as YAML (without delimiters) in the fixed order
// title, description, category, fingerprint. Values are double-quoted so quotes,
// colons and backslashes inside them are escaped.
func (f Fields) Serialize() ([]byte, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key, value string) {
		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value, Style: yaml.DoubleQuotedStyle},
		)
	}
	add("title", f.Title)
	add("description", f.Description)
	if f.Category != "" {
		add("category", f.Category)
	}
	if f.Fingerprint != "" {
		add(mdfp.FingerprintField, f.Fingerprint)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Compose replaces any existing header of body with one built from f, followed by
// a blank line. Strip(Compose(b, f)) equals Strip(b).
func Compose(body string, f Fields) (string, error) {
	return Render(f, Strip(body))
}

// Render prepends a header built from f and a blank line to a body that has
// already been stripped.
func Render(f Fields, body string) (string, error) {
	header, err := f.Serialize()
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.Grow(len(header) + len(body) + 9)
	sb.WriteString("---\n")
	sb.Write(header)
	sb.WriteString("---\n\n")
	sb.WriteString(body)
	return sb.String(), nil
}

// Fingerprint computes the mdfp fingerprint of a page from its header fields
// (excluding any existing fingerprint) and its header-less body.
func Fingerprint(f Fields, body string) (string, error) {
	f.Fingerprint = ""
	header, err := f.Serialize()
	if err != nil {
		return "", err
	}
	return mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(string(header), "\n"), body), nil
}
