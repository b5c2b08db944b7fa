package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanLinks_InlineLinkOffsets(t *testing.T) {
	body := []byte(`See [the guide](Getting-Started.md "Start here") now.`)

	links := ScanLinks(body)
	require.Len(t, links, 1)

	l := links[0]
	assert.Equal(t, LinkKindInline, l.Kind)
	assert.Equal(t, "the guide", l.Text)
	assert.Equal(t, "Getting-Started.md", l.Destination)
	assert.Equal(t, "Getting-Started.md", string(body[l.DestStart:l.DestEnd]))
	assert.Equal(t, `[the guide](Getting-Started.md "Start here")`, string(body[l.Start:l.End]))
}

func TestScanLinks_WikiReferences(t *testing.T) {
	body := []byte("Read [[Image-Foo Bar]] and [[the setup|Setup Guide]].")

	links := ScanLinks(body)
	require.Len(t, links, 2)

	assert.Equal(t, LinkKindWiki, links[0].Kind)
	assert.Equal(t, "Image-Foo Bar", links[0].Text)
	assert.Equal(t, "Image-Foo Bar", links[0].Destination)
	assert.Equal(t, "[[Image-Foo Bar]]", string(body[links[0].Start:links[0].End]))

	assert.Equal(t, "the setup", links[1].Text)
	assert.Equal(t, "Setup Guide", links[1].Destination)
}

func TestScanLinks_ImagesAndBadges(t *testing.T) {
	body := []byte("![diagram](images/arch.png)\n\n[![CI](https://img.shields.io/badge.svg)](../../actions)\n")

	links := ScanLinks(body)
	require.Len(t, links, 2)

	assert.Equal(t, LinkKindImage, links[0].Kind)
	assert.Equal(t, 0, links[0].Start)
	assert.Equal(t, "images/arch.png", links[0].Destination)

	assert.Equal(t, LinkKindInline, links[1].Kind)
	assert.Equal(t, "![CI](https://img.shields.io/badge.svg)", links[1].Text)
	assert.Equal(t, "../../actions", links[1].Destination)
}

func TestScanLinks_SkipsCode(t *testing.T) {
	body := []byte("Inline `[[Skip Me]]` and `[x](y.md)`.\n\n```bash\necho \"[a](b.md)\"\n```\n\n    [[Indented]]\n\n[[Kept]]\n")

	links := ScanLinks(body)
	require.Len(t, links, 1)
	assert.Equal(t, "Kept", links[0].Destination)
}

func TestScanLinks_ReferenceDefinitions(t *testing.T) {
	body := []byte("Use [the license][lic].\n\n[lic]: ../LICENSE \"License\"\n[^1]: a footnote\n")

	links := ScanLinks(body)
	require.Len(t, links, 1)
	assert.Equal(t, LinkKindReferenceDefinition, links[0].Kind)
	assert.Equal(t, "lic", links[0].Text)
	assert.Equal(t, "../LICENSE", links[0].Destination)
	assert.Equal(t, "../LICENSE", string(body[links[0].DestStart:links[0].DestEnd]))
}

func TestScanLinks_NotLinks(t *testing.T) {
	cases := []string{
		"plain [brackets] only",
		`escaped \[x](y.md)`,
		"[broken](missing paren",
		"[spaced](two words)",
		"[[]]",
		"[[unterminated",
		"[text\n\n](y.md)",
	}
	for _, c := range cases {
		t.Run(c, func(t *testing.T) {
			assert.Empty(t, ScanLinks([]byte(c)))
		})
	}
}

func TestScanLinks_AngleAndParenDestinations(t *testing.T) {
	body := []byte("[a](<My Page.md>) [b](Page_(draft).md#x)")

	links := ScanLinks(body)
	require.Len(t, links, 2)
	assert.Equal(t, "My Page.md", links[0].Destination)
	assert.Equal(t, "Page_(draft).md#x", links[1].Destination)
}

func TestCodeRanges(t *testing.T) {
	body := []byte("text `code` more\n\n```go\nfmt.Println()\n```\n")

	ranges := CodeRanges(body)
	require.Len(t, ranges, 2)
	assert.Equal(t, "code", string(body[ranges[0].Start:ranges[0].End]))
	assert.Contains(t, string(body[ranges[1].Start:ranges[1].End]), "fmt.Println()")
	assert.True(t, ranges[1].Contains(ranges[1].Start))
	assert.False(t, ranges[1].Contains(ranges[1].End))
}
