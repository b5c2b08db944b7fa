// Package frontmatter splits, strips and composes the YAML metadata header of
// generated markdown pages.
package frontmatter
