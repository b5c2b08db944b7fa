// Package markdown provides the byte-offset level markdown helpers used by link
// normalization: code range detection, a link scanner and a minimal-diff edit applier.
package markdown
