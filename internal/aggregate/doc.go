// Package aggregate turns the repository's wiki pages, top-level readmes and
// per-image build scripts into a generated content tree.
//
// A Pipeline resets the configured output directories and runs three steps in a
// fixed order: wiki, readmes, images. Each step lists its work as Items; every
// item is read into a Document, pushed through the transform chain (strip the
// existing header, normalize links, build frontmatter, optional fingerprint,
// serialize) and written below the output root. A failing item is logged and
// counted as skipped; only listing and write failures abort a run.
package aggregate
