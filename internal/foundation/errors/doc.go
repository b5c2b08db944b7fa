// Package errors provides the classified error primitives used by the content
// aggregation pipeline and its CLI.
//
// Errors are classified by category (config, filesystem, build, ...) and
// severity. Per-item failures inside a pipeline step are logged and skipped;
// only errors that escape a step are classified and surfaced to the CLI, where
// the CLIErrorAdapter maps them to a process exit code.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryFileSystem, "reset output directory").
//		WithContext("path", dir).
//		Build()
package errors
