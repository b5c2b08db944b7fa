// Package workspace manages the generated output directories of a run.
//
// Every managed directory is emptied before a run so stale output never survives,
// and writes are confined to managed directories.
package workspace
