package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation error", err: ValidationError("bad flag").Build(), expected: 2},
		{name: "config error", err: ConfigError("bad config").Build(), expected: 7},
		{name: "build error", err: BuildError("step failed").Build(), expected: 11},
		{name: "filesystem error", err: FileSystemError("reset failed").Build(), expected: 11},
		{name: "wrapped build error", err: fmt.Errorf("run: %w", BuildError("step failed").Build()), expected: 11},
		{name: "runtime error", err: RuntimeError("server").Build(), expected: 12},
		{name: "internal error", err: NewError(CategoryInternal, "write outside output").Build(), expected: 10},
		{name: "unclassified error", err: stderrors.New("unknown error"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	cause := stderrors.New("no such file")
	err := WrapError(cause, CategoryFileSystem, "read wiki directory").Build()

	quiet := NewCLIErrorAdapter(false, nil)
	if got := quiet.FormatError(err); got != "Error: read wiki directory (use -v for details)" {
		t.Errorf("unexpected quiet format: %q", got)
	}

	verbose := NewCLIErrorAdapter(true, nil)
	if got := verbose.FormatError(err); !strings.Contains(got, "no such file") {
		t.Errorf("verbose format should include cause, got %q", got)
	}

	if got := quiet.FormatError(stderrors.New("boom")); got != "Error: boom" {
		t.Errorf("unexpected unclassified format: %q", got)
	}
	if got := quiet.FormatError(nil); got != "" {
		t.Errorf("expected empty string for nil, got %q", got)
	}
}
