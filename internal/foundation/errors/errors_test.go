package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			Fatal().
			WithContext("file", "aggregate.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "invalid configuration" {
			t.Errorf("expected message 'invalid configuration', got %s", err.Message())
		}

		file, exists := err.Context()["file"]
		if !exists || file != "aggregate.yaml" {
			t.Errorf("expected context file=aggregate.yaml, got %v", file)
		}
	})

	t.Run("Wrapped classified error is still detected", func(t *testing.T) {
		inner := BuildError("wiki step failed").Build()
		wrapped := fmt.Errorf("run pipeline: %w", inner)

		if !IsClassified(wrapped) {
			t.Fatal("expected wrapped error to be classified")
		}
		if !HasCategory(wrapped, CategoryBuild) {
			t.Error("expected build category through wrapping")
		}
		if HasCategory(stderrors.New("plain"), CategoryBuild) {
			t.Error("expected unclassified errors to have no category")
		}
	})

	t.Run("Cause unwrapping", func(t *testing.T) {
		cause := stderrors.New("permission denied")
		err := WrapError(cause, CategoryFileSystem, "reset output directory").Build()

		if !stderrors.Is(err, cause) {
			t.Error("expected error to wrap cause")
		}
		if err.Error() != "[filesystem:error] reset output directory: permission denied" {
			t.Errorf("unexpected message: %s", err.Error())
		}
	})
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name     string
		builder  *ErrorBuilder
		category ErrorCategory
	}{
		{"ConfigError", ConfigError("test"), CategoryConfig},
		{"ValidationError", ValidationError("test"), CategoryValidation},
		{"BuildError", BuildError("test"), CategoryBuild},
		{"FileSystemError", FileSystemError("test"), CategoryFileSystem},
		{"RuntimeError", RuntimeError("test"), CategoryRuntime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.builder.Build()
			if err.Category() != tt.category {
				t.Errorf("expected category %s, got %s", tt.category, err.Category())
			}
			if err.Severity() != SeverityFatal {
				t.Errorf("expected %s to be fatal", tt.name)
			}
		})
	}
}
