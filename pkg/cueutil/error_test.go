// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

func TestFormatError(t *testing.T) {
	t.Parallel()

	t.Run("nil error returns nil", func(t *testing.T) {
		t.Parallel()

		if err := FormatError(nil, "phobos.meta.json"); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("non-CUE error is wrapped with filepath", func(t *testing.T) {
		t.Parallel()

		originalErr := errors.New("some error")
		err := FormatError(originalErr, "phobos.meta.json")
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "phobos.meta.json") {
			t.Errorf("error should contain filepath, got: %v", err)
		}
		if !errors.Is(err, originalErr) {
			t.Errorf("error should wrap the original, got: %v", err)
		}
	})
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     []string
		expected string
	}{
		{"empty path", []string{}, ""},
		{"single element", []string{"name"}, "name"},
		{"nested path", []string{"composition", "role"}, "composition.role"},
		{"array index", []string{"postInstall", "0"}, "postInstall[0]"},
		{"map key with slashes", []string{"injections", "src/main.tsx", "after"}, "injections.src/main.tsx.after"},
		{"leading number is not an index", []string{"0", "name"}, "0.name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := formatPath(tt.path); got != tt.expected {
				t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	if err := CheckFileSize(make([]byte, 10), 10, "ok.json"); err != nil {
		t.Errorf("expected no error at the limit, got %v", err)
	}
	err := CheckFileSize(make([]byte, 11), 10, "big.json")
	if err == nil {
		t.Fatal("expected error above the limit")
	}
	if !strings.Contains(err.Error(), "big.json") {
		t.Errorf("error should name the file, got: %v", err)
	}
}
