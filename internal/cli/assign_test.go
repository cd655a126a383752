package cli

import (
	"testing"

	"github.com/matzehuels/cellgraph/pkg/errors"
)

func TestParseAssignment(t *testing.T) {
	tests := []struct {
		input    string
		wantName string
		wantText string
		wantErr  bool
	}{
		{"A1=5", "A1", "5", false},
		{"A1==B1+1", "A1", "=B1+1", false},
		{" b2 = hello", "b2", " hello", false},
		{"C3=", "C3", "", false},

		{"=5", "", "", true},
		{"1A=5", "", "", true},
		{"A1", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			name, text, err := parseAssignment(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseAssignment(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("parseAssignment(%q) error = %v, want INVALID_INPUT", tt.input, err)
			}
			if name != tt.wantName || text != tt.wantText {
				t.Errorf("parseAssignment(%q) = (%q, %q), want (%q, %q)", tt.input, name, text, tt.wantName, tt.wantText)
			}
		})
	}
}
