package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSpeciesFormatError(t *testing.T) {
	err := NewSpeciesFormat("AL")
	if got, want := err.Error(), `invalid species symbol "AL": no mass number`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrInvalidSpecies) {
		t.Error("SpeciesFormatError should unwrap to ErrInvalidSpecies")
	}
}

func TestSpinExpressionError(t *testing.T) {
	tests := []struct {
		name    string
		err     *SpinExpressionError
		wantMsg string
	}{
		{
			name:    "without cause",
			err:     &SpinExpressionError{Field: "J"},
			wantMsg: `cannot evaluate spin "J"`,
		},
		{
			name:    "with cause",
			err:     &SpinExpressionError{Field: "1/0", Err: fmt.Errorf("division by zero")},
			wantMsg: `cannot evaluate spin "1/0": division by zero`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if !errors.Is(tt.err, ErrSpinExpression) {
				t.Error("SpinExpressionError should match ErrSpinExpression")
			}
		})
	}

	t.Run("cause reachable", func(t *testing.T) {
		cause := fmt.Errorf("bad token")
		err := NewSpinExpression("x", cause)
		if !errors.Is(err, cause) {
			t.Error("underlying cause should be reachable via errors.Is")
		}
	})
}

func TestIOError(t *testing.T) {
	tests := []struct {
		name    string
		err     *IOError
		wantMsg string
	}{
		{
			name:    "with path",
			err:     NewIO("open", "ensdf.026", fmt.Errorf("no such file")),
			wantMsg: "failed to open ensdf.026: no such file",
		},
		{
			name:    "without path",
			err:     NewIO("write", "", fmt.Errorf("disk full")),
			wantMsg: "failed to write: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if tt.err.Unwrap() != tt.err.Err {
				t.Error("Unwrap() should return the underlying error")
			}
		})
	}
}

func TestParseError(t *testing.T) {
	err := NewParse("XML", "out.xml", "unexpected EOF")
	if got, want := err.Error(), "failed to parse XML at out.xml: unexpected EOF"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("ParseError without cause should unwrap to ErrInvalidInput")
	}

	noPath := NewParse("ENSDF", "", "short line")
	if got, want := noPath.Error(), "failed to parse ENSDF: short line"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should return nil")
	}
	base := NewSpeciesFormat("XX")
	wrapped := Wrapf(base, "species %d", 3)
	if got, want := wrapped.Error(), `species 3: invalid species symbol "XX": no mass number`; got != want {
		t.Errorf("Wrapf() = %q, want %q", got, want)
	}
	var target *SpeciesFormatError
	if !As(wrapped, &target) || target.Symbol != "XX" {
		t.Error("As should find the wrapped SpeciesFormatError")
	}
	if !Is(wrapped, ErrInvalidSpecies) {
		t.Error("Is should see through the wrap")
	}
}
