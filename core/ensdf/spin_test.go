package ensdf

import (
	"errors"
	"testing"

	ensdferrors "github.com/FocuswithJustin/ensdfxml/core/errors"
)

func TestDecodeSpinParity(t *testing.T) {
	tests := []struct {
		field      string
		wantMulti  int
		wantParity Parity
	}{
		{"(3/2)+", 4, Positive},
		{"2-", 5, Negative},
		{"0", 1, Positive},
		{"0+", 1, Positive},
		{"5+", 11, Positive},
		{"9/2-", 10, Negative},
		{"(1)-", 3, Negative},
		{"1/2", 2, Positive},
		{"2.5+", 6, Positive},
		{" 7/2 + ", 8, Positive},
		{"(5/2+)", 6, Positive},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			multi, parity, err := DecodeSpinParity(tt.field)
			if err != nil {
				t.Fatalf("DecodeSpinParity(%q) error: %v", tt.field, err)
			}
			if multi != tt.wantMulti {
				t.Errorf("multiplicity = %d, want %d", multi, tt.wantMulti)
			}
			if parity != tt.wantParity {
				t.Errorf("parity = %v, want %v", parity, tt.wantParity)
			}
		})
	}
}

func TestDecodeSpinParityErrors(t *testing.T) {
	for _, field := range []string{"J", "+", "GE 2", "1/0", "-3+", "2-1"} {
		t.Run(field, func(t *testing.T) {
			_, _, err := DecodeSpinParity(field)
			if err == nil {
				t.Fatalf("DecodeSpinParity(%q) expected error", field)
			}
			if !errors.Is(err, ensdferrors.ErrSpinExpression) {
				t.Errorf("error %v should be ErrSpinExpression", err)
			}
		})
	}
}

func TestEvaluateSpin(t *testing.T) {
	tests := []struct {
		expr string
		want float64
	}{
		{"3", 3},
		{"3/2", 1.5},
		{"1+1/2", 1.5},
		{"2*3/4", 1.5},
		{"1/2+1", 1.5},
		{".5", 0.5},
		{"--1", 1},
	}
	for _, tt := range tests {
		got, err := EvaluateSpin(tt.expr)
		if err != nil {
			t.Errorf("EvaluateSpin(%q) error: %v", tt.expr, err)
			continue
		}
		if got != tt.want {
			t.Errorf("EvaluateSpin(%q) = %v, want %v", tt.expr, got, tt.want)
		}
	}
}

func TestEvaluateSpinRejectsGrouping(t *testing.T) {
	for _, expr := range []string{"(3/2)", "(1+2)/2"} {
		if _, err := EvaluateSpin(expr); err == nil {
			t.Errorf("EvaluateSpin(%q) should fail", expr)
		}
	}
}

func TestParity(t *testing.T) {
	if Positive.String() != "+" || Negative.String() != "-" {
		t.Errorf("String() = %q/%q", Positive, Negative)
	}
	if ParseParity("-") != Negative || ParseParity("+") != Positive {
		t.Error("ParseParity mismatch")
	}
}
