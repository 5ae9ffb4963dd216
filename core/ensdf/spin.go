package ensdf

import (
	"fmt"
	"math"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/ensdfxml/core/errors"
)

// Parity is the parity of a nuclear level.
type Parity int

const (
	Positive Parity = 1
	Negative Parity = -1
)

func (p Parity) String() string {
	if p == Negative {
		return "-"
	}
	return "+"
}

// ParseParity maps "+" and "-" to a Parity. Anything other than "-" is positive.
func ParseParity(s string) Parity {
	if s == "-" {
		return Negative
	}
	return Positive
}

// spinExpr is the participle grammar for spin magnitudes.
// Examples: "0", "3/2", "2.5", "7/2*1".
//
//nolint:govet // participle grammar tags are not standard struct tags
type spinExpr struct {
	Head *spinTerm     `@@`
	Tail []*spinOpTerm `@@*`
}

//nolint:govet // participle grammar tags are not standard struct tags
type spinOpTerm struct {
	Op   string    `@("+" | "-")`
	Term *spinTerm `@@`
}

//nolint:govet // participle grammar tags are not standard struct tags
type spinTerm struct {
	Head *spinFactor     `@@`
	Tail []*spinOpFactor `@@*`
}

//nolint:govet // participle grammar tags are not standard struct tags
type spinOpFactor struct {
	Op     string      `@("*" | "/")`
	Factor *spinFactor `@@`
}

//nolint:govet // participle grammar tags are not standard struct tags
type spinFactor struct {
	Number *float64    `  @Number`
	Neg    *spinFactor `| "-" @@`
}

var spinLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Number", Pattern: `\d+\.?\d*|\.\d+`},
	{Name: "Punct", Pattern: `[-+*/]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var spinParser = participle.MustBuild[spinExpr](
	participle.Lexer(spinLexer),
	participle.Elide("Whitespace"),
)

func (e *spinExpr) eval() (float64, error) {
	v, err := e.Head.eval()
	if err != nil {
		return 0, err
	}
	for _, t := range e.Tail {
		rhs, err := t.Term.eval()
		if err != nil {
			return 0, err
		}
		if t.Op == "+" {
			v += rhs
		} else {
			v -= rhs
		}
	}
	return v, nil
}

func (t *spinTerm) eval() (float64, error) {
	v, err := t.Head.eval()
	if err != nil {
		return 0, err
	}
	for _, f := range t.Tail {
		rhs, err := f.Factor.eval()
		if err != nil {
			return 0, err
		}
		if f.Op == "*" {
			v *= rhs
			continue
		}
		if rhs == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		v /= rhs
	}
	return v, nil
}

func (f *spinFactor) eval() (float64, error) {
	switch {
	case f.Number != nil:
		return *f.Number, nil
	case f.Neg != nil:
		v, err := f.Neg.eval()
		return -v, err
	}
	return 0, fmt.Errorf("empty factor")
}

// EvaluateSpin evaluates a spin magnitude written as a number or a simple
// arithmetic expression without grouping.
func EvaluateSpin(expr string) (float64, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return 0, fmt.Errorf("empty spin expression")
	}
	parsed, err := spinParser.ParseString("", expr)
	if err != nil {
		return 0, fmt.Errorf("invalid spin expression %q: %w", expr, err)
	}
	return parsed.eval()
}

// DecodeSpinParity returns the multiplicity 2J+1 and parity of a spin-parity
// field. Parentheses marking tentative assignments are ignored. A field
// without a sign has positive parity.
func DecodeSpinParity(field string) (int, Parity, error) {
	jpi := strings.TrimSpace(strings.NewReplacer("(", "", ")", "").Replace(field))

	parity := Positive
	expr := jpi
	if strings.ContainsAny(jpi, "+-") {
		switch jpi[len(jpi)-1] {
		case '+':
		case '-':
			parity = Negative
		default:
			return 0, Positive, errors.NewSpinExpression(field, fmt.Errorf("parity sign is not the last character"))
		}
		expr = jpi[:len(jpi)-1]
	}

	spin, err := EvaluateSpin(expr)
	if err != nil {
		return 0, Positive, errors.NewSpinExpression(field, err)
	}

	multi := int(math.Round(2*spin + 1))
	if multi < 1 {
		return 0, Positive, errors.NewSpinExpression(field, fmt.Errorf("negative spin %v", spin))
	}
	return multi, parity, nil
}
