package ensdf

import "fmt"

// DiagnosticKind classifies a record that was dropped during extraction.
type DiagnosticKind int

const (
	// SkippedLevel is a level record without a usable energy or spin-parity.
	SkippedLevel DiagnosticKind = iota
	// UnresolvedGamma is a gamma record whose destination level was not found.
	UnresolvedGamma
	// MalformedReducedMatrix is a branching record whose descriptor did not parse.
	MalformedReducedMatrix
	// OrphanBranching is a branching record with no preceding gamma to annotate.
	OrphanBranching
)

func (k DiagnosticKind) String() string {
	switch k {
	case SkippedLevel:
		return "skipped-level"
	case UnresolvedGamma:
		return "unresolved-gamma"
	case MalformedReducedMatrix:
		return "malformed-reduced-matrix"
	case OrphanBranching:
		return "orphan-branching"
	}
	return fmt.Sprintf("diagnostic(%d)", int(k))
}

// Diagnostic describes a non-fatal problem with one record.
type Diagnostic struct {
	Kind    DiagnosticKind
	Line    int     // 1-indexed line number in the source
	Energy  float64 // level or gamma energy, when known
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %s: %s", d.Line, d.Kind, d.Message)
}
