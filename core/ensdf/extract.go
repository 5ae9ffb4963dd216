package ensdf

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/ensdfxml/core/errors"
)

// Fixed ENSDF column ranges, 0-indexed and end-exclusive.
const (
	energyStart = 9
	energyEnd   = 18
	jpiStart    = 21
	jpiEnd      = 38
)

// DefaultTolerance is the absolute energy tolerance, in keV, used to match a
// gamma ray to its destination level.
const DefaultTolerance = 1.0

// Options controls extraction.
type Options struct {
	// Tolerance is the absolute energy tolerance for gamma destination matching.
	Tolerance float64

	// Report, if set, is called for each diagnostic as it is raised.
	Report func(Diagnostic)
}

// DefaultOptions returns the standard extraction options.
func DefaultOptions() Options {
	return Options{Tolerance: DefaultTolerance}
}

// Level is a level record of the adopted dataset.
type Level struct {
	Energy       float64
	Multiplicity int
	Parity       Parity
	Line         int
}

// Transition links two entries of the level list. Initial is always the level
// the gamma was listed under.
type Transition struct {
	Initial     int
	Final       int
	GammaEnergy float64
	Reduced     ReducedMatrix
	Line        int
}

// Result is the outcome of one extraction pass, in file order.
type Result struct {
	Levels      []Level
	Transitions []Transition
	Diagnostics []Diagnostic

	// Truncated is set when reading stopped at the end of the adopted dataset.
	Truncated bool

	// Fingerprint is the BLAKE3 hash of the source file (ExtractFile only).
	Fingerprint string
}

// parserState is threaded through every record handler.
type parserState struct {
	opts Options
	res  *Result

	line      int
	zeroCount int

	// lastLevel is the index of the level the next gamma belongs to, or -1
	// when the most recent level record was skipped.
	lastLevel int

	// pendingGamma is the index of the transition that a branching record
	// may annotate, or -1. It is cleared by the next level or gamma record.
	pendingGamma int
}

func newParserState(opts Options) *parserState {
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultTolerance
	}
	return &parserState{
		opts:         opts,
		res:          &Result{},
		lastLevel:    -1,
		pendingGamma: -1,
	}
}

func (s *parserState) diagnose(kind DiagnosticKind, energy float64, format string, args ...any) {
	d := Diagnostic{
		Kind:    kind,
		Line:    s.line,
		Energy:  energy,
		Message: fmt.Sprintf(format, args...),
	}
	s.res.Diagnostics = append(s.res.Diagnostics, d)
	if s.opts.Report != nil {
		s.opts.Report(d)
	}
}

// column returns line[start:end], clipped to the line length.
func column(line string, start, end int) string {
	if start >= len(line) {
		return ""
	}
	if end > len(line) {
		end = len(line)
	}
	return line[start:end]
}

func parseEnergy(field string) (float64, error) {
	field = strings.TrimSpace(strings.ReplaceAll(field, "X+", ""))
	return strconv.ParseFloat(field, 64)
}

// handleLevel processes a level record. It returns done=true at the end of
// the adopted dataset.
func (s *parserState) handleLevel(line string) (bool, error) {
	s.pendingGamma = -1

	raw := column(line, energyStart, energyEnd)
	energy, err := parseEnergy(raw)
	if err != nil {
		s.lastLevel = -1
		s.diagnose(SkippedLevel, 0, "level energy %q not numeric", strings.TrimSpace(raw))
		return false, nil
	}

	if energy == 0 {
		s.zeroCount++
		if s.zeroCount == 2 {
			s.res.Truncated = true
			return true, nil
		}
	}

	jpi := strings.TrimSpace(column(line, jpiStart, jpiEnd))
	switch {
	case jpi == "":
		s.lastLevel = -1
		s.diagnose(SkippedLevel, energy, "level %v not added: no spin-parity", energy)
		return false, nil
	case strings.Contains(jpi, "TO") || strings.ContainsAny(jpi, ",:"):
		s.lastLevel = -1
		s.diagnose(SkippedLevel, energy, "level %v not added: multiplet %q", energy, jpi)
		return false, nil
	}

	multi, parity, err := DecodeSpinParity(jpi)
	if err != nil {
		return false, errors.Wrapf(err, "line %d", s.line)
	}

	s.res.Levels = append(s.res.Levels, Level{
		Energy:       energy,
		Multiplicity: multi,
		Parity:       parity,
		Line:         s.line,
	})
	s.lastLevel = len(s.res.Levels) - 1
	return false, nil
}

// handleGamma attaches a gamma record to the most recent level. The
// destination is a level below the source whose energy lies within the
// tolerance of the source energy minus the gamma energy; the highest-index
// match wins.
func (s *parserState) handleGamma(line string) {
	s.pendingGamma = -1

	raw := column(line, energyStart, energyEnd)
	eg, err := parseEnergy(raw)
	if err != nil {
		s.diagnose(UnresolvedGamma, 0, "gamma energy %q not numeric", strings.TrimSpace(raw))
		return
	}

	if s.lastLevel < 0 {
		s.diagnose(UnresolvedGamma, eg, "gamma %v has no source level", eg)
		return
	}

	source := s.res.Levels[s.lastLevel]
	target := math.Abs(source.Energy - eg)

	// Gamma emission only goes down: the destination lies strictly below
	// the source, which also excludes the source level itself.
	dest := -1
	for i, lvl := range s.res.Levels {
		if lvl.Energy >= source.Energy {
			continue
		}
		if math.Abs(target-lvl.Energy) <= s.opts.Tolerance {
			dest = i
		}
	}

	if dest < 0 {
		s.diagnose(UnresolvedGamma, eg, "transition not found from level %v with gamma energy %v", source.Energy, eg)
		return
	}

	s.res.Transitions = append(s.res.Transitions, Transition{
		Initial:     s.lastLevel,
		Final:       dest,
		GammaEnergy: eg,
		Reduced:     Unmeasured(),
		Line:        s.line,
	})
	s.pendingGamma = len(s.res.Transitions) - 1
}

// handleBranching applies a reduced-matrix descriptor to the pending gamma.
func (s *parserState) handleBranching(line string) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		s.diagnose(MalformedReducedMatrix, 0, "branching record has %d fields", len(fields))
		return
	}
	if s.pendingGamma < 0 {
		s.diagnose(OrphanBranching, 0, "branching record %q has no preceding gamma", fields[2])
		return
	}

	tr := &s.res.Transitions[s.pendingGamma]
	rm, err := ParseReducedMatrix(fields[2])
	if err != nil {
		s.diagnose(MalformedReducedMatrix, tr.GammaEnergy, "%v", err)
		return
	}
	tr.Reduced = rm
}

// Extract reads ENSDF records for one species from r.
func Extract(r io.Reader, ids *Identifiers, opts Options) (*Result, error) {
	s := newParserState(opts)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 256), 1024*1024)

	for scanner.Scan() {
		s.line++
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, ids.LevelPrefix):
			done, err := s.handleLevel(line)
			if err != nil {
				return nil, err
			}
			if done {
				return s.res, nil
			}
		case strings.HasPrefix(line, ids.GammaPrefix):
			s.handleGamma(line)
		case strings.HasPrefix(line, ids.BranchPrefix):
			s.handleBranching(line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}
	return s.res, nil
}

// ExtractFile opens path, extracts its records and fingerprints the file.
func ExtractFile(path string, ids *Identifiers, opts Options) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()

	hasher := blake3.New()
	tee := io.TeeReader(f, hasher)

	res, err := Extract(tee, ids, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "extracting %s", path)
	}

	// Finish hashing whatever the scanner did not consume.
	if _, err := io.Copy(io.Discard, tee); err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	res.Fingerprint = hex.EncodeToString(hasher.Sum(nil))
	return res, nil
}

// Fingerprint returns the hex BLAKE3 hash of the file at path, as stored by
// ExtractFile.
func Fingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.NewIO("open", path, err)
	}
	defer f.Close()

	hasher := blake3.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", errors.NewIO("read", path, err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
