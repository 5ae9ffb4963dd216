// Package convert turns ENSDF mass-chain files into a level-scheme
// collection with Weisskopf-estimate transition rates.
package convert

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/ensdfxml/core/ensdf"
	"github.com/FocuswithJustin/ensdfxml/core/errors"
	"github.com/FocuswithJustin/ensdfxml/core/levelscheme"
	"github.com/FocuswithJustin/ensdfxml/core/physics"
	"github.com/FocuswithJustin/ensdfxml/internal/config"
	"github.com/FocuswithJustin/ensdfxml/internal/logging"
	"github.com/FocuswithJustin/ensdfxml/internal/validation"
)

// SpeciesReport summarises the conversion of one species symbol.
type SpeciesReport struct {
	Symbol      string
	Species     string
	Source      string
	Levels      int
	Transitions int
	Measured    int
	Truncated   bool
	Diagnostics []ensdf.Diagnostic

	// Err is set when the species failed.
	Err error
}

// Report summarises a conversion run.
type Report struct {
	RunID   string
	Species []SpeciesReport
}

// Failed returns the number of species that did not convert.
func (r *Report) Failed() int {
	n := 0
	for _, s := range r.Species {
		if s.Err != nil {
			n++
		}
	}
	return n
}

// Converter converts species symbols read from one database directory.
type Converter struct {
	databaseDir string
	tolerance   float64
	keepGoing   bool
}

// New creates a Converter from cfg.
func New(cfg *config.Config) *Converter {
	return &Converter{
		databaseDir: cfg.DatabaseDir,
		tolerance:   cfg.EnergyTolerance,
		keepGoing:   cfg.KeepGoing,
	}
}

// ConvertSpecies extracts the adopted levels of symbol and builds its
// species with every resolved transition attached.
func (c *Converter) ConvertSpecies(ctx context.Context, symbol string) (*levelscheme.Species, *SpeciesReport, error) {
	rep := &SpeciesReport{Symbol: symbol}

	ids, err := ensdf.Resolve(symbol)
	if err != nil {
		return nil, rep, err
	}
	rep.Species = ids.LibrarySymbol
	rep.Source = ids.FileName

	path, err := validation.SanitizePath(c.databaseDir, ids.FileName)
	if err != nil {
		return nil, rep, fmt.Errorf("species %s: %w", symbol, err)
	}

	opts := ensdf.DefaultOptions()
	opts.Tolerance = c.tolerance
	opts.Report = func(d ensdf.Diagnostic) {
		logging.RecordDropped(ctx, ids.LibrarySymbol, d.Kind.String(), d.Line, d.Energy, d.Message)
	}

	res, err := ensdf.ExtractFile(path, ids, opts)
	if err != nil {
		return nil, rep, fmt.Errorf("species %s: %w", symbol, err)
	}
	rep.Diagnostics = res.Diagnostics
	rep.Truncated = res.Truncated

	s, err := BuildSpecies(ctx, ids, res)
	if err != nil {
		return nil, rep, fmt.Errorf("species %s: %w", symbol, err)
	}
	rep.Levels = len(res.Levels)
	rep.Transitions = len(res.Transitions)
	for _, tr := range res.Transitions {
		if tr.Reduced.Measured() {
			rep.Measured++
		}
	}

	logging.SpeciesDone(ctx, ids.LibrarySymbol, rep.Levels, rep.Transitions, len(rep.Diagnostics),
		"source", ids.FileName, "truncated", res.Truncated)
	return s, rep, nil
}

// BuildSpecies assembles the level-scheme species for an extraction result.
func BuildSpecies(ctx context.Context, ids *ensdf.Identifiers, res *ensdf.Result) (*levelscheme.Species, error) {
	logger := logging.LoggerFromContext(ctx)

	levels := make([]*levelscheme.Level, len(res.Levels))
	for i, l := range res.Levels {
		lvl := levelscheme.NewLevel(l.Energy, l.Multiplicity)
		lvl.UpdateProperties(map[string]string{levelscheme.PropParity: l.Parity.String()})
		levels[i] = lvl
		logger.Debug("level",
			"species", ids.LibrarySymbol,
			"index", i,
			"energy", l.Energy,
			"multiplicity", l.Multiplicity,
			"parity", l.Parity.String(),
		)
	}

	s := levelscheme.NewSpecies(ids.LibrarySymbol, levels)
	props := map[string]string{
		levelscheme.PropMassNumber: strconv.Itoa(ids.MassNumber),
		levelscheme.PropSource:     ids.FileName,
	}
	if res.Fingerprint != "" {
		props[levelscheme.PropFingerprint] = res.Fingerprint
	}
	s.UpdateProperties(props)

	for _, tr := range res.Transitions {
		if tr.Initial < 0 || tr.Initial >= len(levels) || tr.Final < 0 || tr.Final >= len(levels) {
			return nil, fmt.Errorf("line %d: transition %d -> %d outside level list", tr.Line, tr.Initial, tr.Final)
		}
		initial, final := res.Levels[tr.Initial], res.Levels[tr.Final]
		rate := physics.WeisskopfEstimate(state(initial), state(final), ids.MassNumber, tr.Reduced.Strength)

		t := levelscheme.NewTransition(levels[tr.Initial], levels[tr.Final], rate)
		if tr.Reduced.Measured() {
			t.UpdateProperties(map[string]string{levelscheme.PropDescriptor: tr.Reduced.Descriptor})
		}
		if err := s.AddTransition(t); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// state converts an extracted level to the physics kernel's view of it.
func state(l ensdf.Level) physics.State {
	return physics.State{
		Energy: l.Energy,
		Spin:   float64(l.Multiplicity-1) / 2,
		Parity: int(l.Parity),
	}
}

// Convert converts symbols in order into one collection. A failing species
// aborts the run unless the converter was configured to keep going.
func (c *Converter) Convert(ctx context.Context, symbols []string) (*levelscheme.Collection, *Report, error) {
	if len(symbols) == 0 {
		return nil, nil, errors.Wrap(errors.ErrInvalidInput, "no species requested")
	}

	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.LoggerFromContext(ctx)

	coll := levelscheme.NewCollection()
	coll.UpdateProperties(map[string]string{levelscheme.PropRunID: runID})
	report := &Report{RunID: runID}

	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, report, err
		}

		s, rep, err := c.ConvertSpecies(ctx, symbol)
		if err != nil {
			rep.Err = err
			report.Species = append(report.Species, *rep)
			if !c.keepGoing {
				return nil, report, err
			}
			logger.Error("species_failed", "symbol", symbol, "error", err)
			continue
		}
		report.Species = append(report.Species, *rep)
		coll.Add(s)
	}

	if len(coll.Species()) == 0 {
		return nil, report, errors.Wrap(errors.ErrNotFound, "no species converted")
	}
	return coll, report, nil
}

// Run converts cfg.Species and writes the collection to cfg.Output, and to
// cfg.SQLiteOutput when set. Nothing is written if the conversion fails.
func Run(ctx context.Context, cfg *config.Config) (*Report, error) {
	coll, report, err := New(cfg).Convert(ctx, cfg.Species)
	if err != nil {
		return report, err
	}

	if err := coll.WriteFile(cfg.Output); err != nil {
		return report, err
	}
	logging.Info("collection_written", "path", cfg.Output, "species", len(coll.Species()), "run_id", report.RunID)

	if cfg.SQLiteOutput != "" {
		if err := coll.WriteSQLite(cfg.SQLiteOutput); err != nil {
			return report, fmt.Errorf("sqlite export: %w", err)
		}
		logging.Info("sqlite_written", "path", cfg.SQLiteOutput, "run_id", report.RunID)
	}
	return report, nil
}
