// Command ensdfxml converts ENSDF adopted level schemes into a nuclear
// level-scheme collection with Weisskopf-estimate transition rates.
package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/ensdfxml/core/ensdf"
	"github.com/FocuswithJustin/ensdfxml/core/levelscheme"
	"github.com/FocuswithJustin/ensdfxml/core/sqlite"
	xmldoc "github.com/FocuswithJustin/ensdfxml/core/xml"
	"github.com/FocuswithJustin/ensdfxml/internal/config"
	"github.com/FocuswithJustin/ensdfxml/internal/convert"
	"github.com/FocuswithJustin/ensdfxml/internal/logging"
	"github.com/FocuswithJustin/ensdfxml/internal/validation"
)

const version = "0.1.0"

// stdout receives command output; tests replace it.
var stdout io.Writer = os.Stdout

// CLI defines the command-line interface for ensdfxml.
var CLI struct {
	// Global flags
	Config    string `name:"config" short:"c" help:"TOML configuration file" type:"path"`
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)"`
	LogFormat string `name:"log-format" help:"Log format (auto, text, json)"`

	Convert ConvertCmd `cmd:"" help:"Convert ENSDF species into a level-scheme collection"`
	Show    ShowCmd    `cmd:"" help:"Print the levels and transitions of a collection"`
	Verify  VerifyCmd  `cmd:"" help:"Check a collection file for consistency"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// loadConfig reads the configuration file, applies the global flags and
// initialises logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return nil, err
	}
	if CLI.LogLevel != "" {
		cfg.Log.Level = CLI.LogLevel
	}
	if CLI.LogFormat != "" {
		cfg.Log.Format = CLI.LogFormat
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	logging.InitLogger(level, format)
	return cfg, nil
}

// ConvertCmd converts species symbols into a collection file.
type ConvertCmd struct {
	Species   []string `arg:"" optional:"" help:"Species symbols such as 26AL or 180TA (default: from config)"`
	DBDir     string   `name:"db-dir" short:"d" help:"Directory holding ensdf.NNN files" type:"path"`
	Out       string   `name:"out" short:"o" help:"Output collection (.xml or .xml.xz)" type:"path"`
	SQLite    string   `name:"sqlite" help:"Also export the collection to this SQLite database" type:"path"`
	Tolerance float64  `name:"tolerance" help:"Gamma destination energy tolerance in keV"`
	KeepGoing bool     `name:"keep-going" short:"k" help:"Skip species that fail instead of aborting"`
}

func (c *ConvertCmd) Run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c.apply(cfg)
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if len(cfg.Species) == 0 {
		return fmt.Errorf("no species given on the command line or in the config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := convert.Run(ctx, cfg)
	if report != nil {
		fmt.Fprintln(stdout, renderReport(report))
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Wrote %s\n", cfg.Output)
	if cfg.SQLiteOutput != "" {
		fmt.Fprintf(stdout, "Wrote %s\n", cfg.SQLiteOutput)
	}
	return nil
}

// apply overrides cfg with the flags that were set.
func (c *ConvertCmd) apply(cfg *config.Config) {
	if len(c.Species) > 0 {
		cfg.Species = c.Species
	}
	if c.DBDir != "" {
		cfg.DatabaseDir = c.DBDir
	}
	if c.Out != "" {
		cfg.Output = c.Out
	}
	if c.SQLite != "" {
		cfg.SQLiteOutput = c.SQLite
	}
	if c.Tolerance != 0 {
		cfg.EnergyTolerance = c.Tolerance
	}
	if c.KeepGoing {
		cfg.KeepGoing = true
	}
}

func renderReport(r *convert.Report) string {
	v := newTableView("Run "+r.RunID,
		column{title: "Symbol"},
		column{title: "Species"},
		column{title: "Source"},
		column{title: "Levels", numeric: true},
		column{title: "Transitions", numeric: true},
		column{title: "Measured", numeric: true},
		column{title: "Dropped", numeric: true},
		column{title: "Status"},
	)
	var levels, transitions, measured, dropped int
	for _, s := range r.Species {
		status := "ok"
		if s.Err != nil {
			status = s.Err.Error()
		}
		v.add(s.Symbol, s.Species, s.Source, s.Levels, s.Transitions, s.Measured, len(s.Diagnostics), status)
		levels += s.Levels
		transitions += s.Transitions
		measured += s.Measured
		dropped += len(s.Diagnostics)
	}
	v.total("Total", "", "", levels, transitions, measured, dropped, fmt.Sprintf("%d failed", r.Failed()))
	return v.String()
}

// ShowCmd prints a collection as tables.
type ShowCmd struct {
	Path    string `arg:"" help:"Collection file (.xml or .xml.xz)" type:"existingfile"`
	Species string `name:"species" short:"s" help:"Only show this species key (e.g. al26)"`
}

func (c *ShowCmd) Run() error {
	if _, err := loadConfig(); err != nil {
		return err
	}
	if err := checkCollectionFile(c.Path); err != nil {
		return err
	}

	coll, err := levelscheme.ReadFile(c.Path)
	if err != nil {
		return err
	}

	shown := 0
	for _, s := range coll.Species() {
		if c.Species != "" && s.Name() != c.Species {
			continue
		}
		shown++
		printSpecies(s)
	}
	if c.Species != "" && shown == 0 {
		return fmt.Errorf("species %q not found in %s", c.Species, c.Path)
	}
	return nil
}

func printSpecies(s *levelscheme.Species) {
	props := s.Properties()
	fmt.Fprintf(stdout, "%s  (A=%s, source %s)\n", s.Name(), props[levelscheme.PropMassNumber], props[levelscheme.PropSource])

	levels := newTableView("Levels",
		column{title: "Index", numeric: true},
		column{title: "Energy (keV)", numeric: true, format: energyFormat},
		column{title: "Jπ"},
		column{title: "2J+1", numeric: true},
	)
	for i, l := range s.Levels() {
		jpi := strconv.FormatFloat(l.Spin(), 'f', -1, 64) + l.Property(levelscheme.PropParity)
		levels.add(i, l.Energy(), jpi, l.Multiplicity())
	}
	fmt.Fprintln(stdout, levels)

	transitions := newTableView("Transitions",
		column{title: "From", numeric: true},
		column{title: "To", numeric: true},
		column{title: "Eγ (keV)", numeric: true, format: energyFormat},
		column{title: "A (1/s)", numeric: true, format: rateFormat},
		column{title: "Reduced matrix"},
	)
	for _, t := range s.Transitions() {
		desc := t.Properties()[levelscheme.PropDescriptor]
		if desc == "" {
			desc = ensdf.NoData
		}
		transitions.add(s.IndexOf(t.Upper()), s.IndexOf(t.Lower()),
			t.Upper().Energy()-t.Lower().Energy(), t.EinsteinA(), desc)
	}
	fmt.Fprintln(stdout, transitions)
}

// checkCollectionFile rejects a file whose content does not match its name.
func checkCollectionFile(path string) error {
	if err := validation.ValidatePath(path); err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	ft, err := validation.ValidateFileType(f, path)
	if err != nil {
		return err
	}
	if ft != validation.FileTypeXML && ft != validation.FileTypeXZ {
		return fmt.Errorf("%s is not a collection file (detected %s)", path, ft)
	}
	return nil
}

// VerifyCmd checks a collection file.
type VerifyCmd struct {
	Path  string `arg:"" help:"Collection file (.xml or .xml.xz)" type:"existingfile"`
	DBDir string `name:"db-dir" short:"d" help:"Check source fingerprints against ENSDF files in this directory" type:"path"`
}

func (c *VerifyCmd) Run() error {
	if _, err := loadConfig(); err != nil {
		return err
	}
	if err := checkCollectionFile(c.Path); err != nil {
		return err
	}

	data, err := levelscheme.ReadDocument(c.Path)
	if err != nil {
		return err
	}
	if res := xmldoc.Validate(data); !res.Valid {
		for _, e := range res.Errors {
			fmt.Fprintf(stdout, "  offset %d: %s\n", e.Offset, e.Message)
		}
		return fmt.Errorf("%s is not well-formed XML", c.Path)
	}

	coll, err := levelscheme.ReadXML(bytes.NewReader(data))
	if err != nil {
		return err
	}

	problems := verifyCollection(coll, c.DBDir)
	for _, p := range problems {
		fmt.Fprintf(stdout, "  %s\n", p)
	}
	if len(problems) > 0 {
		return fmt.Errorf("%s: %d problem(s) found", c.Path, len(problems))
	}

	var levels, transitions int
	for _, s := range coll.Species() {
		levels += len(s.Levels())
		transitions += len(s.Transitions())
	}
	fmt.Fprintf(stdout, "OK: %d species, %d levels, %d transitions\n", len(coll.Species()), levels, transitions)
	return nil
}

// verifyCollection returns one message per inconsistency in coll. When
// dbDir is set, each species' source fingerprint is recomputed.
func verifyCollection(coll *levelscheme.Collection, dbDir string) []string {
	var problems []string
	for _, s := range coll.Species() {
		for i, l := range s.Levels() {
			if l.Multiplicity() < 1 {
				problems = append(problems, fmt.Sprintf("%s level %d: multiplicity %d", s.Name(), i, l.Multiplicity()))
			}
			if l.Energy() < 0 || math.IsNaN(l.Energy()) || math.IsInf(l.Energy(), 0) {
				problems = append(problems, fmt.Sprintf("%s level %d: energy %v", s.Name(), i, l.Energy()))
			}
		}
		for _, t := range s.Transitions() {
			from, to := s.IndexOf(t.Upper()), s.IndexOf(t.Lower())
			if a := t.EinsteinA(); a < 0 || math.IsNaN(a) || math.IsInf(a, 0) {
				problems = append(problems, fmt.Sprintf("%s transition %d->%d: rate %v", s.Name(), from, to, a))
			}
			if t.Upper().Energy() < t.Lower().Energy() {
				problems = append(problems, fmt.Sprintf("%s transition %d->%d: upward in energy", s.Name(), from, to))
			}
		}
		if dbDir != "" {
			if p := verifyFingerprint(s, dbDir); p != "" {
				problems = append(problems, p)
			}
		}
	}
	return problems
}

func verifyFingerprint(s *levelscheme.Species, dbDir string) string {
	props := s.Properties()
	source, want := props[levelscheme.PropSource], props[levelscheme.PropFingerprint]
	if source == "" || want == "" {
		return fmt.Sprintf("%s: no source fingerprint recorded", s.Name())
	}
	path, err := validation.SanitizePath(dbDir, source)
	if err != nil {
		return fmt.Sprintf("%s: source %q: %v", s.Name(), source, err)
	}
	got, err := ensdf.Fingerprint(path)
	if err != nil {
		return fmt.Sprintf("%s: %v", s.Name(), err)
	}
	if got != want {
		return fmt.Sprintf("%s: %s changed since conversion", s.Name(), source)
	}
	return ""
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	info := sqlite.GetInfo()
	fmt.Fprintf(stdout, "ensdfxml version %s\n", version)
	fmt.Fprintf(stdout, "sqlite driver: %s (%s, %s)\n", info.DriverName, info.DriverType, info.Package)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("ensdfxml"),
		kong.Description("ENSDF to nuclear level-scheme converter with Weisskopf-estimate transition rates"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
