package levelscheme

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/ensdfxml/core/sqlite"
)

// sampleCollection builds al26 with three levels and two transitions.
func sampleCollection() *Collection {
	ground := NewLevel(0, 11)
	ground.UpdateProperties(map[string]string{PropParity: "+"})
	first := NewLevel(228.305, 1)
	first.UpdateProperties(map[string]string{PropParity: "+"})
	second := NewLevel(416.852, 9)
	second.UpdateProperties(map[string]string{PropParity: "+"})

	s := NewSpecies("al26", []*Level{ground, first, second})
	s.UpdateProperties(map[string]string{PropMassNumber: "26", PropSource: "ensdf.026"})
	mustAdd(s, NewTransition(second, ground, 1.25e-3))
	tr := NewTransition(second, first, 4.5e12)
	tr.UpdateProperties(map[string]string{PropDescriptor: "BE2W=3.1"})
	mustAdd(s, tr)

	c := NewCollection(s)
	c.UpdateProperties(map[string]string{PropRunID: "run-1"})
	return c
}

func mustAdd(s *Species, t *Transition) {
	if err := s.AddTransition(t); err != nil {
		panic(err)
	}
}

type flatLevel struct {
	Energy       float64
	Multiplicity int
	Props        map[string]string
}

type flatTransition struct {
	From, To int
	Rate     float64
	Props    map[string]string
}

type flatSpecies struct {
	Name        string
	Props       map[string]string
	Levels      []flatLevel
	Transitions []flatTransition
}

func flatten(c *Collection) []flatSpecies {
	var out []flatSpecies
	for _, s := range c.Species() {
		fs := flatSpecies{Name: s.Name(), Props: s.Properties()}
		for _, l := range s.Levels() {
			fs.Levels = append(fs.Levels, flatLevel{l.Energy(), l.Multiplicity(), l.Properties()})
		}
		for _, t := range s.Transitions() {
			fs.Transitions = append(fs.Transitions, flatTransition{
				From: s.IndexOf(t.Upper()), To: s.IndexOf(t.Lower()), Rate: t.EinsteinA(), Props: t.Properties(),
			})
		}
		out = append(out, fs)
	}
	return out
}

func TestLevel(t *testing.T) {
	l := NewLevel(1057.7, 4)
	if l.Spin() != 1.5 {
		t.Errorf("Spin() = %v, want 1.5", l.Spin())
	}
	if l.Property(PropParity) != "" {
		t.Error("unset property should be empty")
	}
	l.UpdateProperties(map[string]string{PropParity: "-"})
	props := l.Properties()
	props[PropParity] = "+"
	if l.Property(PropParity) != "-" {
		t.Error("Properties() must return a copy")
	}
}

func TestSpeciesAddTransition(t *testing.T) {
	a, b := NewLevel(0, 1), NewLevel(100, 3)
	s := NewSpecies("h3", []*Level{a, b})
	if err := s.AddTransition(NewTransition(b, a, 1)); err != nil {
		t.Fatalf("AddTransition: %v", err)
	}
	if err := s.AddTransition(NewTransition(NewLevel(5, 1), a, 1)); err == nil {
		t.Error("transition to a foreign level should be rejected")
	}
	if got := len(s.Transitions()); got != 1 {
		t.Errorf("got %d transitions, want 1", got)
	}
	if s.IndexOf(b) != 1 || s.IndexOf(NewLevel(0, 1)) != -1 {
		t.Error("IndexOf mismatch")
	}
}

func TestCollectionGet(t *testing.T) {
	c := sampleCollection()
	if c.Get("al26") == nil {
		t.Error("Get(al26) = nil")
	}
	if c.Get("kr85") != nil {
		t.Error("Get(kr85) should be nil")
	}
}

func TestXMLRoundTrip(t *testing.T) {
	c := sampleCollection()

	var buf bytes.Buffer
	if err := c.WriteXML(&buf); err != nil {
		t.Fatalf("WriteXML: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "<?xml") {
		t.Errorf("output should start with an XML header:\n%s", buf.String())
	}

	got, err := ReadXML(&buf)
	if err != nil {
		t.Fatalf("ReadXML: %v", err)
	}
	if diff := cmp.Diff(flatten(c), flatten(got)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	if got.Properties()[PropRunID] != "run-1" {
		t.Errorf("collection properties = %v", got.Properties())
	}
}

func TestWriteFileCompressed(t *testing.T) {
	dir := t.TempDir()
	c := sampleCollection()

	for _, name := range []string{"nuc_collection.xml", "nuc_collection.xml.xz"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := c.WriteFile(path); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			got, err := ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}
			if diff := cmp.Diff(flatten(c), flatten(got)); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWriteFileXZFailure(t *testing.T) {
	orig := xzNewWriter
	defer func() { xzNewWriter = orig }()
	xzNewWriter = func(io.Writer) (*xz.Writer, error) {
		return nil, errors.New("no encoder")
	}

	err := sampleCollection().WriteFile(filepath.Join(t.TempDir(), "out.xml.xz"))
	if err == nil || !strings.Contains(err.Error(), "xz writer") {
		t.Errorf("error = %v, want xz writer failure", err)
	}
}

func TestReadXMLErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not xml", "not xml at all"},
		{"wrong root", "<collection/>"},
		{"bad index", `<species_collection><species name="x"><levels><level index="0"><energy>0</energy><multiplicity>1</multiplicity></level></levels><transitions><transition from="3" to="0"><a>1</a></transition></transitions></species></species_collection>`},
		{"bad energy", `<species_collection><species name="x"><levels><level index="0"><energy>zero</energy><multiplicity>1</multiplicity></level></levels></species></species_collection>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadXML(strings.NewReader(tt.doc)); err == nil {
				t.Error("ReadXML should fail")
			}
		})
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.xml")); err == nil {
		t.Error("ReadFile on a missing file should fail")
	}
}

func TestReadDocumentDecompresses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nuc_collection.xml.xz")
	if err := sampleCollection().WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := ReadDocument(path)
	if err != nil {
		t.Fatalf("ReadDocument: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("<?xml")) || !bytes.Contains(data, []byte(`<species name="al26">`)) {
		t.Errorf("unexpected document:\n%s", data)
	}
}

func TestWriteSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "levels.db")
	c := sampleCollection()

	// Writing twice replaces rather than duplicates.
	for i := 0; i < 2; i++ {
		if err := c.WriteSQLite(path); err != nil {
			t.Fatalf("WriteSQLite: %v", err)
		}
	}

	db, err := sqlite.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	var nSpecies, nLevels, nTransitions int
	if err := db.QueryRow(`SELECT COUNT(*) FROM species`).Scan(&nSpecies); err != nil {
		t.Fatal(err)
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM levels`).Scan(&nLevels); err != nil {
		t.Fatal(err)
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM transitions`).Scan(&nTransitions); err != nil {
		t.Fatal(err)
	}
	if nSpecies != 1 || nLevels != 3 || nTransitions != 2 {
		t.Errorf("counts = %d species, %d levels, %d transitions", nSpecies, nLevels, nTransitions)
	}

	var rate float64
	err = db.QueryRow(`SELECT einstein_a FROM transitions WHERE from_idx = 2 AND to_idx = 1`).Scan(&rate)
	if err != nil {
		t.Fatal(err)
	}
	if rate != 4.5e12 {
		t.Errorf("einstein_a = %v, want 4.5e12", rate)
	}

	var source string
	err = db.QueryRow(`SELECT value FROM species_properties WHERE key = ?`, PropSource).Scan(&source)
	if err != nil {
		t.Fatal(err)
	}
	if source != "ensdf.026" {
		t.Errorf("source = %q", source)
	}
}
