// Package levelscheme models nuclear species as ordered levels joined by
// radiative transitions, and serialises collections of species.
package levelscheme

import (
	"fmt"
	"maps"
	"slices"
)

// Well-known property keys.
const (
	PropParity      = "parity"
	PropMassNumber  = "mass_number"
	PropSource      = "source"
	PropFingerprint = "source_blake3"
	PropRunID       = "run_id"
	PropDescriptor  = "reduced_matrix"
)

// properties is a string key-value bag shared by levels, species and collections.
type properties map[string]string

func (p *properties) update(kv map[string]string) {
	if *p == nil {
		*p = make(properties, len(kv))
	}
	maps.Copy(*p, kv)
}

func (p properties) clone() map[string]string {
	return maps.Clone(map[string]string(p))
}

func (p properties) sortedKeys() []string {
	return slices.Sorted(maps.Keys(p))
}

// Level is a nuclear energy level.
type Level struct {
	energy       float64
	multiplicity int
	props        properties
}

// NewLevel creates a level with energy in keV and multiplicity 2J+1.
func NewLevel(energy float64, multiplicity int) *Level {
	return &Level{energy: energy, multiplicity: multiplicity}
}

// Energy returns the level energy in keV.
func (l *Level) Energy() float64 { return l.energy }

// Multiplicity returns 2J+1.
func (l *Level) Multiplicity() int { return l.multiplicity }

// Spin returns J.
func (l *Level) Spin() float64 { return float64(l.multiplicity-1) / 2 }

// UpdateProperties merges kv into the level's properties.
func (l *Level) UpdateProperties(kv map[string]string) { l.props.update(kv) }

// Properties returns a copy of the level's properties.
func (l *Level) Properties() map[string]string { return l.props.clone() }

// Property returns a single property, or "" if unset.
func (l *Level) Property(key string) string { return l.props[key] }

// Transition is a radiative decay from an upper to a lower level.
type Transition struct {
	upper, lower *Level
	rate         float64
	props        properties
}

// NewTransition creates a transition with Einstein A coefficient rate (s^-1).
func NewTransition(upper, lower *Level, rate float64) *Transition {
	return &Transition{upper: upper, lower: lower, rate: rate}
}

// Upper returns the initial level.
func (t *Transition) Upper() *Level { return t.upper }

// Lower returns the final level.
func (t *Transition) Lower() *Level { return t.lower }

// EinsteinA returns the spontaneous decay rate in s^-1.
func (t *Transition) EinsteinA() float64 { return t.rate }

// UpdateProperties merges kv into the transition's properties.
func (t *Transition) UpdateProperties(kv map[string]string) { t.props.update(kv) }

// Properties returns a copy of the transition's properties.
func (t *Transition) Properties() map[string]string { return t.props.clone() }

// Species is a nuclide with its ordered level scheme.
type Species struct {
	name        string
	levels      []*Level
	index       map[*Level]int
	transitions []*Transition
	props       properties
}

// NewSpecies creates a species keyed by name (e.g. "al26") holding levels in order.
func NewSpecies(name string, levels []*Level) *Species {
	s := &Species{
		name:   name,
		levels: slices.Clone(levels),
		index:  make(map[*Level]int, len(levels)),
	}
	for i, l := range s.levels {
		s.index[l] = i
	}
	return s
}

// Name returns the species key.
func (s *Species) Name() string { return s.name }

// Levels returns the species' levels in order.
func (s *Species) Levels() []*Level { return slices.Clone(s.levels) }

// IndexOf returns the position of l in the level list, or -1.
func (s *Species) IndexOf(l *Level) int {
	if i, ok := s.index[l]; ok {
		return i
	}
	return -1
}

// AddTransition attaches t to the species. Both ends must be levels of s.
func (s *Species) AddTransition(t *Transition) error {
	if s.IndexOf(t.upper) < 0 || s.IndexOf(t.lower) < 0 {
		return fmt.Errorf("species %s: transition references a level outside the species", s.name)
	}
	s.transitions = append(s.transitions, t)
	return nil
}

// Transitions returns the attached transitions in insertion order.
func (s *Species) Transitions() []*Transition { return slices.Clone(s.transitions) }

// UpdateProperties merges kv into the species' properties.
func (s *Species) UpdateProperties(kv map[string]string) { s.props.update(kv) }

// Properties returns a copy of the species' properties.
func (s *Species) Properties() map[string]string { return s.props.clone() }

// Collection is an ordered set of species.
type Collection struct {
	species []*Species
	props   properties
}

// NewCollection creates a collection holding species in order.
func NewCollection(species ...*Species) *Collection {
	return &Collection{species: slices.Clone(species)}
}

// Add appends a species.
func (c *Collection) Add(s *Species) { c.species = append(c.species, s) }

// Species returns the species in order.
func (c *Collection) Species() []*Species { return slices.Clone(c.species) }

// Get returns the species named name, or nil.
func (c *Collection) Get(name string) *Species {
	for _, s := range c.species {
		if s.name == name {
			return s
		}
	}
	return nil
}

// UpdateProperties merges kv into the collection's properties.
func (c *Collection) UpdateProperties(kv map[string]string) { c.props.update(kv) }

// Properties returns a copy of the collection's properties.
func (c *Collection) Properties() map[string]string { return c.props.clone() }
