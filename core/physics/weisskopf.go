// Package physics computes Weisskopf single-particle estimates of
// electromagnetic transition rates between nuclear levels.
//
// Energies are in keV, rates in s^-1.
package physics

import "math"

const (
	// HbarC is ħc in keV·fm.
	HbarC = 197000.0

	// Zetta converts the kernel's natural units to s^-1.
	Zetta = 1e21

	// RadiusConstant is r0 in fm for R = r0·A^(1/3).
	RadiusConstant = 1.4

	magneticPrefactor = 0.55
	electricPrefactor = 2.4

	// unmeasuredDamping divides an estimate that has no experimental
	// reduced matrix element to constrain it.
	unmeasuredDamping = 10.0
)

// Character is the electromagnetic character of a multipole.
type Character int

const (
	Electric Character = iota
	Magnetic
)

// Letter returns the ENSDF letter for the character ('E' or 'M').
func (c Character) Letter() byte {
	if c == Magnetic {
		return 'M'
	}
	return 'E'
}

func (c Character) String() string {
	return string(c.Letter())
}

// ReducedStrength is an experimental reduced transition probability in
// Weisskopf units for one multipole of a transition.
type ReducedStrength struct {
	Character Character
	Order     int
	Value     float64
}

// Matches reports whether the strength applies to the given multipole.
func (r *ReducedStrength) Matches(c Character, order int) bool {
	return r != nil && r.Character == c && r.Order == order
}

// doubleFactorial returns n!! for n >= -1.
func doubleFactorial(n int) float64 {
	result := 1.0
	for k := n; k > 1; k -= 2 {
		result *= float64(k)
	}
	return result
}

// statisticalFactor is S(j) = 2(j+1) / (j·((2j+1)!!)²) · (3/(j+3))².
func statisticalFactor(j int) float64 {
	jf := float64(j)
	df := doubleFactorial(2*j + 1)
	ratio := 3.0 / (jf + 3.0)
	return 2.0 * (jf + 1.0) / (jf * df * df) * ratio * ratio
}

// multipoleScale is the shared energy and radius dependence of both characters.
func multipoleScale(ei, ef float64, j, a int) float64 {
	dE := ei - ef
	radius := RadiusConstant * math.Cbrt(float64(a))
	return math.Pow(dE/HbarC, float64(2*j+1)) * math.Pow(radius, float64(2*j))
}

// RateMagnetic returns the Weisskopf magnetic multipole rate of order j for a
// transition from energy ei to ef in a nucleus of mass number a.
func RateMagnetic(ei, ef float64, j, a int) float64 {
	return magneticPrefactor * statisticalFactor(j) *
		math.Pow(float64(a), -2.0/3.0) *
		multipoleScale(ei, ef, j, a) * Zetta
}

// RateElectric returns the Weisskopf electric multipole rate of order j.
func RateElectric(ei, ef float64, j, a int) float64 {
	return electricPrefactor * statisticalFactor(j) *
		multipoleScale(ei, ef, j, a) * Zetta
}

// State is one end of a transition.
type State struct {
	Energy float64 // keV
	Spin   float64 // J
	Parity int     // +1 or -1
}

// MultipoleRange returns the photon angular momenta allowed between spins
// ji and jf. Spin differences and sums are truncated toward zero, so
// half-integer spins yield the effective integer range.
func MultipoleRange(ji, jf float64) (lo, hi int) {
	diff := int(ji - jf)
	if diff < 0 {
		diff = -diff
	}
	lo = max(1, diff)
	hi = int(ji + jf)
	return lo, hi
}

// CharacterOf applies the parity selection rule for multipole order j.
func CharacterOf(j, pi, pf int) Character {
	sign := 1
	if j%2 == 1 {
		sign = -1
	}
	if sign*pi == pf {
		return Electric
	}
	return Magnetic
}

// WeisskopfEstimate returns the Einstein A coefficient for the transition
// initial→final, summed over every allowed multipole. A multipole matching
// measured is divided by the measured strength; every other multipole is
// divided by a factor of ten.
func WeisskopfEstimate(initial, final State, a int, measured *ReducedStrength) float64 {
	lo, hi := MultipoleRange(initial.Spin, final.Spin)

	var total float64
	for j := lo; j <= hi; j++ {
		c := CharacterOf(j, initial.Parity, final.Parity)

		var r float64
		if c == Electric {
			r = RateElectric(initial.Energy, final.Energy, j, a)
		} else {
			r = RateMagnetic(initial.Energy, final.Energy, j, a)
		}

		if measured.Matches(c, j) {
			total += r / measured.Value
		} else {
			total += r / unmeasuredDamping
		}
	}
	return total
}
