package physics

import (
	"math"
	"testing"
)

func approxEqual(a, b, rel float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= rel*math.Max(math.Abs(a), math.Abs(b))
}

func TestDoubleFactorial(t *testing.T) {
	tests := []struct {
		n    int
		want float64
	}{
		{-1, 1},
		{0, 1},
		{1, 1},
		{3, 3},
		{5, 15},
		{7, 105},
		{8, 384},
	}
	for _, tt := range tests {
		if got := doubleFactorial(tt.n); got != tt.want {
			t.Errorf("doubleFactorial(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestStatisticalFactor(t *testing.T) {
	if got := statisticalFactor(1); !approxEqual(got, 0.25, 1e-12) {
		t.Errorf("S(1) = %v, want 0.25", got)
	}
	if got := statisticalFactor(2); !approxEqual(got, 0.0048, 1e-12) {
		t.Errorf("S(2) = %v, want 0.0048", got)
	}
}

func TestRatesVanishWithoutEnergyDifference(t *testing.T) {
	for j := 1; j <= 6; j++ {
		for _, a := range []int{1, 26, 85, 180} {
			if got := RateElectric(1234.5, 1234.5, j, a); got != 0 {
				t.Errorf("RateElectric(E,E,%d,%d) = %v, want 0", j, a, got)
			}
			if got := RateMagnetic(1234.5, 1234.5, j, a); got != 0 {
				t.Errorf("RateMagnetic(E,E,%d,%d) = %v, want 0", j, a, got)
			}
		}
	}
}

func TestRatesDecreaseWithMultipoleOrder(t *testing.T) {
	cases := []struct {
		ei, ef float64
		a      int
	}{
		{1000, 0, 26},
		{228.3, 0, 26},
		{4000, 1500, 85},
		{77.2, 39.5, 180},
	}
	for _, c := range cases {
		prevE := RateElectric(c.ei, c.ef, 1, c.a)
		prevM := RateMagnetic(c.ei, c.ef, 1, c.a)
		for j := 2; j <= 8; j++ {
			e := RateElectric(c.ei, c.ef, j, c.a)
			m := RateMagnetic(c.ei, c.ef, j, c.a)
			if !(e < prevE) {
				t.Errorf("RateElectric not decreasing at j=%d for %+v: %v >= %v", j, c, e, prevE)
			}
			if !(m < prevM) {
				t.Errorf("RateMagnetic not decreasing at j=%d for %+v: %v >= %v", j, c, m, prevM)
			}
			prevE, prevM = e, m
		}
	}
}

func TestRateElectricE1(t *testing.T) {
	radius := RadiusConstant * math.Cbrt(26)
	want := 2.4 * 0.25 * math.Pow(1000/HbarC, 3) * radius * radius * Zetta
	if got := RateElectric(1000, 0, 1, 26); !approxEqual(got, want, 1e-12) {
		t.Errorf("RateElectric(1000,0,1,26) = %v, want %v", got, want)
	}
}

func TestRateMagneticScalesWithMass(t *testing.T) {
	// For fixed j the magnetic rate carries an extra A^(-2/3) relative to the
	// electric one, and a different prefactor.
	for _, a := range []int{8, 27, 64} {
		e := RateElectric(500, 0, 1, a)
		m := RateMagnetic(500, 0, 1, a)
		want := 0.55 / 2.4 * math.Pow(float64(a), -2.0/3.0)
		if !approxEqual(m/e, want, 1e-12) {
			t.Errorf("A=%d: magnetic/electric = %v, want %v", a, m/e, want)
		}
	}
}

func TestMultipoleRange(t *testing.T) {
	tests := []struct {
		name   string
		ji, jf float64
		lo, hi int
	}{
		{"0 to 0", 0, 0, 1, 0},
		{"1 to 0", 1, 0, 1, 1},
		{"0 to 2", 0, 2, 2, 2},
		{"3/2 to 1/2", 1.5, 0.5, 1, 2},
		{"5/2 to 0", 2.5, 0, 2, 2},
		{"1/2 to 5/2", 0.5, 2.5, 2, 3},
		{"5 to 0", 5, 0, 5, 5},
		{"2 to 2", 2, 2, 1, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := MultipoleRange(tt.ji, tt.jf)
			if lo != tt.lo || hi != tt.hi {
				t.Errorf("MultipoleRange(%v,%v) = [%d,%d], want [%d,%d]", tt.ji, tt.jf, lo, hi, tt.lo, tt.hi)
			}
		})
	}
}

func TestCharacterOf(t *testing.T) {
	tests := []struct {
		j, pi, pf int
		want      Character
	}{
		{1, -1, 1, Electric},
		{1, 1, 1, Magnetic},
		{2, 1, 1, Electric},
		{2, -1, 1, Magnetic},
		{3, 1, -1, Electric},
	}
	for _, tt := range tests {
		if got := CharacterOf(tt.j, tt.pi, tt.pf); got != tt.want {
			t.Errorf("CharacterOf(%d,%d,%d) = %v, want %v", tt.j, tt.pi, tt.pf, got, tt.want)
		}
	}
}

func TestWeisskopfEstimate(t *testing.T) {
	upper := State{Energy: 1000, Spin: 1, Parity: -1}
	ground := State{Energy: 0, Spin: 0, Parity: 1}
	e1 := RateElectric(1000, 0, 1, 26)

	t.Run("unmeasured is damped", func(t *testing.T) {
		got := WeisskopfEstimate(upper, ground, 26, nil)
		if !approxEqual(got, e1/10, 1e-12) {
			t.Errorf("got %v, want %v", got, e1/10)
		}
	})

	t.Run("measured multipole divides by B", func(t *testing.T) {
		got := WeisskopfEstimate(upper, ground, 26, &ReducedStrength{Character: Electric, Order: 1, Value: 2.5})
		if !approxEqual(got, e1/2.5, 1e-12) {
			t.Errorf("got %v, want %v", got, e1/2.5)
		}
	})

	t.Run("non-matching measurement is ignored", func(t *testing.T) {
		for _, m := range []*ReducedStrength{
			{Character: Magnetic, Order: 1, Value: 2.5},
			{Character: Electric, Order: 2, Value: 2.5},
		} {
			got := WeisskopfEstimate(upper, ground, 26, m)
			if !approxEqual(got, e1/10, 1e-12) {
				t.Errorf("%+v: got %v, want %v", m, got, e1/10)
			}
		}
	})

	t.Run("sums mixed multipoles", func(t *testing.T) {
		// 3/2+ -> 1/2+ allows M1 and E2.
		i := State{Energy: 800, Spin: 1.5, Parity: 1}
		f := State{Energy: 100, Spin: 0.5, Parity: 1}
		want := RateMagnetic(800, 100, 1, 85)/10 + RateElectric(800, 100, 2, 85)/10
		got := WeisskopfEstimate(i, f, 85, nil)
		if !approxEqual(got, want, 1e-12) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("0 to 0 has no photon multipole", func(t *testing.T) {
		i := State{Energy: 500, Spin: 0, Parity: 1}
		if got := WeisskopfEstimate(i, ground, 26, nil); got != 0 {
			t.Errorf("got %v, want 0", got)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		m := &ReducedStrength{Character: Electric, Order: 1, Value: 0.3}
		a := WeisskopfEstimate(upper, ground, 26, m)
		b := WeisskopfEstimate(upper, ground, 26, m)
		if math.Float64bits(a) != math.Float64bits(b) {
			t.Errorf("repeated calls differ: %v vs %v", a, b)
		}
	})
}
