package ensdf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/ensdfxml/core/physics"
)

// NoData is the descriptor carried by a transition without a measured
// reduced transition probability.
const NoData = "no data available"

// ReducedMatrix is the reduced transition probability attached to a
// transition. A nil Strength means the transition is unmeasured.
type ReducedMatrix struct {
	Strength *physics.ReducedStrength

	// Descriptor is the source text ("BE2W=12.3") or NoData.
	Descriptor string
}

// Unmeasured returns a ReducedMatrix carrying no measurement.
func Unmeasured() ReducedMatrix {
	return ReducedMatrix{Descriptor: NoData}
}

// Measured reports whether an experimental value is present.
func (r ReducedMatrix) Measured() bool {
	return r.Strength != nil
}

func (r ReducedMatrix) String() string {
	return r.Descriptor
}

// ParseReducedMatrix parses a descriptor such as "BE2W=12.3": the character at
// position 1 is the multipole character (E or M), position 2 the multipole
// order, and the value starts at position 5. Trailing "$" separators and
// parentheses around the value are ignored.
func ParseReducedMatrix(desc string) (ReducedMatrix, error) {
	if desc == NoData {
		return Unmeasured(), nil
	}
	if len(desc) < 6 {
		return Unmeasured(), fmt.Errorf("descriptor %q too short", desc)
	}

	var c physics.Character
	switch desc[1] {
	case 'E':
		c = physics.Electric
	case 'M':
		c = physics.Magnetic
	default:
		return Unmeasured(), fmt.Errorf("descriptor %q: unknown multipole character %q", desc, desc[1])
	}

	if desc[2] < '1' || desc[2] > '9' {
		return Unmeasured(), fmt.Errorf("descriptor %q: invalid multipole order %q", desc, desc[2])
	}
	order := int(desc[2] - '0')

	raw := strings.Trim(desc[5:], "()$ ")
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Unmeasured(), fmt.Errorf("descriptor %q: invalid value: %w", desc, err)
	}
	if value <= 0 {
		return Unmeasured(), fmt.Errorf("descriptor %q: non-positive value %v", desc, value)
	}

	return ReducedMatrix{
		Strength:   &physics.ReducedStrength{Character: c, Order: order, Value: value},
		Descriptor: desc,
	}, nil
}
