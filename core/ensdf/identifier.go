package ensdf

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/ensdfxml/core/errors"
)

// massNumberPattern matches the first run of digits in a species symbol.
var massNumberPattern = regexp.MustCompile(`\d+`)

// Identifiers holds everything derived from a species symbol that is needed
// to locate and read its ENSDF records.
type Identifiers struct {
	// Symbol is the species symbol as given (e.g. "26AL").
	Symbol string

	// MassNumber is A.
	MassNumber int

	// FileName is the ENSDF file holding this mass chain (e.g. "ensdf.026").
	FileName string

	// NucID is the nuclide identifier as it appears in columns 1-5.
	NucID string

	// LevelPrefix, GammaPrefix and BranchPrefix recognise the three record kinds.
	LevelPrefix  string
	GammaPrefix  string
	BranchPrefix string

	// LibrarySymbol is the lowercase species key (e.g. "al26").
	LibrarySymbol string
}

// Resolve derives the file name and record prefixes for a species symbol.
// It returns a SpeciesFormatError if the symbol carries no mass number.
func Resolve(symbol string) (*Identifiers, error) {
	digits := massNumberPattern.FindString(symbol)
	if digits == "" {
		return nil, errors.NewSpeciesFormat(symbol)
	}

	a, err := strconv.Atoi(digits)
	if err != nil {
		return nil, errors.NewSpeciesFormat(symbol)
	}

	var fileName, nucID string
	switch len(digits) {
	case 1:
		fileName = "ensdf.00" + digits
		nucID = "  " + symbol
	case 2:
		fileName = "ensdf.0" + digits
		nucID = " " + symbol
	default:
		fileName = "ensdf." + digits
		nucID = symbol
	}

	element := strings.ReplaceAll(symbol, digits, "")

	recordPad := "  "
	if len(element) == 1 {
		recordPad = "   "
	}

	return &Identifiers{
		Symbol:        symbol,
		MassNumber:    a,
		FileName:      fileName,
		NucID:         nucID,
		LevelPrefix:   nucID + recordPad + "L",
		GammaPrefix:   nucID + recordPad + "G",
		BranchPrefix:  nucID + "B ",
		LibrarySymbol: strings.ToLower(element) + strconv.Itoa(a),
	}, nil
}
