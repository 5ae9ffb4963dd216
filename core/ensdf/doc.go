// Package ensdf reads level, gamma and branching records from ENSDF
// fixed-column files.
//
// # Records
//
// Three record kinds are consumed, each recognised by a line prefix built
// from the nuclide identifier (see Resolve):
//
//   - Level records: energy in columns 10-18, spin-parity in columns 22-38.
//   - Gamma records: gamma energy in columns 10-18. The gamma is attached to
//     the most recent level and its destination is found by energy matching.
//   - Branching records: the third whitespace token is a reduced transition
//     probability such as "BE2W=12.3", applied to the preceding gamma.
//
// Only the adopted dataset is read: extraction stops at the second
// zero-energy level record.
//
// # Example
//
//	ids, err := ensdf.Resolve("26AL")
//	if err != nil {
//	    return err
//	}
//	res, err := ensdf.ExtractFile(filepath.Join(dir, ids.FileName), ids, ensdf.DefaultOptions())
package ensdf
