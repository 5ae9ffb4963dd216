package levelscheme

import (
	"database/sql"
	"fmt"

	"github.com/FocuswithJustin/ensdfxml/core/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS species (
	id   INTEGER PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS species_properties (
	species_id INTEGER NOT NULL REFERENCES species(id),
	key        TEXT NOT NULL,
	value      TEXT NOT NULL,
	PRIMARY KEY (species_id, key)
);
CREATE TABLE IF NOT EXISTS levels (
	species_id   INTEGER NOT NULL REFERENCES species(id),
	idx          INTEGER NOT NULL,
	energy       REAL NOT NULL,
	multiplicity INTEGER NOT NULL,
	parity       TEXT,
	PRIMARY KEY (species_id, idx)
);
CREATE TABLE IF NOT EXISTS transitions (
	species_id INTEGER NOT NULL REFERENCES species(id),
	from_idx   INTEGER NOT NULL,
	to_idx     INTEGER NOT NULL,
	einstein_a REAL NOT NULL
);`

// WriteSQLite stores the collection in the SQLite database at path,
// replacing any species of the same name.
func (c *Collection) WriteSQLite(path string) error {
	db, err := sqlite.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	for _, s := range c.species {
		if err := writeSpecies(tx, s); err != nil {
			tx.Rollback()
			return fmt.Errorf("species %s: %w", s.name, err)
		}
	}
	return tx.Commit()
}

func writeSpecies(tx *sql.Tx, s *Species) error {
	for _, table := range []string{"transitions", "levels", "species_properties"} {
		q := fmt.Sprintf(`DELETE FROM %s WHERE species_id IN (SELECT id FROM species WHERE name = ?)`, table)
		if _, err := tx.Exec(q, s.name); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(`DELETE FROM species WHERE name = ?`, s.name); err != nil {
		return err
	}

	res, err := tx.Exec(`INSERT INTO species (name) VALUES (?)`, s.name)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for _, k := range s.props.sortedKeys() {
		if _, err := tx.Exec(`INSERT INTO species_properties (species_id, key, value) VALUES (?, ?, ?)`,
			id, k, s.props[k]); err != nil {
			return err
		}
	}

	for i, l := range s.levels {
		if _, err := tx.Exec(`INSERT INTO levels (species_id, idx, energy, multiplicity, parity) VALUES (?, ?, ?, ?, ?)`,
			id, i, l.energy, l.multiplicity, l.props[PropParity]); err != nil {
			return err
		}
	}

	for _, t := range s.transitions {
		if _, err := tx.Exec(`INSERT INTO transitions (species_id, from_idx, to_idx, einstein_a) VALUES (?, ?, ?, ?)`,
			id, s.IndexOf(t.upper), s.IndexOf(t.lower), t.rate); err != nil {
			return err
		}
	}
	return nil
}
