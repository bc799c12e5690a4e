package database

import (
	"database/sql"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/camden-git/organizer/models"
)

// schema creates the canonical tables. Safe to run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS person (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	given_name TEXT,
	family_name TEXT NOT NULL,
	affiliation TEXT,
	address TEXT,
	photo_reference TEXT,
	notes TEXT
);

CREATE TABLE IF NOT EXISTS vehicle (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	owner_id INTEGER,
	model TEXT,
	plate TEXT
);

CREATE INDEX IF NOT EXISTS idx_vehicle_owner_id ON vehicle(owner_id);
`

// AdditiveColumn describes a nullable column that later versions added to
// an existing table.
type AdditiveColumn struct {
	Table  string
	Column string
	Type   string
}

// additiveColumns brings files written by earlier layouts up to the
// canonical column set. On a fresh file every entry is a no-op.
var additiveColumns = []AdditiveColumn{
	{Table: "person", Column: "affiliation", Type: "TEXT"},
	{Table: "person", Column: "address", Type: "TEXT"},
	{Table: "person", Column: "photo_reference", Type: "TEXT"},
	{Table: "person", Column: "notes", Type: "TEXT"},
	{Table: "vehicle", Column: "model", Type: "TEXT"},
	{Table: "vehicle", Column: "plate", Type: "TEXT"},
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var additiveTypes = map[string]bool{
	"TEXT":    true,
	"INTEGER": true,
	"REAL":    true,
	"NUMERIC": true,
	"BLOB":    true,
}

// EnsureSchema creates missing tables and applies the additive column
// migrations.
func EnsureSchema(h *Handle) error {
	return h.WithSQL(ensureSchema)
}

// MigrateAdditiveColumn adds a nullable column to an existing table. A
// column that is already present is treated as success.
func MigrateAdditiveColumn(h *Handle, table, column, columnType string) error {
	return h.WithSQL(func(db *sql.DB) error {
		return migrateAdditiveColumn(db, AdditiveColumn{Table: table, Column: column, Type: columnType})
	})
}

// TableColumns lists the column names of table in declaration order.
func TableColumns(h *Handle, table string) ([]string, error) {
	if !identifierPattern.MatchString(table) {
		return nil, models.ValidationError("table", fmt.Sprintf("%q is not a valid identifier", table))
	}
	var columns []string
	err := h.WithSQL(func(db *sql.DB) error {
		var err error
		columns, err = tableColumns(db, table)
		return err
	})
	return columns, err
}

func ensureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	for _, col := range additiveColumns {
		if err := migrateAdditiveColumn(db, col); err != nil {
			return err
		}
	}
	return nil
}

func migrateAdditiveColumn(db *sql.DB, col AdditiveColumn) error {
	if !identifierPattern.MatchString(col.Table) {
		return models.ValidationError("table", fmt.Sprintf("%q is not a valid identifier", col.Table))
	}
	if !identifierPattern.MatchString(col.Column) {
		return models.ValidationError("column", fmt.Sprintf("%q is not a valid identifier", col.Column))
	}
	columnType := strings.ToUpper(strings.TrimSpace(col.Type))
	if !additiveTypes[columnType] {
		return models.ValidationError("type", fmt.Sprintf("%q is not an additive column type", col.Type))
	}

	exists, err := columnExists(db, col.Table, col.Column)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", col.Table, col.Column, columnType)
	if _, err := db.Exec(stmt); err != nil {
		if strings.Contains(err.Error(), "duplicate column name") {
			return nil
		}
		return fmt.Errorf("failed to add column %s.%s: %w", col.Table, col.Column, err)
	}
	log.Printf("migrated %s: added column %s %s", col.Table, col.Column, columnType)
	return nil
}

func columnExists(db *sql.DB, table, column string) (bool, error) {
	columns, err := tableColumns(db, table)
	if err != nil {
		return false, err
	}
	for _, name := range columns {
		if strings.EqualFold(name, column) {
			return true, nil
		}
	}
	return false, nil
}

func tableColumns(db *sql.DB, table string) ([]string, error) {
	rows, err := db.Query(`PRAGMA table_info(` + table + `)`)
	if err != nil {
		return nil, fmt.Errorf("failed to query table info %s: %w", table, err)
	}
	defer rows.Close()

	columns := []string{}
	for rows.Next() {
		var (
			cid     int
			name    string
			typeStr string
			notNull int
			dfltVal sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typeStr, &notNull, &dfltVal, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan table info %s: %w", table, err)
		}
		columns = append(columns, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating table info %s: %w", table, err)
	}
	return columns, nil
}
