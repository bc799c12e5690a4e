package database

import (
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/camden-git/organizer/models"
)

// SearchOptions selects which columns a search term is matched against.
type SearchOptions struct {
	// IncludePlates also matches the plates of the person's vehicles.
	IncludePlates bool
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern turns a search term into a case-folded substring pattern in
// which LIKE wildcards typed by the user match literally.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

func likeExpr(column, pattern string) sq.Sqlizer {
	return sq.Expr(fmt.Sprintf(`casefold(COALESCE(%s, '')) LIKE ? ESCAPE '\'`, column), pattern)
}

// SearchPeople returns summaries of the people matching term, ordered by
// family name, each person at most once. An empty term matches everyone.
func SearchPeople(h *Handle, term string, opts SearchOptions) ([]models.PersonSummary, error) {
	queryBuilder := psql.Select(
		"p.id",
		"COALESCE(p.given_name, '')",
		"p.family_name",
		"COALESCE(p.affiliation, '')",
	).
		From("person p").
		OrderBy("p.family_name ASC", "p.id ASC")

	term = strings.TrimSpace(term)
	if term != "" {
		pattern := likePattern(term)
		match := sq.Or{
			likeExpr("p.family_name", pattern),
			likeExpr("p.given_name", pattern),
		}
		if opts.IncludePlates {
			queryBuilder = queryBuilder.
				LeftJoin("vehicle v ON v.owner_id = p.id").
				Distinct()
			match = append(match, likeExpr("v.plate", pattern))
		}
		queryBuilder = queryBuilder.Where(match)
	}

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for SearchPeople: %w", err)
	}

	people := []models.PersonSummary{}
	err = h.WithSQL(func(db *sql.DB) error {
		rows, err := db.Query(sqlStr, args...)
		if err != nil {
			return fmt.Errorf("failed to execute search query for '%s': %w", term, err)
		}
		defer rows.Close()

		seen := make(map[int64]bool)
		for rows.Next() {
			var p models.PersonSummary
			if err := rows.Scan(&p.ID, &p.GivenName, &p.FamilyName, &p.Affiliation); err != nil {
				return fmt.Errorf("failed to scan person row for '%s': %w", term, err)
			}
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			people = append(people, p)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("error iterating search results for '%s': %w", term, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return people, nil
}
