package database

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/camden-git/organizer/models"
)

func familyNames(people []models.PersonSummary) []string {
	names := make([]string, 0, len(people))
	for _, p := range people {
		names = append(names, p.FamilyName)
	}
	return names
}

func TestSearchPeopleOrdersByFamilyName(t *testing.T) {
	t.Parallel()

	h := openTestHandle(t)
	insertPerson(t, h, "Adam", "Zolnierz", "")
	insertPerson(t, h, "Ewa", "Adamski", "")
	insertPerson(t, h, "Olga", "Brzoza", "")

	people, err := SearchPeople(h, "", SearchOptions{})
	require.NoError(t, err)
	require.Equal(t, []string{"Adamski", "Brzoza", "Zolnierz"}, familyNames(people))
}

func TestSearchPeopleTieBreaksByInsertionOrder(t *testing.T) {
	t.Parallel()

	h := openTestHandle(t)
	first := insertPerson(t, h, "Zenon", "Nowak", "")
	second := insertPerson(t, h, "Anna", "Nowak", "")

	people, err := SearchPeople(h, "nowak", SearchOptions{})
	require.NoError(t, err)
	require.Len(t, people, 2)
	require.Equal(t, first, people[0].ID)
	require.Equal(t, second, people[1].ID)
}

func TestSearchPeopleIsCaseInsensitiveSubstring(t *testing.T) {
	t.Parallel()

	h := openTestHandle(t)
	id := insertPerson(t, h, "Jan", "Kowalski", "Klub Alaska")
	insertPerson(t, h, "Piotr", "Nowak", "")

	for _, term := range []string{"owal", "KOWALSKI", "kowalski", "  Kow  ", "jan"} {
		people, err := SearchPeople(h, term, SearchOptions{})
		require.NoError(t, err)
		require.Lenf(t, people, 1, "term %q", term)
		require.Equal(t, models.PersonSummary{ID: id, GivenName: "Jan", FamilyName: "Kowalski", Affiliation: "Klub Alaska"}, people[0])
	}
}

func TestSearchPeopleFoldsNonASCII(t *testing.T) {
	t.Parallel()

	h := openTestHandle(t)
	insertPerson(t, h, "Łukasz", "Żółkiewski", "")

	for _, term := range []string{"żółk", "ŻÓŁK", "łukasz"} {
		people, err := SearchPeople(h, term, SearchOptions{})
		require.NoError(t, err)
		require.Lenf(t, people, 1, "term %q", term)
	}
}

func TestSearchPeopleTreatsWildcardsLiterally(t *testing.T) {
	t.Parallel()

	h := openTestHandle(t)
	insertPerson(t, h, "Jan", "Kowalski", "")
	insertPerson(t, h, "", "100% Pewny", "")

	people, err := SearchPeople(h, "%", SearchOptions{})
	require.NoError(t, err)
	require.Equal(t, []string{"100% Pewny"}, familyNames(people))

	people, err = SearchPeople(h, "_", SearchOptions{})
	require.NoError(t, err)
	require.Empty(t, people)
}

func TestSearchPeopleMatchesPlatesOnce(t *testing.T) {
	t.Parallel()

	h := openTestHandle(t)
	owner := insertPerson(t, h, "Jan", "Kowalski", "")
	other := insertPerson(t, h, "Piotr", "Nowak", "")
	insertPerson(t, h, "Ewa", "Adamska", "")
	insertVehicle(t, h, owner, "Fiat 126p", "WA 12345")
	insertVehicle(t, h, owner, "Polonez", "WA 12399")
	insertVehicle(t, h, other, "Syrena", "KR 777")

	people, err := SearchPeople(h, "wa 123", SearchOptions{IncludePlates: true})
	require.NoError(t, err)
	require.Len(t, people, 1)
	require.Equal(t, owner, people[0].ID)

	people, err = SearchPeople(h, "", SearchOptions{IncludePlates: true})
	require.NoError(t, err)
	require.Equal(t, []string{"Adamska", "Kowalski", "Nowak"}, familyNames(people))

	people, err = SearchPeople(h, "wa 123", SearchOptions{IncludePlates: false})
	require.NoError(t, err)
	require.Empty(t, people)
}

func TestSearchPeopleReportsUnreadableRows(t *testing.T) {
	t.Parallel()

	// files from older layouts may lack the NOT NULL on family_name
	path := filepath.Join(t.TempDir(), "legacy.db")
	raw, err := sql.Open(driverName, path)
	require.NoError(t, err)
	_, err = raw.Exec(`
		CREATE TABLE person (id INTEGER PRIMARY KEY AUTOINCREMENT, given_name TEXT, family_name TEXT);
		INSERT INTO person (given_name, family_name) VALUES ('Jan', 'Kowalski');
		INSERT INTO person (given_name, family_name) VALUES ('Anna', NULL);
	`)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	h, err := OpenOrRecreate(path, Options{GormLogLevel: logger.Silent})
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })

	people, err := SearchPeople(h, "", SearchOptions{})
	require.Error(t, err)
	require.Nil(t, people)
}
