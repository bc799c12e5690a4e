package services

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/camden-git/organizer/database"
	"github.com/camden-git/organizer/models"
	"github.com/camden-git/organizer/repository"
	"github.com/camden-git/organizer/session"
	"github.com/camden-git/organizer/testutil"
)

func newTestEditor(t *testing.T) *Editor {
	t.Helper()
	e, _ := newTestEditorWithRepo(t)
	return e
}

func newTestEditorWithRepo(t *testing.T) (*Editor, *repository.PersonRepository) {
	t.Helper()
	db := testutil.OpenTestDB(t)
	people := repository.NewPersonRepository(db)
	return NewEditor(
		people,
		repository.NewVehicleRepository(db),
		database.SearchOptions{IncludePlates: true},
	), people
}

type fakePhotoRemover struct {
	mu      sync.Mutex
	removed []string
}

func (f *fakePhotoRemover) Delete(relativePath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, relativePath)
	return nil
}

func TestEditorSaveWhileUnselectedInsertsAndSelects(t *testing.T) {
	t.Parallel()

	e := newTestEditor(t)
	details, err := e.Save(models.PersonFields{GivenName: "Jan", FamilyName: "Kowalski"})
	require.NoError(t, err)
	require.Positive(t, details.Person.ID)
	require.Empty(t, details.Vehicles)

	snap := e.Selection()
	require.Equal(t, session.Selected.String(), snap.State)
	require.Equal(t, details.Person.ID, *snap.ID)

	// second save updates the same row instead of inserting a duplicate
	_, err = e.Save(models.PersonFields{GivenName: "Janusz", FamilyName: "Kowalski"})
	require.NoError(t, err)

	people, err := e.Search("")
	require.NoError(t, err)
	require.Len(t, people, 1)
	require.Equal(t, "Janusz", people[0].GivenName)
}

func TestEditorSaveValidationKeepsStateAndBuffer(t *testing.T) {
	t.Parallel()

	e := newTestEditor(t)
	_, err := e.Save(models.PersonFields{GivenName: "Jan"})
	require.ErrorIs(t, err, models.ErrValidation)

	snap := e.Selection()
	require.Equal(t, session.Unselected.String(), snap.State)
	require.Equal(t, "Jan", snap.Fields.GivenName)

	people, err := e.Search("")
	require.NoError(t, err)
	require.Empty(t, people)
}

func TestEditorFailedSelectDoesNotTransition(t *testing.T) {
	t.Parallel()

	e := newTestEditor(t)
	saved, err := e.Save(models.PersonFields{FamilyName: "Kowalski"})
	require.NoError(t, err)

	_, err = e.Select(saved.Person.ID + 100)
	require.True(t, errors.Is(err, models.ErrNotFound))

	snap := e.Selection()
	require.Equal(t, session.Selected.String(), snap.State)
	require.Equal(t, saved.Person.ID, *snap.ID)
	require.Equal(t, "Kowalski", snap.Fields.FamilyName)
}

func TestEditorNewRecordClearsBuffer(t *testing.T) {
	t.Parallel()

	e := newTestEditor(t)
	_, err := e.Save(models.PersonFields{FamilyName: "Kowalski", Notes: "tajne", Address: "Polna 1"})
	require.NoError(t, err)

	e.NewRecord()
	snap := e.Selection()
	require.Equal(t, session.Unselected.String(), snap.State)
	require.Nil(t, snap.ID)
	require.True(t, snap.Fields.IsZero())

	details, err := e.Save(models.PersonFields{FamilyName: "Nowak"})
	require.NoError(t, err)
	require.Empty(t, details.Person.Notes)
	require.Empty(t, details.Person.Address)

	people, err := e.Search("")
	require.NoError(t, err)
	require.Len(t, people, 2)
}

func TestEditorAddVehicleUsesSelection(t *testing.T) {
	t.Parallel()

	e := newTestEditor(t)
	_, err := e.AddVehicle("Fiat", "WA 1")
	require.ErrorIs(t, err, models.ErrValidation)

	saved, err := e.Save(models.PersonFields{FamilyName: "Kowalski"})
	require.NoError(t, err)

	vehicle, err := e.AddVehicle("Fiat 126p", "WA 12345")
	require.NoError(t, err)
	require.Equal(t, saved.Person.ID, vehicle.OwnerID)

	details, err := e.Select(saved.Person.ID)
	require.NoError(t, err)
	require.Len(t, details.Vehicles, 1)
	require.Equal(t, *vehicle, details.Vehicles[0])

	found, err := e.Search("12345")
	require.NoError(t, err)
	require.Len(t, found, 1)
}

func TestEditorDeleteSelectedClearsSelection(t *testing.T) {
	t.Parallel()

	e := newTestEditor(t)
	first, err := e.Save(models.PersonFields{FamilyName: "Kowalski"})
	require.NoError(t, err)
	e.NewRecord()
	second, err := e.Save(models.PersonFields{FamilyName: "Nowak"})
	require.NoError(t, err)

	// deleting someone else keeps the selection
	require.NoError(t, e.Delete(first.Person.ID))
	require.Equal(t, second.Person.ID, *e.Selection().ID)

	require.NoError(t, e.Delete(second.Person.ID))
	require.Equal(t, session.Unselected.String(), e.Selection().State)

	require.ErrorIs(t, e.Delete(second.Person.ID), models.ErrNotFound)
}

func TestEditorSaveBufferUsesSetFields(t *testing.T) {
	t.Parallel()

	e := newTestEditor(t)
	e.SetFields(models.PersonFields{FamilyName: "Brzoza", Affiliation: "Klub"})

	details, err := e.SaveBuffer()
	require.NoError(t, err)
	require.Equal(t, "Brzoza", details.Person.FamilyName)
	require.Equal(t, "Klub", details.Person.Affiliation)
}

func TestEditorSaveAfterExternalDeleteDropsSelection(t *testing.T) {
	t.Parallel()

	e, people := newTestEditorWithRepo(t)
	saved, err := e.Save(models.PersonFields{FamilyName: "Kowalski"})
	require.NoError(t, err)
	require.NoError(t, people.Delete(saved.Person.ID))

	_, err = e.Save(models.PersonFields{FamilyName: "Kowalski", Notes: "po usunięciu"})
	require.ErrorIs(t, err, models.ErrNotFound)

	snap := e.Selection()
	require.Equal(t, session.Unselected.String(), snap.State)
	require.Equal(t, "po usunięciu", snap.Fields.Notes, "edits survive so they can be saved as a new person")

	details, err := e.SaveBuffer()
	require.NoError(t, err)
	require.NotEqual(t, saved.Person.ID, details.Person.ID)
	require.Equal(t, "po usunięciu", details.Person.Notes)
}

func TestEditorAddVehicleAfterExternalDeleteDropsSelection(t *testing.T) {
	t.Parallel()

	e, people := newTestEditorWithRepo(t)
	saved, err := e.Save(models.PersonFields{FamilyName: "Kowalski"})
	require.NoError(t, err)
	require.NoError(t, people.Delete(saved.Person.ID))

	_, err = e.AddVehicle("Fiat", "WA 1")
	require.ErrorIs(t, err, models.ErrNotFound)
	require.Equal(t, session.Unselected.String(), e.Selection().State)
	require.Equal(t, "Kowalski", e.Selection().Fields.FamilyName)
}

func TestEditorRemovesReplacedPhoto(t *testing.T) {
	t.Parallel()

	e := newTestEditor(t)
	photos := &fakePhotoRemover{}
	e.UsePhotoStore(photos)

	saved, err := e.Save(models.PersonFields{FamilyName: "Kowalski", PhotoReference: "photos/a.jpg"})
	require.NoError(t, err)
	require.Empty(t, photos.removed, "a fresh insert replaces nothing")

	_, err = e.Save(models.PersonFields{FamilyName: "Kowalski", PhotoReference: "photos/a.jpg", Notes: "x"})
	require.NoError(t, err)
	require.Empty(t, photos.removed, "an unchanged reference is kept")

	_, err = e.Save(models.PersonFields{FamilyName: "Kowalski", PhotoReference: "photos/b.jpg"})
	require.NoError(t, err)
	require.Equal(t, []string{"photos/a.jpg"}, photos.removed)

	// a rejected save keeps the stored photo
	_, err = e.Save(models.PersonFields{PhotoReference: "photos/c.jpg"})
	require.ErrorIs(t, err, models.ErrValidation)
	require.Equal(t, []string{"photos/a.jpg"}, photos.removed)

	require.NoError(t, e.Delete(saved.Person.ID))
	require.Equal(t, []string{"photos/a.jpg", "photos/b.jpg"}, photos.removed)
}

func TestEditorConcurrentCallersAreSerialized(t *testing.T) {
	t.Parallel()

	e, people := newTestEditorWithRepo(t)
	saved, err := e.Save(models.PersonFields{FamilyName: "Kowalski"})
	require.NoError(t, err)

	const workers, rounds = 8, 20
	var wg sync.WaitGroup
	errs := make(chan error, workers*rounds*4)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				if _, err := e.Save(models.PersonFields{FamilyName: "Kowalski", Notes: fmt.Sprintf("%d-%d", w, i)}); err != nil {
					errs <- err
				}
				if _, err := e.AddVehicle("Fiat", fmt.Sprintf("WA %d-%d", w, i)); err != nil {
					errs <- err
				}
				if _, err := e.Search("kowal"); err != nil {
					errs <- err
				}
				if _, err := people.Upsert(nil, models.PersonFields{FamilyName: fmt.Sprintf("Nowak %d-%d", w, i)}); err != nil {
					errs <- err
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	all, err := e.Search("")
	require.NoError(t, err)
	require.Len(t, all, 1+workers*rounds)

	vehicles, err := e.Vehicles(saved.Person.ID)
	require.NoError(t, err)
	require.Len(t, vehicles, workers*rounds)
	require.Equal(t, saved.Person.ID, *e.Selection().ID)
}
