package services

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/camden-git/organizer/database"
	"github.com/camden-git/organizer/models"
	"github.com/camden-git/organizer/repository"
	"github.com/camden-git/organizer/session"
)

// Editor drives one edit session: searching, picking a person, saving the
// edit buffer and attaching vehicles to the picked person.
type Editor struct {
	mu          sync.Mutex
	personRepo  repository.PersonRepositoryInterface
	vehicleRepo repository.VehicleRepositoryInterface
	selection   *session.Selection
	searchOpts  database.SearchOptions
	photos      PhotoRemover
}

// PhotoRemover deletes stored photo files by their photo_reference.
// media.LocalStorage satisfies it.
type PhotoRemover interface {
	Delete(relativePath string) error
}

// NewEditor creates an editor that starts Unselected
func NewEditor(
	personRepo repository.PersonRepositoryInterface,
	vehicleRepo repository.VehicleRepositoryInterface,
	searchOpts database.SearchOptions,
) *Editor {
	return &Editor{
		personRepo:  personRepo,
		vehicleRepo: vehicleRepo,
		selection:   session.New(),
		searchOpts:  searchOpts,
	}
}

// UsePhotoStore makes the editor remove a person's stored photo once a
// save replaces it or the person is deleted. Without it photo files are
// left alone.
func (e *Editor) UsePhotoStore(photos PhotoRemover) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.photos = photos
}

// PersonDetails is what an edit view shows for one person
type PersonDetails struct {
	Person   models.Person    `json:"person"`
	Vehicles []models.Vehicle `json:"vehicles"`
}

// Search lists the people matching term for the result list
func (e *Editor) Search(term string) ([]models.PersonSummary, error) {
	return e.personRepo.Search(term, e.searchOpts)
}

// Select loads a person with their vehicles and makes them the current
// selection. If anything fails the selection is left as it was.
func (e *Editor) Select(id int64) (*PersonDetails, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selectLocked(id)
}

func (e *Editor) selectLocked(id int64) (*PersonDetails, error) {
	person, err := e.personRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	vehicles, err := e.vehicleRepo.ListByOwner(id)
	if err != nil {
		return nil, err
	}
	e.selection.Select(person.ID, person.Fields())
	return &PersonDetails{Person: *person, Vehicles: vehicles}, nil
}

// NewRecord drops the selection and empties the edit buffer, so the next
// save inserts.
func (e *Editor) NewRecord() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selection.Clear()
}

// SetFields replaces the edit buffer
func (e *Editor) SetFields(fields models.PersonFields) {
	e.selection.SetBuffer(fields)
}

// Selection returns the current state and edit buffer
func (e *Editor) Selection() session.Snapshot {
	return e.selection.Snapshot()
}

// Save writes fields as the selected person, or as a new person when
// nothing is selected. A newly inserted person becomes the selection. If
// the selected person no longer exists the selection drops back to
// Unselected with the edit buffer kept, so the next save inserts it.
func (e *Editor) Save(fields models.PersonFields) (*PersonDetails, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.selection.SetBuffer(fields)
	ownerID := e.selection.OwnerID()
	previousPhoto := e.storedPhotoLocked(ownerID)

	id, err := e.personRepo.Upsert(ownerID, fields)
	if err != nil {
		if ownerID != nil && errors.Is(err, models.ErrNotFound) {
			e.dropStaleSelectionLocked(*ownerID, fields)
		}
		return nil, err
	}
	if previousPhoto != "" && previousPhoto != fields.PhotoReference {
		e.removePhotoLocked(previousPhoto)
	}

	details, err := e.selectLocked(id)
	if err != nil {
		return nil, fmt.Errorf("saved person %d but failed to reload it: %w", id, err)
	}
	return details, nil
}

// storedPhotoLocked returns the photo_reference currently stored for id,
// or "" when there is nothing to clean up later.
func (e *Editor) storedPhotoLocked(id *int64) string {
	if e.photos == nil || id == nil {
		return ""
	}
	person, err := e.personRepo.GetByID(*id)
	if err != nil {
		return ""
	}
	return person.PhotoReference
}

func (e *Editor) removePhotoLocked(ref string) {
	if err := e.photos.Delete(ref); err != nil {
		log.Printf("Warning: failed to remove stored photo '%s': %v", ref, err)
	}
}

func (e *Editor) dropStaleSelectionLocked(id int64, buffer models.PersonFields) {
	log.Printf("selected person %d no longer exists, clearing selection", id)
	e.selection.Clear()
	e.selection.SetBuffer(buffer)
}

// SaveBuffer saves whatever is currently in the edit buffer
func (e *Editor) SaveBuffer() (*PersonDetails, error) {
	return e.Save(e.selection.Buffer())
}

// AddVehicle attaches a vehicle to the selected person. It fails fast with
// models.ErrValidation when nobody is selected.
func (e *Editor) AddVehicle(model, plate string) (*models.Vehicle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ownerID := e.selection.OwnerID()
	if ownerID == nil {
		return nil, models.ValidationError("owner_id", "is required, no person is selected")
	}
	vehicleID, err := e.vehicleRepo.Add(ownerID, model, plate)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			e.dropStaleSelectionLocked(*ownerID, e.selection.Buffer())
		}
		return nil, err
	}
	return &models.Vehicle{ID: vehicleID, OwnerID: *ownerID, Model: model, Plate: plate}, nil
}

// Vehicles lists the vehicles of any person
func (e *Editor) Vehicles(ownerID int64) ([]models.Vehicle, error) {
	return e.vehicleRepo.ListByOwner(ownerID)
}

// Delete removes a person and their stored photo. Deleting the selected
// person also clears the selection.
func (e *Editor) Delete(id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	photo := e.storedPhotoLocked(&id)
	if err := e.personRepo.Delete(id); err != nil {
		return err
	}
	if photo != "" {
		e.removePhotoLocked(photo)
	}
	if current, ok := e.selection.Current(); ok && current == id {
		log.Printf("deleted person %d was selected, clearing selection", id)
		e.selection.Clear()
	}
	return nil
}
