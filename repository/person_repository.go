package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/camden-git/organizer/database"
	"github.com/camden-git/organizer/models"
)

// PersonRepository handles database operations for Person records
type PersonRepository struct {
	DB *database.Handle
}

// NewPersonRepository creates a new instance of PersonRepository
func NewPersonRepository(db *database.Handle) *PersonRepository {
	return &PersonRepository{DB: db}
}

// Upsert inserts a new person when id is nil and returns the assigned id.
// Otherwise it overwrites every field of the existing row.
func (r *PersonRepository) Upsert(id *int64, fields models.PersonFields) (int64, error) {
	if err := fields.Validate(); err != nil {
		return 0, err
	}
	if id == nil {
		return r.create(fields)
	}
	if err := r.update(*id, fields); err != nil {
		return 0, err
	}
	return *id, nil
}

func (r *PersonRepository) create(fields models.PersonFields) (int64, error) {
	person := models.Person{
		GivenName:      fields.GivenName,
		FamilyName:     fields.FamilyName,
		Affiliation:    fields.Affiliation,
		Address:        fields.Address,
		PhotoReference: fields.PhotoReference,
		Notes:          fields.Notes,
	}
	err := r.DB.WithGorm(func(db *gorm.DB) error {
		return db.Create(&person).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create person %s: %w", fields.FamilyName, err)
	}
	return person.ID, nil
}

// update replaces all columns, so fields cleared by the caller are cleared
// in the row too.
func (r *PersonRepository) update(id int64, fields models.PersonFields) error {
	var rowsAffected int64
	err := r.DB.WithGorm(func(db *gorm.DB) error {
		result := db.Model(&models.Person{}).Where("id = ?", id).Updates(map[string]interface{}{
			"given_name":      fields.GivenName,
			"family_name":     fields.FamilyName,
			"affiliation":     fields.Affiliation,
			"address":         fields.Address,
			"photo_reference": fields.PhotoReference,
			"notes":           fields.Notes,
		})
		rowsAffected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return fmt.Errorf("failed to update person ID %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: person ID %d", models.ErrNotFound, id)
	}
	return nil
}

// GetByID retrieves the full person row
func (r *PersonRepository) GetByID(id int64) (*models.Person, error) {
	var person models.Person
	err := r.DB.WithGorm(func(db *gorm.DB) error {
		return db.First(&person, id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: person ID %d", models.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get person by ID %d: %w", id, err)
	}
	return &person, nil
}

// Delete removes a person and the vehicles they own in one transaction.
// A missing id reports models.ErrNotFound.
func (r *PersonRepository) Delete(id int64) error {
	err := r.DB.WithGorm(func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			result := tx.Delete(&models.Person{}, id)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("%w: person ID %d", models.ErrNotFound, id)
			}
			return tx.Where("owner_id = ?", id).Delete(&models.Vehicle{}).Error
		})
	})
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete person ID %d: %w", id, err)
	}
	return nil
}

// Search returns the people matching term; see database.SearchPeople.
func (r *PersonRepository) Search(term string, opts database.SearchOptions) ([]models.PersonSummary, error) {
	return database.SearchPeople(r.DB, term, opts)
}
