package repository

import (
	"github.com/camden-git/organizer/database"
	"github.com/camden-git/organizer/models"
)

// PersonRepositoryInterface defines the methods for person data operations
type PersonRepositoryInterface interface {
	Upsert(id *int64, fields models.PersonFields) (int64, error)
	GetByID(id int64) (*models.Person, error)
	Delete(id int64) error
	Search(term string, opts database.SearchOptions) ([]models.PersonSummary, error)
}

// VehicleRepositoryInterface defines the methods for vehicle data operations
type VehicleRepositoryInterface interface {
	Add(ownerID *int64, model, plate string) (int64, error)
	ListByOwner(ownerID int64) ([]models.Vehicle, error)
}
