package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/camden-git/organizer/database"
	"github.com/camden-git/organizer/models"
)

// VehicleRepository handles database operations for Vehicle records
type VehicleRepository struct {
	DB *database.Handle
}

// NewVehicleRepository creates a new instance of VehicleRepository
func NewVehicleRepository(db *database.Handle) *VehicleRepository {
	return &VehicleRepository{DB: db}
}

// Add attaches a vehicle to an existing person. A nil owner means nobody
// is selected and is a validation error.
func (r *VehicleRepository) Add(ownerID *int64, model, plate string) (int64, error) {
	if ownerID == nil {
		return 0, models.ValidationError("owner_id", "is required, no person is selected")
	}
	vehicle := models.Vehicle{OwnerID: *ownerID, Model: model, Plate: plate}

	err := r.DB.WithGorm(func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			var owners int64
			if err := tx.Model(&models.Person{}).Where("id = ?", *ownerID).Count(&owners).Error; err != nil {
				return err
			}
			if owners == 0 {
				return fmt.Errorf("%w: owner person ID %d", models.ErrNotFound, *ownerID)
			}
			return tx.Create(&vehicle).Error
		})
	})
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("failed to add vehicle '%s' for person ID %d: %w", plate, *ownerID, err)
	}
	return vehicle.ID, nil
}

// ListByOwner retrieves the vehicles of one person in insertion order
func (r *VehicleRepository) ListByOwner(ownerID int64) ([]models.Vehicle, error) {
	vehicles := []models.Vehicle{}
	err := r.DB.WithGorm(func(db *gorm.DB) error {
		return db.Where("owner_id = ?", ownerID).Order("id ASC").Find(&vehicles).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles for person ID %d: %w", ownerID, err)
	}
	return vehicles, nil
}
