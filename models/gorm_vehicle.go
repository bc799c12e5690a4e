package models

// Vehicle represents a vehicle owned by a person using GORM.
// It corresponds to the 'vehicle' table.
type Vehicle struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID int64  `gorm:"column:owner_id;index:idx_vehicle_owner_id" json:"owner_id"` // references person.id
	Model   string `gorm:"column:model" json:"model"`
	Plate   string `gorm:"column:plate" json:"plate"`
}

// TableName explicitly sets the table name for GORM.
func (Vehicle) TableName() string {
	return "vehicle"
}
