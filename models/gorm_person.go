package models

import "strings"

// Person represents a tracked individual using GORM.
// It corresponds to the 'person' table.
type Person struct {
	ID             int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	GivenName      string `gorm:"column:given_name" json:"given_name"`
	FamilyName     string `gorm:"column:family_name;not null" json:"family_name"`
	Affiliation    string `gorm:"column:affiliation" json:"affiliation"`
	Address        string `gorm:"column:address" json:"address"`
	PhotoReference string `gorm:"column:photo_reference" json:"photo_reference"` // opaque, never opened by the store
	Notes          string `gorm:"column:notes" json:"notes"`
}

// TableName explicitly sets the table name for GORM.
func (Person) TableName() string {
	return "person"
}

// Fields returns the editable part of the record.
func (p Person) Fields() PersonFields {
	return PersonFields{
		GivenName:      p.GivenName,
		FamilyName:     p.FamilyName,
		Affiliation:    p.Affiliation,
		Address:        p.Address,
		PhotoReference: p.PhotoReference,
		Notes:          p.Notes,
	}
}

// PersonFields holds every editable column of a person. A save always
// writes all of them.
type PersonFields struct {
	GivenName      string `json:"given_name"`
	FamilyName     string `json:"family_name"`
	Affiliation    string `json:"affiliation"`
	Address        string `json:"address"`
	PhotoReference string `json:"photo_reference"`
	Notes          string `json:"notes"`
}

// Validate checks the required fields.
func (f PersonFields) Validate() error {
	if strings.TrimSpace(f.FamilyName) == "" {
		return ValidationError("family_name", "is required")
	}
	return nil
}

// IsZero reports whether no field has been filled in.
func (f PersonFields) IsZero() bool {
	return f == PersonFields{}
}

// PersonSummary is the row shape used for result lists. It deliberately
// leaves out notes, address and photo.
type PersonSummary struct {
	ID          int64  `json:"id"`
	GivenName   string `json:"given_name"`
	FamilyName  string `json:"family_name"`
	Affiliation string `json:"affiliation"`
}
