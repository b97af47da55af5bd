package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Organization types mirror the kinds of entities that run campaigns.
const (
	OrgTypeSchool      = "school"
	OrgTypeAMPA        = "ampa"
	OrgTypeAssociation = "association"
	OrgTypeFoundation  = "foundation"
)

type Organization struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(191);unique;not null" json:"name"`
	Type        string    `gorm:"type:varchar(20);not null" json:"type"`
	Email       string    `gorm:"not null" json:"email"`
	LogoURL     string    `json:"logo_url,omitempty"`
	Location    string    `json:"location,omitempty"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

func ValidOrgType(t string) bool {
	switch t {
	case OrgTypeSchool, OrgTypeAMPA, OrgTypeAssociation, OrgTypeFoundation:
		return true
	}
	return false
}
