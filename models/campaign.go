package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CampaignStatusDraft     = "draft"
	CampaignStatusActive    = "active"
	CampaignStatusEnded     = "ended"
	CampaignStatusCancelled = "cancelled"
)

const (
	CauseTypeSchool = "school"
	CauseTypeSports = "sports"
	CauseTypeSocial = "social"
)

// Campaign is a fundraising campaign run by an organization. All money
// fields are euro cents. CurrentAmount is only written by the webhook
// reconciliation path, an explicit admin edit, or a recompute from the
// donations table.
type Campaign struct {
	ID             string `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrganizationID string `gorm:"type:varchar(36);not null;index" json:"organization_id"`
	Slug           string `gorm:"type:varchar(191);unique;not null" json:"slug"`
	Title          string `gorm:"not null" json:"title"`
	Subtitle       string `json:"subtitle,omitempty"`
	Description    string `gorm:"type:text" json:"description"`
	CauseType      string `gorm:"type:varchar(20);not null" json:"cause_type"`
	ImageURL       string `json:"image_url,omitempty"`
	GoalAmount     int64  `gorm:"not null" json:"goal_amount"`
	CurrentAmount  int64  `gorm:"not null;default:0" json:"current_amount"`
	// Default price tier: what one checkout charges and how it splits.
	ProductPrice   int64  `gorm:"not null" json:"product_price"`
	DonationAmount int64  `gorm:"not null" json:"donation_amount"`

	PrizeTitle       string     `json:"prize_title,omitempty"`
	PrizeDescription string     `gorm:"type:text" json:"prize_description,omitempty"`
	PrizeImageURL    string     `json:"prize_image_url,omitempty"`
	PrizeType        string     `gorm:"type:varchar(20)" json:"prize_type,omitempty"`
	DrawDate         *time.Time `json:"draw_date,omitempty"`

	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Status    string     `gorm:"type:varchar(20);not null;default:draft" json:"status"`
	CreatedAt time.Time  `json:"created_at"`

	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}

func (cp *Campaign) BeforeCreate(tx *gorm.DB) error {
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	return nil
}

func ValidCauseType(t string) bool {
	switch t {
	case CauseTypeSchool, CauseTypeSports, CauseTypeSocial:
		return true
	}
	return false
}

// CanTransition reports whether a campaign status change is allowed.
// Draft campaigns go live or get cancelled; live campaigns end or get
// cancelled. Ended and cancelled are terminal.
func CanTransition(from, to string) bool {
	switch from {
	case CampaignStatusDraft:
		return to == CampaignStatusActive || to == CampaignStatusCancelled
	case CampaignStatusActive:
		return to == CampaignStatusEnded || to == CampaignStatusCancelled
	}
	return false
}
