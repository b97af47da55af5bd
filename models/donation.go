package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DonationStatusPending   = "pending"
	DonationStatusCompleted = "completed"
	DonationStatusFailed    = "failed"
	DonationStatusRefunded  = "refunded"
)

// Donation records one completed checkout against a campaign. Amounts are
// euro cents; DonationPortion + ProductPortion always equals Amount. The
// unique index on StripeSessionID is the deduplication boundary for
// webhook redelivery: at most one completed donation per checkout session.
// Rows are append-only; a completed donation's amounts are never edited.
type Donation struct {
	ID              string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CampaignID      string    `gorm:"type:varchar(36);not null;index" json:"campaign_id"`
	Amount          int64     `gorm:"not null" json:"amount"`
	DonationPortion int64     `gorm:"not null" json:"donation_portion"`
	ProductPortion  int64     `gorm:"not null" json:"product_portion"`
	Email           *string   `json:"email"`
	StripeSessionID string    `gorm:"type:varchar(191);uniqueIndex;not null" json:"stripe_session_id"`
	StripePaymentID string    `gorm:"type:varchar(191)" json:"stripe_payment_id,omitempty"`
	EntersDraw      bool      `gorm:"not null;default:false" json:"enters_draw"`
	Status          string    `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

func (d *Donation) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
