package store

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/correoplaguna-boop/Cause4ALL-MVP/models"
)

// RecordDonation inserts a donation unless one already exists for the
// same checkout session. The insert-if-absent on the unique
// stripe_session_id index is what makes webhook redelivery safe: a
// duplicate delivery is reported as applied=false with no row written
// and must be treated as success by the caller.
func (s *Store) RecordDonation(donation *models.Donation) (applied bool, err error) {
	res := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stripe_session_id"}},
		DoNothing: true,
	}).Create(donation)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// IncrementCampaignAmount adds cents to a campaign's running total as a
// single server-side update, so concurrent donations to the same
// campaign cannot lose updates.
func (s *Store) IncrementCampaignAmount(campaignID string, cents int64) error {
	res := s.db.Model(&models.Campaign{}).
		Where("id = ?", campaignID).
		UpdateColumn("current_amount", gorm.Expr("current_amount + ?", cents))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DonationsByCampaign(campaignID string) ([]models.Donation, error) {
	var donations []models.Donation
	err := s.db.Where("campaign_id = ? AND status = ?", campaignID, models.DonationStatusCompleted).
		Order("created_at DESC").
		Find(&donations).Error
	return donations, err
}

type CampaignStats struct {
	TotalDonations   int64 `json:"total_donations"`
	TotalAmount      int64 `json:"total_amount"`
	DrawParticipants int64 `json:"draw_participants"`
}

// CampaignStats aggregates completed donations: count, donation-portion
// sum (the publicly displayed figure) and prize-draw entrants.
func (s *Store) CampaignStats(campaignID string) (*CampaignStats, error) {
	var stats CampaignStats
	base := s.db.Model(&models.Donation{}).
		Where("campaign_id = ? AND status = ?", campaignID, models.DonationStatusCompleted)
	if err := base.Count(&stats.TotalDonations).Error; err != nil {
		return nil, err
	}
	var sum struct{ Total *int64 }
	err := s.db.Model(&models.Donation{}).
		Select("SUM(donation_portion) AS total").
		Where("campaign_id = ? AND status = ?", campaignID, models.DonationStatusCompleted).
		Scan(&sum).Error
	if err != nil {
		return nil, err
	}
	if sum.Total != nil {
		stats.TotalAmount = *sum.Total
	}
	err = s.db.Model(&models.Donation{}).
		Where("campaign_id = ? AND status = ? AND enters_draw = ?", campaignID, models.DonationStatusCompleted, true).
		Count(&stats.DrawParticipants).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// RecomputeCampaignAmount rebuilds a campaign's running total from its
// completed donations. This is the out-of-band repair for the case where
// a donation committed but the follow-up increment failed.
func (s *Store) RecomputeCampaignAmount(campaignID string) (int64, error) {
	var sum struct{ Total *int64 }
	err := s.db.Model(&models.Donation{}).
		Select("SUM(donation_portion) AS total").
		Where("campaign_id = ? AND status = ?", campaignID, models.DonationStatusCompleted).
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	var total int64
	if sum.Total != nil {
		total = *sum.Total
	}
	res := s.db.Model(&models.Campaign{}).
		Where("id = ?", campaignID).
		UpdateColumn("current_amount", total)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrNotFound
	}
	return total, nil
}

// LogWebhookEvent records a verified event in the audit table. A
// redelivered event (same provider event id) returns the existing row
// with seen=true instead of inserting a duplicate.
func (s *Store) LogWebhookEvent(provider, eventID, eventType string, payload []byte) (event *models.WebhookEvent, seen bool, err error) {
	row := models.WebhookEvent{
		Provider:        provider,
		ProviderEventID: eventID,
		EventType:       eventType,
		Payload:         payload,
	}
	res := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider"}, {Name: "provider_event_id"}},
		DoNothing: true,
	}).Create(&row)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		return &row, false, nil
	}
	var existing models.WebhookEvent
	err = s.db.Where("provider = ? AND provider_event_id = ?", provider, eventID).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrNotFound
		}
		return nil, false, err
	}
	return &existing, true, nil
}

// MarkWebhookEventProcessed stamps the audit row with the processing
// outcome; procErr is empty on success.
func (s *Store) MarkWebhookEventProcessed(id uint, procErr string) error {
	now := time.Now()
	return s.db.Model(&models.WebhookEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"processed_at":     &now,
			"processing_error": procErr,
		}).Error
}
