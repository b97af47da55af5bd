package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/correoplaguna-boop/Cause4ALL-MVP/models"
)

func newTestStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Organization{},
		&models.Campaign{},
		&models.Donation{},
		&models.WebhookEvent{},
		&models.AdminUser{},
	))
	return New(db), db
}

func createTestCampaign(t *testing.T, s *Store, title string) *models.Campaign {
	t.Helper()
	org := models.Organization{
		Name:  title + " org",
		Type:  models.OrgTypeSchool,
		Email: "org@example.org",
	}
	require.NoError(t, s.CreateOrganization(&org))

	campaign := models.Campaign{
		OrganizationID: org.ID,
		Title:          title,
		Description:    "test campaign",
		CauseType:      models.CauseTypeSchool,
		GoalAmount:     100000,
		ProductPrice:   250,
		DonationAmount: 500,
		StartDate:      time.Now(),
		Status:         models.CampaignStatusActive,
	}
	require.NoError(t, s.CreateCampaign(&campaign))
	return &campaign
}

func TestCreateCampaignDerivesSlug(t *testing.T) {
	s, _ := newTestStore(t)

	campaign := createTestCampaign(t, s, "¡Nuevo Patio Escolar!")
	assert.Equal(t, "nuevo-patio-escolar", campaign.Slug)
}

func TestCreateCampaignSlugConflict(t *testing.T) {
	s, _ := newTestStore(t)

	createTestCampaign(t, s, "Spring Fundraiser")

	org := models.Organization{Name: "other org", Type: models.OrgTypeAMPA, Email: "a@b.c"}
	require.NoError(t, s.CreateOrganization(&org))
	dup := models.Campaign{
		OrganizationID: org.ID,
		Title:          "Spring   Fundraiser", // normalizes to the same slug
		Description:    "another",
		CauseType:      models.CauseTypeSocial,
		GoalAmount:     1000,
		StartDate:      time.Now(),
		Status:         models.CampaignStatusDraft,
	}

	err := s.CreateCampaign(&dup)
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestCreateCampaignSlugConflictUnderRace(t *testing.T) {
	s, db := newTestStore(t)

	first := createTestCampaign(t, s, "Race Campaign")

	// A concurrent create that passed the pre-check before the first row
	// committed hits the unique index instead. The raw driver error must
	// still come back as ErrSlugTaken.
	dup := models.Campaign{
		OrganizationID: first.OrganizationID,
		Slug:           first.Slug,
		Title:          "Race Campaign",
		Description:    "another",
		CauseType:      models.CauseTypeSocial,
		GoalAmount:     1000,
		StartDate:      time.Now(),
		Status:         models.CampaignStatusDraft,
	}
	err := translateSlugConflict(db.Create(&dup).Error, dup.Slug)
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestSaveCampaignSlugChecks(t *testing.T) {
	s, _ := newTestStore(t)

	first := createTestCampaign(t, s, "First Campaign")
	second := createTestCampaign(t, s, "Second Campaign")

	// Keeping its own slug is fine.
	first.Subtitle = "edited"
	require.NoError(t, s.SaveCampaign(first))

	// Taking another campaign's slug is not.
	second.Slug = first.Slug
	assert.ErrorIs(t, s.SaveCampaign(second), ErrSlugTaken)
}

func TestRecordDonationIdempotent(t *testing.T) {
	s, db := newTestStore(t)
	campaign := createTestCampaign(t, s, "Dedup Campaign")

	donation := models.Donation{
		CampaignID:      campaign.ID,
		Amount:          750,
		DonationPortion: 500,
		ProductPortion:  250,
		StripeSessionID: "cs_test_dedup",
		EntersDraw:      true,
		Status:          models.DonationStatusCompleted,
	}
	applied, err := s.RecordDonation(&donation)
	require.NoError(t, err)
	assert.True(t, applied)

	retry := models.Donation{
		CampaignID:      campaign.ID,
		Amount:          750,
		DonationPortion: 500,
		ProductPortion:  250,
		StripeSessionID: "cs_test_dedup",
		EntersDraw:      true,
		Status:          models.DonationStatusCompleted,
	}
	applied, err = s.RecordDonation(&retry)
	require.NoError(t, err)
	assert.False(t, applied)

	var count int64
	require.NoError(t, db.Model(&models.Donation{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestIncrementCampaignAmount(t *testing.T) {
	s, _ := newTestStore(t)
	campaign := createTestCampaign(t, s, "Increment Campaign")

	require.NoError(t, s.IncrementCampaignAmount(campaign.ID, 500))
	require.NoError(t, s.IncrementCampaignAmount(campaign.ID, 300))

	reloaded, err := s.GetCampaign(campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(800), reloaded.CurrentAmount)
}

func TestIncrementCampaignAmountUnknownCampaign(t *testing.T) {
	s, _ := newTestStore(t)

	err := s.IncrementCampaignAmount("no-such-id", 500)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCampaignStats(t *testing.T) {
	s, _ := newTestStore(t)
	campaign := createTestCampaign(t, s, "Stats Campaign")

	completed := []models.Donation{
		{CampaignID: campaign.ID, Amount: 750, DonationPortion: 500, ProductPortion: 250, StripeSessionID: "cs_1", EntersDraw: true, Status: models.DonationStatusCompleted},
		{CampaignID: campaign.ID, Amount: 1000, DonationPortion: 800, ProductPortion: 200, StripeSessionID: "cs_2", EntersDraw: false, Status: models.DonationStatusCompleted},
	}
	for i := range completed {
		applied, err := s.RecordDonation(&completed[i])
		require.NoError(t, err)
		require.True(t, applied)
	}
	// Pending donations stay out of every aggregate.
	pending := models.Donation{CampaignID: campaign.ID, Amount: 500, DonationPortion: 500, StripeSessionID: "cs_3", EntersDraw: true, Status: models.DonationStatusPending}
	_, err := s.RecordDonation(&pending)
	require.NoError(t, err)

	stats, err := s.CampaignStats(campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalDonations)
	assert.Equal(t, int64(1300), stats.TotalAmount)
	assert.Equal(t, int64(1), stats.DrawParticipants)
}

func TestRecomputeCampaignAmount(t *testing.T) {
	s, db := newTestStore(t)
	campaign := createTestCampaign(t, s, "Drifted Campaign")

	donation := models.Donation{CampaignID: campaign.ID, Amount: 750, DonationPortion: 500, ProductPortion: 250, StripeSessionID: "cs_drift", Status: models.DonationStatusCompleted}
	_, err := s.RecordDonation(&donation)
	require.NoError(t, err)

	// Simulate a missed increment: total stayed at zero.
	var current int64
	require.NoError(t, db.Model(&models.Campaign{}).Where("id = ?", campaign.ID).Select("current_amount").Scan(&current).Error)
	require.Equal(t, int64(0), current)

	total, err := s.RecomputeCampaignAmount(campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(500), total)

	reloaded, err := s.GetCampaign(campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(500), reloaded.CurrentAmount)
}

func TestLogWebhookEventDedup(t *testing.T) {
	s, db := newTestStore(t)

	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	event, seen, err := s.LogWebhookEvent("stripe", "evt_1", "checkout.session.completed", payload)
	require.NoError(t, err)
	assert.False(t, seen)
	require.NotNil(t, event)

	again, seen, err := s.LogWebhookEvent("stripe", "evt_1", "checkout.session.completed", payload)
	require.NoError(t, err)
	assert.True(t, seen)
	assert.Equal(t, event.ID, again.ID)

	var count int64
	require.NoError(t, db.Model(&models.WebhookEvent{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	require.NoError(t, s.MarkWebhookEventProcessed(event.ID, ""))
	var row models.WebhookEvent
	require.NoError(t, db.First(&row, event.ID).Error)
	assert.NotNil(t, row.ProcessedAt)
	assert.Empty(t, row.ProcessingError)
}

func TestFindOrCreateOrganization(t *testing.T) {
	s, _ := newTestStore(t)

	org := models.Organization{Name: "AMPA Cervantes", Type: models.OrgTypeAMPA, Email: "ampa@example.org"}
	require.NoError(t, s.FindOrCreateOrganization(&org))
	require.NotEmpty(t, org.ID)

	same := models.Organization{Name: "AMPA Cervantes", Type: models.OrgTypeAMPA, Email: "other@example.org"}
	require.NoError(t, s.FindOrCreateOrganization(&same))
	assert.Equal(t, org.ID, same.ID)
}
