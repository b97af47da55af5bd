package campaigns

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/correoplaguna-boop/Cause4ALL-MVP/models"
	"github.com/correoplaguna-boop/Cause4ALL-MVP/store"
)

func newTestRouter(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Organization{}, &models.Campaign{}, &models.Donation{}))

	s := store.New(db)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterCampaignsRoutes(r.Group("/api"), NewHandler(s))
	return r, s
}

func seedCampaign(t *testing.T, s *store.Store, title, status string) *models.Campaign {
	t.Helper()
	org := models.Organization{Name: title + " org", Type: models.OrgTypeAMPA, Email: "org@example.org"}
	require.NoError(t, s.CreateOrganization(&org))
	campaign := models.Campaign{
		OrganizationID: org.ID,
		Title:          title,
		Description:    "test",
		CauseType:      models.CauseTypeSocial,
		GoalAmount:     100000,
		ProductPrice:   250,
		DonationAmount: 500,
		StartDate:      time.Now(),
		Status:         status,
	}
	require.NoError(t, s.CreateCampaign(&campaign))
	return &campaign
}

func TestListCampaignsOnlyActive(t *testing.T) {
	r, s := newTestRouter(t)
	seedCampaign(t, s, "Active One", models.CampaignStatusActive)
	seedCampaign(t, s, "Still Draft", models.CampaignStatusDraft)
	seedCampaign(t, s, "Already Ended", models.CampaignStatusEnded)

	req := httptest.NewRequest(http.MethodGet, "/api/campaigns", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Campaigns []models.Campaign `json:"campaigns"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Campaigns, 1)
	assert.Equal(t, "Active One", resp.Campaigns[0].Title)
	require.NotNil(t, resp.Campaigns[0].Organization)
	assert.Equal(t, "Active One org", resp.Campaigns[0].Organization.Name)
}

func TestGetCampaignBySlug(t *testing.T) {
	r, s := newTestRouter(t)
	campaign := seedCampaign(t, s, "Landing Page Campaign", models.CampaignStatusActive)
	seedCampaign(t, s, "Hidden Draft", models.CampaignStatusDraft)

	req := httptest.NewRequest(http.MethodGet, "/api/campaigns/"+campaign.Slug, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Draft campaigns are not publicly reachable.
	req = httptest.NewRequest(http.MethodGet, "/api/campaigns/hidden-draft", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetCampaignStats(t *testing.T) {
	r, s := newTestRouter(t)
	campaign := seedCampaign(t, s, "Stats Campaign", models.CampaignStatusActive)

	donations := []models.Donation{
		{CampaignID: campaign.ID, Amount: 750, DonationPortion: 500, ProductPortion: 250, StripeSessionID: "cs_a", EntersDraw: true, Status: models.DonationStatusCompleted},
		{CampaignID: campaign.ID, Amount: 1000, DonationPortion: 1000, StripeSessionID: "cs_b", Status: models.DonationStatusCompleted},
	}
	for i := range donations {
		applied, err := s.RecordDonation(&donations[i])
		require.NoError(t, err)
		require.True(t, applied)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/campaigns/"+campaign.Slug+"/stats", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Stats store.CampaignStats `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.Stats.TotalDonations)
	assert.Equal(t, int64(1500), resp.Stats.TotalAmount)
	assert.Equal(t, int64(1), resp.Stats.DrawParticipants)
}
