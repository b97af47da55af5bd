package campaigns

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/correoplaguna-boop/Cause4ALL-MVP/store"
)

type Handler struct {
	store *store.Store
}

func NewHandler(s *store.Store) *Handler {
	return &Handler{store: s}
}

func RegisterCampaignsRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/campaigns", h.ListCampaigns)
	r.GET("/campaigns/:slug", h.GetCampaign)
	r.GET("/campaigns/:slug/stats", h.GetCampaignStats)
}

// ListCampaigns returns all active campaigns with their organizations,
// newest first, for the public listing page.
func (h *Handler) ListCampaigns(c *gin.Context) {
	campaigns, err := h.store.ListActiveCampaigns()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch campaigns"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"campaigns": campaigns})
}

func (h *Handler) GetCampaign(c *gin.Context) {
	campaign, err := h.store.GetActiveCampaignBySlug(c.Param("slug"))
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch campaign"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"campaign": campaign})
}

func (h *Handler) GetCampaignStats(c *gin.Context) {
	campaign, err := h.store.GetActiveCampaignBySlug(c.Param("slug"))
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch campaign"})
		return
	}

	stats, err := h.store.CampaignStats(campaign.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
