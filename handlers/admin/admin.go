// Package admin is the campaign/organization management backend behind
// JWT auth.
package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/correoplaguna-boop/Cause4ALL-MVP/models"
	"github.com/correoplaguna-boop/Cause4ALL-MVP/store"
	"github.com/correoplaguna-boop/Cause4ALL-MVP/utils"
)

type Handler struct {
	store     *store.Store
	jwtSecret []byte
}

func NewHandler(s *store.Store, jwtSecret []byte) *Handler {
	return &Handler{store: s, jwtSecret: jwtSecret}
}

func RegisterAdminRoutes(r *gin.RouterGroup, h *Handler) {
	r.POST("/login", h.Login)

	protected := r.Group("/")
	protected.Use(h.AuthMiddleware())
	{
		protected.GET("/campaigns", h.ListCampaigns)
		protected.POST("/campaigns", h.CreateCampaign)
		protected.PUT("/campaigns/:id", h.UpdateCampaign)
		protected.DELETE("/campaigns/:id", h.CancelCampaign)
		protected.GET("/campaigns/:id/donations", h.ListDonations)
		protected.POST("/campaigns/:id/recompute", h.RecomputeCampaign)
		protected.POST("/organizations", h.CreateOrganization)
	}
}

func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data. Please provide a valid email and password."})
		return
	}

	adminUser, err := h.store.GetAdminByEmail(input.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password."})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(adminUser.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password."})
		return
	}

	token, err := utils.GenerateAdminToken(adminUser.ID, h.jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

type organizationRequest struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Email       string `json:"email"`
	LogoURL     string `json:"logo_url"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

func (h *Handler) CreateOrganization(c *gin.Context) {
	var req organizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.Name == "" || req.Email == "" || !models.ValidOrgType(req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, email and a valid type are required"})
		return
	}

	org := models.Organization{
		Name:        req.Name,
		Type:        req.Type,
		Email:       req.Email,
		LogoURL:     req.LogoURL,
		Location:    req.Location,
		Description: req.Description,
	}
	if err := h.store.CreateOrganization(&org); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create organization"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"organization": org})
}

type campaignRequest struct {
	OrganizationID string               `json:"organization_id"`
	Organization   *organizationRequest `json:"organization"`

	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
	CauseType   string `json:"cause_type"`
	ImageURL    string `json:"image_url"`

	GoalAmount     json.Number `json:"goal_amount"`
	ProductPrice   json.Number `json:"product_price"`
	DonationAmount json.Number `json:"donation_amount"`

	PrizeTitle       string     `json:"prize_title"`
	PrizeDescription string     `json:"prize_description"`
	PrizeImageURL    string     `json:"prize_image_url"`
	PrizeType        string     `json:"prize_type"`
	DrawDate         *time.Time `json:"draw_date"`

	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Status    string     `json:"status"`
}

// CreateCampaign creates a campaign for an existing organization, or for
// an inline one that is created on the fly when no organization with
// that name exists yet. The slug is derived from the title unless given
// explicitly; a colliding slug is a 409.
func (h *Handler) CreateCampaign(c *gin.Context) {
	var req campaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Title == "" || !models.ValidCauseType(req.CauseType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and a valid cause_type are required"})
		return
	}

	goal, err := parseAmount(req.GoalAmount)
	if err != nil || goal <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "goal_amount must be a positive number"})
		return
	}
	productPrice, err := parseAmount(req.ProductPrice)
	if err != nil || productPrice < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product_price"})
		return
	}
	donationAmount, err := parseAmount(req.DonationAmount)
	if err != nil || donationAmount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid donation_amount"})
		return
	}

	orgID := req.OrganizationID
	if orgID == "" {
		if req.Organization == nil || req.Organization.Name == "" || !models.ValidOrgType(req.Organization.Type) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "organization_id or an inline organization is required"})
			return
		}
		org := models.Organization{
			Name:        req.Organization.Name,
			Type:        req.Organization.Type,
			Email:       req.Organization.Email,
			LogoURL:     req.Organization.LogoURL,
			Location:    req.Organization.Location,
			Description: req.Organization.Description,
		}
		if err := h.store.FindOrCreateOrganization(&org); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create organization"})
			return
		}
		orgID = org.ID
	} else if _, err := h.store.GetOrganization(orgID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown organization_id"})
		return
	}

	status := req.Status
	if status == "" {
		status = models.CampaignStatusDraft
	}
	if status != models.CampaignStatusDraft && status != models.CampaignStatusActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "New campaigns must be draft or active"})
		return
	}

	startDate := time.Now()
	if req.StartDate != nil {
		startDate = *req.StartDate
	}

	campaign := models.Campaign{
		OrganizationID:   orgID,
		Slug:             req.Slug,
		Title:            req.Title,
		Subtitle:         req.Subtitle,
		Description:      req.Description,
		CauseType:        req.CauseType,
		ImageURL:         req.ImageURL,
		GoalAmount:       goal,
		ProductPrice:     productPrice,
		DonationAmount:   donationAmount,
		PrizeTitle:       req.PrizeTitle,
		PrizeDescription: req.PrizeDescription,
		PrizeImageURL:    req.PrizeImageURL,
		PrizeType:        req.PrizeType,
		DrawDate:         req.DrawDate,
		StartDate:        startDate,
		EndDate:          req.EndDate,
		Status:           status,
	}

	if err := h.store.CreateCampaign(&campaign); err != nil {
		if errors.Is(err, store.ErrSlugTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "A campaign with this slug already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create campaign"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"campaign": campaign})
}

// UpdateCampaign edits descriptive fields, the slug, amounts and the
// lifecycle status. Status changes outside draft→active→ended|cancelled
// are rejected.
func (h *Handler) UpdateCampaign(c *gin.Context) {
	campaign, err := h.store.GetCampaign(c.Param("id"))
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load campaign"})
		return
	}

	var req campaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Status != "" && req.Status != campaign.Status {
		if !models.CanTransition(campaign.Status, req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status transition"})
			return
		}
		campaign.Status = req.Status
	}

	if req.Title != "" {
		campaign.Title = req.Title
	}
	if req.Subtitle != "" {
		campaign.Subtitle = req.Subtitle
	}
	if req.Description != "" {
		campaign.Description = req.Description
	}
	if req.CauseType != "" {
		if !models.ValidCauseType(req.CauseType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cause_type"})
			return
		}
		campaign.CauseType = req.CauseType
	}
	if req.ImageURL != "" {
		campaign.ImageURL = req.ImageURL
	}
	if req.Slug != "" {
		campaign.Slug = req.Slug
	}
	if req.GoalAmount != "" {
		goal, err := parseAmount(req.GoalAmount)
		if err != nil || goal <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "goal_amount must be a positive number"})
			return
		}
		campaign.GoalAmount = goal
	}
	if req.ProductPrice != "" {
		price, err := parseAmount(req.ProductPrice)
		if err != nil || price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product_price"})
			return
		}
		campaign.ProductPrice = price
	}
	if req.DonationAmount != "" {
		donation, err := parseAmount(req.DonationAmount)
		if err != nil || donation < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid donation_amount"})
			return
		}
		campaign.DonationAmount = donation
	}
	if req.PrizeTitle != "" {
		campaign.PrizeTitle = req.PrizeTitle
	}
	if req.PrizeDescription != "" {
		campaign.PrizeDescription = req.PrizeDescription
	}
	if req.PrizeImageURL != "" {
		campaign.PrizeImageURL = req.PrizeImageURL
	}
	if req.PrizeType != "" {
		campaign.PrizeType = req.PrizeType
	}
	if req.DrawDate != nil {
		campaign.DrawDate = req.DrawDate
	}
	if req.StartDate != nil {
		campaign.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		campaign.EndDate = req.EndDate
	}

	if err := h.store.SaveCampaign(campaign); err != nil {
		if errors.Is(err, store.ErrSlugTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "A campaign with this slug already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update campaign"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"campaign": campaign})
}

// CancelCampaign transitions a campaign to cancelled instead of deleting
// the row, so recorded donations never dangle.
func (h *Handler) CancelCampaign(c *gin.Context) {
	campaign, err := h.store.GetCampaign(c.Param("id"))
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load campaign"})
		return
	}

	if !models.CanTransition(campaign.Status, models.CampaignStatusCancelled) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Campaign cannot be cancelled from its current status"})
		return
	}

	campaign.Status = models.CampaignStatusCancelled
	if err := h.store.SaveCampaign(campaign); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel campaign"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Campaign cancelled"})
}

func (h *Handler) ListCampaigns(c *gin.Context) {
	campaigns, err := h.store.ListCampaigns()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch campaigns"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"campaigns": campaigns})
}

func (h *Handler) ListDonations(c *gin.Context) {
	campaign, err := h.store.GetCampaign(c.Param("id"))
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load campaign"})
		return
	}

	donations, err := h.store.DonationsByCampaign(campaign.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch donations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"donations": donations})
}

// RecomputeCampaign rebuilds the running total from completed donations,
// the repair path for a total that drifted after a failed increment.
func (h *Handler) RecomputeCampaign(c *gin.Context) {
	total, err := h.store.RecomputeCampaignAmount(c.Param("id"))
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recompute campaign total"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"current_amount": total})
}

func parseAmount(n json.Number) (int64, error) {
	if n == "" {
		return 0, nil
	}
	return utils.ParseEuros(n.String())
}
