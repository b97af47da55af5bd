package payments

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	stripe "github.com/stripe/stripe-go/v80"

	"github.com/correoplaguna-boop/Cause4ALL-MVP/gateway"
	"github.com/correoplaguna-boop/Cause4ALL-MVP/models"
	"github.com/correoplaguna-boop/Cause4ALL-MVP/store"
	"github.com/correoplaguna-boop/Cause4ALL-MVP/utils"
)

// Gateway is the slice of the Stripe client the payment endpoints need.
type Gateway interface {
	CreateCheckoutSession(p gateway.CheckoutParams) (*stripe.CheckoutSession, error)
	RetrieveSession(sessionID string) (*stripe.CheckoutSession, error)
	VerifyWebhook(payload []byte, sigHeader string) (stripe.Event, error)
}

type Handler struct {
	store   *store.Store
	gateway Gateway
	baseURL string
}

func NewHandler(s *store.Store, gw Gateway, baseURL string) *Handler {
	return &Handler{store: s, gateway: gw, baseURL: baseURL}
}

type createCheckoutRequest struct {
	CampaignID     string      `json:"campaignId"`
	CampaignTitle  string      `json:"campaignTitle"`
	Amount         json.Number `json:"amount"`
	DonationAmount json.Number `json:"donationAmount"`
	ProductAmount  json.Number `json:"productAmount"`
	Email          string      `json:"email"`
}

// CreateCheckout validates a checkout request and creates a hosted
// payment session, returning its redirect URL. The donation/product
// split must add up to the charged amount; when the split is omitted the
// whole amount counts as donation.
func (h *Handler) CreateCheckout(c *gin.Context) {
	var req createCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.CampaignID == "" || req.Amount == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	amount, err := utils.ParseEuros(req.Amount.String())
	if err != nil || amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be a positive number"})
		return
	}

	donation := amount
	if req.DonationAmount != "" {
		if donation, err = utils.ParseEuros(req.DonationAmount.String()); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid donationAmount"})
			return
		}
	}
	var product int64
	if req.ProductAmount != "" {
		if product, err = utils.ParseEuros(req.ProductAmount.String()); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid productAmount"})
			return
		}
	}
	if donation < 0 || product < 0 || donation+product != amount {
		c.JSON(http.StatusBadRequest, gin.H{"error": "donationAmount and productAmount must sum to amount"})
		return
	}

	campaign, err := h.store.GetCampaign(req.CampaignID)
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load campaign"})
		return
	}
	if campaign.Status != models.CampaignStatusActive {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Campaign is not active"})
		return
	}

	title := req.CampaignTitle
	if title == "" {
		title = campaign.Title
	}

	session, err := h.gateway.CreateCheckoutSession(gateway.CheckoutParams{
		CampaignID:      campaign.ID,
		CampaignTitle:   title,
		Amount:          amount,
		DonationPortion: donation,
		ProductPortion:  product,
		CustomerEmail:   req.Email,
		SuccessURL:      h.baseURL + "/success",
		CancelURL:       h.baseURL + "/c/" + campaign.Slug,
	})
	if err != nil {
		log.Printf("[Checkout] Error creating session for campaign %s: %v", campaign.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating checkout session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": session.URL})
}

// VerifyPayment is the success page's poll for immediate feedback. It is
// read-only and never authoritative; the webhook is what credits funds.
func (h *Handler) VerifyPayment(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing session_id"})
		return
	}

	session, err := h.gateway.RetrieveSession(sessionID)
	if err != nil {
		if err == gateway.ErrSessionNotFound {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Payment not completed"})
			return
		}
		log.Printf("[Verify] Error retrieving session %s: %v", sessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Verification failed"})
		return
	}
	if session.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Payment not completed"})
		return
	}

	// Metadata amounts are display-only here; parse failures fall back
	// to zero rather than failing the poll.
	donation, _ := utils.ParseEuros(session.Metadata[gateway.MetaDonationAmount])
	product, _ := utils.ParseEuros(session.Metadata[gateway.MetaProductAmount])

	email := session.CustomerEmail
	if email == "" && session.CustomerDetails != nil {
		email = session.CustomerDetails.Email
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"amount":         utils.EuroFloat(session.AmountTotal),
		"donationAmount": utils.EuroFloat(donation),
		"productAmount":  utils.EuroFloat(product),
		"email":          email,
	})
}
