package payments

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	stripe "github.com/stripe/stripe-go/v80"

	"github.com/correoplaguna-boop/Cause4ALL-MVP/gateway"
	"github.com/correoplaguna-boop/Cause4ALL-MVP/models"
	"github.com/correoplaguna-boop/Cause4ALL-MVP/utils"
)

var (
	errMissingCampaignID     = errors.New("missing campaign_id in session metadata")
	errInvalidDonationAmount = errors.New("invalid donation amount")
)

// HandleWebhook is the authoritative path by which a completed payment
// becomes a donation row and a campaign-total increment. Stripe delivers
// at least once, so the whole path must tolerate duplicate and
// out-of-order deliveries; the donation's unique session id is the
// deduplication boundary.
func (h *Handler) HandleWebhook(c *gin.Context) {
	const maxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Could not read request body"})
		return
	}

	sigHeader := c.GetHeader("Stripe-Signature")
	if sigHeader == "" {
		log.Printf("[Webhook] Request without Stripe-Signature header rejected")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing signature"})
		return
	}

	// Verify over the raw bytes before parsing anything; a forged body
	// never gets interpreted as an event.
	event, err := h.gateway.VerifyWebhook(payload, sigHeader)
	if err != nil {
		log.Printf("[Webhook] Signature verification failed: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}

	log.Printf("[Webhook] Event received: %s (%s)", event.Type, event.ID)

	audit, seen, err := h.store.LogWebhookEvent("stripe", event.ID, string(event.Type), payload)
	if err != nil {
		// Audit is observability, not correctness; keep going.
		log.Printf("[Webhook] Failed to log event %s: %v", event.ID, err)
	} else if seen {
		log.Printf("[Webhook] Event %s redelivered", event.ID)
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			log.Printf("[Webhook] Error parsing session from event %s: %v", event.ID, err)
			h.markAudit(audit, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed event payload"})
			return
		}
		if err := h.reconcile(session); err != nil {
			h.markAudit(audit, err)
			if errors.Is(err, errMissingCampaignID) || errors.Is(err, errInvalidDonationAmount) {
				log.Printf("[Webhook] Rejecting event %s: %v", event.ID, err)
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			// Nothing durable was written; a 500 makes Stripe retry.
			log.Printf("[Webhook] Ledger error for event %s: %v", event.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		h.markAudit(audit, nil)

	case stripe.EventTypePaymentIntentSucceeded:
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err == nil {
			log.Printf("[Webhook] Payment succeeded: %s", pi.ID)
		}
		h.markAudit(audit, nil)

	case stripe.EventTypePaymentIntentPaymentFailed:
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err == nil {
			log.Printf("[Webhook] Payment failed: %s", pi.ID)
		}
		h.markAudit(audit, nil)

	default:
		// Unknown event kinds must never break the endpoint.
		log.Printf("[Webhook] Ignoring event type %s", event.Type)
		h.markAudit(audit, nil)
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// reconcile applies one completed checkout session to the ledger.
// Returns nil for the designed no-ops (not yet paid, duplicate
// delivery), a validation sentinel for malformed metadata, and any other
// error only while nothing durable has been written.
func (h *Handler) reconcile(session stripe.CheckoutSession) error {
	if session.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		log.Printf("[Webhook] Session %s not paid yet (%s), ignoring", session.ID, session.PaymentStatus)
		return nil
	}

	campaignID := session.Metadata[gateway.MetaCampaignID]
	if campaignID == "" {
		return errMissingCampaignID
	}

	rawDonation := session.Metadata[gateway.MetaDonationAmount]
	donation, err := utils.ParseEuros(rawDonation)
	if err != nil || donation <= 0 {
		return fmt.Errorf("%w: %q", errInvalidDonationAmount, rawDonation)
	}

	total := session.AmountTotal
	product := total - donation
	if product < 0 {
		return fmt.Errorf("%w: donation portion %d exceeds charge %d", errInvalidDonationAmount, donation, total)
	}

	var email *string
	if session.CustomerDetails != nil && session.CustomerDetails.Email != "" {
		email = &session.CustomerDetails.Email
	}
	var paymentID string
	if session.PaymentIntent != nil {
		paymentID = session.PaymentIntent.ID
	}

	applied, err := h.store.RecordDonation(&models.Donation{
		CampaignID:      campaignID,
		Amount:          total,
		DonationPortion: donation,
		ProductPortion:  product,
		Email:           email,
		StripeSessionID: session.ID,
		StripePaymentID: paymentID,
		EntersDraw:      true,
		Status:          models.DonationStatusCompleted,
	})
	if err != nil {
		return fmt.Errorf("record donation for session %s: %w", session.ID, err)
	}
	if !applied {
		log.Printf("[Webhook] Session %s already recorded, skipping", session.ID)
		return nil
	}

	log.Printf("[Webhook] Donation recorded for campaign %s (session %s)", campaignID, session.ID)

	// Only the donation portion counts toward the public "raised"
	// figure; the product portion is a nominal product price.
	if err := h.store.IncrementCampaignAmount(campaignID, donation); err != nil {
		// The donation row is already durable and authoritative. A 500
		// here would make Stripe redeliver and re-enter the insert path,
		// so the aggregate is repaired out of band instead.
		log.Printf("[Webhook] Donation recorded but campaign %s total update failed: %v", campaignID, err)
		return nil
	}

	log.Printf("[Webhook] Campaign %s total increased by %s", campaignID, utils.FormatEuros(donation))
	return nil
}

func (h *Handler) markAudit(audit *models.WebhookEvent, procErr error) {
	if audit == nil {
		return
	}
	msg := ""
	if procErr != nil {
		msg = procErr.Error()
	}
	if err := h.store.MarkWebhookEventProcessed(audit.ID, msg); err != nil {
		log.Printf("[Webhook] Failed to update audit row %d: %v", audit.ID, err)
	}
}
