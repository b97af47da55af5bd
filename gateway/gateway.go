// Package gateway wraps the Stripe API for the checkout and webhook
// paths. The client carries its own credentials; nothing here touches
// the package-level stripe.Key.
package gateway

import (
	"errors"
	"fmt"

	stripe "github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/client"
	"github.com/stripe/stripe-go/v80/webhook"

	"github.com/correoplaguna-boop/Cause4ALL-MVP/utils"
)

// Metadata keys attached to checkout sessions and their payment intents.
// The split is carried as metadata so it survives into the asynchronous
// webhook payload without re-fetching the session.
const (
	MetaCampaignID     = "campaign_id"
	MetaDonationAmount = "donation_amount"
	MetaProductAmount  = "product_amount"
	MetaTotalAmount    = "total_amount"
)

var ErrSessionNotFound = errors.New("checkout session not found")

type Config struct {
	SecretKey     string
	WebhookSecret string
}

type Client struct {
	api           *client.API
	webhookSecret string
}

func New(cfg Config) *Client {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)
	return &Client{api: api, webhookSecret: cfg.WebhookSecret}
}

// CheckoutParams describes one checkout to create. Amounts are euro
// cents; DonationPortion + ProductPortion equals Amount (validated by
// the caller before it gets here).
type CheckoutParams struct {
	CampaignID      string
	CampaignTitle   string
	Amount          int64
	DonationPortion int64
	ProductPortion  int64
	CustomerEmail   string
	SuccessURL      string
	CancelURL       string
}

// CreateCheckoutSession creates a hosted checkout session at Stripe with
// the donation split attached as metadata on both the session and its
// payment intent. The success URL gets the session id placeholder that
// Stripe expands on redirect.
func (c *Client) CreateCheckoutSession(p CheckoutParams) (*stripe.CheckoutSession, error) {
	params := sessionParams(p)
	s, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return s, nil
}

func sessionParams(p CheckoutParams) *stripe.CheckoutSessionParams {
	donation := utils.FormatEuros(p.DonationPortion)
	product := utils.FormatEuros(p.ProductPortion)

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(p.SuccessURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:          stripe.String(p.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyEUR)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String("Solidarity support: " + p.CampaignTitle),
						Description: stripe.String(fmt.Sprintf("Donation: %s EUR | Solidarity product: %s EUR", donation, product)),
					},
					UnitAmount: stripe.Int64(p.Amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: map[string]string{
				MetaCampaignID:     p.CampaignID,
				MetaDonationAmount: donation,
				MetaProductAmount:  product,
			},
		},
	}
	if p.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(p.CustomerEmail)
	}
	params.AddMetadata(MetaCampaignID, p.CampaignID)
	params.AddMetadata(MetaDonationAmount, donation)
	params.AddMetadata(MetaProductAmount, product)
	params.AddMetadata(MetaTotalAmount, utils.FormatEuros(p.Amount))
	return params
}

// RetrieveSession fetches a session for the success-page poll. Read-only
// and best-effort: a missing session is ErrSessionNotFound, never a
// reason to touch the ledger.
func (c *Client) RetrieveSession(sessionID string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.AddExpand("payment_intent")
	s, err := c.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeResourceMissing {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("retrieve checkout session: %w", err)
	}
	return s, nil
}

// VerifyWebhook checks the Stripe-Signature header against the raw
// request bytes and returns the parsed event. The payload must be the
// exact bytes read off the wire; HMAC verification is byte-exact.
func (c *Client) VerifyWebhook(payload []byte, sigHeader string) (stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, c.webhookSecret)
	if err != nil {
		return stripe.Event{}, fmt.Errorf("webhook signature verification: %w", err)
	}
	return event, nil
}
