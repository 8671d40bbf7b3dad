// Package payment talks to the Stripe API: it opens hosted checkout sessions
// and verifies the webhook events Stripe sends back.
package payment

import (
	"context"
	"encoding/json"

	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/libs/apperrors"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// stripeGateway implements the payment gateway on top of Stripe Checkout
type stripeGateway struct {
	api           *client.API
	webhookSecret string
}

// NewStripeGateway creates a gateway using the default Stripe backends
func NewStripeGateway(secretKey, webhookSecret string) *stripeGateway {
	return NewStripeGatewayWithBackends(secretKey, webhookSecret, nil)
}

// NewStripeGatewayWithBackends creates a gateway on custom backends, e.g. a local test server
func NewStripeGatewayWithBackends(secretKey, webhookSecret string, backends *stripe.Backends) *stripeGateway {
	return &stripeGateway{
		api:           client.New(secretKey, backends),
		webhookSecret: webhookSecret,
	}
}

// CreateCheckoutSession opens a one-item payment session and returns its ID and hosted URL
func (g *stripeGateway) CreateCheckoutSession(ctx context.Context, p models.CheckoutParams) (*models.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(p.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(p.ProductName),
					},
					UnitAmount: stripe.Int64(p.AmountMinorUnits),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
	}
	params.Context = ctx
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, apperrors.WrapCause(apperrors.ErrExternalService, "failed to create checkout session", err)
	}

	return &models.CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

// VerifyEvent checks the Stripe-Signature header against the raw payload and decodes
// the event. Metadata is extracted for checkout session events only. Events are
// accepted whatever API version the account is pinned to.
func (g *stripeGateway) VerifyEvent(payload []byte, signature string) (*models.PaymentEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret, webhook.ConstructEventOptions{
		Tolerance:                webhook.DefaultTolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, apperrors.WrapCause(apperrors.ErrInvalidSignature, "invalid webhook signature", err)
	}

	result := &models.PaymentEvent{
		ID:   event.ID,
		Type: string(event.Type),
	}

	if result.Type == models.EventCheckoutSessionCompleted {
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return nil, apperrors.WrapCause(apperrors.ErrValidation, "malformed checkout session payload", err)
		}
		result.Metadata = session.Metadata
	}

	return result, nil
}
