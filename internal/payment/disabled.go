package payment

import (
	"context"

	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/libs/apperrors"
)

// disabledGateway is used when no Stripe keys are configured.
// Checkout reports the provider as unavailable and every webhook is rejected.
type disabledGateway struct{}

// NewDisabledGateway creates a gateway that refuses all payment operations
func NewDisabledGateway() *disabledGateway {
	return &disabledGateway{}
}

func (disabledGateway) CreateCheckoutSession(ctx context.Context, p models.CheckoutParams) (*models.CheckoutSession, error) {
	return nil, apperrors.Wrap(apperrors.ErrExternalService, "payments are not configured")
}

func (disabledGateway) VerifyEvent(payload []byte, signature string) (*models.PaymentEvent, error) {
	return nil, apperrors.Wrap(apperrors.ErrInvalidSignature, "payments are not configured")
}
