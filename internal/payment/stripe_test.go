package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/libs/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
)

const testWebhookSecret = "whsec_test_secret"

// signPayload builds a Stripe-Signature header for payload
func signPayload(payload []byte, secret string, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fmt.Sprintf("%d.%s", ts.Unix(), payload)))
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func checkoutCompletedPayload(eventID string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": %q,
		"object": "event",
		"api_version": %q,
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_1",
				"object": "checkout.session",
				"metadata": {"userId": "7", "courseId": "42"}
			}
		}
	}`, eventID, stripe.APIVersion))
}

func TestStripeGateway_VerifyEvent(t *testing.T) {
	gateway := NewStripeGateway("sk_test", testWebhookSecret)
	payload := checkoutCompletedPayload("evt_1")

	tests := []struct {
		name          string
		payload       []byte
		signature     string
		expectedErr   error
		expectedEvent *models.PaymentEvent
	}{
		{
			name:      "valid checkout event",
			payload:   payload,
			signature: signPayload(payload, testWebhookSecret, time.Now()),
			expectedEvent: &models.PaymentEvent{
				ID:       "evt_1",
				Type:     models.EventCheckoutSessionCompleted,
				Metadata: map[string]string{"userId": "7", "courseId": "42"},
			},
		},
		{
			name:        "wrong secret",
			payload:     payload,
			signature:   signPayload(payload, "whsec_other", time.Now()),
			expectedErr: apperrors.ErrInvalidSignature,
		},
		{
			name:        "tampered payload",
			payload:     append([]byte(" "), payload...),
			signature:   signPayload(payload, testWebhookSecret, time.Now()),
			expectedErr: apperrors.ErrInvalidSignature,
		},
		{
			name:        "stale timestamp",
			payload:     payload,
			signature:   signPayload(payload, testWebhookSecret, time.Now().Add(-time.Hour)),
			expectedErr: apperrors.ErrInvalidSignature,
		},
		{
			name:        "missing header",
			payload:     payload,
			signature:   "",
			expectedErr: apperrors.ErrInvalidSignature,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := gateway.VerifyEvent(tt.payload, tt.signature)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, event)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedEvent, event)
		})
	}
}

func TestStripeGateway_VerifyEvent_OtherType(t *testing.T) {
	gateway := NewStripeGateway("sk_test", testWebhookSecret)
	payload := []byte(fmt.Sprintf(`{"id":"evt_2","object":"event","api_version":%q,"type":"payment_intent.created","data":{"object":{}}}`, stripe.APIVersion))

	event, err := gateway.VerifyEvent(payload, signPayload(payload, testWebhookSecret, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, "payment_intent.created", event.Type)
	assert.Nil(t, event.Metadata)
}

func TestStripeGateway_VerifyEvent_AccountAPIVersion(t *testing.T) {
	gateway := NewStripeGateway("sk_test", testWebhookSecret)
	payload := []byte(`{
		"id": "evt_3",
		"object": "event",
		"api_version": "2024-06-20",
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_3",
				"object": "checkout.session",
				"metadata": {"userId": "9", "courseId": "11"}
			}
		}
	}`)

	event, err := gateway.VerifyEvent(payload, signPayload(payload, testWebhookSecret, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, "evt_3", event.ID)
	assert.Equal(t, map[string]string{"userId": "9", "courseId": "11"}, event.Metadata)
}

func TestStripeGateway_CreateCheckoutSession(t *testing.T) {
	var form map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		form = map[string]string{
			"path":        r.URL.Path,
			"mode":        r.PostForm.Get("mode"),
			"unit_amount": r.PostForm.Get("line_items[0][price_data][unit_amount]"),
			"currency":    r.PostForm.Get("line_items[0][price_data][currency]"),
			"user":        r.PostForm.Get("metadata[userId]"),
			"course":      r.PostForm.Get("metadata[courseId]"),
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"cs_test_1","object":"checkout.session","url":"https://checkout.stripe.com/c/pay/cs_test_1"}`)
	}))
	defer server.Close()

	backends := &stripe.Backends{
		API: stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
			URL:           stripe.String(server.URL),
			LeveledLogger: &stripe.LeveledLogger{Level: stripe.LevelNull},
		}),
	}
	gateway := NewStripeGatewayWithBackends("sk_test", testWebhookSecret, backends)

	session, err := gateway.CreateCheckoutSession(context.Background(), models.CheckoutParams{
		AmountMinorUnits: 49900,
		Currency:         "inr",
		ProductName:      "Go Basics",
		SuccessURL:       "https://app.dev/success",
		CancelURL:        "https://app.dev/cancel",
		Metadata:         map[string]string{"userId": "7", "courseId": "42"},
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", session.ID)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_1", session.URL)

	assert.Equal(t, "/v1/checkout/sessions", form["path"])
	assert.Equal(t, "payment", form["mode"])
	assert.Equal(t, "49900", form["unit_amount"])
	assert.Equal(t, "inr", form["currency"])
	assert.Equal(t, "7", form["user"])
	assert.Equal(t, "42", form["course"])
}

func TestStripeGateway_CreateCheckoutSession_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"type":"invalid_request_error","message":"bad currency"}}`)
	}))
	defer server.Close()

	backends := &stripe.Backends{
		API: stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
			URL:               stripe.String(server.URL),
			LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
			MaxNetworkRetries: stripe.Int64(0),
		}),
	}
	gateway := NewStripeGatewayWithBackends("sk_test", testWebhookSecret, backends)

	_, err := gateway.CreateCheckoutSession(context.Background(), models.CheckoutParams{Currency: "xxx"})
	assert.ErrorIs(t, err, apperrors.ErrExternalService)
}

func TestDisabledGateway(t *testing.T) {
	g := NewDisabledGateway()

	_, err := g.CreateCheckoutSession(context.Background(), models.CheckoutParams{AmountMinorUnits: 100})
	assert.ErrorIs(t, err, apperrors.ErrExternalService)

	_, err = g.VerifyEvent([]byte(`{}`), "t=1,v1=abc")
	assert.ErrorIs(t, err, apperrors.ErrInvalidSignature)
}
