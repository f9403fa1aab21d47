package payment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"

	"github.com/seu-repo/voicebook/internal/ports"
)

type StripeService struct {
	api *client.API
	log *zap.Logger
}

var _ ports.PaymentGateway = (*StripeService)(nil)

// NewStripeService builds a gateway on its own API client. backendURL
// overrides the Stripe endpoint and is meant for stripe-mock or tests.
func NewStripeService(apiKey, backendURL string, log *zap.Logger) *StripeService {
	var backends *stripe.Backends
	if backendURL != "" {
		backends = &stripe.Backends{
			API: stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
				URL:               stripe.String(backendURL),
				MaxNetworkRetries: stripe.Int64(0),
			}),
		}
	}
	return &StripeService{
		api: client.New(apiKey, backends),
		log: log,
	}
}

// CreatePaymentIntent charges amount in the currency's major unit. Only
// Stripe customer IDs are attached as the customer; any other ID goes into
// the intent metadata.
func (s *StripeService) CreatePaymentIntent(ctx context.Context, amount float64, currency string, customerID string) (string, error) {
	if amount <= 0 {
		return "", errors.New("invalid amount")
	}

	s.log.Info("Creating payment intent",
		zap.Float64("amount", amount),
		zap.String("currency", currency),
		zap.String("customer_id", customerID),
	)

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(math.Round(amount * 100))),
		Currency: stripe.String(strings.ToLower(currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if strings.HasPrefix(customerID, "cus_") {
		params.Customer = stripe.String(customerID)
	} else if customerID != "" {
		params.AddMetadata("user_id", customerID)
	}
	params.AddMetadata("purpose", "ad_campaign")
	params.Context = ctx

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		s.log.Error("Failed to create payment intent", zap.Error(err))
		return "", fmt.Errorf("stripe: create payment intent: %w", err)
	}

	s.log.Info("Payment intent created",
		zap.String("payment_intent_id", pi.ID),
		zap.String("status", string(pi.Status)),
	)

	return pi.ID, nil
}

func (s *StripeService) RefundPayment(ctx context.Context, paymentID string) error {
	if paymentID == "" {
		return errors.New("payment ID is required")
	}

	s.log.Info("Refunding payment", zap.String("payment_id", paymentID))

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentID),
	}
	params.Context = ctx

	r, err := s.api.Refunds.New(params)
	if err != nil {
		s.log.Error("Failed to refund payment", zap.String("payment_id", paymentID), zap.Error(err))
		return fmt.Errorf("stripe: refund payment: %w", err)
	}

	s.log.Info("Payment refunded",
		zap.String("refund_id", r.ID),
		zap.String("status", string(r.Status)),
	)

	return nil
}

// ErrPaymentsDisabled is returned when no payment provider is configured.
var ErrPaymentsDisabled = errors.New("payments are not configured")

// DisabledGateway rejects every charge.
type DisabledGateway struct{}

func (DisabledGateway) CreatePaymentIntent(context.Context, float64, string, string) (string, error) {
	return "", ErrPaymentsDisabled
}

func (DisabledGateway) RefundPayment(context.Context, string) error {
	return ErrPaymentsDisabled
}
