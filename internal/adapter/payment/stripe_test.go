package payment

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newStripeServer(t *testing.T, handler func(path string, form url.Values) (int, string)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		form, _ := url.ParseQuery(string(raw))
		status, body := handler(r.URL.Path, form)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestStripeService_CreatePaymentIntent(t *testing.T) {
	// Arrange
	var got url.Values
	srv := newStripeServer(t, func(path string, form url.Values) (int, string) {
		assert.Equal(t, "/v1/payment_intents", path)
		got = form
		return http.StatusOK, `{"id":"pi_123","object":"payment_intent","status":"requires_payment_method"}`
	})
	s := NewStripeService("sk_test_x", srv.URL, zap.NewNop())

	// Act
	id, err := s.CreatePaymentIntent(context.Background(), 12.34, "USD", "u1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "pi_123", id)
	assert.Equal(t, "1234", got.Get("amount"))
	assert.Equal(t, "usd", got.Get("currency"))
	assert.Empty(t, got.Get("customer"))
	assert.Equal(t, "u1", got.Get("metadata[user_id]"))
}

func TestStripeService_CustomerID(t *testing.T) {
	var got url.Values
	srv := newStripeServer(t, func(path string, form url.Values) (int, string) {
		got = form
		return http.StatusOK, `{"id":"pi_1","object":"payment_intent"}`
	})
	s := NewStripeService("sk_test_x", srv.URL, zap.NewNop())

	_, err := s.CreatePaymentIntent(context.Background(), 5, "usd", "cus_9")

	require.NoError(t, err)
	assert.Equal(t, "cus_9", got.Get("customer"))
}

func TestStripeService_InvalidAmount(t *testing.T) {
	s := NewStripeService("sk_test_x", "http://127.0.0.1:1", zap.NewNop())

	_, err := s.CreatePaymentIntent(context.Background(), 0, "usd", "")

	assert.EqualError(t, err, "invalid amount")
}

func TestStripeService_APIError(t *testing.T) {
	srv := newStripeServer(t, func(path string, form url.Values) (int, string) {
		return http.StatusPaymentRequired, `{"error":{"type":"card_error","code":"card_declined","message":"Your card was declined."}}`
	})
	s := NewStripeService("sk_test_x", srv.URL, zap.NewNop())

	_, err := s.CreatePaymentIntent(context.Background(), 10, "usd", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "stripe: create payment intent")
}

func TestStripeService_Refund(t *testing.T) {
	var got url.Values
	srv := newStripeServer(t, func(path string, form url.Values) (int, string) {
		assert.Equal(t, "/v1/refunds", path)
		got = form
		return http.StatusOK, `{"id":"re_1","object":"refund","status":"succeeded"}`
	})
	s := NewStripeService("sk_test_x", srv.URL, zap.NewNop())

	require.NoError(t, s.RefundPayment(context.Background(), "pi_123"))
	assert.Equal(t, "pi_123", got.Get("payment_intent"))

	assert.Error(t, s.RefundPayment(context.Background(), ""))
}
