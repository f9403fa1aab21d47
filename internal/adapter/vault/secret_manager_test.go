package vault

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newVaultServer(t *testing.T, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/v1/secret/data/gemini", r.URL.Path)
		assert.Equal(t, "root", r.Header.Get("X-Vault-Token"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestSecretManager_GeminiAPIKey(t *testing.T) {
	// Arrange
	srv, calls := newVaultServer(t, `{"data":{"data":{"api_key":"g-123"},"metadata":{"version":1}}}`)
	sm, err := NewSecretManager(Config{Address: srv.URL, Token: "root"}, zap.NewNop())
	require.NoError(t, err)

	// Act
	first, err := sm.GeminiAPIKey(context.Background())
	require.NoError(t, err)
	second, err := sm.GeminiAPIKey(context.Background())
	require.NoError(t, err)

	// Assert
	assert.Equal(t, "g-123", first)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSecretManager_CacheExpires(t *testing.T) {
	srv, calls := newVaultServer(t, `{"data":{"data":{"api_key":"g-123"},"metadata":{"version":1}}}`)
	sm, err := NewSecretManager(Config{Address: srv.URL, Token: "root", CacheTTL: time.Minute}, zap.NewNop())
	require.NoError(t, err)
	now := time.Now()
	sm.now = func() time.Time { return now }

	_, err = sm.GeminiAPIKey(context.Background())
	require.NoError(t, err)
	now = now.Add(2 * time.Minute)
	_, err = sm.GeminiAPIKey(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(2), calls.Load())
}

func TestSecretManager_MissingField(t *testing.T) {
	srv, _ := newVaultServer(t, `{"data":{"data":{"other":"x"},"metadata":{"version":1}}}`)
	sm, err := NewSecretManager(Config{Address: srv.URL, Token: "root"}, zap.NewNop())
	require.NoError(t, err)

	_, err = sm.GeminiAPIKey(context.Background())

	assert.ErrorIs(t, err, ErrSecretMissing)
}

func TestStaticSecrets(t *testing.T) {
	key, err := StaticSecrets{Gemini: "k"}.GeminiAPIKey(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "k", key)

	_, err = StaticSecrets{}.GeminiAPIKey(context.Background())
	assert.ErrorIs(t, err, ErrSecretMissing)
}
