package vault

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/vault/api"
	"go.uber.org/zap"

	"github.com/seu-repo/voicebook/internal/ports"
)

var ErrSecretMissing = errors.New("secret missing")

type Config struct {
	Address string
	Token   string
	// Mount is the KV v2 mount, "secret" by default.
	Mount    string
	CacheTTL time.Duration
}

type cachedSecret struct {
	value   string
	fetched time.Time
}

// SecretManager reads API keys from a KV v2 engine and caches them for
// CacheTTL.
type SecretManager struct {
	kv    *api.KVv2
	ttl   time.Duration
	mu    sync.Mutex
	cache map[string]cachedSecret
	now   func() time.Time
	log   *zap.Logger
}

var _ ports.SecretProvider = (*SecretManager)(nil)

func NewSecretManager(cfg Config, log *zap.Logger) (*SecretManager, error) {
	config := api.DefaultConfig()
	config.Address = cfg.Address

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("vault: new client: %w", err)
	}

	client.SetToken(cfg.Token)

	mount := cfg.Mount
	if mount == "" {
		mount = "secret"
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &SecretManager{
		kv:    client.KVv2(mount),
		ttl:   ttl,
		cache: make(map[string]cachedSecret),
		now:   time.Now,
		log:   log,
	}, nil
}

func (sm *SecretManager) GeminiAPIKey(ctx context.Context) (string, error) {
	return sm.read(ctx, "gemini", "api_key")
}

func (sm *SecretManager) DatabaseURL(ctx context.Context) (string, error) {
	return sm.read(ctx, "database", "connection_string")
}

func (sm *SecretManager) read(ctx context.Context, path, field string) (string, error) {
	key := path + "#" + field

	sm.mu.Lock()
	if c, ok := sm.cache[key]; ok && sm.now().Sub(c.fetched) < sm.ttl {
		sm.mu.Unlock()
		return c.value, nil
	}
	sm.mu.Unlock()

	secret, err := sm.kv.Get(ctx, path)
	if err != nil {
		return "", fmt.Errorf("vault: read %s: %w", path, err)
	}
	value, ok := secret.Data[field].(string)
	if !ok || value == "" {
		return "", fmt.Errorf("vault: %s/%s: %w", path, field, ErrSecretMissing)
	}

	sm.mu.Lock()
	sm.cache[key] = cachedSecret{value: value, fetched: sm.now()}
	sm.mu.Unlock()

	sm.log.Debug("Secret loaded from Vault", zap.String("path", path))
	return value, nil
}

// StaticSecrets serves keys taken from configuration.
type StaticSecrets struct {
	Gemini string
}

var _ ports.SecretProvider = StaticSecrets{}

func (s StaticSecrets) GeminiAPIKey(context.Context) (string, error) {
	if s.Gemini == "" {
		return "", fmt.Errorf("gemini api key: %w", ErrSecretMissing)
	}
	return s.Gemini, nil
}
