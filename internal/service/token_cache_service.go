package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"meditrack-backend/pkg/jwt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// RedisTokenKeyPrefix namespaces verified identities in Redis.
	RedisTokenKeyPrefix = "idtoken:"

	// Timeout for individual Redis operations
	tokenCacheTimeout = 2 * time.Second
)

// =============================================================================
// Token cache
// =============================================================================

// TokenCacheService remembers identities of already verified tokens.
type TokenCacheService interface {
	// Get returns the cached identity, or nil on a miss.
	Get(ctx context.Context, token string) (*jwt.Identity, error)
	Set(ctx context.Context, token string, identity *jwt.Identity) error
}

type redisTokenCacheService struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenCacheService(client *redis.Client, ttl time.Duration) TokenCacheService {
	return &redisTokenCacheService{
		client: client,
		ttl:    ttl,
		now:    time.Now,
	}
}

// tokenKey hashes the token so raw credentials never land in Redis.
func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return RedisTokenKeyPrefix + hex.EncodeToString(sum[:])
}

func (s *redisTokenCacheService) Get(ctx context.Context, token string) (*jwt.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, tokenCacheTimeout)
	defer cancel()

	raw, err := s.client.Get(ctx, tokenKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read token cache: %w", err)
	}

	var identity jwt.Identity
	if err := json.Unmarshal(raw, &identity); err != nil {
		return nil, fmt.Errorf("failed to decode cached identity: %w", err)
	}
	return &identity, nil
}

func (s *redisTokenCacheService) Set(ctx context.Context, token string, identity *jwt.Identity) error {
	ttl := cacheTTL(s.now(), identity.ExpiresAt, s.ttl)
	if ttl <= 0 {
		return nil
	}

	raw, err := json.Marshal(identity)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, tokenCacheTimeout)
	defer cancel()

	if err := s.client.Set(ctx, tokenKey(token), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write token cache: %w", err)
	}
	return nil
}

// cacheTTL never lets an entry outlive the token it was derived from.
func cacheTTL(now, expiresAt time.Time, limit time.Duration) time.Duration {
	if expiresAt.IsZero() {
		return 0
	}
	remaining := expiresAt.Sub(now)
	if remaining < limit {
		return remaining
	}
	return limit
}

// =============================================================================
// Caching verifier
// =============================================================================

type cachingVerifier struct {
	next  jwt.Verifier
	cache TokenCacheService
	log   *logrus.Logger
	now   func() time.Time
}

// NewCachingVerifier consults cache before delegating to next. Cache failures
// are logged and never fail a request.
func NewCachingVerifier(next jwt.Verifier, cache TokenCacheService, log *logrus.Logger) jwt.Verifier {
	return &cachingVerifier{
		next:  next,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

func (v *cachingVerifier) Verify(ctx context.Context, token string) (*jwt.Identity, error) {
	cached, err := v.cache.Get(ctx, token)
	if err != nil {
		v.log.Warnf("Failed to read token cache: %+v", err)
	}
	if cached != nil && cached.ExpiresAt.After(v.now()) {
		return cached, nil
	}

	identity, err := v.next.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := v.cache.Set(ctx, token, identity); err != nil {
		v.log.Warnf("Failed to cache verified token: %+v", err)
	}
	return identity, nil
}
