package companies

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/apexpest/crm-platform/pkg/logging"
)

// CachedStore layers a Redis cache over agent-to-company resolution. Every
// inbound event performs this lookup, so hits skip a database round trip.
// Cache failures fall through to the wrapped store; negative results are not
// cached so newly provisioned agents resolve immediately.
type CachedStore struct {
	inner  Store
	redis  *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewCachedStore wraps a store with Redis caching for agent resolution.
func NewCachedStore(inner Store, redisClient *redis.Client, ttl time.Duration, logger *logging.Logger) *CachedStore {
	if logger == nil {
		logger = logging.Default()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedStore{inner: inner, redis: redisClient, ttl: ttl, logger: logger}
}

func agentCacheKey(agentID string) string {
	return fmt.Sprintf("telephony:agent:%s", agentID)
}

// ResolveInboundAgent answers from cache when possible, consulting the
// wrapped store on miss.
func (s *CachedStore) ResolveInboundAgent(ctx context.Context, agentID string) (uuid.UUID, error) {
	key := agentCacheKey(agentID)
	if cached, err := s.redis.Get(ctx, key).Result(); err == nil {
		if companyID, parseErr := uuid.Parse(cached); parseErr == nil {
			return companyID, nil
		}
	} else if err != redis.Nil {
		s.logger.Warn("agent cache read failed", "error", err)
	}

	companyID, err := s.inner.ResolveInboundAgent(ctx, agentID)
	if err != nil {
		return uuid.Nil, err
	}

	if err := s.redis.Set(ctx, key, companyID.String(), s.ttl).Err(); err != nil {
		s.logger.Warn("agent cache write failed", "error", err)
	}
	return companyID, nil
}

// NotificationSettings passes through uncached; settings reads happen only on
// call_analyzed and must reflect edits promptly.
func (s *CachedStore) NotificationSettings(ctx context.Context, companyID uuid.UUID) (NotificationSettings, error) {
	return s.inner.NotificationSettings(ctx, companyID)
}

// CompanyName passes through uncached.
func (s *CachedStore) CompanyName(ctx context.Context, companyID uuid.UUID) (string, error) {
	return s.inner.CompanyName(ctx, companyID)
}

var _ Store = (*CachedStore)(nil)
