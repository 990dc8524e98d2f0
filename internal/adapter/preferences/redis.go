package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	domain "ops-portal-backend/internal/domain/preferences"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var _ domain.Store = (*RedisStore)(nil)

// RedisStore keeps one JSON value per user and view.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration, log *zap.Logger) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl, log: log}
}

func key(userID, view string) string { return "prefs:" + userID + ":" + view }

func (s *RedisStore) Load(ctx context.Context, userID, view string) (domain.ViewPreferences, error) {
	if !domain.KnownView(view) {
		return domain.ViewPreferences{}, domain.ErrUnknownView
	}
	raw, err := s.rdb.Get(ctx, key(userID, view)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Defaults(view), nil
	}
	if err != nil {
		return domain.ViewPreferences{}, err
	}
	var p domain.ViewPreferences
	if err := json.Unmarshal(raw, &p); err != nil {
		s.log.Warn("discarding unreadable preferences", zap.String("user_id", userID), zap.String("view", view), zap.Error(err))
		return domain.Defaults(view), nil
	}
	p.View = view
	return p.Normalize(), nil
}

// Save refreshes the TTL on every write.
func (s *RedisStore) Save(ctx context.Context, userID string, p domain.ViewPreferences) error {
	if !domain.KnownView(p.View) {
		return domain.ErrUnknownView
	}
	payload, err := json.Marshal(p.Normalize())
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key(userID, p.View), payload, s.ttl).Err()
}
