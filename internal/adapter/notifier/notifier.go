package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ops-portal-backend/internal/domain/notification"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Store persists a notification and fans it out on <channel>:<userID>.
type Store struct {
	repo    notification.Repository
	rdb     *redis.Client
	channel string
}

func NewStore(repo notification.Repository, rdb *redis.Client, channel string) *Store {
	return &Store{repo: repo, rdb: rdb, channel: channel}
}

func (s *Store) Channel(userID string) string { return s.channel + ":" + userID }

// Create fails on persistence errors only; a missing redis is not an error.
func (s *Store) Create(ctx context.Context, n notification.Notification) error {
	if err := s.repo.Create(ctx, &n); err != nil {
		return fmt.Errorf("persist notification: %w", err)
	}
	if s.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	if err := s.rdb.Publish(ctx, s.Channel(n.UserID), payload).Err(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

// Async delivers in the background so callers never wait on or see a failure.
type Async struct {
	store   *Store
	log     *zap.Logger
	timeout time.Duration
}

var _ notification.Notifier = (*Async)(nil)

func NewAsync(store *Store, log *zap.Logger) *Async {
	return &Async{store: store, log: log, timeout: 5 * time.Second}
}

func (a *Async) Notify(ctx context.Context, n notification.Notification) {
	// the request context ends with the response
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
	go func() {
		defer cancel()
		if err := a.store.Create(ctx, n); err != nil {
			a.log.Warn("notification delivery failed",
				zap.String("user_id", n.UserID),
				zap.String("type", string(n.Type)),
				zap.Error(err))
		}
	}()
}

// Sync delivers inline and only logs failures.
type Sync struct {
	store *Store
	log   *zap.Logger
}

var _ notification.Notifier = (*Sync)(nil)

func NewSync(store *Store, log *zap.Logger) *Sync { return &Sync{store: store, log: log} }

func (s *Sync) Notify(ctx context.Context, n notification.Notification) {
	if err := s.store.Create(ctx, n); err != nil {
		s.log.Warn("notification delivery failed", zap.String("user_id", n.UserID), zap.Error(err))
	}
}
