package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// replay is what the store keeps per key: a reservation while the handler
// runs, then the recorded outcome.
type replay struct {
	Pending     bool      `json:"pending"`
	Status      int       `json:"status"`
	ContentType string    `json:"content_type,omitempty"`
	Body        []byte    `json:"body,omitempty"`
	BodySHA256  string    `json:"body_sha256"`
	ActorID     string    `json:"actor_id"`
	RequestAtMS int64     `json:"request_at_ms"`
	StoredAt    time.Time `json:"stored_at"`
}

func (r replay) finished() bool { return !r.Pending && r.Status != 0 }

type replayStore struct {
	rdb     *redis.Client
	prefix  string
	lockTTL time.Duration
	ttl     time.Duration
}

func newReplayStore(rdb *redis.Client, ttl time.Duration) *replayStore {
	return &replayStore{rdb: rdb, prefix: "idemp", lockTTL: provisionalLockTTL, ttl: ttl}
}

// key is scoped to the route template and the caller, so two users can never
// collide on a client generated id.
func (s *replayStore) key(method, route, actorID, requestID string) string {
	return strings.Join([]string{s.prefix, strings.ToLower(method), route, actorID, requestID}, ":")
}

// reserve claims key for one in-flight request. false means someone holds it.
func (s *replayStore) reserve(ctx context.Context, key string, r replay) (bool, error) {
	r.Pending = true
	payload, err := json.Marshal(r)
	if err != nil {
		return false, err
	}
	return s.rdb.SetNX(ctx, key, payload, s.lockTTL).Result()
}

func (s *replayStore) load(ctx context.Context, key string) (replay, error) {
	var r replay
	v, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return r, err
	}
	if err := json.Unmarshal(v, &r); err != nil {
		return r, fmt.Errorf("decode %s: %w", key, err)
	}
	return r, nil
}

func (s *replayStore) finish(ctx context.Context, key string, r replay) error {
	r.Pending = false
	payload, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, payload, s.ttl).Err()
}

func (s *replayStore) release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

func bodyHash(b []byte) string { s := sha256.Sum256(b); return hex.EncodeToString(s[:]) }

func nowUTC() time.Time { return time.Now().UTC() }

var (
	reUUID  = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[1-5][a-f0-9]{3}-[89ab][a-f0-9]{3}-[a-f0-9]{12}$`)
	reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)
)

// requestKey returns the normalized Idempotency-Key: a uuid or a 32-char hex id.
func requestKey(raw string) (string, error) {
	id := strings.ToLower(strings.TrimSpace(raw))
	if id == "" {
		return "", errors.New("missing " + HeaderIdempotencyKey)
	}
	if !reUUID.MatchString(id) && !reHex32.MatchString(id) {
		return "", errors.New("invalid " + HeaderIdempotencyKey + " format")
	}
	return id, nil
}

// parseRequestAt accepts epoch seconds, epoch milliseconds, or RFC3339 with a
// zone. Timestamps without a zone are rejected.
func parseRequestAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("missing " + HeaderRequestAt)
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, errors.New(HeaderRequestAt + " must be epoch (s/ms) or RFC3339 with timezone")
}

func withinSkew(at, now time.Time) bool {
	return !at.Before(now.Add(-maxClockSkew)) && !at.After(now.Add(maxClockSkew))
}
