package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderRequestAt      = "X-Request-At"
	HeaderReplayed       = "Idempotent-Replayed"

	// in-flight reservation; a crashed handler frees the key after this
	provisionalLockTTL = 60 * time.Second
	maxClockSkew       = 10 * time.Minute
	storeTimeout       = 2 * time.Second
)

// teeWriter copies the response while passing it through.
type teeWriter struct {
	http.ResponseWriter
	buf  bytes.Buffer
	code int
}

func (w *teeWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *teeWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

func jsonError(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]string{"error": msg})
}

// Idempotency makes a mutating route safe to retry. The caller sends a unique
// Idempotency-Key and X-Request-At; a finished outcome is replayed for the
// TTL, a concurrent duplicate or a reused key with another body is a 409, and
// a 5xx frees the key again. Mount it after JWTAuth, since keys are per actor.
func Idempotency(rdb *redis.Client, ttl time.Duration, log *zap.Logger) echo.MiddlewareFunc {
	store := newReplayStore(rdb, ttl)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			actor, ok := ActorFrom(c)
			if !ok {
				return jsonError(c, http.StatusUnauthorized, "not authenticated")
			}
			reqID, err := requestKey(req.Header.Get(HeaderIdempotencyKey))
			if err != nil {
				return jsonError(c, http.StatusBadRequest, err.Error())
			}
			reqAt, err := parseRequestAt(req.Header.Get(HeaderRequestAt))
			if err != nil {
				return jsonError(c, http.StatusBadRequest, err.Error())
			}
			if !withinSkew(reqAt, nowUTC()) {
				return jsonError(c, http.StatusBadRequest, HeaderRequestAt+" too skewed")
			}

			var body []byte
			if req.Body != nil {
				if body, err = io.ReadAll(req.Body); err != nil {
					return jsonError(c, http.StatusBadRequest, "unreadable body")
				}
			}
			req.Body = io.NopCloser(bytes.NewReader(body))

			key := store.key(req.Method, c.Path(), actor.UserID, reqID)
			fields := []zap.Field{zap.String("key", key), zap.String("request_id", RequestIDFrom(c))}
			rec := replay{
				BodySHA256:  bodyHash(body),
				ActorID:     actor.UserID,
				RequestAtMS: reqAt.UnixMilli(),
				StoredAt:    nowUTC(),
			}

			ctx, cancel := context.WithTimeout(req.Context(), storeTimeout)
			defer cancel()
			won, err := store.reserve(ctx, key, rec)
			if err != nil {
				log.Error("idempotency reserve failed", append(fields, zap.Error(err))...)
				return jsonError(c, http.StatusServiceUnavailable, "idempotency store unavailable")
			}
			if !won {
				cur, err := store.load(ctx, key)
				if err != nil {
					log.Warn("idempotency load failed", append(fields, zap.Error(err))...)
				}
				switch {
				case cur.BodySHA256 != "" && cur.BodySHA256 != rec.BodySHA256:
					return jsonError(c, http.StatusConflict, HeaderIdempotencyKey+" reused with different body")
				case cur.finished():
					c.Response().Header().Set(HeaderReplayed, "true")
					ct := cur.ContentType
					if ct == "" {
						ct = echo.MIMEApplicationJSON
					}
					return c.Blob(cur.Status, ct, cur.Body)
				default:
					return jsonError(c, http.StatusConflict, "request is already in progress")
				}
			}

			tee := &teeWriter{ResponseWriter: c.Response().Writer, code: http.StatusOK}
			c.Response().Writer = tee
			if err := next(c); err != nil {
				c.Error(err)
			}

			// the response is already sent; store work must outlive the request
			bg, cancelBG := context.WithTimeout(context.WithoutCancel(req.Context()), storeTimeout)
			defer cancelBG()
			if tee.code >= http.StatusInternalServerError {
				if err := store.release(bg, key); err != nil {
					log.Warn("idempotency release failed", append(fields, zap.Error(err))...)
				}
				return nil
			}
			rec.Status = tee.code
			rec.ContentType = tee.Header().Get(echo.HeaderContentType)
			rec.Body = tee.buf.Bytes()
			rec.StoredAt = nowUTC()
			if err := store.finish(bg, key, rec); err != nil {
				log.Warn("idempotency save failed", append(fields, zap.Error(err))...)
			}
			return nil
		}
	}
}
