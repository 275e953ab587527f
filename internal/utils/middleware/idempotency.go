package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// IdempotencyKeyHeader carries the client's retry key.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayedHeader is set to "true" on a replayed response.
	IdempotencyReplayedHeader = "Idempotency-Replayed"

	idempotencyKeyPrefix  = "returns:idempotency:"
	idempotencyLockTTL    = 30 * time.Second
	defaultIdempotencyTTL = 24 * time.Hour
)

// ErrIdempotencyMiss is returned by an IdempotencyStore with no saved response.
var ErrIdempotencyMiss = errors.New("idempotency: no saved response")

// SavedResponse is a response kept for replay under an idempotency key.
type SavedResponse struct {
	Fingerprint string `json:"fingerprint"`
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// IdempotencyStore keeps responses and in-flight locks per key.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (*SavedResponse, error)
	Save(ctx context.Context, key string, resp *SavedResponse, ttl time.Duration) error
	Lock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

type redisIdempotencyStore struct {
	client goredis.Cmdable
}

// NewRedisIdempotencyStore stores replayable responses in Redis.
func NewRedisIdempotencyStore(client goredis.Cmdable) IdempotencyStore {
	return &redisIdempotencyStore{client: client}
}

func (s *redisIdempotencyStore) Get(ctx context.Context, key string) (*SavedResponse, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrIdempotencyMiss
	}
	if err != nil {
		return nil, err
	}
	var resp SavedResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *redisIdempotencyStore) Save(ctx context.Context, key string, resp *SavedResponse, ttl time.Duration) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *redisIdempotencyStore) Lock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, key+":lock", "1", ttl).Result()
}

func (s *redisIdempotencyStore) Unlock(ctx context.Context, key string) error {
	return s.client.Del(ctx, key+":lock").Err()
}

type bodyRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the saved response when a request is retried with the
// same Idempotency-Key. Keys are scoped to the caller, method and path. A key
// reused with a different body is rejected with 422. Server errors are not
// saved, so a refund that failed upstream can be retried with the same key.
// Requests without the header, and all requests when store is nil, pass through.
func Idempotency(store IdempotencyStore, ttl time.Duration, logger *zap.Logger) gin.HandlerFunc {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if store == nil || key == "" {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "BAD_REQUEST", "unreadable request body")
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		ctx := c.Request.Context()
		cacheKey := idempotencyCacheKey(c, key)
		fingerprint := bodyFingerprint(body)

		saved, err := store.Get(ctx, cacheKey)
		switch {
		case err == nil:
			if saved.Fingerprint != fingerprint {
				abortWithError(c, http.StatusUnprocessableEntity, "IDEMPOTENCY_KEY_REUSED",
					"Idempotency-Key was already used with a different request body")
				return
			}
			c.Header(IdempotencyReplayedHeader, "true")
			c.Data(saved.StatusCode, saved.ContentType, saved.Body)
			c.Abort()
			return
		case !errors.Is(err, ErrIdempotencyMiss):
			logger.Warn("idempotency lookup failed, processing without replay", zap.Error(err))
			c.Next()
			return
		}

		locked, err := store.Lock(ctx, cacheKey, idempotencyLockTTL)
		if err != nil {
			logger.Warn("idempotency lock failed, processing without replay", zap.Error(err))
			c.Next()
			return
		}
		if !locked {
			abortWithError(c, http.StatusConflict, "REQUEST_IN_PROGRESS",
				"a request with this Idempotency-Key is already being processed")
			return
		}
		defer func() {
			if err := store.Unlock(context.WithoutCancel(ctx), cacheKey); err != nil {
				logger.Warn("idempotency unlock failed", zap.Error(err))
			}
		}()

		rec := &bodyRecorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = rec
		c.Next()

		status := rec.Status()
		if status >= http.StatusInternalServerError {
			return
		}
		resp := &SavedResponse{
			Fingerprint: fingerprint,
			StatusCode:  status,
			ContentType: rec.Header().Get("Content-Type"),
			Body:        rec.body.Bytes(),
		}
		if err := store.Save(context.WithoutCancel(ctx), cacheKey, resp, ttl); err != nil {
			logger.Warn("idempotency save failed", zap.Error(err))
		}
	}
}

func idempotencyCacheKey(c *gin.Context, key string) string {
	sum := sha256.Sum256([]byte(GetUserID(c).String() + ":" + c.Request.Method + ":" + c.Request.URL.Path + ":" + key))
	return idempotencyKeyPrefix + hex.EncodeToString(sum[:])
}

func bodyFingerprint(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{"code": code, "message": message},
	})
}
