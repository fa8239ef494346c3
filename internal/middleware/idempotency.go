package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
)

// storedResponse is the replayable copy of a completed request.
type storedResponse struct {
	StatusCode int             `json:"status_code"`
	Body       json.RawMessage `json:"body"`
}

// captureWriter wraps gin.ResponseWriter to keep a copy of the body.
type captureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response for a repeated mutating
// request carrying the same Idempotency-Key. Keys are scoped to the
// authenticated caller so two users cannot collide on a key. A Redis
// outage degrades to processing the request normally.
func Idempotency(redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			c.Next()
			return
		}

		key := c.GetHeader(idempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		scope := "anon"
		if p := PrincipalFrom(c); p != nil {
			scope = p.Email
		}
		cacheKey := "idempotency:" + scope + ":" + key

		ctx := c.Request.Context()
		stored, err := loadResponse(ctx, redisClient, cacheKey)
		if err != nil && err != redis.Nil {
			c.Next()
			return
		}

		if stored != nil {
			c.Data(stored.StatusCode, "application/json", stored.Body)
			c.Abort()
			return
		}

		w := &captureWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = w

		c.Next()

		// Server errors are retryable, so only completed outcomes replay.
		if c.Writer.Status() >= 200 && c.Writer.Status() < 500 {
			_ = storeResponse(ctx, redisClient, cacheKey, &storedResponse{
				StatusCode: c.Writer.Status(),
				Body:       w.body.Bytes(),
			})
		}
	}
}

func loadResponse(ctx context.Context, client *redis.Client, key string) (*storedResponse, error) {
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}

	var stored storedResponse
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}

	return &stored, nil
}

func storeResponse(ctx context.Context, client *redis.Client, key string, response *storedResponse) error {
	data, err := json.Marshal(response)
	if err != nil {
		return err
	}

	return client.Set(ctx, key, data, idempotencyTTL).Err()
}
