package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
)

// CorrelationHeader carries the client-chosen retry key for mutating
// requests. The ULID minted for requests that omit it is echoed back so the
// client can retry against it.
const CorrelationHeader = "X-Correlation-ID"

const idempotencyKeyPrefix = "idempotency:"

// Idempotency makes mutating requests safe to retry: the first 2xx response
// for a given X-Correlation-ID is cached in Redis for the TTL, and any
// request reusing that id gets the cached body back (marked with
// X-Idempotent-Replay) without reaching the handler. A nil redis client
// disables the middleware.
func Idempotency(redisClient *redis.Client, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if redisClient == nil {
			return c.Next()
		}
		switch c.Method() {
		case fiber.MethodPost, fiber.MethodPatch, fiber.MethodPut:
		default:
			return c.Next()
		}

		correlationID := c.Get(CorrelationHeader)
		if correlationID == "" {
			correlationID = ulid.Make().String()
			c.Set(CorrelationHeader, correlationID)
		}
		key := idempotencyKeyPrefix + correlationID

		if cached, err := redisClient.Get(context.Background(), key).Bytes(); err == nil && len(cached) > 0 {
			c.Set("X-Idempotent-Replay", "true")
			c.Set("Content-Type", "application/json")
			return c.Send(cached)
		}

		if err := c.Next(); err != nil {
			return err
		}

		if code := c.Response().StatusCode(); code >= 200 && code < 300 {
			cacheResponse(redisClient, key, c.Response().Body(), ttl)
		}
		return nil
	}
}

// cacheResponse writes the response body asynchronously so the client never
// waits on Redis. The body is copied first: fasthttp reuses the response
// buffer once the handler returns.
func cacheResponse(redisClient *redis.Client, key string, body []byte, ttl time.Duration) {
	if len(body) == 0 {
		return
	}
	payload := make([]byte, len(body))
	copy(payload, body)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		redisClient.Set(ctx, key, payload, ttl)
	}()
}
