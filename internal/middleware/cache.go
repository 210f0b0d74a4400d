package middleware

import (
    "bytes"
    "context"
    "crypto/sha1"
    "encoding/json"
    "fmt"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/translation-trainer/internal/config"
)

// cachedResponse is the envelope stored in Redis for one cached response.
type cachedResponse struct {
    Status      int    `json:"status"`
    ContentType string `json:"content_type"`
    Body        []byte `json:"body"`
}

// bodyRecorder captures the response body and status while forwarding both
// to the client, so a successful response can be stored after the handler
// runs.
type bodyRecorder struct {
    http.ResponseWriter
    status int
    buf    bytes.Buffer
    limit  int
}

func (r *bodyRecorder) WriteHeader(code int) {
    r.status = code
    r.ResponseWriter.WriteHeader(code)
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
    if r.buf.Len()+len(b) <= r.limit {
        r.buf.Write(b)
    } else {
        // Oversized responses are passed through but never cached.
        r.buf.Reset()
        r.limit = 0
    }
    return r.ResponseWriter.Write(b)
}

// ResponseCache returns a middleware that serves GET responses from Redis.
// Entries are keyed on route, query string and the authenticated user so
// one user's vocabulary list is never served to another.  Like the rate
// limiter, the cache degrades to a pass-through when disabled, when Redis
// is unavailable, or on any Redis error.
func ResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc {
            return func(c echo.Context) error { return next(c) }
        }
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if c.Request().Method != http.MethodGet {
                return next(c)
            }
            key := cacheKey(cfg.Prefix, c)
            ctx := c.Request().Context()

            if raw, err := rdb.Get(ctx, key).Bytes(); err == nil {
                var cached cachedResponse
                if json.Unmarshal(raw, &cached) == nil {
                    c.Response().Header().Set("X-Cache", "HIT")
                    return c.Blob(cached.Status, cached.ContentType, cached.Body)
                }
            }

            rec := &bodyRecorder{
                ResponseWriter: c.Response().Writer,
                status:         http.StatusOK,
                limit:          cfg.MaxBodyBytes,
            }
            c.Response().Header().Set("X-Cache", "MISS")
            c.Response().Writer = rec

            if err := next(c); err != nil {
                return err
            }

            if rec.status == http.StatusOK && rec.buf.Len() > 0 {
                payload, err := json.Marshal(cachedResponse{
                    Status:      rec.status,
                    ContentType: c.Response().Header().Get(echo.HeaderContentType),
                    Body:        rec.buf.Bytes(),
                })
                if err == nil {
                    // The request context may already be done once the
                    // response is written; store with its own deadline.
                    setCtx, cancel := context.WithTimeout(context.Background(), time.Second)
                    defer cancel()
                    _ = rdb.Set(setCtx, key, payload, cfg.TTL).Err()
                }
            }
            return nil
        }
    }
}

// cacheKey hashes the varying parts so keys stay short regardless of query
// string length.
func cacheKey(prefix string, c echo.Context) string {
    tail := fmt.Sprintf("%s?%s|user=%s", c.Path(), c.Request().URL.RawQuery, contextUserID(c))
    sum := sha1.Sum([]byte(tail))
    return fmt.Sprintf("%s:%x", prefix, sum[:])
}
