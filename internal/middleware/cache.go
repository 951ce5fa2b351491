package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/satomiya/keikocho/internal/config"
)

// ResponseCache caches successful GET responses in Redis.  Every key
// carries a generation number; mutating requests advance the counter,
// which strands all older entries until their TTL reaps them.  The
// journal is write-light, so dropping the whole cache on a write is
// cheaper than tracking which lessons a response touched.
type ResponseCache struct {
	cfg config.CacheConfig
	rdb *redis.Client
}

// NewResponseCache builds the cache around cfg and rdb.  A nil client
// or a disabled config turns the middleware into a pass-through.
func NewResponseCache(cfg config.CacheConfig, rdb *redis.Client) *ResponseCache {
	return &ResponseCache{cfg: cfg, rdb: rdb}
}

func (rc *ResponseCache) enabled() bool {
	return rc != nil && rc.cfg.Enabled && rc.rdb != nil
}

// Middleware serves GETs from Redis when a fresh entry exists and
// advances the generation after any successful non-GET request.
func (rc *ResponseCache) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rc.enabled() {
				return next(c)
			}

			if c.Request().Method != http.MethodGet {
				err := next(c)
				if err == nil && c.Response().Status < http.StatusBadRequest {
					rc.bump()
				}
				return err
			}

			ctx := c.Request().Context()
			key := rc.key(rc.generation(ctx), c)

			if bs, err := rc.rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					for k, vals := range hdr {
						if strings.EqualFold(k, "Content-Length") {
							continue
						}
						for _, v := range vals {
							c.Response().Header().Add(k, v)
						}
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					if len(body) > 0 {
						_, _ = c.Response().Write(body)
					}
					return nil
				}
			}

			cw := &captureWriter{
				ResponseWriter: c.Response().Writer,
				status:         http.StatusOK,
				limit:          int64(rc.cfg.MaxBodyBytes),
			}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			// Oversized bodies are served but never stored; a truncated
			// cache entry must not exist.
			if cw.status == http.StatusOK && !cw.overflowed() {
				if payload, err := encodePayload(cw.status, c.Response().Header().Clone(), cw.buf.Bytes()); err == nil {
					ttl := rc.cfg.TTL
					if ttl <= 0 {
						ttl = 30 * time.Second
					}
					_ = rc.rdb.SetEx(context.Background(), key, payload, ttl).Err()
				}
			}
			return nil
		}
	}
}

func (rc *ResponseCache) genKey() string {
	return rc.cfg.Prefix + ":gen"
}

func (rc *ResponseCache) generation(ctx context.Context) int64 {
	n, err := rc.rdb.Get(ctx, rc.genKey()).Int64()
	if err != nil {
		return 0
	}
	return n
}

// bump runs on the background context: the response has already been
// sent and the request context may be gone.
func (rc *ResponseCache) bump() {
	_ = rc.rdb.Incr(context.Background(), rc.genKey()).Err()
}

// key hashes the concrete request path, not the route pattern, so
// /lessons/1 and /lessons/2 never share an entry.
func (rc *ResponseCache) key(gen int64, c echo.Context) string {
	r := c.Request()
	sum := sha1.Sum([]byte(r.URL.Path + "?" + r.URL.RawQuery))
	return fmt.Sprintf("%s:v%d:%x", rc.cfg.Prefix, gen, sum[:])
}

// captureWriter tees the response body into a buffer while forwarding
// it to the client, up to limit bytes.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	cw.size += int64(len(b))
	if cw.limit <= 0 || cw.size <= cw.limit {
		cw.buf.Write(b)
	}
	return cw.ResponseWriter.Write(b)
}

func (cw *captureWriter) overflowed() bool {
	return cw.limit > 0 && cw.size > cw.limit
}

// encodePayload packs a response as [4 bytes status][4 bytes header
// length][header JSON][body] so the replayed response keeps the exact
// headers and formatting of the original.
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:8+len(hdrJSON)], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	header = make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, header, bs[8+hlen:], true
}
