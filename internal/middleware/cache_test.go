package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starbase-io/roster/internal/config"
)

func TestResponseCache_PassThroughWithoutRedis(t *testing.T) {
	mw := NewResponseCache(config.CacheConfig{
		Enabled: true,
		Methods: map[string]bool{"GET": true},
		TTL:     time.Second,
	}, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/persons", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.String(http.StatusOK, "live")
	})
	require.NoError(t, h(c))
	assert.True(t, called)
	assert.Equal(t, "live", rec.Body.String())
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestRateLimit_PassThroughWhenDisabled(t *testing.T) {
	mw := NewRateLimit(config.RateLimitConfig{Enabled: false}, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/persons", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

// A sub-second window must not break the bucket computation; the limiter
// buckets by milliseconds and fails open when Redis is unreachable.
func TestRateLimit_SubSecondWindow(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	mw := NewRateLimit(config.RateLimitConfig{
		Enabled: true,
		Limit:   5,
		Window:  500 * time.Millisecond,
		Prefix:  "rl",
	}, rdb)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/persons", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	assert.NotPanics(t, func() {
		require.NoError(t, h(c))
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCaptureWriterLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}

	_, err := cw.Write([]byte("abcd"))
	require.NoError(t, err)
	_, err = cw.Write([]byte("efgh"))
	require.NoError(t, err)

	// The client saw everything; the buffer kept only what fit.
	assert.Equal(t, "abcdefgh", rec.Body.String())
	assert.Equal(t, "abcd", cw.buf.String())
	assert.Equal(t, int64(8), cw.size)
}
