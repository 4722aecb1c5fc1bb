package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedHandler(limit int, window time.Duration) http.Handler {
	rl := NewRateLimiter(limit, window)
	return rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func doRequest(h http.Handler, ip string) int {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = ip + ":12345"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestAllowsUpToLimitWithinWindow(t *testing.T) {
	h := newLimitedHandler(3, time.Minute)

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, doRequest(h, "10.0.0.1"))
	}
	assert.Equal(t, http.StatusTooManyRequests, doRequest(h, "10.0.0.1"))
}

func TestLimitIsPerClient(t *testing.T) {
	h := newLimitedHandler(1, time.Minute)

	require.Equal(t, http.StatusOK, doRequest(h, "10.0.0.1"))
	require.Equal(t, http.StatusTooManyRequests, doRequest(h, "10.0.0.1"))
	assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.2"))
}

func TestWindowExpiryResetsCount(t *testing.T) {
	h := newLimitedHandler(1, 20*time.Millisecond)

	require.Equal(t, http.StatusOK, doRequest(h, "10.0.0.1"))
	require.Equal(t, http.StatusTooManyRequests, doRequest(h, "10.0.0.1"))

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.1"))
}

func TestProxyHeadersIdentifyClient(t *testing.T) {
	h := newLimitedHandler(1, time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "127.0.0.1:80"
	req.Header.Set("X-Real-IP", "203.0.113.9")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Same socket, different forwarded client: a fresh budget.
	req.Header.Set("X-Real-IP", "203.0.113.10")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
