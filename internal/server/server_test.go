package server

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

// newTestServer wires the full server (temp-file database, real router and
// middleware chain) without binding a port — requests go straight to the mux.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv, err := New(Config{
		Port:           0,
		DBPath:         filepath.Join(t.TempDir(), "accounts.db"),
		AllowedOrigins: []string{"*"},
		BcryptCost:     bcrypt.MinCost,
	}, logger)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { srv.db.Close() })
	return srv
}

func TestRouter_RequestIDOnEveryResponse(t *testing.T) {
	srv := newTestServer(t)

	// Every route carries the header, success or failure alike.
	requests := []struct {
		method, target, body string
	}{
		{http.MethodGet, "/health", ""},
		{http.MethodPost, "/check-duplicate", `{"username":"alice"}`},
		{http.MethodPost, "/login", `{"username":"ghost","password":"nope"}`},
		{http.MethodGet, "/no-such-route", ""},
	}

	for _, tc := range requests {
		req := httptest.NewRequest(tc.method, tc.target, bytes.NewBufferString(tc.body))
		rr := httptest.NewRecorder()
		srv.router.ServeHTTP(rr, req)

		assert.NotEmpty(t, rr.Header().Get("X-Request-ID"),
			"%s %s: missing X-Request-ID", tc.method, tc.target)
	}
}

func TestRouter_RequestIDEchoed(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "proxy-assigned-id")
	rr := httptest.NewRecorder()
	srv.router.ServeHTTP(rr, req)

	assert.Equal(t, "proxy-assigned-id", rr.Header().Get("X-Request-ID"))
}

func TestRouter_CORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/signup", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	rr := httptest.NewRecorder()
	srv.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestRouter_CORSOnActualRequest(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://example.com")
	rr := httptest.NewRecorder()
	srv.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

// End-to-end through the assembled router: signup, duplicate check, login.
func TestRouter_SignupLoginRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	post := func(target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		srv.router.ServeHTTP(rr, req)
		return rr
	}

	rr := post("/signup", `{"username":"alice","password":"secret","nickname":"Al","age":30,"gender":"f"}`)
	assert.Equal(t, http.StatusCreated, rr.Code)

	rr = post("/check-duplicate", `{"username":"alice"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"available":false`)

	rr = post("/login", `{"username":"alice","password":"secret"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"nickname":"Al"`)
}
