package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeVersion(t *testing.T) {
	cfg := validConfig()
	errs := make(chan error, 4)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/version", nil)
	serveVersion(cfg, errs)(w, r, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "quizbox v"+releaseVersion+"\n", w.Body.String())
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestServeHealthCheck(t *testing.T) {
	cfg := validConfig()
	errs := make(chan error, 4)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	serveHealthCheck(cfg, errs)(w, r, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ok\n", w.Body.String())
}

func TestServeRobots(t *testing.T) {
	cfg := validConfig()
	errs := make(chan error, 4)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/robots.txt", nil)
	serveRobots(cfg, errs)(w, r, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Disallow: /")
}

func TestSecurityHeaders(t *testing.T) {
	cfg := validConfig()

	w := httptest.NewRecorder()
	securityHeaders(cfg, w)

	assert.NotEmpty(t, w.Header().Get("Content-Security-Policy"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))

	cfg.tlsCert = "/path/to/cert"
	cfg.tlsKey = "/path/to/key"

	w = httptest.NewRecorder()
	securityHeaders(cfg, w)
	assert.NotEmpty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestServeGamePageSetsCookie(t *testing.T) {
	cfg := validConfig()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/quiz/ABC123", nil)
	serveGamePage(cfg)(w, r, httprouter.Params{{Key: "gameid", Value: "ABC123"}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "<html")

	var found bool
	for _, c := range w.Result().Cookies() {
		if c.Name == playerCookieName && c.Value != "" {
			found = true
		}
	}
	assert.True(t, found, "expected a %s cookie to be set", playerCookieName)
}

func TestGetOrSetPlayerIDKeepsExistingCookie(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/quiz/ABC123", nil)
	r.AddCookie(&http.Cookie{Name: playerCookieName, Value: "existing"})

	assert.Equal(t, "existing", getOrSetPlayerID(w, r))
	assert.Empty(t, w.Result().Cookies())
}

func TestWebSocketRejectsInvalidGameID(t *testing.T) {
	cfg := testConfig()
	dir := newSessionDirectory(cfg, &stubGenerator{err: errGeneratorDisabled})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/quiz/nope/ws", nil)
	serveWSForDirectory(cfg, dir)(w, r, httprouter.Params{{Key: "gameid", Value: "nope"}})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Zero(t, dir.count())
}

func TestRedirectNewGameIssuesValidID(t *testing.T) {
	cfg := validConfig()
	dir := newSessionDirectory(cfg, &stubGenerator{err: errGeneratorDisabled})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/quiz", nil)
	redirectNewGame(cfg, "/quiz", dir)(w, r, nil)

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)

	location := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/quiz/"), "unexpected redirect %q", location)
	assert.True(t, validGameID(strings.TrimPrefix(location, "/quiz/")))
}

func TestQRHandler(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/quiz/ABC123/qr", nil)
	qrHandler(w, r, httprouter.Params{{Key: "gameid", Value: "ABC123"}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "\x89PNG"), "expected a PNG payload")
}

func TestRealIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	assert.Equal(t, "10.0.0.1:1234", realIP(r))

	r.Header.Set("X-Real-IP", "203.0.113.7")
	assert.Equal(t, "203.0.113.7:1234", realIP(r))

	r.Header.Set("CF-Connecting-IP", "198.51.100.9")
	assert.Equal(t, "198.51.100.9:1234", realIP(r))
}
