package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/qingyun/xiuxian/server/api/response"
	apirest "github.com/qingyun/xiuxian/server/api/rest"
	"github.com/qingyun/xiuxian/server/audit"
	"github.com/qingyun/xiuxian/server/cache"
	"github.com/qingyun/xiuxian/server/config"
	"github.com/qingyun/xiuxian/server/dal"
	"github.com/qingyun/xiuxian/server/game/character"
	mw "github.com/qingyun/xiuxian/server/middleware"
	"github.com/qingyun/xiuxian/server/resource"
	"github.com/qingyun/xiuxian/server/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// TestServer wraps a real HTTP server with the character service wired the
// way main.go wires it.
type TestServer struct {
	DB     *gorm.DB
	Cache  cache.Cache
	Audit  *audit.Service
	Svc    *character.Service
	Res    *resource.ResourceLoader
	Server *httptest.Server
	URL    string
	Sec    config.SecurityConfig
}

// Options adjusts a TestServer before it starts.
type Options struct {
	SeedDir string
	Game    *config.GameConfig
	Sec     *config.SecurityConfig
}

// NewTestServer creates a fully wired server for integration testing.
func NewTestServer(t *testing.T, opts Options) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.SetupTestDB(t)
	c := testutil.SetupTestCache(t)
	logger := zap.NewNop()

	sec := config.SecurityConfig{RateLimitRPS: 1000, RateLimitBurst: 2000}
	if opts.Sec != nil {
		sec = *opts.Sec
	}
	rules := config.DefaultGame()
	if opts.Game != nil {
		rules = *opts.Game
	}

	res := resource.NewLoader(opts.SeedDir, db, logger)
	require.NoError(t, res.Load(context.Background()), "seed reference data")

	auditSvc := audit.New(db, logger)
	reg := dal.NewRegistry(db)
	svc := character.NewService(reg, c, rules, logger, character.WithAudit(auditSvc))

	r := gin.New()
	r.Use(mw.TraceID(), mw.Recovery(logger))
	r.Use(mw.RateLimit(rate.Limit(sec.RateLimitRPS), sec.RateLimitBurst))
	r.GET("/health", func(ctx *gin.Context) {
		response.OK(ctx, gin.H{"status": "ok"})
	})
	apirest.Register(r.Group("/api"), svc, reg, logger)

	server := httptest.NewServer(r)
	ts := &TestServer{
		DB:     db,
		Cache:  c,
		Audit:  auditSvc,
		Svc:    svc,
		Res:    res,
		Server: server,
		URL:    server.URL,
		Sec:    sec,
	}
	t.Cleanup(ts.Close)
	return ts
}

// Close shuts down the server and flushes the audit writer. It is safe to
// call more than once.
func (ts *TestServer) Close() {
	ts.Server.Close()
	ts.Audit.Stop(context.Background())
}

// --- HTTP helpers ---

// Envelope is the decoded body of every response.
type Envelope struct {
	response.Envelope
	Data  json.RawMessage `json:"data"`
	Error *response.Error `json:"error"`
}

// Do sends a request with an optional JSON body and decodes the envelope.
func (ts *TestServer) Do(t *testing.T, method, path string, body any, header http.Header) (*http.Response, Envelope) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.URL+path, rd)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env Envelope
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return resp, env
}

// PostJSON sends a POST request with a JSON body.
func (ts *TestServer) PostJSON(t *testing.T, path string, body any) (*http.Response, Envelope) {
	t.Helper()
	return ts.Do(t, http.MethodPost, path, body, nil)
}

// Get sends a GET request.
func (ts *TestServer) Get(t *testing.T, path string) (*http.Response, Envelope) {
	t.Helper()
	return ts.Do(t, http.MethodGet, path, nil, nil)
}

// Decode unmarshals the envelope data into v.
func Decode(t *testing.T, env Envelope, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v))
}
