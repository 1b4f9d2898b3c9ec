package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/straja-ai/resocheck/internal/analyzer"
	"github.com/straja-ai/resocheck/internal/config"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg, err := config.Load("testdata/does-not-exist.yaml")
	require.NoError(t, err)

	cfg.Server.Addr = "127.0.0.1:0"
	cfg.Server.PublicBaseURL = "https://resolutions.example.com/"
	cfg.Server.MaxRequestBodyBytes = 1024
	cfg.Server.MaxInputChars = 100
	cfg.Server.MaxBatchItems = 3
	cfg.Server.ShutdownTimeout = time.Second
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	s := New(cfg, zap.NewNop(), nil)
	s.newID = func() string { return "req-fixed" }
	return s
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func TestHandleHealth(t *testing.T) {
	rr := do(t, newTestServer(t, newTestConfig(t)), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok\n", rr.Body.String())
}

func TestHandleRobots(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/robots.txt", nil)
	rr := httptest.NewRecorder()

	handleRobots(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/plain", rr.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
	assert.Equal(t, "User-agent: *\nDisallow: /\n", rr.Body.String())
}

func TestRobotsRouteThroughMux(t *testing.T) {
	rr := do(t, newTestServer(t, newTestConfig(t)), http.MethodGet, "/robots.txt", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, robotsTxt, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get(requestIDHeader))
}

func TestAnalyzeGet(t *testing.T) {
	s := newTestServer(t, newTestConfig(t))
	rr := do(t, s, http.MethodGet, "/api/analyze?q=get+fit", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "req-fixed", rr.Header().Get(requestIDHeader))

	var resp analyzeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, analyzer.VerdictDelusional, resp.Result.Verdict)
	assert.Equal(t, 28, resp.Result.Score)
	assert.Equal(t, "https://resolutions.example.com/?q=get+fit", resp.ShareURL)
	assert.Equal(t, "req-fixed", resp.RequestID)
	assert.Nil(t, resp.Explain)
}

func TestAnalyzePostWithExplain(t *testing.T) {
	s := newTestServer(t, newTestConfig(t))
	rr := do(t, s, http.MethodPost, "/api/analyze?explain=1", `{"text":"become a billionaire by next month"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp analyzeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, analyzer.VerdictDelusional, resp.Result.Verdict)
	assert.Equal(t, 15, resp.Result.Score)
	require.NotNil(t, resp.Explain)
	assert.Equal(t, analyzer.PathHardFlag, resp.Explain.Path)
	assert.Equal(t, "extreme_keyword", resp.Explain.HardFlag)
}

func TestAnalyzeEmptyText(t *testing.T) {
	s := newTestServer(t, newTestConfig(t))
	rr := do(t, s, http.MethodPost, "/api/analyze", `{"text":"   "}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp analyzeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, analyzer.Analyze(""), resp.Result)
	assert.Equal(t, "https://resolutions.example.com/", resp.ShareURL)
}

func TestAnalyzeRejectsBadRequests(t *testing.T) {
	cases := []struct {
		name   string
		method string
		target string
		body   string
		status int
	}{
		{"bad json", http.MethodPost, "/api/analyze", `{"text":`, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/api/analyze", `{"txt":"x"}`, http.StatusBadRequest},
		{"too long", http.MethodPost, "/api/analyze", `{"text":"` + strings.Repeat("a", 101) + `"}`, http.StatusBadRequest},
		{"body too large", http.MethodPost, "/api/analyze", `{"text":"` + strings.Repeat("a", 2000) + `"}`, http.StatusRequestEntityTooLarge},
		{"wrong method", http.MethodDelete, "/api/analyze", "", http.StatusMethodNotAllowed},
		{"batch get", http.MethodGet, "/api/analyze/batch", "", http.StatusMethodNotAllowed},
		{"batch empty", http.MethodPost, "/api/analyze/batch", `{"texts":[]}`, http.StatusBadRequest},
		{"batch too many", http.MethodPost, "/api/analyze/batch", `{"texts":["a","b","c","d"]}`, http.StatusBadRequest},
		{"batch item too long", http.MethodPost, "/api/analyze/batch", `{"texts":["` + strings.Repeat("b", 101) + `"]}`, http.StatusBadRequest},
		{"rules post", http.MethodPost, "/api/rules", `{}`, http.StatusMethodNotAllowed},
	}

	s := newTestServer(t, newTestConfig(t))
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(t, s, tc.method, tc.target, tc.body)
			assert.Equal(t, tc.status, rr.Code)
			var body errorBody
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error.Message)
		})
	}
}

func TestBatch(t *testing.T) {
	s := newTestServer(t, newTestConfig(t))
	rr := do(t, s, http.MethodPost, "/api/analyze/batch", `{"texts":["get fit","Run 3x/week for 30 minutes","swim daily"]}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp batchResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 3)
	assert.Equal(t, analyzer.VerdictDelusional, resp.Items[0].Result.Verdict)
	assert.Equal(t, analyzer.VerdictAchievable, resp.Items[1].Result.Verdict)
	assert.Equal(t, analyzer.VerdictOptimistic, resp.Items[2].Result.Verdict)
	assert.Equal(t, 3, resp.Summary.Total)
}

func TestRules(t *testing.T) {
	s := newTestServer(t, newTestConfig(t))
	rr := do(t, s, http.MethodGet, "/api/rules", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var info analyzer.RuleSetInfo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &info))
	assert.Equal(t, analyzer.RuleSet(), info)
}

func TestConsoleRoute(t *testing.T) {
	s := newTestServer(t, newTestConfig(t))
	rr := do(t, s, http.MethodGet, "/?q=read+more+books", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Optimistic but possible")

	rr = do(t, s, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestClientRequestIDIsEchoed(t *testing.T) {
	s := newTestServer(t, newTestConfig(t))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "client-123")
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	assert.Equal(t, "client-123", rr.Header().Get(requestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "bad id with spaces")
	rr = httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	assert.Equal(t, "req-fixed", rr.Header().Get(requestIDHeader))
}

func TestDefaultRequestIDIsUUID(t *testing.T) {
	s := New(newTestConfig(t), nil, nil)
	rr := do(t, s, http.MethodGet, "/healthz", "")
	assert.Len(t, rr.Header().Get(requestIDHeader), 36)
}

func TestInputPreviewLogging(t *testing.T) {
	cases := []struct {
		mode    string
		want    string
		present bool
	}{
		{"none", "", false},
		{"redacted", "mail [REDACTED_EMAIL] 3x/week", true},
		{"full", "mail a@b.co 3x/week", true},
	}
	for _, tc := range cases {
		t.Run(tc.mode, func(t *testing.T) {
			core, logs := observer.New(zap.InfoLevel)
			cfg := newTestConfig(t)
			cfg.Logging.InputPreview = tc.mode
			s := New(cfg, zap.New(core), nil)

			rr := do(t, s, http.MethodPost, "/api/analyze", `{"text":"mail a@b.co 3x/week"}`)
			require.Equal(t, http.StatusOK, rr.Code)

			entries := logs.FilterMessage("analysis").All()
			require.Len(t, entries, 1)
			preview, ok := entries[0].ContextMap()["input_preview"]
			assert.Equal(t, tc.present, ok)
			if tc.present {
				assert.Equal(t, tc.want, preview)
			}
		})
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := newTestServer(t, newTestConfig(t))
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}, Timeout: 2 * time.Second}
	resp, err := client.Post("http://"+ln.Addr().String()+"/api/analyze", "application/json",
		bytes.NewBufferString(`{"text":"Read 12 books"}`))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
	client.CloseIdleConnections()
}
