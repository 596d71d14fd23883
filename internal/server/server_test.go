package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniel/resume-sentinel/internal/analyzer"
	"github.com/daniel/resume-sentinel/internal/background"
	"github.com/daniel/resume-sentinel/internal/cache"
	"github.com/daniel/resume-sentinel/internal/detectors"
	"github.com/daniel/resume-sentinel/internal/extraction"
	"github.com/daniel/resume-sentinel/internal/llm"
	"github.com/daniel/resume-sentinel/internal/types"
)

type stubLLM struct{}

func (s *stubLLM) GenerateContent(context.Context, string, llm.ModelTier) (string, error) {
	return "", errors.New("model disabled in tests")
}

func (s *stubLLM) GenerateJSON(context.Context, string, llm.ModelTier) (string, error) {
	return "", errors.New("model disabled in tests")
}

func (s *stubLLM) GetModel(llm.ModelTier) string { return "gemini-2.5-flash" }

func (s *stubLLM) Close() error { return nil }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	log := zerolog.Nop()
	client := &stubLLM{}

	a := analyzer.New(analyzer.Deps{
		Extractor: extraction.NewExtractor(client, log),
		AI:        detectors.NewAITextDetector(client, log),
		DocAuth:   detectors.NewDocAuthDetector(client, log),
		Contact:   detectors.NewContactVerifier(log, "US"),
		Security:  detectors.NewSecurityScanner(log),
		Verifier:  background.NewVerifier(background.Providers{}, log),
	}, log)

	mem := cache.NewMemory()
	t.Cleanup(mem.Close)

	s := New(Config{Port: 8080}, a, nil, mem, log)
	t.Cleanup(s.rateLimiter.Stop)
	return s
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, "GET", "/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestAIDetectEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, "POST", "/ai-detect", `{"text": "Results-driven professional."}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var result types.AIDetectionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	// model stub always fails, detector degrades to neutral
	assert.Equal(t, 50, result.Confidence)
	assert.False(t, result.IsAIGenerated)
}

func TestAIDetectRequiresText(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, "POST", "/ai-detect", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContactVerifyRejectsBadEmail(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, "POST", "/contact-verify", `{"email": "not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBackgroundVerifyNoClaims(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, "POST", "/background-verify", `{"full_name": "Jane Doe"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var report types.BackgroundReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 0.43, report.Score.Composite)
}

func TestBackgroundVerifyRequiresName(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, "POST", "/background-verify", `{"positions": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDigitalFootprintUnconfigured(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, "POST", "/digital-footprint", `{"full_name": "Jane Doe"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAnalyzeQuarantinesExecutable(t *testing.T) {
	s := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "resume.exe")
	require.NoError(t, err)
	_, err = part.Write([]byte("MZ\x90\x00payload"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/analyze", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp types.AnalysisResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Aggregated.OverallScore)
	assert.True(t, strings.HasPrefix(resp.RequestID, "req_"))
}

func TestAnalyzeRequiresFile(t *testing.T) {
	s := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "no file here"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/analyze", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalysesWithoutStore(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, "GET", "/analyses", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCacheStatsAndClear(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, "GET", "/cache/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats cache.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))

	rec = doJSON(t, s, "POST", "/cache/clear", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitExceeded(t *testing.T) {
	s := newTestServer(t)

	// /cache/clear allows a burst of 2
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = doJSON(t, s, "POST", "/cache/clear", "")
	}
	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.NotEmpty(t, last.Header().Get("Retry-After"))
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("OPTIONS", "/analyze", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
