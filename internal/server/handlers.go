package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/daniel/resume-sentinel/internal/db"
	"github.com/daniel/resume-sentinel/internal/types"
)

// maxRequestBody bounds uploads and JSON bodies. Matches the security
// scanner's own size limit.
const maxRequestBody = 50 << 20

// listAnalysesDefaultLimit caps /analyses pages.
const listAnalysesDefaultLimit = 20

// AIDetectRequest is the body for /ai-detect.
type AIDetectRequest struct {
	Text string `json:"text" validate:"required"`
}

// ContactVerifyRequest is the body for /contact-verify.
type ContactVerifyRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone,omitempty"`
	StatedLocation string `json:"stated_location,omitempty"`
}

// FootprintRequest is the body for /digital-footprint.
type FootprintRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email,omitempty"`
	Website  string `json:"website,omitempty" validate:"omitempty,url"`
}

// handleAnalyze accepts a multipart resume upload and runs the full
// pipeline.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	content, filename, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	resp := s.analyzer.AnalyzeFile(r.Context(), content, filename)
	s.persistAnalysis(r, filename, resp)
	s.jsonResponse(w, http.StatusOK, resp)
}

// persistAnalysis stores the report when a database is configured. Storage
// failure is logged, never surfaced to the caller.
func (s *Server) persistAnalysis(r *http.Request, filename string, resp *types.AnalysisResponse) {
	if s.store == nil {
		return
	}
	sha := ""
	if sec := resp.Aggregated.Evidence.Security; sec != nil {
		sha = sec.SHA256
	}
	if err := s.store.SaveAnalysis(r.Context(), filename, sha, resp); err != nil {
		s.log.Error().Err(err).Str("request_id", resp.RequestID).Msg("failed to persist analysis")
	}
}

func (s *Server) handleAIDetect(w http.ResponseWriter, r *http.Request) {
	var req AIDetectRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	s.jsonResponse(w, http.StatusOK, s.analyzer.DetectAI(r.Context(), req.Text))
}

func (s *Server) handleDocumentAuthenticity(w http.ResponseWriter, r *http.Request) {
	content, filename, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, s.analyzer.AnalyzeDocument(r.Context(), content, filename))
}

func (s *Server) handleContactVerify(w http.ResponseWriter, r *http.Request) {
	var req ContactVerifyRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	s.jsonResponse(w, http.StatusOK, s.analyzer.VerifyContact(r.Context(), req.Email, req.Phone, req.StatedLocation))
}

func (s *Server) handleBackgroundVerify(w http.ResponseWriter, r *http.Request) {
	var req types.BackgroundRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	report, err := s.analyzer.VerifyBackground(r.Context(), req)
	if err != nil {
		s.log.Error().Err(err).Msg("background verification failed")
		s.errorResponse(w, http.StatusBadGateway, "background verification failed")
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

func (s *Server) handleDigitalFootprint(w http.ResponseWriter, r *http.Request) {
	var req FootprintRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	result, ok := s.analyzer.AnalyzeFootprint(r.Context(), req.FullName, req.Email, req.Website)
	if !ok {
		s.errorResponse(w, http.StatusServiceUnavailable, "digital footprint analysis is not configured")
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "report persistence is not configured")
		return
	}

	limit := listAnalysesDefaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	records, err := s.store.ListAnalyses(r.Context(), limit)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list analyses")
		s.errorResponse(w, http.StatusInternalServerError, "failed to list analyses")
		return
	}
	if records == nil {
		records = []db.AnalysisRecord{}
	}
	s.jsonResponse(w, http.StatusOK, records)
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "report persistence is not configured")
		return
	}

	id := r.PathValue("id")
	record, err := s.store.GetAnalysis(r.Context(), id)
	if err != nil {
		s.log.Error().Err(err).Str("request_id", id).Msg("failed to get analysis")
		s.errorResponse(w, http.StatusInternalServerError, "failed to get analysis")
		return
	}
	if record == nil {
		s.errorResponse(w, http.StatusNotFound, "analysis not found: "+id)
		return
	}
	s.jsonResponse(w, http.StatusOK, record)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCacheStats(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.cache.Stats())
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	s.cache.Clear(r.Context())
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// readUpload reads the "file" part of a multipart upload, enforcing the
// request size limit. Writes the error response itself on failure.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (content []byte, filename string, ok bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := r.ParseMultipartForm(maxRequestBody); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid multipart request: "+err.Error())
		return nil, "", false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "file is required")
		return nil, "", false
	}
	defer file.Close()

	content, err = io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read upload: "+err.Error())
		return nil, "", false
	}
	return content, header.Filename, true
}

// decodeAndValidate decodes a JSON body into dst and runs struct validation.
// Writes the error response itself on failure.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) && len(invalid) > 0 {
			s.errorResponse(w, http.StatusBadRequest, "validation failed on field "+invalid[0].Field())
			return false
		}
		s.errorResponse(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return false
	}
	return true
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
