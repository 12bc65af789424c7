// Package server exposes the assistant over HTTP.
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/dercryptomuslim/umrahcheck-crm-dashboard-sub001/internal/assistant"
	stderrors "github.com/dercryptomuslim/umrahcheck-crm-dashboard-sub001/internal/common/errors"
	"github.com/dercryptomuslim/umrahcheck-crm-dashboard-sub001/internal/common/logger"
	"github.com/dercryptomuslim/umrahcheck-crm-dashboard-sub001/internal/common/observability"
	"github.com/dercryptomuslim/umrahcheck-crm-dashboard-sub001/internal/common/validation"
)

const maxRequestBody = 64 * 1024

type Server struct {
	service *assistant.Service
	obs     *observability.Observability
	log     logger.Logger
}

func New(service *assistant.Service, obs *observability.Observability, log logger.Logger) *Server {
	return &Server{service: service, obs: obs, log: log}
}

// Routes registers the assistant endpoints on the given mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/api/assistant/query", s.handleQuery)
	mux.HandleFunc("/api/assistant/history", s.handleHistory)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "only POST is supported", "")
		return
	}

	ctx, span := s.obs.StartSpan(r.Context(), "assistant.query")
	defer span.End()
	started := time.Now()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "could not read request body", "")
		return
	}

	result, err := validation.ValidateQueryRequest(body)
	if err != nil || !result.Valid {
		details := ""
		if result != nil && len(result.Errors) > 0 {
			details = result.Errors[0]
		}
		s.writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "request failed schema validation", details)
		return
	}

	var req assistant.QueryRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "malformed JSON body", "")
		return
	}

	resp, err := s.service.Query(ctx, &req)
	if err != nil {
		s.obs.RecordQueryProcessed(ctx, "unknown", "error")
		s.writeServiceError(w, err)
		return
	}

	s.obs.RecordQueryProcessed(ctx, string(resp.Domain), "success")
	s.obs.RecordQueryDuration(ctx, time.Since(started), string(resp.Domain))
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "only GET is supported", "")
		return
	}

	tenantID := r.URL.Query().Get("tenantId")
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	messages, err := s.service.History(r.Context(), tenantID, limit)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"messages": messages,
		"count":    len(messages),
	})
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	if stdErr := stderrors.AsStandard(err); stdErr != nil {
		s.writeError(w, stdErr.HTTPStatus(), string(stdErr.Code), stdErr.Message, stdErr.Details)
		return
	}
	s.log.WithError(err).Error("Unhandled service error", nil)
	s.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", "")
}

func (s *Server) writeError(w http.ResponseWriter, status int, code, message, details string) {
	s.writeJSON(w, status, errorResponse{Code: code, Message: message, Details: details})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.WithError(err).Error("Failed to encode response", nil)
	}
}
