// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

package api

import (
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/tomtom215/scopeplot/internal/logging"
)

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusOK      = "ok"
)

// Error codes used in logs.
const (
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeTooManyRequests  = "TOO_MANY_REQUESTS"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeUnavailable      = "SERVICE_UNAVAILABLE"
)

// StatusResponse is the body of POST /data replies and every error reply.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	// Fields names the offending request fields on validation errors.
	Fields []string `json:"fields,omitempty"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status   string `json:"status"`
	Points   int    `json:"points"`
	Capacity int    `json:"capacity"`
	Evicted  uint64 `json:"evicted"`
	Clients  *int   `json:"clients,omitempty"`
}

// respondJSON marshals v with go-json and writes it with an ETag.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", generateETag(data))
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Debug().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag creates a weak-collision ETag from data using FNV-1a.
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return `"` + strconv.FormatUint(uint64(hash), 16) + `"`
}

// respondError writes {"status":"error","message":...}. err, when set, is
// logged with the code but never echoed to the client.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Warn().
			Str("code", code).
			Str("error", logging.SanitizeValue(err.Error())).
			Msg("API error")
	}
	respondJSON(w, status, StatusResponse{Status: StatusError, Message: message})
}

// notFound and methodNotAllowed replace chi's plain-text defaults.
func notFound(w http.ResponseWriter, _ *http.Request) {
	respondError(w, http.StatusNotFound, ErrCodeNotFound, "not found", nil)
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	respondError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed", nil)
}
