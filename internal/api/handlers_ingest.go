// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/scopeplot/internal/logging"
	"github.com/tomtom215/scopeplot/internal/metrics"
	"github.com/tomtom215/scopeplot/internal/validation"
)

// IngestData handles POST /data. A valid {"x":..,"y":..} body is appended to
// the buffer; anything else is a 400 and leaves the buffer untouched.
func (h *Handler) IngestData(w http.ResponseWriter, r *http.Request) {
	req, err := decodeDataPoint(w, r, h.maxBodyBytes())
	if err != nil {
		metrics.RecordIngest(false)

		resp := StatusResponse{Status: StatusError, Message: err.Error()}
		code := ErrCodeBadRequest
		var verr *validation.RequestValidationError
		if errors.As(err, &verr) {
			apiErr := verr.ToAPIError()
			code = apiErr.Code
			resp.Message = apiErr.Message
			resp.Fields = apiErr.Fields
		}
		logging.Ctx(r.Context()).Debug().
			Str("code", code).
			Str("error", logging.SanitizeValue(err.Error())).
			Msg("Rejected data point")
		respondJSON(w, http.StatusBadRequest, resp)
		return
	}

	p, evicted := h.buf.Append(*req.X, *req.Y)
	metrics.RecordAppend(h.buf.Len(), evicted)
	metrics.RecordIngest(true)

	logging.Ctx(r.Context()).Trace().
		Uint64("seq", p.Seq).
		Float64("x", p.X).
		Float64("y", p.Y).
		Bool("evicted", evicted).
		Msg("Appended data point")

	respondJSON(w, http.StatusOK, StatusResponse{Status: StatusSuccess})
}

// IngestHealth handles GET /healthz on the ingest server.
func (h *Handler) IngestHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.health(nil))
}

func (h *Handler) health(clients *int) HealthResponse {
	return HealthResponse{
		Status:   StatusOK,
		Points:   h.buf.Len(),
		Capacity: h.buf.Cap(),
		Evicted:  h.buf.Evicted(),
		Clients:  clients,
	}
}
