// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/scopeplot/internal/validation"
)

// DataPointRequest is the body of POST /data. Pointer fields distinguish a
// missing or null coordinate from zero. Keys are matched exactly, so "X" is
// not "x".
type DataPointRequest struct {
	X *float64 `json:"x" validate:"required,finite"`
	Y *float64 `json:"y" validate:"required,finite"`
}

// Ingest decoding errors. Each maps to a 400 reply whose message is the
// error text.
var (
	ErrEmptyBody     = errors.New("request body is empty")
	ErrBodyTooLarge  = errors.New("request body too large")
	ErrTrailingData  = errors.New("request body must contain a single JSON object")
	ErrNotJSONObject = errors.New("request body must be a JSON object")
)

// decodeDataPoint reads at most maxBytes of r's body and decodes exactly one
// JSON object into a validated DataPointRequest.
func decodeDataPoint(w http.ResponseWriter, r *http.Request, maxBytes int64) (*DataPointRequest, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, ErrBodyTooLarge
		}
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, ErrEmptyBody
	}
	if trimmed[0] != '{' {
		return nil, ErrNotJSONObject
	}

	var fields map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&fields); err != nil {
		return nil, describeDecodeError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, ErrTrailingData
	}

	var req DataPointRequest
	var typeErrs []string
	for _, c := range []struct {
		key string
		dst **float64
	}{{"x", &req.X}, {"y", &req.Y}} {
		v, err := coordinate(fields[c.key])
		if err != nil {
			typeErrs = append(typeErrs, c.key+" must be a number")
			continue
		}
		*c.dst = v
	}
	if len(typeErrs) > 0 {
		return nil, errors.New(strings.Join(typeErrs, "; "))
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
		return nil, verr
	}
	return &req, nil
}

// coordinate decodes one exactly-named member. A missing member or JSON null
// yields nil so validation reports it as required; anything other than a
// JSON number is an error.
func coordinate(raw json.RawMessage) (*float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if c := raw[0]; c != '-' && (c < '0' || c > '9') {
		return nil, errNotNumber
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, errNotNumber
	}
	return &v, nil
}

var errNotNumber = errors.New("not a number")

// describeDecodeError turns go-json syntax errors into client-facing messages.
func describeDecodeError(err error) error {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return fmt.Errorf("invalid JSON at offset %d", syntaxErr.Offset)
	}

	if errors.Is(err, io.ErrUnexpectedEOF) {
		return errors.New("invalid JSON: unexpected end of input")
	}
	return fmt.Errorf("invalid JSON: %w", err)
}
