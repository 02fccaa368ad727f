// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared process-wide. Field names in error
// messages come from the json tag so that clients see the same key they sent
// ("x is required", not "X is required").
//
// # Quick Start
//
//	type DataPoint struct {
//	    X *float64 `json:"x" validate:"required,finite"`
//	    Y *float64 `json:"y" validate:"required,finite"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    // apiErr.Code is VALIDATION_ERROR, apiErr.Fields is ["x"] etc.
//	    respondJSON(w, http.StatusBadRequest, StatusResponse{
//	        Status: "error", Message: apiErr.Message, Fields: apiErr.Fields,
//	    })
//	    return
//	}
//
// # Custom Tags
//
//   - finite: a float that is neither NaN nor ±Inf
//
// The singleton is safe for concurrent use.
package validation
