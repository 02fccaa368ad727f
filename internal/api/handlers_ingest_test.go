// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

package api

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/scopeplot/internal/metrics"
)

func TestIngestData_Success(t *testing.T) {
	env := newTestEnv(t, 8, testConfig())
	before := testutil.ToFloat64(metrics.IngestPoints.WithLabelValues("accepted"))

	w := postData(env.handler.IngestData, `{"x": 12.34, "y": 56.78}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"status":"success"}` {
		t.Errorf("body = %s, want {\"status\":\"success\"}", got)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	last, ok := env.buf.Last()
	if !ok {
		t.Fatal("buffer empty after successful ingest")
	}
	if last.X != 12.34 || last.Y != 56.78 {
		t.Errorf("last point = (%v, %v), want (12.34, 56.78)", last.X, last.Y)
	}

	after := testutil.ToFloat64(metrics.IngestPoints.WithLabelValues("accepted"))
	if after-before != 1 {
		t.Errorf("accepted counter delta = %v, want 1", after-before)
	}
}

func TestIngestData_AcceptsZeroAndNegative(t *testing.T) {
	env := newTestEnv(t, 8, testConfig())

	w := postData(env.handler.IngestData, `{"x":0,"y":-1.5e3,"label":"ignored"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	last, _ := env.buf.Last()
	if last.X != 0 || last.Y != -1500 {
		t.Errorf("last point = (%v, %v), want (0, -1500)", last.X, last.Y)
	}
}

func TestIngestData_Rejects(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantMessage string
	}{
		{"string coordinate", `{"x":"abc","y":1}`, "x must be a number"},
		{"boolean coordinate", `{"x":true,"y":1}`, "x must be a number"},
		{"numeric string y", `{"x":1,"y":"12"}`, "y must be a number"},
		{"object coordinate", `{"x":{"v":1},"y":[2]}`, "x must be a number; y must be a number"},
		{"uppercase keys", `{"X":1,"Y":2}`, "x is required; y is required"},
		{"missing y", `{"x":1}`, "y is required"},
		{"missing both", `{}`, "is required"},
		{"null x", `{"x":null,"y":1}`, "x is required"},
		{"empty body", ``, ErrEmptyBody.Error()},
		{"whitespace body", "  \n\t", ErrEmptyBody.Error()},
		{"top-level null", `null`, ErrNotJSONObject.Error()},
		{"top-level array", `[1,2]`, ErrNotJSONObject.Error()},
		{"bare number", `42`, ErrNotJSONObject.Error()},
		{"truncated", `{"x":1,"y":`, ""},
		{"not json", `{x:1,y:2}`, ""},
		{"trailing garbage", `{"x":1,"y":2}garbage`, ErrTrailingData.Error()},
		{"two objects", `{"x":1,"y":2}{"x":3,"y":4}`, ErrTrailingData.Error()},
		{"too large", `{"x":1,"y":2` + strings.Repeat(" ", 300) + `}`, ErrBodyTooLarge.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, 8, testConfig())
			env.buf.Append(1, 1)
			before := env.buf.Snapshot()
			rejected := testutil.ToFloat64(metrics.IngestPoints.WithLabelValues("rejected"))

			w := postData(env.handler.IngestData, tt.body)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", w.Code, w.Body.String())
			}
			resp := decodeStatus(t, w)
			if resp.Status != StatusError {
				t.Errorf("status field = %q, want error", resp.Status)
			}
			if resp.Message == "" {
				t.Error("message is empty")
			}
			if tt.wantMessage != "" && !strings.Contains(resp.Message, tt.wantMessage) {
				t.Errorf("message = %q, want it to contain %q", resp.Message, tt.wantMessage)
			}

			after := env.buf.Snapshot()
			if len(after) != len(before) || after[0] != before[0] {
				t.Errorf("buffer changed: before %v, after %v", before, after)
			}
			if got := testutil.ToFloat64(metrics.IngestPoints.WithLabelValues("rejected")) - rejected; got != 1 {
				t.Errorf("rejected counter delta = %v, want 1", got)
			}
		})
	}
}

func TestIngestData_ValidationFields(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantFields []string
	}{
		{"missing y", `{"x":1}`, []string{"y"}},
		{"missing both", `{}`, []string{"x", "y"}},
		{"wrong type", `{"x":"abc","y":1}`, nil},
		{"not json", `{x:1}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, 8, testConfig())

			w := postData(env.handler.IngestData, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", w.Code, w.Body.String())
			}
			resp := decodeStatus(t, w)
			if diff := cmp.Diff(tt.wantFields, resp.Fields, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("fields mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIngestData_EvictsOldest(t *testing.T) {
	env := newTestEnv(t, 3, testConfig())
	evictions := testutil.ToFloat64(metrics.BufferEvictions)

	for i := 0; i < 5; i++ {
		w := postData(env.handler.IngestData, fmt.Sprintf(`{"x":%d,"y":%d}`, i, i*10))
		if w.Code != http.StatusOK {
			t.Fatalf("post %d: status = %d", i, w.Code)
		}
	}

	snap := env.buf.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("len = %d, want 3", len(snap))
	}
	for i, p := range snap {
		if p.X != float64(i+2) {
			t.Errorf("snap[%d].X = %v, want %d", i, p.X, i+2)
		}
	}
	if got := testutil.ToFloat64(metrics.BufferEvictions) - evictions; got != 2 {
		t.Errorf("eviction counter delta = %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.BufferPoints); got != 3 {
		t.Errorf("buffer_points gauge = %v, want 3", got)
	}
}

func TestIngestData_Concurrent(t *testing.T) {
	const posts = 50
	env := newTestEnv(t, 100, testConfig())

	var wg sync.WaitGroup
	for i := 0; i < posts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := postData(env.handler.IngestData, fmt.Sprintf(`{"x":%d,"y":1}`, i))
			if w.Code != http.StatusOK {
				t.Errorf("post %d: status = %d", i, w.Code)
			}
		}(i)
	}
	wg.Wait()

	snap := env.buf.Snapshot()
	if len(snap) != posts {
		t.Fatalf("len = %d, want %d", len(snap), posts)
	}
	seen := make(map[float64]bool, posts)
	for _, p := range snap {
		seen[p.X] = true
	}
	for i := 0; i < posts; i++ {
		if !seen[float64(i)] {
			t.Errorf("point x=%d missing", i)
		}
	}
}

func TestIngestHealth(t *testing.T) {
	env := newTestEnv(t, 10, testConfig())
	env.buf.Append(1, 2)
	env.buf.Append(3, 4)

	w := postData(env.handler.IngestHealth, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp["status"] != "ok" || resp["points"] != float64(2) || resp["capacity"] != float64(10) {
		t.Errorf("health = %v", resp)
	}
	if _, ok := resp["clients"]; ok {
		t.Error("ingest health should not report clients")
	}
}
