package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"

	"github.com/abapscan/abapscan/internal/catalog"
	"github.com/abapscan/abapscan/internal/remediate"
	"github.com/abapscan/abapscan/internal/scanner"
	"github.com/abapscan/abapscan/pkg/shared/config"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()

	cfg := &config.Config{}
	if err := config.ValidateServerConfig(&cfg.Server); err != nil {
		t.Fatalf("ValidateServerConfig() unexpected error: %v", err)
	}
	if mutate != nil {
		mutate(cfg)
	}

	s, err := scanner.New(catalog.MustBuild())
	if err != nil {
		t.Fatalf("scanner.New() unexpected error: %v", err)
	}
	processor := remediate.NewProcessor(s, cfg.Server.Workers, hclog.NewNullLogger())

	return New(cfg, hclog.NewNullLogger(), processor)
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)
	return rec
}

func TestRemediateEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	body := `[
		{"pgm_name": "ZMM_A", "inc_name": "ZMM_A_F01", "type": "PROG", "start_line": 1, "end_line": 5,
		 "code": "SELECT * FROM MSEG WHERE werks = '1000'."},
		{"pgm_name": "ZMM_B", "inc_name": "ZMM_B_TOP", "type": "PROG"}
	]`

	rec := doRequest(t, s, http.MethodPost, "/remediate-mm-im", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type = %q, want application/json", ct)
	}

	var results []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatalf("response is not a JSON array: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("response has %d elements, want 2", len(results))
	}

	first := results[0]
	if first["pgm_name"] != "ZMM_A" || first["inc_name"] != "ZMM_A_F01" {
		t.Errorf("unit fields not echoed: %v", first)
	}
	hits, ok := first["mb_txn_usage"].([]interface{})
	if !ok || len(hits) != 1 {
		t.Fatalf("mb_txn_usage = %v, want one finding", first["mb_txn_usage"])
	}
	hit := hits[0].(map[string]interface{})
	if hit["table"] != "MSEG" || hit["target_name"] != "MSEG" || hit["target_type"] != "Table" {
		t.Errorf("finding identification wrong: %v", hit)
	}
	if hit["start_char_in_unit"].(float64) != 14 || hit["end_char_in_unit"].(float64) != 18 {
		t.Errorf("finding offsets wrong: %v", hit)
	}
	if hit["suggested_statement"] != "Use MATDOC instead of MSEG." {
		t.Errorf("suggested_statement = %v", hit["suggested_statement"])
	}
	if _, present := hit["note"]; !present {
		t.Errorf("note missing for MSEG: %v", hit)
	}

	second := results[1]
	name, present := second["name"]
	if !present || name != nil {
		t.Errorf("absent name must echo as null: %v", second)
	}
	if second["code"] != "" {
		t.Errorf("absent code must echo as empty string, got %v", second["code"])
	}
	secondHits, ok := second["mb_txn_usage"].([]interface{})
	if !ok {
		t.Fatalf("mb_txn_usage must be a list even when empty: %v", second["mb_txn_usage"])
	}
	if len(secondHits) != 0 {
		t.Errorf("unexpected findings: %v", secondHits)
	}
}

func TestRemediateEmptyBatch(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodPost, "/remediate-mm-im", `[]`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Fatalf("body = %q, want []", got)
	}
}

func TestRemediateMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/remediate-mm-im", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != http.MethodPost {
		t.Fatalf("Allow = %q, want POST", allow)
	}
}

func TestRemediateBadRequests(t *testing.T) {
	s := newTestServer(t, nil)

	testCases := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "MalformedJSON", body: `{`, wantErr: "request body must be a JSON array"},
		{name: "ObjectInsteadOfArray", body: `{"pgm_name": "P"}`, wantErr: "request body must be a JSON array"},
		{name: "UnknownField", body: `[{"pgm_name": "P", "inc_name": "I", "type": "PROG", "source": "x"}]`, wantErr: `unknown field "source"`},
		{name: "MissingRequired", body: `[{"inc_name": "I", "type": "PROG"}]`, wantErr: `missing required field "pgm_name"`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, s, http.MethodPost, "/remediate-mm-im", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}

			var payload map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
				t.Fatalf("error body is not JSON: %v", err)
			}
			if !strings.Contains(payload["error"], tc.wantErr) {
				t.Fatalf("error = %q, want substring %q", payload["error"], tc.wantErr)
			}
		})
	}
}

func TestRemediateBodyTooLarge(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) {
		cfg.Server.MaxBodyBytes = 32
	})

	body := `[{"pgm_name": "P", "inc_name": "I", "type": "PROG", "code": "SELECT * FROM MSEG."}]`
	rec := doRequest(t, s, http.MethodPost, "/remediate-mm-im", body)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var payload map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("health body is not JSON: %v", err)
	}
	if payload["status"] != "ok" {
		t.Fatalf("status field = %q, want ok", payload["status"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	// Generate one observation so the request counter has a sample.
	doRequest(t, s, http.MethodGet, "/healthz", "")

	rec := doRequest(t, s, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, metric := range []string{"abapscan_units_processed_total", "abapscan_http_requests_total"} {
		if !strings.Contains(body, metric) {
			t.Errorf("metrics exposition is missing %s", metric)
		}
	}
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/healthz", "")
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("X-Request-Id header missing")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "caller-supplied")
	echo := httptest.NewRecorder()
	s.Routes().ServeHTTP(echo, req)
	if got := echo.Header().Get("X-Request-Id"); got != "caller-supplied" {
		t.Fatalf("X-Request-Id = %q, want caller-supplied", got)
	}
}
