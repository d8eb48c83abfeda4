package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/abapscan/abapscan/internal/remediate"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// handleRemediate implements POST /remediate-mm-im. The request body is a
// bare JSON array of units; the response echoes every unit with its
// findings attached under mb_txn_usage.
func (s *Server) handleRemediate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	units, err := remediate.ParseUnits(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	results := s.processor.Process(units)

	totalFindings := 0
	for _, result := range results {
		totalFindings += len(result.MBTxnUsage)
	}
	s.metrics.UnitsProcessed.Add(float64(len(results)))
	s.metrics.FindingsReported.Add(float64(totalFindings))

	s.logger.Debug("batch remediated",
		"request_id", RequestIDFromContext(r.Context()),
		"units", len(results),
		"findings", totalFindings,
	)

	writeJSON(w, http.StatusOK, results)
}

// handleHealthz reports service liveness. The reference table is built
// before the server starts, so reaching this handler means the service is
// ready to scan.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
