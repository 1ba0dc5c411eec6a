package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/plantaxis/plantaxis/internal/dataset"
)

// SQLRequest represents an explorer query request.
type SQLRequest struct {
	SQL string `json:"sql"`
}

// SQLResponse represents the explorer query response.
type SQLResponse struct {
	Columns   []string `json:"columns"`
	Rows      [][]any  `json:"rows"`
	Truncated bool     `json:"truncated"`
	RequestID string   `json:"request_id"`
}

// handleSQL handles POST /v1/sql requests.
func (d *Dashboard) handleSQL(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", requestID)
		return
	}
	if d.explorer == nil {
		writeError(w, http.StatusNotFound, "sql explorer is disabled", requestID)
		return
	}

	var req SQLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err), requestID)
		return
	}
	if req.SQL == "" {
		writeError(w, http.StatusBadRequest, "sql is required", requestID)
		return
	}

	// A failed startup load leaves the explorer empty until the dataset
	// becomes loadable, so mount on first use instead of failing.
	if !d.explorer.Mounted() {
		b, err := d.cache.Get(d.dataDir)
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, err.Error(), requestID)
			return
		}
		if err := d.explorer.Mount(r.Context(), b); err != nil {
			writeError(w, statusFor(err), err.Error(), requestID)
			return
		}
	}

	result, err := d.explorer.Query(r.Context(), req.SQL)
	if err != nil {
		writeError(w, statusFor(err), err.Error(), requestID)
		return
	}

	resp := SQLResponse{
		Columns:   result.Columns,
		Rows:      result.Rows,
		Truncated: result.Truncated,
		RequestID: requestID,
	}
	if resp.Rows == nil {
		resp.Rows = [][]any{}
	}
	if resp.Columns == nil {
		resp.Columns = []string{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// ReloadResponse represents the reload response.
type ReloadResponse struct {
	Report    dataset.LoadReport `json:"report"`
	RequestID string             `json:"request_id"`
}

// handleReload handles POST /v1/reload. It invalidates the memoized
// bundle, re-reads the dataset directory, and remounts the explorer on
// the fresh tables.
func (d *Dashboard) handleReload(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", requestID)
		return
	}

	b, err := d.cache.Reload(d.dataDir)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error(), requestID)
		return
	}

	if d.explorer != nil {
		if err := d.explorer.Mount(r.Context(), b); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error(), requestID)
			return
		}
	}

	writeJSON(w, http.StatusOK, ReloadResponse{Report: b.Report, RequestID: requestID})
}

// handleRaw handles GET /v1/raw. Without a file parameter it renders
// the filtered plant table back to CSV; with ?file=<dataset file> it
// streams that file's originally loaded bytes unfiltered.
func (d *Dashboard) handleRaw(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	if name := r.URL.Query().Get("file"); name != "" {
		b, ok := d.bundle(w, r)
		if !ok {
			return
		}
		data, ok := b.RawCSV(name)
		if !ok {
			writeError(w, http.StatusNotFound,
				fmt.Sprintf("no loaded dataset file named %q", name),
				GetRequestID(r.Context()))
			return
		}
		writeCSV(w, name, func(out io.Writer) error {
			_, err := out.Write(data)
			return err
		})
		return
	}

	_, _, plants, ok := d.filtered(w, r)
	if !ok {
		return
	}
	writeCSV(w, dataset.PlantsFile, func(out io.Writer) error {
		return dataset.WritePlantsCSV(out, plants)
	})
}

func writeCSV(w http.ResponseWriter, name string, render func(io.Writer) error) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if err := render(w); err != nil {
		log.Printf("CSV export error: %v", err)
	}
}

// handleStats handles GET /v1/stats: per-view render statistics plus the
// last load report.
func (d *Dashboard) handleStats(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	resp := map[string]any{}
	if d.stats != nil {
		resp["views"] = d.stats.Snapshot()
	}
	if b, err := d.cache.Get(d.dataDir); err == nil {
		resp["load"] = b.Report
	}
	writeJSON(w, http.StatusOK, resp)
}
