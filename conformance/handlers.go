/*
handlers.go - HTTP handlers for the fixture conformance surface

PURPOSE:
  Exposes fixtures.Dataset/fixtures.Run over HTTP so that an
  implementation in any language can be checked against the same named
  datasets a CI job or a human can drive with curl, without embedding
  this module. This is test/CI tooling for the portability contract
  (spec.md §6), not a production scheduling API.

ENDPOINTS:
  GET  /datasets              List registered datasets (name, resolution, counts)
  POST /datasets              Register a dataset from a JSON body
  GET  /datasets/{name}       Fetch one dataset's JSON document
  POST /datasets/{name}/run   Run a dataset's Expected rows, report pass/fail

ERROR HANDLING:
  400 for an invalid or unnamed dataset body, 404 for an unknown dataset
  name, 500 if a dataset fails to build (a malformed rule set, an unknown
  resolution, a bad epoch) - never a bare error status with no body,
  always an ErrorResponse. A row that errors while running (such as an
  unrecognised Op) is reported as a failed row, and any failed row makes
  the run respond 422 with the full RunResponse.

SEE ALSO:
  - dto.go: response shapes
  - server.go: router setup
*/
package conformance

import (
	"encoding/json"
	"net/http"

	"github.com/brightloom/schedcore/fixtures"
	"github.com/go-chi/chi/v5"
)

// Handler holds the in-memory catalogue of registered datasets.
type Handler struct {
	datasets map[string]*fixtures.Dataset
}

// NewHandler builds a Handler pre-loaded with the canonical dataset and
// any additional datasets supplied by the caller (e.g. loaded from disk
// by cmd/conformance).
func NewHandler(extra ...*fixtures.Dataset) *Handler {
	h := &Handler{datasets: make(map[string]*fixtures.Dataset)}
	h.Register(fixtures.CanonicalScenario())
	for _, ds := range extra {
		h.Register(ds)
	}
	return h
}

// Register adds or replaces a dataset under its own Name.
func (h *Handler) Register(ds *fixtures.Dataset) {
	h.datasets[ds.Name] = ds
}

// ListDatasets returns every registered dataset's summary.
func (h *Handler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	dtos := make([]DatasetSummaryDTO, 0, len(h.datasets))
	for _, ds := range h.datasets {
		dtos = append(dtos, DatasetSummaryDTO{
			Name:       ds.Name,
			Resolution: ds.Resolution,
			RuleCount:  len(ds.Rules),
			RowCount:   len(ds.Expected),
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetDataset returns the raw dataset document for name.
func (h *Handler) GetDataset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	ds, ok := h.datasets[name]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown dataset", nil)
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

// RunDataset executes a dataset's Expected rows and reports pass/fail.
func (h *Handler) RunDataset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	ds, ok := h.datasets[name]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown dataset", nil)
		return
	}

	results, err := fixtures.Run(ds)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to run dataset", err)
		return
	}

	resp := RunResponse{Dataset: name, Total: len(results)}
	rows := make([]RowDTO, 0, len(results))
	for _, res := range results {
		if res.Passed {
			resp.Passed++
		} else {
			resp.Failed++
		}
		rows = append(rows, RowDTO{Ordinal: res.Ordinal, Op: res.Op, Passed: res.Passed, Detail: res.Detail})
	}
	resp.Rows = rows

	status := http.StatusOK
	if resp.Failed > 0 {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, resp)
}

// LoadDataset accepts a raw Dataset JSON document in the request body and
// registers it under its own Name, so a caller can exercise an
// implementation-supplied fixture without writing it to disk first.
func (h *Handler) LoadDataset(w http.ResponseWriter, r *http.Request) {
	var ds fixtures.Dataset
	if err := json.NewDecoder(r.Body).Decode(&ds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid dataset JSON", err)
		return
	}
	if ds.Name == "" {
		writeError(w, http.StatusBadRequest, "dataset name is required", nil)
		return
	}
	h.Register(&ds)
	writeJSON(w, http.StatusCreated, DatasetSummaryDTO{
		Name:       ds.Name,
		Resolution: ds.Resolution,
		RuleCount:  len(ds.Rules),
		RowCount:   len(ds.Expected),
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
