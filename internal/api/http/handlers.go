package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hdnguyen/salesboard/internal/category"
	"github.com/hdnguyen/salesboard/internal/dataset"
	"github.com/hdnguyen/salesboard/internal/dto"
	"github.com/hdnguyen/salesboard/internal/entity"
	"github.com/hdnguyen/salesboard/internal/ingest"
	"github.com/hdnguyen/salesboard/internal/report"
)

const defaultMaxUploadBytes = 64 << 20

type uploadResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	RowCount int    `json:"rowCount"`
}

// handleUpload takes a multipart form with a "transactions" xlsx file and a
// "categories" csv file, parses both and registers the dataset.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxBytes := s.ingest.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	catFile, _, err := r.FormFile("categories")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing categories file")
		return
	}
	defer catFile.Close()
	m, err := category.Parse(catFile)
	if err != nil {
		if errors.Is(err, category.ErrEmptyMap) {
			respondError(w, http.StatusUnprocessableEntity, "category map has no usable rows")
			return
		}
		respondError(w, http.StatusBadRequest, "failed to parse category map")
		return
	}

	txFile, txHeader, err := r.FormFile("transactions")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing transactions file")
		return
	}
	defer txFile.Close()
	rows, err := ingest.Parse(txFile)
	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrNoRows), errors.Is(err, ingest.ErrNoDatedRows):
			respondError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			respondError(w, http.StatusBadRequest, "failed to parse spreadsheet")
		}
		return
	}

	ds := s.datasets.Put(txHeader.Filename, rows, m)
	slog.Default().With("dataset", ds.ID.String(), "rows", len(rows)).Info("dataset uploaded")
	respondJSON(w, http.StatusCreated, uploadResponse{
		ID:       ds.ID.String(),
		Name:     ds.Name,
		RowCount: len(rows),
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.dataset(w, r)
	if !ok {
		return
	}

	filters, err := parseFilters(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	rep, err := s.reports.Compute(ds.Rows, ds.Categories, filters, parseComputeOptions(r))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, dto.ConvertEntityReport(rep))
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.dataset(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, dto.ConvertEntityFilterOptions(report.Options(ds.Rows, ds.Categories)))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid dataset id")
		return
	}
	if err := s.datasets.Delete(id); err != nil {
		respondError(w, http.StatusNotFound, "dataset not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) dataset(w http.ResponseWriter, r *http.Request) (*dataset.Dataset, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid dataset id")
		return nil, false
	}
	ds, err := s.datasets.Get(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "dataset not found")
		return nil, false
	}
	return ds, true
}

const filterDateLayout = "2006-01-02"

// parseFilters reads the filter query parameters. Date bounds are whole
// local days: the end bound extends to the last second of its day.
func parseFilters(r *http.Request) (entity.FilterSet, error) {
	q := r.URL.Query()
	f := entity.FilterSet{
		Warehouse: q.Get("warehouse"),
		Shipped:   q.Get("shipped"),
		Statuses:  splitParam(q.Get("statuses")),
		Creators:  splitParam(q.Get("creators")),
	}

	if v := q.Get("start"); v != "" {
		t, err := time.ParseInLocation(filterDateLayout, v, time.Local)
		if err != nil {
			return f, errors.New("invalid start date, want YYYY-MM-DD")
		}
		f.DateStart = &t
	}
	if v := q.Get("end"); v != "" {
		t, err := time.ParseInLocation(filterDateLayout, v, time.Local)
		if err != nil {
			return f, errors.New("invalid end date, want YYYY-MM-DD")
		}
		end := t.Add(24*time.Hour - time.Second)
		f.DateEnd = &end
	}
	return f, nil
}

func parseComputeOptions(r *http.Request) report.ComputeOptions {
	q := r.URL.Query()
	return report.ComputeOptions{
		Levels:      splitParam(q.Get("levels")),
		SortKey:     entity.SortKey(q.Get("sort_by")),
		SortDir:     entity.SortDirection(q.Get("sort_dir")),
		TrendMetric: entity.TrendMetric(q.Get("trend_metric")),
	}
}

func splitParam(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
