package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "growlab/internal/errors"
	"growlab/internal/exporter"
	"growlab/internal/files"
	"growlab/pkg/contracts/domain"
)

// DataHandler serves the dataset and summary endpoints.
type DataHandler struct {
	datasets     DataServiceInterface
	summaries    SummaryServiceInterface
	discovery    *files.Discovery
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDataHandler creates a data handler.
func NewDataHandler(datasets DataServiceInterface, summaries SummaryServiceInterface, discovery *files.Discovery, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DataHandler {
	return &DataHandler{
		datasets:     datasets,
		summaries:    summaries,
		discovery:    discovery,
		logger:       logger.With(slog.String("component", "data_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the /api/data router.
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/schools", h.GetSchools)
	r.Get("/files", h.GetFiles)

	r.Get("/environment", h.GetEnvironments)
	r.Get("/environment/summary", h.GetEnvironmentSummary)
	r.Get("/environment/{school}", h.GetEnvironment)

	r.Get("/growth", h.GetGrowth)
	r.Get("/growth/summary", h.GetGrowthSummary)
	r.Get("/growth/optimal-ec", h.GetOptimalEC)

	r.Get("/download/{kind}", h.Download)

	r.Post("/refresh", h.Refresh)

	return r
}

// GetSchools handles GET /api/data/schools.
func (h *DataHandler) GetSchools(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"schools": h.datasets.Schools().All(),
	})
}

// dataFileInfo is one discovered data file in the files listing.
type dataFileInfo struct {
	Name    string `json:"name"`
	Size    int64  `json:"size"`
	ModTime string `json:"mod_time"`
}

// GetFiles handles GET /api/data/files: it lists the CSV and XLSX files
// present in the data directory without parsing them.
func (h *DataHandler) GetFiles(w http.ResponseWriter, r *http.Request) {
	csvFiles, err := h.discovery.FindCSVFiles()
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	xlsxFiles, err := h.discovery.FindExcelFiles()
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string][]dataFileInfo{
		"csv":  toFileInfos(csvFiles),
		"xlsx": toFileInfos(xlsxFiles),
	})
}

func toFileInfos(infos []files.FileInfo) []dataFileInfo {
	out := make([]dataFileInfo, len(infos))
	for i, fi := range infos {
		out[i] = dataFileInfo{
			Name:    fi.Name,
			Size:    fi.Size,
			ModTime: fi.ModTime.UTC().Format("2006-01-02T15:04:05Z"),
		}
	}
	return out
}

// environmentsResponse is the GET /api/data/environment body. Failures map
// school IDs to load error messages for schools whose file was missing or
// unreadable.
type environmentsResponse struct {
	Datasets map[domain.SchoolID]*domain.EnvironmentDataset `json:"datasets"`
	Failures map[domain.SchoolID]string                     `json:"failures,omitempty"`
}

// GetEnvironments handles GET /api/data/environment.
func (h *DataHandler) GetEnvironments(w http.ResponseWriter, r *http.Request) {
	batch, err := h.datasets.Environments(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	resp := environmentsResponse{Datasets: batch.Datasets}
	if len(batch.Failures) > 0 {
		resp.Failures = make(map[domain.SchoolID]string, len(batch.Failures))
		for id, loadErr := range batch.Failures {
			resp.Failures[id] = loadErr.Error()
		}
	}
	render.JSON(w, r, resp)
}

// GetEnvironment handles GET /api/data/environment/{school}.
func (h *DataHandler) GetEnvironment(w http.ResponseWriter, r *http.Request) {
	school, err := schoolParam(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	ds, err := h.datasets.Environment(r.Context(), school)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, ds)
}

// GetEnvironmentSummary handles GET /api/data/environment/summary.
func (h *DataHandler) GetEnvironmentSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.summaries.EnvironmentSummary(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, summary)
}

// GetGrowth handles GET /api/data/growth.
func (h *DataHandler) GetGrowth(w http.ResponseWriter, r *http.Request) {
	table, err := h.datasets.Growth(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, table)
}

// GetGrowthSummary handles GET /api/data/growth/summary?metric=.
func (h *DataHandler) GetGrowthSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.summaries.GrowthSummary(r.Context(), metricParam(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, summary)
}

// GetOptimalEC handles GET /api/data/growth/optimal-ec?metric=.
func (h *DataHandler) GetOptimalEC(w http.ResponseWriter, r *http.Request) {
	optimal, err := h.summaries.OptimalEC(r.Context(), metricParam(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, optimal)
}

// Download handles GET /api/data/download/{kind}. Supported kinds are
// growth.csv, growth.xlsx and environment_<school>.csv.
func (h *DataHandler) Download(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	if decoded, err := url.PathUnescape(kind); err == nil {
		kind = decoded
	}

	switch {
	case kind == "growth.csv":
		table, err := h.datasets.Growth(r.Context())
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		data, err := exporter.EncodeGrowthCSV(table)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		serveAttachment(w, kind, "text/csv; charset=utf-8", data)

	case kind == "growth.xlsx":
		table, err := h.datasets.Growth(r.Context())
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		data, err := exporter.EncodeGrowthWorkbook(table)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		serveAttachment(w, kind, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)

	case strings.HasPrefix(kind, "environment_") && strings.HasSuffix(kind, ".csv"):
		school := strings.TrimSuffix(strings.TrimPrefix(kind, "environment_"), ".csv")
		ds, err := h.datasets.Environment(r.Context(), domain.SchoolID(school))
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		data, err := exporter.EncodeEnvironmentCSV(ds)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		serveAttachment(w, kind, "text/csv; charset=utf-8", data)

	default:
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("kind",
			fmt.Sprintf("unsupported download kind: %s", kind)))
	}
}

// Refresh handles POST /api/data/refresh: it drops the dataset cache so the
// next read picks up changed files.
func (h *DataHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.datasets.Invalidate(r.Context())
	h.logger.InfoContext(r.Context(), "dataset cache refresh requested")
	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]string{"status": "invalidated"})
}

func metricParam(r *http.Request) string {
	metric := r.URL.Query().Get("metric")
	if metric == "" {
		return domain.MetricFreshWeight
	}
	return metric
}

func schoolParam(r *http.Request) (domain.SchoolID, error) {
	raw := chi.URLParam(r, "school")
	if decoded, err := url.PathUnescape(raw); err == nil {
		raw = decoded
	}
	if raw == "" {
		return "", apierrors.ErrValidation("school", "school name is required")
	}
	return domain.SchoolID(raw), nil
}

func serveAttachment(w http.ResponseWriter, filename, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(filename)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
