package http

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"adapter/internal/aligner"
	"adapter/internal/cleaner"
	"adapter/internal/config"
	apierrors "adapter/internal/errors"
	"adapter/internal/parser"
	"adapter/internal/table"
)

// maxUploadBytes caps multipart upload memory buffering.
const maxUploadBytes = 32 << 20

// PipelineHandler runs the clean/align pipeline over uploaded tables.
type PipelineHandler struct {
	logger   *slog.Logger
	metrics  *Metrics
	defaults config.PipelineConfig
}

// NewPipelineHandler creates a pipeline handler. The defaults supply the
// parameters an upload does not override.
func NewPipelineHandler(logger *slog.Logger, metrics *Metrics, defaults config.PipelineConfig) *PipelineHandler {
	return &PipelineHandler{
		logger:   logger.With(slog.String("component", "pipeline_handler")),
		metrics:  metrics,
		defaults: defaults,
	}
}

// Routes returns the pipeline routes.
func (h *PipelineHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Process)
	return r
}

// Process handles POST /api/pipeline: a multipart upload with a "file"
// part (CSV or XLSX) and optional form parameters (time_column, strategy,
// precision, interval, delimiter, dependent, independent). The cleaned and,
// when a time column is given, aligned table is returned as a CSV
// attachment.
func (h *PipelineHandler) Process(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.fail(w, r, apierrors.ErrValidation("body", "expected multipart form data"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.fail(w, r, apierrors.ErrValidation("file", "file part is required"))
		return
	}
	defer file.Close()

	cfg, apiErr := h.requestConfig(r)
	if apiErr != nil {
		h.fail(w, r, apiErr)
		return
	}

	t, err := h.parseUpload(file, header.Filename, cfg.DelimiterRune())
	if err != nil {
		h.logger.WarnContext(r.Context(), "failed to parse upload",
			slog.String("filename", header.Filename),
			slog.String("error", err.Error()))
		h.fail(w, r, apierrors.NewWithDetails(http.StatusUnprocessableEntity,
			"UNPARSEABLE_INPUT", "Could not parse the uploaded table", err.Error()))
		return
	}

	c := cleaner.New(h.logger, cleaner.Config{
		Strategy:  cleaner.Strategy(cfg.Strategy),
		Precision: cfg.Precision,
	})
	stats := c.CleanWithStats(t)

	var alignResult aligner.Result
	if cfg.TimeColumn != "" {
		a := aligner.New(h.logger, aligner.Config{
			TargetInterval: cfg.TargetInterval,
			Solver:         aligner.SolverMethod(cfg.Solver),
		})
		alignResult = a.Align(t, cfg.TimeColumn, cfg.DependentVars, cfg.IndependentVars)
	}

	h.writeCSV(w, t, cfg.DelimiterRune(), stats, alignResult)

	h.metrics.RequestsTotal.WithLabelValues("ok").Inc()
	h.metrics.RowsProcessed.Add(float64(t.RowCount()))
	h.metrics.ProcessDuration.Observe(time.Since(start).Seconds())

	h.logger.InfoContext(r.Context(), "pipeline request processed",
		slog.String("filename", header.Filename),
		slog.Int("rows_out", t.RowCount()),
		slog.Int("duplicates_removed", stats.DuplicatesRemoved),
		slog.Int("cells_imputed", stats.CellsImputed),
		slog.Bool("aligned", alignResult.Aligned))
}

// requestConfig layers form parameters over the configured defaults.
func (h *PipelineHandler) requestConfig(r *http.Request) (config.PipelineConfig, *apierrors.APIError) {
	cfg := h.defaults

	if v := r.FormValue("time_column"); v != "" {
		cfg.TimeColumn = v
	}
	if v := r.FormValue("delimiter"); v != "" {
		if len([]rune(v)) != 1 {
			return cfg, apierrors.ErrValidation("delimiter", "delimiter must be a single character")
		}
		cfg.Delimiter = v
	}
	if v := r.FormValue("strategy"); v != "" {
		switch v {
		case "mean", "median", "zero":
			cfg.Strategy = v
		default:
			return cfg, apierrors.ErrValidation("strategy", "strategy must be one of mean, median, zero")
		}
	}
	if v := r.FormValue("precision"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 12 {
			return cfg, apierrors.ErrValidation("precision", "precision must be an integer between 0 and 12")
		}
		cfg.Precision = n
	}
	if v := r.FormValue("interval"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return cfg, apierrors.ErrValidation("interval", "interval must be a positive number")
		}
		cfg.TargetInterval = f
	}
	if v := r.Form["dependent"]; len(v) > 0 {
		cfg.DependentVars = v
	}
	if v := r.Form["independent"]; len(v) > 0 {
		cfg.IndependentVars = v
	}
	return cfg, nil
}

// parseUpload dispatches on the uploaded filename extension.
func (h *PipelineHandler) parseUpload(file multipart.File, filename string, delimiter rune) (*table.Table, error) {
	if parser.HasExcelExt(filename) {
		return parser.NewExcelParser(h.logger, "").Parse(file)
	}
	return parser.NewCSVParser(h.logger, delimiter).Parse(file)
}

// writeCSV streams the result table as a CSV attachment with summary
// headers.
func (h *PipelineHandler) writeCSV(w http.ResponseWriter, t *table.Table, delimiter rune, stats cleaner.Stats, alignResult aligner.Result) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="cleaned.csv"`)
	w.Header().Set("X-Adapter-Rows", strconv.Itoa(t.RowCount()))
	w.Header().Set("X-Adapter-Duplicates-Removed", strconv.Itoa(stats.DuplicatesRemoved))
	w.Header().Set("X-Adapter-Cells-Imputed", strconv.Itoa(stats.CellsImputed))
	w.Header().Set("X-Adapter-Aligned", strconv.FormatBool(alignResult.Aligned))
	if alignResult.Aligned {
		w.Header().Set("X-Adapter-Grid-Points", strconv.Itoa(alignResult.GridPoints))
	}

	writer := csv.NewWriter(w)
	writer.Comma = delimiter
	for _, record := range t.Records() {
		if err := writer.Write(record); err != nil {
			h.logger.Error("failed to write response row", slog.String("error", err.Error()))
			return
		}
	}
	writer.Flush()
}

// fail renders an API error and counts the failed request.
func (h *PipelineHandler) fail(w http.ResponseWriter, r *http.Request, apiErr *apierrors.APIError) {
	h.metrics.RequestsTotal.WithLabelValues("error").Inc()
	if err := render.Render(w, r, apiErr); err != nil {
		http.Error(w, fmt.Sprintf("failed to render error: %v", err), http.StatusInternalServerError)
	}
}
