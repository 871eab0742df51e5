package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/iwvelando/property-yield/internal/acquisition"
	"github.com/iwvelando/property-yield/internal/config"
	"github.com/iwvelando/property-yield/internal/regime"
	"github.com/iwvelando/property-yield/internal/share"
	"github.com/iwvelando/property-yield/internal/simulation"
	"github.com/iwvelando/property-yield/internal/store"
	"github.com/iwvelando/property-yield/pkg/constants"
	"github.com/iwvelando/property-yield/pkg/output"
	"github.com/iwvelando/property-yield/pkg/validation"
	"go.uber.org/zap"
)

// Options tunes the HTTP handler.
type Options struct {
	MaxBodySize int64
	Version     string
}

type handler struct {
	logger      *zap.Logger
	store       store.Store
	maxBodySize int64
	version     string
}

// simulationRequest is the body accepted by the compute, report and export endpoints.
type simulationRequest struct {
	Name     string              `json:"name,omitempty"`
	Property acquisition.Inputs  `json:"property"`
	Entity   config.EntityConfig `json:"entity"`
}

func (req simulationRequest) entity() regime.Inputs {
	return req.Entity.Over(regime.DefaultInputs())
}

type simulationResponse struct {
	simulation.Result
	Share string `json:"share"`
}

type scenariosResponse struct {
	Results  []simulation.Result `json:"results"`
	Warnings []string            `json:"warnings,omitempty"`
	Duration string              `json:"duration"`
}

// NewHandler constructs the HTTP handler serving the simulation API. A nil
// store disables the snapshot endpoints.
func NewHandler(logger *zap.Logger, snapshots store.Store, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = constants.DefaultMaxBodySizeBytes
	}
	version := strings.TrimSpace(opts.Version)
	if version == "" {
		version = "dev"
	}

	h := &handler{logger: logger, store: snapshots, maxBodySize: opts.MaxBodySize, version: version}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/healthz", h.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/version", h.handleVersion)
		r.Get("/simulate", h.handleSimulateQuery)
		r.Post("/simulate", h.handleSimulate)
		r.Post("/scenarios", h.handleScenarios)
		r.Post("/share", h.handleShare)
		r.Post("/report", h.handleReport)
		r.Post("/export", h.handleExport)
		if snapshots != nil {
			r.Route("/simulations", func(r chi.Router) {
				r.Get("/", h.handleListSnapshots)
				r.Post("/", h.handleSaveSnapshot)
				r.Get("/{id}", h.handleGetSnapshot)
				r.Delete("/{id}", h.handleDeleteSnapshot)
			})
		}
	})

	return r
}

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.Debug("request served",
			zap.String("op", "server.logRequests"),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.String("requestID", middleware.GetReqID(r.Context())),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleSimulate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeSimulation(w, r, "server.handleSimulate")
	if !ok {
		return
	}
	h.respondSimulation(w, req.Name, req.Property, req.entity(), "server.handleSimulate")
}

// handleSimulateQuery computes a simulation from share link parameters.
// Missing parameters are 0; entity parameters keep their defaults.
func (h *handler) handleSimulateQuery(w http.ResponseWriter, r *http.Request) {
	property := share.Apply(acquisition.Inputs{}, r.URL.Query())
	h.respondSimulation(w, "", property, regime.DefaultInputs(), "server.handleSimulateQuery")
}

func (h *handler) respondSimulation(w http.ResponseWriter, name string, property acquisition.Inputs, entity regime.Inputs, op string) {
	result := simulation.Evaluate(h.logger, name, property, entity)
	query, err := share.Encode(property)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode share link: %v", err), op)
		return
	}

	h.logger.Info("simulation computed",
		zap.String("op", op),
		zap.String("name", result.Name),
		zap.String("bestRegime", string(result.Regimes.Comparison.BestRegime)),
		zap.Int("warnings", len(result.Warnings)),
	)
	h.writeJSON(w, http.StatusOK, simulationResponse{Result: result, Share: query})
}

// handleScenarios runs every active scenario of an uploaded YAML configuration.
// The file is read from the multipart field "file" or, failing that, the raw body.
func (h *handler) handleScenarios(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleScenarios"
	start := time.Now()

	data, ok := h.readConfigUpload(w, r, op)
	if !ok {
		return
	}

	cfg, err := config.LoadConfigurationFromBytes(data)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	warnings := cfg.ValidateConfiguration()

	results, err := simulation.RunScenarios(r.Context(), h.logger, *cfg)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to compute scenarios: %v", err), op)
		return
	}
	if results == nil {
		results = []simulation.Result{}
	}

	elapsed := time.Since(start)
	h.logger.Info("scenarios computed",
		zap.String("op", op),
		zap.Int("scenarios", len(results)),
		zap.Duration("duration", elapsed),
	)
	h.writeJSON(w, http.StatusOK, scenariosResponse{Results: results, Warnings: warnings, Duration: elapsed.String()})
}

func (h *handler) readConfigUpload(w http.ResponseWriter, r *http.Request, op string) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	var reader io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(h.maxBodySize); err != nil {
			h.respondBodyError(w, err, op)
			return nil, false
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, "missing configuration file", op)
			return nil, false
		}
		defer func() {
			if closeErr := file.Close(); closeErr != nil {
				h.logger.Warn("failed to close uploaded file",
					zap.String("op", op),
					zap.Error(closeErr),
				)
			}
		}()
		reader = file
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		h.respondBodyError(w, err, op)
		return nil, false
	}
	if len(bytes.TrimSpace(buf.Bytes())) == 0 {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing configuration file", op)
		return nil, false
	}
	return buf.Bytes(), true
}

func (h *handler) handleShare(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleShare"
	req, ok := h.decodeSimulation(w, r, op)
	if !ok {
		return
	}
	query, err := share.Encode(req.Property)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode share link: %v", err), op)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"query": query})
}

// handleReport renders one simulation in the format named by the "format"
// query parameter, html when absent.
func (h *handler) handleReport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleReport"
	format := r.URL.Query().Get("format")
	if format == "" {
		format = constants.OutputFormatHTML
	}
	if err := validation.ValidateOutputFormat(format); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	req, ok := h.decodeSimulation(w, r, op)
	if !ok {
		return
	}
	result := simulation.Evaluate(h.logger, req.Name, req.Property, req.entity())

	var buf bytes.Buffer
	if err := output.Write(&buf, format, []simulation.Result{result}); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to render report: %v", err), op)
		return
	}

	w.Header().Set("Content-Type", output.ContentType(format))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("failed to write report",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

// handleExport returns a YAML configuration file holding the posted scenario.
func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExport"
	req, ok := h.decodeSimulation(w, r, op)
	if !ok {
		return
	}

	yamlBytes, err := config.NewSingleScenario(req.Name, req.Property, req.entity()).Marshal()
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

func (h *handler) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	snapshots, err := h.store.List(r.Context())
	if err != nil {
		h.respondStoreError(w, err, "server.handleListSnapshots")
		return
	}
	if snapshots == nil {
		snapshots = []store.Snapshot{}
	}
	h.writeJSON(w, http.StatusOK, snapshots)
}

func (h *handler) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondStoreError(w, err, "server.handleGetSnapshot")
		return
	}
	h.writeJSON(w, http.StatusOK, snapshot)
}

func (h *handler) handleSaveSnapshot(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSaveSnapshot"
	var in acquisition.Inputs
	if !h.decodeJSON(w, r, &in, op) {
		return
	}

	snapshot, err := h.store.Save(r.Context(), in)
	if err != nil {
		h.respondStoreError(w, err, op)
		return
	}
	h.logger.Info("simulation saved",
		zap.String("op", op),
		zap.String("id", snapshot.ID),
		zap.String("title", snapshot.Inputs.Title),
	)
	h.writeJSON(w, http.StatusCreated, snapshot)
}

func (h *handler) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDeleteSnapshot"
	id := chi.URLParam(r, "id")
	if err := h.store.Delete(r.Context(), id); err != nil {
		h.respondStoreError(w, err, op)
		return
	}
	h.logger.Info("simulation deleted",
		zap.String("op", op),
		zap.String("id", id),
	)
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) decodeSimulation(w http.ResponseWriter, r *http.Request, op string) (simulationRequest, bool) {
	var req simulationRequest
	ok := h.decodeJSON(w, r, &req, op)
	return req, ok
}

func (h *handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondBodyError(w, err, op)
		return false
	}
	return true
}

func (h *handler) respondBodyError(w http.ResponseWriter, err error, op string) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
		return
	}
	h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
}

func (h *handler) respondStoreError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.respondErrorWithOp(w, http.StatusNotFound, err.Error(), op)
	case errors.Is(err, store.ErrEmptyTitle):
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
	default:
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("snapshot store failure: %v", err), op)
	}
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("simulation request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

// writeJSON encodes payload before sending the status so an encoding failure
// still reaches the client as a 500.
func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		h.logger.Error("failed to encode JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Int("status", status),
			zap.Error(err),
		)
		buf.Reset()
		status = http.StatusInternalServerError
		_ = json.NewEncoder(&buf).Encode(map[string]string{"error": fmt.Sprintf("failed to encode response: %v", err)})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
