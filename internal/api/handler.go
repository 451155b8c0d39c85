package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/0xPuncker/uac-task-api/internal/status"
	"github.com/0xPuncker/uac-task-api/internal/tasks"
	"github.com/sirupsen/logrus"
)

const (
	basicTasksPath    = "/api/tasks/basic"
	advancedTasksPath = "/api/tasks/advanced"
	docsPath          = "/docs"
	healthPath        = "/health"
)

// TaskFetcher is implemented by *tasks.Service.
type TaskFetcher interface {
	Fetch(ctx context.Context, mode tasks.Mode) ([]tasks.Task, error)
}

type Handler struct {
	fetcher TaskFetcher
	tracker *status.Tracker
	logger  *logrus.Logger
}

type RootResponse struct {
	Message     string            `json:"message"`
	Description string            `json:"description"`
	Endpoints   map[string]string `json:"endpoints"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

type HealthResponse struct {
	Status    string                         `json:"status"`
	Timestamp time.Time                      `json:"timestamp"`
	Fetches   map[string]status.FetchOutcome `json:"fetches"`
}

type EndpointDoc struct {
	Method  string `json:"method"`
	Path    string `json:"path"`
	Summary string `json:"summary"`
}

type DocsResponse struct {
	Title     string        `json:"title"`
	Endpoints []EndpointDoc `json:"endpoints"`
}

func NewHandler(fetcher TaskFetcher, tracker *status.Tracker, logger *logrus.Logger) *Handler {
	return &Handler{
		fetcher: fetcher,
		tracker: tracker,
		logger:  logger,
	}
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, RootResponse{
		Message:     "Stonebranch UAC backend is running.",
		Description: "Use the endpoints below to retrieve UAC tasks.",
		Endpoints: map[string]string{
			"basic_tasks":    basicTasksPath,
			"advanced_tasks": advancedTasksPath,
			"docs":           docsPath,
		},
	})
}

func (h *Handler) Docs(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, DocsResponse{
		Title: "Stonebranch UAC Task API",
		Endpoints: []EndpointDoc{
			{Method: http.MethodGet, Path: "/", Summary: "Service information and endpoint index"},
			{Method: http.MethodGet, Path: basicTasksPath, Summary: "Tasks from list_tasks (name and description; agent and command are null)"},
			{Method: http.MethodGet, Path: advancedTasksPath, Summary: "Tasks from list_tasks_advanced (name, description, agent, command)"},
			{Method: http.MethodGet, Path: healthPath, Summary: "Liveness and most recent fetch outcome per mode"},
		},
	})
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Fetches:   h.tracker.Snapshot(),
	})
}

func (h *Handler) GetBasicTasks(w http.ResponseWriter, r *http.Request) {
	h.serveTasks(w, r, tasks.ModeBasic)
}

func (h *Handler) GetAdvancedTasks(w http.ResponseWriter, r *http.Request) {
	h.serveTasks(w, r, tasks.ModeAdvanced)
}

func (h *Handler) serveTasks(w http.ResponseWriter, r *http.Request, mode tasks.Mode) {
	start := time.Now()

	result, err := h.fetcher.Fetch(r.Context(), mode)
	h.tracker.Record(string(mode), len(result), time.Since(start), err)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"mode":       string(mode),
			"request_id": RequestID(r.Context()),
			"error":      err.Error(),
		}).Error("Task fetch failed")
		h.handleError(w, fmt.Errorf("Error fetching %s tasks: %w", mode, err), http.StatusInternalServerError)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"mode":       string(mode),
		"count":      len(result),
		"request_id": RequestID(r.Context()),
	}).Infof("%s tasks served", mode.Label())

	w.Header().Set("Cache-Control", "no-cache")
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleError(w http.ResponseWriter, err error, code int) {
	h.writeJSON(w, code, ErrorResponse{Detail: err.Error()})
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Errorf("Failed to encode response: %v", err)
	}
}
