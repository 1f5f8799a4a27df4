// Package adminhttp serves the gateway's ops endpoints: a liveness check and
// a read-only listing of the registered tool catalog. It runs on a separate
// listener from the MCP transport and exposes nothing that can move money.
package adminhttp

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/composer-trade/composer-mcp/internal/usecase"
)

// Handlers holds dependencies for the ops HTTP handlers.
type Handlers struct {
	listTools *usecase.ListToolsUseCase
	logger    *slog.Logger
}

// NewHandlers creates a new Handlers struct.
func NewHandlers(listTools *usecase.ListToolsUseCase, logger *slog.Logger) *Handlers {
	return &Handlers{
		listTools: listTools,
		logger:    logger.With("component", "adminhttp_handler"),
	}
}

// RegisterRoutes sets up the ops routes.
func (h *Handlers) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.handleHealthz)
	mux.HandleFunc("GET /tools", h.handleListTools)
}

func (h *Handlers) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// toolSummary is the introspection shape for one tool.
type toolSummary struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	RequiresAuth bool   `json:"requires_auth"`
	ReadOnly     bool   `json:"read_only"`
}

func (h *Handlers) handleListTools(w http.ResponseWriter, r *http.Request) {
	tools, err := h.listTools.Execute(r.Context())
	if err != nil {
		h.logger.Error("Failed to list tools", slog.Any("error", err))
		http.Error(w, "failed to list tools", http.StatusInternalServerError)
		return
	}

	summaries := make([]toolSummary, 0, len(tools))
	for _, t := range tools {
		summaries = append(summaries, toolSummary{
			Name:         t.Name,
			Description:  t.Description,
			RequiresAuth: t.RequiresAuth,
			ReadOnly:     t.ReadOnly,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"tools": summaries}); err != nil {
		h.logger.Warn("Failed to encode tools response", slog.Any("error", err))
	}
}
