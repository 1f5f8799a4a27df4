package memrepo

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/composer-trade/composer-mcp/internal/domain"
	"github.com/composer-trade/composer-mcp/internal/usecase"
)

type entry struct {
	tool    domain.Tool
	details usecase.InvocationDetails
}

// InMemoryToolRepository is the only ToolRepository implementation: the
// catalog is fixed at startup, so an in-process map is all the storage the
// gateway needs. Read-mostly after the initial Save.
type InMemoryToolRepository struct {
	mu      sync.RWMutex
	entries map[string]entry
	logger  *slog.Logger
}

// New creates an empty repository.
func New(logger *slog.Logger) *InMemoryToolRepository {
	return &InMemoryToolRepository{
		entries: make(map[string]entry),
		logger:  logger.With("component", "mem_repo"),
	}
}

// Save stores tools with their invocation details. Slices correspond by index.
func (r *InMemoryToolRepository) Save(ctx context.Context, tools []domain.Tool, details []usecase.InvocationDetails) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(tools) != len(details) {
		return fmt.Errorf("save failed: %d tools but %d invocation details", len(tools), len(details))
	}

	for i, tool := range tools {
		if tool.Name == "" {
			return fmt.Errorf("save failed: tool at index %d has no name", i)
		}
		if _, exists := r.entries[tool.Name]; exists {
			return fmt.Errorf("save failed: duplicate tool name %q", tool.Name)
		}
		r.entries[tool.Name] = entry{tool: tool, details: details[i]}
	}
	r.logger.Info("Registered tools", slog.Int("count", len(tools)))
	return nil
}

// List returns all registered tools.
func (r *InMemoryToolRepository) List(ctx context.Context) ([]domain.Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]domain.Tool, 0, len(r.entries))
	for _, e := range r.entries {
		list = append(list, e.tool)
	}
	return list, nil
}

// FindToolByName retrieves a tool definition by name.
func (r *InMemoryToolRepository) FindToolByName(ctx context.Context, name string) (*domain.Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return nil, domain.ErrToolNotFound
	}
	tool := e.tool
	return &tool, nil
}

// FindInvocationDetailsByName retrieves a tool's request template by name.
func (r *InMemoryToolRepository) FindInvocationDetailsByName(ctx context.Context, name string) (*usecase.InvocationDetails, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return nil, domain.ErrToolNotFound
	}
	details := e.details
	return &details, nil
}
