package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/composer-trade/composer-mcp/internal/domain"
)

// ListToolsUseCase exposes the registered catalog for introspection (the ops
// endpoint and protocol registration both read it).
type ListToolsUseCase struct {
	repository ToolRepository
	logger     *slog.Logger
}

// NewListToolsUseCase creates a new ListToolsUseCase.
func NewListToolsUseCase(repository ToolRepository, logger *slog.Logger) *ListToolsUseCase {
	return &ListToolsUseCase{
		repository: repository,
		logger:     logger.With("usecase", "ListTools"),
	}
}

// Execute retrieves all registered tool definitions.
func (uc *ListToolsUseCase) Execute(ctx context.Context) ([]domain.Tool, error) {
	tools, err := uc.repository.List(ctx)
	if err != nil {
		uc.logger.Error("Failed to list tools from repository", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list tools from repository: %w", err)
	}
	uc.logger.Debug("Listed tools", slog.Int("count", len(tools)))
	return tools, nil
}
