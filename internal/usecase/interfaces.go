package usecase

import (
	"context"

	"github.com/composer-trade/composer-mcp/internal/domain"
)

// ToolRepository is the contract for looking up registered tool definitions
// and their upstream request templates. The only implementation is an
// in-memory store populated once at startup from the static catalog.
type ToolRepository interface {
	// Save stores tools and their invocation details. Both slices correspond
	// by index and must have equal length.
	Save(ctx context.Context, tools []domain.Tool, details []InvocationDetails) error

	// List returns every registered tool.
	List(ctx context.Context) ([]domain.Tool, error)

	// FindToolByName returns the definition for name, or domain.ErrToolNotFound.
	FindToolByName(ctx context.Context, name string) (*domain.Tool, error)

	// FindInvocationDetailsByName returns the request template for name,
	// or domain.ErrToolNotFound.
	FindInvocationDetailsByName(ctx context.Context, name string) (*InvocationDetails, error)
}

// ToolInvoker executes one upstream HTTP call described by an
// InvocationDetails template and validated arguments. Implementations must
// not retry: every upstream failure is terminal for the invocation.
type ToolInvoker interface {
	Invoke(ctx context.Context, details InvocationDetails, args map[string]any, creds domain.Credentials) (*UpstreamResult, error)
}

// UpstreamResult is one consumed upstream response: the HTTP status and the
// decoded JSON body (nil for 204/empty responses, a string for non-JSON
// bodies). It is produced once per invocation and never retained.
type UpstreamResult struct {
	Status int
	Body   any
}
