// Package mcpsrv is the MCP-facing boundary: it converts the catalog's tool
// definitions into mcp-go tool registrations and routes incoming protocol
// calls to the dispatcher. It is a pass-through layer; nothing here talks to
// the upstream platform directly.
package mcpsrv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/composer-trade/composer-mcp/internal/domain"
	"github.com/composer-trade/composer-mcp/internal/usecase"
)

// Server wraps the mcp-go server with the gateway's tool registrations.
type Server struct {
	mcp    *mcpserver.MCPServer
	invoke *usecase.InvokeToolUseCase
	logger *slog.Logger
}

// New creates the MCP server shell. Tools are added via RegisterTools.
func New(name, version string, invoke *usecase.InvokeToolUseCase, logger *slog.Logger) *Server {
	srv := mcpserver.NewMCPServer(
		name,
		version,
		mcpserver.WithToolCapabilities(true),
	)
	return &Server{
		mcp:    srv,
		invoke: invoke,
		logger: logger.With("component", "mcp_server"),
	}
}

// MCPServer exposes the underlying server for transport wiring (stdio/SSE).
func (s *Server) MCPServer() *mcpserver.MCPServer { return s.mcp }

// RegisterTools registers every catalog tool with the protocol runtime. Each
// handler closure forwards to the dispatcher and maps the terminal outcome
// into a protocol result; per-call errors never propagate past here.
func (s *Server) RegisterTools(tools []domain.Tool) {
	for _, tool := range tools {
		name := tool.Name
		s.mcp.AddTool(toMCPTool(tool), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			result, err := s.invoke.Execute(ctx, name, req.GetArguments())
			if err != nil {
				return mcp.NewToolResultError(describeError(err)), nil
			}
			encoded, err := json.Marshal(result)
			if err != nil {
				s.logger.Error("Failed to encode tool result", slog.String("tool_name", name), slog.Any("error", err))
				return mcp.NewToolResultError(fmt.Sprintf("internal error: failed to encode result: %v", err)), nil
			}
			return mcp.NewToolResultText(string(encoded)), nil
		})
	}
	s.logger.Info("Registered tools with MCP runtime", slog.Int("count", len(tools)))
}

// describeError renders one taxonomy error for the protocol caller. The
// category prefix lets an LLM caller decide whether to fix its arguments,
// surface a configuration problem, or abandon the action; upstream status and
// message are passed through verbatim.
func describeError(err error) string {
	var validationErr *domain.ValidationError
	var tradingErr *domain.TradingAPIError
	var transportErr *domain.TransportError
	var contractErr *domain.UpstreamContractError

	switch {
	case errors.As(err, &validationErr):
		return "validation error: " + validationErr.Error()
	case errors.Is(err, domain.ErrNoCredentials):
		return "authentication not configured: " + domain.ErrNoCredentials.Error()
	case errors.Is(err, domain.ErrToolNotFound):
		return "unknown tool: " + err.Error()
	case errors.As(err, &tradingErr):
		return "trading API error: " + tradingErr.Error()
	case errors.As(err, &transportErr):
		return "transport error: " + transportErr.Error() +
			" (the request was not retried; the platform may or may not have received it)"
	case errors.As(err, &contractErr):
		return "upstream contract error: " + contractErr.Error()
	default:
		return err.Error()
	}
}

// toMCPTool converts a catalog definition into the mcp-go tool schema.
func toMCPTool(tool domain.Tool) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(tool.Description)}
	for _, p := range tool.Params {
		opts = append(opts, paramOption(p))
	}
	return mcp.NewTool(tool.Name, opts...)
}

func paramOption(p domain.ParamSpec) mcp.ToolOption {
	var propOpts []mcp.PropertyOption
	if p.Required {
		propOpts = append(propOpts, mcp.Required())
	}
	if p.Description != "" {
		propOpts = append(propOpts, mcp.Description(p.Description))
	}
	if len(p.Enum) > 0 {
		propOpts = append(propOpts, mcp.Enum(p.Enum...))
	}

	switch p.Kind {
	case domain.ParamString:
		if s, ok := p.Default.(string); ok {
			propOpts = append(propOpts, mcp.DefaultString(s))
		}
		return mcp.WithString(p.Name, propOpts...)
	case domain.ParamNumber:
		if f, ok := p.Default.(float64); ok {
			propOpts = append(propOpts, mcp.DefaultNumber(f))
		}
		return mcp.WithNumber(p.Name, propOpts...)
	case domain.ParamBoolean:
		if b, ok := p.Default.(bool); ok {
			propOpts = append(propOpts, mcp.DefaultBool(b))
		}
		return mcp.WithBoolean(p.Name, propOpts...)
	case domain.ParamList:
		if p.Items != "" {
			propOpts = append(propOpts, mcp.Items(map[string]any{"type": string(itemsType(p.Items))}))
		}
		return mcp.WithArray(p.Name, propOpts...)
	default:
		return mcp.WithObject(p.Name, propOpts...)
	}
}

func itemsType(kind domain.ParamKind) domain.ParamKind {
	if kind == domain.ParamList {
		return "array"
	}
	return kind
}
