package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/composer-trade/composer-mcp/internal/domain"
)

// BodyField declares how one field of the upstream JSON body is produced.
// Exactly one of From/Value is used; Path optionally drills into an object
// argument; WrapRawValue encodes the value as {"raw_value": <v>}, the envelope
// the platform expects around symphony scores.
type BodyField struct {
	Name         string
	From         string
	Path         []string
	Value        any
	WrapRawValue bool
}

// ResultShape declares the post-processing applied to a successful upstream
// body before it becomes the tool result. All rules are optional.
type ResultShape struct {
	// UnwrapField requires the body to be an object containing this field and
	// makes the field's value the result.
	UnwrapField string

	// RequireFields lists top-level keys the body must contain.
	RequireFields []string

	// EpochDates replaces an epoch_ms millisecond array with a dates array of
	// YYYY-MM-DD strings.
	EpochDates bool

	// OmitFields drops top-level keys from the result.
	OmitFields []string

	// TrimFieldsArg names a boolean argument; unless it is true, the
	// TrimFields keys are dropped from the result. Used to trim bulky daily
	// value series out of backtest responses on request.
	TrimFieldsArg string
	TrimFields    []string

	// NoContentMessage turns an empty (204) body into {"status": <message>}.
	NoContentMessage string

	// InjectArgs echoes named validated arguments into the result object.
	InjectArgs []string
}

// InvocationDetails is the declarative template mapping one tool to one
// upstream HTTP request. Every tool's template is statically defined in the
// catalog; a single generic builder interprets it.
type InvocationDetails struct {
	// HTTPMethod is the upstream verb (GET, POST, PUT, DELETE).
	HTTPMethod string

	// HTTPPath is the request path with {placeholders} for path parameters.
	HTTPPath string

	// PathParams lists argument names substituted into HTTPPath.
	PathParams []string

	// QueryParams lists argument names sent as URL query values when present.
	QueryParams []string

	// Body declares the JSON body; an empty slice means no body.
	Body []BodyField

	// Local marks tools resolved entirely inside the gateway (no upstream
	// request). The validated argument named by LocalResult is the result.
	Local       bool
	LocalResult string

	Shape ResultShape
}

// InvokeToolUseCase is the tool dispatcher: it validates arguments against
// the declared schema, gates on credentials, issues exactly one upstream
// request and shapes the response. Errors are resolved locally into one typed
// terminal outcome; nothing is retried.
type InvokeToolUseCase struct {
	repository ToolRepository
	invoker    ToolInvoker
	creds      domain.Credentials
	logger     *slog.Logger
}

// NewInvokeToolUseCase creates a dispatcher bound to a fixed credential pair.
func NewInvokeToolUseCase(repo ToolRepository, invoker ToolInvoker, creds domain.Credentials, logger *slog.Logger) *InvokeToolUseCase {
	return &InvokeToolUseCase{
		repository: repo,
		invoker:    invoker,
		creds:      creds,
		logger:     logger.With("usecase", "InvokeTool"),
	}
}

// Execute dispatches one tool invocation and returns its terminal outcome.
func (uc *InvokeToolUseCase) Execute(ctx context.Context, toolName string, rawArgs map[string]any) (any, error) {
	log := uc.logger.With(slog.String("tool_name", toolName))

	tool, err := uc.repository.FindToolByName(ctx, toolName)
	if err != nil {
		log.Warn("Tool definition not found", slog.Any("error", err))
		return nil, fmt.Errorf("tool %q: %w", toolName, err)
	}

	args, err := domain.ValidateArguments(tool, rawArgs)
	if err != nil {
		log.Warn("Argument validation failed", slog.Any("error", err))
		return nil, err
	}

	if tool.RequiresAuth && !uc.creds.Present() {
		log.Warn("Credentials required but not configured")
		return nil, fmt.Errorf("tool %q: %w", toolName, domain.ErrNoCredentials)
	}

	details, err := uc.repository.FindInvocationDetailsByName(ctx, toolName)
	if err != nil {
		log.Error("Invocation details not found", slog.Any("error", err))
		return nil, fmt.Errorf("tool %q: %w", toolName, err)
	}

	if details.Local {
		log.Info("Resolved tool locally")
		return args[details.LocalResult], nil
	}

	log.Info("Invoking upstream service",
		slog.String("method", details.HTTPMethod),
		slog.String("path", details.HTTPPath))
	res, err := uc.invoker.Invoke(ctx, *details, args, uc.creds)
	if err != nil {
		log.Warn("Upstream invocation failed", slog.Any("error", err))
		return nil, err
	}

	result, err := shapeResult(tool.Name, details.Shape, res, args)
	if err != nil {
		log.Error("Upstream response did not match expected shape", slog.Any("error", err))
		return nil, err
	}

	log.Info("Tool invocation successful", slog.Int("status", res.Status))
	return result, nil
}

// shapeResult applies the declared ResultShape to one upstream body. A shape
// rule that cannot be applied means the platform changed its response
// contract, never a caller mistake.
func shapeResult(toolName string, shape ResultShape, res *UpstreamResult, args map[string]any) (any, error) {
	body := res.Body

	if body == nil {
		if shape.UnwrapField != "" {
			return nil, &domain.UpstreamContractError{Tool: toolName, Reason: fmt.Sprintf("empty response body, expected an object with the %q field", shape.UnwrapField)}
		}
		if shape.NoContentMessage != "" {
			return map[string]any{"status": shape.NoContentMessage}, nil
		}
		return map[string]any{}, nil
	}

	if shape.UnwrapField != "" {
		obj, ok := body.(map[string]any)
		if !ok {
			return nil, &domain.UpstreamContractError{Tool: toolName, Reason: fmt.Sprintf("expected a JSON object with field %q, got %T", shape.UnwrapField, body)}
		}
		inner, ok := obj[shape.UnwrapField]
		if !ok {
			return nil, &domain.UpstreamContractError{Tool: toolName, Reason: fmt.Sprintf("response is missing the %q field", shape.UnwrapField)}
		}
		return inner, nil
	}

	needsObject := len(shape.RequireFields) > 0 || shape.EpochDates ||
		len(shape.OmitFields) > 0 || shape.TrimFieldsArg != "" || len(shape.InjectArgs) > 0
	if !needsObject {
		return body, nil
	}

	obj, ok := body.(map[string]any)
	if !ok {
		return nil, &domain.UpstreamContractError{Tool: toolName, Reason: fmt.Sprintf("expected a JSON object, got %T", body)}
	}

	for _, field := range shape.RequireFields {
		if _, ok := obj[field]; !ok {
			return nil, &domain.UpstreamContractError{Tool: toolName, Reason: fmt.Sprintf("response is missing the %q field", field)}
		}
	}

	// Copy before mutating: the same body must never leak between rules.
	out := make(map[string]any, len(obj)+len(shape.InjectArgs))
	for k, v := range obj {
		out[k] = v
	}

	if shape.EpochDates {
		dates, err := epochDates(toolName, out["epoch_ms"])
		if err != nil {
			return nil, err
		}
		delete(out, "epoch_ms")
		out["dates"] = dates
	}

	for _, field := range shape.OmitFields {
		delete(out, field)
	}

	if shape.TrimFieldsArg != "" {
		if keep, _ := args[shape.TrimFieldsArg].(bool); !keep {
			for _, field := range shape.TrimFields {
				delete(out, field)
			}
		}
	}

	for _, name := range shape.InjectArgs {
		if v, ok := args[name]; ok {
			out[name] = v
		}
	}

	return out, nil
}

func epochDates(toolName string, raw any) ([]string, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, &domain.UpstreamContractError{Tool: toolName, Reason: "response is missing the \"epoch_ms\" array"}
	}
	dates := make([]string, 0, len(list))
	for i, item := range list {
		ms, ok := item.(float64)
		if !ok {
			return nil, &domain.UpstreamContractError{Tool: toolName, Reason: fmt.Sprintf("epoch_ms[%d] is not a number", i)}
		}
		dates = append(dates, time.UnixMilli(int64(ms)).UTC().Format("2006-01-02"))
	}
	return dates, nil
}
