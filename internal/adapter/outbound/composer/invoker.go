package composer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/composer-trade/composer-mcp/internal/domain"
	"github.com/composer-trade/composer-mcp/internal/usecase"
)

// Header names the Composer public API expects on every request.
const (
	headerAPIKey = "x-api-key-id"
	headerOrigin = "x-origin"
	originValue  = "public-api"
)

// maxErrorBody bounds how much of an upstream error body is carried back to
// the caller.
const maxErrorBody = 1000

// Invoker implements usecase.ToolInvoker against the Composer REST API using
// one shared, connection-pooled http.Client. It performs exactly one request
// per invocation: retrying a trading endpoint could duplicate a trade, so
// every failure is terminal.
type Invoker struct {
	client  *http.Client
	baseURL string
	logger  *slog.Logger
}

// New creates an Invoker. The client carries the per-call timeout and the
// pooled transport; baseURL is the platform root without a trailing slash.
func New(client *http.Client, baseURL string, logger *slog.Logger) *Invoker {
	if client == nil {
		client = http.DefaultClient
	}
	return &Invoker{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.With("component", "composer_invoker"),
	}
}

// Invoke builds the request from the declarative template and executes it.
func (i *Invoker) Invoke(ctx context.Context, details usecase.InvocationDetails, args map[string]any, creds domain.Credentials) (*usecase.UpstreamResult, error) {
	log := i.logger.With(
		slog.String("method", details.HTTPMethod),
		slog.String("path", details.HTTPPath),
	)

	reqURL, err := i.buildURL(details, args)
	if err != nil {
		return nil, err
	}

	var requestBody io.Reader
	if len(details.Body) > 0 {
		payload, err := buildBody(details.Body, args)
		if err != nil {
			return nil, err
		}
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		requestBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, details.HTTPMethod, reqURL, requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if requestBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(headerOrigin, originValue)
	if creds.Present() {
		req.Header.Set(headerAPIKey, creds.APIKey)
		req.Header.Set("Authorization", "Bearer "+creds.SecretKey)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		log.Warn("HTTP request failed", slog.Any("error", err))
		return nil, &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Warn("Failed to read response body", slog.Any("error", err))
		return nil, &domain.TransportError{Err: err}
	}

	log = log.With(slog.Int("status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn("Upstream returned non-success status")
		body := truncate(string(respBytes), maxErrorBody)
		return nil, &domain.TradingAPIError{
			Status:  resp.StatusCode,
			Message: errorMessage(respBytes),
			Body:    body,
		}
	}

	if resp.StatusCode == http.StatusNoContent || len(respBytes) == 0 {
		log.Debug("Upstream returned no content")
		return &usecase.UpstreamResult{Status: resp.StatusCode}, nil
	}

	var decoded any
	if err := json.Unmarshal(respBytes, &decoded); err != nil {
		// Non-JSON success bodies are passed through; the dispatcher's shape
		// rules decide whether that breaks the tool's contract.
		log.Debug("Response body is not JSON, passing through as string")
		return &usecase.UpstreamResult{Status: resp.StatusCode, Body: string(respBytes)}, nil
	}
	return &usecase.UpstreamResult{Status: resp.StatusCode, Body: decoded}, nil
}

func (i *Invoker) buildURL(details usecase.InvocationDetails, args map[string]any) (string, error) {
	p := details.HTTPPath
	for _, name := range details.PathParams {
		v, ok := args[name]
		if !ok {
			return "", fmt.Errorf("path parameter %q missing from arguments", name)
		}
		p = strings.ReplaceAll(p, "{"+name+"}", url.PathEscape(fmt.Sprintf("%v", v)))
	}

	query := url.Values{}
	for _, name := range details.QueryParams {
		if v, ok := args[name]; ok {
			query.Add(name, fmt.Sprintf("%v", v))
		}
	}

	full := i.baseURL + p
	if len(query) > 0 {
		full += "?" + query.Encode()
	}
	return full, nil
}

// buildBody interprets the declared body template. Fields whose source
// argument is absent are simply omitted.
func buildBody(fields []usecase.BodyField, args map[string]any) (map[string]any, error) {
	payload := make(map[string]any, len(fields))
	for _, f := range fields {
		var value any
		if f.From == "" {
			value = f.Value
		} else {
			v, ok := args[f.From]
			if !ok {
				continue
			}
			if len(f.Path) > 0 {
				inner, err := lookupPath(v, f.Path)
				if err != nil {
					return nil, fmt.Errorf("body field %q: %w", f.Name, err)
				}
				v = inner
			}
			value = v
		}
		if f.WrapRawValue {
			value = map[string]any{"raw_value": value}
		}
		payload[f.Name] = value
	}
	return payload, nil
}

func lookupPath(v any, path []string) (any, error) {
	for _, key := range path {
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("cannot descend into %T at %q", v, key)
		}
		v, ok = obj[key]
		if !ok {
			return nil, fmt.Errorf("missing field %q", key)
		}
	}
	return v, nil
}

// errorMessage pulls a human-readable message out of an upstream error body.
// The platform uses {"error": ...} and occasionally {"message": ...}.
func errorMessage(body []byte) string {
	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err == nil {
		if msg, ok := decoded["error"].(string); ok && msg != "" {
			return msg
		}
		if msg, ok := decoded["message"].(string); ok && msg != "" {
			return msg
		}
	}
	return truncate(strings.TrimSpace(string(body)), maxErrorBody)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
