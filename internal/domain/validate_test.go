package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/composer-trade/composer-mcp/internal/domain"
)

func investTool() *domain.Tool {
	return &domain.Tool{
		Name: "invest_in_symphony",
		Params: []domain.ParamSpec{
			{Name: "account_uuid", Kind: domain.ParamString, Required: true},
			{Name: "symphony_id", Kind: domain.ParamString, Required: true},
			{Name: "amount", Kind: domain.ParamNumber, Required: true, ExclusiveMin: domain.Fval(0)},
		},
		RequiresAuth: true,
	}
}

func TestValidateArguments(t *testing.T) {
	tradeTool := &domain.Tool{
		Name: "execute_single_trade",
		Params: []domain.ParamSpec{
			{Name: "account_uuid", Kind: domain.ParamString, Required: true},
			{Name: "type", Kind: domain.ParamString, Required: true, Enum: []string{"MARKET", "LIMIT"}},
			{Name: "symbol", Kind: domain.ParamString, Required: true},
			{Name: "notional", Kind: domain.ParamNumber},
			{Name: "quantity", Kind: domain.ParamNumber},
		},
		RequireOneOf: [][]string{{"notional", "quantity"}},
	}
	backtestTool := &domain.Tool{
		Name: "backtest_symphony",
		Params: []domain.ParamSpec{
			{Name: "symphony_score", Kind: domain.ParamObject, Required: true},
			{Name: "capital", Kind: domain.ParamNumber, Default: float64(10000)},
			{Name: "include_daily_values", Kind: domain.ParamBoolean, Default: true},
			{Name: "benchmark_tickers", Kind: domain.ParamList, Items: domain.ParamString, Default: []any{"SPY"}},
		},
	}

	tests := []struct {
		name      string
		tool      *domain.Tool
		raw       map[string]any
		wantErr   string // substring of the validation error, empty for success
		wantParam string
		check     func(t *testing.T, args map[string]any)
	}{
		{
			name:      "missing required parameter",
			tool:      investTool(),
			raw:       map[string]any{"account_uuid": "a", "symphony_id": "s"},
			wantErr:   "required parameter is missing",
			wantParam: "amount",
		},
		{
			name:      "unknown parameter rejected",
			tool:      investTool(),
			raw:       map[string]any{"account_uuid": "a", "symphony_id": "s", "amount": 10.0, "bogus": 1},
			wantErr:   "unknown parameter",
			wantParam: "bogus",
		},
		{
			name:      "amount must be positive",
			tool:      investTool(),
			raw:       map[string]any{"account_uuid": "a", "symphony_id": "s", "amount": -5.0},
			wantErr:   "greater than 0",
			wantParam: "amount",
		},
		{
			name:      "amount of zero rejected",
			tool:      investTool(),
			raw:       map[string]any{"account_uuid": "a", "symphony_id": "s", "amount": 0},
			wantErr:   "greater than 0",
			wantParam: "amount",
		},
		{
			name: "integer amounts coerced to float64",
			tool: investTool(),
			raw:  map[string]any{"account_uuid": "a", "symphony_id": "s", "amount": 100},
			check: func(t *testing.T, args map[string]any) {
				assert.Equal(t, float64(100), args["amount"])
			},
		},
		{
			name:      "enum violation names the value set",
			tool:      tradeTool,
			raw:       map[string]any{"account_uuid": "a", "type": "FANCY", "symbol": "SPY", "notional": 10.0},
			wantErr:   "must be one of: MARKET, LIMIT",
			wantParam: "type",
		},
		{
			name:    "one-of group requires at least one member",
			tool:    tradeTool,
			raw:     map[string]any{"account_uuid": "a", "type": "MARKET", "symbol": "SPY"},
			wantErr: "one of notional, quantity must be provided",
		},
		{
			name: "one-of group satisfied by either member",
			tool: tradeTool,
			raw:  map[string]any{"account_uuid": "a", "type": "MARKET", "symbol": "SPY", "quantity": 2.0},
		},
		{
			name:      "wrong type for string parameter",
			tool:      investTool(),
			raw:       map[string]any{"account_uuid": 42, "symphony_id": "s", "amount": 1.0},
			wantErr:   "expected a string",
			wantParam: "account_uuid",
		},
		{
			name: "defaults applied for absent optional parameters",
			tool: backtestTool,
			raw:  map[string]any{"symphony_score": map[string]any{"name": "x"}},
			check: func(t *testing.T, args map[string]any) {
				assert.Equal(t, float64(10000), args["capital"])
				assert.Equal(t, true, args["include_daily_values"])
				assert.Equal(t, []any{"SPY"}, args["benchmark_tickers"])
			},
		},
		{
			name:      "list element type enforced",
			tool:      backtestTool,
			raw:       map[string]any{"symphony_score": map[string]any{}, "benchmark_tickers": []any{"SPY", 7}},
			wantErr:   "element 1: expected string",
			wantParam: "benchmark_tickers",
		},
		{
			name:      "object parameter rejects scalar",
			tool:      backtestTool,
			raw:       map[string]any{"symphony_score": "not an object"},
			wantErr:   "expected an object",
			wantParam: "symphony_score",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := domain.ValidateArguments(tt.tool, tt.raw)
			if tt.wantErr != "" {
				require.Error(t, err)
				var verr *domain.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Contains(t, verr.Error(), tt.wantErr)
				if tt.wantParam != "" {
					assert.Equal(t, tt.wantParam, verr.Param)
				}
				assert.Nil(t, args)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, args)
			}
		})
	}
}

func TestValidateArgumentsDoesNotMutateInput(t *testing.T) {
	tool := investTool()
	raw := map[string]any{"account_uuid": "a", "symphony_id": "s", "amount": 25}

	args, err := domain.ValidateArguments(tool, raw)
	require.NoError(t, err)

	// Normalization happens on a fresh map; the caller's arguments are
	// untouched.
	assert.Equal(t, 25, raw["amount"])
	assert.Equal(t, float64(25), args["amount"])
}

func TestCredentialsPresent(t *testing.T) {
	assert.False(t, domain.Credentials{}.Present())
	assert.False(t, domain.Credentials{APIKey: "k"}.Present())
	assert.False(t, domain.Credentials{SecretKey: "s"}.Present())
	assert.True(t, domain.Credentials{APIKey: "k", SecretKey: "s"}.Present())
}
