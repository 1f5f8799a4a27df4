// Package catalog declares the fixed set of Composer tools this gateway
// exposes: every tool's input schema, auth requirement and the declarative
// template for the upstream request it maps to. Nothing here executes; the
// dispatcher and invoker interpret these descriptors at call time.
package catalog

import (
	"github.com/composer-trade/composer-mcp/internal/domain"
	"github.com/composer-trade/composer-mcp/internal/usecase"
)

const apiPrefix = "/api/v0.1"

// symphonyColors are the palette values the platform accepts for saved
// symphonies.
var symphonyColors = []string{
	"#AEC3C6", "#E3BC99", "#49D1E3", "#829DFF", "#FF6B6B", "#39D088",
	"#FC5100", "#FFBB38", "#FFB4ED", "#17BAFF", "#BA84FF",
}

var orderTypes = []string{"MARKET", "LIMIT", "STOP", "STOP_LIMIT", "TRAILING_STOP"}

var timeInForceValues = []string{"GTC", "DAY", "IOC", "FOK", "OPG", "CLS"}

var assetClasses = []string{"EQUITIES", "CRYPTO"}

type item struct {
	tool    domain.Tool
	details usecase.InvocationDetails
}

// Tools returns the full catalog as parallel slices in the form the
// repository's Save expects. The catalog is built fresh on each call so
// callers can never alias each other's descriptors.
func Tools() ([]domain.Tool, []usecase.InvocationDetails) {
	items := build()
	tools := make([]domain.Tool, len(items))
	details := make([]usecase.InvocationDetails, len(items))
	for i, it := range items {
		tools[i] = it.tool
		details[i] = it.details
	}
	return tools, details
}

func symphonyScoreParam() domain.ParamSpec {
	return domain.ParamSpec{
		Name:        "symphony_score",
		Kind:        domain.ParamObject,
		Description: "Symphony definition (the platform's strategy DSL) as produced by create_symphony.",
		Required:    true,
	}
}

func accountParam() domain.ParamSpec {
	return domain.ParamSpec{
		Name:        "account_uuid",
		Kind:        domain.ParamString,
		Description: "UUID of the brokerage account, from list_accounts.",
		Required:    true,
	}
}

func symphonyIDParam() domain.ParamSpec {
	return domain.ParamSpec{
		Name:        "symphony_id",
		Kind:        domain.ParamString,
		Description: "Identifier of a saved symphony.",
		Required:    true,
	}
}

// backtestParams is the parameter block shared by both backtest tools.
func backtestParams() []domain.ParamSpec {
	return []domain.ParamSpec{
		{Name: "start_date", Kind: domain.ParamString, Description: "Backtest start date (YYYY-MM-DD). Defaults to the earliest backtestable date."},
		{Name: "end_date", Kind: domain.ParamString, Description: "Backtest end date (YYYY-MM-DD). Defaults to the last day with data."},
		{Name: "include_daily_values", Kind: domain.ParamBoolean, Description: "Include daily cumulative returns. Set false to reduce the response size.", Default: true},
		{Name: "apply_reg_fee", Kind: domain.ParamBoolean, Default: true},
		{Name: "apply_taf_fee", Kind: domain.ParamBoolean, Default: true},
		{Name: "broker", Kind: domain.ParamString, Default: "ALPACA_WHITE_LABEL"},
		{Name: "capital", Kind: domain.ParamNumber, Description: "Starting capital in USD.", Default: float64(10000)},
		{Name: "slippage_percent", Kind: domain.ParamNumber, Default: 0.0001},
		{Name: "spread_markup", Kind: domain.ParamNumber, Default: 0.002},
		{Name: "benchmark_tickers", Kind: domain.ParamList, Items: domain.ParamString, Description: "Tickers to benchmark against.", Default: []any{"SPY"}},
	}
}

// backtestBody maps the shared backtest parameters into the request body.
// start_date and end_date are omitted when not supplied.
func backtestBody() []usecase.BodyField {
	return []usecase.BodyField{
		{Name: "start_date", From: "start_date"},
		{Name: "end_date", From: "end_date"},
		{Name: "apply_reg_fee", From: "apply_reg_fee"},
		{Name: "apply_taf_fee", From: "apply_taf_fee"},
		{Name: "broker", From: "broker"},
		{Name: "capital", From: "capital"},
		{Name: "slippage_percent", From: "slippage_percent"},
		{Name: "spread_markup", From: "spread_markup"},
		{Name: "benchmark_tickers", From: "benchmark_tickers"},
	}
}

// backtestShape is shared by both backtest tools. The daily value series is
// the bulk of the response and is dropped when include_daily_values is false.
func backtestShape() usecase.ResultShape {
	return usecase.ResultShape{
		RequireFields: []string{"stats"},
		InjectArgs:    []string{"capital"},
		TrimFieldsArg: "include_daily_values",
		TrimFields:    []string{"dvm_capital"},
	}
}

// savedSymphonyParams is the parameter block shared by save and update.
func savedSymphonyParams() []domain.ParamSpec {
	return []domain.ParamSpec{
		symphonyScoreParam(),
		{Name: "color", Kind: domain.ParamString, Description: "Display color for the symphony.", Required: true, Enum: symphonyColors},
		{Name: "hashtag", Kind: domain.ParamString, Description: "Memorable hashtag, like a ticker symbol for the symphony (e.g. '#BTD' for 'Buy the Dip').", Required: true},
		{Name: "asset_class", Kind: domain.ParamString, Enum: assetClasses, Default: "EQUITIES"},
	}
}

// savedSymphonyBody hoists name and description out of the score and wraps
// the score itself in the platform's raw_value envelope.
func savedSymphonyBody() []usecase.BodyField {
	return []usecase.BodyField{
		{Name: "name", From: "symphony_score", Path: []string{"name"}},
		{Name: "description", From: "symphony_score", Path: []string{"description"}},
		{Name: "color", From: "color"},
		{Name: "hashtag", From: "hashtag"},
		{Name: "asset_class", From: "asset_class"},
		{Name: "symphony", From: "symphony_score", WrapRawValue: true},
	}
}

func build() []item {
	return []item{
		{
			tool: domain.Tool{
				Name: "create_symphony",
				Description: "Validate a symphony defined in Composer's strategy DSL and return it in canonical form. " +
					"Symphonies can only enter long positions and cannot stay in cash. " +
					"Symphonies mixing equities and crypto must use daily or threshold rebalancing.",
				Params:   []domain.ParamSpec{symphonyScoreParam()},
				ReadOnly: true,
			},
			details: usecase.InvocationDetails{Local: true, LocalResult: "symphony_score"},
		},
		{
			tool: domain.Tool{
				Name: "backtest_symphony",
				Description: "Backtest a symphony that was created with create_symphony. Daily values are cumulative " +
					"returns since the first day of the backtest. Default to backtesting from the first day of the " +
					"year to keep the response small.",
				Params:   append([]domain.ParamSpec{symphonyScoreParam()}, backtestParams()...),
				ReadOnly: true,
			},
			details: usecase.InvocationDetails{
				HTTPMethod: "POST",
				HTTPPath:   apiPrefix + "/backtest",
				Body: append([]usecase.BodyField{
					{Name: "symphony", From: "symphony_score", WrapRawValue: true},
				}, backtestBody()...),
				Shape: backtestShape(),
			},
		},
		{
			tool: domain.Tool{
				Name:        "search_symphonies",
				Description: "Search public symphonies on the platform by free-text query.",
				Params: []domain.ParamSpec{
					{Name: "query", Kind: domain.ParamString, Description: "Free-text search query.", Required: true},
					{Name: "limit", Kind: domain.ParamNumber, Description: "Maximum number of results.", Default: float64(20)},
				},
				ReadOnly: true,
			},
			details: usecase.InvocationDetails{
				HTTPMethod:  "GET",
				HTTPPath:    apiPrefix + "/symphonies/search",
				QueryParams: []string{"query", "limit"},
			},
		},
		{
			tool: domain.Tool{
				Name: "backtest_symphony_by_id",
				Description: "Backtest a saved symphony given its ID. Use include_daily_values=false to reduce the " +
					"response size. Daily values are cumulative returns since the first day of the backtest.",
				Params:   append([]domain.ParamSpec{symphonyIDParam()}, backtestParams()...),
				ReadOnly: true,
			},
			details: usecase.InvocationDetails{
				HTTPMethod: "POST",
				HTTPPath:   apiPrefix + "/symphonies/{symphony_id}/backtest",
				PathParams: []string{"symphony_id"},
				Body:       backtestBody(),
				Shape:      backtestShape(),
			},
		},
		{
			tool: domain.Tool{
				Name: "list_accounts",
				Description: "List all brokerage accounts available to the Composer user, with their UUIDs. " +
					"An empty list means the user has not completed onboarding on app.composer.trade.",
				RequiresAuth: true,
				ReadOnly:     true,
			},
			details: usecase.InvocationDetails{
				HTTPMethod: "GET",
				HTTPPath:   apiPrefix + "/accounts/list",
				Shape:      usecase.ResultShape{UnwrapField: "accounts"},
			},
		},
		{
			tool: domain.Tool{
				Name:         "get_account_holdings",
				Description:  "Get the holdings of a brokerage account.",
				Params:       []domain.ParamSpec{accountParam()},
				RequiresAuth: true,
				ReadOnly:     true,
			},
			details: usecase.InvocationDetails{
				HTTPMethod: "GET",
				HTTPPath:   apiPrefix + "/accounts/{account_uuid}/holdings",
				PathParams: []string{"account_uuid"},
				Shape:      usecase.ResultShape{UnwrapField: "holdings"},
			},
		},
		{
			tool: domain.Tool{
				Name: "get_aggregate_portfolio_stats",
				Description: "Get aggregate portfolio statistics of a brokerage account: portfolio_value, total_cash, " +
					"pending_deploys_cash, total_unallocated_cash, net_deposits, simple_return, " +
					"todays_dollar_change and todays_percent_change.",
				Params:       []domain.ParamSpec{accountParam()},
				RequiresAuth: true,
				ReadOnly:     true,
			},
			details: usecase.InvocationDetails{
				HTTPMethod: "GET",
				HTTPPath:   apiPrefix + "/portfolio/accounts/{account_uuid}/total-stats",
				PathParams: []string{"account_uuid"},
				Shape:      usecase.ResultShape{OmitFields: []string{"time_weighted_return"}},
			},
		},
		{
			tool: domain.Tool{
				Name: "get_aggregate_symphony_stats",
				Description: "Get stats for every symphony in a brokerage account: simple_return, time-weighted " +
					"return, sharpe ratio, current holdings. deposit_adjusted_value is the time-weighted value.",
				Params:       []domain.ParamSpec{accountParam()},
				RequiresAuth: true,
				ReadOnly:     true,
			},
			details: usecase.InvocationDetails{
				HTTPMethod: "GET",
				HTTPPath:   apiPrefix + "/portfolio/accounts/{account_uuid}/symphony-stats-meta",
				PathParams: []string{"account_uuid"},
			},
		},
		{
			tool: domain.Tool{
				Name: "get_symphony_daily_performance",
				Description: "Get daily performance for a specific symphony in a brokerage account: dates, series " +
					"(total value per date) and deposit_adjusted_series (value adjusted for deposits and withdrawals).",
				Params:       []domain.ParamSpec{accountParam(), symphonyIDParam()},
				RequiresAuth: true,
				ReadOnly:     true,
			},
			details: usecase.InvocationDetails{
				HTTPMethod: "GET",
				HTTPPath:   apiPrefix + "/portfolio/accounts/{account_uuid}/symphonies/{symphony_id}",
				PathParams: []string{"account_uuid", "symphony_id"},
				Shape:      usecase.ResultShape{EpochDates: true},
			},
		},
		{
			tool: domain.Tool{
				Name: "get_portfolio_daily_performance",
				Description: "Get daily performance for a brokerage account: dates and series " +
					"(total portfolio value per date).",
				Params:       []domain.ParamSpec{accountParam()},
				RequiresAuth: true,
				ReadOnly:     true,
			},
			details: usecase.InvocationDetails{
				HTTPMethod: "GET",
				HTTPPath:   apiPrefix + "/portfolio/accounts/{account_uuid}/portfolio-history",
				PathParams: []string{"account_uuid"},
				Shape:      usecase.ResultShape{EpochDates: true},
			},
		},
		{
			tool: domain.Tool{
				Name:         "save_symphony",
				Description:  "Save a symphony to the user's account. Returns the symphony ID on success.",
				Params:       savedSymphonyParams(),
				RequiresAuth: true,
			},
			details: usecase.InvocationDetails{
				HTTPMethod: "POST",
				HTTPPath:   apiPrefix + "/symphonies/",
				Body:       savedSymphonyBody(),
			},
		},
		{
			tool: domain.Tool{
				Name:         "copy_symphony",
				Description:  "Copy an existing symphony into the user's account as a new saved symphony.",
				Params:       []domain.ParamSpec{symphonyIDParam()},
				RequiresAuth: true,
			},
			details: usecase.InvocationDetails{
				HTTPMethod: "POST",
				HTTPPath:   apiPrefix + "/symphonies/{symphony_id}/copy",
				PathParams: []string{"symphony_id"},
			},
		},
		{
			tool: domain.Tool{
				Name:         "update_saved_symphony",
				Description:  "Update an existing saved symphony. Returns the updated symphony details on success.",
				Params:       append([]domain.ParamSpec{symphonyIDParam()}, savedSymphonyParams()...),
				RequiresAuth: true,
			},
			details: usecase.InvocationDetails{
				HTTPMethod: "PUT",
				HTTPPath:   apiPrefix + "/symphonies/{symphony_id}",
				PathParams: []string{"symphony_id"},
				Body:       savedSymphonyBody(),
			},
		},
		{
			tool: domain.Tool{
				Name: "get_saved_symphony",
				Description: "Get a saved symphony's score. Useful when given a URL like " +
					"https://app.composer.trade/symphony/<symphony_id>/details",
				Params:   []domain.ParamSpec{symphonyIDParam()},
				ReadOnly: true,
			},
			details: usecase.InvocationDetails{
				HTTPMethod: "GET",
				HTTPPath:   apiPrefix + "/symphonies/{symphony_id}/score",
				PathParams: []string{"symphony_id"},
			},
		},
		{
			tool: domain.Tool{
				Name: "get_market_hours",
				Description: "Get market hours for the next week: open/close times and whether the market is " +
					"currently open. Crypto trades 24/7.",
				ReadOnly: true,
			},
			details: usecase.InvocationDetails{
				HTTPMethod: "GET",
				HTTPPath:   apiPrefix + "/deploy/market-hours",
			},
		},
		{
			tool: domain.Tool{
				Name: "invest_in_symphony",
				Description: "Queue an investment into a symphony for a specific account. Funds are allocated " +
					"during the platform's trading period, typically 10 minutes before market close. " +
					"Returns a deploy_id.",
				Params: []domain.ParamSpec{
					accountParam(),
					symphonyIDParam(),
					{Name: "amount", Kind: domain.ParamNumber, Description: "Amount to invest in USD. Must be greater than 0.", Required: true, ExclusiveMin: domain.Fval(0)},
				},
				RequiresAuth: true,
			},
			details: usecase.InvocationDetails{
				HTTPMethod: "POST",
				HTTPPath:   apiPrefix + "/deploy/accounts/{account_uuid}/symphonies/{symphony_id}/invest",
				PathParams: []string{"account_uuid", "symphony_id"},
				Body:       []usecase.BodyField{{Name: "amount", From: "amount"}},
			},
		},
		{
			tool: domain.Tool{
				Name: "withdraw_from_symphony",
				Description: "Queue a withdrawal from a symphony for a specific account, processed during the " +
					"platform's trading period. Returns a deploy_id.",
				Params: []domain.ParamSpec{
					accountParam(),
					symphonyIDParam(),
					{Name: "amount", Kind: domain.ParamNumber, Description: "Amount to withdraw, as a negative number of USD.", Required: true, ExclusiveMax: domain.Fval(0)},
				},
				RequiresAuth: true,
			},
			details: usecase.InvocationDetails{
				HTTPMethod: "POST",
				HTTPPath:   apiPrefix + "/deploy/accounts/{account_uuid}/symphonies/{symphony_id}/withdraw",
				PathParams: []string{"account_uuid", "symphony_id"},
				Body:       []usecase.BodyField{{Name: "amount", From: "amount"}},
			},
		},
		{
			tool: domain.Tool{
				Name: "cancel_invest_or_withdraw",
				Description: "Cancel a queued invest or withdraw that has not executed yet, using the deploy_id " +
					"returned when it was queued. Use this when a pending invest/withdraw should not run.",
				Params: []domain.ParamSpec{
					accountParam(),
					{Name: "deploy_id", Kind: domain.ParamString, Description: "Deploy identifier returned by invest_in_symphony or withdraw_from_symphony.", Required: true},
				},
				RequiresAuth: true,
			},
			details: usecase.InvocationDetails{
				HTTPMethod: "DELETE",
				HTTPPath:   apiPrefix + "/deploy/accounts/{account_uuid}/deploys/{deploy_id}",
				PathParams: []string{"account_uuid", "deploy_id"},
				Shape:      usecase.ResultShape{NoContentMessage: "Successfully cancelled the pending deploy"},
			},
		},
		{
			tool: domain.Tool{
				Name: "skip_automated_rebalance_for_symphony",
				Description: "Skip the next automated rebalance for a symphony in a specific account " +
					"(resumes after the one skipped). Useful for manually controlling the rebalance process.",
				Params: []domain.ParamSpec{
					accountParam(),
					symphonyIDParam(),
					{Name: "skip", Kind: domain.ParamBoolean, Description: "Set false to re-enable the next automated rebalance.", Default: true},
				},
				RequiresAuth: true,
			},
			details: usecase.InvocationDetails{
				HTTPMethod: "POST",
				HTTPPath:   apiPrefix + "/deploy/accounts/{account_uuid}/symphonies/{symphony_id}/skip-automated-rebalance",
				PathParams: []string{"account_uuid", "symphony_id"},
				Body:       []usecase.BodyField{{Name: "skip", From: "skip"}},
				Shape:      usecase.ResultShape{NoContentMessage: "Successfully skipped next automated rebalance"},
			},
		},
		{
			tool: domain.Tool{
				Name: "go_to_cash_for_symphony",
				Description: "Immediately sell all assets in a symphony and hold cash until the next automated " +
					"rebalance. Unlike liquidate_symphony, rebalancing continues afterwards; combine with " +
					"skip_automated_rebalance_for_symphony to stay in cash longer.",
				Params:       []domain.ParamSpec{accountParam(), symphonyIDParam()},
				RequiresAuth: true,
			},
			details: usecase.InvocationDetails{
				HTTPMethod: "POST",
				HTTPPath:   apiPrefix + "/deploy/accounts/{account_uuid}/symphonies/{symphony_id}/go-to-cash",
				PathParams: []string{"account_uuid", "symphony_id"},
			},
		},
		{
			tool: domain.Tool{
				Name: "rebalance_symphony_now",
				Description: "Rebalance a symphony now instead of waiting for the next automated rebalance. " +
					"Requires the rebalance_request_uuid produced by preview_rebalance_for_symphony.",
				Params: []domain.ParamSpec{
					accountParam(),
					symphonyIDParam(),
					{Name: "rebalance_request_uuid", Kind: domain.ParamString, Description: "Result of the preview_rebalance_for_symphony tool.", Required: true},
				},
				RequiresAuth: true,
			},
			details: usecase.InvocationDetails{
				HTTPMethod: "POST",
				HTTPPath:   apiPrefix + "/deploy/accounts/{account_uuid}/symphonies/{symphony_id}/rebalance",
				PathParams: []string{"account_uuid", "symphony_id"},
				Body:       []usecase.BodyField{{Name: "rebalance_request_uuid", From: "rebalance_request_uuid"}},
			},
		},
		{
			tool: domain.Tool{
				Name: "liquidate_symphony",
				Description: "Immediately sell all assets in a symphony, or queue the sale for market open if the " +
					"market is closed. Liquidated symphonies stop rebalancing until more money is invested.",
				Params:       []domain.ParamSpec{accountParam(), symphonyIDParam()},
				RequiresAuth: true,
			},
			details: usecase.InvocationDetails{
				HTTPMethod: "POST",
				HTTPPath:   apiPrefix + "/deploy/accounts/{account_uuid}/symphonies/{symphony_id}/liquidate",
				PathParams: []string{"account_uuid", "symphony_id"},
			},
		},
		{
			tool: domain.Tool{
				Name: "preview_rebalance_for_user",
				Description: "Dry run of rebalancing across all accounts: shows what trades would be executed " +
					"right now without executing them.",
				RequiresAuth: true,
				ReadOnly:     true,
			},
			details: usecase.InvocationDetails{
				HTTPMethod: "POST",
				HTTPPath:   apiPrefix + "/dry-run",
			},
		},
		{
			tool: domain.Tool{
				Name: "preview_rebalance_for_symphony",
				Description: "Dry run of rebalancing for one symphony. Returns the projected trades and a " +
					"rebalance_request_uuid that rebalance_symphony_now accepts to execute them.",
				Params:       []domain.ParamSpec{accountParam(), symphonyIDParam()},
				RequiresAuth: true,
				ReadOnly:     true,
			},
			details: usecase.InvocationDetails{
				HTTPMethod: "POST",
				HTTPPath:   apiPrefix + "/dry-run/trade-preview/{symphony_id}",
				PathParams: []string{"symphony_id"},
				Body:       []usecase.BodyField{{Name: "broker_account_uuid", From: "account_uuid"}},
			},
		},
		{
			tool: domain.Tool{
				Name: "execute_single_trade",
				Description: "Execute a single order for a specific symbol like in a traditional brokerage " +
					"account. Useful for holding assets that should not be rebalanced. One of notional or " +
					"quantity must be provided.",
				Params: []domain.ParamSpec{
					accountParam(),
					{Name: "type", Kind: domain.ParamString, Description: "Order type.", Required: true, Enum: orderTypes},
					{Name: "symbol", Kind: domain.ParamString, Description: "Ticker symbol to trade.", Required: true},
					{Name: "time_in_force", Kind: domain.ParamString, Description: "How long the order stays active.", Required: true, Enum: timeInForceValues},
					{Name: "notional", Kind: domain.ParamNumber, Description: "Order size in USD."},
					{Name: "quantity", Kind: domain.ParamNumber, Description: "Order size in shares."},
				},
				RequireOneOf: [][]string{{"notional", "quantity"}},
				RequiresAuth: true,
			},
			details: usecase.InvocationDetails{
				HTTPMethod: "POST",
				HTTPPath:   apiPrefix + "/trading/accounts/{account_uuid}/order-requests",
				PathParams: []string{"account_uuid"},
				Body: []usecase.BodyField{
					{Name: "type", From: "type"},
					{Name: "symbol", From: "symbol"},
					{Name: "time_in_force", From: "time_in_force"},
					{Name: "notional", From: "notional"},
					{Name: "quantity", From: "quantity"},
				},
			},
		},
		{
			tool: domain.Tool{
				Name: "cancel_single_trade",
				Description: "Cancel a single-trade order request that has not executed yet. Only QUEUED or OPEN " +
					"order requests can be cancelled.",
				Params: []domain.ParamSpec{
					accountParam(),
					{Name: "order_request_id", Kind: domain.ParamString, Description: "Order request identifier returned by execute_single_trade.", Required: true},
				},
				RequiresAuth: true,
			},
			details: usecase.InvocationDetails{
				HTTPMethod: "DELETE",
				HTTPPath:   apiPrefix + "/trading/accounts/{account_uuid}/order-requests/{order_request_id}",
				PathParams: []string{"account_uuid", "order_request_id"},
				Shape:      usecase.ResultShape{NoContentMessage: "Successfully cancelled the order request"},
			},
		},
	}
}
