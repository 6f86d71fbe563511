// Package tokenreport implements the token-report offering: a market report
// for a single token address.
package tokenreport

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"hawker/internal/logging"
	"hawker/internal/market"
	"hawker/internal/offering"
	"hawker/internal/pricing"
)

// ID identifies this offering in the catalog.
const ID = "token-report"

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// Handler builds token reports from market data.
type Handler struct {
	market *market.Client
	quoter *pricing.Quoter
	logger *slog.Logger
}

// New constructs the token-report handler.
func New(client *market.Client, quoter *pricing.Quoter, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handler{market: client, quoter: quoter, logger: logger}
}

func (h *Handler) ID() string { return ID }

func (h *Handler) Description() string {
	return "Market report for a single token: price, liquidity, volume, and holders"
}

// Validate fast-fails malformed requests before any paid work. It is pure and
// performs no network calls.
func (h *Handler) Validate(req offering.Request) offering.ValidationResult {
	address, ok := req.StringParam("tokenAddress")
	if !ok {
		return offering.Reject("Token address is required")
	}
	if !addressPattern.MatchString(address) {
		return offering.Reject("Invalid token address format: expected 0x followed by 40 hex characters")
	}
	return offering.Accept()
}

// QuotePrice describes the charge rationale for one report.
func (h *Handler) QuotePrice(req offering.Request) string {
	return h.quoter.Describe(ID, "Covers price, liquidity, and holder lookups for one token.")
}

// Execute assembles the report. Market fetches fan out concurrently; a failed
// fetch degrades the report rather than aborting it, and every failure mode
// is returned as data.
func (h *Handler) Execute(ctx context.Context, req offering.Request) offering.ExecutionResult {
	address, ok := req.StringParam("tokenAddress")
	if !ok {
		return offering.ExecutionResult{
			Deliverable: "Token address is required to build a token report. Provide a tokenAddress parameter.",
			Error:       "missing token address",
		}
	}
	if !addressPattern.MatchString(address) {
		return offering.ExecutionResult{
			Deliverable: "Invalid token address format: expected 0x followed by 40 hex characters.",
			Error:       "Invalid address",
		}
	}

	var (
		stats      market.TokenStats
		statsErr   error
		holders    int
		holdersErr error
		trending   []market.TrendingToken
		trendErr   error
	)

	// Plain errgroup without a derived context: a failed fetch must not
	// cancel its in-flight siblings.
	g := new(errgroup.Group)
	g.Go(func() error {
		stats, statsErr = h.market.TokenStats(ctx, address)
		return nil
	})
	g.Go(func() error {
		holders, holdersErr = h.market.HolderCount(ctx, address)
		return nil
	})
	g.Go(func() error {
		trending, trendErr = h.market.Trending(ctx)
		return nil
	})
	_ = g.Wait()

	if statsErr != nil && holdersErr != nil && trendErr != nil {
		h.logger.Warn("token report: all market fetches failed",
			logging.String("address", address), logging.Error(statsErr))
		return offering.ExecutionResult{
			Deliverable: fmt.Sprintf("Market data for %s is currently unavailable; please retry shortly.", address),
			Error:       fmt.Sprintf("market data unavailable: %v", statsErr),
		}
	}

	var b strings.Builder
	metadata := map[string]any{"token_address": address}

	fmt.Fprintf(&b, "Token report for %s\n", address)
	if statsErr == nil {
		symbol := stats.Symbol
		if symbol == "" {
			symbol = "unknown"
		}
		fmt.Fprintf(&b, "Symbol: %s\n", symbol)
		fmt.Fprintf(&b, "Price: $%.6f (24h change %+.2f%%)\n", stats.PriceUSD, stats.Change24h)
		fmt.Fprintf(&b, "Liquidity: $%.0f, 24h volume: $%.0f\n", stats.LiquidityUSD, stats.Volume24h)
		metadata["symbol"] = symbol
		metadata["price_usd"] = stats.PriceUSD
		metadata["change_24h"] = stats.Change24h
		metadata["liquidity_usd"] = stats.LiquidityUSD
		metadata["volume_24h"] = stats.Volume24h
	} else {
		b.WriteString("Price data is unavailable right now.\n")
	}

	if holdersErr == nil {
		fmt.Fprintf(&b, "Holders: %d\n", holders)
		metadata["holders"] = holders
	} else {
		b.WriteString("Holder data is unavailable right now.\n")
	}

	if trendErr == nil && statsErr == nil && stats.Symbol != "" {
		if pos := trendingPosition(trending, stats.Symbol); pos > 0 {
			fmt.Fprintf(&b, "Trending: #%d on the market-wide list\n", pos)
			metadata["trending_position"] = pos
		}
	}

	return offering.ExecutionResult{
		Deliverable: strings.TrimRight(b.String(), "\n"),
		Metadata:    metadata,
	}
}

func trendingPosition(tokens []market.TrendingToken, symbol string) int {
	for i, token := range tokens {
		if strings.EqualFold(token.Symbol, symbol) {
			return i + 1
		}
	}
	return 0
}
