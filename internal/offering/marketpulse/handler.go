// Package marketpulse implements the market-pulse offering: a short summary
// of currently trending tokens.
package marketpulse

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"hawker/internal/logging"
	"hawker/internal/market"
	"hawker/internal/offering"
	"hawker/internal/pricing"
)

// ID identifies this offering in the catalog.
const ID = "market-pulse"

const defaultLimit = 5

// Handler summarizes trending market data.
type Handler struct {
	market *market.Client
	quoter *pricing.Quoter
	logger *slog.Logger
}

// New constructs the market-pulse handler.
func New(client *market.Client, quoter *pricing.Quoter, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handler{market: client, quoter: quoter, logger: logger}
}

func (h *Handler) ID() string { return ID }

func (h *Handler) Description() string {
	return "Snapshot of the top trending tokens across the market"
}

// Validate accepts an empty request; the optional limit parameter must be a
// positive integer when present.
func (h *Handler) Validate(req offering.Request) offering.ValidationResult {
	raw, present := req.StringParam("limit")
	if !present {
		return offering.Accept()
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return offering.Reject(fmt.Sprintf("Invalid limit %q: expected a positive integer", raw))
	}
	return offering.Accept()
}

// QuotePrice describes the charge rationale for one snapshot.
func (h *Handler) QuotePrice(req offering.Request) string {
	return h.quoter.Describe(ID, "Covers one trending snapshot across the market.")
}

// Execute fetches the trending list and renders the summary. Failure is
// returned as data with a human-readable deliverable.
func (h *Handler) Execute(ctx context.Context, req offering.Request) offering.ExecutionResult {
	limit := defaultLimit
	if raw, present := req.StringParam("limit"); present {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return offering.ExecutionResult{
				Deliverable: fmt.Sprintf("Invalid limit %q: expected a positive integer.", raw),
				Error:       "invalid limit",
			}
		}
		limit = parsed
	}

	tokens, err := h.market.Trending(ctx)
	if err != nil {
		h.logger.Warn("market pulse: trending fetch failed", logging.Error(err))
		return offering.ExecutionResult{
			Deliverable: "Trending market data is currently unavailable; please retry shortly.",
			Error:       fmt.Sprintf("trending fetch: %v", err),
		}
	}
	if len(tokens) == 0 {
		return offering.ExecutionResult{
			Deliverable: "No tokens are trending right now.",
			Metadata:    map[string]any{"count": 0},
		}
	}
	if len(tokens) > limit {
		tokens = tokens[:limit]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Market pulse: top %d trending tokens\n", len(tokens))
	for i, token := range tokens {
		fmt.Fprintf(&b, "%d. %s at $%.6f (24h %+.2f%%)\n", i+1, token.Symbol, token.PriceUSD, token.Change24h)
	}

	return offering.ExecutionResult{
		Deliverable: strings.TrimRight(b.String(), "\n"),
		Metadata:    map[string]any{"count": len(tokens)},
	}
}
