package main

import (
	"log/slog"

	"hawker/internal/config"
	"hawker/internal/market"
	"hawker/internal/offering"
	"hawker/internal/offering/marketpulse"
	"hawker/internal/offering/tokenreport"
	"hawker/internal/pricing"
)

// buildCatalog registers every offering the daemon serves. The CLI uses the
// same construction for local advisory checks so CLI and daemon never
// disagree about what is sellable.
func buildCatalog(cfg *config.Config, logger *slog.Logger) (*offering.Catalog, error) {
	client := market.NewClient(cfg)
	quoter := pricing.NewQuoter(cfg)

	catalog := offering.NewCatalog()
	for _, handler := range []offering.Handler{
		tokenreport.New(client, quoter, logger),
		marketpulse.New(client, quoter, logger),
	} {
		if err := catalog.Register(handler); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}
