// Package pricing renders human-readable price quotes for offerings.
//
// A quote describes the charge rationale only; it is not a committed invoice
// and payment collection happens elsewhere.
package pricing

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"hawker/internal/config"
)

// Quoter computes charge rationale strings from pricing configuration.
type Quoter struct {
	currency   string
	baseFee    float64
	surcharges map[string]float64
	printer    *message.Printer
}

// NewQuoter builds a quoter from configuration.
func NewQuoter(cfg *config.Config) *Quoter {
	surcharges := make(map[string]float64, len(cfg.Pricing.Surcharges))
	for id, fee := range cfg.Pricing.Surcharges {
		surcharges[id] = fee
	}
	return &Quoter{
		currency:   cfg.Pricing.Currency,
		baseFee:    cfg.Pricing.BaseFee,
		surcharges: surcharges,
		printer:    message.NewPrinter(language.English),
	}
}

// Total returns the fee charged for one invocation of the offering.
func (q *Quoter) Total(offeringID string) float64 {
	return q.baseFee + q.surcharges[offeringID]
}

// Describe renders the charge rationale for one invocation. The optional
// detail explains what the fee buys.
func (q *Quoter) Describe(offeringID, detail string) string {
	total := q.Total(offeringID)
	surcharge := q.surcharges[offeringID]

	var b strings.Builder
	b.WriteString(q.printer.Sprintf("%.2f %s per request", total, q.currency))
	if surcharge > 0 {
		b.WriteString(q.printer.Sprintf(" (base fee %.2f plus %.2f offering surcharge)", q.baseFee, surcharge))
	}
	if detail = strings.TrimSpace(detail); detail != "" {
		b.WriteString(". ")
		b.WriteString(detail)
	}
	return b.String()
}
