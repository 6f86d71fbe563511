package ipc

import "hawker/internal/offering"

// StatusRequest fetches daemon runtime status.
type StatusRequest struct{}

// StatusResponse reports daemon runtime information.
type StatusResponse struct {
	Running   bool   `json:"running"`
	PID       int    `json:"pid"`
	StartedAt string `json:"started_at"`
	Offerings int    `json:"offerings"`
	LogPath   string `json:"log_path"`
}

// OfferingsRequest lists the served catalog.
type OfferingsRequest struct{}

// OfferingInfo describes one catalog entry.
type OfferingInfo struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Quote       string `json:"quote"`
}

// OfferingsResponse contains the catalog listing.
type OfferingsResponse struct {
	Offerings []OfferingInfo `json:"offerings"`
}

// QuoteRequest prices a job request without executing it.
type QuoteRequest struct {
	OfferingID string         `json:"offering_id"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// QuoteResponse carries the priced (or rejected) outcome.
type QuoteResponse struct {
	Outcome offering.Outcome `json:"outcome"`
}

// InvokeRequest dispatches a job request.
type InvokeRequest struct {
	OfferingID string         `json:"offering_id"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// InvokeResponse carries the terminal dispatch outcome.
type InvokeResponse struct {
	Outcome offering.Outcome `json:"outcome"`
}
