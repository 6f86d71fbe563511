package offering

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"hawker/internal/logging"
)

// State tracks one invocation through the dispatch protocol.
type State string

const (
	StatePending   State = "pending"
	StateValidated State = "validated"
	StateRejected  State = "rejected"
	StatePriced    State = "priced"
	StateExecuting State = "executing"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Terminal reports whether no further transitions follow the state.
func (s State) Terminal() bool {
	switch s {
	case StateRejected, StateCompleted, StateFailed:
		return true
	}
	return false
}

// Outcome is the full record of one dispatched invocation. Result is nil
// until execution runs, so rejected and quote-only outcomes serialize without
// an empty result block.
type Outcome struct {
	InvocationID string           `json:"invocation_id"`
	OfferingID   string           `json:"offering_id"`
	State        State            `json:"state"`
	Reason       string           `json:"reason,omitempty"`
	Quote        string           `json:"quote,omitempty"`
	Result       *ExecutionResult `json:"result,omitempty"`
}

// Dispatcher applies the invocation protocol against the catalog: validate
// first, and only on success price and execute. Rejection and execution
// failure are both terminal, non-crashing outcomes.
type Dispatcher struct {
	catalog *Catalog
	logger  *slog.Logger
}

// NewDispatcher wires a dispatcher over the given catalog.
func NewDispatcher(catalog *Catalog, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Dispatcher{catalog: catalog, logger: logger}
}

// Dispatch runs one request through validate, quote, and execute.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) Outcome {
	outcome := Outcome{
		InvocationID: uuid.NewString(),
		OfferingID:   req.OfferingID,
		State:        StatePending,
	}
	log := d.logger.With(
		logging.String("invocation_id", outcome.InvocationID),
		logging.String("offering", req.OfferingID),
	)

	handler, ok := d.catalog.Resolve(req.OfferingID)
	if !ok {
		outcome.State = StateRejected
		outcome.Reason = fmt.Sprintf("unknown offering %q", req.OfferingID)
		log.Warn("dispatch rejected", logging.String("reason", outcome.Reason))
		return outcome
	}

	validation := d.safeValidate(handler, req)
	if !validation.Valid {
		outcome.State = StateRejected
		outcome.Reason = validation.Reason
		log.Info("request rejected", logging.String("reason", validation.Reason))
		return outcome
	}
	outcome.State = StateValidated

	outcome.Quote = d.safeQuote(handler, req)
	outcome.State = StatePriced

	outcome.State = StateExecuting
	result := normalizeResult(handler.ID(), d.safeExecute(ctx, handler, req))
	outcome.Result = &result
	if outcome.Result.Failed() {
		outcome.State = StateFailed
		log.Warn("execution failed", logging.String("error", outcome.Result.Error))
	} else {
		outcome.State = StateCompleted
		log.Info("execution completed")
	}
	return outcome
}

// Quote validates the request and, when valid, returns a priced outcome
// without executing.
func (d *Dispatcher) Quote(req Request) Outcome {
	outcome := Outcome{
		InvocationID: uuid.NewString(),
		OfferingID:   req.OfferingID,
		State:        StatePending,
	}

	handler, ok := d.catalog.Resolve(req.OfferingID)
	if !ok {
		outcome.State = StateRejected
		outcome.Reason = fmt.Sprintf("unknown offering %q", req.OfferingID)
		return outcome
	}

	validation := d.safeValidate(handler, req)
	if !validation.Valid {
		outcome.State = StateRejected
		outcome.Reason = validation.Reason
		return outcome
	}
	outcome.State = StateValidated
	outcome.Quote = d.safeQuote(handler, req)
	outcome.State = StatePriced
	return outcome
}

func (d *Dispatcher) safeValidate(h Handler, req Request) (result ValidationResult) {
	defer func() {
		if r := recover(); r != nil {
			result = Reject(fmt.Sprintf("validation crashed: %v", r))
		}
	}()
	result = h.Validate(req)
	if !result.Valid && strings.TrimSpace(result.Reason) == "" {
		result.Reason = "request rejected"
	}
	return result
}

func (d *Dispatcher) safeQuote(h Handler, req Request) (quote string) {
	defer func() {
		if r := recover(); r != nil {
			quote = "Pricing unavailable for this request"
		}
	}()
	return h.QuotePrice(req)
}

func (d *Dispatcher) safeExecute(ctx context.Context, h Handler, req Request) (result ExecutionResult) {
	defer func() {
		if r := recover(); r != nil {
			result = ExecutionResult{
				Deliverable: fmt.Sprintf("The %s offering failed unexpectedly while processing your request.", h.ID()),
				Error:       fmt.Sprintf("handler panic: %v", r),
			}
		}
	}()
	return h.Execute(ctx, req)
}

// normalizeResult enforces the deliverable invariant: a result without both a
// deliverable and an error is disallowed, and a failed result always carries
// human-readable text.
func normalizeResult(offeringID string, result ExecutionResult) ExecutionResult {
	deliverable := strings.TrimSpace(result.Deliverable)
	errText := strings.TrimSpace(result.Error)
	if deliverable == "" && errText == "" {
		return ExecutionResult{
			Deliverable: fmt.Sprintf("The %s offering produced no output for this request.", offeringID),
			Error:       "empty execution result",
		}
	}
	if deliverable == "" {
		result.Deliverable = fmt.Sprintf("The %s offering failed: %s", offeringID, errText)
	}
	return result
}
