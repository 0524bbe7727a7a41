// Package correlator turns checkpoint validation results into OpenLineage
// run events and delivers them to a collector without ever failing the
// host validation pipeline.
package correlator

import (
	"context"
	"log/slog"
	"time"

	"github.com/correlator-io/correlator-go/internal/platform/collector"
	"github.com/correlator-io/correlator-go/openlineage"
)

// statusOK is the fixed result every Run call returns. Delivery health is
// observable through logs only.
const statusOK = "ok"

// ActionResult is the fixed outcome of one Run call.
type ActionResult struct {
	Status string `json:"status"`
}

type eventsClient interface {
	EmitEvents(ctx context.Context, events []openlineage.RunEvent) (collector.Outcome, error)
}

// Action is the lifecycle entry point: one Run call per checkpoint result.
// It sequences identity derivation, extraction, event building, the
// emission gate, and transport, and converts every internal failure into a
// logged outcome plus a fixed ok result.
type Action struct {
	cfg    Config
	logger *slog.Logger
	client eventsClient
	now    func() time.Time
}

// NewAction validates the configuration, applies defaults, and wires the
// collector client. This is the only call that can fail; Run cannot.
func NewAction(logger *slog.Logger, cfg Config) (*Action, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client, err := collector.New(logger, cfg.Endpoint, cfg.APIKey, cfg.Timeout())
	if err != nil {
		return nil, err
	}
	return &Action{
		cfg:    cfg,
		logger: logger,
		client: client,
		now:    time.Now,
	}, nil
}

// Run emits events for one checkpoint result. It always returns the ok
// result: delivery failures, degraded extraction, and gated runs are
// logged, never propagated. The single delivery attempt resolves before
// Run returns, bounded by the configured timeout.
func (a *Action) Run(ctx context.Context, result CheckpointResult) ActionResult {
	runID := DeriveRunID(result.RunName)
	logger := a.logger.With("run_id", runID, "checkpoint", result.CheckpointName)

	// The host pipeline must never fail, slow materially, or change
	// outcome because of this subsystem.
	defer func() {
		if r := recover(); r != nil {
			logger.Error("emission abandoned after panic", "panic", r)
		}
	}()

	events := buildRunEvents(logger, result, runID, a.cfg.JobNamespace, a.now())
	if len(events) == 0 {
		logger.Warn("checkpoint result has no validations, nothing to emit")
		return ActionResult{Status: statusOK}
	}

	if !a.cfg.EmitMode.shouldEmit(result.Success) {
		logger.Info("emission skipped by policy", "mode", string(a.cfg.EmitMode), "success", result.Success)
		return ActionResult{Status: statusOK}
	}

	outcome, err := a.client.EmitEvents(ctx, events)
	if err != nil {
		logger.Warn("event delivery failed",
			"status_class", string(outcome.StatusClass),
			"status_code", outcome.StatusCode,
			"attempted", outcome.Attempted,
			"error", err)
		return ActionResult{Status: statusOK}
	}

	logger.Info("run events delivered",
		"count", len(events),
		"status_class", string(outcome.StatusClass))
	return ActionResult{Status: statusOK}
}
