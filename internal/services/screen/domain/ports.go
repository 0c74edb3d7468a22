package domain

import (
	"context"

	"textguard/internal/core/engine"
	"textguard/internal/core/policy"
)

// ServicePort is consumed by handlers, the CLI and other modules
type ServicePort interface {
	Screen(ctx context.Context, dir policy.Direction, tenantID string, in ScreenInput) (ScreenOutput, error)
}

// Evaluator is the decision engine
type Evaluator interface {
	Evaluate(ctx context.Context, dir policy.Direction, text, tenantID string) (engine.Result, error)
}

// PolicyStore resolves tenant policies
type PolicyStore = engine.PolicyStore

// ResultSink persists screening results
type ResultSink interface {
	Save(ctx context.Context, rec Record) error
}

// AlertSink delivers reject alerts; callers never retry
type AlertSink interface {
	Send(ctx context.Context, a Alert) error
}
