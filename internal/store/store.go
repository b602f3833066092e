// Package store provides data persistence implementations.
package store

import (
	"context"
	"time"

	"flowmind-engine/internal/models"
)

// EvaluationRecord is one persisted strategy evaluation.
type EvaluationRecord struct {
	ID        int64                     `json:"id"`
	CreatedAt time.Time                 `json:"created_at"`
	Strategy  models.StrategyDefinition `json:"strategy"`
	Market    models.MarketContext      `json:"market"`
	Summary   models.RiskSummary        `json:"summary"`
}

// Journal records strategy evaluations for later review. Curves are not
// persisted; they are cheap to rebuild from the stored definition and
// market context.
type Journal interface {
	SaveEvaluation(ctx context.Context, result *models.StrategyResult) (int64, error)
	ListEvaluations(ctx context.Context, limit int) ([]EvaluationRecord, error)
	GetEvaluation(ctx context.Context, id int64) (*EvaluationRecord, error)
	Close() error
}
