package repository

import (
	"context"

	"github.com/UnknownOlympus/athena/internal/metrics"
	"github.com/UnknownOlympus/athena/internal/models"
)

type Repository struct {
	db      Database
	metrics *metrics.Metrics
}

// ActionRepoIface represents the interface for recording dashboard actions.
type ActionRepoIface interface {
	SaveAction(ctx context.Context, action models.Action) error
	RecentActions(ctx context.Context, limit int) ([]models.Action, error)
}

func NewActionRepository(db Database, metrics *metrics.Metrics) ActionRepoIface {
	return &Repository{db: db, metrics: metrics}
}
