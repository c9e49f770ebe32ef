package repository

import (
	"context"
	"time"

	"SignalBench/internal/domain/models"
)

// SignalStore provides time-ordered access to ingested signals.
//
// Query yields every signal with entry_time in [from, to), action Buy or
// Sell, and a decided (WIN/LOSE) outcome at the given horizon, ascending by
// (entry_time, id). An empty range yields an empty slice, not an error.
type SignalStore interface {
	Query(ctx context.Context, from, to time.Time, h models.Horizon) ([]models.Signal, error)
	Strategies(ctx context.Context, from, to time.Time) ([]string, error)
	Close() error
}

// SignalWriter ingests signals into a backing table.
type SignalWriter interface {
	StoreBatch(ctx context.Context, signals []models.Signal) error
	Close() error
}

// SignalPublisher republishes ingested signals onto a stream.
type SignalPublisher interface {
	PublishBatch(ctx context.Context, signals []models.Signal) error
	Close() error
}
