package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"SignalBench/internal/domain/models"
	domrepo "SignalBench/internal/domain/repository"
	"SignalBench/internal/repository"
	pkgkafka "SignalBench/pkg/kafka"
	applogger "SignalBench/pkg/logger"
)

// IngestRunner loads signals into the remote table, either from a CSV file
// or by draining a Kafka topic. The data-loading glue around the engine.
type IngestRunner struct {
	writer    domrepo.SignalWriter
	publisher domrepo.SignalPublisher // optional
	l         *applogger.Logger
}

func NewIngestRunner(writer domrepo.SignalWriter, publisher domrepo.SignalPublisher, l *applogger.Logger) *IngestRunner {
	if l == nil {
		l = applogger.Nop()
	}
	return &IngestRunner{writer: writer, publisher: publisher, l: l}
}

// IngestResult summarizes one ingest pass.
type IngestResult struct {
	Loaded  int `json:"loaded"`
	Dropped int `json:"dropped"`
}

// FromCSV bulk-loads a CSV file into the signal table, optionally
// republishing the parsed rows to the stream.
func (r *IngestRunner) FromCSV(ctx context.Context, path string, delimiter rune) (*IngestResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open signals file: %w", err)
	}
	defer f.Close()

	signals, dropped, err := repository.ReadSignalsCSV(f, delimiter)
	if err != nil {
		return nil, err
	}
	if dropped > 0 {
		r.l.Warn("dropped malformed signal rows",
			applogger.String("path", path),
			applogger.Int("dropped", dropped),
		)
	}

	if err := r.writer.StoreBatch(ctx, signals); err != nil {
		return nil, fmt.Errorf("store signals: %w", err)
	}
	if r.publisher != nil {
		if err := r.publisher.PublishBatch(ctx, signals); err != nil {
			return nil, fmt.Errorf("publish signals: %w", err)
		}
	}

	r.l.Info("csv ingest complete",
		applogger.String("path", path),
		applogger.Int("loaded", len(signals)),
		applogger.Int("dropped", dropped),
	)
	return &IngestResult{Loaded: len(signals), Dropped: dropped}, nil
}

// FromStream consumes signal events from the topic into the table until the
// context is canceled.
func (r *IngestRunner) FromStream(ctx context.Context, consumer *pkgkafka.Consumer) (*IngestResult, error) {
	result := &IngestResult{}
	err := consumer.Run(ctx, func(ctx context.Context, _, value []byte) error {
		var sig models.Signal
		if err := json.Unmarshal(value, &sig); err != nil {
			result.Dropped++
			r.l.Warn("dropped undecodable signal event", applogger.Error(err))
			return nil
		}
		if err := r.writer.StoreBatch(ctx, []models.Signal{sig}); err != nil {
			return err
		}
		result.Loaded++
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.l.Info("stream ingest complete",
		applogger.Int("loaded", result.Loaded),
		applogger.Int("dropped", result.Dropped),
	)
	return result, nil
}
