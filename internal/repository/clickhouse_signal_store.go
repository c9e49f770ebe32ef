package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"SignalBench/internal/domain/models"
	applogger "SignalBench/pkg/logger"
)

// CHSignalStore implements SignalStore and SignalWriter on ClickHouse.
type CHSignalStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

// NewCHSignalStore creates the store over an existing connection pool.
// table is the fully qualified "<database>.<table>" name.
func NewCHSignalStore(db *sql.DB, table string, l *applogger.Logger) *CHSignalStore {
	return &CHSignalStore{db: db, table: table, l: l}
}

func resultColumn(h models.Horizon) (string, error) {
	switch h {
	case models.Horizon10:
		return "result_10min", nil
	case models.Horizon30:
		return "result_30min", nil
	case models.Horizon60:
		return "result_60min", nil
	}
	return "", fmt.Errorf("unknown horizon %q", h)
}

func (s *CHSignalStore) Query(ctx context.Context, from, to time.Time, h models.Horizon) ([]models.Signal, error) {
	col, err := resultColumn(h)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`
        SELECT id, entry_time, strategy, action, entry_price,
               result_10min, result_30min, result_60min
        FROM %s
        WHERE entry_time >= ? AND entry_time < ?
          AND action IN ('Buy', 'Sell')
          AND %s IN ('WIN', 'LOSE')
        ORDER BY entry_time ASC, id ASC
    `, s.table, col)

	rows, err := s.db.QueryContext(ctx, q, from, to)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse signals query error",
				applogger.String("table", s.table),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("query signals: %w", err)
	}
	defer rows.Close()

	out := make([]models.Signal, 0, 1024)
	for rows.Next() {
		var sig models.Signal
		var action, r10, r30, r60 string
		if err := rows.Scan(&sig.ID, &sig.EntryTime, &sig.Strategy, &action,
			&sig.EntryPrice, &r10, &r30, &r60); err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		sig.Action = models.Action(action)
		sig.Result10 = models.Outcome(r10)
		sig.Result30 = models.Outcome(r30)
		sig.Result60 = models.Outcome(r60)
		out = append(out, sig)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (s *CHSignalStore) Strategies(ctx context.Context, from, to time.Time) ([]string, error) {
	q := fmt.Sprintf(`
        SELECT DISTINCT strategy FROM %s
        WHERE entry_time >= ? AND entry_time < ?
        ORDER BY strategy ASC
    `, s.table)

	rows, err := s.db.QueryContext(ctx, q, from, to)
	if err != nil {
		return nil, fmt.Errorf("query strategies: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan strategy: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// StoreBatch inserts signals using multi-row VALUES in chunks to reduce
// round-trips.
func (s *CHSignalStore) StoreBatch(ctx context.Context, signals []models.Signal) error {
	if len(signals) == 0 {
		return nil
	}
	const chunkSize = 2000
	for start := 0; start < len(signals); start += chunkSize {
		end := start + chunkSize
		if end > len(signals) {
			end = len(signals)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*8)
		for _, sig := range signals[start:end] {
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				sig.ID,
				sig.EntryTime,
				sig.Strategy,
				string(sig.Action),
				sig.EntryPrice,
				string(sig.Result10),
				string(sig.Result30),
				string(sig.Result60),
			)
		}
		q := fmt.Sprintf("INSERT INTO %s (id, entry_time, strategy, action, entry_price, result_10min, result_30min, result_60min) VALUES %s",
			s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert signals: %w", err)
		}
	}
	return nil
}

func (s *CHSignalStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHSignalStore) Close() error {
	return nil // pool owned by pkg/clickhouse client
}
