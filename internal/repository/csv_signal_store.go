package repository

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"SignalBench/internal/domain/models"
	applogger "SignalBench/pkg/logger"
	"SignalBench/pkg/util"
)

// CSVSignalStore loads a delimited, header-bearing signal file into memory
// once and serves queries from there. Malformed rows are dropped and
// counted; a missing required column is fatal.
type CSVSignalStore struct {
	*MemorySignalStore
	dropped int
}

var requiredColumns = []string{
	"entry_time", "strategy", "action", "entry_price",
	"result_10min", "result_30min", "result_60min",
}

// NewCSVSignalStore reads the whole file at path. Rows without an explicit
// id column get sequential ids in file order, so ties at one instant stay
// deterministic.
func NewCSVSignalStore(path string, delimiter rune, l *applogger.Logger) (*CSVSignalStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open signals file: %w", err)
	}
	defer f.Close()

	signals, dropped, err := ReadSignalsCSV(f, delimiter)
	if err != nil {
		return nil, err
	}
	if dropped > 0 && l != nil {
		l.Warn("dropped malformed signal rows",
			applogger.String("path", path),
			applogger.Int("dropped", dropped),
		)
	}

	mem, err := NewMemorySignalStore(signals)
	if err != nil {
		return nil, err
	}
	return &CSVSignalStore{MemorySignalStore: mem, dropped: dropped}, nil
}

// Dropped reports how many malformed rows were skipped at load.
func (s *CSVSignalStore) Dropped() int { return s.dropped }

// ReadSignalsCSV parses signals from r. Returns the parsed rows and the
// count of dropped malformed ones.
func ReadSignalsCSV(r io.Reader, delimiter rune) ([]models.Signal, int, error) {
	cr := csv.NewReader(r)
	if delimiter != 0 {
		cr.Comma = delimiter
	}
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, 0, fmt.Errorf("missing required column %q", name)
		}
	}
	idCol, hasID := col["id"]

	var signals []models.Signal
	dropped := 0
	rowNum := uint64(0)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read row: %w", err)
		}
		rowNum++

		get := func(name string) string {
			i := col[name]
			if i >= len(rec) {
				return ""
			}
			return rec[i]
		}

		entry, ok := util.ParseTime(get("entry_time"))
		if !ok {
			dropped++
			continue
		}
		strategy := get("strategy")
		if strategy == "" {
			dropped++
			continue
		}

		var price float64
		if v := get("entry_price"); v != "" {
			price, err = strconv.ParseFloat(v, 64)
			if err != nil {
				dropped++
				continue
			}
		}

		id := rowNum
		if hasID && idCol < len(rec) && rec[idCol] != "" {
			parsed, err := strconv.ParseUint(rec[idCol], 10, 64)
			if err != nil {
				dropped++
				continue
			}
			id = parsed
		}

		signals = append(signals, models.Signal{
			ID:         id,
			EntryTime:  entry,
			Strategy:   strategy,
			Action:     models.Action(get("action")),
			EntryPrice: price,
			Result10:   normalizeOutcome(get("result_10min")),
			Result30:   normalizeOutcome(get("result_30min")),
			Result60:   normalizeOutcome(get("result_60min")),
		})
	}

	return signals, dropped, nil
}

func normalizeOutcome(s string) models.Outcome {
	switch s {
	case "WIN":
		return models.OutcomeWin
	case "LOSE":
		return models.OutcomeLose
	case "", "NULL":
		return models.OutcomeNone
	}
	// Unknown outcome strings are surfaced by the store constructor.
	return models.Outcome(s)
}
