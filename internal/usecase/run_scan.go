package usecase

import (
	"context"
	"fmt"
	"time"

	"SignalBench/internal/domain/models"
	domrepo "SignalBench/internal/domain/repository"
	"SignalBench/internal/services/bucket"
	"SignalBench/internal/services/sim"
	"SignalBench/internal/services/split"
	"SignalBench/pkg/config"
	applogger "SignalBench/pkg/logger"
	"SignalBench/pkg/util"
)

// ScanReport is the machine-readable output of the scan path: the resolved
// windows, the frozen whitelist, the full train bucket table, and the test
// replay under the whitelist filter.
type ScanReport struct {
	TrainStart time.Time          `json:"train_start"`
	TrainEnd   time.Time          `json:"train_end"`
	TestStart  time.Time          `json:"test_start"`
	TestEnd    time.Time          `json:"test_end"`
	Buckets    []models.BucketRow `json:"buckets"`
	Whitelist  split.Whitelist    `json:"whitelist"`
	TestRun    *models.RunReport  `json:"test_run,omitempty"`
}

// ScanRunner drives the bucket-scan variant: freeze a whitelist on train
// data, evaluate it on a disjoint, embargoed test window.
type ScanRunner struct {
	store domrepo.SignalStore
	l     *applogger.Logger
}

func NewScanRunner(store domrepo.SignalStore, l *applogger.Logger) *ScanRunner {
	if l == nil {
		l = applogger.Nop()
	}
	return &ScanRunner{store: store, l: l}
}

func (r *ScanRunner) Run(ctx context.Context, cfg *config.Config) (*ScanReport, error) {
	windows, err := resolveWindows(&cfg.Scan)
	if err != nil {
		return nil, err
	}

	params := bucket.Params{Stake: cfg.Scan.Stake, Payout: cfg.Scan.Payout}
	filters := bucket.Filters(cfg.Scan.Filters)

	// Train-only aggregation across the three timeframes. Nothing at or
	// after test_start - embargo contributes to the whitelist.
	var rows []models.BucketRow
	for _, h := range []models.Horizon{models.Horizon10, models.Horizon30, models.Horizon60} {
		train, err := r.store.Query(ctx, windows.TrainStart, windows.TrainEnd, h)
		if err != nil {
			return nil, fmt.Errorf("fetch train signals (%s): %w", h, err)
		}
		rows = append(rows, bucket.Aggregate(train, h, params)...)
	}

	whitelist := split.FreezeWhitelist(rows, params, filters, r.l)

	report := &ScanReport{
		TrainStart: windows.TrainStart,
		TrainEnd:   windows.TrainEnd,
		TestStart:  windows.TestStart,
		TestEnd:    windows.TestEnd,
		Buckets:    rows,
		Whitelist:  whitelist,
	}

	// Replay the test window with the frozen whitelist as an extra
	// admission filter on top of the leaderboard.
	testCfg := cfg.Simulate
	testCfg.From = windows.TestStart.Format(time.RFC3339)
	testCfg.To = windows.TestEnd.Format(time.RFC3339)

	simCfg, err := buildSimConfig(&testCfg)
	if err != nil {
		return nil, err
	}
	selector, err := buildSelector(&testCfg)
	if err != nil {
		return nil, err
	}

	fetchFrom := simCfg.From.Add(-time.Duration(simCfg.LookbackHours) * time.Hour)
	signals, err := r.store.Query(ctx, fetchFrom, simCfg.To, simCfg.Horizon)
	if err != nil {
		return nil, fmt.Errorf("fetch test signals: %w", err)
	}

	simulator := sim.New(simCfg, selector, r.l)
	simulator.SetWhitelist(whitelist.Keys())
	testRun, err := simulator.Run(ctx, signals)
	if err != nil {
		return nil, err
	}
	report.TestRun = testRun
	return report, nil
}

func resolveWindows(cfg *config.ScanConfig) (split.Windows, error) {
	trainStart, ok := util.ParseTime(cfg.TrainStart)
	if !ok {
		return split.Windows{}, fmt.Errorf("scan.train_start is required (got %q)", cfg.TrainStart)
	}
	trainEnd, ok := util.ParseTime(cfg.TrainEnd)
	if !ok {
		return split.Windows{}, fmt.Errorf("scan.train_end is required (got %q)", cfg.TrainEnd)
	}
	testEnd, ok := util.ParseTime(cfg.TestEnd)
	if !ok {
		return split.Windows{}, fmt.Errorf("scan.test_end is required (got %q)", cfg.TestEnd)
	}
	var testStart time.Time // zero defaults to train_end + embargo
	if cfg.TestStart != "" {
		testStart, ok = util.ParseTime(cfg.TestStart)
		if !ok {
			return split.Windows{}, fmt.Errorf("invalid scan.test_start %q", cfg.TestStart)
		}
	}
	return split.Resolve(trainStart, trainEnd, testStart, testEnd, cfg.EmbargoDays)
}
