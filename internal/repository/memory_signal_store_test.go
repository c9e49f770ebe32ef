package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"SignalBench/internal/domain/models"
)

func memSig(id uint64, t time.Time, strategy string, r10 models.Outcome) models.Signal {
	return models.Signal{
		ID:        id,
		EntryTime: t,
		Strategy:  strategy,
		Action:    models.ActionBuy,
		Result10:  r10,
		Result30:  models.OutcomeNone,
		Result60:  models.OutcomeNone,
	}
}

func TestMemoryStoreSortsAndQueries(t *testing.T) {
	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	store, err := NewMemorySignalStore([]models.Signal{
		memSig(3, base.Add(2*time.Hour), "B", models.OutcomeWin),
		memSig(1, base, "A", models.OutcomeWin),
		memSig(2, base, "A", models.OutcomeLose),
	})
	require.NoError(t, err)

	all := store.All()
	require.Equal(t, uint64(1), all[0].ID)
	require.Equal(t, uint64(2), all[1].ID) // id breaks the tie at one instant
	require.Equal(t, uint64(3), all[2].ID)

	got, err := store.Query(context.Background(), base, base.Add(time.Hour), models.Horizon10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Range end is exclusive.
	got, err = store.Query(context.Background(), base, base.Add(2*time.Hour), models.Horizon10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	strategies, err := store.Strategies(context.Background(), base, base.Add(3*time.Hour))
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B"}, strategies)
}

func TestMemoryStoreRejectsDuplicateIDs(t *testing.T) {
	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	_, err := NewMemorySignalStore([]models.Signal{
		memSig(1, base, "A", models.OutcomeWin),
		memSig(1, base.Add(time.Minute), "A", models.OutcomeLose),
	})
	require.Error(t, err)
}

func TestMemoryStoreRejectsInvalidOutcome(t *testing.T) {
	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	s := memSig(1, base, "A", models.Outcome("DRAW"))
	_, err := NewMemorySignalStore([]models.Signal{s})
	require.Error(t, err)
}

func TestFilterSignals(t *testing.T) {
	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	signals := []models.Signal{
		memSig(1, base, "A", models.OutcomeWin),
		memSig(2, base, "A", models.OutcomeNone),
		{ID: 3, EntryTime: base, Strategy: "A", Action: models.Action("Hold"), Result10: models.OutcomeWin, Result30: models.OutcomeNone, Result60: models.OutcomeNone},
	}
	kept := FilterSignals(signals, models.Horizon10)
	require.Len(t, kept, 1)
	require.Equal(t, uint64(1), kept[0].ID)
}
