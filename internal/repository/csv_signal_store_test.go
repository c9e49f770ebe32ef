package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"SignalBench/internal/domain/models"
)

const csvHeader = "entry_time,strategy,action,entry_price,result_10min,result_30min,result_60min"

func TestReadSignalsCSV(t *testing.T) {
	data := csvHeader + "\n" +
		"2025-01-01 09:00:00,UT-BOT2-10,Buy,1.2345,WIN,LOSE,NULL\n" +
		"2025-01-01 09:05:00,UT-BOT2-10,Sell,1.2350,LOSE,,WIN\n"

	signals, dropped, err := ReadSignalsCSV(strings.NewReader(data), ',')
	require.NoError(t, err)
	require.Zero(t, dropped)
	require.Len(t, signals, 2)

	first := signals[0]
	require.Equal(t, uint64(1), first.ID) // sequential without an id column
	require.Equal(t, time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC), first.EntryTime)
	require.Equal(t, "UT-BOT2-10", first.Strategy)
	require.Equal(t, models.ActionBuy, first.Action)
	require.Equal(t, 1.2345, first.EntryPrice)
	require.Equal(t, models.OutcomeWin, first.Result10)
	require.Equal(t, models.OutcomeLose, first.Result30)
	require.Equal(t, models.OutcomeNone, first.Result60)

	// Empty outcome cells normalize to NULL.
	require.Equal(t, models.OutcomeNone, signals[1].Result30)
	require.Equal(t, "UT-BOT2-10 | Sell", signals[1].Channel())
}

func TestReadSignalsCSVExplicitIDs(t *testing.T) {
	data := "id," + csvHeader + "\n" +
		"42,2025-01-01 09:00:00,S,Buy,1.0,WIN,NULL,NULL\n"

	signals, dropped, err := ReadSignalsCSV(strings.NewReader(data), ',')
	require.NoError(t, err)
	require.Zero(t, dropped)
	require.Equal(t, uint64(42), signals[0].ID)
}

func TestReadSignalsCSVDropsMalformedRows(t *testing.T) {
	data := csvHeader + "\n" +
		"not-a-time,S,Buy,1.0,WIN,NULL,NULL\n" +
		"2025-01-01 09:00:00,,Buy,1.0,WIN,NULL,NULL\n" +
		"2025-01-01 09:05:00,S,Buy,oops,WIN,NULL,NULL\n" +
		"2025-01-01 09:10:00,S,Buy,1.0,WIN,NULL,NULL\n"

	signals, dropped, err := ReadSignalsCSV(strings.NewReader(data), ',')
	require.NoError(t, err)
	require.Equal(t, 3, dropped)
	require.Len(t, signals, 1)
	require.Equal(t, time.Date(2025, 1, 1, 9, 10, 0, 0, time.UTC), signals[0].EntryTime)
}

func TestReadSignalsCSVMissingColumnIsFatal(t *testing.T) {
	data := "entry_time,strategy,action,entry_price,result_10min,result_30min\n" +
		"2025-01-01 09:00:00,S,Buy,1.0,WIN,NULL\n"

	_, _, err := ReadSignalsCSV(strings.NewReader(data), ',')
	require.Error(t, err)
	require.Contains(t, err.Error(), "result_60min")
}

func TestReadSignalsCSVSemicolonDelimiter(t *testing.T) {
	data := strings.ReplaceAll(csvHeader, ",", ";") + "\n" +
		"2025-01-01 09:00:00;S;Buy;1.0;WIN;NULL;NULL\n"

	signals, dropped, err := ReadSignalsCSV(strings.NewReader(data), ';')
	require.NoError(t, err)
	require.Zero(t, dropped)
	require.Len(t, signals, 1)
}
