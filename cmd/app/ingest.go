package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"SignalBench/internal/di"
	"SignalBench/internal/usecase"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load signals into the remote table",
	Long: `Bulk-loads a CSV file into the signal table, or drains the configured
Kafka topic until interrupted. CSV loads optionally republish rows to the
stream when brokers are configured.`,
	RunE: runIngest,
}

var (
	ingestFile   string
	ingestStream bool
)

func init() {
	f := ingestCmd.Flags()
	f.StringVar(&ingestFile, "file", "", "csv file to load")
	f.BoolVar(&ingestStream, "stream", false, "consume from the Kafka topic instead of a file")
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestFile == "" && !ingestStream {
		return fmt.Errorf("either --file or --stream is required")
	}
	if ingestFile != "" && ingestStream {
		return fmt.Errorf("--file and --stream are mutually exclusive")
	}

	app, cleanup, err := di.InitializeIngest(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	var result *usecase.IngestResult
	switch {
	case ingestStream:
		if app.Consumer == nil {
			return fmt.Errorf("--stream requires kafka.brokers in the configuration")
		}
		result, err = app.Runner.FromStream(cmd.Context(), app.Consumer)
	default:
		delim := ','
		if cfg.Source.Delimiter != "" {
			delim = []rune(cfg.Source.Delimiter)[0]
		}
		result, err = app.Runner.FromCSV(cmd.Context(), ingestFile, delim)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
