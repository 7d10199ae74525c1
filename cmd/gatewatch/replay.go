package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"gatewatch/internal/activity"
	"gatewatch/internal/config"
	"gatewatch/internal/engine"
	"gatewatch/internal/killmail"
	"gatewatch/internal/sink"
)

var (
	replayInput      string
	replaySpeed      float64
	replayPrintOnly  bool
	replayConfigPath string
	replaySchemaPath string
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a kill log file",
	Long:  "replay feeds archived kills back through the classifier and writes the resulting snapshots.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}
		cfg, err := config.Load(replayConfigPath, replaySchemaPath)
		if err != nil {
			return err
		}

		writer, _, cleanup, err := newWriters(replayPrintOnly, "", false)
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		store := activity.NewStore()
		eng := engine.New(cfg, store, time.Minute, nil)

		snapshots := store.Subscribe()
		go sink.Drain(ctx, snapshots, writer)

		err = sink.ReplayKillLogFile(replayInput, func(k *killmail.Kill) error {
			eng.Ingest(k)
			return nil
		}, replaySpeed)
		if err != nil {
			return err
		}

		// Let the drain loop flush the final snapshot before exit.
		time.Sleep(100 * time.Millisecond)
		return nil
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to kill log file (.jsonl or .jsonl.gz)")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1.0, "Playback speed multiplier")
	replayCmd.Flags().BoolVar(&replayPrintOnly, "print-only", false, "Print snapshots to STDOUT instead of writing to DB")
	replayCmd.Flags().StringVar(&replayConfigPath, "config", "config/gatewatch.yaml", "Path to classifier configuration YAML")
	replayCmd.Flags().StringVar(&replaySchemaPath, "schema", "schemas/gatewatch.cue", "Path to CUE schema file")
	replayCmd.MarkFlagRequired("input")
}
