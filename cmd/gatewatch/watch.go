package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"gatewatch/internal/activity"
	"gatewatch/internal/admin"
	"gatewatch/internal/config"
	"gatewatch/internal/engine"
	"gatewatch/internal/ingest"
	"gatewatch/internal/logging"
	"gatewatch/internal/sink"
)

var (
	watchPrintOnly  bool
	watchConfigPath string
	watchSchemaPath string
	watchTick       time.Duration
	watchListen     string
	watchAdmin      string
	watchLogFile    string
	watchTUI        bool
	watchVerbose    bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the live activity classifier",
	Long:  "watch ingests kills over HTTP, classifies camps and battles, and publishes snapshots to the configured sinks.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(watchConfigPath, watchSchemaPath)
		if err != nil {
			return err
		}

		writer, archive, cleanup, err := newWriters(watchPrintOnly, watchLogFile, watchTUI)
		if err != nil {
			return err
		}
		defer cleanup()

		tickInterval := watchTick
		if envTick := os.Getenv("TICK_INTERVAL"); envTick != "" {
			d, err := time.ParseDuration(envTick)
			if err != nil {
				return err
			}
			tickInterval = d
		}

		log := logging.New(watchVerbose)
		ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), log))
		defer cancel()

		store := activity.NewStore()
		eng := engine.New(cfg, store, tickInterval, nil)

		snapshots := store.Subscribe()
		go sink.Drain(ctx, snapshots, writer)
		go eng.Run(ctx)

		go func() {
			log.Info("ingest listening", "addr", watchListen)
			if err := ingest.Serve(ctx, watchListen, ingest.NewRouter(eng, archive)); err != nil && err != http.ErrServerClosed {
				log.Error("ingest server failed", "err", err)
				cancel()
			}
		}()

		srv := admin.NewServer(eng)
		go func() {
			log.Info("admin listening", "addr", watchAdmin)
			if err := srv.Start(ctx, watchAdmin); err != nil && err != http.ErrServerClosed {
				log.Error("admin server failed", "err", err)
				cancel()
			}
		}()

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigs:
		case <-ctx.Done():
		}

		cancel()
		log.Info("classifier stopped")
		return nil
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchPrintOnly, "print-only", false, "Print snapshots to STDOUT instead of writing to DB")
	watchCmd.Flags().StringVar(&watchConfigPath, "config", "config/gatewatch.yaml", "Path to classifier configuration YAML")
	watchCmd.Flags().StringVar(&watchSchemaPath, "schema", "schemas/gatewatch.cue", "Path to CUE schema file")
	watchCmd.Flags().DurationVar(&watchTick, "tick", 30*time.Second, "Rescore tick interval (e.g. 10s, 1m)")
	watchCmd.Flags().StringVar(&watchListen, "listen", ":8081", "Kill ingest listen address")
	watchCmd.Flags().StringVar(&watchAdmin, "admin", ":8080", "Admin API listen address")
	watchCmd.Flags().StringVar(&watchLogFile, "log-file", "", "Path to export snapshot/kill logs (JSONL)")
	watchCmd.Flags().BoolVar(&watchTUI, "tui", false, "Render snapshots in a terminal dashboard")
	watchCmd.Flags().BoolVar(&watchVerbose, "verbose", false, "Enable debug logging")
}
