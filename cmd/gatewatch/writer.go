package main

import (
	"os"

	"gatewatch/internal/sink"
	"gatewatch/internal/tui"
)

// newWriters sets up snapshot and kill-archive writers based on flags
// and env vars. It returns the writers and a cleanup function to close
// any resources.
func newWriters(printOnly bool, logFile string, useTUI bool) (sink.SnapshotWriter, sink.KillWriter, func(), error) {
	cleanup := func() {}

	writer, err := baseWriter(printOnly, useTUI)
	if err != nil {
		return nil, nil, nil, err
	}
	if c, ok := writer.(interface{ Close() error }); ok {
		cleanup = func() { c.Close() }
	}
	if logFile == "" {
		return writer, nil, cleanup, nil
	}

	fw, err := sink.NewFileWriter(logFile, logFile+".kills")
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	mw := sink.NewMultiWriter([]sink.SnapshotWriter{writer, fw}, []sink.KillWriter{fw})
	prev := cleanup
	cleanup = func() {
		fw.Close()
		prev()
	}
	return mw, mw, cleanup, nil
}

// baseWriter chooses the underlying writer based on flags and env vars.
func baseWriter(printOnly, useTUI bool) (sink.SnapshotWriter, error) {
	if useTUI {
		return tui.NewWriter(), nil
	}
	if printOnly || os.Getenv("GREPTIMEDB_ENDPOINT") == "" {
		return sink.NewJSONStdoutWriter(), nil
	}

	endpoint := os.Getenv("GREPTIMEDB_ENDPOINT")
	database := os.Getenv("GREPTIMEDB_DATABASE")
	if database == "" {
		database = "public"
	}
	return sink.NewGreptimeDBWriter(endpoint, database)
}
