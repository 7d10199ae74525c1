package sink

import (
	"gatewatch/internal/activity"
	"gatewatch/internal/killmail"
)

// MultiWriter fan-outs snapshots and kills to multiple writers.
type MultiWriter struct {
	snapWriters []SnapshotWriter
	killWriters []KillWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(sws []SnapshotWriter, kws []KillWriter) *MultiWriter {
	return &MultiWriter{snapWriters: sws, killWriters: kws}
}

// WriteSnapshot sends a snapshot to all snapshot writers.
func (mw *MultiWriter) WriteSnapshot(snap activity.Snapshot) error {
	for _, w := range mw.snapWriters {
		if err := w.WriteSnapshot(snap); err != nil {
			return err
		}
	}
	return nil
}

// WriteKill sends a kill to all kill writers.
func (mw *MultiWriter) WriteKill(k *killmail.Kill) error {
	for _, w := range mw.killWriters {
		if err := w.WriteKill(k); err != nil {
			return err
		}
	}
	return nil
}
