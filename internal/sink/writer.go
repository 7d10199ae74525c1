// Package sink delivers published snapshots to output destinations.
package sink

import (
	"context"

	"gatewatch/internal/activity"
	"gatewatch/internal/killmail"
	"gatewatch/internal/logging"
)

// SnapshotWriter consumes published activity snapshots.
type SnapshotWriter interface {
	WriteSnapshot(activity.Snapshot) error
}

// KillWriter archives raw kills, e.g. for later replay.
type KillWriter interface {
	WriteKill(*killmail.Kill) error
}

// Drain forwards every snapshot from the subscription channel to the
// writer until the context is done or the channel closes. Write errors
// are logged, not fatal: a broken sink must not stop classification.
func Drain(ctx context.Context, snapshots <-chan activity.Snapshot, w SnapshotWriter) {
	log := logging.FromContext(ctx)
	for {
		select {
		case snap, ok := <-snapshots:
			if !ok {
				return
			}
			if err := w.WriteSnapshot(snap); err != nil {
				log.Error("snapshot write failed", "err", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
