package sink

import (
	"errors"
	"testing"
	"time"

	"gatewatch/internal/activity"
	"gatewatch/internal/killmail"
)

type recordingWriter struct {
	snaps []activity.Snapshot
	kills []*killmail.Kill
	err   error
}

func (r *recordingWriter) WriteSnapshot(s activity.Snapshot) error {
	if r.err != nil {
		return r.err
	}
	r.snaps = append(r.snaps, s)
	return nil
}

func (r *recordingWriter) WriteKill(k *killmail.Kill) error {
	if r.err != nil {
		return r.err
	}
	r.kills = append(r.kills, k)
	return nil
}

func TestMultiWriter_FanOut(t *testing.T) {
	a := &recordingWriter{}
	b := &recordingWriter{}
	mw := NewMultiWriter([]SnapshotWriter{a, b}, []KillWriter{a, b})

	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := mw.WriteSnapshot(sampleSnapshot(t0)); err != nil {
		t.Fatalf("WriteSnapshot failed: %v", err)
	}
	if err := mw.WriteKill(sampleKill(1, t0)); err != nil {
		t.Fatalf("WriteKill failed: %v", err)
	}

	for i, w := range []*recordingWriter{a, b} {
		if len(w.snaps) != 1 {
			t.Fatalf("writer %d: expected 1 snapshot, got %d", i, len(w.snaps))
		}
		if len(w.kills) != 1 {
			t.Fatalf("writer %d: expected 1 kill, got %d", i, len(w.kills))
		}
	}
}

func TestMultiWriter_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	bad := &recordingWriter{err: boom}
	good := &recordingWriter{}
	mw := NewMultiWriter([]SnapshotWriter{bad, good}, nil)

	if err := mw.WriteSnapshot(sampleSnapshot(time.Now())); !errors.Is(err, boom) {
		t.Fatalf("expected boom error, got %v", err)
	}
	if len(good.snaps) != 0 {
		t.Fatalf("fan-out should stop on first error")
	}
}
