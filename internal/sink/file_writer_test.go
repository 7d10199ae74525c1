package sink

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"

	"gatewatch/internal/activity"
	"gatewatch/internal/killmail"
)

func sampleSnapshot(t time.Time) activity.Snapshot {
	return activity.Snapshot{
		GeneratedAt: t,
		Activities: []activity.Activity{
			{
				ID:             "camp/30002813/Stargate (Kedama)",
				Classification: activity.ClassGateCamp,
				SolarSystemID:  30002813,
				GateName:       "Stargate (Kedama)",
				Confidence:     45,
				Pilots:         3,
				TotalValue:     125000000,
				KillIDs:        []int64{1, 2},
				LastKill:       t,
			},
		},
	}
}

func sampleKill(id int64, t time.Time) *killmail.Kill {
	return &killmail.Kill{
		ID:            id,
		SolarSystemID: 30002813,
		Time:          t,
		Victim:        killmail.Victim{Identity: killmail.Identity{CharacterID: 100 + id, CorporationID: 9000 + id}, ShipTypeID: 648},
	}
}

func TestFileWriter_PlainRoundTrip(t *testing.T) {
	dir := t.TempDir()
	snapPath := filepath.Join(dir, "snapshots.jsonl")
	killPath := filepath.Join(dir, "kills.jsonl")

	fw, err := NewFileWriter(snapPath, killPath)
	if err != nil {
		t.Fatalf("NewFileWriter failed: %v", err)
	}
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := fw.WriteSnapshot(sampleSnapshot(t0)); err != nil {
		t.Fatalf("WriteSnapshot failed: %v", err)
	}
	if err := fw.WriteKill(sampleKill(1, t0)); err != nil {
		t.Fatalf("WriteKill failed: %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(snapPath)
	if err != nil {
		t.Fatalf("read snapshot log: %v", err)
	}
	var snap activity.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("decode snapshot line: %v", err)
	}
	if len(snap.Activities) != 1 || snap.Activities[0].SolarSystemID != 30002813 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	data, err = os.ReadFile(killPath)
	if err != nil {
		t.Fatalf("read kill log: %v", err)
	}
	if !strings.Contains(string(data), `"killmail_id":1`) {
		t.Fatalf("kill log missing kill id: %s", data)
	}
}

func TestFileWriter_GzipRoundTrip(t *testing.T) {
	dir := t.TempDir()
	killPath := filepath.Join(dir, "kills.jsonl.gz")

	fw, err := NewFileWriter("", killPath)
	if err != nil {
		t.Fatalf("NewFileWriter failed: %v", err)
	}
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := int64(1); i <= 3; i++ {
		if err := fw.WriteKill(sampleKill(i, t0.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("WriteKill failed: %v", err)
		}
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	f, err := os.Open(killPath)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	dec := json.NewDecoder(gz)
	var ids []int64
	for dec.More() {
		var k killmail.Kill
		if err := dec.Decode(&k); err != nil {
			t.Fatalf("decode kill: %v", err)
		}
		ids = append(ids, k.ID)
	}
	if len(ids) != 3 || ids[0] != 1 || ids[2] != 3 {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestFileWriter_DisabledLogsAreNoOps(t *testing.T) {
	fw, err := NewFileWriter("", "")
	if err != nil {
		t.Fatalf("NewFileWriter failed: %v", err)
	}
	if err := fw.WriteSnapshot(sampleSnapshot(time.Now())); err != nil {
		t.Fatalf("WriteSnapshot on disabled log: %v", err)
	}
	if err := fw.WriteKill(sampleKill(1, time.Now())); err != nil {
		t.Fatalf("WriteKill on disabled log: %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}
