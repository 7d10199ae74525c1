package sink

import (
	"io"
	"os"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"

	"gatewatch/internal/killmail"
)

// ReplayKillLog replays kills from a JSONL stream into ingest, pacing
// by the recorded kill timestamps. A speed >0 accelerates playback;
// speed <= 0 inserts no artificial delay.
func ReplayKillLog(r io.Reader, ingest func(*killmail.Kill) error, speed float64) error {
	dec := json.NewDecoder(r)
	var prev time.Time
	for {
		var k killmail.Kill
		if err := dec.Decode(&k); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if !prev.IsZero() && speed > 0 {
			diff := k.Time.Sub(prev)
			if speed != 1 {
				diff = time.Duration(float64(diff) / speed)
			}
			if diff > 0 {
				time.Sleep(diff)
			}
		}
		if err := ingest(&k); err != nil {
			return err
		}
		prev = k.Time
	}
}

// ReplayKillLogFile opens a kill archive and replays it. Paths ending
// in .gz are decompressed transparently.
func ReplayKillLogFile(path string, ingest func(*killmail.Kill) error, speed float64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return err
		}
		defer gz.Close()
		r = gz
	}
	return ReplayKillLog(r, ingest, speed)
}
