package sink

import (
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"

	"gatewatch/internal/activity"
)

// JSONStdoutWriter prints snapshots as JSON lines to STDOUT.
type JSONStdoutWriter struct {
	out io.Writer
}

// NewJSONStdoutWriter creates a JSONStdoutWriter writing to os.Stdout.
func NewJSONStdoutWriter() *JSONStdoutWriter {
	return &JSONStdoutWriter{out: os.Stdout}
}

// WriteSnapshot outputs one snapshot as a single JSON line.
func (w *JSONStdoutWriter) WriteSnapshot(snap activity.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w.out, string(data))
	return err
}
