package sink

import (
	"os"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"

	"gatewatch/internal/activity"
	"gatewatch/internal/killmail"
)

// FileWriter appends snapshots and raw kills to JSONL files. Paths
// ending in .gz are gzip-compressed; the kill archive doubles as a
// replay input. Either path may be empty to skip that log.
type FileWriter struct {
	snapFile *os.File
	snapGz   *gzip.Writer
	snapEnc  *json.Encoder
	killFile *os.File
	killGz   *gzip.Writer
	killEnc  *json.Encoder
}

// NewFileWriter creates a FileWriter for the given snapshot and kill
// archive paths.
func NewFileWriter(snapshotPath, killPath string) (*FileWriter, error) {
	fw := &FileWriter{}
	if snapshotPath != "" {
		f, gz, enc, err := openJSONL(snapshotPath)
		if err != nil {
			return nil, err
		}
		fw.snapFile, fw.snapGz, fw.snapEnc = f, gz, enc
	}
	if killPath != "" {
		f, gz, enc, err := openJSONL(killPath)
		if err != nil {
			fw.Close()
			return nil, err
		}
		fw.killFile, fw.killGz, fw.killEnc = f, gz, enc
	}
	return fw, nil
}

func openJSONL(path string) (*os.File, *gzip.Writer, *json.Encoder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, nil, err
	}
	if strings.HasSuffix(path, ".gz") {
		gz := gzip.NewWriter(f)
		return f, gz, json.NewEncoder(gz), nil
	}
	return f, nil, json.NewEncoder(f), nil
}

// WriteSnapshot logs one snapshot line, if enabled.
func (f *FileWriter) WriteSnapshot(snap activity.Snapshot) error {
	if f.snapEnc == nil {
		return nil
	}
	return f.snapEnc.Encode(snap)
}

// WriteKill logs one raw kill line, if enabled.
func (f *FileWriter) WriteKill(k *killmail.Kill) error {
	if f.killEnc == nil {
		return nil
	}
	return f.killEnc.Encode(k)
}

// Close flushes compression buffers and closes the underlying files.
func (f *FileWriter) Close() error {
	var err error
	closeGz := func(gz *gzip.Writer) {
		if gz != nil {
			if e := gz.Close(); e != nil && err == nil {
				err = e
			}
		}
	}
	closeFile := func(file *os.File) {
		if file != nil {
			if e := file.Close(); e != nil && err == nil {
				err = e
			}
		}
	}
	closeGz(f.snapGz)
	closeFile(f.snapFile)
	closeGz(f.killGz)
	closeFile(f.killFile)
	return err
}
