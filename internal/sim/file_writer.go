package sim

import (
	"encoding/json"
	"os"
	"sync"

	"gridwatch-sim/internal/alert"
	"gridwatch-sim/internal/grid"
)

// FileWriter writes readings and alert entries to JSONL files.
type FileWriter struct {
	mu        sync.Mutex
	readFile  *os.File
	alertFile *os.File
	readEnc   *json.Encoder
	alertEnc  *json.Encoder
}

// NewFileWriter creates a FileWriter. alertPath may be empty to skip the alert log.
func NewFileWriter(readingPath, alertPath string) (*FileWriter, error) {
	rf, err := os.Create(readingPath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{readFile: rf, readEnc: json.NewEncoder(rf)}
	if alertPath != "" {
		af, err := os.Create(alertPath)
		if err != nil {
			rf.Close()
			return nil, err
		}
		fw.alertFile = af
		fw.alertEnc = json.NewEncoder(af)
	}
	return fw, nil
}

// Write logs a single reading.
func (f *FileWriter) Write(r grid.Reading) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.readEnc.Encode(r)
}

// WriteBatch logs multiple readings.
func (f *FileWriter) WriteBatch(rows []grid.Reading) error {
	for _, r := range rows {
		if err := f.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteAlert logs an alert entry, if enabled.
func (f *FileWriter) WriteAlert(e alert.Entry) error {
	if f.alertEnc == nil {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.alertEnc.Encode(e)
}

// Close closes any underlying files.
func (f *FileWriter) Close() error {
	var err error
	if f.readFile != nil {
		if e := f.readFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.alertFile != nil {
		if e := f.alertFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
