package sim

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"time"

	"gridwatch-sim/internal/grid"
)

// ReplayLog replays readings from r to writer. A speed >0 accelerates playback.
// If speed <= 0, no artificial delay is inserted. Lines without a metric, such
// as alert envelopes, are skipped.
func ReplayLog(ctx context.Context, r io.Reader, writer ReadingWriter, speed float64) error {
	dec := json.NewDecoder(r)
	var prev time.Time
	for {
		var row grid.Reading
		if err := dec.Decode(&row); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if row.Metric == "" {
			continue
		}
		if !prev.IsZero() && speed > 0 {
			diff := row.Timestamp.Sub(prev)
			if speed != 1 {
				diff = time.Duration(float64(diff) / speed)
			}
			if diff > 0 {
				select {
				case <-time.After(diff):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
		if err := writer.Write(row); err != nil {
			return err
		}
		prev = row.Timestamp
	}
}

// ReplayLogFile opens a file and replays its readings.
func ReplayLogFile(ctx context.Context, path string, writer ReadingWriter, speed float64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ReplayLog(ctx, f, writer, speed)
}
