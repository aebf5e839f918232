package lab

import (
	"encoding/json"
	"io"
	"os"
)

// ReplayLog re-renders round records from r through writer. Rounds are pure
// computation output, not timestamped telemetry, so no pacing is applied.
func ReplayLog(r io.Reader, writer RoundWriter) error {
	dec := json.NewDecoder(r)
	for {
		var record RoundRecord
		if err := dec.Decode(&record); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if err := writer.WriteRound(record); err != nil {
			return err
		}
	}
}

// ReplayLogFile opens a file and replays its round records.
func ReplayLogFile(path string, writer RoundWriter) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ReplayLog(f, writer)
}
