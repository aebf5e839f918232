package lab

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// JSONStdoutWriter prints rounds and leaderboards as JSON lines to STDOUT.
type JSONStdoutWriter struct {
	out io.Writer
}

// NewJSONStdoutWriter creates a JSONStdoutWriter writing to os.Stdout.
func NewJSONStdoutWriter() *JSONStdoutWriter {
	return &JSONStdoutWriter{out: os.Stdout}
}

// WriteRound outputs a round record in JSON format.
func (w *JSONStdoutWriter) WriteRound(r RoundRecord) error {
	data, _ := json.Marshal(r)
	fmt.Fprintln(w.out, string(data))
	return nil
}

// WriteRounds outputs multiple round records in JSON format.
func (w *JSONStdoutWriter) WriteRounds(rows []RoundRecord) error {
	for _, r := range rows {
		_ = w.WriteRound(r)
	}
	return nil
}

// WriteLeaderboard outputs the leaderboard as a single JSON array.
func (w *JSONStdoutWriter) WriteLeaderboard(entries []LeaderboardEntry) error {
	data, _ := json.Marshal(entries)
	fmt.Fprintln(w.out, string(data))
	return nil
}
