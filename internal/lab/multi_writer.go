package lab

// MultiWriter fans round records and leaderboards out to multiple writers.
type MultiWriter struct {
	writers []RoundWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(ws ...RoundWriter) *MultiWriter {
	return &MultiWriter{writers: ws}
}

// WriteRound sends a round record to all writers.
func (mw *MultiWriter) WriteRound(r RoundRecord) error {
	for _, w := range mw.writers {
		if err := w.WriteRound(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteRounds sends multiple round records to all writers, using batch mode
// where a writer supports it.
func (mw *MultiWriter) WriteRounds(rows []RoundRecord) error {
	for _, w := range mw.writers {
		if bw, ok := w.(batchRoundWriter); ok {
			if err := bw.WriteRounds(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.WriteRound(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteLeaderboard sends the standings to every writer that renders them.
func (mw *MultiWriter) WriteLeaderboard(entries []LeaderboardEntry) error {
	for _, w := range mw.writers {
		if lw, ok := w.(LeaderboardWriter); ok {
			if err := lw.WriteLeaderboard(entries); err != nil {
				return err
			}
		}
	}
	return nil
}
