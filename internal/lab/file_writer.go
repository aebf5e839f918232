package lab

import (
	"encoding/json"
	"os"
)

// FileWriter writes round records and the final leaderboard to JSONL files.
type FileWriter struct {
	roundFile *os.File
	lbFile    *os.File
	roundEnc  *json.Encoder
	lbEnc     *json.Encoder
}

// NewFileWriter creates a FileWriter. leaderboardPath may be empty to skip
// the standings log.
func NewFileWriter(roundsPath, leaderboardPath string) (*FileWriter, error) {
	rf, err := os.Create(roundsPath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{roundFile: rf, roundEnc: json.NewEncoder(rf)}
	if leaderboardPath != "" {
		lf, err := os.Create(leaderboardPath)
		if err != nil {
			rf.Close()
			return nil, err
		}
		fw.lbFile = lf
		fw.lbEnc = json.NewEncoder(lf)
	}
	return fw, nil
}

// WriteRound logs a single round record.
func (f *FileWriter) WriteRound(r RoundRecord) error {
	return f.roundEnc.Encode(r)
}

// WriteRounds logs multiple round records.
func (f *FileWriter) WriteRounds(rows []RoundRecord) error {
	for _, r := range rows {
		if err := f.WriteRound(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteLeaderboard logs each standing as one line, if enabled.
func (f *FileWriter) WriteLeaderboard(entries []LeaderboardEntry) error {
	if f.lbEnc == nil {
		return nil
	}
	for _, e := range entries {
		if err := f.lbEnc.Encode(e); err != nil {
			return err
		}
	}
	return nil
}

// Close closes any underlying files.
func (f *FileWriter) Close() error {
	var err error
	if f.roundFile != nil {
		if e := f.roundFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.lbFile != nil {
		if e := f.lbFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
