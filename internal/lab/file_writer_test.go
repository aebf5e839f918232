package lab

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func sampleRound(round int, name string) RoundRecord {
	return RoundRecord{
		Round:     round,
		AgentName: name,
		Decision:  "work",
		Payment:   1.234,
		Metrics:   LedgerSnapshot{Balance: 20.5, BurnRate: 0.05, ReputationScore: 50},
	}
}

func TestFileWriter_WritesJSONL(t *testing.T) {
	dir := t.TempDir()
	roundsPath := filepath.Join(dir, "rounds.jsonl")
	lbPath := filepath.Join(dir, "leaderboard.jsonl")

	fw, err := NewFileWriter(roundsPath, lbPath)
	if err != nil {
		t.Fatalf("NewFileWriter: %v", err)
	}
	if err := fw.WriteRound(sampleRound(1, "A")); err != nil {
		t.Fatalf("WriteRound: %v", err)
	}
	if err := fw.WriteRounds([]RoundRecord{sampleRound(2, "A"), sampleRound(2, "B")}); err != nil {
		t.Fatalf("WriteRounds: %v", err)
	}
	if err := fw.WriteLeaderboard([]LeaderboardEntry{{AgentName: "A", Balance: 21}, {AgentName: "B", Balance: 19}}); err != nil {
		t.Fatalf("WriteLeaderboard: %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if got := countJSONLines(t, roundsPath); got != 3 {
		t.Errorf("rounds file has %d lines, want 3", got)
	}
	if got := countJSONLines(t, lbPath); got != 2 {
		t.Errorf("leaderboard file has %d lines, want 2", got)
	}
}

func TestFileWriter_LeaderboardOptional(t *testing.T) {
	dir := t.TempDir()
	fw, err := NewFileWriter(filepath.Join(dir, "rounds.jsonl"), "")
	if err != nil {
		t.Fatalf("NewFileWriter: %v", err)
	}
	defer fw.Close()

	if err := fw.WriteLeaderboard([]LeaderboardEntry{{AgentName: "A"}}); err != nil {
		t.Errorf("leaderboard writes should be a no-op when disabled: %v", err)
	}
}

func countJSONLines(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var v map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &v); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", count+1, err)
		}
		count++
	}
	return count
}
