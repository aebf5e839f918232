package lab

// RoundWriter is an interface to support different round-record outputs.
type RoundWriter interface {
	WriteRound(RoundRecord) error
}

// LeaderboardWriter renders a session's final standings.
type LeaderboardWriter interface {
	WriteLeaderboard([]LeaderboardEntry) error
}

// Optional: writers can also support batch mode.
type batchRoundWriter interface {
	WriteRounds([]RoundRecord) error
}
