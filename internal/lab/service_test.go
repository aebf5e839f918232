package lab

import (
	"context"
	"reflect"
	"testing"

	"survivallab/internal/config"
)

// MockWriter collects round records and leaderboards for validation.
type MockWriter struct {
	Rounds       []RoundRecord
	Leaderboards [][]LeaderboardEntry
}

func (w *MockWriter) WriteRound(r RoundRecord) error {
	w.Rounds = append(w.Rounds, r)
	return nil
}

func (w *MockWriter) WriteLeaderboard(entries []LeaderboardEntry) error {
	w.Leaderboards = append(w.Leaderboards, entries)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		InitialCapital:    25.0,
		HourlyBurnRate:    0.05,
		TokenCost:         0.001,
		APICallCost:       0.02,
		SimulationRunCost: 0.1,
		ImpactFactor:      10.0,
		Investment:        config.Investment{SkillUpgradeCost: 1.0, EfficiencyGain: 0.15},
		RewardMultipliers: config.RewardMultipliers{DoorToDoctor: 1.0, LengthOfStay: 1.0, Throughput: 1.2, ErrorRate: 1.0},
		Simulation: config.Simulation{
			ShiftHours:      12,
			PatientsPerHour: 8,
			EventProbabilities: map[string]float64{
				"mass_casualty": 0.08,
				"system_outage": 0.05,
			},
		},
	}
}

func seededRequest(seed int64) Request {
	return Request{
		Rounds:         2,
		AgentNames:     []string{"A", "B"},
		Beds:           20,
		Nurses:         12,
		Doctors:        6,
		TokensUsed:     1500,
		APICalls:       15,
		SimulationRuns: 1,
		Seed:           &seed,
	}
}

func TestRunSession_OutputShape(t *testing.T) {
	svc := NewService(testConfig(), nil)
	result := svc.RunSession(context.Background(), seededRequest(11), nil)

	if result.Rounds != 2 {
		t.Errorf("expected 2 rounds, got %d", result.Rounds)
	}
	if len(result.Leaderboard) != 2 {
		t.Fatalf("expected 2 leaderboard entries, got %d", len(result.Leaderboard))
	}
	if len(result.Results) != 4 {
		t.Errorf("expected 4 round records (2 agents x 2 rounds), got %d", len(result.Results))
	}
	if result.SessionID == "" {
		t.Error("session should carry an identifier")
	}

	names := map[string]bool{}
	for _, e := range result.Leaderboard {
		names[e.AgentName] = true
	}
	if !names["A"] || !names["B"] {
		t.Errorf("leaderboard missing agents: %+v", result.Leaderboard)
	}

	first := result.Results[0]
	if first.Round != 1 || first.AgentName != "A" {
		t.Errorf("agents should be processed in request order, got %+v", first)
	}
	if first.Decision == "" {
		t.Error("round record should carry the decision action")
	}
	if len(first.DecisionLog) != 1 {
		t.Errorf("first round should log exactly one decision, got %d", len(first.DecisionLog))
	}
}

func TestRunSession_DeterministicForSeed(t *testing.T) {
	first := NewService(testConfig(), nil).RunSession(context.Background(), seededRequest(42), nil)
	second := NewService(testConfig(), nil).RunSession(context.Background(), seededRequest(42), nil)

	if !reflect.DeepEqual(first.Results, second.Results) {
		t.Error("seeded sessions should produce identical round records")
	}
	if !reflect.DeepEqual(first.Leaderboard, second.Leaderboard) {
		t.Error("seeded sessions should produce identical leaderboards")
	}
}

func TestRunSession_BankruptAgentsSkippedButRanked(t *testing.T) {
	cfg := testConfig()
	cfg.InitialCapital = 2.0
	cfg.HourlyBurnRate = 1.0 // 12 burn hours per round guarantees round-one ruin
	svc := NewService(cfg, nil)

	req := seededRequest(7)
	req.Rounds = 3
	result := svc.RunSession(context.Background(), req, nil)

	// Each agent plays round one, goes bankrupt, and is skipped afterwards.
	if len(result.Results) != 2 {
		t.Errorf("expected 2 round records, got %d", len(result.Results))
	}
	if len(result.Leaderboard) != 2 {
		t.Fatalf("bankrupt agents must stay on the leaderboard, got %d entries", len(result.Leaderboard))
	}
	for _, e := range result.Leaderboard {
		if !e.Bankrupt {
			t.Errorf("agent %s should be bankrupt: %+v", e.AgentName, e)
		}
		if e.SurvivalTime != 12 {
			t.Errorf("frozen ledger should keep round-one survival time, got %v", e.SurvivalTime)
		}
	}
}

func TestRunSession_LeaderboardSolventFirst(t *testing.T) {
	svc := NewService(testConfig(), nil)
	req := seededRequest(3)
	req.Rounds = 1
	result := svc.RunSession(context.Background(), req, nil)

	sawBankrupt := false
	for _, e := range result.Leaderboard {
		if e.Bankrupt {
			sawBankrupt = true
		} else if sawBankrupt {
			t.Fatalf("solvent agent ranked below a bankrupt one: %+v", result.Leaderboard)
		}
	}
}

func TestRunSession_WritesRoundsAndLeaderboard(t *testing.T) {
	svc := NewService(testConfig(), nil)
	w := &MockWriter{}
	result := svc.RunSession(context.Background(), seededRequest(11), w)

	if len(w.Rounds) != len(result.Results) {
		t.Errorf("writer saw %d rounds, result has %d", len(w.Rounds), len(result.Results))
	}
	if len(w.Leaderboards) != 1 {
		t.Fatalf("leaderboard should be written exactly once, got %d", len(w.Leaderboards))
	}
	if !reflect.DeepEqual(w.Leaderboards[0], result.Leaderboard) {
		t.Error("written leaderboard differs from result")
	}
}

func TestRunSession_InvestmentRaisesSkill(t *testing.T) {
	svc := NewService(testConfig(), nil)
	req := seededRequest(5)
	req.Rounds = 4
	req.AgentNames = []string{"A"}
	result := svc.RunSession(context.Background(), req, nil)

	// Runway is comfortable and skill starts low, so round one invests.
	first := result.Results[0]
	if first.Decision != "invest" {
		t.Fatalf("expected an invest decision in round one, got %s", first.Decision)
	}
	// Usage 1.9 + burn 0.6 + upgrade 1.0.
	if first.CostBreakdown.TotalCost != 3.5 {
		t.Errorf("round-one total cost = %v, want 3.5", first.CostBreakdown.TotalCost)
	}
	if first.Metrics.ReputationScore != 51.2 {
		t.Errorf("funded upgrade should raise reputation to 51.2, got %v", first.Metrics.ReputationScore)
	}
}
