package economics

import (
	"math"
	"testing"

	"survivallab/internal/config"
	"survivallab/internal/entities"
)

func testConfig() *config.Config {
	return &config.Config{
		InitialCapital:    10.0,
		HourlyBurnRate:    0.05,
		TokenCost:         0.001,
		APICallCost:       0.02,
		SimulationRunCost: 0.1,
		ImpactFactor:      10.0,
		Investment:        config.Investment{SkillUpgradeCost: 1.0, EfficiencyGain: 0.15},
		RewardMultipliers: config.RewardMultipliers{DoorToDoctor: 1.0, LengthOfStay: 1.0, Throughput: 1.0, ErrorRate: 1.0},
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestChargeUsage_LinearAndAdditive(t *testing.T) {
	engine := NewEngine(testConfig())
	econ := engine.InitializeAgent("a1")

	first := engine.ChargeUsage(econ, 1000, 10, 1)
	second := engine.ChargeUsage(econ, 1000, 10, 1)

	if !almostEqual(first, 1.3) || !almostEqual(second, 1.3) {
		t.Errorf("expected each charge = 1.3, got %v and %v", first, second)
	}
	if !almostEqual(econ.TotalCost, 2.6) {
		t.Errorf("expected total cost 2.6, got %v", econ.TotalCost)
	}
	if !almostEqual(econ.Balance, 7.4) {
		t.Errorf("expected balance 7.4, got %v", econ.Balance)
	}
	if !almostEqual(econ.TokenSpend, 2.0) || !almostEqual(econ.APISpend, 0.4) || !almostEqual(econ.SimulationSpend, 0.2) {
		t.Errorf("unexpected category accumulators: %+v", econ)
	}
}

func TestBankrupt_DerivedFromBalance(t *testing.T) {
	engine := NewEngine(testConfig())
	econ := engine.InitializeAgent("a1")

	if econ.Bankrupt() {
		t.Fatal("fresh ledger should be solvent")
	}
	econ.Balance = 0
	if !econ.Bankrupt() {
		t.Error("zero balance should be bankrupt")
	}
	econ.Balance = -3.2
	if !econ.Bankrupt() {
		t.Error("negative balance should be bankrupt")
	}
	econ.Balance = 0.001
	if econ.Bankrupt() {
		t.Error("positive balance should be solvent")
	}
}

func TestApplyBurnRate_AccruesSurvivalTime(t *testing.T) {
	engine := NewEngine(testConfig())
	econ := engine.InitializeAgent("a1")

	cost := engine.ApplyBurnRate(econ, 12)

	if !almostEqual(cost, 0.6) {
		t.Errorf("expected burn cost 0.6, got %v", cost)
	}
	if !almostEqual(econ.Balance, 9.4) || !almostEqual(econ.TotalCost, 0.6) {
		t.Errorf("ledger not debited: %+v", econ)
	}
	if econ.SurvivalTimeHours != 12 {
		t.Errorf("expected 12 survival hours, got %v", econ.SurvivalTimeHours)
	}
}

func TestReward_ProfitMargin(t *testing.T) {
	engine := NewEngine(testConfig())
	econ := engine.InitializeAgent("a1")

	// No cost yet: margin keeps its default.
	engine.Reward(econ, 0.5, 10)
	if econ.ProfitMargin != 0 {
		t.Errorf("margin should stay 0 while cost is 0, got %v", econ.ProfitMargin)
	}
	if !almostEqual(econ.Balance, 15.0) || !almostEqual(econ.RewardsEarned, 5.0) {
		t.Errorf("reward not credited: %+v", econ)
	}

	engine.ChargeUsage(econ, 1000, 0, 0) // cost 1.0
	payment := engine.Reward(econ, 0.1, 10)
	if !almostEqual(payment, 1.0) {
		t.Errorf("expected payment 1.0, got %v", payment)
	}
	want := (6.0 - 1.0) / 1.0
	if !almostEqual(econ.ProfitMargin, want) {
		t.Errorf("expected margin %v, got %v", want, econ.ProfitMargin)
	}
}

func TestInvestInUpgrade_InsufficientBalanceNoMutation(t *testing.T) {
	engine := NewEngine(testConfig())
	econ := engine.InitializeAgent("a1")
	econ.Balance = 0.5

	before := *econ
	if engine.InvestInUpgrade(econ, 0.12) {
		t.Fatal("investment should fail with insufficient balance")
	}
	if econ.Balance != before.Balance || econ.TotalCost != before.TotalCost ||
		econ.ReputationScore != before.ReputationScore || len(econ.ROIHistory) != 0 {
		t.Errorf("failed investment mutated the ledger: %+v", econ)
	}
}

func TestInvestInUpgrade_Success(t *testing.T) {
	engine := NewEngine(testConfig())
	econ := engine.InitializeAgent("a1")

	if !engine.InvestInUpgrade(econ, 0.12) {
		t.Fatal("investment should succeed with sufficient balance")
	}
	if !almostEqual(econ.Balance, 9.0) || !almostEqual(econ.TotalCost, 1.0) {
		t.Errorf("upgrade cost not applied: %+v", econ)
	}
	if len(econ.ROIHistory) != 1 || econ.ROIHistory[0] != 0.12 {
		t.Errorf("ROI history not recorded: %v", econ.ROIHistory)
	}
	if !almostEqual(econ.ReputationScore, 51.2) {
		t.Errorf("expected reputation 51.2, got %v", econ.ReputationScore)
	}
}

func TestInvestInUpgrade_ReputationGainCapped(t *testing.T) {
	engine := NewEngine(testConfig())
	econ := engine.InitializeAgent("a1")

	engine.InvestInUpgrade(econ, 2.0) // 2.0*10 caps at +5
	if !almostEqual(econ.ReputationScore, 55.0) {
		t.Errorf("expected reputation 55.0, got %v", econ.ReputationScore)
	}
}

func TestQualityScore_ComponentsClampIndependently(t *testing.T) {
	engine := NewEngine(testConfig())

	// A wait at or beyond 6h contributes exactly zero, whatever the magnitude.
	base := engine.QualityScoreFromKPIs(entities.KPIResult{DoorToDoctor: 6, LengthOfStay: 14, Throughput: 0, ErrorRate: 1})
	if base != 0 {
		t.Errorf("fully degraded KPIs should score 0, got %v", base)
	}
	worse := engine.QualityScoreFromKPIs(entities.KPIResult{DoorToDoctor: 60, LengthOfStay: 140, Throughput: 0, ErrorRate: 1})
	if worse != base {
		t.Errorf("clamped components should not go negative: %v vs %v", worse, base)
	}

	// Throughput is the only component allowed past 1 pre-weighting.
	capped := engine.QualityScoreFromKPIs(entities.KPIResult{Throughput: 150, DoorToDoctor: 6, LengthOfStay: 14, ErrorRate: 1})
	beyond := engine.QualityScoreFromKPIs(entities.KPIResult{Throughput: 500, DoorToDoctor: 6, LengthOfStay: 14, ErrorRate: 1})
	if capped != beyond {
		t.Errorf("throughput component should cap at 1.5: %v vs %v", capped, beyond)
	}
	if !almostEqual(capped, round4(1.5/4)) {
		t.Errorf("expected score %v, got %v", round4(1.5/4), capped)
	}
}

func TestQualityScore_PerfectShift(t *testing.T) {
	engine := NewEngine(testConfig())
	score := engine.QualityScoreFromKPIs(entities.KPIResult{DoorToDoctor: 0, LengthOfStay: 0, Throughput: 100, ErrorRate: 0})
	if !almostEqual(score, 1.0) {
		t.Errorf("expected score 1.0, got %v", score)
	}
}
