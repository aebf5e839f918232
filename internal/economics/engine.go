// Ledger operations and KPI scoring for the survival lab.
package economics

import (
	"math"

	"survivallab/internal/config"
	"survivallab/internal/entities"
)

// Reputation gain per investment is capped regardless of the promised ROI.
const maxReputationGain = 5.0

// Engine applies economic operations to agent ledgers. It holds no state of
// its own beyond the immutable config value captured at construction; every
// operation is a pure mutation of the ledger it is handed.
type Engine struct {
	cfg *config.Config
}

// NewEngine creates an economic engine over an immutable config document.
func NewEngine(cfg *config.Config) *Engine {
	return &Engine{cfg: cfg}
}

// InitializeAgent creates a fresh ledger with the configured starting balance
// and burn rate. Reputation starts at the neutral 50.0 baseline.
func (e *Engine) InitializeAgent(name string) *AgentEconomics {
	return &AgentEconomics{
		Name:            name,
		Balance:         e.cfg.InitialCapital,
		BurnRate:        e.cfg.HourlyBurnRate,
		ReputationScore: 50.0,
	}
}

// ChargeUsage bills token, API-call, and simulation-run consumption against
// the ledger and returns the total charge.
func (e *Engine) ChargeUsage(econ *AgentEconomics, tokens, apiCalls, simulationRuns int) float64 {
	tokenCost := float64(tokens) * e.cfg.TokenCost
	apiCost := float64(apiCalls) * e.cfg.APICallCost
	runCost := float64(simulationRuns) * e.cfg.SimulationRunCost
	charge := tokenCost + apiCost + runCost

	econ.TokenSpend += tokenCost
	econ.APISpend += apiCost
	econ.SimulationSpend += runCost
	econ.TotalCost += charge
	econ.Balance -= charge
	return charge
}

// ApplyBurnRate charges fixed operating cost for the given hours. Survival
// time accrues regardless of outcome: it measures operating duration, not
// success.
func (e *Engine) ApplyBurnRate(econ *AgentEconomics, hours float64) float64 {
	cost := econ.BurnRate * hours
	econ.TotalCost += cost
	econ.Balance -= cost
	econ.SurvivalTimeHours += hours
	return cost
}

// Reward pays out quality_score x impact_factor and refreshes the profit
// margin. The margin keeps its prior value while total cost is zero.
func (e *Engine) Reward(econ *AgentEconomics, qualityScore, impactFactor float64) float64 {
	payment := qualityScore * impactFactor
	econ.RewardsEarned += payment
	econ.Balance += payment
	if econ.TotalCost > 0 {
		econ.ProfitMargin = (econ.RewardsEarned - econ.TotalCost) / econ.TotalCost
	}
	return payment
}

// InvestInUpgrade deducts the configured upgrade cost and records the
// expected ROI. An underfunded ledger is left untouched and the investment
// reports false; this is the sole gate through which agent skill improves.
func (e *Engine) InvestInUpgrade(econ *AgentEconomics, expectedROI float64) bool {
	cost := e.cfg.Investment.SkillUpgradeCost
	if econ.Balance < cost {
		return false
	}

	econ.Balance -= cost
	econ.TotalCost += cost
	econ.ROIHistory = append(econ.ROIHistory, expectedROI)
	econ.ReputationScore += math.Min(maxReputationGain, expectedROI*10)
	return true
}

// QualityScoreFromKPIs blends four independently clamped KPI components into
// a reward score. Throughput is the only component allowed to exceed 1 before
// weighting, rewarding over-performance.
//
// The /4 normalization assumes exactly four components; revisit it before
// adding a fifth.
func (e *Engine) QualityScoreFromKPIs(kpis entities.KPIResult) float64 {
	m := e.cfg.RewardMultipliers
	door := math.Max(0, 1-kpis.DoorToDoctor/6) * m.DoorToDoctor
	los := math.Max(0, 1-kpis.LengthOfStay/14) * m.LengthOfStay
	throughput := math.Min(1.5, float64(kpis.Throughput)/100) * m.Throughput
	safety := math.Max(0, 1-kpis.ErrorRate) * m.ErrorRate
	return round4((door + los + throughput + safety) / 4)
}

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
