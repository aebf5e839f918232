// Round orchestration: decision -> economics -> simulation -> leaderboard.
package lab

import (
	"context"
	"math"
	"sort"

	"github.com/google/uuid"

	"survivallab/internal/agent"
	"survivallab/internal/config"
	"survivallab/internal/economics"
	"survivallab/internal/entities"
	"survivallab/internal/logging"
	"survivallab/internal/simulation"
)

// Request describes one session: which agents run, for how many rounds, with
// what staffing and usage counters. Range validation happens at the transport
// layer; the orchestrator trusts documented numeric domains.
type Request struct {
	Rounds         int      `json:"rounds"`
	AgentNames     []string `json:"agent_names"`
	Beds           int      `json:"beds"`
	Nurses         int      `json:"nurses"`
	Doctors        int      `json:"doctors"`
	TokensUsed     int      `json:"tokens_used"`
	APICalls       int      `json:"api_calls"`
	SimulationRuns int      `json:"simulation_runs"`
	Seed           *int64   `json:"seed,omitempty"`
}

// LedgerSnapshot is the per-round view of an agent's economics.
type LedgerSnapshot struct {
	Balance         float64 `json:"balance"`
	BurnRate        float64 `json:"burn_rate"`
	ProfitMargin    float64 `json:"profit_margin"`
	SurvivalTime    float64 `json:"survival_time"`
	ReputationScore float64 `json:"reputation_score"`
	Bankrupt        bool    `json:"bankrupt"`
}

// CostBreakdown is the cumulative spend by category at the end of a round.
type CostBreakdown struct {
	TokenSpend      float64 `json:"token_spend"`
	APISpend        float64 `json:"api_spend"`
	SimulationSpend float64 `json:"simulation_spend"`
	TotalCost       float64 `json:"total_cost"`
	RewardsEarned   float64 `json:"rewards_earned"`
}

// RoundRecord is one agent's outcome for one round.
type RoundRecord struct {
	Round         int                `json:"round"`
	AgentName     string             `json:"agent_name"`
	Decision      agent.Action       `json:"decision"`
	Payment       float64            `json:"payment"`
	KPIs          entities.KPIResult `json:"kpis"`
	Metrics       LedgerSnapshot     `json:"metrics"`
	CostBreakdown CostBreakdown      `json:"cost_breakdown"`
	DecisionLog   []agent.Decision   `json:"decision_logs"`
}

// LeaderboardEntry is one agent's final standing.
type LeaderboardEntry struct {
	AgentName       string  `json:"agent_name"`
	Balance         float64 `json:"balance"`
	ReputationScore float64 `json:"reputation_score"`
	SurvivalTime    float64 `json:"survival_time"`
	Bankrupt        bool    `json:"bankrupt"`
}

// SessionResult is the full output of a multi-round session.
type SessionResult struct {
	SessionID   string             `json:"session_id"`
	Rounds      int                `json:"rounds"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	Results     []RoundRecord      `json:"results"`
}

// Service drives agents through rounds against the configured economy.
type Service struct {
	cfg       *config.Config
	econ      *economics.Engine
	newPolicy agent.Factory
}

// NewService creates an orchestrator. A nil factory uses the default
// triage-optimizer policy for every agent.
func NewService(cfg *config.Config, factory agent.Factory) *Service {
	if factory == nil {
		factory = agent.DefaultFactory
	}
	return &Service{
		cfg:       cfg,
		econ:      economics.NewEngine(cfg),
		newPolicy: factory,
	}
}

// Config returns the economics document the service runs against.
func (s *Service) Config() *config.Config {
	return s.cfg
}

// RunSession processes every agent sequentially within each round, in request
// order, so results and leaderboard ordering are deterministic for a given
// seed. Bankrupt agents are skipped with their ledgers frozen but stay on the
// leaderboard. Writer failures are logged, not fatal: the session result is
// complete either way.
func (s *Service) RunSession(ctx context.Context, req Request, w RoundWriter) *SessionResult {
	log := logging.FromContext(ctx)

	ledgers := make(map[string]*economics.AgentEconomics, len(req.AgentNames))
	policies := make(map[string]agent.Policy, len(req.AgentNames))
	for _, name := range req.AgentNames {
		ledgers[name] = s.econ.InitializeAgent(name)
		policies[name] = s.newPolicy(name)
	}

	simCfg := s.cfg.Simulation
	var results []RoundRecord

	for round := 1; round <= req.Rounds; round++ {
		for _, name := range req.AgentNames {
			policy := policies[name]
			econ := ledgers[name]
			if econ.Bankrupt() {
				continue
			}

			decision := policy.Decide(econ.Balance, econ.BurnRate)
			if decision.Action == agent.ActionInvest && s.econ.InvestInUpgrade(econ, decision.ExpectedROI) {
				policy.Improve(s.cfg.Investment.EfficiencyGain)
			}

			s.econ.ChargeUsage(econ, req.TokensUsed, req.APICalls, req.SimulationRuns)
			s.econ.ApplyBurnRate(econ, float64(simCfg.ShiftHours))

			staffing := policy.AllocateStaff(req.Beds, req.Nurses, req.Doctors)
			engine := s.newEngine(round, req.Seed)
			kpis := engine.Run(staffing, policy.OptimizeTriage(), policy.RedesignWorkflow())

			quality := s.econ.QualityScoreFromKPIs(kpis)
			payment := s.econ.Reward(econ, quality, s.cfg.ImpactFactor)

			record := RoundRecord{
				Round:     round,
				AgentName: name,
				Decision:  decision.Action,
				Payment:   round3(payment),
				KPIs:      kpis,
				Metrics: LedgerSnapshot{
					Balance:         round3(econ.Balance),
					BurnRate:        econ.BurnRate,
					ProfitMargin:    round3(econ.ProfitMargin),
					SurvivalTime:    econ.SurvivalTimeHours,
					ReputationScore: round2(econ.ReputationScore),
					Bankrupt:        econ.Bankrupt(),
				},
				CostBreakdown: CostBreakdown{
					TokenSpend:      round3(econ.TokenSpend),
					APISpend:        round3(econ.APISpend),
					SimulationSpend: round3(econ.SimulationSpend),
					TotalCost:       round3(econ.TotalCost),
					RewardsEarned:   round3(econ.RewardsEarned),
				},
				DecisionLog: policy.DecisionLog(),
			}
			results = append(results, record)

			if w != nil {
				if err := w.WriteRound(record); err != nil {
					log.Error("round write failed", "agent", name, "round", round, "error", err)
				}
			}
		}
	}

	leaderboard := make([]LeaderboardEntry, 0, len(req.AgentNames))
	for _, name := range req.AgentNames {
		econ := ledgers[name]
		leaderboard = append(leaderboard, LeaderboardEntry{
			AgentName:       name,
			Balance:         round3(econ.Balance),
			ReputationScore: round2(econ.ReputationScore),
			SurvivalTime:    econ.SurvivalTimeHours,
			Bankrupt:        econ.Bankrupt(),
		})
	}
	// Solvent first, then balance descending, then reputation descending.
	sort.SliceStable(leaderboard, func(i, j int) bool {
		a, b := leaderboard[i], leaderboard[j]
		if a.Bankrupt != b.Bankrupt {
			return !a.Bankrupt
		}
		if a.Balance != b.Balance {
			return a.Balance > b.Balance
		}
		return a.ReputationScore > b.ReputationScore
	})

	if w != nil {
		if lw, ok := w.(LeaderboardWriter); ok {
			if err := lw.WriteLeaderboard(leaderboard); err != nil {
				log.Error("leaderboard write failed", "error", err)
			}
		}
	}

	return &SessionResult{
		SessionID:   uuid.New().String(),
		Rounds:      req.Rounds,
		Leaderboard: leaderboard,
		Results:     results,
	}
}

// newEngine builds the round's simulation engine. Seeded sessions derive each
// round's generator from seed + round index: correlated but distinct shifts.
func (s *Service) newEngine(round int, seed *int64) *simulation.Engine {
	simCfg := s.cfg.Simulation
	var engine *simulation.Engine
	if seed != nil {
		engine = simulation.NewSeededEngine(simCfg.ShiftHours, simCfg.PatientsPerHour, simCfg.EventProbabilities, *seed+int64(round))
	} else {
		engine = simulation.NewEngine(simCfg.ShiftHours, simCfg.PatientsPerHour, simCfg.EventProbabilities)
	}
	for name, profile := range simCfg.EventCatalog {
		engine.SetEventProfile(name, profile)
	}
	return engine
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
