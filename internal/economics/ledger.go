package economics

// AgentEconomics is the per-agent financial ledger. One instance is created
// per agent at session start and mutated by the Engine every round; it is
// never reset mid-session.
type AgentEconomics struct {
	Name              string    `json:"name"`
	Balance           float64   `json:"balance"`
	BurnRate          float64   `json:"burn_rate"`
	TokenSpend        float64   `json:"token_spend"`
	APISpend          float64   `json:"api_spend"`
	SimulationSpend   float64   `json:"simulation_spend"`
	RewardsEarned     float64   `json:"rewards_earned"`
	TotalCost         float64   `json:"total_cost"`
	ProfitMargin      float64   `json:"profit_margin"`
	SurvivalTimeHours float64   `json:"survival_time_hours"`
	ReputationScore   float64   `json:"reputation_score"`
	ROIHistory        []float64 `json:"roi_history"`
}

// Bankrupt is derived from balance, never stored separately.
func (a *AgentEconomics) Bankrupt() bool {
	return a.Balance <= 0
}
