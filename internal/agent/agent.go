// Agent decision policies: pluggable strategies mapping ledger state to
// actions, staffing, and simulation-input multipliers.
package agent

import (
	"survivallab/internal/entities"
)

// Action is the discrete economic move an agent makes each round.
type Action string

const (
	ActionConserve Action = "conserve"
	ActionInvest   Action = "invest"
	ActionWork     Action = "work"
)

// Runway sentinel when the burn rate is zero.
const infiniteRunway = 999

// Workflow efficiency never drops below this floor.
const workflowFloor = 0.9

// Decision is one round's economic choice with its rationale.
type Decision struct {
	Action      Action  `json:"action"`
	Reason      string  `json:"reason"`
	ExpectedROI float64 `json:"expected_roi"`
}

// Policy is the capability set a strategy must satisfy. The simulation and
// economic engines assume nothing about a policy's internals, only this
// output contract. Any type implementing it is a valid strategy; no base
// type is required.
type Policy interface {
	// Decide maps current ledger state to an action.
	Decide(balance, burnRate float64) Decision
	// OptimizeTriage returns the triage-efficiency multiplier for the round.
	OptimizeTriage() float64
	// RedesignWorkflow returns the workflow-efficiency multiplier (>= 0.9).
	RedesignWorkflow() float64
	// AllocateStaff may adjust the requested staffing before the shift runs.
	AllocateStaff(beds, nurses, doctors int) entities.Resources
	// Improve raises the agent's skill after a funded investment.
	Improve(gain float64)
	// DecisionLog returns all decisions made so far, oldest first.
	DecisionLog() []Decision
}

// Factory builds a policy for a named agent. The orchestrator uses one to
// instantiate every agent in a session.
type Factory func(name string) Policy

// HospitalAgent is the reference policy: conserve under 20 hours of runway,
// invest while cash-rich and low-skilled, otherwise work.
type HospitalAgent struct {
	Name                  string
	SkillLevel            float64
	Reputation            float64
	SubcontractingEnabled bool

	decisions []Decision
}

// NewHospitalAgent creates the reference policy at baseline skill.
func NewHospitalAgent(name string) *HospitalAgent {
	return &HospitalAgent{Name: name, SkillLevel: 1.0, Reputation: 50.0}
}

// Decide implements the reference runway-threshold policy.
func (a *HospitalAgent) Decide(balance, burnRate float64) Decision {
	runway := float64(infiniteRunway)
	if burnRate != 0 {
		runway = balance / burnRate
	}

	var d Decision
	switch {
	case runway < 20:
		d = Decision{ActionConserve, "Low runway: reduce experimentation spend", 0.01}
	case balance > 7 && a.SkillLevel < 1.5:
		d = Decision{ActionInvest, "Strong cash position and high long-term ROI", 0.12}
	default:
		d = Decision{ActionWork, "Optimize operations for near-term payouts", 0.08}
	}

	a.decisions = append(a.decisions, d)
	return d
}

// OptimizeTriage converts skill into a triage-efficiency multiplier.
func (a *HospitalAgent) OptimizeTriage() float64 {
	return 1.0 + (a.SkillLevel-1.0)*0.5
}

// RedesignWorkflow converts reputation into workflow efficiency, floored.
func (a *HospitalAgent) RedesignWorkflow() float64 {
	eff := 1.1 - a.Reputation/500
	if eff < workflowFloor {
		eff = workflowFloor
	}
	return eff
}

// AllocateStaff nudges nurse count up when understaffed relative to doctors,
// if the agent subcontracts.
func (a *HospitalAgent) AllocateStaff(beds, nurses, doctors int) entities.Resources {
	if a.SubcontractingEnabled && nurses < doctors*2 {
		nurses++
	}
	return entities.Resources{Beds: beds, Nurses: nurses, Doctors: doctors}
}

// Improve raises skill after a funded upgrade.
func (a *HospitalAgent) Improve(gain float64) {
	a.SkillLevel += gain
}

// DecisionLog returns the agent's decision history, oldest first.
func (a *HospitalAgent) DecisionLog() []Decision {
	return a.decisions
}

// TriageOptimizerAgent specializes the reference policy with a stronger
// triage gain and subcontracting enabled.
type TriageOptimizerAgent struct {
	HospitalAgent
}

// NewTriageOptimizerAgent creates the default session agent.
func NewTriageOptimizerAgent(name string) *TriageOptimizerAgent {
	a := &TriageOptimizerAgent{HospitalAgent: HospitalAgent{
		Name:                  name,
		SkillLevel:            1.0,
		Reputation:            50.0,
		SubcontractingEnabled: true,
	}}
	return a
}

// OptimizeTriage gives the specialized triage policy a stronger gain.
func (a *TriageOptimizerAgent) OptimizeTriage() float64 {
	return 1.2 + (a.SkillLevel-1.0)*0.6
}

// DefaultFactory builds the triage-optimizer policy for every agent name.
var DefaultFactory Factory = func(name string) Policy {
	return NewTriageOptimizerAgent(name)
}
