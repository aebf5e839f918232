// Entity records shared by the simulation and economic engines.
package entities

// Patient holds per-patient state for one simulated shift.
// StartedHour and CompletedHour stay nil until the patient is treated.
type Patient struct {
	ID                   int     `json:"patient_id"`
	ArrivalHour          int     `json:"arrival_hour"`
	AcuityLevel          int     `json:"acuity_level"`
	EstimatedServiceTime float64 `json:"estimated_service_time"`
	StartedHour          *int    `json:"started_hour"`
	CompletedHour        *int    `json:"completed_hour"`
	HasError             bool    `json:"has_error"`
}

// Resources is the staffing allocation for one simulation run.
type Resources struct {
	Beds    int `json:"beds" yaml:"beds"`
	Nurses  int `json:"nurses" yaml:"nurses"`
	Doctors int `json:"doctors" yaml:"doctors"`
}

// DisruptionEvent is an active disruption inside a running shift.
// RemainingHours counts down each hour; the event is dropped at zero.
type DisruptionEvent struct {
	Name           string  `json:"name"`
	Severity       float64 `json:"severity"`
	RemainingHours int     `json:"remaining_hours"`
}

// EventProfile describes a disruption kind: how hard it hits and how long it lasts.
// Kinds beyond the built-ins can be added through the config document.
type EventProfile struct {
	Severity      float64 `json:"severity" yaml:"severity"`
	DurationHours int     `json:"duration_hours" yaml:"duration_hours"`
}

// Built-in disruption kinds.
const (
	EventMassCasualty = "mass_casualty"
	EventSystemOutage = "system_outage"
)

// DefaultEventCatalog returns severity/duration profiles for the built-in kinds.
func DefaultEventCatalog() map[string]EventProfile {
	return map[string]EventProfile{
		EventMassCasualty: {Severity: 0.45, DurationHours: 2},
		EventSystemOutage: {Severity: 0.7, DurationHours: 1},
	}
}

// KPIResult aggregates one shift's performance.
// Time metrics are reported in hours with 2-decimal precision, rates with 3.
type KPIResult struct {
	DoorToDoctor      float64  `json:"door_to_doctor"`
	LengthOfStay      float64  `json:"length_of_stay"`
	Throughput        int      `json:"throughput"`
	ErrorRate         float64  `json:"error_rate"`
	TreatedPatients   int      `json:"treated_patients"`
	UntreatedPatients int      `json:"untreated_patients"`
	EventLog          []string `json:"event_log"`
}
