package model

import "fmt"

// HealthStatus represents the possible health status values
type HealthStatus string

const (
	StatusUp   HealthStatus = "UP"
	StatusDown HealthStatus = "DOWN"
)

// Dependency names reported in HealthReport.Details.
const (
	DependencyOrthanc  = "orthanc"
	DependencyPostgres = "postgres"
	DependencyKeycloak = "keycloak"
)

// Dependencies lists every key a HealthReport carries.
var Dependencies = []string{DependencyOrthanc, DependencyPostgres, DependencyKeycloak}

const outcomeOK = "OK"

// CheckOutcome is the result of a single dependency check: either OK or an error message.
type CheckOutcome struct {
	ok      bool
	message string
}

// OutcomeOK returns a successful outcome.
func OutcomeOK() CheckOutcome {
	return CheckOutcome{ok: true}
}

// OutcomeError returns a failed outcome rendered as "Error: <message>".
func OutcomeError(format string, args ...any) CheckOutcome {
	return CheckOutcome{message: fmt.Sprintf(format, args...)}
}

// OutcomeFromError returns OK for a nil error and an error outcome carrying err's text otherwise.
func OutcomeFromError(err error) CheckOutcome {
	if err == nil {
		return OutcomeOK()
	}
	return CheckOutcome{message: err.Error()}
}

// IsOK reports whether the check succeeded.
func (o CheckOutcome) IsOK() bool {
	return o.ok
}

// Message returns the failure message, empty for a successful outcome.
func (o CheckOutcome) Message() string {
	return o.message
}

// String renders the outcome as it appears in the health report.
func (o CheckOutcome) String() string {
	if o.ok {
		return outcomeOK
	}
	return "Error: " + o.message
}

// HealthReport is the aggregate health document served on /health.
type HealthReport struct {
	Status  HealthStatus      `json:"status"`
	Details map[string]string `json:"details"`
}

// NewHealthReport renders the outcomes and derives the overall status:
// DOWN when any detail is not exactly "OK", UP otherwise.
func NewHealthReport(outcomes map[string]CheckOutcome) HealthReport {
	details := make(map[string]string, len(outcomes))
	for name, outcome := range outcomes {
		details[name] = outcome.String()
	}
	return HealthReport{
		Status:  deriveStatus(details),
		Details: details,
	}
}

func deriveStatus(details map[string]string) HealthStatus {
	for _, value := range details {
		if value != outcomeOK {
			return StatusDown
		}
	}
	return StatusUp
}

// LivenessAlive is the only status /live ever reports.
const LivenessAlive = "alive"

// LivenessResponse is served on /live.
type LivenessResponse struct {
	Status string `json:"status"`
}
