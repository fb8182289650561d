package services

import "fmt"

// Error kinds surfaced by the services. NotFound covers unknown
// entities, BusinessError covers valid-but-unprocessable state, and
// IntegrationError covers render/upload failures. Callers branch with
// errors.As; the messages are safe to show to users.
type (
	NotFoundError struct {
		Entity string
		Detail string
	}

	BusinessError struct {
		Rule   string
		Detail string
	}

	IntegrationError struct {
		Op     string
		Report string
		Err    error
	}
)

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.Detail)
}

func (e *BusinessError) Error() string {
	return fmt.Sprintf("%s: %s", e.Rule, e.Detail)
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("%s failed for report %s: %v", e.Op, e.Report, e.Err)
}

func (e *IntegrationError) Unwrap() error {
	return e.Err
}

const (
	RuleNoMissionInPeriod = "no mission found for collaborator in period"
	RuleMultipleSocieties = "multiple societies found"
)
