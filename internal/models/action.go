package models

import "time"

const (
	ActionSave   = "save"
	ActionDelete = "delete"

	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Action is an audit record of a mutation attempted from the dashboard.
type Action struct {
	Kind       string
	EmployeeID ID // EmployeeID is empty for creates: the API does not return the new identifier.
	Outcome    string
	At         time.Time
}
