package dashboard

import (
	"strings"

	"github.com/UnknownOlympus/athena/internal/models"
)

// ModalMode is the state of the create/edit overlay.
type ModalMode int

const (
	ModalClosed ModalMode = iota
	ModalCreate
	ModalEdit
)

func (m ModalMode) String() string {
	switch m {
	case ModalCreate:
		return "open-create"
	case ModalEdit:
		return "open-edit"
	case ModalClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// View is a point-in-time copy of the dashboard state used for rendering.
type View struct {
	Employees  []models.Employee // Employees is the fetched page filtered by Search.
	Total      int               // Total is the number of rows on the fetched page before filtering.
	Divisions  []models.Division
	Page       int
	Search     string
	Modal      ModalMode
	Form       models.EmployeeForm
	EditTarget models.ID
}

// DivisionName returns the division name embedded in the employee, falling back
// to the lookup list when the embedded name is empty.
func (v View) DivisionName(employee models.Employee) string {
	if employee.Division.Name != "" {
		return employee.Division.Name
	}

	for _, division := range v.Divisions {
		if division.ID == employee.Division.ID {
			return division.Name
		}
	}

	return ""
}

// FilterByName keeps the employees whose name contains term, ignoring case.
// An empty term keeps every employee.
func FilterByName(employees []models.Employee, term string) []models.Employee {
	needle := strings.ToLower(term)
	filtered := make([]models.Employee, 0, len(employees))

	for _, employee := range employees {
		if strings.Contains(strings.ToLower(employee.Name), needle) {
			filtered = append(filtered, employee)
		}
	}

	return filtered
}
