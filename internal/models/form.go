package models

// Image is an uploaded employee photo.
type Image struct {
	Filename string
	Content  []byte
}

// EmployeeForm mirrors the editable fields of an Employee being created or edited.
type EmployeeForm struct {
	Name       string `form:"name"`
	Phone      string `form:"phone"`
	Position   string `form:"position"`
	DivisionID ID     `form:"division_id"`
	Image      *Image `form:"-"`
}

// FormFromEmployee fills a form with the current values of an employee.
func FormFromEmployee(employee Employee) EmployeeForm {
	return EmployeeForm{
		Name:       employee.Name,
		Phone:      employee.Phone,
		Position:   employee.Position,
		DivisionID: employee.Division.ID,
	}
}
