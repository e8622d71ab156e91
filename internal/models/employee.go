package models

// Status is the employment status of an employee.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// HireDateLayout is the layout hire dates are stored in.
const HireDateLayout = "2006-01-02"

// Address holds the postal address of an employee.
type Address struct {
	Street  string `json:"street"  yaml:"street"`
	City    string `json:"city"    yaml:"city"`
	State   string `json:"state"   yaml:"state"`
	ZipCode string `json:"zipCode" yaml:"zipCode"`
}

// Employee represents a committed employee record.
type Employee struct {
	ID         string  `json:"id"         yaml:"id"`
	FirstName  string  `json:"firstName"  yaml:"firstName"`
	LastName   string  `json:"lastName"   yaml:"lastName"`
	Email      string  `json:"email"      yaml:"email"`
	Phone      string  `json:"phone"      yaml:"phone"`
	Position   string  `json:"position"   yaml:"position"`
	Department string  `json:"department" yaml:"department"`
	Salary     float64 `json:"salary"     yaml:"salary"`
	HireDate   string  `json:"hireDate"   yaml:"hireDate"`
	Status     Status  `json:"status"     yaml:"status"`
	Address    Address `json:"address"    yaml:"address"`
}

// FullName returns the first and last name joined by a space.
func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// FormDraft is the unvalidated, all-string form of an employee used while it is
// being created or edited.
type FormDraft struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Position   string `json:"position"`
	Department string `json:"department"`
	Salary     string `json:"salary"`
	HireDate   string `json:"hireDate"`
	Status     string `json:"status"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	ZipCode    string `json:"zipCode"`
}

// Stats holds the aggregate figures shown on the dashboard.
type Stats struct {
	Total            int            `json:"total"`
	Active           int            `json:"active"`
	Departments      int            `json:"departments"`
	AverageSalary    int64          `json:"averageSalary"`
	ActivePercent    int            `json:"activePercent"`
	DepartmentCounts map[string]int `json:"departmentCounts"`
}
