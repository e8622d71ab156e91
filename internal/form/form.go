// Package form validates employee drafts coming from the create and edit forms
// and turns them into records ready to be stored.
package form

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/staffbook/internal/models"
)

// Field names used as keys in Errors. They match the JSON names of the record.
const (
	FieldFirstName  = "firstName"
	FieldLastName   = "lastName"
	FieldEmail      = "email"
	FieldPhone      = "phone"
	FieldPosition   = "position"
	FieldDepartment = "department"
	FieldSalary     = "salary"
	FieldHireDate   = "hireDate"
	FieldStatus     = "status"
	FieldStreet     = "street"
	FieldCity       = "city"
	FieldState      = "state"
	FieldZipCode    = "zipCode"
)

// emailPattern matches anything shaped like local@domain.tld.
var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// Errors maps a field name to a human-readable message.
type Errors map[string]string

// Valid reports whether no field was rejected.
func (e Errors) Valid() bool {
	return len(e) == 0
}

// Validate checks every field of draft and reports all violations at once.
// When the returned Errors is empty, the returned employee carries the trimmed
// values and the parsed salary. Its ID is left empty for the caller to assign.
func Validate(draft models.FormDraft) (models.Employee, Errors) {
	errs := make(Errors)

	required := []struct {
		field, value, message string
	}{
		{FieldFirstName, draft.FirstName, "First name is required"},
		{FieldLastName, draft.LastName, "Last name is required"},
		{FieldPhone, draft.Phone, "Phone number is required"},
		{FieldPosition, draft.Position, "Position is required"},
		{FieldDepartment, draft.Department, "Department is required"},
		{FieldHireDate, draft.HireDate, "Hire date is required"},
		{FieldStreet, draft.Street, "Street address is required"},
		{FieldCity, draft.City, "City is required"},
		{FieldState, draft.State, "State is required"},
		{FieldZipCode, draft.ZipCode, "ZIP code is required"},
	}
	for _, rule := range required {
		if strings.TrimSpace(rule.value) == "" {
			errs[rule.field] = rule.message
		}
	}

	email := strings.TrimSpace(draft.Email)
	switch {
	case email == "":
		errs[FieldEmail] = "Email is required"
	case !emailPattern.MatchString(email):
		errs[FieldEmail] = "Email is invalid"
	}

	salary, salaryMsg := parseSalary(draft.Salary)
	if salaryMsg != "" {
		errs[FieldSalary] = salaryMsg
	}

	status, ok := parseStatus(draft.Status)
	if !ok {
		errs[FieldStatus] = "Status must be active or inactive"
	}

	if !errs.Valid() {
		return models.Employee{}, errs
	}

	return models.Employee{
		FirstName:  strings.TrimSpace(draft.FirstName),
		LastName:   strings.TrimSpace(draft.LastName),
		Email:      email,
		Phone:      strings.TrimSpace(draft.Phone),
		Position:   strings.TrimSpace(draft.Position),
		Department: strings.TrimSpace(draft.Department),
		Salary:     salary,
		HireDate:   strings.TrimSpace(draft.HireDate),
		Status:     status,
		Address: models.Address{
			Street:  strings.TrimSpace(draft.Street),
			City:    strings.TrimSpace(draft.City),
			State:   strings.TrimSpace(draft.State),
			ZipCode: strings.TrimSpace(draft.ZipCode),
		},
	}, errs
}

func parseSalary(raw string) (float64, string) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, "Salary is required"
	}

	salary, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(salary) || math.IsInf(salary, 0) || salary <= 0 {
		return 0, "Salary must be a valid positive number"
	}

	return salary, ""
}

func parseStatus(raw string) (models.Status, bool) {
	switch models.Status(strings.TrimSpace(raw)) {
	case "", models.StatusActive:
		return models.StatusActive, true
	case models.StatusInactive:
		return models.StatusInactive, true
	default:
		return "", false
	}
}

// DraftFromEmployee builds the draft an edit form starts from.
func DraftFromEmployee(employee models.Employee) models.FormDraft {
	return models.FormDraft{
		FirstName:  employee.FirstName,
		LastName:   employee.LastName,
		Email:      employee.Email,
		Phone:      employee.Phone,
		Position:   employee.Position,
		Department: employee.Department,
		Salary:     strconv.FormatFloat(employee.Salary, 'f', -1, 64),
		HireDate:   employee.HireDate,
		Status:     string(employee.Status),
		Street:     employee.Address.Street,
		City:       employee.Address.City,
		State:      employee.Address.State,
		ZipCode:    employee.Address.ZipCode,
	}
}
