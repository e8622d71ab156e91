// Package query derives filtered lists and dashboard figures from a snapshot
// of the employee collection. Nothing here touches storage.
package query

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/UnknownOlympus/staffbook/internal/models"
)

// DefaultRecentHires is the number of employees shown in the recent hires view.
const DefaultRecentHires = 5

// Departments lists the departments an employee can be assigned to from the form.
var Departments = []string{ //nolint:gochecknoglobals // fixed option list
	"Engineering", "Product", "Design", "Marketing", "Sales",
	"HR", "Finance", "Operations", "Customer Success",
}

// Criteria narrows down a list of employees. Zero-valued fields match everything.
type Criteria struct {
	Search     string
	Department string
	Status     models.Status
}

// Filter returns the employees matching every criterion, in their original order.
func Filter(employees []models.Employee, criteria Criteria) []models.Employee {
	term := strings.ToLower(criteria.Search)
	filtered := make([]models.Employee, 0, len(employees))

	for _, employee := range employees {
		if !matchesSearch(employee, term) {
			continue
		}
		if criteria.Department != "" && employee.Department != criteria.Department {
			continue
		}
		if criteria.Status != "" && employee.Status != criteria.Status {
			continue
		}
		filtered = append(filtered, employee)
	}

	return filtered
}

func matchesSearch(employee models.Employee, term string) bool {
	if term == "" {
		return true
	}

	for _, field := range []string{employee.FirstName, employee.LastName, employee.Email, employee.Position} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}

	return false
}

// ComputeStats aggregates the dashboard figures.
func ComputeStats(employees []models.Employee) models.Stats {
	stats := models.Stats{
		Total:            len(employees),
		DepartmentCounts: make(map[string]int),
	}

	var salaries float64
	for _, employee := range employees {
		if employee.Status == models.StatusActive {
			stats.Active++
		}
		stats.DepartmentCounts[employee.Department]++
		salaries += employee.Salary
	}

	stats.Departments = len(stats.DepartmentCounts)

	if stats.Total > 0 {
		stats.AverageSalary = int64(math.Round(salaries / float64(stats.Total)))
		stats.ActivePercent = int(math.Round(float64(stats.Active) / float64(stats.Total) * 100))
	}

	return stats
}

// RecentHires returns at most limit employees ordered by hire date, newest
// first. Equal dates are ordered by id. Hire dates that cannot be parsed sort
// after all valid ones. A non-positive limit selects DefaultRecentHires.
func RecentHires(employees []models.Employee, limit int) []models.Employee {
	if limit <= 0 {
		limit = DefaultRecentHires
	}

	type dated struct {
		employee models.Employee
		hired    time.Time
		valid    bool
	}

	sorted := make([]dated, 0, len(employees))
	for _, employee := range employees {
		hired, err := time.Parse(models.HireDateLayout, employee.HireDate)
		sorted = append(sorted, dated{employee: employee, hired: hired, valid: err == nil})
	}

	slices.SortFunc(sorted, func(a, b dated) int {
		if a.valid != b.valid {
			if a.valid {
				return -1
			}
			return 1
		}
		if c := b.hired.Compare(a.hired); c != 0 {
			return c
		}
		return cmp.Compare(a.employee.ID, b.employee.ID)
	})

	result := make([]models.Employee, 0, min(limit, len(sorted)))
	for _, d := range sorted[:min(limit, len(sorted))] {
		result = append(result, d.employee)
	}

	return result
}
