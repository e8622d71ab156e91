package parser

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/UnknownOlympus/staffbook/internal/metrics"
	"github.com/UnknownOlympus/staffbook/internal/models"
)

var ErrNoRosterTable = errors.New("no table with recognizable employee columns")

type setter func(draft *models.FormDraft, value string)

// columns maps a normalized header text to the draft field it fills.
var columns = map[string]setter{ //nolint:gochecknoglobals // lookup table
	"firstname":   func(d *models.FormDraft, v string) { d.FirstName = v },
	"lastname":    func(d *models.FormDraft, v string) { d.LastName = v },
	"name":        splitFullName,
	"fullname":    splitFullName,
	"email":       func(d *models.FormDraft, v string) { d.Email = v },
	"phone":       func(d *models.FormDraft, v string) { d.Phone = v },
	"phonenumber": func(d *models.FormDraft, v string) { d.Phone = v },
	"position":    func(d *models.FormDraft, v string) { d.Position = v },
	"department":  func(d *models.FormDraft, v string) { d.Department = v },
	"salary":      func(d *models.FormDraft, v string) { d.Salary = normalizeSalary(v) },
	"hiredate":    func(d *models.FormDraft, v string) { d.HireDate = v },
	"status":      func(d *models.FormDraft, v string) { d.Status = strings.ToLower(v) },
	"street":      func(d *models.FormDraft, v string) { d.Street = v },
	"address":     func(d *models.FormDraft, v string) { d.Street = v },
	"city":        func(d *models.FormDraft, v string) { d.City = v },
	"state":       func(d *models.FormDraft, v string) { d.State = v },
	"zipcode":     func(d *models.FormDraft, v string) { d.ZipCode = v },
	"zip":         func(d *models.FormDraft, v string) { d.ZipCode = v },
}

type RosterParser struct {
	metrics *metrics.Metrics
}

type RosterParserIface interface {
	ParseRoster(in io.Reader) ([]models.FormDraft, error)
}

func NewRosterParser(metrics *metrics.Metrics) RosterParserIface {
	return &RosterParser{metrics: metrics}
}

// ParseRoster reads the first HTML table whose header row names employee
// fields and returns one draft per body row. Columns with unknown headers are
// skipped. Drafts are returned as found; validation is up to the caller.
func (rp *RosterParser) ParseRoster(in io.Reader) ([]models.FormDraft, error) {
	doc, err := goquery.NewDocumentFromReader(in)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster html: %w", err)
	}

	var (
		table  *goquery.Selection
		layout []column
	)
	doc.Find("table").EachWithBreak(func(_ int, candidate *goquery.Selection) bool {
		found := headerLayout(candidate)
		if len(found) == 0 {
			return true
		}
		table, layout = candidate, found
		return false
	})
	if table == nil {
		return nil, ErrNoRosterTable
	}

	drafts := make([]models.FormDraft, 0)
	ownRows(table).Each(func(_ int, row *goquery.Selection) {
		cells := row.ChildrenFiltered("td")
		if cells.Length() == 0 {
			return
		}

		draft := models.FormDraft{}
		for _, col := range layout {
			if col.index < cells.Length() {
				col.set(&draft, cleanText(cells.Eq(col.index).Text()))
			}
		}

		drafts = append(drafts, draft)
		rp.metrics.ItemsParsed.WithLabelValues("employee").Inc()
	})

	return drafts, nil
}

// column binds a cell position to the field it fills.
type column struct {
	index int
	set   setter
}

// headerLayout returns the recognized columns of table from left to right.
// When two columns fill the same field, the one further right wins.
func headerLayout(table *goquery.Selection) []column {
	var layout []column

	header := ownRows(table).FilterFunction(func(_ int, row *goquery.Selection) bool {
		return row.ChildrenFiltered("th").Length() > 0
	}).First()

	header.ChildrenFiltered("th").Each(func(idx int, cell *goquery.Selection) {
		if set, ok := columns[normalizeHeader(cell.Text())]; ok {
			layout = append(layout, column{index: idx, set: set})
		}
	})

	return layout
}

// ownRows returns the rows of table, leaving out rows of tables nested in its cells.
func ownRows(table *goquery.Selection) *goquery.Selection {
	return table.Find("tr").FilterFunction(func(_ int, row *goquery.Selection) bool {
		return row.Closest("table").IsSelection(table)
	})
}

func normalizeHeader(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func cleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func splitFullName(draft *models.FormDraft, value string) {
	first, last, _ := strings.Cut(value, " ")
	draft.FirstName = first
	draft.LastName = last
}

// normalizeSalary strips currency symbols and thousands separators, so that
// "$85,000" reads as "85000".
func normalizeSalary(value string) string {
	return strings.Map(func(r rune) rune {
		if r == '$' || r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, value)
}
