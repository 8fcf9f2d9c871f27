package grades

import "fmt"

const (
	NoGradesText = "No grades available"
	NoGPAText    = "No GPA data available"
	MissingGrade = "-"
)

// Table is a rendered grid. When Placeholder is set no table was built and
// the placeholder text is shown in its place.
type Table struct {
	Headers     []string
	Rows        [][]string
	Placeholder string
}

func (t Table) Empty() bool {
	return t.Placeholder != ""
}

func GradesTable(r Result) Table {
	if !r.HasGrades() {
		return Table{Placeholder: NoGradesText}
	}

	headers := make([]string, 0, len(r.Periods)+1)
	headers = append(headers, "Class")
	headers = append(headers, r.Periods...)

	rows := make([][]string, 0, len(r.Classes))
	for _, class := range r.Classes {
		row := make([]string, 0, len(headers))
		row = append(row, class.Name)
		for _, period := range r.Periods {
			if grade, ok := class.Grade(period); ok {
				row = append(row, fmt.Sprintf("%.1f", grade))
			} else {
				row = append(row, MissingGrade)
			}
		}
		rows = append(rows, row)
	}

	return Table{Headers: headers, Rows: rows}
}

// GPATable lists only the periods present in gpas; sparse periods are
// skipped rather than shown with a placeholder.
func GPATable(gpas map[string]float64, periods []string) Table {
	if len(gpas) == 0 {
		return Table{Placeholder: NoGPAText}
	}

	var rows [][]string
	for _, period := range periods {
		gpa, ok := gpas[period]
		if !ok {
			continue
		}
		rows = append(rows, []string{period, fmt.Sprintf("%.2f", gpa)})
	}

	return Table{Headers: []string{"Period", "GPA"}, Rows: rows}
}
