package grades

// ClassGrades holds one class row of the gradebook. Periods without a grade
// have no key in Grades.
type ClassGrades struct {
	Name   string
	Grades map[string]float64
}

// Result is the payload returned by the calculate endpoint. Periods is the
// canonical display and chart order; a period missing from Unweighted or
// Weighted has not been computed yet and is not zero.
type Result struct {
	Periods    []string
	Classes    []ClassGrades
	Unweighted map[string]float64
	Weighted   map[string]float64
}

func (r Result) HasGrades() bool {
	return len(r.Classes) > 0
}

func (c ClassGrades) Grade(period string) (float64, bool) {
	grade, ok := c.Grades[period]
	return grade, ok
}
