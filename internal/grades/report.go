package grades

// Report is everything the results view shows for one payload.
type Report struct {
	Periods           []string
	Grades            Table
	Unweighted        Table
	Weighted          Table
	CurrentPeriod     string
	CurrentUnweighted float64
	CurrentWeighted   float64
	Chart             Chart
}

func Build(r Result) Report {
	period, unweighted, weighted := CurrentGPA(r)
	return Report{
		Periods:           r.Periods,
		Grades:            GradesTable(r),
		Unweighted:        GPATable(r.Unweighted, r.Periods),
		Weighted:          GPATable(r.Weighted, r.Periods),
		CurrentPeriod:     period,
		CurrentUnweighted: unweighted,
		CurrentWeighted:   weighted,
		Chart:             BuildChart(r),
	}
}
