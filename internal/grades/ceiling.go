package grades

import "strings"

const (
	APPoints      = 8.0
	APAPoints     = 7.0
	RegularPoints = 6.0

	IndependentStudyTech = "Ind Study Tech Applications"
)

// PointRule scores a class name. Rules are evaluated in order and the
// first match wins.
type PointRule struct {
	Name   string
	Match  func(className string) bool
	Points float64
}

var CeilingRules = []PointRule{
	{
		Name: "AP",
		Match: func(n string) bool {
			return strings.Contains(n, "AP") && !strings.Contains(n, "APA")
		},
		Points: APPoints,
	},
	{
		Name: "Independent Study",
		Match: func(n string) bool {
			return strings.Contains(n, IndependentStudyTech)
		},
		Points: APPoints,
	},
	{
		Name: "APA",
		Match: func(n string) bool {
			return strings.Contains(n, "APA")
		},
		Points: APAPoints,
	},
}

func ClassPoints(className string) float64 {
	return classPoints(CeilingRules, className)
}

func classPoints(rules []PointRule, className string) float64 {
	for _, rule := range rules {
		if rule.Match(className) {
			return rule.Points
		}
	}
	return RegularPoints
}

// Ceiling is the highest GPA reachable with the student's course load: the
// mean of ClassPoints over every class. It reports false when there are no
// classes to average.
func Ceiling(r Result) (float64, bool) {
	if len(r.Classes) == 0 {
		return 0, false
	}

	var sum float64
	for _, class := range r.Classes {
		sum += ClassPoints(class.Name)
	}
	return sum / float64(len(r.Classes)), true
}
