package classify

// Markers holds the fixed substring tables driving the heuristic classifiers.
// Instances are immutable configuration: build one with DefaultMarkers (or a
// test substitute) and inject it, never mutate it afterwards.
type Markers struct {
	// Program phrases flag proceedings/program boilerplate in filenames and
	// front-matter text.
	Program []string

	// Institution substrings mark affiliation lines.
	Institution []string

	// Footer substrings mark running journal/rights boilerplate.
	Footer []string
}

// DefaultMarkers returns the production marker tables.
func DefaultMarkers() Markers {
	return Markers{
		Program: []string{
			"annual meeting",
			"program and abstracts",
			"program abstracts",
			"poster sessions",
			"poster presentations",
		},
		Institution: []string{
			"university",
			"hospital",
			"medical center",
			"school of medicine",
			"clinic",
			"department",
			"institute",
			"center",
			"centre",
			"usa",
			"canada",
			"united kingdom",
			"australia",
			"japan",
			"italy",
			"france",
			"germany",
			"korea",
		},
		Footer: []string{
			"annals of neurology",
			"downloaded from https://",
			"terms and conditions",
			"program and abstracts",
		},
	}
}
