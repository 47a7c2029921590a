package domain

import "fmt"

// Scores are the three 0–10 ratings produced by the vision analysis.
type Scores struct {
	Health     int `json:"health"`
	Fulfilling int `json:"fulfilling"`
	Taste      int `json:"taste"`
}

// Analysis is the structured result of analyzing a food-label image. It is
// ephemeral: it exists only in memory until the user saves it as a Scan.
type Analysis struct {
	ProductName string   `json:"productName"`
	Summary     string   `json:"summary"`
	Pros        []string `json:"pros"`
	Cons        []string `json:"cons"`
	Scores      Scores   `json:"scores"`
}

// Validate enforces the all-or-nothing contract: every score must be an
// integer in [0,10]. A failed analysis is never partially usable.
func (a *Analysis) Validate() error {
	for _, s := range []struct {
		name  string
		value int
	}{
		{"health", a.Scores.Health},
		{"fulfilling", a.Scores.Fulfilling},
		{"taste", a.Scores.Taste},
	} {
		if s.value < 0 || s.value > 10 {
			return fmt.Errorf("score %s out of range: %d", s.name, s.value)
		}
	}
	return nil
}
