// Package types contains common types shared across the application
package types

import "github.com/okian/metaforge/internal/domain/model"

// Issue is the wire shape of one flagged build problem.
type Issue struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Detail   string `json:"detail,omitempty"`
}

// Recommendation is the wire shape of one ranked candidate.
type Recommendation struct {
	Rank       int      `json:"rank"`
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Skill      string   `json:"skill"`
	Ascendancy string   `json:"ascendancy"`
	Class      string   `json:"class"`
	Supports   []string `json:"supports"`
	Source     string   `json:"source"`
	Synergy    float64  `json:"synergy"`
	Innovation float64  `json:"innovation"`
	DPS        int      `json:"dps"`
	Cost       int      `json:"cost"`
	Viability  float64  `json:"viability"`
	Composite  float64  `json:"composite"`
	Issues     []Issue  `json:"issues,omitempty"`
}

// FromCandidate converts a ranked candidate into its wire shape.
// Composite is supplied by the ranker; rank is 1-based.
func FromCandidate(rank int, c *model.Candidate, composite float64) Recommendation {
	supports := make([]string, len(c.Supports))
	for i, s := range c.Supports {
		supports[i] = s.ID
	}

	issues := make([]Issue, 0, len(c.Issues))
	for _, is := range c.Issues {
		issues = append(issues, Issue{
			Severity: string(is.Severity),
			Code:     is.Code,
			Detail:   is.Detail,
		})
	}

	return Recommendation{
		Rank:       rank,
		ID:         c.ID(),
		Name:       c.Name,
		Skill:      c.Skill.ID,
		Ascendancy: c.Ascendancy.ID,
		Class:      c.Class(),
		Supports:   supports,
		Source:     string(c.Source),
		Synergy:    c.Synergy,
		Innovation: c.Innovation,
		DPS:        c.DPS,
		Cost:       c.Cost,
		Viability:  c.Viability,
		Composite:  composite,
		Issues:     issues,
	}
}
