package model

import (
	"strings"

	"github.com/google/uuid"
)

// Support count bounds; hold at every pipeline stage.
const (
	MinSupports = 3
	MaxSupports = 6
)

// Namespace for deterministic candidate IDs (UUIDv5 of the build fingerprint).
var candidateNamespace = uuid.MustParse("7f1a6e2c-9b3d-4c41-8f5a-2d6e0b9c1a34") //nolint:gochecknoglobals // fixed namespace constant

// Source identifies which generator produced a candidate.
type Source string

// Candidate origins.
const (
	SourceHeuristic Source = "heuristic"
	SourceFormula   Source = "formula"
	SourceCurated   Source = "curated"
)

// State is a candidate's position in the filter & repair lifecycle.
type State string

// Lifecycle states. Rejected and Accepted are terminal.
const (
	StateUnscored State = "unscored"
	StateScored   State = "scored"
	StateRepaired State = "repaired"
	StateRescored State = "rescored"
	StateRejected State = "rejected"
	StateAccepted State = "accepted"
)

// Severity classifies a build issue.
type Severity string

// Issue severities.
const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityMinor    Severity = "minor"
)

// Issue describes one problem found during filtering.
type Issue struct {
	Severity Severity
	Code     string
	Detail   string
}

// Candidate is one concrete skill + ascendancy + support-set combination
// under evaluation. It is owned by exactly one worker at a time and never
// outlives the request that produced it.
type Candidate struct {
	Skill      *SkillDefinition
	Ascendancy *AscendancyDefinition
	Supports   []*SupportDefinition // ordered, MinSupports..MaxSupports

	Source Source
	Seq    int // generation order within the request, used as the final tie-break

	State    State
	Repaired bool

	// Derived scores. Issues always reflect the latest scoring pass.
	Synergy    float64 // >= 0, clamped at 3.0 by the scorer
	Innovation float64 // 0..1
	DPS        int     // >= 0
	Cost       int     // >= 0
	Viability  float64 // 0..10
	Issues     []Issue

	// Presentation fields.
	Name string
}

// Fingerprint returns a stable identity for the build: skill, ascendancy,
// and the ordered support sequence.
func (c *Candidate) Fingerprint() string {
	var b strings.Builder
	b.WriteString(c.Skill.ID)
	b.WriteByte('|')
	b.WriteString(c.Ascendancy.ID)
	for _, s := range c.Supports {
		b.WriteByte('|')
		b.WriteString(s.ID)
	}
	return b.String()
}

// ID returns the deterministic candidate identifier derived from the fingerprint.
func (c *Candidate) ID() string {
	return uuid.NewSHA1(candidateNamespace, []byte(c.Fingerprint())).String()
}

// Class reports the candidate's class, fixed by the ascendancy's owner.
func (c *Candidate) Class() string {
	return c.Ascendancy.Class
}

// Popularity blends the historical usage of all chosen parts into one 0..1
// fraction: skill, ascendancy, and the mean of the supports, equally weighted.
func (c *Candidate) Popularity() float64 {
	supportMean := 0.0
	if len(c.Supports) > 0 {
		for _, s := range c.Supports {
			supportMean += s.Usage
		}
		supportMean /= float64(len(c.Supports))
	}
	return (c.Skill.Usage + c.Ascendancy.Usage + supportMean) / 3
}

// HasCritical reports whether any unresolved critical issue is present.
func (c *Candidate) HasCritical() bool {
	for _, is := range c.Issues {
		if is.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

// IssuesBySeverity counts issues of the given severity.
func (c *Candidate) IssuesBySeverity(sev Severity) int {
	n := 0
	for _, is := range c.Issues {
		if is.Severity == sev {
			n++
		}
	}
	return n
}

// Terminal reports whether the candidate reached a terminal lifecycle state.
func (c *Candidate) Terminal() bool {
	return c.State == StateRejected || c.State == StateAccepted
}
