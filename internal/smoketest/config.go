package smoketest

import "time"

// Config holds configuration for the recommendation smoke test
type Config struct {
	BaseURL     string        // Base URL of the service
	NumRequests int           // Number of recommendation requests to generate
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	OutputFile  string        // Output file for request/response pairs
	LogFile     string        // Log file for test output
	Seed        int64         // Seed for request generation
	Classes     []string      // Class names to mix into preferred_class
	Verbose     bool          // Enable verbose logging
}

// Request mirrors the POST /recommend request body
type Request struct {
	PreferredClass  string `json:"preferred_class,omitempty"`
	BudgetLimit     int    `json:"budget_limit,omitempty"`
	MinDPS          int    `json:"min_dps,omitempty"`
	MaxSupportCount int    `json:"max_support_count,omitempty"`
	InnovationLevel string `json:"innovation_level,omitempty"`
	ResultCount     int    `json:"result_count"`
	Seed            int64  `json:"seed,omitempty"`
}

// Recommendation mirrors one ranked entry in the response
type Recommendation struct {
	Rank       int      `json:"rank"`
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Skill      string   `json:"skill"`
	Ascendancy string   `json:"ascendancy"`
	Class      string   `json:"class"`
	Supports   []string `json:"supports"`
	Source     string   `json:"source"`
	DPS        int      `json:"dps"`
	Cost       int      `json:"cost"`
	Viability  float64  `json:"viability"`
	Composite  float64  `json:"composite"`
}

// Response mirrors the POST /recommend response body
type Response struct {
	Recommendations []Recommendation `json:"recommendations"`
	Shortfall       bool             `json:"shortfall,omitempty"`
	Seed            int64            `json:"seed"`
}

// CatalogSummary mirrors GET /catalog
type CatalogSummary struct {
	Skills       []string `json:"skills"`
	Supports     []string `json:"supports"`
	Ascendancies []string `json:"ascendancies"`
}

// Outcome pairs a request with the response it produced
type Outcome struct {
	Request  Request   `json:"request"`
	Response *Response `json:"response,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// Stats holds test statistics
type Stats struct {
	RequestsGenerated  int
	RequestsSubmitted  int
	RequestsSuccessful int
	RequestsRejected   int
	RequestsFailed     int
	Shortfalls         int
	InvariantFailures  int
	ReplayChecks       int
	ReplayFailures     int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
