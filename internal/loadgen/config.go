package loadgen

import "time"

// Config holds configuration for one load run.
type Config struct {
	BaseURL    string        // Base URL of the service
	TenantID   string        // Tenant header sent with every request
	Candidates int           // Number of candidates to seed
	Jobs       int           // Number of jobs to seed
	Rankings   int           // Number of ranking requests to fire
	Explains   int           // Number of explain requests to fire
	TopK       int           // top_k for ranking requests
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	Seed       int64         // Deterministic generation seed
	Verbose    bool          // Enable verbose logging
}

// Stats holds load run statistics.
type Stats struct {
	EntitiesGenerated int
	EntitiesSeeded    int
	EntitiesFailed    int
	RankingsFired     int
	RankingsOK        int
	MatchesReturned   int
	ExplainsFired     int
	ExplainsOK        int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
