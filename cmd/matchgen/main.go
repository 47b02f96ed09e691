package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/talentdb/matchd/internal/loadgen"
	"github.com/talentdb/matchd/pkg/logger"
)

// Default configuration constants.
const (
	defaultCandidates = 500
	defaultJobs       = 200
	defaultRankings   = 1000
	defaultExplains   = 200
	defaultTopK       = 10
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
	defaultSeed       = 42
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:8080", "Base URL of the service")
		tenant     = flag.String("tenant", "loadgen", "Tenant id sent with every request")
		candidates = flag.Int("candidates", defaultCandidates, "Number of candidates to seed")
		jobs       = flag.Int("jobs", defaultJobs, "Number of jobs to seed")
		rankings   = flag.Int("rankings", defaultRankings, "Number of ranking requests to fire")
		explains   = flag.Int("explains", defaultExplains, "Number of explain requests to fire")
		topK       = flag.Int("top", defaultTopK, "top_k for ranking requests")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		seed       = flag.Int64("seed", defaultSeed, "Deterministic generation seed")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &loadgen.Config{
		BaseURL:    *baseURL,
		TenantID:   *tenant,
		Candidates: *candidates,
		Jobs:       *jobs,
		Rankings:   *rankings,
		Explains:   *explains,
		TopK:       *topK,
		Workers:    *workers,
		Timeout:    *timeout,
		Seed:       *seed,
		Verbose:    *verbose,
	}

	if _, err := loadgen.Run(ctx, config); err != nil {
		os.Stderr.WriteString("load run failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
