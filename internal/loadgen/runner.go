package loadgen

import (
	"context"
	"fmt"
	"time"

	"github.com/talentdb/matchd/internal/domain/model"
	"github.com/talentdb/matchd/pkg/logger"
)

// Run executes one complete load cycle: health check, seed, rank, explain.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting matchd load run",
		logger.String("baseURL", config.BaseURL),
		logger.String("tenant", config.TenantID),
		logger.Int("candidates", config.Candidates),
		logger.Int("jobs", config.Jobs),
		logger.Int("rankings", config.Rankings),
		logger.Int("explains", config.Explains),
		logger.Int("workers", config.Workers),
	)

	client := newClient(config)

	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	candidates, jobs := generateEntities(ctx, config, stats)

	all := make([]model.Entity, 0, len(candidates)+len(jobs))
	all = append(all, candidates...)
	all = append(all, jobs...)
	if err := seedEntities(ctx, config, client, all, stats); err != nil {
		return stats, fmt.Errorf("entity seeding failed: %w", err)
	}

	fireRankings(ctx, config, client, candidates, jobs, stats)
	fireExplains(ctx, config, client, candidates, jobs, stats)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	logger.Get().Info(ctx, "load run complete",
		logger.Int("seeded", stats.EntitiesSeeded),
		logger.Int("seedFailures", stats.EntitiesFailed),
		logger.Int("rankingsOK", stats.RankingsOK),
		logger.Int("matchesReturned", stats.MatchesReturned),
		logger.Int("explainsOK", stats.ExplainsOK),
		logger.String("duration", stats.Duration.String()),
	)
	return stats, nil
}
