package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/talentdb/matchd/internal/domain/model"
	"github.com/talentdb/matchd/pkg/logger"
)

// Client wraps http.Client with the tenant header and timeout applied to
// every request.
type Client struct {
	client   *http.Client
	baseURL  string
	tenantID string
}

func newClient(config *Config) *Client {
	return &Client{
		client:   &http.Client{Timeout: config.Timeout},
		baseURL:  config.BaseURL,
		tenantID: config.TenantID,
	}
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Tenant-ID", c.tenantID)
	return c.client.Do(req)
}

func (c *Client) post(ctx context.Context, path string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-ID", c.tenantID)
	return c.client.Do(req)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

// seedEntities pushes the generated entities through POST /entities with a
// worker pool.
func seedEntities(ctx context.Context, config *Config, client *Client, entities []model.Entity, stats *Stats) error {
	logger.Get().Info(ctx, "seeding entities",
		logger.Int("count", len(entities)),
		logger.Int("workers", config.Workers),
	)

	var seeded, failed int64

	entityChan := make(chan model.Entity, config.Workers*2)
	var wg sync.WaitGroup
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for e := range entityChan {
				select {
				case <-ctx.Done():
					return
				default:
				}
				resp, err := client.post(ctx, "/entities", e)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					continue
				}
				if resp.StatusCode == http.StatusCreated {
					atomic.AddInt64(&seeded, 1)
				} else {
					atomic.AddInt64(&failed, 1)
				}
				drain(resp)
			}
		}()
	}

	for _, e := range entities {
		select {
		case entityChan <- e:
		case <-ctx.Done():
			close(entityChan)
			wg.Wait()
			return ctx.Err()
		}
	}
	close(entityChan)
	wg.Wait()

	stats.EntitiesSeeded = int(seeded)
	stats.EntitiesFailed = int(failed)
	if failed > 0 {
		logger.Get().Warn(ctx, "some entities failed to seed", logger.Int("failed", int(failed)))
	}
	return nil
}

// matchesEnvelope mirrors the ranking response shape.
type matchesEnvelope struct {
	Count int `json:"count"`
}

// fireRankings issues ranking requests for randomly chosen anchors.
func fireRankings(ctx context.Context, config *Config, client *Client, candidates, jobs []model.Entity, stats *Stats) {
	logger.Get().Info(ctx, "firing ranking requests", logger.Int("count", config.Rankings))

	var fired, ok, matches int64

	type rankTarget struct{ path string }
	targets := make(chan rankTarget, config.Workers*2)

	var wg sync.WaitGroup
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range targets {
				select {
				case <-ctx.Done():
					return
				default:
				}
				atomic.AddInt64(&fired, 1)
				resp, err := client.get(ctx, t.path)
				if err != nil {
					continue
				}
				if resp.StatusCode == http.StatusOK {
					var env matchesEnvelope
					if body, rerr := io.ReadAll(resp.Body); rerr == nil && json.Unmarshal(body, &env) == nil {
						atomic.AddInt64(&matches, int64(env.Count))
						atomic.AddInt64(&ok, 1)
					}
				}
				drain(resp)
			}
		}()
	}

	for i := 0; i < config.Rankings; i++ {
		var path string
		if i%2 == 0 && len(jobs) > 0 {
			path = fmt.Sprintf("/match/job/%s?top_k=%d", jobs[i%len(jobs)].ID, config.TopK)
		} else if len(candidates) > 0 {
			path = fmt.Sprintf("/match/candidate/%s?top_k=%d", candidates[i%len(candidates)].ID, config.TopK)
		} else {
			continue
		}
		select {
		case targets <- rankTarget{path: path}:
		case <-ctx.Done():
			close(targets)
			wg.Wait()
			return
		}
	}
	close(targets)
	wg.Wait()

	stats.RankingsFired = int(fired)
	stats.RankingsOK = int(ok)
	stats.MatchesReturned = int(matches)
}

// fireExplains issues explain requests across random candidate/job pairs.
func fireExplains(ctx context.Context, config *Config, client *Client, candidates, jobs []model.Entity, stats *Stats) {
	if len(candidates) == 0 || len(jobs) == 0 {
		return
	}
	logger.Get().Info(ctx, "firing explain requests", logger.Int("count", config.Explains))

	var fired, ok int64
	for i := 0; i < config.Explains; i++ {
		select {
		case <-ctx.Done():
			break
		default:
		}
		c := candidates[i%len(candidates)]
		j := jobs[(i*7)%len(jobs)]
		fired++
		resp, err := client.get(ctx, fmt.Sprintf("/match/explain/%s/%s", c.ID, j.ID))
		if err != nil {
			continue
		}
		if resp.StatusCode == http.StatusOK {
			ok++
		}
		drain(resp)
	}

	stats.ExplainsFired = int(fired)
	stats.ExplainsOK = int(ok)
}

// checkServiceHealth verifies the service answers before load starts.
func checkServiceHealth(ctx context.Context, client *Client) error {
	healthCheckCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	resp, err := client.get(healthCheckCtx, "/healthz")
	if err != nil {
		return fmt.Errorf("service unreachable: %w", err)
	}
	drain(resp)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected health status: %d", resp.StatusCode)
	}
	return nil
}
