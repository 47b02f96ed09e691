package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/talentdb/matchd/internal/adapters/http/api"
	"github.com/talentdb/matchd/internal/adapters/repository"
	"github.com/talentdb/matchd/internal/domain/model"
	"github.com/talentdb/matchd/internal/domain/scoring"
	"github.com/talentdb/matchd/internal/weights"
	. "github.com/smartystreets/goconvey/convey"
)

// stubDeps implements api.Dependencies over canned data.
type stubDeps struct {
	snap     weights.Snapshot
	entities map[string]model.Entity // keyed tenant + "/" + id

	lastTopK       int
	lastCityFilter bool
	cacheCleared   bool
}

func newStubDeps() *stubDeps {
	return &stubDeps{
		snap:     weights.Defaults(),
		entities: map[string]model.Entity{},
	}
}

func (s *stubDeps) put(e model.Entity) {
	s.entities[e.TenantID+"/"+e.ID] = e
}

func (s *stubDeps) Rank(_ context.Context, tenantID string, kind model.EntityKind, anchorID string, topK int, cityFilter bool) ([]model.MatchResult, error) {
	s.lastTopK = topK
	s.lastCityFilter = cityFilter
	anchor, ok := s.entities[tenantID+"/"+anchorID]
	if !ok || anchor.Kind != kind {
		return nil, repository.ErrNotFound
	}
	return []model.MatchResult{
		{
			AnchorID:         anchorID,
			CounterpartID:    "match-1",
			CounterpartTitle: "backend engineer",
			Score:            0.91239,
			Breakdown: &model.Breakdown{
				SkillScore:   0.9,
				SkillOverlap: []string{"go"},
			},
		},
	}, nil
}

func (s *stubDeps) Explain(_ context.Context, tenantID, anchorID, counterpartID string) (scoring.Explanation, error) {
	if _, ok := s.entities[tenantID+"/"+anchorID]; !ok {
		return scoring.Explanation{}, repository.ErrNotFound
	}
	if _, ok := s.entities[tenantID+"/"+counterpartID]; !ok {
		return scoring.Explanation{}, repository.ErrNotFound
	}
	return scoring.Explanation{CandidateID: anchorID, JobID: counterpartID, Score: 0.5}, nil
}

func (s *stubDeps) UpdateWeights(_ context.Context, u weights.Update) (weights.Snapshot, error) {
	if u.Distance != nil && (*u.Distance < 0 || *u.Distance > 1) {
		return s.snap, weights.ErrInvalidWeights
	}
	if u.Distance != nil {
		s.snap.Distance = *u.Distance
	}
	if u.Title != nil {
		if *u.Title < 0 || *u.Title > 1 {
			return s.snap, weights.ErrInvalidWeights
		}
		s.snap.Title = *u.Title
	}
	s.snap.Version++
	return s.snap, nil
}

func (s *stubDeps) Weights(context.Context) weights.Snapshot { return s.snap }

func (s *stubDeps) ClearCache(context.Context) { s.cacheCleared = true }

func (s *stubDeps) UpsertEntity(_ context.Context, e model.Entity) error {
	s.put(e)
	return nil
}

func (s *stubDeps) GetEntity(_ context.Context, tenantID, id string) (model.Entity, error) {
	e, ok := s.entities[tenantID+"/"+id]
	if !ok {
		return model.Entity{}, repository.ErrNotFound
	}
	return e, nil
}

func (s *stubDeps) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true}
}

func newTestServer(deps *stubDeps) *httptest.Server {
	mux := http.NewServeMux()
	api.NewServer(deps, deps, api.WithMaxTopK(50)).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func doRequest(ts *httptest.Server, method, path, tenant, body string) (*http.Response, map[string]any) {
	var rdr *strings.Reader
	if body == "" {
		rdr = strings.NewReader("")
	} else {
		rdr = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, rdr)
	So(err, ShouldBeNil)
	if tenant != "" {
		req.Header.Set("X-Tenant-ID", tenant)
	}
	resp, err := ts.Client().Do(req)
	So(err, ShouldBeNil)

	var payload map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	resp.Body.Close()
	return resp, payload
}

func TestMatchEndpoints(t *testing.T) {
	Convey("Given a server with one job under tenant acme", t, func() {
		deps := newStubDeps()
		deps.put(model.Entity{ID: "j1", TenantID: "acme", Kind: model.KindJob})
		ts := newTestServer(deps)
		defer ts.Close()

		Convey("When requesting matches without the tenant header", func() {
			resp, payload := doRequest(ts, http.MethodGet, "/match/job/j1", "", "")

			Convey("Then the request is rejected with 401", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusUnauthorized)
				So(payload["code"], ShouldEqual, "missing_tenant")
			})
		})

		Convey("When requesting matches for an existing job", func() {
			resp, payload := doRequest(ts, http.MethodGet, "/match/job/j1", "acme", "")

			Convey("Then the ranked list comes back with rounded scores", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(payload["count"], ShouldEqual, 1)
				matches := payload["matches"].([]any)
				first := matches[0].(map[string]any)
				So(first["candidate_id"], ShouldEqual, "match-1")
				So(first["job_id"], ShouldEqual, "j1")
				So(first["score"], ShouldEqual, 0.9124)
				So(first["distance_km"], ShouldBeNil)
			})

			Convey("Then defaults applied for top_k and city_filter", func() {
				So(deps.lastTopK, ShouldEqual, 10)
				So(deps.lastCityFilter, ShouldBeTrue)
			})
		})

		Convey("When passing explicit query parameters", func() {
			resp, _ := doRequest(ts, http.MethodGet, "/match/job/j1?top_k=25&city_filter=false", "acme", "")

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(deps.lastTopK, ShouldEqual, 25)
			So(deps.lastCityFilter, ShouldBeFalse)
		})

		Convey("When top_k exceeds the cap", func() {
			resp, _ := doRequest(ts, http.MethodGet, "/match/job/j1?top_k=9999", "acme", "")

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(deps.lastTopK, ShouldEqual, 50)
		})

		Convey("When top_k is malformed", func() {
			resp, payload := doRequest(ts, http.MethodGet, "/match/job/j1?top_k=banana", "acme", "")

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			So(payload["code"], ShouldEqual, "bad_request")
		})

		Convey("When the job does not exist", func() {
			resp, payload := doRequest(ts, http.MethodGet, "/match/job/ghost", "acme", "")

			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			So(payload["code"], ShouldEqual, "not_found")
		})

		Convey("When the job belongs to another tenant", func() {
			resp, payload := doRequest(ts, http.MethodGet, "/match/job/j1", "rival", "")

			Convey("Then the response is a plain 404, leaking nothing", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
				So(payload["code"], ShouldEqual, "not_found")
			})
		})
	})
}

func TestExplainEndpoint(t *testing.T) {
	Convey("Given a server with a candidate and a job", t, func() {
		deps := newStubDeps()
		deps.put(model.Entity{ID: "c1", TenantID: "acme", Kind: model.KindCandidate})
		deps.put(model.Entity{ID: "j1", TenantID: "acme", Kind: model.KindJob})
		ts := newTestServer(deps)
		defer ts.Close()

		Convey("When explaining a valid pair", func() {
			resp, payload := doRequest(ts, http.MethodGet, "/match/explain/c1/j1", "acme", "")

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(payload["candidate_id"], ShouldEqual, "c1")
			So(payload["job_id"], ShouldEqual, "j1")
		})

		Convey("When the path misses a segment", func() {
			resp, _ := doRequest(ts, http.MethodGet, "/match/explain/c1", "acme", "")

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When one entity is missing", func() {
			resp, _ := doRequest(ts, http.MethodGet, "/match/explain/c1/ghost", "acme", "")

			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestConfigEndpoints(t *testing.T) {
	Convey("Given a server", t, func() {
		deps := newStubDeps()
		ts := newTestServer(deps)
		defer ts.Close()

		Convey("When reading the current weights", func() {
			resp, payload := doRequest(ts, http.MethodGet, "/config/weights", "acme", "")

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(payload["skill_weight"], ShouldEqual, 0.85)
		})

		Convey("When posting a weight update", func() {
			resp, payload := doRequest(ts, http.MethodPost, "/config/weights", "acme", `{"title_weight":0.3}`)

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(payload["title_weight"], ShouldEqual, 0.3)
		})

		Convey("When posting an out-of-range weight", func() {
			resp, payload := doRequest(ts, http.MethodPost, "/config/distance_weight", "acme", `{"distance_weight":3.5}`)

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			So(payload["code"], ShouldEqual, "invalid_weights")
		})

		Convey("When posting a distance weight", func() {
			resp, payload := doRequest(ts, http.MethodPost, "/config/distance_weight", "acme", `{"distance_weight":0.25}`)

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(payload["distance_weight"], ShouldEqual, 0.25)
		})

		Convey("When posting an empty category update", func() {
			resp, _ := doRequest(ts, http.MethodPost, "/config/category_weights", "acme", `{}`)

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When posting malformed JSON", func() {
			resp, _ := doRequest(ts, http.MethodPost, "/config/weights", "acme", `{nope`)

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestCacheAndEntitiesEndpoints(t *testing.T) {
	Convey("Given a server", t, func() {
		deps := newStubDeps()
		ts := newTestServer(deps)
		defer ts.Close()

		Convey("When clearing the cache", func() {
			resp, payload := doRequest(ts, http.MethodPost, "/cache/clear", "acme", "")

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(payload["status"], ShouldEqual, "cleared")
			So(deps.cacheCleared, ShouldBeTrue)
		})

		Convey("When upserting an entity", func() {
			resp, payload := doRequest(ts, http.MethodPost, "/entities", "acme",
				`{"id":"c1","kind":"candidate","title":"backend engineer","skills":[{"name":"go","category":"must"}]}`)

			Convey("Then the entity lands under the header tenant", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusCreated)
				So(payload["status"], ShouldEqual, "stored")
				e, ok := deps.entities["acme/c1"]
				So(ok, ShouldBeTrue)
				So(e.TenantID, ShouldEqual, "acme")
			})

			Convey("And the upsert timestamp is stamped server-side", func() {
				e := deps.entities["acme/c1"]
				So(e.UpdatedAt.IsZero(), ShouldBeFalse)
			})
		})

		Convey("When upserting without an id", func() {
			resp, payload := doRequest(ts, http.MethodPost, "/entities", "acme", `{"kind":"job"}`)

			Convey("Then an id is generated", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusCreated)
				So(payload["id"], ShouldNotBeEmpty)
			})
		})

		Convey("When upserting an unknown kind", func() {
			resp, payload := doRequest(ts, http.MethodPost, "/entities", "acme", `{"id":"x","kind":"robot"}`)

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			So(payload["code"], ShouldEqual, "invalid_entity")
		})

		Convey("When fetching an entity", func() {
			deps.put(model.Entity{ID: "c9", TenantID: "acme", Kind: model.KindCandidate})

			resp, payload := doRequest(ts, http.MethodGet, "/entities/c9", "acme", "")

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(payload["id"], ShouldEqual, "c9")
		})

		Convey("When fetching across tenants", func() {
			deps.put(model.Entity{ID: "c9", TenantID: "acme", Kind: model.KindCandidate})

			resp, _ := doRequest(ts, http.MethodGet, "/entities/c9", "rival", "")

			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestHealthAndStats(t *testing.T) {
	Convey("Given a server", t, func() {
		deps := newStubDeps()
		ts := newTestServer(deps)
		defer ts.Close()

		Convey("Health serves without a tenant header", func() {
			resp, err := ts.Client().Get(ts.URL + "/healthz")
			So(err, ShouldBeNil)
			resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})

		Convey("Stats serve without a tenant header", func() {
			resp, payload := doRequest(ts, http.MethodGet, "/stats", "", "")

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(payload["started"], ShouldBeTrue)
		})
	})
}
