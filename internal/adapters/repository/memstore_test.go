package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/talentdb/matchd/internal/adapters/repository"
	"github.com/talentdb/matchd/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func seed(tenant, id string, kind model.EntityKind, city string) model.Entity {
	return model.Entity{ID: id, TenantID: tenant, Kind: kind, City: city}
}

func TestMemStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty store", t, func() {
		s := repository.NewMemStore()

		Convey("When upserting a valid entity", func() {
			err := s.Upsert(ctx, seed("acme", "c1", model.KindCandidate, "berlin"))

			Convey("Then it becomes readable under its tenant", func() {
				So(err, ShouldBeNil)
				e, err := s.GetEntity(ctx, "acme", "c1")
				So(err, ShouldBeNil)
				So(e.City, ShouldEqual, "berlin")
			})

			Convey("Then it stays invisible to other tenants", func() {
				_, err := s.GetEntity(ctx, "rival", "c1")
				So(err, ShouldWrap, repository.ErrNotFound)
			})
		})

		Convey("When upserting the same id twice", func() {
			So(s.Upsert(ctx, seed("acme", "c1", model.KindCandidate, "berlin")), ShouldBeNil)
			So(s.Upsert(ctx, seed("acme", "c1", model.KindCandidate, "hamburg")), ShouldBeNil)

			Convey("Then the second write replaces the first", func() {
				e, err := s.GetEntity(ctx, "acme", "c1")
				So(err, ShouldBeNil)
				So(e.City, ShouldEqual, "hamburg")
				So(s.Count(ctx, model.KindCandidate), ShouldEqual, 1)
			})
		})

		Convey("When upserting malformed entities", func() {
			Convey("A missing id is rejected", func() {
				err := s.Upsert(ctx, model.Entity{TenantID: "acme", Kind: model.KindJob})
				So(err, ShouldWrap, repository.ErrInvalidEntity)
			})
			Convey("A missing tenant is rejected", func() {
				err := s.Upsert(ctx, model.Entity{ID: "x", Kind: model.KindJob})
				So(err, ShouldWrap, repository.ErrInvalidEntity)
			})
			Convey("An unknown kind is rejected", func() {
				err := s.Upsert(ctx, model.Entity{ID: "x", TenantID: "acme", Kind: "robot"})
				So(err, ShouldWrap, repository.ErrInvalidEntity)
			})
		})

		Convey("When fetching an unknown id", func() {
			_, err := s.GetEntity(ctx, "acme", "ghost")
			So(err, ShouldWrap, repository.ErrNotFound)
		})
	})

	Convey("Given a store with mixed entities", t, func() {
		s := repository.NewMemStore()
		So(s.Upsert(ctx, seed("acme", "j1", model.KindJob, "berlin")), ShouldBeNil)
		So(s.Upsert(ctx, seed("acme", "j2", model.KindJob, "hamburg")), ShouldBeNil)
		So(s.Upsert(ctx, seed("acme", "c1", model.KindCandidate, "berlin")), ShouldBeNil)
		So(s.Upsert(ctx, seed("acme", "c2", model.KindCandidate, "BERLIN")), ShouldBeNil)
		So(s.Upsert(ctx, seed("rival", "c9", model.KindCandidate, "berlin")), ShouldBeNil)

		Convey("When querying a pool by kind", func() {
			pool, err := s.QueryPool(ctx, "acme", repository.Filter{Kind: model.KindCandidate})

			Convey("Then only that tenant's entities of that kind appear, id-ordered", func() {
				So(err, ShouldBeNil)
				So(pool, ShouldHaveLength, 2)
				So(pool[0].ID, ShouldEqual, "c1")
				So(pool[1].ID, ShouldEqual, "c2")
			})
		})

		Convey("When querying with a city filter", func() {
			pool, err := s.QueryPool(ctx, "acme", repository.Filter{Kind: model.KindCandidate, City: "berlin"})

			Convey("Then the match is case-insensitive", func() {
				So(err, ShouldBeNil)
				So(pool, ShouldHaveLength, 2)
			})
		})

		Convey("When counting", func() {
			So(s.Count(ctx, model.KindJob), ShouldEqual, 2)
			So(s.Count(ctx, model.KindCandidate), ShouldEqual, 3)
		})
	})

	Convey("Given a store with a tight scan limit", t, func() {
		s := repository.NewMemStore(repository.WithScanLimit(3))
		for i := 0; i < 10; i++ {
			So(s.Upsert(ctx, seed("acme", fmt.Sprintf("c%02d", i), model.KindCandidate, "")), ShouldBeNil)
		}

		Convey("When querying without an explicit limit", func() {
			pool, err := s.QueryPool(ctx, "acme", repository.Filter{Kind: model.KindCandidate})

			Convey("Then the scan limit caps the pool", func() {
				So(err, ShouldBeNil)
				So(pool, ShouldHaveLength, 3)
			})
		})

		Convey("When the filter asks for less than the limit", func() {
			pool, err := s.QueryPool(ctx, "acme", repository.Filter{Kind: model.KindCandidate, Limit: 2})

			So(err, ShouldBeNil)
			So(pool, ShouldHaveLength, 2)
		})
	})
}
