package cache_test

import (
	"testing"

	"github.com/talentdb/matchd/internal/cache"
	"github.com/talentdb/matchd/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func key(anchor string, version uint64) cache.Key {
	return cache.Key{
		TenantID:   "acme",
		Kind:       model.KindJob,
		AnchorID:   anchor,
		TopK:       10,
		CityFilter: true,
		Version:    version,
	}
}

func TestMatchCache(t *testing.T) {
	Convey("Given a match cache", t, func() {
		c, err := cache.New()
		So(err, ShouldBeNil)

		results := []model.MatchResult{{AnchorID: "j1", CounterpartID: "c1", Score: 0.9}}

		Convey("When storing and fetching under the same key", func() {
			c.Put(key("j1", 1), results)
			got, ok := c.Get(key("j1", 1))

			Convey("Then the cached ranking comes back unchanged", func() {
				So(ok, ShouldBeTrue)
				So(got, ShouldResemble, results)
			})
		})

		Convey("When the weight version moves on", func() {
			c.Put(key("j1", 1), results)
			_, ok := c.Get(key("j1", 2))

			Convey("Then entries under the old version are unreachable", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When any query parameter differs", func() {
			c.Put(key("j1", 1), results)

			k := key("j1", 1)
			k.TopK = 20
			_, okTopK := c.Get(k)

			k = key("j1", 1)
			k.CityFilter = false
			_, okCity := c.Get(k)

			k = key("j1", 1)
			k.TenantID = "rival"
			_, okTenant := c.Get(k)

			Convey("Then the lookup misses", func() {
				So(okTopK, ShouldBeFalse)
				So(okCity, ShouldBeFalse)
				So(okTenant, ShouldBeFalse)
			})
		})

		Convey("When purging", func() {
			c.Put(key("j1", 1), results)
			c.Purge()

			_, ok := c.Get(key("j1", 1))
			So(ok, ShouldBeFalse)
			So(c.Len(), ShouldEqual, 0)
		})
	})

	Convey("Given a cache bounded to two entries", t, func() {
		c, err := cache.New(cache.WithCapacity(2))
		So(err, ShouldBeNil)

		Convey("When a third entry arrives", func() {
			c.Put(key("j1", 1), nil)
			c.Put(key("j2", 1), nil)
			c.Put(key("j3", 1), nil)

			Convey("Then the least recently used entry is evicted", func() {
				So(c.Len(), ShouldEqual, 2)
				_, ok := c.Get(key("j1", 1))
				So(ok, ShouldBeFalse)
				_, ok = c.Get(key("j3", 1))
				So(ok, ShouldBeTrue)
			})
		})

		Convey("When an entry is touched before the overflow", func() {
			c.Put(key("j1", 1), nil)
			c.Put(key("j2", 1), nil)
			c.Get(key("j1", 1))
			c.Put(key("j3", 1), nil)

			Convey("Then recency decides who goes", func() {
				_, ok := c.Get(key("j1", 1))
				So(ok, ShouldBeTrue)
				_, ok = c.Get(key("j2", 1))
				So(ok, ShouldBeFalse)
			})
		})
	})
}
