package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/talentdb/matchd/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoadDefaults(t *testing.T) {
	Convey("Given no file and no environment overrides", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then defaults apply", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":8080")
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.CacheSize, ShouldEqual, 1024)
			So(cfg.PoolScanLimit, ShouldEqual, 1000)
			So(cfg.MaxTopK, ShouldEqual, 100)
			So(cfg.Weights.Skill, ShouldEqual, 0.85)
			So(cfg.Weights.MustCategory, ShouldEqual, 0.7)
			So(cfg.Weights.MinSkillFloor, ShouldEqual, 3)
		})
	})
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MATCHD_ADDR", ":9999")
	t.Setenv("MATCHD_CACHE_SIZE", "64")
	t.Setenv("MATCHD_WEIGHT_DISTANCE", "0.2")
	t.Setenv("MATCHD_LOG_LEVEL", "debug")

	Convey("Given environment overrides", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then env values win over defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":9999")
			So(cfg.CacheSize, ShouldEqual, 64)
			So(cfg.Weights.Distance, ShouldEqual, 0.2)
			So(cfg.LogLevel, ShouldEqual, "debug")

			Convey("And untouched fields keep their defaults", func() {
				So(cfg.MaxTopK, ShouldEqual, 100)
				So(cfg.Weights.Skill, ShouldEqual, 0.85)
			})
		})
	})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "matchd.yaml")
	yaml := []byte("addr: \":7070\"\nworker_count: 3\nweight_title: 0.4\n")
	if err := os.WriteFile(path, yaml, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MATCHD_CONFIG", path)

	Convey("Given a YAML config file", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then the file layers over defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":7070")
			So(cfg.WorkerCount, ShouldEqual, 3)
			So(cfg.Weights.Title, ShouldEqual, 0.4)
		})
	})

	Convey("Given an env var on top of the file", t, func() {
		t.Setenv("MATCHD_ADDR", ":6060")
		cfg, err := config.Load(context.Background())

		Convey("Then env beats file", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":6060")
		})
	})
}

func TestLoadValidation(t *testing.T) {
	t.Setenv("MATCHD_CACHE_SIZE", "0")

	Convey("Given an invalid cache size", t, func() {
		_, err := config.Load(context.Background())

		So(err, ShouldWrap, config.ErrInvalidConfig)
	})
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("MATCHD_CONFIG", "/nonexistent/matchd.yaml")

	Convey("Given a config path that does not exist", t, func() {
		_, err := config.Load(context.Background())

		So(err, ShouldWrap, config.ErrLoadConfig)
	})
}
