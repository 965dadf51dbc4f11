package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"blitzlog/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoadDefaults(t *testing.T) {
	Convey("Given no file and no environment overrides", t, func() {
		cfg, err := config.Load(context.Background())
		So(err, ShouldBeNil)

		Convey("Then the defaults apply", func() {
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.Addr, ShouldEqual, ":9090")
			So(cfg.StorePath, ShouldEqual, "blitzlog.db")
			So(cfg.StoreBusyTimeoutMS, ShouldEqual, 5000)
			So(cfg.MetricsEnabled, ShouldBeTrue)
		})
	})
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("BLITZLOG_ADDR", ":7070")
	t.Setenv("BLITZLOG_LOG_LEVEL", "debug")

	Convey("Given environment overrides", t, func() {
		cfg, err := config.Load(context.Background())
		So(err, ShouldBeNil)

		Convey("Then env values win over defaults", func() {
			So(cfg.Addr, ShouldEqual, ":7070")
			So(cfg.LogLevel, ShouldEqual, "debug")
			So(cfg.StorePath, ShouldEqual, "blitzlog.db")
		})
	})
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("addr: \":6060\"\nstore_busy_timeout_ms: 250\n"), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("BLITZLOG_CONFIG", path)

	Convey("Given a YAML config file", t, func() {
		cfg, err := config.Load(context.Background())
		So(err, ShouldBeNil)

		Convey("Then file values override defaults", func() {
			So(cfg.Addr, ShouldEqual, ":6060")
			So(cfg.StoreBusyTimeoutMS, ShouldEqual, 250)
			So(cfg.LogLevel, ShouldEqual, "info")
		})
	})
}

func TestLoadFileWithEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("addr: \":6060\"\nstore_busy_timeout_ms: 250\n"), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("BLITZLOG_CONFIG", path)
	t.Setenv("BLITZLOG_ADDR", ":5050")

	Convey("Given both a file and an env override", t, func() {
		cfg, err := config.Load(context.Background())
		So(err, ShouldBeNil)

		Convey("Then env wins over the file, and the file over defaults", func() {
			So(cfg.Addr, ShouldEqual, ":5050")
			So(cfg.StoreBusyTimeoutMS, ShouldEqual, 250)
		})
	})
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("BLITZLOG_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	Convey("Given a config path that does not exist", t, func() {
		_, err := config.Load(context.Background())

		Convey("Then loading fails", func() {
			So(err, ShouldNotBeNil)
		})
	})
}
