package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/pssemu/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoad_Defaults(t *testing.T) {
	Convey("Given a clean environment", t, func() {
		t.Setenv("PSS_CONFIG", "")

		Convey("Load returns the defaults", func() {
			cfg, err := config.Load(context.Background())
			So(err, ShouldBeNil)
			So(cfg.Host, ShouldEqual, "127.0.0.1")
			So(cfg.Port, ShouldEqual, 6000)
			So(cfg.Mode, ShouldEqual, "scenario")
			So(cfg.Scenario, ShouldEqual, "quick-test")
			So(cfg.BatchDelayMS, ShouldEqual, 100)
			So(cfg.ClockIntervalMS, ShouldEqual, 1000)
			So(cfg.LogLevel, ShouldEqual, "info")
		})
	})
}

func TestLoad_EnvOverrides(t *testing.T) {
	Convey("Given PSS_ environment overrides", t, func() {
		t.Setenv("PSS_CONFIG", "")
		t.Setenv("PSS_HOST", "10.0.0.5")
		t.Setenv("PSS_PORT", "8888")
		t.Setenv("PSS_MODE", "random")
		t.Setenv("PSS_BATCH_DELAY_MS", "25")

		Convey("Environment wins over defaults", func() {
			cfg, err := config.Load(context.Background())
			So(err, ShouldBeNil)
			So(cfg.Host, ShouldEqual, "10.0.0.5")
			So(cfg.Port, ShouldEqual, 8888)
			So(cfg.Mode, ShouldEqual, "random")
			So(cfg.BatchDelayMS, ShouldEqual, 25)
			// Untouched keys keep their defaults.
			So(cfg.Scenario, ShouldEqual, "quick-test")
		})
	})
}

func TestLoad_File(t *testing.T) {
	Convey("Given a YAML config file", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "pss.yaml")
		yaml := "host: 192.168.1.20\nport: 7000\nscenario: championship\n"
		So(os.WriteFile(path, []byte(yaml), 0o600), ShouldBeNil)
		t.Setenv("PSS_CONFIG", path)

		Convey("File values layer over defaults", func() {
			cfg, err := config.Load(context.Background())
			So(err, ShouldBeNil)
			So(cfg.Host, ShouldEqual, "192.168.1.20")
			So(cfg.Port, ShouldEqual, 7000)
			So(cfg.Scenario, ShouldEqual, "championship")
		})

		Convey("Environment still wins over the file", func() {
			t.Setenv("PSS_PORT", "7500")
			cfg, err := config.Load(context.Background())
			So(err, ShouldBeNil)
			So(cfg.Host, ShouldEqual, "192.168.1.20")
			So(cfg.Port, ShouldEqual, 7500)
		})
	})
}

func TestLoad_Validation(t *testing.T) {
	Convey("Given invalid settings", t, func() {
		t.Setenv("PSS_CONFIG", "")

		Convey("An out-of-range port is rejected", func() {
			t.Setenv("PSS_PORT", "70000")
			_, err := config.Load(context.Background())
			So(err, ShouldNotBeNil)
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("A missing config file is reported as a load error", func() {
			t.Setenv("PSS_CONFIG", "/nonexistent/pss.yaml")
			_, err := config.Load(context.Background())
			So(err, ShouldNotBeNil)
			So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
		})
	})
}
