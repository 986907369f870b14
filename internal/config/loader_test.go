package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/aigi/internal/config"
	"github.com/okian/aigi/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.EpochID, convey.ShouldEqual, "2026-04")
				convey.So(cfg.Weights.Intelligence["arena"], convey.ShouldEqual, 0.30)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("AIGI_ADDR", ":8080")
			_ = os.Setenv("AIGI_EPOCH_ID", "2026-05")
			_ = os.Setenv("AIGI_SNAPSHOT_TIMESTAMP", "2026-05-01T00:00:00.000000Z")
			_ = os.Setenv("AIGI_PREVIOUS_FROM_CURRENT", "true")
			_ = os.Setenv("AIGI_MAX_LEADERBOARD_LIMIT", "25")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.EpochID, convey.ShouldEqual, "2026-05")
				convey.So(cfg.SnapshotTimestamp, convey.ShouldEqual, "2026-05-01T00:00:00.000000Z")
				convey.So(cfg.PreviousFromCurrent, convey.ShouldBeTrue)
				convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 25)
			})
		})

		convey.Convey("When a weight table is given through env", func() {
			_ = os.Setenv("AIGI_WEIGHTS__TIER__A", "0.6")
			_ = os.Setenv("AIGI_WEIGHTS__TIER__B", "0.3")
			_ = os.Setenv("AIGI_WEIGHTS__TIER__C", "0.1")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it replaces the default table", func() {
				convey.So(err, convey.ShouldBeNil)
				w, err := cfg.ScoringWeights()
				convey.So(err, convey.ShouldBeNil)
				convey.So(w.Tier(model.TierA), convey.ShouldEqual, 0.6)
				convey.So(w.Tier(model.TierC), convey.ShouldEqual, 0.1)
				convey.So(w.Pillar(model.Adoption), convey.ShouldEqual, 0.3)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
epoch_id: "2026-06"
feeds_dir: "/var/lib/aigi/feeds"
archive_raw_feeds: false
weights:
  model_score:
    intelligence: 0.6
    adoption: 0.2
    momentum: 0.2
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("AIGI_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.EpochID, convey.ShouldEqual, "2026-06")
				convey.So(cfg.FeedsDir, convey.ShouldEqual, "/var/lib/aigi/feeds")
				convey.So(cfg.ArchiveRawFeeds, convey.ShouldBeFalse)
				convey.So(cfg.Weights.ModelScore["intelligence"], convey.ShouldEqual, 0.6)
				convey.So(cfg.Weights.Tier["A"], convey.ShouldEqual, 0.5)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
epoch_id: "2026-06"
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("AIGI_CONFIG", tmpFile)
			_ = os.Setenv("AIGI_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.EpochID, convey.ShouldEqual, "2026-06")
			})
		})

		convey.Convey("When the YAML file has invalid weights", func() {
			tmpFile := createTempConfigFile(`
weights:
  tier:
    A: 0.5
    B: 0.5
    C: 0.5
`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("AIGI_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then loading is rejected", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("AIGI_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("AIGI_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("AIGI_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("AIGI_MAX_LEADERBOARD_LIMIT", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"AIGI_CONFIG",
		"AIGI_ADDR",
		"AIGI_EPOCH_ID",
		"AIGI_SNAPSHOT_TIMESTAMP",
		"AIGI_PREVIOUS_FROM_CURRENT",
		"AIGI_MAX_LEADERBOARD_LIMIT",
		"AIGI_WEIGHTS__TIER__A",
		"AIGI_WEIGHTS__TIER__B",
		"AIGI_WEIGHTS__TIER__C",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "aigi-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
