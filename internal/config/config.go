// Package config defines engine configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a YAML file and AIGI_* environment variables on top.
// - Validate before use; weight tables are checked once, here.
package config

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/okian/aigi/internal/domain/scoring"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address of `aigi serve`, e.g. ":9080".
	Addr string `koanf:"addr"`

	// EpochID labels the scoring period, e.g. "2026-04".
	EpochID string `koanf:"epoch_id"`

	// SnapshotTimestamp overrides the generated snapshot timestamp.
	SnapshotTimestamp string `koanf:"snapshot_timestamp"`

	// RegistryPath is the model registry document (.json, .yaml, .yml).
	RegistryPath string `koanf:"registry_path"`

	// FeedsDir holds one <metric>.json or prev_<metric>.json per feed.
	FeedsDir string `koanf:"feeds_dir"`

	// SnapshotDir receives published snapshots and their digests.
	SnapshotDir string `koanf:"snapshot_dir"`

	// RawArchiveDir receives compressed copies of each run's feeds.
	RawArchiveDir string `koanf:"raw_archive_dir"`

	// ArchiveRawFeeds toggles the raw feed archive.
	ArchiveRawFeeds bool `koanf:"archive_raw_feeds"`

	// CatalogPath is the sqlite snapshot index. Empty disables it.
	CatalogPath string `koanf:"catalog_path"`

	// PreviousFromCurrent fills missing previous-epoch values with current ones.
	PreviousFromCurrent bool `koanf:"previous_from_current"`

	// RedistributeMissing renormalizes pillar and model weights over present inputs.
	RedistributeMissing bool `koanf:"redistribute_missing"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// Weights holds the five scoring weight tables.
	Weights WeightsConfig `koanf:"weights"`
}

// WeightsConfig is the configuration form of the weight tables.
type WeightsConfig struct {
	Intelligence map[string]float64 `koanf:"intelligence"`
	Adoption     map[string]float64 `koanf:"adoption"`
	Momentum     map[string]float64 `koanf:"momentum"`
	Tier         map[string]float64 `koanf:"tier"`
	ModelScore   map[string]float64 `koanf:"model_score"`
}

func (w *WeightsConfig) fillFrom(d WeightsConfig) {
	if len(w.Intelligence) == 0 {
		w.Intelligence = d.Intelligence
	}
	if len(w.Adoption) == 0 {
		w.Adoption = d.Adoption
	}
	if len(w.Momentum) == 0 {
		w.Momentum = d.Momentum
	}
	if len(w.Tier) == 0 {
		w.Tier = d.Tier
	}
	if len(w.ModelScore) == 0 {
		w.ModelScore = d.ModelScore
	}
}

// New creates a Config holding the defaults. Context is accepted first to
// satisfy the project-wide convention.
func New(_ context.Context) *Config {
	d := scoring.DefaultTables()
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		EpochID:             "2026-04",
		RegistryPath:        "models_registry.json",
		FeedsDir:            "feeds",
		SnapshotDir:         "epochs",
		RawArchiveDir:       "epochs/raw",
		ArchiveRawFeeds:     true,
		CatalogPath:         "epochs/catalog.db",
		MaxLeaderboardLimit: 100,
		Weights: WeightsConfig{
			Intelligence: d.Intelligence,
			Adoption:     d.Adoption,
			Momentum:     d.Momentum,
			Tier:         d.Tier,
			ModelScore:   d.ModelScore,
		},
	}
}

// ScoringWeights validates the weight tables and returns them in scoring form.
// Tier keys are matched case-insensitively; when both cases are present the
// lower-case key, which environment variables produce, wins.
func (c *Config) ScoringWeights() (scoring.Weights, error) {
	keys := make([]string, 0, len(c.Weights.Tier))
	for k := range c.Weights.Tier {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	tier := make(map[string]float64, len(keys))
	for _, k := range keys {
		tier[strings.ToUpper(k)] = c.Weights.Tier[k]
	}
	return scoring.NewWeights(scoring.Tables{
		Intelligence: c.Weights.Intelligence,
		Adoption:     c.Weights.Adoption,
		Momentum:     c.Weights.Momentum,
		Tier:         tier,
		ModelScore:   c.Weights.ModelScore,
	})
}

// Validate checks the configuration for values no run can use.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if err := checkPathComponent("epoch_id", c.EpochID, true); err != nil {
		return err
	}
	if err := checkPathComponent("snapshot_timestamp", c.SnapshotTimestamp, false); err != nil {
		return err
	}
	if c.SnapshotDir == "" {
		return fmt.Errorf("%w: snapshot_dir must not be empty", ErrInvalidConfig)
	}
	if c.ArchiveRawFeeds && c.RawArchiveDir == "" {
		return fmt.Errorf("%w: raw_archive_dir must be set when archive_raw_feeds is on", ErrInvalidConfig)
	}
	if c.MaxLeaderboardLimit < 1 {
		return fmt.Errorf("%w: max_leaderboard_limit must be positive", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format %q is not text or json", ErrInvalidConfig, c.LogFormat)
	}
	if _, err := c.ScoringWeights(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// checkPathComponent rejects values that cannot be embedded in a file name.
func checkPathComponent(name, v string, required bool) error {
	if strings.TrimSpace(v) == "" {
		if required {
			return fmt.Errorf("%w: %s must not be empty", ErrInvalidConfig, name)
		}
		return nil
	}
	if strings.ContainsAny(v, `/\`) || v == "." || v == ".." {
		return fmt.Errorf("%w: %s %q must not contain path separators", ErrInvalidConfig, name, v)
	}
	return nil
}
