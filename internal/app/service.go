// Package service runs the scoring pipeline end to end and serves the last
// published snapshot to the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/aigi/internal/adapters/catalog"
	repository "github.com/okian/aigi/internal/adapters/repository"
	"github.com/okian/aigi/internal/domain/engine"
	"github.com/okian/aigi/internal/domain/scoring"
	"github.com/okian/aigi/internal/domain/snapshot"
	"github.com/okian/aigi/internal/domain/types"
	"github.com/okian/aigi/pkg/logger"
)

// Service owns the pipeline inputs, the snapshot catalog and the ranking
// view served over HTTP.
type Service struct {
	mu sync.RWMutex

	// Inputs and outputs
	registryPath  string
	feedsDir      string
	snapshotDir   string
	rawArchiveDir string
	catalogPath   string

	// Run parameters
	epochID             string
	timestamp           string
	weights             scoring.Weights
	redistribute        bool
	previousFromCurrent bool
	maxLimit            int

	// Components
	catalog     *catalog.Catalog
	leaderboard repository.Store
	now         func() time.Time

	// State
	started bool
	latest  *types.CIS

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRegistryPath sets the model registry document.
func WithRegistryPath(path string) Option {
	return func(s *Service) { s.registryPath = path }
}

// WithFeedsDir sets the directory holding one JSON file per feed.
func WithFeedsDir(dir string) Option {
	return func(s *Service) { s.feedsDir = dir }
}

// WithSnapshotDir sets where snapshots and their digests are written.
func WithSnapshotDir(dir string) Option {
	return func(s *Service) { s.snapshotDir = dir }
}

// WithRawArchiveDir enables the compressed feed archive in dir. An empty dir
// disables it.
func WithRawArchiveDir(dir string) Option {
	return func(s *Service) { s.rawArchiveDir = dir }
}

// WithCatalogPath enables the sqlite snapshot catalog at path.
func WithCatalogPath(path string) Option {
	return func(s *Service) { s.catalogPath = path }
}

// WithEpochID sets the epoch label stamped on snapshots.
func WithEpochID(id string) Option {
	return func(s *Service) { s.epochID = id }
}

// WithTimestamp pins the snapshot timestamp. Empty means the run time.
func WithTimestamp(ts string) Option {
	return func(s *Service) { s.timestamp = ts }
}

// WithWeights sets the scoring weights.
func WithWeights(w scoring.Weights) Option {
	return func(s *Service) { s.weights = w }
}

// WithRedistribution rescales pillar weights over present metrics.
func WithRedistribution(enabled bool) Option {
	return func(s *Service) { s.redistribute = enabled }
}

// WithPreviousFromCurrent fills missing previous-epoch values from current ones.
func WithPreviousFromCurrent(enabled bool) Option {
	return func(s *Service) { s.previousFromCurrent = enabled }
}

// WithMaxLeaderboardLimit caps TopN requests.
func WithMaxLeaderboardLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithStore replaces the in-memory ranking view.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.leaderboard = st
		}
	}
}

// WithClock overrides the time source used for generated timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		registryPath: "models_registry.json",
		feedsDir:     "feeds",
		snapshotDir:  "epochs",
		epochID:      "2026-04",
		weights:      scoring.DefaultWeights(),
		maxLimit:     100,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.leaderboard == nil {
		s.leaderboard = repository.NewViewStore(repository.WithMaxLimit(s.maxLimit))
	}
	return s
}

// Start opens the snapshot catalog when one is configured.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.catalogPath != "" {
		c, err := catalog.Open(ctx, s.catalogPath)
		if err != nil {
			return fmt.Errorf("start service: %w", err)
		}
		s.catalog = c
	}

	s.started = true
	s.logger.Info(ctx, "aigi service started",
		logger.String("epoch_id", s.epochID),
		logger.String("snapshot_dir", s.snapshotDir),
		logger.Bool("catalog", s.catalog != nil),
	)
	return nil
}

// Stop releases the catalog.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.catalog != nil {
		if err := s.catalog.Close(); err != nil {
			s.logger.Warn(context.Background(), "close catalog", logger.Error(err))
		}
		s.catalog = nil
	}
	s.started = false
	s.logger.Info(context.Background(), "aigi service stopped")
}

func (s *Service) engineOptions() []engine.Option {
	return []engine.Option{
		engine.WithPreviousFromCurrent(s.previousFromCurrent),
		engine.WithScorerOptions(scoring.WithRedistribution(s.redistribute)),
	}
}

// LoadLatest publishes the newest persisted snapshot to the ranking view.
// The catalog is consulted first; without one, or when it is empty, the
// snapshot directory is scanned by modification time.
func (s *Service) LoadLatest(ctx context.Context) (types.CIS, error) {
	s.mu.RLock()
	started, cat := s.started, s.catalog
	s.mu.RUnlock()
	if !started {
		return types.CIS{}, ErrNotStarted
	}

	if cat != nil {
		e, err := cat.Latest(ctx)
		switch {
		case err == nil:
			snap, digest, rerr := snapshot.Read(e.Path)
			if rerr == nil {
				sum := snapshot.Summarize(e.Path, digest, snap)
				return s.publish(ctx, e.RunID, sum, snap, nil)
			}
			s.logger.Warn(ctx, "catalogued snapshot unreadable, scanning directory",
				logger.String("path", e.Path), logger.Error(rerr))
		case errors.Is(err, catalog.ErrNotFound):
		default:
			return types.CIS{}, err
		}
	}

	sum, snap, err := snapshot.Latest(s.snapshotDir)
	if err != nil {
		return types.CIS{}, err
	}
	return s.publish(ctx, "", sum, snap, nil)
}

// History lists catalogued snapshots, newest first. A non-empty epochID
// restricts the list to that epoch; limit <= 0 means no limit.
func (s *Service) History(ctx context.Context, epochID string, limit int) ([]catalog.Entry, error) {
	s.mu.RLock()
	started, cat := s.started, s.catalog
	s.mu.RUnlock()
	if !started {
		return nil, ErrNotStarted
	}
	if cat == nil {
		return nil, ErrNoCatalog
	}
	if epochID == "" {
		return cat.List(ctx, limit)
	}
	entries, err := cat.ByEpoch(ctx, epochID)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Latest returns the headline figures of the published snapshot.
func (s *Service) Latest(ctx context.Context) (types.CIS, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return types.CIS{}, ErrNoSnapshot
	}
	return *s.latest, nil
}

// TopN returns the top N leaderboard entries.
func (s *Service) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	entries, err := s.leaderboard.TopN(ctx, n)
	if err != nil {
		return nil, err
	}
	out := make([]types.Entry, len(entries))
	for i, e := range entries {
		out[i] = toAPI(e)
	}
	return out, nil
}

// Rank returns the rank and scores for a given model.
func (s *Service) Rank(ctx context.Context, name string) (types.Entry, error) {
	e, err := s.leaderboard.Rank(ctx, name)
	if err != nil {
		return types.Entry{}, err
	}
	return toAPI(e), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":        s.started,
		"epochId":        s.epochID,
		"catalog":        s.catalog != nil,
		"redistribute":   s.redistribute,
		"models":         s.leaderboard.Count(context.Background()),
		"maxLeaderboard": s.maxLimit,
		"snapshotDir":    s.snapshotDir,
		"snapshotLoaded": s.latest != nil,
		"engineVersion":  snapshot.EngineVersion,
		"weights":        s.weights.Tables(),
	}
	if s.latest != nil {
		stats["cis"] = s.latest.CIS
		stats["snapshotSha256"] = s.latest.SHA256
		stats["snapshotTimestamp"] = s.latest.Timestamp
	}
	return stats
}

func toAPI(e repository.Entry) types.Entry {
	return types.Entry{
		Rank:              e.Rank,
		Name:              e.Name,
		Tier:              e.Tier,
		ModelScore:        e.ModelScore,
		IntelligenceScore: e.IntelligenceScore,
		AdoptionScore:     e.AdoptionScore,
		MomentumScore:     e.MomentumScore,
	}
}
