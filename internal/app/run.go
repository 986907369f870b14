package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/aigi/internal/adapters/archive"
	"github.com/okian/aigi/internal/adapters/catalog"
	repository "github.com/okian/aigi/internal/adapters/repository"
	"github.com/okian/aigi/internal/domain/cis"
	"github.com/okian/aigi/internal/domain/engine"
	"github.com/okian/aigi/internal/domain/feed"
	"github.com/okian/aigi/internal/domain/merge"
	"github.com/okian/aigi/internal/domain/model"
	"github.com/okian/aigi/internal/domain/registry"
	"github.com/okian/aigi/internal/domain/snapshot"
	"github.com/okian/aigi/internal/domain/types"
	"github.com/okian/aigi/pkg/logger"
	"github.com/okian/aigi/pkg/metrics"
)

// RunResult describes one published snapshot.
type RunResult struct {
	RunID       string
	Snapshot    snapshot.Snapshot
	SHA256      string
	Path        string
	ArchivePath string
	Tiers       []cis.TierContribution
	Missing     map[model.Column]int
	Feeds       feed.Report
	Merge       merge.Stats
}

// Run executes one full pipeline pass: registry, feeds, scoring, snapshot.
// The snapshot is the only fatal output; archive and catalog failures are
// logged and the run still succeeds.
func (s *Service) Run(ctx context.Context) (res *RunResult, err error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return nil, ErrNotStarted
	}

	start := time.Now()
	runID := uuid.NewString()
	log := s.logger.Named("run")
	defer func() {
		status := metrics.StatusSuccess
		if err != nil {
			status = metrics.StatusFailure
			log.Error(ctx, "run failed", logger.String("run_id", runID), logger.Error(err))
		}
		_ = metrics.RecordRun(status, time.Since(start))
	}()

	specs, err := registry.Load(s.registryPath)
	if err != nil {
		metrics.RecordErrorByComponent("registry", "invalid")
		return nil, err
	}
	log.Info(ctx, "registry loaded",
		logger.String("run_id", runID),
		logger.String("path", s.registryPath),
		logger.Int("models", len(specs)),
	)

	set, report, err := feed.LoadDir(ctx, s.feedsDir)
	if err != nil {
		metrics.RecordErrorByComponent("feeds", "unreadable")
		return nil, err
	}
	s.logFeeds(ctx, log, report)

	out := engine.Run(specs, set, s.weights, s.engineOptions()...)
	s.logMerge(ctx, log, out.Merge)
	for _, c := range model.Columns() {
		n := out.Missing[c]
		metrics.UpdateMissingValues(c.String(), n)
		if n > 0 {
			log.Info(ctx, "missing values",
				logger.String("column", c.String()),
				logger.Int("count", n),
				logger.Int("models", out.Table.Len()),
			)
		}
	}
	if out.Backfilled > 0 {
		log.Info(ctx, "previous values filled from current", logger.Int("count", out.Backfilled))
	}

	ts := s.timestamp
	if ts == "" {
		ts = snapshot.Timestamp(s.now())
	}
	snap := snapshot.Build(out.Table, out.CIS, s.epochID, ts)
	written, err := snapshot.Write(s.snapshotDir, snap)
	if err != nil {
		metrics.RecordSnapshotWrite(metrics.StatusFailure)
		return nil, err
	}
	metrics.RecordSnapshotWrite(metrics.StatusSuccess)

	res = &RunResult{
		RunID:    runID,
		Snapshot: snap,
		SHA256:   written.SHA256,
		Path:     written.Path,
		Tiers:    out.Tiers,
		Missing:  out.Missing,
		Feeds:    report,
		Merge:    out.Merge,
	}

	if s.rawArchiveDir != "" {
		p, aerr := archive.Write(s.rawArchiveDir, archive.Bundle{
			EpochID:   s.epochID,
			Timestamp: ts,
			RunID:     runID,
			Feeds:     set,
		})
		if aerr != nil {
			metrics.RecordErrorByComponent("archive", "write")
			log.Warn(ctx, "archive raw feeds", logger.Error(aerr))
		} else {
			res.ArchivePath = p
		}
	}

	s.mu.RLock()
	cat := s.catalog
	s.mu.RUnlock()
	if cat != nil {
		cerr := cat.Record(ctx, catalog.Entry{
			RunID:         runID,
			EpochID:       snap.EpochID,
			Timestamp:     snap.Timestamp,
			Path:          written.Path,
			SHA256:        written.SHA256,
			CIS:           snap.CIS,
			Models:        len(snap.Models),
			EngineVersion: snap.EngineVersion,
		})
		if cerr != nil {
			metrics.RecordErrorByComponent("catalog", "record")
			log.Warn(ctx, "record snapshot in catalog", logger.Error(cerr))
		}
	}

	sum := snapshot.Summarize(written.Path, written.SHA256, snap)
	if _, err := s.publish(ctx, runID, sum, snap, out.Tiers); err != nil {
		return nil, err
	}

	log.Info(ctx, "snapshot published",
		logger.String("run_id", runID),
		logger.String("epoch_id", snap.EpochID),
		logger.String("timestamp", snap.Timestamp),
		logger.Float64("cis", snap.CIS),
		logger.Int("models", len(snap.Models)),
		logger.Int("rows_dropped", res.Merge.Dropped()),
		logger.String("path", written.Path),
		logger.String("sha256", written.SHA256),
		logger.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

func (s *Service) logFeeds(ctx context.Context, log logger.Logger, rep feed.Report) {
	metrics.UpdateFeedsLoaded(len(rep.Loaded))
	for _, name := range rep.Ignored {
		log.Warn(ctx, "ignoring unknown feed file", logger.String("file", name))
	}
	for _, p := range rep.Rejected {
		metrics.RecordErrorByComponent("feeds", "rejected")
		log.Warn(ctx, "feed rejected, treating as absent",
			logger.String("file", p.File), logger.Error(p.Err))
	}
	absent := make([]string, len(rep.Absent))
	for i, src := range rep.Absent {
		absent[i] = src.String()
	}
	log.Info(ctx, "feeds loaded",
		logger.String("dir", s.feedsDir),
		logger.Int("loaded", len(rep.Loaded)),
		logger.Any("absent", absent),
	)
}

func (s *Service) logMerge(ctx context.Context, log logger.Logger, st merge.Stats) {
	for src, n := range st.Unknown {
		metrics.RecordFeedRowsDropped(src.String(), "unknown_model", n)
		log.Debug(ctx, "rows for unknown models dropped",
			logger.String("feed", src.String()), logger.Int("rows", n))
	}
	for src, n := range st.Duplicates {
		metrics.RecordFeedRowsDropped(src.String(), "duplicate", n)
		log.Warn(ctx, "duplicate feed rows dropped",
			logger.String("feed", src.String()), logger.Int("rows", n))
	}
}

// publish swaps the ranking view to snap and records its headline figures.
func (s *Service) publish(ctx context.Context, runID string, sum snapshot.Summary, snap snapshot.Snapshot, tiers []cis.TierContribution) (types.CIS, error) {
	entries := make([]repository.Entry, len(snap.Models))
	for i, m := range snap.Models {
		entries[i] = repository.Entry{
			Name:              m.Name,
			Tier:              m.Tier,
			ModelScore:        m.ModelScore,
			IntelligenceScore: m.IntelligenceScore,
			AdoptionScore:     m.AdoptionScore,
			MomentumScore:     m.MomentumScore,
		}
	}
	if err := s.leaderboard.Replace(ctx, entries); err != nil {
		return types.CIS{}, fmt.Errorf("publish %s: %w", sum.Path, err)
	}

	headline := types.CIS{
		RunID:         runID,
		EpochID:       sum.EpochID,
		Timestamp:     sum.Timestamp,
		CIS:           sum.CIS,
		ModelsCount:   sum.ModelsCount,
		EngineVersion: sum.EngineVersion,
		SHA256:        sum.SHA256,
		Filename:      sum.Filename,
		Path:          sum.Path,
	}
	for _, tc := range tiers {
		headline.Tiers = append(headline.Tiers, types.Tier{
			Tier:         tc.Tier,
			Weight:       tc.Weight,
			Members:      tc.Members,
			Mean:         tc.Mean,
			Contribution: tc.Contribution,
		})
	}

	s.mu.Lock()
	s.latest = &headline
	s.mu.Unlock()
	metrics.UpdateSnapshot(headline.CIS, headline.ModelsCount)
	return headline, nil
}
