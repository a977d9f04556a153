// Package jobs orchestrates the three job kinds over the collaborating
// stages: fetch only, group only, and the combined run. It owns status,
// progress and failure signalling; the stages stay free of job concerns.
package jobs

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"

	"github.com/RankOps/kwgroup/internal/blob"
	"github.com/RankOps/kwgroup/internal/fetch"
	"github.com/RankOps/kwgroup/internal/group"
	"github.com/RankOps/kwgroup/internal/jobstore"
	"github.com/RankOps/kwgroup/internal/loader"
	"github.com/RankOps/kwgroup/internal/metrics"
	"github.com/RankOps/kwgroup/internal/notify"
	"github.com/RankOps/kwgroup/internal/output"
	"github.com/RankOps/kwgroup/internal/serp"
	"github.com/RankOps/kwgroup/internal/snapshot"
	"github.com/RankOps/kwgroup/internal/warehouse"
)

// Deps are the collaborators a Runner needs. Jobs and Warehouse are
// optional; a nil Notifier degrades to Nop.
type Deps struct {
	SERP      serp.Client
	Blob      blob.Store
	Notifier  notify.Notifier
	Jobs      *jobstore.Store
	Warehouse *warehouse.Exporter
	Logger    *slog.Logger
}

// Params describe one job run.
type Params struct {
	JobID     string
	InputName string

	SnapshotDir       string
	SnapshotThreshold int
	Concurrency       int

	Engine   string
	Location string
	GL       string
	APIKey   string

	TargetDomain      string
	CompetitorDomains []string

	GroupThreshold int
	// SubGroupThreshold enables sub-grouping when positive.
	SubGroupThreshold int
	PositionCutoff    int
	// RecalcRanks rebuilds target/competitor ranks when grouping a fetch
	// output produced for a different domain.
	RecalcRanks bool

	// Resume continues an interrupted fetch from its snapshots.
	Resume bool
}

// Runner executes jobs.
type Runner struct {
	deps Deps
}

// New creates a job runner.
func New(deps Deps) *Runner {
	if deps.Notifier == nil {
		deps.Notifier = notify.Nop{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Runner{deps: deps}
}

// schedule positions a job kind's stages on the 0..100 progress scale.
type schedule struct {
	fetchIncrement float64
	groupStart     float64
	groupIncrement float64
	subStart       float64
	subIncrement   float64
}

var (
	fetchSchedule    = schedule{fetchIncrement: 8}
	groupSchedule    = schedule{groupStart: 10, groupIncrement: 4, subStart: 50, subIncrement: 4}
	combinedSchedule = schedule{fetchIncrement: 4, groupStart: 50, groupIncrement: 2, subStart: 70, subIncrement: 2}
)

// RunFetch searches every input keyword and publishes the merged top and
// bulk outputs.
func (r *Runner) RunFetch(ctx context.Context, p Params) error {
	return r.run(ctx, p, jobstore.KindFetch, func(ctx context.Context, logger *slog.Logger) error {
		_, err := r.fetchStage(ctx, p, fetchSchedule, logger)
		return err
	})
}

// RunGroup groups an existing merged fetch output.
func (r *Runner) RunGroup(ctx context.Context, p Params) error {
	return r.run(ctx, p, jobstore.KindGroup, func(ctx context.Context, logger *slog.Logger) error {
		return r.groupStage(ctx, p, p.InputName, groupSchedule, logger)
	})
}

// RunCombined fetches and groups in one job.
func (r *Runner) RunCombined(ctx context.Context, p Params) error {
	return r.run(ctx, p, jobstore.KindCombined, func(ctx context.Context, logger *slog.Logger) error {
		topName, err := r.fetchStage(ctx, p, combinedSchedule, logger)
		if err != nil {
			return err
		}
		return r.groupStage(ctx, p, topName, combinedSchedule, logger)
	})
}

// run wraps a job body with status transitions, failure classification and
// job metrics.
func (r *Runner) run(ctx context.Context, p Params, kind string, body func(context.Context, *slog.Logger) error) error {
	logger := r.deps.Logger.With("job_id", p.JobID, "type", kind)
	r.setStatus(ctx, p.JobID, jobstore.StatusRunning, "")

	if err := body(ctx, logger); err != nil {
		reason := Classify(err)
		logger.Error("job failed", "reason", reason, "err", err)
		r.deps.Notifier.Log(p.JobID, fmt.Sprintf("%s: %v", reason, err))
		r.setStatus(ctx, p.JobID, jobstore.StatusFailed, reason)
		metrics.JobsTotal.WithLabelValues(kind, "failed").Inc()
		return fmt.Errorf("%s job %s: %w", kind, p.JobID, err)
	}

	r.deps.Notifier.Progress(p.JobID, 100)
	r.setStatus(ctx, p.JobID, jobstore.StatusCompleted, "")
	metrics.JobsTotal.WithLabelValues(kind, "ok").Inc()
	logger.Info("job completed")
	return nil
}

func (r *Runner) setStatus(ctx context.Context, jobID, status, reason string) {
	r.deps.Notifier.Status(jobID, status)
	if r.deps.Jobs == nil {
		return
	}
	if err := r.deps.Jobs.SetStatus(ctx, jobID, status, reason); err != nil {
		r.deps.Logger.Warn("job record update failed", "job_id", jobID, "err", err)
	}
}

// fetchStage loads the input, runs the search pool over it and publishes
// the merged outputs. It returns the name of the top-view output blob.
func (r *Runner) fetchStage(ctx context.Context, p Params, s schedule, logger *slog.Logger) (string, error) {
	store, err := snapshot.New(snapshot.Config{
		Dir:       p.SnapshotDir,
		JobID:     p.JobID,
		Threshold: p.SnapshotThreshold,
		Logger:    logger,
	})
	if err != nil {
		return "", err
	}

	exclude := map[string]struct{}{}
	if p.Resume {
		count, rows, err := store.MergeForResume()
		if err != nil {
			return "", err
		}
		exclude = snapshot.Keywords(rows)
		logger.Info("resuming from snapshots", "keywords_done", count)
		r.deps.Notifier.Log(p.JobID, fmt.Sprintf("resumed, %d keywords already searched", count))
	}

	in, err := r.deps.Blob.Open(ctx, p.InputName)
	if err != nil {
		return "", err
	}
	queries, stats, err := loader.Load(in, exclude)
	in.Close()
	if err != nil {
		return "", err
	}

	r.deps.Notifier.InputSize(p.JobID, len(queries))
	r.deps.Notifier.Progress(p.JobID, 5)
	logger.Info("input loaded", "keywords", len(queries),
		"cpc_median", stats.CPCMedian, "cps_median", stats.CPSMedian)

	engine := fetch.New(fetch.Config{
		Client:            r.deps.SERP,
		Store:             store,
		Logger:            logger,
		Concurrency:       p.Concurrency,
		Engine:            p.Engine,
		Location:          p.Location,
		GL:                p.GL,
		APIKey:            p.APIKey,
		TargetDomain:      p.TargetDomain,
		CompetitorDomains: p.CompetitorDomains,
		Progress:          func(pct float64) { r.deps.Notifier.Progress(p.JobID, pct) },
		StartProgress:     5,
		Increment:         s.fetchIncrement,
	})
	res, err := engine.Run(ctx, queries)
	if err != nil {
		return "", err
	}
	if res.Ignored > 0 {
		r.deps.Notifier.Log(p.JobID,
			fmt.Sprintf("%d keywords ignored due to special characters", res.Ignored))
	}
	logger.Info("fetch finished",
		"searched", res.Searched, "ignored", res.Ignored, "discarded", res.Discarded)

	var top, bulk bytes.Buffer
	if err := store.MergeFinal(&top, &bulk); err != nil {
		return "", err
	}

	topName := p.JobID + ".csv"
	bulkName := "bulk_" + p.JobID + ".csv"
	if err := r.deps.Blob.Upload(ctx, topName, &top); err != nil {
		return "", err
	}
	if err := r.deps.Blob.Upload(ctx, bulkName, &bulk); err != nil {
		return "", err
	}
	if r.deps.Jobs != nil {
		if err := r.deps.Jobs.SetOutput(ctx, p.JobID, topName); err != nil {
			logger.Warn("job record update failed", "err", err)
		}
	}

	// Snapshots are only removed once the merged outputs are safely out.
	if err := store.Cleanup(); err != nil {
		logger.Warn("snapshot cleanup failed", "err", err)
	}
	return topName, nil
}

// groupStage reads a merged fetch output, groups it and publishes the
// grouped report, exporting it to the warehouse when one is configured.
func (r *Runner) groupStage(ctx context.Context, p Params, inputName string, s schedule, logger *slog.Logger) error {
	in, err := r.deps.Blob.Open(ctx, inputName)
	if err != nil {
		return err
	}
	records, err := output.ReadRecords(in, output.ReadOptions{
		PositionCutoff:    p.PositionCutoff,
		RecalcRanks:       p.RecalcRanks,
		TargetDomain:      p.TargetDomain,
		CompetitorDomains: p.CompetitorDomains,
	})
	in.Close()
	if err != nil {
		return err
	}
	logger.Info("grouping", "records", len(records), "threshold", p.GroupThreshold)

	progress := func(pct float64) { r.deps.Notifier.Progress(p.JobID, pct) }
	ix := group.Run(records, p.GroupThreshold, group.Options{
		Logger:        logger,
		Progress:      progress,
		StartProgress: s.groupStart,
		Increment:     s.groupIncrement,
	})
	metrics.GroupsFormed.Add(float64(ix.Len()))

	var sub *group.Index
	if p.SubGroupThreshold > 0 {
		sub = group.SubPartition(records, ix, p.SubGroupThreshold, p.PositionCutoff, group.Options{
			Logger:        logger,
			Progress:      progress,
			StartProgress: s.subStart,
			Increment:     s.subIncrement,
		})
	}

	competitorCount := 0
	if len(records) > 0 {
		competitorCount = len(records[0].CompetitorRanks)
	}
	header := output.GroupedHeader(sub != nil, competitorCount)
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, output.GroupedRow(rec, ix, sub, sub != nil))
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write grouped header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write grouped rows: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush grouped output: %w", err)
	}

	groupedName := "grouped_" + p.JobID + ".csv"
	if err := r.deps.Blob.Upload(ctx, groupedName, &buf); err != nil {
		return err
	}
	if r.deps.Jobs != nil {
		if err := r.deps.Jobs.SetOutput(ctx, p.JobID, groupedName); err != nil {
			logger.Warn("job record update failed", "err", err)
		}
	}

	if r.deps.Warehouse != nil {
		if err := r.deps.Warehouse.Export(ctx, p.JobID, header, rows); err != nil {
			return fmt.Errorf("warehouse export: %w", err)
		}
		logger.Info("warehouse export done", "table", warehouse.TableName(p.JobID), "rows", len(rows))
	}
	return nil
}
