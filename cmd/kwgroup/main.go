package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/RankOps/kwgroup/internal/blob"
	"github.com/RankOps/kwgroup/internal/config"
	"github.com/RankOps/kwgroup/internal/jobs"
	"github.com/RankOps/kwgroup/internal/jobstore"
	"github.com/RankOps/kwgroup/internal/metrics"
	"github.com/RankOps/kwgroup/internal/notify"
	"github.com/RankOps/kwgroup/internal/serp"
	"github.com/RankOps/kwgroup/internal/warehouse"
)

func main() {
	var (
		mode        = flag.String("mode", "combined", "Job mode: 'fetch', 'group', 'combined' or 'resume'")
		input       = flag.String("input", "", "Input file name inside the blob directory")
		jobID       = flag.String("job", "", "Job id (defaults to a new UUID; required for resume)")
		target      = flag.String("target", "", "Target domain")
		competitors = flag.String("competitors", "", "Comma-separated competitor domains")
		location    = flag.String("location", "", "Search location")
		gl          = flag.String("gl", "", "Search country code")
		threshold   = flag.Int("threshold", 0, "Link-overlap threshold for grouping")
		subGroups   = flag.Int("subgroups", 0, "Sub-group threshold (0 disables sub-grouping)")
		recalc      = flag.Bool("recalc", false, "Recalculate ranks from links when grouping")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg := config.Load()

	if *input == "" && *mode != "resume" {
		logger.Error("missing -input")
		os.Exit(2)
	}
	if *jobID == "" {
		if *mode == "resume" {
			logger.Error("resume needs -job")
			os.Exit(2)
		}
		*jobID = uuid.NewString()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Info("shutting down")
		cancel()
	}()

	if cfg.MetricsPort > 0 {
		srv := metrics.Start(cfg.MetricsPort)
		defer srv.Stop(context.Background())
	}

	store, err := jobstore.New(cfg.JobStorePath)
	if err != nil {
		logger.Error("job store unavailable", "err", err)
		os.Exit(1)
	}
	defer store.Close()

	blobStore, err := blob.NewLocal(cfg.OutputDir)
	if err != nil {
		logger.Error("blob store unavailable", "err", err)
		os.Exit(1)
	}

	var notifier notify.Notifier = notify.Nop{}
	if cfg.NotifierURL != "" {
		ws := notify.NewWebsocket(cfg.NotifierURL, logger)
		defer ws.Close()
		notifier = ws
	}

	var exporter *warehouse.Exporter
	if cfg.WarehouseDSN != "" {
		exporter, err = warehouse.New(ctx, cfg.WarehouseDSN)
		if err != nil {
			logger.Error("warehouse unavailable", "err", err)
			os.Exit(1)
		}
		defer exporter.Close()
	}

	client, err := serp.NewHTTPClient(serp.HTTPConfig{
		Endpoint:          cfg.SearchEndpoint,
		Timeout:           60 * time.Second,
		RequestsPerSecond: cfg.SearchRPS,
	})
	if err != nil {
		logger.Error("search client unavailable", "err", err)
		os.Exit(1)
	}

	runner := jobs.New(jobs.Deps{
		SERP:      client,
		Blob:      blobStore,
		Notifier:  notifier,
		Jobs:      store,
		Warehouse: exporter,
		Logger:    logger,
	})

	groupThreshold := *threshold
	if groupThreshold <= 0 {
		groupThreshold = cfg.GroupThreshold
	}
	subThreshold := *subGroups
	if subThreshold <= 0 {
		subThreshold = cfg.SubGroupThreshold
	}

	params := jobs.Params{
		JobID:             *jobID,
		InputName:         *input,
		SnapshotDir:       cfg.SnapshotDir,
		SnapshotThreshold: cfg.SnapshotThreshold,
		Concurrency:       cfg.Concurrency,
		Engine:            cfg.SearchEngine,
		Location:          *location,
		GL:                *gl,
		APIKey:            cfg.SearchAPIKey,
		TargetDomain:      *target,
		CompetitorDomains: splitList(*competitors),
		GroupThreshold:    groupThreshold,
		SubGroupThreshold: subThreshold,
		PositionCutoff:    cfg.PositionCutoff,
		RecalcRanks:       *recalc,
	}

	switch *mode {
	case "fetch":
		ensureJob(ctx, store, params, jobstore.KindFetch, logger)
		err = runner.RunFetch(ctx, params)
	case "group":
		ensureJob(ctx, store, params, jobstore.KindGroup, logger)
		err = runner.RunGroup(ctx, params)
	case "combined":
		ensureJob(ctx, store, params, jobstore.KindCombined, logger)
		err = runner.RunCombined(ctx, params)
	case "resume":
		params.Resume = true
		job, jerr := store.Get(ctx, params.JobID)
		if jerr != nil {
			logger.Error("unknown job", "job_id", params.JobID, "err", jerr)
			os.Exit(1)
		}
		if params.InputName == "" {
			params.InputName = job.InputPath
		}
		switch job.Kind {
		case jobstore.KindFetch:
			err = runner.RunFetch(ctx, params)
		case jobstore.KindCombined:
			err = runner.RunCombined(ctx, params)
		default:
			logger.Error("job kind cannot be resumed", "kind", job.Kind)
			os.Exit(1)
		}
	default:
		logger.Error("invalid mode", "mode", *mode)
		os.Exit(2)
	}

	if err != nil {
		logger.Error("job failed", "err", err)
		os.Exit(1)
	}
	fmt.Println(params.JobID)
}

func ensureJob(ctx context.Context, store *jobstore.Store, p jobs.Params, kind string, logger *slog.Logger) {
	if _, err := store.Create(ctx, p.JobID, kind, p.InputName); err != nil {
		logger.Warn("job record not created", "job_id", p.JobID, "err", err)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
