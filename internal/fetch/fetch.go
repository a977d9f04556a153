// Package fetch runs the search stage: it fans keyword queries out to the
// search API, turns each response into top and bulk keyword records, and
// hands completed pairs to a single coordinator that owns the checkpoint
// store.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/RankOps/kwgroup/internal/ctr"
	"github.com/RankOps/kwgroup/internal/keyword"
	"github.com/RankOps/kwgroup/internal/metrics"
	"github.com/RankOps/kwgroup/internal/serp"
	"github.com/RankOps/kwgroup/internal/snapshot"
)

// MaxConcurrency caps the worker pool regardless of configuration.
const MaxConcurrency = 100

// allowedKeyword is the default keyword filter. Anything outside plain
// letters, digits and spaces is skipped rather than sent to the API.
var allowedKeyword = regexp.MustCompile(`^[A-Za-z0-9 ]+$`)

// Config provides parameters for the fetch stage.
type Config struct {
	Client serp.Client
	Store  *snapshot.Store
	Logger *slog.Logger

	Concurrency int
	Engine      string
	Location    string
	GL          string
	APIKey      string

	TargetDomain      string
	CompetitorDomains []string

	// KeywordPattern overrides the default keyword filter.
	KeywordPattern *regexp.Regexp

	// Progress receives coarse completion percentages, advancing by
	// Increment from StartProgress roughly ten times over the run.
	Progress      func(progress float64)
	StartProgress float64
	Increment     float64
}

// Result summarizes a fetch run.
type Result struct {
	// Searched counts keywords that produced records.
	Searched int
	// Ignored counts keywords skipped by the keyword filter.
	Ignored int
	// Discarded counts keywords whose response answered a
	// spelling-corrected query and was dropped.
	Discarded int
}

// Engine executes the fetch stage for one job.
type Engine struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a fetch engine. Concurrency defaults to and is capped at
// MaxConcurrency.
func New(cfg Config) *Engine {
	if cfg.Concurrency <= 0 || cfg.Concurrency > MaxConcurrency {
		cfg.Concurrency = MaxConcurrency
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Engine == "" {
		cfg.Engine = "google"
	}
	if cfg.KeywordPattern == nil {
		cfg.KeywordPattern = allowedKeyword
	}
	if cfg.Increment <= 0 {
		cfg.Increment = 8
	}
	return &Engine{cfg: cfg, logger: cfg.Logger}
}

// pair carries one keyword's completed views from a worker to the
// coordinator. A nil Top marks a keyword that was processed but discarded.
type pair struct {
	Top  *keyword.Record
	Bulk *keyword.Record
}

// Run searches every query and checkpoints the results. The first failing
// keyword cancels the remaining workers and aborts the stage; resumption
// goes through the snapshots, not through retries.
func (e *Engine) Run(ctx context.Context, queries []keyword.Query) (Result, error) {
	var res Result

	kept := make([]keyword.Query, 0, len(queries))
	for _, q := range queries {
		if !e.cfg.KeywordPattern.MatchString(q.Keyword) {
			e.logger.Debug("keyword skipped by filter", "keyword", q.Keyword)
			res.Ignored++
			continue
		}
		kept = append(kept, q)
	}
	if len(kept) == 0 {
		return res, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Concurrency)

	pairs := make(chan pair)

	// The coordinator is the only writer to the checkpoint store; workers
	// never share mutable state.
	coordDone := make(chan struct{})
	var coordErr error
	done := 0
	bucket := len(kept) / 10
	go func() {
		defer close(coordDone)
		for p := range pairs {
			done++
			if p.Top == nil {
				res.Discarded++
			} else {
				res.Searched++
				if err := e.cfg.Store.Add(p.Top, p.Bulk); err != nil {
					if coordErr == nil {
						coordErr = err
						cancel()
					}
					continue
				}
			}
			if bucket > 0 && done%bucket == 0 && e.cfg.Progress != nil {
				e.cfg.Progress(e.cfg.StartProgress + e.cfg.Increment*float64(done/bucket))
			}
		}
	}()

	for _, q := range kept {
		q := q
		g.Go(func() error {
			p, err := e.search(gCtx, q)
			if err != nil {
				return fmt.Errorf("keyword %q: %w", q.Keyword, err)
			}
			select {
			case pairs <- p:
				return nil
			case <-gCtx.Done():
				return gCtx.Err()
			}
		})
	}

	err := g.Wait()
	close(pairs)
	<-coordDone

	if coordErr != nil {
		return res, coordErr
	}
	if err != nil {
		return res, err
	}
	return res, e.cfg.Store.Flush()
}

func (e *Engine) search(ctx context.Context, q keyword.Query) (pair, error) {
	start := time.Now()
	payload, err := e.cfg.Client.Search(ctx, serp.Params{
		Engine:   e.cfg.Engine,
		Query:    q.Keyword,
		Location: e.cfg.Location,
		GL:       e.cfg.GL,
		APIKey:   e.cfg.APIKey,
	})
	metrics.RecordSearch(err, time.Since(start))
	if err != nil {
		return pair{}, err
	}

	if payload.Misspelled() {
		e.logger.Info("keyword discarded, response answered corrected spelling", "keyword", q.Keyword)
		return pair{}, nil
	}

	top, bulk := buildRecords(q, payload, e.cfg.TargetDomain, e.cfg.CompetitorDomains)
	return pair{Top: top, Bulk: bulk}, nil
}

// buildRecords turns one response into the bulk record (every organic
// link) and the top record (the first ten organic results, preceded by the
// answer box when it is an organic result promoted to position 1). Both
// share the rank and traffic fields.
func buildRecords(q keyword.Query, payload *serp.Payload, targetDomain string, competitorDomains []string) (top, bulk *keyword.Record) {
	features := ExtractFeatures(payload)

	links := make([]keyword.Link, 0, len(payload.OrganicResults))
	for _, r := range payload.OrganicResults {
		links = append(links, keyword.Link{
			URL:            keyword.StripFragment(r.Link),
			Position:       r.Position,
			Title:          r.Title,
			Snippet:        r.Snippet,
			RelatedResults: len(r.RelatedResults),
		})
	}

	answerBoxURL := ""
	if payload.AnswerBox != nil && payload.AnswerBox.Type == "organic_result" {
		answerBoxURL = payload.AnswerBox.Link
	}
	ranks := keyword.CalculateRanks(links, answerBoxURL, targetDomain, competitorDomains)

	rec := &keyword.Record{
		Keyword:          q.Keyword,
		Volume:           q.Volume,
		Links:            links,
		PrimaryIntents:   ctr.PrimaryIntents(features),
		SecondaryIntents: ctr.SecondaryIntents(features),
		Rank:             ranks[0],
		CompetitorRanks:  ranks[1:],
		Difficulty:       q.Difficulty,
		CPC:              q.CPC,
		CPS:              q.CPS,
	}

	current, potential := ctr.Values(features, rec.Rank.Position)
	rec.CurrentTraffic = current * rec.Volume * rec.CPS
	rec.PotentialTraffic = potential * rec.Volume * rec.CPS
	rec.CurrentValue = rec.CurrentTraffic * rec.CPC
	rec.PotentialValue = rec.PotentialTraffic * rec.CPC
	rec.ValueOpportunity = rec.PotentialValue - rec.CurrentValue
	rec.VolumeOpportunity = rec.Volume - rec.CurrentTraffic
	rec.FibonacciHelper = ctr.FibonacciHelper(rec.Rank.Position)

	positions := make([]int, len(rec.CompetitorRanks))
	for i := range rec.CompetitorRanks {
		comp := &rec.CompetitorRanks[i]
		positions[i] = comp.Position
		// An unmatched domain sits at position 0, which reads the CTR for
		// the worst tracked rank rather than zero.
		compCurrent, _ := ctr.Values(features, comp.Position)
		comp.CurrentTraffic = compCurrent * rec.Volume * rec.CPS
		comp.CurrentValue = comp.CurrentTraffic * rec.CPC
	}
	rec.CompetitorScore, rec.CompetitorRankCount = ctr.CompetitorScore(rec.Rank.Position, positions)

	topRec := *rec
	topRec.Links = nil
	if answerBoxURL != "" {
		topRec.Links = append(topRec.Links, keyword.Link{
			URL:      keyword.StripFragment(answerBoxURL),
			Position: 1,
			Title:    payload.AnswerBox.Title,
			Snippet:  payload.AnswerBox.Snippet,
		})
	}
	n := len(links)
	if n > 10 {
		n = 10
	}
	topRec.Links = append(topRec.Links, links[:n]...)
	return &topRec, rec
}

// ExtractFeatures maps payload block presence onto the feature model. The
// organic count and the sitelink flags are read from the first ten organic
// entries only; the tail of deep result sets does not shape the page.
func ExtractFeatures(p *serp.Payload) ctr.Features {
	organic := p.OrganicResults
	if len(organic) > 10 {
		organic = organic[:10]
	}

	f := ctr.Features{
		OrganicResultCount: len(organic),
		EventsResults:      present(p.EventsResults),
		InlineImages:       present(p.InlineImages),
		PeopleAlsoSearch:   present(p.PeopleAlsoSearchFor),
		ShoppingResults:    present(p.ShoppingResults),
		InlineVideos:       present(p.InlineVideos),
		VideoCarousels:     present(p.InlineVideoCarousels),
		KnowledgeGraph:     present(p.KnowledgeGraph),
		LocalResults:       present(p.LocalResults) || present(p.LocalAds),
		NewsResults:        present(p.NewsResults),
		TopStories:         present(p.TopStories),
		InlineProducts:     present(p.InlineProducts),
		RecipesResults:     present(p.RecipesResults),
		RelatedQuestions:   present(p.RelatedQuestions),
		TwitterResults:     present(p.TwitterResults),
	}

	// Any answer block reads as a featured snippet; a concrete answer box
	// additionally sets its own flag, and the combination picks the
	// stronger CTR curve.
	if p.AnswerBox != nil || present(p.AnswerBoxList) {
		f.FeaturedSnippet = true
	}
	if p.AnswerBox != nil {
		f.AnswerBox = true
	}

	for _, ad := range p.Ads {
		switch ad.BlockPosition {
		case "top":
			f.AdTopCount++
		case "bottom":
			f.AdBottomCount++
		case "right":
			f.AdRightCount++
		}
	}

	for _, r := range organic {
		if r.Sitelinks != nil {
			if present(r.Sitelinks.Expanded) {
				f.SitelinksExpanded = true
			}
			if present(r.Sitelinks.Inline) {
				f.SitelinksInline = true
			}
		}
		if present(r.SitelinksSearchBox) {
			f.SitelinksSearchBox = true
		}
	}
	return f
}

func present(raw []byte) bool {
	return len(raw) > 0 && string(raw) != "null"
}
