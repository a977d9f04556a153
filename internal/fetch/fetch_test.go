package fetch

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/RankOps/kwgroup/internal/ctr"
	"github.com/RankOps/kwgroup/internal/keyword"
	"github.com/RankOps/kwgroup/internal/serp"
	"github.com/RankOps/kwgroup/internal/snapshot"
)

type fakeClient struct {
	payloads map[string]*serp.Payload
	errs     map[string]error
}

func (f *fakeClient) Search(ctx context.Context, p serp.Params) (*serp.Payload, error) {
	if err := f.errs[p.Query]; err != nil {
		return nil, err
	}
	payload, ok := f.payloads[p.Query]
	if !ok {
		return &serp.Payload{}, nil
	}
	return payload, nil
}

func organicPayload(count int, targetPos int) *serp.Payload {
	p := &serp.Payload{}
	for i := 1; i <= count; i++ {
		link := fmt.Sprintf("https://site%d.com/page", i)
		if i == targetPos {
			link = "https://www.target.com/page"
		}
		p.OrganicResults = append(p.OrganicResults, serp.OrganicResult{
			Link:     link,
			Position: i,
			Title:    fmt.Sprintf("Result %d", i),
		})
	}
	return p
}

func newStore(t *testing.T, dir, jobID string) *snapshot.Store {
	t.Helper()
	s, err := snapshot.New(snapshot.Config{Dir: dir, JobID: jobID, Threshold: 1})
	if err != nil {
		t.Fatalf("snapshot store failed: %v", err)
	}
	return s
}

func TestEngineRun(t *testing.T) {
	dir := t.TempDir()
	client := &fakeClient{payloads: map[string]*serp.Payload{
		"dog food": organicPayload(12, 2),
		"dgo food": {SearchInformation: &serp.SearchInformation{SpellingFix: json.RawMessage(`"dog food"`)}},
	}}

	engine := New(Config{
		Client:       client,
		Store:        newStore(t, dir, "run1"),
		TargetDomain: "target.com",
	})

	queries := []keyword.Query{
		{Keyword: "dog food", Volume: 100, CPC: 2, CPS: 0.5},
		{Keyword: "bad$kw", Volume: 10},
		{Keyword: "dgo food", Volume: 10},
	}
	res, err := engine.Run(context.Background(), queries)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.Searched != 1 {
		t.Errorf("expected 1 searched, got %d", res.Searched)
	}
	if res.Ignored != 1 {
		t.Errorf("expected 1 ignored by the filter, got %d", res.Ignored)
	}
	if res.Discarded != 1 {
		t.Errorf("expected 1 spelling discard, got %d", res.Discarded)
	}

	// The top view keeps positions 1-10, the bulk view everything.
	topRows := readRows(t, filepath.Join(dir, "run1_0.csv"))
	if len(topRows) != 11 {
		t.Errorf("expected header plus 10 top rows, got %d", len(topRows))
	}
	bulkRows := readRows(t, filepath.Join(dir, "bulk_run1_0.csv"))
	if len(bulkRows) != 13 {
		t.Errorf("expected header plus 12 bulk rows, got %d", len(bulkRows))
	}
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return rows
}

func TestEngineRunAbortsOnFailure(t *testing.T) {
	client := &fakeClient{
		payloads: map[string]*serp.Payload{"good": organicPayload(3, 1)},
		errs:     map[string]error{"broken": errors.New("quota exhausted")},
	}
	engine := New(Config{
		Client: client,
		Store:  newStore(t, t.TempDir(), "run2"),
	})

	queries := []keyword.Query{
		{Keyword: "good", Volume: 10},
		{Keyword: "broken", Volume: 10},
	}
	_, err := engine.Run(context.Background(), queries)
	if err == nil {
		t.Fatalf("expected a failing keyword to abort the run")
	}
}

func TestEngineProgress(t *testing.T) {
	client := &fakeClient{payloads: map[string]*serp.Payload{}}
	var reported []float64
	engine := New(Config{
		Client:        client,
		Store:         newStore(t, t.TempDir(), "run3"),
		Progress:      func(p float64) { reported = append(reported, p) },
		StartProgress: 5,
		Increment:     8,
	})

	var queries []keyword.Query
	for i := 0; i < 10; i++ {
		queries = append(queries, keyword.Query{Keyword: fmt.Sprintf("kw %d", i), Volume: 5})
	}
	if _, err := engine.Run(context.Background(), queries); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(reported) != 10 {
		t.Fatalf("expected 10 progress buckets, got %d", len(reported))
	}
	if reported[0] != 13 || reported[len(reported)-1] != 85 {
		t.Errorf("unexpected progress range: %v", reported)
	}
}

func TestBuildRecords(t *testing.T) {
	payload := organicPayload(12, 2)
	payload.OrganicResults[4].Link = "https://comp.example.org/page"
	payload.Ads = []serp.Ad{{BlockPosition: "top"}}

	q := keyword.Query{Keyword: "dog food", Volume: 100, CPC: 2, CPS: 0.5, Difficulty: 30}
	top, bulk := buildRecords(q, payload, "target.com", []string{"example.org", "missing.com"})

	if len(bulk.Links) != 12 {
		t.Fatalf("expected 12 bulk links, got %d", len(bulk.Links))
	}
	if len(top.Links) != 10 {
		t.Fatalf("expected 10 top links, got %d", len(top.Links))
	}

	if bulk.Rank.Position != 2 || bulk.Rank.MatchCount != 1 {
		t.Errorf("unexpected target rank: %+v", bulk.Rank)
	}
	if len(bulk.CompetitorRanks) != 2 {
		t.Fatalf("expected 2 competitor ranks, got %d", len(bulk.CompetitorRanks))
	}
	comp := bulk.CompetitorRanks[0]
	if comp.Position != 5 {
		t.Errorf("expected competitor at position 5, got %d", comp.Position)
	}
	if comp.CurrentTraffic <= 0 || comp.CurrentValue != comp.CurrentTraffic*2 {
		t.Errorf("expected competitor traffic/value derived, got %+v", comp)
	}

	// A domain not found still gets traffic from the worst tracked rank.
	missing := bulk.CompetitorRanks[1]
	if missing.Position != 0 || missing.MatchCount != 0 {
		t.Fatalf("unexpected rank for absent domain: %+v", missing)
	}
	wantTraffic := worstRankCTR(ExtractFeatures(payload)) * q.Volume * q.CPS
	if !approx(missing.CurrentTraffic, wantTraffic) {
		t.Errorf("expected traffic %f for absent domain, got %f", wantTraffic, missing.CurrentTraffic)
	}

	if bulk.CurrentTraffic <= 0 || bulk.PotentialTraffic <= bulk.CurrentTraffic {
		t.Errorf("unexpected traffic: current %f potential %f", bulk.CurrentTraffic, bulk.PotentialTraffic)
	}
	// Target at 2, one competitor at 5 and the absent domain at 0 all count.
	if bulk.CompetitorRankCount != 3 {
		t.Errorf("expected 3 counted positions, got %d", bulk.CompetitorRankCount)
	}
	// Ads make the page commercial.
	if len(bulk.PrimaryIntents) == 0 || bulk.PrimaryIntents[0] != "Investigational" {
		t.Errorf("unexpected intents: %v", bulk.PrimaryIntents)
	}

	// The views share everything but the link set.
	if top.CurrentValue != bulk.CurrentValue || top.Keyword != bulk.Keyword {
		t.Errorf("top and bulk views diverged")
	}
}

func approx(got, want float64) bool {
	return math.Abs(got-want) < 1e-9
}

// worstRankCTR is the CTR fraction at the worst tracked rank for the page.
func worstRankCTR(f ctr.Features) float64 {
	current, _ := ctr.Values(f, 20)
	return current
}

func TestBuildRecordsPotentialTrafficUsesCPS(t *testing.T) {
	payload := organicPayload(12, 1)
	q := keyword.Query{Keyword: "dog food", Volume: 100, CPC: 2, CPS: 0.5}
	_, bulk := buildRecords(q, payload, "target.com", nil)

	// Plain organic page, target at rank 1: both values read the rank-1
	// CTR (31.73%) and both scale by volume and clicks per search.
	want := 0.3173 * 100 * 0.5
	if !approx(bulk.PotentialTraffic, want) {
		t.Errorf("expected potential traffic %f, got %f", want, bulk.PotentialTraffic)
	}
	if !approx(bulk.CurrentTraffic, want) {
		t.Errorf("expected current traffic %f, got %f", want, bulk.CurrentTraffic)
	}
	if !approx(bulk.PotentialValue, want*2) {
		t.Errorf("expected potential value %f, got %f", want*2, bulk.PotentialValue)
	}
}

func TestBuildRecordsTopViewFirstTen(t *testing.T) {
	payload := &serp.Payload{}
	for i := 0; i < 12; i++ {
		payload.OrganicResults = append(payload.OrganicResults, serp.OrganicResult{
			Link:     fmt.Sprintf("https://site%d.com/page", i),
			Position: i + 3,
		})
	}

	q := keyword.Query{Keyword: "dog food", Volume: 10}
	top, bulk := buildRecords(q, payload, "nope.com", nil)

	// The top view takes the first ten entries even when their reported
	// positions run past ten.
	if len(top.Links) != 10 {
		t.Fatalf("expected 10 top links, got %d", len(top.Links))
	}
	if top.Links[9].Position != 12 {
		t.Errorf("expected last top link at position 12, got %d", top.Links[9].Position)
	}
	if len(bulk.Links) != 12 {
		t.Errorf("expected 12 bulk links, got %d", len(bulk.Links))
	}
}

func TestBuildRecordsAnswerBoxLink(t *testing.T) {
	payload := organicPayload(12, 0)
	payload.AnswerBox = &serp.AnswerBox{
		Type:    "organic_result",
		Link:    "https://www.target.com/answer#ref",
		Title:   "Answer",
		Snippet: "Direct answer",
	}

	q := keyword.Query{Keyword: "dog food", Volume: 100, CPC: 2, CPS: 0.5}
	top, bulk := buildRecords(q, payload, "target.com", nil)

	// The promoted organic answer leads the top view at position 1.
	if len(top.Links) != 11 {
		t.Fatalf("expected answer box plus 10 links, got %d", len(top.Links))
	}
	first := top.Links[0]
	if first.URL != "https://www.target.com/answer" || first.Position != 1 {
		t.Errorf("unexpected leading link: %+v", first)
	}
	if first.Title != "Answer" {
		t.Errorf("unexpected title: %q", first.Title)
	}

	// The bulk view carries organic results only.
	if len(bulk.Links) != 12 {
		t.Errorf("expected 12 bulk links, got %d", len(bulk.Links))
	}
	// Winning the answer box ranks the domain first.
	if bulk.Rank.Position != 1 {
		t.Errorf("expected rank 1 from the answer box, got %d", bulk.Rank.Position)
	}

	// A non-organic answer box contributes no link.
	payload.AnswerBox.Type = "dictionary_results"
	top, _ = buildRecords(q, payload, "target.com", nil)
	if len(top.Links) != 10 {
		t.Errorf("expected 10 links without a promoted answer, got %d", len(top.Links))
	}
}

func TestExtractFeatures(t *testing.T) {
	payload := &serp.Payload{
		AnswerBox:            &serp.AnswerBox{Type: "organic_result", Link: "https://a.com"},
		KnowledgeGraph:       json.RawMessage(`{}`),
		InlineVideoCarousels: json.RawMessage(`[]`),
		LocalAds:             json.RawMessage(`[]`),
		Ads: []serp.Ad{
			{BlockPosition: "top"}, {BlockPosition: "top"}, {BlockPosition: "bottom"},
		},
		OrganicResults: []serp.OrganicResult{
			{Link: "https://a.com", Position: 1, SitelinksSearchBox: json.RawMessage(`true`)},
			{Link: "https://b.com", Position: 2, Sitelinks: &serp.Sitelinks{Expanded: json.RawMessage(`[]`)}},
		},
	}

	f := ExtractFeatures(payload)

	// An answer box sets both flags regardless of its type.
	if !f.FeaturedSnippet || !f.AnswerBox {
		t.Errorf("expected answer box to set both flags, got %+v", f)
	}
	if !f.KnowledgeGraph || !f.VideoCarousels || !f.LocalResults {
		t.Errorf("expected raw blocks detected, got %+v", f)
	}
	if f.AdTopCount != 2 || f.AdBottomCount != 1 || f.AdRightCount != 0 {
		t.Errorf("unexpected ad counts: %+v", f)
	}
	if !f.SitelinksSearchBox || !f.SitelinksExpanded || f.SitelinksInline {
		t.Errorf("unexpected sitelink flags: %+v", f)
	}
	if f.OrganicResultCount != 2 {
		t.Errorf("expected 2 organic results, got %d", f.OrganicResultCount)
	}
	if !f.Commercial() {
		t.Errorf("expected ads to mark the page commercial")
	}
}

func TestExtractFeaturesAnswerBlocks(t *testing.T) {
	// A non-organic answer box still sets both flags, and the combined
	// flags select the featured-snippet CTR row.
	payload := &serp.Payload{
		AnswerBox:      &serp.AnswerBox{Type: "dictionary_results"},
		OrganicResults: []serp.OrganicResult{{Link: "https://a.com", Position: 1}},
	}
	f := ExtractFeatures(payload)
	if !f.AnswerBox || !f.FeaturedSnippet {
		t.Errorf("expected both answer flags set, got %+v", f)
	}
	if got := ctr.Index(f); got != 7 {
		t.Errorf("expected CTR row 7, got %d", got)
	}

	// An answer box list alone reads as a featured snippet only.
	payload = &serp.Payload{
		AnswerBoxList:  json.RawMessage(`[{}]`),
		OrganicResults: []serp.OrganicResult{{Link: "https://a.com", Position: 1}},
	}
	f = ExtractFeatures(payload)
	if f.AnswerBox || !f.FeaturedSnippet {
		t.Errorf("expected featured snippet only, got %+v", f)
	}
}

func TestExtractFeaturesFirstTenOnly(t *testing.T) {
	payload := &serp.Payload{}
	for i := 1; i <= 12; i++ {
		payload.OrganicResults = append(payload.OrganicResults, serp.OrganicResult{
			Link:     fmt.Sprintf("https://site%d.com", i),
			Position: i,
		})
	}
	// Sitelinks beyond the tenth entry do not shape the page.
	payload.OrganicResults[11].Sitelinks = &serp.Sitelinks{Expanded: json.RawMessage(`[]`)}
	payload.OrganicResults[11].SitelinksSearchBox = json.RawMessage(`true`)

	f := ExtractFeatures(payload)
	if f.OrganicResultCount != 10 {
		t.Errorf("expected count capped at 10, got %d", f.OrganicResultCount)
	}
	if f.SitelinksExpanded || f.SitelinksSearchBox {
		t.Errorf("expected sitelinks outside the first ten ignored, got %+v", f)
	}

	payload.OrganicResults[3].Sitelinks = &serp.Sitelinks{Expanded: json.RawMessage(`[]`)}
	f = ExtractFeatures(payload)
	if !f.SitelinksExpanded {
		t.Errorf("expected sitelinks within the first ten detected")
	}
}
