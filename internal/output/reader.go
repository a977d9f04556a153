package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/RankOps/kwgroup/internal/ctr"
	"github.com/RankOps/kwgroup/internal/keyword"
)

// ReadOptions control how a merged fetch output is turned back into
// records.
type ReadOptions struct {
	// PositionCutoff drops links ranked below this organic position
	// (default 10).
	PositionCutoff int
	// RecalcRanks recomputes target/competitor ranks from the links, for
	// standalone grouping runs where the fetch output was produced for a
	// different target. Links are cut to the first 20 and traffic/value
	// rebuilt from the plain-organic CTR curve.
	RecalcRanks       bool
	TargetDomain      string
	CompetitorDomains []string
}

type row struct {
	fields []string
	volume float64
	kw     string
}

// ReadRecords reconstructs keyword records from a merged fetch output.
// Rows are ordered by descending volume then keyword, and consecutive rows
// sharing one keyword fold into a single record, one link per row.
// Competitor columns are discovered from the header.
func ReadRecords(r io.Reader, opts ReadOptions) ([]*keyword.Record, error) {
	if opts.PositionCutoff <= 0 {
		opts.PositionCutoff = 10
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"Keyword", "Link", "Volume"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("input is not a fetch output: missing %q column", required)
		}
	}

	var compCols []int
	for i, name := range header {
		if strings.Contains(name, "Competitor") &&
			!strings.Contains(name, "Score") && !strings.Contains(name, "count") {
			compCols = append(compCols, i)
		}
	}

	get := func(fields []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[i])
	}
	getFloat := func(fields []string, name string) float64 {
		f, _ := strconv.ParseFloat(get(fields, name), 64)
		return f
	}
	getInt := func(fields []string, name string) int {
		f, _ := strconv.ParseFloat(get(fields, name), 64)
		return int(f)
	}

	var rows []row
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		kw := get(fields, "Keyword")
		link := get(fields, "Link")
		volume := get(fields, "Volume")
		if kw == "" || link == "" || volume == "" {
			continue
		}
		v, err := strconv.ParseFloat(volume, 64)
		if err != nil {
			continue
		}
		rows = append(rows, row{fields: fields, volume: v, kw: kw})
	}

	sort.SliceStable(rows, func(a, b int) bool {
		if rows[a].volume != rows[b].volume {
			return rows[a].volume > rows[b].volume
		}
		return rows[a].kw > rows[b].kw
	})

	var records []*keyword.Record
	for i := 0; i < len(rows); {
		first := rows[i].fields
		rec := &keyword.Record{
			Keyword: rows[i].kw,
			Volume:  rows[i].volume,
			Rank: keyword.Rank{
				URL:        get(first, "Client Ranking URL"),
				Position:   getInt(first, "Client Ranking Position"),
				MatchCount: getInt(first, "Client URL Ranking Count"),
			},
			Difficulty:          getFloat(first, "Difficulty"),
			CPC:                 getFloat(first, "CPC"),
			CPS:                 getFloat(first, "CPS"),
			CurrentTraffic:      getFloat(first, "Current Traffic"),
			PotentialTraffic:    getFloat(first, "Potential Traffic"),
			CurrentValue:        getFloat(first, "Current Value"),
			PotentialValue:      getFloat(first, "Potential Value"),
			ValueOpportunity:    getFloat(first, "Value Opportunity"),
			VolumeOpportunity:   getFloat(first, "Volume Opportunity"),
			FibonacciHelper:     getInt(first, "Fibonacci Helper"),
			CompetitorScore:     getInt(first, "Competitor Score"),
			CompetitorRankCount: getInt(first, "Competitor ranking count"),
			PrimaryIntents:      splitIntents(get(first, "Primary Intents")),
			SecondaryIntents:    splitIntents(get(first, "Secondary Intents")),
		}

		for i < len(rows) && rows[i].kw == rec.Keyword {
			fields := rows[i].fields
			rec.Links = append(rec.Links, keyword.Link{
				URL:            keyword.StripFragment(get(fields, "Link")),
				Position:       getInt(fields, "Position"),
				Title:          get(fields, "Title"),
				Snippet:        get(fields, "Snippet"),
				RelatedResults: getInt(fields, "Related Results Count"),
			})
			i++
		}

		for c := 0; c+3 < len(compCols); c += 4 {
			comp := keyword.Rank{}
			if compCols[c] < len(first) {
				comp.URL = strings.TrimSpace(first[compCols[c]])
			}
			if compCols[c+1] < len(first) {
				f, _ := strconv.ParseFloat(strings.TrimSpace(first[compCols[c+1]]), 64)
				comp.Position = int(f)
			}
			if compCols[c+2] < len(first) {
				comp.CurrentTraffic, _ = strconv.ParseFloat(strings.TrimSpace(first[compCols[c+2]]), 64)
			}
			if compCols[c+3] < len(first) {
				comp.CurrentValue, _ = strconv.ParseFloat(strings.TrimSpace(first[compCols[c+3]]), 64)
			}
			rec.CompetitorRanks = append(rec.CompetitorRanks, comp)
		}

		if opts.RecalcRanks {
			recalcRanks(rec, opts.TargetDomain, opts.CompetitorDomains)
		}

		var kept []keyword.Link
		for _, l := range rec.Links {
			if l.Position <= opts.PositionCutoff {
				kept = append(kept, l)
			}
		}
		rec.Links = kept

		records = append(records, rec)
	}
	return records, nil
}

// recalcRanks rebuilds the target and competitor ranks from the record's
// links and derives traffic/value from the plain-organic CTR curve.
func recalcRanks(rec *keyword.Record, targetDomain string, competitorDomains []string) {
	ranks := keyword.CalculateRanks(rec.Links, "", targetDomain, competitorDomains)
	rec.Rank = ranks[0]
	rec.CompetitorRanks = ranks[1:]
	if len(rec.Links) > 20 {
		rec.Links = rec.Links[:20]
	}

	for i := range rec.CompetitorRanks {
		comp := &rec.CompetitorRanks[i]
		if comp.MatchCount > 0 {
			comp.CurrentTraffic = ctr.RankCTR(comp.Position) * rec.Volume * rec.CPS
			comp.CurrentValue = comp.CurrentTraffic * rec.CPC
		}
	}

	rec.PotentialTraffic = ctr.RankCTR(1) * rec.Volume
	rec.CurrentTraffic = ctr.RankCTR(rec.Rank.Position) * rec.Volume * rec.CPS
	rec.CurrentValue = rec.CurrentTraffic * rec.CPC
	rec.PotentialValue = rec.PotentialTraffic * rec.CPC
	rec.ValueOpportunity = rec.PotentialValue - rec.CurrentValue
	rec.VolumeOpportunity = rec.Volume - rec.CurrentTraffic
	rec.FibonacciHelper = ctr.FibonacciHelper(rec.Rank.Position)

	positions := make([]int, len(rec.CompetitorRanks))
	for i, comp := range rec.CompetitorRanks {
		positions[i] = comp.Position
	}
	rec.CompetitorScore, rec.CompetitorRankCount = ctr.CompetitorScore(rec.Rank.Position, positions)
}

func splitIntents(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "/")
}
