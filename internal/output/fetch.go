// Package output owns the flat tabular formats the pipeline reads and
// writes: the per-link fetch view (top and bulk series share it), the
// grouped report, and the reader that reconstructs keyword records from a
// merged fetch output.
package output

import (
	"strconv"

	"github.com/RankOps/kwgroup/internal/keyword"
)

var fetchColumns = []string{
	"Keyword", "Volume", "Link", "Position", "Title", "Snippet",
	"Primary Intents", "Secondary Intents",
	"Client Ranking URL", "Client Ranking Position", "Client URL Ranking Count",
	"CPC", "CPS", "Difficulty",
	"Current Traffic", "Potential Traffic", "Current Value", "Potential Value",
	"Fibonacci Helper", "Value Opportunity", "Volume Opportunity",
	"Competitor Score", "Competitor ranking count", "Related Results Count",
}

// competitorColumns appends one lettered 4-column block per competitor.
func competitorColumns(header []string, count int) []string {
	letter := 'A'
	for i := 0; i < count; i++ {
		header = append(header,
			"Competitor "+string(letter)+" ranking URL",
			"Competitor "+string(letter)+" rank",
			"Competitor "+string(letter)+" current traffic",
			"Competitor "+string(letter)+" current value",
		)
		letter++
	}
	return header
}

// FetchHeader is the header row for a fetch-view file carrying the given
// number of competitor blocks.
func FetchHeader(competitorCount int) []string {
	header := append([]string(nil), fetchColumns...)
	return competitorColumns(header, competitorCount)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatRounded(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FetchRows flattens one record into one row per link.
func FetchRows(rec *keyword.Record) [][]string {
	rows := make([][]string, 0, len(rec.Links))
	for _, link := range rec.Links {
		row := []string{
			rec.Keyword,
			formatFloat(rec.Volume),
			link.URL,
			strconv.Itoa(link.Position),
			link.Title,
			link.Snippet,
			joinIntents(rec.PrimaryIntents),
			joinIntents(rec.SecondaryIntents),
			rec.Rank.URL,
			strconv.Itoa(rec.Rank.Position),
			strconv.Itoa(rec.Rank.MatchCount),
			formatFloat(rec.CPC),
			formatFloat(rec.CPS),
			formatFloat(rec.Difficulty),
			formatFloat(rec.CurrentTraffic),
			formatFloat(rec.PotentialTraffic),
			formatFloat(rec.CurrentValue),
			formatFloat(rec.PotentialValue),
			strconv.Itoa(rec.FibonacciHelper),
			formatFloat(rec.PotentialValue - rec.CurrentValue),
			formatFloat(rec.Volume - rec.CurrentTraffic),
			strconv.Itoa(rec.CompetitorScore),
			strconv.Itoa(rec.CompetitorRankCount),
			strconv.Itoa(link.RelatedResults),
		}
		for _, comp := range rec.CompetitorRanks {
			row = append(row,
				comp.URL,
				strconv.Itoa(comp.Position),
				formatFloat(comp.CurrentTraffic),
				formatFloat(comp.CurrentValue),
			)
		}
		rows = append(rows, row)
	}
	return rows
}

func joinIntents(intents []string) string {
	out := ""
	for i, intent := range intents {
		if i > 0 {
			out += "/"
		}
		out += intent
	}
	return out
}
