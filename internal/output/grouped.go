package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/RankOps/kwgroup/internal/group"
	"github.com/RankOps/kwgroup/internal/keyword"
)

var groupColumns = []string{
	"Group Number", "Main Keyword", "Keyword", "Links in Common",
	"Volume", "Primary Intents", "Secondary Intents",
	"Client Ranking URL", "Client Ranking Position", "Client URL Ranking Count",
	"CPC", "Variant Count", "Difficulty", "Average KW Difficulty",
	"Current Traffic", "Potential Traffic", "Current Value", "Potential Value",
	"Value Opportunity", "Average Rank", "Sum of Current Values",
	"Rank Percentage", "Sum Value Opportunity", "Sum Volume Opportunity",
	"Topic Volume", "Volume Percent", "Quartile Volume", "Average Rank Quartile",
	"Priority Score", "Auto Mapped URL",
	"Potential Content Gap", "Total Content Gap", "Keyword Gap", "Potential Cannibalization",
}

// GroupedHeader builds the header for a grouped report. The sub-group
// layout adds the highest-volume keyword and sub-group topic volume
// columns; both layouts end with the shared score columns and one lettered
// block per competitor.
func GroupedHeader(withSubGroups bool, competitorCount int) []string {
	var header []string
	for _, col := range groupColumns {
		header = append(header, col)
		if withSubGroups {
			switch col {
			case "Links in Common":
				header = append(header, "Highest Volume Keyword")
			case "Priority Score":
				header = append(header, "Sub Group Topic Volume")
			}
		}
	}
	header = append(header, "Competitor Score", "Relevancy", "Competitor ranking count", "Related results count")
	return competitorColumns(header, competitorCount)
}

// GroupedRow flattens one grouped record.
func GroupedRow(rec *keyword.Record, ix, sub *group.Index, withSubGroups bool) []string {
	g := ix.Get(rec.GroupID)

	row := []string{
		strconv.Itoa(g.Number),
		g.MainKeyword,
		rec.Keyword,
		strconv.Itoa(rec.Overlap),
	}
	if withSubGroups {
		sg := sub.Get(rec.SubGroupID)
		row = append(row, sg.HighestVolumeKeyword)
	}
	row = append(row,
		formatFloat(rec.Volume),
		joinIntents(rec.PrimaryIntents),
		joinIntents(rec.SecondaryIntents),
		rec.Rank.URL,
		strconv.Itoa(rec.Rank.Position),
		strconv.Itoa(rec.Rank.MatchCount),
		formatRounded(rec.CPC),
		strconv.Itoa(g.VariantCount),
		formatRounded(rec.Difficulty),
		formatRounded(g.AverageDifficulty),
		formatRounded(rec.CurrentTraffic),
		formatRounded(rec.PotentialTraffic),
		formatRounded(rec.CurrentValue),
		formatRounded(rec.PotentialValue),
		formatRounded(rec.PotentialValue-rec.CurrentValue),
		formatRounded(g.AverageRank),
		formatRounded(g.SumCurrentValues),
		formatRounded(g.RankPercentage),
		formatRounded(g.SumValueOpportunity),
		formatRounded(g.SumVolumeOpportunity),
		formatRounded(g.TopicVolume),
		formatRounded(rec.VolumePercent),
		formatRounded(g.QuartileVolume),
		formatRounded(g.AverageRankQuartile),
		formatRounded(rec.PriorityScore),
	)
	if withSubGroups {
		sg := sub.Get(rec.SubGroupID)
		row = append(row, formatRounded(sg.TopicVolume))
	}
	row = append(row,
		g.AutoMappedURL,
		strconv.FormatBool(g.PotentialContentGap),
		strconv.FormatBool(g.TotalContentGap),
		strconv.FormatBool(g.KeywordGap),
		strconv.FormatBool(g.PotentialCannibalization),
		strconv.Itoa(rec.CompetitorScore),
		formatRounded(g.Relevancy),
		strconv.Itoa(rec.CompetitorRankCount),
		strconv.Itoa(rec.TotalRelatedResults()),
	)
	for _, comp := range rec.CompetitorRanks {
		row = append(row,
			comp.URL,
			strconv.Itoa(comp.Position),
			formatRounded(comp.CurrentTraffic),
			formatRounded(comp.CurrentValue),
		)
	}
	return row
}

// WriteGrouped serializes grouped (and optionally sub-grouped) records.
// The competitor block count follows the data, not a fixed schema.
func WriteGrouped(w io.Writer, records []*keyword.Record, ix, sub *group.Index) error {
	cw := csv.NewWriter(w)

	competitorCount := 0
	if len(records) > 0 {
		competitorCount = len(records[0].CompetitorRanks)
	}
	withSubGroups := sub != nil

	if err := cw.Write(GroupedHeader(withSubGroups, competitorCount)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		if err := cw.Write(GroupedRow(rec, ix, sub, withSubGroups)); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}
