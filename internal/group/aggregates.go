package group

import (
	"math"
	"sort"

	"github.com/RankOps/kwgroup/internal/keyword"
)

// Run partitions the records at the threshold and computes every per-group
// aggregate, returning the group index. Records are left sorted for output.
func Run(records []*keyword.Record, threshold int, opts Options) *Index {
	ix := Partition(records, threshold, opts)
	Aggregate(records, ix)
	return ix
}

// Aggregate computes the derived statistics for every group over its member
// list, in dependency order, then orders the records for output. Content
// gap and cannibalization flags are computed once per group and exposed to
// every member through the shared Group.
func Aggregate(records []*keyword.Record, ix *Index) {
	members := make(map[int][]*keyword.Record)
	for _, rec := range records {
		members[rec.GroupID] = append(members[rec.GroupID], rec)
	}

	for number := 1; number <= ix.Len(); number++ {
		list := members[number]
		if len(list) == 0 {
			continue
		}
		g := ix.Get(number)
		aggregateGroup(g, list)
		if g.AverageRankQuartile >= 10 {
			g.PotentialContentGap = hasPotentialContentGap(records, number, mostFrequentURL(list))
		}
		g.TotalContentGap = isTotalContentGap(list)
		g.KeywordGap = hasKeywordGap(g, list)
		g.PotentialCannibalization = hasPotentialCannibalization(list)
	}

	SortGrouped(records, ix, nil)
}

func aggregateGroup(g *Group, list []*keyword.Record) {
	count := float64(len(list))

	var difficulty, rank, values, fib, volume float64
	for _, rec := range list {
		difficulty += rec.Difficulty
		rank += float64(rec.Rank.Position)
		values += rec.CurrentValue
		fib += float64(rec.FibonacciHelper)
		volume += rec.Volume
	}
	g.AverageDifficulty = difficulty / count
	g.AverageRank = rank / count
	g.SumCurrentValues = values
	g.RankPercentage = fib / (count * 13) * 100
	g.TopicVolume = volume

	for _, rec := range list {
		if g.TopicVolume > 0 {
			rec.VolumePercent = rec.Volume / g.TopicVolume
		}
	}

	percents := make([]float64, len(list))
	for i, rec := range list {
		percents[i] = rec.VolumePercent
	}
	g.QuartileVolume = quantile(percents, 0.75)

	var quartileRank float64
	quartileCount := 0
	for _, rec := range list {
		if rec.VolumePercent >= g.QuartileVolume {
			quartileRank += float64(rec.Rank.Position)
			quartileCount++
		}
	}
	if quartileCount > 0 {
		g.AverageRankQuartile = quartileRank / float64(quartileCount)
	}

	var valueOpp, volumeOpp float64
	for _, rec := range list {
		valueOpp += rec.ValueOpportunity
		volumeOpp += rec.VolumeOpportunity
	}
	g.SumValueOpportunity = valueOpp
	g.SumVolumeOpportunity = volumeOpp

	for _, rec := range list {
		if g.AverageRankQuartile != 0 {
			rec.PriorityScore = g.RankPercentage * g.SumValueOpportunity / g.AverageRankQuartile
		}
	}

	g.VariantCount = len(list)

	var compScore float64
	for _, rec := range list {
		compScore += float64(rec.CompetitorScore)
	}
	g.Relevancy = compScore / count
}

// quantile computes the q-th quantile of values with linear interpolation
// between the two nearest order statistics. The grouping analytics depend
// on this exact interpolation, which differs from the cumulant definitions
// general statistics libraries use.
func quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	pos := float64(len(sorted)-1) * q
	lower := int(math.Floor(pos))
	if lower >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lower)
	return sorted[lower] + frac*(sorted[lower+1]-sorted[lower])
}

// mostFrequentURL picks the ranking URL occurring most often among the
// members, breaking count ties in favor of the first-seen URL.
func mostFrequentURL(list []*keyword.Record) string {
	counts := make(map[string]int)
	var order []string
	for _, rec := range list {
		url := rec.Rank.URL
		if url == "" {
			continue
		}
		if _, seen := counts[url]; !seen {
			order = append(order, url)
		}
		counts[url]++
	}
	best, bestCount := "", 0
	for _, url := range order {
		if counts[url] > bestCount {
			best = url
			bestCount = counts[url]
		}
	}
	return best
}

// hasPotentialContentGap reports whether a keyword outside the group ranks
// in the top 10 with the group's most frequent ranking URL.
func hasPotentialContentGap(records []*keyword.Record, number int, mostFrequent string) bool {
	if mostFrequent == "" {
		return false
	}
	for _, rec := range records {
		if rec.GroupID != number &&
			rec.Rank.Position >= 1 && rec.Rank.Position <= 10 &&
			rec.Rank.URL == mostFrequent {
			return true
		}
	}
	return false
}

// isTotalContentGap is true while no member has any own-domain match.
func isTotalContentGap(list []*keyword.Record) bool {
	for _, rec := range list {
		if rec.Rank.MatchCount > 0 {
			return false
		}
	}
	return true
}

// hasKeywordGap reports whether a high-volume member (at or above the
// quartile volume share) has no own-domain match at all.
func hasKeywordGap(g *Group, list []*keyword.Record) bool {
	for _, rec := range list {
		if rec.Rank.MatchCount == 0 && rec.VolumePercent >= g.QuartileVolume {
			return true
		}
	}
	return false
}

// hasPotentialCannibalization reports whether two distinct members rank in
// the top 20 with the same ranking URL.
func hasPotentialCannibalization(list []*keyword.Record) bool {
	seen := make(map[string]struct{})
	for _, rec := range list {
		if rec.Rank.Position < 1 || rec.Rank.Position > 20 {
			continue
		}
		if _, dup := seen[rec.Rank.URL]; dup {
			return true
		}
		seen[rec.Rank.URL] = struct{}{}
	}
	return false
}
