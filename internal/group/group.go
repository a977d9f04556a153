// Package group partitions keyword records into topical groups by shared
// organic-result overlap and derives per-group analytics. The greedy
// quadratic scan is intentional: it preserves the exact re-assignment
// semantics downstream consumers depend on, so keyword set sizes must be
// planned with O(n²) cost in mind.
package group

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/RankOps/kwgroup/internal/keyword"
)

// Group is one topical cluster and its derived aggregates. Members
// reference a Group by its integer number through an Index rather than by
// pointer, keeping the object graph acyclic.
type Group struct {
	Number        int
	MainKeyword   string
	CommonLinks   []string
	LinksInCommon int

	HighestVolume        float64
	HighestVolumeKeyword string

	AverageDifficulty    float64
	AverageRank          float64
	SumCurrentValues     float64
	RankPercentage       float64
	TopicVolume          float64
	QuartileVolume       float64
	AverageRankQuartile  float64
	SumValueOpportunity  float64
	SumVolumeOpportunity float64
	VariantCount         int
	Relevancy            float64

	AutoMappedURL            string
	PotentialContentGap      bool
	TotalContentGap          bool
	KeywordGap               bool
	PotentialCannibalization bool
}

// Index is an arena of groups addressed by their 1-based number. Numbers
// form a contiguous sequence in creation order.
type Index struct {
	groups []*Group
}

// NewIndex returns an empty group arena.
func NewIndex() *Index {
	return &Index{}
}

// New allocates the next group with default aggregate values.
func (ix *Index) New() *Group {
	g := &Group{
		Number:          len(ix.groups) + 1,
		AverageRank:     101,
		Relevancy:       1.0,
		TotalContentGap: true,
	}
	ix.groups = append(ix.groups, g)
	return g
}

// Get resolves a group number; 0 (unassigned) resolves to nil.
func (ix *Index) Get(number int) *Group {
	if number < 1 || number > len(ix.groups) {
		return nil
	}
	return ix.groups[number-1]
}

// Len is the number of groups created so far.
func (ix *Index) Len() int {
	return len(ix.groups)
}

// Options carry the side-channel hooks for a grouping run. All fields are
// optional.
type Options struct {
	Logger *slog.Logger
	// Progress receives coarse completion percentages.
	Progress func(progress float64)
	// StartProgress and Increment shape the progress schedule; the run
	// advances by Increment roughly ten times.
	StartProgress float64
	Increment     float64
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

func (o Options) progress(p float64) {
	if o.Progress != nil {
		o.Progress(p)
	}
}

// intersectLinks returns the URLs of lst1 entries that also occur in lst2.
func intersectLinks(lst1, lst2 []keyword.Link) []string {
	var intersection []string
	for _, l1 := range lst1 {
		for _, l2 := range lst2 {
			if l1.URL == l2.URL {
				intersection = append(intersection, l1.URL)
				break
			}
		}
	}
	return intersection
}

func linkURLs(links []keyword.Link) []string {
	urls := make([]string, len(links))
	for i, l := range links {
		urls[i] = l.URL
	}
	return urls
}

// Partition assigns every record to exactly one group. Records are scanned
// in input order; each still-ungrouped record seeds a new group with its own
// links as the common set, then every record whose overlap with the seed
// reaches the threshold joins, stealing the record from an earlier group
// only when the new overlap is strictly greater. On equal overlap the first
// discovered group keeps the member.
//
// The returned records are ordered by descending (group topic volume,
// member volume) once Aggregate has run; Partition itself leaves them
// sorted by group number.
func Partition(records []*keyword.Record, threshold int, opts Options) *Index {
	ix := NewIndex()
	log := opts.logger()
	total := len(records)
	progressStep := total / 10
	if opts.Increment == 0 {
		opts.Increment = 8
	}
	progress := opts.StartProgress

	slugs := newSlugSet()
	for i := 0; i < total; i++ {
		if url := records[i].Rank.URL; url != "" {
			slugs.add(keyword.ExtractSlug(url), url)
		}
		if records[i].GroupID == 0 {
			if (ix.Len() % 1000) == 0 {
				log.Info(fmt.Sprintf("creating groups %d-%d", ix.Len()+1, ix.Len()+1000))
			}
			g := ix.New()
			g.MainKeyword = records[i].Keyword
			g.CommonLinks = linkURLs(records[i].Links)
			g.LinksInCommon = len(g.CommonLinks)
			records[i].GroupID = g.Number
			records[i].Overlap = g.LinksInCommon

			for j := 0; j < total; j++ {
				overlap := intersectLinks(records[i].Links, records[j].Links)
				n := len(overlap)
				if n >= threshold && (records[j].GroupID == 0 || n > records[j].Overlap) {
					records[j].GroupID = g.Number
					records[j].Overlap = n
				}
			}
		}
		if i == progressStep && total >= 10 {
			progress += opts.Increment
			opts.progress(progress)
			progressStep += total / 10
		}
	}

	sort.SliceStable(records, func(a, b int) bool {
		return records[a].GroupID < records[b].GroupID
	})
	log.Info(fmt.Sprintf("created %d groups", ix.Len()))

	ix.autoMap(records, slugs)
	return ix
}

// SortGrouped orders grouped records for output: descending group topic
// volume, then member volume; with sub-groups present, sub-group topic
// volume breaks ties between members of one group.
func SortGrouped(records []*keyword.Record, ix, sub *Index) {
	sort.SliceStable(records, func(a, b int) bool {
		ga, gb := ix.Get(records[a].GroupID), ix.Get(records[b].GroupID)
		if ga.TopicVolume != gb.TopicVolume {
			return ga.TopicVolume > gb.TopicVolume
		}
		if sub != nil {
			sa, sb := sub.Get(records[a].SubGroupID), sub.Get(records[b].SubGroupID)
			va, vb := 0.0, 0.0
			if sa != nil {
				va = sa.TopicVolume
			}
			if sb != nil {
				vb = sb.TopicVolume
			}
			if va != vb {
				return va > vb
			}
		}
		return records[a].Volume > records[b].Volume
	})
}

// linksAbove filters a record's links to positions at or above the cutoff.
func linksAbove(rec *keyword.Record, cutoff int) []keyword.Link {
	var links []keyword.Link
	for _, l := range rec.Links {
		if l.Position <= cutoff {
			links = append(links, l)
		}
	}
	return links
}

// subPartition runs the greedy overlap scan over one group's members at the
// stricter threshold, restricted to links at or above the position cutoff.
// The highest-volume member of each sub-group is tracked as members are
// discovered.
func subPartition(members []*keyword.Record, sub *Index, threshold, cutoff int) {
	total := len(members)
	for i := 0; i < total; i++ {
		if members[i].SubGroupID != 0 {
			continue
		}
		mainLinks := linksAbove(members[i], cutoff)
		sg := sub.New()
		sg.MainKeyword = members[i].Keyword
		sg.CommonLinks = linkURLs(mainLinks)
		sg.LinksInCommon = len(sg.CommonLinks)
		sg.HighestVolume = members[i].Volume
		sg.HighestVolumeKeyword = members[i].Keyword
		members[i].SubGroupID = sg.Number
		members[i].SubOverlap = sg.LinksInCommon

		for j := 0; j < total; j++ {
			variantLinks := linksAbove(members[j], cutoff)
			overlap := intersectLinks(mainLinks, variantLinks)
			n := len(overlap)
			if n >= threshold && (members[j].SubGroupID == 0 || n > members[j].SubOverlap) {
				if members[j].Volume > sg.HighestVolume {
					sg.HighestVolume = members[j].Volume
					sg.HighestVolumeKeyword = members[j].Keyword
				}
				members[j].SubGroupID = sg.Number
				members[j].SubOverlap = n
			}
		}
	}
}

// SubPartition computes the finer partition for every group under the hard
// threshold and fills sub-group topic volumes. It expects records already
// grouped and aggregated.
func SubPartition(records []*keyword.Record, ix *Index, threshold, cutoff int, opts Options) *Index {
	sub := NewIndex()
	log := opts.logger()
	if opts.Increment == 0 {
		opts.Increment = 4
	}
	progress := opts.StartProgress

	var order []int
	byGroup := make(map[int][]*keyword.Record)
	for _, rec := range records {
		if _, seen := byGroup[rec.GroupID]; !seen {
			order = append(order, rec.GroupID)
		}
		byGroup[rec.GroupID] = append(byGroup[rec.GroupID], rec)
	}

	progressStep := len(order) / 10
	for i, number := range order {
		if ((number - 1) % 1000) == 0 {
			log.Info(fmt.Sprintf("creating sub-groups for group %d", number))
		}
		members := byGroup[number]
		subPartition(members, sub, threshold, cutoff)

		volumes := make(map[int]float64)
		for _, rec := range members {
			volumes[rec.SubGroupID] += rec.Volume
		}
		for id, v := range volumes {
			sub.Get(id).TopicVolume = v
		}
		if i == progressStep && len(order) >= 10 {
			progress += opts.Increment
			opts.progress(progress)
			progressStep += len(order) / 10
		}
	}

	SortGrouped(records, ix, sub)
	return sub
}
