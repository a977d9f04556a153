// Package keyword holds the data model shared by the fetch and grouping
// engines: input queries, SERP links, per-domain ranks and the keyword
// record that flows through the whole pipeline.
package keyword

import (
	"regexp"
	"strings"
)

// DefaultVolume is assumed when the input table carries no usable volume.
const DefaultVolume = 5

// Query is one input keyword with its normalized numeric fields.
type Query struct {
	Keyword    string
	Volume     float64
	CPC        float64
	CPS        float64
	Difficulty float64
}

// Link is one organic (or answer-box-as-organic) result. URL is stored with
// the fragment stripped.
type Link struct {
	URL            string
	Position       int
	Title          string
	Snippet        string
	RelatedResults int
}

// Rank describes how one domain ranks for a keyword. Position 0 means the
// domain was not found in the result set.
type Rank struct {
	Position       int
	URL            string
	MatchCount     int
	CurrentTraffic float64
	CurrentValue   float64
}

// Record is the unit flowing through both engines: one keyword with its
// links, intents, ranks and traffic/value estimates. Group membership is
// held as integer ids into a grouping index rather than back-pointers.
type Record struct {
	Keyword          string
	Volume           float64
	Links            []Link
	PrimaryIntents   []string
	SecondaryIntents []string

	Rank            Rank
	CompetitorRanks []Rank

	Difficulty float64
	CPC        float64
	CPS        float64

	CurrentTraffic    float64
	PotentialTraffic  float64
	CurrentValue      float64
	PotentialValue    float64
	ValueOpportunity  float64
	VolumeOpportunity float64

	FibonacciHelper     int
	CompetitorScore     int
	CompetitorRankCount int

	// Filled in by the grouping engine. Overlap counts the links shared
	// with the reference keyword of the assigned group; it is replaced
	// only when a later reference offers a strictly larger overlap.
	VolumePercent float64
	PriorityScore float64
	GroupID       int
	Overlap       int
	SubGroupID    int
	SubOverlap    int
}

// TotalRelatedResults sums the related-results counts over all links.
func (r *Record) TotalRelatedResults() int {
	total := 0
	for _, l := range r.Links {
		total += l.RelatedResults
	}
	return total
}

// StripFragment removes the #fragment part of a URL, if any.
func StripFragment(rawURL string) string {
	if i := strings.IndexByte(rawURL, '#'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}

var slugStrip = regexp.MustCompile(`/blog/|/|\.html|\.php|\.asp`)

// ExtractSlug derives a normalized human-readable fragment from a URL path:
// lower-cased, scheme removed, trailing path segment, hyphens to spaces,
// common suffixes and separators dropped.
func ExtractSlug(rawURL string) string {
	u := strings.ToLower(rawURL)
	u = strings.ReplaceAll(u, "https://", "")
	u = strings.ReplaceAll(u, "http://", "")

	var last string
	for _, part := range strings.Split(u, "/") {
		if part != "" {
			last = part
		}
	}
	last = strings.ReplaceAll(last, "-", " ")
	return slugStrip.ReplaceAllString(last, "")
}
