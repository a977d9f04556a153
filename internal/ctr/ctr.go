// Package ctr implements the SERP feature model: the CTR-index decision
// rules, the per-rank CTR lookup, and the rank-derived helper scores used
// for group prioritization.
package ctr

// Features captures the composition of one result page. The flags are set
// from the presence of the corresponding blocks in the search API payload.
type Features struct {
	AnswerBox          bool
	OrganicResultCount int
	AdTopCount         int
	AdBottomCount      int
	AdRightCount       int
	FeaturedSnippet    bool
	SitelinksSearchBox bool
	SitelinksExpanded  bool
	SitelinksInline    bool
	EventsResults      bool
	InlineImages       bool
	PeopleAlsoSearch   bool
	ShoppingResults    bool
	InlineVideos       bool
	VideoCarousels     bool
	KnowledgeGraph     bool
	LocalResults       bool
	NewsResults        bool
	TopStories         bool
	InlineProducts     bool
	RecipesResults     bool
	RelatedQuestions   bool
	TwitterResults     bool
}

func (f Features) video() bool    { return f.InlineVideos || f.VideoCarousels }
func (f Features) sitelink() bool { return f.SitelinksSearchBox || f.SitelinksExpanded }

// Commercial reports whether the page carries any commercial signal:
// inline products, ads in any placement, or shopping results.
func (f Features) Commercial() bool {
	return f.InlineProducts || f.AdTopCount > 0 || f.AdBottomCount > 0 ||
		f.AdRightCount > 0 || f.ShoppingResults
}

type rule struct {
	match func(Features) bool
	index int
}

// ctrRules is evaluated in order and the last matching rule wins, so the
// more specific multi-flag combinations placed later override the single
// flag ones. The order encodes real-world CTR curve distortions and must
// not be rearranged.
var ctrRules = []rule{
	{func(f Features) bool { return f.LocalResults }, 2},
	{func(f Features) bool { return f.PeopleAlsoSearch }, 3},
	{func(f Features) bool { return f.KnowledgeGraph }, 4},
	{func(f Features) bool { return f.video() }, 5},
	{func(f Features) bool { return f.AnswerBox }, 6},
	{func(f Features) bool { return f.FeaturedSnippet }, 7},
	{func(f Features) bool { return f.sitelink() }, 8},
	{func(f Features) bool { return f.TopStories }, 9},
	{func(f Features) bool { return f.FeaturedSnippet && f.PeopleAlsoSearch }, 10},
	{func(f Features) bool { return f.video() && f.PeopleAlsoSearch }, 11},
	{func(f Features) bool { return f.PeopleAlsoSearch && f.LocalResults }, 12},
	{func(f Features) bool { return f.KnowledgeGraph && f.PeopleAlsoSearch }, 13},
	{func(f Features) bool { return f.KnowledgeGraph && f.sitelink() }, 14},
	{func(f Features) bool { return f.KnowledgeGraph && f.video() }, 15},
	{func(f Features) bool { return f.FeaturedSnippet && f.video() }, 16},
	{func(f Features) bool { return f.video() && f.LocalResults }, 17},
	{func(f Features) bool { return f.PeopleAlsoSearch && f.AnswerBox }, 18},
	{func(f Features) bool { return f.sitelink() && f.PeopleAlsoSearch }, 19},
	{func(f Features) bool { return f.sitelink() && f.video() }, 20},
	{func(f Features) bool { return f.sitelink() && f.LocalResults }, 21},
	{func(f Features) bool { return f.video() && f.AnswerBox }, 22},
	{func(f Features) bool { return f.TopStories && f.PeopleAlsoSearch }, 23},
	{func(f Features) bool { return f.PeopleAlsoSearch && f.RecipesResults }, 24},
	{func(f Features) bool { return f.video() && f.RecipesResults }, 25},
	{func(f Features) bool { return f.KnowledgeGraph && f.AnswerBox }, 26},
	{func(f Features) bool { return f.FeaturedSnippet && f.LocalResults }, 27},
	{func(f Features) bool { return f.KnowledgeGraph && f.LocalResults }, 28},
	{func(f Features) bool { return f.FeaturedSnippet && f.video() && f.PeopleAlsoSearch }, 29},
	{func(f Features) bool { return f.video() && f.PeopleAlsoSearch && f.LocalResults }, 30},
	{func(f Features) bool { return f.sitelink() && f.video() && f.PeopleAlsoSearch }, 31},
	{func(f Features) bool { return f.video() && f.PeopleAlsoSearch && f.LocalResults }, 32},
	{func(f Features) bool { return f.KnowledgeGraph && f.PeopleAlsoSearch && f.AnswerBox }, 33},
	{func(f Features) bool { return f.TopStories && f.video() && f.PeopleAlsoSearch }, 34},
	{func(f Features) bool { return f.FeaturedSnippet && f.KnowledgeGraph && f.PeopleAlsoSearch }, 35},
	{func(f Features) bool { return f.KnowledgeGraph && f.sitelink() && f.PeopleAlsoSearch }, 36},
	{func(f Features) bool { return f.FeaturedSnippet && f.PeopleAlsoSearch && f.LocalResults }, 37},
	{func(f Features) bool { return f.video() && f.PeopleAlsoSearch && f.RecipesResults }, 38},
	{func(f Features) bool { return f.KnowledgeGraph && f.PeopleAlsoSearch && f.LocalResults }, 39},
	{func(f Features) bool { return f.sitelink() && f.PeopleAlsoSearch && f.LocalResults }, 40},
	{func(f Features) bool { return f.KnowledgeGraph && f.TopStories && f.PeopleAlsoSearch }, 41},
	{func(f Features) bool { return f.TopStories && f.PeopleAlsoSearch && f.LocalResults }, 42},
	{func(f Features) bool { return f.KnowledgeGraph && f.video() && f.PeopleAlsoSearch }, 43},
	{func(f Features) bool { return f.KnowledgeGraph && f.sitelink() && f.video() }, 44},
	{func(f Features) bool { return f.KnowledgeGraph && f.video() && f.PeopleAlsoSearch && f.AnswerBox }, 45},
	{func(f Features) bool { return f.FeaturedSnippet && f.KnowledgeGraph && f.video() && f.PeopleAlsoSearch }, 46},
	{func(f Features) bool { return f.KnowledgeGraph && f.sitelink() && f.video() && f.PeopleAlsoSearch }, 47},
	{func(f Features) bool { return f.KnowledgeGraph && f.TopStories && f.video() && f.PeopleAlsoSearch }, 48},
	{func(f Features) bool { return f.KnowledgeGraph && f.sitelink() && f.TwitterResults && f.PeopleAlsoSearch }, 49},
	{func(f Features) bool { return f.KnowledgeGraph && f.video() && f.PeopleAlsoSearch && f.LocalResults }, 50},
	{func(f Features) bool { return f.FeaturedSnippet && f.video() && f.PeopleAlsoSearch && f.LocalResults }, 51},
	{func(f Features) bool { return f.KnowledgeGraph && f.sitelink() && f.PeopleAlsoSearch && f.LocalResults }, 52},
	{func(f Features) bool { return f.KnowledgeGraph && f.video() && f.TwitterResults && f.PeopleAlsoSearch }, 53},
	{func(f Features) bool { return f.KnowledgeGraph && f.video() && f.PeopleAlsoSearch && f.RecipesResults }, 54},
	{func(f Features) bool { return f.TopStories && f.video() && f.PeopleAlsoSearch && f.LocalResults }, 55},
	{func(f Features) bool { return f.sitelink() && f.TopStories && f.video() && f.PeopleAlsoSearch }, 56},
	{func(f Features) bool {
		return f.KnowledgeGraph && f.sitelink() && f.video() && f.TwitterResults && f.PeopleAlsoSearch
	}, 57},
	{func(f Features) bool {
		return f.KnowledgeGraph && f.sitelink() && f.TopStories && f.TwitterResults && f.PeopleAlsoSearch
	}, 58},
	{func(f Features) bool {
		return f.KnowledgeGraph && f.sitelink() && f.TopStories && f.video() && f.PeopleAlsoSearch
	}, 59},
	{func(f Features) bool {
		return f.KnowledgeGraph && f.sitelink() && f.TopStories && f.TwitterResults && f.PeopleAlsoSearch && f.LocalResults
	}, 60},
	{func(f Features) bool {
		return f.KnowledgeGraph && f.sitelink() && f.TopStories && f.video() && f.TwitterResults && f.PeopleAlsoSearch
	}, 61},
	{func(f Features) bool {
		return f.KnowledgeGraph && f.TopStories && f.video() && f.TwitterResults && f.PeopleAlsoSearch && f.LocalResults
	}, 62},
}

// Index selects the CTR matrix row for a feature combination. Pages without
// organic results map to row 0, plain organic pages to row 1, and every
// matching rule after that overrides the previous selection.
func Index(f Features) int {
	if f.OrganicResultCount == 0 {
		return 0
	}
	index := 1
	for _, r := range ctrRules {
		if r.match(f) {
			index = r.index
		}
	}
	return index
}

// Values returns the realized CTR for the given 1-based ranking position and
// the potential CTR (position 1) as fractions, both taken from the matrix
// row selected by the feature combination. Positions outside 1..20 use the
// worst tracked rank.
func Values(f Features, rankingPosition int) (current, potential float64) {
	row := ctrMatrix[Index(f)]
	col := rankingPosition - 1
	if col < 0 || col > 19 {
		col = 19
	}
	return row[col] / 100, row[0] / 100
}

// RankCTR is the plain-organic CTR fraction for a 1-based position, used
// when ranks are recomputed without SERP features at hand.
func RankCTR(position int) float64 {
	if position < 1 || position > 20 {
		position = 20
	}
	return ctrMatrix[1][position-1] / 100
}

// FibonacciHelper rewards better ranking positions with a banded score.
func FibonacciHelper(position int) int {
	switch {
	case position <= 3:
		return 13
	case position <= 10:
		return 8
	case position <= 20:
		return 5
	case position <= 30:
		return 3
	case position <= 40:
		return 1
	default:
		return 0
	}
}

var fibScores = [12]int{1, 2, 3, 5, 8, 13, 21, 34, 55, 89, 144, 233}

// CompetitorScore counts how many of the target and competitor positions
// rank at 30 or better and maps that count onto a fibonacci series, capping
// the count at 11. A position of 0 ("not found") still counts, the same way
// FibonacciHelper folds it into the best band.
func CompetitorScore(targetPosition int, competitorPositions []int) (score, count int) {
	if targetPosition <= 30 {
		count++
	}
	for _, p := range competitorPositions {
		if p <= 30 {
			count++
		}
	}
	if count > 11 {
		count = 11
	}
	return fibScores[count], count
}
