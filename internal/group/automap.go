package group

import (
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/RankOps/kwgroup/internal/keyword"
)

// fuzzyMatchFloor is the minimum token-sort similarity a keyword must reach
// before a slug's URL is mapped onto its group.
const fuzzyMatchFloor = 80

// slugSet keeps slug→URL pairs in first-seen order so the mapping pass is
// deterministic. A re-added slug keeps its position but takes the new URL.
type slugSet struct {
	order []string
	urls  map[string]string
}

func newSlugSet() *slugSet {
	return &slugSet{urls: make(map[string]string)}
}

func (s *slugSet) add(slug, url string) {
	if slug == "" {
		return
	}
	if _, seen := s.urls[slug]; !seen {
		s.order = append(s.order, slug)
	}
	s.urls[slug] = url
}

// autoMap assigns each distinct ranking-URL slug to the group of the
// keyword it matches best. An exact keyword-equals-slug match wins
// outright; otherwise the highest token-sort ratio above the floor wins,
// with the first-seen keyword keeping ties.
func (ix *Index) autoMap(records []*keyword.Record, slugs *slugSet) {
	for _, slug := range slugs.order {
		best := fuzzyMatchFloor
		bestGroup := 0
		for _, rec := range records {
			if rec.Keyword == slug {
				best = 101
				bestGroup = rec.GroupID
				break
			}
			if score := fuzzy.TokenSortRatio(rec.Keyword, slug); score > best {
				best = score
				bestGroup = rec.GroupID
			}
		}
		if bestGroup != 0 {
			ix.Get(bestGroup).AutoMappedURL = slugs.urls[slug]
		}
	}
}
