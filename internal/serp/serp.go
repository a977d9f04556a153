// Package serp talks to the external search API and models just enough of
// its response. The pipeline depends only on the presence or absence of the
// named payload blocks, so feature sections are kept as raw JSON rather than
// fully decoded.
package serp

import (
	"context"
	"encoding/json"
)

// Params describe one search request.
type Params struct {
	Engine   string
	Query    string
	Location string
	GL       string
	APIKey   string
	Num      int
}

// Client abstracts the search API. Implementations may be HTTP-backed or
// in-memory fakes for tests.
type Client interface {
	Search(ctx context.Context, params Params) (*Payload, error)
}

// SearchInformation carries response metadata; a present spelling_fix key
// marks the response as answering a corrected query.
type SearchInformation struct {
	SpellingFix json.RawMessage `json:"spelling_fix"`
}

// AnswerBox is the answer box block. Type "organic_result" means the box is
// an organic result promoted to position 1.
type AnswerBox struct {
	Type    string `json:"type"`
	Link    string `json:"link"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// Sitelinks holds the sitelink variants attached to an organic result.
type Sitelinks struct {
	Expanded json.RawMessage `json:"expanded"`
	Inline   json.RawMessage `json:"inline"`
}

// OrganicResult is one organic listing.
type OrganicResult struct {
	Link               string            `json:"link"`
	Position           int               `json:"position"`
	Title              string            `json:"title"`
	Snippet            string            `json:"snippet"`
	Sitelinks          *Sitelinks        `json:"sitelinks"`
	SitelinksSearchBox json.RawMessage   `json:"sitelinks_search_box"`
	RelatedResults     []json.RawMessage `json:"related_results"`
}

// Ad is one paid listing; only its placement matters here.
type Ad struct {
	BlockPosition string `json:"block_position"`
}

// Payload is the structured response for one query.
type Payload struct {
	SearchInformation *SearchInformation `json:"search_information"`
	AnswerBox         *AnswerBox         `json:"answer_box"`
	AnswerBoxList     json.RawMessage    `json:"answer_box_list"`
	OrganicResults    []OrganicResult    `json:"organic_results"`
	Ads               []Ad               `json:"ads"`

	EventsResults        json.RawMessage `json:"events_results"`
	InlineImages         json.RawMessage `json:"inline_images"`
	PeopleAlsoSearchFor  json.RawMessage `json:"inline_people_also_search_for"`
	ShoppingResults      json.RawMessage `json:"shopping_results"`
	InlineVideos         json.RawMessage `json:"inline_videos"`
	InlineVideoCarousels json.RawMessage `json:"inline_video_carousels"`
	KnowledgeGraph       json.RawMessage `json:"knowledge_graph"`
	LocalResults         json.RawMessage `json:"local_results"`
	LocalAds             json.RawMessage `json:"local_ads"`
	NewsResults          json.RawMessage `json:"news_results"`
	TopStories           json.RawMessage `json:"top_stories"`
	InlineProducts       json.RawMessage `json:"inline_products"`
	RecipesResults       json.RawMessage `json:"recipes_results"`
	RelatedQuestions     json.RawMessage `json:"related_questions"`
	TwitterResults       json.RawMessage `json:"twitter_results"`

	Error string `json:"error"`
}

// Misspelled reports whether the response answered a spelling-corrected
// query instead of the one submitted.
func (p *Payload) Misspelled() bool {
	return p.SearchInformation != nil && p.SearchInformation.SpellingFix != nil
}
