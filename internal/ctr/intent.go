package ctr

// Primary search intents.
const (
	IntentInformational   = "Informational"
	IntentInvestigational = "Investigational"
	IntentNavigational    = "Navigational"
)

// Secondary search intents.
const (
	IntentVisual = "Visual"
	IntentLocal  = "Local"
	IntentNews   = "News"
)

// PrimaryIntents derives the primary search-intent tags from a feature
// combination. Informational needs at least five organic results and no
// commercial signal, investigational the same depth with one, and
// navigational any sitelinks variant.
func PrimaryIntents(f Features) []string {
	var intents []string
	if f.OrganicResultCount >= 5 && !f.Commercial() {
		intents = append(intents, IntentInformational)
	}
	if f.OrganicResultCount >= 5 && f.Commercial() {
		intents = append(intents, IntentInvestigational)
	}
	if f.SitelinksExpanded || f.SitelinksSearchBox {
		intents = append(intents, IntentNavigational)
	}
	return intents
}

// SecondaryIntents derives the secondary search-intent tags.
func SecondaryIntents(f Features) []string {
	var intents []string
	if f.InlineVideos || f.InlineImages {
		intents = append(intents, IntentVisual)
	}
	if f.LocalResults {
		intents = append(intents, IntentLocal)
	}
	if f.TopStories {
		intents = append(intents, IntentNews)
	}
	return intents
}
