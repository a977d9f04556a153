package keyword

import "strings"

// domainMatches reports whether a normalized URL belongs to the domain.
// Containment of ".domain" or "//domain" covers bare hosts and subdomains
// without parsing every URL shape the wild returns.
func domainMatches(url, domain string) bool {
	if domain == "" {
		return false
	}
	return strings.Contains(url, "."+domain) || strings.Contains(url, "//"+domain)
}

// CalculateRanks computes one Rank per domain, target first, over an ordered
// organic result list. An answer-box result counts as position 1 and is
// checked before the ordinary results. The first match fixes position and
// URL; every match increments the match count. Re-running over the same
// inputs yields identical ranks.
func CalculateRanks(links []Link, answerBoxURL, targetDomain string, competitorDomains []string) []Rank {
	domains := make([]string, 0, len(competitorDomains)+1)
	domains = append(domains, targetDomain)
	domains = append(domains, competitorDomains...)

	ranks := make([]Rank, 0, len(domains))
	for _, domain := range domains {
		var rank Rank
		if answerBoxURL != "" && domainMatches(answerBoxURL, domain) {
			rank.Position = 1
			rank.URL = StripFragment(answerBoxURL)
			rank.MatchCount++
		}
		for _, link := range links {
			if domainMatches(link.URL, domain) {
				if rank.MatchCount == 0 {
					rank.Position = link.Position
					rank.URL = link.URL
				}
				rank.MatchCount++
			}
		}
		ranks = append(ranks, rank)
	}
	return ranks
}
