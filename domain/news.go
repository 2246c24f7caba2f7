package domain

import (
	"crypto/sha1"
	"encoding/hex"
	"regexp"
	"strings"
	"time"

	"disasterprep/model"
)

var (
	climateWhitelist = regexp.MustCompile(`(?i)\b(climate|global warming|carbon|emissions?|greenhouse|flood(s|ing)?|drought|wildfires?|bushfires?|heat ?waves?|hurricanes?|typhoons?|cyclones?|monsoon|sea[- ]level|el ni[nñ]o|la ni[nñ]a|extreme weather|landslides?|deforestation|glaciers?|ice sheets?|rainfall|storm surge|disaster)\b`)
	climateBlacklist = regexp.MustCompile(`(?i)\b(celebrity|football|soccer|cricket|nba|nfl|movie|box office|album|concert|crypto(currency)?|bitcoin|stock market|horoscope|recipe|fashion|video game|gaming|lottery|dating|climate of fear|political climate|business climate|investment climate)\b`)
)

// IsClimateRelevant reports whether a headline is on-topic: it must match
// the climate vocabulary and must not match any off-topic phrase.
func IsClimateRelevant(title, description string) bool {
	text := title + " " + description
	if climateBlacklist.MatchString(text) {
		return false
	}
	return climateWhitelist.MatchString(text)
}

// NewsID derives a stable document id from an article URL.
func NewsID(url string) string {
	sum := sha1.Sum([]byte(strings.TrimSpace(url)))
	return hex.EncodeToString(sum[:])
}

// FilterClimateNews keeps relevant items with a URL, dropping duplicate URLs,
// and stamps ids and fetch time.
func FilterClimateNews(items []model.ClimateNews, fetchedAt time.Time) []model.ClimateNews {
	seen := make(map[string]bool, len(items))
	out := make([]model.ClimateNews, 0, len(items))
	for _, it := range items {
		it.URL = strings.TrimSpace(it.URL)
		if it.URL == "" || strings.TrimSpace(it.Title) == "" {
			continue
		}
		if !IsClimateRelevant(it.Title, it.Description) {
			continue
		}
		id := NewsID(it.URL)
		if seen[id] {
			continue
		}
		seen[id] = true
		it.ID = id
		it.FetchedAt = fetchedAt
		out = append(out, it)
	}
	return out
}

// NewsStale reports whether a cache filled at fetchedAt must be refreshed.
func NewsStale(fetchedAt, now time.Time, ttl time.Duration) bool {
	return fetchedAt.IsZero() || now.Sub(fetchedAt) >= ttl
}
