package matching

import (
	"errors"
	"strings"

	"wardrobeAPI/internal/types/wardrobe"
)

var (
	// ErrNoOccasion means the text named none of the known occasions.
	ErrNoOccasion = errors.New("no occasion recognised")
	// ErrNoMatchingItems means nothing in the wardrobe is tagged for the occasion.
	ErrNoMatchingItems = errors.New("no items match the occasion")
)

// occasionKeywords is scanned in order; the first substring hit wins, so
// "workout" is reported as "work".
var occasionKeywords = []string{
	"casual", "formal", "business", "party", "wedding", "date", "interview",
	"work", "office", "beach", "vacation", "dinner", "sports", "gym",
	"workout", "hiking", "travel", "winter", "summer",
}

var occasionTags = map[string][]string{
	"casual":    {"Casual", "Everyday", "All"},
	"formal":    {"Formal", "Wedding", "Party", "All"},
	"business":  {"Business", "Work", "Formal", "All"},
	"party":     {"Party", "Evening", "Casual", "All"},
	"wedding":   {"Wedding", "Formal", "Party", "All"},
	"date":      {"Date", "Evening", "Casual", "All"},
	"interview": {"Formal", "Business", "Work", "All"},
	"work":      {"Work", "Business", "Formal", "All"},
	"office":    {"Work", "Business", "Formal", "All"},
	"beach":     {"Beach", "Summer", "Casual", "All"},
	"vacation":  {"Vacation", "Beach", "Summer", "Casual", "All"},
	"dinner":    {"Dinner", "Date", "Evening", "Formal", "All"},
	"sports":    {"Sports", "Athletic", "Gym", "All"},
	"gym":       {"Gym", "Athletic", "Sports", "All"},
	"workout":   {"Gym", "Athletic", "Sports", "All"},
	"hiking":    {"Hiking", "Outdoor", "Sports", "Casual", "All"},
	"travel":    {"Travel", "Vacation", "Casual", "All"},
	"winter":    {"Winter", "Fall", "All"},
	"summer":    {"Summer", "Beach", "Spring", "All"},
}

// Seasonal occasions also accept items by their season tags.
var seasonalOccasions = map[string]bool{"winter": true, "summer": true}

const helpMessage = "I can suggest outfits for occasions like casual, formal, business, party, wedding, date, " +
	"interview, work, beach, vacation, dinner, gym, hiking, travel, winter or summer. " +
	"Try asking something like \"What should I wear to a wedding?\""

type OccasionMatch struct {
	Occasion string                  `json:"occasion"`
	Items    []wardrobe.ClothingItem `json:"items"`
}

// DetectOccasion returns the first occasion keyword contained in text.
func DetectOccasion(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, kw := range occasionKeywords {
		if strings.Contains(lower, kw) {
			return kw, true
		}
	}
	return "", false
}

// OccasionTags lists the item tags accepted for an occasion keyword.
func OccasionTags(occasion string) []string {
	return append([]string(nil), occasionTags[occasion]...)
}

// HelpMessage is what callers show when there is nothing to suggest.
func HelpMessage() string {
	return helpMessage
}

// AssembleByOccasion picks one random item per category among items tagged
// for the occasion found in text. Categories with no tagged item are left out.
func (e *Engine) AssembleByOccasion(text string, items []wardrobe.ClothingItem) (OccasionMatch, error) {
	occasion, ok := DetectOccasion(text)
	if !ok {
		return OccasionMatch{}, ErrNoOccasion
	}

	accepted := occasionTags[occasion]
	buckets := bucketByCategory(filterItems(items, func(it wardrobe.ClothingItem) bool {
		if hasAnyTag(it.Occasion, accepted) {
			return true
		}
		return seasonalOccasions[occasion] && hasAnyTag(it.Season, accepted)
	}))

	match := OccasionMatch{Occasion: occasion}
	for _, category := range wardrobe.Categories {
		if pool := buckets[category]; len(pool) > 0 {
			match.Items = append(match.Items, e.pick(pool))
		}
	}

	if len(match.Items) == 0 {
		return match, ErrNoMatchingItems
	}
	return match, nil
}

func hasAnyTag(tags []string, accepted []string) bool {
	for _, tag := range tags {
		for _, a := range accepted {
			if strings.EqualFold(strings.TrimSpace(tag), a) {
				return true
			}
		}
	}
	return false
}
