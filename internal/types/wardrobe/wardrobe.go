package wardrobe

import (
	"errors"
	"sort"
	"strings"
	"time"
)

type Category string

const (
	CategoryTops        Category = "Tops"
	CategoryBottoms     Category = "Bottoms"
	CategoryOuterwear   Category = "Outerwear"
	CategoryShoes       Category = "Shoes"
	CategoryAccessories Category = "Accessories"
)

// Categories is the fixed bucket order used when assembling outfits.
var Categories = []Category{
	CategoryTops,
	CategoryBottoms,
	CategoryOuterwear,
	CategoryShoes,
	CategoryAccessories,
}

// URL slugs used by the category pages of the app.
var categorySlugs = map[string]Category{
	"shirts":      CategoryTops,
	"tops":        CategoryTops,
	"pants":       CategoryBottoms,
	"bottoms":     CategoryBottoms,
	"outerwear":   CategoryOuterwear,
	"jackets":     CategoryOuterwear,
	"shoes":       CategoryShoes,
	"accessories": CategoryAccessories,
}

// ParseCategory accepts a category name or page slug, case-insensitively.
func ParseCategory(s string) (Category, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if c, ok := categorySlugs[key]; ok {
		return c, true
	}
	return "", false
}

type ClothingItem struct {
	ID        string     `json:"id" db:"id"`
	UserID    string     `json:"userId" db:"user_id"`
	Name      string     `json:"name" db:"name"`
	Category  Category   `json:"category" db:"category"`
	Color     string     `json:"color" db:"color"`
	ImageURL  string     `json:"imageUrl" db:"image_url"`
	Material  string     `json:"material,omitempty" db:"material"`
	Season    []string   `json:"season" db:"season"`
	Occasion  []string   `json:"occasion" db:"occasion"`
	WearCount int        `json:"wearCount" db:"wear_count"`
	LastWorn  *time.Time `json:"lastWorn,omitempty" db:"last_worn"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
}

type AddItemRequest struct {
	Name     string   `json:"name" validate:"required"`
	Category string   `json:"category" validate:"required"`
	Color    string   `json:"color" validate:"required"`
	ImageURL string   `json:"imageUrl"`
	Material string   `json:"material"`
	Season   []string `json:"season"`
	Occasion []string `json:"occasion"`
}

type ItemFilter struct {
	Category *Category
	Query    string
}

type WearStats struct {
	MostWorn  []*ClothingItem `json:"mostWorn"`
	LeastWorn []*ClothingItem `json:"leastWorn"`
}

// Validate checks the fields an item cannot be stored without.
func (r AddItemRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if _, ok := ParseCategory(r.Category); !ok {
		return errors.New("unknown category " + r.Category)
	}
	if strings.TrimSpace(r.Color) == "" {
		return errors.New("color is required")
	}
	return nil
}

// Matches applies the category filter and a case-insensitive substring search
// over name, category and colour.
func (f ItemFilter) Matches(item ClothingItem) bool {
	if f.Category != nil && item.Category != *f.Category {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(item.Name), q) ||
		strings.Contains(strings.ToLower(string(item.Category)), q) ||
		strings.Contains(strings.ToLower(item.Color), q)
}

func (f ItemFilter) Apply(items []ClothingItem) []ClothingItem {
	out := make([]ClothingItem, 0, len(items))
	for _, it := range items {
		if f.Matches(it) {
			out = append(out, it)
		}
	}
	return out
}

// ComputeWearStats returns the n most worn items and the n least worn among
// those worn at least once, least worn first.
func ComputeWearStats(items []ClothingItem, n int) WearStats {
	sorted := make([]*ClothingItem, 0, len(items))
	for i := range items {
		sorted = append(sorted, &items[i])
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].WearCount > sorted[j].WearCount
	})

	stats := WearStats{
		MostWorn:  sorted[:min(n, len(sorted))],
		LeastWorn: []*ClothingItem{},
	}

	for i := len(sorted) - 1; i >= 0 && len(stats.LeastWorn) < n; i-- {
		if sorted[i].WearCount > 0 {
			stats.LeastWorn = append(stats.LeastWorn, sorted[i])
		}
	}
	return stats
}
