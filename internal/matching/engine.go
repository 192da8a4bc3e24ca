// Package matching suggests outfits from a user's wardrobe, either around a
// base colour and colour-theory scheme or around an occasion named in free
// text. All reference data is static; the only state is the random source
// used to break ties between equally eligible items.
package matching

import (
	"math/rand/v2"
	"time"

	"wardrobeAPI/internal/types/wardrobe"
)

// Match is one suggested outfit: at most one item per category.
type Match struct {
	Items      []wardrobe.ClothingItem `json:"items"`
	BaseItemID string                  `json:"baseItemId,omitempty"`
	// Degraded is set when no item matched the base colour and the outfit is
	// a random top and bottom.
	Degraded bool `json:"degraded"`
}

// Engine is not safe for concurrent use because of its random source.
type Engine struct {
	rng *rand.Rand
}

// NewEngine uses rng for every random pick. A nil rng gets a time-seeded one.
func NewEngine(rng *rand.Rand) *Engine {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return &Engine{rng: rng}
}

// NewSeededEngine is deterministic for a given seed.
func NewSeededEngine(seed uint64) *Engine {
	return NewEngine(rand.New(rand.NewPCG(seed, seed)))
}

func bucketByCategory(items []wardrobe.ClothingItem) map[wardrobe.Category][]wardrobe.ClothingItem {
	buckets := make(map[wardrobe.Category][]wardrobe.ClothingItem, len(wardrobe.Categories))
	for _, item := range items {
		buckets[item.Category] = append(buckets[item.Category], item)
	}
	return buckets
}

func (e *Engine) pick(items []wardrobe.ClothingItem) wardrobe.ClothingItem {
	return items[e.rng.IntN(len(items))]
}

func filterItems(items []wardrobe.ClothingItem, keep func(wardrobe.ClothingItem) bool) []wardrobe.ClothingItem {
	var out []wardrobe.ClothingItem
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// AssembleByColor builds outfits around base using the colours of scheme. It
// returns at most one outfit; an empty result means nothing could be built.
func (e *Engine) AssembleByColor(base BaseColor, scheme SchemeType, items []wardrobe.ClothingItem) []Match {
	cs, ok := Lookup(base, scheme)
	if !ok || len(items) == 0 {
		return nil
	}

	buckets := bucketByCategory(items)

	var baseCandidates []wardrobe.ClothingItem
	for _, c := range []wardrobe.Category{wardrobe.CategoryTops, wardrobe.CategoryBottoms} {
		baseCandidates = append(baseCandidates, filterItems(buckets[c], func(it wardrobe.ClothingItem) bool {
			return IsColorSimilar(it.Color, string(base))
		})...)
	}

	if len(baseCandidates) == 0 {
		return e.fallbackOutfit(buckets)
	}

	baseItem := e.pick(baseCandidates)
	outfit := []wardrobe.ClothingItem{baseItem}
	used := map[wardrobe.Category]bool{baseItem.Category: true}
	accents := schemeColorNames(cs)

	for _, category := range categoryOrderFrom(baseItem.Category) {
		if used[category] {
			continue
		}
		pool := buckets[category]
		if len(pool) == 0 {
			continue
		}

		eligible := filterItems(pool, func(it wardrobe.ClothingItem) bool {
			return similarToAny(it.Color, accents)
		})
		if len(eligible) == 0 {
			eligible = filterItems(pool, func(it wardrobe.ClothingItem) bool {
				return similarToAny(it.Color, neutralColors)
			})
		}
		if len(eligible) == 0 {
			eligible = pool
		}

		outfit = append(outfit, e.pick(eligible))
		used[category] = true
	}

	return []Match{{Items: outfit, BaseItemID: baseItem.ID}}
}

func (e *Engine) fallbackOutfit(buckets map[wardrobe.Category][]wardrobe.ClothingItem) []Match {
	tops := buckets[wardrobe.CategoryTops]
	bottoms := buckets[wardrobe.CategoryBottoms]
	if len(tops) == 0 || len(bottoms) == 0 {
		return nil
	}
	return []Match{{
		Items:    []wardrobe.ClothingItem{e.pick(tops), e.pick(bottoms)},
		Degraded: true,
	}}
}

// categoryOrderFrom walks the fixed category order starting at start.
func categoryOrderFrom(start wardrobe.Category) []wardrobe.Category {
	n := len(wardrobe.Categories)
	offset := 0
	for i, c := range wardrobe.Categories {
		if c == start {
			offset = i
			break
		}
	}
	out := make([]wardrobe.Category, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, wardrobe.Categories[(offset+i)%n])
	}
	return out
}
