package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wardrobeAPI/internal/types/wardrobe"
)

func TestSampleWardrobeIsValid(t *testing.T) {
	items := SampleWardrobe()
	assert.Len(t, items, 10)

	seen := map[wardrobe.Category]bool{}
	for _, it := range items {
		c, ok := wardrobe.ParseCategory(it.Category)
		assert.True(t, ok, it.Name)
		seen[c] = true
		assert.NoError(t, it.Validate(), it.Name)
	}
	assert.Len(t, seen, len(wardrobe.Categories), "every category is represented")
}
