package matching

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// colorFamilies groups colour-name synonyms. Two labels are in the same family
// when each contains one of the family's words.
var colorFamilies = map[string][]string{
	"blue":   {"blue", "navy", "azure", "cobalt", "sky", "teal", "turquoise"},
	"red":    {"red", "maroon", "burgundy", "crimson", "scarlet", "wine", "cherry"},
	"green":  {"green", "olive", "emerald", "mint", "lime", "sage", "forest"},
	"yellow": {"yellow", "gold", "mustard", "lemon"},
	"purple": {"purple", "violet", "lavender", "lilac", "plum", "mauve"},
	"pink":   {"pink", "rose", "blush", "magenta", "fuchsia"},
	"orange": {"orange", "coral", "peach", "rust", "apricot"},
	"brown":  {"brown", "tan", "camel", "chocolate", "coffee", "mocha"},
	"beige":  {"beige", "khaki", "cream", "ivory", "sand", "nude"},
	"black":  {"black", "onyx", "ebony"},
	"white":  {"white", "ivory", "snow", "cream"},
	"gray":   {"gray", "grey", "silver", "charcoal", "slate"},
}

var neutralColors = []string{string(Black), string(White), string(Gray)}

// IsColorSimilar reports whether two free-text colour labels match, either
// exactly (ignoring case) or through a shared colour family. It is symmetric.
func IsColorSimilar(a, b string) bool {
	la := strings.ToLower(strings.TrimSpace(a))
	lb := strings.ToLower(strings.TrimSpace(b))
	if la == lb {
		return true
	}
	if la == "" || lb == "" {
		return false
	}

	for _, words := range colorFamilies {
		if containsAny(la, words) && containsAny(lb, words) {
			return true
		}
	}
	return false
}

func similarToAny(color string, candidates []string) bool {
	for _, c := range candidates {
		if IsColorSimilar(color, c) {
			return true
		}
	}
	return false
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// ColorName gives a palette hex value a colour label so it can be compared
// with wardrobe colours. Unparseable input returns "".
func ColorName(hex string) string {
	c, err := colorful.Hex(strings.TrimSpace(hex))
	if err != nil {
		return ""
	}

	h, s, l := c.Hsl()
	switch {
	case l < 0.1:
		return "Black"
	case l > 0.95:
		return "White"
	case s < 0.15:
		if l < 0.2 {
			return "Black"
		}
		if l > 0.85 {
			return "White"
		}
		return "Gray"
	case l > 0.85 && h >= 30 && h < 75:
		return "Beige"
	}

	switch {
	case h < 15 || h >= 345:
		if l < 0.3 {
			return "Maroon"
		}
		return "Red"
	case h < 45:
		if l < 0.35 {
			return "Brown"
		}
		return "Orange"
	case h < 75:
		if l < 0.3 {
			return "Olive"
		}
		return "Yellow"
	case h < 165:
		return "Green"
	case h < 200:
		return "Turquoise"
	case h < 255:
		if l < 0.3 {
			return "Navy"
		}
		return "Blue"
	case h < 290:
		return "Purple"
	default:
		return "Pink"
	}
}

// schemeColorNames names the non-base colours of a scheme.
func schemeColorNames(cs ColorScheme) []string {
	if len(cs.Colors) < 2 {
		return nil
	}
	names := make([]string, 0, len(cs.Colors)-1)
	for _, hex := range cs.Colors[1:] {
		if name := ColorName(hex); name != "" {
			names = append(names, name)
		}
	}
	return names
}
