package matching

import "strings"

type BaseColor string

const (
	Red    BaseColor = "Red"
	Blue   BaseColor = "Blue"
	Green  BaseColor = "Green"
	Yellow BaseColor = "Yellow"
	Purple BaseColor = "Purple"
	Black  BaseColor = "Black"
	White  BaseColor = "White"
	Gray   BaseColor = "Gray"
	Brown  BaseColor = "Brown"
	Navy   BaseColor = "Navy"
	Beige  BaseColor = "Beige"
)

type SchemeType string

const (
	Complementary SchemeType = "complementary"
	Analogous     SchemeType = "analogous"
	Triadic       SchemeType = "triadic"
	Monochromatic SchemeType = "monochromatic"
	Neutral       SchemeType = "neutral"
	Accent        SchemeType = "accent"
)

var schemeTypes = []SchemeType{Complementary, Analogous, Triadic, Monochromatic, Neutral, Accent}

type ColorScheme struct {
	Name        string   `json:"name"`
	Colors      []string `json:"colors"`
	Description string   `json:"description"`
}

type paletteEntry struct {
	scheme SchemeType
	ColorScheme
}

type palette struct {
	base    BaseColor
	entries []paletteEntry
}

const (
	complementaryName = "Complementary"
	analogousName     = "Analogous"
	triadicName       = "Triadic"
	monochromaticName = "Monochromatic"
	neutralName       = "Neutral Pairing"
	accentName        = "Accent Colors"

	oppositeWheel = "Colors opposite each other on the color wheel"
	adjacentWheel = "Colors adjacent to each other on the color wheel"
	evenlySpaced  = "Three colors evenly spaced on the color wheel"
	singleShades  = "Different shades of a single color"
	neutralTones  = "Base color with neutral tones"
)

func entry(scheme SchemeType, name, description string, colors ...string) paletteEntry {
	return paletteEntry{scheme: scheme, ColorScheme: ColorScheme{Name: name, Colors: colors, Description: description}}
}

// palettes is static reference data. Entry order per colour is the fallback
// order used by ResolveSchemeType.
var palettes = []palette{
	{Red, []paletteEntry{
		entry(Complementary, complementaryName, oppositeWheel, "#FF0000", "#00FFFF"),
		entry(Analogous, analogousName, adjacentWheel, "#FF0000", "#FF8000", "#FFFF00"),
		entry(Triadic, triadicName, evenlySpaced, "#FF0000", "#00FF00", "#0000FF"),
		entry(Monochromatic, monochromaticName, singleShades, "#FF0000", "#CC0000", "#990000", "#660000"),
		entry(Neutral, neutralName, neutralTones, "#FF0000", "#F5F5F5", "#E0E0E0", "#333333"),
	}},
	{Blue, []paletteEntry{
		entry(Complementary, complementaryName, oppositeWheel, "#0000FF", "#FFAA00"),
		entry(Analogous, analogousName, adjacentWheel, "#0000FF", "#0080FF", "#00FFFF"),
		entry(Triadic, triadicName, evenlySpaced, "#0000FF", "#FF0000", "#00FF00"),
		entry(Monochromatic, monochromaticName, singleShades, "#0000FF", "#0000CC", "#000099", "#000066"),
		entry(Neutral, neutralName, neutralTones, "#0000FF", "#F5F5F5", "#E0E0E0", "#333333"),
	}},
	{Green, []paletteEntry{
		entry(Complementary, complementaryName, oppositeWheel, "#00FF00", "#FF00FF"),
		entry(Analogous, analogousName, adjacentWheel, "#00FF00", "#FFFF00", "#00FFFF"),
		entry(Triadic, triadicName, evenlySpaced, "#00FF00", "#0000FF", "#FF0000"),
		entry(Monochromatic, monochromaticName, singleShades, "#00FF00", "#00CC00", "#009900", "#006600"),
		entry(Neutral, neutralName, neutralTones, "#00FF00", "#F5F5F5", "#E0E0E0", "#333333"),
	}},
	{Yellow, []paletteEntry{
		entry(Complementary, complementaryName, oppositeWheel, "#FFFF00", "#8000FF"),
		entry(Analogous, analogousName, adjacentWheel, "#FFFF00", "#FF8000", "#80FF00"),
		entry(Triadic, triadicName, evenlySpaced, "#FFFF00", "#FF00FF", "#00FFFF"),
		entry(Monochromatic, monochromaticName, singleShades, "#FFFF00", "#CCCC00", "#999900", "#666600"),
		entry(Neutral, neutralName, neutralTones, "#FFFF00", "#F5F5F5", "#E0E0E0", "#333333"),
	}},
	{Purple, []paletteEntry{
		entry(Complementary, complementaryName, oppositeWheel, "#8B5CF6", "#5CF68B"),
		entry(Analogous, analogousName, adjacentWheel, "#8B5CF6", "#C75CF6", "#5C7AF6"),
		entry(Triadic, triadicName, evenlySpaced, "#8B5CF6", "#F65C8B", "#5CF65C"),
		entry(Monochromatic, monochromaticName, singleShades, "#8B5CF6", "#7A4BE5", "#6A3AD4", "#5A29C3"),
		entry(Neutral, neutralName, neutralTones, "#8B5CF6", "#F5F5F5", "#E0E0E0", "#333333"),
	}},
	{Black, []paletteEntry{
		entry(Complementary, complementaryName, "Black and white contrast", "#000000", "#FFFFFF"),
		entry(Analogous, analogousName, "Black with dark grays", "#000000", "#222222", "#444444"),
		entry(Monochromatic, monochromaticName, "Black with various grays", "#000000", "#333333", "#666666", "#999999"),
		entry(Neutral, neutralName, "Black with white and light grays", "#000000", "#FFFFFF", "#F0F0F0", "#E0E0E0"),
		entry(Accent, accentName, "Black with vibrant accent colors", "#000000", "#FF0000", "#0000FF", "#FFFF00"),
	}},
	{White, []paletteEntry{
		entry(Complementary, complementaryName, "White and black contrast", "#FFFFFF", "#000000"),
		entry(Analogous, analogousName, "White with light grays", "#FFFFFF", "#F0F0F0", "#E0E0E0"),
		entry(Monochromatic, monochromaticName, "White with various light grays", "#FFFFFF", "#EEEEEE", "#DDDDDD", "#CCCCCC"),
		entry(Neutral, neutralName, "White with black and dark grays", "#FFFFFF", "#000000", "#333333", "#666666"),
		entry(Accent, accentName, "White with vibrant accent colors", "#FFFFFF", "#FF0000", "#0000FF", "#FFFF00"),
	}},
	{Gray, []paletteEntry{
		entry(Complementary, complementaryName, "Medium gray with slightly contrasting gray", "#808080", "#7F7F7F"),
		entry(Analogous, analogousName, "Gray with slight color variations", "#808080", "#7F8090", "#807F70"),
		entry(Monochromatic, monochromaticName, "Different shades of gray", "#808080", "#A0A0A0", "#606060", "#404040"),
		entry(Neutral, neutralName, "Gray with black, white and light gray", "#808080", "#FFFFFF", "#000000", "#D0D0D0"),
		entry(Accent, accentName, "Gray with vibrant accent colors", "#808080", "#FF0000", "#0000FF", "#FFFF00"),
	}},
	{Brown, []paletteEntry{
		entry(Complementary, complementaryName, "Brown with blue (complementary)", "#964B00", "#004B96"),
		entry(Analogous, analogousName, "Brown with similar earthy tones", "#964B00", "#96784B", "#96004B"),
		entry(Triadic, triadicName, "Brown with green and purple", "#964B00", "#00964B", "#4B0096"),
		entry(Monochromatic, monochromaticName, "Different shades of brown", "#964B00", "#6E3500", "#452100", "#2D1600"),
		entry(Neutral, neutralName, "Brown with neutral tones", "#964B00", "#F5F5F5", "#E0E0E0", "#333333"),
	}},
	{Navy, []paletteEntry{
		entry(Complementary, complementaryName, "Navy with olive (complementary)", "#000080", "#808000"),
		entry(Analogous, analogousName, "Navy with similar deep tones", "#000080", "#000050", "#500080"),
		entry(Triadic, triadicName, "Navy with maroon and green", "#000080", "#800000", "#008000"),
		entry(Monochromatic, monochromaticName, "Different shades of navy", "#000080", "#000060", "#000040", "#000020"),
		entry(Neutral, neutralName, "Navy with neutral tones", "#000080", "#F5F5F5", "#E0E0E0", "#333333"),
	}},
	{Beige, []paletteEntry{
		entry(Complementary, complementaryName, "Beige with light cyan", "#F5F5DC", "#DCF5F5"),
		entry(Analogous, analogousName, "Beige with similar light tones", "#F5F5DC", "#F5DCF5", "#DCF5DC"),
		entry(Triadic, triadicName, "Beige with light cyan and light magenta", "#F5F5DC", "#DCF5F5", "#F5DCF5"),
		entry(Monochromatic, monochromaticName, "Different shades of beige", "#F5F5DC", "#E6E6CE", "#D7D7BF", "#C8C8B1"),
		entry(Neutral, neutralName, "Beige with darker neutral tones", "#F5F5DC", "#333333", "#666666", "#999999"),
	}},
}

var schemeAdvice = map[SchemeType]string{
	Complementary: "Complementary colors create a bold, vibrant look. Try pairing a main color with its complement as an accent.",
	Analogous:     "Analogous colors create a harmonious, cohesive look. Great for casual outfits with a coordinated feel.",
	Triadic:       "Triadic colors offer vibrant contrast while maintaining balance. Best used with one dominant color and the others as accents.",
	Monochromatic: "Monochromatic schemes create a sleek, sophisticated look. Perfect for formal occasions or minimalist styles.",
	Neutral:       "Neutral pairings work well for versatile, everyday outfits. The base color provides interest while neutrals balance the look.",
	Accent:        "Accent schemes keep a neutral base and add one vibrant piece. Let a bag, scarf or pair of shoes carry the color.",
}

func findPalette(base BaseColor) (palette, bool) {
	for _, p := range palettes {
		if p.base == base {
			return p, true
		}
	}
	return palette{}, false
}

// BaseColors lists the colours of the palette table in declaration order.
func BaseColors() []BaseColor {
	out := make([]BaseColor, len(palettes))
	for i, p := range palettes {
		out[i] = p.base
	}
	return out
}

// SchemeTypes lists the scheme types declared for base, in declaration order.
// An unknown base colour has none.
func SchemeTypes(base BaseColor) []SchemeType {
	p, ok := findPalette(base)
	if !ok {
		return nil
	}
	out := make([]SchemeType, len(p.entries))
	for i, e := range p.entries {
		out[i] = e.scheme
	}
	return out
}

// Lookup returns the scheme for (base, scheme). A combination the table does
// not declare reports false; it is not an error.
func Lookup(base BaseColor, scheme SchemeType) (ColorScheme, bool) {
	p, ok := findPalette(base)
	if !ok {
		return ColorScheme{}, false
	}
	for _, e := range p.entries {
		if e.scheme == scheme {
			cs := e.ColorScheme
			cs.Colors = append([]string(nil), e.Colors...)
			return cs, true
		}
	}
	return ColorScheme{}, false
}

// ResolveSchemeType keeps current when base declares it and otherwise falls
// back to the first scheme type declared for base.
func ResolveSchemeType(base BaseColor, current SchemeType) (SchemeType, bool) {
	available := SchemeTypes(base)
	if len(available) == 0 {
		return "", false
	}
	for _, s := range available {
		if s == current {
			return current, true
		}
	}
	return available[0], true
}

func ParseBaseColor(s string) (BaseColor, bool) {
	for _, p := range palettes {
		if strings.EqualFold(string(p.base), strings.TrimSpace(s)) {
			return p.base, true
		}
	}
	return "", false
}

func ParseSchemeType(s string) (SchemeType, bool) {
	for _, t := range schemeTypes {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, true
		}
	}
	return "", false
}

// SchemeAdvice is the styling hint shown next to a generated scheme.
func SchemeAdvice(scheme SchemeType) string {
	return schemeAdvice[scheme]
}
