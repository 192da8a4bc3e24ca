package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsColorSimilar(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"Blue", "blue", true},
		{"Navy Blue", "Blue", true},
		{"Navy", "Turquoise", true},
		{"Sky", "cobalt", true},
		{"Burgundy", "Red", true},
		{"Olive", "Green", true},
		{"Charcoal Grey", "Gray", true},
		{"Khaki", "Beige", true},
		{"Red", "Blue", false},
		{"Black", "White", false},
		{"Brown", "Black", false},
		{"", "Blue", false},
		{"", "", true},
		{"Mauve", "Mauve", true},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, IsColorSimilar(tt.a, tt.b))
		})
	}
}

func TestIsColorSimilarSymmetric(t *testing.T) {
	labels := []string{
		"Blue", "Navy Blue", "Teal", "Red", "Wine", "Green", "Olive", "Yellow", "Gold",
		"Purple", "Lilac", "Pink", "Orange", "Brown", "Camel", "Beige", "Cream",
		"Black", "White", "Ivory", "Gray", "Grey", "Silver", "", "Multicolor",
	}
	for _, a := range labels {
		for _, b := range labels {
			assert.Equal(t, IsColorSimilar(a, b), IsColorSimilar(b, a), "%q vs %q", a, b)
		}
	}
}

func TestColorName(t *testing.T) {
	tests := map[string]string{
		"#000000": "Black",
		"#FFFFFF": "White",
		"#808080": "Gray",
		"#333333": "Gray",
		"#FF0000": "Red",
		"#800000": "Maroon",
		"#FFAA00": "Orange",
		"#964B00": "Brown",
		"#FFFF00": "Yellow",
		"#808000": "Olive",
		"#00FF00": "Green",
		"#00FFFF": "Turquoise",
		"#0000FF": "Blue",
		"#000080": "Navy",
		"#8000FF": "Purple",
		"#FF00FF": "Pink",
		"#F5F5DC": "Beige",
		"#F5F5F5": "White",
		"not-a-hex": "",
	}
	for hex, want := range tests {
		assert.Equal(t, want, ColorName(hex), hex)
	}
}

func TestSchemeColorNamesSkipBase(t *testing.T) {
	cs, _ := Lookup(Blue, Complementary)
	assert.Equal(t, []string{"Orange"}, schemeColorNames(cs))

	cs, _ = Lookup(Black, Accent)
	assert.Equal(t, []string{"Red", "Blue", "Yellow"}, schemeColorNames(cs))
}
