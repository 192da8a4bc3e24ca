package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupDeclaredSchemes(t *testing.T) {
	for _, base := range BaseColors() {
		declared := SchemeTypes(base)
		require.NotEmpty(t, declared, "base %s", base)

		for _, scheme := range declared {
			cs, ok := Lookup(base, scheme)
			require.True(t, ok, "%s/%s", base, scheme)
			assert.NotEmpty(t, cs.Colors)
			assert.GreaterOrEqual(t, len(cs.Colors), 2)
			assert.LessOrEqual(t, len(cs.Colors), 4)
			assert.NotEmpty(t, cs.Name)
			assert.NotEmpty(t, cs.Description)
			for _, hex := range cs.Colors {
				assert.NotEmpty(t, ColorName(hex), "%s/%s has unparseable colour %q", base, scheme, hex)
			}
		}
	}
}

func TestLookupUndeclaredScheme(t *testing.T) {
	for _, base := range BaseColors() {
		declared := map[SchemeType]bool{}
		for _, s := range SchemeTypes(base) {
			declared[s] = true
		}
		for _, scheme := range schemeTypes {
			if declared[scheme] {
				continue
			}
			assert.NotPanics(t, func() {
				_, ok := Lookup(base, scheme)
				assert.False(t, ok, "%s/%s", base, scheme)
			})
		}
	}

	_, ok := Lookup(BaseColor("Chartreuse"), Complementary)
	assert.False(t, ok)
}

func TestNeutralBasesHaveAccentNotTriadic(t *testing.T) {
	for _, base := range []BaseColor{Black, White, Gray} {
		assert.Contains(t, SchemeTypes(base), Accent)
		assert.NotContains(t, SchemeTypes(base), Triadic)
	}
	assert.NotContains(t, SchemeTypes(Red), Accent)
}

func TestSchemeTypesDeclarationOrder(t *testing.T) {
	assert.Equal(t,
		[]SchemeType{Complementary, Analogous, Monochromatic, Neutral, Accent},
		SchemeTypes(Black))
	assert.Equal(t, Red, BaseColors()[0])
	assert.Nil(t, SchemeTypes(BaseColor("Teal")))
}

func TestResolveSchemeType(t *testing.T) {
	got, ok := ResolveSchemeType(Black, Triadic)
	require.True(t, ok)
	assert.Equal(t, Complementary, got)

	got, ok = ResolveSchemeType(Blue, Monochromatic)
	require.True(t, ok)
	assert.Equal(t, Monochromatic, got)

	got, ok = ResolveSchemeType(Red, Accent)
	require.True(t, ok)
	assert.Equal(t, Complementary, got)

	_, ok = ResolveSchemeType(BaseColor("Teal"), Accent)
	assert.False(t, ok)
}

func TestLookupReturnsCopy(t *testing.T) {
	cs, ok := Lookup(Blue, Complementary)
	require.True(t, ok)
	cs.Colors[0] = "#123456"

	again, _ := Lookup(Blue, Complementary)
	assert.Equal(t, "#0000FF", again.Colors[0])
}

func TestParse(t *testing.T) {
	base, ok := ParseBaseColor(" navy ")
	assert.True(t, ok)
	assert.Equal(t, Navy, base)

	_, ok = ParseBaseColor("teal")
	assert.False(t, ok)

	scheme, ok := ParseSchemeType("Triadic")
	assert.True(t, ok)
	assert.Equal(t, Triadic, scheme)

	_, ok = ParseSchemeType("split")
	assert.False(t, ok)
}

func TestSchemeAdviceCoversEveryScheme(t *testing.T) {
	for _, s := range schemeTypes {
		assert.NotEmpty(t, SchemeAdvice(s), string(s))
	}
}
