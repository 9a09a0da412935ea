package match

import (
	"go/parser"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) TypeExpr {
	t.Helper()

	expr, err := parser.ParseExpr(src)
	require.NoError(t, err)

	return ParseTypeExpr(expr)
}

func TestParseTypeExpr(t *testing.T) {
	t.Run("named", func(t *testing.T) {
		n, ok := mustParse(t, "models.City").(Named)
		require.True(t, ok)
		assert.Equal(t, []string{"models", "City"}, n.Path)
		assert.Equal(t, "models", n.Qualifier())
		assert.Equal(t, "City", n.Name())
		assert.Equal(t, "models.City", n.String())
	})

	t.Run("instantiated", func(t *testing.T) {
		n, ok := mustParse(t, "factory.Association[models.City, CityFactory]").(Named)
		require.True(t, ok)
		require.Len(t, n.Args, 2)
		assert.Equal(t, "models.City", n.Args[0].String())
		assert.Equal(t, "CityFactory", n.Args[1].String())
	})

	t.Run("optional", func(t *testing.T) {
		o, ok := mustParse(t, "*string").(Optional)
		require.True(t, ok)
		assert.Equal(t, "string", o.Inner.String())
		assert.Equal(t, "*string", o.String())
	})

	t.Run("parenthesized", func(t *testing.T) {
		_, ok := mustParse(t, "(models.City)").(Named)
		assert.True(t, ok)
	})

	t.Run("other", func(t *testing.T) {
		for _, src := range []string{"[]string", "map[string]int", "func()", "a.b.C"} {
			_, ok := mustParse(t, src).(Other)
			assert.True(t, ok, src)
		}
	})
}

func TestParseTypeString(t *testing.T) {
	te, err := ParseTypeString("models.User")
	require.NoError(t, err)
	assert.Equal(t, "models.User", te.String())

	_, err = ParseTypeString("models.")
	require.Error(t, err)
}

func TestMatcher_Decompose(t *testing.T) {
	m := NewMatcher("factory")

	tests := []struct {
		name     string
		src      string
		expected *AssociationType
	}{
		{
			name: "required association",
			src:  "factory.Association[models.Country, CountryFactory]",
			expected: &AssociationType{
				Model: "models.Country", Factory: "CountryFactory", FactoryBase: "CountryFactory",
			},
		},
		{
			name: "optional association",
			src:  "*factory.Association[models.City, CityFactory]",
			expected: &AssociationType{
				Model: "models.City", Factory: "CityFactory", FactoryBase: "CityFactory", Optional: true,
			},
		},
		{
			name: "generic factory is normalized",
			src:  "factory.Association[models.Node, builders.NodeFactory[int]]",
			expected: &AssociationType{
				Model: "models.Node", Factory: "builders.NodeFactory[int]", FactoryBase: "NodeFactory",
			},
		},
		{name: "plain scalar", src: "string"},
		{name: "plain pointer", src: "*string"},
		{name: "double optional is plain", src: "**factory.Association[models.City, CityFactory]"},
		{name: "foreign qualifier is plain", src: "other.Association[models.City, CityFactory]"},
		{name: "unqualified without dot import is plain", src: "Association[models.City, CityFactory]"},
		{name: "slice of associations is plain", src: "[]factory.Association[models.City, CityFactory]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Decompose(mustParse(t, tt.src))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.expected != nil, m.IsAssociation(mustParse(t, tt.src)))
		})
	}
}

func TestMatcher_Unqualified(t *testing.T) {
	m := NewMatcher("")

	got, err := m.Decompose(mustParse(t, "Association[City, CityFactory]"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "City", got.Model)

	got, err = m.Decompose(mustParse(t, "factory.Association[City, CityFactory]"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMatcher_Arity(t *testing.T) {
	m := NewMatcher("factory")

	for _, src := range []string{
		"factory.Association",
		"factory.Association[models.City]",
		"factory.Association[models.City, CityFactory, int]",
		"*factory.Association[models.City]",
	} {
		t.Run(src, func(t *testing.T) {
			te := mustParse(t, src)
			assert.True(t, m.IsAssociation(te))

			got, err := m.Decompose(te)
			assert.Nil(t, got)
			require.ErrorIs(t, err, ErrArity)

			var gerr *GrammarError
			require.ErrorAs(t, err, &gerr)
			assert.Contains(t, gerr.Error(), "exactly two type arguments")
		})
	}
}

func TestMatcher_FactoryNotNamed(t *testing.T) {
	m := NewMatcher("factory")

	_, err := m.Decompose(mustParse(t, "factory.Association[models.City, []CityFactory]"))
	require.ErrorIs(t, err, ErrFactoryType)
}

func TestMatcher_IsNestedOptional(t *testing.T) {
	m := NewMatcher("factory")

	assert.True(t, m.IsNestedOptional(mustParse(t, "**factory.Association[models.City, CityFactory]")))
	assert.False(t, m.IsNestedOptional(mustParse(t, "*factory.Association[models.City, CityFactory]")))
	assert.False(t, m.IsNestedOptional(mustParse(t, "**string")))
}
