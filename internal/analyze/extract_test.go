package analyze

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureSrc = `package fixtures

import (
	"example.com/app/models"
	rt "factory-generator/factory"
)

// UserFactory builds users.
//
//factory: model=models.User table="app users" no_id
type UserFactory struct {
	Name    string ` + "`db:\"full_name\"`" + `
	A, B    int
	Country rt.Association[models.Country, CountryFactory]
	models.Audit
}

type (
	//factory: model=models.Country
	CountryFactory struct{}

	Plain struct{}
)

//factory: model=models.Status
type Status int

//factory: model=models.Box
type BoxFactory[T any] struct{}
`

func TestParseFile(t *testing.T) {
	f, err := ParseFile("fixtures.go", fixtureSrc, "example.com/app/fixtures", runtimeImport)
	require.NoError(t, err)

	assert.Equal(t, []Import{
		{Path: "example.com/app/models"},
		{Name: "rt", Path: runtimeImport},
	}, f.Imports)
	assert.Equal(t, []string{"rt"}, f.RuntimeQualifiers)

	require.Len(t, f.Declarations, 4)

	user := f.Declarations[0]
	assert.Equal(t, "UserFactory", user.Name)
	assert.True(t, user.IsStruct)
	assert.Equal(t, "fixtures.go:11:6", user.Position)
	assert.Same(t, f, user.File)

	table, ok := user.Directive.Lookup("table")
	require.True(t, ok)
	assert.Equal(t, "app users", table.Value)

	noID, ok := user.Directive.Lookup("no_id")
	require.True(t, ok)
	assert.False(t, noID.HasValue)

	require.Len(t, user.Fields, 5)
	assert.Equal(t, "Name", user.Fields[0].Name)
	assert.Equal(t, reflect.StructTag(`db:"full_name"`), user.Fields[0].Tag)
	assert.Equal(t, "A", user.Fields[1].Name)
	assert.Equal(t, "B", user.Fields[2].Name)
	assert.Equal(t, "rt.Association[models.Country, CountryFactory]", user.Fields[3].TypeText)
	assert.True(t, user.Fields[4].Embedded)
	assert.Equal(t, "models.Audit", user.Fields[4].TypeText)

	assert.Equal(t, "CountryFactory", f.Declarations[1].Name)

	status := f.Declarations[2]
	assert.False(t, status.IsStruct)

	box := f.Declarations[3]
	assert.True(t, box.Generic)
}

func TestParseFile_SyntaxError(t *testing.T) {
	_, err := ParseFile("broken.go", "package x\ntype {", "x", runtimeImport)
	require.Error(t, err)
}

func TestParseFile_InsideRuntime(t *testing.T) {
	f, err := ParseFile("f.go", "package factory\n", runtimeImport, runtimeImport)
	require.NoError(t, err)
	assert.Equal(t, []string{""}, f.RuntimeQualifiers)
}

func TestParseDirective(t *testing.T) {
	d, err := ParseDirective(`model=models.User table="a \"b\" c"  no_id`)
	require.NoError(t, err)
	assert.Equal(t, []Option{
		{Key: "model", Value: "models.User", HasValue: true},
		{Key: "table", Value: `a "b" c`, HasValue: true},
		{Key: "no_id"},
	}, d.Options)

	_, err = ParseDirective(`table="open`)
	require.Error(t, err)

	_, err = ParseDirective(`=x`)
	require.Error(t, err)

	d, err = ParseDirective("")
	require.NoError(t, err)
	assert.Empty(t, d.Options)
}

func TestParseFile_DirectiveError(t *testing.T) {
	f, err := ParseFile("f.go", "package x\n\n//factory: table=\"open\ntype F struct{}\n", "x", runtimeImport)
	require.NoError(t, err)
	require.Len(t, f.Declarations, 1)
	assert.Equal(t, "unterminated quoted value", f.Declarations[0].DirectiveError)
}

func TestColumnName(t *testing.T) {
	tests := []struct {
		name   string
		tag    reflect.StructTag
		column string
		ok     bool
	}{
		{"HomeCityID", "", "home_city_id", true},
		{"Name", `db:"full_name"`, "full_name", true},
		{"Name", `db:",omitempty"`, "name", true},
		{"Secret", `db:"-"`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name+string(tt.tag), func(t *testing.T) {
			column, ok := ColumnName(tt.name, tt.tag)
			assert.Equal(t, tt.column, column)
			assert.Equal(t, tt.ok, ok)
		})
	}
}
