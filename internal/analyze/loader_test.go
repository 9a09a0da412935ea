package analyze

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	runtimeImport = "factory-generator/factory"
	examplesPkg   = "factory-generator/examples/factories"
)

func loadExamples(t *testing.T) *Package {
	t.Helper()

	pkgs, err := NewLoader(runtimeImport, "", nil).Load(context.Background(), examplesPkg)
	require.NoError(t, err)
	require.Len(t, pkgs, 1)

	return pkgs[0]
}

func findDecl(t *testing.T, pkg *Package, name string) *Declaration {
	t.Helper()

	for _, d := range pkg.Declarations() {
		if d.Name == name {
			return d
		}
	}

	t.Fatalf("declaration %s not found", name)

	return nil
}

func TestLoader_Load(t *testing.T) {
	pkg := loadExamples(t)

	assert.Equal(t, examplesPkg, pkg.Path)
	assert.Equal(t, "factories", pkg.Name)
	assert.NotEmpty(t, pkg.Dir)

	var files []string
	for _, f := range pkg.Files {
		files = append(files, filepath.Base(f.Path))
	}

	assert.ElementsMatch(t, []string{"categories.go", "factories.go"}, files)

	var names []string
	for _, d := range pkg.Declarations() {
		names = append(names, d.Name)
	}

	assert.ElementsMatch(t, []string{
		"CategoryFactory", "CountryFactory", "CityFactory", "CompanyFactory",
		"UserFactory", "VisitedCityFactory", "TagFactory",
	}, names)
}

func TestLoader_TakenSkipsGeneratedFiles(t *testing.T) {
	pkg := loadExamples(t)

	assert.Contains(t, pkg.Taken, "UserFactory")
	assert.Contains(t, pkg.Taken, "DefaultPassword")
	assert.NotContains(t, pkg.Taken, "NewUserFactory")
	assert.NotContains(t, pkg.Taken, "UserFactoryHomeCity")
}

func TestLoader_ResolvesModel(t *testing.T) {
	pkg := loadExamples(t)

	company := findDecl(t, pkg, "CompanyFactory")
	require.NotNil(t, company.Model)
	assert.Equal(t, "Company", company.Model.Name)

	field, ok := company.Model.FieldByColumn("identity")
	require.True(t, ok)
	assert.Equal(t, "Identity", field.Name)
	assert.Equal(t, "int64", field.Type)

	user := findDecl(t, pkg, "UserFactory")
	require.NotNil(t, user.Model)

	field, ok = user.Model.FieldByColumn("home_city_id")
	require.True(t, ok)
	assert.Equal(t, "*int32", field.Type)
}

func TestLoader_RuntimeQualifiers(t *testing.T) {
	pkg := loadExamples(t)

	assert.Equal(t, []string{"factory"}, findDecl(t, pkg, "UserFactory").File.RuntimeQualifiers)
	assert.Equal(t, []string{""}, findDecl(t, pkg, "CategoryFactory").File.RuntimeQualifiers)
}

func TestLoader_ListError(t *testing.T) {
	pkgs, err := NewLoader(runtimeImport, "", nil).Load(context.Background(), "factory-generator/does/not/exist")
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	require.Error(t, pkgs[0].Err)
	assert.Empty(t, pkgs[0].Files)
}

func TestLoader_FailingPackageDoesNotHideOthers(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "go.mod"), "module fixture\n\ngo 1.24\n")
	writeFile(t, filepath.Join(dir, "good", "good.go"), `package good

type Tag struct {
	ID    int32
	Label string
}

//factory: model=Tag
type TagFactory struct {
	Label string
}
`)
	writeFile(t, filepath.Join(dir, "bad", "bad.go"), "package bad\n\nfunc broken( {\n")

	pkgs, err := NewLoader(runtimeImport, dir, nil).Load(context.Background(), "./good", "./bad")
	require.NoError(t, err)
	require.Len(t, pkgs, 2)

	byPath := map[string]*Package{}
	for _, p := range pkgs {
		byPath[p.Path] = p
	}

	good := byPath["fixture/good"]
	require.NotNil(t, good)
	require.NoError(t, good.Err)
	require.Len(t, good.Declarations(), 1)
	require.NotNil(t, good.Declarations()[0].Model)
	assert.Equal(t, "Tag", good.Declarations()[0].Model.Name)

	bad := byPath["fixture/bad"]
	require.NotNil(t, bad)
	require.Error(t, bad.Err)
	assert.Contains(t, bad.Err.Error(), "package errors")
	assert.Empty(t, bad.Files)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
