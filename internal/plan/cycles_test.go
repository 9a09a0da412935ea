package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factory-generator/internal/analyze"
)

func TestTopoSort_Order(t *testing.T) {
	order, cyclic := topoSort(3, func(i int) []int {
		switch i {
		case 1:
			return []int{0}
		case 2:
			return []int{1}
		default:
			return nil
		}
	})

	assert.Equal(t, []int{0, 1, 2}, order)
	assert.Empty(t, cyclic)
}

func TestTopoSort_Cycle(t *testing.T) {
	order, cyclic := topoSort(3, func(i int) []int {
		switch i {
		case 0:
			return []int{1}
		case 1:
			return []int{0}
		default:
			return nil
		}
	})

	assert.Equal(t, []int{2}, order)
	assert.Equal(t, []int{0, 1}, cyclic)
}

func TestTopoSort_SelfLoop(t *testing.T) {
	_, cyclic := topoSort(1, func(int) []int { return []int{0} })
	assert.Equal(t, []int{0}, cyclic)
}

func TestAnalyzePackage_RequiredCycle(t *testing.T) {
	file, err := analyze.ParseFile("fixtures.go", header+`
//factory:model=models.Category
type CategoryFactory struct {
	Parent factory.Association[models.Category, CategoryFactory]
}

//factory:model=models.Node
type NodeFactory struct {
	Parent *factory.Association[models.Node, NodeFactory]
}
`, "example.com/app/fixtures", runtimeImport)
	require.NoError(t, err)

	p := NewAnalyzer(DefaultConfig()).AnalyzePackage(&analyze.Package{Files: []*analyze.File{file}})
	require.NoError(t, p.Err())

	var flagged []string
	for _, w := range p.Diagnostics.Warnings {
		if w.Code == CodeRequiredCycle {
			flagged = append(flagged, w.Declaration)
		}
	}

	assert.Equal(t, []string{"CategoryFactory"}, flagged)
}
