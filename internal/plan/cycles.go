package plan

import (
	"fmt"
	"sort"
	"strings"
)

// CodeRequiredCycle warns about builders whose required associations form a
// cycle. Inserting any of them with default associations never terminates.
const CodeRequiredCycle = "required_cycle"

// topoSort returns node indices in dependency order and the nodes left over
// because they sit on or behind a cycle.
//
// depsFn(i) yields indices that must come before i. When several nodes are
// ready, the smallest index goes first.
func topoSort(n int, depsFn func(i int) []int) (order, cyclic []int) {
	if n <= 0 {
		return nil, nil
	}

	indeg := make([]int, n)
	out := make([][]int, n)

	for i := range n {
		for _, d := range depsFn(i) {
			indeg[i]++
			out[d] = append(out[d], i)
		}
	}

	for i := range out {
		sort.Ints(out[i])
	}

	var ready []int

	for i := range n {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	order = make([]int, 0, n)

	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]

		order = append(order, i)
		for _, j := range out[i] {
			indeg[j]--
			if indeg[j] == 0 {
				k := sort.SearchInts(ready, j)
				ready = append(ready, 0)
				copy(ready[k+1:], ready[k:])
				ready[k] = j
			}
		}
	}

	for i := range n {
		if indeg[i] > 0 {
			cyclic = append(cyclic, i)
		}
	}

	return order, cyclic
}

// checkRequiredCycles warns when required associations between builders of
// the plan loop back on themselves. Only same-package factories are followed.
func (p *Plan) checkRequiredCycles() {
	var decls []*AnalyzedDeclaration

	for i := range p.Files {
		for j := range p.Files[i].Declarations {
			decls = append(decls, &p.Files[i].Declarations[j])
		}
	}

	index := make(map[string]int, len(decls))
	for i, d := range decls {
		index[d.Builder] = i
	}

	deps := func(i int) []int {
		var out []int

		for _, f := range decls[i].Associations() {
			a := f.Association
			if a.Optional || a.Factory != a.FactoryBase {
				continue
			}

			if j, ok := index[a.FactoryBase]; ok {
				out = append(out, j)
			}
		}

		return out
	}

	_, cyclic := topoSort(len(decls), deps)
	if len(cyclic) == 0 {
		return
	}

	names := make([]string, len(cyclic))
	for i, c := range cyclic {
		names[i] = decls[c].Builder
	}

	for _, c := range cyclic {
		p.Diagnostics.AddWarning(CodeRequiredCycle,
			fmt.Sprintf("required associations among %s form a cycle; make one optional or always set it explicitly",
				strings.Join(names, ", ")),
			decls[c].Builder, "")
	}
}
