package gen

import "strconv"

// namespace tracks package-scope identifiers so generated names never collide
// with declared or previously generated ones.
type namespace struct {
	taken map[string]struct{}
}

// newNamespace copies taken; the nil map is an empty namespace.
func newNamespace(taken map[string]struct{}) *namespace {
	ns := &namespace{taken: make(map[string]struct{}, len(taken))}
	for name := range taken {
		ns.taken[name] = struct{}{}
	}

	return ns
}

func (ns *namespace) has(name string) bool {
	_, ok := ns.taken[name]

	return ok
}

// claim returns the first free candidate, or a numbered variant of the last
// one, and marks it as taken.
func (ns *namespace) claim(candidates ...string) string {
	for _, name := range candidates {
		if !ns.has(name) {
			ns.taken[name] = struct{}{}

			return name
		}
	}

	return newStem(candidates[len(candidates)-1], ns.taken).next()
}

// stem hands out stem1, stem2, ... skipping names already taken.
type stem struct {
	taken map[string]struct{}
	stem  string
	last  int
}

func newStem(s string, taken map[string]struct{}) *stem {
	return &stem{taken: taken, stem: s}
}

func (s *stem) next() string {
	for {
		s.last++
		name := s.stem + strconv.Itoa(s.last)

		if _, ok := s.taken[name]; !ok {
			s.taken[name] = struct{}{}

			return name
		}
	}
}
