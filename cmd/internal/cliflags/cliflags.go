// Package cliflags parses the demo programs' flags by hand: long and
// short forms, unknown flags silently ignored, missing required
// arguments logged and skipped rather than fatal. The stdlib flag
// package exits on an unrecognized flag, which these demos want to
// tolerate, so they don't use it.
package cliflags

// Set is a parsed command line: boolean switches and single-value
// options, addressed by either their long or short name.
type Set struct {
	bools  map[string]bool
	values map[string]string
}

// Spec names one flag's long and short spelling and whether it takes
// a value.
type Spec struct {
	Long, Short string
	TakesValue  bool
}

// Parse scans argv against specs. Any token not matching a known
// long/short name is ignored. A value-taking flag missing its
// argument (end of argv, or the next token is itself a known flag)
// is recorded as missing rather than consuming the wrong token; onMissing
// is called with the flag's long name so the caller can log and continue.
func Parse(argv []string, specs []Spec, onMissing func(longName string)) *Set {
	s := &Set{bools: map[string]bool{}, values: map[string]string{}}

	byName := make(map[string]Spec, len(specs)*2)
	for _, sp := range specs {
		byName[sp.Long] = sp
		byName[sp.Short] = sp
	}

	for i := 0; i < len(argv); i++ {
		sp, ok := byName[argv[i]]
		if !ok {
			continue
		}
		if !sp.TakesValue {
			s.bools[sp.Long] = true
			continue
		}
		if i+1 >= len(argv) || isKnownFlag(argv[i+1], byName) {
			if onMissing != nil {
				onMissing(sp.Long)
			}
			continue
		}
		s.values[sp.Long] = argv[i+1]
		i++
	}

	return s
}

func isKnownFlag(tok string, byName map[string]Spec) bool {
	_, ok := byName[tok]
	return ok
}

func (s *Set) Bool(long string) bool       { return s.bools[long] }
func (s *Set) Value(long string) (string, bool) {
	v, ok := s.values[long]
	return v, ok
}
