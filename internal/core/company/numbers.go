package company

// NumberSet accumulates registry numbers seen across the shard tree
// It is passed explicitly into scans and returned from them
type NumberSet struct {
	m map[string]struct{}
}

// NewNumberSet returns an empty accumulator
func NewNumberSet() *NumberSet { return &NumberSet{m: make(map[string]struct{})} }

// Add records n and reports whether it was new; empty numbers are ignored
func (s *NumberSet) Add(n string) bool {
	n = CanonicalNumber(n)
	if n == "" {
		return false
	}
	if _, ok := s.m[n]; ok {
		return false
	}
	s.m[n] = struct{}{}
	return true
}

// AddAll records every value and returns how many were new
func (s *NumberSet) AddAll(values []string) int {
	added := 0
	for _, v := range values {
		if s.Add(v) {
			added++
		}
	}
	return added
}

// Has reports whether n was recorded
func (s *NumberSet) Has(n string) bool {
	_, ok := s.m[CanonicalNumber(n)]
	return ok
}

// Len returns the number of distinct registry numbers
func (s *NumberSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.m)
}
