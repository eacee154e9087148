package resolve

import "strconv"

// IDSequence hands out element ids that are unique within one build.
// Ids are deterministic: the n-th request for a prefix always yields
// "<prefix>-<n>", so rebuilding unchanged input reproduces the same ids.
type IDSequence struct {
	next map[string]int
}

// NewIDSequence returns an empty sequence.
func NewIDSequence() *IDSequence {
	return &IDSequence{next: make(map[string]int)}
}

// Next returns the next id for prefix.
func (s *IDSequence) Next(prefix string) string {
	s.next[prefix]++
	return prefix + "-" + strconv.Itoa(s.next[prefix])
}
