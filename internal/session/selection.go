package session

// Selection holds the answer ids currently picked for the displayed
// question, in pick order. Capacity equals the question's correct-answer
// count; a single-answer question replaces the pick, a multi-answer
// question evicts the oldest pick when full.
type Selection struct {
	ids []string
	cap int
}

// NewSelection constructs a selection with the given capacity.
func NewSelection(capacity int) *Selection {
	if capacity < 1 {
		capacity = 1
	}
	return &Selection{cap: capacity}
}

// NewSelectionFromIDs rebuilds a selection from a persisted ordered id
// list, truncating to capacity from the oldest end.
func NewSelectionFromIDs(capacity int, ids []string) *Selection {
	s := NewSelection(capacity)
	for _, id := range ids {
		s.add(id)
	}
	return s
}

// Toggle flips the picked state of an answer id.
func (s *Selection) Toggle(id string) {
	if s.cap == 1 {
		s.ids = []string{id}
		return
	}
	if idx := s.index(id); idx >= 0 {
		s.ids = append(s.ids[:idx], s.ids[idx+1:]...)
		return
	}
	s.add(id)
}

func (s *Selection) add(id string) {
	if s.index(id) >= 0 {
		return
	}
	if len(s.ids) >= s.cap {
		s.ids = s.ids[1:]
	}
	s.ids = append(s.ids, id)
}

func (s *Selection) index(id string) int {
	for i, existing := range s.ids {
		if existing == id {
			return i
		}
	}
	return -1
}

// Has reports whether the id is currently picked.
func (s *Selection) Has(id string) bool {
	return s.index(id) >= 0
}

// IDs returns the picked ids in pick order. The returned slice is a copy.
func (s *Selection) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Size returns the number of picked ids.
func (s *Selection) Size() int {
	return len(s.ids)
}

// Cap returns the selection capacity.
func (s *Selection) Cap() int {
	return s.cap
}

// Clear removes all picks.
func (s *Selection) Clear() {
	s.ids = nil
}
