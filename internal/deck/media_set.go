package deck

// MediaSet is the ordered, de-duplicated list of files bundled with a deck.
type MediaSet struct {
	paths []string
	seen  map[string]struct{}
}

// Add records path, reporting whether it was new.
func (m *MediaSet) Add(path string) bool {
	if m.seen == nil {
		m.seen = make(map[string]struct{})
	}
	if _, ok := m.seen[path]; ok {
		return false
	}
	m.seen[path] = struct{}{}
	m.paths = append(m.paths, path)
	return true
}

// Paths returns the files in the order they were first added.
func (m *MediaSet) Paths() []string {
	return append([]string(nil), m.paths...)
}

// Len returns the number of distinct files.
func (m *MediaSet) Len() int { return len(m.paths) }
