package finals

import "slices"

// Selection is the set of candidate files picked for comparison in one
// project. While a final file is set the selection is locked to exactly
// that file and every other selection operation is a no-op.
type Selection struct {
	final string
	files []string
}

// NewSelection returns a selection seeded from the project's final file.
// An empty final leaves the selection unlocked and empty.
func NewSelection(final string) *Selection {
	s := &Selection{}
	s.SetFinal(final)
	return s
}

// Locked reports whether a final file pins the selection.
func (s *Selection) Locked() bool {
	return s.final != ""
}

// SetFinal pins the selection to final, or unlocks and empties it when final
// is empty.
func (s *Selection) SetFinal(final string) {
	s.final = final
	if final == "" {
		s.files = nil
		return
	}
	s.files = []string{final}
}

// Toggle adds or removes name. It reports whether the selection changed.
func (s *Selection) Toggle(name string) bool {
	if s.Locked() || name == "" {
		return false
	}
	if i := slices.Index(s.files, name); i >= 0 {
		s.files = slices.Delete(s.files, i, i+1)
		return true
	}
	s.files = append(s.files, name)
	return true
}

// Select replaces the selection with names, dropping duplicates and empty
// names. It reports whether the selection changed.
func (s *Selection) Select(names ...string) bool {
	if s.Locked() {
		return false
	}
	var out []string
	for _, n := range names {
		if n != "" && !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	s.files = out
	return true
}

// Remove drops name, e.g. after the file was deleted. The final file itself
// is only removed through SetFinal.
func (s *Selection) Remove(name string) {
	if s.Locked() {
		return
	}
	if i := slices.Index(s.files, name); i >= 0 {
		s.files = slices.Delete(s.files, i, i+1)
	}
}

// Files returns a copy of the selected file names.
func (s *Selection) Files() []string {
	return slices.Clone(s.files)
}
