// Package filter decides which rendered products are visible for the checked
// category boxes. It never touches catalog or store state.
package filter

import (
	"net/url"
	"strings"
)

// Param is the form/query key carrying checked categories.
const Param = "category"

// Selection is the set of checked category labels. The zero value selects nothing.
type Selection struct {
	order []string
	set   map[string]struct{}
}

// NewSelection builds a selection from labels, ignoring blanks and repeats.
func NewSelection(categories ...string) Selection {
	var s Selection
	for _, c := range categories {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if s.set == nil {
			s.set = make(map[string]struct{})
		}
		if _, ok := s.set[c]; ok {
			continue
		}
		s.set[c] = struct{}{}
		s.order = append(s.order, c)
	}
	return s
}

// FromValues reads every checked category from request values.
func FromValues(values url.Values) Selection {
	return NewSelection(values[Param]...)
}

// Empty reports whether no category is checked.
func (s Selection) Empty() bool { return len(s.set) == 0 }

// Has reports whether category is checked.
func (s Selection) Has(category string) bool {
	_, ok := s.set[category]
	return ok
}

// Values returns the checked labels in the order they were given.
func (s Selection) Values() []string { return append([]string(nil), s.order...) }

// Visible is the filter law: everything shows when nothing is checked,
// otherwise only checked categories show.
func Visible(category string, sel Selection) bool {
	return sel.Empty() || sel.Has(category)
}

// Target is a rendered collection whose elements can be shown or hidden.
type Target interface {
	Len() int
	CategoryAt(i int) string
	SetVisible(i int, visible bool)
}

// Apply recomputes visibility for every element of t and returns how many are visible.
func Apply(t Target, sel Selection) int {
	shown := 0
	for i := 0; i < t.Len(); i++ {
		v := Visible(t.CategoryAt(i), sel)
		t.SetVisible(i, v)
		if v {
			shown++
		}
	}
	return shown
}
