// Package autocomplete implements the typeahead contract shared by every
// reference-picking input: substring filtering over an in-memory candidate
// list and resolution of the typed text into a candidate id.
package autocomplete

import "strings"

// Candidate is one pickable record: an opaque id plus the text shown to the
// user.
type Candidate struct {
	ID      string `json:"id"`
	Display string `json:"display"`
}

// Selection is a resolved pick. A zero Selection means "no selection".
type Selection struct {
	ID      string `json:"id"`
	Display string `json:"display"`
}

// Resolved reports whether the selection carries a candidate id.
func (s Selection) Resolved() bool {
	return s.ID != ""
}

// Filter returns the candidates whose display text contains the query,
// case-insensitively. An empty query matches everything.
func Filter(candidates []Candidate, query string) []Candidate {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return candidates
	}

	matched := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c.Display), query) {
			matched = append(matched, c)
		}
	}
	return matched
}

// Resolve turns the state of a typeahead input into a Selection. An emptied
// input always clears a previously resolved id. A selected id survives only
// while it still names a known candidate; otherwise the typed text must
// equal exactly one candidate's display value.
func Resolve(candidates []Candidate, input, selectedID string) Selection {
	input = strings.TrimSpace(input)
	if input == "" {
		return Selection{}
	}

	if selectedID != "" {
		for _, c := range candidates {
			if c.ID == selectedID {
				return Selection{ID: c.ID, Display: c.Display}
			}
		}
	}

	var match Selection
	var matches int
	for _, c := range candidates {
		if strings.EqualFold(c.Display, input) {
			match = Selection{ID: c.ID, Display: c.Display}
			matches++
		}
	}
	if matches == 1 {
		return match
	}
	return Selection{}
}
