package core

import (
	"fmt"
	"sort"
	"strings"
)

// Shortlists are the operator's named working lists of player names
// (e.g. "First Playing XI"). They are independent of the auction ledger.
type Shortlists map[string][]string

// Add appends a name to a list, creating the list on first use.
func (s Shortlists) Add(list, name string) error {
	list = strings.TrimSpace(list)
	name = strings.TrimSpace(name)
	if list == "" || name == "" {
		return fmt.Errorf("%w: shortlist and player name are required", ErrValidation)
	}
	for _, existing := range s[list] {
		if existing == name {
			return fmt.Errorf("%w: %q is already in %s", ErrAlreadyListed, name, list)
		}
	}
	s[list] = append(s[list], name)
	return nil
}

// Flush empties a list. Flushing an unknown list is a no-op.
func (s Shortlists) Flush(list string) {
	if _, ok := s[list]; ok {
		s[list] = []string{}
	}
}

// Names returns the names on a list in insertion order.
func (s Shortlists) Names(list string) []string {
	out := make([]string, len(s[list]))
	copy(out, s[list])
	return out
}

// Lists returns all list names sorted alphabetically.
func (s Shortlists) Lists() []string {
	lists := make([]string, 0, len(s))
	for name := range s {
		lists = append(lists, name)
	}
	sort.Strings(lists)
	return lists
}
