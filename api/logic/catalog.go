/* catalog.go
 * Contains the pure functions applied to the event catalog before it is shown: the gender filter, the stable
 * grouping by sport and the fuzzy search box
 * Authors: AIRO Web Team
 */

package logic

import (
	"strings"

	"airo-web/api/shared"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// SportGroup is the events of one sport, in catalog order
type SportGroup struct {
	Sport  string
	Label  string
	Events []shared.SportEvent
}

// Visible reports whether event may be shown to a user with the given gender.
// Mixed events are visible to everyone who declared a gender; men's and women's events only to the matching gender
func Visible(event shared.SportEvent, gender shared.Gender) bool {
	switch {
	case !gender.Valid():
		return false
	case event.Category == shared.CategoryMixed:
		return true
	case gender == shared.GenderMale && event.Category == shared.CategoryMens:
		return true
	case gender == shared.GenderFemale && event.Category == shared.CategoryWomens:
		return true
	}
	return false
}

// FilterByGender returns the events visible to gender, preserving order.
// The result is empty when no gender has been declared; callers should prompt for one (see NeedsGender)
func FilterByGender(events []shared.SportEvent, gender shared.Gender) []shared.SportEvent {
	visible := make([]shared.SportEvent, 0, len(events))
	for _, event := range events {
		if Visible(event, gender) {
			visible = append(visible, event)
		}
	}
	return visible
}

// NeedsGender reports whether the gender prompt must be shown instead of the catalog
func NeedsGender(user *shared.User) bool {
	return user == nil || !user.Gender.Valid()
}

// GroupBySport partitions events by sport. Sports keep the order they were first seen in, and events keep their
// order within a sport
func GroupBySport(events []shared.SportEvent) []SportGroup {
	var groups []SportGroup
	index := make(map[string]int)
	for _, event := range events {
		i, ok := index[event.Sport]
		if !ok {
			i = len(groups)
			index[event.Sport] = i
			groups = append(groups, SportGroup{Sport: event.Sport, Label: shared.SportLabel(event.Sport)})
		}
		groups[i].Events = append(groups[i].Events, event)
	}
	return groups
}

// SearchEvents keeps the events whose sport label or display name fuzzily matches query, preserving order.
// An empty query matches everything
func SearchEvents(events []shared.SportEvent, query string) []shared.SportEvent {
	query = strings.TrimSpace(query)
	if query == "" {
		return events
	}
	var matches []shared.SportEvent
	for _, event := range events {
		target := shared.SportLabel(event.Sport) + " " + event.DisplayName + " " + event.Category.Label()
		if fuzzy.MatchNormalizedFold(query, target) {
			matches = append(matches, event)
		}
	}
	return matches
}

// FindEvent returns the event with the given id
func FindEvent(events []shared.SportEvent, id string) (shared.SportEvent, bool) {
	for _, event := range events {
		if event.ID == id {
			return event, true
		}
	}
	return shared.SportEvent{}, false
}
