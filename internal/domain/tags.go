package domain

import (
	"sort"
	"strings"
)

// NormalizeTags trims ids, drops empty ones and removes duplicates while
// keeping first-seen order.
func NormalizeTags(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// DiffTags returns the ids present only in next (added) and only in prev
// (removed), each sorted. Both inputs are treated as sets.
func DiffTags(prev, next []string) (added, removed []string) {
	prevSet := toSet(prev)
	nextSet := toSet(next)
	for id := range nextSet {
		if !prevSet[id] {
			added = append(added, id)
		}
	}
	for id := range prevSet {
		if !nextSet[id] {
			removed = append(removed, id)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	return added, removed
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func containsTag(ids []string, id string) bool {
	for _, t := range ids {
		if t == id {
			return true
		}
	}
	return false
}
