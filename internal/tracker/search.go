package tracker

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/models"
)

// All disables a category or tag filter.
const All = "all"

// Query is the filter state of the inventory view. Empty fields and All
// match everything.
type Query struct {
	Text     string `json:"q"`
	Category string `json:"category"`
	Tag      string `json:"tag"`
}

// Filter returns the items matching q in their original order. Text matches
// case-insensitively as a substring of the name, location, category name or
// any tag.
func Filter(items []models.Item, q Query) []models.Item {
	fold := cases.Fold()
	text := fold.String(q.Text)
	out := make([]models.Item, 0, len(items))
	for _, it := range items {
		if !isAll(q.Category) && it.Category.ID != q.Category {
			continue
		}
		if !isAll(q.Tag) && !it.HasTag(q.Tag) {
			continue
		}
		if text != "" && !matchesText(fold, it, text) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func isAll(f string) bool {
	return f == "" || f == All
}

func matchesText(fold cases.Caser, it models.Item, text string) bool {
	if strings.Contains(fold.String(it.Name), text) ||
		strings.Contains(fold.String(it.Location), text) ||
		strings.Contains(fold.String(it.Category.Name), text) {
		return true
	}
	for _, t := range it.Tags {
		if strings.Contains(fold.String(t), text) {
			return true
		}
	}
	return false
}

// AllTags returns every tag in use, deduplicated and sorted.
func AllTags(items []models.Item) []string {
	seen := make(map[string]struct{})
	tags := []string{}
	for _, it := range items {
		for _, t := range it.Tags {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			tags = append(tags, t)
		}
	}
	sort.Strings(tags)
	return tags
}
