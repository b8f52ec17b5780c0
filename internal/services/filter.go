package services

import (
	"strings"

	"github.com/arnold/goalsetter/internal/models"
	"golang.org/x/text/cases"
)

// FilterAll disables a criterion.
const FilterAll = "All"

type FilterCriteria struct {
	Category string
	Priority string
	Status   string
	Search   string
}

// FilterGoals returns the goals matching every supplied criterion. Empty
// criteria and FilterAll are ignored. Search is case-insensitive over title,
// description and notes.
func FilterGoals(goals []models.Goal, c FilterCriteria) []models.Goal {
	fold := cases.Fold()
	search := fold.String(c.Search)

	out := make([]models.Goal, 0, len(goals))
	for _, g := range goals {
		if active(c.Category) && string(g.Category) != c.Category {
			continue
		}
		if active(c.Priority) && string(g.Priority) != c.Priority {
			continue
		}
		if active(c.Status) && string(g.Status) != c.Status {
			continue
		}
		if search != "" {
			haystack := fold.String(g.Title + " " + g.Description + " " + g.Notes)
			if !strings.Contains(haystack, search) {
				continue
			}
		}
		out = append(out, g.Clone())
	}
	return out
}

func active(v string) bool {
	return v != "" && v != FilterAll
}
