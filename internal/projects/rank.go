package projects

import (
	"sort"
	"strings"

	"github.com/i-ashu/portfolio/internal/models"
)

const (
	// MinSize is the exclusive lower bound on repository size.
	MinSize = 50

	// MaxCards caps the repository cards shown in the grid.
	MaxCards = 7
)

// Rank keeps original, described, non-trivial repositories and orders them
// by stars, newest update first on ties. At most MaxCards are returned.
// The input slice is not modified.
func Rank(repos []models.Repo) []models.Repo {
	kept := make([]models.Repo, 0, len(repos))
	for _, r := range repos {
		if keep(r) {
			kept = append(kept, r)
		}
	}

	// Stable so equal stars and equal timestamps keep listing order.
	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Stars != kept[j].Stars {
			return kept[i].Stars > kept[j].Stars
		}
		return kept[i].UpdatedAt.After(kept[j].UpdatedAt)
	})

	if len(kept) > MaxCards {
		kept = kept[:MaxCards]
	}
	return kept
}

func keep(r models.Repo) bool {
	if r.Fork {
		return false
	}
	if r.Description == nil || strings.TrimSpace(*r.Description) == "" {
		return false
	}
	return r.Size > MinSize
}
