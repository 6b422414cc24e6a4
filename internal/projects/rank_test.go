package projects

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/i-ashu/portfolio/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func ptr(s string) *string { return &s }

func repo(name string, stars int, updated time.Time) models.Repo {
	return models.Repo{
		Name:        name,
		Description: ptr("about " + name),
		Size:        100,
		Stars:       stars,
		UpdatedAt:   updated,
		URL:         "https://github.com/i-ashu/" + name,
		Topics:      []string{},
	}
}

func stars(repos []models.Repo) []int {
	out := make([]int, len(repos))
	for i, r := range repos {
		out[i] = r.Stars
	}
	return out
}

func TestRankTopSeven(t *testing.T) {
	counts := []int{5, 5, 3, 9, 1, 0, 2, 7, 4, 6}
	var in []models.Repo
	for i, s := range counts {
		in = append(in, repo(fmt.Sprintf("r%d", i), s, base.Add(time.Duration(i)*time.Hour)))
	}

	got := Rank(in)

	assert.Equal(t, []int{9, 7, 6, 5, 5, 4, 3}, stars(got))
	// r1 was updated after r0, so it wins the 5-star tie.
	assert.Equal(t, "r1", got[3].Name)
	assert.Equal(t, "r0", got[4].Name)
}

func TestRankFilters(t *testing.T) {
	fork := repo("fork", 50, base)
	fork.Fork = true
	noDesc := repo("no-desc", 50, base)
	noDesc.Description = nil
	blankDesc := repo("blank-desc", 50, base)
	blankDesc.Description = ptr("   ")
	atThreshold := repo("tiny", 50, base)
	atThreshold.Size = MinSize
	justOver := repo("small", 1, base)
	justOver.Size = MinSize + 1

	got := Rank([]models.Repo{fork, noDesc, blankDesc, atThreshold, justOver})

	require.Len(t, got, 1)
	assert.Equal(t, "small", got[0].Name)
}

func TestRankFewerThanSeven(t *testing.T) {
	in := []models.Repo{repo("a", 1, base), repo("b", 3, base), repo("c", 2, base)}
	got := Rank(in)
	assert.Equal(t, []int{3, 2, 1}, stars(got))
}

func TestRankEmpty(t *testing.T) {
	assert.Empty(t, Rank(nil))
	assert.Empty(t, Rank([]models.Repo{}))
}

func TestRankFullTieKeepsInputOrder(t *testing.T) {
	in := []models.Repo{repo("first", 2, base), repo("second", 2, base), repo("third", 2, base)}
	got := Rank(in)
	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].Name)
	assert.Equal(t, "second", got[1].Name)
	assert.Equal(t, "third", got[2].Name)
}

func TestRankDoesNotMutateInput(t *testing.T) {
	in := []models.Repo{repo("a", 1, base), repo("b", 3, base)}
	_ = Rank(in)
	assert.Equal(t, "a", in[0].Name)
	assert.Equal(t, "b", in[1].Name)
}

func TestRankProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for round := 0; round < 200; round++ {
		n := rng.IntN(60)
		in := make([]models.Repo, n)
		for i := range in {
			r := repo(fmt.Sprintf("r%d", i), rng.IntN(6), base.Add(time.Duration(rng.IntN(5))*time.Hour))
			r.Fork = rng.IntN(4) == 0
			r.Size = rng.IntN(120)
			switch rng.IntN(5) {
			case 0:
				r.Description = nil
			case 1:
				r.Description = ptr("")
			}
			in[i] = r
		}

		got := Rank(in)

		require.LessOrEqual(t, len(got), MaxCards)
		for i, r := range got {
			assert.False(t, r.Fork)
			require.NotNil(t, r.Description)
			assert.NotEmpty(t, *r.Description)
			assert.Greater(t, r.Size, MinSize)
			if i == 0 {
				continue
			}
			prev := got[i-1]
			assert.GreaterOrEqual(t, prev.Stars, r.Stars)
			if prev.Stars == r.Stars {
				assert.False(t, r.UpdatedAt.After(prev.UpdatedAt), "tie must be broken by newest update")
			}
		}
	}
}
