package projects

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/i-ashu/portfolio/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	repos []models.Repo
	err   error
	calls int
}

func (f *fakeLister) ListRepos(_ context.Context, _ string) ([]models.Repo, error) {
	f.calls++
	return f.repos, f.err
}

func TestGitHubSource(t *testing.T) {
	lister := &fakeLister{repos: []models.Repo{repo("low", 1, base), repo("high", 8, base)}}
	cards, err := GitHubSource{Lister: lister, Account: "i-ashu"}.Cards(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, lister.calls)
	require.Len(t, cards, 3)
	assert.Equal(t, "High", cards[0].Title)
	assert.Equal(t, "Low", cards[1].Title)
	assert.Equal(t, models.KindViewAll, cards[2].Kind)
}

func TestGitHubSourceError(t *testing.T) {
	boom := errors.New("boom")
	cards, err := GitHubSource{Lister: &fakeLister{err: boom}, Account: "i-ashu"}.Cards(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, cards)
}

func TestStaticSource(t *testing.T) {
	cards, err := StaticSource{Account: "i-ashu"}.Cards(context.Background())
	require.NoError(t, err)

	require.Len(t, cards, 7)
	assert.Equal(t, "Art Gallery Database Management", cards[0].Title)
	assert.Equal(t, "/img/work1.png", cards[0].Image)
	for _, c := range cards[:6] {
		assert.Equal(t, models.KindRepository, c.Kind)
		assert.NotEmpty(t, c.Tags)
		assert.Nil(t, c.DemoURL)
	}
	assert.Equal(t, models.KindViewAll, cards[6].Kind)
}

func TestParseStaticDefaults(t *testing.T) {
	doc := []byte(`
projects:
  - title: Untagged
    description: nothing here
    github: https://github.com/i-ashu/untagged
    demo: ""
`)
	cards, err := parseStatic(doc)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, []string{FallbackTag}, cards[0].Tags)
	assert.Nil(t, cards[0].DemoURL)
	assert.Equal(t, models.KindRepository, cards[0].Kind)
}

func TestParseStaticInvalid(t *testing.T) {
	_, err := parseStatic([]byte("projects: [unterminated"))
	assert.Error(t, err)
}

func TestSnapshotRoundTripThroughSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repos.json")
	require.NoError(t, WriteSnapshot(path, []models.Repo{repo("alpha", 2, base), repo("beta", 5, base)}))

	cards, err := SnapshotSource{Path: path, Account: "i-ashu"}.Cards(context.Background())
	require.NoError(t, err)
	require.Len(t, cards, 3)
	assert.Equal(t, "Beta", cards[0].Title)
	assert.Equal(t, "Alpha", cards[1].Title)
}

func TestSnapshotMissing(t *testing.T) {
	_, err := SnapshotSource{Path: filepath.Join(t.TempDir(), "nope.json")}.Cards(context.Background())
	assert.Error(t, err)
}
