package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/i-ashu/portfolio/internal/config"
	"github.com/i-ashu/portfolio/internal/models"
	"github.com/i-ashu/portfolio/internal/projects"
	"github.com/i-ashu/portfolio/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	repos []models.Repo
	err   error
	calls int
}

func (f *fakeLister) ListRepos(context.Context, string) ([]models.Repo, error) {
	f.calls++
	return f.repos, f.err
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Owner:    "Ashutosh",
		Account:  "i-ashu",
		Roles:    []string{"Web Developer"},
		Source:   config.SourceGitHub,
		FormName: "contact",
		DistDir:  filepath.Join(t.TempDir(), "dist"),
	}
}

func repos() []models.Repo {
	desc := "A blogging platform"
	return []models.Repo{{
		Name:        "flask-personal-blog",
		Description: &desc,
		Size:        800,
		Stars:       4,
		UpdatedAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		URL:         "https://github.com/i-ashu/flask-personal-blog",
		Topics:      []string{"flask"},
	}}
}

func readProjects(t *testing.T, dir string) map[string]json.RawMessage {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "projects.json"))
	require.NoError(t, err)
	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestRunGitHub(t *testing.T) {
	cfg := testConfig(t)
	static := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(static, "img"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(static, "img", "work1.png"), []byte("png"), 0o644))
	cfg.StaticDir = static

	lister := &fakeLister{repos: repos()}
	report, err := Run(context.Background(), cfg, Options{Lister: lister})
	require.NoError(t, err)

	assert.Equal(t, 1, lister.calls)
	assert.Equal(t, projects.StateRendered, report.State)
	assert.Equal(t, 2, report.Cards)
	assert.Contains(t, report.Files, filepath.Join(cfg.DistDir, "index.html"))
	assert.Contains(t, report.Files, filepath.Join(cfg.DistDir, "static", "img", "work1.png"))
	assert.Contains(t, report.Files, filepath.Join(cfg.DistDir, "img", "work1.png"))

	index, err := os.ReadFile(filepath.Join(cfg.DistDir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "Flask Personal Blog")

	out := readProjects(t, cfg.DistDir)
	var cards []models.ProjectCard
	require.NoError(t, json.Unmarshal(out["projects"], &cards))
	require.Len(t, cards, 2)
	assert.Equal(t, models.KindViewAll, cards[1].Kind)

	_, err = os.Stat(filepath.Join(cfg.DistDir, snapshotFile))
	assert.NoError(t, err, "live build saves a snapshot")
}

func TestRunOfflineUsesSnapshot(t *testing.T) {
	cfg := testConfig(t)
	_, err := Run(context.Background(), cfg, Options{Lister: &fakeLister{repos: repos()}})
	require.NoError(t, err)

	lister := &fakeLister{err: errors.New("should not be called")}
	report, err := Run(context.Background(), cfg, Options{Offline: true, Lister: lister})
	require.NoError(t, err)

	assert.Zero(t, lister.calls)
	assert.Equal(t, 2, report.Cards)
}

func TestRunFailedStillWritesErrorPage(t *testing.T) {
	cfg := testConfig(t)
	boom := errors.New("GitHub API returned 503")

	report, err := Run(context.Background(), cfg, Options{Lister: &fakeLister{err: boom}})
	require.ErrorIs(t, err, boom)
	require.NotNil(t, report)
	assert.Equal(t, projects.StateFailed, report.State)
	assert.Zero(t, report.Cards)

	index, readErr := os.ReadFile(filepath.Join(cfg.DistDir, "index.html"))
	require.NoError(t, readErr)
	assert.Contains(t, string(index), render.ErrorMessage)

	out := readProjects(t, cfg.DistDir)
	assert.NotContains(t, out, "projects")
	assert.Contains(t, out, "error")

	_, statErr := os.Stat(filepath.Join(cfg.DistDir, snapshotFile))
	assert.True(t, os.IsNotExist(statErr), "failed fetch must not leave a snapshot")
}

func TestRunStaticSource(t *testing.T) {
	cfg := testConfig(t)
	cfg.Source = config.SourceStatic
	lister := &fakeLister{}

	report, err := Run(context.Background(), cfg, Options{Lister: lister, OutDir: filepath.Join(t.TempDir(), "out")})
	require.NoError(t, err)

	assert.Zero(t, lister.calls)
	assert.Equal(t, 7, report.Cards)
}

var srcAttr = regexp.MustCompile(`src="([^"]+)"`)

func TestRunStaticSourceLinksResolve(t *testing.T) {
	cfg := testConfig(t)
	cfg.Source = config.SourceStatic
	static := t.TempDir()
	for _, name := range []string{
		"img/work1.png", "img/work2.png", "img/work3.png", "img/work4.png", "img/blog.png",
		"scripts/theme.js", "scripts/animations.js", "scripts/main.js",
		"styles/main.css",
	} {
		path := filepath.Join(static, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(name), 0o644))
	}
	cfg.StaticDir = static

	_, err := Run(context.Background(), cfg, Options{})
	require.NoError(t, err)

	index, err := os.ReadFile(filepath.Join(cfg.DistDir, "index.html"))
	require.NoError(t, err)
	matches := srcAttr.FindAllStringSubmatch(string(index), -1)
	require.NotEmpty(t, matches)

	var images int
	for _, m := range matches {
		ref := m[1]
		require.True(t, strings.HasPrefix(ref, "/"), "site-relative reference %q", ref)
		if strings.HasPrefix(ref, "/img/") {
			images++
		}
		_, statErr := os.Stat(filepath.Join(cfg.DistDir, filepath.FromSlash(strings.TrimPrefix(ref, "/"))))
		assert.NoError(t, statErr, "page references %s", ref)
	}
	assert.Positive(t, images, "static cards carry images")
}

func TestCopyTreeMissingSource(t *testing.T) {
	copied, err := copyTree(context.Background(), filepath.Join(t.TempDir(), "missing"), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, copied)
}
