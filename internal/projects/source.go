package projects

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/i-ashu/portfolio/internal/models"
	"gopkg.in/yaml.v3"
)

// Source produces the card list for one page view.
type Source interface {
	Cards(ctx context.Context) ([]models.ProjectCard, error)
}

// RepoLister is satisfied by *github.Client.
type RepoLister interface {
	ListRepos(ctx context.Context, account string) ([]models.Repo, error)
}

// GitHubSource fetches the live listing, then ranks and projects it.
type GitHubSource struct {
	Lister  RepoLister
	Account string
}

func (s GitHubSource) Cards(ctx context.Context) ([]models.ProjectCard, error) {
	repos, err := s.Lister.ListRepos(ctx, s.Account)
	if err != nil {
		return nil, err
	}
	return Project(s.Account, Rank(repos)), nil
}

// SnapshotSource ranks a listing previously saved with WriteSnapshot.
type SnapshotSource struct {
	Path    string
	Account string
}

func (s SnapshotSource) Cards(_ context.Context) ([]models.ProjectCard, error) {
	repos, err := ReadSnapshot(s.Path)
	if err != nil {
		return nil, err
	}
	return Project(s.Account, Rank(repos)), nil
}

//go:embed static.yaml
var staticYAML []byte

// StaticSource serves the hand-curated project list. It goes through the
// same cap and view-all card as live data.
type StaticSource struct {
	Account string
}

func (s StaticSource) Cards(_ context.Context) ([]models.ProjectCard, error) {
	cards, err := parseStatic(staticYAML)
	if err != nil {
		return nil, err
	}
	if len(cards) > MaxCards {
		cards = cards[:MaxCards]
	}
	return append(cards, ViewAll(s.Account)), nil
}

func parseStatic(data []byte) ([]models.ProjectCard, error) {
	var doc struct {
		Projects []models.ProjectCard `yaml:"projects"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing static projects: %w", err)
	}
	cards := make([]models.ProjectCard, 0, len(doc.Projects)+1)
	for _, c := range doc.Projects {
		c.Kind = models.KindRepository
		if len(c.Tags) == 0 {
			c.Tags = []string{FallbackTag}
		}
		if c.DemoURL != nil && *c.DemoURL == "" {
			c.DemoURL = nil
		}
		cards = append(cards, c)
	}
	return cards, nil
}

func ReadSnapshot(path string) ([]models.Repo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var repos []models.Repo
	if err := json.Unmarshal(data, &repos); err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", path, err)
	}
	return repos, nil
}

func WriteSnapshot(path string, repos []models.Repo) error {
	data, err := json.MarshalIndent(repos, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
