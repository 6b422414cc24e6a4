package projects

import (
	"strings"
	"unicode/utf8"

	"github.com/i-ashu/portfolio/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FallbackTag is used when a repository has neither topics nor a language.
const FallbackTag = "Code"

// Project maps ranked repositories to cards and appends the view-all card.
func Project(account string, ranked []models.Repo) []models.ProjectCard {
	cards := make([]models.ProjectCard, 0, len(ranked)+1)
	for _, r := range ranked {
		cards = append(cards, repoCard(r))
	}
	return append(cards, ViewAll(account))
}

// ViewAll returns the card linking to the account's full repository list.
func ViewAll(account string) models.ProjectCard {
	return models.ProjectCard{
		Kind:      models.KindViewAll,
		TargetURL: "https://github.com/" + account + "?tab=repositories",
	}
}

func repoCard(r models.Repo) models.ProjectCard {
	c := models.ProjectCard{
		Kind:      models.KindRepository,
		Title:     TitleCase(r.Name),
		Tags:      Tags(r),
		SourceURL: r.URL,
		Stars:     r.Stars,
	}
	if r.Description != nil {
		c.Description = *r.Description
	}
	if r.HomepageURL != nil && *r.HomepageURL != "" {
		demo := *r.HomepageURL
		c.DemoURL = &demo
	}
	return c
}

// TitleCase turns a repository slug into a display title:
// "flask-personal_blog" becomes "Flask Personal Blog".
// Only the first rune of each word changes, so "3d-viewer" keeps its
// lowercase d.
func TitleCase(name string) string {
	words := strings.Split(strings.NewReplacer("-", " ", "_", " ").Replace(name), " ")
	upper := cases.Upper(language.Und)
	for i, w := range words {
		if w == "" {
			continue
		}
		_, size := utf8.DecodeRuneInString(w)
		words[i] = upper.String(w[:size]) + w[size:]
	}
	return strings.Join(words, " ")
}

// Tags prefers topics, then the primary language, then FallbackTag.
func Tags(r models.Repo) []string {
	if len(r.Topics) > 0 {
		return append([]string(nil), r.Topics...)
	}
	if r.Language != nil && *r.Language != "" {
		return []string{*r.Language}
	}
	return []string{FallbackTag}
}
