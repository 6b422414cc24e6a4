package models

import "time"

// Repo is one record from the GitHub repository listing.
type Repo struct {
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Description *string   `json:"description"`
	Fork        bool      `json:"fork"`
	Size        int       `json:"size"`
	Stars       int       `json:"stars"`
	UpdatedAt   time.Time `json:"updated_at"`
	HomepageURL *string   `json:"homepage_url"`
	URL         string    `json:"url"`
	Topics      []string  `json:"topics"`
	Language    *string   `json:"language"`
}

type CardKind string

const (
	KindRepository CardKind = "repository"
	KindViewAll    CardKind = "view-all"
)

// ProjectCard is a display-ready entry in the projects grid.
type ProjectCard struct {
	Kind        CardKind `json:"kind" yaml:"-"`
	Title       string   `json:"title,omitempty" yaml:"title"`
	Description string   `json:"description,omitempty" yaml:"description"`
	Tags        []string `json:"tags,omitempty" yaml:"tags"`
	SourceURL   string   `json:"source_url,omitempty" yaml:"github"`
	DemoURL     *string  `json:"demo_url,omitempty" yaml:"demo"`
	Stars       int      `json:"stars,omitempty" yaml:"-"`
	Image       string   `json:"image,omitempty" yaml:"image"`
	TargetURL   string   `json:"target_url,omitempty" yaml:"-"`
}
