package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	SourceGitHub = "github"
	SourceStatic = "static"
)

type Config struct {
	Owner   string   `env:"PORTFOLIO_OWNER"          envDefault:"Ashutosh"`
	Account string   `env:"PORTFOLIO_GITHUB_ACCOUNT" envDefault:"i-ashu"`
	Roles   []string `env:"PORTFOLIO_ROLES"          envSeparator:"," envDefault:"Full Stack Developer,.NET Developer,Web Developer,Software Engineer,Problem Solver"`
	Source  string   `env:"PORTFOLIO_PROJECT_SOURCE" envDefault:"github"`

	GitHubToken  string `env:"GITHUB_TOKEN"`
	GitHubAPIURL string `env:"GITHUB_API_URL" envDefault:"https://api.github.com"`

	Port      string `env:"PORT"                  envDefault:"8080"`
	StaticDir string `env:"PORTFOLIO_STATIC_DIR"  envDefault:"public"`
	DistDir   string `env:"PORTFOLIO_DIST_DIR"    envDefault:"dist"`
	FormName  string `env:"PORTFOLIO_FORM_NAME"   envDefault:"contact"`
	HashSalt  string `env:"PORTFOLIO_HASH_SALT"`

	SurrealURL  string `env:"SURREAL_URL"`
	SurrealNS   string `env:"SURREAL_NS"   envDefault:"portfolio"`
	SurrealDB   string `env:"SURREAL_DB"   envDefault:"site"`
	SurrealUser string `env:"SURREAL_USER"`
	SurrealPass string `env:"SURREAL_PASS"`
}

// Load reads .env if present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	// The SDK appends /rpc automatically
	cfg.SurrealURL = strings.TrimSuffix(cfg.SurrealURL, "/rpc")
	cfg.SurrealURL = strings.TrimSuffix(cfg.SurrealURL, "/")

	cfg.Source = strings.ToLower(strings.TrimSpace(cfg.Source))
	if cfg.Source != SourceGitHub && cfg.Source != SourceStatic {
		return nil, fmt.Errorf("PORTFOLIO_PROJECT_SOURCE must be %q or %q, got %q", SourceGitHub, SourceStatic, cfg.Source)
	}
	if cfg.Account == "" {
		return nil, fmt.Errorf("PORTFOLIO_GITHUB_ACCOUNT must not be empty")
	}

	return cfg, nil
}

// HasDatabase reports whether contact submissions go to SurrealDB.
func (c *Config) HasDatabase() bool {
	return c.SurrealURL != ""
}
