package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/i-ashu/portfolio/internal/config"
	"github.com/i-ashu/portfolio/internal/contact"
	"github.com/i-ashu/portfolio/internal/github"
	"github.com/i-ashu/portfolio/internal/models"
	"github.com/i-ashu/portfolio/internal/pipeline"
	"github.com/i-ashu/portfolio/internal/projects"
	"github.com/i-ashu/portfolio/internal/render"
	"github.com/i-ashu/portfolio/internal/site"
	"github.com/i-ashu/portfolio/internal/surrealdb"
	"github.com/i-ashu/portfolio/internal/trigger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose bool
	logger  = zap.NewNop()
)

func main() {
	root := &cobra.Command{
		Use:          "portfolio",
		Short:        "Personal portfolio site with a live GitHub projects grid",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			zcfg := zap.NewProductionConfig()
			if verbose {
				zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			l, err := zcfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	root.AddCommand(serveCmd(), buildCmd(), projectsCmd(), schemaCmd(), submissionsCmd())

	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func projectSource(cfg *config.Config) projects.Source {
	if cfg.Source == config.SourceStatic {
		return projects.StaticSource{Account: cfg.Account}
	}
	return projects.GitHubSource{
		Lister:  github.NewClient(cfg.GitHubAPIURL, cfg.GitHubToken),
		Account: cfg.Account,
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the portfolio and the contact form endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			reg := trigger.New()
			trigger.Log(reg, logger)
			renderer, err := render.New(reg)
			if err != nil {
				return err
			}

			var store contact.Store
			if cfg.HasDatabase() {
				db, err := surrealdb.NewClient(ctx, cfg)
				if err != nil {
					return err
				}
				defer func() { _ = db.Close(context.Background()) }()
				if err := db.InitSchema(ctx); err != nil {
					return err
				}
				store = db
			} else {
				logger.Warn("SURREAL_URL not set, contact submissions are kept in memory")
				store = contact.NewMemoryStore()
			}

			h := site.New(site.Options{
				Source:   projectSource(cfg),
				Renderer: renderer,
				Contact:  contact.NewService(store, cfg.FormName, cfg.HashSalt, reg, logger),
				Page: render.PageData{
					Title:    cfg.Owner + " | Portfolio",
					Owner:    cfg.Owner,
					Roles:    cfg.Roles,
					Account:  cfg.Account,
					FormName: cfg.FormName,
				},
				StaticDir: cfg.StaticDir,
				Logger:    logger,
			})
			return site.Serve(ctx, ":"+cfg.Port, h, logger)
		},
	}
}

func buildCmd() *cobra.Command {
	var offline bool
	var out string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render the site to a static directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			report, err := pipeline.Run(cmd.Context(), cfg, pipeline.Options{
				Offline: offline,
				OutDir:  out,
				Logger:  logger,
			})
			if report != nil {
				fmt.Printf("Projects: %s (%d cards)\n", report.State, report.Cards)
				for _, f := range report.Files {
					fmt.Printf("  wrote %s\n", f)
				}
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "Build from the last saved repos.json instead of calling GitHub")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output directory (default $PORTFOLIO_DIST_DIR)")
	return cmd
}

func projectsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Print the ranked project cards",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			res := projects.Build(cmd.Context(), projectSource(cfg))
			if res.Failed() {
				return res.Err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(res.Cards)
			}

			for i, c := range res.Cards {
				if c.Kind == models.KindViewAll {
					fmt.Printf("%d. View all → %s\n", i+1, c.TargetURL)
					continue
				}
				fmt.Printf("%d. %s  ★ %d\n", i+1, c.Title, c.Stars)
				fmt.Printf("   %s\n", c.SourceURL)
				if c.Description != "" {
					fmt.Printf("   %s\n", c.Description)
				}
				fmt.Printf("   Tags: %s\n", strings.Join(c.Tags, ", "))
				if c.DemoURL != nil {
					fmt.Printf("   Demo: %s\n", *c.DemoURL)
				}
				fmt.Println()
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print cards as JSON")
	return cmd
}

func schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Initialize/update the SurrealDB schema for contact submissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			db, err := surrealdb.NewClient(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close(ctx) }()

			if err := db.InitSchema(ctx); err != nil {
				return err
			}
			fmt.Println("Schema initialized")
			return nil
		},
	}
}

func submissionsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "submissions",
		Short: "List stored contact form messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			db, err := surrealdb.NewClient(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close(ctx) }()

			total, err := db.Count(ctx)
			if err != nil {
				return err
			}
			subs, err := db.List(ctx, limit)
			if err != nil {
				return err
			}

			if len(subs) == 0 {
				fmt.Println("No submissions")
				return nil
			}

			fmt.Printf("Showing %d of %d submissions:\n\n", len(subs), total)
			for _, s := range subs {
				fmt.Printf("%s  %s <%s>\n", s.CreatedAt.Format("2006-01-02 15:04"), s.Name, s.Email)
				if s.Subject != "" {
					fmt.Printf("   Subject: %s\n", s.Subject)
				}
				fmt.Printf("   %s\n\n", s.Message)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of submissions")
	return cmd
}
