package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/i-ashu/portfolio/internal/config"
	"github.com/i-ashu/portfolio/internal/github"
	"github.com/i-ashu/portfolio/internal/models"
	"github.com/i-ashu/portfolio/internal/projects"
	"github.com/i-ashu/portfolio/internal/render"
	"github.com/i-ashu/portfolio/internal/trigger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const snapshotFile = "repos.json"

// assetMounts lays static assets out the way the server serves them:
// the whole directory under /static and its img folder under /img.
var assetMounts = []struct{ src, dst string }{
	{src: ".", dst: "static"},
	{src: "img", dst: "img"},
}

type Options struct {
	// Offline builds from the last saved snapshot instead of calling GitHub.
	Offline bool
	OutDir  string
	// Lister overrides the GitHub client.
	Lister projects.RepoLister
	Logger *zap.Logger
}

// Report summarises a build.
type Report struct {
	State projects.State
	Cards int
	Files []string
}

// Run renders the site into the output directory. A failed project fetch
// still produces a page showing the error message, and Run then returns
// the fetch error.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	outDir := opts.OutDir
	if outDir == "" {
		outDir = cfg.DistDir
	}

	reg := trigger.New()
	trigger.Log(reg, logger)
	renderer, err := render.New(reg)
	if err != nil {
		return nil, err
	}

	// Step 1: Build the card list
	src := source(cfg, opts, filepath.Join(outDir, snapshotFile), logger)
	res := projects.Build(ctx, src)

	// Step 2: Render the grid into the page
	page := render.NewPage(render.GridID)
	if err := renderer.Projects(ctx, page, res); err != nil {
		return nil, err
	}

	// Step 3: Write artifacts
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", outDir, err)
	}

	data := render.PageData{
		Title:    cfg.Owner + " | Portfolio",
		Owner:    cfg.Owner,
		Roles:    cfg.Roles,
		Account:  cfg.Account,
		FormName: cfg.FormName,
		Year:     time.Now().Year(),
	}

	var (
		mu    sync.Mutex
		files []string
	)
	wrote := func(path string) {
		mu.Lock()
		files = append(files, path)
		mu.Unlock()
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	g.Go(func() error {
		path := filepath.Join(outDir, "index.html")
		if err := writeFile(path, func(w io.Writer) error {
			return renderer.Document(w, page, data)
		}); err != nil {
			return err
		}
		wrote(path)
		return nil
	})

	g.Go(func() error {
		path := filepath.Join(outDir, "projects.json")
		if err := writeFile(path, func(w io.Writer) error {
			return writeProjectsJSON(w, res)
		}); err != nil {
			return err
		}
		wrote(path)
		return nil
	})

	if cfg.StaticDir != "" {
		for _, m := range assetMounts {
			g.Go(func() error {
				copied, err := copyTree(gCtx, filepath.Join(cfg.StaticDir, m.src), filepath.Join(outDir, m.dst))
				if err != nil {
					return fmt.Errorf("copying %s assets: %w", m.dst, err)
				}
				for _, p := range copied {
					wrote(p)
				}
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Strings(files)
	report := &Report{State: res.State, Cards: len(res.Cards), Files: files}
	logger.Info("build complete",
		zap.String("state", string(res.State)),
		zap.Int("cards", report.Cards),
		zap.Int("files", len(files)))

	if res.Failed() {
		return report, fmt.Errorf("building project list: %w", res.Err)
	}
	return report, nil
}

func source(cfg *config.Config, opts Options, snapshot string, logger *zap.Logger) projects.Source {
	if cfg.Source == config.SourceStatic {
		return projects.StaticSource{Account: cfg.Account}
	}
	if opts.Offline {
		return projects.SnapshotSource{Path: snapshot, Account: cfg.Account}
	}
	lister := opts.Lister
	if lister == nil {
		lister = github.NewClient(cfg.GitHubAPIURL, cfg.GitHubToken)
	}
	return projects.GitHubSource{
		Lister:  &snapshotLister{lister: lister, path: snapshot, logger: logger},
		Account: cfg.Account,
	}
}

// snapshotLister saves every successful listing so later builds can run
// with Offline.
type snapshotLister struct {
	lister projects.RepoLister
	path   string
	logger *zap.Logger
}

func (s *snapshotLister) ListRepos(ctx context.Context, account string) ([]models.Repo, error) {
	repos, err := s.lister.ListRepos(ctx, account)
	if err != nil {
		return nil, err
	}
	err = os.MkdirAll(filepath.Dir(s.path), 0o755)
	if err == nil {
		err = projects.WriteSnapshot(s.path, repos)
	}
	if err != nil {
		s.logger.Warn("could not write snapshot", zap.String("path", s.path), zap.Error(err))
	}
	return repos, nil
}

func writeProjectsJSON(w io.Writer, res projects.Result) error {
	out := map[string]any{"state": res.State}
	if res.Failed() {
		out["error"] = render.ErrorMessage
	} else {
		out["projects"] = res.Cards
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeFile(path string, fill func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := fill(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// copyTree mirrors src into dst. A missing src copies nothing.
func copyTree(ctx context.Context, src, dst string) ([]string, error) {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return nil, nil
	}

	var copied []string
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if err := copyFile(path, target); err != nil {
			return err
		}
		copied = append(copied, target)
		return nil
	})
	return copied, err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	return writeFile(dst, func(w io.Writer) error {
		_, err := io.Copy(w, in)
		return err
	})
}
