// Package site serves the portfolio page, its project list and the contact
// form endpoint.
package site

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/i-ashu/portfolio/internal/contact"
	"github.com/i-ashu/portfolio/internal/projects"
	"github.com/i-ashu/portfolio/internal/render"
	"go.uber.org/zap"
)

// statusClientClosed marks requests whose client left before a response was
// written, following nginx's 499.
const statusClientClosed = 499

type Options struct {
	Source    projects.Source
	Renderer  *render.Renderer
	Contact   *contact.Service
	Page      render.PageData
	StaticDir string
	Logger    *zap.Logger
}

type server struct {
	opts   Options
	logger *zap.Logger
}

// New builds the gin engine. Every page view runs the project pipeline once;
// nothing is cached between requests.
func New(opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &server{opts: opts, logger: logger}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))
	r.SetHTMLTemplate(opts.Renderer.Template())

	if dirExists(opts.StaticDir) {
		r.Static("/static", opts.StaticDir)
		if img := filepath.Join(opts.StaticDir, "img"); dirExists(img) {
			r.Static("/img", img)
		}
	}

	r.GET("/", s.index)
	r.GET("/api/projects", s.projects)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// The form posts to the page's own origin; /contact is kept for clients
	// that post to an explicit endpoint.
	r.POST("/", s.submit)
	r.POST("/contact", s.submit)

	return r
}

func (s *server) index(c *gin.Context) {
	ctx := c.Request.Context()
	res := projects.Build(ctx, s.opts.Source)
	if err := ctx.Err(); err != nil {
		s.logger.Debug("client went away before the page rendered",
			zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.AbortWithStatus(statusClientClosed)
		return
	}

	page := render.NewPage(render.GridID)
	if err := s.opts.Renderer.Projects(ctx, page, res); err != nil {
		s.logger.Error("rendering projects", zap.Error(err))
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	data := s.opts.Page
	data.Year = time.Now().Year()
	data.Projects = page.Container(render.GridID)
	c.HTML(http.StatusOK, "index.html", data)
}

func (s *server) projects(c *gin.Context) {
	res := projects.Build(c.Request.Context(), s.opts.Source)
	if res.Failed() {
		s.logger.Warn("project list unavailable", zap.Error(res.Err))
		c.JSON(http.StatusBadGateway, gin.H{
			"state": res.State,
			"error": render.ErrorMessage,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"state":    res.State,
		"projects": res.Cards,
	})
}

func (s *server) submit(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "malformed form body"})
		return
	}

	sub, err := s.opts.Contact.Submit(c.Request.Context(), c.Request.PostForm, c.ClientIP())
	if err != nil {
		var ve *contact.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": ve.Error()})
			return
		}
		s.logger.Error("contact submission failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"ok":    false,
			"error": "Sorry, something went wrong. Please try again later.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "id": sub.ID})
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

func dirExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
