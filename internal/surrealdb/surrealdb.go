package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/i-ashu/portfolio/internal/config"
	"github.com/i-ashu/portfolio/internal/models"
	sdk "github.com/surrealdb/surrealdb.go"
)

// Client stores contact submissions. It satisfies contact.Store.
type Client struct {
	db *sdk.DB
}

func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	db, err := sdk.FromEndpointURLString(ctx, cfg.SurrealURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to SurrealDB: %w", err)
	}

	if _, err := db.SignIn(ctx, sdk.Auth{
		Namespace: cfg.SurrealNS,
		Database:  cfg.SurrealDB,
		Username:  cfg.SurrealUser,
		Password:  cfg.SurrealPass,
	}); err != nil {
		_ = db.Close(ctx)
		return nil, fmt.Errorf("signing in: %w", err)
	}

	if err := db.Use(ctx, cfg.SurrealNS, cfg.SurrealDB); err != nil {
		_ = db.Close(ctx)
		return nil, fmt.Errorf("selecting ns/db: %w", err)
	}

	return &Client{db: db}, nil
}

func (c *Client) Close(ctx context.Context) error {
	return c.db.Close(ctx)
}

const schema = `
DEFINE TABLE IF NOT EXISTS submission SCHEMAFULL;

DEFINE FIELD IF NOT EXISTS form_name   ON TABLE submission TYPE string;
DEFINE FIELD IF NOT EXISTS name        ON TABLE submission TYPE string;
DEFINE FIELD IF NOT EXISTS email       ON TABLE submission TYPE string;
DEFINE FIELD IF NOT EXISTS subject     ON TABLE submission TYPE option<string>;
DEFINE FIELD IF NOT EXISTS message     ON TABLE submission TYPE string;
DEFINE FIELD IF NOT EXISTS remote_hash ON TABLE submission TYPE string;
DEFINE FIELD IF NOT EXISTS created_at  ON TABLE submission TYPE datetime;

DEFINE INDEX IF NOT EXISTS idx_created_at ON TABLE submission FIELDS created_at;
`

func (c *Client) InitSchema(ctx context.Context) error {
	if _, err := sdk.Query[any](ctx, c.db, schema, nil); err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (c *Client) Save(ctx context.Context, s models.Submission) error {
	_, err := sdk.Query[any](ctx, c.db,
		`CREATE type::thing("submission", $id) CONTENT $data`,
		map[string]any{
			"id":   s.ID,
			"data": submissionData(s),
		})
	if err != nil {
		return fmt.Errorf("saving submission %s: %w", s.ID, err)
	}
	return nil
}

// submissionData leaves out an empty subject so it is stored as NONE
// rather than a CBOR NULL.
func submissionData(s models.Submission) map[string]any {
	data := map[string]any{
		"form_name":   s.FormName,
		"name":        s.Name,
		"email":       s.Email,
		"message":     s.Message,
		"remote_hash": s.RemoteHash,
		"created_at":  s.CreatedAt.UTC(),
	}
	if s.Subject != "" {
		data["subject"] = s.Subject
	}
	return data
}

type submissionRow struct {
	ID         string  `json:"id"`
	FormName   string  `json:"form_name"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Subject    *string `json:"subject"`
	Message    string  `json:"message"`
	RemoteHash string  `json:"remote_hash"`
	CreatedAt  string  `json:"created_at"`
}

func (r submissionRow) toModel() (models.Submission, error) {
	created, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return models.Submission{}, fmt.Errorf("parsing created_at for %s: %w", r.ID, err)
	}
	s := models.Submission{
		ID:         r.ID,
		FormName:   r.FormName,
		Name:       r.Name,
		Email:      r.Email,
		Message:    r.Message,
		RemoteHash: r.RemoteHash,
		CreatedAt:  created,
	}
	if r.Subject != nil {
		s.Subject = *r.Subject
	}
	return s, nil
}

// List returns the newest submissions first. limit <= 0 means all.
func (c *Client) List(ctx context.Context, limit int) ([]models.Submission, error) {
	query := `
		SELECT meta::id(id) AS id, form_name, name, email, subject, message, remote_hash,
			<string> created_at AS created_at
		FROM submission
		ORDER BY created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	results, err := sdk.Query[[]submissionRow](ctx, c.db, query, nil)
	if err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}
	if len(*results) == 0 {
		return nil, nil
	}

	rows := (*results)[0].Result
	out := make([]models.Submission, 0, len(rows))
	for _, row := range rows {
		s, err := row.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (c *Client) Count(ctx context.Context) (int, error) {
	results, err := sdk.Query[[]map[string]any](ctx, c.db,
		`SELECT count() AS total FROM submission GROUP ALL`, nil)
	if err != nil {
		return 0, fmt.Errorf("counting submissions: %w", err)
	}
	if len(*results) == 0 || len((*results)[0].Result) == 0 {
		return 0, nil
	}
	return toInt((*results)[0].Result[0]["total"]), nil
}

func toInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		return int(n)
	default:
		return 0
	}
}
