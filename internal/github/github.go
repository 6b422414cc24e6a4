package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/i-ashu/portfolio/internal/models"
)

const (
	DefaultBaseURL = "https://api.github.com"

	// PerPage is the single page size requested from the listing endpoint.
	PerPage = 50
)

// Client is a thin wrapper around the GitHub REST repository listing.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		httpClient: http.DefaultClient,
	}
}

// WithHTTPClient swaps the transport, mainly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// FetchError reports a failed listing request. Callers must not use any
// partial data when it is returned.
type FetchError struct {
	Account string
	Status  int
	Err     error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetching repos for %s: GitHub API returned %d: %v", e.Account, e.Status, e.Err)
	}
	return fmt.Sprintf("fetching repos for %s: %v", e.Account, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ListRepos issues one request for up to PerPage of the account's
// repositories, most recently updated first.
func (c *Client) ListRepos(ctx context.Context, account string) ([]models.Repo, error) {
	q := url.Values{}
	q.Set("sort", "updated")
	q.Set("per_page", fmt.Sprint(PerPage))
	endpoint := fmt.Sprintf("%s/users/%s/repos?%s", c.baseURL, url.PathEscape(account), q.Encode())

	fail := func(status int, err error) ([]models.Repo, error) {
		return nil, &FetchError{Account: account, Status: status, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fail(0, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(0, fmt.Errorf("executing request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(resp.StatusCode, fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return fail(resp.StatusCode, errors.New(msg))
	}

	var nodes []repoNode
	if err := json.Unmarshal(body, &nodes); err != nil {
		return fail(resp.StatusCode, fmt.Errorf("parsing response: %w", err))
	}

	repos := make([]models.Repo, 0, len(nodes))
	for _, n := range nodes {
		repos = append(repos, nodeToRepo(n))
	}
	return repos, nil
}

// --- internal ---

type repoNode struct {
	Name            string    `json:"name"`
	FullName        string    `json:"full_name"`
	Description     *string   `json:"description"`
	Fork            bool      `json:"fork"`
	Size            int       `json:"size"`
	StargazersCount int       `json:"stargazers_count"`
	UpdatedAt       time.Time `json:"updated_at"`
	Homepage        *string   `json:"homepage"`
	HTMLURL         string    `json:"html_url"`
	Topics          []string  `json:"topics"`
	Language        *string   `json:"language"`
}

func nodeToRepo(n repoNode) models.Repo {
	r := models.Repo{
		Name:        n.Name,
		FullName:    n.FullName,
		Description: n.Description,
		Fork:        n.Fork,
		Size:        n.Size,
		Stars:       n.StargazersCount,
		UpdatedAt:   n.UpdatedAt,
		URL:         n.HTMLURL,
		Language:    n.Language,
	}

	// GitHub reports a cleared homepage as "" rather than null.
	if n.Homepage != nil && strings.TrimSpace(*n.Homepage) != "" {
		r.HomepageURL = n.Homepage
	}

	topics := n.Topics
	if topics == nil {
		topics = []string{}
	}
	r.Topics = topics

	return r
}
