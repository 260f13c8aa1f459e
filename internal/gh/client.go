package gh

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.github.com"

// HTTPClient interface for HTTP operations (allows mocking in tests).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds the connection parameters for a hosting-platform client.
type ClientConfig struct {
	BaseURL string // API base URL; defaults to api.github.com
	Token   string // credential, injected by the caller, never logged
	Owner   string // repository owner
	Repo    string // repository name
}

// Client talks to the GitHub REST API for a single repository.
type Client struct {
	baseURL    string
	token      string
	owner      string
	repo       string
	httpClient HTTPClient
	log        *zap.Logger
}

// NewClient creates a hosting-platform client. A nil httpClient gets a
// default with a request timeout; a nil logger is replaced with a no-op.
func NewClient(config ClientConfig, httpClient HTTPClient, log *zap.Logger) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		baseURL:    baseURL,
		token:      config.Token,
		owner:      config.Owner,
		repo:       config.Repo,
		httpClient: httpClient,
		log:        log,
	}
}

// CreatePR opens a new pull request from spec.Head into spec.Base.
func (c *Client) CreatePR(ctx context.Context, spec PRSpec) (*PR, error) {
	payload := map[string]string{
		"title": spec.Title,
		"body":  spec.Body,
		"head":  spec.Head,
		"base":  spec.Base,
	}

	var pr prJSON
	path := fmt.Sprintf("/repos/%s/%s/pulls", c.owner, c.repo)
	if err := c.do(ctx, http.MethodPost, path, payload, &pr); err != nil {
		return nil, fmt.Errorf("failed to create PR: %w", err)
	}

	c.log.Debug("created pull request",
		zap.Int("number", pr.Number),
		zap.String("head", spec.Head),
		zap.String("base", spec.Base),
	)
	return pr.toPR(), nil
}

// UpdatePR updates the title, body, and base of an existing pull request.
func (c *Client) UpdatePR(ctx context.Context, number int, spec PRSpec) (*PR, error) {
	payload := map[string]string{
		"title": spec.Title,
		"body":  spec.Body,
		"base":  spec.Base,
	}

	var pr prJSON
	path := fmt.Sprintf("/repos/%s/%s/pulls/%d", c.owner, c.repo, number)
	if err := c.do(ctx, http.MethodPatch, path, payload, &pr); err != nil {
		return nil, fmt.Errorf("failed to update PR #%d: %w", number, err)
	}

	return pr.toPR(), nil
}

// FindPR returns the open pull request for the given branch pair, or nil if
// no such PR exists.
func (c *Client) FindPR(ctx context.Context, head, base string) (*PR, error) {
	query := url.Values{
		"head":     {fmt.Sprintf("%s:%s", c.owner, head)},
		"base":     {base},
		"state":    {"open"},
		"per_page": {"1"},
	}

	var prs []prJSON
	path := fmt.Sprintf("/repos/%s/%s/pulls?%s", c.owner, c.repo, query.Encode())
	if err := c.do(ctx, http.MethodGet, path, nil, &prs); err != nil {
		return nil, fmt.Errorf("failed to list PRs for %s..%s: %w", base, head, err)
	}

	if len(prs) == 0 {
		return nil, nil
	}
	return prs[0].toPR(), nil
}

// ListPRsByLabel returns the open pull requests carrying the given label.
func (c *Client) ListPRsByLabel(ctx context.Context, label string) ([]PR, error) {
	var prs []prJSON
	path := fmt.Sprintf("/repos/%s/%s/pulls?state=open&per_page=100", c.owner, c.repo)
	if err := c.do(ctx, http.MethodGet, path, nil, &prs); err != nil {
		return nil, fmt.Errorf("failed to list PRs: %w", err)
	}

	var result []PR
	for _, pr := range prs {
		if pr.hasLabel(label) {
			result = append(result, *pr.toPR())
		}
	}
	return result, nil
}

// AddAssignees assigns users to a pull request.
func (c *Client) AddAssignees(ctx context.Context, number int, assignees []string) error {
	if len(assignees) == 0 {
		return nil
	}

	payload := map[string][]string{"assignees": assignees}
	path := fmt.Sprintf("/repos/%s/%s/issues/%d/assignees", c.owner, c.repo, number)
	if err := c.do(ctx, http.MethodPost, path, payload, nil); err != nil {
		return fmt.Errorf("failed to assign PR #%d: %w", number, err)
	}
	return nil
}

// AddLabels applies labels to a pull request.
func (c *Client) AddLabels(ctx context.Context, number int, labels []string) error {
	if len(labels) == 0 {
		return nil
	}

	payload := map[string][]string{"labels": labels}
	path := fmt.Sprintf("/repos/%s/%s/issues/%d/labels", c.owner, c.repo, number)
	if err := c.do(ctx, http.MethodPost, path, payload, nil); err != nil {
		return fmt.Errorf("failed to label PR #%d: %w", number, err)
	}
	return nil
}

// BranchExists reports whether a branch exists in the repository.
func (c *Client) BranchExists(ctx context.Context, branch string) (bool, error) {
	path := fmt.Sprintf("/repos/%s/%s/branches/%s", c.owner, c.repo, url.PathEscape(branch))
	err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrBranchNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check branch %s: %w", branch, err)
}

// CheckCredential verifies the token against the platform and returns the
// login it authenticates as.
func (c *Client) CheckCredential(ctx context.Context) (string, error) {
	var user struct {
		Login string `json:"login"`
	}
	if err := c.do(ctx, http.MethodGet, "/user", nil, &user); err != nil {
		return "", fmt.Errorf("credential check failed: %w", err)
	}
	return user.Login, nil
}

// do performs one API request, mapping failure responses onto the dispatch
// error taxonomy. result may be nil when the response body is not needed.
func (c *Client) do(ctx context.Context, method, path string, payload, result any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPlatform, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		c.log.Debug("platform request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return classifyError(resp.StatusCode, respBody)
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// prJSON is the wire shape of a pull request in GitHub API responses.
type prJSON struct {
	Number  int    `json:"number"`
	HTMLURL string `json:"html_url"`
	State   string `json:"state"`
	Title   string `json:"title"`
	Head    struct {
		Ref string `json:"ref"`
	} `json:"head"`
	Base struct {
		Ref string `json:"ref"`
	} `json:"base"`
	Labels []struct {
		Name string `json:"name"`
	} `json:"labels"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *prJSON) toPR() *PR {
	labels := make([]string, 0, len(p.Labels))
	for _, l := range p.Labels {
		labels = append(labels, l.Name)
	}
	return &PR{
		Number:    p.Number,
		URL:       p.HTMLURL,
		State:     p.State,
		Title:     p.Title,
		Head:      p.Head.Ref,
		Base:      p.Base.Ref,
		Labels:    labels,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (p *prJSON) hasLabel(name string) bool {
	for _, l := range p.Labels {
		if l.Name == name {
			return true
		}
	}
	return false
}
