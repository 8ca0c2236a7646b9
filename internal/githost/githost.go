// Package githost publishes a changed document as a pull request using the
// GitHub REST API: resolve the base branch, cut a new branch, commit the
// file, open the PR.
package githost

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultAPIURL = "https://api.github.com"

type Client struct {
	apiURL string
	token  string
	owner  string
	repo   string
	http   *http.Client
}

// NewClient builds a client for "owner/name" style repository slugs.
func NewClient(token, repository string) (*Client, error) {
	owner, repo, ok := strings.Cut(repository, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("repository must be owner/name, got %q", repository)
	}
	return &Client{
		apiURL: defaultAPIURL,
		token:  token,
		owner:  owner,
		repo:   repo,
		http:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// PullRequest describes one publish operation: commit Content to Path on a
// fresh Branch off Base, then open a PR with the given title and body.
type PullRequest struct {
	Branch  string
	Base    string
	Path    string
	Content string
	Title   string
	Body    string
}

// Publish runs the branch/commit/PR sequence and returns the PR's HTML URL.
// Any failed step is fatal to the run; there is no partial retry.
func (c *Client) Publish(ctx context.Context, pr PullRequest) (string, error) {
	baseSHA, err := c.refSHA(ctx, pr.Base)
	if err != nil {
		return "", fmt.Errorf("resolving base branch %s: %w", pr.Base, err)
	}
	if err := c.createRef(ctx, pr.Branch, baseSHA); err != nil {
		return "", fmt.Errorf("creating branch %s: %w", pr.Branch, err)
	}
	fileSHA, err := c.contentSHA(ctx, pr.Path, pr.Base)
	if err != nil {
		return "", fmt.Errorf("checking %s on %s: %w", pr.Path, pr.Base, err)
	}
	if err := c.putContent(ctx, pr, fileSHA); err != nil {
		return "", fmt.Errorf("committing %s: %w", pr.Path, err)
	}
	url, err := c.openPR(ctx, pr)
	if err != nil {
		return "", fmt.Errorf("opening pull request: %w", err)
	}
	return url, nil
}

func (c *Client) refSHA(ctx context.Context, branch string) (string, error) {
	var ref struct {
		Object struct {
			SHA string `json:"sha"`
		} `json:"object"`
	}
	status, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/repos/%s/%s/git/ref/heads/%s", c.owner, c.repo, branch), nil, &ref)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", status)
	}
	return ref.Object.SHA, nil
}

func (c *Client) createRef(ctx context.Context, branch, sha string) error {
	body := map[string]string{"ref": "refs/heads/" + branch, "sha": sha}
	status, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/repos/%s/%s/git/refs", c.owner, c.repo), body, nil)
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return fmt.Errorf("unexpected status %d", status)
	}
	return nil
}

// contentSHA returns the blob SHA of path on ref, or "" when the file does
// not exist yet (first run against a repo).
func (c *Client) contentSHA(ctx context.Context, path, ref string) (string, error) {
	var content struct {
		SHA string `json:"sha"`
	}
	status, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/repos/%s/%s/contents/%s?ref=%s", c.owner, c.repo, path, ref), nil, &content)
	if err != nil {
		return "", err
	}
	switch status {
	case http.StatusOK:
		return content.SHA, nil
	case http.StatusNotFound:
		return "", nil
	default:
		return "", fmt.Errorf("unexpected status %d", status)
	}
}

func (c *Client) putContent(ctx context.Context, pr PullRequest, fileSHA string) error {
	body := map[string]string{
		"message": pr.Title,
		"content": base64.StdEncoding.EncodeToString([]byte(pr.Content)),
		"branch":  pr.Branch,
	}
	if fileSHA != "" {
		body["sha"] = fileSHA
	}
	status, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/repos/%s/%s/contents/%s", c.owner, c.repo, pr.Path), body, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return fmt.Errorf("unexpected status %d", status)
	}
	return nil
}

func (c *Client) openPR(ctx context.Context, pr PullRequest) (string, error) {
	body := map[string]string{
		"title": pr.Title,
		"head":  pr.Branch,
		"base":  pr.Base,
		"body":  pr.Body,
	}
	var created struct {
		HTMLURL string `json:"html_url"`
	}
	status, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/repos/%s/%s/pulls", c.owner, c.repo), body, &created)
	if err != nil {
		return "", err
	}
	if status != http.StatusCreated {
		return "", fmt.Errorf("unexpected status %d", status)
	}
	return created.HTMLURL, nil
}

// do issues one API request and decodes the response into out when given.
// The HTTP status is returned for the caller to interpret; only transport
// and decoding failures are errors here.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decoding response: %w", err)
		}
	}
	return resp.StatusCode, nil
}
