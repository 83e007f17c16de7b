// Package github wraps the GitHub REST API calls a documentation run needs:
// branch tree listing, raw file reads and a create-or-update of one file.
package github

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v80/github"
)

const rawMediaType = "application/vnd.github.raw+json"

// TreeEntry is a blob in a repository tree
type TreeEntry struct {
	Path string
}

// Tree is the recursive blob listing of a branch
type Tree struct {
	Files     []TreeEntry
	Truncated bool
}

// FileUpdate describes a single-file commit
type FileUpdate struct {
	Owner       string
	Repo        string
	Branch      string
	Path        string
	Content     string
	Message     string
	AuthorName  string
	AuthorEmail string
}

// UpsertResult reports what a FileUpdate did
type UpsertResult struct {
	Created   bool
	CommitSHA string
}

// Client is an installation-scoped GitHub API client
type Client struct {
	gh          *gh.Client
	rateLimiter *RateLimiter
}

// NewClient wraps an authenticated go-github client
func NewClient(client *gh.Client, limiter *RateLimiter) *Client {
	if limiter == nil {
		limiter = NewRateLimiter(0, 0)
	}
	return &Client{gh: client, rateLimiter: limiter}
}

// GetFileContent returns the raw text of path at ref
func (c *Client) GetFileContent(ctx context.Context, owner, repo, path, ref string) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", err
	}

	u := fmt.Sprintf("repos/%s/%s/contents/%s", url.PathEscape(owner), url.PathEscape(repo), escapePath(path))
	if ref != "" {
		u += "?ref=" + url.QueryEscape(ref)
	}

	req, err := c.gh.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("build contents request: %w", err)
	}
	req.Header.Set("Accept", rawMediaType)

	var buf bytes.Buffer
	resp, err := c.gh.Do(ctx, req, &buf)
	c.observe(resp)
	if err != nil {
		return "", wrapError(err, "get contents "+path)
	}

	return buf.String(), nil
}

// ListFiles returns every blob reachable from the branch head
func (c *Client) ListFiles(ctx context.Context, owner, repo, branch string) (*Tree, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	b, resp, err := c.gh.Repositories.GetBranch(ctx, owner, repo, branch, 1)
	c.observe(resp)
	if err != nil {
		return nil, wrapError(err, "get branch")
	}

	treeSHA := b.GetCommit().GetCommit().GetTree().GetSHA()
	if treeSHA == "" {
		return nil, fmt.Errorf("branch %s has no tree", branch)
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	tree, resp, err := c.gh.Git.GetTree(ctx, owner, repo, treeSHA, true)
	c.observe(resp)
	if err != nil {
		return nil, wrapError(err, "get tree")
	}

	out := &Tree{Truncated: tree.GetTruncated()}
	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" {
			continue
		}
		out.Files = append(out.Files, TreeEntry{Path: entry.GetPath()})
	}

	return out, nil
}

// UpsertFile creates the file or replaces it at its current SHA. A lookup
// that fails with anything other than 404 aborts the commit.
func (c *Client) UpsertFile(ctx context.Context, u FileUpdate) (*UpsertResult, error) {
	sha, err := c.currentSHA(ctx, u.Owner, u.Repo, u.Path, u.Branch)
	if err != nil {
		return nil, err
	}

	identity := &gh.CommitAuthor{
		Name:  gh.Ptr(u.AuthorName),
		Email: gh.Ptr(u.AuthorEmail),
	}
	opts := &gh.RepositoryContentFileOptions{
		Message:   gh.Ptr(u.Message),
		Content:   []byte(u.Content),
		Branch:    gh.Ptr(u.Branch),
		Author:    identity,
		Committer: identity,
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	var (
		res  *gh.RepositoryContentResponse
		resp *gh.Response
	)
	if sha == "" {
		res, resp, err = c.gh.Repositories.CreateFile(ctx, u.Owner, u.Repo, u.Path, opts)
	} else {
		opts.SHA = gh.Ptr(sha)
		res, resp, err = c.gh.Repositories.UpdateFile(ctx, u.Owner, u.Repo, u.Path, opts)
	}
	c.observe(resp)
	if err != nil {
		return nil, wrapError(err, "write "+u.Path)
	}

	result := &UpsertResult{Created: sha == ""}
	if res != nil {
		result.CommitSHA = res.Commit.GetSHA()
	}
	return result, nil
}

// currentSHA returns the blob SHA of path on branch, or "" when it does not exist
func (c *Client) currentSHA(ctx context.Context, owner, repo, path, branch string) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", err
	}

	file, _, resp, err := c.gh.Repositories.GetContents(ctx, owner, repo, path, &gh.RepositoryContentGetOptions{Ref: branch})
	c.observe(resp)
	if err != nil {
		wrapped := wrapError(err, "lookup "+path)
		if IsNotFound(wrapped) {
			return "", nil
		}
		return "", wrapped
	}
	if file == nil {
		return "", fmt.Errorf("lookup %s: path is a directory", path)
	}

	return file.GetSHA(), nil
}

func (c *Client) observe(resp *gh.Response) {
	if resp != nil {
		c.rateLimiter.UpdateFromResponse(resp.Response)
	}
}

func escapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
