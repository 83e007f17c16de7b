package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
)

// Options tunes the clients a factory builds
type Options struct {
	// BaseURL is the REST endpoint, empty for api.github.com
	BaseURL string

	RequestsPerSecond float64
	Burst             int
}

// AppClientFactory mints installation-scoped clients from GitHub App credentials
type AppClientFactory struct {
	apps *ghinstallation.AppsTransport
	opts Options
}

// NewAppClientFactory parses the App private key once for all installations
func NewAppClientFactory(appID int64, privateKey []byte, opts Options) (*AppClientFactory, error) {
	apps, err := ghinstallation.NewAppsTransport(http.DefaultTransport, appID, privateKey)
	if err != nil {
		return nil, fmt.Errorf("load app private key: %w", err)
	}
	if opts.BaseURL != "" {
		apps.BaseURL = strings.TrimSuffix(opts.BaseURL, "/")
	}
	return &AppClientFactory{apps: apps, opts: opts}, nil
}

// ForInstallation exchanges the App JWT for an installation token and returns
// a client using it. The token is requested eagerly so credential problems
// surface here and not on the first content read.
func (f *AppClientFactory) ForInstallation(ctx context.Context, installationID int64) (*Client, error) {
	itr := ghinstallation.NewFromAppsTransport(f.apps, installationID)
	if f.opts.BaseURL != "" {
		itr.BaseURL = strings.TrimSuffix(f.opts.BaseURL, "/")
	}

	if _, err := itr.Token(ctx); err != nil {
		return nil, fmt.Errorf("installation %d token: %w", installationID, err)
	}

	client, err := newGitHubClient(&http.Client{Transport: itr}, f.opts.BaseURL)
	if err != nil {
		return nil, err
	}
	return NewClient(client, NewRateLimiter(f.opts.RequestsPerSecond, f.opts.Burst)), nil
}

// TokenClientFactory authenticates every installation with one static token.
// It is meant for local development against a single repository.
type TokenClientFactory struct {
	token string
	opts  Options
}

// NewTokenClientFactory creates a factory for a personal access token
func NewTokenClientFactory(token string, opts Options) *TokenClientFactory {
	return &TokenClientFactory{token: token, opts: opts}
}

// ForInstallation ignores installationID and returns a token-authenticated client
func (f *TokenClientFactory) ForInstallation(ctx context.Context, _ int64) (*Client, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: f.token})
	client, err := newGitHubClient(oauth2.NewClient(ctx, ts), f.opts.BaseURL)
	if err != nil {
		return nil, err
	}
	return NewClient(client, NewRateLimiter(f.opts.RequestsPerSecond, f.opts.Burst)), nil
}

func newGitHubClient(httpClient *http.Client, baseURL string) (*gh.Client, error) {
	client := gh.NewClient(httpClient)
	if baseURL == "" {
		return client, nil
	}
	client, err := client.WithEnterpriseURLs(baseURL, baseURL)
	if err != nil {
		return nil, fmt.Errorf("github base url: %w", err)
	}
	return client, nil
}
