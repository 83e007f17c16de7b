// Package processor runs one documentation pass over a repository branch:
// authenticate, read README and tree, fetch candidates, build the snapshot,
// generate and commit documentation.md.
package processor

import (
	"context"
	"fmt"
	"strings"

	"github.com/nahidhasan98/docs-agent/internal/errors"
	"github.com/nahidhasan98/docs-agent/internal/fetch"
	"github.com/nahidhasan98/docs-agent/internal/filter"
	"github.com/nahidhasan98/docs-agent/internal/github"
	"github.com/nahidhasan98/docs-agent/internal/llm"
	"github.com/nahidhasan98/docs-agent/internal/logger"
	"github.com/nahidhasan98/docs-agent/internal/snapshot"
)

const (
	// ReadmePath is read separately and never treated as a candidate file
	ReadmePath = "README.md"

	// DocumentationPath is the generated file at the repository root
	DocumentationPath = "documentation.md"

	// CommitMessage is used for every documentation commit
	CommitMessage = "docs: generate comprehensive repository documentation"

	// DefaultActor is the commit identity when none is configured
	DefaultActor = "doc-agent-github-app"
)

// RunContext identifies one webhook-triggered run
type RunContext struct {
	InstallationID int64
	Owner          string
	Repo           string
	Branch         string
}

// Key is the owner/repo@branch form used in logs and overlap tracking
func (rc RunContext) Key() string {
	return fmt.Sprintf("%s/%s@%s", rc.Owner, rc.Repo, rc.Branch)
}

// RepositoryHost is the remote API surface a run needs
type RepositoryHost interface {
	GetFileContent(ctx context.Context, owner, repo, path, ref string) (string, error)
	ListFiles(ctx context.Context, owner, repo, branch string) (*github.Tree, error)
	UpsertFile(ctx context.Context, u github.FileUpdate) (*github.UpsertResult, error)
}

// Authenticator exchanges an installation id for a scoped RepositoryHost
type Authenticator func(ctx context.Context, installationID int64) (RepositoryHost, error)

// Options tunes a Processor
type Options struct {
	Actor        string
	Concurrency  int
	MaxFiles     int
	MaxFileChars int
}

// Processor sequences a single documentation run
type Processor struct {
	auth       Authenticator
	generator  llm.Generator
	builder    snapshot.Builder
	pipeline   fetch.Pipeline
	actor      string
	log        *logger.Logger
	isIncluded func(path string) bool
}

// New creates a Processor with explicit collaborators
func New(auth Authenticator, generator llm.Generator, log *logger.Logger, opts Options) *Processor {
	if log == nil {
		log = logger.Nop()
	}
	actor := strings.TrimSpace(opts.Actor)
	if actor == "" {
		actor = DefaultActor
	}
	return &Processor{
		auth:       auth,
		generator:  generator,
		builder:    snapshot.NewBuilder(opts.MaxFiles, opts.MaxFileChars),
		pipeline:   fetch.Pipeline{Concurrency: opts.Concurrency, SecretKind: filter.SecretKind},
		actor:      actor,
		log:        log,
		isIncluded: filter.IsPathIncluded,
	}
}

// Actor returns the configured commit identity
func (p *Processor) Actor() string {
	return p.actor
}

// Process runs the full pipeline for rc. Any returned error is fatal to the
// run and carries an AppError code naming the failed stage.
func (p *Processor) Process(ctx context.Context, rc RunContext) error {
	log := p.log.WithFields(logger.Fields{
		"installation_id": rc.InstallationID,
		"owner":           rc.Owner,
		"repo":            rc.Repo,
		"branch":          rc.Branch,
	})

	host, err := p.auth(ctx, rc.InstallationID)
	if err != nil {
		return errors.AuthFailed(err)
	}

	readme := p.readReadme(ctx, host, rc, log)

	tree, err := host.ListFiles(ctx, rc.Owner, rc.Repo, rc.Branch)
	if err != nil {
		return errors.TreeListFailed(err)
	}
	if tree.Truncated {
		log.Warn("Repository tree response was truncated by GitHub API; documentation may be incomplete")
	}

	candidates := p.candidates(tree.Files)
	log.Debugf("Fetching %d of %d tree entries", len(candidates), len(tree.Files))

	pipeline := p.pipeline
	pipeline.Log = log
	files, err := pipeline.Run(ctx, candidates, func(ctx context.Context, path string) (string, error) {
		return host.GetFileContent(ctx, rc.Owner, rc.Repo, path, rc.Branch)
	})
	if err != nil {
		return errors.FetchFailed(err)
	}

	snap := p.builder.Build(readme, files)

	doc, err := p.generator.Generate(ctx, llm.Request{
		Owner:    rc.Owner,
		Repo:     rc.Repo,
		Branch:   rc.Branch,
		Snapshot: snap,
	})
	if err != nil {
		return errors.GenerationFailed(err)
	}

	res, err := host.UpsertFile(ctx, github.FileUpdate{
		Owner:       rc.Owner,
		Repo:        rc.Repo,
		Branch:      rc.Branch,
		Path:        DocumentationPath,
		Content:     doc,
		Message:     CommitMessage,
		AuthorName:  p.actor,
		AuthorEmail: ActorEmail(p.actor),
	})
	if err != nil {
		return errors.CommitFailed(err)
	}

	log.With("commit", res.CommitSHA).With("created", res.Created).
		Infof("Committed %s from %d files", DocumentationPath, len(files))
	return nil
}

// readReadme never fails the run: 404 is silent, anything else is a warning
func (p *Processor) readReadme(ctx context.Context, host RepositoryHost, rc RunContext, log *logger.Logger) string {
	readme, err := host.GetFileContent(ctx, rc.Owner, rc.Repo, ReadmePath, rc.Branch)
	if err == nil {
		return readme
	}
	if !github.IsNotFound(err) {
		log.WarnErr("Unable to read README.md; continuing with empty README", err)
	}
	return ""
}

func (p *Processor) candidates(entries []github.TreeEntry) []string {
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Path == "" || strings.EqualFold(e.Path, ReadmePath) {
			continue
		}
		if !p.isIncluded(e.Path) {
			continue
		}
		paths = append(paths, e.Path)
	}
	return paths
}

// ActorEmail synthesizes the noreply address for a commit identity
func ActorEmail(actor string) string {
	return actor + "@users.noreply.github.com"
}
