package models

import "strings"

// GitHubPushPayload represents the fields of a push event the agent reads
type GitHubPushPayload struct {
	Ref          string              `json:"ref"`
	After        string              `json:"after"`
	HeadCommit   *GitHubCommit       `json:"head_commit"`
	Repository   GitHubRepository    `json:"repository"`
	Installation *GitHubInstallation `json:"installation"`
}

// GitHubDispatchPayload represents a repository_dispatch event
type GitHubDispatchPayload struct {
	Action        string                `json:"action"`
	ClientPayload GitHubDispatchOptions `json:"client_payload"`
	Repository    GitHubRepository      `json:"repository"`
	Installation  *GitHubInstallation   `json:"installation"`
}

// GitHubDispatchOptions carries the optional client_payload fields
type GitHubDispatchOptions struct {
	Branch string `json:"branch"`
}

// GitHubCommit represents a commit in the GitHub webhook
type GitHubCommit struct {
	ID        string           `json:"id"`
	Message   string           `json:"message"`
	Author    GitHubCommitUser `json:"author"`
	Committer GitHubCommitUser `json:"committer"`
}

// GitHubCommitUser represents a user in a commit
type GitHubCommitUser struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// GitHubRepository represents a repository in the GitHub webhook
type GitHubRepository struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	FullName      string     `json:"full_name"`
	Owner         GitHubUser `json:"owner"`
	DefaultBranch string     `json:"default_branch"`
}

// GitHubUser represents a user in the GitHub webhook
type GitHubUser struct {
	Login string `json:"login"`
	ID    int64  `json:"id"`
	Name  string `json:"name,omitempty"`
}

// GitHubInstallation identifies the App installation that sent the event
type GitHubInstallation struct {
	ID int64 `json:"id"`
}

// GetBranch returns the branch name without refs/heads/ prefix
func (p GitHubPushPayload) GetBranch() string {
	return strings.TrimPrefix(p.Ref, "refs/heads/")
}

// TargetsDefaultBranch reports whether the push updated the default branch
func (p GitHubPushPayload) TargetsDefaultBranch() bool {
	return p.Repository.DefaultBranch != "" && p.Ref == "refs/heads/"+p.Repository.DefaultBranch
}

// InstallationID returns the installation id or 0 when absent
func (p GitHubPushPayload) InstallationID() int64 {
	if p.Installation == nil {
		return 0
	}
	return p.Installation.ID
}

// TargetBranch returns the requested branch, defaulting to the default branch
func (p GitHubDispatchPayload) TargetBranch() string {
	if b := strings.TrimSpace(p.ClientPayload.Branch); b != "" {
		return b
	}
	return p.Repository.DefaultBranch
}

// InstallationID returns the installation id or 0 when absent
func (p GitHubDispatchPayload) InstallationID() int64 {
	if p.Installation == nil {
		return 0
	}
	return p.Installation.ID
}
