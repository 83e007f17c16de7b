package processor

import "github.com/nahidhasan98/docs-agent/internal/models"

// IsBotAuthored reports whether a push head commit was written by the agent
// itself. Both author and committer must carry the actor name; a push
// without a head commit is never bot-authored.
func IsBotAuthored(head *models.GitHubCommit, actor string) bool {
	if head == nil || actor == "" {
		return false
	}
	return head.Author.Name == actor && head.Committer.Name == actor
}
