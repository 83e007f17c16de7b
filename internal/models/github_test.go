package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitHubPushPayload(t *testing.T) {
	raw := `{
		"ref": "refs/heads/main",
		"head_commit": {"id": "abc", "author": {"name": "dev"}, "committer": {"name": "GitHub"}},
		"repository": {"name": "demo", "default_branch": "main", "owner": {"login": "octo"}},
		"installation": {"id": 77}
	}`

	var p GitHubPushPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, "main", p.GetBranch())
	assert.True(t, p.TargetsDefaultBranch())
	assert.Equal(t, int64(77), p.InstallationID())
	require.NotNil(t, p.HeadCommit)
	assert.Equal(t, "dev", p.HeadCommit.Author.Name)

	t.Run("other branch does not target default", func(t *testing.T) {
		p.Ref = "refs/heads/feature"
		assert.False(t, p.TargetsDefaultBranch())
	})

	t.Run("tag push does not target default", func(t *testing.T) {
		p.Ref = "refs/tags/main"
		assert.False(t, p.TargetsDefaultBranch())
	})
}

func TestGitHubDispatchPayload_TargetBranch(t *testing.T) {
	p := GitHubDispatchPayload{Repository: GitHubRepository{DefaultBranch: "main"}}
	assert.Equal(t, "main", p.TargetBranch())
	assert.Equal(t, int64(0), p.InstallationID())

	p.ClientPayload.Branch = "release/1.2"
	assert.Equal(t, "release/1.2", p.TargetBranch())
}
