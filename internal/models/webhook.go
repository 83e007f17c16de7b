package models

// Webhook event names from the X-GitHub-Event header
const (
	EventPush               = "push"
	EventRepositoryDispatch = "repository_dispatch"
)

// DispatchActionGenerate is the repository_dispatch action that starts a run
const DispatchActionGenerate = "generate-documentation"
