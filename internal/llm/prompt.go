package llm

import "fmt"

// Temperature is the sampling temperature for every provider
const Temperature = 0.2

// SystemPrompt fixes the writer persona and the diagram requirement
const SystemPrompt = "You are a principal technical writer and software architect. " +
	"Produce exhaustive, accurate, implementation-grounded repository documentation in Markdown. " +
	"Always include at least two Mermaid diagrams: one architecture/component diagram and one workflow/sequence diagram."

const userPromptFormat = `Generate a complete documentation.md for %s/%s on branch %s.

Rules:
1) Merge and preserve useful README content.
2) Cover setup, architecture, modules, API/CLI interfaces, configuration, workflows, extension points, and troubleshooting.
3) Add a table of contents and section anchors.
4) Include explicit assumptions and unknowns if any code is ambiguous.
5) Output only Markdown content suitable for documentation.md.

Repository material:

%s`

// UserPrompt renders the per-repository instruction with the snapshot appended
func UserPrompt(req Request) string {
	return fmt.Sprintf(userPromptFormat, req.Owner, req.Repo, req.Branch, req.Snapshot)
}
