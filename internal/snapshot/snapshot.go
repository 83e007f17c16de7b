// Package snapshot renders a bounded textual view of a repository (README plus
// selected file bodies) used as the language model's input.
package snapshot

import (
	"strings"
)

const (
	// DefaultMaxFiles is the number of file sections kept in a snapshot
	DefaultMaxFiles = 80

	// DefaultMaxFileChars is the per-file character cap
	DefaultMaxFileChars = 9000

	// TruncationMarker is appended to any file cut at the character cap
	TruncationMarker = "\n...<truncated>"

	// MissingReadme replaces an absent or blank README
	MissingReadme = "(README missing or empty)"
)

// RepositoryFile is a fetched file ready for the snapshot
type RepositoryFile struct {
	Path    string
	Content string
}

// Builder assembles snapshots. The zero value uses the defaults.
type Builder struct {
	MaxFiles     int
	MaxFileChars int
}

// NewBuilder creates a builder with explicit limits; non-positive values fall
// back to the defaults
func NewBuilder(maxFiles, maxFileChars int) Builder {
	return Builder{MaxFiles: maxFiles, MaxFileChars: maxFileChars}
}

// Limit returns at most MaxFiles files, preserving order
func (b Builder) Limit(files []RepositoryFile) []RepositoryFile {
	max := b.maxFiles()
	if len(files) <= max {
		return files
	}
	return files[:max]
}

// Build renders the README section followed by one fenced section per file.
// Files are expected to be filtered already; order is preserved and the
// output is byte-identical for identical input.
func (b Builder) Build(readme string, files []RepositoryFile) string {
	files = b.Limit(files)

	parts := make([]string, 0, len(files)+4)
	parts = append(parts, "## Existing README")
	if strings.TrimSpace(readme) != "" {
		parts = append(parts, readme)
	} else {
		parts = append(parts, MissingReadme)
	}
	parts = append(parts, "", "## Repository Source Snapshot")

	for _, f := range files {
		parts = append(parts, b.section(f))
	}

	return strings.Join(parts, "\n")
}

func (b Builder) section(f RepositoryFile) string {
	var sb strings.Builder
	sb.WriteString("### File: ")
	sb.WriteString(f.Path)
	sb.WriteString("\n\n```\n")
	sb.WriteString(Truncate(f.Content, b.maxFileChars()))
	sb.WriteString("\n```\n")
	return sb.String()
}

// Truncate cuts content to max characters (runes) and appends the marker.
// Content within the limit is returned unchanged.
func Truncate(content string, max int) string {
	if len(content) <= max {
		return content
	}
	runes := []rune(content)
	if len(runes) <= max {
		return content
	}
	return string(runes[:max]) + TruncationMarker
}

func (b Builder) maxFiles() int {
	if b.MaxFiles <= 0 {
		return DefaultMaxFiles
	}
	return b.MaxFiles
}

func (b Builder) maxFileChars() int {
	if b.MaxFileChars <= 0 {
		return DefaultMaxFileChars
	}
	return b.MaxFileChars
}
