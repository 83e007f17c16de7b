// Package filter decides which repository files may be sent to the language
// model. Path rules look only at the path; secret rules look only at content.
package filter

import "regexp"

// Rule is a named pattern
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
}

// pathRules exclude files by path structure alone
var pathRules = []Rule{
	{"node_modules", regexp.MustCompile(`^node_modules/`)},
	{"git directory", regexp.MustCompile(`^\.git/`)},
	{"dist output", regexp.MustCompile(`^dist/`)},
	{"build output", regexp.MustCompile(`^build/`)},
	{"coverage output", regexp.MustCompile(`^coverage/`)},
	{"vendored dependencies", regexp.MustCompile(`^vendor/`)},
	{"next.js output", regexp.MustCompile(`^\.next/`)},
	{"documentation output", regexp.MustCompile(`(?i)^documentation\.md$`)},
	{"env file", regexp.MustCompile(`(?i)^\.env(\..*)?$`)},
	{"nested env file", regexp.MustCompile(`(?i)/\.env(\..*)?$`)},
	{"secrets config", regexp.MustCompile(`(?i)^config/secrets\.ya?ml$`)},
	{"nested secrets config", regexp.MustCompile(`(?i)/secrets\.ya?ml$`)},
	{"npm lockfile", regexp.MustCompile(`package-lock\.json$`)},
	{"pnpm lockfile", regexp.MustCompile(`pnpm-lock\.yaml$`)},
	{"yarn lockfile", regexp.MustCompile(`yarn\.lock$`)},
	{"minified asset", regexp.MustCompile(`\.min\.(js|css)$`)},
	{"binary or media", regexp.MustCompile(`(?i)\.(png|jpg|jpeg|gif|webp|svg|ico|pdf|zip|gz|tar)$`)},
	{"ssh private key", regexp.MustCompile(`(?i)id_rsa$`)},
	{"pem file", regexp.MustCompile(`(?i)\.pem$`)},
	{"key file", regexp.MustCompile(`(?i)\.key$`)},
}

// secretRules flag content that looks like it carries credentials
var secretRules = []Rule{
	{"aws access key id", regexp.MustCompile(`AKIA[0-9A-Z]{16}`)},
	{"pem private key", regexp.MustCompile(`-----BEGIN (RSA |EC |OPENSSH )?PRIVATE KEY-----`)},
	{"credential assignment", regexp.MustCompile(`(?i)(?:api[_-]?key|secret|token|password)\s*[:=]\s*["']?[A-Za-z0-9_\-]{8,}["']?`)},
	{"github personal access token", regexp.MustCompile(`ghp_[A-Za-z0-9]{36}`)},
	{"slack token", regexp.MustCompile(`xox[baprs]-[A-Za-z0-9-]{10,}`)},
}

// IsPathIncluded reports whether path survives every structural exclusion rule
func IsPathIncluded(path string) bool {
	_, excluded := ExcludedBy(path)
	return !excluded
}

// ExcludedBy returns the name of the first path rule matching path
func ExcludedBy(path string) (string, bool) {
	return firstMatch(pathRules, path)
}

// ContainsSecret reports whether content matches any secret signature
func ContainsSecret(content string) bool {
	_, found := SecretKind(content)
	return found
}

// SecretKind returns the name of the first secret rule matching content.
// Only the rule name is returned so callers can log it without the content.
func SecretKind(content string) (string, bool) {
	return firstMatch(secretRules, content)
}

func firstMatch(rules []Rule, s string) (string, bool) {
	for _, r := range rules {
		if r.Pattern.MatchString(s) {
			return r.Name, true
		}
	}
	return "", false
}
