package validation

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/nahidhasan98/docs-agent/internal/errors"
	"github.com/nahidhasan98/docs-agent/internal/models"
)

// SignaturePrefix precedes the hex digest in X-Hub-Signature-256
const SignaturePrefix = "sha256="

// Validator provides validation methods
type Validator struct{}

// New creates a new validator instance
func New() *Validator {
	return &Validator{}
}

// VerifySignature checks header against the HMAC-SHA256 of body keyed by
// secret. A missing header, a missing secret, a wrong prefix or a digest of
// the wrong length all fail without comparing.
func (v *Validator) VerifySignature(body []byte, header, secret string) bool {
	if header == "" || secret == "" {
		return false
	}
	if !strings.HasPrefix(header, SignaturePrefix) {
		return false
	}
	provided := strings.TrimPrefix(header, SignaturePrefix)

	expected := Sign(body, secret)
	if len(provided) != len(expected) {
		return false
	}

	// Compare signatures using constant time comparison to prevent timing attacks
	return hmac.Equal([]byte(provided), []byte(expected))
}

// Sign returns the hex HMAC-SHA256 digest of body
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// ValidatePush checks that a push payload names a repository and installation
func (v *Validator) ValidatePush(p *models.GitHubPushPayload) *errors.AppError {
	if p == nil {
		return errors.InvalidRequest("Request body is required")
	}
	if appErr := v.validateRepository(p.Repository); appErr != nil {
		return appErr
	}
	if p.InstallationID() == 0 {
		return errors.InvalidRequest("Payload has no installation id")
	}
	if strings.TrimSpace(p.Ref) == "" {
		return errors.InvalidRequest("Push payload has no ref")
	}
	return nil
}

// ValidateDispatch checks that a repository_dispatch payload names a
// repository, an installation and a usable target branch
func (v *Validator) ValidateDispatch(p *models.GitHubDispatchPayload) *errors.AppError {
	if p == nil {
		return errors.InvalidRequest("Request body is required")
	}
	if appErr := v.validateRepository(p.Repository); appErr != nil {
		return appErr
	}
	if p.InstallationID() == 0 {
		return errors.InvalidRequest("Payload has no installation id")
	}
	if p.TargetBranch() == "" {
		return errors.InvalidRequest("Dispatch payload has no target branch")
	}
	return nil
}

func (v *Validator) validateRepository(r models.GitHubRepository) *errors.AppError {
	if strings.TrimSpace(r.Owner.Login) == "" || strings.TrimSpace(r.Name) == "" {
		return errors.InvalidRequest("Payload repository owner and name are required")
	}
	return nil
}
