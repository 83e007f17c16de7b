package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/nahidhasan98/docs-agent/internal/errors"
	"github.com/nahidhasan98/docs-agent/internal/models"
	"github.com/nahidhasan98/docs-agent/internal/processor"
)

// GitHub webhook headers
const (
	HeaderEvent     = "X-GitHub-Event"
	HeaderSignature = "X-Hub-Signature-256"
	HeaderDelivery  = "X-GitHub-Delivery"
)

// Plain-text webhook acknowledgements
const (
	ResponseAccepted      = "accepted"
	ResponseIgnored       = "ignored"
	ResponseIgnoredBotRun = "ignored bot commit"
)

// Webhook verifies a GitHub App delivery and, for qualifying events, starts
// a documentation run in the background. It never waits for the run.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeAppError(w, errors.MethodNotAllowed(r.Method))
		return
	}

	// Read the raw body for signature verification
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			h.writeAppError(w, errors.PayloadTooLarge(h.cfg.MaxBodyBytes))
			return
		}
		h.writeAppError(w, errors.InvalidRequest("Failed to read request body: "+err.Error()))
		return
	}

	if !h.validator.VerifySignature(body, r.Header.Get(HeaderSignature), h.cfg.WebhookSecret) {
		h.log.With("delivery", r.Header.Get(HeaderDelivery)).Warn("Invalid GitHub webhook signature")
		h.writeAppError(w, errors.Unauthorized("Invalid webhook signature"))
		return
	}

	event := r.Header.Get(HeaderEvent)
	log := h.log.With("event", event).With("delivery", r.Header.Get(HeaderDelivery))

	switch event {
	case models.EventPush:
		h.handlePush(w, body)
	case models.EventRepositoryDispatch:
		h.handleDispatch(w, body)
	default:
		log.Debug("Ignoring unsupported webhook event")
		h.writeText(w, ResponseIgnored, http.StatusAccepted)
	}
}

func (h *Handler) handlePush(w http.ResponseWriter, body []byte) {
	var payload models.GitHubPushPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.writeAppError(w, errors.InvalidRequest("Invalid webhook payload: "+err.Error()))
		return
	}

	log := h.log.With("event", models.EventPush).
		With("owner", payload.Repository.Owner.Login).
		With("repo", payload.Repository.Name)

	if processor.IsBotAuthored(payload.HeadCommit, h.cfg.Actor) {
		log.Info("Skipping push authored by the documentation bot")
		h.writeText(w, ResponseIgnoredBotRun, http.StatusAccepted)
		return
	}

	if !payload.TargetsDefaultBranch() {
		log.With("branch", payload.GetBranch()).Debug("Ignoring push to non-default branch")
		h.writeText(w, ResponseIgnored, http.StatusAccepted)
		return
	}

	if appErr := h.validator.ValidatePush(&payload); appErr != nil {
		h.writeAppError(w, appErr)
		return
	}

	h.dispatch(w, processor.RunContext{
		InstallationID: payload.InstallationID(),
		Owner:          payload.Repository.Owner.Login,
		Repo:           payload.Repository.Name,
		Branch:         payload.Repository.DefaultBranch,
	})
}

func (h *Handler) handleDispatch(w http.ResponseWriter, body []byte) {
	var payload models.GitHubDispatchPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.writeAppError(w, errors.InvalidRequest("Invalid webhook payload: "+err.Error()))
		return
	}

	if payload.Action != models.DispatchActionGenerate {
		h.log.With("action", payload.Action).Debug("Ignoring repository_dispatch action")
		h.writeText(w, ResponseIgnored, http.StatusAccepted)
		return
	}

	if appErr := h.validator.ValidateDispatch(&payload); appErr != nil {
		h.writeAppError(w, appErr)
		return
	}

	h.dispatch(w, processor.RunContext{
		InstallationID: payload.InstallationID(),
		Owner:          payload.Repository.Owner.Login,
		Repo:           payload.Repository.Name,
		Branch:         payload.TargetBranch(),
	})
}

func (h *Handler) dispatch(w http.ResponseWriter, rc processor.RunContext) {
	if !h.runner.Dispatch(rc) {
		h.writeAppError(w, errors.ShuttingDown())
		return
	}
	h.log.With("run", rc.Key()).Info("Documentation run queued")
	h.writeText(w, ResponseAccepted, http.StatusAccepted)
}
