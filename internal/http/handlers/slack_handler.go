package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/slack-go/slack"

	"github.com/tahseenomar/slack-visitor-bot/internal/domain"
	mw "github.com/tahseenomar/slack-visitor-bot/internal/http/middleware"
	"github.com/tahseenomar/slack-visitor-bot/internal/http/response"
	"github.com/tahseenomar/slack-visitor-bot/internal/service"
	"github.com/tahseenomar/slack-visitor-bot/pkg/logger"
)

// SlashCommand is the command that opens the registration modal.
const SlashCommand = "/visitor"

// ModalOpener is the slice of the Slack client the dispatcher needs.
type ModalOpener interface {
	OpenView(ctx context.Context, triggerID string, view slack.ModalViewRequest) error
}

// Handlers dispatches inbound Slack interactions: slash command opens the
// modal, view_submission runs validation then orchestration, anything else
// is unrecognized.
type Handlers struct {
	slack     ModalOpener
	validator *service.Validator
	visits    service.VisitService
	limiter   *mw.RateLimiter
}

func New(slackClient ModalOpener, validator *service.Validator, visits service.VisitService, limiter *mw.RateLimiter) *Handlers {
	return &Handlers{
		slack:     slackClient,
		validator: validator,
		visits:    visits,
		limiter:   limiter,
	}
}

// HandleSlackEvents is the single Slack-facing endpoint. Signature
// verification has already happened in middleware.
func (h *Handlers) HandleSlackEvents(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		response.BadRequest(w, "Malformed form payload")
		return
	}

	if r.PostFormValue("command") == SlashCommand {
		h.handleSlashCommand(w, r)
		return
	}

	if payload := r.PostFormValue("payload"); payload != "" {
		h.handleInteraction(w, r, payload)
		return
	}

	response.NotFound(w, "No handler")
}

func (h *Handlers) handleSlashCommand(w http.ResponseWriter, r *http.Request) {
	userID := r.PostFormValue("user_id")
	ctx := context.WithValue(r.Context(), logger.UserIDKey, userID)

	if !h.limiter.Allow(ctx, "slash:"+userID) {
		logger.WarnContext(ctx, "Rate limited slash command")
		response.RateLimit(w, "Too many requests. Try again later.")
		return
	}

	triggerID := r.PostFormValue("trigger_id")
	if err := h.slack.OpenView(ctx, triggerID, registrationModal()); err != nil {
		logger.ErrorContext(ctx, "Failed to open registration modal", "error", err)
		response.InternalError(w, "Failed to open form")
		return
	}

	// Slack expects an empty 200 within its slash-command deadline.
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) handleInteraction(w http.ResponseWriter, r *http.Request, payload string) {
	var callback slack.InteractionCallback
	if err := json.Unmarshal([]byte(payload), &callback); err != nil {
		logger.WarnContext(r.Context(), "Failed to parse interaction payload", "error", err)
		response.BadRequest(w, "Bad payload")
		return
	}

	if callback.Type == slack.InteractionTypeViewSubmission && callback.View.CallbackID == domain.ModalCallbackID {
		h.handleSubmission(w, r, &callback)
		return
	}

	response.NotFound(w, "No handler")
}

func (h *Handlers) handleSubmission(w http.ResponseWriter, r *http.Request, callback *slack.InteractionCallback) {
	ctx := context.WithValue(r.Context(), logger.UserIDKey, callback.User.ID)

	req, err := visitRequestFromState(callback)
	if err != nil {
		logger.WarnContext(ctx, "Rejecting malformed submission envelope", "error", err)
		response.BadRequest(w, "Bad payload")
		return
	}

	if errs := h.validator.Validate(req); !errs.OK() {
		// Expected user input problems; shown inline, not logged.
		response.ViewErrors(w, errs)
		return
	}

	// The side effects are fire-and-forget from Slack's point of view:
	// answer the modal now, then orchestrate on a detached context.
	go h.visits.Submit(detach(ctx), req)

	response.ViewClear(w)
}

// detach carries the request's logging identity onto a fresh context so
// orchestration survives the HTTP response being written.
func detach(ctx context.Context) context.Context {
	out := context.Background()
	for _, key := range []any{logger.RequestIDKey, logger.UserIDKey, logger.ServiceKey, logger.TriggerKey} {
		if v := ctx.Value(key); v != nil {
			out = context.WithValue(out, key, v)
		}
	}
	return out
}
