package api

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"

	"SignalRelay/internal/domain/models"
	"SignalRelay/internal/domain/repository"
	"SignalRelay/internal/usecase"
	xhttp "SignalRelay/pkg/http"
	xlogger "SignalRelay/pkg/logger"
)

// WebhookHandler exposes the gateway surface: the signal webhook, the chat
// webhook and the liveness probe. Both webhooks authenticate with the shared
// secret before touching any state.
type WebhookHandler struct {
	logger     *xlogger.Logger
	ingestor   *usecase.Ingestor
	dispatcher *usecase.Dispatcher
	advisor    repository.Advisor
	transport  repository.Transport
	metrics    repository.Metrics

	secret   string
	authOpen bool
}

func NewWebhookHandler(
	logger *xlogger.Logger,
	ingestor *usecase.Ingestor,
	dispatcher *usecase.Dispatcher,
	advisor repository.Advisor,
	transport repository.Transport,
	metrics repository.Metrics,
	secret string,
	authOpen bool,
) *WebhookHandler {
	return &WebhookHandler{
		logger:     logger,
		ingestor:   ingestor,
		dispatcher: dispatcher,
		advisor:    advisor,
		transport:  transport,
		metrics:    metrics,
		secret:     secret,
		authOpen:   authOpen,
	}
}

func (h *WebhookHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
	e.POST("/signal/webhook", h.SignalWebhook)
	e.POST("/chat/webhook", h.ChatWebhook)
}

// Health is a trivial liveness probe.
func (h *WebhookHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, xhttp.OKResponse{OK: true})
}

// authorized checks the caller-supplied token against the configured secret
// in constant time. No secret configured means reject-all unless auth was
// explicitly opened in config.
func (h *WebhookHandler) authorized(c echo.Context) bool {
	if h.authOpen {
		return true
	}
	if h.secret == "" {
		return false
	}
	token := c.QueryParam("token")
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.secret)) == 1
}

// SignalWebhook ingests one signal event: dedup, store, format, relay.
func (h *WebhookHandler) SignalWebhook(c echo.Context) error {
	if !h.authorized(c) {
		h.metrics.RecordSignal("rejected")
		return xhttp.AppErrorResponse(c, xhttp.UnauthorizedError("bad token"))
	}

	payload := &models.SignalPayload{}
	if verrs := xhttp.ReadAndValidateRequest(c, payload); verrs != nil {
		h.metrics.RecordSignal("rejected")
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(verrs[0].Message))
	}

	deduped, err := h.ingestor.Process(c.Request().Context(), payload)
	if err != nil {
		h.logger.Error("signal dispatch failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("notification dispatch failed").WithError(err))
	}
	if deduped {
		return xhttp.OKDeduped(c)
	}
	return xhttp.OK(c)
}

// ChatWebhook handles one chat platform update. Command failures are
// answered in chat text; the HTTP layer acknowledges every processed update.
func (h *WebhookHandler) ChatWebhook(c echo.Context) error {
	if !h.authorized(c) {
		return xhttp.AppErrorResponse(c, xhttp.UnauthorizedError("bad token"))
	}

	update := &models.Update{}
	if err := c.Bind(update); err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("malformed update").WithError(err))
	}

	chatID, text, ok := update.Content()
	if !ok {
		// Nothing actionable (joins, edits, media): acknowledge and move on.
		return xhttp.OK(c)
	}

	reply, handled := h.dispatcher.Dispatch(chatID, text)
	if !handled {
		reply = h.fallbackReply(c.Request().Context(), text)
	}

	if err := h.transport.SendMessage(c.Request().Context(), chatID, reply); err != nil {
		h.logger.Error("chat reply send failed", xlogger.Error(err), xlogger.Int64("chat_id", chatID))
	}
	return xhttp.OK(c)
}

// fallbackReply forwards non-command text to the advisor; with the advisor
// disabled the help text is the answer.
func (h *WebhookHandler) fallbackReply(ctx context.Context, text string) string {
	if h.advisor == nil || !h.advisor.Enabled() {
		return "🤖 I didn't catch that. Try `help` for the command list."
	}
	reply, err := h.advisor.Reply(ctx, text)
	if err != nil {
		h.logger.Warn("advisor reply failed", xlogger.Error(err))
		return "⚠️ Couldn't generate a response right now. Try again in a moment."
	}
	return reply
}
