package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalRelay/internal/domain/repository"
	"SignalRelay/internal/service/cache"
	"SignalRelay/internal/service/store"
	"SignalRelay/internal/usecase"
	"SignalRelay/pkg/logger"
)

const testSecret = "s3cret"

type recordedSend struct {
	chatID int64
	text   string
}

type fakeTransport struct {
	sent []recordedSend
	fail bool
}

func (f *fakeTransport) SendMessage(_ context.Context, chatID int64, text string) error {
	if f.fail {
		return errors.New("telegram unreachable")
	}
	f.sent = append(f.sent, recordedSend{chatID: chatID, text: text})
	return nil
}

type nopMetrics struct{}

func (nopMetrics) RecordSignal(string)       {}
func (nopMetrics) RecordCommand(string)      {}
func (nopMetrics) RecordSendLatency(float64) {}
func (nopMetrics) RecordDedupSize(int)       {}
func (nopMetrics) RecordError(string)        {}

type countingMetrics struct {
	nopMetrics
	signals map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{signals: make(map[string]int)}
}

func (m *countingMetrics) RecordSignal(result string) { m.signals[result]++ }

type gateway struct {
	e         *echo.Echo
	transport *fakeTransport
	store     *store.LastSignal
	cache     *cache.DedupCache
}

func newGateway(t *testing.T, authOpen bool) *gateway {
	return newGatewayWithMetrics(t, authOpen, nopMetrics{})
}

func newGatewayWithMetrics(t *testing.T, authOpen bool, m repository.Metrics) *gateway {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)

	tr := &fakeTransport{}
	dc := cache.NewDedupCache()
	st := store.NewLastSignal()
	ing := usecase.NewIngestor(dc, st, tr, nil, m, log, 99, 90*time.Second)
	disp := usecase.NewDispatcher(st, m)

	e := echo.New()
	NewWebhookHandler(log, ing, disp, nil, tr, m, testSecret, authOpen).RegisterRoutes(e)
	return &gateway{e: e, transport: tr, store: st, cache: dc}
}

func (g *gateway) post(path, token, body string) *httptest.ResponseRecorder {
	if token != "" {
		path += "?token=" + token
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	g.e.ServeHTTP(rec, req)
	return rec
}

const signalBody = `{
	"product": "AlphaFeed",
	"market": {"symbol": "EURUSD", "price": 1.0842},
	"signal": {"type": "breakout", "direction": "LONG"},
	"meta": {"timestamp": "2025-06-01T12:00:00Z"}
}`

func TestHealth(t *testing.T) {
	g := newGateway(t, false)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	g.e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestSignalWebhookRejectsBadToken(t *testing.T) {
	g := newGateway(t, false)

	for _, token := range []string{"", "wrong"} {
		rec := g.post("/signal/webhook", token, signalBody)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	// A rejected request must not touch the dedup cache, the store, or the
	// transport.
	assert.Zero(t, g.cache.Len())
	assert.Empty(t, g.transport.sent)
	_, ok := g.store.Get(99)
	assert.False(t, ok)
}

func TestSignalWebhookRelays(t *testing.T) {
	g := newGateway(t, false)

	rec := g.post("/signal/webhook", testSecret, signalBody)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	require.Len(t, g.transport.sent, 1)
	assert.Equal(t, int64(99), g.transport.sent[0].chatID)
	assert.Contains(t, g.transport.sent[0].text, "EURUSD")

	cached, ok := g.store.Get(99)
	require.True(t, ok)
	assert.Equal(t, "breakout", cached.Signal.Type)
}

func TestSignalWebhookMarksDuplicate(t *testing.T) {
	g := newGateway(t, false)

	rec := g.post("/signal/webhook", testSecret, signalBody)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = g.post("/signal/webhook", testSecret, signalBody)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"deduped":true}`, rec.Body.String())
	assert.Len(t, g.transport.sent, 1)
}

func TestSignalWebhookMalformedBody(t *testing.T) {
	g := newGateway(t, false)

	rec := g.post("/signal/webhook", testSecret, `{"market":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["ok"])
}

func TestSignalWebhookValidationFailure(t *testing.T) {
	g := newGateway(t, false)

	rec := g.post("/signal/webhook", testSecret, `{"signal":{"type":"breakout","strength":9}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, g.transport.sent)
}

func TestSignalWebhookSendFailure(t *testing.T) {
	g := newGateway(t, false)
	g.transport.fail = true

	rec := g.post("/signal/webhook", testSecret, signalBody)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSignalWebhookCountsOutcomes(t *testing.T) {
	m := newCountingMetrics()
	g := newGatewayWithMetrics(t, false, m)

	g.post("/signal/webhook", "wrong", signalBody)
	g.post("/signal/webhook", testSecret, `{"market":`)
	g.post("/signal/webhook", testSecret, signalBody)
	g.post("/signal/webhook", testSecret, signalBody)

	assert.Equal(t, 2, m.signals["rejected"], "auth and parse failures count as rejected")
	assert.Equal(t, 1, m.signals["accepted"])
	assert.Equal(t, 1, m.signals["deduped"])
}

func TestSignalWebhookOpenAuth(t *testing.T) {
	g := newGateway(t, true)

	rec := g.post("/signal/webhook", "", signalBody)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, g.transport.sent, 1)
}

func chatBody(chatID int64, text string) string {
	b, _ := json.Marshal(map[string]interface{}{
		"update_id": 1,
		"message": map[string]interface{}{
			"message_id": 10,
			"chat":       map[string]interface{}{"id": chatID},
			"text":       text,
		},
	})
	return string(b)
}

func TestChatWebhookRejectsBadToken(t *testing.T) {
	g := newGateway(t, false)

	rec := g.post("/chat/webhook", "wrong", chatBody(7, "help"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, g.transport.sent)
}

func TestChatWebhookIgnoresTextlessUpdate(t *testing.T) {
	g := newGateway(t, false)

	rec := g.post("/chat/webhook", testSecret, `{"update_id":1,"message":{"message_id":10,"chat":{"id":7}}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, g.transport.sent, "updates without text are acknowledged silently")
}

func TestChatWebhookDispatchesCommand(t *testing.T) {
	g := newGateway(t, false)

	rec := g.post("/chat/webhook", testSecret, chatBody(7, "risk-calculate 1000 2 1.2000 1.1950"))
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, g.transport.sent, 1)
	assert.Equal(t, int64(7), g.transport.sent[0].chatID)
	assert.Contains(t, g.transport.sent[0].text, "Risk: 2.00% ($20.00)")
}

func TestChatWebhookFallbackWithoutAdvisor(t *testing.T) {
	g := newGateway(t, false)

	rec := g.post("/chat/webhook", testSecret, chatBody(7, "tell me about the market"))
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, g.transport.sent, 1)
	assert.Contains(t, g.transport.sent[0].text, "didn't catch that")
}

func TestChatWebhookReplySendFailureStillAcks(t *testing.T) {
	g := newGateway(t, false)
	g.transport.fail = true

	rec := g.post("/chat/webhook", testSecret, chatBody(7, "help"))
	assert.Equal(t, http.StatusOK, rec.Code, "reply delivery failure must not fail the webhook ack")
}
