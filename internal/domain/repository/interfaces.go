package repository

import (
	"context"
	"time"

	"SignalRelay/internal/domain/models"
)

// Deduper answers "have I seen this fingerprint recently?". A negative answer
// records the fingerprint as seen now; a positive answer must not refresh the
// window. Check-and-record is atomic across concurrent callers.
type Deduper interface {
	IsDuplicate(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Close() error
}

// LastSignalStore keeps the most recent accepted payload per destination.
type LastSignalStore interface {
	Put(chatID int64, p *models.SignalPayload)
	Get(chatID int64) (*models.SignalPayload, bool)
}

// Transport delivers text to a chat destination.
type Transport interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Publisher fans accepted signals out to an audit topic. Best effort; the
// ingestion path never fails on publish errors.
type Publisher interface {
	PublishAccepted(ctx context.Context, relayID string, p *models.SignalPayload) error
	Close() error
}

// Advisor is the "ask a model, get text back" collaborator used for chat text
// that no command matches.
type Advisor interface {
	Reply(ctx context.Context, userText string) (string, error)
	Enabled() bool
}

type Metrics interface {
	RecordSignal(result string) // accepted | deduped | rejected
	RecordCommand(kind string)
	RecordSendLatency(seconds float64)
	RecordDedupSize(n int)
	RecordError(kind string)
}
