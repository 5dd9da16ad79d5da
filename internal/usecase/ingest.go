package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"SignalRelay/internal/domain/models"
	"SignalRelay/internal/domain/repository"
	"SignalRelay/internal/service/format"
	"SignalRelay/pkg/logger"
	"SignalRelay/pkg/util"
)

// DedupSizer is implemented by the in-memory deduper; used only to feed the
// cache size gauge.
type DedupSizer interface {
	Len() int
}

// Ingestor runs the signal path: fingerprint, dedup, store, format, send.
// Dedup and store access is done before any outbound I/O so no lock is ever
// held across the network call.
type Ingestor struct {
	deduper   repository.Deduper
	store     repository.LastSignalStore
	transport repository.Transport
	publisher repository.Publisher
	metrics   repository.Metrics
	log       *logger.Logger

	chatID int64
	ttl    time.Duration
	now    func() time.Time
}

func NewIngestor(
	deduper repository.Deduper,
	store repository.LastSignalStore,
	transport repository.Transport,
	publisher repository.Publisher,
	metrics repository.Metrics,
	log *logger.Logger,
	chatID int64,
	ttl time.Duration,
) *Ingestor {
	return &Ingestor{
		deduper:   deduper,
		store:     store,
		transport: transport,
		publisher: publisher,
		metrics:   metrics,
		log:       log,
		chatID:    chatID,
		ttl:       ttl,
		now:       time.Now,
	}
}

// Fingerprint derives the dedup key: symbol, signal type, and the event
// timestamp in unix seconds. A payload without a usable timestamp falls back
// to ingestion time, which makes dedup of such events best effort only.
func (i *Ingestor) Fingerprint(p *models.SignalPayload) string {
	ts := util.ParseTimeDefault(p.Meta.Timestamp, i.now())
	return p.Market.Symbol + "|" + p.Signal.Type + "|" + strconv.FormatInt(ts.Unix(), 10)
}

// Process handles one authenticated signal. Returns deduped=true when the
// event was suppressed; a non-nil error means the outbound send failed and
// the caller should answer with a server error.
func (i *Ingestor) Process(ctx context.Context, p *models.SignalPayload) (deduped bool, err error) {
	fp := i.Fingerprint(p)

	dup, derr := i.deduper.IsDuplicate(ctx, fp, i.ttl)
	if derr != nil {
		// Dedup is best effort: a broken dedup backend must not drop
		// real notifications, so the event passes through.
		i.log.Warn("dedup check failed, accepting signal", logger.Error(derr))
		i.metrics.RecordError("dedup")
		dup = false
	}
	if sizer, ok := i.deduper.(DedupSizer); ok {
		i.metrics.RecordDedupSize(sizer.Len())
	}
	if dup {
		i.metrics.RecordSignal("deduped")
		i.log.Debug("duplicate signal suppressed", logger.String("fingerprint", fp))
		return true, nil
	}

	i.store.Put(i.chatID, p)

	text, ferr := format.Render(p)
	if ferr != nil {
		return false, fmt.Errorf("render signal: %w", ferr)
	}

	relayID := uuid.NewString()

	start := i.now()
	if serr := i.transport.SendMessage(ctx, i.chatID, text); serr != nil {
		i.metrics.RecordError("send")
		return false, fmt.Errorf("dispatch notification: %w", serr)
	}
	i.metrics.RecordSendLatency(time.Since(start).Seconds())

	if i.publisher != nil {
		if perr := i.publisher.PublishAccepted(ctx, relayID, p); perr != nil {
			// Audit fan-out never fails the signal path.
			i.log.Warn("audit publish failed", logger.Error(perr), logger.String("relay_id", relayID))
			i.metrics.RecordError("publish")
		}
	}

	i.metrics.RecordSignal("accepted")
	i.log.Info("signal relayed",
		logger.String("relay_id", relayID),
		logger.String("symbol", p.Market.Symbol),
		logger.String("type", p.Signal.Type),
		logger.Int64("chat_id", i.chatID),
	)
	return false, nil
}
