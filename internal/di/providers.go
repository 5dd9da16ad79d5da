package di

import (
	"fmt"

	"SignalRelay/internal/domain/repository"
	"SignalRelay/internal/handler/api"
	internalrepo "SignalRelay/internal/repository"
	"SignalRelay/internal/service/advisor"
	"SignalRelay/internal/service/cache"
	"SignalRelay/internal/service/store"
	"SignalRelay/internal/service/telegram"
	"SignalRelay/internal/usecase"
	"SignalRelay/pkg/config"
	pkgkafka "SignalRelay/pkg/kafka"
	"SignalRelay/pkg/logger"
	"SignalRelay/pkg/metrics"
	"SignalRelay/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: "stdout",
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideDeduper selects the dedup backend: Redis when configured (shared
// window across instances), otherwise the in-process cache.
func ProvideDeduper(cfg *config.Config) (repository.Deduper, error) {
	if cfg.Redis.Enabled {
		d, err := cache.NewRedisDeduper(cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("redis deduper: %w", err)
		}
		return d, nil
	}
	return cache.NewDedupCacheWithHighWater(cfg.Webhook.DedupHighWater), nil
}

// ProvideLastSignalStore creates the per-destination last-signal store.
func ProvideLastSignalStore() repository.LastSignalStore {
	return store.NewLastSignal()
}

// ProvideTransport creates the Telegram transport client.
func ProvideTransport(cfg *config.Config) repository.Transport {
	return telegram.New(cfg.Telegram.BotToken, cfg.Telegram.SendTimeout)
}

// ProvidePublisher creates the Kafka audit publisher, or nil when kafka is
// not configured (the ingestor treats nil as a no-op).
func ProvidePublisher(cfg *config.Config) (repository.Publisher, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithWriteTimeout(cfg.Kafka.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvideAdvisor creates the generative-text collaborator.
func ProvideAdvisor(cfg *config.Config) repository.Advisor {
	return advisor.New(cfg.Advisor.BaseURL, cfg.Advisor.APIKey, cfg.Advisor.Model, cfg.Advisor.Timeout)
}

// ProvideIngestor creates the signal ingestion use case.
func ProvideIngestor(
	deduper repository.Deduper,
	st repository.LastSignalStore,
	transport repository.Transport,
	publisher repository.Publisher,
	m repository.Metrics,
	l *logger.Logger,
	cfg *config.Config,
) *usecase.Ingestor {
	return usecase.NewIngestor(deduper, st, transport, publisher, m, l,
		cfg.Telegram.DefaultChatID, cfg.Webhook.DedupTTL)
}

// ProvideDispatcher creates the chat command dispatcher.
func ProvideDispatcher(st repository.LastSignalStore, m repository.Metrics) *usecase.Dispatcher {
	return usecase.NewDispatcher(st, m)
}

// ProvideHandler creates the webhook HTTP handler.
func ProvideHandler(
	l *logger.Logger,
	ingestor *usecase.Ingestor,
	dispatcher *usecase.Dispatcher,
	adv repository.Advisor,
	transport repository.Transport,
	m repository.Metrics,
	cfg *config.Config,
) *api.WebhookHandler {
	return api.NewWebhookHandler(l, ingestor, dispatcher, adv, transport, m,
		cfg.Webhook.Token, cfg.AuthDisabled())
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	handler *api.WebhookHandler,
	deduper repository.Deduper,
	publisher repository.Publisher,
	l *logger.Logger,
) *server.App {
	return server.New(cfg, handler, deduper, publisher, l)
}
