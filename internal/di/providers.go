package di

import (
	"context"
	"fmt"
	"time"

	domrepo "SignalBench/internal/domain/repository"
	internalrepo "SignalBench/internal/repository"
	"SignalBench/internal/usecase"
	pkgcache "SignalBench/pkg/cache"
	pkgch "SignalBench/pkg/clickhouse"
	"SignalBench/pkg/config"
	pkgkafka "SignalBench/pkg/kafka"
	applogger "SignalBench/pkg/logger"
)

// ProvideLogger creates the structured logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideSignalStore builds the configured signal store: CSV loads the file
// up front; ClickHouse connects and optionally wraps the store in the
// layered query cache. The cleanup closes whichever resources were opened.
func ProvideSignalStore(cfg *config.Config, l *applogger.Logger) (domrepo.SignalStore, func(), error) {
	switch cfg.Source.Type {
	case "csv":
		store, err := internalrepo.NewCSVSignalStore(cfg.Source.Path, delimiterRune(cfg.Source.Delimiter), l)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil

	case "clickhouse":
		client, err := provideClickHouseClient(cfg)
		if err != nil {
			return nil, nil, err
		}
		var store domrepo.SignalStore = internalrepo.NewCHSignalStore(
			client.DB(),
			cfg.ClickHouse.Database+"."+cfg.ClickHouse.Table,
			l,
		)

		if cfg.Cache.Enabled {
			svc, err := provideCacheService(cfg)
			if err != nil {
				_ = client.Close()
				return nil, nil, err
			}
			store = internalrepo.NewCachedSignalStore(store, svc, cfg.Cache.TTL)
		}

		cleanup := func() {
			_ = store.Close()
			_ = client.Close()
		}
		return store, cleanup, nil
	}
	return nil, nil, fmt.Errorf("unknown source type %q", cfg.Source.Type)
}

func provideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, pkgch.SchemaStatements(cfg.ClickHouse.Database, cfg.ClickHouse.Table)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

func provideCacheService(cfg *config.Config) (pkgcache.Service, error) {
	if !cfg.Cache.Redis.Enabled {
		return pkgcache.NewMemoryCache(0), nil
	}
	redisCache, err := pkgcache.NewRedisCache(pkgcache.RedisConfig{
		Host:     cfg.Cache.Redis.Host,
		Port:     cfg.Cache.Redis.Port,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		Prefix:   cfg.Cache.Redis.Prefix,
	})
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return pkgcache.NewLayeredCache(redisCache, 0), nil
}

// ProvideSimulationRunner creates the simulate driver.
func ProvideSimulationRunner(store domrepo.SignalStore, l *applogger.Logger) *usecase.SimulationRunner {
	return usecase.NewSimulationRunner(store, l)
}

// ProvideScanRunner creates the scan driver.
func ProvideScanRunner(store domrepo.SignalStore, l *applogger.Logger) *usecase.ScanRunner {
	return usecase.NewScanRunner(store, l)
}

// ProvideSignalWriter creates the ClickHouse-backed writer for ingest.
func ProvideSignalWriter(cfg *config.Config, l *applogger.Logger) (domrepo.SignalWriter, func(), error) {
	client, err := provideClickHouseClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	writer := internalrepo.NewCHSignalStore(
		client.DB(),
		cfg.ClickHouse.Database+"."+cfg.ClickHouse.Table,
		l,
	)
	return writer, func() { _ = client.Close() }, nil
}

// ProvideSignalPublisher creates the Kafka republisher, or nil when no
// brokers are configured.
func ProvideSignalPublisher(cfg *config.Config) (domrepo.SignalPublisher, func(), error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, func() {}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithRequiredAcks(-1),
		pkgkafka.WithMaxAttempts(3),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	publisher := internalrepo.NewKafkaSignalPublisher(producer, cfg.Kafka.Topic)
	return publisher, func() { _ = publisher.Close() }, nil
}

// ProvideKafkaConsumer creates the stream-ingest consumer, or nil when no
// brokers are configured. The reader dials lazily on first read.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, func(), error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, func() {}, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerTopic(cfg.Kafka.Topic),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.GroupID),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, func() { _ = consumer.Close() }, nil
}

// ProvideIngestRunner creates the ingest driver.
func ProvideIngestRunner(writer domrepo.SignalWriter, publisher domrepo.SignalPublisher, l *applogger.Logger) *usecase.IngestRunner {
	return usecase.NewIngestRunner(writer, publisher, l)
}

func delimiterRune(s string) rune {
	if s == "" {
		return ','
	}
	return []rune(s)[0]
}
