package main

import (
	"context"
	"fmt"
	"time"

	"caregiver-matcher/internal/audit"
	"caregiver-matcher/internal/common/aws"
	"caregiver-matcher/internal/common/config"
	"caregiver-matcher/internal/common/database"
	"caregiver-matcher/internal/common/logger"
	"caregiver-matcher/internal/common/observability"
	"caregiver-matcher/internal/common/retry"
	"caregiver-matcher/internal/feedback"
	"caregiver-matcher/internal/matching"
	"caregiver-matcher/internal/repository/cache"
	"caregiver-matcher/internal/repository/memory"
	"caregiver-matcher/internal/repository/postgres"
	"caregiver-matcher/internal/repository/search"
	"caregiver-matcher/pkg/registry"
)

// app holds everything a command needs, plus what must be closed on exit.
type app struct {
	cfg     *config.Config
	log     logger.Logger
	obs     *observability.Observability
	service *matching.Service

	pg      *database.PostgresClient
	redis   *database.RedisClient
	es      *database.ElasticsearchClient
	closers []func() error
}

// retryWithBackoff retries infrastructure startup with doubling delays.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func newApp(ctx context.Context, cfg *config.Config, log logger.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log}

	a.obs = observability.New(cfg.Observability.ServiceName, log)
	if cfg.Observability.TracingEnabled {
		if err := a.obs.EnableTracing(cfg.Observability.ServiceName, cfg.Observability.JaegerEndpoint, cfg.Observability.SampleRatio); err != nil {
			return nil, err
		}
		log.Info("Tracing enabled", map[string]interface{}{"endpoint": cfg.Observability.JaegerEndpoint})
	}

	if err := a.connect(ctx); err != nil {
		a.Close()
		return nil, err
	}

	algorithms, err := a.algorithms()
	if err != nil {
		a.Close()
		return nil, err
	}
	repo, err := a.repository()
	if err != nil {
		a.Close()
		return nil, err
	}
	sink, err := a.feedbackSink(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.service = matching.NewService(matching.Config{
		Concurrency:       cfg.Matching.Concurrency,
		RequestTimeout:    config.GetDuration(cfg.Matching.RequestTimeout),
		RepositoryTimeout: config.GetDuration(cfg.Matching.RepositoryTimeout),
		Retry: retry.Config{
			MaxRetries: cfg.Matching.RepositoryRetries,
			BaseDelay:  config.GetDuration(cfg.Matching.RetryBaseDelay),
			MaxDelay:   config.GetDuration(cfg.Matching.RetryMaxDelay),
		},
		CandidateSource: cfg.Matching.CandidateSource,
	}, matching.Dependencies{
		Repository:    repo,
		Audit:         a.auditLogger(),
		Feedback:      sink,
		Algorithms:    algorithms,
		Observability: a.obs,
	}, log)

	return a, nil
}

// connect opens only the stores the configuration selects.
func (a *app) connect(ctx context.Context) error {
	cfg := a.cfg

	if cfg.UsesPostgres() {
		err := retryWithBackoff(func() error {
			var err error
			a.pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return a.pg.Ping(ctx)
		}, 15, 2*time.Second, a.log, "PostgreSQL connection")
		if err != nil {
			return err
		}
		a.closers = append(a.closers, a.pg.Close)
		a.log.Info("PostgreSQL connected successfully", nil)
	}

	if cfg.Matching.CandidateSource == config.SourceElasticsearch {
		err := retryWithBackoff(func() error {
			var err error
			a.es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return a.es.Ping(ctx)
		}, 15, 2*time.Second, a.log, "Elasticsearch connection")
		if err != nil {
			return err
		}
		a.log.Info("Elasticsearch connected successfully", nil)
	}

	if cfg.Matching.CacheEnabled {
		err := retryWithBackoff(func() error {
			var err error
			a.redis, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return a.redis.Ping(ctx)
		}, 10, 2*time.Second, a.log, "Redis connection")
		if err != nil {
			return err
		}
		a.closers = append(a.closers, a.redis.Close)
		a.log.Info("Redis connected successfully", nil)
	}

	return nil
}

func (a *app) algorithms() (*registry.Registry, error) {
	reg := registry.New()
	if path := a.cfg.Matching.AlgorithmRegistryPath; path != "" {
		loaded, err := registry.LoadRegistry(path)
		if err != nil {
			return nil, fmt.Errorf("load algorithm registry: %w", err)
		}
		reg = loaded
	}
	reg, err := reg.WithDefault(a.cfg.Matching.DefaultAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("matching.default_algorithm: %w", err)
	}
	a.log.Info("Algorithm registry loaded", map[string]interface{}{
		"algorithms": reg.IDs(),
		"default":    reg.DefaultID(),
	})
	return reg, nil
}

func (a *app) repository() (matching.CandidateRepository, error) {
	cfg := a.cfg.Matching

	var repo matching.CandidateRepository
	switch cfg.CandidateSource {
	case config.SourcePostgres:
		repo = postgres.NewRepository(a.pg.DB, a.log).WithMaxServiceRadius(cfg.MaxServiceRadius)
	case config.SourceElasticsearch:
		repo = search.NewRepository(a.es.Client, a.cfg.Database.Elasticsearch.CaregiverIndex, cfg.MaxServiceRadius, a.log)
	case config.SourceMemory:
		repo = memory.NewSeeded(a.log)
	default:
		return nil, fmt.Errorf("unknown candidate source %q", cfg.CandidateSource)
	}

	if cfg.CacheEnabled {
		repo = cache.NewRepository(repo, a.redis.Client, config.GetDuration(cfg.CacheTTL), a.log)
	}
	return repo, nil
}

func (a *app) auditLogger() matching.AuditLogger {
	if a.cfg.Audit.Sink == config.SinkPostgres {
		return audit.NewPostgresLogger(a.pg.DB, a.cfg.Audit.Table)
	}
	return audit.NewLogLogger(a.log)
}

func (a *app) feedbackSink(ctx context.Context) (matching.FeedbackSink, error) {
	cfg := a.cfg.Feedback

	switch cfg.Sink {
	case config.SinkSNS:
		client, err := aws.NewSNSClient(ctx, cfg.AWS.Region)
		if err != nil {
			return nil, err
		}
		return feedback.NewSNSSink(client, cfg.AWS.SNSTopicARN, a.log), nil
	case config.SinkKafka:
		sink := feedback.NewKafkaSink(cfg.Kafka, a.log)
		a.closers = append(a.closers, sink.Close)
		return sink, nil
	default:
		return feedback.NewLogSink(a.log), nil
	}
}

// ready reports the first store that fails a ping.
func (a *app) ready(ctx context.Context) error {
	if a.pg != nil {
		if err := a.pg.Ping(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	}
	if a.redis != nil {
		if err := a.redis.Ping(ctx); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	if a.es != nil {
		if err := a.es.Ping(ctx); err != nil {
			return fmt.Errorf("elasticsearch: %w", err)
		}
	}
	return nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("Error during shutdown", map[string]interface{}{"error": err.Error()})
		}
	}
	a.closers = nil
	a.obs.Shutdown()
}
