package store

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/iwvelando/property-yield/pkg/constants"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Supported drivers.
const (
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Settings selects and configures a backend.
type Settings struct {
	Driver      string `yaml:"driver,omitempty"`
	Path        string `yaml:"path,omitempty"`
	RedisAddr   string `yaml:"redisAddr,omitempty"`
	RedisKey    string `yaml:"redisKey,omitempty"`
	DatabaseURL string `yaml:"databaseURL,omitempty"`
	Owner       string `yaml:"owner,omitempty"`
	// ConnectRetries bounds connection attempts for network backends.
	ConnectRetries uint          `yaml:"connectRetries,omitempty"`
	RetryDelay     time.Duration `yaml:"retryDelay,omitempty"`
}

// WithDefaults fills unset fields.
func (s Settings) WithDefaults() Settings {
	if s.Driver == "" {
		s.Driver = constants.DefaultStoreDriver
	}
	if s.Path == "" {
		s.Path = constants.DefaultStorePath
	}
	if s.RedisKey == "" {
		s.RedisKey = constants.DefaultRedisKey
	}
	if s.Owner == "" {
		s.Owner = "default"
	}
	if s.ConnectRetries == 0 {
		s.ConnectRetries = 5
	}
	if s.RetryDelay <= 0 {
		s.RetryDelay = 500 * time.Millisecond
	}
	return s
}

// Open connects the backend named by settings. Network backends are retried
// with exponential backoff until ConnectRetries attempts have failed.
func Open(ctx context.Context, settings Settings, logger *zap.Logger, opts ...Option) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	settings = settings.WithDefaults()

	switch settings.Driver {
	case DriverFile:
		logger.Info(fmt.Sprintf("storing simulations in %s", settings.Path),
			zap.String("op", "store.Open"),
		)
		return NewFileStore(settings.Path, logger, opts...), nil

	case DriverRedis:
		if settings.RedisAddr == "" {
			return nil, fmt.Errorf("redis driver requires redisAddr")
		}
		kv, err := retry(ctx, settings, logger, func() (*RedisKV, error) {
			kv := NewRedisKV(settings.RedisAddr)
			if err := kv.Ping(ctx); err != nil {
				_ = kv.Close()
				return nil, err
			}
			return kv, nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", settings.RedisAddr, err)
		}
		return NewRedisStore(kv, settings.RedisKey, logger, opts...), nil

	case DriverPostgres:
		if settings.DatabaseURL == "" {
			return nil, fmt.Errorf("postgres driver requires databaseURL")
		}
		pool, err := retry(ctx, settings, logger, func() (*pgxpool.Pool, error) {
			return ConnectPostgres(ctx, settings.DatabaseURL)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return NewPostgresStore(pool, settings.Owner, logger, opts...), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q: expected %s, %s or %s",
			settings.Driver, DriverFile, DriverRedis, DriverPostgres)
	}
}

func retry[T any](ctx context.Context, settings Settings, logger *zap.Logger, operation func() (T, error)) (T, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = settings.RetryDelay
	policy.MaxInterval = settings.RetryDelay * 10

	notify := func(err error, delay time.Duration) {
		logger.Warn("store connection failed, retrying",
			zap.String("op", "store.Open"),
			zap.String("driver", settings.Driver),
			zap.Duration("backoff", delay),
			zap.Error(err),
		)
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(settings.ConnectRetries),
		backoff.WithNotify(notify),
	)
}
