package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/geocoder89/formhub/internal/config"
	"github.com/geocoder89/formhub/internal/db"
	"github.com/geocoder89/formhub/internal/directory"
	"github.com/geocoder89/formhub/internal/observability"
	"github.com/geocoder89/formhub/internal/repo/memory"
	"github.com/geocoder89/formhub/internal/repo/mongodocs"
	"github.com/geocoder89/formhub/internal/repo/mysql"
	"github.com/geocoder89/formhub/internal/repo/postgres"
	"github.com/geocoder89/formhub/internal/repo/redisdocs"
	"github.com/geocoder89/formhub/internal/repo/s3docs"
	"github.com/geocoder89/formhub/internal/security"
)

// Document store drivers.
const (
	DriverMemory = "memory"
	DriverMongo  = "mongo"
	DriverRedis  = "redis"
	DriverS3     = "s3"
)

// Provisioned is the backend chosen for this process together with the
// health checks and shutdown hooks of whatever it connected to.
type Provisioned struct {
	Backend Backend
	Name    string

	pings   []func(context.Context) error
	closers []func(context.Context) error
}

func (p *Provisioned) Ping(ctx context.Context) error {
	var errs []error
	for _, ping := range p.pings {
		if err := ping(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (p *Provisioned) Close(ctx context.Context) error {
	var errs []error
	// reverse order of acquisition
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (p *Provisioned) track(ping, closer func(context.Context) error) {
	if ping != nil {
		p.pings = append(p.pings, ping)
	}
	if closer != nil {
		p.closers = append(p.closers, closer)
	}
}

// New builds the backend selected by cfg.Backend. A nil prom skips
// instrumentation. On error everything opened so far is closed again.
func New(ctx context.Context, cfg config.Config, log *slog.Logger, prom *observability.Prom) (*Provisioned, error) {
	p := &Provisioned{Name: cfg.Backend}

	var opts []Option
	if cfg.HashStoredPasswords {
		opts = append(opts, WithPasswordHashing(security.Hasher{}))
	}

	b, err := p.build(ctx, cfg, log, opts)

	if err != nil {
		_ = p.Close(ctx)
		return nil, err
	}

	if prom != nil {
		b = NewInstrumented(b, p.Name, prom)
	}

	p.Backend = b

	return p, nil
}

func (p *Provisioned) build(ctx context.Context, cfg config.Config, log *slog.Logger, opts []Option) (Backend, error) {
	switch cfg.Backend {
	case config.BackendNoop, "":
		p.Name = config.BackendNoop
		return NewNoop(log), nil

	case config.BackendDocStore:
		store, err := p.openDocumentStore(ctx, cfg.DocStore)
		if err != nil {
			return nil, err
		}
		return NewDocumentWriter(store, cfg.DocStore.Collection, opts...), nil

	case config.BackendDirectory:
		gdb, err := directory.Open(cfg.Directory.DSN)
		if err != nil {
			return nil, err
		}

		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		// tracked before New so a failed construction still releases the handle
		p.track(sqlDB.PingContext, func(context.Context) error { return sqlDB.Close() })

		dir, err := directory.New(gdb, directory.Options{MinPasswordLength: cfg.Directory.MinPassword})
		if err != nil {
			return nil, err
		}

		store, err := p.openDocumentStore(ctx, cfg.DocStore)
		if err != nil {
			return nil, err
		}
		return NewDirectoryWriter(dir, store, cfg.DocStore.ProfileCollection, opts...), nil

	case config.BackendRelational:
		users, err := p.openRelational(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		return NewRelationalInserter(users), nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", cfg.Backend)
	}
}

func (p *Provisioned) openDocumentStore(ctx context.Context, cfg config.DocStoreConfig) (DocumentStore, error) {
	switch cfg.Driver {
	case DriverMemory:
		return memory.NewDocumentStore(), nil

	case DriverMongo, "":
		store, err := mongodocs.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		p.track(store.Ping, store.Close)
		return store, nil

	case DriverRedis:
		store := redisdocs.New(redisdocs.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
		p.track(store.Ping, store.Close)

		if err := store.Ping(ctx); err != nil {
			return nil, fmt.Errorf("redis ping failed: %w", err)
		}
		return store, nil

	case DriverS3:
		store, err := s3docs.New(ctx, s3docs.Config{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			Endpoint:     cfg.S3Endpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			UsePathStyle: cfg.S3UsePathStyle,
		})
		if err != nil {
			return nil, err
		}
		p.track(store.Ping, nil)
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported document store driver: %s", cfg.Driver)
	}
}

func (p *Provisioned) openRelational(ctx context.Context, cfg config.DBConfig) (NameInserter, error) {
	switch cfg.Driver {
	case "postgres", "":
		pool, err := db.NewPool(cfg.URL, cfg.MaxConns)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		p.track(pool.Ping, func(context.Context) error {
			pool.Close()
			return nil
		})

		if err := db.MigratePostgres(ctx, pool); err != nil {
			return nil, err
		}
		return postgres.NewUsersRepo(pool), nil

	case "mysql":
		sqlDB, err := db.NewMySQL(cfg.MySQLDSN, int(cfg.MaxConns))
		if err != nil {
			return nil, err
		}
		p.track(sqlDB.PingContext, func(context.Context) error { return sqlDB.Close() })

		if err := db.MigrateMySQL(ctx, sqlDB); err != nil {
			return nil, err
		}
		return mysql.NewUsersRepo(sqlDB), nil

	default:
		return nil, fmt.Errorf("unsupported relational driver: %s", cfg.Driver)
	}
}
