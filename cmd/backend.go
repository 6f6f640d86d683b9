package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/cache"
	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/search"
	"github.com/spigell/jobmatch/internal/secrets"
	"github.com/spigell/jobmatch/internal/session"
	"github.com/spigell/jobmatch/internal/store/postgres"
	"github.com/spigell/jobmatch/internal/utils"
)

const (
	pingAttempts = 5
	pingDelay    = 2 * time.Second
)

var errNoDatabase = errors.New("this command needs --source postgres")

// backend bundles the collaborators chosen by the configuration.
type backend struct {
	postings search.PostingSource
	profiles search.ProfileSource
	store    session.Store

	db    *postgres.Client
	cache *cache.Postings
	redis *redis.Client
}

// staticPostings serves a fixed collection loaded at startup.
type staticPostings struct {
	v *jobs.Postings
}

func (s staticPostings) Postings(context.Context) (*jobs.Postings, error) {
	return s.v, nil
}

// staticProfile serves the profile from the config file for every user.
type staticProfile struct {
	profile *jobs.Profile
}

func (s staticProfile) ActiveProfile(context.Context, string) (*jobs.Profile, error) {
	return s.profile, nil
}

func newBackend(ctx context.Context, config *Config, logger *zap.Logger) (*backend, error) {
	b := &backend{}

	switch strings.ToLower(strings.TrimSpace(config.Source)) {
	case SourceSeed, "":
		v, err := jobs.Seed(time.Now())
		if err != nil {
			return nil, fmt.Errorf("load seed postings: %w", err)
		}
		b.postings = staticPostings{v: v}
	case SourceFile:
		if config.SeedFile == "" {
			return nil, errors.New("seed-file is required for the file source")
		}
		v, err := jobs.LoadFile(config.SeedFile, time.Now())
		if err != nil {
			return nil, err
		}
		b.postings = staticPostings{v: v}
	case SourcePostgres:
		db, err := openDatabase(ctx, config, logger)
		if err != nil {
			return nil, err
		}
		b.db = db
		b.postings = db.Postings()
		b.profiles = db.CVs()
		b.store = db.Relations()
	default:
		return nil, fmt.Errorf("unknown source %q", config.Source)
	}

	if config.Redis.Address != "" {
		b.redis = cache.NewClient(*config.Redis)
		b.cache = cache.New(b.postings, b.redis, *config.Redis, logger)
		b.postings = b.cache
		logger.Debug("postings cache enabled", zap.String("address", config.Redis.Address))
	}

	if b.profiles == nil && config.Profile.HasSkills() {
		b.profiles = staticProfile{profile: config.Profile}
	}

	return b, nil
}

func openDatabase(ctx context.Context, config *Config, logger *zap.Logger) (*postgres.Client, error) {
	dsn, err := secrets.Load(secrets.Source{
		Name:  "postgres dsn",
		Value: config.Postgres.DSN,
		Env:   envPrefix + "_POSTGRES_DSN",
		File:  config.Postgres.DSNFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set postgres.dsn-file or %s_POSTGRES_DSN)", err, envPrefix)
	}

	db, err := postgres.New(dsn, *config.Postgres)
	if err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		err = db.Ping(ctx)
		if err == nil {
			return db, nil
		}
		if attempt == pingAttempts {
			db.Close()
			return nil, err
		}
		logger.Warn("waiting for postgres", zap.Int("attempt", attempt), zap.Error(err))
		if err := utils.WaitFor(ctx, pingDelay); err != nil {
			db.Close()
			return nil, err
		}
	}
}

func (b *backend) requireDatabase() error {
	if b.db == nil {
		return errNoDatabase
	}
	return nil
}

// invalidate drops cached postings after writes.
func (b *backend) invalidate(ctx context.Context, logger *zap.Logger) {
	if b.cache == nil {
		return
	}
	if err := b.cache.Invalidate(ctx); err != nil {
		logger.Warn("postings cache invalidation failed", zap.Error(err))
	}
}

func (b *backend) signIn(ctx context.Context, userID string, logger *zap.Logger) (*session.Session, error) {
	if b.store == nil {
		return nil, errNoDatabase
	}
	return session.SignIn(ctx, userID, b.profiles, b.store, logger)
}

func (b *backend) Close() {
	if b.redis != nil {
		b.redis.Close()
	}
	if b.db != nil {
		b.db.Close()
	}
}
