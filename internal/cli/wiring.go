package cli

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"

	"ladder-quiz/internal/app"
	"ladder-quiz/internal/config"
	"ladder-quiz/internal/importer"
	"ladder-quiz/internal/infra/file"
	"ladder-quiz/internal/infra/memory"
	pgstore "ladder-quiz/internal/infra/postgres"
	redisstore "ladder-quiz/internal/infra/redis"
	"ladder-quiz/internal/leaderboard"
	"ladder-quiz/internal/profile"
	"ladder-quiz/internal/security"
	"ladder-quiz/pkg/logger"
)

// deps holds everything built from config for one process.
type deps struct {
	cfg         config.Config
	redis       *redis.Client
	pool        *pgxpool.Pool
	db          *bun.DB
	leaderboard *leaderboard.Leaderboard
	profiles    *profile.Profiles
	source      app.QuestionSource
	registry    app.GameRegistry
	tokens      *security.Tokens
}

// buildDeps connects the configured backends. withSource controls whether the
// question source is built; the leaderboard command does not need one.
func buildDeps(ctx context.Context, cfg config.Config, withSource bool) (*deps, error) {
	d := &deps{cfg: cfg}
	if err := d.connect(ctx); err != nil {
		d.Close()
		return nil, err
	}
	if err := d.buildStores(ctx); err != nil {
		d.Close()
		return nil, err
	}
	if withSource {
		if err := d.buildSource(ctx); err != nil {
			d.Close()
			return nil, err
		}
	}
	if cfg.Token.Secret != "" {
		tokens, err := security.NewTokens(cfg.Token.Secret, config.TTLDuration(cfg.Token.TTL, 24*time.Hour))
		if err != nil {
			d.Close()
			return nil, err
		}
		d.tokens = tokens
	}
	if d.redis != nil {
		d.registry = redisstore.NewGameStore(d.redis, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute), cfg.Redis.Prefix)
	} else {
		d.registry = memory.NewGameStore()
	}
	return d, nil
}

func (d *deps) connect(ctx context.Context) error {
	cfg := d.cfg
	needRedis := cfg.Storage.Backend == config.BackendRedis
	if cfg.Redis.Addr != "" && cfg.Storage.Backend != config.BackendMemory {
		d.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := d.redis.Ping(ctx).Err(); err != nil {
			if needRedis {
				return fmt.Errorf("connect redis: %w", err)
			}
			logger.Warn("redis unavailable, falling back to in-process cache", "addr", cfg.Redis.Addr, "error", err.Error())
			_ = d.redis.Close()
			d.redis = nil
		}
	}

	if cfg.Storage.Backend == config.BackendPostgres {
		d.db = pgstore.OpenBun(cfg.Postgres.URL)
		if err := pgstore.Migrate(ctx, d.db); err != nil {
			return err
		}
	}
	if cfg.Questions.Source == config.SourcePostgres {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		d.pool = pool
	}
	return nil
}

func (d *deps) buildStores(ctx context.Context) error {
	var (
		lbStore      leaderboard.Store
		profileStore profile.Store
	)
	switch d.cfg.Storage.Backend {
	case config.BackendMemory:
		lbStore, profileStore = memory.NewLeaderboardStore(), memory.NewProfileStore()
	case config.BackendRedis:
		lbStore = redisstore.NewLeaderboardStore(d.redis, d.cfg.Redis.Prefix)
		profileStore = redisstore.NewProfileStore(d.redis, d.cfg.Redis.Prefix)
	case config.BackendPostgres:
		lbStore, profileStore = pgstore.NewLeaderboardStore(d.db), pgstore.NewProfileStore(d.db)
	default:
		lbStore = file.NewLeaderboardStore(d.cfg.Storage.LeaderboardPath)
		profileStore = file.NewProfileStore(d.cfg.Storage.ProfilesPath)
	}

	lb, err := leaderboard.New(ctx, lbStore, d.cfg.Storage.LeaderboardSize)
	if err != nil {
		return fmt.Errorf("load leaderboard: %w", err)
	}
	profiles, err := profile.New(ctx, profileStore)
	if err != nil {
		return fmt.Errorf("load profiles: %w", err)
	}
	d.leaderboard, d.profiles = lb, profiles
	return nil
}

func (d *deps) buildSource(ctx context.Context) error {
	var loader app.QuestionSource
	switch d.cfg.Questions.Source {
	case config.SourcePostgres:
		loader = pgstore.NewQuestionLoader(d.pool)
	case config.SourceXLSX:
		loader = importer.NewWorkbookSource(d.cfg.Questions.Path)
	default:
		loader = file.NewQuestionLoader(d.cfg.Questions.Path)
	}

	ttl := config.TTLDuration(d.cfg.Questions.CacheTTL, 10*time.Minute)
	if d.redis != nil {
		d.source = redisstore.NewQuestionCache(d.redis, loader, ttl, d.cfg.Redis.Prefix)
	} else {
		d.source = memory.NewQuestionCache(loader, ttl)
	}

	// Fail fast on an unusable bank instead of at the first connection.
	if _, err := app.LoadBank(ctx, d.source, d.newRand()); err != nil {
		return err
	}
	return nil
}

func (d *deps) newRand() *rand.Rand {
	seed := d.cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// newGame builds a controller over a freshly shuffled bank.
func (d *deps) newGame(ctx context.Context) (*app.GameController, error) {
	rng := d.newRand()
	bank, err := app.LoadBank(ctx, d.source, rng)
	if err != nil {
		return nil, err
	}
	return app.NewGameController(bank, d.leaderboard, d.profiles, app.Options{
		Ladder:   d.cfg.Ladder(),
		Rand:     rng,
		Sanitize: security.SanitizeName,
	}), nil
}

// Close releases connections.
func (d *deps) Close() {
	if d.pool != nil {
		d.pool.Close()
	}
	if d.db != nil {
		_ = d.db.Close()
	}
	if d.redis != nil {
		_ = d.redis.Close()
	}
}
