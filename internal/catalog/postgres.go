package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// uniqueViolation is the Postgres error code for a unique constraint
// violation.
const uniqueViolation = "23505"

// PostgresConfig controls the connection pool behind the catalog.
type PostgresConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type pgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Postgres is the production Store backed by a pgx pool.
type Postgres struct {
	pool   pgxPool
	logger *zap.Logger
}

// NewPostgres creates a Postgres-backed Store using the provided config.
func NewPostgres(ctx context.Context, cfg PostgresConfig, logger *zap.Logger) (*Postgres, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database.dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Postgres{pool: pool, logger: logger}, nil
}

// NewPostgresWithPool constructs a Store from an existing pool
// (primarily for testing).
func NewPostgresWithPool(pool pgxPool, logger *zap.Logger) (*Postgres, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &Postgres{pool: pool, logger: logger}, nil
}

// Close releases the underlying pool resources.
func (p *Postgres) Close() {
	if p == nil || p.pool == nil {
		return
	}
	p.pool.Close()
}

// RestaurantIDByName looks up a restaurant id by its exact name.
func (p *Postgres) RestaurantIDByName(ctx context.Context, name string) (uuid.UUID, bool, error) {
	var id uuid.UUID
	err := p.pool.QueryRow(ctx, `SELECT id FROM restaurants WHERE name = $1`, name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("select restaurant by name: %w", err)
	}
	return id, true, nil
}

// InsertMenu writes the restaurant and its full menu atomically. A
// unique violation on the restaurant name maps to ErrAlreadyExists so
// concurrent submissions of the same restaurant converge on one row.
func (p *Postgres) InsertMenu(ctx context.Context, restaurant RestaurantRecord, categories []CategoryRecord, items []ItemRecord) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin catalog transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			p.logger.Warn("rollback catalog transaction", zap.Error(rbErr))
		}
	}()

	_, err = tx.Exec(ctx, `
INSERT INTO restaurants (id, name, location, description, currency, last_updated, restaurant_image)
VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		restaurant.ID,
		restaurant.Name,
		restaurant.Location,
		restaurant.Description,
		restaurant.Currency,
		restaurant.LastUpdated,
		restaurant.Image,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert restaurant %q: %w", restaurant.Name, ErrAlreadyExists)
		}
		return fmt.Errorf("insert restaurant: %w", err)
	}

	for _, cat := range categories {
		_, err = tx.Exec(ctx, `
INSERT INTO categories (id, restaurant_id, category, description, priority)
VALUES ($1,$2,$3,$4,$5)`,
			cat.ID,
			cat.RestaurantID,
			cat.Name,
			cat.Description,
			cat.Priority,
		)
		if err != nil {
			return fmt.Errorf("insert category %q: %w", cat.Name, err)
		}
	}

	for _, item := range items {
		_, err = tx.Exec(ctx, `
INSERT INTO menu_items (id, category_id, menu_id, name, slug, description, price, tags, image_prompt, images)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			item.ID,
			item.CategoryID,
			item.MenuID,
			item.Name,
			item.Slug,
			item.Description,
			item.Price,
			item.Tags,
			item.ImagePrompt,
			item.Images,
		)
		if err != nil {
			return fmt.Errorf("insert menu item %q: %w", item.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit catalog transaction: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
