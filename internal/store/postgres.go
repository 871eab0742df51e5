package store

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/property-yield/internal/acquisition"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrations embed.FS

// PostgresStore keeps snapshots in the simulations table, scoped by owner.
// Deleting an unknown ID returns ErrNotFound.
type PostgresStore struct {
	pool   *pgxpool.Pool
	owner  string
	opts   options
	logger *zap.Logger
}

// ConnectPostgres opens a pool on databaseURL and verifies it with a ping.
func ConnectPostgres(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	cfg.MaxConns = 10
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// Migrate applies the embedded schema migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	// The pool owns the connections, so db is not closed here.
	db := stdlib.OpenDBFromPool(pool)

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to select migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// NewPostgresStore returns a store over pool for owner. The schema must be
// migrated already.
func NewPostgresStore(pool *pgxpool.Pool, owner string, logger *zap.Logger, opts ...Option) *PostgresStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresStore{pool: pool, owner: owner, opts: newOptions(opts), logger: logger}
}

func (s *PostgresStore) List(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, inputs, created_at, updated_at
		FROM simulations
		WHERE owner = $1
		ORDER BY updated_at DESC, id
	`, s.owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list simulations: %w", err)
	}
	defer rows.Close()

	list := []Snapshot{}
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list simulations: %w", err)
	}
	return list, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Snapshot, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, inputs, created_at, updated_at
		FROM simulations
		WHERE owner = $1 AND id = $2
	`, s.owner, id)

	snapshot, err := scanSnapshot(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Snapshot{}, ErrNotFound
	}
	return snapshot, err
}

func (s *PostgresStore) Save(ctx context.Context, in acquisition.Inputs) (Snapshot, error) {
	if err := validTitle(in); err != nil {
		return Snapshot{}, err
	}
	inputs, err := json.Marshal(in)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to encode inputs: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	now := s.opts.now().UTC()
	row := tx.QueryRow(ctx, `
		INSERT INTO simulations (id, owner, title, inputs, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (owner, title)
		DO UPDATE SET
			inputs = EXCLUDED.inputs,
			updated_at = EXCLUDED.updated_at
		RETURNING id, inputs, created_at, updated_at
	`, s.opts.newID(), s.owner, in.Title, inputs, now)

	saved, err := scanSnapshot(row)
	if err != nil {
		return Snapshot{}, err
	}

	pruned, err := tx.Exec(ctx, `
		DELETE FROM simulations
		WHERE owner = $1 AND id NOT IN (
			SELECT id FROM simulations
			WHERE owner = $1
			ORDER BY updated_at DESC, id
			LIMIT $2
		)
	`, s.owner, s.opts.limit)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to prune simulations: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("failed to commit simulation: %w", err)
	}

	s.logger.Debug(fmt.Sprintf("saved simulation %s", in.Title),
		zap.String("op", "store.PostgresStore.Save"),
		zap.String("id", saved.ID),
		zap.Int64("pruned", pruned.RowsAffected()),
	)
	return saved, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM simulations WHERE owner = $1 AND id = $2`, s.owner, id)
	if err != nil {
		return fmt.Errorf("failed to delete simulation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func scanSnapshot(row pgx.Row) (Snapshot, error) {
	var (
		snapshot Snapshot
		inputs   []byte
	)
	if err := row.Scan(&snapshot.ID, &inputs, &snapshot.CreatedAt, &snapshot.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Snapshot{}, err
		}
		return Snapshot{}, fmt.Errorf("failed to scan simulation: %w", err)
	}
	if err := json.Unmarshal(inputs, &snapshot.Inputs); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode simulation %s: %w", snapshot.ID, err)
	}
	return snapshot, nil
}
