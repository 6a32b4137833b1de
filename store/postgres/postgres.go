// Package postgres implements store.Store backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"prompt_page_studio/kickstarters"
	"prompt_page_studio/pageconfig"
	"prompt_page_studio/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DefaultTimeout bounds each query.
const DefaultTimeout = 5 * time.Second

// Store keeps page records and custom kickstarters in PostgreSQL.
type Store struct {
	db      *sqlx.DB
	timeout time.Duration
}

var _ store.Store = (*Store)(nil)

// Open connects to the database at dsn, configures the pool and runs pending
// migrations.
func Open(dsn string) (*Store, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := runMigrations(db.DB); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return New(db, DefaultTimeout), nil
}

// New wraps an open connection. Migrations are the caller's concern.
func New(db *sqlx.DB, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Store{db: db, timeout: timeout}
}

func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}
	drv, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", drv)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Load(ctx context.Context, pageID string) (pageconfig.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var raw []byte
	err := s.db.QueryRowxContext(ctx, `SELECT record FROM pages WHERE id = $1`, pageID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load page %s: %w", pageID, err)
	}
	return pageconfig.Record(raw), nil
}

// Save upserts the whole record in one statement.
func (s *Store) Save(ctx context.Context, pageID string, rec pageconfig.Record) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pages (id, record, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET
			record = EXCLUDED.record,
			updated_at = EXCLUDED.updated_at`,
		pageID, []byte(rec))
	if err != nil {
		return fmt.Errorf("save page %s: %w", pageID, err)
	}
	return nil
}

type customRow struct {
	ID       string `db:"id"`
	Question string `db:"question"`
	Category string `db:"category"`
}

func (s *Store) ListCustomItems(ctx context.Context, accountID string) ([]kickstarters.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var rows []customRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, question, category FROM custom_kickstarters
		WHERE account_id = $1 ORDER BY created_at, id`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list kickstarters: %w", err)
	}
	items := make([]kickstarters.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, kickstarters.Item{ID: r.ID, Question: r.Question, Category: kickstarters.Category(r.Category)})
	}
	return items, nil
}

func (s *Store) SaveCustomItem(ctx context.Context, accountID string, item kickstarters.Item) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO custom_kickstarters (account_id, id, question, category)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (account_id, id) DO UPDATE SET
			question = EXCLUDED.question,
			category = EXCLUDED.category`,
		accountID, item.ID, item.Question, string(item.Category))
	if err != nil {
		return fmt.Errorf("save kickstarter %s: %w", item.ID, err)
	}
	return nil
}

func (s *Store) DeleteCustomItem(ctx context.Context, accountID, itemID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM custom_kickstarters WHERE account_id = $1 AND id = $2`, accountID, itemID); err != nil {
		return fmt.Errorf("delete kickstarter %s: %w", itemID, err)
	}
	return nil
}
