package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nDmitry/rssposter/internal/app"
	"github.com/nDmitry/rssposter/internal/entity"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const schemaSQL = `CREATE TABLE IF NOT EXISTS posted_links (link TEXT PRIMARY KEY)`

// SQLStore keeps posted links in the posted_links table
type SQLStore struct {
	db         *sql.DB
	insertStmt string
}

// OpenSQLite opens (and creates if needed) an SQLite database at path
func OpenSQLite(ctx context.Context, path string) (*SQLStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("could not create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)

	if err != nil {
		return nil, fmt.Errorf("could not open sqlite: %w", err)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	return newSQLStore(ctx, db, `INSERT INTO posted_links (link) VALUES (?) ON CONFLICT (link) DO NOTHING`)
}

// OpenPostgres connects to PostgreSQL using dsn
func OpenPostgres(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sql.Open("postgres", dsn)

	if err != nil {
		return nil, fmt.Errorf("could not open postgres: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)

	return newSQLStore(ctx, db, `INSERT INTO posted_links (link) VALUES ($1) ON CONFLICT (link) DO NOTHING`)
}

func newSQLStore(ctx context.Context, db *sql.DB, insertStmt string) (*SQLStore, error) {
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not apply schema: %w", err)
	}

	return &SQLStore{db: db, insertStmt: insertStmt}, nil
}

// Load selects all stored links
func (s *SQLStore) Load(ctx context.Context) entity.PostedSet {
	posted := entity.NewPostedSet()

	rows, err := s.db.QueryContext(ctx, `SELECT link FROM posted_links`)

	if err != nil {
		app.Logger().Warn("Could not query posted links", "error", err)
		return posted
	}

	defer rows.Close()

	for rows.Next() {
		var link string

		if err := rows.Scan(&link); err != nil {
			app.Logger().Warn("Could not scan posted link", "error", err)
			return entity.NewPostedSet()
		}

		posted.Add(link)
	}

	if err := rows.Err(); err != nil {
		app.Logger().Warn("Could not read posted links", "error", err)
		return entity.NewPostedSet()
	}

	return posted
}

// Save replaces the table contents inside one transaction
func (s *SQLStore) Save(ctx context.Context, posted entity.PostedSet) error {
	tx, err := s.db.BeginTx(ctx, nil)

	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}

	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM posted_links`); err != nil {
		return fmt.Errorf("could not clear posted links: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, s.insertStmt)

	if err != nil {
		return fmt.Errorf("could not prepare insert: %w", err)
	}

	defer stmt.Close()

	for _, link := range posted.Sorted() {
		if _, err := stmt.ExecContext(ctx, link); err != nil {
			return fmt.Errorf("could not insert %s: %w", link, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit posted links: %w", err)
	}

	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
