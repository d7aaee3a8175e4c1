package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"absubmit/internal/services"
)

// Store manages catalog persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the catalog database.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, services.Wrap(services.ErrConfiguration, "library", "open", "database path is empty", nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Add inserts item, or updates the row with the same path. Empty fields on
// an update keep their stored values, so re-importing a directory does not
// clear tags set with SetField.
func (s *Store) Add(ctx context.Context, item Item) (*Item, error) {
	path := strings.TrimSpace(item.Path)
	if path == "" {
		return nil, services.Wrap(services.ErrValidation, "library", "add", "item path is empty", nil)
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO items (
            path, format, mb_trackid, mood_acoustic, artist, title, album, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(path) DO UPDATE SET
            format = COALESCE(NULLIF(excluded.format, ''), items.format),
            mb_trackid = COALESCE(NULLIF(excluded.mb_trackid, ''), items.mb_trackid),
            mood_acoustic = COALESCE(NULLIF(excluded.mood_acoustic, ''), items.mood_acoustic),
            artist = COALESCE(NULLIF(excluded.artist, ''), items.artist),
            title = COALESCE(NULLIF(excluded.title, ''), items.title),
            album = COALESCE(NULLIF(excluded.album, ''), items.album),
            updated_at = excluded.updated_at`,
		path,
		strings.ToLower(strings.TrimSpace(item.Format)),
		strings.TrimSpace(item.MBTrackID),
		strings.TrimSpace(item.MoodAcoustic),
		strings.TrimSpace(item.Artist),
		strings.TrimSpace(item.Title),
		strings.TrimSpace(item.Album),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert item: %w", err)
	}
	return s.GetByPath(ctx, path)
}

// GetByID fetches an item by row id. It returns nil, nil when no row matches.
func (s *Store) GetByID(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// GetByPath fetches an item by file path. It returns nil, nil when no row matches.
func (s *Store) GetByPath(ctx context.Context, path string) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE path = ?`, path)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item by path: %w", err)
	}
	return item, nil
}

// List returns every item in insertion order.
func (s *Store) List(ctx context.Context) ([]*Item, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

// SetField changes one editable field of the item with the given id.
func (s *Store) SetField(ctx context.Context, id int64, field, value string) (*Item, error) {
	field = strings.ToLower(strings.TrimSpace(field))
	if !slices.Contains(EditableFields(), field) {
		return nil, services.Wrap(services.ErrValidation, "library", "set field",
			fmt.Sprintf("unknown field %q (editable: %s)", field, strings.Join(EditableFields(), ", ")), nil)
	}
	value = strings.TrimSpace(value)
	if field == FieldFormat {
		value = strings.ToLower(value)
	}

	// field is checked against EditableFields above, which are column names.
	res, err := s.db.ExecContext(ctx,
		`UPDATE items SET `+field+` = ?, updated_at = ? WHERE id = ?`,
		value, time.Now().UTC().Format(time.RFC3339Nano), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", field, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, services.Wrap(services.ErrNotFound, "library", "set field", fmt.Sprintf("item %d", id), nil)
	}
	return s.GetByID(ctx, id)
}
