// Package directory provides read-only access to the host's feeds table, used to check feed ownership.
package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	_ "modernc.org/sqlite" // sqlite driver
)

// DefaultTable is the feeds table of the host
const DefaultTable = "ttrss_feeds"

var reTable = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQL implements feed directory on top of host's database.
// The table has to have id, owner_uid and title columns.
type SQL struct {
	db    *sql.DB
	table string
}

// New makes directory for the given table, empty table means DefaultTable
func New(db *sql.DB, table string) (*SQL, error) {
	if table == "" {
		table = DefaultTable
	}
	if !reTable.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &SQL{db: db, table: table}, nil
}

// Open opens sqlite database of the host read-only
func Open(path, table string) (*SQL, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open db %s: %w", path, err)
	}
	res, err := New(db, table)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return res, nil
}

// FeedExistsAndOwnedBy checks if feed exists and belongs to the user
func (d *SQL) FeedExistsAndOwnedBy(ctx context.Context, feedID, userID int64) (bool, error) {
	var id int64
	q := fmt.Sprintf("SELECT id FROM %s WHERE id = ? AND owner_uid = ?", d.table) // nolint:gosec // table name validated
	err := d.db.QueryRowContext(ctx, q, feedID, userID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("can't query feed %d: %w", feedID, err)
	}
	return true, nil
}

// FeedTitle returns title of the feed, empty if feed not found
func (d *SQL) FeedTitle(ctx context.Context, feedID int64) (string, error) {
	var title string
	q := fmt.Sprintf("SELECT title FROM %s WHERE id = ?", d.table) // nolint:gosec // table name validated
	err := d.db.QueryRowContext(ctx, q, feedID).Scan(&title)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("can't get title of feed %d: %w", feedID, err)
	}
	return title, nil
}

// Close closes underlying db
func (d *SQL) Close() error {
	return d.db.Close()
}
