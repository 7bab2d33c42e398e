package persist

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JennyZadeh/bioc-rnaseq/experiment"
	"github.com/jmoiron/sqlx"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `CREATE TABLE IF NOT EXISTS snapshots (
	name       TEXT PRIMARY KEY,
	producer   TEXT NOT NULL,
	assay      TEXT NOT NULL,
	n_rows     INTEGER NOT NULL,
	n_columns  INTEGER NOT NULL,
	created_at INTEGER NOT NULL,
	data       BLOB NOT NULL
)`

// SnapshotInfo describes one stored snapshot without its payload.
type SnapshotInfo struct {
	Name      string `db:"name"`
	Producer  string `db:"producer"`
	Assay     string `db:"assay"`
	Rows      int    `db:"n_rows"`
	Columns   int    `db:"n_columns"`
	CreatedAt int64  `db:"created_at"`
}

func (s SnapshotInfo) Created() time.Time {
	return time.Unix(s.CreatedAt, 0).UTC()
}

// Store keeps named snapshots in a SQLite database.
type Store struct {
	DB *sqlx.DB
}

// OpenStore opens or creates the database at path.
func OpenStore(path string) (*Store, error) {
	// URI filenames have to begin with 'file:'; see
	// https://www.sqlite.org/c3ref/open.html
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating snapshot table: %w", err)
	}

	return &Store{DB: db}, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

// Put stores c under name, replacing any earlier snapshot of that name.
func (s *Store) Put(name string, c *experiment.Container) error {
	data, err := Marshal(c)
	if err != nil {
		return err
	}

	r, cols := c.Dims()
	_, err = s.DB.Exec(`INSERT OR REPLACE INTO snapshots (name, producer, assay, n_rows, n_columns, created_at, data) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		name, Producer, c.Assay().Name(), r, cols, time.Now().Unix(), data)
	if err != nil {
		return fmt.Errorf("storing snapshot %q: %w", name, err)
	}

	return nil
}

// Get restores the snapshot stored under name.
func (s *Store) Get(name string) (*experiment.Container, error) {
	var data []byte
	if err := s.DB.Get(&data, `SELECT data FROM snapshots WHERE name = ?`, name); errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	} else if err != nil {
		return nil, err
	}

	return Unmarshal(data)
}

// List describes every stored snapshot, ordered by name.
func (s *Store) List() ([]SnapshotInfo, error) {
	out := make([]SnapshotInfo, 0)
	if err := s.DB.Select(&out, `SELECT name, producer, assay, n_rows, n_columns, created_at FROM snapshots ORDER BY name`); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the snapshot stored under name.
func (s *Store) Delete(name string) error {
	res, err := s.DB.Exec(`DELETE FROM snapshots WHERE name = ?`, name)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}
