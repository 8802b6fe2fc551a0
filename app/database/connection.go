package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DB wraps the sqlx handle shared by all repositories. SQLite in WAL mode
// gives us a single writer with concurrent readers, which matches the
// application's write topology: the ingestion pipeline owns posts/subjects,
// the archiver owns subject_days.
type DB struct {
	*sqlx.DB
}

// NewConnection opens (and creates if necessary) the SQLite database at path.
// The _time_format option makes the driver store time.Time values in a format
// SQLite's own date functions can read back.
func NewConnection(path string) (*DB, error) {
	dsn := path + "?_time_format=sqlite&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database %s: %w", path, err)
	}

	return &DB{db}, nil
}
