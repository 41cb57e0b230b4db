package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/amishk599/internscout/internal/model"
)

var _ model.Ledger = (*SQLiteLedger)(nil)

// SQLiteLedger keeps notified opportunity IDs in a SQLite database.
type SQLiteLedger struct {
	db *sql.DB
}

// NewSQLiteLedger opens (or creates) a SQLite database at dbPath and ensures the
// sent_opportunities table exists.
func NewSQLiteLedger(dbPath string) (*SQLiteLedger, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS sent_opportunities (
		seq     INTEGER PRIMARY KEY AUTOINCREMENT,
		id      TEXT NOT NULL UNIQUE,
		sent_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating sent_opportunities table: %w", err)
	}

	return &SQLiteLedger{db: db}, nil
}

// Load returns every recorded ID in insertion order.
func (s *SQLiteLedger) Load() ([]string, error) {
	rows, err := s.db.Query("SELECT id FROM sent_opportunities ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning ledger row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ledger: %w", err)
	}
	return ids, nil
}

// Append records ids in one transaction. IDs already present are ignored.
func (s *SQLiteLedger) Append(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin ledger append: %w", err)
	}
	for _, id := range ids {
		if _, err := tx.Exec("INSERT OR IGNORE INTO sent_opportunities (id) VALUES (?)", id); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording %s as sent: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ledger append: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteLedger) Close() error {
	return s.db.Close()
}
