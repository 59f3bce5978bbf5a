package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/Chiki-tella/safesave/internal/database"
)

// SQLite persists slots in a single sqlite table. Keys are stored
// under a namespace prefix so several groups can share one database
// file, matching the key prefix the original storage layout used.
type SQLite struct {
	db       *sql.DB
	ns       string
	notifier *Notifier
	log      *zap.Logger
}

// NewSQLite wraps an opened database. notifier may be nil when no one
// subscribes to changes (one-shot tools, some tests).
func NewSQLite(db *sql.DB, namespace string, notifier *Notifier, log *zap.Logger) *SQLite {
	if log == nil {
		log = zap.NewNop()
	}
	return &SQLite{db: db, ns: namespace, notifier: notifier, log: log}
}

func (s *SQLite) Read(ctx context.Context, key string) (json.RawMessage, uint64, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT value, version FROM slots WHERE key = ?`, s.ns+key)
	var value string
	var version uint64
	if err := row.Scan(&value, &version); err != nil {
		if err == sql.ErrNoRows {
			return nil, 0, nil
		}
		return nil, 0, err
	}
	return json.RawMessage(value), version, nil
}

func (s *SQLite) Write(ctx context.Context, key string, value json.RawMessage, version uint64) error {
	err := database.WithTx(s.db, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx,
			`SELECT version FROM slots WHERE key = ?`, s.ns+key)
		var current uint64
		switch err := row.Scan(&current); err {
		case nil:
		case sql.ErrNoRows:
			current = 0
		default:
			return err
		}
		if current != version {
			return fmt.Errorf("slot %s at v%d, caller read v%d: %w",
				key, current, version, ErrVersionConflict)
		}
		_, err := tx.ExecContext(ctx, `
		INSERT INTO slots(key, value, version, updated_at)
		VALUES (?, ?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET
		 value=excluded.value,
		 version=excluded.version,
		 updated_at=excluded.updated_at;
		`, s.ns+key, string(value), version+1)
		return err
	})
	if err != nil {
		return err
	}
	if s.notifier != nil {
		s.notifier.Announce(key)
	}
	return nil
}

// Reset wipes every slot in this namespace. The schema stays intact so
// the application can keep running against an empty group.
func (s *SQLite) Reset(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM slots WHERE key LIKE ? || '%'`, s.ns)
	return err
}
