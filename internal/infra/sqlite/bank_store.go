package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // driver: sqlite

	"sentence-quiz/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS question_banks (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL DEFAULT '',
  data TEXT NOT NULL,
  updated_at INTEGER NOT NULL DEFAULT (strftime('%s','now'))
);`

// BankStore keeps question banks as JSON text in a SQLite file, for
// single-machine deployments without Postgres.
type BankStore struct {
	db *sql.DB
}

// Open opens the database at dsn and ensures the schema exists.
func Open(ctx context.Context, dsn string) (*BankStore, error) {
	if dsn == "" {
		dsn = "file:sentence-quiz.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &BankStore{db: db}, nil
}

func (s *BankStore) Close() error {
	return s.db.Close()
}

func (s *BankStore) LoadBank(ctx context.Context, bankID string) (domain.Bank, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM question_banks WHERE id = ?`, bankID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Bank{}, domain.ErrBankNotFound
	}
	if err != nil {
		return domain.Bank{}, fmt.Errorf("load bank: %w", err)
	}
	var bank domain.Bank
	if err := json.Unmarshal([]byte(raw), &bank); err != nil {
		return domain.Bank{}, fmt.Errorf("unmarshal bank: %w", err)
	}
	return bank, nil
}

// SaveBank upserts a bank by ID.
func (s *BankStore) SaveBank(ctx context.Context, bank domain.Bank) error {
	data, err := json.Marshal(bank)
	if err != nil {
		return fmt.Errorf("marshal bank: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO question_banks (id, title, data, updated_at)
		VALUES (?, ?, ?, strftime('%s','now'))
		ON CONFLICT(id) DO UPDATE SET title=excluded.title, data=excluded.data, updated_at=excluded.updated_at`,
		bank.ID, bank.Title, string(data))
	if err != nil {
		return fmt.Errorf("save bank: %w", err)
	}
	return nil
}
