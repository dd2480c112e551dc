package identity

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// pgRepo persists identity records in a postgres table, upserting per row
// but still honoring the wholesale Load/Save contract.
type pgRepo struct {
	db *sql.DB
}

func NewPostgresRepository(databaseURL string) (Repository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	r := &pgRepo{db: db}
	if err := r.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *pgRepo) ensureSchema(ctx context.Context) error {
	const q = `CREATE TABLE IF NOT EXISTS steam_identities (
		requester_id TEXT PRIMARY KEY,
		steam_id     TEXT NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`
	_, err := r.db.ExecContext(ctx, q)
	return err
}

func (r *pgRepo) Load(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT requester_id, steam_id FROM steam_identities`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make(map[string]string)
	for rows.Next() {
		var requester, steamID string
		if err := rows.Scan(&requester, &steamID); err != nil {
			return nil, err
		}
		records[requester] = steamID
	}
	return records, rows.Err()
}

func (r *pgRepo) Save(ctx context.Context, records map[string]string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM steam_identities`); err != nil {
		return err
	}
	const q = `INSERT INTO steam_identities (requester_id, steam_id, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (requester_id) DO UPDATE SET steam_id = EXCLUDED.steam_id, updated_at = now()`
	for requester, steamID := range records {
		if _, err := tx.ExecContext(ctx, q, requester, steamID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *pgRepo) Close() error {
	return r.db.Close()
}
