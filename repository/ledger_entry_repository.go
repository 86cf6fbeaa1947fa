package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"pickem/domain/entities"

	"github.com/jackc/pgx/v5"
)

const ledgerColumns = `id, account_id, idempotency_key, amount, source, from_balance, to_balance, metadata, created_at`

// LedgerEntryRepository implements interfaces.LedgerEntryRepository
type LedgerEntryRepository struct {
	q Queryable
}

// NewLedgerEntryRepository creates a new ledger entry repository over a pool or transaction
func NewLedgerEntryRepository(q Queryable) *LedgerEntryRepository {
	return &LedgerEntryRepository{q: q}
}

func scanLedgerEntry(row pgx.Row) (*entities.LedgerEntry, error) {
	var e entities.LedgerEntry
	var metadata []byte
	err := row.Scan(
		&e.ID,
		&e.AccountID,
		&e.IdempotencyKey,
		&e.Amount,
		&e.Source,
		&e.FromBalance,
		&e.ToBalance,
		&metadata,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &e.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode ledger metadata: %w", err)
		}
	}
	return &e, nil
}

// GetByIdempotencyKey returns the entry recorded under a key
func (r *LedgerEntryRepository) GetByIdempotencyKey(ctx context.Context, key string) (*entities.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE idempotency_key = $1`

	entry, err := scanLedgerEntry(r.q.QueryRow(ctx, query, key))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entry %q: %w", key, err)
	}
	return entry, nil
}

// Create inserts an entry; a taken key inserts nothing and returns false
func (r *LedgerEntryRepository) Create(ctx context.Context, entry *entities.LedgerEntry) (bool, error) {
	metadata, err := json.Marshal(entry.Metadata)
	if err != nil {
		return false, fmt.Errorf("failed to encode ledger metadata: %w", err)
	}
	if entry.Metadata == nil {
		metadata = []byte("{}")
	}

	query := `
		INSERT INTO ledger_entries (account_id, idempotency_key, amount, source, from_balance, to_balance, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (idempotency_key) DO NOTHING
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		entry.AccountID,
		entry.IdempotencyKey,
		entry.Amount,
		entry.Source,
		entry.FromBalance,
		entry.ToBalance,
		string(metadata),
	).Scan(&entry.ID, &entry.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to insert ledger entry %q: %w", entry.IdempotencyKey, err)
	}
	return true, nil
}

// GetByAccount returns an account's most recent entries, newest first
func (r *LedgerEntryRepository) GetByAccount(ctx context.Context, accountID string, limit int) ([]*entities.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*entities.LedgerEntry
	for rows.Next() {
		entry, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entries: %w", err)
	}
	return entries, nil
}

// SumByAccount returns the sum of all of an account's entry amounts
func (r *LedgerEntryRepository) SumByAccount(ctx context.Context, accountID string) (int64, error) {
	var sum int64
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0)::BIGINT FROM ledger_entries WHERE account_id = $1`,
		accountID,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum ledger entries for %s: %w", accountID, err)
	}
	return sum, nil
}

// CountByKeyPrefix counts an account's entries of one source whose key starts with prefix
func (r *LedgerEntryRepository) CountByKeyPrefix(ctx context.Context, accountID string, source entities.LedgerSource, prefix string) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM ledger_entries
		WHERE account_id = $1 AND source = $2 AND idempotency_key LIKE $3 ESCAPE '\'
	`

	var count int64
	if err := r.q.QueryRow(ctx, query, accountID, source, escapeLike(prefix)+"%").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count ledger entries: %w", err)
	}
	return count, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
