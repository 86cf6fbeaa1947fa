package repository

import (
	"context"
	"errors"
	"fmt"

	"pickem/domain/entities"

	"github.com/jackc/pgx/v5"
)

const accountColumns = `id, display_name, balance, lifetime_participations, current_streak, longest_streak, created_at, updated_at`

// AccountRepository implements interfaces.AccountRepository
type AccountRepository struct {
	q Queryable
}

// NewAccountRepository creates a new account repository over a pool or transaction
func NewAccountRepository(q Queryable) *AccountRepository {
	return &AccountRepository{q: q}
}

func scanAccount(row pgx.Row) (*entities.Account, error) {
	var a entities.Account
	err := row.Scan(
		&a.ID,
		&a.DisplayName,
		&a.Balance,
		&a.LifetimeParticipations,
		&a.CurrentStreak,
		&a.LongestStreak,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByID retrieves an account by id
func (r *AccountRepository) GetByID(ctx context.Context, accountID string) (*entities.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(r.q.QueryRow(ctx, query, accountID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", accountID, err)
	}
	return account, nil
}

// GetByIDForUpdate retrieves an account and holds its row lock until the transaction ends
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, accountID string) (*entities.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`

	account, err := scanAccount(r.q.QueryRow(ctx, query, accountID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock account %s: %w", accountID, err)
	}
	return account, nil
}

// Create inserts an account with a zero balance. An existing account is returned
// unchanged apart from a non-empty display name.
func (r *AccountRepository) Create(ctx context.Context, accountID, displayName string) (*entities.Account, error) {
	query := `
		INSERT INTO accounts (id, display_name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET
			display_name = CASE WHEN EXCLUDED.display_name <> '' THEN EXCLUDED.display_name ELSE accounts.display_name END,
			updated_at = NOW()
		RETURNING ` + accountColumns

	account, err := scanAccount(r.q.QueryRow(ctx, query, accountID, displayName))
	if err != nil {
		return nil, fmt.Errorf("failed to create account %s: %w", accountID, err)
	}
	return account, nil
}

// UpdateBalance writes a new balance
func (r *AccountRepository) UpdateBalance(ctx context.Context, accountID string, newBalance int64) error {
	query := `UPDATE accounts SET balance = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.q.Exec(ctx, query, accountID, newBalance)
	if err != nil {
		return fmt.Errorf("failed to update balance for %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %s not found", accountID)
	}
	return nil
}

// IncrementParticipations bumps the lifetime participation counter
func (r *AccountRepository) IncrementParticipations(ctx context.Context, accountID string) error {
	query := `
		UPDATE accounts
		SET lifetime_participations = lifetime_participations + 1, updated_at = NOW()
		WHERE id = $1
	`
	if _, err := r.q.Exec(ctx, query, accountID); err != nil {
		return fmt.Errorf("failed to increment participations for %s: %w", accountID, err)
	}
	return nil
}

// GetDisplayNames returns display names keyed by account id; unknown ids are omitted
func (r *AccountRepository) GetDisplayNames(ctx context.Context, accountIDs []string) (map[string]string, error) {
	names := make(map[string]string, len(accountIDs))
	if len(accountIDs) == 0 {
		return names, nil
	}

	rows, err := r.q.Query(ctx, `SELECT id, display_name FROM accounts WHERE id = ANY($1)`, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query display names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan display name: %w", err)
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating display names: %w", err)
	}
	return names, nil
}
