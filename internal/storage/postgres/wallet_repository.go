package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/travelsmart/backend/services/booking/internal/domain"
)

type WalletRepository struct {
	pool *pgxpool.Pool
}

func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{pool: pool}
}

func (r *WalletRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *WalletRepository) GetWalletByUser(ctx context.Context, userID string) (*domain.Wallet, error) {
	return r.getWallet(ctx, userID, false)
}

func (r *WalletRepository) GetWalletByUserForUpdate(ctx context.Context, userID string) (*domain.Wallet, error) {
	return r.getWallet(ctx, userID, true)
}

func (r *WalletRepository) getWallet(ctx context.Context, userID string, forUpdate bool) (*domain.Wallet, error) {
	q := `SELECT id, user_id, balance FROM wallets WHERE user_id = $1`
	if forUpdate {
		q += ` FOR UPDATE`
	}

	var w domain.Wallet
	err := queryRow(ctx, r.pool, q, userID).Scan(&w.ID, &w.UserID, &w.Balance)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet: %w", err)
	}
	return &w, nil
}

// CreateWallet inserts the user's wallet row. A concurrent first use may have
// inserted it already; the conflict is a no-op and the caller re-reads.
func (r *WalletRepository) CreateWallet(ctx context.Context, wallet domain.Wallet) error {
	const stmt = `
INSERT INTO wallets (id, user_id, balance)
VALUES ($1, $2, $3)
ON CONFLICT (user_id) DO NOTHING`

	if _, err := exec(ctx, r.pool, stmt, wallet.ID, wallet.UserID, wallet.Balance); err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create wallet: %w", err)
	}
	return nil
}

func (r *WalletRepository) UpdateWalletBalance(ctx context.Context, walletID string, balance int64) error {
	const stmt = `UPDATE wallets SET balance = $2 WHERE id = $1`

	tag, err := exec(ctx, r.pool, stmt, walletID, balance)
	if err != nil {
		return fmt.Errorf("update wallet balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWalletNotFound
	}
	return nil
}

func (r *WalletRepository) CreateTransaction(ctx context.Context, tx domain.WalletTransaction) error {
	const stmt = `
INSERT INTO wallet_transactions (id, wallet_id, type, amount, description, reference_id, balance_before, balance_after, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := exec(ctx, r.pool, stmt,
		tx.ID,
		tx.WalletID,
		tx.Type,
		tx.Amount,
		tx.Description,
		tx.ReferenceID,
		tx.BalanceBefore,
		tx.BalanceAfter,
		tx.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create wallet transaction: %w", err)
	}
	return nil
}

func (r *WalletRepository) ListTransactions(ctx context.Context, walletID string) ([]domain.WalletTransaction, error) {
	const q = `
SELECT id, wallet_id, type, amount, description, reference_id, balance_before, balance_after, created_at
FROM wallet_transactions
WHERE wallet_id = $1
ORDER BY created_at DESC`

	rows, err := query(ctx, r.pool, q, walletID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list wallet transactions: %w", err)
	}
	defer rows.Close()

	var txs []domain.WalletTransaction
	for rows.Next() {
		var tx domain.WalletTransaction
		if err := rows.Scan(
			&tx.ID,
			&tx.WalletID,
			&tx.Type,
			&tx.Amount,
			&tx.Description,
			&tx.ReferenceID,
			&tx.BalanceBefore,
			&tx.BalanceAfter,
			&tx.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan wallet transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallet transactions: %w", err)
	}
	return txs, nil
}
