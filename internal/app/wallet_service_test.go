package app

import (
	"context"
	"testing"
	"time"

	"github.com/travelsmart/backend/services/booking/internal/clock"
	"github.com/travelsmart/backend/services/booking/internal/domain"
)

type fakeWalletRepo struct {
	wallets map[string]*domain.Wallet
	txs     []domain.WalletTransaction

	// hideFirstRead makes the first locked read miss, as when another
	// transaction inserts the wallet between the read and the insert.
	hideFirstRead bool
}

func newFakeWalletRepo(wallets ...domain.Wallet) *fakeWalletRepo {
	m := make(map[string]*domain.Wallet, len(wallets))
	for i := range wallets {
		w := wallets[i]
		m[w.UserID] = &w
	}
	return &fakeWalletRepo{wallets: m}
}

func (r *fakeWalletRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (r *fakeWalletRepo) GetWalletByUser(_ context.Context, userID string) (*domain.Wallet, error) {
	w, ok := r.wallets[userID]
	if !ok {
		return nil, nil
	}
	copied := *w
	return &copied, nil
}

func (r *fakeWalletRepo) GetWalletByUserForUpdate(ctx context.Context, userID string) (*domain.Wallet, error) {
	if r.hideFirstRead {
		r.hideFirstRead = false
		return nil, nil
	}
	return r.GetWalletByUser(ctx, userID)
}

func (r *fakeWalletRepo) CreateWallet(_ context.Context, wallet domain.Wallet) error {
	if _, exists := r.wallets[wallet.UserID]; exists {
		return nil
	}
	r.wallets[wallet.UserID] = &wallet
	return nil
}

func (r *fakeWalletRepo) UpdateWalletBalance(_ context.Context, walletID string, balance int64) error {
	for _, w := range r.wallets {
		if w.ID == walletID {
			w.Balance = balance
			return nil
		}
	}
	return domain.ErrWalletNotFound
}

func (r *fakeWalletRepo) CreateTransaction(_ context.Context, tx domain.WalletTransaction) error {
	r.txs = append(r.txs, tx)
	return nil
}

func (r *fakeWalletRepo) ListTransactions(_ context.Context, walletID string) ([]domain.WalletTransaction, error) {
	var out []domain.WalletTransaction
	for i := len(r.txs) - 1; i >= 0; i-- {
		if r.txs[i].WalletID == walletID {
			out = append(out, r.txs[i])
		}
	}
	return out, nil
}

func TestWalletService_Credit(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("creates the wallet on first credit", func(t *testing.T) {
		repo := newFakeWalletRepo()
		svc := NewWalletService(repo, clock.NewFixed(now))

		tx, err := svc.Credit(context.Background(), "user-1", 900, "refund for cancelled booking b1", "b1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if tx.Type != domain.TransactionCredit {
			t.Fatalf("expected credit, got %s", tx.Type)
		}
		if tx.BalanceBefore != 0 || tx.BalanceAfter != 900 {
			t.Fatalf("expected 0 -> 900, got %d -> %d", tx.BalanceBefore, tx.BalanceAfter)
		}

		balance, err := svc.Balance(context.Background(), "user-1")
		if err != nil {
			t.Fatalf("balance: %v", err)
		}
		if balance != 900 {
			t.Fatalf("expected balance 900, got %d", balance)
		}
	})

	t.Run("concurrent first credit falls back to the winner's wallet", func(t *testing.T) {
		repo := newFakeWalletRepo(domain.Wallet{ID: "w1", UserID: "user-1", Balance: 500})
		repo.hideFirstRead = true
		svc := NewWalletService(repo, clock.NewFixed(now))

		tx, err := svc.Credit(context.Background(), "user-1", 900, "", "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if tx.WalletID != "w1" {
			t.Fatalf("expected credit against existing wallet, got %s", tx.WalletID)
		}
		if tx.BalanceBefore != 500 || tx.BalanceAfter != 1400 {
			t.Fatalf("expected 500 -> 1400, got %d -> %d", tx.BalanceBefore, tx.BalanceAfter)
		}
		if len(repo.wallets) != 1 {
			t.Fatalf("expected a single wallet row, got %d", len(repo.wallets))
		}
	})

	t.Run("ledger snapshots are consistent across mutations", func(t *testing.T) {
		repo := newFakeWalletRepo(domain.Wallet{ID: "w1", UserID: "user-1", Balance: 500})
		svc := NewWalletService(repo, clock.NewFixed(now))

		if _, err := svc.Credit(context.Background(), "user-1", 300, "", ""); err != nil {
			t.Fatalf("credit: %v", err)
		}
		debit, err := svc.Debit(context.Background(), "user-1", 200, "", "")
		if err != nil {
			t.Fatalf("debit: %v", err)
		}
		if debit.BalanceBefore != 800 || debit.BalanceAfter != 600 {
			t.Fatalf("expected 800 -> 600, got %d -> %d", debit.BalanceBefore, debit.BalanceAfter)
		}

		txs, err := svc.Transactions(context.Background(), "user-1")
		if err != nil {
			t.Fatalf("transactions: %v", err)
		}
		if len(txs) != 2 {
			t.Fatalf("expected 2 ledger entries, got %d", len(txs))
		}
		// Newest first: each entry's before must equal the next one's after.
		if txs[0].BalanceBefore != txs[1].BalanceAfter {
			t.Fatalf("ledger not contiguous: %d vs %d", txs[0].BalanceBefore, txs[1].BalanceAfter)
		}
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		svc := NewWalletService(newFakeWalletRepo(), clock.NewFixed(now))

		if _, err := svc.Credit(context.Background(), "user-1", 0, "", ""); err != domain.ErrInvalidAmount {
			t.Fatalf("expected ErrInvalidAmount, got %v", err)
		}
		if _, err := svc.Debit(context.Background(), "user-1", -5, "", ""); err != domain.ErrInvalidAmount {
			t.Fatalf("expected ErrInvalidAmount, got %v", err)
		}
	})
}

func TestWalletService_Debit(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("overdraw fails and leaves the balance alone", func(t *testing.T) {
		repo := newFakeWalletRepo(domain.Wallet{ID: "w1", UserID: "user-1", Balance: 100})
		svc := NewWalletService(repo, clock.NewFixed(now))

		if _, err := svc.Debit(context.Background(), "user-1", 200, "", ""); err != domain.ErrInsufficientBalance {
			t.Fatalf("expected ErrInsufficientBalance, got %v", err)
		}
		balance, _ := svc.Balance(context.Background(), "user-1")
		if balance != 100 {
			t.Fatalf("expected balance 100, got %d", balance)
		}
		if len(repo.txs) != 0 {
			t.Fatalf("expected no ledger entry, got %d", len(repo.txs))
		}
	})

	t.Run("debit without a wallet fails", func(t *testing.T) {
		svc := NewWalletService(newFakeWalletRepo(), clock.NewFixed(now))

		if _, err := svc.Debit(context.Background(), "user-1", 50, "", ""); err != domain.ErrWalletNotFound {
			t.Fatalf("expected ErrWalletNotFound, got %v", err)
		}
	})
}

func TestWalletService_BalanceWithoutWallet(t *testing.T) {
	t.Parallel()

	svc := NewWalletService(newFakeWalletRepo(), clock.NewFixed(time.Now()))

	balance, err := svc.Balance(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 0 {
		t.Fatalf("expected zero balance, got %d", balance)
	}

	txs, err := svc.Transactions(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if txs != nil {
		t.Fatalf("expected no transactions, got %v", txs)
	}
}
