package app

import (
	"context"

	"github.com/travelsmart/backend/services/booking/internal/clock"
	"github.com/travelsmart/backend/services/booking/internal/domain"
)

type WalletRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetWalletByUser(ctx context.Context, userID string) (*domain.Wallet, error)
	GetWalletByUserForUpdate(ctx context.Context, userID string) (*domain.Wallet, error)
	CreateWallet(ctx context.Context, wallet domain.Wallet) error
	UpdateWalletBalance(ctx context.Context, walletID string, balance int64) error
	CreateTransaction(ctx context.Context, tx domain.WalletTransaction) error
	ListTransactions(ctx context.Context, walletID string) ([]domain.WalletTransaction, error)
}

// WalletService maintains per-user balances plus their append-only ledger.
// Every mutation records balance-before/after so the balance can always be
// reconciled against the transaction history.
type WalletService struct {
	repo  WalletRepository
	clock clock.Clock
}

func NewWalletService(repo WalletRepository, clk clock.Clock) *WalletService {
	return &WalletService{
		repo:  repo,
		clock: clk,
	}
}

// Credit adds money to the user's wallet, creating the wallet on first use.
func (s *WalletService) Credit(ctx context.Context, userID string, amount int64, description, referenceID string) (domain.WalletTransaction, error) {
	if amount <= 0 {
		return domain.WalletTransaction{}, domain.ErrInvalidAmount
	}

	var result domain.WalletTransaction
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		wallet, err := s.walletForUpdate(txCtx, userID, true)
		if err != nil {
			return err
		}

		before := wallet.Balance
		wallet.Balance = before + amount
		if err := s.repo.UpdateWalletBalance(txCtx, wallet.ID, wallet.Balance); err != nil {
			return err
		}

		result = domain.WalletTransaction{
			ID:            newID(),
			WalletID:      wallet.ID,
			Type:          domain.TransactionCredit,
			Amount:        amount,
			Description:   description,
			ReferenceID:   referenceID,
			BalanceBefore: before,
			BalanceAfter:  wallet.Balance,
			CreatedAt:     s.clock.Now(),
		}
		return s.repo.CreateTransaction(txCtx, result)
	})
	if err != nil {
		return domain.WalletTransaction{}, err
	}
	return result, nil
}

// Debit removes money from the user's wallet. The balance is never allowed
// to go negative; an overdraw fails with ErrInsufficientBalance.
func (s *WalletService) Debit(ctx context.Context, userID string, amount int64, description, referenceID string) (domain.WalletTransaction, error) {
	if amount <= 0 {
		return domain.WalletTransaction{}, domain.ErrInvalidAmount
	}

	var result domain.WalletTransaction
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		wallet, err := s.walletForUpdate(txCtx, userID, false)
		if err != nil {
			return err
		}
		if wallet.Balance < amount {
			return domain.ErrInsufficientBalance
		}

		before := wallet.Balance
		wallet.Balance = before - amount
		if err := s.repo.UpdateWalletBalance(txCtx, wallet.ID, wallet.Balance); err != nil {
			return err
		}

		result = domain.WalletTransaction{
			ID:            newID(),
			WalletID:      wallet.ID,
			Type:          domain.TransactionDebit,
			Amount:        amount,
			Description:   description,
			ReferenceID:   referenceID,
			BalanceBefore: before,
			BalanceAfter:  wallet.Balance,
			CreatedAt:     s.clock.Now(),
		}
		return s.repo.CreateTransaction(txCtx, result)
	})
	if err != nil {
		return domain.WalletTransaction{}, err
	}
	return result, nil
}

// Balance returns the user's wallet balance; a user without a wallet yet has
// balance zero.
func (s *WalletService) Balance(ctx context.Context, userID string) (int64, error) {
	wallet, err := s.repo.GetWalletByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if wallet == nil {
		return 0, nil
	}
	return wallet.Balance, nil
}

// Transactions returns the user's ledger, newest first.
func (s *WalletService) Transactions(ctx context.Context, userID string) ([]domain.WalletTransaction, error) {
	wallet, err := s.repo.GetWalletByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, nil
	}
	return s.repo.ListTransactions(ctx, wallet.ID)
}

func (s *WalletService) walletForUpdate(ctx context.Context, userID string, createMissing bool) (*domain.Wallet, error) {
	wallet, err := s.repo.GetWalletByUserForUpdate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if wallet != nil {
		return wallet, nil
	}
	if !createMissing {
		return nil, domain.ErrWalletNotFound
	}

	created := domain.Wallet{
		ID:     newID(),
		UserID: userID,
	}
	if err := s.repo.CreateWallet(ctx, created); err != nil {
		return nil, err
	}

	// Two concurrent first credits can both miss the initial read. The
	// loser's insert is a no-op, so the locked re-read picks up whichever
	// row actually landed.
	wallet, err = s.repo.GetWalletByUserForUpdate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, domain.ErrWalletNotFound
	}
	return wallet, nil
}
