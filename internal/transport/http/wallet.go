package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/travelsmart/backend/services/booking/internal/domain"
)

// WalletReader is the minimal interface needed by the wallet endpoints.
type WalletReader interface {
	Balance(ctx context.Context, userID string) (int64, error)
	Transactions(ctx context.Context, userID string) ([]domain.WalletTransaction, error)
}

// HandleWallet serves GET /wallet with the caller's balance.
func HandleWallet(svc WalletReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		userID := callerID(r)
		if userID == "" {
			writeError(w, http.StatusBadRequest, codeUserRequired, "user id required")
			return
		}

		balance, err := svc.Balance(r.Context(), userID)
		if err != nil {
			if err == domain.ErrInvalidID {
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(walletResponse{Balance: balance})
	}
}

// HandleWalletTransactions serves GET /wallet/transactions, newest first.
func HandleWalletTransactions(svc WalletReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		userID := callerID(r)
		if userID == "" {
			writeError(w, http.StatusBadRequest, codeUserRequired, "user id required")
			return
		}

		txs, err := svc.Transactions(r.Context(), userID)
		if err != nil {
			if err == domain.ErrInvalidID {
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		resp := make([]walletTransactionResponse, 0, len(txs))
		for _, tx := range txs {
			resp = append(resp, walletTransactionResponse{
				ID:            tx.ID,
				Type:          string(tx.Type),
				Amount:        tx.Amount,
				Description:   tx.Description,
				ReferenceID:   tx.ReferenceID,
				BalanceBefore: tx.BalanceBefore,
				BalanceAfter:  tx.BalanceAfter,
				CreatedAt:     tx.CreatedAt,
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

type walletResponse struct {
	Balance int64 `json:"balance"`
}

type walletTransactionResponse struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	Amount        int64     `json:"amount"`
	Description   string    `json:"description,omitempty"`
	ReferenceID   string    `json:"reference_id,omitempty"`
	BalanceBefore int64     `json:"balance_before"`
	BalanceAfter  int64     `json:"balance_after"`
	CreatedAt     time.Time `json:"created_at"`
}
