package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/travelsmart/backend/services/booking/internal/app"
	"github.com/travelsmart/backend/services/booking/internal/domain"
)

// SeatHolder is the minimal interface needed by the hold endpoints.
type SeatHolder interface {
	AcquireSeats(ctx context.Context, ins []app.AcquireSeatInput) ([]domain.SeatLock, error)
	ReleaseSeat(ctx context.Context, kind domain.InventoryKind, inventoryID, seatID, userID, sessionID string) error
	ReleaseSession(ctx context.Context, userID, sessionID string) (int64, error)
	UserActiveLocks(ctx context.Context, userID, sessionID string) ([]domain.SeatLock, error)
	UnavailableSeats(ctx context.Context, kind domain.InventoryKind, inventoryID string) ([]string, error)
}

// HandleHolds serves POST /holds (acquire a batch of seat holds) and
// GET /holds (list the caller's live holds).
func HandleHolds(svc SeatHolder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := callerID(r)
		if userID == "" {
			writeError(w, http.StatusBadRequest, codeUserRequired, "user id required")
			return
		}

		switch r.Method {
		case http.MethodGet:
			locks, err := svc.UserActiveLocks(r.Context(), userID, r.URL.Query().Get("session_id"))
			if err != nil {
				if err == domain.ErrInvalidID {
					writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
					return
				}
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				return
			}
			resp := make([]seatLockResponse, 0, len(locks))
			for _, lock := range locks {
				resp = append(resp, newSeatLockResponse(lock))
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
			return
		case http.MethodPost:
			var req acquireHoldsRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			if req.SessionID == "" {
				writeError(w, http.StatusBadRequest, codeSessionRequired, "session_id is required")
				return
			}
			if len(req.SeatIDs) == 0 {
				writeError(w, http.StatusBadRequest, codeSeatIDRequired, domain.ErrSeatIDRequired.Error())
				return
			}

			kind, err := domain.ParseInventoryKind(req.InventoryKind)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidKind, err.Error())
				return
			}

			ins := make([]app.AcquireSeatInput, 0, len(req.SeatIDs))
			for _, seatID := range req.SeatIDs {
				ins = append(ins, app.AcquireSeatInput{
					SeatID:        seatID,
					InventoryKind: kind,
					InventoryID:   req.InventoryID,
					UserID:        userID,
					SessionID:     req.SessionID,
					Price:         req.Price,
				})
			}

			locks, err := svc.AcquireSeats(r.Context(), ins)
			if err != nil {
				switch err {
				case domain.ErrSeatIDRequired:
					writeError(w, http.StatusBadRequest, codeSeatIDRequired, err.Error())
				case domain.ErrInvalidID:
					writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
				case domain.ErrSeatAlreadyLocked:
					writeError(w, http.StatusConflict, codeSeatAlreadyLocked, err.Error())
				case domain.ErrSeatAlreadyBooked:
					writeError(w, http.StatusConflict, codeSeatAlreadyBooked, err.Error())
				default:
					writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				}
				return
			}

			resp := make([]seatLockResponse, 0, len(locks))
			for _, lock := range locks {
				resp = append(resp, newSeatLockResponse(lock))
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(resp)
			return
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
	}
}

// HandleReleaseHold serves POST /holds/release for a single seat.
func HandleReleaseHold(svc SeatHolder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		userID := callerID(r)
		if userID == "" {
			writeError(w, http.StatusBadRequest, codeUserRequired, "user id required")
			return
		}

		var req releaseHoldRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		kind, err := domain.ParseInventoryKind(req.InventoryKind)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidKind, err.Error())
			return
		}

		if err := svc.ReleaseSeat(r.Context(), kind, req.InventoryID, req.SeatID, userID, req.SessionID); err != nil {
			if err == domain.ErrInvalidID {
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleReleaseSession serves POST /holds/release-session, dropping every
// hold the session still has.
func HandleReleaseSession(svc SeatHolder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		userID := callerID(r)
		if userID == "" {
			writeError(w, http.StatusBadRequest, codeUserRequired, "user id required")
			return
		}

		var req releaseSessionRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.SessionID == "" {
			writeError(w, http.StatusBadRequest, codeSessionRequired, "session_id is required")
			return
		}

		released, err := svc.ReleaseSession(r.Context(), userID, req.SessionID)
		if err != nil {
			if err == domain.ErrInvalidID {
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(releaseSessionResponse{Released: released})
	}
}

// HandleUnavailableSeats serves GET /seats/unavailable for one inventory item.
func HandleUnavailableSeats(svc SeatHolder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		kind, err := domain.ParseInventoryKind(r.URL.Query().Get("kind"))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidKind, err.Error())
			return
		}
		inventoryID := r.URL.Query().Get("inventory_id")
		if inventoryID == "" {
			writeError(w, http.StatusBadRequest, codeInvalidID, "inventory_id is required")
			return
		}

		seats, err := svc.UnavailableSeats(r.Context(), kind, inventoryID)
		if err != nil {
			if err == domain.ErrInvalidID {
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(unavailableSeatsResponse{SeatIDs: seats})
	}
}

type acquireHoldsRequest struct {
	InventoryKind string   `json:"inventory_kind"`
	InventoryID   string   `json:"inventory_id"`
	SeatIDs       []string `json:"seat_ids"`
	SessionID     string   `json:"session_id"`
	Price         int64    `json:"price"`
}

type releaseHoldRequest struct {
	InventoryKind string `json:"inventory_kind"`
	InventoryID   string `json:"inventory_id"`
	SeatID        string `json:"seat_id"`
	SessionID     string `json:"session_id"`
}

type releaseSessionRequest struct {
	SessionID string `json:"session_id"`
}

type releaseSessionResponse struct {
	Released int64 `json:"released"`
}

type unavailableSeatsResponse struct {
	SeatIDs []string `json:"seat_ids"`
}

type seatLockResponse struct {
	ID            string    `json:"id"`
	SeatID        string    `json:"seat_id"`
	InventoryKind string    `json:"inventory_kind"`
	InventoryID   string    `json:"inventory_id"`
	SessionID     string    `json:"session_id"`
	Price         int64     `json:"price"`
	Status        string    `json:"status"`
	ExpiresAt     time.Time `json:"expires_at"`
}

func newSeatLockResponse(lock domain.SeatLock) seatLockResponse {
	return seatLockResponse{
		ID:            lock.ID,
		SeatID:        lock.SeatID,
		InventoryKind: string(lock.InventoryKind),
		InventoryID:   lock.InventoryID,
		SessionID:     lock.SessionID,
		Price:         lock.Price,
		Status:        string(lock.Status),
		ExpiresAt:     lock.ExpiresAt,
	}
}
