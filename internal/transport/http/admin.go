package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/travelsmart/backend/services/booking/internal/app"
	"github.com/travelsmart/backend/services/booking/internal/domain"
)

// AdminCatalogService is the minimal interface needed by the inventory admin
// endpoints.
type AdminCatalogService interface {
	CreateItem(ctx context.Context, in app.CreateItemInput) (domain.InventoryItem, error)
	ListItems(ctx context.Context, kind domain.InventoryKind) ([]domain.InventoryItem, error)
}

// HandleAdminInventory serves /admin/inventory/{kind} for creating and
// listing inventory items of one kind.
func HandleAdminInventory(svc AdminCatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawKind, ok := parseAdminInventoryPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		kind, err := domain.ParseInventoryKind(rawKind)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidKind, err.Error())
			return
		}

		switch r.Method {
		case http.MethodGet:
			items, err := svc.ListItems(r.Context(), kind)
			if err != nil {
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				return
			}
			resp := make([]inventoryItemResponse, 0, len(items))
			for _, item := range items {
				resp = append(resp, newInventoryItemResponse(item))
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
			return
		case http.MethodPost:
			var req createItemRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			if req.Label == "" {
				writeError(w, http.StatusBadRequest, codeLabelRequired, "label is required")
				return
			}
			if req.Capacity <= 0 {
				writeError(w, http.StatusBadRequest, codeInvalidCapacity, "capacity must be positive")
				return
			}
			if req.UnitPrice < 0 {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "unit_price must not be negative")
				return
			}

			var departsAt *time.Time
			if req.DepartsAt != "" {
				parsed, err := time.Parse(time.RFC3339, req.DepartsAt)
				if err != nil {
					writeError(w, http.StatusBadRequest, codeInvalidDepartsAt, "invalid departs_at format")
					return
				}
				departsAt = &parsed
			}

			item, err := svc.CreateItem(r.Context(), app.CreateItemInput{
				Kind:      kind,
				Label:     req.Label,
				Capacity:  req.Capacity,
				UnitPrice: req.UnitPrice,
				DepartsAt: departsAt,
			})
			if err != nil {
				switch err {
				case domain.ErrInvalidKind:
					writeError(w, http.StatusBadRequest, codeInvalidKind, err.Error())
				case domain.ErrLabelRequired:
					writeError(w, http.StatusBadRequest, codeLabelRequired, err.Error())
				case domain.ErrInvalidQuantity:
					writeError(w, http.StatusBadRequest, codeInvalidCapacity, err.Error())
				default:
					writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				}
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(newInventoryItemResponse(item))
			return
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
	}
}

type createItemRequest struct {
	Label     string `json:"label"`
	Capacity  int    `json:"capacity"`
	UnitPrice int64  `json:"unit_price"`
	DepartsAt string `json:"departs_at,omitempty"`
}

type inventoryItemResponse struct {
	ID            string    `json:"id"`
	Kind          string    `json:"kind"`
	Label         string    `json:"label"`
	TotalCapacity int       `json:"total_capacity"`
	Available     int       `json:"available"`
	UnitPrice     int64     `json:"unit_price"`
	DepartsAt     time.Time `json:"departs_at"`
}

func newInventoryItemResponse(item domain.InventoryItem) inventoryItemResponse {
	return inventoryItemResponse{
		ID:            item.ID,
		Kind:          string(item.Kind),
		Label:         item.Label,
		TotalCapacity: item.TotalCapacity,
		Available:     item.Available,
		UnitPrice:     item.UnitPrice,
		DepartsAt:     item.DepartsAt,
	}
}

func parseAdminInventoryPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 {
		return "", false
	}
	if parts[0] != "admin" || parts[1] != "inventory" {
		return "", false
	}
	if parts[2] == "" {
		return "", false
	}
	return parts[2], true
}
