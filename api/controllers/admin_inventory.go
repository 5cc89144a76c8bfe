package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/vendstack/kiosk-backend/api/responses"
	"github.com/vendstack/kiosk-backend/api/validators"
	"github.com/vendstack/kiosk-backend/internal/machine"
	pkgerrors "github.com/vendstack/kiosk-backend/pkg/errors"
	"github.com/vendstack/kiosk-backend/pkg/logger"
	"github.com/vendstack/kiosk-backend/pkg/pagination"
)

// AdminInventoryService is the back-office denomination stock surface.
type AdminInventoryService interface {
	ListInventory(ctx context.Context, params pagination.Params) ([]machine.InventoryItem, error)
	GetInventory(ctx context.Context, id string) (*machine.InventoryItem, error)
	CreateInventory(ctx context.Context, input machine.InventoryInput) (*machine.InventoryItem, error)
	UpdateInventory(ctx context.Context, id string, input machine.InventoryInput) (*machine.InventoryItem, error)
	DeleteInventory(ctx context.Context, id string) error
}

type inventoryPayload struct {
	Type         string          `json:"type" validate:"required,oneof=coin banknote"`
	Denomination decimal.Decimal `json:"denomination"`
	Quantity     int             `json:"quantity" validate:"gte=0"`
}

func (p inventoryPayload) toInput() machine.InventoryInput {
	return machine.InventoryInput{
		Type:         p.Type,
		Denomination: p.Denomination,
		Quantity:     p.Quantity,
	}
}

func AdminListInventory(svc AdminInventoryService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := paginationFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.ListInventory(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if items == nil {
			items = []machine.InventoryItem{}
		}
		responses.WriteSuccess(w, items)
	}
}

func AdminGetInventory(svc AdminInventoryService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := svc.GetInventory(r.Context(), chi.URLParam(r, "inventoryId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func AdminCreateInventory(svc AdminInventoryService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload inventoryPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !payload.Denomination.IsPositive() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "denomination must be positive"))
			return
		}

		item, err := svc.CreateInventory(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

func AdminUpdateInventory(svc AdminInventoryService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload inventoryPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !payload.Denomination.IsPositive() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "denomination must be positive"))
			return
		}

		item, err := svc.UpdateInventory(r.Context(), chi.URLParam(r, "inventoryId"), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func AdminDeleteInventory(svc AdminInventoryService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteInventory(r.Context(), chi.URLParam(r, "inventoryId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
