package controllers

import (
	"context"
	"net/http"

	"github.com/vendstack/kiosk-backend/api/responses"
	"github.com/vendstack/kiosk-backend/internal/machine"
	pkgerrors "github.com/vendstack/kiosk-backend/pkg/errors"
	"github.com/vendstack/kiosk-backend/pkg/logger"
)

// CatalogService lists the storefront products proxied from the vending
// backend.
type CatalogService interface {
	CatalogProducts(ctx context.Context) ([]machine.Product, error)
}

// CatalogProducts serves the storefront catalog the kiosk grid renders from.
func CatalogProducts(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		products, err := svc.CatalogProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if products == nil {
			products = []machine.Product{}
		}

		responses.WriteSuccess(w, products)
	}
}
