package kiosk

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vendstack/kiosk-backend/api/responses"
	"github.com/vendstack/kiosk-backend/api/validators"
	"github.com/vendstack/kiosk-backend/internal/cart"
	kiosksvc "github.com/vendstack/kiosk-backend/internal/kiosk"
	pkgerrors "github.com/vendstack/kiosk-backend/pkg/errors"
	"github.com/vendstack/kiosk-backend/pkg/logger"
)

// Registry is the session surface the handlers resolve against.
type Registry interface {
	Create() *kiosksvc.Session
	Get(id string) (*kiosksvc.Session, error)
	Remove(id string)
}

// CreateSession opens a new kiosk session and returns its initial snapshot.
func CreateSession(registry Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if registry == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session registry unavailable"))
			return
		}
		session := registry.Create()
		if logg != nil {
			logg.Info(logg.WithSessionID(r.Context(), session.ID), "session.created")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, session.Snapshot())
	}
}

// GetSession returns the full state snapshot the kiosk UI renders from.
func GetSession(registry Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := resolveSession(registry, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session.Snapshot())
	}
}

// DeleteSession drops the session and cancels its timers.
func DeleteSession(registry Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := resolveSession(registry, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		registry.Remove(session.ID)
		responses.WriteSuccess(w, map[string]string{"status": "closed"})
	}
}

// AddCartItem merges a catalog product into the cart.
func AddCartItem(registry Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := resolveSession(registry, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload AddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !payload.Price.IsPositive() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive"))
			return
		}

		session.AddToCart(cart.Item{
			ID:       payload.ProductID,
			Name:     payload.Name,
			Price:    payload.Price,
			Quantity: payload.Quantity,
		})
		responses.WriteSuccess(w, session.Snapshot())
	}
}

// IncrementCartItem raises a line quantity by one.
func IncrementCartItem(registry Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := resolveSession(registry, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		session.IncrementQuantity(chi.URLParam(r, "productId"))
		responses.WriteSuccess(w, session.Snapshot())
	}
}

// DecrementCartItem lowers a line quantity by one, removing the line at zero.
func DecrementCartItem(registry Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := resolveSession(registry, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		session.DecrementQuantity(chi.URLParam(r, "productId"))
		responses.WriteSuccess(w, session.Snapshot())
	}
}

// UpdateCartItem sets a line quantity directly.
func UpdateCartItem(registry Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := resolveSession(registry, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload UpdateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session.UpdateQuantity(chi.URLParam(r, "productId"), payload.Quantity)
		responses.WriteSuccess(w, session.Snapshot())
	}
}

// RemoveCartItem drops a line from the cart.
func RemoveCartItem(registry Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := resolveSession(registry, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		session.RemoveFromCart(chi.URLParam(r, "productId"))
		responses.WriteSuccess(w, session.Snapshot())
	}
}

// ClearCart empties the cart outside of a payment attempt.
func ClearCart(registry Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := resolveSession(registry, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := session.ClearCart(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session.Snapshot())
	}
}

// Checkout opens the payment modal and starts tendering.
func Checkout(registry Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := resolveSession(registry, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := session.Checkout(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session.Snapshot())
	}
}

// InsertTender records denomination units being tapped in.
func InsertTender(registry Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := resolveSession(registry, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload TenderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := session.InsertTender(payload.Denomination, payload.Count); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session.Snapshot())
	}
}

// DeductTender takes back denomination units from the tray.
func DeductTender(registry Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := resolveSession(registry, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload TenderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := session.DeductTender(payload.Denomination, payload.Count); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session.Snapshot())
	}
}

// Pay submits the purchase to the vending backend. A rejection comes back as
// a 402 carrying the backend's message; the session keeps the tender so the
// user can top up and retry.
func Pay(registry Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := resolveSession(registry, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, err := session.Pay(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, session.Snapshot())
	}
}

// CancelPayment abandons the tender and closes the payment modal.
func CancelPayment(registry Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := resolveSession(registry, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := session.CancelPayment(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session.Snapshot())
	}
}

// DismissReceipt closes the change modal before the countdown expires.
func DismissReceipt(registry Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := resolveSession(registry, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := session.DismissReceipt(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session.Snapshot())
	}
}

// UpdateTabs stores the submenu selections for the catalog and money views.
func UpdateTabs(registry Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := resolveSession(registry, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload TabsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if payload.Catalog != "" {
			session.SetCatalogTab(payload.Catalog)
		}
		if payload.Money != "" {
			session.SetMoneyTab(payload.Money)
		}
		responses.WriteSuccess(w, session.Snapshot())
	}
}

func resolveSession(registry Registry, r *http.Request) (*kiosksvc.Session, error) {
	if registry == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session registry unavailable")
	}
	sessionID := chi.URLParam(r, "sessionId")
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}
	return registry.Get(sessionID)
}
