package controllers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/multierr"

	"github.com/vendstack/kiosk-backend/api/responses"
	"github.com/vendstack/kiosk-backend/pkg/config"
	pkgerrors "github.com/vendstack/kiosk-backend/pkg/errors"
	"github.com/vendstack/kiosk-backend/pkg/logger"
)

const readinessTimeout = 5 * time.Second

// Pinger is the probe surface a dependency exposes to the readiness check.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-VendKiosk-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness only when every dependency answers a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, redisP, machineP Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-VendKiosk-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		var err error
		checks := map[string]string{}

		if redisP != nil {
			if pingErr := redisP.Ping(ctx); pingErr != nil {
				checks["redis"] = "down"
				err = multierr.Append(err, pingErr)
			} else {
				checks["redis"] = "up"
			}
		}
		if machineP != nil {
			if pingErr := machineP.Ping(ctx); pingErr != nil {
				checks["machine"] = "down"
				err = multierr.Append(err, pingErr)
			} else {
				checks["machine"] = "up"
			}
		}

		if err != nil {
			responses.WriteError(ctx, logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "dependencies unavailable").
					WithDetails(checks))
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
