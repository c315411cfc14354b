package controllers

import (
	"context"
	"net/http"

	"github.com/lsoria/qrsec-backend/api/responses"
	"github.com/lsoria/qrsec-backend/pkg/config"
	pkgerrors "github.com/lsoria/qrsec-backend/pkg/errors"
	"github.com/lsoria/qrsec-backend/pkg/logger"
)

// Pinger reports whether a backing dependency answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-QRSec-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady answers 200 only when every named dependency pings.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set("X-QRSec-Env", cfg.App.Env)

		checks := map[string]string{}
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				checks[name] = "down"
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" is unreachable"))
				return
			}
			checks[name] = "up"
		}
		checks["status"] = "ready"
		responses.WriteSuccess(w, checks)
	}
}
