package controllers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/angelmondragon/cartquote-backend/api/responses"
	"github.com/angelmondragon/cartquote-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/cartquote-backend/pkg/errors"
	"github.com/angelmondragon/cartquote-backend/pkg/logger"
)

const readyCheckTimeout = 2 * time.Second

// Pinger is a dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Cart-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every registered dependency. Any failure answers 503 and logs which
// dependency is down.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Cart-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		checks := make(map[string]string, len(names))
		var firstErr error
		for _, name := range names {
			if err := deps[name].Ping(ctx); err != nil {
				checks[name] = "down"
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			checks[name] = "up"
		}

		if firstErr != nil {
			errCtx := r.Context()
			if logg != nil {
				errCtx = logg.WithField(errCtx, "checks", checks)
			}
			responses.WriteError(errCtx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, firstErr, "dependency unavailable"))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
