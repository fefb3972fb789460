package health

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"

	"github.com/Lelo88/inventory-api/internal/httpx"
)

// WelcomeMessage es el saludo estático de GET /.
const WelcomeMessage = "Welcome to the CRUD App!"

// readyTimeout acota el ping para que /ready no se cuelgue si la DB no responde.
const readyTimeout = 2 * time.Second

// Pinger es lo único que /ready necesita de la base.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler encapsula endpoints de health y el saludo raíz.
type Handler struct {
	database Pinger
}

// New crea un handler de health. database puede ser nil (ready responde 503).
func New(database Pinger) *Handler {
	return &Handler{database: database}
}

// Root maneja GET /.
func (handler *Handler) Root(w http.ResponseWriter, r *http.Request) {
	httpx.OK(w, r, http.StatusOK, map[string]string{
		"message": WelcomeMessage,
	})
}

// Health indica si el proceso está vivo. NO chequea base de datos.
func (handler *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httpx.OK(w, r, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready indica si la app puede atender tráfico (DB alcanzable).
func (handler *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if handler.database == nil {
		httpx.Fail(w, r, http.StatusServiceUnavailable, "not_ready", "database pool not configured")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := handler.database.Ping(ctx); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("readiness ping failed")
		httpx.Fail(w, r, http.StatusServiceUnavailable, "not_ready", "database is not reachable")
		return
	}

	httpx.OK(w, r, http.StatusOK, map[string]any{
		"status": "ready",
	})
}
