package docs

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /docs/ (Swagger UI) y /docs/openapi.yaml.
// Rutas planas: un Route("/docs") pisaría el redirect de /docs.
func RegisterRoutes(router chi.Router) {
	router.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs/", http.StatusMovedPermanently)
	})
	router.Get("/docs/", SwaggerUIHandler())
	router.Get("/docs/openapi.yaml", OpenAPIHandler())
}
