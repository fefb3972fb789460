package items

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/Lelo88/inventory-api/internal/httpx"
)

// maxBodyBytes acota el payload; un item entra holgado.
const maxBodyBytes = 1 << 20

// DeletedMessage es la confirmación de DELETE /items/{id}.
const DeletedMessage = "Item deleted successfully"

// ServiceAPI define lo que el handler necesita.
// Permite testear handlers con stubs sin tocar DB.
type ServiceAPI interface {
	Create(ctx context.Context, in CreateItemInput) (Item, error)
	List(ctx context.Context) ([]Item, error)
	Get(ctx context.Context, id int64) (Item, error)
	Update(ctx context.Context, id int64, in UpdateItemInput) (Item, error)
	Delete(ctx context.Context, id int64) error
}

// Handler HTTP para items.
// Solo traduce HTTP <-> dominio (service): decodifica, valida y serializa.
type Handler struct {
	service   ServiceAPI
	validator *Validator
}

// NewHandler crea un handler de items.
func NewHandler(service ServiceAPI) *Handler {
	return &Handler{service: service, validator: NewValidator()}
}

// Create maneja POST /items/.
func (handler *Handler) Create(writer http.ResponseWriter, request *http.Request) {
	var itemInput CreateItemInput
	if !handler.decode(writer, request, &itemInput) {
		return
	}

	item, err := handler.service.Create(request.Context(), itemInput)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	httpx.OK(writer, request, http.StatusOK, item)
}

// List maneja GET /items/. Sin paginación: devuelve todo.
func (handler *Handler) List(writer http.ResponseWriter, request *http.Request) {
	items, err := handler.service.List(request.Context())
	if err != nil {
		handler.fail(writer, request, err)
		return
	}
	if items == nil {
		items = []Item{}
	}

	httpx.OK(writer, request, http.StatusOK, items)
}

// GetByID maneja GET /items/{id}.
func (handler *Handler) GetByID(writer http.ResponseWriter, request *http.Request) {
	id, ok := parseID(writer, request)
	if !ok {
		return
	}

	item, err := handler.service.Get(request.Context(), id)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	httpx.OK(writer, request, http.StatusOK, item)
}

// Update maneja PUT /items/{id}. Todos los campos del body son opcionales.
func (handler *Handler) Update(writer http.ResponseWriter, request *http.Request) {
	id, ok := parseID(writer, request)
	if !ok {
		return
	}

	var payload UpdateItemPayload
	if !handler.decode(writer, request, &payload) {
		return
	}

	item, err := handler.service.Update(request.Context(), id, payload.Input())
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	httpx.OK(writer, request, http.StatusOK, item)
}

// Delete maneja DELETE /items/{id}.
// El storage borra sin chequear existencia, así que el 404 sale de un Get previo.
func (handler *Handler) Delete(writer http.ResponseWriter, request *http.Request) {
	id, ok := parseID(writer, request)
	if !ok {
		return
	}

	if _, err := handler.service.Get(request.Context(), id); err != nil {
		handler.fail(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), id); err != nil {
		handler.fail(writer, request, err)
		return
	}

	httpx.OK(writer, request, http.StatusOK, map[string]string{"message": DeletedMessage})
}

// parseID valida que {id} sea un entero; la columna es integer.
func parseID(writer http.ResponseWriter, request *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(request, "id"), 10, 64)
	if err != nil {
		httpx.FailWithDetails(writer, request, http.StatusUnprocessableEntity, "invalid_id", "id must be an integer",
			[]httpx.FieldError{{Field: "id", Rule: "integer"}})
		return 0, false
	}
	return id, true
}

// decode lee el body JSON rechazando campos desconocidos y luego valida el schema.
// Si falla, ya escribió la respuesta.
func (handler *Handler) decode(writer http.ResponseWriter, request *http.Request, target any) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(writer, request.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(target); err != nil {
		writeDecodeError(writer, request, err)
		return false
	}
	// Un segundo valor JSON después del objeto también es un body inválido.
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		httpx.Fail(writer, request, http.StatusUnprocessableEntity, "invalid_json", "request body must contain a single JSON object")
		return false
	}

	if err := handler.validator.Struct(target); err != nil {
		handler.fail(writer, request, err)
		return false
	}
	return true
}

func writeDecodeError(writer http.ResponseWriter, request *http.Request, err error) {
	var typeError *json.UnmarshalTypeError
	var maxBytesError *http.MaxBytesError

	switch {
	case errors.As(err, &maxBytesError):
		httpx.Fail(writer, request, http.StatusRequestEntityTooLarge, "body_too_large",
			fmt.Sprintf("request body must not exceed %d bytes", maxBytesError.Limit))
	case errors.As(err, &typeError):
		httpx.FailWithDetails(writer, request, http.StatusUnprocessableEntity, "invalid_json", "invalid JSON body",
			[]httpx.FieldError{{Field: typeError.Field, Rule: "type"}})
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		httpx.FailWithDetails(writer, request, http.StatusUnprocessableEntity, "invalid_json", "invalid JSON body",
			[]httpx.FieldError{{Field: field, Rule: "unknown"}})
	default:
		httpx.Fail(writer, request, http.StatusUnprocessableEntity, "invalid_json", "invalid JSON body")
	}
}

// fail traduce errores de dominio a HTTP. Lo que no es de dominio es un 500 y se loguea.
func (handler *Handler) fail(writer http.ResponseWriter, request *http.Request, err error) {
	var validationError *ValidationError

	switch {
	case errors.As(err, &validationError):
		httpx.FailWithDetails(writer, request, http.StatusUnprocessableEntity, "validation_error", "invalid request body", validationError.Fields)
	case errors.Is(err, ErrorInvalidInput):
		httpx.Fail(writer, request, http.StatusUnprocessableEntity, "invalid_input", "invalid input data")
	case errors.Is(err, ErrorNotFound):
		httpx.Fail(writer, request, http.StatusNotFound, "not_found", "Item not found")
	default:
		hlog.FromRequest(request).Error().Err(err).Str("path", request.URL.Path).Msg("items storage error")
		// No filtramos detalles internos.
		httpx.Fail(writer, request, http.StatusInternalServerError, "internal_error", "unexpected error")
	}
}
