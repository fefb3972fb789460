package httpx

import (
	"encoding/json"
	"net/http"
	"time"
)

// Response es el sobre que se usa para errores.
// Las respuestas exitosas van "desnudas" (item o lista) porque el frontend las consume así.
type Response struct {
	Error *ErrorBody `json:"error,omitempty"`
	Meta  *Meta      `json:"meta,omitempty"`
}

// Meta contiene información adicional útil para debugging y trazabilidad.
type Meta struct {
	RequestID string `json:"request_id,omitempty"`
	TimeUTC   string `json:"time_utc,omitempty"`
}

// ErrorBody describe un error de forma estructurada.
// No exponer detalles internos (SQL, stacktrace, etc.) en producción.
type ErrorBody struct {
	Code    string       `json:"code,omitempty"`    // ej: "validation_error", "not_found"
	Message string       `json:"message,omitempty"` // mensaje para humanos
	Details []FieldError `json:"details,omitempty"`
}

// FieldError señala qué campo del payload falló y con qué regla.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// JSON escribe cualquier valor como JSON con headers correctos.
// Nota: en caso de error de encodeo, responde 500 de forma segura.
func JSON(w http.ResponseWriter, status int, body any) {
	payload, err := json.Marshal(body)
	if err != nil {
		// Último recurso: no se pudo serializar JSON.
		http.Error(w, `{"error":{"code":"internal","message":"internal server error"}}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(payload, '\n'))
}

// OK devuelve una respuesta exitosa con data.
func OK(w http.ResponseWriter, r *http.Request, status int, data any) {
	if requestID := RequestIDFrom(r); requestID != "" {
		w.Header().Set(RequestIDHeader, requestID)
	}
	JSON(w, status, data)
}

// Fail devuelve un error estructurado.
func Fail(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	FailWithDetails(w, r, status, code, message, nil)
}

// FailWithDetails es Fail con el detalle de campos inválidos.
func FailWithDetails(w http.ResponseWriter, r *http.Request, status int, code, message string, details []FieldError) {
	JSON(w, status, Response{
		Error: &ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
		Meta: &Meta{
			RequestID: RequestIDFrom(r),
			TimeUTC:   time.Now().UTC().Format(time.RFC3339),
		},
	})
}
