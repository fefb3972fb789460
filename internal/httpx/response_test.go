package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJSON_Success(t *testing.T) {
	rec := httptest.NewRecorder()

	JSON(rec, http.StatusCreated, map[string]any{"id": 1})

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"id":1}`, rec.Body.String())
}

func TestJSON_EncodeError(t *testing.T) {
	rec := httptest.NewRecorder()

	JSON(rec, http.StatusTeapot, map[string]any{"fn": func() {}})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "internal server error")
}

func TestOK(t *testing.T) {
	t.Run("object body is not wrapped", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "req-123")

		OK(rec, req, http.StatusOK, map[string]any{"message": "hi"})

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
		require.JSONEq(t, `{"message":"hi"}`, rec.Body.String())
	})

	t.Run("empty slice stays an array", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		OK(rec, req, http.StatusOK, []int{})

		require.JSONEq(t, `[]`, rec.Body.String())
		require.Empty(t, rec.Header().Get(RequestIDHeader))
	})
}

func TestFail(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-456")

	Fail(rec, req, http.StatusNotFound, "not_found", "Item not found")

	require.Equal(t, http.StatusNotFound, rec.Code)

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	require.Equal(t, "not_found", resp.Error.Code)
	require.Equal(t, "Item not found", resp.Error.Message)
	require.Empty(t, resp.Error.Details)
	require.NotNil(t, resp.Meta)
	require.Equal(t, "req-456", resp.Meta.RequestID)
	_, err := time.Parse(time.RFC3339, resp.Meta.TimeUTC)
	require.NoError(t, err)
}

func TestFailWithDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/items/", nil)

	FailWithDetails(rec, req, http.StatusUnprocessableEntity, "validation_error", "invalid request body", []FieldError{
		{Field: "name", Rule: "max"},
		{Field: "price", Rule: "required"},
	})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	resp := decodeResponse(t, rec)
	require.Equal(t, "validation_error", resp.Error.Code)
	require.Equal(t, []FieldError{{Field: "name", Rule: "max"}, {Field: "price", Rule: "required"}}, resp.Error.Details)
}

func decodeResponse(t *testing.T, recorder *httptest.ResponseRecorder) Response {
	t.Helper()

	var response Response
	decoder := json.NewDecoder(bytes.NewReader(recorder.Body.Bytes()))
	decoder.UseNumber()
	require.NoError(t, decoder.Decode(&response))
	return response
}
