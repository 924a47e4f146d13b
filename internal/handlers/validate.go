package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxBodyBytes = 2 << 20

func checkContentType(r *http.Request, target string) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == target
}

// decodeJSON читает тело целиком: лишние данные после объекта тоже синтаксическая ошибка
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) *APIError {
	if !checkContentType(r, "application/json") {
		return &APIError{
			Kind:    KindUnsupportedMediaType,
			Status:  http.StatusUnsupportedMediaType,
			Message: "Content-Type must be application/json",
		}
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &APIError{
				Kind:    KindPayloadTooLarge,
				Status:  http.StatusRequestEntityTooLarge,
				Message: "request body too large",
				cause:   err,
			}
		}
		e := badRequest("invalid JSON body")
		e.cause = err
		return e
	}

	if err := json.Unmarshal(body, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return &APIError{
				Kind:    KindUnprocessableEntity,
				Status:  http.StatusUnprocessableEntity,
				Message: "invalid request body",
				cause:   err,
			}
		}
		e := badRequest("invalid JSON body")
		e.cause = err
		return e
	}
	return nil
}

func parseID(r *http.Request) (uuid.UUID, *APIError) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		e := badRequest("invalid id")
		e.cause = err
		return uuid.Nil, e
	}
	return id, nil
}

// queryInt64 возвращает nil, если параметр не передан или пуст
func queryInt64(r *http.Request, name string) (*int64, *APIError) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		e := badRequest(name + " must be an integer")
		e.cause = err
		return nil, e
	}
	return &v, nil
}
