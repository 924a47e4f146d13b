package handlers

import (
	"errors"
	"net/http"

	"todoService/internal/logger"
	repo "todoService/internal/repository"

	"go.uber.org/zap"
)

type ErrorKind string

const (
	KindBadRequest           ErrorKind = "BAD_REQUEST"
	KindNotFound             ErrorKind = "NOT_FOUND"
	KindNoFieldsToUpdate     ErrorKind = "NO_FIELDS_TO_UPDATE"
	KindUnsupportedMediaType ErrorKind = "UNSUPPORTED_MEDIA_TYPE"
	KindUnprocessableEntity  ErrorKind = "UNPROCESSABLE_ENTITY"
	KindPayloadTooLarge      ErrorKind = "PAYLOAD_TOO_LARGE"
	KindStoreFailure         ErrorKind = "STORE_FAILURE"
)

// APIError - всё, что handler может вернуть клиенту. Message уходит в тело как есть.
type APIError struct {
	Kind    ErrorKind
	Status  int
	Message string
	cause   error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.cause
}

func badRequest(message string) *APIError {
	return &APIError{Kind: KindBadRequest, Status: http.StatusBadRequest, Message: message}
}

func noFieldsToUpdate() *APIError {
	return &APIError{Kind: KindNoFieldsToUpdate, Status: http.StatusBadRequest, Message: "no fields to update"}
}

// fromRepositoryError - единственное место, где ошибки хранилища превращаются в HTTP
func fromRepositoryError(err error) *APIError {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return &APIError{Kind: KindNotFound, Status: http.StatusNotFound, Message: "not found", cause: err}
	case errors.Is(err, repo.ErrNoFieldsToUpdate):
		e := noFieldsToUpdate()
		e.cause = err
		return e
	default:
		// причина только в лог, клиенту общий текст
		return &APIError{Kind: KindStoreFailure, Status: http.StatusInternalServerError, Message: "internal server error", cause: err}
	}
}

func writeError(w http.ResponseWriter, r *http.Request, apiErr *APIError, fields ...zap.Field) {
	fields = append(fields,
		zap.String("error_kind", string(apiErr.Kind)),
		zap.Int("http_status", apiErr.Status),
		zap.String("client_ip", r.RemoteAddr))

	if apiErr.Kind == KindStoreFailure {
		logger.Error("HTTP: Ошибка хранилища", apiErr.cause, fields...)
	} else {
		logger.Warn("HTTP: Запрос отклонён", append(fields, zap.String("message", apiErr.Message))...)
	}

	responseWithError(w, apiErr.Status, apiErr.Message)
}
