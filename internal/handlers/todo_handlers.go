package handlers

import (
	"net/http"
	"strings"
	"time"

	"todoService/internal/logger"
	"todoService/internal/models/todo"
	"todoService/internal/validator"

	"go.uber.org/zap"
)

type TodoHandler struct {
	repo        TodoRepository
	validator   *validator.Validator
	serviceName string
}

func NewTodoHandler(repo TodoRepository, serviceName string) *TodoHandler {
	return &TodoHandler{
		repo:        repo,
		validator:   validator.New(),
		serviceName: serviceName,
	}
}

// HealthCheck не ходит в хранилище, для этого есть Readiness
func (h *TodoHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	responseWithJSON(w, http.StatusOK, object(
		toPayload("status", "healthy"),
		toPayload("service", h.serviceName),
	))
}

func (h *TodoHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: Хранилище недоступно", err, zap.String("client_ip", r.RemoteAddr))
		responseWithJSON(w, http.StatusServiceUnavailable, object(
			toPayload("status", "unavailable"),
			toPayload("service", h.serviceName),
		))
		return
	}

	responseWithJSON(w, http.StatusOK, object(
		toPayload("status", "ready"),
		toPayload("service", h.serviceName),
	))
}

func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	skip, apiErr := queryInt64(r, "skip")
	if apiErr != nil {
		writeError(w, r, apiErr, zap.String("query", "skip"))
		return
	}
	limit, apiErr := queryInt64(r, "limit")
	if apiErr != nil {
		writeError(w, r, apiErr, zap.String("query", "limit"))
		return
	}

	page := todo.NewPagination(skip, limit)
	todos, err := h.repo.List(r.Context(), page)
	if err != nil {
		writeError(w, r, fromRepositoryError(err), zap.String("operation", "list_todos"))
		return
	}

	logger.Info("HTTP: Задачи получены",
		zap.Int64("skip", page.Skip),
		zap.Int64("limit", page.Limit),
		zap.Int("count", len(todos)),
		zap.Duration("ms", time.Since(start)))

	responseWithJSON(w, http.StatusOK, todos)
}

func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var request todo.CreateRequest
	if apiErr := decodeJSON(w, r, &request); apiErr != nil {
		writeError(w, r, apiErr, zap.String("operation", "create_todo"))
		return
	}

	request.Title = strings.TrimSpace(request.Title)
	if err := h.validator.Validate(request); err != nil {
		writeError(w, r, badRequest(err.Error()), zap.String("operation", "create_todo"))
		return
	}

	created, err := h.repo.Create(r.Context(), request)
	if err != nil {
		writeError(w, r, fromRepositoryError(err), zap.String("operation", "create_todo"))
		return
	}

	logger.Info("HTTP: Задача создана",
		zap.String("todo_id", created.ID.String()),
		zap.Duration("ms", time.Since(start)))

	responseWithJSON(w, http.StatusCreated, created)
}

func (h *TodoHandler) GetTodo(w http.ResponseWriter, r *http.Request) {
	id, apiErr := parseID(r)
	if apiErr != nil {
		writeError(w, r, apiErr, zap.String("operation", "get_todo"))
		return
	}

	item, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, fromRepositoryError(err),
			zap.String("operation", "get_todo"),
			zap.String("todo_id", id.String()))
		return
	}

	responseWithJSON(w, http.StatusOK, item)
}

func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, apiErr := parseID(r)
	if apiErr != nil {
		writeError(w, r, apiErr, zap.String("operation", "update_todo"))
		return
	}

	var request todo.UpdateRequest
	if apiErr := decodeJSON(w, r, &request); apiErr != nil {
		writeError(w, r, apiErr, zap.String("operation", "update_todo"))
		return
	}

	if request.Title != nil {
		trimmed := strings.TrimSpace(*request.Title)
		request.Title = &trimmed
	}

	// хранилище проверяет то же самое, но до него запрос не доходит
	if request.IsEmpty() {
		writeError(w, r, noFieldsToUpdate(), zap.String("todo_id", id.String()))
		return
	}

	if err := h.validator.Validate(request); err != nil {
		writeError(w, r, badRequest(err.Error()), zap.String("todo_id", id.String()))
		return
	}

	updated, err := h.repo.Update(r.Context(), id, request)
	if err != nil {
		writeError(w, r, fromRepositoryError(err),
			zap.String("operation", "update_todo"),
			zap.String("todo_id", id.String()))
		return
	}

	logger.Info("HTTP: Задача обновлена",
		zap.String("todo_id", id.String()),
		zap.Int("fields", len(request.Changes())),
		zap.Duration("ms", time.Since(start)))

	responseWithJSON(w, http.StatusOK, updated)
}

func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, apiErr := parseID(r)
	if apiErr != nil {
		writeError(w, r, apiErr, zap.String("operation", "delete_todo"))
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		writeError(w, r, fromRepositoryError(err),
			zap.String("operation", "delete_todo"),
			zap.String("todo_id", id.String()))
		return
	}

	logger.Info("HTTP: Задача удалена", zap.String("todo_id", id.String()))
	responseNoContent(w)
}
