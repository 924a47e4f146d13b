package handlers

import (
	"context"

	"todoService/internal/models/todo"

	"github.com/google/uuid"
)

// TodoRepository реализуют postgres.Storage и inmemory.TodoStorage
type TodoRepository interface {
	HealthCheck(context.Context) error
	List(context.Context, todo.Pagination) ([]*todo.Todo, error)
	GetByID(context.Context, uuid.UUID) (*todo.Todo, error)
	Create(context.Context, todo.CreateRequest) (*todo.Todo, error)
	Update(context.Context, uuid.UUID, todo.UpdateRequest) (*todo.Todo, error)
	Delete(context.Context, uuid.UUID) error
}
