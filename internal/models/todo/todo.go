package todo

import (
	"time"

	"github.com/google/uuid"
)

const MaxTitleLength = 200

type Todo struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description" db:"description"`
	Completed   bool      `json:"completed" db:"completed"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// CreateRequest - тело POST /api/v1/todos
type CreateRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// CompletedOrDefault возвращает completed, false если поле не передано
func (r CreateRequest) CompletedOrDefault() bool {
	if r.Completed == nil {
		return false
	}
	return *r.Completed
}

// UpdateRequest - тело PUT /api/v1/todos/{id}.
// Description трёхзначный: не передан / null / строка.
type UpdateRequest struct {
	Title       *string          `json:"title,omitempty" validate:"omitnil,min=1,max=200"`
	Description Optional[string] `json:"description,omitzero"`
	Completed   *bool            `json:"completed,omitempty"`
}

func (r UpdateRequest) IsEmpty() bool {
	return r.Title == nil && !r.Description.Set && r.Completed == nil
}

const (
	DefaultLimit int64 = 100
	MinLimit     int64 = 1
	MaxLimit     int64 = 1000
)

type Pagination struct {
	Skip  int64
	Limit int64
}

// NewPagination подставляет значения по умолчанию и зажимает границы:
// skip не меньше 0, limit в [1, 1000].
func NewPagination(skip, limit *int64) Pagination {
	p := Pagination{Skip: 0, Limit: DefaultLimit}
	if skip != nil && *skip > 0 {
		p.Skip = *skip
	}
	if limit != nil {
		p.Limit = min(max(*limit, MinLimit), MaxLimit)
	}
	return p
}
