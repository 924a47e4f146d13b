package postgres

import (
	"fmt"
	"strings"

	"todoService/internal/models/todo"
	repo "todoService/internal/repository"

	"github.com/google/uuid"
)

const returningColumns = "id, title, description, completed, created_at, updated_at"

// имена колонок берутся только отсюда, значения всегда идут параметрами
var updatableColumns = map[todo.Column]string{
	todo.ColumnTitle:       "title",
	todo.ColumnDescription: "description",
	todo.ColumnCompleted:   "completed",
}

// GREATEST гарантирует строгий рост updated_at даже при совпадении NOW()
const touchUpdatedAt = "updated_at = GREATEST(NOW(), updated_at + INTERVAL '1 microsecond')"

func buildUpdateQuery(id uuid.UUID, changes []todo.Change) (string, []any, error) {
	if len(changes) == 0 {
		return "", nil, repo.ErrNoFieldsToUpdate
	}

	var sb strings.Builder
	args := make([]any, 0, len(changes)+1)

	sb.WriteString("UPDATE todos SET ")
	for _, change := range changes {
		column, ok := updatableColumns[change.Column]
		if !ok {
			return "", nil, fmt.Errorf("колонка %q не обновляется", change.Column)
		}
		args = append(args, change.Value)
		fmt.Fprintf(&sb, "%s = $%d, ", column, len(args))
	}
	sb.WriteString(touchUpdatedAt)

	args = append(args, id)
	fmt.Fprintf(&sb, " WHERE id = $%d RETURNING %s", len(args), returningColumns)

	return sb.String(), args, nil
}
