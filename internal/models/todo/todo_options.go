package todo

type Column string

const (
	ColumnTitle       Column = "title"
	ColumnDescription Column = "description"
	ColumnCompleted   Column = "completed"
)

// Change - одно присваивание в UPDATE. Value равен nil, если колонку нужно очистить.
type Change struct {
	Column Column
	Value  any
}

// Apply применяет изменение к задаче, используется хранилищами без SQL
func (c Change) Apply(t *Todo) {
	switch c.Column {
	case ColumnTitle:
		t.Title = c.Value.(string)
	case ColumnDescription:
		if c.Value == nil {
			t.Description = nil
			return
		}
		description := c.Value.(string)
		t.Description = &description
	case ColumnCompleted:
		t.Completed = c.Value.(bool)
	}
}

// Changes перечисляет только переданные поля в фиксированном порядке колонок
func (r UpdateRequest) Changes() []Change {
	changes := make([]Change, 0, 3)

	if r.Title != nil {
		changes = append(changes, Change{Column: ColumnTitle, Value: *r.Title})
	}
	if r.Description.Set {
		var value any
		if r.Description.Valid {
			value = r.Description.Value
		}
		changes = append(changes, Change{Column: ColumnDescription, Value: value})
	}
	if r.Completed != nil {
		changes = append(changes, Change{Column: ColumnCompleted, Value: *r.Completed})
	}

	return changes
}
