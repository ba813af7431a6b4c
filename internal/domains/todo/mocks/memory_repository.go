package mocks

import (
	"context"
	"database/sql/driver"
	"sort"
	"sync"
	"todoapp/internal/domains/todo/model"
	"todoapp/internal/domains/todo/model/dto"
	"todoapp/shared/failure"
	"todoapp/shared/timezone"
)

// MemoryTodo is an in-memory repository.Todo with the same atomicity as the SQL repository.
// Lists are ordered newest first whatever the requested sort.
type MemoryTodo struct {
	mu    sync.Mutex
	seq   int64
	todos map[int64]model.Todo
}

func NewMemoryTodo() *MemoryTodo {
	return &MemoryTodo{todos: map[int64]model.Todo{}}
}

func (f *MemoryTodo) Insert(_ context.Context, todo model.Todo) (model.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	now := timezone.Now()

	todo.ID = f.seq
	todo.CreatedAt, todo.UpdatedAt = now, now
	f.todos[todo.ID] = todo

	return todo, nil
}

func (f *MemoryTodo) Get(_ context.Context, id int64) (model.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	todo, ok := f.todos[id]
	if !ok {
		return model.Todo{}, failure.NotFound("todo not found")
	}

	return todo, nil
}

func (f *MemoryTodo) List(_ context.Context, req dto.ListTodosRequest) ([]model.Todo, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	matched := []model.Todo{}

	for _, todo := range f.todos {
		if req.IsCompleted != nil && todo.IsCompleted != *req.IsCompleted {
			continue
		}

		if req.Priority != nil && todo.Priority != *req.Priority {
			continue
		}

		matched = append(matched, todo)
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	params := req.Params()
	start := min(params.Offset(), len(matched))
	end := min(start+req.PageSize, len(matched))

	return matched[start:end], len(matched), nil
}

func (f *MemoryTodo) Update(_ context.Context, id int64, fields map[string]any) (model.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	todo, ok := f.todos[id]
	if !ok {
		return model.Todo{}, failure.NotFound("todo not found")
	}

	for column, value := range fields {
		switch column {
		case model.FieldTitle:
			todo.Title, _ = value.(string)
		case model.FieldPriority:
			todo.Priority, _ = value.(model.Priority)
		case model.FieldIsCompleted:
			todo.IsCompleted, _ = value.(bool)
		case model.FieldDescription:
			valuer, _ := value.(driver.Valuer)
			raw, _ := valuer.Value()

			if description, isString := raw.(string); isString {
				todo.Description = &description
			} else {
				todo.Description = nil
			}
		}
	}

	todo.UpdatedAt = timezone.Now()
	f.todos[id] = todo

	return todo, nil
}

func (f *MemoryTodo) ToggleCompleted(_ context.Context, id int64) (model.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	todo, ok := f.todos[id]
	if !ok {
		return model.Todo{}, failure.NotFound("todo not found")
	}

	todo.IsCompleted = !todo.IsCompleted
	todo.UpdatedAt = timezone.Now()
	f.todos[id] = todo

	return todo, nil
}

func (f *MemoryTodo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.todos[id]; !ok {
		return failure.NotFound("todo not found")
	}

	delete(f.todos, id)

	return nil
}
