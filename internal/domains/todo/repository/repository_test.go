package repository_test

import (
	"context"
	"database/sql"
	"math"
	"regexp"
	"testing"
	"time"
	"todoapp/config"
	metricsMocks "todoapp/infras/metrics/mocks"
	"todoapp/infras/otel/mocks"
	"todoapp/infras/postgres"
	"todoapp/internal/domains/todo/model"
	"todoapp/internal/domains/todo/model/dto"
	"todoapp/internal/domains/todo/repository"
	"todoapp/shared/failure"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var todoColumns = []string{"id", "title", "description", "is_completed", "priority", "created_at", "updated_at"}

func newRepository(t *testing.T) (repository.Todo, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	sqlxDB := sqlx.NewDb(db, "postgres")
	conn := &postgres.Connection{Read: sqlxDB, Write: sqlxDB}

	cfg := &config.Config{}
	cfg.DB.Postgres.QueryTimeoutSeconds = 5

	return repository.New(conn, cfg, mocks.NewOtel(), metricsMocks.NewMetrics()), mock
}

func todoRow(rows *sqlmock.Rows, id int64, title string, completed bool, priority string) *sqlmock.Rows {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	return rows.AddRow(id, title, nil, completed, priority, now, now)
}

func TestTodoRepository_Insert(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO todos (title, description, is_completed, priority) VALUES ($1, $2, $3, $4) RETURNING")).
		ExpectQuery().
		WithArgs("Buy milk", nil, false, model.PriorityMedium).
		WillReturnRows(todoRow(sqlmock.NewRows(todoColumns), 1, "Buy milk", false, "medium"))

	todo, err := repo.Insert(context.Background(), model.Todo{Title: "Buy milk", Priority: model.PriorityMedium})

	require.NoError(t, err)
	assert.Equal(t, int64(1), todo.ID)
	assert.Equal(t, model.PriorityMedium, todo.Priority)
	assert.Nil(t, todo.Description)
	assert.Equal(t, todo.CreatedAt, todo.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_InsertCheckViolation(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectPrepare("INSERT INTO todos").
		ExpectQuery().
		WillReturnError(&pq.Error{Code: "23514", Message: "violates check constraint"})

	_, err := repo.Insert(context.Background(), model.Todo{Title: "x", Priority: "urgent"})

	require.Error(t, err)
	assert.Equal(t, failure.KindValidation, failure.GetKind(err))
}

func TestTodoRepository_Get(t *testing.T) {
	repo, mock := newRepository(t)

	query := regexp.QuoteMeta("SELECT todos.id, todos.title, todos.description, todos.is_completed, todos.priority, todos.created_at, todos.updated_at FROM todos")

	mock.ExpectPrepare(query).
		ExpectQuery().
		WithArgs(int64(7)).
		WillReturnRows(todoRow(sqlmock.NewRows(todoColumns), 7, "Read", true, "high"))

	todo, err := repo.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), todo.ID)
	assert.True(t, todo.IsCompleted)

	mock.ExpectPrepare(query).
		ExpectQuery().
		WithArgs(int64(8)).
		WillReturnError(sql.ErrNoRows)

	_, err = repo.Get(context.Background(), 8)
	assert.True(t, failure.IsNotFound(err))
	assert.Equal(t, "todo not found", failure.GetMessage(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_GetUnavailable(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectPrepare("SELECT").
		ExpectQuery().
		WillReturnError(context.DeadlineExceeded)

	_, err := repo.Get(context.Background(), 1)
	assert.True(t, failure.IsUnavailable(err))
}

func TestTodoRepository_List(t *testing.T) {
	repo, mock := newRepository(t)

	completed := false
	priority := model.PriorityHigh

	req := dto.ListTodosRequest{
		Page:        2,
		PageSize:    2,
		SortBy:      model.FieldPriority,
		Order:       "asc",
		IsCompleted: &completed,
		Priority:    &priority,
	}

	mock.ExpectPrepare(regexp.QuoteMeta("SELECT COUNT(todos.id) FROM todos")).
		ExpectQuery().
		WithArgs(false, "high").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	mock.ExpectPrepare(regexp.QuoteMeta("ORDER BY "+model.PriorityRankExpression+" ASC, todos.id ASC LIMIT $3 OFFSET $4")).
		ExpectQuery().
		WithArgs(false, "high", 2, 2).
		WillReturnRows(todoRow(sqlmock.NewRows(todoColumns), 3, "third", false, "high"))

	todos, total, err := repo.List(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, todos, 1)
	assert.Equal(t, int64(3), todos[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_ListPastLastPage(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectPrepare("SELECT COUNT").
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	todos, total, err := repo.List(context.Background(), dto.ListTodosRequest{
		Page: 5, PageSize: 20, SortBy: model.FieldCreatedAt, Order: "desc",
	})

	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.NotNil(t, todos)
	assert.Empty(t, todos)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_ListHugePage(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectPrepare("SELECT COUNT").
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	todos, total, err := repo.List(context.Background(), dto.ListTodosRequest{
		Page: math.MaxInt64 / 50, PageSize: 100, SortBy: model.FieldCreatedAt, Order: "desc",
	})

	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Empty(t, todos)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_ListClampsPageSize(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectPrepare("SELECT COUNT").
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectPrepare(regexp.QuoteMeta("ORDER BY todos.created_at DESC, todos.id DESC LIMIT $1 OFFSET $2")).
		ExpectQuery().
		WithArgs(100, 0).
		WillReturnRows(todoRow(sqlmock.NewRows(todoColumns), 1, "only", false, "low"))

	todos, _, err := repo.List(context.Background(), dto.ListTodosRequest{PageSize: 500, SortBy: "unknown"})

	require.NoError(t, err)
	assert.Len(t, todos, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_Update(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectPrepare(regexp.QuoteMeta("UPDATE todos SET priority = $1, title = $2")).
		ExpectQuery().
		WithArgs("low", "renamed", int64(4)).
		WillReturnRows(todoRow(sqlmock.NewRows(todoColumns), 4, "renamed", false, "low"))

	todo, err := repo.Update(context.Background(), 4, map[string]any{
		model.FieldTitle:    "renamed",
		model.FieldPriority: "low",
	})

	require.NoError(t, err)
	assert.Equal(t, "renamed", todo.Title)

	mock.ExpectPrepare("UPDATE todos").
		ExpectQuery().
		WillReturnError(sql.ErrNoRows)

	_, err = repo.Update(context.Background(), 5, map[string]any{model.FieldTitle: "x"})
	assert.True(t, failure.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_ToggleCompleted(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectPrepare(regexp.QuoteMeta("UPDATE todos SET is_completed = NOT is_completed")).
		ExpectQuery().
		WithArgs(int64(2)).
		WillReturnRows(todoRow(sqlmock.NewRows(todoColumns), 2, "flip", true, "medium"))

	todo, err := repo.ToggleCompleted(context.Background(), 2)

	require.NoError(t, err)
	assert.True(t, todo.IsCompleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_Delete(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM todos")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 3))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM todos")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 3)
	assert.True(t, failure.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
