package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"todoapp/config"
	"todoapp/infras/metrics"
	"todoapp/infras/otel"
	"todoapp/infras/postgres"
	"todoapp/internal/domains/todo/model"
	"todoapp/internal/domains/todo/model/dto"
	"todoapp/shared"
	"todoapp/shared/constant"
	gRepo "todoapp/shared/repository"
)

var sortExpressions = map[string]string{
	model.FieldCreatedAt: model.TableName + "." + model.FieldCreatedAt,
	model.FieldUpdatedAt: model.TableName + "." + model.FieldUpdatedAt,
	model.FieldPriority:  model.PriorityRankExpression,
}

type Todo interface {
	Insert(ctx context.Context, todo model.Todo) (model.Todo, error)
	Get(ctx context.Context, id int64) (model.Todo, error)
	List(ctx context.Context, req dto.ListTodosRequest) ([]model.Todo, int, error)
	Update(ctx context.Context, id int64, fields map[string]any) (model.Todo, error)
	ToggleCompleted(ctx context.Context, id int64) (model.Todo, error)
	Delete(ctx context.Context, id int64) error
}

type repositoryImpl struct {
	repo gRepo.Repository[model.Todo]
}

func New(db *postgres.Connection, cfg *config.Config, otel otel.Otel, metrics metrics.Metrics) Todo {
	return &repositoryImpl{
		repo: gRepo.NewRepository[model.Todo](model.EntityName, model.TableName, model.FieldID, db, otel, metrics, cfg.QueryTimeout()),
	}
}

func (r *repositoryImpl) Insert(ctx context.Context, todo model.Todo) (model.Todo, error) {
	return r.repo.Insert(ctx, todo)
}

func (r *repositoryImpl) Get(ctx context.Context, id int64) (model.Todo, error) {
	return r.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
}

// List returns one page of todos and the number of todos matching the filter.
func (r *repositoryImpl) List(ctx context.Context, req dto.ListTodosRequest) ([]model.Todo, int, error) {
	params := clamp(req).Params()
	filter := req.Filter()

	total, err := r.repo.Count(ctx, filter)
	if err != nil {
		return []model.Todo{}, 0, err
	}

	if total == 0 || params.Offset() >= total {
		return []model.Todo{}, total, nil
	}

	expression, ok := sortExpressions[params.SortBy]
	if !ok {
		expression = sortExpressions[constant.DefaultValueSortBy]
	}

	todos, err := r.repo.GetAll(ctx, params, filter, gRepo.Ordering{Expression: expression, Direction: params.Order})
	if err != nil {
		return []model.Todo{}, 0, err
	}

	return todos, total, nil
}

func (r *repositoryImpl) Update(ctx context.Context, id int64, fields map[string]any) (model.Todo, error) {
	return r.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName))
}

// ToggleCompleted flips is_completed in a single statement, so concurrent toggles never lose
// an update.
func (r *repositoryImpl) ToggleCompleted(ctx context.Context, id int64) (model.Todo, error) {
	return r.repo.UpdateExpr(ctx,
		map[string]string{model.FieldIsCompleted: "NOT " + model.FieldIsCompleted},
		shared.FilterByID(id, model.FieldID, model.TableName),
	)
}

func (r *repositoryImpl) Delete(ctx context.Context, id int64) error {
	return r.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
}

func clamp(req dto.ListTodosRequest) dto.ListTodosRequest {
	if req.Page < 1 {
		req.Page = constant.DefaultValuePage
	}

	switch {
	case req.PageSize < 1:
		req.PageSize = constant.DefaultValuePageSize
	case req.PageSize > constant.MaxValuePageSize:
		req.PageSize = constant.MaxValuePageSize
	}

	if req.Order != "asc" {
		req.Order = constant.DefaultValueOrder
	}

	return req
}
