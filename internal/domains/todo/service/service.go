package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Todo=MockService

import (
	"context"
	"fmt"
	"time"
	"todoapp/config"
	"todoapp/infras/metrics"
	"todoapp/infras/otel"
	"todoapp/internal/domains/todo/event"
	"todoapp/internal/domains/todo/model/dto"
	"todoapp/internal/domains/todo/repository"
	"todoapp/shared"
	"todoapp/shared/cache"
	"todoapp/shared/constant"
	"todoapp/shared/failure"
	"todoapp/shared/logger"
)

const (
	cacheKeyTodo        = "todo"
	cacheKeyList        = "todo:list"
	cacheKeyListVersion = "todo:list:version"

	cacheKindTodo = "todo"
	cacheKindList = "todo_list"
)

const (
	operationCreate = "create"
	operationList   = "list"
	operationGet    = "get"
	operationUpdate = "update"
	operationDelete = "delete"
	operationToggle = "toggle"
)

var errEmptyUpdate = failure.BadRequestFromString("at least one field must be provided")

type Todo interface {
	Create(ctx context.Context, req dto.CreateTodoRequest) (dto.TodoResponse, error)
	List(ctx context.Context, req dto.ListTodosRequest) (dto.ListTodosResponse, error)
	Get(ctx context.Context, id int64) (dto.TodoResponse, error)
	Update(ctx context.Context, id int64, req dto.UpdateTodoRequest) (dto.TodoResponse, error)
	Delete(ctx context.Context, id int64) error
	ToggleComplete(ctx context.Context, id int64) (dto.TodoResponse, error)
}

type serviceImpl struct {
	repo      repository.Todo
	cfg       *config.Config
	cache     cache.Cache
	otel      otel.Otel
	metrics   metrics.Metrics
	publisher event.Publisher
}

func New(repo repository.Todo, cfg *config.Config, cache cache.Cache, otel otel.Otel, metrics metrics.Metrics, publisher event.Publisher) Todo {
	return &serviceImpl{
		repo:      repo,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
		metrics:   metrics,
		publisher: publisher,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateTodoRequest) (res dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer s.observe(operationCreate, time.Now(), &err)
	defer func() { scope.TraceIfError(err) }()

	todo, err := s.repo.Insert(ctx, req.ToModel())
	if err != nil {
		s.logFailure(ctx, err, "failed to create todo")

		return res, fmt.Errorf("failed to create todo: %w", err)
	}

	res.FromModel(todo)
	scope.SetAttribute("todo.id", todo.ID)

	s.invalidate(ctx, 0)
	s.publisher.Publish(ctx, event.NewTodoEvent(event.TypeCreated, todo.ID, &res))

	logger.Ctx(ctx).Info().Int64("todo_id", todo.ID).Msg("todo created")

	return res, nil
}

func (s *serviceImpl) List(ctx context.Context, req dto.ListTodosRequest) (res dto.ListTodosResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".List")
	defer scope.End()
	defer s.observe(operationList, time.Now(), &err)
	defer func() { scope.TraceIfError(err) }()

	version, cacheable := s.listVersion(ctx)
	cacheKey := constant.Empty

	if cacheable {
		cacheKey = shared.BuildCacheKey(cacheKeyList, req.Fingerprint(version))

		if s.fromCache(ctx, cacheKey, cacheKindList, &res) {
			return res, nil
		}
	}

	todos, total, err := s.repo.List(ctx, req)
	if err != nil {
		s.logFailure(ctx, err, "failed to list todos")

		return dto.ListTodosResponse{}, fmt.Errorf("failed to list todos: %w", err)
	}

	res.FromModels(todos, total, req.Page, req.PageSize)

	if cacheable {
		s.toCache(ctx, cacheKey, res, s.cfg.Cache.ListTTL)
	}

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id int64) (res dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer s.observe(operationGet, time.Now(), &err)
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute("todo.id", id)
	cacheKey := shared.BuildCacheKey(cacheKeyTodo, id)

	if s.fromCache(ctx, cacheKey, cacheKindTodo, &res) {
		return res, nil
	}

	// The list version doubles as a write epoch: a write that lands between the database
	// read and the save bumps it, and the entry is dropped again.
	version, cacheable := s.listVersion(ctx)

	todo, err := s.repo.Get(ctx, id)
	if err != nil {
		s.logFailure(ctx, err, "failed to get todo")

		return res, fmt.Errorf("failed to get todo: %w", err)
	}

	res.FromModel(todo)

	if cacheable {
		s.toCache(ctx, cacheKey, res, s.cfg.Cache.TTL)

		if current, ok := s.listVersion(ctx); !ok || current != version {
			s.evict(ctx, id)
		}
	}

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, id int64, req dto.UpdateTodoRequest) (res dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer s.observe(operationUpdate, time.Now(), &err)
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute("todo.id", id)

	if req.IsEmpty() {
		return res, errEmptyUpdate
	}

	todo, err := s.repo.Update(ctx, id, shared.TransformFields(req))
	if err != nil {
		s.logFailure(ctx, err, "failed to update todo")

		return res, fmt.Errorf("failed to update todo: %w", err)
	}

	res.FromModel(todo)

	s.invalidate(ctx, id)
	s.publisher.Publish(ctx, event.NewTodoEvent(event.TypeUpdated, id, &res))

	logger.Ctx(ctx).Info().Int64("todo_id", id).Msg("todo updated")

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer s.observe(operationDelete, time.Now(), &err)
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute("todo.id", id)

	if err = s.repo.Delete(ctx, id); err != nil {
		s.logFailure(ctx, err, "failed to delete todo")

		return fmt.Errorf("failed to delete todo: %w", err)
	}

	s.invalidate(ctx, id)
	s.publisher.Publish(ctx, event.NewTodoEvent(event.TypeDeleted, id, nil))

	logger.Ctx(ctx).Info().Int64("todo_id", id).Msg("todo deleted")

	return nil
}

// ToggleComplete flips the completion flag atomically in the store.
func (s *serviceImpl) ToggleComplete(ctx context.Context, id int64) (res dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ToggleComplete")
	defer scope.End()
	defer s.observe(operationToggle, time.Now(), &err)
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute("todo.id", id)

	todo, err := s.repo.ToggleCompleted(ctx, id)
	if err != nil {
		s.logFailure(ctx, err, "failed to toggle todo")

		return res, fmt.Errorf("failed to toggle todo: %w", err)
	}

	res.FromModel(todo)

	s.invalidate(ctx, id)
	s.publisher.Publish(ctx, event.NewTodoEvent(event.ToggleType(todo.IsCompleted), id, &res))

	logger.Ctx(ctx).Info().Int64("todo_id", id).Bool("is_completed", todo.IsCompleted).Msg("todo toggled")

	return res, nil
}

func (s *serviceImpl) observe(operation string, start time.Time, err *error) {
	s.metrics.ObserveOperation(operation, outcome(*err), time.Since(start))
}

func (s *serviceImpl) logFailure(ctx context.Context, err error, msg string) {
	if failure.GetCode(err) >= 500 {
		logger.Ctx(ctx).Error().Err(err).Msg(msg)

		return
	}

	logger.Ctx(ctx).Info().Err(err).Msg(msg)
}

// fromCache reads key into value. Any cache error is treated as a miss.
func (s *serviceImpl) fromCache(ctx context.Context, key, kind string, value any) bool {
	err := s.cache.Get(ctx, key, value)
	if err == nil {
		s.metrics.CacheHit(kind)
		logger.Ctx(ctx).Debug().Str("cacheKey", key).Msg("cache hit")

		return true
	}

	s.metrics.CacheMiss(kind)

	if !cache.IsMiss(err) {
		logger.Ctx(ctx).Warn().Err(err).Str("cacheKey", key).Msg("cache read failed, falling back to database")
	}

	return false
}

func (s *serviceImpl) toCache(ctx context.Context, key string, value any, ttl int) {
	if err := s.cache.Save(ctx, key, value, ttl); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("cacheKey", key).Msg("failed to save to cache")
	}
}

// listVersion returns the current list version. A missing counter is version 0; an
// unreadable one disables list caching for the request.
func (s *serviceImpl) listVersion(ctx context.Context) (int64, bool) {
	var version int64

	err := s.cache.Get(ctx, cacheKeyListVersion, &version)
	if err == nil {
		return version, true
	}

	if cache.IsMiss(err) {
		return 0, true
	}

	logger.Ctx(ctx).Warn().Err(err).Msg("failed to read list version, skipping list cache")

	return 0, false
}

// invalidate orphans every cached list page and then drops the cached entity for id, if any.
// The version is bumped first so that a concurrent Get either sees the bump or saves before
// the delete.
func (s *serviceImpl) invalidate(ctx context.Context, id int64) {
	ctx = context.WithoutCancel(ctx)

	if _, err := s.cache.Incr(ctx, cacheKeyListVersion, 0); err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("failed to bump todo list version")
	}

	if id > 0 {
		s.evict(ctx, id)
	}
}

func (s *serviceImpl) evict(ctx context.Context, id int64) {
	if err := s.cache.Delete(context.WithoutCancel(ctx), shared.BuildCacheKey(cacheKeyTodo, id)); err != nil {
		logger.Ctx(ctx).Error().Err(err).Int64("todo_id", id).Msg("failed to delete todo from cache")
	}
}

func outcome(err error) string {
	if err == nil {
		return metrics.OutcomeSuccess
	}

	switch failure.GetKind(err) {
	case failure.KindNotFound:
		return metrics.OutcomeNotFound
	case failure.KindValidation:
		return metrics.OutcomeInvalid
	case failure.KindConflict:
		return metrics.OutcomeConflict
	case failure.KindUnavailable:
		return metrics.OutcomeUnavailable
	default:
		return metrics.OutcomeError
	}
}
