package todo

import (
	"net/http"
	"strings"
	"todoapp/infras/otel"
	"todoapp/internal/domains/todo/model"
	"todoapp/internal/domains/todo/model/dto"
	"todoapp/internal/domains/todo/service"
	"todoapp/shared"
	"todoapp/shared/constant"
	gDto "todoapp/shared/dto"
	"todoapp/shared/failure"
	"todoapp/shared/logger"
	"todoapp/shared/validator"
	"todoapp/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service service.Todo
	otel    otel.Otel
}

func New(service service.Todo, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/todos", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateTodo)
		routerGroup.Get("/", handler.GetTodos)
		routerGroup.Get("/{id}", handler.GetTodoByID)
		routerGroup.Put("/{id}", handler.UpdateTodo)
		routerGroup.Delete("/{id}", handler.DeleteTodo)
		routerGroup.Patch("/{id}/complete", handler.ToggleTodo)
	})
}

// CreateTodo handles the creation of a new todo item.
// @Summary Create a new todo item
// @Description Create a todo. Priority defaults to medium and new todos always start incomplete.
// @Tags Todo
// @Accept json
// @Produce json
// @Param request body dto.CreateTodoRequest true "Create Todo Request"
// @Success 201 {object} dto.TodoResponse
// @Failure 400 {object} response.Error
// @Failure 503 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/todos [post]
func (handler *Handler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateTodo")
	defer scope.End()

	req := dto.CreateTodoRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		handler.fail(w, r, scope, err, "invalid create todo request")

		return
	}

	todo, err := handler.service.Create(ctx, req)
	if err != nil {
		handler.fail(w, r, scope, err, "failed to create todo")

		return
	}

	scope.AddEvent("Todo created successfully")

	response.WithJSON(w, http.StatusCreated, todo)
}

// GetTodos lists todo items.
// @Summary List todo items
// @Description Page through todos with optional completion and priority filters.
// @Tags Todo
// @Produce json
// @Param page query int false "Page number" default(1) minimum(1)
// @Param page_size query int false "Items per page" default(20) minimum(1) maximum(100)
// @Param sort_by query string false "Sort field" Enums(created_at, updated_at, priority) default(created_at)
// @Param order query string false "Sort order" Enums(asc, desc) default(desc)
// @Param is_completed query boolean false "Filter by completion status"
// @Param priority query string false "Filter by priority" Enums(low, medium, high)
// @Success 200 {object} dto.ListTodosResponse
// @Failure 400 {object} response.Error
// @Failure 503 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/todos [get]
func (handler *Handler) GetTodos(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTodos")
	defer scope.End()

	req, err := listRequest(r)
	if err != nil {
		handler.fail(w, r, scope, err, "invalid list todos request")

		return
	}

	todos, err := handler.service.List(ctx, req)
	if err != nil {
		handler.fail(w, r, scope, err, "failed to list todos")

		return
	}

	scope.AddEvent("Todos retrieved successfully")

	response.WithJSON(w, http.StatusOK, todos)
}

// GetTodoByID retrieves a todo item by its ID.
// @Summary Get a todo item by ID
// @Tags Todo
// @Produce json
// @Param id path int true "Todo ID"
// @Success 200 {object} dto.TodoResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/todos/{id} [get]
func (handler *Handler) GetTodoByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTodoByID")
	defer scope.End()

	id, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		handler.fail(w, r, scope, err, "invalid todo id")

		return
	}

	todo, err := handler.service.Get(ctx, id)
	if err != nil {
		handler.fail(w, r, scope, err, "failed to get todo by ID")

		return
	}

	response.WithJSON(w, http.StatusOK, todo)
}

// UpdateTodo updates an existing todo item by its ID.
// @Summary Update a todo item by ID
// @Description Partial update: omitted fields are kept, an explicit null description clears it.
// @Tags Todo
// @Accept json
// @Produce json
// @Param id path int true "Todo ID"
// @Param request body dto.UpdateTodoRequest true "Update Todo Request"
// @Success 200 {object} dto.TodoResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/todos/{id} [put]
func (handler *Handler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateTodo")
	defer scope.End()

	id, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		handler.fail(w, r, scope, err, "invalid todo id")

		return
	}

	req := dto.UpdateTodoRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		handler.fail(w, r, scope, err, "invalid update todo request")

		return
	}

	todo, err := handler.service.Update(ctx, id, req)
	if err != nil {
		handler.fail(w, r, scope, err, "failed to update todo")

		return
	}

	scope.AddEvent("Todo updated successfully")

	response.WithJSON(w, http.StatusOK, todo)
}

// DeleteTodo deletes a todo item by its ID.
// @Summary Delete a todo item by ID
// @Tags Todo
// @Param id path int true "Todo ID"
// @Success 204
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/todos/{id} [delete]
func (handler *Handler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteTodo")
	defer scope.End()

	id, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		handler.fail(w, r, scope, err, "invalid todo id")

		return
	}

	if err := handler.service.Delete(ctx, id); err != nil {
		handler.fail(w, r, scope, err, "failed to delete todo")

		return
	}

	scope.AddEvent("Todo deleted successfully")

	response.WithNoContent(w)
}

// ToggleTodo flips the completion status of a todo item.
// @Summary Toggle completion of a todo item
// @Tags Todo
// @Produce json
// @Param id path int true "Todo ID"
// @Success 200 {object} dto.TodoResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/todos/{id}/complete [patch]
func (handler *Handler) ToggleTodo(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ToggleTodo")
	defer scope.End()

	id, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		handler.fail(w, r, scope, err, "invalid todo id")

		return
	}

	todo, err := handler.service.ToggleComplete(ctx, id)
	if err != nil {
		handler.fail(w, r, scope, err, "failed to toggle todo")

		return
	}

	response.WithJSON(w, http.StatusOK, todo)
}

func (handler *Handler) fail(w http.ResponseWriter, r *http.Request, scope otel.Scope, err error, msg string) {
	if failure.GetCode(err) >= http.StatusInternalServerError {
		scope.TraceError(err)
		logger.Ctx(r.Context()).Error().Err(err).Msg(msg)
	} else {
		logger.Ctx(r.Context()).Debug().Err(err).Msg(msg)
	}

	response.WithError(w, err)
}

func listRequest(r *http.Request) (dto.ListTodosRequest, error) {
	params := gDto.QueryParams{}
	if err := params.FromRequest(r, true); err != nil {
		return dto.ListTodosRequest{}, err //nolint:wrapcheck
	}

	query := r.URL.Query()

	isCompleted, err := shared.ParseOptionalBool(model.FieldIsCompleted, query.Get(model.FieldIsCompleted))
	if err != nil {
		return dto.ListTodosRequest{}, err //nolint:wrapcheck
	}

	var priority *model.Priority

	if value := query.Get(model.FieldPriority); value != constant.Empty {
		p := model.Priority(strings.ToLower(value))
		priority = &p
	}

	req := dto.NewListTodosRequest(params, isCompleted, priority)

	if err := validator.ValidateStruct(&req); err != nil {
		return dto.ListTodosRequest{}, err //nolint:wrapcheck
	}

	return req, nil
}
