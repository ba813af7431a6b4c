package dto

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"todoapp/internal/domains/todo/model"
	"todoapp/shared/cache"
	"todoapp/shared/constant"
	gDto "todoapp/shared/dto"
	"todoapp/shared/validator"
)

func init() {
	validator.RegisterValuer(OptionalString{})

	priorities := make([]string, len(model.Priorities))
	for i, priority := range model.Priorities {
		priorities[i] = string(priority)
	}

	validator.RegisterAlias("todo_title", fmt.Sprintf("max=%d", model.MaxTitleLength))
	validator.RegisterAlias("todo_description", fmt.Sprintf("max=%d", model.MaxDescriptionLength))
	validator.RegisterAlias("todo_priority", "oneof="+strings.Join(priorities, " "))
}

// OptionalString tells an absent JSON field apart from an explicit null.
type OptionalString struct {
	Set  bool
	Text *string
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true

	if bytes.Equal(data, []byte("null")) {
		o.Text = nil

		return nil
	}

	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err //nolint:wrapcheck
	}

	o.Text = &value

	return nil
}

func (o OptionalString) MarshalJSON() ([]byte, error) {
	if o.Text == nil {
		return []byte("null"), nil
	}

	return json.Marshal(*o.Text) //nolint:wrapcheck
}

// ValidationValue exposes the wrapped string to the validator.
func (o OptionalString) ValidationValue() any {
	if o.Text == nil {
		return nil
	}

	return *o.Text
}

// Value binds the wrapped string, or NULL, as a query argument.
func (o OptionalString) Value() (driver.Value, error) {
	if o.Text == nil {
		return nil, nil
	}

	return *o.Text, nil
}

type CreateTodoRequest struct {
	Title       string         `json:"title"       validate:"required,todo_title"`
	Description *string        `json:"description" validate:"omitnil,todo_description"`
	Priority    model.Priority `json:"priority"    validate:"todo_priority"`
}

// Normalize trims the title and applies the default priority.
func (c *CreateTodoRequest) Normalize() {
	c.Title = strings.TrimSpace(c.Title)

	if c.Priority == "" {
		c.Priority = model.DefaultPriority
	}
}

func (c *CreateTodoRequest) ToModel() model.Todo {
	return model.Todo{
		Title:       c.Title,
		Description: c.Description,
		IsCompleted: false,
		Priority:    c.Priority,
	}
}

// UpdateTodoRequest is a partial update: absent fields are left untouched and an explicit
// null description clears it.
type UpdateTodoRequest struct {
	Title       *string         `db:"title"        json:"title"        validate:"omitnil,notblank,todo_title"`
	Description OptionalString  `db:"description"  json:"description"  validate:"omitempty,todo_description"`
	IsCompleted *bool           `db:"is_completed" json:"is_completed"`
	Priority    *model.Priority `db:"priority"     json:"priority"     validate:"omitnil,todo_priority"`
}

func (u *UpdateTodoRequest) Normalize() {
	if u.Title != nil {
		title := strings.TrimSpace(*u.Title)
		u.Title = &title
	}
}

func (u *UpdateTodoRequest) IsEmpty() bool {
	return u.Title == nil && !u.Description.Set && u.IsCompleted == nil && u.Priority == nil
}

type TodoResponse struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Description *string        `json:"description"`
	IsCompleted bool           `json:"is_completed"`
	Priority    model.Priority `json:"priority"`
	gDto.Metadata
}

func (r *TodoResponse) FromModel(model model.Todo) {
	r.ID = model.ID
	r.Title = model.Title
	r.Description = model.Description
	r.IsCompleted = model.IsCompleted
	r.Priority = model.Priority
	r.Metadata.FromModel(model.Metadata)
}

// ListTodosRequest is a validated list query. SortBy and Order are lower case.
type ListTodosRequest struct {
	Page        int             `json:"page"         validate:"min=1"`
	PageSize    int             `json:"page_size"    validate:"min=1,max=100"`
	SortBy      string          `json:"sort_by"      validate:"oneof=created_at updated_at priority"`
	Order       string          `json:"order"        validate:"oneof=asc desc"`
	IsCompleted *bool           `json:"is_completed"`
	Priority    *model.Priority `json:"priority"     validate:"omitnil,todo_priority"`
}

func NewListTodosRequest(params gDto.QueryParams, isCompleted *bool, priority *model.Priority) ListTodosRequest {
	return ListTodosRequest{
		Page:        params.Page,
		PageSize:    params.PageSize,
		SortBy:      params.SortBy,
		Order:       params.Order,
		IsCompleted: isCompleted,
		Priority:    priority,
	}
}

func (r ListTodosRequest) Params() gDto.QueryParams {
	return gDto.QueryParams{
		Page:     r.Page,
		PageSize: r.PageSize,
		SortBy:   r.SortBy,
		Order:    r.Order,
	}
}

func (r ListTodosRequest) Filter() gDto.FilterGroup {
	filter := gDto.FilterGroup{}

	if r.IsCompleted != nil {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field: model.FieldIsCompleted,
			Value: *r.IsCompleted,
			Table: model.TableName,
		})
	}

	if r.Priority != nil {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field: model.FieldPriority,
			Value: string(*r.Priority),
			Table: model.TableName,
		})
	}

	return filter
}

// Fingerprint identifies this query under the given list version.
func (r ListTodosRequest) Fingerprint(version int64) string {
	isCompleted, priority := constant.Empty, constant.Empty

	if r.IsCompleted != nil {
		isCompleted = strconv.FormatBool(*r.IsCompleted)
	}

	if r.Priority != nil {
		priority = string(*r.Priority)
	}

	return cache.Fingerprint(
		strconv.FormatInt(version, 10),
		isCompleted,
		priority,
		r.SortBy,
		r.Order,
		strconv.Itoa(r.Page),
		strconv.Itoa(r.PageSize),
	)
}

type ListTodosResponse struct {
	Items []TodoResponse `json:"items"`
	gDto.Pagination
}

func (r *ListTodosResponse) FromModels(models []model.Todo, total, page, pageSize int) {
	r.Pagination = gDto.NewPagination(total, page, pageSize)

	r.Items = make([]TodoResponse, len(models))
	for i, mod := range models {
		r.Items[i].FromModel(mod)
	}
}
