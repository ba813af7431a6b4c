package dto_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
	"todoapp/internal/domains/todo/model"
	"todoapp/internal/domains/todo/model/dto"
	gDto "todoapp/shared/dto"
	"todoapp/shared/failure"
	gModel "todoapp/shared/model"
	"todoapp/shared"
	"todoapp/shared/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTodoRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
		want    dto.CreateTodoRequest
	}{
		{
			name: "defaults priority and trims title",
			body: `{"title":"  Buy milk  "}`,
			want: dto.CreateTodoRequest{Title: "Buy milk", Priority: model.PriorityMedium},
		},
		{
			name: "ignores is_completed",
			body: `{"title":"Buy milk","priority":"high","is_completed":true}`,
			want: dto.CreateTodoRequest{Title: "Buy milk", Priority: model.PriorityHigh},
		},
		{
			name:    "blank title",
			body:    `{"title":"   "}`,
			wantErr: "title is required",
		},
		{
			name: "title at the length limit",
			body: `{"title":"` + strings.Repeat("a", model.MaxTitleLength) + `","priority":"low"}`,
			want: dto.CreateTodoRequest{Title: strings.Repeat("a", model.MaxTitleLength), Priority: model.PriorityLow},
		},
		{
			name:    "title too long",
			body:    `{"title":"` + strings.Repeat("a", model.MaxTitleLength+1) + `"}`,
			wantErr: "title must be at most 255 characters",
		},
		{
			name:    "invalid priority",
			body:    `{"title":"x","priority":"urgent"}`,
			wantErr: "priority must be one of low medium high",
		},
		{
			name:    "description too long",
			body:    `{"title":"x","description":"` + strings.Repeat("d", model.MaxDescriptionLength+1) + `"}`,
			wantErr: "description must be at most 1000 characters",
		},
		{
			name:    "wrong type",
			body:    `{"title":5}`,
			wantErr: "title must be of type string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req dto.CreateTodoRequest

			err := validator.Validate(strings.NewReader(tt.body), &req)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, failure.KindValidation, failure.GetKind(err))
				assert.Contains(t, failure.GetMessage(err), tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, req)

			todo := req.ToModel()
			assert.False(t, todo.IsCompleted)
			assert.Zero(t, todo.ID)
		})
	}
}

func TestUpdateTodoRequest_Validate(t *testing.T) {
	t.Run("absent description is left untouched", func(t *testing.T) {
		var req dto.UpdateTodoRequest

		require.NoError(t, validator.Validate(strings.NewReader(`{"title":" renamed "}`), &req))
		assert.False(t, req.IsEmpty())
		assert.Equal(t, map[string]any{"title": "renamed"}, shared.TransformFields(req))
	})

	t.Run("null description clears it", func(t *testing.T) {
		var req dto.UpdateTodoRequest

		require.NoError(t, validator.Validate(strings.NewReader(`{"description":null}`), &req))
		assert.False(t, req.IsEmpty())

		fields := shared.TransformFields(req)
		require.Contains(t, fields, "description")

		value, err := req.Description.Value()
		require.NoError(t, err)
		assert.Nil(t, value)
	})

	t.Run("false is_completed is kept", func(t *testing.T) {
		var req dto.UpdateTodoRequest

		require.NoError(t, validator.Validate(strings.NewReader(`{"is_completed":false}`), &req))
		assert.Equal(t, map[string]any{"is_completed": false}, shared.TransformFields(req))
	})

	t.Run("empty body is empty update", func(t *testing.T) {
		var req dto.UpdateTodoRequest

		require.NoError(t, validator.Validate(strings.NewReader(`{}`), &req))
		assert.True(t, req.IsEmpty())
	})

	invalid := map[string]string{
		"blank title":          `{"title":"  "}`,
		"invalid priority":     `{"priority":"urgent"}`,
		"description too long": `{"description":"` + strings.Repeat("d", model.MaxDescriptionLength+1) + `"}`,
		"description type":     `{"description":12}`,
	}

	for name, body := range invalid {
		t.Run(name, func(t *testing.T) {
			var req dto.UpdateTodoRequest

			err := validator.Validate(strings.NewReader(body), &req)
			assert.Equal(t, failure.KindValidation, failure.GetKind(err))
		})
	}
}

func TestListTodosRequest(t *testing.T) {
	completed := true
	priority := model.PriorityHigh

	req := dto.NewListTodosRequest(gDto.QueryParams{Page: 2, PageSize: 10, SortBy: "priority", Order: "asc"}, &completed, &priority)
	require.NoError(t, validator.ValidateStruct(&req))

	params := req.Params()
	assert.Equal(t, 10, params.Offset())

	filter := req.Filter()
	where, args := filter.GetWhereClause()
	assert.Equal(t, "(todos.is_completed = :is_completed AND todos.priority = :priority)", where)
	assert.Equal(t, map[string]any{"is_completed": true, "priority": "high"}, args)

	assert.NotEqual(t, req.Fingerprint(1), req.Fingerprint(2))
	assert.Equal(t, req.Fingerprint(1), req.Fingerprint(1))

	other := req
	other.Page = 3
	assert.NotEqual(t, req.Fingerprint(1), other.Fingerprint(1))

	invalid := dto.NewListTodosRequest(gDto.QueryParams{Page: 1, PageSize: 10, SortBy: "title", Order: "asc"}, nil, nil)
	err := validator.ValidateStruct(&invalid)
	assert.Equal(t, failure.KindValidation, failure.GetKind(err))

	tooLarge := dto.NewListTodosRequest(gDto.QueryParams{Page: 1, PageSize: 101, SortBy: "created_at", Order: "desc"}, nil, nil)
	assert.Error(t, validator.ValidateStruct(&tooLarge))
}

func TestTodoResponse_JSON(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	var res dto.TodoResponse
	res.FromModel(model.Todo{
		ID:       1,
		Title:    "Buy milk",
		Priority: model.PriorityLow,
		Metadata: gModel.Metadata{CreatedAt: created, UpdatedAt: created},
	})

	data, err := json.Marshal(res)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))

	assert.Equal(t, float64(1), body["id"])
	assert.Contains(t, body, "description")
	assert.Nil(t, body["description"])
	assert.Equal(t, false, body["is_completed"])
	assert.Equal(t, "low", body["priority"])
	assert.Equal(t, body["created_at"], body["updated_at"])
}

func TestListTodosResponse_FromModels(t *testing.T) {
	var res dto.ListTodosResponse
	res.FromModels(nil, 45, 2, 20)

	assert.NotNil(t, res.Items)
	assert.Equal(t, 3, res.TotalPages)
	assert.True(t, res.HasNext)
	assert.True(t, res.HasPrevious)

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"items":[]`)
	assert.Contains(t, string(data), `"total":45`)
}
