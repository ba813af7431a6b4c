package validator_test

import (
	"net/http"
	"strings"
	"testing"
	"todoapp/shared/failure"
	"todoapp/shared/validator"
)

type noteRequest struct {
	Title    string `json:"title"    validate:"required,max=10"`
	Priority string `json:"priority" validate:"omitempty,oneof=low medium high"`
	Count    int    `json:"count"    validate:"gte=0,lte=5"`
}

func (n *noteRequest) Normalize() {
	n.Title = strings.TrimSpace(n.Title)
}

type wrapped struct {
	value *string
}

func (w wrapped) ValidationValue() any {
	if w.value == nil {
		return nil
	}

	return *w.value
}

type wrappedRequest struct {
	Note wrapped `json:"note" validate:"omitempty,max=3"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name        string
		data        *noteRequest
		expectError bool
	}{
		{
			name:        "valid struct",
			data:        &noteRequest{Title: "Buy milk", Priority: "high", Count: 1},
			expectError: false,
		},
		{
			name:        "missing title",
			data:        &noteRequest{Priority: "high"},
			expectError: true,
		},
		{
			name:        "whitespace title is trimmed to empty",
			data:        &noteRequest{Title: "    "},
			expectError: true,
		},
		{
			name:        "title surrounded by spaces fits after trim",
			data:        &noteRequest{Title: "   0123456789   "},
			expectError: false,
		},
		{
			name:        "title too long",
			data:        &noteRequest{Title: "01234567890"},
			expectError: true,
		},
		{
			name:        "invalid priority",
			data:        &noteRequest{Title: "a", Priority: "urgent"},
			expectError: true,
		},
		{
			name:        "count out of range",
			data:        &noteRequest{Title: "a", Count: 6},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(tt.data)

			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("expected no validation error, got: %v", err)
			}

			if err != nil && failure.GetCode(err) != http.StatusBadRequest {
				t.Errorf("expected code %d, got %d", http.StatusBadRequest, failure.GetCode(err))
			}
		})
	}
}

func TestValidateStructNormalizes(t *testing.T) {
	data := &noteRequest{Title: "  Buy milk  "}

	if err := validator.ValidateStruct(data); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if data.Title != "Buy milk" {
		t.Errorf("expected trimmed title, got %q", data.Title)
	}
}

func TestRegisterAlias(t *testing.T) {
	validator.RegisterAlias("short_name", "notblank,max=5")

	type aliased struct {
		Name string `json:"name" validate:"short_name"`
	}

	tests := []struct {
		name    string
		value   string
		message string
	}{
		{name: "valid", value: "todo"},
		{name: "blank", value: "   ", message: "name must not be blank"},
		{name: "too long", value: "groceries", message: "name must be at most 5 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&aliased{Name: tt.value})

			if tt.message == "" {
				if err != nil {
					t.Errorf("expected no validation error, got: %v", err)
				}

				return
			}

			if err == nil {
				t.Fatal("expected validation error, got nil")
			}

			if err.Error() != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, err.Error())
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		jsonBody    string
		expectError bool
		message     string
	}{
		{
			name:     "valid JSON",
			jsonBody: `{"title":"Buy milk","priority":"high"}`,
		},
		{
			name:     "unknown fields are ignored",
			jsonBody: `{"title":"Buy milk","extra":true}`,
		},
		{
			name:        "invalid value",
			jsonBody:    `{"title":"Buy milk","priority":"urgent"}`,
			expectError: true,
			message:     "priority must be one of low medium high",
		},
		{
			name:        "malformed JSON",
			jsonBody:    `{"title":}`,
			expectError: true,
			message:     "invalid JSON body",
		},
		{
			name:        "wrong type",
			jsonBody:    `{"title":42}`,
			expectError: true,
			message:     "title must be of type string",
		},
		{
			name:        "empty body",
			jsonBody:    ``,
			expectError: true,
			message:     "request body is required",
		},
		{
			name:        "empty JSON",
			jsonBody:    `{}`,
			expectError: true,
			message:     "title is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data noteRequest
			err := validator.Validate(strings.NewReader(tt.jsonBody), &data)

			if tt.expectError && err == nil {
				t.Fatal("expected validation error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Fatalf("expected no validation error, got: %v", err)
			}

			if tt.message != "" && err.Error() != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, err.Error())
			}
		})
	}
}

func TestValidationMessagesUseJSONNames(t *testing.T) {
	err := validator.ValidateStruct(&noteRequest{Title: "01234567890"})
	if err == nil {
		t.Fatal("expected validation error")
	}

	if err.Error() != "title must be at most 10 characters" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestRegisterValuer(t *testing.T) {
	validator.RegisterValuer(wrapped{})

	short, long := "abc", "abcd"

	if err := validator.ValidateStruct(&wrappedRequest{Note: wrapped{value: &short}}); err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if err := validator.ValidateStruct(&wrappedRequest{}); err != nil {
		t.Errorf("expected no error for unset value, got %v", err)
	}

	if err := validator.ValidateStruct(&wrappedRequest{Note: wrapped{value: &long}}); err == nil {
		t.Error("expected error for long value")
	}
}
