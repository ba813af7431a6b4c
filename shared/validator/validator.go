package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"todoapp/shared/failure"

	val "github.com/go-playground/validator/v10"
)

var validate *val.Validate

// Normalizer is implemented by request bodies that clean their own input (trimming, defaults)
// before validation runs.
type Normalizer interface {
	Normalize()
}

// Valuer is implemented by wrapper types whose underlying value should be validated in their place.
type Valuer interface {
	ValidationValue() any
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}

	if name == "" {
		return field.Name
	}

	return name
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)

	err := validate.RegisterValidation("notblank", func(fl val.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() != reflect.String {
			return true
		}

		return strings.TrimSpace(field.String()) != ""
	})

	if err != nil {
		panic(err)
	}
}

// RegisterValuer lets the validator see through the wrapper types given as samples.
func RegisterValuer(types ...Valuer) {
	samples := make([]any, len(types))
	for i, t := range types {
		samples[i] = t
	}

	validate.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if v, ok := field.Interface().(Valuer); ok {
			return v.ValidationValue()
		}

		return nil
	}, samples...)
}

// Validate reads from the given io.Reader into the given struct, and then performs validation
// on the struct using the validator package. If the struct is invalid according to the
// validation rules, an error is returned. Otherwise, nil is returned.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(r)
	err := decoder.Decode(data)

	if err != nil {
		return failure.BadRequestFromString(decodeMessage(err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	if normalizer, ok := any(data).(Normalizer); ok {
		normalizer.Normalize()
	}

	err := validate.Struct(data)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}

// RegisterAlias makes alias usable in validate tags as shorthand for tags, e.g.
// RegisterAlias("title", "notblank,max=255"). Error messages name the underlying tag.
func RegisterAlias(alias, tags string) {
	validate.RegisterAlias(alias, tags)
}

func decodeMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Sprintf("%s must be of type %s", typeErr.Field, typeErr.Type.String())
	}

	if errors.Is(err, io.EOF) {
		return "request body is required"
	}

	return "invalid JSON body"
}
