// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// singleton validator instance
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError represents a single field validation failure.
type FieldError struct {
	field   string
	tag     string
	param   string
	value   interface{}
	message string
}

// Field returns the dotted config path of the field that failed, e.g. "preprocess.test_size".
func (e *FieldError) Field() string {
	return e.field
}

// Tag returns the validation tag that failed.
func (e *FieldError) Tag() string {
	return e.tag
}

// Param returns the parameter for the validation tag (e.g., "1" for "min=1").
func (e *FieldError) Param() string {
	return e.param
}

// Value returns the actual value that failed validation.
func (e *FieldError) Value() interface{} {
	return e.value
}

// Error returns a human-readable error message.
func (e *FieldError) Error() string {
	return e.message
}

// StructError collects every field failure of one ValidateStruct call.
type StructError struct {
	errors []FieldError
}

// Errors returns the slice of field errors.
func (se *StructError) Errors() []FieldError {
	return se.errors
}

// Error joins all field messages.
func (se *StructError) Error() string {
	if len(se.errors) == 0 {
		return "validation failed"
	}

	messages := make([]string, 0, len(se.errors))
	for i := range se.errors {
		messages = append(messages, se.errors[i].Error())
	}
	return strings.Join(messages, "; ")
}

// GetValidator returns the singleton validator instance.
// Field names in errors come from the koanf struct tag so they match the
// paths used in config files and environment mappings.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("koanf"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})

	return validate
}

// ValidateStruct validates s using the singleton validator.
// Returns nil if validation passes, or *StructError if it fails.
func ValidateStruct(s interface{}) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &StructError{
			errors: []FieldError{{field: "unknown", tag: "unknown", message: err.Error()}},
		}
	}

	fieldErrors := make([]FieldError, len(validationErrs))
	for i, fieldErr := range validationErrs {
		path := fieldPath(fieldErr.Namespace())
		fieldErrors[i] = FieldError{
			field:   path,
			tag:     fieldErr.Tag(),
			param:   fieldErr.Param(),
			value:   fieldErr.Value(),
			message: translateError(fieldErr, path),
		}
	}

	return &StructError{errors: fieldErrors}
}

// fieldPath drops the root struct name from a validator namespace.
// "Config.preprocess.test_size" becomes "preprocess.test_size".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

var errorMessageTemplates = map[string]string{
	"required": "%s is required",
	"dir":      "%s must be an existing directory",
}

var errorMessageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
	"lt":    "%s must be less than %s",
	"min":   "%s must be at least %s",
	"max":   "%s must be at most %s",
}

// translateError converts a validator.FieldError to a human-readable message.
func translateError(fe validator.FieldError, field string) string {
	tag := fe.Tag()

	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}

	if template, ok := errorMessageWithParam[tag]; ok {
		if fe.Kind() == reflect.String && (tag == "min" || tag == "max") {
			return fmt.Sprintf(template+" characters", field, fe.Param())
		}
		if fe.Kind() == reflect.Slice && (tag == "min" || tag == "max") {
			return fmt.Sprintf(template+" entries", field, fe.Param())
		}
		return fmt.Sprintf(template, field, fe.Param())
	}

	return fmt.Sprintf("%s failed %s validation", field, tag)
}
