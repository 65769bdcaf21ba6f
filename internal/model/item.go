// Package model defines data structures used throughout the application.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validation errors for ItemInput.
var (
	ErrInvalidUnits       = errors.New("units field is required and must be a positive integer")
	ErrInvalidDescription = errors.New("description field is required and cannot be empty")
	ErrInvalidBody        = errors.New("invalid request body")
)

// Item represents a single record in the collection.
// Field order matches the persisted and wire JSON shape.
type Item struct {
	ID          int    `json:"id"`
	Units       int    `json:"units"`
	Description string `json:"description"`
}

// ItemInput holds the client-supplied fields for create and update.
// An id in the request body is never decoded into it.
type ItemInput struct {
	Units       int    `json:"units" validate:"gt=0"`
	Description string `json:"description" validate:"notblank"`
}

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	if err := validate.RegisterValidation("notblank", validateNotBlank); err != nil {
		panic(err)
	}
}

// validateNotBlank reports whether a string field has content besides whitespace.
func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// fieldErrors maps struct field names to the error reported for them.
// Struct fields are validated in declaration order, so units wins over description.
var fieldErrors = map[string]error{
	"Units":       ErrInvalidUnits,
	"Description": ErrInvalidDescription,
}

// Validate checks if the ItemInput has valid field values.
func (in *ItemInput) Validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validate item input: %w", err)
	}

	for _, fieldErr := range validationErrors {
		if mapped, ok := fieldErrors[fieldErr.StructField()]; ok {
			return mapped
		}
	}

	return ErrInvalidBody
}

// DecodeItemInput reads exactly one JSON object from r and validates it.
// A units or description value of the wrong JSON type is treated as missing,
// so it surfaces as that field's validation error rather than a body error.
func DecodeItemInput(r io.Reader) (*ItemInput, error) {
	dec := json.NewDecoder(r)

	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after JSON object", ErrInvalidBody)
	}

	if raw[0] != '{' {
		return nil, fmt.Errorf("%w: body must be a JSON object", ErrInvalidBody)
	}

	var in ItemInput
	if err := json.Unmarshal(raw, &in); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) || fieldErrors[fieldName(typeErr.Field)] == nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
		}
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}

	return &in, nil
}

// fieldName converts a JSON field path to the matching ItemInput struct field name.
func fieldName(jsonField string) string {
	switch jsonField {
	case "units":
		return "Units"
	case "description":
		return "Description"
	default:
		return ""
	}
}

// Apply merges the input fields into the item. The item's ID is left unchanged.
func (i *Item) Apply(in *ItemInput) {
	i.Units = in.Units
	i.Description = in.Description
}

// NewItem builds an Item with the given id from validated input.
func NewItem(id int, in *ItemInput) Item {
	return Item{
		ID:          id,
		Units:       in.Units,
		Description: in.Description,
	}
}

// ErrorResponse represents an error response structure.
type ErrorResponse struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// MessageResponse is a plain confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}
