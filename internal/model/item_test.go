// Package model defines data structures used throughout the application.
package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestItemInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   ItemInput
		wantErr error
	}{
		{
			name:    "valid input",
			input:   ItemInput{Units: 3, Description: "pens"},
			wantErr: nil,
		},
		{
			name:    "valid input - description with surrounding spaces",
			input:   ItemInput{Units: 1, Description: "  pens  "},
			wantErr: nil,
		},
		{
			name:    "invalid - zero units",
			input:   ItemInput{Units: 0, Description: "pens"},
			wantErr: ErrInvalidUnits,
		},
		{
			name:    "invalid - negative units",
			input:   ItemInput{Units: -4, Description: "pens"},
			wantErr: ErrInvalidUnits,
		},
		{
			name:    "invalid - empty description",
			input:   ItemInput{Units: 2, Description: ""},
			wantErr: ErrInvalidDescription,
		},
		{
			name:    "invalid - whitespace description",
			input:   ItemInput{Units: 2, Description: " \t\n "},
			wantErr: ErrInvalidDescription,
		},
		{
			name:    "invalid - both fields, units reported first",
			input:   ItemInput{Units: 0, Description: ""},
			wantErr: ErrInvalidUnits,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			err := tt.input.Validate()

			// Assert
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecodeItemInput(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    *ItemInput
		wantErr error
	}{
		{
			name: "valid body",
			body: `{"units": 3, "description": "pens"}`,
			want: &ItemInput{Units: 3, Description: "pens"},
		},
		{
			name: "id in body is ignored",
			body: `{"id": 99, "units": 5, "description": "pens"}`,
			want: &ItemInput{Units: 5, Description: "pens"},
		},
		{
			name:    "missing units",
			body:    `{"description": "pens"}`,
			wantErr: ErrInvalidUnits,
		},
		{
			name:    "fractional units",
			body:    `{"units": 3.5, "description": "pens"}`,
			wantErr: ErrInvalidUnits,
		},
		{
			name:    "units as float with zero fraction",
			body:    `{"units": 3.0, "description": "pens"}`,
			wantErr: ErrInvalidUnits,
		},
		{
			name:    "units as string",
			body:    `{"units": "3", "description": "pens"}`,
			wantErr: ErrInvalidUnits,
		},
		{
			name:    "units as boolean",
			body:    `{"units": true, "description": "pens"}`,
			wantErr: ErrInvalidUnits,
		},
		{
			name:    "units null",
			body:    `{"units": null, "description": "pens"}`,
			wantErr: ErrInvalidUnits,
		},
		{
			name:    "missing description",
			body:    `{"units": 3}`,
			wantErr: ErrInvalidDescription,
		},
		{
			name:    "description as number",
			body:    `{"units": 3, "description": 7}`,
			wantErr: ErrInvalidDescription,
		},
		{
			name:    "description wrong type and units invalid",
			body:    `{"description": 7, "units": 0}`,
			wantErr: ErrInvalidUnits,
		},
		{
			name:    "malformed json",
			body:    `{"units": 3,`,
			wantErr: ErrInvalidBody,
		},
		{
			name:    "empty body",
			body:    ``,
			wantErr: ErrInvalidBody,
		},
		{
			name: "trailing whitespace",
			body: "{\"units\": 3, \"description\": \"pens\"}\n\t ",
			want: &ItemInput{Units: 3, Description: "pens"},
		},
		{
			name:    "trailing garbage",
			body:    `{"units": 3, "description": "pens"} trailing`,
			wantErr: ErrInvalidBody,
		},
		{
			name:    "second object",
			body:    `{"units": 3, "description": "pens"}{"units": 4, "description": "ink"}`,
			wantErr: ErrInvalidBody,
		},
		{
			name:    "null body",
			body:    `null`,
			wantErr: ErrInvalidBody,
		},
		{
			name:    "string body",
			body:    `"pens"`,
			wantErr: ErrInvalidBody,
		},
		{
			name:    "array body",
			body:    `[{"units": 3, "description": "pens"}]`,
			wantErr: ErrInvalidBody,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			got, err := DecodeItemInput(strings.NewReader(tt.body))

			// Assert
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("DecodeItemInput() error = %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("DecodeItemInput() unexpected error: %v", err)
			}
			if *got != *tt.want {
				t.Errorf("DecodeItemInput() = %+v, want %+v", *got, *tt.want)
			}
		})
	}
}

func TestItem_Apply(t *testing.T) {
	// Arrange
	item := Item{ID: 7, Units: 1, Description: "old"}
	input := &ItemInput{Units: 9, Description: "new"}

	// Act
	item.Apply(input)

	// Assert
	want := Item{ID: 7, Units: 9, Description: "new"}
	if item != want {
		t.Errorf("Apply() = %+v, want %+v", item, want)
	}
}

func TestItem_JSONFieldOrder(t *testing.T) {
	// Arrange
	item := NewItem(1, &ItemInput{Units: 3, Description: "pens"})

	// Act
	data, err := json.Marshal(item)

	// Assert
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	want := `{"id":1,"units":3,"description":"pens"}`
	if string(data) != want {
		t.Errorf("json.Marshal() = %s, want %s", data, want)
	}
}

func TestErrorResponse_JSON(t *testing.T) {
	// Arrange
	resp := ErrorResponse{Message: "Item not found", Status: 404}

	// Act
	data, err := json.Marshal(resp)

	// Assert
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	want := `{"message":"Item not found","status":404}`
	if string(data) != want {
		t.Errorf("json.Marshal() = %s, want %s", data, want)
	}
}
