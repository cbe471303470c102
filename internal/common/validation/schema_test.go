// internal/common/validation/schema_test.go
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func purchaseSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"productName", "requiredQuantity"},
		"properties": map[string]interface{}{
			"productName":      map[string]interface{}{"type": "string", "minLength": 1},
			"requiredQuantity": map[string]interface{}{"type": "number", "exclusiveMinimum": 0},
			"mode": map[string]interface{}{
				"type": "string",
				"enum": []interface{}{"balanced", "distance", "price", "profit", "shelfLife"},
			},
		},
	}
}

func TestSchema_Validate(t *testing.T) {
	s, err := Compile(purchaseSchema())
	require.NoError(t, err)

	tests := []struct {
		name      string
		input     map[string]interface{}
		wantValid bool
		wantCode  string
		wantField string
	}{
		{
			name:      "valid",
			input:     map[string]interface{}{"productName": "Tomatoes", "requiredQuantity": 500, "mode": "price"},
			wantValid: true,
		},
		{
			name:      "missing product",
			input:     map[string]interface{}{"requiredQuantity": 500},
			wantCode:  "REQUIRED_FIELD_MISSING",
			wantField: "productName",
		},
		{
			name:      "wrong type",
			input:     map[string]interface{}{"productName": "Tomatoes", "requiredQuantity": "lots"},
			wantCode:  "INVALID_TYPE",
			wantField: "requiredQuantity",
		},
		{
			name:      "unknown mode",
			input:     map[string]interface{}{"productName": "Tomatoes", "requiredQuantity": 1, "mode": "cheapest"},
			wantCode:  "INVALID_ENUM_VALUE",
			wantField: "mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.Validate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, result.Valid)
			if tt.wantValid {
				assert.Empty(t, result.Errors)
				return
			}
			require.NotEmpty(t, result.Errors)
			assert.Equal(t, tt.wantCode, result.Errors[0].Code)
			assert.Equal(t, tt.wantField, result.Errors[0].Field)
			assert.Contains(t, result.Summary(), tt.wantField)
		})
	}
}

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile(map[string]interface{}{"type": 42})
	assert.Error(t, err)
}

func TestSchema_ValidateStruct(t *testing.T) {
	s, err := Compile(purchaseSchema())
	require.NoError(t, err)

	type request struct {
		ProductName      string  `json:"productName"`
		RequiredQuantity float64 `json:"requiredQuantity"`
	}
	result, err := s.Validate(request{ProductName: "Onions", RequiredQuantity: 0})
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "RANGE_VIOLATION", result.Errors[0].Code)
}
