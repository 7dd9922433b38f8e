package service

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

type ValidationService[K any, V any] struct {
	validator *validator.Validate
}

func NewValidationService[K any, V any]() *ValidationService[K, V] {
	return &ValidationService[K, V]{
		validator: validator.New(),
	}
}

func (v *ValidationService[K, V]) Validate(entity K) error {
	return v.validator.Struct(entity)
}

// ValidateUpdateRequest checks payload against the update schema V.
// Fields V does not declare are rejected.
func (v *ValidationService[K, V]) ValidateUpdateRequest(payload map[string]interface{}) (map[string]interface{}, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("empty update")
	}

	// Convert payload to JSON then to struct
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	var updateSchema V
	decoder := json.NewDecoder(bytes.NewReader(jsonData))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&updateSchema); err != nil {
		return nil, err
	}

	if err := v.validator.Struct(updateSchema); err != nil {
		return nil, err
	}

	return payload, nil
}
