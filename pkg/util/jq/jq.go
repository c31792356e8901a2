package jq

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/itchyny/gojq"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// ErrNotFound is returned when a JQ query doesn't find the requested field.
var ErrNotFound = errors.New("field not found")

// convertValue converts a value to a JQ-compatible format. It handles
// unstructured.Unstructured by extracting its Object field and passes maps
// and slices through directly without marshaling/unmarshaling.
func convertValue(value any) (any, error) {
	if value == nil {
		return nil, nil
	}

	if v, ok := value.(unstructured.Unstructured); ok {
		return v.Object, nil
	}

	if v, ok := value.(*unstructured.Unstructured); ok {
		return v.Object, nil
	}

	rv := reflect.ValueOf(value)
	kind := rv.Kind()

	if kind == reflect.Map {
		return value, nil
	}

	if kind == reflect.Slice {
		if _, isByteSlice := value.([]byte); !isByteSlice {
			slice := make([]any, rv.Len())
			for i := range rv.Len() {
				slice[i] = rv.Index(i).Interface()
			}

			return slice, nil
		}
		// For []byte, fall through to JSON marshal/unmarshal
	}

	var normalizedValue any
	jsonBytes, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal value: %w", err)
	}

	if err := json.Unmarshal(jsonBytes, &normalizedValue); err != nil {
		return nil, fmt.Errorf("failed to unmarshal value: %w", err)
	}

	return normalizedValue, nil
}

// Query executes a JQ query against the provided value and returns the first
// result cast to type T. Tries direct type assertion first (zero-cost when
// types match), then falls back to JSON conversion if needed.
// When the query returns nil/null, returns ErrNotFound.
func Query[T any](value any, jqQuery string) (T, error) {
	var zero T

	compiledQuery, err := gojq.Parse(jqQuery)
	if err != nil {
		return zero, fmt.Errorf("failed to parse jq query: %w", err)
	}

	normalizedValue, err := convertValue(value)
	if err != nil {
		return zero, err
	}

	result, ok := compiledQuery.Run(normalizedValue).Next()
	if !ok {
		return zero, nil
	}

	if err, isErr := result.(error); isErr {
		return zero, fmt.Errorf("jq query error: %w", err)
	}

	if result == nil {
		return zero, ErrNotFound
	}

	if typed, ok := result.(T); ok {
		return typed, nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return zero, fmt.Errorf("marshaling query result: %w", err)
	}

	var convertedResult T
	if err := json.Unmarshal(data, &convertedResult); err != nil {
		return zero, fmt.Errorf("unmarshaling to type %T: %w", zero, err)
	}

	return convertedResult, nil
}

// Predicate returns a filter function that evaluates a JQ boolean expression
// against an unstructured object. Returns true when the expression evaluates
// to true, false otherwise. Field-not-found and type mismatch errors are
// treated as false (no match), not as errors.
func Predicate(expression string) func(*unstructured.Unstructured) (bool, error) {
	return func(obj *unstructured.Unstructured) (bool, error) {
		result, err := Query[bool](obj, expression)
		if err != nil {
			return false, nil //nolint:nilerr // Missing field means no match.
		}

		return result, nil
	}
}
