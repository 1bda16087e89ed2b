// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      *DomainError
		expected string
	}{
		{
			name:     "message only",
			err:      NewValidationError("bad input"),
			expected: "bad input",
		},
		{
			name:     "message with wrapped error",
			err:      NewInternalError("insert failed", errors.New("connection reset")),
			expected: "insert failed: connection reset",
		},
		{
			name:     "message with multiple wrapped errors",
			err:      NewInternalError("insert failed", errors.New("a"), errors.New("b")),
			expected: "insert failed: a\nb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestGetErrorType(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorType
	}{
		{
			name:     "validation error",
			err:      NewValidationError("bad input"),
			expected: ErrorTypeValidation,
		},
		{
			name:     "not found error",
			err:      NewNotFoundError("no such meeting"),
			expected: ErrorTypeNotFound,
		},
		{
			name:     "conflict error",
			err:      NewConflictError("already calibrating"),
			expected: ErrorTypeConflict,
		},
		{
			name:     "internal error",
			err:      NewInternalError("boom"),
			expected: ErrorTypeInternal,
		},
		{
			name:     "unavailable error",
			err:      NewUnavailableError("warehouse down"),
			expected: ErrorTypeUnavailable,
		},
		{
			name:     "wrapped domain error",
			err:      fmt.Errorf("handling event: %w", NewNotFoundError("no mapping")),
			expected: ErrorTypeNotFound,
		},
		{
			name:     "plain error defaults to internal",
			err:      errors.New("plain"),
			expected: ErrorTypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetErrorType(tt.err))
		})
	}
}

func TestDomainErrorUnwrap(t *testing.T) {
	inner := errors.New("inner")
	err := NewInternalError("outer", inner)
	assert.True(t, errors.Is(err, inner))
}
