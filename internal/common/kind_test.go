package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", fmt.Errorf("username: %w", ErrValidation), KindValidation},
		{"duplicate", fmt.Errorf("error creating user: %w", ErrDuplicateUsername), KindDuplicateUsername},
		{"credentials", ErrInvalidCredentials, KindInvalidCredentials},
		{"missing header", ErrMissingAuthHeader, KindMissingAuthHeader},
		{"invalid token", ErrInvalidToken, KindInvalidToken},
		{"expired token", fmt.Errorf("parse: %w", ErrTokenExpired), KindInvalidToken},
		{"not found", ErrorNotFound, KindNotFound},
		{"driver error", errors.New("connection refused"), KindStore},
		{"internal", ErrorInternal, KindStore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}
