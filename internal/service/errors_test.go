package service

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsValidation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "direct validation error",
			err:  ValidationError{Message: "url is required"},
			want: true,
		},
		{
			name: "wrapped validation error",
			err:  fmt.Errorf("upsert page: %w", ValidationError{Message: "url is required"}),
			want: true,
		},
		{
			name: "other error",
			err:  errors.New("database is locked"),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidation(tt.err); got != tt.want {
				t.Errorf("IsValidation() = %v, want %v", got, tt.want)
			}
		})
	}
}
