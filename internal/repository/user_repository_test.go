package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"

	apperrors "moviereview/internal/errors"
)

func TestTranslateUserDuplicate(t *testing.T) {
	opaque := errors.New("connection reset")

	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{
			name:     "duplicate username index",
			err:      &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'alice' for key 'users.idx_users_username'"},
			expected: apperrors.ErrDuplicateUsername,
		},
		{
			name:     "duplicate email index",
			err:      &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'alice@x.com' for key 'users.idx_users_email'"},
			expected: apperrors.ErrDuplicateEmail,
		},
		{
			name:     "wrapped duplicate still translated",
			err:      fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'alice@x.com' for key 'users.idx_users_email'"}),
			expected: apperrors.ErrDuplicateEmail,
		},
		{
			name:     "other mysql error passes through",
			err:      &mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"},
			expected: nil,
		},
		{
			name:     "non-mysql error passes through",
			err:      opaque,
			expected: nil,
		},
		{
			name:     "nil passes through",
			err:      nil,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateUserDuplicate(tt.err)
			if tt.expected != nil {
				assert.ErrorIs(t, got, tt.expected)
			} else {
				assert.Equal(t, tt.err, got)
			}
		})
	}
}
