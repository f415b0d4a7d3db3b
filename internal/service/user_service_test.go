package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "moviereview/internal/errors"
	"moviereview/internal/model"
)

func TestUserService_CreateUser(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		email         string
		role          model.Role
		setupMock     func(*MockUserRepository)
		expectedError error
		expectedRole  model.Role
	}{
		{
			name:     "successful registration with default role",
			username: "alice",
			email:    "alice@x.com",
			role:     "",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound)
				m.On("FindByEmail", mock.Anything, "alice@x.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedRole: model.RoleUser,
		},
		{
			name:     "explicit admin role",
			username: "root",
			email:    "root@x.com",
			role:     model.RoleAdmin,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "root").Return(nil, gorm.ErrRecordNotFound)
				m.On("FindByEmail", mock.Anything, "root@x.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedRole: model.RoleAdmin,
		},
		{
			name:     "duplicate username",
			username: "alice",
			email:    "other@x.com",
			role:     model.RoleUser,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(&model.User{Username: "alice"}, nil)
			},
			expectedError: apperrors.ErrDuplicateUsername,
		},
		{
			name:     "duplicate email",
			username: "alice2",
			email:    "alice@x.com",
			role:     model.RoleUser,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice2").Return(nil, gorm.ErrRecordNotFound)
				m.On("FindByEmail", mock.Anything, "alice@x.com").Return(&model.User{Email: "alice@x.com"}, nil)
			},
			expectedError: apperrors.ErrDuplicateEmail,
		},
		{
			// Pre-checks pass but a concurrent registration wins the insert;
			// the storage-level conflict must surface as the same sentinel.
			name:     "lost race surfaces storage conflict",
			username: "alice",
			email:    "alice@x.com",
			role:     model.RoleUser,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound)
				m.On("FindByEmail", mock.Anything, "alice@x.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(apperrors.ErrDuplicateUsername)
			},
			expectedError: apperrors.ErrDuplicateUsername,
		},
		{
			name:          "unknown role rejected",
			username:      "bob",
			email:         "bob@x.com",
			role:          "SUPERUSER",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrInvalidRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			tt.setupMock(repo)

			svc := NewUserService(repo)
			user, err := svc.CreateUser(context.Background(), tt.username, "pw123456", tt.email, tt.role)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedRole, user.Role)
				// Password must be stored only as a hash.
				assert.NotEqual(t, "pw123456", user.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pw123456")))
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestUserService_ValidatePassword(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("pw123456"), bcrypt.MinCost)
	assert.NoError(t, err)
	user := &model.User{PasswordHash: string(hashed)}

	svc := NewUserService(new(MockUserRepository))
	assert.True(t, svc.ValidatePassword(user, "pw123456"))
	assert.False(t, svc.ValidatePassword(user, "wrong"))
	assert.False(t, svc.ValidatePassword(user, ""))
}

func TestUserService_FindByUsername_NotFound(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

	svc := NewUserService(repo)
	user, err := svc.FindByUsername(context.Background(), "ghost")

	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	assert.Nil(t, user)
}

func TestUserService_DeleteUser(t *testing.T) {
	id := uuid.New()

	t.Run("cascades reviews with the user row", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, id).Return(&model.User{ID: id}, nil)
		repo.On("DeleteWithReviews", mock.Anything, id).Return(nil)

		svc := NewUserService(repo)
		assert.NoError(t, svc.DeleteUser(context.Background(), id))
		repo.AssertExpectations(t)
	})

	t.Run("missing user", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

		svc := NewUserService(repo)
		assert.ErrorIs(t, svc.DeleteUser(context.Background(), id), apperrors.ErrUserNotFound)
	})
}
