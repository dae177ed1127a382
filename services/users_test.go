package services

import (
	"context"
	"testing"

	"fabstore/models"
	"fabstore/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newUserService() (*UserService, *MockUserRepository) {
	users := new(MockUserRepository)
	return NewUserService(Repositories{Users: users}, zerolog.Nop()), users
}

func TestUserService_EnsureUser(t *testing.T) {
	svc, users := newUserService()
	ctx := context.Background()

	users.On("EnsureUser", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.ExternalID == "ext_1" && u.Role == models.RoleUser
	})).Return(&models.User{ExternalID: "ext_1", Role: models.RoleAdmin}, nil)

	user, err := svc.EnsureUser(ctx, Identity{ExternalID: "ext_1", Email: "a@example.com", Role: "superuser"})

	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
}

func TestUserService_EnsureUser_TokenAdminWins(t *testing.T) {
	svc, users := newUserService()
	ctx := context.Background()

	users.On("EnsureUser", ctx, mock.Anything).Return(&models.User{ExternalID: "ext_1", Role: models.RoleUser}, nil)

	user, err := svc.EnsureUser(ctx, Identity{ExternalID: "ext_1", Role: models.RoleAdmin})

	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
}

func TestUserService_EnsureUser_Anonymous(t *testing.T) {
	svc, _ := newUserService()

	_, err := svc.EnsureUser(context.Background(), Identity{})

	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestUserService_UpdateRole(t *testing.T) {
	svc, users := newUserService()
	ctx := context.Background()

	users.On("UpdateRole", ctx, "ext_1", models.RoleAdmin).Return(&models.User{ExternalID: "ext_1", Role: models.RoleAdmin}, nil)
	users.On("UpdateRole", ctx, "ext_404", models.RoleUser).Return(nil, repository.ErrNotFound)

	user, err := svc.UpdateRole(ctx, "ext_1", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)

	_, err = svc.UpdateRole(ctx, "ext_404", models.RoleUser)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.UpdateRole(ctx, "ext_1", "owner")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}
