package services

import (
	"context"

	"fabstore/models"
	"fabstore/repository"

	"github.com/rs/zerolog"
)

// Identity is what the identity provider asserts about the caller.
type Identity struct {
	ExternalID string
	Email      string
	Name       string
	Role       string
}

type UserService struct {
	users repository.UserRepository
	log   zerolog.Logger
}

func NewUserService(repos Repositories, log zerolog.Logger) *UserService {
	return &UserService{
		users: repos.Users,
		log:   log.With().Str("component", "users").Logger(),
	}
}

// EnsureUser records the caller on first sight and returns the stored user.
// The effective role is admin when either the token or the stored record
// says so.
func (s *UserService) EnsureUser(ctx context.Context, id Identity) (*models.User, error) {
	if id.ExternalID == "" {
		return nil, ErrUnauthenticated
	}
	role := id.Role
	if !models.ValidRole(role) {
		role = models.RoleUser
	}

	user, err := s.users.EnsureUser(ctx, &models.User{
		ExternalID: id.ExternalID,
		Email:      id.Email,
		Name:       id.Name,
		Role:       role,
	})
	if err != nil {
		return nil, err
	}
	if role == models.RoleAdmin {
		user.Role = models.RoleAdmin
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) UpdateRole(ctx context.Context, externalID, role string) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, invalid("Invalid role %q", role)
	}
	user, err := s.users.UpdateRole(ctx, externalID, role)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", externalID).Str("role", role).Msg("user role updated")
	return user, nil
}
