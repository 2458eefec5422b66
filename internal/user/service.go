// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/mediacat/internal/auth"
	"github.com/carterperez-dev/mediacat/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(
	ctx context.Context,
	req CreateUserRequest,
) (*User, error) {
	if req.Username == ReservedUsername {
		return nil, fmt.Errorf(
			"this username is reserved: %w",
			core.ErrInvalidInput,
		)
	}

	role := RoleUser
	if req.Role != "" {
		role = Role(req.Role)
	}

	u := &User{
		ID:        uuid.New().String(),
		Username:  req.Username,
		Email:     strings.ToLower(req.Email),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      role,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, mapDuplicate(err)
	}

	return u, nil
}

func (s *Service) GetByUsername(
	ctx context.Context,
	username string,
) (*User, error) {
	return s.repo.GetByUsername(ctx, username)
}

func (s *Service) Update(
	ctx context.Context,
	username string,
	req UpdateUserRequest,
) (*User, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		u.Email = strings.ToLower(*req.Email)
	}
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.Bio != nil {
		u.Bio = *req.Bio
	}
	if req.Role != nil {
		u.Role = Role(*req.Role)
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, mapDuplicate(err)
	}

	return u, nil
}

func (s *Service) Delete(ctx context.Context, username string) error {
	return s.repo.DeleteByUsername(ctx, username)
}

func (s *Service) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) GetMe(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("get me: %w", core.ErrUnauthorized)
	}

	return s.repo.GetByID(ctx, userID)
}

// UpdateMe updates the caller's own profile. The role field is not part of
// UpdateMeRequest, so it cannot be changed here.
func (s *Service) UpdateMe(
	ctx context.Context,
	userID string,
	req UpdateMeRequest,
) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("update me: %w", core.ErrUnauthorized)
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		u.Email = strings.ToLower(*req.Email)
	}
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.Bio != nil {
		u.Bio = *req.Bio
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, mapDuplicate(err)
	}

	return u, nil
}

// EmailExists implements auth.UserStore.
func (s *Service) EmailExists(
	ctx context.Context,
	email string,
) (bool, error) {
	return s.repo.ExistsByEmail(ctx, strings.ToLower(email))
}

// CreateUnconfirmed implements auth.UserStore.
func (s *Service) CreateUnconfirmed(
	ctx context.Context,
	username, email, code string,
) (*auth.UserAccount, error) {
	u := &User{
		ID:               uuid.New().String(),
		Username:         username,
		Email:            strings.ToLower(email),
		Role:             RoleUser,
		ConfirmationCode: code,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, mapDuplicate(err)
	}

	return toAccount(u), nil
}

// AccountByUsername implements auth.UserStore.
func (s *Service) AccountByUsername(
	ctx context.Context,
	username string,
) (*auth.UserAccount, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	return toAccount(u), nil
}

// RotateConfirmationCode implements auth.UserStore.
func (s *Service) RotateConfirmationCode(
	ctx context.Context,
	id, code string,
) error {
	return s.repo.UpdateConfirmationCode(ctx, id, code)
}

func toAccount(u *User) *auth.UserAccount {
	return &auth.UserAccount{
		ID:               u.ID,
		Username:         u.Username,
		Email:            u.Email,
		Role:             u.Role.String(),
		ConfirmationCode: u.ConfirmationCode,
	}
}

// mapDuplicate turns the repository's duplicate-key sentinel into the
// per-field message the API contract promises.
func mapDuplicate(err error) error {
	if !errors.Is(err, core.ErrDuplicateKey) {
		return err
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "users_username_key"):
		return fmt.Errorf("username already registered: %w", core.ErrAlreadyExists)
	case strings.Contains(msg, "users_email_key"):
		return fmt.Errorf("email already registered: %w", core.ErrAlreadyExists)
	default:
		return fmt.Errorf("user already registered: %w", core.ErrAlreadyExists)
	}
}

var _ auth.UserStore = (*Service)(nil)
