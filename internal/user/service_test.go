// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/mediacat/internal/core"
)

type fakeRepo struct {
	Repository

	byUsername map[string]*User
	duplicate  string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byUsername: make(map[string]*User)}
}

func (f *fakeRepo) Create(_ context.Context, u *User) error {
	if f.duplicate != "" {
		return fmt.Errorf("create user (%s): %w", f.duplicate, core.ErrDuplicateKey)
	}
	f.byUsername[u.Username] = u
	return nil
}

func (f *fakeRepo) GetByUsername(
	_ context.Context,
	username string,
) (*User, error) {
	u, ok := f.byUsername[username]
	if !ok {
		return nil, fmt.Errorf("get user by username: %w", core.ErrNotFound)
	}
	return u, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*User, error) {
	for _, u := range f.byUsername {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
}

func (f *fakeRepo) Update(_ context.Context, u *User) error {
	f.byUsername[u.Username] = u
	return nil
}

func (f *fakeRepo) UpdateConfirmationCode(
	_ context.Context,
	id, code string,
) error {
	for _, u := range f.byUsername {
		if u.ID == id {
			u.ConfirmationCode = code
			return nil
		}
	}
	return fmt.Errorf("update confirmation code: %w", core.ErrNotFound)
}

func (f *fakeRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range f.byUsername {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func TestCreateRejectsReservedUsername(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Username: ReservedUsername,
		Email:    "me@example.com",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestCreateDefaultsAndNormalizes(t *testing.T) {
	svc := NewService(newFakeRepo())

	u, err := svc.Create(context.Background(), CreateUserRequest{
		Username: "alice",
		Email:    "Alice@Example.COM",
	})
	require.NoError(t, err)

	assert.Equal(t, RoleUser, u.Role, "role defaults to user")
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEmpty(t, u.ID)
}

func TestCreateWithExplicitRole(t *testing.T) {
	svc := NewService(newFakeRepo())

	u, err := svc.Create(context.Background(), CreateUserRequest{
		Username: "mia",
		Email:    "mia@example.com",
		Role:     "moderator",
	})
	require.NoError(t, err)

	assert.Equal(t, RoleModerator, u.Role)
}

func TestCreateMapsDuplicateConstraints(t *testing.T) {
	tests := []struct {
		constraint string
		wantMsg    string
	}{
		{"users_username_key", "username already registered"},
		{"users_email_key", "email already registered"},
		{"something_else", "user already registered"},
	}

	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			repo := newFakeRepo()
			repo.duplicate = tt.constraint
			svc := NewService(repo)

			_, err := svc.Create(context.Background(), CreateUserRequest{
				Username: "alice",
				Email:    "alice@example.com",
			})

			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrAlreadyExists)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestUpdateMeCannotTouchRole(t *testing.T) {
	repo := newFakeRepo()
	repo.byUsername["alice"] = &User{
		ID:       "id-1",
		Username: "alice",
		Email:    "alice@example.com",
		Role:     RoleUser,
	}
	svc := NewService(repo)

	bio := "hello"
	u, err := svc.UpdateMe(context.Background(), "id-1", UpdateMeRequest{
		Bio: &bio,
	})
	require.NoError(t, err)

	assert.Equal(t, "hello", u.Bio)
	assert.Equal(t, RoleUser, u.Role)
}

func TestUpdateMeRequiresIdentity(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.UpdateMe(context.Background(), "", UpdateMeRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestRotateConfirmationCode(t *testing.T) {
	repo := newFakeRepo()
	repo.byUsername["alice"] = &User{
		ID:               "id-1",
		Username:         "alice",
		Email:            "alice@example.com",
		Role:             RoleUser,
		ConfirmationCode: "111111",
	}
	svc := NewService(repo)

	err := svc.RotateConfirmationCode(context.Background(), "id-1", "222222")
	require.NoError(t, err)
	assert.Equal(t, "222222", repo.byUsername["alice"].ConfirmationCode)

	err = svc.RotateConfirmationCode(context.Background(), "ghost", "333333")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestAdminUpdateCanChangeRole(t *testing.T) {
	repo := newFakeRepo()
	repo.byUsername["alice"] = &User{
		ID:       "id-1",
		Username: "alice",
		Email:    "alice@example.com",
		Role:     RoleUser,
	}
	svc := NewService(repo)

	role := "moderator"
	u, err := svc.Update(context.Background(), "alice", UpdateUserRequest{
		Role: &role,
	})
	require.NoError(t, err)

	assert.Equal(t, RoleModerator, u.Role)
}
