package main

import (
	"context"
	"testing"
	"time"

	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUsers struct {
	repository.UserRepository
	byEmail map[string]*entity.User
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}

	return nil, domainerrors.ErrUserNotFound
}

func (m *memUsers) Create(_ context.Context, user *entity.User) error {
	user.ID = uuid.New()
	m.byEmail[user.Email] = user

	return nil
}

type memRoles struct {
	repository.RoleRepository
	roles map[string]*entity.Role
}

func (m *memRoles) FindRoleBySlug(_ context.Context, slug string) (*entity.Role, error) {
	if r, ok := m.roles[slug]; ok {
		return r, nil
	}

	return nil, domainerrors.ErrRoleNotFound
}

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
func (plainHasher) Check(p, h string) bool { return h == "hashed:"+p }

func TestCreateAdmin(t *testing.T) {
	admin := &entity.Role{ID: uuid.New(), Slug: "admin"}
	users := &memUsers{byEmail: map[string]*entity.User{}}
	roles := &memRoles{roles: map[string]*entity.Role{"admin": admin}}

	user, err := createAdmin(context.Background(), users, roles, plainHasher{}, &adminInput{
		Email: " Pastor@Example.org ", Password: "s3cret-pass", Name: "Church Admin",
	})
	require.NoError(t, err)

	assert.Equal(t, "pastor@example.org", user.Email)
	assert.Equal(t, entity.UserStatusActive, user.Status)
	assert.Equal(t, "hashed:s3cret-pass", user.PasswordHash)
	require.NotNil(t, user.VerifiedAt)
	assert.WithinDuration(t, time.Now(), *user.VerifiedAt, time.Minute)
	assert.Equal(t, []*entity.Role{admin}, user.Roles)

	_, err = createAdmin(context.Background(), users, roles, plainHasher{}, &adminInput{
		Email: "pastor@example.org", Password: "another-pass", Name: "Again",
	})
	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestCreateAdminRequiresSeededRole(t *testing.T) {
	users := &memUsers{byEmail: map[string]*entity.User{}}
	roles := &memRoles{roles: map[string]*entity.Role{}}

	_, err := createAdmin(context.Background(), users, roles, plainHasher{}, &adminInput{
		Email: "a@example.org", Password: "s3cret-pass", Name: "A",
	})
	assert.ErrorIs(t, err, domainerrors.ErrRoleNotFound)
	assert.Empty(t, users.byEmail)
}

func TestParseDay(t *testing.T) {
	start, err := parseDay("2026-03-01", false)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *start)

	end, err := parseDay("2026-03-01", true)
	require.NoError(t, err)
	assert.Equal(t, 2026, end.Year())
	assert.Equal(t, 23, end.Hour())

	none, err := parseDay("", false)
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = parseDay("03/01/2026", false)
	assert.Error(t, err)
}
