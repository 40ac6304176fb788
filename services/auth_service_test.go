package services

import (
	"context"
	"testing"

	"github.com/hooplab/courtside/models"
	"github.com/hooplab/courtside/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	byEmail map[string]*models.User
	nextID  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*models.User), nextID: 1}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if _, ok := r.byEmail[user.Email]; ok {
		return repositories.ErrUserEmailConflict
	}
	user.ID = r.nextID
	r.nextID++
	stored := *user
	r.byEmail[user.Email] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func TestRegisterAndLogin(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	user, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Ava",
		LastName:  "Stone",
		Email:     "Ava@Example.com",
		Password:  "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "ava@example.com", user.Email)
	assert.Equal(t, models.RolePlayer, user.Role)
	assert.Empty(t, user.PasswordHash)

	loggedIn, err := svc.Login(context.Background(), LoginInput{
		Email:    "ava@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.Empty(t, loggedIn.PasswordHash)
}

func TestRegisterValidation(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "not-an-email",
		Password: "short",
		Role:     "referee",
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Violations, 4)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	input := RegisterInput{FirstName: "Ava", Email: "ava@example.com", Password: "correct-horse"}
	_, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), input)
	assert.ErrorIs(t, err, ErrAuthEmailTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	_, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Ava", Email: "ava@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginInput{Email: "ava@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrAuthInvalidCredentials)

	_, err = svc.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrAuthInvalidCredentials)
}
