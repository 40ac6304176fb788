package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hooplab/courtside/models"
	"github.com/hooplab/courtside/repositories"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type RegisterInput struct {
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Email     string          `json:"email"`
	Password  string          `json:"password"`
	Role      models.UserRole `json:"role"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, input LoginInput) (*models.User, error)
}

type authService struct {
	userRepo repositories.UserRepository
}

func NewAuthService(userRepo repositories.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	violations := make([]string, 0)
	if strings.TrimSpace(input.FirstName) == "" {
		violations = append(violations, "first name is required")
	}
	if strings.TrimSpace(input.Email) == "" || !strings.Contains(input.Email, "@") {
		violations = append(violations, "a valid email is required")
	}
	if len(input.Password) < minPasswordLength {
		violations = append(violations, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if input.Role == "" {
		input.Role = models.RolePlayer
	}
	if !input.Role.Valid() {
		violations = append(violations, fmt.Sprintf("unknown role %q", input.Role))
	}
	if len(violations) > 0 {
		return nil, newValidationError(violations)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: string(hashed),
		Role:         input.Role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, ErrAuthEmailTaken
		}
		return nil, wrapRepoError("create user", err)
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrAuthInvalidCredentials
		}
		return nil, wrapRepoError("find user by email", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrAuthInvalidCredentials
		}
		return nil, fmt.Errorf("compare password hash: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}
