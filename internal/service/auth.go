package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/CesarOvidioGutierrez/dashboard-SaaS-gestion-de-tareas/internal/model"
	"github.com/CesarOvidioGutierrez/dashboard-SaaS-gestion-de-tareas/internal/repo"
	"github.com/CesarOvidioGutierrez/dashboard-SaaS-gestion-de-tareas/internal/token"
)

// AuthService handles registration and login, issuing a bearer token
// on both.
type AuthService struct {
	users  repo.UserRepository
	tokens *token.Manager
}

func NewAuthService(users repo.UserRepository, tokens *token.Manager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register creates a new user with a bcrypt-hashed password and issues
// a token. Either a taken username or a taken email fails with
// repo.ErrorConflict before anything is written.
func (s *AuthService) Register(ctx context.Context, in model.RegisterInput) (model.User, string, error) {
	if err := validateRegister(in); err != nil {
		return model.User{}, "", err
	}

	taken, err := s.users.ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		return model.User{}, "", err
	}
	if taken {
		return model.User{}, "", repo.ErrorConflict
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, "", err
	}

	user, err := s.users.Create(ctx, model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return model.User{}, "", err
	}

	tok, err := s.tokens.Issue(user)
	if err != nil {
		return model.User{}, "", err
	}
	return user, tok, nil
}

// Login verifies the credentials and issues a fresh token. Unknown
// username and wrong password both fail with ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in model.LoginInput) (model.User, string, error) {
	if err := validateLogin(in); err != nil {
		return model.User{}, "", err
	}

	user, err := s.users.GetByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, repo.ErrorNotFound) {
			return model.User{}, "", ErrInvalidCredentials
		}
		return model.User{}, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return model.User{}, "", ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(user)
	if err != nil {
		return model.User{}, "", err
	}
	return user, tok, nil
}

func validateRegister(in model.RegisterInput) error {
	fields := make(map[string]string)
	if strings.TrimSpace(in.Username) == "" {
		fields["username"] = "is required"
	}
	if strings.TrimSpace(in.Email) == "" {
		fields["email"] = "is required"
	}
	if in.Password == "" {
		fields["password"] = "is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func validateLogin(in model.LoginInput) error {
	fields := make(map[string]string)
	if in.Username == "" {
		fields["username"] = "is required"
	}
	if in.Password == "" {
		fields["password"] = "is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
