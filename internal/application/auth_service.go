package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	repo "github.com/oksasatya/go-task-manager/internal/domain/repository"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
)

const MinPasswordLength = 6

type AuthService struct {
	Users  repo.UserRepository
	Hasher *helpers.PasswordHasher
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
}

func NewAuthService(users repo.UserRepository, hasher *helpers.PasswordHasher, jwt *helpers.JWTManager, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, Hasher: hasher, JWT: jwt, Logger: logger}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// AuthResult is returned by Register and Login
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *entity.User
}

// Register creates an account and issues its first session token
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	missing := map[string]string{}
	if in.Username == "" {
		missing["username"] = "is required"
	}
	if in.Email == "" {
		missing["email"] = "is required"
	}
	if in.Password == "" {
		missing["password"] = "is required"
	}
	if len(missing) > 0 {
		return nil, newValidationError("All fields are required", missing)
	}
	if len([]rune(in.Password)) < MinPasswordLength {
		return nil, newValidationError("Password must be at least 6 characters",
			map[string]string{"password": "must be at least 6 characters long"})
	}

	existing, err := s.Users.GetByEmailOrUsername(ctx, in.Email, in.Username)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateIdentity
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Username: in.Username, Email: in.Email, Password: hash}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	helpers.LogInfo(s.Logger, "user registered", logrus.Fields{"user_id": u.ID})
	return s.issue(u)
}

// Login verifies email/password and issues a session token
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, newValidationError("Email and password are required", nil)
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !s.Hasher.Verify(password, u.Password) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

// Me resolves the account behind a verified token
func (s *AuthService) Me(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) issue(u *entity.User) (*AuthResult, error) {
	tok, exp, err := s.JWT.Issue(u.ID)
	if err != nil {
		helpers.LogError(s.Logger, "issue token failed", err, logrus.Fields{"user_id": u.ID})
		return nil, err
	}
	return &AuthResult{Token: tok, ExpiresAt: exp, User: u}, nil
}
