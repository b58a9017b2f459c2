package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/bravo6co-debug/SMS-solapi/internal/domain"
)

type userStore interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, username, hashedPassword, name string) (*domain.User, error)
}

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// AuthService manages user accounts and credential checks. Session
// lifecycle lives in the handler layer on top of the session store.
type AuthService struct {
	users userStore
}

func NewAuthService(users userStore) *AuthService {
	return &AuthService{users: users}
}

func (s *AuthService) Signup(ctx context.Context, username, password, name string) (*domain.User, error) {
	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return s.users.Create(ctx, username, string(hashed), name)
}

func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *AuthService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}
