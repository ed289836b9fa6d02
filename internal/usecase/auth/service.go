package auth

import (
	"context"
	"errors"
	"strings"

	"cv-intake/internal/config"
	"cv-intake/internal/pkg/jwt"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInternal           = errors.New("internal error")
)

type LoginInput struct {
	Email    string
	Password string
}

type Tokens struct {
	AccessToken  string
	RefreshToken string
}

type Usecase interface {
	Login(ctx context.Context, in LoginInput) (Tokens, error)
	Refresh(ctx context.Context, refreshToken string) (Tokens, error)
}

// Service authenticates the single operator account configured at startup.
type Service struct {
	operator config.OperatorConfig
	jwt      jwt.Service
}

func NewService(operator config.OperatorConfig, jwtSvc jwt.Service) *Service {
	return &Service{operator: operator, jwt: jwtSvc}
}

func (s *Service) Login(_ context.Context, in LoginInput) (Tokens, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return Tokens{}, ErrInvalidInput
	}

	if !strings.EqualFold(email, s.operator.Email) {
		return Tokens{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.operator.PasswordHash), []byte(in.Password)); err != nil {
		return Tokens{}, ErrInvalidCredentials
	}

	return s.issue(email)
}

func (s *Service) Refresh(_ context.Context, refreshToken string) (Tokens, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return Tokens{}, ErrInvalidInput
	}

	claims, err := s.jwt.ValidateToken(refreshToken)
	if err != nil {
		return Tokens{}, ErrInvalidCredentials
	}
	if !s.jwt.IsRefreshToken(claims) {
		return Tokens{}, ErrInvalidCredentials
	}
	if !strings.EqualFold(claims.Email, s.operator.Email) {
		return Tokens{}, ErrInvalidCredentials
	}

	return s.issue(claims.Email)
}

func (s *Service) issue(email string) (Tokens, error) {
	access, err := s.jwt.GenerateAccessToken(email)
	if err != nil {
		return Tokens{}, ErrInternal
	}
	refresh, err := s.jwt.GenerateRefreshToken(email)
	if err != nil {
		return Tokens{}, ErrInternal
	}
	return Tokens{AccessToken: access, RefreshToken: refresh}, nil
}

var _ Usecase = (*Service)(nil)
