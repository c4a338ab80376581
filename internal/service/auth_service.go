package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"gamelounge/internal/models"
	"gamelounge/internal/password"
	"gamelounge/internal/repository"
)

var (
	// ErrLoginInUse is returned when registering a duplicate operator login.
	ErrLoginInUse = errors.New("auth: login already registered")
	// ErrInvalidCredentials represents login failure.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
)

// OperatorRepository defines storage contract used by the service.
type OperatorRepository interface {
	Create(ctx context.Context, operator *models.Operator) error
	GetByLogin(ctx context.Context, login string) (*models.Operator, error)
}

// AuthService contains operator registration/login logic.
type AuthService struct {
	repo      OperatorRepository
	hasher    password.Hasher
	tokenizer *TokenService
	logger    *zap.Logger
}

// NewAuthService builds AuthService.
func NewAuthService(repo OperatorRepository, hasher password.Hasher, tokenizer *TokenService, logger *zap.Logger) *AuthService {
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		tokenizer: tokenizer,
		logger:    logger,
	}
}

// Signup registers a new operator.
func (s *AuthService) Signup(ctx context.Context, login, plainPassword, role string) (*models.Operator, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	if login == "" {
		return nil, errors.New("auth: login required")
	}
	if plainPassword == "" {
		return nil, errors.New("auth: password required")
	}
	if role == "" {
		role = "operator"
	}

	if _, err := s.repo.GetByLogin(ctx, login); err == nil {
		return nil, ErrLoginInUse
	} else if !errors.Is(err, repository.ErrOperatorNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(plainPassword)
	if err != nil {
		return nil, err
	}

	operator := &models.Operator{
		Login:        login,
		PasswordHash: hash,
		Role:         role,
	}

	if err := s.repo.Create(ctx, operator); err != nil {
		return nil, err
	}

	s.logger.Info("operator signed up", zap.Int64("operator_id", operator.ID), zap.String("login", operator.Login))
	return operator, nil
}

// Login authenticates an operator and produces a JWT.
func (s *AuthService) Login(ctx context.Context, login, plainPassword string) (string, *models.Operator, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	if login == "" || plainPassword == "" {
		return "", nil, ErrInvalidCredentials
	}

	operator, err := s.repo.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrOperatorNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := s.hasher.Compare(operator.PasswordHash, plainPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokenizer.GenerateToken(operator.ID, operator.Role)
	if err != nil {
		return "", nil, err
	}

	return token, operator, nil
}
