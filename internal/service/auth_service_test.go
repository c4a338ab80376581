package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gamelounge/internal/models"
	"gamelounge/internal/password"
	"gamelounge/internal/repository"
)

type fakeOperatorRepo struct {
	operators map[string]*models.Operator
	nextID    int64
}

func newFakeOperatorRepo() *fakeOperatorRepo {
	return &fakeOperatorRepo{operators: make(map[string]*models.Operator), nextID: 1}
}

func (f *fakeOperatorRepo) Create(_ context.Context, operator *models.Operator) error {
	operator.ID = f.nextID
	f.nextID++
	f.operators[operator.Login] = operator
	return nil
}

func (f *fakeOperatorRepo) GetByLogin(_ context.Context, login string) (*models.Operator, error) {
	operator, ok := f.operators[login]
	if !ok {
		return nil, repository.ErrOperatorNotFound
	}
	return operator, nil
}

func newTestAuthService() (*AuthService, *TokenService) {
	tokens := NewTokenService("test-secret", time.Hour)
	svc := NewAuthService(newFakeOperatorRepo(), password.NewBcryptHasher(4), tokens, zap.NewNop())
	return svc, tokens
}

func TestSignupAndLogin(t *testing.T) {
	svc, tokens := newTestAuthService()
	ctx := context.Background()

	operator, err := svc.Signup(ctx, "Front.Desk", "secret123", "")
	require.NoError(t, err)
	assert.Equal(t, "front.desk", operator.Login)
	assert.Equal(t, "operator", operator.Role)
	assert.NotEqual(t, "secret123", operator.PasswordHash)

	token, logged, err := svc.Login(ctx, "front.desk", "secret123")
	require.NoError(t, err)
	assert.Equal(t, operator.ID, logged.ID)

	claims, err := tokens.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, operator.ID, claims.OperatorID)
	assert.Equal(t, "operator", claims.Role)
}

func TestSignupDuplicateLogin(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, "desk", "secret123", "admin")
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "DESK", "other", "")
	assert.ErrorIs(t, err, ErrLoginInUse)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, "desk", "secret123", "")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "desk", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownOperator(t *testing.T) {
	svc, _ := newTestAuthService()

	_, _, err := svc.Login(context.Background(), "ghost", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateTokenRejectsForgery(t *testing.T) {
	tokens := NewTokenService("real-secret", time.Hour)
	forged := NewTokenService("other-secret", time.Hour)

	token, err := forged.GenerateToken(1, "admin")
	require.NoError(t, err)

	_, err = tokens.ValidateToken(token)
	assert.Error(t, err)
}
