package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"designmarket/internal/domain"
	jwtsvc "designmarket/internal/pkg/jwt"
	"designmarket/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

func setupAuthService(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))

	return NewService(repository.NewUserRepository(db), jwtsvc.New("test-secret", time.Hour))
}

func TestRegisterAndLogin(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterRequest{
		Email:    "Anna@Example.com",
		Password: "p@ssw0rd-123",
		Name:     "Anna",
		Role:     "client",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, domain.RoleClient, result.User.Role)
	assert.Equal(t, "anna@example.com", result.User.Email)
	assert.Empty(t, result.User.PasswordHash)

	login, err := svc.Login(ctx, LoginRequest{Email: "anna@example.com", Password: "p@ssw0rd-123"})
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, login.User.ID)
	assert.NotEmpty(t, login.Token)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Email: "dup@example.com", Password: "password1", Name: "First", Role: "designer"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Email: "dup@example.com", Password: "password2", Name: "Second", Role: "client"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	svc := setupAuthService(t)

	_, err := svc.Register(context.Background(), RegisterRequest{Email: "root@example.com", Password: "password1", Name: "Root", Role: "admin"})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Email: "bob@example.com", Password: "correct-horse", Name: "Bob", Role: "designer"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{Email: "bob@example.com", Password: "battery-staple"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := setupAuthService(t)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "whatever1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
