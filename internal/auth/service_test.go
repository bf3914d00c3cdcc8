package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aeroparkhq/aeropark-backend/internal/users"
	pkgAuth "github.com/aeroparkhq/aeropark-backend/pkg/auth"
	"github.com/aeroparkhq/aeropark-backend/pkg/auth/session"
	"github.com/aeroparkhq/aeropark-backend/pkg/config"
	"github.com/aeroparkhq/aeropark-backend/pkg/db/models"
	"github.com/aeroparkhq/aeropark-backend/pkg/enums"
	pkgerrors "github.com/aeroparkhq/aeropark-backend/pkg/errors"
	"github.com/aeroparkhq/aeropark-backend/pkg/security"
)

type stubUserRepo struct {
	byEmail map[string]*models.User
	byID    map[uuid.UUID]*models.User
}

func newStubUserRepo(existing ...*models.User) *stubUserRepo {
	repo := &stubUserRepo{
		byEmail: make(map[string]*models.User),
		byID:    make(map[uuid.UUID]*models.User),
	}
	for _, user := range existing {
		repo.byEmail[user.Email] = user
		repo.byID[user.ID] = user
	}
	return repo
}

func (s *stubUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	user.ID = uuid.New()
	s.byEmail[user.Email] = user
	s.byID[user.ID] = user
	return user, nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if user, ok := s.byID[id]; ok {
		user.LastLoginAt = &at
	}
	return nil
}

type stubSessionManager struct {
	generated  []uuid.UUID
	revoked    []string
	revokedAll []uuid.UUID
	rotateUser uuid.UUID
	rotateErr  error
}

func (s *stubSessionManager) Generate(ctx context.Context, userID uuid.UUID) (string, error) {
	s.generated = append(s.generated, userID)
	return "refresh-" + userID.String(), nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, provided string) (uuid.UUID, string, error) {
	if s.rotateErr != nil {
		return uuid.Nil, "", s.rotateErr
	}
	return s.rotateUser, "rotated-" + provided, nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, provided string) error {
	s.revoked = append(s.revoked, provided)
	return nil
}

func (s *stubSessionManager) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	s.revokedAll = append(s.revokedAll, userID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret-test-secret-test-key",
		Issuer:                 "aeropark-test",
		ExpirationMinutes:      15,
		RefreshTokenTTLMinutes: 43200,
	}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig())
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	return hash
}

func newTestService(t *testing.T, repo userRepository, sessions sessionManager) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: testPasswordConfig(),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func activeUser(t *testing.T, password string, role enums.UserRole) *models.User {
	t.Helper()
	return &models.User{
		ID:           uuid.New(),
		Email:        "driver@example.com",
		PasswordHash: mustHashPassword(t, password),
		FullName:     "Alex Driver",
		Role:         role,
		IsActive:     true,
	}
}

func TestRegisterIssuesTokens(t *testing.T) {
	repo := newStubUserRepo()
	sessions := &stubSessionManager{}
	svc := newTestService(t, repo, sessions)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "New.Driver@Example.com",
		Password: "hunter2hunter2",
		FullName: "New Driver",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatalf("expected token pair, got %+v", resp.TokenPair)
	}
	if resp.User.Email != "new.driver@example.com" {
		t.Fatalf("expected lowercased email, got %q", resp.User.Email)
	}
	if resp.User.Role != enums.UserRoleCustomer {
		t.Fatalf("expected customer role, got %s", resp.User.Role)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != resp.User.ID {
		t.Fatalf("expected subject %s, got %s", resp.User.ID, claims.UserID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	existing := activeUser(t, "hunter2hunter2", enums.UserRoleCustomer)
	svc := newTestService(t, newStubUserRepo(existing), &stubSessionManager{})

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    existing.Email,
		Password: "hunter2hunter2",
		FullName: "Someone Else",
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	user := activeUser(t, "hunter2hunter2", enums.UserRoleStaff)
	repo := newStubUserRepo(user)
	sessions := &stubSessionManager{}
	svc := newTestService(t, repo, sessions)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Driver@Example.com",
		Password: "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.User.LastLoginAt == nil {
		t.Fatalf("expected last login recorded")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.Role != enums.UserRoleStaff {
		t.Fatalf("expected staff role claim, got %s", claims.Role)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	user := activeUser(t, "hunter2hunter2", enums.UserRoleCustomer)
	svc := newTestService(t, newStubUserRepo(user), &stubSessionManager{})

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "wrong-password",
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginInactiveUser(t *testing.T) {
	user := activeUser(t, "hunter2hunter2", enums.UserRoleCustomer)
	user.IsActive = false
	svc := newTestService(t, newStubUserRepo(user), &stubSessionManager{})

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "hunter2hunter2",
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	user := activeUser(t, "hunter2hunter2", enums.UserRoleCustomer)
	sessions := &stubSessionManager{rotateUser: user.ID}
	svc := newTestService(t, newStubUserRepo(user), sessions)

	pair, err := svc.Refresh(context.Background(), RefreshRequest{RefreshToken: "old-token"})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if pair.RefreshToken != "rotated-old-token" {
		t.Fatalf("expected rotated token, got %q", pair.RefreshToken)
	}
	if pair.AccessToken == "" {
		t.Fatalf("expected fresh access token")
	}
}

func TestRefreshInvalidToken(t *testing.T) {
	sessions := &stubSessionManager{rotateErr: session.ErrInvalidRefreshToken}
	svc := newTestService(t, newStubUserRepo(), sessions)

	_, err := svc.Refresh(context.Background(), RefreshRequest{RefreshToken: "bogus"})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogoutEverywhere(t *testing.T) {
	user := activeUser(t, "hunter2hunter2", enums.UserRoleCustomer)
	sessions := &stubSessionManager{}
	svc := newTestService(t, newStubUserRepo(user), sessions)

	err := svc.Logout(context.Background(), user.ID, LogoutRequest{Everywhere: true})
	if err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(sessions.revokedAll) != 1 || sessions.revokedAll[0] != user.ID {
		t.Fatalf("expected revoke all for user, got %v", sessions.revokedAll)
	}
}

func TestLogoutSingleSession(t *testing.T) {
	sessions := &stubSessionManager{}
	svc := newTestService(t, newStubUserRepo(), sessions)

	err := svc.Logout(context.Background(), uuid.New(), LogoutRequest{RefreshToken: "the-token"})
	if err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "the-token" {
		t.Fatalf("expected single token revoked, got %v", sessions.revoked)
	}
}
