package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/aeroparkhq/aeropark-backend/internal/auth"
	"github.com/aeroparkhq/aeropark-backend/internal/availability"
	"github.com/aeroparkhq/aeropark-backend/internal/bookings"
	"github.com/aeroparkhq/aeropark-backend/internal/garage"
	"github.com/aeroparkhq/aeropark-backend/internal/paymentmethods"
	"github.com/aeroparkhq/aeropark-backend/internal/users"
	"github.com/aeroparkhq/aeropark-backend/internal/vehicles"
	pkgauth "github.com/aeroparkhq/aeropark-backend/pkg/auth"
	"github.com/aeroparkhq/aeropark-backend/pkg/auth/session"
	"github.com/aeroparkhq/aeropark-backend/pkg/config"
	"github.com/aeroparkhq/aeropark-backend/pkg/db/models"
	"github.com/aeroparkhq/aeropark-backend/pkg/enums"
	"github.com/aeroparkhq/aeropark-backend/pkg/logger"
	"github.com/aeroparkhq/aeropark-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(ctx context.Context) error { return nil }

type stubAuthService struct{}

func (stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{}, nil
}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{}, nil
}

func (stubAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.TokenPair, error) {
	return &auth.TokenPair{}, nil
}

func (stubAuthService) Logout(ctx context.Context, userID uuid.UUID, req auth.LogoutRequest) error {
	return nil
}

type stubUsersService struct{}

func (stubUsersService) GetProfile(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	return &users.UserDTO{ID: userID}, nil
}

func (stubUsersService) UpdateProfile(ctx context.Context, userID uuid.UUID, input users.UpdateProfileInput) (*users.UserDTO, error) {
	return &users.UserDTO{ID: userID}, nil
}

func (stubUsersService) ChangePassword(ctx context.Context, userID uuid.UUID, input users.ChangePasswordInput) error {
	return nil
}

type stubVehiclesService struct{}

func (stubVehiclesService) Create(ctx context.Context, userID uuid.UUID, input vehicles.CreateInput) (*models.Vehicle, error) {
	return &models.Vehicle{}, nil
}

func (stubVehiclesService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Vehicle, error) {
	return &models.Vehicle{}, nil
}

func (stubVehiclesService) List(ctx context.Context, userID uuid.UUID) ([]models.Vehicle, error) {
	return nil, nil
}

func (stubVehiclesService) Update(ctx context.Context, userID, id uuid.UUID, input vehicles.UpdateInput) (*models.Vehicle, error) {
	return &models.Vehicle{}, nil
}

func (stubVehiclesService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return nil
}

type stubPaymentsService struct{}

func (stubPaymentsService) Add(ctx context.Context, userID uuid.UUID, input paymentmethods.AddInput) (*models.PaymentMethod, error) {
	return &models.PaymentMethod{}, nil
}

func (stubPaymentsService) List(ctx context.Context, userID uuid.UUID) ([]models.PaymentMethod, error) {
	return nil, nil
}

func (stubPaymentsService) SetDefault(ctx context.Context, userID, id uuid.UUID) (*models.PaymentMethod, error) {
	return &models.PaymentMethod{}, nil
}

func (stubPaymentsService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return nil
}

type stubAvailabilityService struct{}

func (stubAvailabilityService) Check(ctx context.Context, spotType *enums.SpotType, start, end time.Time) (availability.Result, error) {
	return availability.Result{SpotType: spotType, StartDate: start, EndDate: end}, nil
}

type stubBookingsService struct {
	list func(ctx context.Context, actor bookings.Actor, filter bookings.ListFilter, params pagination.Params) (pagination.Page[bookings.View], error)
}

func (s stubBookingsService) Create(ctx context.Context, input bookings.CreateInput) (*bookings.View, error) {
	return &bookings.View{}, nil
}

func (s stubBookingsService) Get(ctx context.Context, actor bookings.Actor, id uuid.UUID) (*bookings.View, error) {
	return &bookings.View{}, nil
}

func (s stubBookingsService) List(ctx context.Context, actor bookings.Actor, filter bookings.ListFilter, params pagination.Params) (pagination.Page[bookings.View], error) {
	if s.list != nil {
		return s.list(ctx, actor, filter, params)
	}
	return pagination.NewPage([]bookings.View{}, 0, params), nil
}

func (s stubBookingsService) Confirm(ctx context.Context, actor bookings.Actor, id uuid.UUID) (*bookings.View, error) {
	return &bookings.View{}, nil
}

func (s stubBookingsService) CheckIn(ctx context.Context, actor bookings.Actor, id uuid.UUID) (*bookings.View, error) {
	return &bookings.View{}, nil
}

func (s stubBookingsService) CheckOut(ctx context.Context, actor bookings.Actor, id uuid.UUID, force bool) (*bookings.CheckOutResult, error) {
	return &bookings.CheckOutResult{}, nil
}

func (s stubBookingsService) Cancel(ctx context.Context, actor bookings.Actor, id uuid.UUID) (*bookings.View, error) {
	return &bookings.View{}, nil
}

type stubAddonsService struct{}

func (stubAddonsService) Attach(ctx context.Context, actor bookings.Actor, bookingID uuid.UUID, addonType enums.AddonType) (*bookings.View, error) {
	return &bookings.View{}, nil
}

func (stubAddonsService) Advance(ctx context.Context, id uuid.UUID) (*models.Addon, error) {
	return &models.Addon{}, nil
}

func (stubAddonsService) Remove(ctx context.Context, actor bookings.Actor, bookingID, addonID uuid.UUID) (*bookings.View, error) {
	return &bookings.View{}, nil
}

type stubGarageService struct{}

func (stubGarageService) GetRates(ctx context.Context) (garage.Rates, error) {
	return garage.Rates{}, nil
}

func (stubGarageService) ListConfig(ctx context.Context) ([]garage.ConfigEntry, error) {
	return nil, nil
}

func (stubGarageService) SetConfig(ctx context.Context, key, value string) error {
	return nil
}

func (stubGarageService) CreateSpot(ctx context.Context, input garage.CreateSpotInput) (*models.ParkingSpot, error) {
	return &models.ParkingSpot{}, nil
}

func (stubGarageService) UpdateSpot(ctx context.Context, id uuid.UUID, input garage.UpdateSpotInput) (*models.ParkingSpot, error) {
	return &models.ParkingSpot{}, nil
}

func (stubGarageService) ListSpots(ctx context.Context, filter garage.SpotFilter, params pagination.Params) (pagination.Page[models.ParkingSpot], error) {
	return pagination.NewPage([]models.ParkingSpot{}, 0, params), nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config, bookingsSvc bookings.Service) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	if bookingsSvc == nil {
		bookingsSvc = stubBookingsService{}
	}
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		nil, // redis disabled
		stubAuthService{},
		stubUsersService{},
		stubVehiclesService{},
		stubPaymentsService{},
		stubAvailabilityService{},
		bookingsSvc,
		stubAddonsService{},
		stubGarageService{},
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	payload := pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    session.NewAccessID(),
	}
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), payload)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveRoute(t *testing.T) {
	router := newTestRouter(testConfig(), nil)
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := resp.Header().Get("X-Aeropark-Env"); got != "test" {
		t.Fatalf("expected env header test got %q", got)
	}
}

func TestPublicPingRoute(t *testing.T) {
	router := newTestRouter(testConfig(), nil)
	req := httptest.NewRequest(http.MethodGet, "/api/public/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestGuestBookingCreateNeedsNoJWT(t *testing.T) {
	router := newTestRouter(testConfig(), nil)
	body := strings.NewReader(`{
		"guest": {"name": "Dana Hale", "email": "dana@example.com"},
		"vehicle": {"licensePlate": "XYZ-9876", "model": "Honda Civic"},
		"spotType": "STANDARD",
		"startDate": "2026-09-10T00:00:00Z",
		"endDate": "2026-09-12T00:00:00Z"
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/public/bookings", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestPublicAvailabilityRoute(t *testing.T) {
	router := newTestRouter(testConfig(), nil)
	req := httptest.NewRequest(http.MethodGet, "/api/public/availability?start=2026-09-10&end=2026-09-12", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig(), nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPrivateGroupAcceptsValidJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, nil)

	nonAdmin := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	nonAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, nonAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestAddonAdvanceRequiresStaffRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, nil)
	target := "/api/v1/bookings/" + uuid.NewString() + "/addons/" + uuid.NewString() + "/advance"

	customer := httptest.NewRequest(http.MethodPost, target, nil)
	customer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, customer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer got %d", resp.Code)
	}

	staff := httptest.NewRequest(http.MethodPost, target, nil)
	staff.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleStaff))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, staff)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for staff got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestBookingListPassesActor(t *testing.T) {
	cfg := testConfig()
	var seen bookings.Actor
	svc := stubBookingsService{
		list: func(ctx context.Context, actor bookings.Actor, filter bookings.ListFilter, params pagination.Params) (pagination.Page[bookings.View], error) {
			seen = actor
			return pagination.NewPage([]bookings.View{}, 0, params), nil
		},
	}
	router := newTestRouter(cfg, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleStaff))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if seen.Role != enums.UserRoleStaff {
		t.Fatalf("expected staff actor got %q", seen.Role)
	}
}
