package vehicles

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aeroparkhq/aeropark-backend/pkg/db/models"
	pkgerrors "github.com/aeroparkhq/aeropark-backend/pkg/errors"
)

type stubVehiclesRepo struct {
	vehicles       map[uuid.UUID]*models.Vehicle
	activeBookings int64
}

func newStubVehiclesRepo(vehicles ...*models.Vehicle) *stubVehiclesRepo {
	repo := &stubVehiclesRepo{vehicles: make(map[uuid.UUID]*models.Vehicle)}
	for _, vehicle := range vehicles {
		repo.vehicles[vehicle.ID] = vehicle
	}
	return repo
}

func (s *stubVehiclesRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubVehiclesRepo) Create(ctx context.Context, vehicle *models.Vehicle) error {
	if vehicle.ID == uuid.Nil {
		vehicle.ID = uuid.New()
	}
	s.vehicles[vehicle.ID] = vehicle
	return nil
}

func (s *stubVehiclesRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	vehicle, ok := s.vehicles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *vehicle
	return &copied, nil
}

func (s *stubVehiclesRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Vehicle, error) {
	var rows []models.Vehicle
	for _, vehicle := range s.vehicles {
		if vehicle.UserID == userID {
			rows = append(rows, *vehicle)
		}
	}
	return rows, nil
}

func (s *stubVehiclesRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	vehicle, ok := s.vehicles[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if isDefault, ok := updates["is_default"].(bool); ok {
		vehicle.IsDefault = isDefault
	}
	if color, ok := updates["color"].(string); ok {
		vehicle.Color = &color
	}
	if makeName, ok := updates["make"].(string); ok {
		vehicle.Make = makeName
	}
	if model, ok := updates["model"].(string); ok {
		vehicle.Model = model
	}
	return nil
}

func (s *stubVehiclesRepo) ClearDefault(ctx context.Context, userID uuid.UUID) error {
	for _, vehicle := range s.vehicles {
		if vehicle.UserID == userID {
			vehicle.IsDefault = false
		}
	}
	return nil
}

func (s *stubVehiclesRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.vehicles, id)
	return nil
}

func (s *stubVehiclesRepo) CountActiveBookings(ctx context.Context, vehicleID uuid.UUID) (int64, error) {
	return s.activeBookings, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestCreateFirstVehicleBecomesDefault(t *testing.T) {
	repo := newStubVehiclesRepo()
	svc := newTestService(t, repo)

	vehicle, err := svc.Create(context.Background(), uuid.New(), CreateInput{
		LicensePlate: " abc-1234 ",
		Make:         "Toyota",
		Model:        "Corolla",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !vehicle.IsDefault {
		t.Fatalf("expected first vehicle to be default")
	}
	if vehicle.LicensePlate != "ABC-1234" {
		t.Fatalf("expected normalized plate, got %q", vehicle.LicensePlate)
	}
}

func TestCreateSecondDefaultClearsFirst(t *testing.T) {
	userID := uuid.New()
	first := &models.Vehicle{ID: uuid.New(), UserID: userID, LicensePlate: "AAA-1111", Make: "Honda", Model: "Civic", IsDefault: true}
	repo := newStubVehiclesRepo(first)
	svc := newTestService(t, repo)

	second, err := svc.Create(context.Background(), userID, CreateInput{
		LicensePlate: "BBB-2222",
		Make:         "Tesla",
		Model:        "Model 3",
		IsDefault:    true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !second.IsDefault {
		t.Fatalf("expected new vehicle to be default")
	}
	if repo.vehicles[first.ID].IsDefault {
		t.Fatalf("expected previous default cleared")
	}
}

func TestCreateDuplicatePlate(t *testing.T) {
	userID := uuid.New()
	existing := &models.Vehicle{ID: uuid.New(), UserID: userID, LicensePlate: "AAA-1111", Make: "Honda", Model: "Civic"}
	svc := newTestService(t, newStubVehiclesRepo(existing))

	_, err := svc.Create(context.Background(), userID, CreateInput{
		LicensePlate: "aaa-1111",
		Make:         "Honda",
		Model:        "Civic",
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for duplicate plate, got %v", err)
	}
}

func TestGetHidesForeignVehicle(t *testing.T) {
	vehicle := &models.Vehicle{ID: uuid.New(), UserID: uuid.New(), LicensePlate: "AAA-1111", Make: "Honda", Model: "Civic"}
	svc := newTestService(t, newStubVehiclesRepo(vehicle))

	_, err := svc.Get(context.Background(), uuid.New(), vehicle.ID)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign vehicle, got %v", err)
	}
}

func TestUpdatePromoteToDefault(t *testing.T) {
	userID := uuid.New()
	first := &models.Vehicle{ID: uuid.New(), UserID: userID, LicensePlate: "AAA-1111", Make: "Honda", Model: "Civic", IsDefault: true}
	second := &models.Vehicle{ID: uuid.New(), UserID: userID, LicensePlate: "BBB-2222", Make: "Tesla", Model: "Model 3"}
	repo := newStubVehiclesRepo(first, second)
	svc := newTestService(t, repo)

	isDefault := true
	updated, err := svc.Update(context.Background(), userID, second.ID, UpdateInput{IsDefault: &isDefault})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.IsDefault {
		t.Fatalf("expected vehicle promoted to default")
	}
	if repo.vehicles[first.ID].IsDefault {
		t.Fatalf("expected previous default cleared")
	}
}

func TestDeleteBlockedByActiveBooking(t *testing.T) {
	userID := uuid.New()
	vehicle := &models.Vehicle{ID: uuid.New(), UserID: userID, LicensePlate: "AAA-1111", Make: "Honda", Model: "Civic"}
	repo := newStubVehiclesRepo(vehicle)
	repo.activeBookings = 1
	svc := newTestService(t, repo)

	err := svc.Delete(context.Background(), userID, vehicle.ID)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeInvalidState {
		t.Fatalf("expected INVALID_STATE with active bookings, got %v", err)
	}

	repo.activeBookings = 0
	if err := svc.Delete(context.Background(), userID, vehicle.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := repo.vehicles[vehicle.ID]; ok {
		t.Fatalf("expected vehicle removed")
	}
}
