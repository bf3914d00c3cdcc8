package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aeroparkhq/aeropark-backend/internal/availability"
	"github.com/aeroparkhq/aeropark-backend/internal/garage"
	"github.com/aeroparkhq/aeropark-backend/pkg/db/models"
	"github.com/aeroparkhq/aeropark-backend/pkg/enums"
	pkgerrors "github.com/aeroparkhq/aeropark-backend/pkg/errors"
	"github.com/aeroparkhq/aeropark-backend/pkg/pagination"
)

type stubBookingsRepo struct {
	booking      *models.Booking
	created      *models.Booking
	updatedTo    enums.BookingStatus
	updates      map[string]any
	updateStatus func(ctx context.Context, id uuid.UUID, from, to enums.BookingStatus, updates map[string]any) (bool, error)
}

func (s *stubBookingsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubBookingsRepo) Create(ctx context.Context, booking *models.Booking) error {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	s.created = booking
	return nil
}

func (s *stubBookingsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	if s.booking == nil || s.booking.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.booking
	return &copied, nil
}

func (s *stubBookingsRepo) List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Booking, int64, error) {
	if s.booking == nil {
		return nil, 0, nil
	}
	if filter.UserID != nil && !OwnedBy(s.booking, *filter.UserID) {
		return nil, 0, nil
	}
	return []models.Booking{*s.booking}, 1, nil
}

func (s *stubBookingsRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.BookingStatus, updates map[string]any) (bool, error) {
	if s.updateStatus != nil {
		return s.updateStatus(ctx, id, from, to, updates)
	}
	if s.booking == nil || s.booking.ID != id || s.booking.Status != from {
		return false, nil
	}
	s.booking.Status = to
	s.updatedTo = to
	s.updates = updates
	return true, nil
}

func (s *stubBookingsRepo) UpdateTotalPrice(ctx context.Context, id uuid.UUID, total decimal.Decimal) error {
	panic("not implemented")
}

func (s *stubBookingsRepo) FindExpiredPending(ctx context.Context, before time.Time, limit int) ([]models.Booking, error) {
	panic("not implemented")
}

func (s *stubBookingsRepo) FindOverdue(ctx context.Context, now time.Time, limit int) ([]models.Booking, error) {
	panic("not implemented")
}

type stubAvailRepo struct {
	totalSpots  int64
	blocking    int64
	spot        *models.ParkingSpot
	lockedTypes []enums.SpotType
}

func (s *stubAvailRepo) WithTx(tx *gorm.DB) availability.Repository { return s }

func (s *stubAvailRepo) CountActiveSpots(ctx context.Context, spotType *enums.SpotType) (int64, error) {
	return s.totalSpots, nil
}

func (s *stubAvailRepo) CountBlockingBookings(ctx context.Context, spotType *enums.SpotType, start, end time.Time) (int64, error) {
	return s.blocking, nil
}

func (s *stubAvailRepo) FreeSpots(ctx context.Context, spotType *enums.SpotType, start, end time.Time) ([]models.ParkingSpot, error) {
	if s.spot == nil {
		return nil, nil
	}
	return []models.ParkingSpot{*s.spot}, nil
}

func (s *stubAvailRepo) LockSpotCapacity(ctx context.Context, spotType enums.SpotType) (int64, error) {
	s.lockedTypes = append(s.lockedTypes, spotType)
	return s.totalSpots, nil
}

func (s *stubAvailRepo) LockFreeSpot(ctx context.Context, spotType enums.SpotType, start, end time.Time) (*models.ParkingSpot, error) {
	if s.spot == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.spot, nil
}

type stubVehicleFinder struct {
	vehicle *models.Vehicle
}

func (s *stubVehicleFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	if s.vehicle == nil || s.vehicle.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.vehicle, nil
}

type stubRates struct {
	rates garage.Rates
}

func (s *stubRates) GetRates(ctx context.Context) (garage.Rates, error) {
	return s.rates, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func defaultRates() *stubRates {
	maxCap := decimal.NewFromInt(100)
	return &stubRates{rates: garage.Rates{
		DailyRates: map[enums.SpotType]decimal.Decimal{
			enums.SpotTypeStandard: decimal.NewFromInt(25),
			enums.SpotTypePremium:  decimal.NewFromInt(40),
		},
		DailyMax: &maxCap,
		AddonPrices: map[enums.AddonType]decimal.Decimal{
			enums.AddonTypeCarWash: decimal.NewFromInt(15),
		},
	}}
}

func newTestService(t *testing.T, repo *stubBookingsRepo, avail *stubAvailRepo, vehicles *stubVehicleFinder) Service {
	t.Helper()
	svc, err := NewService(repo, avail, vehicles, defaultRates(), stubTxRunner{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func testVehicle(userID uuid.UUID) *models.Vehicle {
	return &models.Vehicle{
		ID:           uuid.New(),
		UserID:       userID,
		LicensePlate: "ABC-1234",
		Make:         "Toyota",
		Model:        "Corolla",
	}
}

func testBooking(userID uuid.UUID, status enums.BookingStatus) *models.Booking {
	start := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	vehicleID := uuid.New()
	return &models.Booking{
		ID:         uuid.New(),
		UserID:     &userID,
		VehicleID:  &vehicleID,
		SpotType:   enums.SpotTypeStandard,
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, 3),
		Status:     status,
		TotalPrice: decimal.NewFromInt(75),
	}
}

func testGuest() GuestInfo {
	return GuestInfo{Name: "Dana Hale", Email: "dana@example.com", Phone: "+1 555 0100"}
}

func TestCreateBooking(t *testing.T) {
	userID := uuid.New()
	vehicle := testVehicle(userID)
	repo := &stubBookingsRepo{}
	avail := &stubAvailRepo{totalSpots: 5, blocking: 2}
	svc := newTestService(t, repo, avail, &stubVehicleFinder{vehicle: vehicle})

	start := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	view, err := svc.Create(context.Background(), CreateInput{
		UserID:    &userID,
		VehicleID: &vehicle.ID,
		Guest:     testGuest(),
		SpotType:  enums.SpotTypeStandard,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 3),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if view.Status != enums.BookingStatusPending {
		t.Fatalf("expected PENDING, got %s", view.Status)
	}
	if view.SpotID != nil {
		t.Fatalf("expected no spot assigned at create")
	}
	if got := view.TotalPrice.StringFixed(2); got != "75.00" {
		t.Fatalf("expected total 75.00, got %s", got)
	}
	if view.LicensePlate != "ABC-1234" {
		t.Fatalf("expected plate snapshot, got %q", view.LicensePlate)
	}
	if view.VehicleModel != "Toyota Corolla" {
		t.Fatalf("expected model snapshot, got %q", view.VehicleModel)
	}
	if view.GuestName != "Dana Hale" || view.GuestEmail != "dana@example.com" {
		t.Fatalf("expected guest snapshot, got %q %q", view.GuestName, view.GuestEmail)
	}
	if len(avail.lockedTypes) != 1 || avail.lockedTypes[0] != enums.SpotTypeStandard {
		t.Fatalf("expected capacity locked for STANDARD, got %v", avail.lockedTypes)
	}
}

func TestCreateGuestBooking(t *testing.T) {
	repo := &stubBookingsRepo{}
	avail := &stubAvailRepo{totalSpots: 2, blocking: 0}
	svc := newTestService(t, repo, avail, &stubVehicleFinder{})

	start := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	view, err := svc.Create(context.Background(), CreateInput{
		Guest:     testGuest(),
		Vehicle:   &VehicleInfo{LicensePlate: "XYZ-9876", Model: "Honda Civic"},
		SpotType:  enums.SpotTypeStandard,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 2),
	})
	if err != nil {
		t.Fatalf("guest Create: %v", err)
	}
	if view.UserID != nil || view.VehicleID != nil {
		t.Fatalf("expected no account references on guest booking, got %v %v", view.UserID, view.VehicleID)
	}
	if view.LicensePlate != "XYZ-9876" || view.VehicleModel != "Honda Civic" {
		t.Fatalf("expected inline vehicle snapshot, got %q %q", view.LicensePlate, view.VehicleModel)
	}
	if view.GuestName != "Dana Hale" {
		t.Fatalf("expected guest snapshot, got %q", view.GuestName)
	}
	if got := view.TotalPrice.StringFixed(2); got != "50.00" {
		t.Fatalf("expected total 50.00, got %s", got)
	}
}

func TestCreateGuestBookingRequiresContact(t *testing.T) {
	svc := newTestService(t, &stubBookingsRepo{}, &stubAvailRepo{totalSpots: 2}, &stubVehicleFinder{})

	start := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	_, err := svc.Create(context.Background(), CreateInput{
		Vehicle:   &VehicleInfo{LicensePlate: "XYZ-9876"},
		SpotType:  enums.SpotTypeStandard,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 1),
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error without contact, got %v", err)
	}
}

func TestCreateBookingRequiresSomeVehicle(t *testing.T) {
	svc := newTestService(t, &stubBookingsRepo{}, &stubAvailRepo{totalSpots: 2}, &stubVehicleFinder{})

	start := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	_, err := svc.Create(context.Background(), CreateInput{
		Guest:     testGuest(),
		SpotType:  enums.SpotTypeStandard,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 1),
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error without any vehicle, got %v", err)
	}
}

func TestCreateBookingNoAvailability(t *testing.T) {
	userID := uuid.New()
	vehicle := testVehicle(userID)
	avail := &stubAvailRepo{totalSpots: 3, blocking: 3}
	svc := newTestService(t, &stubBookingsRepo{}, avail, &stubVehicleFinder{vehicle: vehicle})

	start := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	_, err := svc.Create(context.Background(), CreateInput{
		UserID:    &userID,
		VehicleID: &vehicle.ID,
		Guest:     testGuest(),
		SpotType:  enums.SpotTypeStandard,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 1),
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNoAvailability {
		t.Fatalf("expected NO_AVAILABILITY, got %v", err)
	}
}

func TestCreateBookingRejectsInvertedRange(t *testing.T) {
	userID := uuid.New()
	vehicle := testVehicle(userID)
	svc := newTestService(t, &stubBookingsRepo{}, &stubAvailRepo{totalSpots: 5}, &stubVehicleFinder{vehicle: vehicle})

	start := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	_, err := svc.Create(context.Background(), CreateInput{
		UserID:    &userID,
		VehicleID: &vehicle.ID,
		Guest:     testGuest(),
		SpotType:  enums.SpotTypeStandard,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, -1),
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateBookingForeignVehicle(t *testing.T) {
	vehicle := testVehicle(uuid.New())
	svc := newTestService(t, &stubBookingsRepo{}, &stubAvailRepo{totalSpots: 5}, &stubVehicleFinder{vehicle: vehicle})

	start := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	strangerID := uuid.New()
	_, err := svc.Create(context.Background(), CreateInput{
		UserID:    &strangerID,
		VehicleID: &vehicle.ID,
		Guest:     testGuest(),
		SpotType:  enums.SpotTypeStandard,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 1),
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestConfirmAssignsSpot(t *testing.T) {
	userID := uuid.New()
	booking := testBooking(userID, enums.BookingStatusPending)
	repo := &stubBookingsRepo{booking: booking}
	spot := &models.ParkingSpot{ID: uuid.New(), Code: "A-01", SpotType: enums.SpotTypeStandard, Active: true}
	svc := newTestService(t, repo, &stubAvailRepo{spot: spot}, &stubVehicleFinder{})

	view, err := svc.Confirm(context.Background(), Actor{UserID: userID, Role: enums.UserRoleCustomer}, booking.ID)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if view.Status != enums.BookingStatusConfirmed {
		t.Fatalf("expected CONFIRMED, got %s", view.Status)
	}
	if got, ok := repo.updates["spot_id"]; !ok || got != spot.ID {
		t.Fatalf("expected spot_id %s in update, got %v", spot.ID, repo.updates)
	}
}

func TestConfirmNoFreeSpot(t *testing.T) {
	userID := uuid.New()
	booking := testBooking(userID, enums.BookingStatusPending)
	repo := &stubBookingsRepo{booking: booking}
	svc := newTestService(t, repo, &stubAvailRepo{}, &stubVehicleFinder{})

	_, err := svc.Confirm(context.Background(), Actor{UserID: userID, Role: enums.UserRoleCustomer}, booking.ID)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNoAvailability {
		t.Fatalf("expected NO_AVAILABILITY, got %v", err)
	}
}

func TestCheckInBeforeStartDate(t *testing.T) {
	userID := uuid.New()
	booking := testBooking(userID, enums.BookingStatusConfirmed)
	booking.StartDate = time.Now().UTC().AddDate(0, 0, 2)
	booking.EndDate = booking.StartDate.AddDate(0, 0, 3)
	repo := &stubBookingsRepo{booking: booking}
	svc := newTestService(t, repo, &stubAvailRepo{}, &stubVehicleFinder{})

	_, err := svc.CheckIn(context.Background(), Actor{UserID: userID, Role: enums.UserRoleCustomer}, booking.ID)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeInvalidState {
		t.Fatalf("expected INVALID_STATE, got %v", err)
	}
}

func TestCheckInStampsTimestamp(t *testing.T) {
	userID := uuid.New()
	booking := testBooking(userID, enums.BookingStatusConfirmed)
	booking.StartDate = time.Now().UTC().AddDate(0, 0, -1)
	booking.EndDate = booking.StartDate.AddDate(0, 0, 3)
	repo := &stubBookingsRepo{booking: booking}
	svc := newTestService(t, repo, &stubAvailRepo{}, &stubVehicleFinder{})

	view, err := svc.CheckIn(context.Background(), Actor{UserID: userID, Role: enums.UserRoleCustomer}, booking.ID)
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if view.Status != enums.BookingStatusCheckedIn {
		t.Fatalf("expected CHECKED_IN, got %s", view.Status)
	}
	if _, ok := repo.updates["checked_in_at"]; !ok {
		t.Fatalf("expected checked_in_at stamp, got %v", repo.updates)
	}
}

func TestCheckInFromPendingIsIllegal(t *testing.T) {
	userID := uuid.New()
	booking := testBooking(userID, enums.BookingStatusPending)
	booking.StartDate = time.Now().UTC().AddDate(0, 0, -1)
	repo := &stubBookingsRepo{booking: booking}
	svc := newTestService(t, repo, &stubAvailRepo{}, &stubVehicleFinder{})

	_, err := svc.CheckIn(context.Background(), Actor{UserID: userID, Role: enums.UserRoleCustomer}, booking.ID)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeIllegalTransition {
		t.Fatalf("expected ILLEGAL_TRANSITION, got %v", err)
	}
}

func TestCheckOutWarnsOnIncompleteAddons(t *testing.T) {
	userID := uuid.New()
	booking := testBooking(userID, enums.BookingStatusCheckedIn)
	booking.Addons = []models.Addon{
		{ID: uuid.New(), AddonType: enums.AddonTypeCarWash, Status: enums.AddonStatusInProgress},
		{ID: uuid.New(), AddonType: enums.AddonTypeEVCharging, Status: enums.AddonStatusDone},
	}
	repo := &stubBookingsRepo{booking: booking}
	svc := newTestService(t, repo, &stubAvailRepo{}, &stubVehicleFinder{})

	result, err := svc.CheckOut(context.Background(), Actor{UserID: userID, Role: enums.UserRoleCustomer}, booking.ID, false)
	if err != nil {
		t.Fatalf("CheckOut: %v", err)
	}
	if result.Booking.Status != enums.BookingStatusCheckedOut {
		t.Fatalf("expected CHECKED_OUT, got %s", result.Booking.Status)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected one warning, got %v", result.Warnings)
	}
}

func TestForceCheckOutSuppressesWarnings(t *testing.T) {
	userID := uuid.New()
	booking := testBooking(userID, enums.BookingStatusCheckedIn)
	booking.Addons = []models.Addon{
		{ID: uuid.New(), AddonType: enums.AddonTypeCarWash, Status: enums.AddonStatusPending},
	}
	repo := &stubBookingsRepo{booking: booking}
	svc := newTestService(t, repo, &stubAvailRepo{}, &stubVehicleFinder{})

	result, err := svc.CheckOut(context.Background(), Actor{UserID: userID, Role: enums.UserRoleStaff}, booking.ID, true)
	if err != nil {
		t.Fatalf("CheckOut: %v", err)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("expected no warnings on force, got %v", result.Warnings)
	}
	if spotID, ok := repo.updates["spot_id"]; !ok || spotID != nil {
		t.Fatalf("expected spot released, got %v", repo.updates)
	}
}

func TestCancelAfterCheckInRejected(t *testing.T) {
	userID := uuid.New()
	for _, status := range []enums.BookingStatus{enums.BookingStatusCheckedIn, enums.BookingStatusCheckedOut} {
		booking := testBooking(userID, status)
		repo := &stubBookingsRepo{booking: booking}
		svc := newTestService(t, repo, &stubAvailRepo{}, &stubVehicleFinder{})

		_, err := svc.Cancel(context.Background(), Actor{UserID: userID, Role: enums.UserRoleCustomer}, booking.ID)
		appErr := pkgerrors.As(err)
		if appErr == nil || appErr.Code() != pkgerrors.CodeInvalidState {
			t.Fatalf("expected INVALID_STATE cancelling a %s booking, got %v", status, err)
		}
	}
}

func TestCancelFromConfirmedReleasesSpot(t *testing.T) {
	userID := uuid.New()
	booking := testBooking(userID, enums.BookingStatusConfirmed)
	spotID := uuid.New()
	booking.SpotID = &spotID
	repo := &stubBookingsRepo{booking: booking}
	svc := newTestService(t, repo, &stubAvailRepo{}, &stubVehicleFinder{})

	view, err := svc.Cancel(context.Background(), Actor{UserID: userID, Role: enums.UserRoleCustomer}, booking.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if view.Status != enums.BookingStatusCancelled {
		t.Fatalf("expected CANCELLED, got %s", view.Status)
	}
	if spotID, ok := repo.updates["spot_id"]; !ok || spotID != nil {
		t.Fatalf("expected spot released, got %v", repo.updates)
	}
}

func TestTransitionLostRace(t *testing.T) {
	userID := uuid.New()
	booking := testBooking(userID, enums.BookingStatusPending)
	repo := &stubBookingsRepo{booking: booking}
	repo.updateStatus = func(ctx context.Context, id uuid.UUID, from, to enums.BookingStatus, updates map[string]any) (bool, error) {
		// Someone else cancelled between the read and the CAS.
		repo.booking.Status = enums.BookingStatusCancelled
		return false, nil
	}
	spot := &models.ParkingSpot{ID: uuid.New(), Code: "A-01", SpotType: enums.SpotTypeStandard, Active: true}
	svc := newTestService(t, repo, &stubAvailRepo{spot: spot}, &stubVehicleFinder{})

	_, err := svc.Confirm(context.Background(), Actor{UserID: userID, Role: enums.UserRoleCustomer}, booking.ID)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeIllegalTransition {
		t.Fatalf("expected ILLEGAL_TRANSITION after lost race, got %v", err)
	}
}

func TestGetHidesForeignBooking(t *testing.T) {
	booking := testBooking(uuid.New(), enums.BookingStatusConfirmed)
	repo := &stubBookingsRepo{booking: booking}
	svc := newTestService(t, repo, &stubAvailRepo{}, &stubVehicleFinder{})

	_, err := svc.Get(context.Background(), Actor{UserID: uuid.New(), Role: enums.UserRoleCustomer}, booking.ID)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign booking, got %v", err)
	}

	view, err := svc.Get(context.Background(), Actor{UserID: uuid.New(), Role: enums.UserRoleStaff}, booking.ID)
	if err != nil {
		t.Fatalf("staff Get: %v", err)
	}
	if view.ID != booking.ID {
		t.Fatalf("expected booking %s, got %s", booking.ID, view.ID)
	}
}

func TestGuestBookingIsStaffManaged(t *testing.T) {
	booking := testBooking(uuid.New(), enums.BookingStatusConfirmed)
	booking.UserID = nil
	booking.VehicleID = nil
	repo := &stubBookingsRepo{booking: booking}
	svc := newTestService(t, repo, &stubAvailRepo{}, &stubVehicleFinder{})

	_, err := svc.Get(context.Background(), Actor{UserID: uuid.New(), Role: enums.UserRoleCustomer}, booking.ID)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected guest booking hidden from customers, got %v", err)
	}

	view, err := svc.Get(context.Background(), Actor{UserID: uuid.New(), Role: enums.UserRoleStaff}, booking.ID)
	if err != nil {
		t.Fatalf("staff Get: %v", err)
	}
	if view.UserID != nil {
		t.Fatalf("expected nil userId on guest booking view")
	}
}

func TestViewOverdueFlag(t *testing.T) {
	booking := testBooking(uuid.New(), enums.BookingStatusCheckedIn)
	now := booking.EndDate.Add(time.Hour)
	if !IsOverdue(booking, now) {
		t.Fatalf("expected overdue past end date")
	}
	if IsOverdue(booking, booking.EndDate) {
		t.Fatalf("end date itself is not overdue")
	}
	booking.Status = enums.BookingStatusCheckedOut
	if IsOverdue(booking, now) {
		t.Fatalf("checked out booking is never overdue")
	}
}
