package lifecycle_test

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/apperrors"
	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/database"
	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/lifecycle"
	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDBCounter int64

func openTestDB(s *suite.Suite) *gorm.DB {
	dsn := fmt.Sprintf("file:lifecycle_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	s.Require().NoError(err)
	s.Require().NoError(database.RunMigrations(db))
	return db
}

type LifecycleSuite struct {
	suite.Suite
	db    *gorm.DB
	user  models.User
	other models.User
}

func (s *LifecycleSuite) SetupTest() {
	s.db = openTestDB(&s.Suite)

	s.user = models.User{Username: "henrique", Email: "henrique@example.com"}
	s.Require().NoError(s.user.SetPassword("secret123"))
	s.Require().NoError(s.db.Create(&s.user).Error)

	s.other = models.User{Username: "matheus", Email: "matheus@example.com"}
	s.Require().NoError(s.other.SetPassword("secret123"))
	s.Require().NoError(s.db.Create(&s.other).Error)
}

func (s *LifecycleSuite) createVehicle(preco float64) models.Vehicle {
	vehicle := models.Vehicle{Marca: "Toyota", Modelo: "Corolla", Ano: 2023, Preco: preco}
	s.Require().NoError(s.db.Create(&vehicle).Error)
	return vehicle
}

func (s *LifecycleSuite) assertKind(err error, kind apperrors.Kind) {
	s.Require().Error(err)
	s.True(apperrors.IsKind(err, kind), "expected kind %v, got %v", kind, err)
}

func TestLifecycleSuite(t *testing.T) {
	suite.Run(t, new(LifecycleSuite))
}

// --- Reservations ---

func (s *LifecycleSuite) TestCreateReservationBelowMinimumDeposit() {
	vehicle := s.createVehicle(50000)

	_, err := lifecycle.CreateReservation(s.db, s.user.ID, lifecycle.CreateReservationInput{
		VehicleID: vehicle.ID,
		Amount:    499.99,
	})
	s.assertKind(err, apperrors.KindValidation)

	var count int64
	s.db.Model(&models.Reservation{}).Count(&count)
	s.Zero(count)
}

func (s *LifecycleSuite) TestCreateReservationExactMinimumDeposit() {
	vehicle := s.createVehicle(50000)

	reservation, err := lifecycle.CreateReservation(s.db, s.user.ID, lifecycle.CreateReservationInput{
		VehicleID: vehicle.ID,
		Amount:    models.MinReservationAmount,
	})
	s.Require().NoError(err)
	s.Equal(models.ReservationStatusActive, reservation.Status)
}

func (s *LifecycleSuite) TestCreateReservationUnknownVehicle() {
	_, err := lifecycle.CreateReservation(s.db, s.user.ID, lifecycle.CreateReservationInput{
		VehicleID: 9999,
		Amount:    1000,
	})
	s.assertKind(err, apperrors.KindNotFound)
}

func (s *LifecycleSuite) TestCreateReservationFlagsVehicle() {
	vehicle := s.createVehicle(50000)

	_, err := lifecycle.CreateReservation(s.db, s.user.ID, lifecycle.CreateReservationInput{
		VehicleID: vehicle.ID,
		Amount:    1000,
	})
	s.Require().NoError(err)

	var reloaded models.Vehicle
	s.Require().NoError(s.db.First(&reloaded, vehicle.ID).Error)
	s.True(reloaded.IsReserved)
}

func (s *LifecycleSuite) TestSecondReservationConflicts() {
	vehicle := s.createVehicle(50000)

	_, err := lifecycle.CreateReservation(s.db, s.user.ID, lifecycle.CreateReservationInput{
		VehicleID: vehicle.ID,
		Amount:    1000,
	})
	s.Require().NoError(err)

	_, err = lifecycle.CreateReservation(s.db, s.other.ID, lifecycle.CreateReservationInput{
		VehicleID: vehicle.ID,
		Amount:    2000,
	})
	s.assertKind(err, apperrors.KindConflict)
}

func (s *LifecycleSuite) TestCreateReservationWithForeignInspection() {
	vehicle := s.createVehicle(50000)

	inspection, err := lifecycle.ScheduleInspection(s.db, s.other.ID, vehicle.ID,
		time.Date(2026, 9, 3, 10, 0, 0, 0, time.UTC))
	s.Require().NoError(err)

	_, err = lifecycle.CreateReservation(s.db, s.user.ID, lifecycle.CreateReservationInput{
		VehicleID:    vehicle.ID,
		Amount:       1000,
		InspectionID: &inspection.ID,
	})
	s.assertKind(err, apperrors.KindAuthorization)
}

func (s *LifecycleSuite) TestConfirmPurchaseSubtractsDeposit() {
	vehicle := s.createVehicle(50000)

	reservation, err := lifecycle.CreateReservation(s.db, s.user.ID, lifecycle.CreateReservationInput{
		VehicleID: vehicle.ID,
		Amount:    5000,
	})
	s.Require().NoError(err)

	confirmed, finalPrice, err := lifecycle.ConfirmPurchase(s.db, s.user.ID, reservation.ID)
	s.Require().NoError(err)
	s.Equal(models.ReservationStatusCompleted, confirmed.Status)
	s.InDelta(45000.0, finalPrice, 0.001)

	// Vehicle stays committed to the buyer
	var reloaded models.Vehicle
	s.Require().NoError(s.db.First(&reloaded, vehicle.ID).Error)
	s.True(reloaded.IsReserved)
}

func (s *LifecycleSuite) TestConfirmPurchaseRequiresOwnership() {
	vehicle := s.createVehicle(50000)

	reservation, err := lifecycle.CreateReservation(s.db, s.user.ID, lifecycle.CreateReservationInput{
		VehicleID: vehicle.ID,
		Amount:    1000,
	})
	s.Require().NoError(err)

	_, _, err = lifecycle.ConfirmPurchase(s.db, s.other.ID, reservation.ID)
	s.assertKind(err, apperrors.KindAuthorization)
}

func (s *LifecycleSuite) TestConfirmPurchaseGatedOnPendingInspection() {
	vehicle := s.createVehicle(50000)

	inspection, err := lifecycle.ScheduleInspection(s.db, s.user.ID, vehicle.ID,
		time.Date(2026, 9, 3, 11, 0, 0, 0, time.UTC))
	s.Require().NoError(err)

	reservation, err := lifecycle.CreateReservation(s.db, s.user.ID, lifecycle.CreateReservationInput{
		VehicleID:    vehicle.ID,
		Amount:       1000,
		InspectionID: &inspection.ID,
	})
	s.Require().NoError(err)

	_, _, err = lifecycle.ConfirmPurchase(s.db, s.user.ID, reservation.ID)
	s.assertKind(err, apperrors.KindValidation)

	// Completing the inspection unblocks the purchase
	_, err = lifecycle.CompleteInspection(s.db, s.user.ID, inspection.ID, "All checks passed")
	s.Require().NoError(err)

	_, _, err = lifecycle.ConfirmPurchase(s.db, s.user.ID, reservation.ID)
	s.NoError(err)
}

func (s *LifecycleSuite) TestTerminalReservationRejectsTransitions() {
	vehicle := s.createVehicle(50000)

	reservation, err := lifecycle.CreateReservation(s.db, s.user.ID, lifecycle.CreateReservationInput{
		VehicleID: vehicle.ID,
		Amount:    1000,
	})
	s.Require().NoError(err)

	_, _, err = lifecycle.ConfirmPurchase(s.db, s.user.ID, reservation.ID)
	s.Require().NoError(err)

	_, _, err = lifecycle.ConfirmPurchase(s.db, s.user.ID, reservation.ID)
	s.assertKind(err, apperrors.KindConflict)

	_, err = lifecycle.CancelReservation(s.db, s.user.ID, reservation.ID)
	s.assertKind(err, apperrors.KindConflict)
}

func (s *LifecycleSuite) TestCancelReleasesVehicleForNewReservation() {
	vehicle := s.createVehicle(50000)

	reservation, err := lifecycle.CreateReservation(s.db, s.user.ID, lifecycle.CreateReservationInput{
		VehicleID: vehicle.ID,
		Amount:    1000,
	})
	s.Require().NoError(err)

	cancelled, err := lifecycle.CancelReservation(s.db, s.user.ID, reservation.ID)
	s.Require().NoError(err)
	s.Equal(models.ReservationStatusCancelled, cancelled.Status)

	var reloaded models.Vehicle
	s.Require().NoError(s.db.First(&reloaded, vehicle.ID).Error)
	s.False(reloaded.IsReserved)

	// A different user can now reserve the same vehicle
	_, err = lifecycle.CreateReservation(s.db, s.other.ID, lifecycle.CreateReservationInput{
		VehicleID: vehicle.ID,
		Amount:    2000,
	})
	s.NoError(err)
}

// --- Purchases ---

func (s *LifecycleSuite) completedReservation(amount float64) (*models.Reservation, models.Vehicle) {
	vehicle := s.createVehicle(50000)
	reservation, err := lifecycle.CreateReservation(s.db, s.user.ID, lifecycle.CreateReservationInput{
		VehicleID: vehicle.ID,
		Amount:    amount,
	})
	s.Require().NoError(err)
	_, _, err = lifecycle.ConfirmPurchase(s.db, s.user.ID, reservation.ID)
	s.Require().NoError(err)
	return reservation, vehicle
}

func (s *LifecycleSuite) TestPurchaseRequiresConfirmedReservation() {
	vehicle := s.createVehicle(50000)
	reservation, err := lifecycle.CreateReservation(s.db, s.user.ID, lifecycle.CreateReservationInput{
		VehicleID: vehicle.ID,
		Amount:    1000,
	})
	s.Require().NoError(err)

	_, err = lifecycle.CreatePurchaseFromReservation(s.db, s.user.ID, reservation.ID)
	s.assertKind(err, apperrors.KindValidation)
}

func (s *LifecycleSuite) TestPurchaseSnapshotsFinalPrice() {
	reservation, vehicle := s.completedReservation(5000)

	purchase, err := lifecycle.CreatePurchaseFromReservation(s.db, s.user.ID, reservation.ID)
	s.Require().NoError(err)
	s.Equal(vehicle.ID, purchase.VehicleID)
	s.InDelta(45000.0, purchase.FinalPrice, 0.001)
	s.Equal(models.PurchaseStatusCompleted, purchase.Status)
}

func (s *LifecycleSuite) TestPurchaseIsNotIdempotent() {
	reservation, _ := s.completedReservation(5000)

	_, err := lifecycle.CreatePurchaseFromReservation(s.db, s.user.ID, reservation.ID)
	s.Require().NoError(err)

	_, err = lifecycle.CreatePurchaseFromReservation(s.db, s.user.ID, reservation.ID)
	s.assertKind(err, apperrors.KindConflict)

	var count int64
	s.db.Model(&models.Purchase{}).Count(&count)
	s.EqualValues(1, count)
}

func (s *LifecycleSuite) TestGetPurchaseEnforcesOwnership() {
	reservation, _ := s.completedReservation(5000)

	purchase, err := lifecycle.CreatePurchaseFromReservation(s.db, s.user.ID, reservation.ID)
	s.Require().NoError(err)

	_, err = lifecycle.GetPurchase(s.db, s.other.ID, purchase.ID)
	s.assertKind(err, apperrors.KindAuthorization)
}

// --- Reviews ---

func (s *LifecycleSuite) createPurchase() *models.Purchase {
	reservation, _ := s.completedReservation(5000)
	purchase, err := lifecycle.CreatePurchaseFromReservation(s.db, s.user.ID, reservation.ID)
	s.Require().NoError(err)
	return purchase
}

func (s *LifecycleSuite) TestReviewRatingBounds() {
	purchase := s.createPurchase()

	for _, rating := range []int{0, 6, -1} {
		_, err := lifecycle.CreateReview(s.db, s.user.ID, lifecycle.CreateReviewInput{
			PurchaseID:    purchase.ID,
			VehicleRating: rating,
			ServiceRating: 3,
		})
		s.assertKind(err, apperrors.KindValidation)
	}

	_, err := lifecycle.CreateReview(s.db, s.user.ID, lifecycle.CreateReviewInput{
		PurchaseID:    purchase.ID,
		VehicleRating: 5,
		ServiceRating: 1,
		Comment:       "Great car, slow paperwork",
	})
	s.NoError(err)
}

func (s *LifecycleSuite) TestOneReviewPerPurchase() {
	purchase := s.createPurchase()

	_, err := lifecycle.CreateReview(s.db, s.user.ID, lifecycle.CreateReviewInput{
		PurchaseID:    purchase.ID,
		VehicleRating: 4,
		ServiceRating: 4,
	})
	s.Require().NoError(err)

	_, err = lifecycle.CreateReview(s.db, s.user.ID, lifecycle.CreateReviewInput{
		PurchaseID:    purchase.ID,
		VehicleRating: 5,
		ServiceRating: 5,
	})
	s.assertKind(err, apperrors.KindConflict)
}

func (s *LifecycleSuite) TestReviewRequiresPurchaseOwnership() {
	purchase := s.createPurchase()

	_, err := lifecycle.CreateReview(s.db, s.other.ID, lifecycle.CreateReviewInput{
		PurchaseID:    purchase.ID,
		VehicleRating: 3,
		ServiceRating: 3,
	})
	s.assertKind(err, apperrors.KindAuthorization)
}

func (s *LifecycleSuite) TestUpdateReviewPartialFields() {
	purchase := s.createPurchase()

	review, err := lifecycle.CreateReview(s.db, s.user.ID, lifecycle.CreateReviewInput{
		PurchaseID:    purchase.ID,
		VehicleRating: 4,
		ServiceRating: 4,
		Comment:       "original",
	})
	s.Require().NoError(err)

	newRating := 2
	updated, err := lifecycle.UpdateReview(s.db, s.user.ID, review.ID, lifecycle.UpdateReviewInput{
		ServiceRating: &newRating,
	})
	s.Require().NoError(err)
	s.Equal(4, updated.VehicleRating)
	s.Equal(2, updated.ServiceRating)
	s.Equal("original", updated.Comment)

	badRating := 9
	_, err = lifecycle.UpdateReview(s.db, s.user.ID, review.ID, lifecycle.UpdateReviewInput{
		VehicleRating: &badRating,
	})
	s.assertKind(err, apperrors.KindValidation)

	_, err = lifecycle.UpdateReview(s.db, s.other.ID, review.ID, lifecycle.UpdateReviewInput{
		Comment: &updated.Comment,
	})
	s.assertKind(err, apperrors.KindAuthorization)
}

func (s *LifecycleSuite) TestListUserReviewsFollowsPurchases() {
	purchase := s.createPurchase()

	_, err := lifecycle.CreateReview(s.db, s.user.ID, lifecycle.CreateReviewInput{
		PurchaseID:    purchase.ID,
		VehicleRating: 5,
		ServiceRating: 4,
	})
	s.Require().NoError(err)

	mine, err := lifecycle.ListUserReviews(s.db, s.user.ID)
	s.Require().NoError(err)
	s.Len(mine, 1)

	theirs, err := lifecycle.ListUserReviews(s.db, s.other.ID)
	s.Require().NoError(err)
	s.Empty(theirs)
}

// --- Inspections and slots ---

func (s *LifecycleSuite) TestAvailableSlotsEmptyCalendar() {
	now := time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC)

	slots, err := lifecycle.AvailableSlots(s.db, now)
	s.Require().NoError(err)
	s.Len(slots, 56)
	s.Equal("2026-09-01T09:00:00Z", slots[0])
	s.Equal("2026-09-07T16:00:00Z", slots[len(slots)-1])

	seen := make(map[string]bool, len(slots))
	for _, slot := range slots {
		s.False(seen[slot], "duplicate slot %s", slot)
		seen[slot] = true
	}
}

func (s *LifecycleSuite) TestAvailableSlotsExcludeBooked() {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	booked := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)

	vehicle := s.createVehicle(30000)
	_, err := lifecycle.ScheduleInspection(s.db, s.user.ID, vehicle.ID, booked)
	s.Require().NoError(err)

	slots, err := lifecycle.AvailableSlots(s.db, now)
	s.Require().NoError(err)
	s.Len(slots, 55)
	s.NotContains(slots, booked.Format(time.RFC3339))
}

func (s *LifecycleSuite) TestScheduleInspectionSlotCollision() {
	vehicle := s.createVehicle(30000)
	other := s.createVehicle(40000)
	slot := time.Date(2026, 9, 4, 9, 0, 0, 0, time.UTC)

	_, err := lifecycle.ScheduleInspection(s.db, s.user.ID, vehicle.ID, slot)
	s.Require().NoError(err)

	// Same instant, different vehicle and user: still one inspector's calendar
	_, err = lifecycle.ScheduleInspection(s.db, s.other.ID, other.ID, slot)
	s.assertKind(err, apperrors.KindConflict)
}

func (s *LifecycleSuite) TestCompleteInspectionRules() {
	vehicle := s.createVehicle(30000)
	inspection, err := lifecycle.ScheduleInspection(s.db, s.user.ID, vehicle.ID,
		time.Date(2026, 9, 4, 15, 0, 0, 0, time.UTC))
	s.Require().NoError(err)

	_, err = lifecycle.CompleteInspection(s.db, s.user.ID, inspection.ID, "")
	s.assertKind(err, apperrors.KindValidation)

	_, err = lifecycle.CompleteInspection(s.db, s.other.ID, inspection.ID, "report")
	s.assertKind(err, apperrors.KindAuthorization)

	completed, err := lifecycle.CompleteInspection(s.db, s.user.ID, inspection.ID, "Brakes worn, otherwise fine")
	s.Require().NoError(err)
	s.Equal(models.InspectionStatusCompleted, completed.Status)

	_, err = lifecycle.CompleteInspection(s.db, s.user.ID, inspection.ID, "again")
	s.assertKind(err, apperrors.KindConflict)
}

// --- End to end ---

func (s *LifecycleSuite) TestFullSaleFlow() {
	vehicle := s.createVehicle(50000)

	inspection, err := lifecycle.ScheduleInspection(s.db, s.user.ID, vehicle.ID,
		time.Date(2026, 9, 5, 10, 0, 0, 0, time.UTC))
	s.Require().NoError(err)

	reservation, err := lifecycle.CreateReservation(s.db, s.user.ID, lifecycle.CreateReservationInput{
		VehicleID:    vehicle.ID,
		Amount:       5000,
		InspectionID: &inspection.ID,
	})
	s.Require().NoError(err)

	_, err = lifecycle.CompleteInspection(s.db, s.user.ID, inspection.ID, "Approved")
	s.Require().NoError(err)

	_, finalPrice, err := lifecycle.ConfirmPurchase(s.db, s.user.ID, reservation.ID)
	s.Require().NoError(err)
	s.InDelta(45000.0, finalPrice, 0.001)

	purchase, err := lifecycle.CreatePurchaseFromReservation(s.db, s.user.ID, reservation.ID)
	s.Require().NoError(err)
	s.InDelta(45000.0, purchase.FinalPrice, 0.001)

	review, err := lifecycle.CreateReview(s.db, s.user.ID, lifecycle.CreateReviewInput{
		PurchaseID:    purchase.ID,
		VehicleRating: 5,
		ServiceRating: 5,
		Comment:       "Smooth purchase",
	})
	s.Require().NoError(err)
	s.Equal(purchase.ID, review.PurchaseID)
}
