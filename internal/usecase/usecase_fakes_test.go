package usecase

import (
	"context"
	"database/sql"
	"io"
	"sync"
	"testing"
	"time"

	"physio-marketplace/internal/delivery/http/middleware"
	"physio-marketplace/internal/domain/entity"
	"physio-marketplace/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/utils/tests"
)

// fakeConnPool satisfies gorm's connection and transaction interfaces without
// a database. Repositories are faked in-memory, so no statement ever reaches
// it; it only has to let Begin/Commit/Rollback succeed.
type fakeConnPool struct{}

func (fakeConnPool) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	return nil, nil
}

func (fakeConnPool) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (fakeConnPool) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (fakeConnPool) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

// BeginTx returns a pointer because gorm's Commit/Rollback call
// reflect.Value.IsNil on the transaction ConnPool, which panics for
// non-pointer values.
func (p *fakeConnPool) BeginTx(ctx context.Context, opts *sql.TxOptions) (gorm.ConnPool, error) {
	return p, nil
}

func (fakeConnPool) Commit() error   { return nil }
func (fakeConnPool) Rollback() error { return nil }

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{
		ConnPool: &fakeConnPool{},
		Logger:   logger.Discard,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	return db
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// testSlotCache is a disabled cache: with no Redis client every call is a
// miss or a no-op, which is exactly the degraded mode the cache promises.
func testSlotCache() *service.SlotCache {
	return service.NewSlotCache(testLogger(), nil, time.Minute)
}

func authedContext(userID uuid.UUID) context.Context {
	return context.WithValue(context.Background(), middleware.UserIDKey, userID)
}

// Status IDs used across the fakes, mirroring the seed order.
const (
	statusPendingID = iota + 1
	statusConfirmedID
	statusCancelledID
	statusCompletedID
	statusPaymentFailedID
)

var fakeStatusNames = map[int]string{
	statusPendingID:       entity.BookingStatusPending,
	statusConfirmedID:     entity.BookingStatusConfirmed,
	statusCancelledID:     entity.BookingStatusCancelled,
	statusCompletedID:     entity.BookingStatusCompleted,
	statusPaymentFailedID: entity.BookingStatusPaymentFailed,
}

type fakeStatusRepo struct{}

func (fakeStatusRepo) UpsertByName(db *gorm.DB, statuses []entity.BookingStatus) error { return nil }

func (fakeStatusRepo) FindByName(db *gorm.DB, name string) (*entity.BookingStatus, error) {
	for id, n := range fakeStatusNames {
		if n == name {
			return &entity.BookingStatus{ID: id, Name: n}, nil
		}
	}
	return nil, nil
}

type fakePhysioRepo struct {
	profiles map[uuid.UUID]*entity.PhysiotherapistProfile
}

func (r *fakePhysioRepo) Create(db *gorm.DB, profile *entity.PhysiotherapistProfile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	r.profiles[profile.ID] = profile
	return nil
}

func (r *fakePhysioRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.PhysiotherapistProfile, error) {
	if p, ok := r.profiles[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *fakePhysioRepo) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.PhysiotherapistProfile, error) {
	for _, p := range r.profiles {
		if p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakePhysioRepo) FindAvailable(db *gorm.DB, filter *entity.TherapistFilter) ([]entity.PhysiotherapistProfile, error) {
	var out []entity.PhysiotherapistProfile
	for _, p := range r.profiles {
		if p.IsVerified && p.IsAvailable {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePhysioRepo) Update(db *gorm.DB, profile *entity.PhysiotherapistProfile) error {
	r.profiles[profile.ID] = profile
	return nil
}

func (r *fakePhysioRepo) MarkVerified(db *gorm.DB, id uuid.UUID) (int64, error) {
	p, ok := r.profiles[id]
	if !ok || p.IsVerified {
		return 0, nil
	}
	p.IsVerified = true
	p.IsAvailable = true
	return 1, nil
}

func (r *fakePhysioRepo) Delete(db *gorm.DB, id uuid.UUID) error {
	delete(r.profiles, id)
	return nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func (r *fakeUserRepo) Create(db *gorm.DB, user *entity.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(db *gorm.DB, user *entity.User) error {
	r.users[user.ID] = user
	return nil
}

type fakeClinicRepo struct {
	clinics map[int]*entity.Clinic
}

func (r *fakeClinicRepo) Create(db *gorm.DB, clinic *entity.Clinic) error {
	if clinic.ID == 0 {
		clinic.ID = len(r.clinics) + 1
	}
	r.clinics[clinic.ID] = clinic
	return nil
}

func (r *fakeClinicRepo) FindByID(db *gorm.DB, id int) (*entity.Clinic, error) {
	if c, ok := r.clinics[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeClinicRepo) FindActive(db *gorm.DB) ([]entity.Clinic, error) {
	var out []entity.Clinic
	for _, c := range r.clinics {
		if c.IsActive {
			out = append(out, *c)
		}
	}
	return out, nil
}

type fakeTreatmentTypeRepo struct {
	types map[int]*entity.TreatmentType
}

func (r *fakeTreatmentTypeRepo) Create(db *gorm.DB, tt *entity.TreatmentType) error {
	if tt.ID == 0 {
		tt.ID = len(r.types) + 1
	}
	r.types[tt.ID] = tt
	return nil
}

func (r *fakeTreatmentTypeRepo) FindByID(db *gorm.DB, id int) (*entity.TreatmentType, error) {
	if tt, ok := r.types[id]; ok {
		cp := *tt
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeTreatmentTypeRepo) FindActive(db *gorm.DB) ([]entity.TreatmentType, error) {
	var out []entity.TreatmentType
	for _, tt := range r.types {
		if tt.IsActive {
			out = append(out, *tt)
		}
	}
	return out, nil
}

func (r *fakeTreatmentTypeRepo) Update(db *gorm.DB, tt *entity.TreatmentType) error {
	r.types[tt.ID] = tt
	return nil
}

func (r *fakeTreatmentTypeRepo) Delete(db *gorm.DB, id int) (int64, error) {
	if _, ok := r.types[id]; !ok {
		return 0, nil
	}
	delete(r.types, id)
	return 1, nil
}

type fakeAvailabilityRepo struct {
	templates []entity.AvailabilityTemplate
	overrides []entity.SpecificAvailability
}

func (r *fakeAvailabilityRepo) CreateTemplate(db *gorm.DB, template *entity.AvailabilityTemplate) error {
	template.ID = len(r.templates) + 1
	r.templates = append(r.templates, *template)
	return nil
}

func (r *fakeAvailabilityRepo) FindTemplatesByPhysiotherapist(db *gorm.DB, physiotherapistID uuid.UUID) ([]entity.AvailabilityTemplate, error) {
	var out []entity.AvailabilityTemplate
	for _, t := range r.templates {
		if t.PhysiotherapistID == physiotherapistID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeAvailabilityRepo) FindTemplatesByDay(db *gorm.DB, physiotherapistID uuid.UUID, dayOfWeek int) ([]entity.AvailabilityTemplate, error) {
	var out []entity.AvailabilityTemplate
	for _, t := range r.templates {
		if t.PhysiotherapistID == physiotherapistID && t.DayOfWeek == dayOfWeek {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeAvailabilityRepo) DeleteTemplate(db *gorm.DB, physiotherapistID uuid.UUID, templateID int) (int64, error) {
	for i, t := range r.templates {
		if t.PhysiotherapistID == physiotherapistID && t.ID == templateID {
			r.templates = append(r.templates[:i], r.templates[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (r *fakeAvailabilityRepo) DeleteTemplatesByPhysiotherapist(db *gorm.DB, physiotherapistID uuid.UUID) error {
	kept := r.templates[:0]
	for _, t := range r.templates {
		if t.PhysiotherapistID != physiotherapistID {
			kept = append(kept, t)
		}
	}
	r.templates = kept
	return nil
}

func (r *fakeAvailabilityRepo) CreateOverride(db *gorm.DB, override *entity.SpecificAvailability) error {
	override.ID = len(r.overrides) + 1
	r.overrides = append(r.overrides, *override)
	return nil
}

func (r *fakeAvailabilityRepo) FindOverridesByDate(db *gorm.DB, physiotherapistID uuid.UUID, date time.Time) ([]entity.SpecificAvailability, error) {
	var out []entity.SpecificAvailability
	for _, o := range r.overrides {
		if o.PhysiotherapistID == physiotherapistID && o.Date.Equal(date) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeAvailabilityRepo) FindOverridesByPhysiotherapist(db *gorm.DB, physiotherapistID uuid.UUID) ([]entity.SpecificAvailability, error) {
	var out []entity.SpecificAvailability
	for _, o := range r.overrides {
		if o.PhysiotherapistID == physiotherapistID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeAvailabilityRepo) DeleteOverride(db *gorm.DB, physiotherapistID uuid.UUID, overrideID int) (int64, error) {
	for i, o := range r.overrides {
		if o.PhysiotherapistID == physiotherapistID && o.ID == overrideID {
			r.overrides = append(r.overrides[:i], r.overrides[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (r *fakeAvailabilityRepo) DeleteOverridesByPhysiotherapist(db *gorm.DB, physiotherapistID uuid.UUID) error {
	kept := r.overrides[:0]
	for _, o := range r.overrides {
		if o.PhysiotherapistID != physiotherapistID {
			kept = append(kept, o)
		}
	}
	r.overrides = kept
	return nil
}

// fakeBookingRepo keeps bookings in a map and enforces the slot_key and
// booking_reference unique constraints the way PostgreSQL would: duplicate
// inserts fail with a 23505 error naming the constraint.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*entity.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[uuid.UUID]*entity.Booking{}}
}

func (r *fakeBookingRepo) Create(db *gorm.DB, booking *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.bookings {
		if booking.SlotKey != nil && b.SlotKey != nil && *b.SlotKey == *booking.SlotKey {
			return &pgconn.PgError{Code: "23505", ConstraintName: "idx_bookings_slot_key"}
		}
		if b.BookingReference == booking.BookingReference {
			return &pgconn.PgError{Code: "23505", ConstraintName: "idx_bookings_booking_reference"}
		}
	}

	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	cp := *booking
	r.bookings[booking.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	cp.Status = entity.BookingStatus{ID: b.StatusID, Name: fakeStatusNames[b.StatusID]}
	return &cp, nil
}

func (r *fakeBookingRepo) ReferenceExists(db *gorm.DB, reference string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.bookings {
		if b.BookingReference == reference {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []entity.Booking
	for _, b := range r.bookings {
		if b.PatientID == patientID {
			cp := *b
			cp.Status = entity.BookingStatus{ID: b.StatusID, Name: fakeStatusNames[b.StatusID]}
			out = append(out, cp)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) FindByPhysiotherapistID(db *gorm.DB, physiotherapistID uuid.UUID) ([]entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []entity.Booking
	for _, b := range r.bookings {
		if b.PhysiotherapistID == physiotherapistID {
			cp := *b
			cp.Status = entity.BookingStatus{ID: b.StatusID, Name: fakeStatusNames[b.StatusID]}
			out = append(out, cp)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) FindSlotHoldingTimes(db *gorm.DB, physiotherapistID uuid.UUID, date time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	for _, b := range r.bookings {
		if b.PhysiotherapistID != physiotherapistID || !b.AppointmentDate.Equal(date) {
			continue
		}
		if b.StatusID == statusPendingID || b.StatusID == statusConfirmedID {
			out = append(out, b.AppointmentTime)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) UpdateStatusGuarded(db *gorm.DB, id uuid.UUID, fromStatusIDs []int, toStatusID int, clearSlotKey bool) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return 0, nil
	}
	for _, from := range fromStatusIDs {
		if b.StatusID == from {
			b.StatusID = toStatusID
			if clearSlotKey {
				b.SlotKey = nil
			}
			return 1, nil
		}
	}
	return 0, nil
}

func (r *fakeBookingRepo) CountActiveByPhysiotherapist(db *gorm.DB, physiotherapistID uuid.UUID, activeStatusIDs []int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, b := range r.bookings {
		if b.PhysiotherapistID != physiotherapistID {
			continue
		}
		for _, id := range activeStatusIDs {
			if b.StatusID == id {
				count++
				break
			}
		}
	}
	return count, nil
}

func (r *fakeBookingRepo) DeleteTerminalByPhysiotherapist(db *gorm.DB, physiotherapistID uuid.UUID, terminalStatusIDs []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, b := range r.bookings {
		if b.PhysiotherapistID != physiotherapistID {
			continue
		}
		for _, sid := range terminalStatusIDs {
			if b.StatusID == sid {
				delete(r.bookings, id)
				break
			}
		}
	}
	return nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[uuid.UUID]*entity.Payment
	methods  map[string]*entity.PaymentMethod
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{
		payments: map[uuid.UUID]*entity.Payment{},
		methods:  map[string]*entity.PaymentMethod{entity.PaymentMethodCard: {ID: 1, Name: entity.PaymentMethodCard}},
	}
}

func (r *fakePaymentRepo) Create(db *gorm.DB, payment *entity.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	payment.CreatedAt = time.Now()
	cp := *payment
	r.payments[payment.ID] = &cp
	return nil
}

func (r *fakePaymentRepo) FindByBookingID(db *gorm.DB, bookingID uuid.UUID) ([]entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []entity.Payment
	for _, p := range r.payments {
		if p.BookingID == bookingID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) FindByTransactionID(db *gorm.DB, transactionID string) (*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.payments {
		if p.TransactionID == transactionID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) FindByPaymentIntentID(db *gorm.DB, paymentIntentID string) (*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.payments {
		if p.PaymentIntentID == paymentIntentID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) MarkCompleted(db *gorm.DB, id uuid.UUID, paymentIntentID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.payments[id]
	if !ok || p.Status != entity.PaymentStatusPending {
		return 0, nil
	}
	p.Status = entity.PaymentStatusCompleted
	now := time.Now()
	p.ProcessedAt = &now
	if paymentIntentID != "" {
		p.PaymentIntentID = paymentIntentID
	}
	return 1, nil
}

func (r *fakePaymentRepo) MarkFailed(db *gorm.DB, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.payments[id]
	if !ok || p.Status != entity.PaymentStatusPending {
		return 0, nil
	}
	p.Status = entity.PaymentStatusFailed
	now := time.Now()
	p.ProcessedAt = &now
	return 1, nil
}

func (r *fakePaymentRepo) UpsertMethodByName(db *gorm.DB, methods []entity.PaymentMethod) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range methods {
		if _, ok := r.methods[m.Name]; !ok {
			m.ID = len(r.methods) + 1
			r.methods[m.Name] = &m
		}
	}
	return nil
}

func (r *fakePaymentRepo) FindMethodByName(db *gorm.DB, name string) (*entity.PaymentMethod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.methods[name]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}

type fakeAuditService struct {
	mu      sync.Mutex
	actions []string
}

func (s *fakeAuditService) Log(tx *gorm.DB, userID *uuid.UUID, action string, metadata entity.JSON) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, action)
	return nil
}
