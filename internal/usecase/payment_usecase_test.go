package usecase

import (
	"context"
	"testing"
	"time"

	"physio-marketplace/config"
	"physio-marketplace/internal/delivery/dto"
	"physio-marketplace/internal/domain/entity"
	"physio-marketplace/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fakeGateway struct {
	sessions  int
	lastCents int64
	fail      error
}

func (g *fakeGateway) CreateCheckoutSession(ctx context.Context, params service.CheckoutSessionParams) (*service.CheckoutSession, error) {
	if g.fail != nil {
		return nil, g.fail
	}
	g.sessions++
	g.lastCents = params.AmountCents
	return &service.CheckoutSession{
		SessionID:       "cs_test_123",
		PaymentIntentID: "pi_test_123",
		URL:             "https://gateway.example.com/pay/cs_test_123",
	}, nil
}

type paymentEnv struct {
	usecase   *paymentUsecase
	patientID uuid.UUID
	physioID  uuid.UUID
	bookings  *fakeBookingRepo
	payments  *fakePaymentRepo
	gateway   *fakeGateway
}

func newPaymentEnv(t *testing.T) *paymentEnv {
	t.Helper()

	bookings := newFakeBookingRepo()
	payments := newFakePaymentRepo()
	gateway := &fakeGateway{}

	u := NewPaymentUsecase(
		testDB(t), testLogger(), payments, bookings, fakeStatusRepo{}, gateway,
		&fakeAuditService{}, testSlotCache(),
		config.AppConfig{BaseURL: "http://localhost:3000"},
		config.PaymentConfig{Currency: "EUR"},
	).(*paymentUsecase)

	return &paymentEnv{
		usecase:   u,
		patientID: uuid.New(),
		physioID:  uuid.New(),
		bookings:  bookings,
		payments:  payments,
		gateway:   gateway,
	}
}

func (e *paymentEnv) seedBooking(statusID int) *entity.Booking {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	slotKey := entity.BuildSlotKey(e.physioID, day, "10:00")
	booking := &entity.Booking{
		ID:                uuid.New(),
		BookingReference:  "BKPAY" + uuid.NewString()[:6],
		PatientID:         e.patientID,
		PhysiotherapistID: e.physioID,
		ClinicID:          1,
		AppointmentDate:   day,
		AppointmentTime:   "10:00",
		DurationMinutes:   60,
		StatusID:          statusID,
		TotalAmount:       decimal.RequireFromString("85.50"),
	}
	if statusID == statusPendingID || statusID == statusConfirmedID {
		booking.SlotKey = &slotKey
	}
	e.bookings.bookings[booking.ID] = booking
	return booking
}

func (e *paymentEnv) seedPayment(bookingID uuid.UUID, status string) *entity.Payment {
	payment := &entity.Payment{
		ID:              uuid.New(),
		BookingID:       bookingID,
		PaymentMethodID: 1,
		Amount:          decimal.RequireFromString("85.50"),
		Currency:        "EUR",
		TransactionID:   "cs_test_123",
		PaymentIntentID: "pi_test_123",
		Status:          status,
	}
	e.payments.payments[payment.ID] = payment
	return payment
}

func TestCreatePaymentSession(t *testing.T) {
	env := newPaymentEnv(t)
	booking := env.seedBooking(statusPendingID)

	resp, err := env.usecase.CreatePaymentSession(authedContext(env.patientID), &dto.CreatePaymentSessionRequest{BookingID: booking.ID})
	if err != nil {
		t.Fatalf("CreatePaymentSession: %v", err)
	}
	if resp.CheckoutURL == "" {
		t.Error("expected a checkout URL")
	}
	// 85.50 in minor units.
	if env.gateway.lastCents != 8550 {
		t.Errorf("amount cents = %d, want 8550", env.gateway.lastCents)
	}

	recorded, _ := env.payments.FindByTransactionID(nil, "cs_test_123")
	if recorded == nil {
		t.Fatal("payment attempt was not recorded")
	}
	if recorded.Status != entity.PaymentStatusPending {
		t.Errorf("payment status = %q, want pending", recorded.Status)
	}
	if recorded.Currency != "EUR" {
		t.Errorf("currency = %q, want default EUR", recorded.Currency)
	}
}

func TestCreatePaymentSessionGuards(t *testing.T) {
	t.Run("not owned", func(t *testing.T) {
		env := newPaymentEnv(t)
		booking := env.seedBooking(statusPendingID)

		_, err := env.usecase.CreatePaymentSession(authedContext(uuid.New()), &dto.CreatePaymentSessionRequest{BookingID: booking.ID})
		if err != ErrBookingNotOwned {
			t.Errorf("expected ErrBookingNotOwned, got %v", err)
		}
	})

	t.Run("not payable once confirmed", func(t *testing.T) {
		env := newPaymentEnv(t)
		booking := env.seedBooking(statusConfirmedID)

		_, err := env.usecase.CreatePaymentSession(authedContext(env.patientID), &dto.CreatePaymentSessionRequest{BookingID: booking.ID})
		if err != ErrBookingNotPayable {
			t.Errorf("expected ErrBookingNotPayable, got %v", err)
		}
	})

	t.Run("already paid", func(t *testing.T) {
		env := newPaymentEnv(t)
		booking := env.seedBooking(statusPendingID)
		env.bookings.bookings[booking.ID].Payments = []entity.Payment{
			{ID: uuid.New(), BookingID: booking.ID, Status: entity.PaymentStatusCompleted},
		}

		_, err := env.usecase.CreatePaymentSession(authedContext(env.patientID), &dto.CreatePaymentSessionRequest{BookingID: booking.ID})
		if err != ErrBookingAlreadyPaid {
			t.Errorf("expected ErrBookingAlreadyPaid, got %v", err)
		}
	})

	t.Run("unknown booking", func(t *testing.T) {
		env := newPaymentEnv(t)

		_, err := env.usecase.CreatePaymentSession(authedContext(env.patientID), &dto.CreatePaymentSessionRequest{BookingID: uuid.New()})
		if err != ErrBookingNotFound {
			t.Errorf("expected ErrBookingNotFound, got %v", err)
		}
	})
}

func TestApplyGatewayEventSuccess(t *testing.T) {
	env := newPaymentEnv(t)
	booking := env.seedBooking(statusPendingID)
	payment := env.seedPayment(booking.ID, entity.PaymentStatusPending)

	event := &dto.GatewayEvent{
		Type:          dto.GatewayEventSessionCompleted,
		TransactionID: "cs_test_123",
	}
	if err := env.usecase.ApplyGatewayEvent(context.Background(), event); err != nil {
		t.Fatalf("ApplyGatewayEvent: %v", err)
	}

	if got := env.payments.payments[payment.ID].Status; got != entity.PaymentStatusCompleted {
		t.Errorf("payment status = %q, want completed", got)
	}
	if got := env.bookings.bookings[booking.ID].StatusID; got != statusConfirmedID {
		t.Errorf("booking status id = %d, want confirmed", got)
	}
	// A confirmed booking keeps holding its slot.
	if env.bookings.bookings[booking.ID].SlotKey == nil {
		t.Error("confirmed booking must keep its slot key")
	}
}

// A redelivered success event touches zero rows and reports success again.
func TestApplyGatewayEventSuccessIdempotent(t *testing.T) {
	env := newPaymentEnv(t)
	booking := env.seedBooking(statusPendingID)
	payment := env.seedPayment(booking.ID, entity.PaymentStatusPending)

	event := &dto.GatewayEvent{
		Type:          dto.GatewayEventSessionCompleted,
		TransactionID: "cs_test_123",
	}
	for i := 0; i < 3; i++ {
		if err := env.usecase.ApplyGatewayEvent(context.Background(), event); err != nil {
			t.Fatalf("apply %d: %v", i+1, err)
		}
	}

	if got := env.payments.payments[payment.ID].Status; got != entity.PaymentStatusCompleted {
		t.Errorf("payment status = %q, want completed", got)
	}
	if got := env.bookings.bookings[booking.ID].StatusID; got != statusConfirmedID {
		t.Errorf("booking status id = %d, want confirmed", got)
	}
}

func TestApplyGatewayEventFailureReleasesSlot(t *testing.T) {
	env := newPaymentEnv(t)
	booking := env.seedBooking(statusPendingID)
	payment := env.seedPayment(booking.ID, entity.PaymentStatusPending)

	event := &dto.GatewayEvent{
		Type:          dto.GatewayEventPaymentFailed,
		TransactionID: "cs_test_123",
	}
	if err := env.usecase.ApplyGatewayEvent(context.Background(), event); err != nil {
		t.Fatalf("ApplyGatewayEvent: %v", err)
	}

	if got := env.payments.payments[payment.ID].Status; got != entity.PaymentStatusFailed {
		t.Errorf("payment status = %q, want failed", got)
	}
	stored := env.bookings.bookings[booking.ID]
	if stored.StatusID != statusPaymentFailedID {
		t.Errorf("booking status id = %d, want payment_failed", stored.StatusID)
	}
	if stored.SlotKey != nil {
		t.Error("failed payment must release the slot")
	}
}

// A success arriving after the payment already failed must not resurrect
// the booking.
func TestApplyGatewayEventStaleSuccessIsNoOp(t *testing.T) {
	env := newPaymentEnv(t)
	booking := env.seedBooking(statusPendingID)
	payment := env.seedPayment(booking.ID, entity.PaymentStatusPending)

	failure := &dto.GatewayEvent{Type: dto.GatewayEventPaymentFailed, TransactionID: "cs_test_123"}
	if err := env.usecase.ApplyGatewayEvent(context.Background(), failure); err != nil {
		t.Fatalf("apply failure: %v", err)
	}

	staleSuccess := &dto.GatewayEvent{Type: dto.GatewayEventSessionCompleted, TransactionID: "cs_test_123"}
	if err := env.usecase.ApplyGatewayEvent(context.Background(), staleSuccess); err != nil {
		t.Fatalf("apply stale success: %v", err)
	}

	if got := env.payments.payments[payment.ID].Status; got != entity.PaymentStatusFailed {
		t.Errorf("payment status = %q, want failed to stick", got)
	}
	if got := env.bookings.bookings[booking.ID].StatusID; got != statusPaymentFailedID {
		t.Errorf("booking status id = %d, want payment_failed to stick", got)
	}
}

func TestApplyGatewayEventMatchesByBookingMetadata(t *testing.T) {
	env := newPaymentEnv(t)
	booking := env.seedBooking(statusPendingID)
	payment := env.seedPayment(booking.ID, entity.PaymentStatusPending)
	payment.TransactionID = "cs_other"
	payment.PaymentIntentID = "pi_other"

	// Neither id matches a stored payment; the booking metadata is the
	// last-resort correlation.
	event := &dto.GatewayEvent{
		Type:      dto.GatewayEventSessionCompleted,
		BookingID: booking.ID.String(),
	}
	if err := env.usecase.ApplyGatewayEvent(context.Background(), event); err != nil {
		t.Fatalf("ApplyGatewayEvent: %v", err)
	}
	if got := env.payments.payments[payment.ID].Status; got != entity.PaymentStatusCompleted {
		t.Errorf("payment status = %q, want completed", got)
	}
}

func TestApplyGatewayEventUnmatched(t *testing.T) {
	env := newPaymentEnv(t)
	env.seedBooking(statusPendingID)

	event := &dto.GatewayEvent{
		Type:          dto.GatewayEventSessionCompleted,
		TransactionID: "cs_unknown",
	}
	if err := env.usecase.ApplyGatewayEvent(context.Background(), event); err != ErrPaymentEventUnmatched {
		t.Errorf("expected ErrPaymentEventUnmatched, got %v", err)
	}
}

func TestApplyGatewayEventUnknownTypeIgnored(t *testing.T) {
	env := newPaymentEnv(t)

	event := &dto.GatewayEvent{Type: "invoice.created", TransactionID: "cs_test_123"}
	if err := env.usecase.ApplyGatewayEvent(context.Background(), event); err != nil {
		t.Errorf("unknown event types are acknowledged, got %v", err)
	}
}
