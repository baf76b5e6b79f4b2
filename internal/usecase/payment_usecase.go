package usecase

import (
	"context"
	"errors"
	"fmt"

	"physio-marketplace/config"
	"physio-marketplace/internal/delivery/dto"
	"physio-marketplace/internal/delivery/http/middleware"
	"physio-marketplace/internal/domain/entity"
	"physio-marketplace/internal/domain/repository"
	"physio-marketplace/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrBookingNotPayable     = errors.New("booking is not awaiting payment")
	ErrBookingAlreadyPaid    = errors.New("booking already has a completed payment")
	ErrPaymentMethodMissing  = errors.New("payment method reference data missing")
	ErrPaymentEventUnmatched = errors.New("payment event matches no payment attempt")
)

type PaymentUsecase interface {
	CreatePaymentSession(ctx context.Context, req *dto.CreatePaymentSessionRequest) (*dto.PaymentSessionResponse, error)
	// ApplyGatewayEvent reconciles one payment provider event against the
	// stored payment attempts and booking state. Safe to call repeatedly
	// with the same event.
	ApplyGatewayEvent(ctx context.Context, event *dto.GatewayEvent) error
}

type paymentUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	paymentRepo  repository.PaymentRepository
	bookingRepo  repository.BookingRepository
	statusRepo   repository.BookingStatusRepository
	gateway      service.PaymentGateway
	auditService service.AuditService
	slotCache    *service.SlotCache
	appCfg       config.AppConfig
	paymentCfg   config.PaymentConfig
}

func NewPaymentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	paymentRepo repository.PaymentRepository,
	bookingRepo repository.BookingRepository,
	statusRepo repository.BookingStatusRepository,
	gateway service.PaymentGateway,
	auditService service.AuditService,
	slotCache *service.SlotCache,
	appCfg config.AppConfig,
	paymentCfg config.PaymentConfig,
) PaymentUsecase {
	return &paymentUsecase{
		db:           db,
		log:          log,
		paymentRepo:  paymentRepo,
		bookingRepo:  bookingRepo,
		statusRepo:   statusRepo,
		gateway:      gateway,
		auditService: auditService,
		slotCache:    slotCache,
		appCfg:       appCfg,
		paymentCfg:   paymentCfg,
	}
}

// CreatePaymentSession opens a hosted checkout session for a pending booking
// and records the attempt. The gateway call happens outside any database
// transaction so a slow provider cannot pin locks.
func (u *paymentUsecase) CreatePaymentSession(ctx context.Context, req *dto.CreatePaymentSessionRequest) (*dto.PaymentSessionResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	booking, err := u.bookingRepo.FindByID(u.db.WithContext(ctx), req.BookingID)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", req.BookingID, err)
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if booking.PatientID != userID {
		return nil, ErrBookingNotOwned
	}
	if booking.Status.Name != entity.BookingStatusPending {
		return nil, ErrBookingNotPayable
	}
	if booking.HasCompletedPayment() {
		return nil, ErrBookingAlreadyPaid
	}

	currency := req.Currency
	if currency == "" {
		currency = u.paymentCfg.Currency
	}

	method, err := u.paymentRepo.FindMethodByName(u.db.WithContext(ctx), entity.PaymentMethodCard)
	if err != nil {
		u.log.Warnf("Failed to find payment method: %+v", err)
		return nil, err
	}
	if method == nil {
		return nil, ErrPaymentMethodMissing
	}

	// Gateways want integer minor units.
	amountCents := booking.TotalAmount.Shift(2).Round(0).IntPart()

	session, err := u.gateway.CreateCheckoutSession(ctx, service.CheckoutSessionParams{
		BookingID:   booking.ID,
		AmountCents: amountCents,
		Currency:    currency,
		Description: fmt.Sprintf("Physiotherapy appointment %s", booking.BookingReference),
		SuccessURL:  u.appCfg.BaseURL + "/bookings/" + booking.ID.String() + "?payment=success",
		CancelURL:   u.appCfg.BaseURL + "/bookings/" + booking.ID.String() + "?payment=cancelled",
	})
	if err != nil {
		u.log.Warnf("Failed to create checkout session for booking %s: %+v", booking.ID, err)
		return nil, err
	}

	payment := &entity.Payment{
		BookingID:       booking.ID,
		PaymentMethodID: method.ID,
		Amount:          booking.TotalAmount,
		Currency:        currency,
		TransactionID:   session.SessionID,
		PaymentIntentID: session.PaymentIntentID,
		Status:          entity.PaymentStatusPending,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.paymentRepo.Create(tx, payment); err != nil {
		u.log.Warnf("Failed to record payment attempt: %+v", err)
		return nil, err
	}

	u.auditService.Log(tx, &userID, entity.AuditActionPaymentSession, entity.JSON{
		"booking_id":     booking.ID.String(),
		"payment_id":     payment.ID.String(),
		"transaction_id": session.SessionID,
		"amount_cents":   amountCents,
		"currency":       currency,
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Payment session created: booking=%s, session=%s", booking.ID, session.SessionID)
	return &dto.PaymentSessionResponse{
		CheckoutURL: session.URL,
		BookingID:   booking.ID,
	}, nil
}

// ApplyGatewayEvent applies a success or failure event.
//
// Idempotency comes from the guarded updates: a redelivered success finds the
// payment already completed and the booking already confirmed, touches zero
// rows, and reports success again. Stale events against terminal bookings are
// no-ops for the same reason.
func (u *paymentUsecase) ApplyGatewayEvent(ctx context.Context, event *dto.GatewayEvent) error {
	switch event.Type {
	case dto.GatewayEventSessionCompleted, dto.GatewayEventPaymentFailed:
	default:
		u.log.Infof("Ignoring unhandled gateway event type %q", event.Type)
		return nil
	}

	payment, err := u.matchPayment(ctx, event)
	if err != nil {
		return err
	}
	if payment == nil {
		return ErrPaymentEventUnmatched
	}

	booking, err := u.bookingRepo.FindByID(u.db.WithContext(ctx), payment.BookingID)
	if err != nil {
		u.log.Warnf("Failed to find booking %s for payment event: %+v", payment.BookingID, err)
		return err
	}
	if booking == nil {
		return ErrBookingNotFound
	}

	if event.Type == dto.GatewayEventSessionCompleted {
		return u.applySuccess(ctx, payment, booking, event)
	}
	return u.applyFailure(ctx, payment, booking, event)
}

func (u *paymentUsecase) applySuccess(ctx context.Context, payment *entity.Payment, booking *entity.Booking, event *dto.GatewayEvent) error {
	fromIDs, toID, err := u.resolveStatusPair(ctx, entity.BookingStatusPending, entity.BookingStatusConfirmed)
	if err != nil {
		return err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	paymentRows, err := u.paymentRepo.MarkCompleted(tx, payment.ID, event.PaymentIntentID)
	if err != nil {
		u.log.Warnf("Failed to mark payment %s completed: %+v", payment.ID, err)
		return err
	}

	bookingRows, err := u.bookingRepo.UpdateStatusGuarded(tx, booking.ID, fromIDs, toID, false)
	if err != nil {
		u.log.Warnf("Failed to confirm booking %s: %+v", booking.ID, err)
		return err
	}

	if paymentRows == 0 && bookingRows == 0 {
		// Redelivery or a stale success after failure/cancel: nothing to do.
		u.log.Infof("Payment success event was a no-op: payment=%s, booking=%s, status=%s",
			payment.ID, booking.ID, booking.Status.Name)
		return nil
	}

	u.auditService.Log(tx, nil, entity.AuditActionPaymentReconcile, entity.JSON{
		"booking_id":     booking.ID.String(),
		"payment_id":     payment.ID.String(),
		"event_type":     event.Type,
		"transaction_id": event.TransactionID,
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.log.Infof("Payment confirmed: booking=%s, payment=%s", booking.ID, payment.ID)
	return nil
}

func (u *paymentUsecase) applyFailure(ctx context.Context, payment *entity.Payment, booking *entity.Booking, event *dto.GatewayEvent) error {
	fromIDs, toID, err := u.resolveStatusPair(ctx, entity.BookingStatusPending, entity.BookingStatusPaymentFailed)
	if err != nil {
		return err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	paymentRows, err := u.paymentRepo.MarkFailed(tx, payment.ID)
	if err != nil {
		u.log.Warnf("Failed to mark payment %s failed: %+v", payment.ID, err)
		return err
	}

	// A failed payment releases the slot for other patients.
	bookingRows, err := u.bookingRepo.UpdateStatusGuarded(tx, booking.ID, fromIDs, toID, true)
	if err != nil {
		u.log.Warnf("Failed to mark booking %s payment_failed: %+v", booking.ID, err)
		return err
	}

	if paymentRows == 0 && bookingRows == 0 {
		u.log.Infof("Payment failure event was a no-op: payment=%s, booking=%s, status=%s",
			payment.ID, booking.ID, booking.Status.Name)
		return nil
	}

	u.auditService.Log(tx, nil, entity.AuditActionPaymentReconcile, entity.JSON{
		"booking_id":     booking.ID.String(),
		"payment_id":     payment.ID.String(),
		"event_type":     event.Type,
		"transaction_id": event.TransactionID,
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	if bookingRows > 0 {
		u.slotCache.Invalidate(ctx, booking.PhysiotherapistID, booking.AppointmentDate.Format("2006-01-02"))
	}

	u.log.Infof("Payment failed: booking=%s, payment=%s", booking.ID, payment.ID)
	return nil
}

// matchPayment correlates an event with a payment attempt: session id first,
// then intent id, then the booking metadata as a last resort (picking the
// most recent pending attempt).
func (u *paymentUsecase) matchPayment(ctx context.Context, event *dto.GatewayEvent) (*entity.Payment, error) {
	if event.TransactionID != "" {
		payment, err := u.paymentRepo.FindByTransactionID(u.db.WithContext(ctx), event.TransactionID)
		if err != nil {
			u.log.Warnf("Failed to match payment by transaction id: %+v", err)
			return nil, err
		}
		if payment != nil {
			return payment, nil
		}
	}

	if event.PaymentIntentID != "" {
		payment, err := u.paymentRepo.FindByPaymentIntentID(u.db.WithContext(ctx), event.PaymentIntentID)
		if err != nil {
			u.log.Warnf("Failed to match payment by intent id: %+v", err)
			return nil, err
		}
		if payment != nil {
			return payment, nil
		}
	}

	if event.BookingID != "" {
		bookingID, err := uuid.Parse(event.BookingID)
		if err != nil {
			return nil, nil
		}
		payments, err := u.paymentRepo.FindByBookingID(u.db.WithContext(ctx), bookingID)
		if err != nil {
			u.log.Warnf("Failed to match payment by booking id: %+v", err)
			return nil, err
		}
		for i := len(payments) - 1; i >= 0; i-- {
			if payments[i].Status == entity.PaymentStatusPending {
				return &payments[i], nil
			}
		}
	}

	return nil, nil
}

func (u *paymentUsecase) resolveStatusPair(ctx context.Context, fromName, toName string) ([]int, int, error) {
	from, err := u.statusRepo.FindByName(u.db.WithContext(ctx), fromName)
	if err != nil {
		return nil, 0, err
	}
	to, err := u.statusRepo.FindByName(u.db.WithContext(ctx), toName)
	if err != nil {
		return nil, 0, err
	}
	if from == nil || to == nil {
		return nil, 0, ErrStatusNotSeeded
	}
	return []int{from.ID}, to.ID, nil
}
