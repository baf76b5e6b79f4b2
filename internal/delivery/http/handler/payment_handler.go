package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"physio-marketplace/config"
	"physio-marketplace/internal/delivery/dto"
	"physio-marketplace/internal/service"
	"physio-marketplace/internal/usecase"
	"physio-marketplace/pkg/response"
	"physio-marketplace/pkg/validator"

	"github.com/sirupsen/logrus"
)

// maxEventBodyBytes caps webhook bodies so a hostile sender cannot exhaust memory.
const maxEventBodyBytes = 1 << 20

// SignatureHeader carries the payment event signature.
const SignatureHeader = "X-Gateway-Signature"

type PaymentHandler struct {
	log            *logrus.Logger
	paymentUsecase usecase.PaymentUsecase
	retryService   *service.EventRetryService
	validator      *validator.CustomValidator
	paymentCfg     config.PaymentConfig
}

func NewPaymentHandler(
	log *logrus.Logger,
	paymentUsecase usecase.PaymentUsecase,
	retryService *service.EventRetryService,
	validator *validator.CustomValidator,
	paymentCfg config.PaymentConfig,
) *PaymentHandler {
	return &PaymentHandler{
		log:            log,
		paymentUsecase: paymentUsecase,
		retryService:   retryService,
		validator:      validator,
		paymentCfg:     paymentCfg,
	}
}

// CreatePaymentSession opens a hosted checkout session for a booking
// @Summary Create payment session
// @Tags Payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreatePaymentSessionRequest true "Session Request"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /payments/sessions [post]
func (h *PaymentHandler) CreatePaymentSession(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePaymentSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	session, err := h.paymentUsecase.CreatePaymentSession(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrBookingNotFound:
			response.NotFound(w, "Booking not found")
		case usecase.ErrBookingNotOwned:
			response.Forbidden(w, "Booking does not belong to you")
		case usecase.ErrBookingNotPayable:
			response.Conflict(w, "Booking is not awaiting payment")
		case usecase.ErrBookingAlreadyPaid:
			response.Conflict(w, "Booking already has a completed payment")
		default:
			response.InternalServerError(w, "Failed to create payment session")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Payment session created", session)
}

// HandleGatewayEvent receives signed payment provider webhooks.
//
// The signature is verified against the raw body before anything is decoded
// or mutated. Invalid signatures get 400 and are dropped; events that match
// no payment yet are deferred to the retry queue and acknowledged so the
// provider stops redelivering; transient failures get 500 so it retries.
func (h *PaymentHandler) HandleGatewayEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxEventBodyBytes))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Failed to read request body", nil)
		return
	}

	sigErr := service.VerifyEventSignature(
		h.paymentCfg.WebhookSecret,
		r.Header.Get(SignatureHeader),
		body,
		h.paymentCfg.SignatureTolerance,
		time.Now(),
	)
	if sigErr != nil {
		h.log.Warnf("Rejected payment event with bad signature: %+v", sigErr)
		response.Error(w, http.StatusBadRequest, "Invalid event signature", nil)
		return
	}

	var event dto.GatewayEvent
	if err := json.Unmarshal(body, &event); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid event body", nil)
		return
	}

	if err := h.paymentUsecase.ApplyGatewayEvent(r.Context(), &event); err != nil {
		if err == usecase.ErrPaymentEventUnmatched {
			// Likely arrived before the session row committed; park it for
			// the retry loop and acknowledge.
			if deferErr := h.retryService.Defer(r.Context(), body); deferErr != nil {
				response.InternalServerError(w, "Failed to defer event")
				return
			}
			response.Success(w, http.StatusOK, "Event deferred", nil)
			return
		}
		h.log.Warnf("Failed to apply payment event: %+v", err)
		response.InternalServerError(w, "Failed to process event")
		return
	}

	response.Success(w, http.StatusOK, "Event processed", nil)
}
