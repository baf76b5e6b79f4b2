package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// CheckoutSessionParams describes a hosted checkout session to create.
// Amounts are integer minor units (cents) because the gateway rejects
// fractional values.
type CheckoutSessionParams struct {
	BookingID   uuid.UUID
	AmountCents int64
	Currency    string
	Description string
	SuccessURL  string
	CancelURL   string
}

// CheckoutSession is the gateway's view of a created session. SessionID is
// stored as the payment transaction id and PaymentIntentID correlates the
// asynchronous payment events.
type CheckoutSession struct {
	SessionID       string `json:"id"`
	PaymentIntentID string `json:"payment_intent"`
	URL             string `json:"url"`
}

// PaymentGateway creates hosted checkout sessions with the payment provider.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error)
}

type httpPaymentGateway struct {
	log        *logrus.Logger
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

func NewHTTPPaymentGateway(log *logrus.Logger, baseURL, secretKey string) PaymentGateway {
	return &httpPaymentGateway{
		log:       log,
		baseURL:   baseURL,
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type createSessionRequest struct {
	AmountCents int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Description string            `json:"description,omitempty"`
	SuccessURL  string            `json:"success_url"`
	CancelURL   string            `json:"cancel_url"`
	Metadata    map[string]string `json:"metadata"`
}

func (g *httpPaymentGateway) CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error) {
	body, err := json.Marshal(createSessionRequest{
		AmountCents: params.AmountCents,
		Currency:    params.Currency,
		Description: params.Description,
		SuccessURL:  params.SuccessURL,
		CancelURL:   params.CancelURL,
		Metadata: map[string]string{
			"booking_id": params.BookingID.String(),
		},
	})
	if err != nil {
		return nil, err
	}

	url := g.baseURL + "/v1/checkout/sessions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.secretKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.log.Warnf("Failed to reach payment gateway: %+v", err)
		return nil, ErrGatewayUnavailable
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		g.log.Warnf("Payment gateway returned status %d: %s", resp.StatusCode, respBody)
		return nil, fmt.Errorf("%w: status %d", ErrGatewayUnavailable, resp.StatusCode)
	}

	var session CheckoutSession
	if err := json.Unmarshal(respBody, &session); err != nil {
		return nil, err
	}
	if session.SessionID == "" || session.URL == "" {
		return nil, fmt.Errorf("%w: incomplete session response", ErrGatewayUnavailable)
	}

	return &session, nil
}
