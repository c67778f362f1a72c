package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/checkout/session"
	"github.com/stripe/stripe-go/v84/webhook"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"ridemarket/internal/domain"
	"ridemarket/internal/paytm"
)

// Config carries the gateway credentials and redirect URLs.
type Config struct {
	PaytmMID         string
	PaytmKey         string
	PaytmWebsite     string
	PaytmEnv         string
	PaytmCallbackURL string

	StripeSecretKey     string
	StripeWebhookSecret string
	StripeSuccessURL    string
	StripeCancelURL     string
}

type Service struct {
	bookings BookingRepository
	feed     SeatEventPublisher
	log      *zap.Logger
	cfg      Config

	statusURL  string
	httpClient *http.Client
}

func NewService(bookings BookingRepository, feed SeatEventPublisher, log *zap.Logger, cfg Config) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.StripeSecretKey != "" {
		stripe.Key = cfg.StripeSecretKey
	}
	return &Service{
		bookings:   bookings,
		feed:       feed,
		log:        log,
		cfg:        cfg,
		statusURL:  paytm.StatusURL(cfg.PaytmEnv),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// InitiatePaytm builds the signed parameter set for the hosted Paytm form.
func (s *Service) InitiatePaytm(ctx context.Context, userID int64, req InitiatePaytmRequest) (*InitiatePaytmResponse, error) {
	if s.cfg.PaytmMID == "" || s.cfg.PaytmKey == "" {
		return nil, ErrNotConfigured
	}

	b, err := s.payableBooking(ctx, userID, req.BookingID)
	if err != nil {
		return nil, err
	}

	return s.signedPaytmOrder(newOrderID(b.ID), strconv.FormatInt(userID, 10), b.TotalPrice)
}

// InitiatePaytmOrder signs a caller-supplied order without touching bookings.
func (s *Service) InitiatePaytmOrder(ctx context.Context, req InitiatePaytmOrderRequest) (*InitiatePaytmResponse, error) {
	if s.cfg.PaytmMID == "" || s.cfg.PaytmKey == "" {
		return nil, ErrNotConfigured
	}
	return s.signedPaytmOrder(req.OrderID, req.CustomerID, req.Amount)
}

func (s *Service) signedPaytmOrder(orderID, customerID string, amount float64) (*InitiatePaytmResponse, error) {
	params := map[string]string{
		"MID":              s.cfg.PaytmMID,
		"WEBSITE":          s.cfg.PaytmWebsite,
		"INDUSTRY_TYPE_ID": "Retail",
		"CHANNEL_ID":       "WEB",
		"ORDER_ID":         orderID,
		"CUST_ID":          customerID,
		"TXN_AMOUNT":       fmt.Sprintf("%.2f", amount),
		"CALLBACK_URL":     s.cfg.PaytmCallbackURL,
	}

	checksum, err := paytm.GenerateSignature(params, s.cfg.PaytmKey)
	if err != nil {
		return nil, err
	}

	return &InitiatePaytmResponse{
		OrderID:    orderID,
		GatewayURL: paytm.ProcessURL(s.cfg.PaytmEnv),
		Params:     params,
		Checksum:   checksum,
	}, nil
}

// HandlePaytmCallback settles the booking from the gateway's callback. A
// callback carrying a checksum must verify against it; one without a checksum
// is not trusted directly, the signed status API is queried instead and its
// answer becomes the outcome.
func (s *Service) HandlePaytmCallback(ctx context.Context, form map[string]string) (*CallbackResult, error) {
	checksum := form["CHECKSUMHASH"]
	params := make(map[string]string, len(form))
	for k, v := range form {
		if k == "CHECKSUMHASH" {
			continue
		}
		params[k] = v
	}

	if checksum == "" {
		verified, err := s.queryPaytmStatus(ctx, params["ORDERID"])
		if err != nil {
			s.log.Warn("paytm status check failed",
				zap.String("order_id", params["ORDERID"]), zap.Error(err))
			return nil, ErrInvalidSignature
		}
		for _, k := range []string{"STATUS", "TXNID", "RESPCODE", "RESPMSG"} {
			if v, ok := verified[k]; ok {
				params[k] = v
			}
		}
	} else if !paytm.VerifySignature(params, s.cfg.PaytmKey, checksum) {
		s.log.Warn("paytm callback rejected", zap.String("order_id", form["ORDERID"]))
		return nil, ErrInvalidSignature
	}

	orderID := params["ORDERID"]
	bookingID, err := bookingIDFromOrder(orderID)
	if err != nil {
		return nil, ErrUnknownOrder
	}
	if _, err := s.bookings.GetByID(ctx, bookingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownOrder
		}
		return nil, err
	}

	raw, _ := json.Marshal(params)
	status := params["STATUS"]
	result := &CallbackResult{
		BookingID: bookingID,
		OrderID:   orderID,
		Status:    status,
	}

	if status == "TXN_SUCCESS" {
		if err := s.bookings.ConfirmPayment(ctx, bookingID,
			params["TXNID"], status, params["RESPCODE"], params["RESPMSG"], string(raw)); err != nil {
			return nil, err
		}
		result.Paid = true
		s.log.Info("booking paid",
			zap.Int64("booking_id", bookingID),
			zap.String("gateway", "paytm"),
			zap.String("txn_id", params["TXNID"]))
		return result, nil
	}

	if err := s.bookings.RecordPaymentFailure(ctx, bookingID,
		status, params["RESPCODE"], params["RESPMSG"], string(raw)); err != nil {
		return nil, err
	}
	s.log.Info("payment not successful",
		zap.Int64("booking_id", bookingID),
		zap.String("status", status),
		zap.String("resp_code", params["RESPCODE"]))
	return result, nil
}

// queryPaytmStatus asks the gateway's status API for the transaction outcome
// of an order. The request body is signed with the merchant key, so the
// response can be trusted even when the callback itself could not be.
func (s *Service) queryPaytmStatus(ctx context.Context, orderID string) (map[string]string, error) {
	if orderID == "" {
		return nil, ErrUnknownOrder
	}

	body := fmt.Sprintf(`{"MID":"%s","ORDERID":"%s"}`, s.cfg.PaytmMID, orderID)
	checksum, err := paytm.GenerateSignatureString(body, s.cfg.PaytmKey)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(map[string]string{
		"MID":          s.cfg.PaytmMID,
		"ORDERID":      orderID,
		"CHECKSUMHASH": checksum,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.statusURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("paytm status api returned %d", resp.StatusCode)
	}

	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateStripeSession opens a hosted checkout session for the booking.
func (s *Service) CreateStripeSession(ctx context.Context, userID int64, req CreateSessionRequest) (*CreateSessionResponse, error) {
	if s.cfg.StripeSecretKey == "" {
		return nil, ErrNotConfigured
	}

	b, err := s.payableBooking(ctx, userID, req.BookingID)
	if err != nil {
		return nil, err
	}

	name := "Ride booking " + b.Reference
	if b.Trip != nil {
		name = fmt.Sprintf("%s to %s (%s)", b.Trip.Source, b.Trip.Destination, b.Reference)
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String("inr"),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(name),
				},
				UnitAmount: stripe.Int64(int64(b.TotalPrice * 100)),
			},
			Quantity: stripe.Int64(1),
		}},
		SuccessURL: stripe.String(s.cfg.StripeSuccessURL),
		CancelURL:  stripe.String(s.cfg.StripeCancelURL),
		ExpiresAt:  stripe.Int64(time.Now().Add(30 * time.Minute).Unix()),
		Metadata: map[string]string{
			"booking_id": strconv.FormatInt(b.ID, 10),
		},
	}

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("create stripe session: %w", err)
	}

	return &CreateSessionResponse{SessionID: sess.ID, SessionURL: sess.URL}, nil
}

// HandleStripeWebhook verifies the event signature and applies it.
func (s *Service) HandleStripeWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	event, err := webhook.ConstructEvent(payload, sigHeader, s.cfg.StripeWebhookSecret)
	if err != nil {
		return ErrInvalidSignature
	}
	return s.ApplyStripeEvent(ctx, event)
}

// ApplyStripeEvent dispatches a verified event.
func (s *Service) ApplyStripeEvent(ctx context.Context, event stripe.Event) error {
	switch event.Type {
	case "checkout.session.completed":
		return s.stripeCompleted(ctx, event)
	case "checkout.session.expired":
		return s.stripeExpired(ctx, event)
	}
	return nil
}

func (s *Service) stripeCompleted(ctx context.Context, event stripe.Event) error {
	sess, bookingID, err := sessionFromEvent(event)
	if err != nil {
		return err
	}

	if err := s.bookings.ConfirmPayment(ctx, bookingID,
		sess.ID, "TXN_SUCCESS", "", "stripe checkout completed", string(event.Data.Raw)); err != nil {
		return err
	}
	s.log.Info("booking paid",
		zap.Int64("booking_id", bookingID),
		zap.String("gateway", "stripe"),
		zap.String("session_id", sess.ID))
	return nil
}

// stripeExpired cancels the unpaid booking so its seats go back on sale.
func (s *Service) stripeExpired(ctx context.Context, event stripe.Event) error {
	_, bookingID, err := sessionFromEvent(event)
	if err != nil {
		return err
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if b.IsPaid || !b.Status.Active() {
		return nil
	}

	if err := s.bookings.Cancel(ctx, bookingID); err != nil {
		return err
	}

	if s.feed != nil {
		seats := make([]string, 0, len(b.Seats))
		for _, seat := range b.Seats {
			seats = append(seats, seat.Seat)
		}
		s.feed.SeatsReleased(b.TripID, seats)
	}
	s.log.Info("booking expired unpaid", zap.Int64("booking_id", bookingID))
	return nil
}

func (s *Service) payableBooking(ctx context.Context, userID, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrForbidden
	}
	if b.IsPaid {
		return nil, ErrAlreadyPaid
	}
	if !b.Status.Active() {
		return nil, ErrNotActive
	}
	return b, nil
}

func sessionFromEvent(event stripe.Event) (*stripe.CheckoutSession, int64, error) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, 0, err
	}
	bookingID, err := strconv.ParseInt(sess.Metadata["booking_id"], 10, 64)
	if err != nil {
		return nil, 0, ErrUnknownOrder
	}
	return &sess, bookingID, nil
}

func newOrderID(bookingID int64) string {
	return fmt.Sprintf("ORDER_%d_%d", bookingID, time.Now().UnixMilli())
}

// bookingIDFromOrder parses "ORDER_<bookingID>_<timestamp>".
func bookingIDFromOrder(orderID string) (int64, error) {
	parts := strings.Split(orderID, "_")
	if len(parts) != 3 || parts[0] != "ORDER" {
		return 0, ErrUnknownOrder
	}
	return strconv.ParseInt(parts[1], 10, 64)
}
