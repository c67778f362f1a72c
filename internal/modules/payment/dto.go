package payment

type InitiatePaytmRequest struct {
	BookingID int64 `json:"booking_id" binding:"required"`
}

// InitiatePaytmOrderRequest is the booking-less flow: the caller brings its
// own order id and amount.
type InitiatePaytmOrderRequest struct {
	OrderID    string  `json:"order_id" binding:"required"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
	CustomerID string  `json:"customer_id" binding:"required"`
}

// InitiatePaytmResponse carries everything the client needs to POST the
// hosted checkout form.
type InitiatePaytmResponse struct {
	OrderID    string            `json:"order_id"`
	GatewayURL string            `json:"gateway_url"`
	Params     map[string]string `json:"params"`
	Checksum   string            `json:"checksum"`
}

type CallbackResult struct {
	BookingID int64  `json:"booking_id"`
	OrderID   string `json:"order_id"`
	Status    string `json:"status"`
	Paid      bool   `json:"paid"`
}

type CreateSessionRequest struct {
	BookingID int64 `json:"booking_id" binding:"required"`
}

type CreateSessionResponse struct {
	SessionID  string `json:"session_id"`
	SessionURL string `json:"session_url"`
}
