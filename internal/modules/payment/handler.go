package payment

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ridemarket/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the authenticated payment endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/paytm/initiate", h.InitiatePaytm)
	rg.POST("/payments/paytm/order", h.InitiatePaytmOrder)
	rg.POST("/payments/stripe/session", h.CreateStripeSession)
}

// RegisterCallbackRoutes mounts the gateway-facing endpoints. These are
// authenticated by signature, not by JWT.
func (h *Handler) RegisterCallbackRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/paytm/callback", h.PaytmCallback)
	rg.POST("/payments/stripe/webhook", h.StripeWebhook)
}

func (h *Handler) InitiatePaytm(c *gin.Context) {
	var req InitiatePaytmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "booking_id is required")
		return
	}

	out, err := h.service.InitiatePaytm(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		h.reject(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) InitiatePaytmOrder(c *gin.Context) {
	var req InitiatePaytmOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "order_id, amount and customer_id are required")
		return
	}

	out, err := h.service.InitiatePaytmOrder(c.Request.Context(), req)
	if err != nil {
		h.reject(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

// PaytmCallback accepts the gateway post as form data or JSON.
func (h *Handler) PaytmCallback(c *gin.Context) {
	form, err := callbackParams(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Malformed callback")
		return
	}

	result, err := h.service.HandlePaytmCallback(c.Request.Context(), form)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidSignature):
			response.Error(c, http.StatusBadRequest, "INVALID_SIGNATURE", "Checksum verification failed")
		case errors.Is(err, ErrUnknownOrder):
			response.Error(c, http.StatusNotFound, "UNKNOWN_ORDER", "Order does not match any booking")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process callback")
		}
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *Handler) CreateStripeSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "booking_id is required")
		return
	}

	out, err := h.service.CreateStripeSession(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		h.reject(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unreadable payload")
		return
	}

	if err := h.service.HandleStripeWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
		if errors.Is(err, ErrInvalidSignature) {
			response.Error(c, http.StatusBadRequest, "INVALID_SIGNATURE", "Signature verification failed")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process event")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"received": true})
}

func (h *Handler) reject(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Booking belongs to another user")
	case errors.Is(err, ErrAlreadyPaid):
		response.Error(c, http.StatusConflict, "ALREADY_PAID", "Booking is already paid")
	case errors.Is(err, ErrNotActive):
		response.Error(c, http.StatusConflict, "NOT_ACTIVE", "Booking is cancelled")
	case errors.Is(err, ErrNotConfigured):
		response.Error(c, http.StatusServiceUnavailable, "GATEWAY_UNAVAILABLE", "Payment gateway is not configured")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to start payment")
	}
}

func callbackParams(c *gin.Context) (map[string]string, error) {
	if strings.HasPrefix(c.ContentType(), "application/json") {
		form := map[string]string{}
		if err := c.ShouldBindJSON(&form); err != nil {
			return nil, err
		}
		return form, nil
	}

	if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}
	form := make(map[string]string, len(c.Request.PostForm))
	for k := range c.Request.PostForm {
		form[k] = c.Request.PostForm.Get(k)
	}
	return form, nil
}
