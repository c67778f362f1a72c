package booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ridemarket/internal/domain"
	"ridemarket/internal/pkg/response"
	"ridemarket/internal/repository"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the authenticated booking endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBooking)
	rg.POST("/bookings/hold", h.HoldSeats)
	rg.GET("/bookings", h.ListBookings)
	rg.GET("/bookings/:id", h.GetBooking)
	rg.POST("/bookings/:id/cancel", h.CancelBooking)
	rg.GET("/bookings/:id/ticket", h.Ticket)
	rg.GET("/passengers/suggestions", h.Suggestions)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		h.rejectBooking(c, err)
		return
	}

	response.Success(c, http.StatusCreated, toBookingResponse(b))
}

func (h *Handler) rejectBooking(c *gin.Context, err error) {
	var taken *SeatTakenError
	var conflict *GenderConflictError
	var dup *DuplicateSeatError

	switch {
	case errors.As(err, &taken):
		response.ErrorWithDetails(c, http.StatusConflict, "SEAT_ALREADY_BOOKED", taken.Error(),
			gin.H{"seat": taken.Seat})
	case errors.Is(err, repository.ErrSeatConflict):
		response.Error(c, http.StatusConflict, "SEAT_ALREADY_BOOKED", "One of the requested seats was just booked")
	case errors.As(err, &conflict):
		response.ErrorWithDetails(c, http.StatusConflict, "ADJACENT_GENDER_CONFLICT", conflict.Error(),
			gin.H{"seat": conflict.Seat, "partner": conflict.Partner})
	case errors.As(err, &dup):
		response.ErrorWithDetails(c, http.StatusBadRequest, "INVALID_REQUEST", dup.Error(),
			gin.H{"seat": dup.Seat})
	case errors.Is(err, ErrNoSeats), errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Seat list is empty or malformed")
	case errors.Is(err, ErrTripNotFound):
		response.Error(c, http.StatusNotFound, "TRIP_NOT_FOUND", "Trip not found")
	case errors.Is(err, ErrHoldExpired):
		response.Error(c, http.StatusConflict, "HOLD_EXPIRED", "Seat hold expired, pick seats again")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create booking")
	}
}

func (h *Handler) HoldSeats(c *gin.Context) {
	var req HoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	hold, err := h.service.HoldSeats(c.Request.Context(), req)
	if err != nil {
		h.rejectBooking(c, err)
		return
	}

	response.Success(c, http.StatusOK, hold)
}

func (h *Handler) ListBookings(c *gin.Context) {
	rows, err := h.service.ListBookings(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load bookings")
		return
	}

	out := make([]BookingResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toBookingResponse(&rows[i]))
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := h.bookingID(c)
	if !ok {
		return
	}

	b, err := h.service.GetBooking(c.Request.Context(), c.GetInt64("user_id"), id)
	if err != nil {
		h.rejectLookup(c, err)
		return
	}
	response.Success(c, http.StatusOK, toBookingResponse(b))
}

func (h *Handler) CancelBooking(c *gin.Context) {
	id, ok := h.bookingID(c)
	if !ok {
		return
	}

	b, err := h.service.CancelBooking(c.Request.Context(), c.GetInt64("user_id"), id)
	if err != nil {
		if errors.Is(err, ErrNotActive) {
			response.Error(c, http.StatusConflict, "NOT_ACTIVE", "Booking is already cancelled")
			return
		}
		h.rejectLookup(c, err)
		return
	}
	response.Success(c, http.StatusOK, toBookingResponse(b))
}

func (h *Handler) Ticket(c *gin.Context) {
	id, ok := h.bookingID(c)
	if !ok {
		return
	}

	pdf, filename, err := h.service.Ticket(c.Request.Context(), c.GetInt64("user_id"), id)
	if err != nil {
		h.rejectLookup(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *Handler) Suggestions(c *gin.Context) {
	out, err := h.service.Suggestions(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load suggestions")
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) bookingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) rejectLookup(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Booking belongs to another user")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load booking")
	}
}

func toBookingResponse(b *domain.Booking) BookingResponse {
	out := BookingResponse{
		ID:         b.ID,
		Reference:  b.Reference,
		TripID:     b.TripID,
		Status:     string(b.Status),
		SeatCount:  b.SeatCount,
		TotalPrice: b.TotalPrice,
		IsPaid:     b.IsPaid,
		PaidAt:     b.PaidAt,
		CreatedAt:  b.CreatedAt,
	}
	for _, seat := range b.Seats {
		out.Seats = append(out.Seats, seat.Seat)
	}
	if b.Trip != nil {
		out.Source = b.Trip.Source
		out.Destination = b.Trip.Destination
		dep := b.Trip.Departure
		out.Departure = &dep
		if b.Trip.Vehicle != nil {
			out.VehicleName = b.Trip.Vehicle.Name
		}
	}
	return out
}
