package trips

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ridemarket/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the public trip endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/trips/search", h.Search)
	rg.GET("/trips/locations", h.Locations)
	rg.GET("/trips/:id", h.GetTrip)
	rg.GET("/trips/:id/seatmap", h.SeatMap)
	rg.GET("/trips/:id/booked-seats", h.BookedSeats)
}

func (h *Handler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "source, destination and date are required")
		return
	}

	out, err := h.service.Search(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date must be YYYY-MM-DD")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to search trips")
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) Locations(c *gin.Context) {
	out, err := h.service.Locations(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load locations")
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) GetTrip(c *gin.Context) {
	id, ok := h.tripID(c)
	if !ok {
		return
	}

	out, err := h.service.GetTrip(c.Request.Context(), id)
	if err != nil {
		h.reject(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) SeatMap(c *gin.Context) {
	id, ok := h.tripID(c)
	if !ok {
		return
	}

	out, err := h.service.SeatMap(c.Request.Context(), id)
	if err != nil {
		h.reject(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) BookedSeats(c *gin.Context) {
	id, ok := h.tripID(c)
	if !ok {
		return
	}

	out, err := h.service.BookedSeats(c.Request.Context(), id)
	if err != nil {
		h.reject(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) tripID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid trip ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) reject(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Trip not found")
		return
	}
	response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load trip")
}
