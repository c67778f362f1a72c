package admin

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

// RegisterRoutes mounts the console endpoints. The group must already carry
// the admin-only middleware.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/vehicles", h.ListVehicles)
	admin.POST("/vehicles", h.CreateVehicle)
	admin.PUT("/vehicles/:id", h.UpdateVehicle)
	admin.DELETE("/vehicles/:id", h.DeleteVehicle)

	admin.GET("/trips", h.ListTrips)
	admin.POST("/trips", h.CreateTrip)
	admin.PUT("/trips/:id", h.UpdateTrip)
	admin.DELETE("/trips/:id", h.DeleteTrip)
}

func (h *Handler) ListVehicles(c *gin.Context) {
	out, err := h.service.ListVehicles(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list vehicles")
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) CreateVehicle(c *gin.Context) {
	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "name, number and positive capacity are required")
		return
	}

	out, err := h.service.CreateVehicle(c.Request.Context(), req)
	if err != nil {
		h.reject(c, err)
		return
	}
	response.Success(c, http.StatusCreated, out)
}

func (h *Handler) UpdateVehicle(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "name, number and positive capacity are required")
		return
	}

	out, err := h.service.UpdateVehicle(c.Request.Context(), id, req)
	if err != nil {
		h.reject(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) DeleteVehicle(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteVehicle(c.Request.Context(), id); err != nil {
		h.reject(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) ListTrips(c *gin.Context) {
	out, err := h.service.ListTrips(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list trips")
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) CreateTrip(c *gin.Context) {
	var req TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "vehicle_id, route, schedule and positive price are required")
		return
	}

	out, err := h.service.CreateTrip(c.Request.Context(), req)
	if err != nil {
		h.reject(c, err)
		return
	}
	response.Success(c, http.StatusCreated, out)
}

func (h *Handler) UpdateTrip(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "vehicle_id, route, schedule and positive price are required")
		return
	}

	out, err := h.service.UpdateTrip(c.Request.Context(), id, req)
	if err != nil {
		h.reject(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) DeleteTrip(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteTrip(c.Request.Context(), id); err != nil {
		h.reject(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) reject(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Record not found")
	case errors.Is(err, ErrVehicleMissing):
		response.Error(c, http.StatusBadRequest, "VEHICLE_NOT_FOUND", "Referenced vehicle does not exist")
	case errors.Is(err, ErrDuplicateNumber):
		response.Error(c, http.StatusConflict, "DUPLICATE_NUMBER", "Vehicle number already registered")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid vehicle or trip data")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Operation failed")
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return 0, false
	}
	return id, true
}
