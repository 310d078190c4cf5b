package booking

import (
	"net/http"
	"strconv"

	"fieldbook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires the player-facing booking endpoints. Callers must
// already be authenticated; the handlers trust the user_id set by the
// auth middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBooking)
	rg.GET("/users/me/bookings", h.GetMyBookings)
	rg.PATCH("/bookings/:id/cancel", h.CancelBooking)
	rg.POST("/bookings/:id/refund-request", h.RequestRefund)
	rg.PATCH("/bookings/:id/payment", h.UpdatePayment)
}

// RegisterAdminRoutes wires the privileged transitions. The admin role
// gate sits on the route group, not in the handlers.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings", h.GetAllBookings)
	rg.PATCH("/bookings/:id/confirm", h.ConfirmBooking)
	rg.PATCH("/bookings/:id/reject", h.RejectBooking)
	rg.PATCH("/refunds/:id", h.ResolveRefund)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), userID(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) GetMyBookings(c *gin.Context) {
	limit, offset := pagination(c)

	bookings, err := h.service.GetMyBookings(c.Request.Context(), userID(c), limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

func (h *Handler) GetAllBookings(c *gin.Context) {
	limit, offset := pagination(c)

	bookings, err := h.service.GetAllBookings(c.Request.Context(), limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

func (h *Handler) ConfirmBooking(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	b, err := h.service.Confirm(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) RejectBooking(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req RejectBookingRequest
	_ = c.ShouldBindJSON(&req)

	b, err := h.service.Reject(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) CancelBooking(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req CancelBookingRequest
	_ = c.ShouldBindJSON(&req)

	b, err := h.service.SelfCancel(c.Request.Context(), id, userID(c), req.Reason)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) RequestRefund(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req RefundRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "payee is required")
		return
	}

	b, err := h.service.RequestRefund(c.Request.Context(), id, userID(c), req.Payee)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) ResolveRefund(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req ResolveRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "decision must be approve or reject")
		return
	}

	b, err := h.service.ResolveRefund(c.Request.Context(), id, userID(c), req.Decision == "approve")
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) UpdatePayment(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "status must be completed or failed")
		return
	}

	b, err := h.service.UpdatePayment(c.Request.Context(), id, userID(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

// writeError maps the module's sentinel errors onto the response envelope.
// Conflict and state errors carry distinct codes so clients can tell a
// retry-worthy situation from a permanent one.
func (h *Handler) writeError(c *gin.Context, err error) {
	switch err {
	case ErrValidation:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking request")
	case ErrEquipmentUnavailable:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Requested equipment is not available for this field")
	case ErrNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case ErrFieldNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Field not found")
	case ErrSlotTaken:
		response.Error(c, http.StatusConflict, "SLOT_CONFLICT", "Slot already booked")
	case ErrInvalidStatus:
		response.Error(c, http.StatusConflict, "INVALID_STATE", "Booking is not in a state that allows this operation")
	case ErrForbidden:
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not own this booking")
	case ErrNotConfirmed:
		response.Error(c, http.StatusConflict, "NOT_CONFIRMED", "Only confirmed bookings can request a refund")
	case ErrNoticeTooShort:
		response.Error(c, http.StatusConflict, "NOTICE_TOO_SHORT", "Cancellation notice period is too short for a refund")
	case ErrRefundRequested:
		response.Error(c, http.StatusConflict, "ALREADY_REQUESTED", "A refund request already exists for this booking")
	case ErrRefundProcessed:
		response.Error(c, http.StatusConflict, "ALREADY_PROCESSED", "The refund request has already been processed")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Operation failed")
	}
}

func bookingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return 0, false
	}
	return id, true
}

func userID(c *gin.Context) int64 {
	v, _ := c.Get("user_id")
	id, _ := v.(int64)
	return id
}

func pagination(c *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
