package review

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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings/:id/review", h.AttachReview)
}

func (h *Handler) AttachReview(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || bookingID <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}

	var req AttachReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "rating is required")
		return
	}

	playerID, _ := c.Get("user_id")

	b, err := h.service.Attach(c.Request.Context(), bookingID, playerID.(int64), req.Rating, req.Comment)
	if err != nil {
		switch err {
		case ErrInvalidRequest:
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Rating must be an integer between 1 and 5")
		case ErrNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
		case ErrForbidden:
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not own this booking")
		case ErrNotConfirmed:
			response.Error(c, http.StatusConflict, "INVALID_STATE", "Only confirmed bookings can be reviewed")
		case ErrAlreadyReviewed:
			response.Error(c, http.StatusConflict, "ALREADY_REVIEWED", "A review is already attached to this booking")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to attach review")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"review": ReviewResponse{
		BookingID: b.ID,
		Rating:    b.ReviewRating,
		Comment:   b.ReviewComment,
	}})
}
