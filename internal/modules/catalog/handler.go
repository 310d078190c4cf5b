package catalog

import (
	"net/http"
	"strconv"

	"fieldbook/internal/domain"
	"fieldbook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the public catalog surface.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/fields", h.ListFields)
	rg.GET("/fields/:id", h.GetField)
	rg.GET("/fields/:id/stats", h.GetFieldStats)
}

// RegisterOwnerRoutes mounts the authenticated field management surface.
func (h *Handler) RegisterOwnerRoutes(rg *gin.RouterGroup) {
	rg.POST("/fields", h.CreateField)
}

func (h *Handler) CreateField(c *gin.Context) {
	role, _ := c.Get("role")
	if role != string(domain.RoleFieldOwner) && role != string(domain.RoleAdmin) {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Only field owners can register fields")
		return
	}

	var req CreateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	ownerID, _ := c.Get("user_id")

	f, err := h.service.CreateField(c.Request.Context(), ownerID.(int64), &req)
	if err != nil {
		if err == ErrValidation {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid field data")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create field")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"field": f})
}

func (h *Handler) ListFields(c *gin.Context) {
	limit, offset := pagination(c)

	fields, err := h.service.ListFields(c.Request.Context(), c.Query("city"), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list fields")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"fields": fields})
}

func (h *Handler) GetField(c *gin.Context) {
	id, ok := fieldID(c)
	if !ok {
		return
	}

	detail, err := h.service.GetField(c.Request.Context(), id)
	if err != nil {
		if err == ErrFieldNotFound {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Field not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load field")
		return
	}

	response.Success(c, http.StatusOK, detail)
}

func (h *Handler) GetFieldStats(c *gin.Context) {
	id, ok := fieldID(c)
	if !ok {
		return
	}

	stats, err := h.service.GetFieldStats(c.Request.Context(), id)
	if err != nil {
		if err == ErrFieldNotFound {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Field not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load field stats")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"stats": stats})
}

func fieldID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid field id")
		return 0, false
	}
	return id, true
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
