package handler

import (
	"net/http"

	"github.com/Nahimba/MotoCRM-sub001/internal/middleware"
	"github.com/Nahimba/MotoCRM-sub001/internal/model"
	"github.com/Nahimba/MotoCRM-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EnrollmentHandler covers the service catalogue, enrollments and the
// lesson log.
type EnrollmentHandler struct {
	enrollments service.EnrollmentService
	catalog     service.CatalogService
}

func NewEnrollmentHandler(enrollments service.EnrollmentService, catalog service.CatalogService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments, catalog: catalog}
}

// ListLog returns the attendance the caller has logged as instructor.
func (h *EnrollmentHandler) ListLog(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	logs, err := h.enrollments.ListAttendance(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve lesson log")
		return
	}
	c.JSON(http.StatusOK, nonNil(logs))
}

// RecordLog logs a lesson. Admins may log on behalf of an instructor.
func (h *EnrollmentHandler) RecordLog(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req model.RecordAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	instructorID := userID
	if req.InstructorID != nil && *req.InstructorID != userID {
		if middleware.CurrentRole(c) != model.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only admins may log lessons for another instructor"})
			return
		}
		instructorID = *req.InstructorID
	}

	log, enrollment, err := h.enrollments.RecordAttendance(c.Request.Context(), instructorID, req)
	if err != nil {
		respondError(c, err, "Failed to record attendance")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"log": log, "enrollment": enrollment})
}

// --- Staff Routes ---

func (h *EnrollmentHandler) ActiveEnrollments(c *gin.Context) {
	status := model.EnrollmentStatusActive
	list, err := h.enrollments.List(c.Request.Context(), model.EnrollmentFilters{Status: &status})
	if err != nil {
		respondError(c, err, "Failed to retrieve enrollments")
		return
	}
	c.JSON(http.StatusOK, nonNil(list))
}

// --- Admin Routes ---

func (h *EnrollmentHandler) ListServices(c *gin.Context) {
	services, err := h.catalog.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve services")
		return
	}
	c.JSON(http.StatusOK, nonNil(services))
}

func (h *EnrollmentHandler) CreateService(c *gin.Context) {
	var req model.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	svc, err := h.catalog.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create service")
		return
	}
	c.JSON(http.StatusCreated, svc)
}

func (h *EnrollmentHandler) ListEnrollments(c *gin.Context) {
	var filters model.EnrollmentFilters
	if accountParam := c.Query("account_id"); accountParam != "" {
		if _, err := uuid.Parse(accountParam); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account_id"})
			return
		}
		filters.AccountID = &accountParam
	}
	if statusParam := c.Query("status"); statusParam != "" {
		status := model.EnrollmentStatus(statusParam)
		switch status {
		case model.EnrollmentStatusActive, model.EnrollmentStatusCompleted, model.EnrollmentStatusCancelled:
			filters.Status = &status
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status, use active, completed or cancelled"})
			return
		}
	}

	list, err := h.enrollments.List(c.Request.Context(), filters)
	if err != nil {
		respondError(c, err, "Failed to retrieve enrollments")
		return
	}
	c.JSON(http.StatusOK, nonNil(list))
}

func (h *EnrollmentHandler) CreateEnrollment(c *gin.Context) {
	var req model.CreateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	e, err := h.enrollments.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create enrollment")
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *EnrollmentHandler) CancelEnrollment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	e, err := h.enrollments.Cancel(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to cancel enrollment")
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *EnrollmentHandler) EnrollmentLog(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	logs, err := h.enrollments.ListEnrollmentAttendance(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve lesson log")
		return
	}
	c.JSON(http.StatusOK, nonNil(logs))
}

// RegisterEnrollmentRoutes registers enrollment routes
func (h *EnrollmentHandler) RegisterEnrollmentRoutes(authed, staff, admin *gin.RouterGroup, instructorMW gin.HandlerFunc) {
	authed.GET("/log", h.ListLog)
	authed.POST("/log", instructorMW, h.RecordLog)

	staff.GET("/enrollments", h.ActiveEnrollments)

	admin.GET("/services", h.ListServices)
	admin.POST("/services", h.CreateService)
	admin.GET("/enrollments", h.ListEnrollments)
	admin.POST("/enrollments", h.CreateEnrollment)
	admin.PUT("/enrollments/:id/cancel", h.CancelEnrollment)
	admin.GET("/enrollments/:id/log", h.EnrollmentLog)
}
