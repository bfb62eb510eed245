package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Nahimba/MotoCRM-sub001/internal/middleware"
	"github.com/Nahimba/MotoCRM-sub001/internal/model"
	"github.com/Nahimba/MotoCRM-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Helper to get authenticated user ID from context
func getAuthUserID(c *gin.Context) (string, error) {
	userID := middleware.CurrentUserID(c)
	if userID == "" {
		return "", errors.New("user ID not found in context")
	}
	return userID, nil
}

// errorStatuses maps service sentinels onto HTTP statuses. Anything not
// listed is a 500.
var errorStatuses = []struct {
	err    error
	status int
}{
	{service.ErrUserAlreadyExists, http.StatusConflict},
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrProfileNotFound, http.StatusNotFound},
	{service.ErrAccountNotFound, http.StatusNotFound},
	{service.ErrServiceNotFound, http.StatusNotFound},
	{service.ErrEnrollmentNotFound, http.StatusNotFound},
	{service.ErrEnrollmentNotActive, http.StatusConflict},
	{service.ErrInsufficientHours, http.StatusUnprocessableEntity},
	{service.ErrInvalidHours, http.StatusBadRequest},
	{service.ErrInvalidRole, http.StatusBadRequest},
	{service.ErrInvalidEntryType, http.StatusBadRequest},
	{service.ErrZeroAmount, http.StatusBadRequest},
	{service.ErrNegativePrice, http.StatusBadRequest},
}

// respondError writes the mapped status for known errors and logs the
// rest before answering with the generic message.
func respondError(c *gin.Context, err error, message string) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			c.JSON(e.status, gin.H{"error": e.err.Error()})
			return
		}
	}
	log.WithError(err).WithField("path", c.Request.URL.Path).Error(message)
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}

// idParam reads the :id path parameter and answers 400 when it is not a UUID.
func idParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return "", false
	}
	return id, true
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
}

// parseEntryTypes reads a comma separated ?type= list. Empty means all.
func parseEntryTypes(raw string) ([]model.EntryType, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var types []model.EntryType
	for _, part := range strings.Split(raw, ",") {
		t := model.EntryType(strings.TrimSpace(part))
		if t == "" {
			continue
		}
		if !t.Valid() {
			return nil, service.ErrInvalidEntryType
		}
		types = append(types, t)
	}
	return types, nil
}
