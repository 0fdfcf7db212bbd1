package handlers

import (
	"context"
	"net/http"

	"dutynotify/middleware"
	"dutynotify/models"
	"dutynotify/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EventPublisher enqueues trigger events for the worker.
type EventPublisher interface {
	PublishDutyCreated(ctx context.Context, ev models.DutyCreatedEvent, source string) error
	PublishFacultyStatusUpdated(ctx context.Context, ev models.FacultyStatusUpdatedEvent, source string) error
}

// TriggerHandler accepts pushed store events and queues them.
type TriggerHandler struct {
	Publisher EventPublisher
	Logger    *zap.Logger
}

func NewTriggerHandler(publisher EventPublisher, logger *zap.Logger) *TriggerHandler {
	return &TriggerHandler{Publisher: publisher, Logger: logger}
}

type dutyCreatedRequest struct {
	Value *models.DutyAssignment `json:"value" binding:"required"`
}

type statusUpdatedRequest struct {
	Before *models.FacultyStatus `json:"before"`
	After  *models.FacultyStatus `json:"after" binding:"required"`
}

// DutyCreatedHandler handles POST /internal/triggers/duties/:dutyId.
func (h *TriggerHandler) DutyCreatedHandler(c *gin.Context) {
	var req dutyCreatedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, h.Logger, http.StatusBadRequest, "invalid duty event", err.Error())
		return
	}

	ev := models.DutyCreatedEvent{DutyID: c.Param("dutyId"), Duty: *req.Value}
	if err := h.Publisher.PublishDutyCreated(c.Request.Context(), ev, c.GetString(middleware.TriggerSourceKey)); err != nil {
		h.Logger.Error("failed to queue duty event", zap.String("dutyId", ev.DutyID), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to queue event"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"queued": true})
}

// FacultyStatusUpdatedHandler handles POST /internal/triggers/faculty-status/:facultyId.
func (h *TriggerHandler) FacultyStatusUpdatedHandler(c *gin.Context) {
	var req statusUpdatedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, h.Logger, http.StatusBadRequest, "invalid status event", err.Error())
		return
	}

	ev := models.FacultyStatusUpdatedEvent{
		FacultyID: c.Param("facultyId"),
		Before:    req.Before,
		After:     *req.After,
	}
	if err := h.Publisher.PublishFacultyStatusUpdated(c.Request.Context(), ev, c.GetString(middleware.TriggerSourceKey)); err != nil {
		h.Logger.Error("failed to queue status event", zap.String("facultyId", ev.FacultyID), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to queue event"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"queued": true})
}
