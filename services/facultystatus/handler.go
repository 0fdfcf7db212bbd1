package facultystatus

import (
	"context"
	"fmt"

	"dutynotify/metrics"
	"dutynotify/models"

	"go.uber.org/zap"
)

const (
	handlerName = "faculty_status_changed"

	// NotificationTitle is the fixed title of every status-change notification.
	NotificationTitle = "Faculty Status Updated"
)

// AdminLookup lists users by role.
type AdminLookup interface {
	GetByRole(ctx context.Context, role string) ([]models.User, error)
}

// BatchWriter commits notification records atomically.
type BatchWriter interface {
	WriteBatch(ctx context.Context, recs []models.NotificationRecord) ([]string, error)
}

// Handler fans a faculty status change out to every administrator.
type Handler struct {
	users  AdminLookup
	writer BatchWriter
	logger *zap.Logger
}

func NewHandler(users AdminLookup, writer BatchWriter, logger *zap.Logger) *Handler {
	return &Handler{users: users, writer: writer, logger: logger.Named(handlerName)}
}

// FormatBody renders the shared notification body for a status snapshot.
func FormatBody(s models.FacultyStatus) string {
	return fmt.Sprintf("%s is now %s.", s.DisplayName(), s.Status)
}

// Handle processes one update event using only the after snapshot.
func (h *Handler) Handle(ctx context.Context, ev models.FacultyStatusUpdatedEvent) (outcome models.Outcome) {
	log := h.logger.With(zap.String("facultyId", ev.FacultyID))

	defer func() {
		if r := recover(); r != nil {
			log.Error("status notification panicked", zap.Any("panic", r))
			outcome = models.OutcomeFailed
		}
		metrics.HandlerOutcomesTotal.WithLabelValues(handlerName, string(outcome)).Inc()
	}()

	body := FormatBody(ev.After)

	admins, err := h.users.GetByRole(ctx, models.RoleAdmin)
	if err != nil {
		log.Error("Error notifying admins of status change", zap.Error(err))
		return models.OutcomeFailed
	}
	if len(admins) == 0 {
		log.Info("No admin users found to notify.")
		return models.OutcomeSkipped
	}

	recs := make([]models.NotificationRecord, 0, len(admins))
	for _, admin := range admins {
		recs = append(recs, models.NewNotificationRecord(admin.ID, NotificationTitle, body))
	}

	if _, err := h.writer.WriteBatch(ctx, recs); err != nil {
		log.Error("Error notifying admins of status change", zap.Error(err))
		return models.OutcomeFailed
	}

	log.Info("Status change notifications created", zap.Int("admins", len(recs)))
	return models.OutcomeDelivered
}
