package duty

import (
	"context"
	"errors"
	"fmt"
	"time"

	userRepo "dutynotify/database/repository/user"
	"dutynotify/metrics"
	"dutynotify/models"
	"dutynotify/services/notification"

	"go.uber.org/zap"
)

const (
	handlerName = "duty_assigned"

	// NotificationTitle is the fixed title of every duty notification.
	NotificationTitle = "New Invigilation Duty Assigned!"
)

// UserLookup resolves a user profile by ID.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// Notifier persists a record for a user and attempts a push.
type Notifier interface {
	Notify(ctx context.Context, user *models.User, title, body string, data map[string]string) (notification.NotifyResult, error)
}

// Handler reacts to newly created duty assignments.
type Handler struct {
	users    UserLookup
	notifier Notifier
	location *time.Location
	logger   *zap.Logger
}

func NewHandler(users UserLookup, notifier Notifier, location *time.Location, logger *zap.Logger) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		users:    users,
		notifier: notifier,
		location: location,
		logger:   logger.Named(handlerName),
	}
}

// FormatBody renders the notification body for a duty.
func FormatBody(roomNo string, at time.Time, loc *time.Location) string {
	local := at.In(loc)
	return fmt.Sprintf("Duty in Room %s on %s at %s.",
		roomNo,
		local.Format("Jan 2, 2006"),
		local.Format("3:04 PM"),
	)
}

// Handle processes one creation event. It never returns an error: the outcome
// is only logged and counted.
func (h *Handler) Handle(ctx context.Context, ev models.DutyCreatedEvent) (outcome models.Outcome) {
	log := h.logger.With(zap.String("dutyId", ev.DutyID), zap.String("facultyId", ev.Duty.FacultyID))

	defer func() {
		if r := recover(); r != nil {
			log.Error("duty notification panicked", zap.Any("panic", r))
			outcome = models.OutcomeFailed
		}
		metrics.HandlerOutcomesTotal.WithLabelValues(handlerName, string(outcome)).Inc()
	}()

	if ev.Duty.FacultyID == "" {
		log.Info("No faculty ID found.")
		return models.OutcomeSkipped
	}

	if err := h.notify(ctx, ev, log); err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			log.Info("user doc not found for faculty ID")
			return models.OutcomeSkipped
		}
		log.Error("Error sending duty notification", zap.Error(err))
		return models.OutcomeFailed
	}
	return models.OutcomeDelivered
}

func (h *Handler) notify(ctx context.Context, ev models.DutyCreatedEvent, log *zap.Logger) error {
	user, err := h.users.GetByID(ctx, ev.Duty.FacultyID)
	if err != nil {
		return err
	}

	if ev.Duty.DutyDateTime == nil || ev.Duty.DutyDateTime.IsZero() {
		return fmt.Errorf("duty %s has no dutyDateTime", ev.DutyID)
	}
	body := FormatBody(ev.Duty.RoomNo, *ev.Duty.DutyDateTime, h.location)

	res, err := h.notifier.Notify(ctx, user, NotificationTitle, body, map[string]string{
		"type":   handlerName,
		"dutyId": ev.DutyID,
	})
	if err != nil {
		return err
	}

	if res.PushSent {
		log.Info("Duty notification sent successfully!", zap.String("recordId", res.RecordID))
	} else {
		log.Info("duty notification recorded", zap.String("recordId", res.RecordID), zap.Bool("pushFailed", res.PushError != nil))
	}
	return nil
}
