package duty

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	userRepo "dutynotify/database/repository/user"
	"dutynotify/metrics"
	"dutynotify/models"
	"dutynotify/services/notification"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUsers struct {
	users map[string]*models.User
	err   error
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, userRepo.ErrUserNotFound
	}
	return u, nil
}

type fakeWriter struct {
	records []models.NotificationRecord
	err     error
}

func (w *fakeWriter) Write(_ context.Context, rec models.NotificationRecord) (string, error) {
	if w.err != nil {
		return "", w.err
	}
	w.records = append(w.records, rec)
	return "rec", nil
}

func (w *fakeWriter) WriteBatch(context.Context, []models.NotificationRecord) ([]string, error) {
	return nil, errors.New("not used")
}

type fakeDispatcher struct {
	sent []models.PushMessage
	err  error
}

func (d *fakeDispatcher) Push(_ context.Context, msg models.PushMessage) error {
	d.sent = append(d.sent, msg)
	return d.err
}

func at(t *testing.T, value string) *time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return &ts
}

func newTestHandler(users *fakeUsers, writer *fakeWriter, dispatcher *fakeDispatcher) *Handler {
	notifier := notification.NewNotifier(writer, dispatcher, zap.NewNop())
	return NewHandler(users, notifier, time.UTC, zap.NewNop())
}

func TestHandleWorkedExample(t *testing.T) {
	users := &fakeUsers{users: map[string]*models.User{
		"u1": {ID: "u1", FCMToken: "tok-abc", Role: models.RoleFaculty},
	}}
	writer := &fakeWriter{}
	dispatcher := &fakeDispatcher{}
	h := newTestHandler(users, writer, dispatcher)

	outcome := h.Handle(context.Background(), models.DutyCreatedEvent{
		DutyID: "d1",
		Duty: models.DutyAssignment{
			FacultyID:    "u1",
			RoomNo:       "204",
			DutyDateTime: at(t, "2025-03-10T09:00:00Z"),
		},
	})

	assert.Equal(t, models.OutcomeDelivered, outcome)
	require.Len(t, writer.records, 1)
	rec := writer.records[0]
	assert.Equal(t, "u1", rec.UserID)
	assert.Equal(t, "New Invigilation Duty Assigned!", rec.Title)
	assert.Equal(t, "Duty in Room 204 on Mar 10, 2025 at 9:00 AM.", rec.Body)
	assert.False(t, rec.IsRead)

	require.Len(t, dispatcher.sent, 1)
	assert.Equal(t, "tok-abc", dispatcher.sent[0].Token)
	assert.Equal(t, rec.Title, dispatcher.sent[0].Title)
	assert.Equal(t, rec.Body, dispatcher.sent[0].Body)
}

func TestHandleSkips(t *testing.T) {
	tests := []struct {
		name      string
		facultyID string
	}{
		{name: "empty faculty id", facultyID: ""},
		{name: "unknown faculty", facultyID: "ghost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := &fakeWriter{}
			dispatcher := &fakeDispatcher{}
			h := newTestHandler(&fakeUsers{users: map[string]*models.User{}}, writer, dispatcher)
			skipped := metrics.HandlerOutcomesTotal.WithLabelValues(handlerName, string(models.OutcomeSkipped))
			before := testutil.ToFloat64(skipped)

			outcome := h.Handle(context.Background(), models.DutyCreatedEvent{
				DutyID: "d1",
				Duty: models.DutyAssignment{
					FacultyID:    tt.facultyID,
					RoomNo:       "101",
					DutyDateTime: at(t, "2025-03-10T09:00:00Z"),
				},
			})

			assert.Equal(t, models.OutcomeSkipped, outcome)
			assert.Equal(t, before+1, testutil.ToFloat64(skipped))
			assert.Empty(t, writer.records)
			assert.Empty(t, dispatcher.sent)
		})
	}
}

func TestHandlePushFailureKeepsRecord(t *testing.T) {
	users := &fakeUsers{users: map[string]*models.User{"u1": {ID: "u1", FCMToken: "tok"}}}
	writer := &fakeWriter{}
	dispatcher := &fakeDispatcher{err: errors.New("registration-token-not-registered")}
	h := newTestHandler(users, writer, dispatcher)

	outcome := h.Handle(context.Background(), models.DutyCreatedEvent{
		DutyID: "d1",
		Duty:   models.DutyAssignment{FacultyID: "u1", RoomNo: "12", DutyDateTime: at(t, "2025-03-10T09:00:00Z")},
	})

	assert.Equal(t, models.OutcomeDelivered, outcome)
	assert.Len(t, writer.records, 1)
	assert.Len(t, dispatcher.sent, 1)
}

func TestHandleNoTokenRecordsOnly(t *testing.T) {
	users := &fakeUsers{users: map[string]*models.User{"u1": {ID: "u1"}}}
	writer := &fakeWriter{}
	dispatcher := &fakeDispatcher{}
	h := newTestHandler(users, writer, dispatcher)

	outcome := h.Handle(context.Background(), models.DutyCreatedEvent{
		DutyID: "d1",
		Duty:   models.DutyAssignment{FacultyID: "u1", RoomNo: "12", DutyDateTime: at(t, "2025-03-10T09:00:00Z")},
	})

	assert.Equal(t, models.OutcomeDelivered, outcome)
	assert.Len(t, writer.records, 1)
	assert.Empty(t, dispatcher.sent)
}

func TestHandleFailuresAreSwallowed(t *testing.T) {
	tests := []struct {
		name   string
		users  *fakeUsers
		writer *fakeWriter
		when   *time.Time
	}{
		{
			name:   "store unavailable on lookup",
			users:  &fakeUsers{err: errors.New("connection refused")},
			writer: &fakeWriter{},
			when:   at(t, "2025-03-10T09:00:00Z"),
		},
		{
			name:   "missing timestamp",
			users:  &fakeUsers{users: map[string]*models.User{"u1": {ID: "u1", FCMToken: "tok"}}},
			writer: &fakeWriter{},
			when:   nil,
		},
		{
			name:   "record write fails",
			users:  &fakeUsers{users: map[string]*models.User{"u1": {ID: "u1", FCMToken: "tok"}}},
			writer: &fakeWriter{err: errors.New("write failed")},
			when:   at(t, "2025-03-10T09:00:00Z"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dispatcher := &fakeDispatcher{}
			h := newTestHandler(tt.users, tt.writer, dispatcher)

			outcome := h.Handle(context.Background(), models.DutyCreatedEvent{
				DutyID: "d1",
				Duty:   models.DutyAssignment{FacultyID: "u1", RoomNo: "12", DutyDateTime: tt.when},
			})

			assert.Equal(t, models.OutcomeFailed, outcome)
			assert.Empty(t, tt.writer.records)
			assert.Empty(t, dispatcher.sent)
		})
	}
}

func TestFormatBody(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	tests := []struct {
		name string
		at   string
		loc  *time.Location
		want string
	}{
		{name: "morning utc", at: "2025-03-10T09:00:00Z", loc: time.UTC, want: "Duty in Room 7 on Mar 10, 2025 at 9:00 AM."},
		{name: "afternoon utc", at: "2025-12-01T14:30:00Z", loc: time.UTC, want: "Duty in Room 7 on Dec 1, 2025 at 2:30 PM."},
		{name: "shifted zone", at: "2025-03-10T20:00:00Z", loc: kolkata, want: "Duty in Room 7 on Mar 11, 2025 at 1:30 AM."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatBody("7", *at(t, tt.at), tt.loc))
		})
	}
}
