package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type watchCall struct {
	token     bson.Raw
	published int
	err       error
}

func newTestWatcher() (*ChangeStreamWatcher, *[]time.Duration) {
	var waits []time.Duration
	w := NewChangeStreamWatcher(nil, nil, zap.NewNop())
	w.minBackoff = time.Millisecond
	w.maxBackoff = 8 * time.Millisecond
	w.wait = func(ctx context.Context, d time.Duration) bool {
		waits = append(waits, d)
		return ctx.Err() == nil
	}
	return w, &waits
}

func TestLoopDropsLostResumeTokenAndResetsBackoff(t *testing.T) {
	tok1, tok2, tok3 := bson.Raw{1}, bson.Raw{2}, bson.Raw{3}
	historyLost := mongo.CommandError{Code: 286, Name: "ChangeStreamHistoryLost", Message: "resume point may no longer be in the oplog"}

	calls := []watchCall{
		{token: tok1, err: errors.New("connection reset")},
		{token: tok2, err: errors.New("connection reset")},
		{err: historyLost},
		{token: tok3, published: 2, err: errors.New("stream closed")},
	}

	w, waits := newTestWatcher()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var resumes []bson.Raw
	w.loop(ctx, "duties", func(ctx context.Context, resume bson.Raw) (bson.Raw, int, error) {
		resumes = append(resumes, resume)
		if len(resumes) > len(calls) {
			cancel()
			return nil, 0, ctx.Err()
		}
		c := calls[len(resumes)-1]
		return c.token, c.published, c.err
	})

	assert.Equal(t, []bson.Raw{nil, tok1, tok2, nil, tok3}, resumes)
	assert.Equal(t, []time.Duration{
		time.Millisecond,
		2 * time.Millisecond,
		4 * time.Millisecond,
		time.Millisecond,
	}, *waits)
}

func TestLoopCapsBackoff(t *testing.T) {
	w, waits := newTestWatcher()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	attempts := 0
	w.loop(ctx, "facultyStatus", func(ctx context.Context, _ bson.Raw) (bson.Raw, int, error) {
		attempts++
		if attempts > 6 {
			cancel()
		}
		return nil, 0, errors.New("no primary")
	})

	assert.Equal(t, []time.Duration{1, 2, 4, 8, 8, 8}, scale(*waits, time.Millisecond))
}

func scale(ds []time.Duration, unit time.Duration) []time.Duration {
	out := make([]time.Duration, len(ds))
	for i, d := range ds {
		out[i] = d / unit
	}
	return out
}

func TestResumeTokenLost(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "history lost", err: mongo.CommandError{Code: 286}, want: true},
		{name: "wrapped fatal error", err: errors.Join(mongo.CommandError{Code: 280}, errors.New("stream closed")), want: true},
		{name: "token not found", err: mongo.CommandError{Code: 2, Message: "the resume token was not found"}, want: true},
		{name: "network error", err: errors.New("connection reset"), want: false},
		{name: "other server error", err: mongo.CommandError{Code: 11600}, want: false},
		{name: "nil", err: nil, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resumeTokenLost(tt.err))
		})
	}
}
