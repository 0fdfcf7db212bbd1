package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dutynotify/models"
	"dutynotify/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// EventPublisher receives decoded store mutations.
type EventPublisher interface {
	PublishDutyCreated(ctx context.Context, ev models.DutyCreatedEvent, source string) error
	PublishFacultyStatusUpdated(ctx context.Context, ev models.FacultyStatusUpdatedEvent, source string) error
}

const changeStreamSource = "mongo_change_stream"

type documentKey struct {
	ID any `bson:"_id"`
}

// dutyChange is the change event shape for inserts on the duties collection.
type dutyChange struct {
	DocumentKey  documentKey            `bson:"documentKey"`
	FullDocument *models.DutyAssignment `bson:"fullDocument"`
}

// statusChange is the change event shape for updates on the facultyStatus collection.
type statusChange struct {
	DocumentKey              documentKey           `bson:"documentKey"`
	FullDocument             *models.FacultyStatus `bson:"fullDocument"`
	FullDocumentBeforeChange *models.FacultyStatus `bson:"fullDocumentBeforeChange"`
}

// Server error codes meaning a resume token points past the retained oplog.
var resumeLostCodes = []int{
	136, // CappedPositionLost
	280, // ChangeStreamFatalError
	286, // ChangeStreamHistoryLost
}

// watchFunc runs one change stream until it ends. It returns the last resume
// token seen and how many events it published.
type watchFunc func(ctx context.Context, resume bson.Raw) (bson.Raw, int, error)

// ChangeStreamWatcher turns MongoDB change events into trigger tasks.
// Resume tokens are kept in memory, so a restart resumes from "now".
type ChangeStreamWatcher struct {
	db        *mongo.Database
	publisher EventPublisher
	logger    *zap.Logger

	minBackoff time.Duration
	maxBackoff time.Duration
	wait       func(ctx context.Context, d time.Duration) bool
}

func NewChangeStreamWatcher(db *mongo.Database, publisher EventPublisher, logger *zap.Logger) *ChangeStreamWatcher {
	return &ChangeStreamWatcher{
		db:         db,
		publisher:  publisher,
		logger:     logger.Named("change_stream"),
		minBackoff: time.Second,
		maxBackoff: 30 * time.Second,
		wait:       sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// resumeTokenLost reports whether err means the stream cannot resume from its token.
func resumeTokenLost(err error) bool {
	var serverErr mongo.ServerError
	if !errors.As(err, &serverErr) {
		return false
	}
	for _, code := range resumeLostCodes {
		if serverErr.HasErrorCode(code) {
			return true
		}
	}
	return serverErr.HasErrorMessage("resume token was not found")
}

// Start watches both collections until ctx is done.
func (w *ChangeStreamWatcher) Start(ctx context.Context) {
	go w.loop(ctx, utils.DutiesCollection, w.watchDuties)
	go w.loop(ctx, utils.FacultyStatusCollection, w.watchStatuses)
}

func (w *ChangeStreamWatcher) loop(ctx context.Context, name string, watch watchFunc) {
	var resume bson.Raw
	backoff := w.minBackoff
	for {
		token, published, err := watch(ctx, resume)
		if token != nil {
			resume = token
		}
		if ctx.Err() != nil {
			return
		}
		if published > 0 {
			backoff = w.minBackoff
		}

		if resumeTokenLost(err) {
			// Events between the lost token and now are not delivered.
			w.logger.Error("change stream history lost, restarting from now",
				zap.String("collection", name), zap.Error(err))
			resume = nil
		} else {
			w.logger.Warn("change stream interrupted", zap.String("collection", name), zap.Error(err), zap.Duration("retryIn", backoff))
		}

		if !w.wait(ctx, backoff) {
			return
		}
		backoff = min(backoff*2, w.maxBackoff)
	}
}

func (w *ChangeStreamWatcher) open(ctx context.Context, coll string, pipeline mongo.Pipeline, opts *options.ChangeStreamOptions, resume bson.Raw) (*mongo.ChangeStream, error) {
	if resume != nil {
		opts.SetResumeAfter(resume)
	}
	stream, err := w.db.Collection(coll).Watch(ctx, pipeline, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open change stream on %s: %w", coll, err)
	}
	return stream, nil
}

func (w *ChangeStreamWatcher) watchDuties(ctx context.Context, resume bson.Raw) (bson.Raw, int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "operationType", Value: "insert"}}}},
	}
	stream, err := w.open(ctx, utils.DutiesCollection, pipeline, options.ChangeStream(), resume)
	if err != nil {
		return nil, 0, err
	}
	defer stream.Close(context.Background())

	var (
		last      bson.Raw
		published int
	)
	for stream.Next(ctx) {
		var change dutyChange
		if err := stream.Decode(&change); err != nil {
			w.logger.Error("undecodable duty change", zap.Error(err))
			last = stream.ResumeToken()
			continue
		}
		if change.FullDocument != nil {
			ev := models.DutyCreatedEvent{DutyID: documentID(change.DocumentKey.ID), Duty: *change.FullDocument}
			if err := w.publisher.PublishDutyCreated(ctx, ev, changeStreamSource); err != nil {
				return last, published, err
			}
			published++
		}
		last = stream.ResumeToken()
	}
	return last, published, errors.Join(stream.Err(), errors.New("duties change stream closed"))
}

func (w *ChangeStreamWatcher) watchStatuses(ctx context.Context, resume bson.Raw) (bson.Raw, int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "operationType", Value: bson.D{{Key: "$in", Value: bson.A{"update", "replace"}}}}}}},
	}
	opts := options.ChangeStream().
		SetFullDocument(options.UpdateLookup).
		SetFullDocumentBeforeChange(options.WhenAvailable)
	stream, err := w.open(ctx, utils.FacultyStatusCollection, pipeline, opts, resume)
	if err != nil {
		return nil, 0, err
	}
	defer stream.Close(context.Background())

	var (
		last      bson.Raw
		published int
	)
	for stream.Next(ctx) {
		var change statusChange
		if err := stream.Decode(&change); err != nil {
			w.logger.Error("undecodable status change", zap.Error(err))
			last = stream.ResumeToken()
			continue
		}
		// The document was deleted before the lookup ran.
		if change.FullDocument == nil {
			last = stream.ResumeToken()
			continue
		}
		facultyID := change.FullDocument.FacultyID
		if facultyID == "" {
			facultyID = documentID(change.DocumentKey.ID)
		}
		ev := models.FacultyStatusUpdatedEvent{
			FacultyID: facultyID,
			Before:    change.FullDocumentBeforeChange,
			After:     *change.FullDocument,
		}
		if err := w.publisher.PublishFacultyStatusUpdated(ctx, ev, changeStreamSource); err != nil {
			return last, published, err
		}
		published++
		last = stream.ResumeToken()
	}
	return last, published, errors.Join(stream.Err(), errors.New("faculty status change stream closed"))
}

func documentID(id any) string {
	switch v := id.(type) {
	case string:
		return v
	case interface{ Hex() string }:
		return v.Hex()
	default:
		return fmt.Sprint(v)
	}
}
