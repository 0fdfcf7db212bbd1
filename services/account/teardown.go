package account

import (
	"context"
	"fmt"

	"dutynotify/metrics"
	"dutynotify/services/storage"

	"go.uber.org/zap"
)

// Caller is the authenticated identity attached to a callable invocation.
type Caller struct {
	UID string
}

// IdentityDeleter removes the caller's identity record and reports whether
// there was one to remove.
type IdentityDeleter interface {
	DeleteIdentity(ctx context.Context, uid string) (bool, error)
}

// ProfileDeleter removes the caller's profile document.
type ProfileDeleter interface {
	Delete(ctx context.Context, id string) error
}

// StepStatus is the outcome of one teardown step.
type StepStatus string

const (
	StepDone   StepStatus = "deleted"
	StepAbsent StepStatus = "absent"
	StepFailed StepStatus = "failed"
)

// StepReport records what one step did.
type StepReport struct {
	Step   string     `json:"step"`
	Status StepStatus `json:"status"`
}

// Result is the success acknowledgment of a teardown.
type Result struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Steps   []StepReport `json:"steps,omitempty"`
}

// Orchestrator deletes a user's identity, profile and profile picture in that
// order. The steps are not atomic: a failure leaves earlier deletions in place,
// and every step is delete-if-exists so a retry can finish the job.
type Orchestrator struct {
	identity IdentityDeleter
	profiles ProfileDeleter
	assets   storage.AssetStore
	logger   *zap.Logger
}

func NewOrchestrator(identity IdentityDeleter, profiles ProfileDeleter, assets storage.AssetStore, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		identity: identity,
		profiles: profiles,
		assets:   assets,
		logger:   logger.Named("account_teardown"),
	}
}

type step struct {
	name string
	run  func(ctx context.Context, uid string) (StepStatus, error)
}

func (o *Orchestrator) steps() []step {
	return []step{
		{name: "identity", run: func(ctx context.Context, uid string) (StepStatus, error) {
			removed, err := o.identity.DeleteIdentity(ctx, uid)
			if err != nil || removed {
				return StepDone, err
			}
			return StepAbsent, nil
		}},
		{name: "profile", run: func(ctx context.Context, uid string) (StepStatus, error) {
			return StepDone, o.profiles.Delete(ctx, uid)
		}},
		{name: "profile_picture", run: func(ctx context.Context, uid string) (StepStatus, error) {
			removed, err := storage.DeleteIfExists(ctx, o.assets, storage.ProfilePictureKey(uid))
			if err != nil || removed {
				return StepDone, err
			}
			return StepAbsent, nil
		}},
	}
}

// DeleteAccount tears down the caller's own account. Without a caller it fails
// with KindUnauthenticated before touching any store.
func (o *Orchestrator) DeleteAccount(ctx context.Context, caller *Caller) (*Result, error) {
	if caller == nil || caller.UID == "" {
		return nil, errUnauthenticated
	}
	uid := caller.UID
	log := o.logger.With(zap.String("uid", uid))

	reports := make([]StepReport, 0, 3)
	for _, s := range o.steps() {
		status, err := s.run(ctx, uid)
		if err != nil {
			metrics.TeardownStepsTotal.WithLabelValues(s.name, string(StepFailed)).Inc()
			reports = append(reports, StepReport{Step: s.name, Status: StepFailed})
			log.Error("Error deleting user", zap.String("step", s.name), zap.Any("completed", reports), zap.Error(err))
			return nil, internalError(fmt.Errorf("step %s: %w", s.name, err))
		}
		metrics.TeardownStepsTotal.WithLabelValues(s.name, string(status)).Inc()
		reports = append(reports, StepReport{Step: s.name, Status: status})
		log.Info("teardown step finished", zap.String("step", s.name), zap.String("status", string(status)))
	}

	return &Result{
		Success: true,
		Message: "Account deleted successfully.",
		Steps:   reports,
	}, nil
}
