package repository

import (
	"context"
	"encoding/json"
	"time"

	"salon-booking/internal/infra"
	sqlc "salon-booking/internal/infra/sqlc/generated"
	"salon-booking/internal/pkg/errs"
	"salon-booking/internal/pkg/pgconv"
	"salon-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	JobStatusQueued = "queued"
	JobStatusSent   = "sent"
	JobStatusFailed = "failed"
)

type NotificationWriteQueries interface {
	CreateNotificationJob(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateNotificationJobParams) (uuid.UUID, error)
	UpdateNotificationJobStatus(ctx context.Context, db sqlc.DBTX, arg sqlc.UpdateNotificationJobStatusParams) error
	RetryNotificationJob(ctx context.Context, db sqlc.DBTX, arg sqlc.RetryNotificationJobParams) error
	ClaimDueNotificationJobs(ctx context.Context, db sqlc.DBTX, arg sqlc.ClaimDueNotificationJobsParams) ([]sqlc.NotificationJobs, error)
}

type NotificationRepository struct {
	queries NotificationWriteQueries
	db      sqlc.DBTX
}

func NewNotificationRepository(queries NotificationWriteQueries, db sqlc.DBTX) *NotificationRepository {
	return &NotificationRepository{
		queries: queries,
		db:      db,
	}
}

type jobPayload struct {
	Body string `json:"body"`
}

func (r *NotificationRepository) Enqueue(ctx context.Context, job shared.NotificationJob) (uuid.UUID, error) {
	payload, err := json.Marshal(jobPayload{Body: job.Body})
	if err != nil {
		return uuid.Nil, errs.Wrap(err, "failed to encode notification payload")
	}

	id, err := r.queries.CreateNotificationJob(ctx, r.db, sqlc.CreateNotificationJobParams{
		Kind:      job.Kind,
		Topic:     job.Topic,
		Recipient: job.Recipient,
		Subject:   job.Subject,
		Payload:   payload,
		RunAt:     pgconv.TimeToPgtype(job.RunAt),
		Status:    JobStatusQueued,
	})
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create notification job", err)
	}
	return id, nil
}

func (r *NotificationRepository) MarkSent(ctx context.Context, jobID uuid.UUID) error {
	return r.updateStatus(ctx, jobID, JobStatusSent, "")
}

// MarkRetry leaves the job queued for the redelivery sweep, not before runAt.
func (r *NotificationRepository) MarkRetry(ctx context.Context, jobID uuid.UUID, reason string, runAt time.Time) error {
	err := r.queries.RetryNotificationJob(ctx, r.db, sqlc.RetryNotificationJobParams{
		ID:        jobID,
		LastError: pgconv.NullableString(reason),
		RunAt:     pgconv.TimeToPgtype(runAt),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to reschedule notification job", err)
	}
	return nil
}

func (r *NotificationRepository) MarkFailed(ctx context.Context, jobID uuid.UUID, reason string) error {
	return r.updateStatus(ctx, jobID, JobStatusFailed, reason)
}

func (r *NotificationRepository) updateStatus(ctx context.Context, jobID uuid.UUID, status, lastError string) error {
	err := r.queries.UpdateNotificationJobStatus(ctx, r.db, sqlc.UpdateNotificationJobStatusParams{
		ID:        jobID,
		Status:    status,
		LastError: pgconv.NullableString(lastError),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to update notification job status", err)
	}
	return nil
}

// ClaimDue takes queued jobs whose run_at is not after cutoff and pushes their
// run_at to leaseUntil, so a concurrent sweep skips them until the lease ends.
func (r *NotificationRepository) ClaimDue(ctx context.Context, cutoff, leaseUntil time.Time, maxAttempts, limit int32) ([]shared.NotificationJob, error) {
	rows, err := r.queries.ClaimDueNotificationJobs(ctx, r.db, sqlc.ClaimDueNotificationJobsParams{
		LeaseUntil:  pgconv.TimeToPgtype(leaseUntil),
		Cutoff:      pgconv.TimeToPgtype(cutoff),
		MaxAttempts: maxAttempts,
		Batch:       limit,
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim due notification jobs", err)
	}

	jobs := make([]shared.NotificationJob, 0, len(rows))
	for _, row := range rows {
		var p jobPayload
		if err := json.Unmarshal(row.Payload, &p); err != nil {
			return nil, infra.WrapRepoErr("corrupt notification payload", err, infra.KindDBFailure)
		}
		jobs = append(jobs, shared.NotificationJob{
			ID:        row.ID,
			Kind:      row.Kind,
			Topic:     row.Topic,
			Recipient: row.Recipient,
			Subject:   row.Subject,
			Body:      p.Body,
			RunAt:     row.RunAt.Time,
			Attempts:  int(row.Attempts),
		})
	}
	return jobs, nil
}
