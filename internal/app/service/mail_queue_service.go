package service

import (
	"context"
	"encoding/json"
	"study_platform/internal/common"
	"study_platform/internal/domain/model"
	"study_platform/internal/platform/config"

	"github.com/redis/go-redis/v9"
)

// MailEnqueuer abstracts the mail queue so services can be tested without
// a running Redis.
type MailEnqueuer interface {
	EnqueueMail(ctx context.Context, job model.MailJob) error
}

type MailQueueService struct {
	rdb *redis.Client
}

func NewMailQueueService(rdb *redis.Client) *MailQueueService {
	return &MailQueueService{rdb: rdb}
}

// EnqueueMail pushes the job onto the Redis mail queue for the worker.
func (s *MailQueueService) EnqueueMail(ctx context.Context, job model.MailJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return common.Errorf("failed to marshal mail job: %w", err)
	}

	if err := s.rdb.LPush(ctx, config.AppConfig.RecoveryMailQueueName, payload).Err(); err != nil {
		return common.Errorf("failed to push mail job to Redis queue: %w", err)
	}
	return nil
}
