package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"study_platform/internal/domain/model"
	"study_platform/internal/platform/config"
	"time"

	"github.com/redis/go-redis/v9"
)

// Sender is the outbound mail boundary, implemented by platform/mail.
type Sender interface {
	SendPasswordRecoveryEmail(ctx context.Context, toEmail, toName, recoveryToken string) error
	SendWelcomeEmail(ctx context.Context, toEmail, toName string) error
}

// MailWorker drains the Redis mail queue and delivers each job through the
// configured sender. Jobs are independent, so no cross-worker locking is
// needed; a malformed payload is logged and dropped.
type MailWorker struct {
	rdb    *redis.Client
	sender Sender
}

func NewMailWorker(rdb *redis.Client, sender Sender) *MailWorker {
	return &MailWorker{rdb: rdb, sender: sender}
}

func (w *MailWorker) Start(ctx context.Context) {
	log.Println("Mail worker started, listening to queue:", config.AppConfig.RecoveryMailQueueName)
	for {
		select {
		case <-ctx.Done():
			log.Println("Mail worker stopping...")
			return
		default:
			// Blocking pop from Redis queue
			item, err := w.rdb.BRPop(ctx, 0*time.Second, config.AppConfig.RecoveryMailQueueName).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					log.Printf("Mail worker BRPop exiting or timed out: %v", err)
					time.Sleep(1 * time.Second) // Avoid busy-looping on certain errors
					continue
				}
				log.Printf("ERROR: Failed to BRPop from Redis queue '%s': %v", config.AppConfig.RecoveryMailQueueName, err)
				time.Sleep(5 * time.Second) // Wait before retrying on other errors
				continue
			}

			// item is an array: [queueName, value]
			if len(item) < 2 || item[1] == "" {
				log.Println("WARN: BRPop returned empty mail job payload.")
				continue
			}

			w.handleJob(ctx, item[1])
		}
	}
}

func (w *MailWorker) handleJob(ctx context.Context, payload string) {
	var job model.MailJob
	if err := json.Unmarshal([]byte(payload), &job); err != nil {
		log.Printf("ERROR: Dropping malformed mail job payload: %v", err)
		return
	}

	var err error
	switch job.Kind {
	case model.MailJobRecovery:
		err = w.sender.SendPasswordRecoveryEmail(ctx, job.Email, job.Name, job.Token)
	case model.MailJobWelcome:
		err = w.sender.SendWelcomeEmail(ctx, job.Email, job.Name)
	default:
		log.Printf("ERROR: Unknown mail job kind '%s' for job ID %s", job.Kind, job.ID)
		return
	}

	if err != nil {
		// No retry here; delivery failures surface in the logs and the user
		// can re-trigger the forgot-password flow.
		log.Printf("ERROR: Failed to send %s mail for job %s to %s: %v", job.Kind, job.ID, job.Email, err)
		return
	}
	log.Printf("INFO: Mail job %s (kind: %s) delivered to %s.", job.ID, job.Kind, job.Email)
}
