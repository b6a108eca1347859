package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Dead jobs live in one Redis list per source queue: dlq:<queue>.
const DLQPrefix = "dlq:"

// DeadJob is a job that used up its attempts, kept for manual inspection.
type DeadJob struct {
	Job
	Queue    string    `json:"queue"`
	Reason   string    `json:"reason"`
	FailedAt time.Time `json:"failed_at"`
}

// SendToDLQ parks job under dlq:<queue>. Failures are logged, the job is lost.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue string, job Job, reason string) {
	data, err := json.Marshal(DeadJob{Job: job, Queue: queue, Reason: reason, FailedAt: time.Now().UTC()})
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: marshal")
		return
	}
	if err := rdb.LPush(ctx, DLQPrefix+queue, data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Str("job_type", job.Type).Msg("dlq: push failed, job dropped")
		return
	}
	log.Warn().
		Str("queue", queue).
		Str("job_type", job.Type).
		Str("reason", reason).
		Int("attempts", job.Attempts).
		Msg("dlq: job parked")
}

// QueueDepth is the backlog of one queue, its waiting retries and its dead
// letter list.
type QueueDepth struct {
	Pending int64 `json:"pending"`
	Retry   int64 `json:"retry"`
	Dead    int64 `json:"dead"`
}

// Depths reports pending and dead job counts for every known queue.
func Depths(ctx context.Context, rdb *redis.Client) (map[string]QueueDepth, error) {
	queues := []string{QueueVoucher, QueueEmail}
	pipe := rdb.Pipeline()
	pending := make([]*redis.IntCmd, len(queues))
	retry := make([]*redis.IntCmd, len(queues))
	dead := make([]*redis.IntCmd, len(queues))
	for i, q := range queues {
		pending[i] = pipe.LLen(ctx, q)
		retry[i] = pipe.ZCard(ctx, delayedPrefix+q)
		dead[i] = pipe.LLen(ctx, DLQPrefix+q)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}
	out := make(map[string]QueueDepth, len(queues))
	for i, q := range queues {
		out[q] = QueueDepth{Pending: pending[i].Val(), Retry: retry[i].Val(), Dead: dead[i].Val()}
	}
	return out, nil
}
