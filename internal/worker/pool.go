package worker

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueVoucher = "jobs:voucher"
	QueueEmail   = "jobs:email"

	// MaxAttempts is how many times a job runs before it is moved to the DLQ.
	MaxAttempts = 3

	// Failed jobs wait in delayed:<queue>, a sorted set scored by the unix
	// time they become due.
	delayedPrefix = "delayed:"
	retryBase     = 5 * time.Second
	promoteEvery  = time.Second
)

// retryDelay doubles per attempt: 5s after the first failure, 10s after the second.
func retryDelay(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	return retryBase << (attempts - 1)
}

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// JobHandler processes one job payload. A returned error schedules a retry.
type JobHandler interface {
	Process(ctx context.Context, raw json.RawMessage) error
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueVoucher pushes a voucher rendering job to Redis.
func (d *Dispatcher) EnqueueVoucher(ctx context.Context, payload VoucherJobPayload) error {
	return d.enqueue(ctx, QueueVoucher, "voucher", payload)
}

// EnqueueEmail pushes an email job to Redis.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload EmailJobPayload) error {
	return d.enqueue(ctx, QueueEmail, "email", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return push(ctx, d.rdb, queue, Job{Type: jobType, Payload: data})
}

func push(ctx context.Context, rdb *redis.Client, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// WorkerHandlers binds each queue to its processor. Nil handlers leave the
// queue unconsumed.
type WorkerHandlers struct {
	Voucher JobHandler
	Email   JobHandler
}

func (h WorkerHandlers) forQueue(queue string) JobHandler {
	switch queue {
	case QueueVoucher:
		return h.Voucher
	case QueueEmail:
		return h.Email
	}
	return nil
}

func (h WorkerHandlers) queues() []string {
	var qs []string
	if h.Voucher != nil {
		qs = append(qs, QueueVoucher)
	}
	if h.Email != nil {
		qs = append(qs, QueueEmail)
	}
	return qs
}

// StartWorkerPool launches numWorkers goroutines consuming the handled queues.
// Each goroutine blocks on BRPOP, zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers WorkerHandlers, numWorkers int) {
	queues := handlers.queues()
	if len(queues) == 0 {
		log.Warn().Msg("worker pool: no handlers configured, not starting")
		return
	}
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, handlers, queues, i)
	}
	go runPromoter(ctx, rdb, queues)
	log.Info().Strs("queues", queues).Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers WorkerHandlers, queues []string, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop, waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handlers, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, handlers WorkerHandlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}
	h := handlers.forQueue(queue)
	if h == nil {
		log.Error().Str("queue", queue).Msg("no handler for queue")
		return
	}

	job.Attempts++
	err := h.Process(ctx, job.Payload)
	if err == nil {
		return
	}
	if job.Attempts >= MaxAttempts {
		SendToDLQ(ctx, rdb, queue, job, err.Error())
		return
	}
	delay := retryDelay(job.Attempts)
	log.Warn().Err(err).Str("queue", queue).Int("attempt", job.Attempts).Dur("retry_in", delay).Msg("job failed, retry scheduled")
	if serr := scheduleRetry(ctx, rdb, queue, job, time.Now().Add(delay)); serr != nil {
		log.Error().Err(serr).Str("queue", queue).Msg("scheduling retry failed")
	}
}

func scheduleRetry(ctx context.Context, rdb *redis.Client, queue string, job Job, due time.Time) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.ZAdd(ctx, delayedPrefix+queue, redis.Z{Score: float64(due.Unix()), Member: string(encoded)}).Err()
}

// promoteDue moves retries that are due by now back onto queue. ZRem decides
// which promoter owns a member, so concurrent promoters never push it twice.
func promoteDue(ctx context.Context, rdb *redis.Client, queue string, now time.Time) (int, error) {
	key := delayedPrefix + queue
	due, err := rdb.ZRangeByScore(ctx, key, &redis.ZRangeBy{Min: "-inf", Max: strconv.FormatInt(now.Unix(), 10)}).Result()
	if err != nil {
		return 0, err
	}
	moved := 0
	for _, member := range due {
		removed, err := rdb.ZRem(ctx, key, member).Result()
		if err != nil {
			return moved, err
		}
		if removed == 0 {
			continue
		}
		if err := rdb.LPush(ctx, queue, member).Err(); err != nil {
			return moved, err
		}
		moved++
	}
	return moved, nil
}

func runPromoter(ctx context.Context, rdb *redis.Client, queues []string) {
	ticker := time.NewTicker(promoteEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			for _, q := range queues {
				if n, err := promoteDue(ctx, rdb, q, now); err != nil {
					log.Error().Err(err).Str("queue", q).Msg("promoting retries failed")
				} else if n > 0 {
					log.Debug().Str("queue", q).Int("jobs", n).Msg("retries promoted")
				}
			}
		}
	}
}
