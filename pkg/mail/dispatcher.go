package mail

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/connecta-b2b/connecta-server/pkg/logging"
)

// queueKey is the Redis list backing the outbound mail queue.
const queueKey = "connecta:mail_queue"

// Enqueuer hands a message to the background delivery path. Enqueue is
// fire-and-forget: delivery failures are logged and swallowed, never
// surfaced to the caller.
type Enqueuer interface {
	Enqueue(ctx context.Context, msg Message)
}

// Dispatcher queues messages on Redis and drains them with a background
// worker. Without Redis it falls back to detached per-message goroutines
// so the request path is never blocked on SMTP either way.
type Dispatcher struct {
	rdb    *redis.Client
	sender Sender
	logger *zap.Logger
}

// NewDispatcher creates a dispatcher. rdb may be nil.
func NewDispatcher(rdb *redis.Client, sender Sender, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		rdb:    rdb,
		sender: sender,
		logger: logger.Named("mail-dispatcher"),
	}
}

// Enqueue queues a message for background delivery.
func (d *Dispatcher) Enqueue(ctx context.Context, msg Message) {
	if d.rdb == nil {
		go d.deliver(context.Background(), msg)
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		d.logger.Error("Failed to marshal mail job", zap.Error(err))
		return
	}
	if err := d.rdb.LPush(ctx, queueKey, data).Err(); err != nil {
		d.logger.Error("Failed to enqueue mail job",
			zap.String("to", msg.To), zap.Error(err))
	}
}

// Run drains the queue until the context is cancelled. No-op without
// Redis (the goroutine fallback handles delivery then).
func (d *Dispatcher) Run(ctx context.Context) {
	if d.rdb == nil {
		<-ctx.Done()
		return
	}

	d.logger.Info("Mail worker started")
	for {
		res, err := d.rdb.BRPop(ctx, 5*time.Second, queueKey).Result()
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				d.logger.Info("Mail worker stopped")
				return
			}
			if !errors.Is(err, redis.Nil) {
				d.logger.Warn("Mail queue pop failed", zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(time.Second):
				}
			}
			continue
		}

		// BRPop returns [key, value].
		if len(res) != 2 {
			continue
		}
		var msg Message
		if err := json.Unmarshal([]byte(res[1]), &msg); err != nil {
			d.logger.Warn("Dropping malformed mail job", zap.Error(err))
			continue
		}
		d.deliver(ctx, msg)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, msg Message) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := d.sender.Send(ctx, msg); err != nil {
		// Failures are logged and swallowed, never retried here.
		d.logger.Warn("Mail delivery failed",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.String("error", logging.SanitizeError(err)))
	}
}
