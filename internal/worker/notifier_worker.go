package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lectern/courseport-backend/internal/config"
	"github.com/lectern/courseport-backend/internal/notify"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const notifyPollTimeout = 1 * time.Second

// NotifierWorker drains the notification queue and delivers messages
// through a Mailer. Delivery is best-effort: a failed send is logged and
// dropped, never retried into the request path and never able to affect
// the enrollment or upload that produced it.
type NotifierWorker struct {
	rdb         *redis.Client
	mailer      notify.Mailer
	sendTimeout time.Duration
	log         zerolog.Logger
}

// NewNotifierWorker creates a NotifierWorker.
func NewNotifierWorker(rdb *redis.Client, mailer notify.Mailer, sendTimeout time.Duration, log zerolog.Logger) *NotifierWorker {
	return &NotifierWorker{
		rdb:         rdb,
		mailer:      mailer,
		sendTimeout: sendTimeout,
		log:         log.With().Str("component", "notifier_worker").Logger(),
	}
}

// Start runs the worker loop until ctx is cancelled.
func (w *NotifierWorker) Start(ctx context.Context) {
	w.log.Info().Msg("NotifierWorker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("NotifierWorker stopped")
			return

		default:
			item, err := w.rdb.BLPop(ctx, notifyPollTimeout, config.WorkerKey.NotificationQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var msg notify.Message
			if err := json.Unmarshal([]byte(item[1]), &msg); err != nil {
				w.log.Error().Err(err).Msg("Malformed notification payload")
				continue
			}

			w.deliver(msg)
		}
	}
}

// deliver sends one message with a bounded timeout so a slow email
// provider cannot stall the loop indefinitely.
func (w *NotifierWorker) deliver(msg notify.Message) {
	sendCtx, cancel := context.WithTimeout(context.Background(), w.sendTimeout)
	defer cancel()

	if err := w.mailer.Send(sendCtx, msg); err != nil {
		w.log.Error().
			Err(err).
			Str("event", msg.Event).
			Int("recipients", len(msg.Recipients)).
			Msg("Notification delivery failed")
		return
	}

	w.log.Debug().
		Str("event", msg.Event).
		Int("recipients", len(msg.Recipients)).
		Msg("Notification delivered")
}
