package service

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/rentit-app/rentit-backend/internal/db"
	"github.com/rentit-app/rentit-backend/internal/notify"
)

// ExpiryJob rejects pending bids whose start date has already passed without
// an owner decision. It runs on a cron schedule from the server binary.
type ExpiryJob struct {
	bids       db.BidCollection
	dispatcher notify.Dispatcher
	now        func() time.Time
}

// NewExpiryJob wires the sweep. A nil dispatcher is replaced with a no-op one.
func NewExpiryJob(bids db.BidCollection, dispatcher notify.Dispatcher) *ExpiryJob {
	if dispatcher == nil {
		dispatcher = notify.NopDispatcher{}
	}
	return &ExpiryJob{bids: bids, dispatcher: dispatcher, now: time.Now}
}

// Run performs one sweep and notifies each affected renter. Errors are
// returned so the caller can log them; a failed sweep is retried on the next
// tick.
func (j *ExpiryJob) Run(ctx context.Context) error {
	expired, err := j.bids.ExpirePendingBefore(ctx, j.now().UTC())
	if err != nil {
		return err
	}
	if len(expired) == 0 {
		return nil
	}
	for i := range expired {
		j.dispatcher.Submit(eventFor(notify.EventBidExpired, &expired[i]))
	}
	log.WithField("expired", len(expired)).Info("expired stale pending bids")
	return nil
}
