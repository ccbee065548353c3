package notify

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// EventType identifies the status change being announced.
type EventType string

const (
	EventBidApproved   EventType = "bid_approved"
	EventBidRejected   EventType = "bid_rejected"
	EventBidExpired    EventType = "bid_expired"
	EventTripCompleted EventType = "trip_completed"
)

// Event describes a bid status change to be delivered to the renter.
type Event struct {
	Type        EventType `json:"type"`
	BidID       string    `json:"bid_id"`
	VehicleName string    `json:"vehicle_name"`
	PlateNumber string    `json:"plate_number"`
	RenterName  string    `json:"renter_name"`
	RenterEmail string    `json:"renter_email"`
	RenterTel   string    `json:"renter_tel"`
	Amount      int64     `json:"amount"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
}

// Sender delivers a single event over one channel (email, SMS, MQTT, ...).
type Sender interface {
	Name() string
	Send(ctx context.Context, ev Event) error
}

// Dispatcher accepts events for asynchronous, best-effort delivery. Submit
// never blocks the caller and never reports delivery failures back to it.
type Dispatcher interface {
	Submit(ev Event)
}

// AsyncDispatcher fans events out to its senders from a single worker
// goroutine. Delivery failures are logged, not retried.
type AsyncDispatcher struct {
	senders []Sender
	events  chan Event
	timeout time.Duration

	closeOnce sync.Once
	done      chan struct{}
}

// NewAsyncDispatcher starts the delivery worker. buffer bounds the number of
// queued events; when it is full new events are dropped with a log line
// rather than blocking the state change that produced them.
func NewAsyncDispatcher(buffer int, senders ...Sender) *AsyncDispatcher {
	if buffer <= 0 {
		buffer = 64
	}
	d := &AsyncDispatcher{
		senders: senders,
		events:  make(chan Event, buffer),
		timeout: 10 * time.Second,
		done:    make(chan struct{}),
	}
	go d.run()
	return d
}

// Submit queues an event for delivery. Fire-and-forget: it returns
// immediately whether or not the event can be queued.
func (d *AsyncDispatcher) Submit(ev Event) {
	select {
	case d.events <- ev:
	default:
		log.WithFields(log.Fields{
			"event":  ev.Type,
			"bid_id": ev.BidID,
		}).Warn("notification queue full, dropping event")
	}
}

// Close drains queued events and stops the worker.
func (d *AsyncDispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.events)
		<-d.done
	})
}

func (d *AsyncDispatcher) run() {
	defer close(d.done)
	for ev := range d.events {
		for _, s := range d.senders {
			ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
			if err := s.Send(ctx, ev); err != nil {
				log.WithError(err).WithFields(log.Fields{
					"sender": s.Name(),
					"event":  ev.Type,
					"bid_id": ev.BidID,
				}).Warn("notification delivery failed")
			}
			cancel()
		}
	}
}

// NopDispatcher discards all events. Used when no delivery channel is
// configured.
type NopDispatcher struct{}

func (NopDispatcher) Submit(Event) {}
