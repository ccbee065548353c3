package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu     sync.Mutex
	events []Event
	err    error
	block  chan struct{}
}

func (s *recordingSender) Name() string { return "recording" }

func (s *recordingSender) Send(_ context.Context, ev Event) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
	return s.err
}

func (s *recordingSender) received() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

func TestAsyncDispatcher_DeliversToAllSenders(t *testing.T) {
	a := &recordingSender{}
	b := &recordingSender{}
	d := NewAsyncDispatcher(8, a, b)

	ev := Event{Type: EventBidApproved, BidID: "abc123", VehicleName: "Swift"}
	d.Submit(ev)
	d.Close()

	require.Len(t, a.received(), 1)
	require.Len(t, b.received(), 1)
	assert.Equal(t, ev, a.received()[0])
	assert.Equal(t, ev, b.received()[0])
}

func TestAsyncDispatcher_SenderFailureDoesNotStopOthers(t *testing.T) {
	failing := &recordingSender{err: errors.New("smtp down")}
	healthy := &recordingSender{}
	d := NewAsyncDispatcher(8, failing, healthy)

	d.Submit(Event{Type: EventBidRejected, BidID: "b1"})
	d.Submit(Event{Type: EventBidExpired, BidID: "b2"})
	d.Close()

	assert.Len(t, failing.received(), 2)
	assert.Len(t, healthy.received(), 2)
}

func TestAsyncDispatcher_SubmitNeverBlocks(t *testing.T) {
	blocked := &recordingSender{block: make(chan struct{})}
	d := NewAsyncDispatcher(1, blocked)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			d.Submit(Event{Type: EventBidApproved})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Submit blocked on a full queue")
	}
	close(blocked.block)
	d.Close()
}

func TestAsyncDispatcher_CloseDrainsQueue(t *testing.T) {
	s := &recordingSender{}
	d := NewAsyncDispatcher(16, s)

	for i := 0; i < 5; i++ {
		d.Submit(Event{Type: EventTripCompleted, BidID: "b"})
	}
	d.Close()

	assert.Len(t, s.received(), 5)
}

func TestComposeEmail_SubjectPerEventType(t *testing.T) {
	base := Event{
		VehicleName: "Swift Dzire",
		PlateNumber: "KA-01-1234",
		RenterName:  "asha",
		Amount:      4500,
		StartDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		eventType EventType
		want      string
	}{
		{EventBidApproved, "Your bid for Swift Dzire has been approved"},
		{EventBidRejected, "Your bid for Swift Dzire has been rejected"},
		{EventBidExpired, "Your bid for Swift Dzire has expired"},
		{EventTripCompleted, "Trip completed for Swift Dzire"},
	}
	for _, tt := range tests {
		ev := base
		ev.Type = tt.eventType
		subject, body := composeEmail(ev)
		assert.Equal(t, tt.want, subject)
		assert.Contains(t, body, "asha")
	}
}

func TestNopDispatcher(t *testing.T) {
	var d Dispatcher = NopDispatcher{}
	d.Submit(Event{Type: EventBidApproved})
}
