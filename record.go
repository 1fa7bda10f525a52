package qe

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type EventIDGenerator struct {
	lk      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewEventIDGenerator() *EventIDGenerator {
	t := time.Now()
	entropy := ulid.Monotonic(rand.New(rand.NewSource(t.UnixNano())), 0)

	return &EventIDGenerator{
		entropy: entropy,
	}
}

func (g *EventIDGenerator) NewEventID(t time.Time) EventID {
	g.lk.Lock()
	defer g.lk.Unlock()

	return EventID(ulid.MustNew(ulid.Timestamp(t), g.entropy).String())
}

// RecordEvents encodes a batch of domain events into the records an append
// will commit, assigning versions expected+1 .. expected+len(events) in
// input order. Encoding failures are the caller's bug and abort the batch
// before any storage access.
func RecordEvents(marshaller EventMarshaller, ids *EventIDGenerator, id AggregateId, expected Version, events []DomainEvent, now time.Time) ([]RecordedEvent, error) {
	timestamp := TimestampFromTime(now)

	recorded := make([]RecordedEvent, len(events))
	for index, event := range events {
		data, err := marshaller.Marshal(event)
		if err != nil {
			return nil, err
		}

		recorded[index] = RecordedEvent{
			AggregateId: id,
			Version:     expected + Version(index) + 1,
			EventID:     ids.NewEventID(now),
			EventType:   EventTypeOf(event),
			RecordedAt:  timestamp,
			Data:        data,
		}
	}

	return recorded, nil
}
