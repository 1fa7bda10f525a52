package qe

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/jaswdr/faker"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
)

var entropy = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)

// NewEventStoreValidationSuite builds the conformance suite every store
// implementation is expected to pass. Run it from the store's own tests.
func NewEventStoreValidationSuite(ctx context.Context, store EventStore) *EventStoreValidationSuite {
	faker := faker.New()
	return &EventStoreValidationSuite{
		store: store,
		ctx:   ctx,
		faker: faker,
	}
}

type EventStoreValidationSuite struct {
	store EventStore
	ctx   context.Context
	faker faker.Faker
}

type StoreValidationEvent struct {
	TestStringValue string `json:"test_string_value"`
	TestIntValue    int    `json:"test_int_value"`
}

type StoreValidationNested struct {
	Notes map[string]string `json:"notes"`
	Depth int               `json:"depth"`
}

type StoreValidationDocument struct {
	Title  string                `json:"title"`
	Count  int64                 `json:"count"`
	Ratio  float64               `json:"ratio"`
	Tags   []string              `json:"tags"`
	Nested StoreValidationNested `json:"nested"`
}

func (s *EventStoreValidationSuite) Run(t *testing.T) {
	t.Run("loads an empty aggregate", s.LoadInitial)
	t.Run("appends a single event", s.AppendsSingleEvent)
	t.Run("appends a batch in input order", s.AppendsBatchInOrder)
	t.Run("treats an empty append as a no-op", s.EmptyAppendIsNoop)
	t.Run("rejects a stale expected version", s.ConflictOnStaleVersion)
	t.Run("keeps aggregates isolated", s.IsolationBetweenAggregates)
	t.Run("round-trips structured payloads", s.PayloadRoundTrip)
}

func (s *EventStoreValidationSuite) MakeTestAggregateId() AggregateId {
	return AggregateId{
		Type: "go-test",
		Key:  ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String(),
	}
}

func (s *EventStoreValidationSuite) MakeTestEvent() StoreValidationEvent {
	return StoreValidationEvent{
		TestStringValue: s.faker.Lorem().Sentence(10),
		TestIntValue:    s.faker.Int(),
	}
}

func (s *EventStoreValidationSuite) MakeTestEvents(count int) []DomainEvent {
	events := make([]DomainEvent, count)
	for i := 0; i < count; i++ {
		events[i] = s.MakeTestEvent()
	}

	return events
}

func (s *EventStoreValidationSuite) LoadInitial(t *testing.T) {
	aggregateId := s.MakeTestAggregateId()
	aggregate, err := s.store.Load(s.ctx, aggregateId)

	if !assert.Nil(t, err) {
		return
	}

	assert.Empty(t, aggregate.Events)
	assert.Equal(t, InitialVersion, aggregate.Version)
	assert.EqualValues(t, aggregateId, aggregate.Id)
}

func (s *EventStoreValidationSuite) AppendsSingleEvent(t *testing.T) {
	event := s.MakeTestEvent()

	aggregateId := s.MakeTestAggregateId()
	version, err := s.store.Append(s.ctx, aggregateId, InitialVersion, event)

	if !assert.Nil(t, err) {
		return
	}

	assert.Equal(t, Version(1), version)
}

func (s *EventStoreValidationSuite) AppendsBatchInOrder(t *testing.T) {
	events := s.MakeTestEvents(3)

	aggregateId := s.MakeTestAggregateId()
	version, err := s.store.Append(s.ctx, aggregateId, InitialVersion, events...)
	if !assert.Nil(t, err) {
		return
	}

	assert.Equal(t, Version(3), version)

	aggregate, err := s.store.Load(s.ctx, aggregateId)
	if !assert.Nil(t, err) {
		return
	}

	if !assert.Len(t, aggregate.Events, 3) {
		return
	}

	for index, recorded := range aggregate.Events {
		assert.Equal(t, Version(index+1), recorded.Version)
		assert.EqualValues(t, aggregateId, recorded.AggregateId)

		var decoded StoreValidationEvent
		if !assert.Nil(t, recorded.Decode(&decoded)) {
			return
		}
		assert.Equal(t, events[index], decoded)
	}

	assert.Equal(t, Version(3), aggregate.Version)
}

func (s *EventStoreValidationSuite) EmptyAppendIsNoop(t *testing.T) {
	aggregateId := s.MakeTestAggregateId()

	version, err := s.store.Append(s.ctx, aggregateId, InitialVersion)
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, InitialVersion, version)

	aggregate, err := s.store.Load(s.ctx, aggregateId)
	if !assert.Nil(t, err) {
		return
	}
	assert.Empty(t, aggregate.Events)
}

func (s *EventStoreValidationSuite) ConflictOnStaleVersion(t *testing.T) {
	aggregateId := s.MakeTestAggregateId()

	_, err := s.store.Append(s.ctx, aggregateId, InitialVersion, s.MakeTestEvents(3)...)
	if !assert.Nil(t, err) {
		return
	}

	_, err = s.store.Append(s.ctx, aggregateId, InitialVersion, s.MakeTestEvent())
	if !assert.True(t, IsVersionConflict(err)) {
		return
	}

	aggregate, err := s.store.Load(s.ctx, aggregateId)
	if !assert.Nil(t, err) {
		return
	}
	assert.Len(t, aggregate.Events, 3)

	version, err := s.store.Append(s.ctx, aggregateId, aggregate.Version, s.MakeTestEvent())
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, Version(4), version)
}

func (s *EventStoreValidationSuite) IsolationBetweenAggregates(t *testing.T) {
	first := s.MakeTestAggregateId()
	second := s.MakeTestAggregateId()

	_, err := s.store.Append(s.ctx, first, InitialVersion, s.MakeTestEvents(2)...)
	if !assert.Nil(t, err) {
		return
	}

	_, err = s.store.Append(s.ctx, second, InitialVersion, s.MakeTestEvent())
	if !assert.Nil(t, err) {
		return
	}

	loaded, err := s.store.Load(s.ctx, first)
	if !assert.Nil(t, err) {
		return
	}
	assert.Len(t, loaded.Events, 2)

	loaded, err = s.store.Load(s.ctx, second)
	if !assert.Nil(t, err) {
		return
	}
	assert.Len(t, loaded.Events, 1)
}

func (s *EventStoreValidationSuite) PayloadRoundTrip(t *testing.T) {
	document := StoreValidationDocument{
		Title: "café naïve — 発注履歴",
		Count: 9007199254740991,
		Ratio: 0.125,
		Tags:  []string{"storefront", "ʃop"},
		Nested: StoreValidationNested{
			Notes: map[string]string{"origin": "storefront", "status": "committed"},
			Depth: 3,
		},
	}

	aggregateId := s.MakeTestAggregateId()
	_, err := s.store.Append(s.ctx, aggregateId, InitialVersion, document)
	if !assert.Nil(t, err) {
		return
	}

	aggregate, err := s.store.Load(s.ctx, aggregateId)
	if !assert.Nil(t, err) {
		return
	}

	if !assert.Len(t, aggregate.Events, 1) {
		return
	}

	var decoded StoreValidationDocument
	if !assert.Nil(t, aggregate.Events[0].Decode(&decoded)) {
		return
	}

	assert.Equal(t, document, decoded)
}
