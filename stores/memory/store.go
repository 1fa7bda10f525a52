// Package memory provides an in-process event store honoring the same
// append contract as the durable adapters. It is intended for tests and
// samples; the mutex plays the role the storage engine's uniqueness
// constraint plays in the durable stores.
package memory

import (
	"context"
	"sync"
	"time"

	qe "github.com/quayshop/quay-events-go"
)

type EventStore struct {
	lk         sync.RWMutex
	marshaller qe.EventMarshaller
	ids        *qe.EventIDGenerator
	streams    map[qe.EncodedAggregateId][]qe.RecordedEvent
}

func NewEventStore(marshaller qe.EventMarshaller) *EventStore {
	return &EventStore{
		marshaller: marshaller,
		ids:        qe.NewEventIDGenerator(),
		streams:    make(map[qe.EncodedAggregateId][]qe.RecordedEvent),
	}
}

func (s *EventStore) Append(ctx context.Context, id qe.AggregateId, expected qe.Version, events ...qe.DomainEvent) (qe.Version, error) {
	if len(events) == 0 {
		return expected, nil
	}

	recorded, err := qe.RecordEvents(s.marshaller, s.ids, id, expected, events, time.Now())
	if err != nil {
		return qe.InitialVersion, err
	}

	s.lk.Lock()
	defer s.lk.Unlock()

	key := id.Encode()
	if qe.VersionFor(s.streams[key]) != expected {
		return qe.InitialVersion, qe.VersionConflict
	}

	s.streams[key] = append(s.streams[key], recorded...)

	return qe.VersionFor(s.streams[key]), nil
}

func (s *EventStore) Load(ctx context.Context, id qe.AggregateId) (*qe.Aggregate, error) {
	s.lk.RLock()
	defer s.lk.RUnlock()

	stream := s.streams[id.Encode()]

	events := make([]qe.RecordedEvent, len(stream))
	for i := range stream {
		record := stream[i]
		record.Decode = decoder(s.marshaller, record.Data)
		events[i] = record
	}

	return &qe.Aggregate{
		Id:      id,
		Events:  events,
		Version: qe.VersionFor(events),
	}, nil
}

func decoder(marshaller qe.EventMarshaller, data qe.Data) func(event qe.DomainEvent) error {
	return func(event qe.DomainEvent) error {
		return marshaller.Unmarshal(data, event)
	}
}

var _ qe.EventStore = (*EventStore)(nil)
