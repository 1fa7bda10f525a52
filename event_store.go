package qe

import (
	"context"
	"errors"
)

type EventLoader = func(ctx context.Context, id AggregateId) (*Aggregate, error)
type EventPublisher = func(ctx context.Context, id AggregateId, expected Version, events ...DomainEvent) (Version, error)

// EventStore persists domain events as an append-only, per-aggregate log.
//
// Append assigns versions expected+1 .. expected+len(events) in input order
// and commits the whole batch atomically: either every record lands or none
// do. Conflict detection rests on the storage engine's uniqueness guarantee
// over (aggregate id, version) rather than any in-process lock, so the
// protocol holds across any number of concurrent writers and processes. When
// another writer has already claimed a version in the target range the call
// fails with VersionConflict and the caller is expected to reload, recompute
// its events against the fresh history, and try again with the new current
// version. Appending zero events is a no-op that performs no storage access.
//
// Load returns the aggregate's full history in ascending version order; an
// aggregate with no committed events loads successfully with no events and
// InitialVersion.
type EventStore interface {
	Load(ctx context.Context, id AggregateId) (*Aggregate, error)
	Append(ctx context.Context, id AggregateId, expected Version, events ...DomainEvent) (Version, error)
}

func Loader(store EventStore) EventLoader {
	return store.Load
}

func Publisher(store EventStore) EventPublisher {
	return store.Append
}

// VersionConflict signals that the caller's view of the aggregate was stale.
// The store guarantees no partial writes occurred.
var VersionConflict = errors.New("version-conflict")

func IsVersionConflict(err error) bool {
	return errors.Is(err, VersionConflict)
}
