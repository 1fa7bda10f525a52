package qe

import (
	"context"

	"github.com/avast/retry-go"
	"go.opentelemetry.io/otel"
)

type EntityService[T any] interface {
	Load(ctx context.Context, id AggregateId) (Entity[T], error)
	Execute(ctx context.Context, id AggregateId, command Command) (Entity[T], error)
}

const tracerName = "quay-events"

// executeAttempts bounds the reload-and-retry loop on version conflicts.
// The store itself never retries; a conflict means the entity loaded here
// went stale between Load and Append, so each attempt starts from a fresh
// history.
const executeAttempts = 3

func NewEntityService[T any](loader *EntityLoader[T], dispatcher *RoutedDispatcher[T]) *entityService[T] {
	return &entityService[T]{
		loader:     loader,
		dispatcher: dispatcher,
	}
}

type entityService[T any] struct {
	loader     *EntityLoader[T]
	dispatcher *RoutedDispatcher[T]
}

func (s *entityService[T]) Load(ctx context.Context, id AggregateId) (Entity[T], error) {
	return s.loader.Load(ctx, id)
}

func (s *entityService[T]) Execute(ctx context.Context, id AggregateId, command Command) (Entity[T], error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "execute command")
	defer span.End()

	var result Entity[T]

	err := retry.Do(
		func() error {
			entity, err := s.Load(ctx, id)
			if err != nil {
				return err
			}

			published, err := s.dispatcher.Dispatch(ctx, entity, command)
			if err != nil {
				return err
			}

			if published == false {
				result = entity
				return nil
			}

			result, err = s.Load(ctx, id)
			return err
		},
		retry.RetryIf(IsVersionConflict),
		retry.Attempts(executeAttempts),
		retry.LastErrorOnly(true),
	)

	if err != nil {
		return Entity[T]{}, err
	}

	return result, nil
}
