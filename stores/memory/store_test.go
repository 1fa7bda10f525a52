package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	qe "github.com/quayshop/quay-events-go"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewEventStore(qe.NewJsonEventMarshaller())

	qe.NewEventStoreValidationSuite(ctx, store).Run(t)
}

func TestConcurrentAppendsToSameAggregate(t *testing.T) {
	ctx := context.Background()
	store := NewEventStore(qe.NewJsonEventMarshaller())

	id := qe.AggregateId{Type: "go-test", Key: "contended"}

	type attempt struct {
		size int
		err  error
	}

	batches := [][]qe.DomainEvent{
		{qe.StoreValidationEvent{TestStringValue: "first", TestIntValue: 1}},
		{
			qe.StoreValidationEvent{TestStringValue: "second", TestIntValue: 2},
			qe.StoreValidationEvent{TestStringValue: "third", TestIntValue: 3},
		},
	}

	results := make([]attempt, len(batches))

	var wg sync.WaitGroup
	for i, batch := range batches {
		wg.Add(1)
		go func(i int, batch []qe.DomainEvent) {
			defer wg.Done()
			_, err := store.Append(ctx, id, qe.InitialVersion, batch...)
			results[i] = attempt{size: len(batch), err: err}
		}(i, batch)
	}
	wg.Wait()

	var winners, conflicts, committed int
	for _, result := range results {
		switch {
		case result.err == nil:
			winners++
			committed = result.size
		case qe.IsVersionConflict(result.err):
			conflicts++
		default:
			t.Fatalf("unexpected append failure: %+v", result.err)
		}
	}

	assert.Equal(t, 1, winners)
	assert.Equal(t, 1, conflicts)

	aggregate, err := store.Load(ctx, id)
	if !assert.Nil(t, err) {
		return
	}
	assert.Len(t, aggregate.Events, committed)
}
