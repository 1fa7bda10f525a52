package orders

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"

	qe "github.com/quayshop/quay-events-go"
	"github.com/quayshop/quay-events-go/stores/memory"
)

var entropy = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)

func createId() qe.AggregateId {
	return qe.AggregateId{
		Type: "order",
		Key:  ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String(),
	}
}

func TestOrderService(t *testing.T) {
	ctx := context.Background()
	service := NewOrderService(memory.NewEventStore(qe.NewJsonEventMarshaller()))

	t.Run("loads an unopened order", func(t *testing.T) {
		entity, err := service.Load(ctx, createId())
		if !assert.Nil(t, err) {
			return
		}

		assert.Equal(t, qe.InitialVersion, entity.Version)
		assert.False(t, entity.Initialized())
	})

	t.Run("opens an order and adds items", func(t *testing.T) {
		id := createId()

		entity, err := service.Execute(ctx, id, OpenOrder{Reference: "web-1041"})
		if !assert.Nil(t, err) {
			return
		}
		assert.Equal(t, StatusOpen, entity.State.Status)

		entity, err = service.Execute(ctx, id, AddItem{SKU: "mug-0042", Quantity: 2})
		if !assert.Nil(t, err) {
			return
		}

		entity, err = service.Execute(ctx, id, AddItem{SKU: "mug-0042", Quantity: 1})
		if !assert.Nil(t, err) {
			return
		}

		assert.Equal(t, 3, entity.State.Quantity("mug-0042"))
		assert.Equal(t, qe.Version(3), entity.Version)
	})

	t.Run("removes items down to an empty order", func(t *testing.T) {
		id := createId()

		_, err := service.Execute(ctx, id, OpenOrder{Reference: "web-1042"})
		if !assert.Nil(t, err) {
			return
		}
		_, err = service.Execute(ctx, id, AddItem{SKU: "tea-0007", Quantity: 2})
		if !assert.Nil(t, err) {
			return
		}

		entity, err := service.Execute(ctx, id, RemoveItem{SKU: "tea-0007", Quantity: 2})
		if !assert.Nil(t, err) {
			return
		}

		assert.True(t, entity.State.Empty())

		_, err = service.Execute(ctx, id, RemoveItem{SKU: "tea-0007", Quantity: 1})
		assert.NotNil(t, err)
	})

	t.Run("checks out a non-empty order", func(t *testing.T) {
		id := createId()

		_, err := service.Execute(ctx, id, OpenOrder{Reference: "web-1043"})
		if !assert.Nil(t, err) {
			return
		}
		_, err = service.Execute(ctx, id, AddItem{SKU: "kettle-0003", Quantity: 1})
		if !assert.Nil(t, err) {
			return
		}

		entity, err := service.Execute(ctx, id, Checkout{})
		if !assert.Nil(t, err) {
			return
		}
		assert.Equal(t, StatusCheckedOut, entity.State.Status)

		_, err = service.Execute(ctx, id, AddItem{SKU: "kettle-0003", Quantity: 1})
		assert.NotNil(t, err)
	})

	t.Run("rejects checking out an empty order", func(t *testing.T) {
		id := createId()

		_, err := service.Execute(ctx, id, OpenOrder{Reference: "web-1044"})
		if !assert.Nil(t, err) {
			return
		}

		_, err = service.Execute(ctx, id, Checkout{})
		assert.NotNil(t, err)
	})

	t.Run("rejects an unrouted command", func(t *testing.T) {
		_, err := service.Execute(ctx, createId(), struct{ Oops string }{Oops: "nope"})

		var notFound qe.CommandNotFoundError
		assert.ErrorAs(t, err, &notFound)
	})
}

func TestOrderServiceRetriesOnConflict(t *testing.T) {
	ctx := context.Background()
	service := NewOrderService(memory.NewEventStore(qe.NewJsonEventMarshaller()))

	id := createId()
	_, err := service.Execute(ctx, id, OpenOrder{Reference: "web-2000"})
	if !assert.Nil(t, err) {
		return
	}

	// Contending writers conflict on the first attempt; the service reloads
	// and retries, so both commands land.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.Execute(ctx, id, AddItem{SKU: "plate-0001", Quantity: 1})
		}(i)
	}
	wg.Wait()

	assert.Nil(t, errs[0])
	assert.Nil(t, errs[1])

	entity, err := service.Load(ctx, id)
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, 2, entity.State.Quantity("plate-0001"))
}
