package postgres

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	qe "github.com/quayshop/quay-events-go"
)

func TestPostgresStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed store test in short mode")
	}

	ctx := context.Background()
	store, tearDown, err := PostgresTestStore(ctx)
	if err != nil {
		t.Fatalf("failed to create test store. %+v", err)
	}
	defer tearDown()

	qe.NewEventStoreValidationSuite(ctx, store).Run(t)

	t.Run("serializes concurrent appends through the constraint", func(t *testing.T) {
		id := qe.AggregateId{Type: "go-test", Key: "contended"}

		errs := make([]error, 2)

		var wg sync.WaitGroup
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = store.Append(ctx, id, qe.InitialVersion,
					qe.StoreValidationEvent{TestStringValue: "contended", TestIntValue: i},
				)
			}(i)
		}
		wg.Wait()

		var winners, conflicts int
		for _, err := range errs {
			switch {
			case err == nil:
				winners++
			case qe.IsVersionConflict(err):
				conflicts++
			default:
				t.Fatalf("unexpected append failure: %+v", err)
			}
		}

		assert.Equal(t, 1, winners)
		assert.Equal(t, 1, conflicts)

		aggregate, err := store.Load(ctx, id)
		if !assert.Nil(t, err) {
			return
		}
		assert.Len(t, aggregate.Events, 1)
	})
}
