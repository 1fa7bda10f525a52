package postgres

import (
	"context"
	"errors"
	"os"

	"github.com/google/wire"
	"github.com/jackc/pgx/v5/pgxpool"

	qe "github.com/quayshop/quay-events-go"
)

var Live = wire.NewSet(
	LivePool,
	LiveEventsTableName,
	LiveEventStore,
	wire.Bind(new(qe.EventStore), new(*EventStore)),
)

var Test = wire.NewSet(
	TestStore,
	wire.Bind(new(qe.EventStore), new(*EventStore)),
)

type EventsTableName string

const DefaultEventsTableName = EventsTableName("events")

func (name EventsTableName) String() string {
	return string(name)
}

func LiveEventsTableName() EventsTableName {
	table := os.Getenv("POSTGRES_EVENTS_TABLE")
	if len(table) == 0 {
		return DefaultEventsTableName
	}

	return EventsTableName(table)
}

func LivePool(ctx context.Context) (*pgxpool.Pool, error) {
	dsn := os.Getenv("POSTGRES_EVENTS_DSN")
	if len(dsn) == 0 {
		return nil, errors.New("POSTGRES_EVENTS_DSN is not set")
	}

	return pgxpool.New(ctx, dsn)
}

func LiveEventStore(pool *pgxpool.Pool, table EventsTableName) *EventStore {
	return NewEventStore(pool, table, qe.NewJsonEventMarshaller())
}

func TestStore(ctx context.Context) (*EventStore, func(), error) {
	return PostgresTestStore(ctx)
}
