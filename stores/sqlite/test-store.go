package sqlite

import (
	"context"
	"database/sql"

	qe "github.com/quayshop/quay-events-go"
)

// SqliteTestStore opens an in-memory database with the events schema
// applied. The single-connection limit keeps the in-memory database alive
// and visible across the store's calls.
func SqliteTestStore(ctx context.Context) (*EventStore, func(), error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, nil, err
	}
	db.SetMaxOpenConns(1)

	if err := CreateSchema(ctx, db, DefaultEventsTable); err != nil {
		db.Close()
		return nil, nil, err
	}

	store := NewEventStore(db, DefaultEventsTable, qe.NewJsonEventMarshaller())

	return store, func() {
		if err := db.Close(); err != nil {
			panic(err)
		}
	}, nil
}
