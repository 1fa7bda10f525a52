package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	qe "github.com/quayshop/quay-events-go"
)

func PostgresTestStore(ctx context.Context) (*EventStore, func(), error) {
	db, err := testcontainers.GenericContainer(
		ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "postgres:16-alpine",
				ExposedPorts: []string{"5432/tcp"},
				Env: map[string]string{
					"POSTGRES_USER":     "events",
					"POSTGRES_PASSWORD": "events",
					"POSTGRES_DB":       "events",
				},
				WaitingFor: wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(time.Minute),
			},
			Started: true,
		},
	)
	if err != nil {
		return nil, nil, err
	}

	host, err := db.Host(ctx)
	if err != nil {
		return nil, nil, err
	}

	port, err := db.MappedPort(ctx, "5432")
	if err != nil {
		return nil, nil, err
	}

	dsn := fmt.Sprintf("postgres://events:events@%s:%s/events?sslmode=disable", host, port.Port())

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}

	err = retry.Do(
		func() error { return pool.Ping(ctx) },
		retry.Attempts(10),
		retry.Delay(300*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, nil, err
	}

	if err := CreateSchema(ctx, pool, DefaultEventsTableName); err != nil {
		return nil, nil, err
	}

	store := NewEventStore(pool, DefaultEventsTableName, qe.NewJsonEventMarshaller())

	return store, func() {
		pool.Close()
		if err := db.Terminate(ctx); err != nil {
			panic(err)
		}
	}, nil
}
