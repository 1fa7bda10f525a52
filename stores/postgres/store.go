// Package postgres provides a PostgreSQL-backed event store on pgx. Batches
// commit inside a single transaction and the UNIQUE (aggregate_id, version)
// constraint is the only serialization point between concurrent writers, so
// the optimistic protocol holds across process instances.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	qe "github.com/quayshop/quay-events-go"
)

// unique_violation, per the engine's error taxonomy
const uniqueViolationCode = "23505"

type EventStore struct {
	pool       *pgxpool.Pool
	table      string
	marshaller qe.EventMarshaller
	ids        *qe.EventIDGenerator
}

func NewEventStore(pool *pgxpool.Pool, table EventsTableName, marshaller qe.EventMarshaller) *EventStore {
	name := string(table)
	if name == "" {
		name = string(DefaultEventsTableName)
	}

	return &EventStore{
		pool:       pool,
		table:      name,
		marshaller: marshaller,
		ids:        qe.NewEventIDGenerator(),
	}
}

func (s *EventStore) Append(ctx context.Context, id qe.AggregateId, expected qe.Version, events ...qe.DomainEvent) (qe.Version, error) {
	if len(events) == 0 {
		return expected, nil
	}

	now := time.Now()
	recorded, err := qe.RecordEvents(s.marshaller, s.ids, id, expected, events, now)
	if err != nil {
		return qe.InitialVersion, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return qe.InitialVersion, fmt.Errorf("begin append transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insert := fmt.Sprintf(
		`INSERT INTO %s (id, aggregate_type, aggregate_id, version, event_type, encoding, payload, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.table,
	)

	batch := &pgx.Batch{}
	for _, record := range recorded {
		batch.Queue(insert,
			record.EventID.String(),
			record.AggregateId.Type,
			record.AggregateId.Encode().String(),
			int64(record.Version),
			record.EventType.String(),
			record.Data.Encoding,
			record.Data.Data,
			now.UTC(),
		)
	}

	if err := s.sendBatch(ctx, tx, batch, len(recorded)); err != nil {
		if isUniqueViolation(err) {
			return qe.InitialVersion, qe.VersionConflict
		}
		return qe.InitialVersion, fmt.Errorf("append events: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return qe.InitialVersion, fmt.Errorf("commit append transaction: %w", err)
	}

	return qe.VersionFor(recorded), nil
}

func (s *EventStore) sendBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch, size int) error {
	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < size; i++ {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}

	return nil
}

func (s *EventStore) Load(ctx context.Context, id qe.AggregateId) (*qe.Aggregate, error) {
	query := fmt.Sprintf(
		`SELECT id, version, event_type, encoding, payload, created_at
		 FROM %s WHERE aggregate_id = $1 ORDER BY version ASC`,
		s.table,
	)

	rows, err := s.pool.Query(ctx, query, id.Encode().String())
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []qe.RecordedEvent
	for rows.Next() {
		var (
			eventID   string
			version   int64
			eventType string
			encoding  string
			payload   []byte
			createdAt time.Time
		)

		if err := rows.Scan(&eventID, &version, &eventType, &encoding, &payload, &createdAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}

		record := qe.RecordedEvent{
			AggregateId: id,
			Version:     qe.Version(version),
			EventID:     qe.EventID(eventID),
			EventType:   qe.EventType(eventType),
			RecordedAt:  qe.TimestampFromTime(createdAt),
			Data:        qe.Data{Encoding: encoding, Data: payload},
		}
		record.Decode = decoder(s.marshaller, record.Data)

		events = append(events, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read events: %w", err)
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

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}

	return false
}

var _ qe.EventStore = (*EventStore)(nil)
