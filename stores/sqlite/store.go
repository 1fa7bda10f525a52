// Package sqlite provides a SQLite-backed event store on modernc.org/sqlite.
// The UNIQUE (aggregate_id, version) constraint is the serialization point
// for concurrent writers; the store never checks versions in application
// code before inserting.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	qe "github.com/quayshop/quay-events-go"
)

const DefaultEventsTable = "events"

type EventStore struct {
	db         *sql.DB
	table      string
	marshaller qe.EventMarshaller
	ids        *qe.EventIDGenerator
}

func NewEventStore(db *sql.DB, table string, marshaller qe.EventMarshaller) *EventStore {
	if table == "" {
		table = DefaultEventsTable
	}

	return &EventStore{
		db:         db,
		table:      table,
		marshaller: marshaller,
		ids:        qe.NewEventIDGenerator(),
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

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return qe.InitialVersion, fmt.Errorf("begin append transaction: %w", err)
	}
	defer tx.Rollback()

	insert := fmt.Sprintf(
		`INSERT INTO %s (id, aggregate_type, aggregate_id, version, event_type, encoding, payload, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.table,
	)

	for index, record := range recorded {
		_, err := tx.ExecContext(ctx, insert,
			record.EventID.String(),
			record.AggregateId.Type,
			record.AggregateId.Encode().String(),
			int64(record.Version),
			record.EventType.String(),
			record.Data.Encoding,
			record.Data.Data,
			record.RecordedAt.String(),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return qe.InitialVersion, qe.VersionConflict
			}
			return qe.InitialVersion, fmt.Errorf("insert event %d: %w", index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return qe.InitialVersion, qe.VersionConflict
		}
		return qe.InitialVersion, fmt.Errorf("commit append transaction: %w", err)
	}

	return qe.VersionFor(recorded), nil
}

func (s *EventStore) Load(ctx context.Context, id qe.AggregateId) (*qe.Aggregate, error) {
	query := fmt.Sprintf(
		`SELECT id, version, event_type, encoding, payload, created_at
		 FROM %s WHERE aggregate_id = ? ORDER BY version ASC`,
		s.table,
	)

	rows, err := s.db.QueryContext(ctx, query, id.Encode().String())
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
			createdAt string
		)

		if err := rows.Scan(&eventID, &version, &eventType, &encoding, &payload, &createdAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}

		record := qe.RecordedEvent{
			AggregateId: id,
			Version:     qe.Version(version),
			EventID:     qe.EventID(eventID),
			EventType:   qe.EventType(eventType),
			RecordedAt:  qe.Timestamp(createdAt),
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

// CreateSchema ensures the events table and its uniqueness constraint exist.
func CreateSchema(ctx context.Context, db *sql.DB, table string) error {
	if table == "" {
		table = DefaultEventsTable
	}

	schema := fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			aggregate_type TEXT NOT NULL,
			aggregate_id TEXT NOT NULL,
			version INTEGER NOT NULL,
			event_type TEXT NOT NULL,
			encoding TEXT NOT NULL,
			payload BLOB NOT NULL,
			created_at TEXT NOT NULL,
			UNIQUE (aggregate_id, version)
		)`,
		table,
	)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create events table: %w", err)
	}

	log.Debug().Str("table", table).Msg("ensured sqlite events schema")

	return nil
}

func decoder(marshaller qe.EventMarshaller, data qe.Data) func(event qe.DomainEvent) error {
	return func(event qe.DomainEvent) error {
		return marshaller.Unmarshal(data, event)
	}
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}

	code := sqliteErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT ||
		code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

var _ qe.EventStore = (*EventStore)(nil)
