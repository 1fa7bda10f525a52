package qe

import (
	"errors"
	"strings"
)

type EventID string

func (id EventID) String() string {
	return string(id)
}

type EventType string

func (et EventType) String() string {
	return string(et)
}

type Payload any

type Data struct {
	Encoding string `json:"encoding"`
	Data     []byte `json:"data"`
}

type AggregateId struct {
	Type string `json:"type"`
	Key  string `json:"key"`
}

type EncodedAggregateId string

func (id AggregateId) Encode() EncodedAggregateId {
	return EncodedAggregateId(strings.Join([]string{id.Type, id.Key}, "."))
}

func (id EncodedAggregateId) String() string {
	return string(id)
}

func (id EncodedAggregateId) Decode() (*AggregateId, error) {
	seperated := strings.Split(string(id), ".")
	if len(seperated) < 2 {
		return nil, errors.New("expected . delimiter in aggregate id")
	}

	return &AggregateId{
		Type: seperated[0],
		Key:  strings.Join(seperated[1:], "."),
	}, nil
}

type DomainEvent any

func EventTypeOf(event DomainEvent) EventType {
	return EventType(NameOf(event))
}

// RecordedEvent is one committed entry in an aggregate's history. Records
// are immutable once committed; order within an aggregate is defined by
// Version, not RecordedAt.
type RecordedEvent struct {
	AggregateId AggregateId                   `json:"aggregate"`
	Version     Version                       `json:"version"`
	EventID     EventID                       `json:"id"`
	EventType   EventType                     `json:"type"`
	RecordedAt  Timestamp                     `json:"recordedAt"`
	Data        Data                          `json:"data"`
	Decode      func(event DomainEvent) error `json:"-"`
}
