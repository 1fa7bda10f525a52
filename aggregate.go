package qe

// Aggregate is the loaded history of a single aggregate instance. Version is
// the version of the last committed event, or InitialVersion when the
// aggregate has no history.
type Aggregate struct {
	Id      AggregateId     `json:"id"`
	Events  []RecordedEvent `json:"events,omitempty"`
	Version Version         `json:"version"`
}

func VersionFor(events []RecordedEvent) Version {
	count := len(events)
	if count == 0 {
		return InitialVersion
	}

	return events[count-1].Version
}
