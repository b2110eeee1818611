package journal

import (
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var (
	// ErrEmptyEventType is returned when an Entry is built without an event type.
	ErrEmptyEventType = errors.New("event type must not be empty")

	// ErrInvalidPayloadJSON is returned when the payload is not valid JSON.
	ErrInvalidPayloadJSON = errors.New("payload json is not valid")

	// ErrInvalidMetadataJSON is returned when the metadata is not valid JSON.
	ErrInvalidMetadataJSON = errors.New("metadata json is not valid")
)

// Entries is an alias type for a slice of Entry.
type Entries = []Entry

// Entry is a DTO (data transfer object) the Journal appends and hands back from queries.
//
// It is built on scalars so the journal stays agnostic of how its clients model their events.
// It should only be constructed with BuildEntry or BuildEntryWithEmptyMetadata.
// SequenceNumber is zero until the Journal has appended the entry.
type Entry struct {
	SequenceNumber MaxSequenceNumberUint
	EventType      string
	OccurredAt     time.Time
	PayloadJSON    []byte
	MetadataJSON   []byte
}

// BuildEntry validates its scalar input and returns an unsequenced Entry.
func BuildEntry(eventType string, occurredAt time.Time, payloadJSON []byte, metadataJSON []byte) (Entry, error) {
	if eventType == "" {
		return Entry{}, ErrEmptyEventType
	}

	if !jsoniter.ConfigFastest.Valid(payloadJSON) {
		return Entry{}, ErrInvalidPayloadJSON
	}

	if !jsoniter.ConfigFastest.Valid(metadataJSON) {
		return Entry{}, ErrInvalidMetadataJSON
	}

	return Entry{
		EventType:    eventType,
		OccurredAt:   occurredAt,
		PayloadJSON:  payloadJSON,
		MetadataJSON: metadataJSON,
	}, nil
}

// BuildEntryWithEmptyMetadata is BuildEntry with "{}" as metadata.
func BuildEntryWithEmptyMetadata(eventType string, occurredAt time.Time, payloadJSON []byte) (Entry, error) {
	return BuildEntry(eventType, occurredAt, payloadJSON, []byte("{}"))
}
