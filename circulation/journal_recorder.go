package circulation

import (
	"context"
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-circulation-go/identity"
	"github.com/AntonStoeckl/library-circulation-go/journal"
)

var (
	// ErrMappingToEntryFailed is returned when a DomainEvent cannot be serialized for the journal.
	ErrMappingToEntryFailed = errors.New("mapping domain event to journal entry failed")

	// ErrMappingToDomainEventFailed is returned when a journal entry cannot be mapped back to a DomainEvent.
	ErrMappingToDomainEventFailed = errors.New("mapping journal entry to domain event failed")

	// ErrUnknownEventType is returned for journal entries of a type this package does not know.
	ErrUnknownEventType = errors.New("unknown event type")
)

// EventMetadata travels alongside every journaled event.
type EventMetadata struct {
	MessageID string
}

// JournalRecorder is an EventRecorder that appends every DomainEvent to a journal.Journal.
type JournalRecorder struct {
	journal    *journal.Journal
	messageIDs identity.Supplier
}

// NewJournalRecorder creates a JournalRecorder. A nil supplier falls back to identity.Default.
func NewJournalRecorder(j *journal.Journal, messageIDs identity.Supplier) *JournalRecorder {
	if messageIDs == nil {
		messageIDs = identity.Default
	}

	return &JournalRecorder{journal: j, messageIDs: messageIDs}
}

// Record serializes event and appends it to the journal.
func (r *JournalRecorder) Record(_ context.Context, event DomainEvent) error {
	entry, err := EntryFrom(event, EventMetadata{MessageID: r.messageIDs.NextID().String()})
	if err != nil {
		return err
	}

	r.journal.Append(entry)

	return nil
}

// EntryFrom converts a DomainEvent and its metadata to a journal.Entry.
func EntryFrom(event DomainEvent, metadata EventMetadata) (journal.Entry, error) {
	payloadJSON, err := jsoniter.ConfigFastest.Marshal(event)
	if err != nil {
		return journal.Entry{}, errors.Join(ErrMappingToEntryFailed, err)
	}

	metadataJSON, err := jsoniter.ConfigFastest.Marshal(metadata)
	if err != nil {
		return journal.Entry{}, errors.Join(ErrMappingToEntryFailed, err)
	}

	entry, err := journal.BuildEntry(event.EventType(), event.HasOccurredAt(), payloadJSON, metadataJSON)
	if err != nil {
		return journal.Entry{}, errors.Join(ErrMappingToEntryFailed, err)
	}

	return entry, nil
}

// EventMetadataFrom extracts the EventMetadata of a journal entry.
func EventMetadataFrom(entry journal.Entry) (EventMetadata, error) {
	metadata := new(EventMetadata)
	if err := jsoniter.ConfigFastest.Unmarshal(entry.MetadataJSON, metadata); err != nil {
		return EventMetadata{}, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return *metadata, nil
}

// DomainEventsFrom maps journal entries back to DomainEvents, keeping their order.
func DomainEventsFrom(entries journal.Entries) (DomainEvents, error) {
	domainEvents := make(DomainEvents, 0, len(entries))

	for _, entry := range entries {
		domainEvent, err := DomainEventFrom(entry)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

// DomainEventFrom maps one journal entry back to its DomainEvent.
func DomainEventFrom(entry journal.Entry) (DomainEvent, error) {
	switch entry.EventType {
	case AuthorRegisteredEventType:
		return unmarshalEvent[AuthorRegistered](entry)
	case AuthorRemovedEventType:
		return unmarshalEvent[AuthorRemoved](entry)
	case UserRegisteredEventType:
		return unmarshalEvent[UserRegistered](entry)
	case UserRemovedEventType:
		return unmarshalEvent[UserRemoved](entry)
	case BookAddedToCatalogEventType:
		return unmarshalEvent[BookAddedToCatalog](entry)
	case BookRemovedFromCatalogEventType:
		return unmarshalEvent[BookRemovedFromCatalog](entry)
	case BookLentToUserEventType:
		return unmarshalEvent[BookLentToUser](entry)
	case BookReturnedByUserEventType:
		return unmarshalEvent[BookReturnedByUser](entry)
	default:
		return nil, errors.Join(ErrMappingToDomainEventFailed, fmt.Errorf("%w: %q", ErrUnknownEventType, entry.EventType))
	}
}

func unmarshalEvent[T DomainEvent](entry journal.Entry) (DomainEvent, error) {
	payload := new(T)

	if err := jsoniter.ConfigFastest.Unmarshal(entry.PayloadJSON, payload); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return *payload, nil
}
