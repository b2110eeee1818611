package circulation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/identity"
	"github.com/AntonStoeckl/library-circulation-go/journal"
)

func Test_JournalRecorder_AppendsOneEntryPerSuccessfulMutation(t *testing.T) {
	// arrange
	ctx := context.Background()
	j := journal.New()
	recorder := circulation.NewJournalRecorder(j, identity.NewSequenceSupplier("msg"))
	s := givenScenario(t, circulation.WithEventRecorder(recorder))

	// act
	for range 3 {
		_, err := s.library.BorrowBookToUser(ctx, s.user.ID, s.book.ID())
		require.NoError(t, err)
	}
	_, err := s.library.ReturnBookFromUser(ctx, s.user.ID, s.book.ID())
	require.NoError(t, err)

	// assert
	filter := journal.BuildFilter().
		Matching().
		AnyEventTypeOf(circulation.BookLentToUserEventType, circulation.BookReturnedByUserEventType).
		AndAnyPredicateOf(journal.P("BookID", s.book.ID().String())).
		Finalize()

	entries, maxSeq := j.Query(filter)
	require.Len(t, entries, 2, "one lent entry for the one successful borrow, one returned entry")
	assert.Equal(t, uint(5), maxSeq)
	assert.Equal(t, 5, j.Len())

	metadata, err := circulation.EventMetadataFrom(entries[0])
	require.NoError(t, err)
	assert.Equal(t, "msg-4", metadata.MessageID)
}

func Test_DomainEventsFrom_RoundTripsEveryEventType(t *testing.T) {
	// arrange
	f := givenFactory()
	author := givenAuthor(t, f, "A", 1990)
	user := givenUser(t, f, "U")
	book := givenBook(t, f, "T", 2021, author)

	events := circulation.DomainEvents{
		circulation.BuildAuthorRegistered(author, fixedNow),
		circulation.BuildAuthorRemoved(author.ID, fixedNow),
		circulation.BuildUserRegistered(user, fixedNow),
		circulation.BuildUserRemoved(user.ID, fixedNow),
		circulation.BuildBookAddedToCatalog(book, fixedNow),
		circulation.BuildBookRemovedFromCatalog(book.ID(), fixedNow),
		circulation.BuildBookLentToUser(book.ID(), user.ID, fixedNow),
		circulation.BuildBookReturnedByUser(book.ID(), user.ID, fixedNow),
	}

	entries := make(journal.Entries, 0, len(events))
	for _, event := range events {
		entry, err := circulation.EntryFrom(event, circulation.EventMetadata{MessageID: "m"})
		require.NoError(t, err)
		entries = append(entries, entry)
	}

	// act
	mapped, err := circulation.DomainEventsFrom(entries)

	// assert
	require.NoError(t, err)
	assert.Equal(t, events, mapped)
}

func Test_DomainEventFrom_Failures(t *testing.T) {
	unknown, err := journal.BuildEntryWithEmptyMetadata("SomethingElse", fixedNow, []byte(`{}`))
	require.NoError(t, err)

	_, err = circulation.DomainEventFrom(unknown)
	assert.ErrorIs(t, err, circulation.ErrMappingToDomainEventFailed)
	assert.ErrorIs(t, err, circulation.ErrUnknownEventType)

	mistyped, err := journal.BuildEntryWithEmptyMetadata(circulation.BookLentToUserEventType, fixedNow, []byte(`{"BookID":42}`))
	require.NoError(t, err)

	_, err = circulation.DomainEventFrom(mistyped)
	assert.ErrorIs(t, err, circulation.ErrMappingToDomainEventFailed)

	_, err = circulation.DomainEventsFrom(journal.Entries{unknown})
	assert.Error(t, err)
}
