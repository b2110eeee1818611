package circulation

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/AntonStoeckl/library-circulation-go/identity"
)

const (
	reasonBookOnLoan = "book is already on loan"
)

// Info describes the library itself.
type Info struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

// Library is the aggregate root of the catalog and of circulation.
//
// It owns its books, authors and users: inserts store copies and queries hand out copies,
// so the borrow ledger, the users' personal lists and the books' lending flags can only
// change together through BorrowBookToUser and ReturnBookFromUser.
//
// All public methods are safe for concurrent use.
type Library struct {
	mu sync.Mutex

	id      identity.ID
	info    Info
	factory Factory

	books   registry[*Book]
	authors registry[Author]
	users   registry[*User]
	ledger  ledger

	recorder         EventRecorder
	logger           Logger
	contextualLogger ContextualLogger
	metricsCollector MetricsCollector
	tracingCollector TracingCollector
}

// NewLibrary creates an empty Library with optional configuration.
func NewLibrary(info Info, options ...Option) (*Library, error) {
	l := &Library{
		info:    info,
		books:   newRegistry[*Book](),
		authors: newRegistry[Author](),
		users:   newRegistry[*User](),
		ledger:  newLedger(),
	}

	for _, option := range options {
		if err := option(l); err != nil {
			return nil, err
		}
	}

	l.id = l.factory.nextID()

	return l, nil
}

type recordingFailure struct {
	eventType string
	err       error
}

// mutation is what a successful state change leaves behind for the observer.
type mutation struct {
	booksOnLoan int
	failures    []recordingFailure
}

// mutate runs change under the lock and hands the events it produced to the EventRecorder
// before the lock is released, so recorded order equals mutation order.
func (l *Library) mutate(ctx context.Context, change func(now OccurredAt) (DomainEvents, error)) (mutation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	events, err := change(l.factory.now())
	if err != nil {
		return mutation{}, err
	}

	result := mutation{booksOnLoan: l.ledger.totalOnLoan()}

	if l.recorder == nil {
		return result, nil
	}

	for _, event := range events {
		if recordErr := l.recorder.Record(ctx, event); recordErr != nil {
			result.failures = append(result.failures, recordingFailure{eventType: event.EventType(), err: recordErr})
		}
	}

	return result, nil
}

func (o *operationObserver) settle(m mutation) {
	for _, failure := range m.failures {
		o.recordingFailed(failure.eventType, failure.err)
	}

	o.recordBooksOnLoan(m.booksOnLoan)
}

// InsertBook adds a copy of book to the catalog.
// Later borrows and returns change the catalogued copy, never the caller's book, so read
// the current state back with Library.Book.
//
// It fails with ErrBookAlreadyExists if the id is taken and with ErrBookOnLoan if the book is borrowed,
// since a borrowed book entering the catalog would have no holder in the ledger.
func (l *Library) InsertBook(ctx context.Context, book *Book) error {
	attrs := map[string]string{}
	if book != nil {
		attrs[attrBookID] = book.ID().String()
	}

	obs, ctx := l.startOperation(ctx, operationInsertBook, attrs)

	m, err := l.mutate(ctx, func(now OccurredAt) (DomainEvents, error) {
		switch {
		case book == nil:
			return nil, ErrNilEntity
		case book.ID().IsZero():
			return nil, ErrMissingID
		case l.books.has(book.ID()):
			return nil, fmt.Errorf("%w: %s", ErrBookAlreadyExists, book.ID())
		case !book.IsAvailable():
			return nil, fmt.Errorf("%w: %s", ErrBookOnLoan, book.ID())
		}

		stored := book.clone()
		l.books.insert(stored.ID(), stored)

		return DomainEvents{BuildBookAddedToCatalog(stored, now)}, nil
	})

	if err != nil {
		return obs.finishError(err)
	}

	obs.settle(m)
	obs.finishSuccess()

	return nil
}

// InsertAuthor adds author to the catalog. It fails with ErrAuthorAlreadyExists if the id is taken.
func (l *Library) InsertAuthor(ctx context.Context, author Author) error {
	obs, ctx := l.startOperation(ctx, operationInsertAuthor, map[string]string{attrAuthorID: author.ID.String()})

	m, err := l.mutate(ctx, func(now OccurredAt) (DomainEvents, error) {
		switch {
		case author.ID.IsZero():
			return nil, ErrMissingID
		case l.authors.has(author.ID):
			return nil, fmt.Errorf("%w: %s", ErrAuthorAlreadyExists, author.ID)
		}

		l.authors.insert(author.ID, author)

		return DomainEvents{BuildAuthorRegistered(author, now)}, nil
	})

	if err != nil {
		return obs.finishError(err)
	}

	obs.settle(m)
	obs.finishSuccess()

	return nil
}

// InsertUser registers a copy of user.
// Later borrows and returns change the registered copy, never the caller's user, so read
// the current holdings back with Library.User or Library.HoldingsOf.
//
// It fails with ErrUserAlreadyExists if the id is taken and with ErrUserHasOutstandingLoans
// if the user already holds books the library never lent.
func (l *Library) InsertUser(ctx context.Context, user *User) error {
	attrs := map[string]string{}
	if user != nil {
		attrs[attrUserID] = user.ID.String()
	}

	obs, ctx := l.startOperation(ctx, operationInsertUser, attrs)

	m, err := l.mutate(ctx, func(now OccurredAt) (DomainEvents, error) {
		switch {
		case user == nil:
			return nil, ErrNilEntity
		case user.ID.IsZero():
			return nil, ErrMissingID
		case l.users.has(user.ID):
			return nil, fmt.Errorf("%w: %s", ErrUserAlreadyExists, user.ID)
		case len(user.borrowed) > 0:
			return nil, fmt.Errorf("%w: %s", ErrUserHasOutstandingLoans, user.ID)
		}

		stored := user.clone()
		l.users.insert(stored.ID, stored)

		return DomainEvents{BuildUserRegistered(stored, now)}, nil
	})

	if err != nil {
		return obs.finishError(err)
	}

	obs.settle(m)
	obs.finishSuccess()

	return nil
}

// InsertBooksByGroupID adds quantity new copies of the group, each cloned from the group's
// first catalogued book, and returns them.
//
// It fails with ErrGroupNotFound if no book carries groupID and with ErrInvalidQuantity if quantity < 1.
// Either all copies are inserted or none.
func (l *Library) InsertBooksByGroupID(ctx context.Context, groupID identity.ID, quantity int) ([]Book, error) {
	obs, ctx := l.startOperation(ctx, operationInsertBooksByGroupID, map[string]string{
		attrGroupID:  groupID.String(),
		attrQuantity: strconv.Itoa(quantity),
	})

	var inserted []Book

	m, err := l.mutate(ctx, func(now OccurredAt) (DomainEvents, error) {
		if quantity < 1 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
		}

		group := l.books.filter(func(b *Book) bool { return b.GroupID() == groupID })
		if len(group) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
		}

		copies := make([]*Book, 0, quantity)
		for range quantity {
			clone, cloneErr := l.factory.BookFrom(group[0], BookOverrides{})
			if cloneErr != nil {
				return nil, cloneErr
			}

			copies = append(copies, clone)
		}

		events := make(DomainEvents, 0, quantity)
		inserted = make([]Book, 0, quantity)

		for _, clone := range copies {
			l.books.insert(clone.ID(), clone)
			events = append(events, BuildBookAddedToCatalog(clone, now))
			inserted = append(inserted, *clone)
		}

		return events, nil
	})

	if err != nil {
		return nil, obs.finishError(err)
	}

	obs.settle(m)
	obs.finishSuccess(attrQuantity, quantity)

	return inserted, nil
}

// RemoveBookByID removes a book from the catalog. It fails with ErrBookNotFound for an unknown id
// and with ErrBookOnLoan while the book is borrowed.
func (l *Library) RemoveBookByID(ctx context.Context, bookID identity.ID) error {
	obs, ctx := l.startOperation(ctx, operationRemoveBook, map[string]string{attrBookID: bookID.String()})

	m, err := l.mutate(ctx, func(now OccurredAt) (DomainEvents, error) {
		book, ok := l.books.get(bookID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrBookNotFound, bookID)
		}

		if !book.IsAvailable() {
			return nil, fmt.Errorf("%w: %s", ErrBookOnLoan, bookID)
		}

		l.books.remove(bookID)

		return DomainEvents{BuildBookRemovedFromCatalog(bookID, now)}, nil
	})

	if err != nil {
		return obs.finishError(err)
	}

	obs.settle(m)
	obs.finishSuccess()

	return nil
}

// RemoveUserByID unregisters a user. It fails with ErrUserNotFound for an unknown id and with
// ErrUserHasOutstandingLoans while the ledger records any book for the user.
func (l *Library) RemoveUserByID(ctx context.Context, userID identity.ID) error {
	obs, ctx := l.startOperation(ctx, operationRemoveUser, map[string]string{attrUserID: userID.String()})

	m, err := l.mutate(ctx, func(now OccurredAt) (DomainEvents, error) {
		if !l.users.has(userID) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
		}

		if outstanding := l.ledger.outstanding(userID); outstanding > 0 {
			return nil, fmt.Errorf("%w: %s holds %d book(s)", ErrUserHasOutstandingLoans, userID, outstanding)
		}

		l.users.remove(userID)
		l.ledger.forget(userID)

		return DomainEvents{BuildUserRemoved(userID, now)}, nil
	})

	if err != nil {
		return obs.finishError(err)
	}

	obs.settle(m)
	obs.finishSuccess()

	return nil
}

// RemoveAuthorByID removes an author. Books by that author stay in the catalog.
func (l *Library) RemoveAuthorByID(ctx context.Context, authorID identity.ID) error {
	obs, ctx := l.startOperation(ctx, operationRemoveAuthor, map[string]string{attrAuthorID: authorID.String()})

	m, err := l.mutate(ctx, func(now OccurredAt) (DomainEvents, error) {
		if !l.authors.has(authorID) {
			return nil, fmt.Errorf("%w: %s", ErrAuthorNotFound, authorID)
		}

		l.authors.remove(authorID)

		return DomainEvents{BuildAuthorRemoved(authorID, now)}, nil
	})

	if err != nil {
		return obs.finishError(err)
	}

	obs.settle(m)
	obs.finishSuccess()

	return nil
}

// BorrowBookToUser lends a book to a user.
//
// Unknown ids fail with ErrUserNotFound or ErrBookNotFound before anything changes.
// A book that is already on loan yields false and a nil error.
// On success the book is borrowed, appended to the user's list and recorded in the ledger.
func (l *Library) BorrowBookToUser(ctx context.Context, userID, bookID identity.ID) (bool, error) {
	obs, ctx := l.startOperation(ctx, operationBorrowBook, map[string]string{
		attrUserID: userID.String(),
		attrBookID: bookID.String(),
	})

	lent := false

	m, err := l.mutate(ctx, func(now OccurredAt) (DomainEvents, error) {
		user, ok := l.users.get(userID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
		}

		book, ok := l.books.get(bookID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrBookNotFound, bookID)
		}

		if !user.BorrowBook(book) {
			return nil, nil
		}

		l.ledger.record(userID, bookID)
		lent = true

		return DomainEvents{BuildBookLentToUser(bookID, userID, now)}, nil
	})

	if err != nil {
		return false, obs.finishError(err)
	}

	if !lent {
		obs.finishIdempotent(reasonBookOnLoan)
		return false, nil
	}

	obs.settle(m)
	obs.finishSuccess()

	return true, nil
}

// ReturnBookFromUser takes a book back from a user.
//
// Unknown ids fail with ErrUserNotFound or ErrBookNotFound. A user without a ledger entry fails with
// ErrUserHasNoLoans and a user whose entry lacks the book fails with ErrUserDoesNotHoldBook.
// On success the ledger, the user's list and the book's lending flag are all released.
func (l *Library) ReturnBookFromUser(ctx context.Context, userID, bookID identity.ID) (bool, error) {
	obs, ctx := l.startOperation(ctx, operationReturnBook, map[string]string{
		attrUserID: userID.String(),
		attrBookID: bookID.String(),
	})

	m, err := l.mutate(ctx, func(now OccurredAt) (DomainEvents, error) {
		user, ok := l.users.get(userID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
		}

		book, ok := l.books.get(bookID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrBookNotFound, bookID)
		}

		if !l.ledger.hasEntry(userID) {
			return nil, fmt.Errorf("%w: %s", ErrUserHasNoLoans, userID)
		}

		if !l.ledger.holds(userID, bookID) {
			return nil, fmt.Errorf("%w: user %s, book %s", ErrUserDoesNotHoldBook, userID, bookID)
		}

		l.ledger.release(userID, bookID)
		user.ReturnBook(book)
		book.Return()

		return DomainEvents{BuildBookReturnedByUser(bookID, userID, now)}, nil
	})

	if err != nil {
		return false, obs.finishError(err)
	}

	obs.settle(m)
	obs.finishSuccess()

	return true, nil
}
