package circulation

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-go/identity"
)

// Event type identifiers.
const (
	AuthorRegisteredEventType       = "AuthorRegistered"
	AuthorRemovedEventType          = "AuthorRemoved"
	UserRegisteredEventType         = "UserRegistered"
	UserRemovedEventType            = "UserRemoved"
	BookAddedToCatalogEventType     = "BookAddedToCatalog"
	BookRemovedFromCatalogEventType = "BookRemovedFromCatalog"
	BookLentToUserEventType         = "BookLentToUser"
	BookReturnedByUserEventType     = "BookReturnedByUser"
)

// DomainEvents is a slice of DomainEvent instances.
type DomainEvents = []DomainEvent

// DomainEvent is something meaningful that happened in the catalog or in circulation.
type DomainEvent interface {
	// EventType returns the string identifier for this event type.
	EventType() string

	// HasOccurredAt returns when this event occurred.
	HasOccurredAt() time.Time
}

// OccurredAt represents when an event occurred.
type OccurredAt = time.Time

// ToOccurredAt normalizes t to UTC with microsecond precision.
func ToOccurredAt(t time.Time) OccurredAt {
	return t.UTC().Truncate(time.Microsecond)
}

// AuthorRegistered represents an author being added to the catalog.
type AuthorRegistered struct {
	AuthorID    string
	Name        string
	Nationality string
	OccurredAt  OccurredAt
}

// BuildAuthorRegistered creates a new AuthorRegistered event.
func BuildAuthorRegistered(author Author, occurredAt time.Time) AuthorRegistered {
	return AuthorRegistered{
		AuthorID:    author.ID.String(),
		Name:        author.Name,
		Nationality: author.Nationality,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

func (e AuthorRegistered) EventType() string        { return AuthorRegisteredEventType }
func (e AuthorRegistered) HasOccurredAt() time.Time { return e.OccurredAt }

// AuthorRemoved represents an author being removed from the catalog.
type AuthorRemoved struct {
	AuthorID   string
	OccurredAt OccurredAt
}

// BuildAuthorRemoved creates a new AuthorRemoved event.
func BuildAuthorRemoved(authorID identity.ID, occurredAt time.Time) AuthorRemoved {
	return AuthorRemoved{
		AuthorID:   authorID.String(),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e AuthorRemoved) EventType() string        { return AuthorRemovedEventType }
func (e AuthorRemoved) HasOccurredAt() time.Time { return e.OccurredAt }

// UserRegistered represents a patron being registered with the library.
type UserRegistered struct {
	UserID     string
	Name       string
	OccurredAt OccurredAt
}

// BuildUserRegistered creates a new UserRegistered event.
func BuildUserRegistered(user *User, occurredAt time.Time) UserRegistered {
	return UserRegistered{
		UserID:     user.ID.String(),
		Name:       user.Name,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e UserRegistered) EventType() string        { return UserRegisteredEventType }
func (e UserRegistered) HasOccurredAt() time.Time { return e.OccurredAt }

// UserRemoved represents a patron being removed from the library.
type UserRemoved struct {
	UserID     string
	OccurredAt OccurredAt
}

// BuildUserRemoved creates a new UserRemoved event.
func BuildUserRemoved(userID identity.ID, occurredAt time.Time) UserRemoved {
	return UserRemoved{
		UserID:     userID.String(),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e UserRemoved) EventType() string        { return UserRemovedEventType }
func (e UserRemoved) HasOccurredAt() time.Time { return e.OccurredAt }

// BookAddedToCatalog represents a book copy entering the catalog, either newly created or cloned into a group.
type BookAddedToCatalog struct {
	BookID     string
	GroupID    string
	AuthorID   string
	Title      string
	Year       int
	Genre      string
	OccurredAt OccurredAt
}

// BuildBookAddedToCatalog creates a new BookAddedToCatalog event.
func BuildBookAddedToCatalog(book *Book, occurredAt time.Time) BookAddedToCatalog {
	return BookAddedToCatalog{
		BookID:     book.ID().String(),
		GroupID:    book.GroupID().String(),
		AuthorID:   book.Author().ID.String(),
		Title:      book.Title(),
		Year:       book.Year(),
		Genre:      string(book.Genre()),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e BookAddedToCatalog) EventType() string        { return BookAddedToCatalogEventType }
func (e BookAddedToCatalog) HasOccurredAt() time.Time { return e.OccurredAt }

// BookRemovedFromCatalog represents a book copy leaving the catalog.
type BookRemovedFromCatalog struct {
	BookID     string
	OccurredAt OccurredAt
}

// BuildBookRemovedFromCatalog creates a new BookRemovedFromCatalog event.
func BuildBookRemovedFromCatalog(bookID identity.ID, occurredAt time.Time) BookRemovedFromCatalog {
	return BookRemovedFromCatalog{
		BookID:     bookID.String(),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e BookRemovedFromCatalog) EventType() string        { return BookRemovedFromCatalogEventType }
func (e BookRemovedFromCatalog) HasOccurredAt() time.Time { return e.OccurredAt }

// BookLentToUser represents a book copy being lent to a user.
type BookLentToUser struct {
	BookID     string
	UserID     string
	OccurredAt OccurredAt
}

// BuildBookLentToUser creates a new BookLentToUser event.
func BuildBookLentToUser(bookID, userID identity.ID, occurredAt time.Time) BookLentToUser {
	return BookLentToUser{
		BookID:     bookID.String(),
		UserID:     userID.String(),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e BookLentToUser) EventType() string        { return BookLentToUserEventType }
func (e BookLentToUser) HasOccurredAt() time.Time { return e.OccurredAt }

// BookReturnedByUser represents a book copy being returned by a user.
type BookReturnedByUser struct {
	BookID     string
	UserID     string
	OccurredAt OccurredAt
}

// BuildBookReturnedByUser creates a new BookReturnedByUser event.
func BuildBookReturnedByUser(bookID, userID identity.ID, occurredAt time.Time) BookReturnedByUser {
	return BookReturnedByUser{
		BookID:     bookID.String(),
		UserID:     userID.String(),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e BookReturnedByUser) EventType() string        { return BookReturnedByUserEventType }
func (e BookReturnedByUser) HasOccurredAt() time.Time { return e.OccurredAt }
