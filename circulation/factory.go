package circulation

import (
	"fmt"
	"strings"
	"time"

	"github.com/AntonStoeckl/library-circulation-go/identity"
)

// Factory validates and identifies new entities.
// The zero value is usable: it falls back to identity.Default and time.Now.
type Factory struct {
	IDs identity.Supplier
	Now func() time.Time
}

var defaultFactory = Factory{}

// NewAuthor creates an Author with the default Factory.
func NewAuthor(person Person, email string) (Author, error) {
	return defaultFactory.NewAuthor(person, email)
}

// NewUser creates a User with the default Factory.
func NewUser(person Person, email string) (*User, error) {
	return defaultFactory.NewUser(person, email)
}

// NewBook creates a Book with the default Factory.
func NewBook(props BookProps) (*Book, error) {
	return defaultFactory.NewBook(props)
}

// BookFrom clones source with the default Factory.
func BookFrom(source *Book, overrides BookOverrides) (*Book, error) {
	return defaultFactory.BookFrom(source, overrides)
}

// NewAuthor validates person and returns a freshly identified Author.
func (f Factory) NewAuthor(person Person, email string) (Author, error) {
	if err := ValidatePerson(person, f.now()); err != nil {
		return Author{}, fmt.Errorf("new author: %w", err)
	}

	return Author{
		ID:     f.nextID(),
		Person: person,
		Email:  email,
	}, nil
}

// NewUser validates person and returns a freshly identified User holding no books.
func (f Factory) NewUser(person Person, email string) (*User, error) {
	if err := ValidatePerson(person, f.now()); err != nil {
		return nil, fmt.Errorf("new user: %w", err)
	}

	return &User{
		ID:     f.nextID(),
		Person: person,
		Email:  email,
	}, nil
}

// NewBook validates props and returns a freshly identified, available Book.
//
// The publication year must not be before the author's birth year nor after the current year.
// A zero GroupID starts a new group.
func (f Factory) NewBook(props BookProps) (*Book, error) {
	if err := f.validateBook(props); err != nil {
		return nil, fmt.Errorf("new book: %w", err)
	}

	groupID := props.GroupID
	if groupID.IsZero() {
		groupID = f.nextID()
	}

	return &Book{
		id:      f.nextID(),
		title:   props.Title,
		year:    props.Year,
		genre:   props.Genre,
		author:  props.Author,
		groupID: groupID,
	}, nil
}

// BookFrom creates a new copy of source: fresh id, descriptive fields taken from source unless overridden,
// available and with zero popularity. Lending state and popularity are never copied.
func (f Factory) BookFrom(source *Book, overrides BookOverrides) (*Book, error) {
	if source == nil {
		return nil, fmt.Errorf("book from: %w", ErrNilEntity)
	}

	return f.NewBook(overrides.applyTo(source.props()))
}

func (f Factory) validateBook(props BookProps) error {
	if strings.TrimSpace(props.Title) == "" {
		return ErrEmptyTitle
	}

	if !props.Genre.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownGenre, props.Genre)
	}

	if props.Year < props.Author.BirthDate.UTC().Year() {
		return fmt.Errorf("%w: %d < %d", ErrPublishedBeforeAuthorBirth, props.Year, props.Author.BirthDate.UTC().Year())
	}

	if currentYear := f.now().UTC().Year(); props.Year > currentYear {
		return fmt.Errorf("%w: %d > %d", ErrPublishedInFuture, props.Year, currentYear)
	}

	return nil
}

func (f Factory) nextID() identity.ID {
	if f.IDs == nil {
		return identity.Default.NextID()
	}

	return f.IDs.NextID()
}

func (f Factory) now() time.Time {
	if f.Now == nil {
		return time.Now()
	}

	return f.Now()
}
