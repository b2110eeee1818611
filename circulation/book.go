package circulation

import (
	"github.com/AntonStoeckl/library-circulation-go/identity"
)

// Book is a catalog item with a two-state lending machine (available, borrowed) and a popularity counter.
//
// Descriptive fields are fixed at construction. Only Borrow and Return change a Book.
type Book struct {
	id         identity.ID
	title      string
	year       int
	genre      Genre
	author     Author
	groupID    identity.ID
	borrowed   bool
	popularity int
}

// BookProps carries the descriptive fields for a new Book. A zero GroupID starts a new group.
type BookProps struct {
	Title   string
	Year    int
	Genre   Genre
	Author  Author
	GroupID identity.ID
}

// BookOverrides replaces descriptive fields when cloning a Book. Zero values keep the source's value.
type BookOverrides struct {
	Title   string
	Year    int
	Genre   Genre
	Author  *Author
	GroupID identity.ID
}

func (b *Book) ID() identity.ID      { return b.id }
func (b *Book) Title() string        { return b.title }
func (b *Book) Year() int            { return b.year }
func (b *Book) Genre() Genre         { return b.genre }
func (b *Book) Author() Author       { return b.author }
func (b *Book) GroupID() identity.ID { return b.groupID }

// IsAvailable reports whether the book is currently not borrowed.
func (b *Book) IsAvailable() bool {
	return !b.borrowed
}

// PopularityScore is the number of successful borrows. It never decreases.
func (b *Book) PopularityScore() int {
	return b.popularity
}

// Borrow moves an available book to borrowed and counts the borrow.
// It is a no-op returning false if the book is already borrowed.
func (b *Book) Borrow() bool {
	if b.borrowed {
		return false
	}

	b.borrowed = true
	b.popularity++

	return true
}

// Return moves a borrowed book back to available.
// It is a no-op returning false if the book is already available.
func (b *Book) Return() bool {
	if !b.borrowed {
		return false
	}

	b.borrowed = false

	return true
}

func (b *Book) props() BookProps {
	return BookProps{
		Title:   b.title,
		Year:    b.year,
		Genre:   b.genre,
		Author:  b.author,
		GroupID: b.groupID,
	}
}

func (o BookOverrides) applyTo(props BookProps) BookProps {
	if o.Title != "" {
		props.Title = o.Title
	}

	if o.Year != 0 {
		props.Year = o.Year
	}

	if o.Genre != "" {
		props.Genre = o.Genre
	}

	if o.Author != nil {
		props.Author = *o.Author
	}

	if !o.GroupID.IsZero() {
		props.GroupID = o.GroupID
	}

	return props
}

func (b *Book) clone() *Book {
	c := *b

	return &c
}
