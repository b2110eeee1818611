package circulation

import (
	"errors"
	"fmt"
	"slices"

	"github.com/AntonStoeckl/library-circulation-go/identity"
)

// ID returns the library's own identifier.
func (l *Library) ID() identity.ID {
	return l.id
}

// Info returns the library's descriptive data.
func (l *Library) Info() Info {
	return l.info
}

// ListBooks returns a snapshot of all catalogued books in insertion order.
func (l *Library) ListBooks() []Book {
	return l.selectBooks(func(*Book) bool { return true })
}

// ListBorrowedBooks returns the books currently on loan.
func (l *Library) ListBorrowedBooks() []Book {
	return l.selectBooks(func(b *Book) bool { return !b.IsAvailable() })
}

// ListAvailableBooks returns the books currently on the shelf.
func (l *Library) ListAvailableBooks() []Book {
	return l.selectBooks(func(b *Book) bool { return b.IsAvailable() })
}

// ListBooksByGenre returns the books of the given genre.
func (l *Library) ListBooksByGenre(genre Genre) []Book {
	return l.selectBooks(func(b *Book) bool { return b.Genre() == genre })
}

// ListBooksByReleaseYear returns the books published in year.
func (l *Library) ListBooksByReleaseYear(year int) []Book {
	return l.selectBooks(func(b *Book) bool { return b.Year() == year })
}

// ListBooksByAuthorsName returns the books whose author has exactly this name.
// An unknown name yields an empty result, not an error.
func (l *Library) ListBooksByAuthorsName(name string) []Book {
	return l.selectBooks(func(b *Book) bool { return b.Author().Name == name })
}

// ListBooksByGroupID returns all copies sharing groupID.
func (l *Library) ListBooksByGroupID(groupID identity.ID) []Book {
	return l.selectBooks(func(b *Book) bool { return b.GroupID() == groupID })
}

// ListBooksByAuthorID returns the books written by a registered author.
// It fails with ErrAuthorNotFound if authorID is not registered.
func (l *Library) ListBooksByAuthorID(authorID identity.ID) ([]Book, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.authors.has(authorID) {
		return nil, fmt.Errorf("%w: %s", ErrAuthorNotFound, authorID)
	}

	return copyBooks(l.books.filter(func(b *Book) bool { return b.Author().ID == authorID })), nil
}

// ListAuthors returns a snapshot of all registered authors in insertion order.
func (l *Library) ListAuthors() []Author {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.authors.all()
}

// ListUsers returns a snapshot of all registered users in insertion order.
func (l *Library) ListUsers() []User {
	l.mu.Lock()
	defer l.mu.Unlock()

	stored := l.users.all()
	users := make([]User, 0, len(stored))

	for _, user := range stored {
		users = append(users, *user.clone())
	}

	return users
}

// Book returns a snapshot of one book.
func (l *Library) Book(bookID identity.ID) (Book, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	book, ok := l.books.get(bookID)
	if !ok {
		return Book{}, fmt.Errorf("%w: %s", ErrBookNotFound, bookID)
	}

	return *book, nil
}

// User returns a snapshot of one user.
func (l *Library) User(userID identity.ID) (User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	user, ok := l.users.get(userID)
	if !ok {
		return User{}, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}

	return *user.clone(), nil
}

// Author returns one registered author.
func (l *Library) Author(authorID identity.ID) (Author, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	author, ok := l.authors.get(authorID)
	if !ok {
		return Author{}, fmt.Errorf("%w: %s", ErrAuthorNotFound, authorID)
	}

	return author, nil
}

// HoldingsOf returns the book ids the ledger records for userID, in borrow order.
// It fails with ErrUserNotFound for an unknown user.
func (l *Library) HoldingsOf(userID identity.ID) ([]identity.ID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.users.has(userID) {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}

	return l.ledger.holdingsOf(userID), nil
}

// CheckConsistency audits that a book is borrowed exactly when the ledger names a holder
// and that every user's personal list matches the user's ledger entry.
// Each violation is reported as an ErrInconsistentState, joined into one error.
func (l *Library) CheckConsistency() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var violations []error

	for _, book := range l.books.all() {
		_, held := l.ledger.holderOf(book.ID())

		if held == book.IsAvailable() {
			violations = append(violations, fmt.Errorf(
				"%w: book %s available=%t but held=%t", ErrInconsistentState, book.ID(), book.IsAvailable(), held,
			))
		}
	}

	for _, user := range l.users.all() {
		if !slices.Equal(user.borrowed, l.ledger.holdings[user.ID]) {
			violations = append(violations, fmt.Errorf(
				"%w: user %s lists %v but ledger records %v", ErrInconsistentState, user.ID, user.borrowed, l.ledger.holdings[user.ID],
			))
		}
	}

	for userID, books := range l.ledger.holdings {
		if !l.users.has(userID) {
			violations = append(violations, fmt.Errorf("%w: ledger entry for unknown user %s", ErrInconsistentState, userID))
		}

		for _, bookID := range books {
			if !l.books.has(bookID) {
				violations = append(violations, fmt.Errorf("%w: ledger holds unknown book %s", ErrInconsistentState, bookID))
			}
		}
	}

	return errors.Join(violations...)
}

func (l *Library) selectBooks(predicate func(*Book) bool) []Book {
	l.mu.Lock()
	defer l.mu.Unlock()

	return copyBooks(l.books.filter(predicate))
}

func copyBooks(books []*Book) []Book {
	copies := make([]Book, 0, len(books))

	for _, book := range books {
		copies = append(copies, *book)
	}

	return copies
}
