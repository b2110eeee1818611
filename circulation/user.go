package circulation

import (
	"slices"

	"github.com/AntonStoeckl/library-circulation-go/identity"
)

// User is a registered patron: a Person plus contact email, an identifier,
// and the personal list of book ids the user currently holds, in borrow order.
type User struct {
	ID identity.ID
	Person
	Email string

	borrowed []identity.ID
}

// BorrowBook borrows book for the user. It returns false without any change if the book is unavailable.
func (u *User) BorrowBook(book *Book) bool {
	if !book.IsAvailable() {
		return false
	}

	book.Borrow()
	u.borrowed = append(u.borrowed, book.ID())

	return true
}

// ReturnBook gives book back. It is a no-op if the user does not hold a book with that id.
func (u *User) ReturnBook(book *Book) {
	idx := slices.Index(u.borrowed, book.ID())
	if idx == -1 {
		return
	}

	u.borrowed = slices.Delete(u.borrowed, idx, idx+1)
	book.Return()
}

// ListBorrowedBooks returns a snapshot of the held book ids in borrow order.
func (u *User) ListBorrowedBooks() []identity.ID {
	return slices.Clone(u.borrowed)
}

// clone returns a deep copy so that callers and the Library never share the personal list.
func (u *User) clone() *User {
	c := *u
	c.borrowed = slices.Clone(u.borrowed)

	return &c
}
