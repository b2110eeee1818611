package circulation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-circulation-go/identity"
)

func Test_User_BorrowBook(t *testing.T) {
	// arrange
	f := givenFactory()
	author := givenAuthor(t, f, "A", 1990)
	first := givenBook(t, f, "First", 2020, author)
	second := givenBook(t, f, "Second", 2021, author)
	user := givenUser(t, f, "U")

	// act
	okFirst := user.BorrowBook(first)
	okSecond := user.BorrowBook(second)

	// assert
	assert.True(t, okFirst)
	assert.True(t, okSecond)
	assert.False(t, first.IsAvailable())
	assert.Equal(t, []identity.ID{first.ID(), second.ID()}, user.ListBorrowedBooks(), "borrow order is kept")
}

func Test_User_BorrowBook_UnavailableBookChangesNothing(t *testing.T) {
	// arrange
	f := givenFactory()
	book := givenBook(t, f, "T", 2021, givenAuthor(t, f, "A", 1990))
	holder := givenUser(t, f, "Holder")
	other := givenUser(t, f, "Other")
	holder.BorrowBook(book)

	// act
	ok := other.BorrowBook(book)

	// assert
	assert.False(t, ok)
	assert.Empty(t, other.ListBorrowedBooks())
	assert.Equal(t, 1, book.PopularityScore())
}

func Test_User_ReturnBook(t *testing.T) {
	// arrange
	f := givenFactory()
	book := givenBook(t, f, "T", 2021, givenAuthor(t, f, "A", 1990))
	user := givenUser(t, f, "U")
	user.BorrowBook(book)

	// act
	user.ReturnBook(book)

	// assert
	assert.True(t, book.IsAvailable())
	assert.Empty(t, user.ListBorrowedBooks())
}

func Test_User_ReturnBook_NotHeldIsNoop(t *testing.T) {
	// arrange
	f := givenFactory()
	book := givenBook(t, f, "T", 2021, givenAuthor(t, f, "A", 1990))
	holder := givenUser(t, f, "Holder")
	other := givenUser(t, f, "Other")
	holder.BorrowBook(book)

	// act
	other.ReturnBook(book)

	// assert
	assert.False(t, book.IsAvailable(), "only the holder can return the book")
	assert.Equal(t, []identity.ID{book.ID()}, holder.ListBorrowedBooks())
}

func Test_User_ListBorrowedBooks_IsSnapshot(t *testing.T) {
	f := givenFactory()
	book := givenBook(t, f, "T", 2021, givenAuthor(t, f, "A", 1990))
	user := givenUser(t, f, "U")
	user.BorrowBook(book)

	snapshot := user.ListBorrowedBooks()
	snapshot[0] = "tampered"

	assert.Equal(t, []identity.ID{book.ID()}, user.ListBorrowedBooks())
}
