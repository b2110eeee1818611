package circulation_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/identity"
)

func Test_NewLibrary(t *testing.T) {
	library := givenLibrary(t)

	assert.Equal(t, "library-1", library.ID().String())
	assert.Equal(t, "City Library", library.Info().Name)
	assert.Empty(t, library.ListBooks())
	assert.Empty(t, library.ListUsers())
	assert.Empty(t, library.ListAuthors())
}

func Test_NewLibrary_RejectsNilOptions(t *testing.T) {
	options := []circulation.Option{
		circulation.WithLogger(nil),
		circulation.WithContextualLogger(nil),
		circulation.WithMetrics(nil),
		circulation.WithTracing(nil),
		circulation.WithIDSupplier(nil),
		circulation.WithClock(nil),
		circulation.WithEventRecorder(nil),
	}

	for _, option := range options {
		library, err := circulation.NewLibrary(circulation.Info{}, option)

		assert.ErrorIs(t, err, circulation.ErrNilOption)
		assert.Nil(t, library)
	}
}

func Test_Library_InsertedEntitiesAreCopies(t *testing.T) {
	// arrange
	ctx := context.Background()
	s := givenScenario(t)

	// act
	_, err := s.library.BorrowBookToUser(ctx, s.user.ID, s.book.ID())
	require.NoError(t, err)

	// assert
	assert.True(t, s.book.IsAvailable(), "the caller's book is not the catalogued copy")
	assert.Empty(t, s.user.ListBorrowedBooks(), "the caller's user is not the registered copy")

	book, err := s.library.Book(s.book.ID())
	require.NoError(t, err)
	assert.False(t, book.IsAvailable())

	user, err := s.library.User(s.user.ID)
	require.NoError(t, err)
	assert.Equal(t, []identity.ID{s.book.ID()}, user.ListBorrowedBooks())
}

func Test_Library_Scenario_BorrowAndReturn(t *testing.T) {
	// arrange
	ctx := context.Background()
	s := givenScenario(t)

	// act
	lent, err := s.library.BorrowBookToUser(ctx, s.user.ID, s.book.ID())

	// assert
	require.NoError(t, err)
	assert.True(t, lent)

	book, err := s.library.Book(s.book.ID())
	require.NoError(t, err)
	assert.False(t, book.IsAvailable())
	assert.Equal(t, 1, book.PopularityScore())

	// act
	returned, err := s.library.ReturnBookFromUser(ctx, s.user.ID, s.book.ID())

	// assert
	require.NoError(t, err)
	assert.True(t, returned)

	book, err = s.library.Book(s.book.ID())
	require.NoError(t, err)
	assert.True(t, book.IsAvailable(), "returning through the library releases the book")

	user, err := s.library.User(s.user.ID)
	require.NoError(t, err)
	assert.Empty(t, user.ListBorrowedBooks(), "returning through the library releases the user's list")

	// act
	returned, err = s.library.ReturnBookFromUser(ctx, s.user.ID, s.book.ID())

	// assert
	assert.ErrorIs(t, err, circulation.ErrUserDoesNotHoldBook)
	assert.False(t, returned)
	assert.NoError(t, s.library.CheckConsistency())
}

func Test_Library_Scenario_InsertBooksByGroupID(t *testing.T) {
	// arrange
	ctx := context.Background()
	s := givenScenario(t)

	// act
	copies, err := s.library.InsertBooksByGroupID(ctx, s.book.GroupID(), 3)

	// assert
	require.NoError(t, err)
	require.Len(t, copies, 3)

	seen := map[identity.ID]bool{s.book.ID(): true}
	for _, c := range copies {
		assert.False(t, seen[c.ID()], "every copy has a distinct identifier")
		seen[c.ID()] = true

		assert.Equal(t, s.book.GroupID(), c.GroupID())
		assert.True(t, c.IsAvailable())
		assert.Zero(t, c.PopularityScore())
		assert.Equal(t, s.book.Title(), c.Title())
	}

	assert.Len(t, s.library.ListBooksByGroupID(s.book.GroupID()), 4)
}

func Test_Library_InsertBooksByGroupID_ClonesFromFirstBookOfGroup(t *testing.T) {
	// arrange
	ctx := context.Background()
	s := givenScenario(t)
	f := givenFactory()

	second, err := f.NewBook(circulation.BookProps{
		Title: "T (reprint)", Year: 2024, Genre: circulation.GenreHorror, Author: s.author, GroupID: s.book.GroupID(),
	})
	require.NoError(t, err)
	require.NoError(t, s.library.InsertBook(ctx, second))

	_, err = s.library.BorrowBookToUser(ctx, s.user.ID, s.book.ID())
	require.NoError(t, err)

	// act
	copies, err := s.library.InsertBooksByGroupID(ctx, s.book.GroupID(), 1)

	// assert
	require.NoError(t, err)
	require.Len(t, copies, 1)
	assert.Equal(t, "T", copies[0].Title())
	assert.Equal(t, 2021, copies[0].Year())
	assert.True(t, copies[0].IsAvailable(), "the source's lending state is never copied")
}

func Test_Library_InsertBooksByGroupID_Failures(t *testing.T) {
	ctx := context.Background()
	s := givenScenario(t)

	_, err := s.library.InsertBooksByGroupID(ctx, "unknown-group", 2)
	assert.ErrorIs(t, err, circulation.ErrGroupNotFound)
	assert.ErrorIs(t, err, circulation.ErrNotFound)

	_, err = s.library.InsertBooksByGroupID(ctx, s.book.GroupID(), 0)
	assert.ErrorIs(t, err, circulation.ErrInvalidQuantity)

	assert.Len(t, s.library.ListBooks(), 1, "failed inserts add nothing")
}

func Test_Library_InsertTwice_FailsWithDuplicate(t *testing.T) {
	// arrange
	ctx := context.Background()
	s := givenScenario(t)

	// act
	bookErr := s.library.InsertBook(ctx, s.book)
	authorErr := s.library.InsertAuthor(ctx, s.author)
	userErr := s.library.InsertUser(ctx, s.user)

	// assert
	assert.ErrorIs(t, bookErr, circulation.ErrBookAlreadyExists)
	assert.ErrorIs(t, authorErr, circulation.ErrAuthorAlreadyExists)
	assert.ErrorIs(t, userErr, circulation.ErrUserAlreadyExists)

	for _, err := range []error{bookErr, authorErr, userErr} {
		assert.ErrorIs(t, err, circulation.ErrDuplicate)
	}

	assert.Len(t, s.library.ListBooks(), 1)
	assert.Len(t, s.library.ListAuthors(), 1)
	assert.Len(t, s.library.ListUsers(), 1)
}

func Test_Library_Insert_RejectsInvalidEntities(t *testing.T) {
	ctx := context.Background()
	f := givenFactory()
	library := givenLibrary(t)

	assert.ErrorIs(t, library.InsertBook(ctx, nil), circulation.ErrNilEntity)
	assert.ErrorIs(t, library.InsertUser(ctx, nil), circulation.ErrNilEntity)
	assert.ErrorIs(t, library.InsertAuthor(ctx, circulation.Author{}), circulation.ErrMissingID)

	borrowed := givenBook(t, f, "T", 2021, givenAuthor(t, f, "A", 1990))
	holder := givenUser(t, f, "Holder")
	holder.BorrowBook(borrowed)

	assert.ErrorIs(t, library.InsertBook(ctx, borrowed), circulation.ErrBookOnLoan)
	assert.ErrorIs(t, library.InsertUser(ctx, holder), circulation.ErrUserHasOutstandingLoans)
	assert.Empty(t, library.ListBooks())
	assert.Empty(t, library.ListUsers())
}

func Test_Library_Insert_StoresCopies(t *testing.T) {
	// arrange
	ctx := context.Background()
	s := givenScenario(t)

	// act
	s.user.BorrowBook(s.book)

	// assert
	book, err := s.library.Book(s.book.ID())
	require.NoError(t, err)
	assert.True(t, book.IsAvailable(), "the caller's pointer does not reach the catalogued book")

	lent, err := s.library.BorrowBookToUser(ctx, s.user.ID, s.book.ID())
	require.NoError(t, err)
	assert.True(t, lent)

	assert.NoError(t, s.library.CheckConsistency())
}

func Test_Library_Queries_HandOutCopies(t *testing.T) {
	s := givenScenario(t)

	books := s.library.ListBooks()
	require.Len(t, books, 1)
	books[0].Borrow()

	users := s.library.ListUsers()
	require.Len(t, users, 1)

	assert.Len(t, s.library.ListAvailableBooks(), 1)
	assert.Empty(t, s.library.ListBorrowedBooks())
	assert.NoError(t, s.library.CheckConsistency())
}

func Test_Library_RemoveNonexistent_FailsWithNotFound(t *testing.T) {
	ctx := context.Background()
	library := givenLibrary(t)

	assert.ErrorIs(t, library.RemoveBookByID(ctx, "missing"), circulation.ErrBookNotFound)
	assert.ErrorIs(t, library.RemoveUserByID(ctx, "missing"), circulation.ErrUserNotFound)
	assert.ErrorIs(t, library.RemoveAuthorByID(ctx, "missing"), circulation.ErrAuthorNotFound)

	for _, err := range []error{
		library.RemoveBookByID(ctx, "missing"),
		library.RemoveUserByID(ctx, "missing"),
		library.RemoveAuthorByID(ctx, "missing"),
	} {
		assert.ErrorIs(t, err, circulation.ErrNotFound)
	}
}

func Test_Library_RemoveBook_OnLoanFailsUntilReturned(t *testing.T) {
	// arrange
	ctx := context.Background()
	s := givenScenario(t)
	_, err := s.library.BorrowBookToUser(ctx, s.user.ID, s.book.ID())
	require.NoError(t, err)

	// act
	err = s.library.RemoveBookByID(ctx, s.book.ID())

	// assert
	assert.ErrorIs(t, err, circulation.ErrBookOnLoan)
	assert.ErrorIs(t, err, circulation.ErrStateConflict)
	assert.Len(t, s.library.ListBooks(), 1)

	// act
	_, err = s.library.ReturnBookFromUser(ctx, s.user.ID, s.book.ID())
	require.NoError(t, err)
	err = s.library.RemoveBookByID(ctx, s.book.ID())

	// assert
	assert.NoError(t, err)
	assert.Empty(t, s.library.ListBooks())
}

func Test_Library_RemoveUser_WithLoansFailsUntilFullReturn(t *testing.T) {
	// arrange
	ctx := context.Background()
	s := givenScenario(t)
	copies, err := s.library.InsertBooksByGroupID(ctx, s.book.GroupID(), 1)
	require.NoError(t, err)

	_, err = s.library.BorrowBookToUser(ctx, s.user.ID, s.book.ID())
	require.NoError(t, err)
	_, err = s.library.BorrowBookToUser(ctx, s.user.ID, copies[0].ID())
	require.NoError(t, err)

	// act & assert
	assert.ErrorIs(t, s.library.RemoveUserByID(ctx, s.user.ID), circulation.ErrUserHasOutstandingLoans)

	_, err = s.library.ReturnBookFromUser(ctx, s.user.ID, s.book.ID())
	require.NoError(t, err)
	assert.ErrorIs(t, s.library.RemoveUserByID(ctx, s.user.ID), circulation.ErrUserHasOutstandingLoans)

	_, err = s.library.ReturnBookFromUser(ctx, s.user.ID, copies[0].ID())
	require.NoError(t, err)
	assert.NoError(t, s.library.RemoveUserByID(ctx, s.user.ID))

	assert.Empty(t, s.library.ListUsers())
	assert.NoError(t, s.library.CheckConsistency())
}

func Test_Library_RemoveUser_ReRegisteredUserStartsWithoutLedgerEntry(t *testing.T) {
	// arrange
	ctx := context.Background()
	s := givenScenario(t)
	_, err := s.library.BorrowBookToUser(ctx, s.user.ID, s.book.ID())
	require.NoError(t, err)
	_, err = s.library.ReturnBookFromUser(ctx, s.user.ID, s.book.ID())
	require.NoError(t, err)
	require.NoError(t, s.library.RemoveUserByID(ctx, s.user.ID))

	// act
	require.NoError(t, s.library.InsertUser(ctx, s.user))
	_, err = s.library.ReturnBookFromUser(ctx, s.user.ID, s.book.ID())

	// assert
	assert.ErrorIs(t, err, circulation.ErrUserHasNoLoans)
}

func Test_Library_RemoveAuthor_KeepsBooks(t *testing.T) {
	ctx := context.Background()
	s := givenScenario(t)

	require.NoError(t, s.library.RemoveAuthorByID(ctx, s.author.ID))

	assert.Empty(t, s.library.ListAuthors())
	assert.Len(t, s.library.ListBooksByAuthorsName("A"), 1)

	_, err := s.library.ListBooksByAuthorID(s.author.ID)
	assert.ErrorIs(t, err, circulation.ErrAuthorNotFound)
}

func Test_Library_Borrow_UnknownIDsFailBeforeMutation(t *testing.T) {
	// arrange
	ctx := context.Background()
	s := givenScenario(t)

	// act
	lentToNobody, userErr := s.library.BorrowBookToUser(ctx, "missing", s.book.ID())
	lentNothing, bookErr := s.library.BorrowBookToUser(ctx, s.user.ID, "missing")

	// assert
	assert.ErrorIs(t, userErr, circulation.ErrUserNotFound)
	assert.ErrorIs(t, bookErr, circulation.ErrBookNotFound)
	assert.False(t, lentToNobody)
	assert.False(t, lentNothing)

	book, err := s.library.Book(s.book.ID())
	require.NoError(t, err)
	assert.True(t, book.IsAvailable())
	assert.Zero(t, book.PopularityScore())

	holdings, err := s.library.HoldingsOf(s.user.ID)
	require.NoError(t, err)
	assert.Empty(t, holdings)
}

func Test_Library_Borrow_AlreadyBorrowedReturnsFalseWithoutTouchingLedger(t *testing.T) {
	// arrange
	ctx := context.Background()
	s := givenScenario(t)
	other := givenUser(t, givenFactory(), "Other")
	other.ID = "other-user"
	require.NoError(t, s.library.InsertUser(ctx, other))

	_, err := s.library.BorrowBookToUser(ctx, s.user.ID, s.book.ID())
	require.NoError(t, err)

	// act
	lent, err := s.library.BorrowBookToUser(ctx, other.ID, s.book.ID())
	again, againErr := s.library.BorrowBookToUser(ctx, s.user.ID, s.book.ID())

	// assert
	require.NoError(t, err)
	require.NoError(t, againErr)
	assert.False(t, lent)
	assert.False(t, again)

	holdings, err := s.library.HoldingsOf(other.ID)
	require.NoError(t, err)
	assert.Empty(t, holdings)

	holdings, err = s.library.HoldingsOf(s.user.ID)
	require.NoError(t, err)
	assert.Equal(t, []identity.ID{s.book.ID()}, holdings)

	book, err := s.library.Book(s.book.ID())
	require.NoError(t, err)
	assert.Equal(t, 1, book.PopularityScore())
}

func Test_Library_Return_Failures(t *testing.T) {
	ctx := context.Background()
	s := givenScenario(t)

	_, err := s.library.ReturnBookFromUser(ctx, "missing", s.book.ID())
	assert.ErrorIs(t, err, circulation.ErrUserNotFound)

	_, err = s.library.ReturnBookFromUser(ctx, s.user.ID, "missing")
	assert.ErrorIs(t, err, circulation.ErrBookNotFound)

	_, err = s.library.ReturnBookFromUser(ctx, s.user.ID, s.book.ID())
	assert.ErrorIs(t, err, circulation.ErrUserHasNoLoans)
}

func Test_Library_ListQueries(t *testing.T) {
	// arrange
	ctx := context.Background()
	f := givenFactory()
	library := givenLibrary(t)

	tolkien := givenAuthor(t, f, "J. R. R. Tolkien", 1892)
	christie := givenAuthor(t, f, "Agatha Christie", 1890)
	unregistered := givenAuthor(t, f, "Ghost Writer", 1970)

	hobbit := givenBook(t, f, "The Hobbit", 1937, tolkien)
	rings, err := f.NewBook(circulation.BookProps{Title: "The Fellowship of the Ring", Year: 1954, Genre: circulation.GenreFantasy, Author: tolkien})
	require.NoError(t, err)
	orient, err := f.NewBook(circulation.BookProps{Title: "Murder on the Orient Express", Year: 1934, Genre: circulation.GenreDetectiveAndMystery, Author: christie})
	require.NoError(t, err)
	ghost := givenBook(t, f, "Untold", 2001, unregistered)

	reader := givenUser(t, f, "Reader")

	require.NoError(t, library.InsertAuthor(ctx, tolkien))
	require.NoError(t, library.InsertAuthor(ctx, christie))
	for _, book := range []*circulation.Book{hobbit, rings, orient, ghost} {
		require.NoError(t, library.InsertBook(ctx, book))
	}
	require.NoError(t, library.InsertUser(ctx, reader))

	_, err = library.BorrowBookToUser(ctx, reader.ID, orient.ID())
	require.NoError(t, err)

	// act & assert
	assert.Equal(t, []identity.ID{hobbit.ID(), rings.ID(), orient.ID(), ghost.ID()}, bookIDs(library.ListBooks()), "insertion order")
	assert.Equal(t, []identity.ID{orient.ID()}, bookIDs(library.ListBorrowedBooks()))
	assert.Equal(t, []identity.ID{hobbit.ID(), rings.ID(), ghost.ID()}, bookIDs(library.ListAvailableBooks()))
	assert.Equal(t, []identity.ID{hobbit.ID(), rings.ID(), ghost.ID()}, bookIDs(library.ListBooksByGenre(circulation.GenreFantasy)))
	assert.Equal(t, []identity.ID{rings.ID()}, bookIDs(library.ListBooksByReleaseYear(1954)))
	assert.Empty(t, library.ListBooksByReleaseYear(1999))
	assert.Equal(t, []identity.ID{hobbit.ID(), rings.ID()}, bookIDs(library.ListBooksByAuthorsName("J. R. R. Tolkien")))
	assert.Empty(t, library.ListBooksByAuthorsName("Nobody"))
	assert.Equal(t, []identity.ID{ghost.ID()}, bookIDs(library.ListBooksByGroupID(ghost.GroupID())))

	byChristie, err := library.ListBooksByAuthorID(christie.ID)
	require.NoError(t, err)
	assert.Equal(t, []identity.ID{orient.ID()}, bookIDs(byChristie))

	_, err = library.ListBooksByAuthorID(unregistered.ID)
	assert.ErrorIs(t, err, circulation.ErrAuthorNotFound, "unlike the by-name query, the by-id query requires a registered author")

	author, err := library.Author(tolkien.ID)
	require.NoError(t, err)
	assert.Equal(t, tolkien, author)

	_, err = library.Author("missing")
	assert.ErrorIs(t, err, circulation.ErrAuthorNotFound)
	_, err = library.Book("missing")
	assert.ErrorIs(t, err, circulation.ErrBookNotFound)
	_, err = library.User("missing")
	assert.ErrorIs(t, err, circulation.ErrUserNotFound)
	_, err = library.HoldingsOf("missing")
	assert.ErrorIs(t, err, circulation.ErrUserNotFound)
}

func Test_Library_InsertBooksByGroupID_UsesLibraryClockForValidation(t *testing.T) {
	// arrange
	ctx := context.Background()
	s := givenScenario(t)
	library := givenLibrary(t, circulation.WithClock(func() time.Time { return fixedNow.AddDate(-5, 0, 0) }))

	require.NoError(t, library.InsertAuthor(ctx, s.author))
	require.NoError(t, library.InsertBook(ctx, s.book))

	// act
	_, err := library.InsertBooksByGroupID(ctx, s.book.GroupID(), 2)

	// assert
	assert.ErrorIs(t, err, circulation.ErrPublishedInFuture, "a 2021 book cannot be cloned in 2020")
	assert.Len(t, library.ListBooks(), 1, "no partial insert")
}

func Test_Library_ConcurrentCirculationStaysConsistent(t *testing.T) {
	// arrange
	ctx := context.Background()
	f := givenFactory()
	library := givenLibrary(t)
	author := givenAuthor(t, f, "A", 1990)
	require.NoError(t, library.InsertAuthor(ctx, author))

	source := givenBook(t, f, "T", 2021, author)
	require.NoError(t, library.InsertBook(ctx, source))
	books, err := library.InsertBooksByGroupID(ctx, source.GroupID(), 4)
	require.NoError(t, err)

	users := make([]*circulation.User, 0, 8)
	for range 8 {
		user := givenUser(t, f, "U")
		require.NoError(t, library.InsertUser(ctx, user))
		users = append(users, user)
	}

	var wg sync.WaitGroup

	// act
	for i, user := range users {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for round := range 50 {
				book := books[(i+round)%len(books)]

				lent, borrowErr := library.BorrowBookToUser(ctx, user.ID, book.ID())
				assert.NoError(t, borrowErr)

				if lent {
					returned, returnErr := library.ReturnBookFromUser(ctx, user.ID, book.ID())
					assert.NoError(t, returnErr)
					assert.True(t, returned)
				}
			}
		}()
	}

	wg.Wait()

	// assert
	assert.NoError(t, library.CheckConsistency())
	assert.Empty(t, library.ListBorrowedBooks())
}
