package circulation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/identity"
)

var fixedNow = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time {
	return fixedNow
}

func givenFactory() circulation.Factory {
	return circulation.Factory{
		IDs: identity.NewSequenceSupplier("entity"),
		Now: fixedClock,
	}
}

func givenPerson(name string, born int) circulation.Person {
	return circulation.Person{
		Name:        name,
		BirthDate:   time.Date(born, time.March, 14, 0, 0, 0, 0, time.UTC),
		Nationality: "Austrian",
		Gender:      circulation.GenderFemale,
	}
}

func givenAuthor(t testing.TB, f circulation.Factory, name string, born int) circulation.Author {
	t.Helper()

	author, err := f.NewAuthor(givenPerson(name, born), name+"@example.org")
	require.NoError(t, err, "error in arranging test data")

	return author
}

func givenUser(t testing.TB, f circulation.Factory, name string) *circulation.User {
	t.Helper()

	user, err := f.NewUser(givenPerson(name, 1985), name+"@example.org")
	require.NoError(t, err, "error in arranging test data")

	return user
}

func givenBook(t testing.TB, f circulation.Factory, title string, year int, author circulation.Author) *circulation.Book {
	t.Helper()

	book, err := f.NewBook(circulation.BookProps{
		Title:  title,
		Year:   year,
		Genre:  circulation.GenreFantasy,
		Author: author,
	})
	require.NoError(t, err, "error in arranging test data")

	return book
}

func givenLibrary(t testing.TB, options ...circulation.Option) *circulation.Library {
	t.Helper()

	options = append([]circulation.Option{
		circulation.WithIDSupplier(identity.NewSequenceSupplier("library")),
		circulation.WithClock(fixedClock),
	}, options...)

	library, err := circulation.NewLibrary(circulation.Info{Name: "City Library"}, options...)
	require.NoError(t, err, "error in arranging test data")

	return library
}

// scenario is a library holding one author "A" (born 1990), one book "T" (2021, by A) and one user "U".
type scenario struct {
	library *circulation.Library
	author  circulation.Author
	book    *circulation.Book
	user    *circulation.User
}

func givenScenario(t testing.TB, options ...circulation.Option) scenario {
	t.Helper()

	ctx := context.Background()
	f := givenFactory()

	s := scenario{library: givenLibrary(t, options...)}
	s.author = givenAuthor(t, f, "A", 1990)
	s.book = givenBook(t, f, "T", 2021, s.author)
	s.user = givenUser(t, f, "U")

	require.NoError(t, s.library.InsertAuthor(ctx, s.author), "error in arranging test data")
	require.NoError(t, s.library.InsertBook(ctx, s.book), "error in arranging test data")
	require.NoError(t, s.library.InsertUser(ctx, s.user), "error in arranging test data")

	return s
}

func bookIDs(books []circulation.Book) []identity.ID {
	ids := make([]identity.ID, 0, len(books))
	for _, book := range books {
		ids = append(ids, book.ID())
	}

	return ids
}
