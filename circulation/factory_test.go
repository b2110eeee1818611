package circulation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
)

func Test_Factory_NewBook_Validation(t *testing.T) {
	f := givenFactory()
	author := givenAuthor(t, f, "A", 1990)

	tests := []struct {
		name    string
		props   circulation.BookProps
		wantErr error
	}{
		{
			name:  "published_in_author_birth_year",
			props: circulation.BookProps{Title: "T", Year: 1990, Genre: circulation.GenreRomance, Author: author},
		},
		{
			name:  "published_this_year",
			props: circulation.BookProps{Title: "T", Year: 2025, Genre: circulation.GenreRomance, Author: author},
		},
		{
			name:    "published_before_author_birth",
			props:   circulation.BookProps{Title: "T", Year: 1989, Genre: circulation.GenreRomance, Author: author},
			wantErr: circulation.ErrPublishedBeforeAuthorBirth,
		},
		{
			name:    "published_in_future",
			props:   circulation.BookProps{Title: "T", Year: 2026, Genre: circulation.GenreRomance, Author: author},
			wantErr: circulation.ErrPublishedInFuture,
		},
		{
			name:    "empty_title",
			props:   circulation.BookProps{Title: "  ", Year: 2021, Genre: circulation.GenreRomance, Author: author},
			wantErr: circulation.ErrEmptyTitle,
		},
		{
			name:    "unknown_genre",
			props:   circulation.BookProps{Title: "T", Year: 2021, Genre: "Poetry", Author: author},
			wantErr: circulation.ErrUnknownGenre,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book, err := f.NewBook(tt.props)

			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.True(t, book.IsAvailable())
				return
			}

			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, circulation.ErrValidation)
			assert.Nil(t, book)
		})
	}
}

func Test_Factory_NewBook_GroupID(t *testing.T) {
	f := givenFactory()
	author := givenAuthor(t, f, "A", 1990)

	fresh := givenBook(t, f, "T", 2021, author)
	assert.False(t, fresh.GroupID().IsZero())
	assert.NotEqual(t, fresh.ID(), fresh.GroupID())

	copyOf, err := f.NewBook(circulation.BookProps{
		Title: "T", Year: 2021, Genre: circulation.GenreFantasy, Author: author, GroupID: fresh.GroupID(),
	})
	require.NoError(t, err)
	assert.Equal(t, fresh.GroupID(), copyOf.GroupID())
}

func Test_Factory_UsesSupplierAndClock(t *testing.T) {
	f := givenFactory()

	author := givenAuthor(t, f, "A", 1990)
	user := givenUser(t, f, "U")

	assert.Equal(t, "entity-1", author.ID.String())
	assert.Equal(t, "entity-2", user.ID.String())

	_, err := f.NewUser(circulation.Person{Name: "Late", BirthDate: fixedNow.AddDate(0, 0, 1), Gender: circulation.GenderMale}, "")
	assert.ErrorIs(t, err, circulation.ErrBirthDateInFuture)
}

func Test_ZeroFactory_FallsBackToDefaults(t *testing.T) {
	author, err := circulation.NewAuthor(givenPerson("A", 1990), "a@example.org")
	require.NoError(t, err)

	book, err := circulation.NewBook(circulation.BookProps{
		Title: "T", Year: time.Now().Year(), Genre: circulation.GenreCooking, Author: author,
	})
	require.NoError(t, err)

	clone, err := circulation.BookFrom(book, circulation.BookOverrides{})
	require.NoError(t, err)

	user, err := circulation.NewUser(givenPerson("U", 1990), "u@example.org")
	require.NoError(t, err)

	assert.Len(t, author.ID.String(), 36, "uuid")
	assert.NotEqual(t, book.ID(), clone.ID())
	assert.NotEqual(t, author.ID, user.ID)
}
