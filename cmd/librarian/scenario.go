package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/identity"
	"github.com/AntonStoeckl/library-circulation-go/journal"
)

type seedAuthor struct {
	name        string
	born        time.Time
	nationality string
	gender      circulation.Gender
}

type seedBook struct {
	title  string
	year   int
	genre  circulation.Genre
	author int
	copies int
}

type seedUser struct {
	name        string
	born        time.Time
	nationality string
	gender      circulation.Gender
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

var seedAuthors = []seedAuthor{
	{"J. R. R. Tolkien", date(1892, time.January, 3), "British", circulation.GenderMale},
	{"Agatha Christie", date(1890, time.September, 15), "British", circulation.GenderFemale},
	{"Stanisław Lem", date(1921, time.September, 12), "Polish", circulation.GenderMale},
	{"Ursula K. Le Guin", date(1929, time.October, 21), "American", circulation.GenderFemale},
	{"Octavia E. Butler", date(1947, time.June, 22), "American", circulation.GenderFemale},
}

// copies counts the additional copies cloned from the first one.
var seedBooks = []seedBook{
	{"The Hobbit", 1937, circulation.GenreFantasy, 0, 2},
	{"The Lord of the Rings", 1954, circulation.GenreFantasy, 0, 0},
	{"Murder on the Orient Express", 1934, circulation.GenreDetectiveAndMystery, 1, 1},
	{"And Then There Were None", 1939, circulation.GenreDetectiveAndMystery, 1, 0},
	{"Solaris", 1961, circulation.GenreAdventure, 2, 0},
	{"The Dispossessed", 1974, circulation.GenreDystopian, 3, 1},
	{"Kindred", 1979, circulation.GenreHistoricalFiction, 4, 0},
	{"Parable of the Sower", 1993, circulation.GenreDystopian, 4, 0},
}

var seedUsers = []seedUser{
	{"Ada", date(1990, time.December, 10), "British", circulation.GenderFemale},
	{"Bob", date(1984, time.April, 2), "Austrian", circulation.GenderMale},
	{"Chiara", date(2001, time.July, 19), "Italian", circulation.GenderFemale},
	{"Dmitri", date(1977, time.February, 28), "Ukrainian", circulation.GenderMale},
}

type stepKind int

const (
	borrow stepKind = iota
	giveBack
)

// step refers to users and books by their position in the seeded lists.
type step struct {
	kind stepKind
	user int
	book int
}

// traffic contains some soft failures (borrowing a book already on loan) and
// rejected operations (returning a book that is not held) on purpose.
var traffic = []step{
	{borrow, 0, 0},
	{borrow, 1, 2},
	{borrow, 2, 0},
	{borrow, 2, 1},
	{borrow, 3, 5},
	{giveBack, 0, 0},
	{borrow, 1, 0},
	{borrow, 0, 6},
	{giveBack, 2, 4},
	{borrow, 3, 4},
	{giveBack, 1, 2},
	{borrow, 0, 2},
	{borrow, 2, 8},
	{giveBack, 3, 5},
	{borrow, 1, 5},
	{borrow, 0, 9},
	{giveBack, 0, 6},
	{borrow, 3, 6},
}

// demo is the outcome of a scenario run.
type demo struct {
	library  *circulation.Library
	journal  *journal.Journal
	books    []identity.ID
	users    []identity.ID
	rejected int
}

// runScenario seeds a library and plays the traffic against it.
// Identifiers are deterministic: author-N, user-N, book-N and group-N for seeded entities,
// library-N for the library itself and the copies it clones.
// Rejected traffic steps are counted, not returned; only seeding failures abort the run.
func runScenario(ctx context.Context, info circulation.Info, now func() time.Time, options ...circulation.Option) (demo, error) {
	j := journal.New()

	options = append([]circulation.Option{
		circulation.WithIDSupplier(identity.NewSequenceSupplier("library")),
		circulation.WithClock(now),
		circulation.WithEventRecorder(circulation.NewJournalRecorder(j, identity.NewSequenceSupplier("message"))),
	}, options...)

	library, err := circulation.NewLibrary(info, options...)
	if err != nil {
		return demo{}, fmt.Errorf("create library: %w", err)
	}

	d := demo{library: library, journal: j}

	if err := d.seed(ctx, now); err != nil {
		return demo{}, err
	}

	for _, s := range traffic {
		if err := d.play(ctx, s); err != nil {
			if !isExpectedRejection(err) {
				return demo{}, err
			}

			d.rejected++
		}
	}

	return d, nil
}

func (d *demo) seed(ctx context.Context, now func() time.Time) error {
	authorIDs := circulation.Factory{IDs: identity.NewSequenceSupplier("author"), Now: now}
	userIDs := circulation.Factory{IDs: identity.NewSequenceSupplier("user"), Now: now}
	bookIDs := circulation.Factory{IDs: identity.NewSequenceSupplier("book"), Now: now}
	groupIDs := identity.NewSequenceSupplier("group")

	authors := make([]circulation.Author, 0, len(seedAuthors))

	for _, a := range seedAuthors {
		person := circulation.Person{Name: a.name, BirthDate: a.born, Nationality: a.nationality, Gender: a.gender}

		author, err := authorIDs.NewAuthor(person, "")
		if err != nil {
			return fmt.Errorf("seed author %q: %w", a.name, err)
		}

		if err = d.library.InsertAuthor(ctx, author); err != nil {
			return fmt.Errorf("seed author %q: %w", a.name, err)
		}

		authors = append(authors, author)
	}

	for _, u := range seedUsers {
		person := circulation.Person{Name: u.name, BirthDate: u.born, Nationality: u.nationality, Gender: u.gender}

		user, err := userIDs.NewUser(person, "")
		if err != nil {
			return fmt.Errorf("seed user %q: %w", u.name, err)
		}

		if err = d.library.InsertUser(ctx, user); err != nil {
			return fmt.Errorf("seed user %q: %w", u.name, err)
		}

		d.users = append(d.users, user.ID)
	}

	for _, b := range seedBooks {
		book, err := bookIDs.NewBook(circulation.BookProps{
			Title:   b.title,
			Year:    b.year,
			Genre:   b.genre,
			Author:  authors[b.author],
			GroupID: groupIDs.NextID(),
		})
		if err != nil {
			return fmt.Errorf("seed book %q: %w", b.title, err)
		}

		if err = d.library.InsertBook(ctx, book); err != nil {
			return fmt.Errorf("seed book %q: %w", b.title, err)
		}

		d.books = append(d.books, book.ID())

		if b.copies == 0 {
			continue
		}

		copies, err := d.library.InsertBooksByGroupID(ctx, book.GroupID(), b.copies)
		if err != nil {
			return fmt.Errorf("seed copies of %q: %w", b.title, err)
		}

		for _, c := range copies {
			d.books = append(d.books, c.ID())
		}
	}

	return nil
}

func (d *demo) play(ctx context.Context, s step) error {
	if s.user >= len(d.users) || s.book >= len(d.books) {
		return fmt.Errorf("traffic step refers to unknown user %d or book %d", s.user, s.book)
	}

	userID, bookID := d.users[s.user], d.books[s.book]

	switch s.kind {
	case giveBack:
		_, err := d.library.ReturnBookFromUser(ctx, userID, bookID)
		return err
	default:
		_, err := d.library.BorrowBookToUser(ctx, userID, bookID)
		return err
	}
}

func isExpectedRejection(err error) bool {
	return errors.Is(err, circulation.ErrNotFound) || errors.Is(err, circulation.ErrStateConflict)
}
