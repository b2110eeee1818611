package report

import (
	"cmp"
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
)

// Catalog is the read-only query surface a report is generated from. *circulation.Library satisfies it.
type Catalog interface {
	Info() circulation.Info
	ListBooks() []circulation.Book
	ListBorrowedBooks() []circulation.Book
	ListAvailableBooks() []circulation.Book
	ListBooksByAuthorsName(name string) []circulation.Book
	ListAuthors() []circulation.Author
	ListUsers() []circulation.User
}

// Options tune report generation.
type Options struct {
	// Now is the reference time for ages. Zero means time.Now().
	Now time.Time

	// TopLimit caps the ranked sections. Values below 1 mean no cap.
	TopLimit int
}

// Count is a quantity per key, e.g. books per genre.
type Count struct {
	Key      string `json:"key"`
	Quantity int    `json:"quantity"`
}

// BookLine describes one catalogued book.
type BookLine struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	Genre      string `json:"genre"`
	Year       int    `json:"year"`
	Popularity int    `json:"popularity"`
}

// AuthorCount is a quantity per author, e.g. books written or total borrows.
type AuthorCount struct {
	AuthorID string `json:"author_id"`
	Author   string `json:"author"`
	Quantity int    `json:"quantity"`
}

// AuthorBook pairs an author with one of their books.
type AuthorBook struct {
	AuthorID string   `json:"author_id"`
	Author   string   `json:"author"`
	Book     BookLine `json:"book"`
}

// NationalityGroup lists author names sharing a nationality.
type NationalityGroup struct {
	Nationality string   `json:"nationality"`
	Authors     []string `json:"authors"`
}

// UserCount is a quantity per user.
type UserCount struct {
	UserID   string `json:"user_id"`
	User     string `json:"user"`
	Quantity int    `json:"quantity"`
}

// Summary holds every report section. Keyed sections are sorted by key,
// ranked sections by quantity (descending) and then by name.
type Summary struct {
	Library     string    `json:"library"`
	GeneratedAt time.Time `json:"generated_at"`

	BorrowedBooks  []BookLine `json:"borrowed_books"`
	AvailableBooks []BookLine `json:"available_books"`
	BooksByYear    []Count    `json:"books_by_year"`
	BooksByGenre   []Count    `json:"books_by_genre"`
	BookPopularity []BookLine `json:"book_popularity"`

	AuthorsByNumberOfBooks   []AuthorCount      `json:"authors_by_number_of_books"`
	PopularAuthors           []AuthorCount      `json:"popular_authors"`
	MostPopularBookByAuthor  []AuthorBook       `json:"most_popular_book_by_author"`
	AuthorsByNationality     []Count            `json:"authors_by_nationality"`
	AuthorListsByNationality []NationalityGroup `json:"author_lists_by_nationality"`

	UsersByBorrowedBooks []UserCount `json:"users_by_borrowed_books"`
	UsersByAge           []Count     `json:"users_by_age"`
	UsersByGender        []Count     `json:"users_by_gender"`
	UsersByNationality   []Count     `json:"users_by_nationality"`
}

// Generate computes a Summary from catalog. It never mutates the catalog.
func Generate(catalog Catalog, options Options) Summary {
	now := options.Now
	if now.IsZero() {
		now = time.Now()
	}

	books := catalog.ListBooks()
	authors := catalog.ListAuthors()
	users := catalog.ListUsers()

	return Summary{
		Library:     catalog.Info().Name,
		GeneratedAt: now,

		BorrowedBooks:  bookLines(catalog.ListBorrowedBooks()),
		AvailableBooks: bookLines(catalog.ListAvailableBooks()),
		BooksByYear:    countByNumber(books, func(b circulation.Book) int { return b.Year() }),
		BooksByGenre:   rankCounts(countBy(books, func(b circulation.Book) string { return string(b.Genre()) })),
		BookPopularity: topN(popularBooks(books), options.TopLimit),

		AuthorsByNumberOfBooks:   authorsByNumberOfBooks(catalog, authors),
		PopularAuthors:           topN(popularAuthors(books), options.TopLimit),
		MostPopularBookByAuthor:  mostPopularBookByAuthor(books),
		AuthorsByNationality:     countBy(authors, func(a circulation.Author) string { return a.Nationality }),
		AuthorListsByNationality: authorListsByNationality(authors),

		UsersByBorrowedBooks: usersByBorrowedBooks(users),
		UsersByAge:           countByNumber(users, func(u circulation.User) int { return u.AgeAt(now) }),
		UsersByGender:        countBy(users, func(u circulation.User) string { return string(u.Gender) }),
		UsersByNationality:   countBy(users, func(u circulation.User) string { return u.Nationality }),
	}
}

func bookLine(b circulation.Book) BookLine {
	return BookLine{
		ID:         b.ID().String(),
		Title:      b.Title(),
		Author:     b.Author().Name,
		Genre:      string(b.Genre()),
		Year:       b.Year(),
		Popularity: b.PopularityScore(),
	}
}

func bookLines(books []circulation.Book) []BookLine {
	lines := make([]BookLine, 0, len(books))
	for _, b := range books {
		lines = append(lines, bookLine(b))
	}

	return lines
}

// countBy groups items by key and returns the counts sorted by key.
func countBy[T any](items []T, key func(T) string) []Count {
	quantities := make(map[string]int)
	for _, item := range items {
		quantities[key(item)]++
	}

	counts := make([]Count, 0, len(quantities))
	for k, q := range quantities {
		counts = append(counts, Count{Key: k, Quantity: q})
	}

	slices.SortFunc(counts, func(a, b Count) int { return cmp.Compare(a.Key, b.Key) })

	return counts
}

// countByNumber groups items by a numeric key and returns the counts in ascending numeric order.
func countByNumber[T any](items []T, key func(T) int) []Count {
	quantities := make(map[int]int)
	for _, item := range items {
		quantities[key(item)]++
	}

	keys := slices.Sorted(maps.Keys(quantities))
	counts := make([]Count, 0, len(keys))

	for _, k := range keys {
		counts = append(counts, Count{Key: strconv.Itoa(k), Quantity: quantities[k]})
	}

	return counts
}

func rankCounts(counts []Count) []Count {
	slices.SortStableFunc(counts, func(a, b Count) int { return cmp.Compare(b.Quantity, a.Quantity) })

	return counts
}

func popularBooks(books []circulation.Book) []BookLine {
	lines := bookLines(books)
	slices.SortStableFunc(lines, func(a, b BookLine) int {
		return cmp.Or(cmp.Compare(b.Popularity, a.Popularity), cmp.Compare(a.Title, b.Title))
	})

	return lines
}

func authorsByNumberOfBooks(catalog Catalog, authors []circulation.Author) []AuthorCount {
	counts := make([]AuthorCount, 0, len(authors))
	for _, a := range authors {
		counts = append(counts, AuthorCount{
			AuthorID: a.ID.String(),
			Author:   a.Name,
			Quantity: len(catalog.ListBooksByAuthorsName(a.Name)),
		})
	}

	sortAuthorCounts(counts)

	return counts
}

// popularAuthors sums the popularity of all catalogued books per author, registered or not.
func popularAuthors(books []circulation.Book) []AuthorCount {
	byID := make(map[string]*AuthorCount)
	order := make([]string, 0)

	for _, b := range books {
		id := b.Author().ID.String()

		entry, ok := byID[id]
		if !ok {
			entry = &AuthorCount{AuthorID: id, Author: b.Author().Name}
			byID[id] = entry
			order = append(order, id)
		}

		entry.Quantity += b.PopularityScore()
	}

	counts := make([]AuthorCount, 0, len(order))
	for _, id := range order {
		counts = append(counts, *byID[id])
	}

	sortAuthorCounts(counts)

	return counts
}

// mostPopularBookByAuthor keeps the first book with the highest popularity per author.
func mostPopularBookByAuthor(books []circulation.Book) []AuthorBook {
	best := make(map[string]*AuthorBook)
	order := make([]string, 0)

	for _, b := range books {
		id := b.Author().ID.String()

		current, ok := best[id]
		if !ok {
			best[id] = &AuthorBook{AuthorID: id, Author: b.Author().Name, Book: bookLine(b)}
			order = append(order, id)

			continue
		}

		if b.PopularityScore() > current.Book.Popularity {
			current.Book = bookLine(b)
		}
	}

	result := make([]AuthorBook, 0, len(order))
	for _, id := range order {
		result = append(result, *best[id])
	}

	slices.SortStableFunc(result, func(a, b AuthorBook) int { return cmp.Compare(a.Author, b.Author) })

	return result
}

func authorListsByNationality(authors []circulation.Author) []NationalityGroup {
	names := make(map[string][]string)
	for _, a := range authors {
		names[a.Nationality] = append(names[a.Nationality], a.Name)
	}

	groups := make([]NationalityGroup, 0, len(names))
	for nationality, authorNames := range names {
		slices.Sort(authorNames)
		groups = append(groups, NationalityGroup{Nationality: nationality, Authors: authorNames})
	}

	slices.SortFunc(groups, func(a, b NationalityGroup) int { return cmp.Compare(a.Nationality, b.Nationality) })

	return groups
}

func usersByBorrowedBooks(users []circulation.User) []UserCount {
	counts := make([]UserCount, 0, len(users))
	for _, u := range users {
		counts = append(counts, UserCount{
			UserID:   u.ID.String(),
			User:     u.Name,
			Quantity: len(u.ListBorrowedBooks()),
		})
	}

	slices.SortStableFunc(counts, func(a, b UserCount) int {
		return cmp.Or(cmp.Compare(b.Quantity, a.Quantity), cmp.Compare(a.User, b.User))
	})

	return counts
}

func sortAuthorCounts(counts []AuthorCount) {
	slices.SortStableFunc(counts, func(a, b AuthorCount) int {
		return cmp.Or(cmp.Compare(b.Quantity, a.Quantity), cmp.Compare(a.Author, b.Author))
	})
}

func topN[T any](items []T, limit int) []T {
	if limit < 1 || limit >= len(items) {
		return items
	}

	return items[:limit]
}
