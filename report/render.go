package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// WriteJSON renders summary as indented JSON.
func WriteJSON(w io.Writer, summary Summary) error {
	encoder := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(summary); err != nil {
		return fmt.Errorf("write json report: %w", err)
	}

	return nil
}

// WriteText renders summary as plain text, one aligned table per section.
func WriteText(w io.Writer, summary Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	p := &printer{w: tw}

	p.line("%s report, generated %s", summary.Library, summary.GeneratedAt.Format(time.DateTime))

	p.bookSection("Borrowed books", summary.BorrowedBooks)
	p.bookSection("Available books", summary.AvailableBooks)
	p.countSection("Books by year", "Year", summary.BooksByYear)
	p.countSection("Books by genre", "Genre", summary.BooksByGenre)
	p.bookSection(fmt.Sprintf("Top %d most popular books", len(summary.BookPopularity)), summary.BookPopularity)

	p.authorCountSection("Authors by number of books", "Books", summary.AuthorsByNumberOfBooks)
	p.authorCountSection(fmt.Sprintf("Top %d popular authors", len(summary.PopularAuthors)), "Borrows", summary.PopularAuthors)

	p.section("Most popular book by author")
	if len(summary.MostPopularBookByAuthor) == 0 {
		p.line("No books found.")
	}
	for _, ab := range summary.MostPopularBookByAuthor {
		p.line("%s\t%s\t%d", ab.Author, ab.Book.Title, ab.Book.Popularity)
	}

	p.countSection("Authors by nationality", "Nationality", summary.AuthorsByNationality)

	p.section("Author lists by nationality")
	if len(summary.AuthorListsByNationality) == 0 {
		p.line("No authors found.")
	}
	for _, group := range summary.AuthorListsByNationality {
		p.line("%s\t%s", group.Nationality, strings.Join(group.Authors, ", "))
	}

	p.section("Users by number of borrowed books")
	if len(summary.UsersByBorrowedBooks) == 0 {
		p.line("No users found.")
	}
	for _, uc := range summary.UsersByBorrowedBooks {
		p.line("%s\t%d", uc.User, uc.Quantity)
	}

	p.countSection("Users by age", "Age", summary.UsersByAge)
	p.countSection("Users by gender", "Gender", summary.UsersByGender)
	p.countSection("Users by nationality", "Nationality", summary.UsersByNationality)

	if p.err != nil {
		return fmt.Errorf("write text report: %w", p.err)
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write text report: %w", err)
	}

	return nil
}

// printer remembers the first write error so sections can be written without checking each line.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}

	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) section(title string) {
	p.line("")
	p.line("%s:", title)
}

func (p *printer) bookSection(title string, books []BookLine) {
	p.section(title)

	if len(books) == 0 {
		p.line("No books found.")
		return
	}

	for _, b := range books {
		p.line("%s\t%s\t%s\t%d\t%d", b.Title, b.Author, b.Genre, b.Year, b.Popularity)
	}
}

func (p *printer) countSection(title, keyName string, counts []Count) {
	p.section(title)

	if len(counts) == 0 {
		p.line("Nothing found.")
		return
	}

	for _, c := range counts {
		p.line("%s: %s\t%d", keyName, c.Key, c.Quantity)
	}
}

func (p *printer) authorCountSection(title, quantityName string, counts []AuthorCount) {
	p.section(title)

	if len(counts) == 0 {
		p.line("No authors found.")
		return
	}

	for _, ac := range counts {
		p.line("%s\t%s: %d", ac.Author, quantityName, ac.Quantity)
	}
}
