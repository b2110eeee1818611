// Package circulation implements a library's catalog and circulation engine.
//
// Entities:
//   - Author: an immutable Person value with an identifier
//   - User: a registered patron with a personal list of held book ids
//   - Book: a catalog item with a lending state machine (available, borrowed) and a popularity score
//
// A Factory validates and identifies new entities. The Library aggregate root owns all of them
// and keeps the borrow ledger, the authoritative record of who holds which book:
//
//	library, err := circulation.NewLibrary(
//		circulation.Info{Name: "City Library"},
//		circulation.WithContextualLogger(slog.Default()),
//		circulation.WithEventRecorder(circulation.NewJournalRecorder(journal.New(), nil)),
//	)
//
//	lent, err := library.BorrowBookToUser(ctx, user.ID, book.ID())
//	if err != nil {
//		// not found, validation or state conflict, see errors.go
//	}
//	if !lent {
//		// the book is already on loan, nothing changed
//	}
//
// Every successful mutation emits a DomainEvent to the configured EventRecorder and is
// observable through the Logger, MetricsCollector and TracingCollector interfaces.
package circulation
