// Package journal provides an in-memory, append-only circulation journal.
//
// Entries are scalar DTOs (event type, time, JSON payload and metadata) that receive
// gapless sequence numbers when appended. Queries select entries with a Filter:
//
//	filter := journal.BuildFilter().
//		Matching().
//		AnyEventTypeOf(
//			circulation.BookLentToUserEventType,
//			circulation.BookReturnedByUserEventType).
//		AndAnyPredicateOf(journal.P("BookID", bookID.String())).
//		Finalize()
//
//	entries, maxSeq := j.Query(filter)
//
// Predicates compare top-level payload fields rendered as strings.
// Nothing is persisted; the journal lives as long as the process.
package journal
