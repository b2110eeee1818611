package circulation

import (
	"slices"

	"github.com/AntonStoeckl/library-circulation-go/identity"
)

// ledger is the Library's authoritative record of which user holds which book ids.
//
// An entry, once created by a borrow, survives returns with an empty holding list;
// it only disappears when the user is removed.
type ledger struct {
	holdings map[identity.ID][]identity.ID
}

func newLedger() ledger {
	return ledger{holdings: make(map[identity.ID][]identity.ID)}
}

func (l *ledger) record(userID, bookID identity.ID) {
	if slices.Contains(l.holdings[userID], bookID) {
		return
	}

	l.holdings[userID] = append(l.holdings[userID], bookID)
}

func (l *ledger) release(userID, bookID identity.ID) {
	books, ok := l.holdings[userID]
	if !ok {
		return
	}

	l.holdings[userID] = slices.DeleteFunc(books, func(id identity.ID) bool { return id == bookID })
}

func (l *ledger) hasEntry(userID identity.ID) bool {
	_, ok := l.holdings[userID]
	return ok
}

func (l *ledger) holds(userID, bookID identity.ID) bool {
	return slices.Contains(l.holdings[userID], bookID)
}

func (l *ledger) outstanding(userID identity.ID) int {
	return len(l.holdings[userID])
}

func (l *ledger) holdingsOf(userID identity.ID) []identity.ID {
	return slices.Clone(l.holdings[userID])
}

// holderOf returns the user holding bookID, if any.
func (l *ledger) holderOf(bookID identity.ID) (identity.ID, bool) {
	for userID, books := range l.holdings {
		if slices.Contains(books, bookID) {
			return userID, true
		}
	}

	return "", false
}

func (l *ledger) forget(userID identity.ID) {
	delete(l.holdings, userID)
}

func (l *ledger) totalOnLoan() int {
	total := 0
	for _, books := range l.holdings {
		total += len(books)
	}

	return total
}
