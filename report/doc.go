// Package report derives read-only statistics from a library catalog.
//
// Generate walks the Catalog query surface once and returns a Summary with books, authors and users
// sections; WriteText and WriteJSON render it.
package report
