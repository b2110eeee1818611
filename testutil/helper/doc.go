// Package helper provides test doubles for the circulation observability and event recording interfaces.
//
// All spies are safe for concurrent use and hand out copies of what they captured.
package helper
