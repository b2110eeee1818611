package journal

import (
	"slices"
	"sync"
)

// MaxSequenceNumberUint is the highest sequence number among the entries a Filter selects.
type MaxSequenceNumberUint = uint

// Journal is an in-memory, append-only log of entries with gapless sequence numbers starting at 1.
// It is safe for concurrent use.
type Journal struct {
	mu      sync.RWMutex
	entries Entries
}

// New creates an empty Journal.
func New() *Journal {
	return &Journal{}
}

// Append sequences and stores entries and returns the sequence number of the last one.
func (j *Journal) Append(entries ...Entry) MaxSequenceNumberUint {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.append(entries)
}

// Query returns copies of the entries selected by filter in sequence order,
// together with the highest sequence number among them (0 if none).
func (j *Journal) Query(filter Filter) (Entries, MaxSequenceNumberUint) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	return j.query(filter)
}

// Len returns the number of appended entries.
func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()

	return len(j.entries)
}

func (j *Journal) append(entries Entries) MaxSequenceNumberUint {
	for _, entry := range entries {
		entry.SequenceNumber = MaxSequenceNumberUint(len(j.entries) + 1)
		entry.PayloadJSON = slices.Clone(entry.PayloadJSON)
		entry.MetadataJSON = slices.Clone(entry.MetadataJSON)
		j.entries = append(j.entries, entry)
	}

	return MaxSequenceNumberUint(len(j.entries))
}

func (j *Journal) query(filter Filter) (Entries, MaxSequenceNumberUint) {
	selected := make(Entries, 0)
	var maxSequenceNumber MaxSequenceNumberUint

	for _, entry := range j.entries {
		if !filter.Matches(entry) {
			continue
		}

		entry.PayloadJSON = slices.Clone(entry.PayloadJSON)
		entry.MetadataJSON = slices.Clone(entry.MetadataJSON)
		selected = append(selected, entry)
		maxSequenceNumber = entry.SequenceNumber
	}

	return selected, maxSequenceNumber
}
