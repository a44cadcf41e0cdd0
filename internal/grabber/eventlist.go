package grabber

import "sort"

// EventList accumulates decoded events from every handler's contract before
// a cycle applies them.
type EventList struct {
	events []*Event
}

// Add appends events to the list.
func (l *EventList) Add(events ...*Event) {
	l.events = append(l.events, events...)
}

// Len returns the number of collected events.
func (l *EventList) Len() int {
	return len(l.events)
}

// Sorted returns the events in global chain order: ascending block number,
// then transaction index, then log index. Ties across contracts cannot occur
// since a log position is unique within a block.
func (l *EventList) Sorted() []*Event {
	sorted := make([]*Event, len(l.events))
	copy(sorted, l.events)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]

		if a.BlockNumber != b.BlockNumber {
			return a.BlockNumber < b.BlockNumber
		}

		if a.TxIndex != b.TxIndex {
			return a.TxIndex < b.TxIndex
		}

		return a.LogIndex < b.LogIndex
	})

	return sorted
}
