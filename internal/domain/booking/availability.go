package booking

import "time"

// Summary is the minimal view of a booking shown next to an item.
type Summary struct {
	ID       int64
	BookerID int64
}

// Availability holds the last and next approved bookings of one item.
type Availability struct {
	Last *Summary
	Next *Summary
}

// Annotate derives the availability of a single item from bookings.
// Bookings of other items and bookings that are not APPROVED are ignored.
//
// Last is the approved booking with the latest end among those that have started
// (start or end before now). Next is the approved booking with the earliest start after now.
func Annotate(itemID int64, bookings []*Booking, now time.Time) Availability {
	var last, next *Booking
	for _, b := range bookings {
		if b.Item().ID() != itemID || b.Status() != StatusApproved {
			continue
		}
		if b.Start().Before(now) || b.End().Before(now) {
			if last == nil || b.End().After(last.End()) {
				last = b
			}
		}
		if b.Start().After(now) {
			if next == nil || b.Start().Before(next.Start()) {
				next = b
			}
		}
	}
	return Availability{Last: summarize(last), Next: summarize(next)}
}

// AnnotateAll derives availability for every item id in one pass over bookings.
func AnnotateAll(itemIDs []int64, bookings []*Booking, now time.Time) map[int64]Availability {
	byItem := make(map[int64][]*Booking, len(itemIDs))
	for _, b := range bookings {
		id := b.Item().ID()
		byItem[id] = append(byItem[id], b)
	}
	result := make(map[int64]Availability, len(itemIDs))
	for _, id := range itemIDs {
		result[id] = Annotate(id, byItem[id], now)
	}
	return result
}

func summarize(b *Booking) *Summary {
	if b == nil {
		return nil
	}
	return &Summary{ID: b.ID(), BookerID: b.Booker().ID()}
}
