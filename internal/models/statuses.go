package models

type AccountKind string
type BookingStatus string

const (
	AccountKindArtist AccountKind = "artist"
	AccountKindVenue  AccountKind = "venue"

	BookingStatusPending   BookingStatus = "pending"
	BookingStatusAccepted  BookingStatus = "accepted"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// bookingTransitions is the full state machine: pending fans out to the three
// terminal decisions, and only accepted can move on to completed. Transitions
// are one-directional; nothing re-enters pending.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:  {BookingStatusAccepted, BookingStatusRejected, BookingStatusCancelled},
	BookingStatusAccepted: {BookingStatusCompleted},
}

// CanTransitionTo reports whether moving from s to target is a legal booking
// state transition.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, next := range bookingTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible from s.
func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}
