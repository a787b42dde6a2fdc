package booking

import (
	"strings"
	"time"

	"github.com/shareit-app/shareit/internal/domain"
)

// State is a query-time classification of bookings. It is never stored:
// PAST, CURRENT and FUTURE depend on the wall clock at the moment of the query.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

// States lists every recognized state in declaration order.
var States = []State{StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected}

// ParseState maps a raw filter token to a State, ignoring case.
// A blank token means ALL; anything unrecognized is an UnsupportedStatus error.
func ParseState(raw string) (State, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return StateAll, nil
	}
	for _, s := range States {
		if strings.EqualFold(string(s), trimmed) {
			return s, nil
		}
	}
	return "", domain.NewUnsupportedStatusError(raw)
}

// Matches reports whether b falls into s at instant now.
// Storage-backed queries must select exactly the bookings this predicate accepts.
func (s State) Matches(b *Booking, now time.Time) bool {
	start, end := b.Start(), b.End()
	switch s {
	case StateAll:
		return true
	case StatePast:
		return end.Before(now) && start.Before(end)
	case StateFuture:
		return start.After(now) && start.Before(end)
	case StateCurrent:
		return start.Before(now) && end.After(now)
	case StateWaiting:
		return b.Status() == StatusWaiting
	case StateRejected:
		return b.Status() == StatusRejected
	}
	return false
}
