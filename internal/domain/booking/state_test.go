package booking

import (
	"testing"
	"time"

	"github.com/shareit-app/shareit/internal/domain"
	"github.com/shareit-app/shareit/internal/domain/item"
	"github.com/shareit-app/shareit/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func fixture(id int64, start, end time.Time, status BookingStatus) *Booking {
	owner := user.Reconstruct(1, "owner", "owner@example.com")
	booker := user.Reconstruct(2, "booker", "booker@example.com")
	it := item.Reconstruct(10, "drill", "cordless drill", true, owner.ID(), nil)
	return ReconstructBooking(id, start, end, it, booker, status, 1)
}

func TestParseState(t *testing.T) {
	tests := []struct {
		raw  string
		want State
	}{
		{"", StateAll},
		{"   ", StateAll},
		{"all", StateAll},
		{"past", StatePast},
		{"PAST", StatePast},
		{"Past", StatePast},
		{"current", StateCurrent},
		{"FUTURE", StateFuture},
		{"waiting", StateWaiting},
		{"Rejected", StateRejected},
	}
	for _, tt := range tests {
		got, err := ParseState(tt.raw)
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestParseState_Unknown(t *testing.T) {
	_, err := ParseState("bogus")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindUnsupportedStatus))
	assert.Equal(t, "Unknown state: bogus", err.Error())
}

func TestParseState_CaseInsensitive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.SampledFrom(States).Draw(t, "state")
		mask := rapid.SliceOfN(rapid.Bool(), len(s), len(s)).Draw(t, "mask")
		raw := []byte(string(s))
		for i, lower := range mask {
			if lower {
				raw[i] = raw[i] + ('a' - 'A')
			}
		}
		got, err := ParseState(string(raw))
		if err != nil {
			t.Fatalf("ParseState(%q): %v", raw, err)
		}
		if got != s {
			t.Fatalf("ParseState(%q) = %s, want %s", raw, got, s)
		}
	})
}

func TestState_TemporalClassesArePartition(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	rapid.Check(t, func(t *rapid.T) {
		startOffset := rapid.Int64Range(-1000, 1000).Draw(t, "start")
		length := rapid.Int64Range(1, 500).Draw(t, "length")
		start := now.Add(time.Duration(startOffset) * time.Minute)
		end := start.Add(time.Duration(length) * time.Minute)
		b := fixture(1, start, end, BookingStatus(rapid.SampledFrom([]string{"WAITING", "APPROVED", "REJECTED"}).Draw(t, "status")))

		matched := 0
		for _, s := range []State{StatePast, StateCurrent, StateFuture} {
			if s.Matches(b, now) {
				matched++
			}
		}
		onBoundary := start.Equal(now) || end.Equal(now)
		if matched > 1 {
			t.Fatalf("booking %v..%v matched %d temporal states", start, end, matched)
		}
		if !onBoundary && matched != 1 {
			t.Fatalf("booking %v..%v matched no temporal state", start, end)
		}
		if !StateAll.Matches(b, now) {
			t.Fatalf("ALL must match every booking")
		}
	})
}

func TestState_Matches(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	past := fixture(1, now.Add(-3*time.Hour), now.Add(-time.Hour), StatusApproved)
	current := fixture(2, now.Add(-time.Hour), now.Add(time.Hour), StatusWaiting)
	future := fixture(3, now.Add(time.Hour), now.Add(2*time.Hour), StatusRejected)

	assert.True(t, StatePast.Matches(past, now))
	assert.False(t, StatePast.Matches(current, now))
	assert.True(t, StateCurrent.Matches(current, now))
	assert.False(t, StateCurrent.Matches(future, now))
	assert.True(t, StateFuture.Matches(future, now))
	assert.False(t, StateFuture.Matches(past, now))
	assert.True(t, StateWaiting.Matches(current, now))
	assert.False(t, StateWaiting.Matches(future, now))
	assert.True(t, StateRejected.Matches(future, now))
	assert.False(t, StateRejected.Matches(past, now))
}
