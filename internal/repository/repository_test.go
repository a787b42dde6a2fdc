package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shareit-app/shareit/internal/domain"
	"github.com/shareit-app/shareit/internal/domain/booking"
	"github.com/shareit-app/shareit/internal/domain/item"
	"github.com/shareit-app/shareit/internal/domain/request"
	"github.com/shareit-app/shareit/internal/domain/user"
	"github.com/shareit-app/shareit/internal/repository"
	"github.com/shareit-app/shareit/internal/repository/repotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type repos struct {
	db       *gorm.DB
	users    *repository.GormUserRepository
	items    *repository.GormItemRepository
	comments *repository.GormCommentRepository
	requests *repository.GormRequestRepository
	bookings *repository.GormBookingRepository
	tx       *repository.Transactor
}

func newRepos(t *testing.T) *repos {
	db := repotest.NewDB(t)
	return &repos{
		db:       db,
		users:    repository.NewGormUserRepository(db),
		items:    repository.NewGormItemRepository(db),
		comments: repository.NewGormCommentRepository(db),
		requests: repository.NewGormRequestRepository(db),
		bookings: repository.NewGormBookingRepository(db),
		tx:       repository.NewTransactor(db),
	}
}

func (r *repos) user(t *testing.T, name, email string) *user.User {
	t.Helper()
	u, err := user.NewUser(name, email)
	require.NoError(t, err)
	saved, err := r.users.Save(context.Background(), u)
	require.NoError(t, err)
	return saved
}

func (r *repos) item(t *testing.T, owner *user.User, name, description string, available bool) *item.Item {
	t.Helper()
	it, err := item.NewItem(owner.ID(), name, description, available, nil)
	require.NoError(t, err)
	saved, err := r.items.Save(context.Background(), it)
	require.NoError(t, err)
	return saved
}

func (r *repos) booking(t *testing.T, it *item.Item, booker *user.User, start, end time.Time, status booking.BookingStatus) *booking.Booking {
	t.Helper()
	b, err := r.bookings.Save(context.Background(), booking.ReconstructBooking(0, start.UTC(), end.UTC(), it, booker, status, 1))
	require.NoError(t, err)
	return b
}

func TestUserRepository_SaveAndFind(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	ann := r.user(t, "Ann", "ann@example.com")
	assert.NotZero(t, ann.ID())

	got, err := r.users.FindByID(ctx, ann.ID())
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", got.Email())

	_, err = r.users.FindByID(ctx, 999)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
	assert.Equal(t, "User with ID: '999' doesn't exist", err.Error())
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	r.user(t, "Ann", "ann@example.com")
	bob := r.user(t, "Bob", "bob@example.com")

	dup, _ := user.NewUser("Other", "ann@example.com")
	_, err := r.users.Save(ctx, dup)
	assert.True(t, domain.IsKind(err, domain.KindConflict))

	email := "ann@example.com"
	patched, err := bob.Patch(nil, &email)
	require.NoError(t, err)
	err = r.users.Update(ctx, patched)
	assert.True(t, domain.IsKind(err, domain.KindConflict))
}

func TestUserRepository_DeleteCascades(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	now := time.Now().UTC()

	owner := r.user(t, "Owner", "owner@example.com")
	booker := r.user(t, "Booker", "booker@example.com")
	ownDrill := r.item(t, owner, "Drill", "Cordless drill", true)
	bookerSaw := r.item(t, booker, "Saw", "Hand saw", true)

	r.booking(t, ownDrill, booker, now.Add(-2*time.Hour), now.Add(-time.Hour), booking.StatusApproved)
	keep := r.booking(t, bookerSaw, r.user(t, "Third", "third@example.com"), now.Add(time.Hour), now.Add(2*time.Hour), booking.StatusWaiting)

	c, err := item.NewComment(ownDrill.ID(), booker.ID(), booker.Name(), "nice", now)
	require.NoError(t, err)
	_, err = r.comments.Save(ctx, c)
	require.NoError(t, err)

	req, err := request.NewItemRequest(owner.ID(), "need a ladder", now)
	require.NoError(t, err)
	req, err = r.requests.Save(ctx, req)
	require.NoError(t, err)
	reqID := req.ID()
	answer, err := item.NewItem(booker.ID(), "Ladder", "Tall ladder", true, &reqID)
	require.NoError(t, err)
	answer, err = r.items.Save(ctx, answer)
	require.NoError(t, err)

	require.NoError(t, r.users.Delete(ctx, owner.ID()))

	_, err = r.items.FindByID(ctx, ownDrill.ID())
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
	bookings, err := r.bookings.FindByItemIDs(ctx, []int64{ownDrill.ID()})
	require.NoError(t, err)
	assert.Empty(t, bookings)
	comments, err := r.comments.FindByItemIDs(ctx, []int64{ownDrill.ID()})
	require.NoError(t, err)
	assert.Empty(t, comments)
	_, err = r.requests.FindByID(ctx, reqID)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	survivor, err := r.items.FindByID(ctx, answer.ID())
	require.NoError(t, err)
	assert.Nil(t, survivor.RequestID())
	_, err = r.bookings.FindByID(ctx, keep.ID())
	require.NoError(t, err)

	assert.True(t, domain.IsKind(r.users.Delete(ctx, owner.ID()), domain.KindNotFound))
}

func TestItemRepository_Search(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	owner := r.user(t, "Owner", "owner@example.com")
	saw := r.item(t, owner, "Saw", "A sharp Drill-free saw", true)
	r.item(t, owner, "Drill", "Broken drill", false)
	r.item(t, owner, "Percent", "100% useful", true)

	found, err := r.items.Search(ctx, "drill", domain.Unpaged())
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, saw.ID(), found[0].ID())

	found, err = r.items.Search(ctx, "%", domain.Unpaged())
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Percent", found[0].Name())

	found, err = r.items.Search(ctx, "SHARP", domain.Unpaged())
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, saw.ID(), found[0].ID())
}

func TestItemRepository_FindByOwnerIDPaged(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	owner := r.user(t, "Owner", "owner@example.com")
	other := r.user(t, "Other", "other@example.com")
	var ids []int64
	for i := 0; i < 5; i++ {
		ids = append(ids, r.item(t, owner, "Thing", "Some thing", true).ID())
	}
	r.item(t, other, "Foreign", "Not mine", true)

	page, err := domain.NewPage(2, 2)
	require.NoError(t, err)
	got, err := r.items.FindByOwnerID(ctx, owner.ID(), page)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, ids[2], got[0].ID())
	assert.Equal(t, ids[3], got[1].ID())
}

func TestBookingRepository_FindMatchesStatePredicate(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	owner := r.user(t, "Owner", "owner@example.com")
	booker := r.user(t, "Booker", "booker@example.com")
	stranger := r.user(t, "Stranger", "stranger@example.com")
	drill := r.item(t, owner, "Drill", "Cordless drill", true)
	saw := r.item(t, stranger, "Saw", "Hand saw", true)

	windows := []struct{ start, end time.Duration }{
		{-72 * time.Hour, -48 * time.Hour},
		{-3 * time.Hour, -time.Hour},
		{-time.Hour, time.Hour},
		{-30 * time.Minute, 5 * time.Hour},
		{time.Hour, 2 * time.Hour},
		{48 * time.Hour, 72 * time.Hour},
	}
	statuses := []booking.BookingStatus{booking.StatusWaiting, booking.StatusApproved, booking.StatusRejected}
	var all []*booking.Booking
	for i, w := range windows {
		all = append(all, r.booking(t, drill, booker, now.Add(w.start), now.Add(w.end), statuses[i%len(statuses)]))
	}
	// noise: a booking by the same booker on an item the owner does not own
	noise := r.booking(t, saw, booker, now.Add(time.Hour), now.Add(3*time.Hour), booking.StatusWaiting)

	for _, state := range booking.States {
		for _, party := range []booking.Party{booking.PartyBooker, booking.PartyOwner} {
			userID := booker.ID()
			if party == booking.PartyOwner {
				userID = owner.ID()
			}
			got, err := r.bookings.Find(ctx, booking.Query{
				Party: party, UserID: userID, State: state, Now: now, Page: domain.Unpaged(),
			})
			require.NoError(t, err)

			var want []int64
			candidates := append([]*booking.Booking{}, all...)
			if party == booking.PartyBooker {
				candidates = append(candidates, noise)
			}
			for _, b := range candidates {
				if state.Matches(b, now) {
					want = append(want, b.ID())
				}
			}
			var gotIDs []int64
			for i, b := range got {
				gotIDs = append(gotIDs, b.ID())
				if i > 0 {
					assert.False(t, b.Start().After(got[i-1].Start()), "ordered by start descending")
				}
			}
			assert.ElementsMatch(t, want, gotIDs, "state=%s party=%d", state, party)
		}
	}
}

func TestBookingRepository_FindPaged(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	owner := r.user(t, "Owner", "owner@example.com")
	booker := r.user(t, "Booker", "booker@example.com")
	drill := r.item(t, owner, "Drill", "Cordless drill", true)

	var ids []int64
	for i := 1; i <= 5; i++ {
		b := r.booking(t, drill, booker, now.Add(time.Duration(i)*time.Hour), now.Add(time.Duration(i)*time.Hour+time.Minute), booking.StatusWaiting)
		ids = append(ids, b.ID())
	}

	page, err := domain.NewPage(3, 2)
	require.NoError(t, err)
	got, err := r.bookings.Find(ctx, booking.Query{Party: booking.PartyBooker, UserID: booker.ID(), State: booking.StateAll, Now: now, Page: page})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, ids[2], got[0].ID())
	assert.Equal(t, ids[1], got[1].ID())
	assert.Equal(t, drill.Name(), got[0].Item().Name())
	assert.Equal(t, booker.Email(), got[0].Booker().Email())
}

func TestBookingRepository_UpdateOptimisticLock(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	now := time.Now().UTC()
	owner := r.user(t, "Owner", "owner@example.com")
	booker := r.user(t, "Booker", "booker@example.com")
	drill := r.item(t, owner, "Drill", "Cordless drill", true)
	b := r.booking(t, drill, booker, now.Add(time.Hour), now.Add(2*time.Hour), booking.StatusWaiting)

	approved, err := b.Decide(owner.ID(), true)
	require.NoError(t, err)
	require.NoError(t, r.bookings.Update(ctx, approved))

	stale, err := b.Decide(owner.ID(), false)
	require.NoError(t, err)
	assert.True(t, domain.IsKind(r.bookings.Update(ctx, stale), domain.KindConflict))

	got, err := r.bookings.FindByIDForUpdate(ctx, b.ID())
	require.NoError(t, err)
	assert.Equal(t, booking.StatusApproved, got.Status())
	assert.Equal(t, int64(2), got.Version())
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := r.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		u, _ := user.NewUser("Ann", "ann@example.com")
		if _, err := r.users.Save(ctx, u); err != nil {
			return err
		}
		return r.tx.WithinTransaction(ctx, func(ctx context.Context) error { return boom })
	})
	require.ErrorIs(t, err, boom)

	users, err := r.users.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestRequestRepository_Ordering(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	now := time.Now().UTC()
	ann := r.user(t, "Ann", "ann@example.com")
	bob := r.user(t, "Bob", "bob@example.com")

	for i, desc := range []string{"first", "second", "third"} {
		req, err := request.NewItemRequest(ann.ID(), desc, now.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		_, err = r.requests.Save(ctx, req)
		require.NoError(t, err)
	}

	own, err := r.requests.FindByRequesterID(ctx, ann.ID())
	require.NoError(t, err)
	require.Len(t, own, 3)
	assert.Equal(t, "third", own[0].Description())

	others, err := r.requests.FindOthers(ctx, bob.ID(), domain.Unpaged())
	require.NoError(t, err)
	assert.Len(t, others, 3)

	others, err = r.requests.FindOthers(ctx, ann.ID(), domain.Unpaged())
	require.NoError(t, err)
	assert.Empty(t, others)
}
