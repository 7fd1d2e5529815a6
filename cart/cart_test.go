package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medleaf/pharmakit"
)

var errRemoteDown = errors.New("remote down")

// fakeRemote records calls and fails on demand.
type fakeRemote struct {
	items       []Item
	failNext    bool
	addCalls    int
	updateCalls int
	removeCalls int
	replaced    [][]Item
}

func (f *fakeRemote) fail() error {
	if f.failNext {
		f.failNext = false
		return errRemoteDown
	}
	return nil
}

func (f *fakeRemote) Get(ctx context.Context) ([]Item, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return f.items, nil
}

func (f *fakeRemote) Add(ctx context.Context, item Item) error {
	f.addCalls++
	return f.fail()
}

func (f *fakeRemote) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	f.updateCalls++
	return f.fail()
}

func (f *fakeRemote) Remove(ctx context.Context, productID string) error {
	f.removeCalls++
	return f.fail()
}

func (f *fakeRemote) Replace(ctx context.Context, items []Item) error {
	if err := f.fail(); err != nil {
		return err
	}
	f.replaced = append(f.replaced, items)
	return nil
}

func (f *fakeRemote) Clear(ctx context.Context) error {
	return f.fail()
}

func loadedStore(t *testing.T, remote *fakeRemote) *Store {
	t.Helper()
	s := New(remote)
	require.NoError(t, s.Load(context.Background()))
	return s
}

func TestAdd_SameProductMergesQuantity(t *testing.T) {
	remote := &fakeRemote{}
	s := loadedStore(t, remote)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, Item{ID: "p1", Name: "Paracetamol", Price: 4.5, Quantity: 1, Stock: 10}))
	require.NoError(t, s.Add(ctx, Item{ID: "p1", Name: "Paracetamol", Price: 4.5, Quantity: 1, Stock: 10}))

	items := s.Items()
	require.Len(t, items, 1, "adding the same product twice must not duplicate the row")
	assert.Equal(t, 2, items[0].Quantity)
}

func TestAdd_RespectsStockCeiling(t *testing.T) {
	remote := &fakeRemote{}
	s := loadedStore(t, remote)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, Item{ID: "p1", Quantity: 2, Stock: 3}))
	err := s.Add(ctx, Item{ID: "p1", Quantity: 2, Stock: 3})

	assert.ErrorIs(t, err, pharmakit.ErrStockExceeded)
	assert.Equal(t, 2, s.Items()[0].Quantity, "failed add must not change the cart")
	assert.Equal(t, 1, remote.addCalls, "rejected add must not reach the remote")
}

func TestAdd_RollsBackOnRemoteFailure(t *testing.T) {
	remote := &fakeRemote{}
	s := loadedStore(t, remote)
	ctx := context.Background()

	remote.failNext = true
	err := s.Add(ctx, Item{ID: "p1", Quantity: 1})

	assert.ErrorIs(t, err, errRemoteDown)
	assert.Empty(t, s.Items(), "failed add must restore the pre-mutation state")
}

func TestDecrement_AtOneRemovesRow(t *testing.T) {
	remote := &fakeRemote{}
	s := loadedStore(t, remote)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, Item{ID: "p1", Quantity: 1, Stock: 5}))
	require.NoError(t, s.Decrement("p1"))

	assert.Empty(t, s.Items(), "decrementing quantity 1 must remove the row, never render 0")
}

func TestIncrement_StopsAtStock(t *testing.T) {
	remote := &fakeRemote{}
	s := loadedStore(t, remote)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, Item{ID: "p1", Quantity: 2, Stock: 2}))
	err := s.Increment("p1")

	assert.ErrorIs(t, err, pharmakit.ErrStockExceeded)
	assert.Equal(t, 2, s.Items()[0].Quantity)
}

func TestUpdateQuantity_OptimisticRollback(t *testing.T) {
	remote := &fakeRemote{}
	s := loadedStore(t, remote)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, Item{ID: "p1", Quantity: 2, Stock: 10}))

	remote.failNext = true
	err := s.UpdateQuantity(ctx, "p1", 5)

	assert.ErrorIs(t, err, errRemoteDown)
	assert.Equal(t, 2, s.Items()[0].Quantity, "failed update must restore the old quantity")
}

func TestStageAndSync(t *testing.T) {
	remote := &fakeRemote{}
	s := loadedStore(t, remote)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, Item{ID: "p1", Quantity: 1, Stock: 10}))
	assert.False(t, s.Dirty())

	require.NoError(t, s.StageQuantity("p1", 4))
	assert.True(t, s.Dirty(), "staged edits enable the update action")
	assert.Equal(t, 0, remote.updateCalls, "staging must not call the remote")

	require.NoError(t, s.Sync(ctx))
	assert.False(t, s.Dirty())
	require.Len(t, remote.replaced, 1)
	assert.Equal(t, 4, remote.replaced[0][0].Quantity)
}

func TestSync_KeepsLocalStateOnFailure(t *testing.T) {
	remote := &fakeRemote{}
	s := loadedStore(t, remote)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, Item{ID: "p1", Quantity: 1, Stock: 10}))
	require.NoError(t, s.StageQuantity("p1", 3))

	remote.failNext = true
	err := s.Sync(ctx)

	assert.ErrorIs(t, err, errRemoteDown)
	assert.Equal(t, 3, s.Items()[0].Quantity, "staged edits survive a failed sync")
	assert.True(t, s.Dirty(), "store stays dirty so the user can retry")
}

func TestSubtotalAndCount(t *testing.T) {
	remote := &fakeRemote{}
	s := loadedStore(t, remote)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, Item{ID: "p1", Price: 2.5, Quantity: 2, Stock: 10}))
	require.NoError(t, s.Add(ctx, Item{ID: "p2", Price: 10, Quantity: 1, Stock: 10}))

	assert.Equal(t, 3, s.Count())
	assert.InDelta(t, 15.0, s.Subtotal(), 1e-9)
}

type mapGuestStore struct {
	saved []Item
}

func (g *mapGuestStore) GuestCart(ctx context.Context) ([]Item, error) {
	return append([]Item(nil), g.saved...), nil
}

func (g *mapGuestStore) SaveGuestCart(ctx context.Context, items []Item) error {
	g.saved = append([]Item(nil), items...)
	return nil
}

func TestGuestCart_PersistsLocally(t *testing.T) {
	guest := &mapGuestStore{saved: []Item{{ID: "p1", Quantity: 1, Stock: 5}}}
	s := New(nil,
		WithGuestFallback(guest),
		WithAuthCheck(func(ctx context.Context) bool { return false }),
	)
	ctx := context.Background()

	require.NoError(t, s.Load(ctx))
	require.Len(t, s.Items(), 1)

	require.NoError(t, s.Add(ctx, Item{ID: "p2", Quantity: 2}))
	require.Len(t, guest.saved, 2, "guest mutations persist through the keyring")
}

func TestSubscribe_NotifiesOnMutation(t *testing.T) {
	remote := &fakeRemote{}
	s := loadedStore(t, remote)
	ctx := context.Background()

	var events int
	unsub := s.Subscribe(func([]Item) { events++ })
	defer unsub()

	require.NoError(t, s.Add(ctx, Item{ID: "p1", Quantity: 1}))
	assert.Greater(t, events, 0)
}
