// Package cart implements the shopping cart store: a local mirror of the
// remote cart with optimistic mutation, a dirty check driving the
// "Update Cart" action, and a session-backed fallback for guests.
//
// Two mutation flows exist, matching how the storefront uses them:
//
//   - Add, Remove, UpdateQuantity and Clear are optimistic: the local state
//     changes immediately, the remote call follows, and a failure restores
//     the pre-mutation snapshot.
//   - The quantity +/- controls on the cart page only stage local edits
//     (StageQuantity, Increment, Decrement). Dirty reports whether staged
//     edits exist and Sync pushes them all at once.
//
// Guests have no remote cart; every mutation is persisted through the
// session keyring instead and merged server-side after login.
package cart

import (
	"context"
	"fmt"

	"github.com/medleaf/pharmakit"
	"github.com/medleaf/pharmakit/api"
	"github.com/medleaf/pharmakit/mirror"
)

// Item is one cart row.
type Item = api.CartItem

// Remote is the server side of the cart. *api.CartService implements it.
type Remote interface {
	Get(ctx context.Context) ([]Item, error)
	Add(ctx context.Context, item Item) error
	UpdateQuantity(ctx context.Context, productID string, quantity int) error
	Remove(ctx context.Context, productID string) error
	Replace(ctx context.Context, items []Item) error
	Clear(ctx context.Context) error
}

// GuestStore persists a guest cart locally. session.Keyring implements it.
type GuestStore interface {
	GuestCart(ctx context.Context) ([]Item, error)
	SaveGuestCart(ctx context.Context, items []Item) error
}

// Store is the cart. One Store instance is shared by everything that
// renders the cart; readers follow changes through Subscribe.
type Store struct {
	mirror *mirror.Mirror[[]Item]
	remote Remote
	guest  GuestStore
	authed func(ctx context.Context) bool
	logger pharmakit.Logger
}

// Option configures the Store
type Option func(*Store)

// WithGuestFallback sets the local persistence used when unauthenticated.
func WithGuestFallback(gs GuestStore) Option {
	return func(s *Store) { s.guest = gs }
}

// WithAuthCheck sets how the store decides between the remote cart and the
// guest fallback. The default treats a non-nil Remote as authenticated.
func WithAuthCheck(fn func(ctx context.Context) bool) Option {
	return func(s *Store) { s.authed = fn }
}

// WithLogger sets the logger
func WithLogger(l pharmakit.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// New creates an empty cart store.
func New(remote Remote, opts ...Option) *Store {
	s := &Store{
		mirror: mirror.New([]Item{}, cloneItems),
		remote: remote,
		logger: &pharmakit.NoOpLogger{},
	}
	s.authed = func(ctx context.Context) bool { return s.remote != nil }
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load initializes the cart from the remote collection, or from the guest
// store when unauthenticated. The loaded state becomes the synced baseline.
func (s *Store) Load(ctx context.Context) error {
	if s.authed(ctx) {
		items, err := s.remote.Get(ctx)
		if err != nil {
			return fmt.Errorf("cart.Load: %w", err)
		}
		s.mirror.Reset(items)
		return nil
	}
	if s.guest == nil {
		s.mirror.Reset([]Item{})
		return nil
	}
	items, err := s.guest.GuestCart(ctx)
	if err != nil {
		return fmt.Errorf("cart.Load: %w", err)
	}
	s.mirror.Reset(items)
	return nil
}

// Items returns a copy of the current cart rows.
func (s *Store) Items() []Item {
	return s.mirror.Get()
}

// Count returns the total quantity across all rows.
func (s *Store) Count() int {
	n := 0
	for _, it := range s.mirror.Get() {
		n += it.Quantity
	}
	return n
}

// Subtotal returns the derived cart total.
func (s *Store) Subtotal() float64 {
	total := 0.0
	for _, it := range s.mirror.Get() {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// Subscribe registers a listener for cart changes and returns an
// unsubscribe function.
func (s *Store) Subscribe(fn func([]Item)) func() {
	return s.mirror.Subscribe(fn)
}

// Add puts a product in the cart. Adding a product id already present
// merges quantities instead of duplicating the row. The merged quantity is
// checked against the stock ceiling captured at load time before anything
// changes.
func (s *Store) Add(ctx context.Context, item Item) error {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	items := s.mirror.Get()
	merged := item.Quantity
	for _, it := range items {
		if it.ID == item.ID {
			merged += it.Quantity
			if item.Stock == 0 {
				item.Stock = it.Stock
			}
			break
		}
	}
	if item.Stock > 0 && merged > item.Stock {
		return &pharmakit.ClientError{Op: "cart.Add", Kind: "cart", ID: item.ID, Err: pharmakit.ErrStockExceeded}
	}

	snapshot := s.mirror.Snapshot()
	s.mirror.Mutate(func(items []Item) []Item {
		for i := range items {
			if items[i].ID == item.ID {
				items[i].Quantity = merged
				return items
			}
		}
		return append(items, item)
	})

	if err := s.commit(ctx, "cart.Add", item.ID, snapshot, func() error {
		return s.remote.Add(ctx, item)
	}); err != nil {
		return err
	}
	return nil
}

// UpdateQuantity sets a row's quantity optimistically, issuing the remote
// update immediately. A quantity below 1 removes the row. The stock
// ceiling is enforced before mutation.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return s.Remove(ctx, productID)
	}
	if err := s.checkCeiling("cart.UpdateQuantity", productID, quantity); err != nil {
		return err
	}

	snapshot := s.mirror.Snapshot()
	s.mirror.Mutate(setQuantity(productID, quantity))

	return s.commit(ctx, "cart.UpdateQuantity", productID, snapshot, func() error {
		return s.remote.UpdateQuantity(ctx, productID, quantity)
	})
}

// Remove deletes a row optimistically.
func (s *Store) Remove(ctx context.Context, productID string) error {
	snapshot := s.mirror.Snapshot()
	s.mirror.Mutate(func(items []Item) []Item {
		out := items[:0]
		for _, it := range items {
			if it.ID != productID {
				out = append(out, it)
			}
		}
		return out
	})

	return s.commit(ctx, "cart.Remove", productID, snapshot, func() error {
		return s.remote.Remove(ctx, productID)
	})
}

// Clear empties the cart after checkout completes.
func (s *Store) Clear(ctx context.Context) error {
	snapshot := s.mirror.Snapshot()
	s.mirror.Mutate(func([]Item) []Item { return []Item{} })

	return s.commit(ctx, "cart.Clear", "", snapshot, func() error {
		return s.remote.Clear(ctx)
	})
}

// StageQuantity records a quantity edit locally without a remote call.
// The edit shows up in Dirty and is pushed by Sync. A quantity below 1
// stages the row's removal. The stock ceiling applies as in UpdateQuantity.
func (s *Store) StageQuantity(productID string, quantity int) error {
	if quantity < 1 {
		s.mirror.Mutate(func(items []Item) []Item {
			out := items[:0]
			for _, it := range items {
				if it.ID != productID {
					out = append(out, it)
				}
			}
			return out
		})
		return nil
	}
	if err := s.checkCeiling("cart.StageQuantity", productID, quantity); err != nil {
		return err
	}
	s.mirror.Mutate(setQuantity(productID, quantity))
	return nil
}

// Increment stages quantity+1 for a row.
func (s *Store) Increment(productID string) error {
	return s.StageQuantity(productID, s.quantityOf(productID)+1)
}

// Decrement stages quantity-1 for a row; at quantity 1 it stages removal
// so a zero quantity is never rendered.
func (s *Store) Decrement(productID string) error {
	return s.StageQuantity(productID, s.quantityOf(productID)-1)
}

// Dirty reports whether staged edits differ from the last-synced state.
// The comparison is order-sensitive, so reordering identical rows counts
// as dirty.
func (s *Store) Dirty() bool {
	return s.mirror.Dirty()
}

// Sync pushes the staged cart to the remote collection (or the guest
// store) and adopts it as the synced baseline. Local state is kept on
// failure so the user can retry; the store stays dirty.
func (s *Store) Sync(ctx context.Context) error {
	if !s.mirror.Dirty() {
		return nil
	}
	items := s.mirror.Get()
	if s.authed(ctx) {
		if err := s.remote.Replace(ctx, items); err != nil {
			return fmt.Errorf("cart.Sync: %w", err)
		}
	} else if s.guest != nil {
		if err := s.guest.SaveGuestCart(ctx, items); err != nil {
			return fmt.Errorf("cart.Sync: %w", err)
		}
	}
	s.mirror.MarkSynced()
	return nil
}

// commit finishes an optimistic mutation: guests persist locally, while
// authenticated carts issue the remote call and roll back to the snapshot
// on failure. A successful remote call adopts the new state as synced.
func (s *Store) commit(ctx context.Context, op, id string, snapshot []Item, remoteCall func() error) error {
	if !s.authed(ctx) {
		if s.guest != nil {
			if err := s.guest.SaveGuestCart(ctx, s.mirror.Get()); err != nil {
				s.mirror.Restore(snapshot)
				return &pharmakit.ClientError{Op: op, Kind: "cart", ID: id, Err: err}
			}
		}
		s.mirror.MarkSynced()
		return nil
	}
	if err := remoteCall(); err != nil {
		s.mirror.Restore(snapshot)
		s.logger.Warn("cart mutation rolled back", map[string]interface{}{
			"operation": op,
			"product":   id,
			"error":     err.Error(),
		})
		return &pharmakit.ClientError{Op: op, Kind: "cart", ID: id, Err: err}
	}
	s.mirror.MarkSynced()
	return nil
}

func (s *Store) checkCeiling(op, productID string, quantity int) error {
	for _, it := range s.mirror.Get() {
		if it.ID == productID && it.Stock > 0 && quantity > it.Stock {
			return &pharmakit.ClientError{Op: op, Kind: "cart", ID: productID, Err: pharmakit.ErrStockExceeded}
		}
	}
	return nil
}

func (s *Store) quantityOf(productID string) int {
	for _, it := range s.mirror.Get() {
		if it.ID == productID {
			return it.Quantity
		}
	}
	return 0
}

func setQuantity(productID string, quantity int) func([]Item) []Item {
	return func(items []Item) []Item {
		for i := range items {
			if items[i].ID == productID {
				items[i].Quantity = quantity
			}
		}
		return items
	}
}
