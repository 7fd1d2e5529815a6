package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medleaf/pharmakit"
	"github.com/medleaf/pharmakit/api"
)

// The persisted keys. These mirror the storage keys the web client used,
// unversioned and informal by inheritance.
const (
	KeyToken           = "token"
	KeyUser            = "user"
	KeyCart            = "cart"
	KeyConversationID  = "chatbot_convo_id"
	KeyRememberMe      = "rememberMe"
	KeyRememberedEmail = "rememberedEmail"
	KeyStaffToken      = "staffToken"
	KeyStaffUser       = "staffUser"
)

// Keyring is the typed surface over the session store. It implements
// api.TokenSource (the customer token) and cart.GuestStore (the guest
// cart), so one Keyring wires auth and guest persistence into the rest of
// the SDK.
type Keyring struct {
	store pharmakit.Store
	ttl   time.Duration
}

// NewKeyring creates a keyring over the given store. ttl applies to every
// key written (0 means no expiry).
func NewKeyring(store pharmakit.Store, ttl time.Duration) *Keyring {
	return &Keyring{store: store, ttl: ttl}
}

// Token returns the stored customer token. An empty token with nil error
// means unauthenticated, which the API client translates to "no
// Authorization header".
func (k *Keyring) Token(ctx context.Context) (string, error) {
	return k.store.Get(ctx, KeyToken)
}

// SetToken stores the customer token
func (k *Keyring) SetToken(ctx context.Context, token string) error {
	return k.store.Set(ctx, KeyToken, token, k.ttl)
}

// Authenticated reports whether a customer token is stored.
func (k *Keyring) Authenticated(ctx context.Context) bool {
	token, err := k.store.Get(ctx, KeyToken)
	return err == nil && token != ""
}

// User returns the cached user record
func (k *Keyring) User(ctx context.Context) (*api.User, error) {
	raw, err := k.store.Get(ctx, KeyUser)
	if err != nil || raw == "" {
		return nil, err
	}
	var u api.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("stored user is corrupt: %w", err)
	}
	return &u, nil
}

// SetUser caches the user record
func (k *Keyring) SetUser(ctx context.Context, u api.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return k.store.Set(ctx, KeyUser, string(data), k.ttl)
}

// GuestCart returns the locally persisted guest cart. No stored cart is an
// empty cart, not an error.
func (k *Keyring) GuestCart(ctx context.Context) ([]api.CartItem, error) {
	raw, err := k.store.Get(ctx, KeyCart)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return []api.CartItem{}, nil
	}
	var items []api.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("stored cart is corrupt: %w", err)
	}
	return items, nil
}

// SaveGuestCart persists the guest cart
func (k *Keyring) SaveGuestCart(ctx context.Context, items []api.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return k.store.Set(ctx, KeyCart, string(data), k.ttl)
}

// ConversationID returns the chatbot conversation id, minting and
// persisting one on first use so a conversation survives reloads.
func (k *Keyring) ConversationID(ctx context.Context) (string, error) {
	id, err := k.store.Get(ctx, KeyConversationID)
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}
	id = uuid.New().String()
	if err := k.store.Set(ctx, KeyConversationID, id, k.ttl); err != nil {
		return "", err
	}
	return id, nil
}

// RememberEmail stores the remembered login email and the remember-me flag
func (k *Keyring) RememberEmail(ctx context.Context, email string) error {
	if err := k.store.Set(ctx, KeyRememberMe, "true", k.ttl); err != nil {
		return err
	}
	return k.store.Set(ctx, KeyRememberedEmail, email, k.ttl)
}

// RememberedEmail returns the remembered email, or "" when remember-me is off
func (k *Keyring) RememberedEmail(ctx context.Context) (string, error) {
	flag, err := k.store.Get(ctx, KeyRememberMe)
	if err != nil || flag != "true" {
		return "", err
	}
	return k.store.Get(ctx, KeyRememberedEmail)
}

// ForgetEmail clears the remember-me state
func (k *Keyring) ForgetEmail(ctx context.Context) error {
	if err := k.store.Delete(ctx, KeyRememberMe); err != nil {
		return err
	}
	return k.store.Delete(ctx, KeyRememberedEmail)
}

type staffTokenSource struct{ k *Keyring }

func (s staffTokenSource) Token(ctx context.Context) (string, error) {
	return s.k.store.Get(ctx, KeyStaffToken)
}

// StaffTokenSource returns an api.TokenSource backed by the staff token,
// so an admin-as-staff client can run alongside the admin's own session.
func (k *Keyring) StaffTokenSource() api.TokenSource {
	return staffTokenSource{k: k}
}

// SetStaffSession stores an admin-as-staff impersonation session under the
// staff keys, leaving the admin's own token untouched.
func (k *Keyring) SetStaffSession(ctx context.Context, s api.StaffSession) error {
	if err := k.store.Set(ctx, KeyStaffToken, s.Token, k.ttl); err != nil {
		return err
	}
	data, err := json.Marshal(s.Staff)
	if err != nil {
		return err
	}
	return k.store.Set(ctx, KeyStaffUser, string(data), k.ttl)
}

// StaffUser returns the impersonated staff record
func (k *Keyring) StaffUser(ctx context.Context) (*api.StaffMember, error) {
	raw, err := k.store.Get(ctx, KeyStaffUser)
	if err != nil || raw == "" {
		return nil, err
	}
	var m api.StaffMember
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("stored staff user is corrupt: %w", err)
	}
	return &m, nil
}

// ClearStaffSession drops the impersonation session
func (k *Keyring) ClearStaffSession(ctx context.Context) error {
	if err := k.store.Delete(ctx, KeyStaffToken); err != nil {
		return err
	}
	return k.store.Delete(ctx, KeyStaffUser)
}

// Clear wipes the whole session: tokens, cached user, guest cart and
// conversation id. Remember-me keys survive a logout on purpose.
func (k *Keyring) Clear(ctx context.Context) error {
	for _, key := range []string{KeyToken, KeyUser, KeyCart, KeyConversationID, KeyStaffToken, KeyStaffUser} {
		if err := k.store.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
