package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medleaf/pharmakit"
	"github.com/medleaf/pharmakit/api"
)

func newKeyring() *Keyring {
	return NewKeyring(NewMemoryStore(), 0)
}

func TestKeyring_TokenRoundTrip(t *testing.T) {
	k := newKeyring()
	ctx := context.Background()

	token, err := k.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token, "no stored token means unauthenticated, not an error")
	assert.False(t, k.Authenticated(ctx))

	require.NoError(t, k.SetToken(ctx, "abc123"))
	token, err = k.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)
	assert.True(t, k.Authenticated(ctx))
}

func TestKeyring_GuestCartRoundTrip(t *testing.T) {
	k := newKeyring()
	ctx := context.Background()

	items, err := k.GuestCart(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	saved := []api.CartItem{{ID: "p1", Name: "Ibuprofen", Price: 3.2, Quantity: 2}}
	require.NoError(t, k.SaveGuestCart(ctx, saved))

	items, err = k.GuestCart(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved, items)
}

func TestKeyring_ConversationIDMintedOnce(t *testing.T) {
	k := newKeyring()
	ctx := context.Background()

	first, err := k.ConversationID(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, first)

	second, err := k.ConversationID(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second, "conversation id survives across calls")
}

func TestKeyring_RememberEmail(t *testing.T) {
	k := newKeyring()
	ctx := context.Background()

	email, err := k.RememberedEmail(ctx)
	require.NoError(t, err)
	assert.Empty(t, email)

	require.NoError(t, k.RememberEmail(ctx, "asha@example.com"))
	email, err = k.RememberedEmail(ctx)
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", email)

	require.NoError(t, k.ForgetEmail(ctx))
	email, err = k.RememberedEmail(ctx)
	require.NoError(t, err)
	assert.Empty(t, email)
}

func TestKeyring_StaffSessionIsolatedFromCustomerToken(t *testing.T) {
	k := newKeyring()
	ctx := context.Background()

	require.NoError(t, k.SetToken(ctx, "admin-token"))
	require.NoError(t, k.SetStaffSession(ctx, api.StaffSession{
		Token: "staff-token",
		Staff: api.StaffMember{ID: "s1", Name: "Ravi", Role: "pharmacist"},
	}))

	adminToken, err := k.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "admin-token", adminToken)

	staffToken, err := k.StaffTokenSource().Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "staff-token", staffToken)

	staff, err := k.StaffUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "pharmacist", staff.Role)

	require.NoError(t, k.ClearStaffSession(ctx))
	staffToken, err = k.StaffTokenSource().Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, staffToken)

	adminToken, err = k.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "admin-token", adminToken, "dropping impersonation keeps the admin session")
}

func TestKeyring_ClearKeepsRememberedEmail(t *testing.T) {
	k := newKeyring()
	ctx := context.Background()

	require.NoError(t, k.SetToken(ctx, "abc"))
	require.NoError(t, k.SaveGuestCart(ctx, []api.CartItem{{ID: "p1", Quantity: 1}}))
	require.NoError(t, k.RememberEmail(ctx, "asha@example.com"))

	require.NoError(t, k.Clear(ctx))

	assert.False(t, k.Authenticated(ctx))
	items, err := k.GuestCart(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	email, err := k.RememberedEmail(ctx)
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", email)
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestInspectToken(t *testing.T) {
	k := newKeyring()
	ctx := context.Background()

	_, err := k.InspectToken(ctx)
	assert.ErrorIs(t, err, pharmakit.ErrNoToken)

	exp := time.Now().Add(time.Hour)
	require.NoError(t, k.SetToken(ctx, signedToken(t, jwt.MapClaims{
		"sub": "user-42",
		"exp": exp.Unix(),
	})))

	info, err := k.InspectToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-42", info.Subject)
	assert.False(t, info.Expired)
	assert.WithinDuration(t, exp, info.ExpiresAt, time.Second)
}

func TestValidToken_ClearsExpired(t *testing.T) {
	k := newKeyring()
	ctx := context.Background()

	require.NoError(t, k.SetToken(ctx, signedToken(t, jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})))

	_, err := k.ValidToken(ctx)
	assert.ErrorIs(t, err, pharmakit.ErrTokenExpired)

	token, err := k.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token, "expired token is cleared from the store")
}

func TestMemoryStore_TTL(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v", 10*time.Millisecond))

	value, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", value)

	time.Sleep(20 * time.Millisecond)

	value, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, value, "expired keys read as absent")

	exists, err := store.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)
}
