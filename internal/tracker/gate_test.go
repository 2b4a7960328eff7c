package tracker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/models"
	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/testutil"
)

func loaded(items ...models.Item) ItemLookup {
	return func(id string) (models.Item, bool) {
		for _, it := range items {
			if it.ID == id {
				return it, true
			}
		}
		return models.Item{}, false
	}
}

func TestGateBypassesItemsWithoutPIN(t *testing.T) {
	g := NewAccessGate()
	it := models.Item{ID: "a", PINCode: "1234"}

	assert.False(t, g.Select(it))
	assert.Equal(t, GateState{Phase: GateLocked}, g.State())
}

func TestGateScenario(t *testing.T) {
	g := NewAccessGate()
	it := models.Item{ID: "safe", HasPIN: true, PINCode: "1234"}

	lookup := loaded(it)
	require.True(t, g.Select(it))
	assert.Equal(t, GateChallenging, g.State().Phase)

	_, err := g.Submit("0000", lookup)
	assert.ErrorIs(t, err, ErrIncorrectPIN)
	assert.Equal(t, GateState{Phase: GateChallenging, ItemID: "safe"}, g.State())
	assert.False(t, g.IsUnlocked("safe"))

	id, err := g.Submit("1234", lookup)
	require.NoError(t, err)
	assert.Equal(t, "safe", id)
	assert.True(t, g.IsUnlocked("safe"))
	assert.Equal(t, GateLocked, g.State().Phase)

	assert.False(t, g.Select(it), "unlocked items skip the challenge")
}

func TestGateSubmitExactMatchOnly(t *testing.T) {
	entries := []string{"0000", "1233", "1235", "4321", "2134", "9999"}
	for _, e := range entries {
		g := NewAccessGate()
		it := models.Item{ID: "x", HasPIN: true, PINCode: "1234"}
		g.Select(it)
		_, err := g.Submit(e, loaded(it))
		assert.ErrorIs(t, err, ErrIncorrectPIN, e)
		assert.Equal(t, GateChallenging, g.State().Phase)
		assert.Zero(t, g.State().Entered)
	}
}

func TestGateDigitEntry(t *testing.T) {
	g := NewAccessGate()
	assert.ErrorIs(t, g.Enter('1'), ErrNoChallenge)

	it := models.Item{ID: "x", HasPIN: true, PINCode: "2580"}
	g.Select(it)
	assert.True(t, IsValidation(g.Enter('a')))
	for _, d := range []byte("25801") {
		require.NoError(t, g.Enter(d))
	}
	assert.Equal(t, 4, g.State().Entered)

	id, err := g.Submit("", loaded(it))
	require.NoError(t, err)
	assert.Equal(t, "x", id)
}

func TestGateWrongDigitsAreCleared(t *testing.T) {
	g := NewAccessGate()
	it := models.Item{ID: "x", HasPIN: true, PINCode: "2580"}
	g.Select(it)
	for _, d := range []byte("1111") {
		require.NoError(t, g.Enter(d))
	}
	_, err := g.Submit("", loaded(it))
	assert.ErrorIs(t, err, ErrIncorrectPIN)
	assert.Zero(t, g.State().Entered)
}

func TestGateCancel(t *testing.T) {
	g := NewAccessGate()
	it := models.Item{ID: "x", HasPIN: true, PINCode: "1234"}
	g.Select(it)
	require.NoError(t, g.Enter('1'))

	g.Cancel()
	assert.Equal(t, GateState{Phase: GateLocked}, g.State())
	_, err := g.Submit("1234", loaded(it))
	assert.ErrorIs(t, err, ErrNoChallenge)
	assert.False(t, g.IsUnlocked("x"))
}

func TestGateVerifiesBcryptPIN(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("1234"), bcrypt.MinCost)
	require.NoError(t, err)

	g := NewAccessGate()
	it := models.Item{ID: "x", HasPIN: true, PINCode: string(hash)}
	g.Select(it)
	_, err = g.Submit(string(hash), loaded(it))
	assert.ErrorIs(t, err, ErrIncorrectPIN)
	id, err := g.Submit("1234", loaded(it))
	require.NoError(t, err)
	assert.Equal(t, "x", id)
}

func TestGateChecksCurrentPIN(t *testing.T) {
	g := NewAccessGate()
	g.Select(models.Item{ID: "x", HasPIN: true, PINCode: "1234"})
	changed := loaded(models.Item{ID: "x", HasPIN: true, PINCode: "5678"})

	_, err := g.Submit("1234", changed)
	assert.ErrorIs(t, err, ErrIncorrectPIN)
	assert.False(t, g.IsUnlocked("x"))

	id, err := g.Submit("5678", changed)
	require.NoError(t, err)
	assert.Equal(t, "x", id)
}

func TestGateClosesChallengeForRemovedItem(t *testing.T) {
	g := NewAccessGate()
	g.Select(models.Item{ID: "x", HasPIN: true, PINCode: "1234"})

	_, err := g.Submit("1234", loaded())
	assert.ErrorIs(t, err, ErrUnknownItem)
	assert.False(t, g.IsUnlocked("x"))
	assert.Equal(t, GateState{Phase: GateLocked}, g.State())
}

func TestSessionPINChangeWhileChallenged(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	it, err := s.AddItem(ctx, ItemDraft{Name: "Safe", Location: "Office", HasPIN: true, PIN: "1234"})
	require.NoError(t, err)
	sel, err := s.SelectItem(it.ID)
	require.NoError(t, err)
	require.True(t, sel.Challenge)

	_, err = s.UpdateItem(ctx, it.ID, ItemDraft{Name: "Safe", Location: "Office", HasPIN: true, PIN: "5678"})
	require.NoError(t, err)

	_, err = s.SubmitPIN("1234")
	assert.ErrorIs(t, err, ErrIncorrectPIN)
	id, err := s.SubmitPIN("5678")
	require.NoError(t, err)
	assert.Equal(t, it.ID, id)
}

func TestSessionSubmitAfterRemove(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	it, err := s.AddItem(ctx, ItemDraft{Name: "Safe", Location: "Office", HasPIN: true, PIN: "1234"})
	require.NoError(t, err)
	_, err = s.SelectItem(it.ID)
	require.NoError(t, err)
	_, err = s.RemoveItem(ctx, it.ID)
	require.NoError(t, err)

	_, err = s.SubmitPIN("1234")
	assert.ErrorIs(t, err, ErrUnknownItem)
	assert.False(t, s.Gate.IsUnlocked(it.ID))
	assert.Empty(t, s.Router.Screen().Expanded)
}

func TestSessionSelectAndUnlock(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	plain, err := s.AddItem(ctx, ItemDraft{Name: "Lamp", Location: "Desk"})
	require.NoError(t, err)
	locked, err := s.AddItem(ctx, ItemDraft{Name: "Safe", Location: "Office", HasPIN: true, PIN: "1234"})
	require.NoError(t, err)

	sel, err := s.SelectItem(plain.ID)
	require.NoError(t, err)
	assert.Equal(t, Selection{Expanded: plain.ID}, sel)
	sel, err = s.SelectItem(plain.ID)
	require.NoError(t, err)
	assert.Equal(t, Selection{}, sel, "second select collapses")

	sel, err = s.SelectItem(locked.ID)
	require.NoError(t, err)
	assert.True(t, sel.Challenge)

	_, err = s.SubmitPIN("0000")
	assert.ErrorIs(t, err, ErrIncorrectPIN)
	assert.Empty(t, s.Router.Screen().Expanded)

	id, err := s.SubmitPIN("1234")
	require.NoError(t, err)
	assert.Equal(t, locked.ID, id)
	assert.Equal(t, locked.ID, s.Router.Screen().Expanded)

	_, err = s.SelectItem("nope")
	assert.ErrorIs(t, err, ErrUnknownItem)
}

func TestSessionHashedPINs(t *testing.T) {
	gw := newFlakyGateway(t)
	s := NewSession(gw, testOwner, Options{HashPINs: true, Logger: testutil.DiscardLogger()})
	ctx := context.Background()

	it, err := s.AddItem(ctx, ItemDraft{Name: "Safe", Location: "Office", HasPIN: true, PIN: "1234"})
	require.NoError(t, err)
	assert.NotEqual(t, "1234", it.PINCode)
	assert.True(t, isBcryptHash(it.PINCode))

	sel, err := s.SelectItem(it.ID)
	require.NoError(t, err)
	require.True(t, sel.Challenge)
	_, err = s.SubmitPIN("1234")
	require.NoError(t, err)
}

func TestFreshSessionStartsLocked(t *testing.T) {
	gw := newFlakyGateway(t)
	ctx := context.Background()

	first := NewSession(gw, testOwner, Options{Logger: testutil.DiscardLogger()})
	it, err := first.AddItem(ctx, ItemDraft{Name: "Safe", Location: "Office", HasPIN: true, PIN: "1234"})
	require.NoError(t, err)
	first.SelectItem(it.ID)
	_, err = first.SubmitPIN("1234")
	require.NoError(t, err)

	second := NewSession(gw, testOwner, Options{Logger: testutil.DiscardLogger()})
	require.NoError(t, second.Load(ctx))
	assert.False(t, second.Gate.IsUnlocked(it.ID))
	sel, err := second.SelectItem(it.ID)
	require.NoError(t, err)
	assert.True(t, sel.Challenge)
}
