package dispatch

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nubi305/qubic-messenger/internal/ledger"
	"github.com/Nubi305/qubic-messenger/internal/store"
	"github.com/Nubi305/qubic-messenger/internal/testutil"
)

func testParams() ledger.Params {
	return ledger.Params{MaxRegistrants: 8, LogCapacity: 4, RateLimitTicks: 10}
}

func newTestDispatcher(t *testing.T, journal *store.Store) *Dispatcher {
	t.Helper()
	state, err := ledger.NewState(testParams())
	require.NoError(t, err)
	return New(state, journal, testutil.NewTickClock(), &FixedGenerator{}, nil)
}

func openTestJournal(t *testing.T) *store.Store {
	t.Helper()
	journal, err := store.Open(filepath.Join(t.TempDir(), "test.journal"), testParams())
	require.NoError(t, err)
	t.Cleanup(func() { journal.Close() })
	return journal
}

func TestDo_RegisterAndLookup(t *testing.T) {
	ctx := context.Background()
	d := newTestDispatcher(t, nil)
	alice := testutil.Identity(0x11)

	res, err := d.Do(ctx, alice, OpRegister, RegisterArgs{
		Handle:    "alice",
		PublicKey: testutil.Key(0xAA).String(),
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, CodeOK, res.Code)
	assert.Equal(t, 0, res.Slot)
	assert.Equal(t, uint64(1), res.Tick)

	handle, err := ledger.NewHandle("alice")
	require.NoError(t, err)
	got := d.LookupByHandle(handle)
	require.True(t, got.Found)
	assert.Equal(t, alice, got.Owner)
	assert.Equal(t, testutil.Key(0xAA), got.PublicKey)
}

func TestDo_LedgerRejectionIsNotAnError(t *testing.T) {
	ctx := context.Background()
	d := newTestDispatcher(t, nil)

	args := RegisterArgs{Handle: "alice", PublicKey: testutil.Key(0xAA).String()}
	_, err := d.Do(ctx, testutil.Identity(0x11), OpRegister, args)
	require.NoError(t, err)

	res, err := d.Do(ctx, testutil.Identity(0x22), OpRegister, args)
	require.NoError(t, err, "a HANDLE_TAKEN rejection is a result, not an error")
	assert.False(t, res.Success)
	assert.Equal(t, string(ledger.CodeHandleTaken), res.Code)
	assert.Equal(t, -1, res.Slot)
}

func TestDo_MalformedArgsAreErrors(t *testing.T) {
	ctx := context.Background()
	d := newTestDispatcher(t, nil)

	_, err := d.Do(ctx, testutil.Identity(0x11), OpRegister, RegisterArgs{
		Handle:    "alice",
		PublicKey: "not-hex",
	})
	require.Error(t, err)

	_, err = d.Do(ctx, testutil.Identity(0x11), Op("unknown"), DeactivateArgs{})
	require.Error(t, err)
}

func TestNextNonce(t *testing.T) {
	ctx := context.Background()
	d := newTestDispatcher(t, nil)
	alice := testutil.Identity(0x11)
	bob := testutil.Identity(0x22)

	_, ok := d.NextNonce(alice)
	assert.False(t, ok, "unregistered caller has no nonce sequence")

	_, err := d.Do(ctx, alice, OpRegister, RegisterArgs{Handle: "alice", PublicKey: testutil.Key(0xAA).String()})
	require.NoError(t, err)

	nonce, ok := d.NextNonce(alice)
	require.True(t, ok)
	assert.Equal(t, uint64(1), nonce)

	res, err := d.Do(ctx, alice, OpPostProof, PostProofArgs{
		Receiver:    bob.String(),
		ContentHash: testutil.Hash(0xCC).String(),
		Nonce:       nonce,
	})
	require.NoError(t, err)
	require.True(t, res.Success)

	nonce, ok = d.NextNonce(alice)
	require.True(t, ok)
	assert.Equal(t, uint64(2), nonce)
}

// TestReplay_RebuildsIdenticalState journals a full scenario, rebuilds
// from the journal, and compares the rebuilt aggregate observation by
// observation against the live one.
func TestReplay_RebuildsIdenticalState(t *testing.T) {
	ctx := context.Background()
	journal := openTestJournal(t)
	d := newTestDispatcher(t, journal)

	alice := testutil.Identity(0x11)
	bob := testutil.Identity(0x22)

	_, err := d.Do(ctx, alice, OpRegister, RegisterArgs{Handle: "alice", PublicKey: testutil.Key(0xAA).String()})
	require.NoError(t, err)
	_, err = d.Do(ctx, bob, OpRegister, RegisterArgs{Handle: "bob", PublicKey: testutil.Key(0xBB).String()})
	require.NoError(t, err)

	// A rejected call is journaled too and must replay to the same rejection.
	res, err := d.Do(ctx, bob, OpRegister, RegisterArgs{Handle: "bob-again", PublicKey: testutil.Key(0xBB).String()})
	require.NoError(t, err)
	require.False(t, res.Success)

	_, err = d.Do(ctx, alice, OpPostProof, PostProofArgs{
		Receiver:    bob.String(),
		ContentHash: testutil.Hash(0xCC).String(),
		Nonce:       1,
	})
	require.NoError(t, err)
	_, err = d.Do(ctx, alice, OpUpdateKey, UpdateKeyArgs{PublicKey: testutil.Key(0xAD).String()})
	require.NoError(t, err)
	_, err = d.Do(ctx, bob, OpDeactivate, DeactivateArgs{})
	require.NoError(t, err)

	rebuilt, err := Replay(ctx, journal)
	require.NoError(t, err)
	assert.Equal(t, 6, rebuilt.Calls)
	assert.Equal(t, uint64(6), rebuilt.LastTick)

	// Rebuilt state observations match the live one.
	aliceHandle, err := ledger.NewHandle("alice")
	require.NoError(t, err)
	got := rebuilt.State.LookupByHandle(aliceHandle)
	require.True(t, got.Found)
	assert.Equal(t, testutil.Key(0xAD), got.PublicKey, "key rotation must survive replay")

	assert.False(t, rebuilt.State.LookupByOwner(bob).Found, "deactivation must survive replay")
	assert.Equal(t, uint64(1), rebuilt.State.LogCursor())

	rec, ok := rebuilt.State.GetDeliveryProof(0)
	require.True(t, ok)
	assert.Equal(t, alice, rec.Sender)
	assert.Equal(t, testutil.Hash(0xCC), rec.ContentHash)

	last, ok := rebuilt.State.LastNonce(alice)
	require.True(t, ok)
	assert.Equal(t, uint64(1), last)
}

func TestVerify_CleanJournal(t *testing.T) {
	ctx := context.Background()
	journal := openTestJournal(t)
	d := newTestDispatcher(t, journal)

	alice := testutil.Identity(0x11)
	_, err := d.Do(ctx, alice, OpRegister, RegisterArgs{Handle: "alice", PublicKey: testutil.Key(0xAA).String()})
	require.NoError(t, err)
	_, err = d.Do(ctx, alice, OpPostProof, PostProofArgs{
		Receiver:    testutil.Identity(0x22).String(),
		ContentHash: testutil.Hash(0xCC).String(),
		Nonce:       1,
	})
	require.NoError(t, err)

	out, err := Verify(ctx, journal)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Calls)
}

func TestVerify_DetectsDivergence(t *testing.T) {
	ctx := context.Background()
	journal := openTestJournal(t)

	// A record claiming the register failed, although replaying it
	// succeeds: Verify must flag the mismatch.
	require.NoError(t, journal.AppendCall(ctx, store.CallRecord{
		ID:     "call-bogus",
		Op:     string(OpRegister),
		Caller: testutil.Identity(0x11).String(),
		Args:   `{"handle":"alice","public_key":"` + testutil.Key(0xAA).String() + `"}`,
		Tick:   1,
		Result: `{"tick":1,"code":"REGISTRY_FULL","success":false,"slot":-1,"log_index":0}`,
	}))

	_, err := Verify(ctx, journal)
	require.Error(t, err)
	assert.True(t, IsDivergence(err))

	var de *DivergenceError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "call-bogus", de.CallID)
	assert.Equal(t, CodeOK, de.Replayed.Code)
}

func TestClock_Monotonic(t *testing.T) {
	c := NewClock()
	assert.Equal(t, uint64(0), c.Current())
	assert.Equal(t, uint64(1), c.Next())
	assert.Equal(t, uint64(2), c.Next())
	assert.Equal(t, uint64(2), c.Current())

	resumed := NewClockAt(41)
	assert.Equal(t, uint64(42), resumed.Next())
}

func TestFixedGenerator_Sequence(t *testing.T) {
	g := &FixedGenerator{}
	assert.Equal(t, "call-000001", g.Generate())
	assert.Equal(t, "call-000002", g.Generate())
}
