package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPostDeliveryProof_CheckOrder tests that failures are reported in
// the fixed precondition order: registration, self-send, nonce, rate.
func TestPostDeliveryProof_CheckOrder(t *testing.T) {
	s := newTestState(t)
	alice := testIdentity(1)
	bob := testIdentity(2)
	hash := ContentHash(testKey(0xCC))

	// Unregistered caller fails first, even with a bad nonce and self-send.
	_, err := s.PostDeliveryProof(alice, 100, alice, hash, 0)
	assert.Equal(t, CodeNotRegistered, ErrCode(err))

	_, err = s.Register(alice, 100, mustHandle(t, "alice"), testKey(0xAA))
	require.NoError(t, err)

	// Self-send is rejected before the nonce check sees the bad nonce.
	_, err = s.PostDeliveryProof(alice, 100, alice, hash, 0)
	assert.Equal(t, CodeSelfMessage, ErrCode(err))

	// Nonce zero can never be a first nonce.
	_, err = s.PostDeliveryProof(alice, 100, bob, hash, 0)
	assert.Equal(t, CodeBadNonce, ErrCode(err))

	_, err = s.PostDeliveryProof(alice, 100, bob, hash, 1)
	require.NoError(t, err)
}

// TestPostDeliveryProof_NonceStrictlyIncreasing tests BAD_NONCE for
// replayed and stale nonces, and that a rejected call mutates nothing.
func TestPostDeliveryProof_NonceStrictlyIncreasing(t *testing.T) {
	s := newTestState(t)
	alice := testIdentity(1)
	bob := testIdentity(2)
	hash := ContentHash(testKey(0xCC))

	_, err := s.Register(alice, 100, mustHandle(t, "alice"), testKey(0xAA))
	require.NoError(t, err)

	_, err = s.PostDeliveryProof(alice, 100, bob, hash, 5)
	require.NoError(t, err)
	cursorBefore := s.LogCursor()

	for _, nonce := range []uint64{5, 4, 1, 0} {
		_, err = s.PostDeliveryProof(alice, 200, bob, hash, nonce)
		assert.Equal(t, CodeBadNonce, ErrCode(err), "nonce %d", nonce)
	}

	// Rejected calls advance neither the cursor nor the guard.
	assert.Equal(t, cursorBefore, s.LogCursor())
	last, ok := s.LastNonce(alice)
	require.True(t, ok)
	assert.Equal(t, uint64(5), last)

	// Gaps are fine, only ordering matters.
	_, err = s.PostDeliveryProof(alice, 200, bob, hash, 100)
	assert.NoError(t, err)
}

// TestPostDeliveryProof_RateLimitWindow tests the boundary-inclusive
// rate window: exactly rateLimitTicks apart must succeed.
func TestPostDeliveryProof_RateLimitWindow(t *testing.T) {
	s := newTestState(t)
	alice := testIdentity(1)
	bob := testIdentity(2)
	hash := ContentHash(testKey(0xCC))

	_, err := s.Register(alice, 100, mustHandle(t, "alice"), testKey(0xAA))
	require.NoError(t, err)

	_, err = s.PostDeliveryProof(alice, 100, bob, hash, 1)
	require.NoError(t, err)

	// Inside the window: rejected, and lastPostTick must not advance.
	_, err = s.PostDeliveryProof(alice, 109, bob, hash, 2)
	assert.Equal(t, CodeRateLimited, ErrCode(err))

	// A rejected attempt must not have reset the window.
	_, err = s.PostDeliveryProof(alice, 110, bob, hash, 2)
	assert.NoError(t, err, "exactly at the boundary must succeed")

	_, err = s.PostDeliveryProof(alice, 119, bob, hash, 3)
	assert.Equal(t, CodeRateLimited, ErrCode(err))

	_, err = s.PostDeliveryProof(alice, 121, bob, hash, 3)
	assert.NoError(t, err)
}

// TestPostDeliveryProof_PerRegistrantGuard tests that guard state is
// tracked per slot, not globally.
func TestPostDeliveryProof_PerRegistrantGuard(t *testing.T) {
	s := newTestState(t)
	alice := testIdentity(1)
	bob := testIdentity(2)
	hash := ContentHash(testKey(0xCC))

	_, err := s.Register(alice, 100, mustHandle(t, "alice"), testKey(0xAA))
	require.NoError(t, err)
	_, err = s.Register(bob, 100, mustHandle(t, "bob"), testKey(0xBB))
	require.NoError(t, err)

	_, err = s.PostDeliveryProof(alice, 100, bob, hash, 1)
	require.NoError(t, err)

	// Bob is not rate limited by Alice's post, and starts his own nonce
	// sequence from scratch.
	_, err = s.PostDeliveryProof(bob, 101, alice, hash, 1)
	assert.NoError(t, err)
}

// TestPostDeliveryProof_DeactivatedOwner tests that a deactivated owner
// can no longer post.
func TestPostDeliveryProof_DeactivatedOwner(t *testing.T) {
	s := newTestState(t)
	alice := testIdentity(1)
	bob := testIdentity(2)
	hash := ContentHash(testKey(0xCC))

	_, err := s.Register(alice, 100, mustHandle(t, "alice"), testKey(0xAA))
	require.NoError(t, err)
	_, err = s.PostDeliveryProof(alice, 100, bob, hash, 1)
	require.NoError(t, err)

	require.True(t, s.Deactivate(alice))
	_, err = s.PostDeliveryProof(alice, 200, bob, hash, 2)
	assert.Equal(t, CodeNotRegistered, ErrCode(err))
}
