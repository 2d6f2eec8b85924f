package ledger

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Fixed field widths. These are part of the persisted state layout and
// must not change without a journal migration.
const (
	// HandleLen is the fixed width of a handle: NFC-normalized UTF-8,
	// zero-padded on the right.
	HandleLen = 32

	// KeyLen is the width of an X25519 public key.
	KeyLen = 32

	// HashLen is the width of a BLAKE2b-256 content hash.
	HashLen = 32

	// IdentityLen is the width of an opaque host-authenticated identity.
	IdentityLen = 32
)

// Handle is a human-readable name claimed by an identity, stored as a
// fixed-width, zero-padded byte sequence. Equality is byte equality, so
// all handles must go through NewHandle for normalization.
type Handle [HandleLen]byte

// PublicKey is the current encryption key registered for a handle.
type PublicKey [KeyLen]byte

// ContentHash is the digest of an off-ledger encrypted payload. The
// ledger never sees payload content, only this hash.
type ContentHash [HashLen]byte

// Identity is an opaque party reference. The host authenticates callers
// and supplies their identity; the ledger treats it as an opaque value.
type Identity [IdentityLen]byte

// NewHandle normalizes s to NFC, verifies it fits the fixed width, and
// returns the zero-padded handle. Normalizing here keeps visually
// identical names from occupying distinct registry entries.
func NewHandle(s string) (Handle, error) {
	var h Handle
	n := norm.NFC.String(s)
	if len(n) == 0 {
		return h, fmt.Errorf("handle must not be empty")
	}
	if len(n) > HandleLen {
		return h, fmt.Errorf("handle %q is %d bytes after normalization, max %d", s, len(n), HandleLen)
	}
	copy(h[:], n)
	return h, nil
}

// String returns the handle with trailing zero padding stripped.
func (h Handle) String() string {
	return string(bytes.TrimRight(h[:], "\x00"))
}

// IsZero reports whether the identity is the all-zero value. The zero
// identity is never a valid party.
func (id Identity) IsZero() bool {
	return id == Identity{}
}

// String returns the identity as lowercase hex.
func (id Identity) String() string {
	return hex.EncodeToString(id[:])
}

// ParseIdentity decodes a 64-character hex string into an Identity.
func ParseIdentity(s string) (Identity, error) {
	var id Identity
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("parse identity: %w", err)
	}
	if len(b) != IdentityLen {
		return id, fmt.Errorf("parse identity: got %d bytes, want %d", len(b), IdentityLen)
	}
	copy(id[:], b)
	return id, nil
}

// String returns the public key as lowercase hex.
func (k PublicKey) String() string {
	return hex.EncodeToString(k[:])
}

// ParsePublicKey decodes a 64-character hex string into a PublicKey.
func ParsePublicKey(s string) (PublicKey, error) {
	var k PublicKey
	b, err := hex.DecodeString(s)
	if err != nil {
		return k, fmt.Errorf("parse public key: %w", err)
	}
	if len(b) != KeyLen {
		return k, fmt.Errorf("parse public key: got %d bytes, want %d", len(b), KeyLen)
	}
	copy(k[:], b)
	return k, nil
}

// String returns the content hash as lowercase hex.
func (c ContentHash) String() string {
	return hex.EncodeToString(c[:])
}

// ParseContentHash decodes a 64-character hex string into a ContentHash.
func ParseContentHash(s string) (ContentHash, error) {
	var c ContentHash
	b, err := hex.DecodeString(s)
	if err != nil {
		return c, fmt.Errorf("parse content hash: %w", err)
	}
	if len(b) != HashLen {
		return c, fmt.Errorf("parse content hash: got %d bytes, want %d", len(b), HashLen)
	}
	copy(c[:], b)
	return c, nil
}
