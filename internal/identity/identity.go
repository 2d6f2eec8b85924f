// Package identity manages the client keypair behind a ledger
// identity. The ledger itself only ever sees the opaque 32-byte
// identity value; the keypair stays on the client side for sealing and
// opening payloads.
//
// An identity is the BLAKE2b-256 digest of the client's X25519 public
// key, so holding the private scalar is what entitles a caller to an
// identity. Host authentication of callers is out of scope here; the
// CLI trusts the local key file.
package identity

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/curve25519"

	"github.com/Nubi305/qubic-messenger/internal/ledger"
)

// KeyPair is an X25519 keypair. The private scalar never leaves this
// package except through PrivateKey, which package sealing uses to
// derive box shared keys.
type KeyPair struct {
	private [32]byte
	public  ledger.PublicKey
}

// Generate creates a fresh keypair from crypto/rand. Randomness is
// fine here: keys are client-side material, not ledger state.
func Generate() (*KeyPair, error) {
	var private [32]byte
	if _, err := rand.Read(private[:]); err != nil {
		return nil, fmt.Errorf("generate keypair: %w", err)
	}
	return fromPrivate(private)
}

func fromPrivate(private [32]byte) (*KeyPair, error) {
	pub, err := curve25519.X25519(private[:], curve25519.Basepoint)
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}
	kp := &KeyPair{private: private}
	copy(kp.public[:], pub)
	return kp, nil
}

// Public returns the X25519 public key registered in the ledger.
func (kp *KeyPair) Public() ledger.PublicKey {
	return kp.public
}

// PrivateKey returns the private scalar for box key agreement.
func (kp *KeyPair) PrivateKey() *[32]byte {
	return &kp.private
}

// Identity returns the ledger identity derived from the public key.
func (kp *KeyPair) Identity() ledger.Identity {
	return ledger.Identity(blake2b.Sum256(kp.public[:]))
}

// Save writes the private scalar to path as hex, mode 0600.
func (kp *KeyPair) Save(path string) error {
	data := hex.EncodeToString(kp.private[:]) + "\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		return fmt.Errorf("save keypair: %w", err)
	}
	return nil
}

// Load reads a private scalar saved by Save and re-derives the public
// key and identity.
func Load(path string) (*KeyPair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load keypair: %w", err)
	}
	raw, err := hex.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("load keypair %s: %w", path, err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("load keypair %s: got %d bytes, want 32", path, len(raw))
	}
	var private [32]byte
	copy(private[:], raw)
	return fromPrivate(private)
}
