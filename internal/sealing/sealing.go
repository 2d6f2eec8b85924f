// Package sealing is the off-ledger half of message delivery: it
// encrypts payloads to a recipient's registered public key and computes
// the BLAKE2b-256 content hash that a delivery proof records. Sealed
// blobs travel over whatever transport the parties like; the ledger
// only ever stores the digest.
package sealing

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/nacl/box"

	"github.com/Nubi305/qubic-messenger/internal/identity"
	"github.com/Nubi305/qubic-messenger/internal/ledger"
)

const nonceLen = 24

// Seal encrypts payload from sender to the recipient's registered key
// using NaCl box, and returns the sealed blob along with its content
// hash. The random box nonce is prepended to the blob.
func Seal(payload []byte, recipient ledger.PublicKey, sender *identity.KeyPair) ([]byte, ledger.ContentHash, error) {
	var nonce [nonceLen]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, ledger.ContentHash{}, fmt.Errorf("seal: %w", err)
	}
	peer := [32]byte(recipient)
	blob := box.Seal(nonce[:], payload, &nonce, &peer, sender.PrivateKey())
	return blob, Digest(blob), nil
}

// Open decrypts a blob sealed to recipient by the holder of senderKey.
func Open(blob []byte, senderKey ledger.PublicKey, recipient *identity.KeyPair) ([]byte, error) {
	if len(blob) < nonceLen {
		return nil, fmt.Errorf("open: blob shorter than nonce")
	}
	var nonce [nonceLen]byte
	copy(nonce[:], blob[:nonceLen])
	peer := [32]byte(senderKey)
	payload, ok := box.Open(nil, blob[nonceLen:], &nonce, &peer, recipient.PrivateKey())
	if !ok {
		return nil, fmt.Errorf("open: decryption failed")
	}
	return payload, nil
}

// Digest computes the content hash a delivery proof records for a
// sealed blob.
func Digest(blob []byte) ledger.ContentHash {
	return ledger.ContentHash(blake2b.Sum256(blob))
}
