package testutil

import "github.com/Nubi305/qubic-messenger/internal/ledger"

// Identity returns a fixed identity with every byte set to b. Byte
// patterns beat real keypairs in tests that golden-compare hex output.
func Identity(b byte) ledger.Identity {
	var id ledger.Identity
	for i := range id {
		id[i] = b
	}
	return id
}

// Key returns a fixed public key with every byte set to b.
func Key(b byte) ledger.PublicKey {
	var k ledger.PublicKey
	for i := range k {
		k[i] = b
	}
	return k
}

// Hash returns a fixed content hash with every byte set to b.
func Hash(b byte) ledger.ContentHash {
	var h ledger.ContentHash
	for i := range h {
		h[i] = b
	}
	return h
}
