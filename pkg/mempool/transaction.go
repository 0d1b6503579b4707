package mempool

import (
	"bytes"
	"encoding/hex"
)

// HashSize is the length in bytes of a Hash or a Nullifier.
const HashSize = 32

// Hash is the 32-byte digest identifying a Transaction.
type Hash [HashSize]byte

// String returns the lowercase hex encoding of h.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Less reports whether h sorts strictly before other under raw-byte
// lexicographic comparison.
func (h Hash) Less(other Hash) bool {
	return bytes.Compare(h[:], other[:]) < 0
}

// Compare returns -1, 0 or 1 as h is less than, equal to, or greater than
// other, using raw-byte lexicographic order.
func (h Hash) Compare(other Hash) int {
	return bytes.Compare(h[:], other[:])
}

// Nullifier is the opaque identifier of a consumed note. Two transactions
// sharing a Nullifier double-spend the same output.
type Nullifier [HashSize]byte

// String returns the lowercase hex encoding of n.
func (n Nullifier) String() string {
	return hex.EncodeToString(n[:])
}

// Spend references one note consumed by a Transaction.
type Spend struct {
	Nullifier Nullifier
}

// Transaction is the pool's view of a candidate chain transaction. Its
// cryptographic contents are opaque here; validation is the Verifier's job.
type Transaction interface {
	// Hash returns the transaction's 32-byte digest.
	Hash() Hash
	// Fee returns the fee offered by the transaction, in the chain's base
	// unit. Higher fees are preferred by the fee queue.
	Fee() int64
	// ExpirationSequence returns the block height at or after which the
	// transaction is no longer valid. Zero means it never expires.
	ExpirationSequence() uint32
	// Spends returns the notes this transaction consumes.
	Spends() []Spend
	// Serialize returns the transaction's wire encoding, used only for byte
	// accounting in this package.
	Serialize() []byte
	// IsMinersFee reports whether this is the block's coinbase-style
	// transaction, which is never reinserted on disconnect.
	IsMinersFee() bool
}
