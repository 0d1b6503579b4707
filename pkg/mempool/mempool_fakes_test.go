package mempool

import (
	"context"
	"crypto/sha256"
	"fmt"
)

// fakeTx is a minimal Transaction used across this package's tests.
type fakeTx struct {
	hash               Hash
	fee                int64
	expirationSequence uint32
	spends             []Spend
	minersFee          bool
}

func newFakeTx(label string, fee int64) *fakeTx {
	return &fakeTx{hash: hashLabel(label), fee: fee}
}

func hashLabel(label string) Hash {
	return sha256.Sum256([]byte(label))
}

func nullifierLabel(label string) Nullifier {
	return Nullifier(sha256.Sum256([]byte("nullifier:" + label)))
}

func (tx *fakeTx) Hash() Hash                 { return tx.hash }
func (tx *fakeTx) Fee() int64                 { return tx.fee }
func (tx *fakeTx) ExpirationSequence() uint32 { return tx.expirationSequence }
func (tx *fakeTx) Spends() []Spend            { return tx.spends }
func (tx *fakeTx) Serialize() []byte          { return []byte(fmt.Sprintf("%x:%d", tx.hash, tx.fee)) }
func (tx *fakeTx) IsMinersFee() bool          { return tx.minersFee }

func (tx *fakeTx) spendNullifier(label string) *fakeTx {
	tx.spends = append(tx.spends, Spend{Nullifier: nullifierLabel(label)})
	return tx
}

func (tx *fakeTx) withExpiration(seq uint32) *fakeTx {
	tx.expirationSequence = seq
	return tx
}

func (tx *fakeTx) asMinersFee() *fakeTx {
	tx.minersFee = true
	return tx
}

// fakeVerifier implements the expiration rule exactly: a sequence is
// expired when non-zero and not greater than the head sequence.
type fakeVerifier struct{}

func (fakeVerifier) IsExpiredSequence(txSequence, headSequence uint32) bool {
	return txSequence != 0 && txSequence <= headSequence
}

// fakeChain is a controllable Chain collaborator for tests: the pool
// subscribes to its channels, which are recorded in connectSubs and
// disconnectSubs. Most tests call Pool.OnConnect/OnDisconnect synchronously
// and never send on those channels, so the pool's background goroutine stays
// idle; a test can instead send a block on a recorded channel to exercise
// asynchronous delivery.
type fakeChain struct {
	head     *BlockHeader
	headers  map[Hash]*BlockHeader
	verifier Verifier

	connectSubs    []chan<- *Block
	disconnectSubs []chan<- *Block
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		head:     &BlockHeader{Sequence: 0},
		headers:  make(map[Hash]*BlockHeader),
		verifier: fakeVerifier{},
	}
}

func (c *fakeChain) Head() *BlockHeader { return c.head }

func (c *fakeChain) Verifier() Verifier { return c.verifier }

func (c *fakeChain) GetHeader(_ context.Context, hash Hash) (*BlockHeader, error) {
	h, ok := c.headers[hash]
	if !ok {
		return nil, nil
	}
	return h, nil
}

func (c *fakeChain) SubscribeConnectBlock(ch chan<- *Block) {
	c.connectSubs = append(c.connectSubs, ch)
}

func (c *fakeChain) SubscribeDisconnectBlock(ch chan<- *Block) {
	c.disconnectSubs = append(c.disconnectSubs, ch)
}

func (c *fakeChain) setHead(seq uint32) {
	h := &BlockHeader{Sequence: seq}
	c.head = h
}

func (c *fakeChain) registerHeader(h *BlockHeader) {
	c.headers[h.Hash] = h
}
