package mempool

import "context"

// BlockHeader is the chain tip metadata the pool tracks.
type BlockHeader struct {
	Hash              Hash
	Sequence          uint32
	PreviousBlockHash Hash
}

// Block is the unit delivered by the chain's connect/disconnect event
// streams.
type Block struct {
	Header       BlockHeader
	Transactions []Transaction
}

// Verifier answers the expiration question the chain uses for its own
// blocks, so the pool applies exactly the same rule: a sequence is expired
// when it is non-zero and not greater than the current head sequence.
type Verifier interface {
	IsExpiredSequence(txSequence, headSequence uint32) bool
}

// Chain is the external collaborator the pool observes. It owns chain state,
// validation, and the block event streams; the pool only reacts to them.
type Chain interface {
	// Head returns the chain tip as currently known, or nil before the
	// first block.
	Head() *BlockHeader
	// Verifier returns the expiration-sequence verifier to use for
	// decisions made against the current head.
	Verifier() Verifier
	// GetHeader resolves a block hash to its header; the call may block
	// until the lookup completes. It returns (nil, nil) if the hash is
	// unknown.
	GetHeader(ctx context.Context, hash Hash) (*BlockHeader, error)
	// SubscribeConnectBlock registers ch to receive blocks as they're
	// connected to the chain. Subscribed once, at construction.
	SubscribeConnectBlock(ch chan<- *Block)
	// SubscribeDisconnectBlock registers ch to receive blocks as they're
	// disconnected from the chain. Subscribed once, at construction.
	SubscribeDisconnectBlock(ch chan<- *Block)
}
