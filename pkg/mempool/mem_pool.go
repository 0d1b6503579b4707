// Package mempool implements an in-memory transaction pool for a UTXO-style
// chain node. It keeps four consistent views over the same set of pending
// transactions — by hash, by nullifier, by fee descending, and by
// expiration ascending — and reacts to chain reorganizations by evicting
// confirmed transactions, reinserting disconnected ones, and expiring stale
// ones.
package mempool

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

const (
	// queueSlotBytes is the byte estimate SizeBytes charges per fee-queue
	// slot: a 32-byte hash plus an 8-byte fee. It is an estimate, not a
	// measurement — preserve it exactly for external compatibility.
	queueSlotBytes = 40
)

var metricsOnce sync.Once

// mempoolEntry is a row of the fee-descending queue.
type mempoolEntry struct {
	fee  int64
	hash Hash
}

// expirationEntry is a row of the expiration-ascending queue.
type expirationEntry struct {
	expirationSequence uint32
	hash               Hash
}

// Pool holds transactions that have passed network-layer validation but are
// not yet confirmed in a block.
type Pool struct {
	mu sync.Mutex

	transactions *store
	nullifiers   *nullifierIndex
	queue        *Queue[mempoolEntry]
	expirations  *Queue[expirationEntry]

	chain   Chain
	head    *BlockHeader
	rejects *recentRejections

	log *zap.Logger

	connectCh    chan *Block
	disconnectCh chan *Block
	stop         chan struct{}
}

// New constructs a Pool subscribed to chain's connect/disconnect block
// events. If log is nil, a development logger is built. If metrics is true,
// the mempool_size gauge is registered with the default Prometheus
// registry (once per process).
func New(chain Chain, cfg Config, log *zap.Logger, metrics bool) *Pool {
	if log == nil {
		log = defaultLogger()
	}
	if metrics {
		metricsOnce.Do(initializeMempoolMetrics)
	}

	p := &Pool{
		transactions: newStore(),
		nullifiers:   newNullifierIndex(),
		queue: NewQueue(func(a, b mempoolEntry) bool {
			if a.fee != b.fee {
				return a.fee > b.fee
			}
			return a.hash.Compare(b.hash) > 0
		}, func(e mempoolEntry) string { return e.hash.String() }),
		expirations: NewQueue(func(a, b expirationEntry) bool {
			return a.expirationSequence < b.expirationSequence
		}, func(e expirationEntry) string { return e.hash.String() }),
		chain:   chain,
		head:    chain.Head(),
		rejects: newRecentRejections(cfg.RecentCacheSize),
		log:     log,

		connectCh:    make(chan *Block, 1),
		disconnectCh: make(chan *Block, 1),
		stop:         make(chan struct{}),
	}

	chain.SubscribeConnectBlock(p.connectCh)
	chain.SubscribeDisconnectBlock(p.disconnectCh)
	go p.run()

	return p
}

// Close stops the pool's event-processing goroutine. It does not unsubscribe
// from the chain; callers that tear down the chain collaborator too don't
// need to.
func (p *Pool) Close() {
	close(p.stop)
}

func (p *Pool) run() {
	for {
		select {
		case block := <-p.connectCh:
			p.OnConnect(block)
		case block := <-p.disconnectCh:
			p.OnDisconnect(context.Background(), block)
		case <-p.stop:
			return
		}
	}
}

// Head returns the chain tip as currently observed by the pool.
func (p *Pool) Head() *BlockHeader {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.head
}

// Size returns the number of transactions currently held.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.transactions.size()
}

// SizeBytes returns transactionsBytes + nullifiersBytes + queue.size()*40,
// the last term an estimate of per-slot fee-queue overhead. Preserve the
// constant for test/external compatibility.
func (p *Pool) SizeBytes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.transactions.bytes + p.nullifiers.bytes + p.queue.Size()*queueSlotBytes
}

// Exists reports whether hash is currently held.
func (p *Pool) Exists(hash Hash) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.transactions.has(hash)
}

// Get returns the transaction with the given hash, if held.
func (p *Pool) Get(hash Hash) (Transaction, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.transactions.get(hash)
}

// Accept validates tx against pool membership and conflict rules and, on
// success, admits it. It fails fast: on any rejection it returns false
// without mutating pool state.
func (p *Pool) Accept(tx Transaction) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	hash := tx.Hash()
	if p.transactions.has(hash) {
		p.rejects.seen(hash)
		// Already present: rejected silently, no logging.
		return false
	}

	headSeq := uint32(0)
	if p.head != nil {
		headSeq = p.head.Sequence
	}
	if p.chain.Verifier().IsExpiredSequence(tx.ExpirationSequence(), headSeq) {
		if !p.rejects.seen(hash) {
			p.log.Debug("rejecting expired transaction",
				zap.String("hash", hash.String()),
				zap.Uint32("expirationSequence", tx.ExpirationSequence()),
				zap.Uint32("headSequence", headSeq))
		}
		return false
	}

	var toEvict []Transaction
	for _, spend := range tx.Spends() {
		ownerHash, ok := p.nullifiers.ownerOf(spend.Nullifier)
		if !ok {
			continue
		}
		owner, ok := p.transactions.get(ownerHash)
		if !ok {
			// The nullifier entry is stale (its owner was already removed
			// by a path that didn't clean it up). Treat it as free; this
			// must not happen across public-operation boundaries under
			// correct use, so we tolerate rather than raise.
			continue
		}
		if tx.Fee() > owner.Fee() {
			toEvict = append(toEvict, owner)
			continue
		}
		// Equal-or-lower fee: the incoming transaction loses, silently.
		return false
	}

	for _, victim := range toEvict {
		p.deleteTransaction(victim)
	}

	return p.addTransaction(tx)
}

// addTransaction inserts tx into all four indexes. It is idempotent by
// hash: re-adding an already-present transaction is a no-op that returns
// false.
func (p *Pool) addTransaction(tx Transaction) bool {
	hash := tx.Hash()
	if p.transactions.has(hash) {
		return false
	}

	p.transactions.put(tx)
	for _, spend := range tx.Spends() {
		p.nullifiers.put(spend.Nullifier, hash)
	}
	p.queue.Add(mempoolEntry{fee: tx.Fee(), hash: hash})
	p.expirations.Add(expirationEntry{expirationSequence: tx.ExpirationSequence(), hash: hash})

	updateMempoolMetrics(p.transactions.size())
	return true
}

// deleteTransaction removes tx from all four indexes. It is idempotent by
// hash: deleting an already-absent transaction is a no-op that returns
// false. Nullifier entries are only removed if they still point at this
// transaction's hash, so an entry that now belongs to another transaction
// is never clobbered.
func (p *Pool) deleteTransaction(tx Transaction) bool {
	hash := tx.Hash()
	if !p.transactions.has(hash) {
		return false
	}

	p.transactions.delete(tx)
	for _, spend := range tx.Spends() {
		if owner, ok := p.nullifiers.ownerOf(spend.Nullifier); ok && owner == hash {
			p.nullifiers.delete(spend.Nullifier)
		}
	}
	p.queue.Remove(hash.String())
	p.expirations.Remove(hash.String())

	updateMempoolMetrics(p.transactions.size())
	return true
}

// Delete removes tx if present. It is exported so the block producer and
// chain-reorg paths share one mutation path with Accept's eviction.
func (p *Pool) Delete(tx Transaction) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.deleteTransaction(tx)
}

// OnConnect reacts to a newly connected block: transactions it confirms are
// evicted, then head is updated to the block's header and the expiration
// sweep runs against that new head.
func (p *Pool) OnConnect(block *Block) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, tx := range block.Transactions {
		p.deleteTransaction(tx)
	}

	p.head = &block.Header
	verifier := p.chain.Verifier()
	headSeq := block.Header.Sequence

	// Expiration sweep. The peeked entry is always polled off the queue
	// before the loop decides anything else, so a stale entry (owner
	// already gone) can never cause the loop to spin without making
	// progress — replicating that bug is explicitly disallowed.
	for {
		entry, ok := p.expirations.Peek()
		if !ok || !verifier.IsExpiredSequence(entry.expirationSequence, headSeq) {
			break
		}
		p.expirations.Poll()
		tx, ok := p.transactions.get(entry.hash)
		if !ok {
			p.log.Debug("skipping stale expiration entry", zap.String("hash", entry.hash.String()))
			continue
		}
		p.deleteTransaction(tx)
	}

	updateMempoolMetrics(p.transactions.size())
}

// OnDisconnect reacts to a disconnected block: every non-miner's-fee
// transaction it contained is reinserted (conflicts are impossible by
// construction — the block was valid — so reinsertion is best-effort and
// duplicates are silently skipped), then head moves to the block's parent.
// The header lookup runs without holding the pool's lock so other
// operations stay responsive while it's in flight; the result is applied in
// one locked step.
func (p *Pool) OnDisconnect(ctx context.Context, block *Block) {
	p.mu.Lock()
	for _, tx := range block.Transactions {
		if tx.IsMinersFee() {
			continue
		}
		p.addTransaction(tx)
	}
	prevHash := block.Header.PreviousBlockHash
	p.mu.Unlock()

	header, err := p.chain.GetHeader(ctx, prevHash)
	if err != nil {
		p.log.Debug("disconnect: parent header lookup failed",
			zap.String("previousBlockHash", prevHash.String()), zap.Error(err))
		return
	}
	if header == nil {
		// Soft error: the parent header is unknown. Leave head at its
		// previous value rather than nulling it out, which would make
		// every subsequent Accept consult a missing head sequence.
		p.log.Debug("disconnect: parent header not found",
			zap.String("previousBlockHash", prevHash.String()))
		return
	}

	p.mu.Lock()
	p.head = header
	p.mu.Unlock()
}

// OrderedTransactions returns a closure yielding pool members in
// fee-descending (ties: hash-descending) order. It snapshots queue
// membership at call time by cloning the fee queue; deletions after the
// call are observable as skips (the polled hash is simply absent from the
// live store), but insertions after the call are not visible. The returned
// closure is not safe for concurrent use and yields (nil, false) once
// exhausted.
func (p *Pool) OrderedTransactions() func() (Transaction, bool) {
	p.mu.Lock()
	clone := p.queue.Clone()
	p.mu.Unlock()

	return func() (Transaction, bool) {
		for {
			entry, ok := clone.Poll()
			if !ok {
				return nil, false
			}
			p.mu.Lock()
			tx, ok := p.transactions.get(entry.hash)
			p.mu.Unlock()
			if !ok {
				continue
			}
			return tx, true
		}
	}
}
