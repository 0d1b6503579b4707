package mempool

import "testing"

const benchPoolSize = 10000

func BenchmarkPoolAcceptAndSweep(b *testing.B) {
	chain := newFakeChain()
	txs := make([]*fakeTx, benchPoolSize)
	for i := range txs {
		txs[i] = newFakeTx(string(rune(i)), int64(i))
	}

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		p := New(chain, DefaultConfig(), nil, false)
		for _, tx := range txs {
			if !p.Accept(tx) {
				b.Fatal("unexpected rejection")
			}
		}
		p.OnConnect(&Block{Header: BlockHeader{Sequence: 1}})
		p.Close()
	}
}

func BenchmarkOrderedTransactions(b *testing.B) {
	chain := newFakeChain()
	p := New(chain, DefaultConfig(), nil, false)
	defer p.Close()
	for i := 0; i < benchPoolSize; i++ {
		p.Accept(newFakeTx(string(rune(i)), int64(i)))
	}

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		next := p.OrderedTransactions()
		for {
			if _, ok := next(); !ok {
				break
			}
		}
	}
}
