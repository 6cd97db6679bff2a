package mocks

import (
	"context"
	"encoding/json"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/fdymylja/blockdump/interfaces"
	"github.com/fdymylja/blockdump/status"
)

// compile time check of interface implementation
var _ interfaces.Node = (*Node)(nil)

// Node emulates some functions of a working ethereum node, it serves the fixture
// blocks it was loaded with and produces heads for them at BlockTime intervals
type Node struct {
	mu sync.Mutex

	closed   bool
	shutdown chan struct{}

	blocks  map[uint64]json.RawMessage
	numbers []uint64 // numbers holds the loaded block numbers in increasing order

	// BlockTime is the interval between produced heads, defaults to a value low
	// enough to keep tests fast
	BlockTime time.Duration

	activeRoutines sync.WaitGroup
}

// NewNode builds a Node instance loaded with fixture blocks for [start, finish]
func NewNode(start, finish uint64) *Node {
	blocks := RawBlocks(start, finish)
	numbers := make([]uint64, 0, len(blocks))
	for n := range blocks {
		numbers = append(numbers, n)
	}
	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })
	return &Node{
		shutdown:  make(chan struct{}),
		blocks:    blocks,
		numbers:   numbers,
		BlockTime: 10 * time.Millisecond,
	}
}

// BlockByNumber serves the fixture document of block n, ethereum.NotFound is
// returned for blocks the instance was not loaded with
func (n *Node) BlockByNumber(ctx context.Context, blockN uint64) (json.RawMessage, error) {
	block, ok := n.blocks[blockN]
	if !ok {
		return nil, ethereum.NotFound
	}
	return block, nil
}

// BlockNumber returns the highest loaded block number
func (n *Node) BlockNumber(ctx context.Context) (uint64, error) {
	return n.numbers[len(n.numbers)-1], nil
}

// SubscribeNewHead starts the production of heads, fixture blocks are emitted in
// increasing order and production restarts from the first block once the last one
// was emitted
func (n *Node) SubscribeNewHead(ctx context.Context, headers chan<- *types.Header) (ethereum.Subscription, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	// check if dead
	if n.closed {
		return nil, status.ErrClosed
	}
	sub := NewSubscription()
	n.activeRoutines.Add(1)
	go func() {
		defer n.activeRoutines.Done()
		for {
			for _, blockN := range n.numbers {
				select {
				case <-sub.shutdown:
					return
				case <-n.shutdown:
					return
				case <-time.After(n.BlockTime):
				}
				header := &types.Header{Number: new(big.Int).SetUint64(blockN)}
				select {
				case <-sub.shutdown:
					return
				case <-n.shutdown:
					return
				case headers <- header:
				}
			}
		}
	}()
	return sub, nil
}

// Close closes the node
func (n *Node) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	n.closed = true
	close(n.shutdown)
	// wait for all the active goroutines to exit
	n.activeRoutines.Wait()
}
