// interfaces.go lists all the interfaces used by the package
package interfaces

import (
	"context"
	"encoding/json"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
)

// Node defines a subset of the RPCs that can be made to ethereum nodes
type Node interface {
	BlockReader
	HeadSubscriber
	Close()
}

// BlockReader defines the behaviour of the types used to query ethereum blocks,
// block contents are forwarded exactly as the node returned them
type BlockReader interface {
	// BlockByNumber pulls the raw JSON document of the block with the given number
	BlockByNumber(ctx context.Context, n uint64) (block json.RawMessage, err error)
	// BlockNumber returns the number of the most recent block known to the node
	BlockNumber(ctx context.Context) (n uint64, err error)
}

// HeadSubscriber defines the behaviour of the types used to follow chain head updates
type HeadSubscriber interface {
	// SubscribeNewHead subscribes to notifications of new chain heads
	SubscribeNewHead(ctx context.Context, headers chan<- *types.Header) (sub ethereum.Subscription, err error)
}
