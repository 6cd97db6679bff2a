// Package node implements the JSON-RPC client used to query ethereum nodes,
// block contents are treated as opaque JSON documents and never decoded.
package node

import (
	"context"
	"encoding/json"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/fdymylja/blockdump/conversions"
	"github.com/fdymylja/blockdump/interfaces"
)

// compile time check of interface implementation
var _ interfaces.Node = (*Client)(nil)

// DefaultOptions defines the default options for the Client
var DefaultOptions = &Options{
	FullTransactions: true,
}

// Options represents the parameters used by Client
type Options struct {
	// FullTransactions makes the node include full transaction objects in block
	// documents instead of transaction hashes only
	FullTransactions bool
}

// Dial connects a Client to the node at the given endpoint with default options,
// http(s), ws(s) and ipc endpoints are supported
func Dial(ctx context.Context, endpoint string) (*Client, error) {
	return DialOptions(ctx, endpoint, DefaultOptions)
}

// DialOptions connects a Client to the node at the given endpoint with programmable options
func DialOptions(ctx context.Context, endpoint string, options *Options) (*Client, error) {
	c, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	return &Client{rpc: c, options: options}, nil
}

// Client queries ethereum nodes, it implements interfaces.Node
type Client struct {
	rpc     *rpc.Client
	options *Options
}

// BlockByNumber pulls the raw JSON document of the block with the given number,
// the document is forwarded exactly as the node returned it; if the node does not
// know the block ethereum.NotFound is returned
func (c *Client) BlockByNumber(ctx context.Context, n uint64) (block json.RawMessage, err error) {
	err = c.rpc.CallContext(ctx, &block, "eth_getBlockByNumber", conversions.Uint64ToHex(n), c.options.FullTransactions)
	switch {
	case err != nil:
		return nil, err
	case len(block) == 0 || string(block) == "null":
		return nil, ethereum.NotFound
	}
	return block, nil
}

// BlockNumber returns the number of the most recent block known to the node
func (c *Client) BlockNumber(ctx context.Context) (n uint64, err error) {
	var q string
	if err = c.rpc.CallContext(ctx, &q, "eth_blockNumber"); err != nil {
		return
	}
	return conversions.HexToUint64(q)
}

// SubscribeNewHead subscribes to notifications of new chain heads, the endpoint
// must support subscriptions (ws or ipc)
func (c *Client) SubscribeNewHead(ctx context.Context, headers chan<- *types.Header) (ethereum.Subscription, error) {
	return c.rpc.EthSubscribe(ctx, headers, "newHeads")
}

// Close tears down the underlying connection
func (c *Client) Close() {
	c.rpc.Close()
}
