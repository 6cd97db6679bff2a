// Package follow implements live extraction, it subscribes to the chain head of an
// ethereum node and persists every new block with the same artifact contract used by
// the range extractor.
package follow

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/fdymylja/blockdump/extract"
	"github.com/fdymylja/blockdump/interfaces"
	"github.com/fdymylja/blockdump/node"
	"github.com/fdymylja/blockdump/nodeop"
	"github.com/fdymylja/blockdump/status"
)

// DefaultOptions defines the default options for the Client
var DefaultOptions = &Options{
	NodeOpTimeout:    15 * time.Second,
	WaitAfterHeader:  5 * time.Second,
	FileMode:         0o644,
	FullTransactions: true,
}

// Options represents the parameters used by the Client
type Options struct {
	// NodeOpTimeout is the timeout for node query operations
	NodeOpTimeout time.Duration
	// WaitAfterHeader is how long the client waits before querying block contents,
	// it gives the node time to index the announced block
	WaitAfterHeader time.Duration
	// FileMode is the permission mode of the written artifacts
	FileMode os.FileMode
	// FullTransactions makes artifacts carry full transaction objects instead of
	// transaction hashes only
	FullTransactions bool
}

// NewClientDefault creates a Client instance with default options and no logging
func NewClientDefault(endpoint, outDir string) *Client {
	return NewClient(endpoint, outDir, DefaultOptions, nil)
}

// NewClient creates a Client instance with programmable options, a nil logger
// silences diagnostics
func NewClient(endpoint, outDir string, options *Options, logger *zap.SugaredLogger) *Client {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	c := &Client{
		mu:       new(sync.Mutex),
		endpoint: endpoint,
		outDir:   outDir,
		options:  options,
		log:      logger,
	}
	c.dial = c.dialNode
	return c
}

// Client follows the chain head of an ethereum node, it connects to the node, waits
// for new heads and persists every announced block under the output directory as
// <blockNumber>.json. It is concurrency safe and can be used multiple times as long
// as Close() is called before the next Connect(). It forwards only one error, the
// error can come from the head subscription, from pulling block contents or from
// writing the artifact. If Close() is called, and there were no prior errors, it
// forwards ErrShutdown to signal that the instance has exited due to shutdown. This
// error can be safely ignored.
type Client struct {
	saved chan uint64

	sendErrorOnce *sync.Once
	errs          chan error
	shutdown      chan struct{}
	loopExit      chan struct{}

	endpoint string
	outDir   string
	options  *Options
	log      *zap.SugaredLogger

	mu        *sync.Mutex
	connected bool
	client    interfaces.Node

	// dial is swapped by tests to run against mock nodes
	dial func(ctx context.Context, endpoint string) (interfaces.Node, error)
}

func (c *Client) dialNode(ctx context.Context, endpoint string) (interfaces.Node, error) {
	return node.DialOptions(ctx, endpoint, &node.Options{FullTransactions: c.options.FullTransactions})
}

// init instantiates the types necessary for the client to work, this function makes
// the client re-usable
func (c *Client) init() {
	c.saved = make(chan uint64)
	c.shutdown = make(chan struct{})
	c.loopExit = make(chan struct{})
	c.errs = make(chan error, 1)
	c.sendErrorOnce = new(sync.Once)
}

// context returns a Context and a CancelFunc, the context is used to query the node
// with the configured timeout
func (c *Client) context() (context.Context, context.CancelFunc) {
	if c.options.NodeOpTimeout == 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), c.options.NodeOpTimeout)
}

// Connect connects the instance to the node and starts the loop that dumps new blocks
func (c *Client) Connect() (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// check if connected
	if c.connected {
		return status.ErrAlreadyConnected
	}
	// if it is not connected init
	c.init()
	// connect to the node
	ctx, cancel := c.context()
	defer cancel()
	c.client, err = c.dial(ctx, c.endpoint)
	if err != nil {
		return &status.ErrConnect{Endpoint: c.endpoint, Err: err}
	}
	// subscribe to heads
	ctx, cancel = c.context()
	defer cancel()
	headers := make(chan *types.Header)
	sub, err := c.client.SubscribeNewHead(ctx, headers)
	if err != nil {
		c.client.Close()
		return &status.ErrConnect{Endpoint: c.endpoint, Err: err}
	}
	// start main loop
	go c.loop(headers, sub)
	// at the end set connected to true
	c.connected = true
	// return
	return
}

// loop loops through node events using an ethereum subscription
func (c *Client) loop(headers <-chan *types.Header, sub ethereum.Subscription) {
	defer close(c.loopExit)
	defer sub.Unsubscribe()
	for {
		select {
		case <-c.shutdown:
			return
		case err := <-sub.Err():
			c.sendError(err)
			return
		case header := <-headers:
			if err := c.onHeader(header); err != nil {
				c.sendError(err)
				return
			}
		}
	}
}

// onHeader handles operations done when a header is received
func (c *Client) onHeader(header *types.Header) error {
	// give the node time to index the announced block
	if c.options.WaitAfterHeader > 0 {
		select {
		case <-c.shutdown:
			return nil
		case <-time.After(c.options.WaitAfterHeader):
		}
	}
	blockN := header.Number.Uint64()
	// pull the block contents
	ctx, cancel := c.context()
	block, err := nodeop.DownloadBlockByNumber(ctx, c.client, blockN)
	cancel()
	if err != nil {
		return &status.ErrFetchBlock{BlockNumber: blockN, Err: err}
	}
	// persist the artifact
	path := extract.ArtifactPath(c.outDir, blockN)
	if err = os.WriteFile(path, block, c.options.FileMode); err != nil {
		return &status.ErrWriteArtifact{BlockNumber: blockN, Path: path, Err: err}
	}
	c.log.Debugw("block saved", "block", blockN, "path", path)
	// forward the saved block number
	select {
	case <-c.shutdown:
	case c.saved <- blockN:
	}
	return nil
}

// sendError forwards the first error to the listener
func (c *Client) sendError(err error) {
	c.sendErrorOnce.Do(func() {
		c.errs <- err
	})
}

// Saved returns the channel that forwards the numbers of saved blocks
func (c *Client) Saved() <-chan uint64 {
	return c.saved
}

// Err returns the channel that forwards the instance error
func (c *Client) Err() <-chan error {
	return c.errs
}

// Close stops the instance, closes the connection to the node and makes the instance
// re-usable for the next Connect()
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return status.ErrNotConnected
	}
	close(c.shutdown)
	// wait for the loop to exit before releasing the connection it uses
	<-c.loopExit
	c.client.Close()
	c.sendError(status.ErrShutdown)
	c.connected = false
	return nil
}
