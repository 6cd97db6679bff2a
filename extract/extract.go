// Package extract implements the block range extractor, it pulls blocks from an
// ethereum node one by one over an inclusive range and persists each one as an
// individual JSON artifact named after its block number.
package extract

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/fdymylja/blockdump/interfaces"
	"github.com/fdymylja/blockdump/node"
	"github.com/fdymylja/blockdump/nodeop"
	"github.com/fdymylja/blockdump/status"
)

// DefaultOptions defines the default options for the Extractor
var DefaultOptions = &Options{
	NodeOpTimeout:    15 * time.Second,
	FileMode:         0o644,
	FullTransactions: true,
}

// Options represents the parameters used by the Extractor
type Options struct {
	// NodeOpTimeout is the timeout for node query operations
	NodeOpTimeout time.Duration
	// FileMode is the permission mode of the written artifacts
	FileMode os.FileMode
	// FullTransactions makes artifacts carry full transaction objects instead of
	// transaction hashes only
	FullTransactions bool
}

// Request describes one extraction run, it is immutable for the run's duration
type Request struct {
	// OutDir is the directory that receives the artifacts, it must exist and be
	// writable, the Extractor never creates it
	OutDir string
	// StartBlock is the first block of the range
	StartBlock uint64
	// EndBlock is the last block of the range, included
	EndBlock uint64
	// Endpoint is where the node client connects to
	Endpoint string
}

// ArtifactPath returns the path of the artifact of block n under dir
func ArtifactPath(dir string, n uint64) string {
	return filepath.Join(dir, strconv.FormatUint(n, 10)+".json")
}

// NewDefault builds an Extractor with default options and no logging
func NewDefault() *Extractor {
	return New(DefaultOptions, nil)
}

// New builds an Extractor instance, a nil logger silences diagnostics
func New(options *Options, logger *zap.SugaredLogger) *Extractor {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	e := &Extractor{
		options: options,
		log:     logger,
	}
	e.dial = e.dialNode
	return e
}

// Extractor pulls blocks over a range and writes one artifact per block, fetches are
// strictly sequential: the next block is not requested until the current block's
// artifact write was issued. A failed run leaves the artifacts written before the
// failing block in place.
type Extractor struct {
	options *Options
	log     *zap.SugaredLogger

	// dial is swapped by tests to run against mock nodes
	dial func(ctx context.Context, endpoint string) (interfaces.BlockReader, error)
}

func (e *Extractor) dialNode(ctx context.Context, endpoint string) (interfaces.BlockReader, error) {
	return node.DialOptions(ctx, endpoint, &node.Options{FullTransactions: e.options.FullTransactions})
}

// context returns a Context and CancelFunc used to query the node with the configured timeout
func (e *Extractor) context(parent context.Context) (context.Context, context.CancelFunc) {
	if e.options.NodeOpTimeout == 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, e.options.NodeOpTimeout)
}

// Run connects to the node at the request's endpoint and extracts the requested
// range, the connection is released best-effort once the run ends. Errors are
// reported as status.ErrConnect, status.ErrFetchBlock or status.ErrWriteArtifact
// depending on which stage failed; the first failure aborts the run.
func (e *Extractor) Run(ctx context.Context, req Request) error {
	if req.EndBlock < req.StartBlock {
		return status.ErrInvalidRange
	}
	dialCtx, cancel := e.context(ctx)
	defer cancel()
	client, err := e.dial(dialCtx, req.Endpoint)
	if err != nil {
		return &status.ErrConnect{Endpoint: req.Endpoint, Err: err}
	}
	defer closeReader(client)
	return e.pull(ctx, client, req)
}

// pull runs the fetch and write loop over the request's range
func (e *Extractor) pull(ctx context.Context, client interfaces.BlockReader, req Request) error {
	for n := req.StartBlock; ; n++ {
		opCtx, cancel := e.context(ctx)
		block, err := nodeop.DownloadBlockByNumber(opCtx, client, n)
		cancel()
		if err != nil {
			return &status.ErrFetchBlock{BlockNumber: n, Err: err}
		}
		path := ArtifactPath(req.OutDir, n)
		if err = os.WriteFile(path, block, e.options.FileMode); err != nil {
			return &status.ErrWriteArtifact{BlockNumber: n, Path: path, Err: err}
		}
		e.log.Debugw("block saved", "block", n, "path", path)
		if n == req.EndBlock {
			break
		}
	}
	e.log.Infow("extraction finished",
		"start", req.StartBlock,
		"final", req.EndBlock,
		"blocks", req.EndBlock-req.StartBlock+1,
		"dir", req.OutDir)
	return nil
}

// closeReader releases the reader's connection if its transport supports an explicit
// close operation, otherwise it is a no-op; closing is best-effort and never fails
func closeReader(client interfaces.BlockReader) {
	c, ok := client.(interface{ Close() })
	if !ok {
		return
	}
	c.Close()
}
