package nodeop

import (
	"context"
	"encoding/json"

	"github.com/fdymylja/utils"

	"github.com/fdymylja/blockdump/interfaces"
	"github.com/fdymylja/blockdump/status"
)

// DownloadBlockByNumber downloads the raw block document given a BlockReader and the block number
func DownloadBlockByNumber(ctx context.Context, client interfaces.BlockReader, blockNumber uint64) (block json.RawMessage, err error) {
	defer utils.WrapErrorP(&err)
	block, err = client.BlockByNumber(ctx, blockNumber)
	return
}

// DownloadBlocksByRange downloads blocks from a BlockReader given a starting and an ending
// block number, both included; blocks are pulled sequentially in increasing order and the
// download stops at the first block whose pull fails
func DownloadBlocksByRange(ctx context.Context, client interfaces.BlockReader, blockStart, blockFinish uint64) (blocks []json.RawMessage, err error) {
	defer utils.WrapErrorP(&err)
	if blockStart > blockFinish {
		return nil, status.ErrInvalidRange
	}
	blocks = make([]json.RawMessage, 0, blockFinish-blockStart+1)
	for n := blockStart; n <= blockFinish; n++ {
		block, err := DownloadBlockByNumber(ctx, client, n)
		if err != nil {
			return blocks, err
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

// DownloadLatestBlockNumber returns the number of the most recent block known to the node
func DownloadLatestBlockNumber(ctx context.Context, client interfaces.BlockReader) (n uint64, err error) {
	defer utils.WrapErrorP(&err)
	n, err = client.BlockNumber(ctx)
	return
}
