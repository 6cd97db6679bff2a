package nodeop

import (
	"bytes"
	"context"
	"testing"

	"github.com/fdymylja/blockdump/mocks"
)

func TestDownloadBlockByNumber(t *testing.T) {
	n := mocks.NewNode(100, 110)
	defer n.Close()
	block, err := DownloadBlockByNumber(context.Background(), n, 105)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(block, mocks.RawBlock(105)) {
		t.Fatal("block document does not match fixture")
	}
}

func TestDownloadBlockByNumber_NotFound(t *testing.T) {
	n := mocks.NewNode(100, 110)
	defer n.Close()
	_, err := DownloadBlockByNumber(context.Background(), n, 111)
	if err == nil {
		t.Fatal("pulling a block the node does not know should fail")
	}
}

func TestDownloadBlocksByRange(t *testing.T) {
	n := mocks.NewNode(100, 110)
	defer n.Close()
	blocks, err := DownloadBlocksByRange(context.Background(), n, 100, 102)
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 3 {
		t.Fatalf("unexpected number of blocks: %d", len(blocks))
	}
	for i, block := range blocks {
		if !bytes.Equal(block, mocks.RawBlock(100+uint64(i))) {
			t.Fatalf("block %d does not match fixture", 100+uint64(i))
		}
	}
}

func TestDownloadBlocksByRange_InvalidRange(t *testing.T) {
	n := mocks.NewNode(100, 110)
	defer n.Close()
	_, err := DownloadBlocksByRange(context.Background(), n, 102, 100)
	if err == nil {
		t.Fatal("an inverted range should not download")
	}
}

// the download must stop at the first block whose pull fails, blocks before it are returned
func TestDownloadBlocksByRange_Partial(t *testing.T) {
	n := mocks.NewNode(100, 105)
	defer n.Close()
	blocks, err := DownloadBlocksByRange(context.Background(), n, 104, 110)
	if err == nil {
		t.Fatal("download should stop at the first unknown block")
	}
	if len(blocks) != 2 {
		t.Fatalf("unexpected number of blocks before failure: %d", len(blocks))
	}
}

func TestDownloadLatestBlockNumber(t *testing.T) {
	n := mocks.NewNode(100, 110)
	defer n.Close()
	head, err := DownloadLatestBlockNumber(context.Background(), n)
	if err != nil {
		t.Fatal(err)
	}
	if head != 110 {
		t.Fatalf("unexpected chain head: %d", head)
	}
}
