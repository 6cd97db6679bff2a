package mocks

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// BlockHash returns the deterministic hash used by fixture block n
func BlockHash(n uint64) common.Hash {
	return crypto.Keccak256Hash([]byte(fmt.Sprintf("mock block %d", n)))
}

// RawBlock builds the deterministic raw JSON document of fixture block n, the document
// carries the subset of fields tests care about and is stable across calls
func RawBlock(n uint64) json.RawMessage {
	doc := fmt.Sprintf(`{"number":%q,"hash":%q,"parentHash":%q,"transactions":[]}`,
		hexutil.EncodeUint64(n), BlockHash(n).Hex(), BlockHash(n-1).Hex())
	return json.RawMessage(doc)
}

// RawBlocks builds fixture documents for every block in [start, finish], both included
func RawBlocks(start, finish uint64) map[uint64]json.RawMessage {
	if start > finish {
		panic("starting block bigger than finishing block")
	}
	blocks := make(map[uint64]json.RawMessage, finish-start+1)
	for n := start; n <= finish; n++ {
		blocks[n] = RawBlock(n)
	}
	return blocks
}
