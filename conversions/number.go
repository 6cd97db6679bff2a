package conversions

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/fdymylja/utils"
)

// HexToUint64 converts a hexadecimal quantity string to uint64, must start with 0x prefix
func HexToUint64(str string) (n uint64, err error) {
	defer utils.WrapErrorP(&err)
	n, err = hexutil.DecodeUint64(str)
	return
}

// Uint64ToHex converts a uint64 to the hexadecimal quantity representation used by nodes
func Uint64ToHex(n uint64) string {
	return hexutil.EncodeUint64(n)
}
