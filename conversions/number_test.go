package conversions

import (
	"testing"
)

func TestHexToUint64(t *testing.T) {
	n, err := HexToUint64("0x63bf84")
	if err != nil {
		t.Fatal(err)
	}
	if n != 6537092 {
		t.Fatalf("unexpected quantity: %d", n)
	}
}

func TestHexToUint64_NoPrefix(t *testing.T) {
	_, err := HexToUint64("63bf84")
	if err == nil {
		t.Fatal("quantities without 0x prefix should not convert")
	}
}

func TestUint64ToHex(t *testing.T) {
	if got := Uint64ToHex(6537092); got != "0x63bf84" {
		t.Fatalf("unexpected hex quantity: %s", got)
	}
}
