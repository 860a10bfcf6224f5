package util

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var ErrInvalidHashLength = errors.New("invalid hash length")

// HashToHex encodes a hash without the 0x prefix, the form persisted to DB.
func HashToHex(h common.Hash) string {
	return strings.TrimPrefix(h.Hex(), "0x")
}

// ParseHash decodes a 32 bytes hex string, with or without the 0x prefix.
func ParseHash(hexStr string) (common.Hash, error) {
	if !strings.HasPrefix(hexStr, "0x") {
		hexStr = "0x" + hexStr
	}
	bz, err := hexutil.Decode(hexStr)
	if err != nil {
		return common.Hash{}, err
	}
	if len(bz) != common.HashLength {
		return common.Hash{}, ErrInvalidHashLength
	}
	return common.BytesToHash(bz), nil
}
