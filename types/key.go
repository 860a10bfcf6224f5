package types

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// GetBlobName names a blob by its batch header hash and blob index, e.g. blob_b1a2b..._i3
func GetBlobName(batchHeaderHash common.Hash, index uint32) string {
	return fmt.Sprintf("blob_b%x_i%d", batchHeaderHash.Bytes(), index)
}
