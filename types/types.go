package types

import (
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// NumHash identifies a block by number and hash.
type NumHash struct {
	Number uint64
	Hash   common.Hash
}

// Block is a finalized execution layer block together with the receipts of its transactions.
// Receipts[i] belongs to Transactions[i]; a nil or missing entry means the host has no receipt for it.
type Block struct {
	Number       uint64
	Hash         common.Hash
	ParentHash   common.Hash
	Transactions []*ethtypes.Transaction
	Receipts     []*ethtypes.Receipt
}

func (b *Block) NumHash() NumHash {
	return NumHash{Number: b.Number, Hash: b.Hash}
}

// Chain is an ordered, contiguous range of blocks.
type Chain struct {
	Blocks []*Block
}

// Tip returns the highest block of the chain, the zero value for an empty chain.
func (c *Chain) Tip() NumHash {
	if c == nil || len(c.Blocks) == 0 {
		return NumHash{}
	}
	return c.Blocks[len(c.Blocks)-1].NumHash()
}

// ChainNotification is one unit of chain progress delivered by the host.
type ChainNotification struct {
	Committed *Chain
	Reverted  *Chain
}

// CommittedChain returns the newly committed chain, nil for a revert-only notification.
func (n *ChainNotification) CommittedChain() *Chain {
	if n == nil || n.Committed == nil || len(n.Committed.Blocks) == 0 {
		return nil
	}
	return n.Committed
}

// BatchConfirmedEvent is the decoded form of IEigenDAServiceManager.BatchConfirmed.
type BatchConfirmedEvent struct {
	BatchHeaderHash common.Hash
	BatchId         uint32
}

// ExtractedEvent is a decoded event along with where it was found.
type ExtractedEvent struct {
	Block *Block
	Tx    *ethtypes.Transaction
	Log   *ethtypes.Log
	Event *BatchConfirmedEvent
}

// RetrievedBlob is an unpadded blob payload fetched from the disperser.
type RetrievedBlob struct {
	BatchHeaderHash common.Hash
	Index           uint32
	Data            []byte
}
