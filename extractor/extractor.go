package extractor

import (
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/bnb-chain/da-syncer/contract"
	"github.com/bnb-chain/da-syncer/logging"
	"github.com/bnb-chain/da-syncer/types"
)

// Extractor finds BatchConfirmed events emitted by one contract in a committed chain.
type Extractor struct {
	address common.Address
}

func New(address common.Address) *Extractor {
	return &Extractor{address: address}
}

// Extract returns an iterator over the BatchConfirmed events of chain in block, transaction
// and log order. Logs are decoded lazily as the iterator advances.
func (e *Extractor) Extract(chain *types.Chain) *EventIterator {
	it := &EventIterator{address: e.address}
	if chain != nil {
		it.blocks = chain.Blocks
	}
	return it
}

// EventIterator walks blocks, then transactions paired with their receipts, then receipt logs.
type EventIterator struct {
	address common.Address
	blocks  []*types.Block

	blockIdx int
	txIdx    int
	logIdx   int

	cur  *types.ExtractedEvent
	done bool
}

// Next advances to the next decoded event and reports whether there is one.
func (it *EventIterator) Next() bool {
	if it.done {
		return false
	}
	for it.blockIdx < len(it.blocks) {
		block := it.blocks[it.blockIdx]
		for it.txIdx < len(block.Transactions) {
			receipt := receiptAt(block, it.txIdx)
			if receipt == nil || receipt.Status == ethtypes.ReceiptStatusFailed {
				it.nextTx()
				continue
			}
			for it.logIdx < len(receipt.Logs) {
				log := receipt.Logs[it.logIdx]
				it.logIdx++
				if log == nil || log.Address != it.address {
					continue
				}
				res := contract.DecodeBatchConfirmed(log)
				if res.Status != contract.Decoded {
					logging.Logger.Debugf("skip log from %s in tx %s, status=%s, err=%v",
						log.Address.Hex(), log.TxHash.Hex(), res.Status, res.Err)
					continue
				}
				it.cur = &types.ExtractedEvent{
					Block: block,
					Tx:    block.Transactions[it.txIdx],
					Log:   log,
					Event: res.Event,
				}
				return true
			}
			it.nextTx()
		}
		it.blockIdx++
		it.txIdx = 0
		it.logIdx = 0
	}
	it.cur = nil
	it.done = true
	return false
}

// Event returns the event the iterator is positioned at.
func (it *EventIterator) Event() *types.ExtractedEvent {
	return it.cur
}

func (it *EventIterator) nextTx() {
	it.txIdx++
	it.logIdx = 0
}

func receiptAt(block *types.Block, i int) *ethtypes.Receipt {
	if i >= len(block.Receipts) {
		return nil
	}
	return block.Receipts[i]
}
