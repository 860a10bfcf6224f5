package extractor

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnb-chain/da-syncer/contract"
	"github.com/bnb-chain/da-syncer/types"
)

var (
	serviceManager = common.HexToAddress("0x5fbdb2315678afecb367f032d93f642f64180aa3")
	otherContract  = common.HexToAddress("0x00000000000000000000000000000000deadbeef")
)

func newTx(nonce uint64) *ethtypes.Transaction {
	to := serviceManager
	return ethtypes.NewTx(&ethtypes.LegacyTx{Nonce: nonce, To: &to, Gas: 21000, GasPrice: big.NewInt(1)})
}

func batchLog(t *testing.T, address common.Address, hashByte byte, batchId uint32) *ethtypes.Log {
	topics, data, err := contract.PackBatchConfirmed(common.BytesToHash(bytesOf(hashByte)), batchId)
	require.NoError(t, err)
	return &ethtypes.Log{Address: address, Topics: topics, Data: data}
}

func bytesOf(b byte) []byte {
	bz := make([]byte, common.HashLength)
	for i := range bz {
		bz[i] = b
	}
	return bz
}

func successReceipt(logs ...*ethtypes.Log) *ethtypes.Receipt {
	return &ethtypes.Receipt{Status: ethtypes.ReceiptStatusSuccessful, Logs: logs}
}

func collect(it *EventIterator) []*types.ExtractedEvent {
	var events []*types.ExtractedEvent
	for it.Next() {
		events = append(events, it.Event())
	}
	return events
}

func TestExtractNoMatchingLogs(t *testing.T) {
	ex := New(serviceManager)

	assert.Empty(t, collect(ex.Extract(nil)))
	assert.Empty(t, collect(ex.Extract(&types.Chain{})))

	chain := &types.Chain{Blocks: []*types.Block{{
		Number:       1,
		Transactions: []*ethtypes.Transaction{newTx(0), newTx(1)},
		Receipts:     []*ethtypes.Receipt{successReceipt(), successReceipt()},
	}}}
	assert.Empty(t, collect(ex.Extract(chain)))
}

func TestExtractFiltersByAddress(t *testing.T) {
	ex := New(serviceManager)
	chain := &types.Chain{Blocks: []*types.Block{{
		Number:       1,
		Transactions: []*ethtypes.Transaction{newTx(0)},
		Receipts: []*ethtypes.Receipt{successReceipt(
			batchLog(t, otherContract, 0x11, 1),
			batchLog(t, serviceManager, 0x22, 2),
			batchLog(t, otherContract, 0x33, 3),
		)},
	}}}

	events := collect(ex.Extract(chain))
	require.Len(t, events, 1)
	assert.Equal(t, serviceManager, events[0].Log.Address)
	assert.Equal(t, uint32(2), events[0].Event.BatchId)
}

func TestExtractSkipsUndecodableAndFailed(t *testing.T) {
	ex := New(serviceManager)
	foreign := &ethtypes.Log{Address: serviceManager, Topics: []common.Hash{{0x01}}, Data: []byte{0x01}}
	malformed := batchLog(t, serviceManager, 0x44, 4)
	malformed.Data = malformed.Data[:8]

	chain := &types.Chain{Blocks: []*types.Block{{
		Number:       1,
		Transactions: []*ethtypes.Transaction{newTx(0), newTx(1), newTx(2), newTx(3)},
		Receipts: []*ethtypes.Receipt{
			successReceipt(foreign, malformed, batchLog(t, serviceManager, 0x55, 5)),
			{Status: ethtypes.ReceiptStatusFailed, Logs: []*ethtypes.Log{batchLog(t, serviceManager, 0x66, 6)}},
			nil,
			// the fourth transaction has no receipt at all
		},
	}}}

	events := collect(ex.Extract(chain))
	require.Len(t, events, 1)
	assert.Equal(t, uint32(5), events[0].Event.BatchId)
	assert.Equal(t, chain.Blocks[0].Transactions[0], events[0].Tx)
}

func TestExtractOrdering(t *testing.T) {
	ex := New(serviceManager)
	chain := &types.Chain{Blocks: []*types.Block{
		{
			Number:       10,
			Transactions: []*ethtypes.Transaction{newTx(0), newTx(1)},
			Receipts: []*ethtypes.Receipt{
				successReceipt(batchLog(t, serviceManager, 0x01, 1), batchLog(t, serviceManager, 0x02, 2)),
				successReceipt(batchLog(t, serviceManager, 0x03, 3)),
			},
		},
		{Number: 11},
		{
			Number:       12,
			Transactions: []*ethtypes.Transaction{newTx(2)},
			Receipts:     []*ethtypes.Receipt{successReceipt(batchLog(t, serviceManager, 0x04, 4))},
		},
	}}

	events := collect(ex.Extract(chain))
	require.Len(t, events, 4)
	for i, ev := range events {
		assert.Equal(t, uint32(i+1), ev.Event.BatchId)
		assert.Equal(t, common.BytesToHash(bytesOf(byte(i+1))), ev.Event.BatchHeaderHash)
	}
	assert.Equal(t, uint64(10), events[0].Block.Number)
	assert.Equal(t, chain.Blocks[0].Transactions[1], events[2].Tx)
	assert.Equal(t, uint64(12), events[3].Block.Number)
}

func TestExtractIsRepeatable(t *testing.T) {
	ex := New(serviceManager)
	chain := &types.Chain{Blocks: []*types.Block{{
		Number:       1,
		Transactions: []*ethtypes.Transaction{newTx(0)},
		Receipts: []*ethtypes.Receipt{successReceipt(
			batchLog(t, serviceManager, 0x0a, 1),
			batchLog(t, otherContract, 0x0b, 2),
			batchLog(t, serviceManager, 0x0c, 3),
		)},
	}}}

	first := collect(ex.Extract(chain))
	second := collect(ex.Extract(chain))
	require.Len(t, first, 2)
	assert.Equal(t, first, second)
}

func TestIteratorIsExhausted(t *testing.T) {
	ex := New(serviceManager)
	chain := &types.Chain{Blocks: []*types.Block{{
		Number:       1,
		Transactions: []*ethtypes.Transaction{newTx(0)},
		Receipts:     []*ethtypes.Receipt{successReceipt(batchLog(t, serviceManager, 0x01, 1))},
	}}}

	it := ex.Extract(chain)
	require.True(t, it.Next())
	require.False(t, it.Next())
	assert.False(t, it.Next())
	assert.Nil(t, it.Event())
}
