package syncer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bnb-chain/da-syncer/codec"
	"github.com/bnb-chain/da-syncer/contract"
	"github.com/bnb-chain/da-syncer/db"
	"github.com/bnb-chain/da-syncer/external/eigenda"
	"github.com/bnb-chain/da-syncer/types"
)

var serviceManager = common.HexToAddress("0x5fbdb2315678afecb367f032d93f642f64180aa3")

// fakeHost delivers a fixed list of notifications, then ends the stream.
type fakeHost struct {
	notifications []*types.ChainNotification
	nextErr       error
	ackErr        error

	acks    []types.NumHash
	journal *[]string
}

func (h *fakeHost) Next(ctx context.Context) (*types.ChainNotification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(h.notifications) == 0 {
		if h.nextErr != nil {
			return nil, h.nextErr
		}
		return nil, io.EOF
	}
	n := h.notifications[0]
	h.notifications = h.notifications[1:]
	return n, nil
}

func (h *fakeHost) FinishedHeight(_ context.Context, tip types.NumHash) error {
	if h.ackErr != nil {
		return h.ackErr
	}
	h.acks = append(h.acks, tip)
	if h.journal != nil {
		*h.journal = append(*h.journal, fmt.Sprintf("ack %d", tip.Number))
	}
	return nil
}

// fakeDisperser serves blobCounts[hash] blobs per batch and NotFound afterwards.
type fakeDisperser struct {
	blobCounts map[common.Hash]uint32
	failWith   error
	onRequest  func(index uint32)
	requests   int
}

func (d *fakeDisperser) RetrieveBlob(ctx context.Context, batchHeaderHash []byte, blobIndex uint32) ([]byte, error) {
	d.requests++
	if d.onRequest != nil {
		d.onRequest(blobIndex)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if blobIndex > d.blobCounts[common.BytesToHash(batchHeaderHash)] {
		if d.failWith != nil {
			return nil, d.failWith
		}
		return nil, fmt.Errorf("%w: index=%d", eigenda.ErrBlobNotFound, blobIndex)
	}
	return codec.ConvertByPaddingEmptyByte(blobPayload(blobIndex)), nil
}

func blobPayload(index uint32) []byte {
	return bytes.Repeat([]byte{byte(index)}, 50*int(index))
}

type handledBlob struct {
	hash  common.Hash
	index uint32
	data  []byte
}

type recordingHandler struct {
	blobs     []handledBlob
	ended     map[common.Hash]int
	endErrs   map[common.Hash]error
	handleErr error
	journal   *[]string
}

func newRecordingHandler(journal *[]string) *recordingHandler {
	return &recordingHandler{
		ended:   make(map[common.Hash]int),
		endErrs: make(map[common.Hash]error),
		journal: journal,
	}
}

func (h *recordingHandler) BeginBatch(_ context.Context, ev *types.ExtractedEvent) error {
	*h.journal = append(*h.journal, fmt.Sprintf("begin %d", ev.Event.BatchId))
	return nil
}

func (h *recordingHandler) HandleBlob(_ context.Context, _ *types.ExtractedEvent, blob *types.RetrievedBlob) error {
	if h.handleErr != nil {
		return h.handleErr
	}
	h.blobs = append(h.blobs, handledBlob{hash: blob.BatchHeaderHash, index: blob.Index, data: blob.Data})
	*h.journal = append(*h.journal, fmt.Sprintf("blob %d", blob.Index))
	return nil
}

func (h *recordingHandler) EndBatch(_ context.Context, ev *types.ExtractedEvent, blobCount int, endErr error) error {
	h.ended[ev.Event.BatchHeaderHash] = blobCount
	h.endErrs[ev.Event.BatchHeaderHash] = endErr
	*h.journal = append(*h.journal, fmt.Sprintf("end %d", ev.Event.BatchId))
	return nil
}

func repeatHash(b byte) common.Hash {
	return common.BytesToHash(bytes.Repeat([]byte{b}, common.HashLength))
}

func newTx(nonce uint64) *ethtypes.Transaction {
	to := serviceManager
	return ethtypes.NewTx(&ethtypes.LegacyTx{Nonce: nonce, To: &to, Gas: 21000, GasPrice: big.NewInt(1)})
}

func batchConfirmedLog(t *testing.T, hash common.Hash, batchId uint32) *ethtypes.Log {
	topics, data, err := contract.PackBatchConfirmed(hash, batchId)
	require.NoError(t, err)
	return &ethtypes.Log{Address: serviceManager, Topics: topics, Data: data}
}

// newBlock builds a block with one transaction per receipt log list.
func newBlock(number uint64, parent common.Hash, logsPerTx ...[]*ethtypes.Log) *types.Block {
	block := &types.Block{
		Number:     number,
		Hash:       common.BigToHash(new(big.Int).SetUint64(number*1000 + 1)),
		ParentHash: parent,
	}
	for i, logs := range logsPerTx {
		block.Transactions = append(block.Transactions, newTx(number*100+uint64(i)))
		block.Receipts = append(block.Receipts, &ethtypes.Receipt{Status: ethtypes.ReceiptStatusSuccessful, Logs: logs})
	}
	return block
}

func newTestDao(t *testing.T) db.BlobDao {
	gdb, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	db.AutoMigrateDB(gdb)
	return db.NewBlobSvcDB(gdb)
}
