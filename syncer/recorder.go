package syncer

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/bnb-chain/da-syncer/db"
	"github.com/bnb-chain/da-syncer/external/eigenda"
	"github.com/bnb-chain/da-syncer/types"
	"github.com/bnb-chain/da-syncer/util"
)

// DBRecorder keeps batch and blob metadata in DB. Blob data itself is not stored.
type DBRecorder struct {
	dao db.BlobDao
}

func NewDBRecorder(dao db.BlobDao) *DBRecorder {
	return &DBRecorder{dao: dao}
}

func (r *DBRecorder) BeginBatch(_ context.Context, ev *types.ExtractedEvent) error {
	return r.dao.SaveBatch(&db.Batch{
		BatchHeaderHash: util.HashToHex(ev.Event.BatchHeaderHash),
		BatchId:         ev.Event.BatchId,
		BlockNumber:     ev.Block.Number,
		BlockHash:       util.HashToHex(ev.Block.Hash),
		TxHash:          util.HashToHex(ev.Tx.Hash()),
		LogIndex:        ev.Log.Index,
		Status:          db.Retrieving,
		UpdatedTime:     time.Now().Unix(),
	})
}

func (r *DBRecorder) HandleBlob(_ context.Context, _ *types.ExtractedEvent, blob *types.RetrievedBlob) error {
	return r.dao.SaveBlob(&db.Blob{
		Name:            types.GetBlobName(blob.BatchHeaderHash, blob.Index),
		BatchHeaderHash: util.HashToHex(blob.BatchHeaderHash),
		Idx:             blob.Index,
		Size:            len(blob.Data),
		DataHash:        util.HashToHex(crypto.Keccak256Hash(blob.Data)),
	})
}

func (r *DBRecorder) EndBatch(_ context.Context, ev *types.ExtractedEvent, blobCount int, endErr error) error {
	status := db.Retrieved
	endReason := ""
	if endErr != nil {
		endReason = endErr.Error()
		if !errors.Is(endErr, eigenda.ErrBlobNotFound) {
			status = db.Aborted
		}
	}
	return r.dao.UpdateBatchResult(util.HashToHex(ev.Event.BatchHeaderHash), blobCount, status, endReason, time.Now().Unix())
}
