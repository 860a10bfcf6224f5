package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/bnb-chain/da-syncer/cache"
	"github.com/bnb-chain/da-syncer/db"
	"github.com/bnb-chain/da-syncer/entity"
	"github.com/bnb-chain/da-syncer/util"
)

type Batch interface {
	GetBatch(batchHeaderHash string) (*entity.Batch, error)
	GetBatchesByBlock(blockNumber uint64) ([]*entity.Batch, error)
	GetLatestProcessedBlock() (*entity.Block, error)
}

type BatchService struct {
	batchDB      db.BlobDao
	cacheService cache.Cache
}

func NewBatchService(batchDB db.BlobDao, cache cache.Cache) Batch {
	return &BatchService{
		batchDB:      batchDB,
		cacheService: cache,
	}
}

// GetBatch returns the batch with its blobs. Only batches whose retrieval has ended are cached,
// a batch being retrieved still gains blobs.
func (b BatchService) GetBatch(batchHeaderHash string) (*entity.Batch, error) {
	hash, err := util.ParseHash(batchHeaderHash)
	if err != nil {
		return nil, BadRequestErr.Enrich(err.Error())
	}
	key := util.HashToHex(hash)
	if cached, found := b.cacheService.Get(key); found {
		return cached.(*entity.Batch), nil
	}

	batch, err := b.batchDB.GetBatch(key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBatchNotFound
		}
		return nil, err
	}
	blobs, err := b.batchDB.GetBlobsByBatch(key)
	if err != nil {
		return nil, err
	}

	result := toBatchEntity(batch)
	result.Blobs = make([]*entity.Blob, 0, len(blobs))
	for _, blob := range blobs {
		result.Blobs = append(result.Blobs, &entity.Blob{
			Index:    blob.Idx,
			Size:     blob.Size,
			DataHash: blob.DataHash,
		})
	}
	if batch.Status != db.Retrieving {
		b.cacheService.Set(key, result)
	}
	return result, nil
}

// GetBatchesByBlock lists the batches confirmed in a block in log order, without their blobs.
func (b BatchService) GetBatchesByBlock(blockNumber uint64) ([]*entity.Batch, error) {
	batches, err := b.batchDB.GetBatchesByBlockNumber(blockNumber)
	if err != nil {
		return nil, err
	}
	result := make([]*entity.Batch, 0, len(batches))
	for _, batch := range batches {
		result = append(result, toBatchEntity(batch))
	}
	return result, nil
}

func (b BatchService) GetLatestProcessedBlock() (*entity.Block, error) {
	block, err := b.batchDB.GetLatestProcessedBlock()
	if err != nil {
		return nil, err
	}
	if block.Number == 0 {
		return nil, ErrBlockNotFound
	}
	return &entity.Block{
		Number: block.Number,
		Hash:   block.Hash,
	}, nil
}

func toBatchEntity(batch *db.Batch) *entity.Batch {
	return &entity.Batch{
		BatchHeaderHash: batch.BatchHeaderHash,
		BatchId:         batch.BatchId,
		BlockNumber:     batch.BlockNumber,
		BlockHash:       batch.BlockHash,
		TxHash:          batch.TxHash,
		LogIndex:        batch.LogIndex,
		BlobCount:       batch.BlobCount,
		Status:          batch.Status.String(),
		EndReason:       batch.EndReason,
	}
}
