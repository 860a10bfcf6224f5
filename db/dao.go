package db

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BlobDao interface {
	BlockDB
	BatchDB
	BlobDB
}

type BlobSvcDB struct {
	db *gorm.DB
}

func NewBlobSvcDB(db *gorm.DB) BlobDao {
	return &BlobSvcDB{
		db,
	}
}

type BlockDB interface {
	GetLatestProcessedBlock() (*Block, error)
	SaveBlock(block *Block) error
}

// GetLatestProcessedBlock returns the highest processed block, an empty block if none.
func (d *BlobSvcDB) GetLatestProcessedBlock() (*Block, error) {
	block := Block{}
	err := d.db.Model(Block{}).Order("number desc").Take(&block).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}
	return &block, nil
}

func (d *BlobSvcDB) SaveBlock(block *Block) error {
	return d.db.Transaction(func(dbTx *gorm.DB) error {
		err := dbTx.Create(block).Error
		if IsDuplicateEntryErr(err) {
			// a replayed notification was acknowledged again
			return dbTx.Model(Block{}).Where("number = ?", block.Number).Updates(
				Block{Hash: block.Hash, CreatedTime: block.CreatedTime}).Error
		}
		return err
	})
}

type BatchDB interface {
	GetBatch(batchHeaderHash string) (*Batch, error)
	GetBatchesByBlockNumber(blockNumber uint64) ([]*Batch, error)
	SaveBatch(batch *Batch) error
	UpdateBatchResult(batchHeaderHash string, blobCount int, status BatchStatus, endReason string, updatedTime int64) error
}

func (d *BlobSvcDB) GetBatch(batchHeaderHash string) (*Batch, error) {
	batch := Batch{}
	err := d.db.Model(Batch{}).Where("batch_header_hash = ?", batchHeaderHash).Take(&batch).Error
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

func (d *BlobSvcDB) GetBatchesByBlockNumber(blockNumber uint64) ([]*Batch, error) {
	batches := make([]*Batch, 0)
	if err := d.db.Where("block_number = ?", blockNumber).Order("log_index asc").Find(&batches).Error; err != nil {
		return batches, err
	}
	return batches, nil
}

// SaveBatch inserts the batch or resets an existing one with the same header hash. The blobs
// recorded by an earlier retrieval of the batch are dropped.
func (d *BlobSvcDB) SaveBatch(batch *Batch) error {
	return d.db.Transaction(func(dbTx *gorm.DB) error {
		if err := dbTx.Where("batch_header_hash = ?", batch.BatchHeaderHash).Delete(&Blob{}).Error; err != nil {
			return err
		}
		return dbTx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "batch_header_hash"}},
			DoUpdates: clause.AssignmentColumns([]string{"batch_id", "block_number", "block_hash", "tx_hash", "log_index", "blob_count", "status", "end_reason", "updated_time"}),
		}).Create(batch).Error
	})
}

func (d *BlobSvcDB) UpdateBatchResult(batchHeaderHash string, blobCount int, status BatchStatus, endReason string, updatedTime int64) error {
	return d.db.Transaction(func(dbTx *gorm.DB) error {
		return dbTx.Model(Batch{}).Where("batch_header_hash = ?", batchHeaderHash).Updates(map[string]interface{}{
			"blob_count":   blobCount,
			"status":       status,
			"end_reason":   endReason,
			"updated_time": updatedTime,
		}).Error
	})
}

type BlobDB interface {
	GetBlobsByBatch(batchHeaderHash string) ([]*Blob, error)
	SaveBlob(blob *Blob) error
}

func (d *BlobSvcDB) GetBlobsByBatch(batchHeaderHash string) ([]*Blob, error) {
	blobs := make([]*Blob, 0)
	if err := d.db.Where("batch_header_hash = ?", batchHeaderHash).Order("idx asc").Find(&blobs).Error; err != nil {
		return blobs, err
	}
	return blobs, nil
}

func (d *BlobSvcDB) SaveBlob(blob *Blob) error {
	return d.db.Transaction(func(dbTx *gorm.DB) error {
		return dbTx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"size", "data_hash"}),
		}).Create(blob).Error
	})
}

func AutoMigrateDB(db *gorm.DB) {
	var err error
	if err = db.AutoMigrate(&Block{}); err != nil {
		panic(err)
	}
	if err = db.AutoMigrate(&Batch{}); err != nil {
		panic(err)
	}
	if err = db.AutoMigrate(&Blob{}); err != nil {
		panic(err)
	}
}
