package db

type Batch struct {
	Id              int64
	BatchHeaderHash string `gorm:"NOT NULL;uniqueIndex:idx_batch_header_hash;size:64"`
	BatchId         uint32 `gorm:"NOT NULL;index:idx_batch_id"`
	BlockNumber     uint64 `gorm:"NOT NULL;index:idx_batch_block_number"`
	BlockHash       string `gorm:"NOT NULL;size:64"`
	TxHash          string `gorm:"NOT NULL;index:idx_batch_tx_hash;size:64"`
	LogIndex        uint
	BlobCount       int
	Status          BatchStatus `gorm:"NOT NULL"`
	EndReason       string
	UpdatedTime     int64 `gorm:"NOT NULL;comment:updated_time"`
}

func (*Batch) TableName() string {
	return "batch"
}
