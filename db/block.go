package db

// Block is the tip of a processed notification, the latest one is the sync checkpoint.
type Block struct {
	Id          int64
	Number      uint64 `gorm:"NOT NULL;uniqueIndex:idx_block_number"`
	Hash        string `gorm:"NOT NULL;index:idx_block_hash;size:64"`
	CreatedTime int64  `gorm:"NOT NULL;comment:created_time"`
}

func (*Block) TableName() string {
	return "block"
}
