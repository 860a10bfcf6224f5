package db

type Blob struct {
	Id              int64
	Name            string `gorm:"NOT NULL;uniqueIndex:idx_blob_name;size:96"`
	BatchHeaderHash string `gorm:"NOT NULL;index:idx_blob_batch_header_hash_idx;size:64"`
	Idx             uint32 `gorm:"NOT NULL;index:idx_blob_batch_header_hash_idx"`
	Size            int    `gorm:"NOT NULL"`
	DataHash        string `gorm:"NOT NULL;size:64"` // keccak256 of the unpadded data
}

func (*Blob) TableName() string {
	return "blob"
}
