package entity

// Batch is the API view of a confirmed batch and the blobs retrieved for it.
type Batch struct {
	BatchHeaderHash string  `json:"batch_header_hash"`
	BatchId         uint32  `json:"batch_id"`
	BlockNumber     uint64  `json:"block_number"`
	BlockHash       string  `json:"block_hash"`
	TxHash          string  `json:"tx_hash"`
	LogIndex        uint    `json:"log_index"`
	BlobCount       int     `json:"blob_count"`
	Status          string  `json:"status"`
	EndReason       string  `json:"end_reason,omitempty"`
	Blobs           []*Blob `json:"blobs,omitempty"`
}

type Blob struct {
	Index    uint32 `json:"index"`
	Size     int    `json:"size"`
	DataHash string `json:"data_hash"`
}

type Block struct {
	Number uint64 `json:"number"`
	Hash   string `json:"hash"`
}
