package retriever

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/bnb-chain/da-syncer/codec"
	"github.com/bnb-chain/da-syncer/types"
)

// FirstBlobIndex is where the lookup of every batch starts.
const FirstBlobIndex uint32 = 1

// DisperserClient fetches one padded blob of a confirmed batch.
type DisperserClient interface {
	RetrieveBlob(ctx context.Context, batchHeaderHash []byte, blobIndex uint32) ([]byte, error)
}

type BatchRetriever struct {
	client DisperserClient
}

func New(client DisperserClient) *BatchRetriever {
	return &BatchRetriever{client: client}
}

// Retrieve returns an iterator over the blobs of a batch. Blobs are requested one at a time
// with increasing index; the first failed request, whatever its cause, ends the batch.
func (r *BatchRetriever) Retrieve(ctx context.Context, batchHeaderHash common.Hash) *BlobIterator {
	return &BlobIterator{
		ctx:             ctx,
		client:          r.client,
		batchHeaderHash: batchHeaderHash,
		next:            FirstBlobIndex,
	}
}

type BlobIterator struct {
	ctx             context.Context
	client          DisperserClient
	batchHeaderHash common.Hash

	next     uint32
	cur      *types.RetrievedBlob
	err      error
	done     bool
	attempts int
}

// Next requests the blob at the cursor and reports whether one was retrieved.
func (it *BlobIterator) Next() bool {
	if it.done {
		return false
	}
	it.attempts++
	data, err := it.client.RetrieveBlob(it.ctx, it.batchHeaderHash.Bytes(), it.next)
	if err != nil {
		it.cur = nil
		it.err = err
		it.done = true
		return false
	}
	it.cur = &types.RetrievedBlob{
		BatchHeaderHash: it.batchHeaderHash,
		Index:           it.next,
		Data:            codec.RemoveEmptyByteFromPaddedBytes(data),
	}
	it.next++
	return true
}

// Blob returns the blob retrieved by the last successful Next.
func (it *BlobIterator) Blob() *types.RetrievedBlob {
	return it.cur
}

// Err returns the failure that ended the batch. The protocol does not tell a batch that
// has no more blobs apart from a failed request, so callers should treat it as informational.
func (it *BlobIterator) Err() error {
	return it.err
}

// Attempts is the number of requests issued, including the final failing one.
func (it *BlobIterator) Attempts() int {
	return it.attempts
}
