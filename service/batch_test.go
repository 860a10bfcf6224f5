package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bnb-chain/da-syncer/cache"
	"github.com/bnb-chain/da-syncer/db"
)

var testHash = strings.Repeat("ab", 32)

func newTestService(t *testing.T) (Batch, db.BlobDao, cache.Cache) {
	gdb, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	db.AutoMigrateDB(gdb)
	dao := db.NewBlobSvcDB(gdb)
	c, err := cache.NewLocalCache(16)
	require.NoError(t, err)
	return NewBatchService(dao, c), dao, c
}

func saveBatch(t *testing.T, dao db.BlobDao, status db.BatchStatus, blobs int) {
	require.NoError(t, dao.SaveBatch(&db.Batch{
		BatchHeaderHash: testHash,
		BatchId:         7,
		BlockNumber:     100,
		BlockHash:       strings.Repeat("01", 32),
		TxHash:          strings.Repeat("02", 32),
		Status:          db.Retrieving,
	}))
	for i := 1; i <= blobs; i++ {
		require.NoError(t, dao.SaveBlob(&db.Blob{
			Name:            fmt.Sprintf("blob_b%s_i%d", testHash, i),
			BatchHeaderHash: testHash,
			Idx:             uint32(i),
			Size:            i * 31,
			DataHash:        strings.Repeat("03", 32),
		}))
	}
	if status != db.Retrieving {
		require.NoError(t, dao.UpdateBatchResult(testHash, blobs, status, "", 1))
	}
}

func TestGetBatch(t *testing.T) {
	svc, dao, c := newTestService(t)
	saveBatch(t, dao, db.Retrieved, 2)

	batch, err := svc.GetBatch("0x" + testHash)
	require.NoError(t, err)
	assert.Equal(t, testHash, batch.BatchHeaderHash)
	assert.Equal(t, uint32(7), batch.BatchId)
	assert.Equal(t, "retrieved", batch.Status)
	assert.Equal(t, 2, batch.BlobCount)
	require.Len(t, batch.Blobs, 2)
	assert.Equal(t, uint32(1), batch.Blobs[0].Index)
	assert.Equal(t, 62, batch.Blobs[1].Size)

	_, found := c.Get(testHash)
	assert.True(t, found)
}

func TestGetBatchInProgressIsNotCached(t *testing.T) {
	svc, dao, c := newTestService(t)
	saveBatch(t, dao, db.Retrieving, 1)

	batch, err := svc.GetBatch(testHash)
	require.NoError(t, err)
	assert.Equal(t, "retrieving", batch.Status)

	_, found := c.Get(testHash)
	assert.False(t, found)
}

func TestGetBatchNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.GetBatch(testHash)
	assert.Equal(t, ErrBatchNotFound, err)
}

func TestGetBatchInvalidHash(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.GetBatch("0x1234")
	require.Error(t, err)
	svcErr, ok := err.(Err)
	require.True(t, ok)
	assert.Equal(t, BadRequestErr.Code, svcErr.Code)
}

func TestGetLatestProcessedBlock(t *testing.T) {
	svc, dao, _ := newTestService(t)

	_, err := svc.GetLatestProcessedBlock()
	assert.Equal(t, ErrBlockNotFound, err)

	require.NoError(t, dao.SaveBlock(&db.Block{Number: 12, Hash: strings.Repeat("0c", 32)}))
	block, err := svc.GetLatestProcessedBlock()
	require.NoError(t, err)
	assert.Equal(t, uint64(12), block.Number)
}

func TestGetBatchesByBlock(t *testing.T) {
	svc, dao, _ := newTestService(t)
	saveBatch(t, dao, db.Retrieved, 2)

	batches, err := svc.GetBatchesByBlock(100)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, testHash, batches[0].BatchHeaderHash)
	assert.Equal(t, "retrieved", batches[0].Status)
	assert.Empty(t, batches[0].Blobs)

	batches, err = svc.GetBatchesByBlock(101)
	require.NoError(t, err)
	assert.Empty(t, batches)
}
