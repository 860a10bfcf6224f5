package syncer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/bnb-chain/da-syncer/external/eigenda"
	"github.com/bnb-chain/da-syncer/extractor"
	"github.com/bnb-chain/da-syncer/logging"
	"github.com/bnb-chain/da-syncer/metrics"
	"github.com/bnb-chain/da-syncer/retriever"
	"github.com/bnb-chain/da-syncer/types"
)

// NotificationSource delivers chain notifications in order. It returns io.EOF once the
// stream has ended.
type NotificationSource interface {
	Next(ctx context.Context) (*types.ChainNotification, error)
}

// HeightReporter receives the tip of every fully processed notification.
type HeightReporter interface {
	FinishedHeight(ctx context.Context, tip types.NumHash) error
}

// BlobHandler consumes the retrieved blobs. Returning an error stops the syncer before the
// notification is acknowledged.
type BlobHandler interface {
	BeginBatch(ctx context.Context, ev *types.ExtractedEvent) error
	HandleBlob(ctx context.Context, ev *types.ExtractedEvent, blob *types.RetrievedBlob) error
	EndBatch(ctx context.Context, ev *types.ExtractedEvent, blobCount int, endErr error) error
}

type BatchSyncerOption interface {
	Apply(*BatchSyncer)
}

type BatchSyncerOptionFunc func(*BatchSyncer)

// Apply set up the option field to the syncer instance.
func (f BatchSyncerOptionFunc) Apply(s *BatchSyncer) {
	f(s)
}

func WithBlobHandler(handler BlobHandler) BatchSyncerOption {
	return BatchSyncerOptionFunc(func(s *BatchSyncer) {
		s.handler = handler
	})
}

// BatchSyncer retrieves the blobs of every confirmed batch found in the notifications of the host,
// one notification at a time.
type BatchSyncer struct {
	source    NotificationSource
	reporter  HeightReporter
	extractor *extractor.Extractor
	retriever *retriever.BatchRetriever
	handler   BlobHandler
}

func NewBatchSyncer(
	source NotificationSource,
	reporter HeightReporter,
	extractor *extractor.Extractor,
	retriever *retriever.BatchRetriever,
	opts ...BatchSyncerOption,
) *BatchSyncer {
	s := &BatchSyncer{
		source:    source,
		reporter:  reporter,
		extractor: extractor,
		retriever: retriever,
		handler:   noopHandler{},
	}
	for _, opt := range opts {
		opt.Apply(s)
	}
	return s
}

// Run consumes notifications until the source ends, the context is done or a notification
// can not be processed or acknowledged.
func (s *BatchSyncer) Run(ctx context.Context) error {
	for {
		notification, err := s.source.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				logging.Logger.Infof("notification stream ended")
				return nil
			}
			return fmt.Errorf("failed to get next notification, err=%w", err)
		}
		if err = s.process(ctx, notification); err != nil {
			return err
		}
	}
}

func (s *BatchSyncer) process(ctx context.Context, notification *types.ChainNotification) error {
	chain := notification.CommittedChain()
	if chain == nil {
		if notification != nil && notification.Reverted != nil {
			logging.Logger.Infof("skip revert-only notification, reverted tip=%d", notification.Reverted.Tip().Number)
		}
		return nil
	}

	events := s.extractor.Extract(chain)
	for events.Next() {
		ev := events.Event()
		metrics.BatchConfirmedEventCounter.Inc()
		logging.Logger.Infof("received BatchConfirmed event, batch_id=%d, batch_header_hash=%s, block=%d, tx=%s",
			ev.Event.BatchId, ev.Event.BatchHeaderHash.Hex(), ev.Block.Number, ev.Tx.Hash().Hex())
		if err := s.retrieveBatch(ctx, ev); err != nil {
			return err
		}
	}

	tip := chain.Tip()
	if err := s.reporter.FinishedHeight(ctx, tip); err != nil {
		return fmt.Errorf("failed to report finished height %d, err=%w", tip.Number, err)
	}
	metrics.ProcessedBlockGauge.Set(float64(tip.Number))
	logging.Logger.Infof("processed blocks %d-%d, tip=%s", chain.Blocks[0].Number, tip.Number, tip.Hash.Hex())
	return nil
}

func (s *BatchSyncer) retrieveBatch(ctx context.Context, ev *types.ExtractedEvent) error {
	if err := s.handler.BeginBatch(ctx, ev); err != nil {
		return fmt.Errorf("failed to begin batch %s, err=%w", ev.Event.BatchHeaderHash.Hex(), err)
	}
	blobs := s.retriever.Retrieve(ctx, ev.Event.BatchHeaderHash)
	blobCount := 0
	for blobs.Next() {
		blob := blobs.Blob()
		logging.Logger.Infof("Got new blob with blob index %d and size %d", blob.Index, len(blob.Data))
		metrics.RetrievedBlobCounter.Inc()
		metrics.RetrievedBlobBytesCounter.Add(float64(len(blob.Data)))
		if err := s.handler.HandleBlob(ctx, ev, blob); err != nil {
			return fmt.Errorf("failed to handle blob %d of batch %s, err=%w", blob.Index, ev.Event.BatchHeaderHash.Hex(), err)
		}
		blobCount++
	}
	// a cancelled lookup is not an end of batch
	if err := ctx.Err(); err != nil {
		return err
	}

	endErr := blobs.Err()
	if errors.Is(endErr, eigenda.ErrBlobNotFound) {
		logging.Logger.Infof("End of batch, batch_header_hash=%s, blobs=%d, requests=%d",
			ev.Event.BatchHeaderHash.Hex(), blobCount, blobs.Attempts())
	} else {
		metrics.BatchAbortedCounter.Inc()
		logging.Logger.Warningf("End of batch on disperser error, batch_header_hash=%s, blobs=%d, requests=%d, err=%v",
			ev.Event.BatchHeaderHash.Hex(), blobCount, blobs.Attempts(), endErr)
	}
	if err := s.handler.EndBatch(ctx, ev, blobCount, endErr); err != nil {
		return fmt.Errorf("failed to end batch %s, err=%w", ev.Event.BatchHeaderHash.Hex(), err)
	}
	return nil
}

type noopHandler struct{}

func (noopHandler) BeginBatch(context.Context, *types.ExtractedEvent) error { return nil }

func (noopHandler) HandleBlob(context.Context, *types.ExtractedEvent, *types.RetrievedBlob) error {
	return nil
}

func (noopHandler) EndBatch(context.Context, *types.ExtractedEvent, int, error) error { return nil }
