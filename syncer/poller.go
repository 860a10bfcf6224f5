package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/bnb-chain/da-syncer/config"
	"github.com/bnb-chain/da-syncer/db"
	"github.com/bnb-chain/da-syncer/external"
	"github.com/bnb-chain/da-syncer/logging"
	"github.com/bnb-chain/da-syncer/types"
	"github.com/bnb-chain/da-syncer/util"
)

const RPCTimeout = 20 * time.Second

var (
	ErrChainDiscontinuity = errors.New("the fetched blocks do not extend the processed chain")
)

// ChainPoller is the host side of the syncer: it turns final execution layer blocks into
// committed chain notifications and persists the acknowledged tips as the sync checkpoint.
// Blocks are delivered again until their tip is acknowledged.
type ChainPoller struct {
	client       external.IClient
	blockDao     db.BlockDB
	cfg          *config.ChainConfig
	pollInterval time.Duration
	rpcTimeout   time.Duration

	lastProcessed *types.NumHash
}

func NewChainPoller(client external.IClient, blockDao db.BlockDB, cfg *config.ChainConfig) *ChainPoller {
	return &ChainPoller{
		client:       client,
		blockDao:     blockDao,
		cfg:          cfg,
		pollInterval: cfg.GetPollInterval(),
		rpcTimeout:   RPCTimeout,
	}
}

// Next blocks until the next range of final blocks is available.
func (p *ChainPoller) Next(ctx context.Context) (*types.ChainNotification, error) {
	if p.lastProcessed == nil {
		if err := p.loadProgress(); err != nil {
			return nil, err
		}
	}
	for {
		notification, err := p.poll(ctx)
		if err != nil {
			if errors.Is(err, ErrChainDiscontinuity) {
				logging.Logger.Errorf("processed block %d %s is no longer canonical, remove it and the blocks above it from "+
					"the block table to resume below the fork, err=%s", p.lastProcessed.Number, p.lastProcessed.Hash.Hex(), err.Error())
				return nil, err
			}
			logging.Logger.Errorf("failed to poll blocks, err=%s", err.Error())
		} else if notification != nil {
			return notification, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.pollInterval):
		}
	}
}

// FinishedHeight records tip as processed; the next notification starts right after it.
func (p *ChainPoller) FinishedHeight(_ context.Context, tip types.NumHash) error {
	err := p.blockDao.SaveBlock(&db.Block{
		Number:      tip.Number,
		Hash:        util.HashToHex(tip.Hash),
		CreatedTime: time.Now().Unix(),
	})
	if err != nil {
		return err
	}
	p.lastProcessed = &tip
	return nil
}

func (p *ChainPoller) loadProgress() error {
	block, err := p.blockDao.GetLatestProcessedBlock()
	if err != nil {
		return fmt.Errorf("failed to get latest processed block from db, error: %s", err.Error())
	}
	p.lastProcessed = &types.NumHash{Number: block.Number}
	if block.Hash != "" {
		p.lastProcessed.Hash = common.HexToHash(block.Hash)
	}
	if block.Number != 0 {
		logging.Logger.Infof("resume from processed block %d", block.Number)
	}
	return nil
}

func (p *ChainPoller) getNextBlockNum() uint64 {
	nextBlockNum := p.cfg.StartBlock
	if nextBlockNum <= p.lastProcessed.Number {
		nextBlockNum = p.lastProcessed.Number + 1
	}
	return nextBlockNum
}

// getSafeBlockNum returns the highest block that will not be reorganized.
func (p *ChainPoller) getSafeBlockNum(ctx context.Context) (uint64, error) {
	if p.cfg.Confirmations == 0 {
		return p.client.GetFinalizedBlockNum(ctx)
	}
	latest, err := p.client.GetLatestBlockNum(ctx)
	if err != nil {
		return 0, err
	}
	if latest < p.cfg.Confirmations {
		return 0, nil
	}
	return latest - p.cfg.Confirmations, nil
}

func (p *ChainPoller) getBlock(ctx context.Context, height uint64) (*types.Block, error) {
	ctx, cancel := context.WithTimeout(ctx, p.rpcTimeout)
	defer cancel()
	return p.client.GetBlock(ctx, height)
}

func (p *ChainPoller) poll(ctx context.Context) (*types.ChainNotification, error) {
	nextBlockNum := p.getNextBlockNum()
	safeCtx, cancel := context.WithTimeout(ctx, p.rpcTimeout)
	safeBlockNum, err := p.getSafeBlockNum(safeCtx)
	cancel()
	if err != nil {
		return nil, err
	}
	if nextBlockNum > safeBlockNum {
		logging.Logger.Debugf("the next block %d is larger than current safe block %d", nextBlockNum, safeBlockNum)
		return nil, nil
	}
	endBlockNum := min(nextBlockNum+p.cfg.GetMaxBlocksPerNotification()-1, safeBlockNum)

	chain := &types.Chain{Blocks: make([]*types.Block, 0, endBlockNum-nextBlockNum+1)}
	parent := *p.lastProcessed
	for height := nextBlockNum; height <= endBlockNum; height++ {
		block, err := p.getBlock(ctx, height)
		if err != nil {
			return nil, err
		}
		if parent.Number+1 == block.Number && parent.Hash != (common.Hash{}) && block.ParentHash != parent.Hash {
			return nil, fmt.Errorf("%w: block %d has parent %s, expected %s",
				ErrChainDiscontinuity, block.Number, block.ParentHash.Hex(), parent.Hash.Hex())
		}
		chain.Blocks = append(chain.Blocks, block)
		parent = block.NumHash()
	}
	return &types.ChainNotification{Committed: chain}, nil
}
