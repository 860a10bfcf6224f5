package external

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/bnb-chain/da-syncer/config"
	"github.com/bnb-chain/da-syncer/types"
)

type IClient interface {
	GetLatestBlockNum(ctx context.Context) (uint64, error)
	GetFinalizedBlockNum(ctx context.Context) (uint64, error)
	// GetBlock returns the block at height together with the receipts of its transactions.
	GetBlock(ctx context.Context, height uint64) (*types.Block, error)
}

type Client struct {
	ethClient *ethclient.Client
	cfg       *config.ChainConfig
}

func NewClient(cfg *config.ChainConfig) IClient {
	ethClient, err := ethclient.Dial(cfg.RPCAddrs[0])
	if err != nil {
		panic(fmt.Sprintf("new eth client error, err=%s", err.Error()))
	}
	return &Client{
		ethClient: ethClient,
		cfg:       cfg,
	}
}

func (c *Client) GetLatestBlockNum(ctx context.Context) (uint64, error) {
	return c.ethClient.BlockNumber(ctx)
}

func (c *Client) GetFinalizedBlockNum(ctx context.Context) (uint64, error) {
	header, err := c.ethClient.HeaderByNumber(ctx, big.NewInt(int64(rpc.FinalizedBlockNumber)))
	if err != nil {
		return 0, err
	}
	if header == nil || header.Number == nil {
		return 0, ethereum.NotFound
	}
	return header.Number.Uint64(), nil
}

func (c *Client) GetBlock(ctx context.Context, height uint64) (*types.Block, error) {
	block, err := c.ethClient.BlockByNumber(ctx, new(big.Int).SetUint64(height))
	if err != nil {
		return nil, fmt.Errorf("failed to get block at height %d, err=%w", height, err)
	}
	receipts, err := c.ethClient.BlockReceipts(ctx, rpc.BlockNumberOrHashWithHash(block.Hash(), true))
	if err != nil {
		return nil, fmt.Errorf("failed to get receipts of block %d, err=%w", height, err)
	}
	txs := block.Transactions()
	return &types.Block{
		Number:       block.NumberU64(),
		Hash:         block.Hash(),
		ParentHash:   block.ParentHash(),
		Transactions: txs,
		Receipts:     alignReceipts(len(txs), receipts),
	}, nil
}

// alignReceipts places every receipt at the position of its transaction.
func alignReceipts(txCount int, receipts []*ethtypes.Receipt) []*ethtypes.Receipt {
	aligned := make([]*ethtypes.Receipt, txCount)
	for _, r := range receipts {
		if r == nil || int(r.TransactionIndex) >= txCount {
			continue
		}
		aligned[r.TransactionIndex] = r
	}
	return aligned
}
