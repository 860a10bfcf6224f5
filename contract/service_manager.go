package contract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/bnb-chain/da-syncer/types"
)

const serviceManagerABI = `[
	{
		"anonymous": false,
		"type": "event",
		"name": "BatchConfirmed",
		"inputs": [
			{"indexed": true, "name": "batchHeaderHash", "type": "bytes32", "internalType": "bytes32"},
			{"indexed": false, "name": "batchId", "type": "uint32", "internalType": "uint32"}
		]
	}
]`

const BatchConfirmedEventName = "BatchConfirmed"

var (
	ErrNoTopics          = errors.New("log has no topics")
	ErrSignatureMismatch = errors.New("log signature does not match BatchConfirmed")

	serviceManager = mustParseABI(serviceManagerABI)

	// BatchConfirmedEvent is keccak256("BatchConfirmed(bytes32,uint32)").
	BatchConfirmedEvent = serviceManager.Events[BatchConfirmedEventName]
)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed
}

// DecodeStatus tags the outcome of decoding a log as BatchConfirmed.
type DecodeStatus int

const (
	Decoded DecodeStatus = iota
	SignatureMismatch
	Malformed
)

func (s DecodeStatus) String() string {
	switch s {
	case Decoded:
		return "decoded"
	case SignatureMismatch:
		return "signature_mismatch"
	case Malformed:
		return "malformed"
	default:
		return "unknown"
	}
}

type DecodeResult struct {
	Status DecodeStatus
	Event  *types.BatchConfirmedEvent // only set when Status is Decoded
	Err    error
}

// DecodeBatchConfirmed decodes a raw log as BatchConfirmed(bytes32 indexed batchHeaderHash, uint32 batchId).
// It never panics on foreign logs; anything that is not a well formed BatchConfirmed is reported
// through the result status.
func DecodeBatchConfirmed(log *ethtypes.Log) DecodeResult {
	if log == nil || len(log.Topics) == 0 {
		return DecodeResult{Status: SignatureMismatch, Err: ErrNoTopics}
	}
	if log.Topics[0] != BatchConfirmedEvent.ID {
		return DecodeResult{Status: SignatureMismatch, Err: ErrSignatureMismatch}
	}
	if len(log.Topics) != 2 {
		return malformed(fmt.Errorf("expected 2 topics, got %d", len(log.Topics)))
	}
	nonIndexed := BatchConfirmedEvent.Inputs.NonIndexed()
	if len(log.Data) != len(nonIndexed)*common.HashLength {
		return malformed(fmt.Errorf("expected %d bytes of data, got %d", len(nonIndexed)*common.HashLength, len(log.Data)))
	}
	values, err := nonIndexed.Unpack(log.Data)
	if err != nil {
		return malformed(err)
	}
	batchId, ok := values[0].(uint32)
	if !ok {
		return malformed(fmt.Errorf("unexpected batchId type %T", values[0]))
	}
	return DecodeResult{
		Status: Decoded,
		Event: &types.BatchConfirmedEvent{
			BatchHeaderHash: log.Topics[1],
			BatchId:         batchId,
		},
	}
}

func malformed(err error) DecodeResult {
	return DecodeResult{Status: Malformed, Err: fmt.Errorf("malformed BatchConfirmed log: %w", err)}
}

// PackBatchConfirmed builds the topics and data of a BatchConfirmed log.
func PackBatchConfirmed(batchHeaderHash common.Hash, batchId uint32) ([]common.Hash, []byte, error) {
	data, err := BatchConfirmedEvent.Inputs.NonIndexed().Pack(batchId)
	if err != nil {
		return nil, nil, err
	}
	return []common.Hash{BatchConfirmedEvent.ID, batchHeaderHash}, data, nil
}
