package market

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"futarchyscope/internal/model"
)

// SwapDecoder decodes OutcomeSwap logs into SwapEvent records.
type SwapDecoder struct {
	eventID common.Hash
	inputs  abi.Arguments
}

// NewSwapDecoder parses the AMM ABI and binds the OutcomeSwap event.
func NewSwapDecoder() (*SwapDecoder, error) {
	parsed, err := FutarchyAmmABI()
	if err != nil {
		return nil, fmt.Errorf("parse amm abi: %w", err)
	}

	event, ok := parsed.Events["OutcomeSwap"]
	if !ok {
		return nil, fmt.Errorf("abi is missing OutcomeSwap")
	}

	return &SwapDecoder{
		eventID: event.ID,
		inputs:  event.Inputs.NonIndexed(),
	}, nil
}

// Topic0 returns the OutcomeSwap event signature hash.
func (d *SwapDecoder) Topic0() common.Hash {
	return d.eventID
}

// CanDecode reports whether the log carries an OutcomeSwap event.
func (d *SwapDecoder) CanDecode(log types.Log) bool {
	return len(log.Topics) == 3 && log.Topics[0] == d.eventID
}

// Decode converts an OutcomeSwap log into a SwapEvent.
func (d *SwapDecoder) Decode(chainID uint64, log types.Log, timestamp uint64) (*model.SwapEvent, error) {
	if !d.CanDecode(log) {
		return nil, fmt.Errorf("log is not an OutcomeSwap event")
	}

	values, err := d.inputs.Unpack(log.Data)
	if err != nil {
		return nil, fmt.Errorf("unpack OutcomeSwap: %w", err)
	}
	if len(values) != 4 {
		return nil, fmt.Errorf("unexpected OutcomeSwap field count: %d", len(values))
	}

	isBuy, ok := values[0].(bool)
	if !ok {
		return nil, fmt.Errorf("isBuy type mismatch")
	}
	priceRaw, ok := values[1].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("priceRaw type mismatch")
	}
	assetAfter, err := reserveValue(values[2], "assetReserveAfter")
	if err != nil {
		return nil, err
	}
	stableAfter, err := reserveValue(values[3], "stableReserveAfter")
	if err != nil {
		return nil, err
	}

	outcome := new(big.Int).SetBytes(log.Topics[2].Bytes())
	if !outcome.IsInt64() || outcome.Int64() > 255 {
		return nil, fmt.Errorf("outcome index out of range: %s", outcome)
	}

	return &model.SwapEvent{
		ChainID:            chainID,
		Market:             log.Address.Hex(),
		BlockNumber:        log.BlockNumber,
		TxHash:             log.TxHash.Hex(),
		LogIndex:           uint64(log.Index),
		Timestamp:          int64(timestamp),
		OutcomeIndex:       int(outcome.Int64()),
		IsBuy:              isBuy,
		PriceRaw:           priceRaw.String(),
		AssetReserveAfter:  assetAfter,
		StableReserveAfter: stableAfter,
	}, nil
}

func reserveValue(value interface{}, name string) (uint64, error) {
	reserve, ok := value.(*big.Int)
	if !ok {
		return 0, fmt.Errorf("%s type mismatch", name)
	}
	if reserve.Sign() < 0 || !reserve.IsUint64() {
		return 0, fmt.Errorf("%s out of range: %s", name, reserve)
	}
	return reserve.Uint64(), nil
}
